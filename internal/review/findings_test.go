package review

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func finding(file string, category Category, severity Severity, message string) Finding {
	return Finding{File: file, Line: 1, Category: category, Severity: severity, Message: message}
}

func TestFindingSet_CountBySeverity(t *testing.T) {
	set := NewFindingSet()
	set.Add(
		finding("a.py", CategoryPatternIssue, SeverityHigh, "secret"),
		finding("a.py", CategoryNamingConvention, SeverityMedium, "naming"),
		finding("b.js", CategoryComplexity, SeverityMedium, "long"),
	)

	counts := set.CountBySeverity()
	assert.Equal(t, 0, counts[SeverityCritical])
	assert.Equal(t, 1, counts[SeverityHigh])
	assert.Equal(t, 2, counts[SeverityMedium])
	assert.Equal(t, 0, counts[SeverityLow])
	assert.Equal(t, 3, counts.Total())

	bySeverity := set.BySeverity()
	assert.Len(t, bySeverity[SeverityMedium], 2)
	assert.Equal(t, "naming", bySeverity[SeverityMedium][0].Message)
}

func TestFindingSet_ByCategoryPreservesOrder(t *testing.T) {
	set := NewFindingSet()
	set.Add(
		finding("a.py", CategoryComplexity, SeverityMedium, "first"),
		finding("a.py", CategoryNamingConvention, SeverityMedium, "second"),
		finding("b.py", CategoryComplexity, SeverityMedium, "third"),
	)

	groups := set.ByCategory()
	require.Len(t, groups, 2)
	assert.Equal(t, CategoryComplexity, groups[0].Category)
	assert.Equal(t, []string{"first", "third"}, []string{groups[0].Findings[0].Message, groups[0].Findings[1].Message})
	assert.Equal(t, CategoryNamingConvention, groups[1].Category)
}

func TestFindingSet_NoDeduplication(t *testing.T) {
	set := NewFindingSet()
	f := finding("a.py", CategoryPatternIssue, SeverityMedium, "Debug code or marker detected")
	set.Add(f)
	set.Add(f)

	assert.Equal(t, 2, set.Len())
	assert.Equal(t, []Finding{f, f}, set.Findings())
}

func TestFindingSet_HasBlocking(t *testing.T) {
	tests := []struct {
		name       string
		severities []Severity
		want       bool
	}{
		{name: "empty", severities: nil, want: false},
		{name: "only medium and low", severities: []Severity{SeverityMedium, SeverityLow}, want: false},
		{name: "one high", severities: []Severity{SeverityLow, SeverityHigh}, want: true},
		{name: "one critical", severities: []Severity{SeverityCritical}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := NewFindingSet()
			for _, s := range tt.severities {
				set.Add(finding("x", CategoryPatternIssue, s, "m"))
			}
			assert.Equal(t, tt.want, set.HasBlocking())
		})
	}
}

func TestFindingSet_HasAtLeast(t *testing.T) {
	set := NewFindingSet()
	set.Add(finding("x", CategoryNamingConvention, SeverityMedium, "m"))

	assert.True(t, set.HasAtLeast(SeverityLow))
	assert.True(t, set.HasAtLeast(SeverityMedium))
	assert.False(t, set.HasAtLeast(SeverityHigh))
}

func TestFindingSet_ConcurrentAdd(t *testing.T) {
	set := NewFindingSet()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			set.Add(finding(fmt.Sprintf("f%d", i), CategoryComplexity, SeverityMedium, "m"))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, set.Len())
}

func TestFindingsAreCopied(t *testing.T) {
	set := NewFindingSet()
	set.Add(finding("a", CategoryComplexity, SeverityMedium, "m"))

	out := set.Findings()
	out[0].Message = "changed"
	assert.Equal(t, "m", set.Findings()[0].Message)
}
