package rules

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tildaslashalef/prreview/internal/parser"
	"github.com/tildaslashalef/prreview/internal/review"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 50, cfg.LengthThreshold)
	assert.Equal(t, 5, cfg.ParamThreshold)
	assert.Equal(t, 3, cfg.NestingThreshold)
	assert.Equal(t, LineResolutionExact, cfg.LineResolution)
	assert.Len(t, cfg.NamingConventions, len(parser.Roles()))
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		contains []string
	}{
		{
			name:     "non-positive length threshold",
			mutate:   func(c *Config) { c.LengthThreshold = 0 },
			contains: []string{"length threshold"},
		},
		{
			name:     "negative parameter threshold",
			mutate:   func(c *Config) { c.ParamThreshold = -1 },
			contains: []string{"parameter threshold"},
		},
		{
			name:     "zero nesting threshold",
			mutate:   func(c *Config) { c.NestingThreshold = 0 },
			contains: []string{"nesting threshold"},
		},
		{
			name:     "empty issue table",
			mutate:   func(c *Config) { c.IssuePatterns = nil },
			contains: []string{"issue pattern table is empty"},
		},
		{
			name:     "empty identifier table",
			mutate:   func(c *Config) { c.IdentifierPatterns = parser.PatternTable{} },
			contains: []string{"identifier pattern table is empty"},
		},
		{
			name:     "empty naming table",
			mutate:   func(c *Config) { c.NamingConventions = nil },
			contains: []string{"naming convention table is empty"},
		},
		{
			name: "bad issue pattern",
			mutate: func(c *Config) {
				c.IssuePatterns = append(c.IssuePatterns, IssuePattern{ID: "broken", Severity: "urgent"})
			},
			contains: []string{"issue pattern broken has no pattern", `unknown severity "urgent"`},
		},
		{
			name:     "unknown line resolution",
			mutate:   func(c *Config) { c.LineResolution = "fuzzy" },
			contains: []string{"line resolution"},
		},
		{
			name: "several problems at once",
			mutate: func(c *Config) {
				c.LengthThreshold = 0
				c.IssuePatterns = nil
			},
			contains: []string{"length threshold", "issue pattern table is empty"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
			for _, s := range tt.contains {
				assert.Contains(t, err.Error(), s)
			}
		})
	}
}

func TestDisablePatterns(t *testing.T) {
	cfg := DefaultConfig()
	disabled := cfg.DisablePatterns("debug-code", " empty-catch ")

	for _, p := range disabled.IssuePatterns {
		assert.NotEqual(t, "debug-code", p.ID)
		assert.NotEqual(t, "empty-catch", p.ID)
	}
	assert.Len(t, disabled.IssuePatterns, len(cfg.IssuePatterns)-2)
	assert.Len(t, DefaultConfig().IssuePatterns, len(cfg.IssuePatterns), "original config is left untouched")
}

func TestParseLineResolution(t *testing.T) {
	r, err := ParseLineResolution("First-Occurrence")
	require.NoError(t, err)
	assert.Equal(t, LineResolutionFirstOccurrence, r)

	r, err = ParseLineResolution("")
	require.NoError(t, err)
	assert.Equal(t, LineResolutionExact, r)

	_, err = ParseLineResolution("nearest")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestDefaultIssuePatternSeverities(t *testing.T) {
	for _, p := range DefaultIssuePatterns() {
		assert.True(t, p.Severity.Valid(), p.ID)
		assert.NotNil(t, p.Pattern, p.ID)
	}
	assert.Equal(t, review.SeverityHigh, DefaultIssuePatterns()[0].Severity)
}
