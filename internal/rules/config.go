// Package rules holds the rule engines that turn extracted structure and raw
// content into review findings, and the immutable configuration they share.
package rules

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/tildaslashalef/prreview/internal/parser"
	"github.com/tildaslashalef/prreview/internal/review"
)

// ErrInvalidConfig is wrapped by every configuration validation error
var ErrInvalidConfig = errors.New("invalid rule configuration")

// LineResolution selects how findings are attributed to a line
type LineResolution string

const (
	// LineResolutionExact uses the position the match was found at
	LineResolutionExact LineResolution = "exact"
	// LineResolutionFirstOccurrence searches for the first textual occurrence
	// of the name or matched text in the file
	LineResolutionFirstOccurrence LineResolution = "first-occurrence"
)

// ParseLineResolution parses a line resolution mode name
func ParseLineResolution(value string) (LineResolution, error) {
	switch r := LineResolution(strings.ToLower(strings.TrimSpace(value))); r {
	case LineResolutionExact, LineResolutionFirstOccurrence:
		return r, nil
	case "":
		return LineResolutionExact, nil
	default:
		return "", fmt.Errorf("%w: unknown line resolution %q", ErrInvalidConfig, value)
	}
}

// NamingConvention is the regex a name declared in a role must match
type NamingConvention struct {
	Role    parser.IdentifierRole
	Pattern *regexp.Regexp
	Message string
}

// IssuePattern is one entry of the anti-pattern table
type IssuePattern struct {
	ID       string
	Name     string
	Pattern  *regexp.Regexp
	Message  string
	Severity review.Severity
	// Redact masks the matched value before it is stored on the finding
	Redact bool
}

// Config is the rule configuration for a run. It is built once, validated,
// and then only read by the engines.
type Config struct {
	LengthThreshold    int
	ParamThreshold     int
	NestingThreshold   int
	IdentifierPatterns parser.PatternTable
	NamingConventions  []NamingConvention
	IssuePatterns      []IssuePattern
	LineResolution     LineResolution
}

// DefaultConfig returns the built-in thresholds and tables
func DefaultConfig() Config {
	return Config{
		LengthThreshold:    50,
		ParamThreshold:     5,
		NestingThreshold:   3,
		IdentifierPatterns: parser.DefaultIdentifierPatterns(),
		NamingConventions:  DefaultNamingConventions(),
		IssuePatterns:      DefaultIssuePatterns(),
		LineResolution:     LineResolutionExact,
	}
}

// Validate reports every problem with the configuration at once
func (c Config) Validate() error {
	var problems []string

	if c.LengthThreshold <= 0 {
		problems = append(problems, fmt.Sprintf("length threshold must be positive, got %d", c.LengthThreshold))
	}
	if c.ParamThreshold <= 0 {
		problems = append(problems, fmt.Sprintf("parameter threshold must be positive, got %d", c.ParamThreshold))
	}
	if c.NestingThreshold <= 0 {
		problems = append(problems, fmt.Sprintf("nesting threshold must be positive, got %d", c.NestingThreshold))
	}

	if c.IdentifierPatterns.Len() == 0 {
		problems = append(problems, "identifier pattern table is empty")
	}

	if len(c.NamingConventions) == 0 {
		problems = append(problems, "naming convention table is empty")
	}
	for i, nc := range c.NamingConventions {
		if nc.Pattern == nil {
			problems = append(problems, fmt.Sprintf("naming convention %d (%s) has no pattern", i, nc.Role))
		}
	}

	if len(c.IssuePatterns) == 0 {
		problems = append(problems, "issue pattern table is empty")
	}
	for i, p := range c.IssuePatterns {
		label := p.ID
		if label == "" {
			label = fmt.Sprintf("#%d", i)
			problems = append(problems, fmt.Sprintf("issue pattern %s has no id", label))
		}
		if p.Pattern == nil {
			problems = append(problems, fmt.Sprintf("issue pattern %s has no pattern", label))
		}
		if !p.Severity.Valid() {
			problems = append(problems, fmt.Sprintf("issue pattern %s has unknown severity %q", label, p.Severity))
		}
	}

	switch c.LineResolution {
	case LineResolutionExact, LineResolutionFirstOccurrence:
	default:
		problems = append(problems, fmt.Sprintf("unknown line resolution %q", c.LineResolution))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// DisablePatterns returns a copy of c without the issue patterns whose IDs are listed
func (c Config) DisablePatterns(ids ...string) Config {
	if len(ids) == 0 {
		return c
	}
	disabled := make(map[string]bool, len(ids))
	for _, id := range ids {
		disabled[strings.TrimSpace(id)] = true
	}

	kept := make([]IssuePattern, 0, len(c.IssuePatterns))
	for _, p := range c.IssuePatterns {
		if !disabled[p.ID] {
			kept = append(kept, p)
		}
	}
	c.IssuePatterns = kept
	return c
}

// resolveLine picks the line for a finding about text that was found at line
func (c Config) resolveLine(content, text string, line int) int {
	if c.LineResolution == LineResolutionFirstOccurrence {
		return parser.FirstOccurrenceLine(content, text)
	}
	return line
}
