// Package review holds the finding model produced by the rule engines and
// the aggregator that collects findings across a run.
package review

import (
	"fmt"
	"strings"
)

// ReviewType represents where the analyzed change set came from
type ReviewType string

const (
	// ReviewTypeStaged represents a review of staged changes
	ReviewTypeStaged ReviewType = "staged"
	// ReviewTypeCommit represents a review of changes in a commit
	ReviewTypeCommit ReviewType = "commit"
	// ReviewTypeBranch represents a review of differences between branches
	ReviewTypeBranch ReviewType = "branch"
	// ReviewTypeDirectory represents a review of every file under a directory
	ReviewTypeDirectory ReviewType = "directory"
	// ReviewTypePullRequest represents a review of a GitHub pull request
	ReviewTypePullRequest ReviewType = "pull_request"
)

// Severity is the ordinal urgency of a finding
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Severities returns every severity from most to least urgent
func Severities() []Severity {
	return []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}
}

// Rank orders severities; higher is more urgent and unknown values rank 0
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Valid reports whether s is one of the known severities
func (s Severity) Valid() bool {
	return s.Rank() > 0
}

// Blocking reports whether findings of this severity should fail a run
func (s Severity) Blocking() bool {
	return s.Rank() >= SeverityHigh.Rank()
}

// ParseSeverity parses a case-insensitive severity name
func ParseSeverity(value string) (Severity, error) {
	s := Severity(strings.ToLower(strings.TrimSpace(value)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown severity: %q", value)
	}
	return s, nil
}

// Category groups findings by the engine that produced them
type Category string

const (
	CategoryNamingConvention Category = "naming_convention"
	CategoryComplexity       Category = "complexity"
	CategoryPatternIssue     Category = "pattern_issue"
)

// Title returns a human readable label for the category
func (c Category) Title() string {
	switch c {
	case CategoryNamingConvention:
		return "Naming Convention"
	case CategoryComplexity:
		return "Complexity"
	case CategoryPatternIssue:
		return "Pattern Issue"
	default:
		return string(c)
	}
}

// Finding is a single reported issue. Findings are values; once produced by
// a rule engine they are only read.
type Finding struct {
	File     string   `json:"file"`
	Line     int      `json:"line"`
	Category Category `json:"category"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Rule     string   `json:"rule"`

	// naming findings
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`

	// complexity findings
	Function  string `json:"function,omitempty"`
	Metric    string `json:"metric,omitempty"`
	Value     int    `json:"value,omitempty"`
	Threshold int    `json:"threshold,omitempty"`

	// pattern findings
	Match string `json:"match,omitempty"`
}

// Subject returns the most specific thing the finding is about
func (f Finding) Subject() string {
	switch {
	case f.Name != "":
		return f.Name
	case f.Function != "":
		return f.Function
	default:
		return f.Match
	}
}

// Location formats the finding position as path:line
func (f Finding) Location() string {
	return fmt.Sprintf("%s:%d", f.File, f.Line)
}
