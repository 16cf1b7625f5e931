package rules

import (
	"regexp"
	"strings"

	"github.com/tildaslashalef/prreview/internal/parser"
	"github.com/tildaslashalef/prreview/internal/review"
)

// DefaultIssuePatterns returns the built-in anti-pattern table in evaluation order
func DefaultIssuePatterns() []IssuePattern {
	return []IssuePattern{
		{
			ID:       "hardcoded-secret",
			Name:     "Hardcoded secret",
			Pattern:  regexp.MustCompile(`(?i)\b[\w.-]*(?:password|passwd|pwd|secret|api[_-]?key|access[_-]?key|private[_-]?key|auth[_-]?token|token|credentials?)\w*["']?\s*(?::=|=|:)\s*["'][^"'\n]{4,}["']`),
			Message:  "Potential hardcoded secret detected",
			Severity: review.SeverityHigh,
			Redact:   true,
		},
		{
			ID:       "private-key",
			Name:     "Private key block",
			Pattern:  regexp.MustCompile(`-----BEGIN (?:RSA |EC |DSA |OPENSSH )?PRIVATE KEY-----`),
			Message:  "Private key material detected",
			Severity: review.SeverityCritical,
		},
		{
			ID:       "aws-access-key",
			Name:     "AWS access key ID",
			Pattern:  regexp.MustCompile(`\b(?:AKIA|ASIA)[0-9A-Z]{16}\b`),
			Message:  "AWS access key ID detected",
			Severity: review.SeverityCritical,
			Redact:   true,
		},
		{
			ID:       "debug-code",
			Name:     "Debug code",
			Pattern:  regexp.MustCompile(`\bconsole\.(?:log|debug|trace)\b|\bprint\s*\(|\bdebugger\b|\bpdb\.set_trace\b|\bbreakpoint\s*\(\s*\)|\b(?:TODO|FIXME)\b`),
			Message:  "Debug code or marker detected",
			Severity: review.SeverityMedium,
		},
		{
			ID:       "empty-catch",
			Name:     "Empty catch block",
			Pattern:  regexp.MustCompile(`\bcatch\s*(?:\([^)]*\))?\s*\{\s*\}`),
			Message:  "Empty catch block detected",
			Severity: review.SeverityMedium,
		},
		{
			ID:       "empty-except",
			Name:     "Empty except block",
			Pattern:  regexp.MustCompile(`(?m)^[ \t]*except\b[^:\n]*:[ \t]*(?:(?:#[^\n]*)?\n[ \t]*)?pass\b`),
			Message:  "Empty except block detected",
			Severity: review.SeverityMedium,
		},
	}
}

// PatternEngine scans raw content against the issue pattern table. It does
// not depend on the language family.
type PatternEngine struct {
	cfg Config
}

// NewPatternEngine creates a pattern engine over cfg
func NewPatternEngine(cfg Config) *PatternEngine {
	return &PatternEngine{cfg: cfg}
}

// Evaluate returns one finding per match, patterns in table order and
// matches in text order within a pattern
func (e *PatternEngine) Evaluate(file, content string) []review.Finding {
	var findings []review.Finding
	var index *parser.LineIndex

	for _, p := range e.cfg.IssuePatterns {
		if p.Pattern == nil {
			continue
		}
		for _, m := range p.Pattern.FindAllStringIndex(content, -1) {
			if index == nil {
				index = parser.NewLineIndex(content)
			}
			match := content[m[0]:m[1]]
			reported := match
			if p.Redact {
				reported = redactMatch(match)
			}
			findings = append(findings, review.Finding{
				File:     file,
				Line:     e.cfg.resolveLine(content, match, index.Line(m[0])),
				Category: review.CategoryPatternIssue,
				Severity: p.Severity,
				Message:  p.Message,
				Rule:     "pattern/" + p.ID,
				Match:    reported,
			})
		}
	}

	return findings
}

const redactedPlaceholder = "[REDACTED]"

// redactMatch masks the quoted value that closes match, which for an
// assignment is the secret itself. A match that does not end in a quoted
// value is masked entirely.
func redactMatch(match string) string {
	if len(match) < 2 {
		return redactedPlaceholder
	}
	quote := match[len(match)-1]
	if quote != '"' && quote != '\'' {
		return redactedPlaceholder
	}
	open := strings.LastIndexByte(match[:len(match)-1], quote)
	if open < 0 {
		return redactedPlaceholder
	}
	return match[:open+1] + redactedPlaceholder + match[len(match)-1:]
}
