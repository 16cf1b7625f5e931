package rules

import (
	"regexp"

	"github.com/tildaslashalef/prreview/internal/parser"
	"github.com/tildaslashalef/prreview/internal/review"
)

var (
	pascalCase     = regexp.MustCompile(`^_*[A-Z][A-Za-z0-9]*$`)
	lowerLeading   = regexp.MustCompile(`^[_$]*[a-z][A-Za-z0-9_$]*$`)
	upperSnakeCase = regexp.MustCompile(`^_*[A-Z][A-Z0-9_]*$`)
)

// DefaultNamingConventions returns the built-in convention per role
func DefaultNamingConventions() []NamingConvention {
	return []NamingConvention{
		{Role: parser.RoleType, Pattern: pascalCase, Message: "Class names should use PascalCase"},
		{Role: parser.RoleFunction, Pattern: lowerLeading, Message: "Function names should use snake_case or camelCase"},
		{Role: parser.RoleConstant, Pattern: upperSnakeCase, Message: "Constants should use UPPER_SNAKE_CASE"},
		{Role: parser.RoleVariable, Pattern: lowerLeading, Message: "Variable names should use snake_case or camelCase"},
	}
}

// NamingEngine checks identifiers against the convention for their role
type NamingEngine struct {
	cfg    Config
	byRole map[parser.IdentifierRole][]NamingConvention
}

// NewNamingEngine creates a naming engine over cfg
func NewNamingEngine(cfg Config) *NamingEngine {
	byRole := make(map[parser.IdentifierRole][]NamingConvention)
	for _, nc := range cfg.NamingConventions {
		byRole[nc.Role] = append(byRole[nc.Role], nc)
	}
	return &NamingEngine{cfg: cfg, byRole: byRole}
}

// Evaluate returns a Medium finding for every occurrence whose name fails a
// convention registered for its role. Roles are visited in parser.Roles order.
func (e *NamingEngine) Evaluate(file, content string, ids parser.Identifiers) []review.Finding {
	var findings []review.Finding

	for _, role := range parser.Roles() {
		conventions := e.byRole[role]
		for _, occ := range ids[role] {
			for _, nc := range conventions {
				if nc.Pattern == nil || nc.Pattern.MatchString(occ.Name) {
					continue
				}
				findings = append(findings, review.Finding{
					File:     file,
					Line:     e.cfg.resolveLine(content, occ.Name, occ.Line),
					Category: review.CategoryNamingConvention,
					Severity: review.SeverityMedium,
					Message:  nc.Message,
					Rule:     "naming/" + string(role),
					Name:     occ.Name,
					Role:     string(role),
				})
			}
		}
	}

	return findings
}
