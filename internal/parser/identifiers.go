package parser

import (
	"regexp"
	"sort"
)

// PatternDescriptor is one identifier extraction pattern. Every non-empty
// capture group of a match is an independent occurrence. Captures matching
// Exclude are dropped, which lets a broad pattern skip names that a more
// specific role already claims. TopLevel drops captures on lines that begin
// inside an unclosed bracket, such as keyword arguments of a wrapped call.
type PatternDescriptor struct {
	Expr     *regexp.Regexp
	Exclude  *regexp.Regexp
	TopLevel bool
}

// PatternTable holds the ordered extraction patterns per family and role
type PatternTable map[Family]map[IdentifierRole][]PatternDescriptor

// Len returns the number of descriptors in the table
func (t PatternTable) Len() int {
	n := 0
	for _, roles := range t {
		for _, descriptors := range roles {
			n += len(descriptors)
		}
	}
	return n
}

// Clone returns a copy of the table that can be modified without affecting t
func (t PatternTable) Clone() PatternTable {
	out := make(PatternTable, len(t))
	for family, roles := range t {
		out[family] = make(map[IdentifierRole][]PatternDescriptor, len(roles))
		for role, descriptors := range roles {
			out[family][role] = append([]PatternDescriptor(nil), descriptors...)
		}
	}
	return out
}

var constantShape = regexp.MustCompile(`^_*[A-Z][A-Z0-9_]*$`)

// DefaultIdentifierPatterns returns the built-in extraction table
func DefaultIdentifierPatterns() PatternTable {
	return PatternTable{
		FamilyIndentationDelimited: {
			RoleType: {
				{Expr: regexp.MustCompile(`(?m)^[ \t]*class[ \t]+([A-Za-z_]\w*)`)},
			},
			RoleFunction: {
				{Expr: regexp.MustCompile(`(?m)^[ \t]*(?:async[ \t]+)?def[ \t]+([A-Za-z_]\w*)`)},
			},
			RoleConstant: {
				{Expr: regexp.MustCompile(`(?m)^([A-Z][A-Z0-9_]+)[ \t]*=(?:[^=]|$)`)},
			},
			RoleVariable: {
				{
					Expr:     regexp.MustCompile(`(?m)^[ \t]*([A-Za-z_]\w*)[ \t]*=(?:[^=]|$)`),
					Exclude:  constantShape,
					TopLevel: true,
				},
			},
		},
		FamilyBraceDelimited: {
			RoleType: {
				{Expr: regexp.MustCompile(`\b(?:class|interface)\s+([A-Za-z_$][\w$]*)`)},
			},
			RoleFunction: {
				{Expr: regexp.MustCompile(`\bfunction\b\s*\*?\s*([A-Za-z_$][\w$]*)\s*[<(]|\b(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*=\s*(?:async\s*)?(?:function\b|\([^()]*\)\s*=>|[A-Za-z_$][\w$]*\s*=>)`)},
			},
			RoleConstant: {
				{Expr: regexp.MustCompile(`\bconst\s+([A-Z][A-Z0-9_]+)\s*=`)},
			},
			RoleVariable: {
				{
					Expr:    regexp.MustCompile(`\b(?:let|var|const)\s+([A-Za-z_$][\w$]*)\s*=`),
					Exclude: constantShape,
				},
			},
		},
	}
}

// IdentifierExtractor finds declared names using a PatternTable
type IdentifierExtractor struct {
	patterns PatternTable
}

// NewIdentifierExtractor creates an extractor over patterns
func NewIdentifierExtractor(patterns PatternTable) *IdentifierExtractor {
	return &IdentifierExtractor{patterns: patterns}
}

// ExtractIdentifiers returns the occurrences in content grouped by role. Line
// numbers come from the match position. A name claimed by an earlier role in
// Roles order is not reported again under a later one. FamilyUnknown yields
// an empty map.
func (e *IdentifierExtractor) ExtractIdentifiers(file, content string, family Family) Identifiers {
	ids := Identifiers{}
	roles, ok := e.patterns[family]
	if !ok {
		return ids
	}

	index := NewLineIndex(content)
	var depths []int
	seen := make(map[int]bool)
	for _, role := range Roles() {
		var found []IdentifierOccurrence

		for _, descriptor := range roles[role] {
			if descriptor.Expr == nil {
				continue
			}
			if descriptor.TopLevel && depths == nil {
				depths = lineBracketDepths(content)
			}
			for _, m := range descriptor.Expr.FindAllStringSubmatchIndex(content, -1) {
				for g := 2; g+1 < len(m); g += 2 {
					start, end := m[g], m[g+1]
					if start < 0 || start == end || seen[start] {
						continue
					}
					line := index.Line(start)
					if descriptor.TopLevel && depths[line-1] > 0 {
						continue
					}
					name := content[start:end]
					if descriptor.Exclude != nil && descriptor.Exclude.MatchString(name) {
						continue
					}
					seen[start] = true
					found = append(found, IdentifierOccurrence{
						Role:   role,
						Name:   name,
						File:   file,
						Line:   line,
						Offset: start,
					})
				}
			}
		}

		if len(found) > 0 {
			sort.SliceStable(found, func(i, j int) bool { return found[i].Offset < found[j].Offset })
			ids[role] = found
		}
	}

	return ids
}

// lineBracketDepths returns, per line, the number of brackets left open by
// the preceding lines. Quoted strings and # comments are skipped, a string
// never spans lines and a stray closer does not go below zero.
func lineBracketDepths(content string) []int {
	depths := []int{0}
	depth := 0
	var quote byte
	comment := false

	for i := 0; i < len(content); i++ {
		c := content[i]
		switch {
		case c == '\n':
			quote, comment = 0, false
			depths = append(depths, depth)
		case comment:
		case quote != 0:
			if c == '\\' && i+1 < len(content) && content[i+1] != '\n' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '#':
			comment = true
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			if depth > 0 {
				depth--
			}
		}
	}

	return depths
}
