package parser

// FunctionDescriptor describes one function found by a FunctionExtractor
type FunctionDescriptor struct {
	Name         string   `json:"name"`
	Parameters   []string `json:"parameters"`
	StartLine    int      `json:"start_line"`
	EndLine      int      `json:"end_line"`
	BodyLines    []string `json:"-"`
	NestingDepth int      `json:"nesting_depth"`
}

// Length returns the number of body lines
func (f FunctionDescriptor) Length() int {
	return len(f.BodyLines)
}

// IdentifierRole is the syntactic role an identifier was declared in
type IdentifierRole string

const (
	RoleType     IdentifierRole = "type"
	RoleFunction IdentifierRole = "function"
	RoleConstant IdentifierRole = "constant"
	RoleVariable IdentifierRole = "variable"
)

// Roles returns every identifier role in evaluation order
func Roles() []IdentifierRole {
	return []IdentifierRole{RoleType, RoleFunction, RoleConstant, RoleVariable}
}

// IdentifierOccurrence is one declared name
type IdentifierOccurrence struct {
	Role   IdentifierRole `json:"role"`
	Name   string         `json:"name"`
	File   string         `json:"file"`
	Line   int            `json:"line"`
	Offset int            `json:"-"`
}

// Identifiers groups occurrences by role
type Identifiers map[IdentifierRole][]IdentifierOccurrence

// Count returns the total number of occurrences across all roles
func (ids Identifiers) Count() int {
	n := 0
	for _, occ := range ids {
		n += len(occ)
	}
	return n
}
