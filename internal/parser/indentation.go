package parser

import "regexp"

var indentedDefPattern = regexp.MustCompile(`(?m)^([ \t]*)(?:async[ \t]+)?def[ \t]+([A-Za-z_]\w*)[ \t]*\(`)

// IndentationExtractor finds `def` functions in indentation-delimited source.
//
// The body starts at the first non-blank line after the signature; its
// leading whitespace is the base width. Lines are collected until a non-blank
// line dedents below the base width. Nested blocks that share indentation
// with sibling statements can be over- or under-captured.
type IndentationExtractor struct{}

// NewIndentationExtractor creates the extractor for FamilyIndentationDelimited
func NewIndentationExtractor() *IndentationExtractor {
	return &IndentationExtractor{}
}

// Family implements FunctionExtractor
func (e *IndentationExtractor) Family() Family {
	return FamilyIndentationDelimited
}

// ExtractFunctions implements FunctionExtractor
func (e *IndentationExtractor) ExtractFunctions(content string) []FunctionDescriptor {
	functions := []FunctionDescriptor{}
	lines := splitLines(content)
	index := NewLineIndex(content)

	for _, m := range indentedDefPattern.FindAllStringSubmatchIndex(content, -1) {
		defIndent := m[3] - m[2]
		name := content[m[4]:m[5]]
		open := m[1] - 1

		params := []string{}
		sigEnd := open
		if closing := matchingParen(content, open); closing >= 0 {
			params = SplitParameters(content[open+1 : closing])
			sigEnd = closing
		}

		sigLine := index.Line(sigEnd)
		body, firstBodyLine, depth := indentedBody(lines, sigLine, defIndent)

		endLine := sigLine
		if len(body) > 0 {
			endLine = firstBodyLine + len(body) - 1
		}

		functions = append(functions, FunctionDescriptor{
			Name:         name,
			Parameters:   params,
			StartLine:    index.Line(m[0]),
			EndLine:      endLine,
			BodyLines:    body,
			NestingDepth: depth,
		})
	}

	return functions
}

// indentedBody collects the body following the signature that ends on
// sigLine. It returns the body lines, the 1-based line of the first body line
// and the deepest indentation level reached beyond the base.
func indentedBody(lines []string, sigLine, defIndent int) ([]string, int, int) {
	i := sigLine
	for i < len(lines) && isBlank(lines[i]) {
		i++
	}
	if i >= len(lines) {
		return nil, 0, 0
	}

	base := leadingWidth(lines[i])
	if base <= defIndent {
		// single-line definition or no body at all
		return nil, 0, 0
	}

	first := i + 1
	var body []string
	levels := []int{base}
	maxDepth := 0

	for ; i < len(lines); i++ {
		line := lines[i]
		if isBlank(line) {
			body = append(body, line)
			continue
		}

		width := leadingWidth(line)
		if width < base {
			break
		}

		for len(levels) > 1 && width < levels[len(levels)-1] {
			levels = levels[:len(levels)-1]
		}
		if width > levels[len(levels)-1] {
			levels = append(levels, width)
		}
		if depth := len(levels) - 1; depth > maxDepth {
			maxDepth = depth
		}

		body = append(body, line)
	}

	for len(body) > 0 && isBlank(body[len(body)-1]) {
		body = body[:len(body)-1]
	}

	return body, first, maxDepth
}
