package parser

import (
	"regexp"
	"sort"
	"strings"
)

var (
	// function name(...) including async, generator and generic forms
	braceDeclPattern = regexp.MustCompile(`\bfunction\b[ \t]*\*?[ \t]*([A-Za-z_$][\w$]*)[ \t]*(?:<[^<>()]*>)?[ \t]*\(`)
	// const name = function (...)
	braceExprPattern = regexp.MustCompile(`\b(?:const|let|var)\s+([A-Za-z_$][\w$]*)(?:\s*:[^=;\n]+)?\s*=\s*(?:async\s+)?function\b\s*\*?\s*(?:[A-Za-z_$][\w$]*)?\s*\(`)
	// const name = (...) => or const name = arg =>
	braceArrowPattern = regexp.MustCompile(`\b(?:const|let|var)\s+([A-Za-z_$][\w$]*)(?:\s*:[^=;\n]+)?\s*=\s*(?:async\s*)?(?:(\()|([A-Za-z_$][\w$]*)\s*=>)`)
	arrowTailPattern  = regexp.MustCompile(`^\s*(?::[^=;{]+)?=>`)
)

// BraceExtractor finds functions in brace-delimited source. It recognizes
// named declarations, function expressions assigned to a name and arrow
// functions assigned to a name.
//
// The body is bounded by counting braces line by line from the first opening
// brace after the signature until the count returns to zero. Braces inside
// strings and comments are counted too.
type BraceExtractor struct{}

// NewBraceExtractor creates the extractor for FamilyBraceDelimited
func NewBraceExtractor() *BraceExtractor {
	return &BraceExtractor{}
}

// Family implements FunctionExtractor
func (e *BraceExtractor) Family() Family {
	return FamilyBraceDelimited
}

type braceSignature struct {
	start    int
	end      int
	name     string
	params   []string
	bodyFrom int
	arrow    bool
}

// ExtractFunctions implements FunctionExtractor
func (e *BraceExtractor) ExtractFunctions(content string) []FunctionDescriptor {
	functions := []FunctionDescriptor{}
	lines := splitLines(content)
	index := NewLineIndex(content)

	lastEnd := -1
	for _, sig := range braceSignatures(content) {
		// a named function expression also matches the declaration pattern
		if sig.start < lastEnd {
			continue
		}
		lastEnd = sig.end

		fn := FunctionDescriptor{
			Name:       sig.name,
			Parameters: sig.params,
			StartLine:  index.Line(sig.start),
		}
		fn.EndLine = fn.StartLine

		if open := bodyOpen(content, sig.bodyFrom, sig.arrow); open >= 0 {
			fn.BodyLines, fn.EndLine, fn.NestingDepth = braceBody(lines, index, open)
		}

		functions = append(functions, fn)
	}

	return functions
}

// braceSignatures collects candidates from every shape, sorted by position
func braceSignatures(content string) []braceSignature {
	var sigs []braceSignature

	withParams := func(m []int, open int) braceSignature {
		sig := braceSignature{start: m[0], end: m[1], name: content[m[2]:m[3]], params: []string{}, bodyFrom: m[1]}
		if closing := matchingParen(content, open); closing >= 0 {
			sig.params = SplitParameters(content[open+1 : closing])
			sig.bodyFrom = closing + 1
		}
		return sig
	}

	for _, m := range braceDeclPattern.FindAllStringSubmatchIndex(content, -1) {
		sigs = append(sigs, withParams(m, m[1]-1))
	}
	for _, m := range braceExprPattern.FindAllStringSubmatchIndex(content, -1) {
		sigs = append(sigs, withParams(m, m[1]-1))
	}
	for _, m := range braceArrowPattern.FindAllStringSubmatchIndex(content, -1) {
		if m[4] >= 0 {
			sig := withParams(m, m[4])
			tail := arrowTailPattern.FindStringIndex(content[sig.bodyFrom:])
			if tail == nil {
				continue
			}
			sig.bodyFrom += tail[1]
			sig.arrow = true
			sigs = append(sigs, sig)
			continue
		}
		sigs = append(sigs, braceSignature{
			start:    m[0],
			end:      m[1],
			name:     content[m[2]:m[3]],
			params:   []string{content[m[6]:m[7]]},
			bodyFrom: m[1],
			arrow:    true,
		})
	}

	sort.SliceStable(sigs, func(i, j int) bool { return sigs[i].start < sigs[j].start })
	return sigs
}

// bodyOpen finds the brace opening the body. Arrow functions need the brace
// right after the arrow; other shapes take the first brace before a semicolon.
func bodyOpen(content string, from int, arrow bool) int {
	if from >= len(content) {
		return -1
	}
	if arrow {
		trimmed := strings.TrimLeft(content[from:], " \t\r\n")
		if strings.HasPrefix(trimmed, "{") {
			return len(content) - len(trimmed)
		}
		return -1
	}
	for i := from; i < len(content); i++ {
		switch content[i] {
		case '{':
			return i
		case ';':
			return -1
		}
	}
	return -1
}

// braceBody counts braces per line from the opening brace at open. It returns
// the body lines, the 1-based line that closed the count and the deepest
// brace level reached inside the function's own block.
func braceBody(lines []string, index *LineIndex, open int) ([]string, int, int) {
	first := index.Line(open)
	col := open - index.Start(first)

	var body []string
	count, maxCount := 0, 0
	end := first

	for ln := first; ln <= len(lines); ln++ {
		line := lines[ln-1]
		segment := line
		if ln == first && col <= len(line) {
			segment = line[col:]
		}

		for i := 0; i < len(segment); i++ {
			switch segment[i] {
			case '{':
				count++
				if count > maxCount {
					maxCount = count
				}
			case '}':
				count--
			}
		}

		body = append(body, line)
		end = ln
		if count <= 0 {
			break
		}
	}

	depth := maxCount - 1
	if depth < 0 {
		depth = 0
	}
	return body, end, depth
}
