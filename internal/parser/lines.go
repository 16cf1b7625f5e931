package parser

import (
	"sort"
	"strings"
)

// LineIndex converts byte offsets into 1-based line numbers
type LineIndex struct {
	starts []int
}

// NewLineIndex indexes the line starts of content
func NewLineIndex(content string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{starts: starts}
}

// Line returns the 1-based line containing offset
func (idx *LineIndex) Line(offset int) int {
	return sort.Search(len(idx.starts), func(i int) bool { return idx.starts[i] > offset })
}

// Start returns the byte offset at which the 1-based line begins
func (idx *LineIndex) Start(line int) int {
	if line < 1 {
		return 0
	}
	if line > len(idx.starts) {
		line = len(idx.starts)
	}
	return idx.starts[line-1]
}

// FirstOccurrenceLine returns the line of the first textual occurrence of
// needle in content, or 1 when it does not occur.
func FirstOccurrenceLine(content, needle string) int {
	if needle == "" {
		return 1
	}
	i := strings.Index(content, needle)
	if i < 0 {
		return 1
	}
	return strings.Count(content[:i], "\n") + 1
}

// splitLines splits content on newlines, dropping a trailing carriage return from each line
func splitLines(content string) []string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// leadingWidth counts leading spaces and tabs, one column each
func leadingWidth(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
