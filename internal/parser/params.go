package parser

import "strings"

// matchingParen returns the index of the parenthesis closing the one at open,
// or -1 when the list never closes. Quoted strings are skipped.
func matchingParen(content string, open int) int {
	depth := 0
	var quote byte
	for i := open; i < len(content); i++ {
		ch := content[i]
		if quote != 0 {
			if ch == '\\' {
				i++
			} else if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '"', '\'', '`':
			quote = ch
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// SplitParameters splits a raw parameter list on top-level commas. Commas
// nested in (), [], {} or <> and inside quotes do not split. Tokens are
// trimmed and empty tokens are dropped, so an empty list yields no parameters.
func SplitParameters(raw string) []string {
	params := []string{}
	depth := 0
	var quote byte
	start := 0

	flush := func(end int) {
		if token := strings.TrimSpace(raw[start:end]); token != "" {
			params = append(params, token)
		}
	}

	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		if quote != 0 {
			if ch == '\\' {
				i++
			} else if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '"', '\'', '`':
			quote = ch
		case '(', '[', '{', '<':
			depth++
		case ')', ']', '}', '>':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				flush(i)
				start = i + 1
			}
		}
	}
	flush(len(raw))

	return params
}
