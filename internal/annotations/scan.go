package annotations

import "strings"

// groupInner returns the text between the delimiter at open and its match.
func groupInner(s string, open int) (string, bool) {
	end := matchDelim(s, open)
	if end < 0 {
		return "", false
	}
	return s[open+1 : end], true
}

// matchDelim returns the offset of the delimiter closing the one at open,
// skipping quoted literals, or -1.
func matchDelim(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch c := s[i]; c {
		case '"', '\'':
			i = skipQuoted(s, i, c)
		case '`':
			j := strings.IndexByte(s[i+1:], '`')
			if j < 0 {
				return -1
			}
			i += j + 1
		case '[', '(', '{':
			depth++
		case ']', ')', '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func skipQuoted(s string, i int, quote byte) int {
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case quote:
			return j
		}
	}
	return len(s)
}

// typeExprText returns the type expression starting at start. It ends at a
// comma, semicolon or unmatched closing delimiter at depth zero.
func typeExprText(s string, start int) string {
	depth := 0
	i := start
loop:
	for ; i < len(s); i++ {
		switch c := s[i]; c {
		case '"', '\'':
			i = skipQuoted(s, i, c)
		case '`':
			j := strings.IndexByte(s[i+1:], '`')
			if j < 0 {
				i = len(s)
				break loop
			}
			i += j + 1
		case '[', '(', '{':
			depth++
		case ']', ')', '}':
			if depth == 0 {
				break loop
			}
			depth--
		case ',', ';':
			if depth == 0 {
				break loop
			}
		}
	}
	if i > len(s) {
		i = len(s)
	}
	return strings.TrimSpace(s[start:i])
}
