package cssom

import (
	"strings"
)

// SplitSelectorList splits a selector list at top-level commas. Commas within
// parentheses, brackets or quoted strings are not split points. The parts are
// returned trimmed; empty parts are retained, so that clients may recognize
// malformed lists like "a,,b".
func SplitSelectorList(list string) []string {
	var parts []string
	depth := 0
	start := 0
	var quote byte
	for i := 0; i < len(list); i++ {
		c := list[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\\':
			i++
		case '"', '\'':
			quote = c
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(list[start:i]))
				start = i + 1
			}
		}
	}
	parts = append(parts, strings.TrimSpace(list[start:]))
	return parts
}

// NormalizeSelector collapses whitespace in a selector and puts exactly one blank
// around the combinators '>', '+' and '~', e.g.
//
//    "ul>li  +li"  =>  "ul > li + li"
//
// Text within parentheses, brackets or strings is only whitespace-collapsed.
func NormalizeSelector(selector string) string {
	s := CollapseWhitespace(selector)
	b := make([]byte, 0, len(s)+8)
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			b = append(b, c)
			if c == '\\' && i+1 < len(s) {
				i++
				b = append(b, s[i])
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\\':
			b = append(b, c)
			if i+1 < len(s) {
				i++
				b = append(b, s[i])
			}
			continue
		case '"', '\'':
			quote = c
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case '>', '+', '~':
			if depth == 0 {
				for len(b) > 0 && b[len(b)-1] == ' ' {
					b = b[:len(b)-1]
				}
				if len(b) > 0 {
					b = append(b, ' ')
				}
				b = append(b, c, ' ')
				for i+1 < len(s) && s[i+1] == ' ' {
					i++
				}
				continue
			}
		}
		b = append(b, c)
	}
	return strings.TrimSpace(string(b))
}

// StartsWithCombinator is true for relative selectors like "> li".
func StartsWithCombinator(selector string) bool {
	s := strings.TrimSpace(selector)
	return s != "" && (s[0] == '>' || s[0] == '+' || s[0] == '~')
}

// EndsWithCombinator is true for incomplete selectors like "ul >".
func EndsWithCombinator(selector string) bool {
	s := strings.TrimSpace(selector)
	if s == "" {
		return false
	}
	c := s[len(s)-1]
	return (c == '>' || c == '+' || c == '~') && !strings.HasSuffix(s, "\\"+string(c))
}
