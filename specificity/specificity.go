package specificity

import (
	"strings"

	"github.com/andybalholm/cascadia"
)

// Weights of the selector categories.
const (
	IDWeight      = 100 // #foo
	ClassWeight   = 10  // .foo, [attr], :hover
	ElementWeight = 1   // div, ::before
)

// Of returns the flattened specificity of a selector text, e.g.
//
//    Of("div > p.note")  => 12
//    Of("#nav a:hover")  => 111
//
// Of never fails: fragments it cannot make sense of contribute 0.
// If selector is a selector list, the weights of all list members are summed up;
// clients should split selector lists before asking (the parser does).
func Of(selector string) int {
	sc := selectorScanner{input: selector}
	return sc.weigh()
}

type selectorScanner struct {
	input string
	pos   int
}

func (sc *selectorScanner) eof() bool {
	return sc.pos >= len(sc.input)
}

func (sc *selectorScanner) peek(offset int) byte {
	if sc.pos+offset >= len(sc.input) {
		return 0
	}
	return sc.input[sc.pos+offset]
}

func (sc *selectorScanner) weigh() int {
	w := 0
	for !sc.eof() {
		c := sc.input[sc.pos]
		switch {
		case c == '#':
			sc.pos++
			if sc.name() != "" {
				w += IDWeight
			}
		case c == '.':
			sc.pos++
			if sc.name() != "" {
				w += ClassWeight
			}
		case c == '[':
			sc.skipBalanced('[', ']')
			w += ClassWeight
		case c == ':' && sc.peek(1) == ':':
			sc.pos += 2
			if sc.name() != "" {
				w += ElementWeight
			}
			if sc.peek(0) == '(' {
				sc.skipBalanced('(', ')')
			}
		case c == ':':
			sc.pos++
			name := strings.ToLower(sc.name())
			if name != "" {
				if isLegacyPseudoElement(name) {
					w += ElementWeight
				} else {
					w += ClassWeight
				}
			}
			if sc.peek(0) == '(' { // argument text belongs to the pseudo-class
				sc.skipBalanced('(', ')')
			}
		case c == '"' || c == '\'':
			sc.skipString(c)
		case isNameStart(c):
			sc.name()
			if sc.peek(0) == '|' && sc.peek(1) != '=' { // namespace prefix
				sc.pos++
				continue
			}
			w += ElementWeight
		default:
			// combinators, '*', '&', whitespace, commas and garbage weigh nothing
			sc.pos++
		}
	}
	return w
}

// name consumes an identifier and returns it.
func (sc *selectorScanner) name() string {
	start := sc.pos
	for !sc.eof() {
		c := sc.input[sc.pos]
		if c == '\\' {
			sc.pos += 2
			continue
		}
		if !isNameChar(c) {
			break
		}
		sc.pos++
	}
	if sc.pos > len(sc.input) {
		sc.pos = len(sc.input)
	}
	return sc.input[start:sc.pos]
}

// skipBalanced skips a bracketed run, including nested brackets and strings.
// An unbalanced run extends to the end of the input.
func (sc *selectorScanner) skipBalanced(open, close byte) {
	depth := 0
	for !sc.eof() {
		c := sc.input[sc.pos]
		switch c {
		case '\\':
			sc.pos += 2
			continue
		case '"', '\'':
			sc.skipString(c)
			continue
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				sc.pos++
				return
			}
		}
		sc.pos++
	}
	sc.pos = len(sc.input)
}

func (sc *selectorScanner) skipString(quote byte) {
	sc.pos++
	for !sc.eof() {
		c := sc.input[sc.pos]
		if c == '\\' {
			sc.pos += 2
			continue
		}
		sc.pos++
		if c == quote {
			return
		}
	}
	sc.pos = len(sc.input)
}

func isNameStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || c == '-' || c == '\\' || c >= 0x80
}

func isNameChar(c byte) bool {
	return isNameStart(c) || c >= '0' && c <= '9'
}

// CSS2 allowed these pseudo-elements with a single colon.
func isLegacyPseudoElement(name string) bool {
	switch name {
	case "before", "after", "first-line", "first-letter":
		return true
	}
	return false
}

// --- Canonical vectors -----------------------------------------------------

// Vector is the canonical CSS specificity [A,B,C], where A counts IDs,
// B counts classes, attributes and pseudo-classes, and C counts types and
// pseudo-elements.
type Vector [3]int

// VectorOf returns the canonical specificity of a single selector, as computed
// by cascadia. If cascadia is unable to parse the selector, ok is false.
func VectorOf(selector string) (v Vector, ok bool) {
	sel, err := cascadia.ParseWithPseudoElement(selector)
	if err != nil {
		tracer().Debugf("no specificity vector for %q: %v", selector, err)
		return v, false
	}
	s := sel.Specificity()
	v = Vector{int(s[0]), int(s[1]), int(s[2])}
	if sel.PseudoElement() != "" {
		v[2]++
	}
	return v, true
}

// Less returns true if v has lower precedence than other (strictly).
func (v Vector) Less(other Vector) bool {
	for i := range v {
		if v[i] != other[i] {
			return v[i] < other[i]
		}
	}
	return false
}

// Weight flattens a vector the same way Of does.
func (v Vector) Weight() int {
	return v[0]*IDWeight + v[1]*ClassWeight + v[2]*ElementWeight
}
