package style

import (
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// component is a top-level part of a property value, e.g. for
//
//    italic bold 12px/1.5 "Helvetica Neue", serif
//
// the components are "italic", "bold", "12px", "/", "1.5", `"Helvetica Neue"`,
// ",", "serif". Function calls form a single component.
type component struct {
	text string
	kind css.TokenType // type of the first token
}

func (c component) lower() string {
	return strings.ToLower(c.text)
}

func (c component) is(kind css.TokenType) bool {
	return c.kind == kind
}

func (c component) isSlash() bool {
	return c.kind == css.DelimToken && c.text == "/"
}

func (c component) isComma() bool {
	return c.kind == css.CommaToken
}

// function returns the lowercase name of a function component, e.g. "rgb",
// or the empty string.
func (c component) function() string {
	if c.kind == css.FunctionToken || c.kind == css.URLToken {
		if i := strings.IndexByte(c.text, '('); i > 0 {
			return strings.ToLower(c.text[:i])
		}
	}
	return ""
}

// componentsOf splits a property value into top-level components, using the
// CSS lexer of tdewolff/parse. Slashes and commas on the top level are
// components of their own; whitespace and comments separate components.
func componentsOf(value string) []component {
	l := css.NewLexer(parse.NewInputString(value))
	var comps []component
	var cur strings.Builder
	var kind css.TokenType
	depth := 0
	flush := func() {
		if cur.Len() > 0 {
			comps = append(comps, component{text: cur.String(), kind: kind})
			cur.Reset()
		}
	}
	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			break
		}
		if depth == 0 {
			switch tt {
			case css.WhitespaceToken, css.CommentToken:
				flush()
				continue
			case css.CommaToken:
				flush()
				comps = append(comps, component{text: ",", kind: tt})
				continue
			case css.DelimToken:
				if len(data) == 1 && data[0] == '/' {
					flush()
					comps = append(comps, component{text: "/", kind: tt})
					continue
				}
			}
		}
		switch tt {
		case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			if depth > 0 {
				depth--
			}
		}
		if cur.Len() == 0 {
			kind = tt
		}
		cur.Write(data)
	}
	flush()
	return comps
}

// fieldsOf returns the texts of the top-level components of a value.
func fieldsOf(value string) []string {
	comps := componentsOf(value)
	fields := make([]string, len(comps))
	for i, c := range comps {
		fields[i] = c.text
	}
	return fields
}

// joinComponents writes components separated by blanks, with commas attached
// to the preceding component.
func joinComponents(comps []component) string {
	var b strings.Builder
	for i, c := range comps {
		if i > 0 && !c.isComma() {
			b.WriteByte(' ')
		}
		b.WriteString(c.text)
	}
	return b.String()
}

// --- Value classification ----------------------------------------------

func isLength(c component) bool {
	switch c.kind {
	case css.DimensionToken, css.PercentageToken:
		return true
	case css.NumberToken:
		return true // unitless zero, or line-height style numbers
	case css.FunctionToken:
		switch c.function() {
		case "calc", "min", "max", "clamp":
			return true
		}
	}
	return false
}

func isColor(c component) bool {
	switch c.kind {
	case css.HashToken:
		return true
	case css.FunctionToken:
		switch c.function() {
		case "rgb", "rgba", "hsl", "hsla", "hwb", "lab", "lch", "oklab", "oklch", "color", "color-mix":
			return true
		}
	case css.IdentToken:
		return true // named colors, transparent, currentcolor
	}
	return false
}

func isImage(c component) bool {
	if c.kind == css.URLToken {
		return true
	}
	switch c.function() {
	case "url", "image", "image-set", "cross-fade", "element",
		"linear-gradient", "radial-gradient", "conic-gradient",
		"repeating-linear-gradient", "repeating-radial-gradient", "repeating-conic-gradient",
		"-webkit-linear-gradient", "-webkit-radial-gradient":
		return true
	}
	return false
}

func isBorderStyle(s string) bool {
	switch s {
	case "none", "hidden", "dotted", "dashed", "solid", "double", "groove", "ridge", "inset", "outset":
		return true
	}
	return false
}

func isBorderWidth(c component) bool {
	switch c.lower() {
	case "thin", "medium", "thick":
		return true
	}
	return isLength(c)
}

func isFontStyle(s string) bool {
	return s == "italic" || s == "oblique"
}

func isFontWeight(c component) bool {
	switch c.lower() {
	case "bold", "bolder", "lighter":
		return true
	}
	if c.kind == css.NumberToken {
		return len(c.text) == 3 && c.text[1:] == "00" && c.text[0] >= '1' && c.text[0] <= '9'
	}
	return false
}

func isFontStretch(s string) bool {
	switch s {
	case "ultra-condensed", "extra-condensed", "condensed", "semi-condensed",
		"semi-expanded", "expanded", "extra-expanded", "ultra-expanded":
		return true
	}
	return false
}

func isFontSize(c component) bool {
	switch c.lower() {
	case "xx-small", "x-small", "small", "medium", "large", "x-large", "xx-large", "xxx-large",
		"larger", "smaller", "math":
		return true
	}
	return c.kind != css.NumberToken && isLength(c) || c.text == "0"
}

func isSystemFont(s string) bool {
	switch s {
	case "caption", "icon", "menu", "message-box", "small-caption", "status-bar":
		return true
	}
	return false
}

func isRepeat(s string) bool {
	switch s {
	case "repeat", "repeat-x", "repeat-y", "no-repeat", "space", "round":
		return true
	}
	return false
}

func isAttachment(s string) bool {
	return s == "scroll" || s == "fixed" || s == "local"
}

func isBox(s string) bool {
	return s == "border-box" || s == "padding-box" || s == "content-box" || s == "text"
}

func isPosition(c component) bool {
	switch c.lower() {
	case "left", "right", "top", "bottom", "center":
		return true
	}
	return isLength(c)
}

func isBackgroundSize(c component) bool {
	switch c.lower() {
	case "auto", "cover", "contain":
		return true
	}
	return isLength(c)
}

func isListPosition(s string) bool {
	return s == "inside" || s == "outside"
}
