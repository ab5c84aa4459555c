package parser

import (
	"strconv"
	"strings"

	"github.com/gorilla/css/scanner"
	"github.com/npillmayer/csskit/cssom"
)

// parseAtRule reads an at-rule within a rule list.
func (p *parser) parseAtRule(media []cssom.MediaKey, depth int) {
	t := p.tz.next()
	name := strings.ToLower(t.text[1:])
	switch name {
	case "charset":
		p.warn(t, "@charset must be the first statement of a stylesheet, ignored")
		p.skipStatement(depth)
	case "import":
		p.parseImport(t, media, depth)
	case "media", "supports":
		p.parseConditional(t, name, media, depth)
	default:
		p.parseOpaque(t, name, media, depth)
	}
}

// parseCharset reads an @charset at the very start of the input.
func (p *parser) parseCharset() {
	t := p.tz.next()
	r := p.readRun(p.opts.MaxValueLength)
	toks := trimSpace(r.toks)
	if !r.end.isChar(';') || len(toks) != 1 || toks[0].tok.Type != scanner.TokenString {
		p.fail(MalformedAtRule, t, "malformed @charset")
		if r.end.isChar(';') {
			p.tz.next()
		} else if r.end.isChar('{') {
			p.tz.next()
			p.captureBlock(1, 0)
		}
		return
	}
	p.tz.next()
	if !p.sheet.SetCharset(unquote(toks[0].text)) {
		p.warn(t, "@charset for non-empty stylesheet, ignored")
	}
}

// parseImport reads an @import statement. Late imports are ignored with a
// diagnostic.
func (p *parser) parseImport(t token, media []cssom.MediaKey, depth int) {
	r := p.readRun(p.opts.MaxValueLength)
	switch {
	case r.end.isChar(';'):
		p.tz.next()
	case r.end.isChar('{'):
		p.tz.next()
		p.captureBlock(depth+1, 0)
		p.fail(MalformedAtRule, t, "@import with a block")
		return
	}
	if len(media) > 0 || p.sheet.ImportsClosed() {
		p.warn(t, cssom.ErrLateImport.Error()+", ignored")
		return
	}
	if r.overflow {
		p.warn(t, "@import too long, ignored")
		return
	}
	url, rest, ok := importURL(trimSpace(r.toks))
	if !ok {
		p.fail(MalformedAtRule, t, "@import without URL")
		return
	}
	if _, err := p.sheet.AddImport(url, joinText(rest)); err != nil {
		p.warn(t, err.Error())
	}
}

// importURL extracts the URL of an @import, given as a string or as url().
// The remaining tokens are the import's media condition.
func importURL(toks []token) (string, []token, bool) {
	if len(toks) == 0 {
		return "", nil, false
	}
	t := toks[0]
	switch {
	case t.tok.Type == scanner.TokenString:
		return unquote(t.text), toks[1:], true
	case t.tok.Type == scanner.TokenURI:
		u := strings.TrimSpace(t.text[4 : len(t.text)-1])
		if len(u) > 0 && (u[0] == '"' || u[0] == '\'') {
			u = unquote(u)
		}
		return u, toks[1:], true
	case t.tok.Type == scanner.TokenFunction && strings.EqualFold(t.text, "url("):
		// url( "…" ) with a string argument not recognized as a single token
		rest := trimSpace(toks[1:])
		if len(rest) >= 2 && rest[0].tok.Type == scanner.TokenString {
			tail := trimSpace(rest[1:])
			if len(tail) > 0 && tail[0].isChar(')') {
				return unquote(rest[0].text), tail[1:], true
			}
		}
	}
	return "", nil, false
}

// parseConditional reads a @media or @supports block on the rule list level.
func (p *parser) parseConditional(t token, name string, media []cssom.MediaKey, depth int) {
	r := p.readRun(p.opts.MaxValueLength)
	if !r.end.isChar('{') {
		if r.end.isChar(';') {
			p.tz.next()
		}
		p.fail(MalformedAtRule, t, "@"+name+" without a block")
		return
	}
	open := p.tz.next()
	if !p.enter(open, depth+1) {
		return
	}
	keys, ok := conditionKeys(name, r)
	if !ok {
		p.fail(MalformedAtRule, t, "malformed condition for @"+name)
		if p.err == nil {
			p.captureBlock(depth+1, 0)
		}
		return
	}
	inner, ok := p.composeMedia(t, media, keys)
	if !ok {
		return
	}
	p.parseRuleList(normalizeMedia(inner), depth+1, true)
}

// conditionKeys converts the prelude of a @media or @supports rule into media
// keys. A media query list results in one key per query.
func conditionKeys(name string, r run) ([]cssom.MediaKey, bool) {
	if r.overflow {
		return nil, false
	}
	prelude := joinText(r.toks)
	if name == "supports" {
		cond := cssom.CollapseWhitespace(prelude)
		if cond == "" || !balanced(cond) {
			return nil, false
		}
		return []cssom.MediaKey{cssom.SupportsKeyFor(cond)}, true
	}
	if strings.TrimSpace(prelude) == "" {
		return []cssom.MediaKey{cssom.MediaAll}, true
	}
	var keys []cssom.MediaKey
	for _, q := range cssom.SplitSelectorList(prelude) {
		if q == "" || !balanced(q) {
			return nil, false
		}
		keys = append(keys, cssom.MediaKeyFor(q))
	}
	return keys, len(keys) > 0
}

// parseOpaque reads an at-rule the parser does not interpret, e.g. @font-face,
// @keyframes, @layer or @page. Its block is kept as raw text.
func (p *parser) parseOpaque(t token, name string, media []cssom.MediaKey, depth int) {
	r := p.readRun(p.opts.MaxValueLength)
	a := cssom.NewAtRuleBlock(name, joinText(r.toks), "")
	a.Media = media
	switch {
	case r.end.isChar('{'):
		open := p.tz.next()
		if !p.enter(open, depth+1) {
			return
		}
		body, overflow := p.captureBlock(depth+1, p.opts.MaxBlockLength)
		if p.err != nil {
			return
		}
		if overflow || r.overflow {
			p.warn(t, "@"+name+" too long, rejected")
			return
		}
		a.Body = cssom.CollapseWhitespace(body)
	case r.end.isChar(';'):
		p.tz.next()
		a.Statement = true
	default: // '}' of an enclosing block or end of input
		a.Statement = true
	}
	if r.overflow {
		p.warn(t, "@"+name+" too long, rejected")
		return
	}
	if _, err := p.sheet.AddAtRule(a); err != nil {
		p.limit(t, err)
	}
}

// unquote removes the quotes of a CSS string token and resolves escapes.
// A bad string (without closing quote) is accepted.
func unquote(s string) string {
	if len(s) == 0 || s[0] != '"' && s[0] != '\'' {
		return s
	}
	q := s[0]
	s = s[1:]
	if len(s) > 0 && s[len(s)-1] == q {
		s = s[:len(s)-1]
	}
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch c = s[i]; {
		case c == '\n':
		case c == '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
		case isHex(c):
			j := i
			for j < len(s) && j < i+6 && isHex(s[j]) {
				j++
			}
			n, _ := strconv.ParseUint(s[i:j], 16, 32)
			if n == 0 || n > 0x10FFFF || n >= 0xD800 && n <= 0xDFFF {
				n = 0xFFFD
			}
			b.WriteRune(rune(n))
			if j < len(s) && (s[j] == ' ' || s[j] == '\t' || s[j] == '\n') {
				j++
			}
			i = j - 1
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isHex(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}
