package parser

import (
	"errors"
	"strings"

	"github.com/gorilla/css/scanner"
	"github.com/npillmayer/csskit/cssom"
)

// Parse reads CSS source text into a new stylesheet. A leading byte order mark
// is stripped.
//
// In lenient mode (the default), Parse returns an error only if a resource
// limit is exceeded. With opts.Strict set, structural errors of the selected
// kinds abort parsing with a *ParseError. If an error is returned, the
// stylesheet is nil.
func Parse(css string, opts *Options) (*cssom.Stylesheet, error) {
	o := opts.withDefaults()
	sheet := cssom.NewStylesheet()
	sheet.MaxMediaKeys = o.MaxMediaKeys
	if err := parseInto(sheet, css, o); err != nil {
		return nil, err
	}
	return sheet, nil
}

// ParseBytes is like Parse for a byte slice.
func ParseBytes(css []byte, opts *Options) (*cssom.Stylesheet, error) {
	return Parse(string(css), opts)
}

// AddBlock parses CSS source text into an existing stylesheet. Rules are
// appended to the stylesheet, within the media context opts.Media. The
// stylesheet's state is honored: @import is accepted only if no rules have
// been added yet, and @charset only if the stylesheet is empty.
//
// If an error is returned, the stylesheet may contain the rules parsed before
// the error occurred.
func AddBlock(sheet *cssom.Stylesheet, css string, opts *Options) error {
	if sheet == nil {
		return errors.New("css: AddBlock called for nil stylesheet")
	}
	return parseInto(sheet, css, opts.withDefaults())
}

func parseInto(sheet *cssom.Stylesheet, css string, opts *Options) error {
	p := &parser{
		tz:    newTokenizer(css),
		sheet: sheet,
		opts:  opts,
	}
	media := normalizeMedia(opts.Media)
	p.tz.skipSpace()
	if t := p.tz.peek(); t.tok.Type == scanner.TokenAtKeyword && strings.EqualFold(t.text, "@charset") {
		p.parseCharset()
	}
	p.parseRuleList(media, 0, false)
	if p.err != nil {
		tracer().Infof("css: parsing aborted: %v", p.err)
	}
	return p.err
}

type parser struct {
	tz    *tokenizer
	sheet *cssom.Stylesheet
	opts  *Options
	err   error // first fatal error
}

// fail reports a structural error. In strict mode for kind, parsing is aborted,
// otherwise the error is traced and the caller skips the offending item.
func (p *parser) fail(kind ErrorKind, t token, msg string) {
	if p.opts.Strict.Includes(kind) {
		if p.err == nil {
			p.err = &ParseError{Line: t.line, Column: t.column, Kind: kind, Msg: msg}
		}
		return
	}
	tracer().Infof("css: %d:%d: skipping %s: %s", t.line, t.column, kind, msg)
}

// limit aborts parsing because of exceeded resource bounds.
func (p *parser) limit(t token, err error) {
	if p.err == nil {
		p.err = &LimitError{Line: t.line, Column: t.column, Err: err}
	}
}

// warn emits a non-fatal diagnostic.
func (p *parser) warn(t token, msg string) {
	d := cssom.Diagnostic{Line: t.line, Column: t.column, Message: msg}
	p.sheet.Warn(d)
	if p.opts.OnWarning != nil {
		p.opts.OnWarning(d)
	}
}

// enter checks if a block at depth may be entered.
func (p *parser) enter(t token, depth int) bool {
	if depth > p.opts.MaxDepth {
		p.limit(t, cssom.ErrDepthExceeded)
		return false
	}
	return true
}

// --- Runs of tokens --------------------------------------------------------

// run is a sequence of tokens up to a terminator: '{', '}', or ';' outside of
// parentheses and brackets, or end of input. The terminator is not consumed.
type run struct {
	toks     []token
	start    token // first token of the run
	end      token // terminator
	size     int   // length of text read
	overflow bool  // more than limit bytes of text
}

func (p *parser) readRun(limit int) run {
	r := run{start: p.tz.peek()}
	depth := 0
	for {
		t := p.tz.peek()
		if t.isEOF() || t.isChar('{') || t.isChar('}') || depth == 0 && t.isChar(';') {
			r.end = t
			return r
		}
		p.tz.next()
		switch {
		case t.tok.Type == scanner.TokenFunction, t.isChar('('), t.isChar('['):
			depth++
		case t.isChar(')'), t.isChar(']'):
			if depth > 0 {
				depth--
			}
		}
		r.size += len(t.text)
		if r.size > limit {
			r.overflow = true
			continue
		}
		r.toks = append(r.toks, t)
	}
}

func trimSpace(toks []token) []token {
	for len(toks) > 0 && toks[0].isSpace() {
		toks = toks[1:]
	}
	for len(toks) > 0 && toks[len(toks)-1].isSpace() {
		toks = toks[:len(toks)-1]
	}
	return toks
}

func joinText(toks []token) string {
	var b strings.Builder
	for _, t := range toks {
		if t.isSpace() {
			b.WriteByte(' ')
			continue
		}
		b.WriteString(t.text)
	}
	return strings.TrimSpace(b.String())
}

// skipStatement skips the rest of a malformed statement, including a block.
func (p *parser) skipStatement(depth int) {
	r := p.readRun(0)
	switch {
	case r.end.isChar(';'):
		p.tz.next()
	case r.end.isChar('{'):
		p.tz.next()
		p.captureBlock(depth+1, 0)
	}
}

// captureBlock reads the content of a block up to and including its closing
// brace. The block's opening brace has already been read. Content beyond limit
// bytes is not kept, in which case captureBlock reports an overflow.
func (p *parser) captureBlock(depth int, limit int) (string, bool) {
	var b strings.Builder
	overflow := false
	level := 0
	for p.err == nil {
		t := p.tz.next()
		switch {
		case t.isEOF():
			p.fail(UnclosedBlock, t, "unexpected end of input in block")
			return b.String(), overflow
		case t.isChar('{'):
			level++
			if !p.enter(t, depth+level) {
				return "", overflow
			}
		case t.isChar('}'):
			if level == 0 {
				return b.String(), overflow
			}
			level--
		}
		if overflow || b.Len()+len(t.text) > limit {
			overflow = true
			continue
		}
		b.WriteString(t.text)
	}
	return "", overflow
}

// --- Rule lists ------------------------------------------------------------

// parseRuleList reads rules and at-rules on the top level or within a
// conditional group rule (inBlock).
func (p *parser) parseRuleList(media []cssom.MediaKey, depth int, inBlock bool) {
	for p.err == nil {
		p.tz.skipSpace()
		t := p.tz.peek()
		switch {
		case t.isEOF():
			if inBlock {
				p.fail(UnclosedBlock, t, "unexpected end of input in block")
			}
			return
		case t.isChar('}'):
			p.tz.next()
			if inBlock {
				return
			}
			p.fail(InvalidSelector, t, "unbalanced '}'")
		case t.isChar(';'):
			p.tz.next()
			p.fail(InvalidSelector, t, "unexpected ';'")
		case t.tok.Type == scanner.TokenCDO || t.tok.Type == scanner.TokenCDC:
			p.tz.next()
		case t.tok.Type == scanner.TokenAtKeyword:
			p.parseAtRule(media, depth)
		default:
			p.parseStyleRule(media, depth)
		}
	}
}

// parseStyleRule reads a qualified rule: a selector list and a block.
func (p *parser) parseStyleRule(media []cssom.MediaKey, depth int) {
	r := p.readRun(p.opts.MaxValueLength)
	if !r.end.isChar('{') {
		if r.end.isChar(';') {
			p.tz.next()
		}
		p.fail(InvalidSelector, r.start, "selector without a block")
		return
	}
	open := p.tz.next()
	if !p.enter(open, depth+1) {
		return
	}
	var selectors []string
	if r.overflow {
		p.warn(r.start, "selector list too long, rule rejected")
	} else {
		selectors = p.topLevelSelectors(r)
	}
	if p.err != nil {
		return
	}
	blocks := p.parseBlockBody(depth + 1)
	if p.err != nil || len(selectors) == 0 {
		return
	}
	anchors := make([]anchor, len(selectors))
	frags := make([]string, len(selectors))
	for i := range anchors {
		anchors[i].parent = -1
	}
	p.resolve(r.start, blocks, selectors, media, anchors, frags, true, depth+1)
}

// topLevelSelectors splits a selector list into valid selectors.
// '&' outside of nesting refers to the scoping root.
func (p *parser) topLevelSelectors(r run) []string {
	parts := cssom.SplitSelectorList(joinText(r.toks))
	if len(parts) > p.opts.MaxSelectors {
		p.limit(r.start, cssom.ErrSizeExceeded)
		return nil
	}
	selectors := make([]string, 0, len(parts))
	for _, sel := range parts {
		if !validSelector(sel, false) {
			p.fail(InvalidSelector, r.start, "invalid selector '"+shorten(sel)+"'")
			if p.err != nil {
				return nil
			}
			continue
		}
		if strings.Contains(sel, "&") {
			sel = replaceNesting(sel, ":scope")
		}
		selectors = append(selectors, sel)
	}
	return selectors
}

// --- Blocks of style rules -------------------------------------------------

type blockKind int

const (
	declsBlock  blockKind = iota // declarations of the enclosing rule
	nestedRule                   // nested style rule
	nestedMedia                  // nested @media or @supports
)

// block is a node of the tree a style rule's body is read into:
//
//    Block = Declarations | NestedRule(selectors, []Block) | NestedMedia(condition, []Block)
//
// A list of blocks always starts with the declsBlock of the enclosing rule,
// collecting all of its declarations.
type block struct {
	kind      blockKind
	decls     cssom.Declarations // declsBlock
	selectors []string           // nestedRule: selector list as written
	media     []cssom.MediaKey   // nestedMedia: condition keys
	children  []*block
	pos       token
}

// parseBlockBody reads the body of a style rule, up to and including the
// closing brace. depth is the depth of the block.
func (p *parser) parseBlockBody(depth int) []*block {
	own := &block{kind: declsBlock}
	blocks := []*block{own}
	for p.err == nil {
		p.tz.skipSpace()
		t := p.tz.peek()
		switch {
		case t.isEOF():
			p.fail(UnclosedBlock, t, "unexpected end of input in block")
			return blocks
		case t.isChar('}'):
			p.tz.next()
			return blocks
		case t.isChar(';'):
			p.tz.next()
		case t.tok.Type == scanner.TokenAtKeyword:
			if b := p.parseNestedAtRule(depth); b != nil {
				blocks = append(blocks, b)
			}
		default:
			r := p.readRun(p.opts.MaxPropertyNameLength + p.opts.MaxValueLength + 16)
			if r.end.isChar('{') {
				if b := p.parseNestedRule(r, depth); b != nil {
					blocks = append(blocks, b)
				}
				continue
			}
			if r.end.isChar(';') {
				p.tz.next()
			}
			p.declaration(r, &own.decls)
		}
	}
	return blocks
}

func (p *parser) parseNestedRule(r run, depth int) *block {
	open := p.tz.next()
	if !p.enter(open, depth+1) {
		return nil
	}
	b := &block{kind: nestedRule, pos: r.start}
	if r.overflow {
		p.warn(r.start, "selector list too long, rule rejected")
	} else {
		for _, sel := range cssom.SplitSelectorList(joinText(r.toks)) {
			if !validSelector(sel, true) {
				p.fail(InvalidSelector, r.start, "invalid nested selector '"+shorten(sel)+"'")
				if p.err != nil {
					return nil
				}
				continue
			}
			b.selectors = append(b.selectors, cssom.NormalizeSelector(sel))
		}
	}
	b.children = p.parseBlockBody(depth + 1)
	if len(b.selectors) == 0 {
		return nil
	}
	return b
}

// parseNestedAtRule reads an at-rule within a style rule. Conditional rules
// (@media, @supports) are nested blocks, other at-rules are skipped.
func (p *parser) parseNestedAtRule(depth int) *block {
	t := p.tz.next()
	name := strings.ToLower(t.text[1:])
	if name != "media" && name != "supports" {
		p.warn(t, "at-rule @"+name+" not supported within style rules, skipped")
		p.skipStatement(depth)
		return nil
	}
	r := p.readRun(p.opts.MaxValueLength)
	if !r.end.isChar('{') {
		if r.end.isChar(';') {
			p.tz.next()
		}
		p.fail(MalformedAtRule, t, "@"+name+" without a block")
		return nil
	}
	open := p.tz.next()
	if !p.enter(open, depth+1) {
		return nil
	}
	keys, ok := conditionKeys(name, r)
	if !ok {
		p.fail(MalformedAtRule, t, "malformed condition for @"+name)
		if p.err == nil {
			p.captureBlock(depth+1, 0)
		}
		return nil
	}
	b := &block{kind: nestedMedia, media: keys, pos: t}
	b.children = p.parseBlockBody(depth + 1)
	return b
}

// declaration interprets a run as a declaration "property: value [!important]"
// and adds it to decls.
func (p *parser) declaration(r run, decls *cssom.Declarations) {
	if r.overflow {
		p.warn(r.start, "declaration too long, rejected")
		return
	}
	toks := trimSpace(r.toks)
	if len(toks) == 0 {
		return
	}
	colon := -1
	for i, t := range toks {
		if t.isChar(':') {
			colon = i
			break
		}
	}
	if colon < 0 {
		p.fail(MalformedDeclaration, toks[0], "declaration without ':'")
		return
	}
	name := joinText(toks[:colon])
	if !validPropertyName(name) {
		p.fail(MalformedDeclaration, toks[0], "invalid property name '"+shorten(name)+"'")
		return
	}
	if len(name) > p.opts.MaxPropertyNameLength {
		p.warn(toks[0], "property name too long, declaration rejected")
		return
	}
	vtoks := trimSpace(toks[colon+1:])
	important := false
	if n := len(vtoks); n >= 2 && vtoks[n-1].tok.Type == scanner.TokenIdent &&
		strings.EqualFold(vtoks[n-1].text, "important") {
		j := n - 2
		for j >= 0 && vtoks[j].isSpace() {
			j--
		}
		if j >= 0 && vtoks[j].isChar('!') {
			important = true
			vtoks = trimSpace(vtoks[:j])
		}
	}
	value := cssom.CollapseWhitespace(joinText(vtoks))
	if value == "" {
		p.fail(EmptyValue, toks[0], "empty value for '"+shorten(name)+"'")
		return
	}
	if len(value) > p.opts.MaxValueLength {
		p.warn(toks[0], "value too long, declaration rejected")
		return
	}
	if !decls.Redeclare(cssom.NewDeclaration(name, value, important)) {
		tracer().Debugf("css: %d:%d: %s is already declared !important", toks[0].line, toks[0].column, name)
	}
}

// --- Resolution of nested blocks -------------------------------------------

// anchor locates a rule relative to the rule it is nested in.
type anchor struct {
	parent int              // id of the enclosing rule, -1 on top level
	rel    []cssom.MediaKey // media context relative to the parent
}

// resolve turns a block tree into rules. selectors are the resolved selectors
// of the block; anchors and frags hold, per selector, the nesting position and
// the selector as written. Rules for the block's own declarations are emitted
// first, followed by the rules of nested blocks, in order.
//
// If emitEmpty is false, rules for the block's own declarations are created only
// if there are any declarations. This is the case for nested @media blocks.
func (p *parser) resolve(pos token, blocks []*block, selectors []string, media []cssom.MediaKey,
	anchors []anchor, frags []string, emitEmpty bool, depth int) {
	//
	if !p.enter(pos, depth) {
		return
	}
	own := blocks[0]
	children := make([]anchor, len(selectors))
	for i, sel := range selectors {
		children[i] = anchors[i]
		if len(own.decls) == 0 && !emitEmpty {
			continue
		}
		r := cssom.NewRule(sel)
		r.Declarations = own.decls.Clone()
		r.Media = media
		if a := anchors[i]; a.parent >= 0 {
			r.Nesting = &cssom.Nesting{Parent: a.parent, Selector: frags[i], Condition: relCondition(a.rel)}
		}
		id, err := p.sheet.AddRule(r)
		if err != nil {
			p.limit(pos, err)
			return
		}
		children[i] = anchor{parent: id}
	}
	for _, b := range blocks[1:] {
		switch b.kind {
		case nestedRule:
			n := len(selectors) * len(b.selectors)
			if n > p.opts.MaxSelectors {
				p.limit(b.pos, cssom.ErrSizeExceeded)
				return
			}
			sels := make([]string, 0, n)
			as := make([]anchor, 0, n)
			fs := make([]string, 0, n)
			for i, parent := range selectors {
				for _, frag := range b.selectors {
					sel := resolveNested(parent, frag)
					if len(sel) > p.opts.MaxValueLength {
						p.limit(b.pos, cssom.ErrSizeExceeded)
						return
					}
					sels = append(sels, sel)
					as = append(as, children[i])
					fs = append(fs, frag)
				}
			}
			p.resolve(b.pos, b.children, sels, media, as, fs, true, depth+1)
		case nestedMedia:
			inner, ok := p.composeMedia(b.pos, media, b.media)
			if !ok {
				return
			}
			as := make([]anchor, len(selectors))
			for i := range selectors {
				rel, ok := p.composeMedia(b.pos, children[i].rel, b.media)
				if !ok {
					return
				}
				as[i] = anchor{parent: children[i].parent, rel: rel}
			}
			// declarations directly within the condition block have no selector
			fs := make([]string, len(selectors))
			p.resolve(b.pos, b.children, selectors, inner, as, fs, false, depth+1)
		}
		if p.err != nil {
			return
		}
	}
}

func relCondition(rel []cssom.MediaKey) string {
	if cssom.IsAll(rel) {
		return ""
	}
	return string(cssom.MediaKeyOf(rel))
}

// resolveNested computes the selector of a nested rule. An '&' is replaced by
// the parent selector, otherwise the nested selector is joined to the parent
// as a descendant (or with its leading combinator).
func resolveNested(parent, nested string) string {
	if strings.Contains(nested, "&") {
		return replaceNesting(nested, parent)
	}
	return parent + " " + nested
}

// replaceNesting replaces every '&' outside of strings and attribute brackets.
func replaceNesting(sel, with string) string {
	var b strings.Builder
	var quote byte
	brackets := 0
	for i := 0; i < len(sel); i++ {
		c := sel[i]
		switch {
		case quote != 0:
			if c == '\\' && i+1 < len(sel) {
				b.WriteByte(c)
				i++
				c = sel[i]
			} else if c == quote {
				quote = 0
			}
		case c == '\\' && i+1 < len(sel):
			b.WriteByte(c)
			i++
			c = sel[i]
		case c == '"' || c == '\'':
			quote = c
		case c == '[':
			brackets++
		case c == ']' && brackets > 0:
			brackets--
		case c == '&' && brackets == 0:
			b.WriteString(with)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// composeMedia nests a list of media conditions into a media context.
func (p *parser) composeMedia(pos token, outer, inner []cssom.MediaKey) ([]cssom.MediaKey, bool) {
	if cssom.IsAll(inner) {
		return outer, true
	}
	if cssom.IsAll(outer) {
		return inner, true
	}
	if len(outer)*len(inner) > p.opts.MaxMediaKeys {
		p.limit(pos, cssom.ErrSizeExceeded)
		return nil, false
	}
	keys := make([]cssom.MediaKey, 0, len(outer)*len(inner))
	for _, o := range outer {
		for _, i := range inner {
			k := cssom.ComposeMedia(o, i)
			if len(k) > p.opts.MaxValueLength {
				p.limit(pos, cssom.ErrSizeExceeded)
				return nil, false
			}
			keys = append(keys, k)
		}
	}
	return keys, true
}

func normalizeMedia(keys []cssom.MediaKey) []cssom.MediaKey {
	if cssom.IsAll(keys) {
		return nil
	}
	return keys
}

// --- Validation ------------------------------------------------------------

// validSelector checks a selector for structural soundness. It does not
// validate selector grammar.
func validSelector(sel string, nested bool) bool {
	if sel == "" || cssom.EndsWithCombinator(sel) {
		return false
	}
	if !nested && cssom.StartsWithCombinator(sel) {
		return false
	}
	if last := sel[len(sel)-1]; last == ':' || last == '.' || last == '#' || last == ',' {
		return false
	}
	return balanced(sel)
}

// balanced checks for balanced parentheses, brackets and quotes.
func balanced(s string) bool {
	var stack []byte
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
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
			stack = append(stack, c)
		case ')', ']':
			if len(stack) == 0 {
				return false
			}
			open := stack[len(stack)-1]
			if c == ')' && open != '(' || c == ']' && open != '[' {
				return false
			}
			stack = stack[:len(stack)-1]
		}
	}
	return quote == 0 && len(stack) == 0
}

func validPropertyName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-' || c == '_' || c == '\\' || c >= 0x80:
		default:
			return false
		}
	}
	return true
}

func shorten(s string) string {
	if len(s) <= 40 {
		return s
	}
	return s[:37] + "..."
}
