package cssom

import (
	"bytes"
	"io"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
)

// Format controls the serialization of a stylesheet.
//
// With an empty Indent, every rule is written on a single line
//
//    selector { prop: value; prop2: value2; }
//
// Otherwise every declaration is written on a line of its own, indented by
// Indent per nesting level.
type Format struct {
	Indent string // indentation per level; empty for compact output
	Nested bool   // reproduce nested rules from their nesting annotations
	Minify bool   // minify the compact output
}

// String writes a stylesheet in compact form.
func (s *Stylesheet) String() string {
	var buf bytes.Buffer
	s.Write(&buf, Format{})
	return buf.String()
}

// Write serializes a stylesheet to w.
//
// @charset, if present, is written first. Consecutive entries of identical
// media contexts are grouped into a common @media (or @supports) block;
// non-consecutive entries of the same context are written to separate blocks,
// thus preserving document order.
func (s *Stylesheet) Write(w io.Writer, f Format) error {
	p := printer{sheet: s, format: f}
	if f.Minify {
		p.format.Indent = ""
	}
	if f.Nested {
		p.children = make(map[int][]*Rule)
		for _, r := range s.Rules() {
			if r.Nesting != nil && s.Rule(r.Nesting.Parent) != nil {
				p.children[r.Nesting.Parent] = append(p.children[r.Nesting.Parent], r)
			}
		}
	}
	p.printSheet()
	out := p.css.Bytes()
	if f.Minify {
		m := minify.New()
		m.AddFunc("text/css", css.Minify)
		min, err := m.Bytes("text/css", out)
		if err != nil {
			return err
		}
		out = min
	}
	_, err := w.Write(out)
	return err
}

type printer struct {
	sheet    *Stylesheet
	format   Format
	css      bytes.Buffer
	children map[int][]*Rule // nested rules per parent id, if printing nested form
	open     []string        // headers of currently open conditional blocks
}

func (p *printer) printSheet() {
	if p.sheet.Charset != "" {
		p.print("@charset " + QuoteString(p.sheet.Charset) + ";")
		p.newline()
	}
	for _, e := range p.sheet.entries {
		switch x := e.(type) {
		case *ImportStatement:
			p.openHeaders(nil)
			p.print(x.String())
			p.newline()
		case *AtRuleBlock:
			p.openHeaders(headersFor(x.Media))
			p.printAtRule(x, len(p.open))
		case *Rule:
			if p.children != nil && x.Nesting != nil && p.sheet.Rule(x.Nesting.Parent) != nil {
				continue // printed as part of its parent
			}
			p.openHeaders(headersFor(x.Media))
			p.printRule(x, x.Selector(), len(p.open))
		}
	}
	p.openHeaders(nil)
}

// openHeaders closes and opens conditional blocks until exactly the blocks
// for headers are open. Common leading blocks stay open.
func (p *printer) openHeaders(headers []string) {
	common := 0
	for common < len(p.open) && common < len(headers) && p.open[common] == headers[common] {
		common++
	}
	for len(p.open) > common {
		p.open = p.open[:len(p.open)-1]
		p.indent(len(p.open))
		p.print("}")
		p.newline()
	}
	for _, h := range headers[common:] {
		p.indent(len(p.open))
		p.print(h + " {")
		p.newline()
		p.open = append(p.open, h)
	}
}

func (p *printer) printRule(r *Rule, selector string, level int) {
	p.indent(level)
	p.print(selector + " {")
	p.printBlockContent(r, level)
	if p.compact() {
		p.print(" }")
	} else {
		p.indent(level)
		p.print("}")
	}
	p.newline()
}

// printBlockContent prints the declarations of a rule, followed by its nested
// rules, if any.
func (p *printer) printBlockContent(r *Rule, level int) {
	for _, d := range r.Declarations {
		p.printDeclaration(d, level+1)
	}
	if p.children == nil {
		if !p.compact() {
			p.newline()
		}
		return
	}
	if !p.compact() {
		p.newline()
	}
	for _, child := range p.children[r.ID()] {
		p.printNested(child, level+1)
	}
}

func (p *printer) printDeclaration(d Declaration, level int) {
	if p.compact() {
		p.print(" ")
	} else {
		p.newline()
		p.indent(level)
	}
	p.print(d.String() + ";")
}

// printNested prints a rule inside its parent rule, using the selector as
// written and wrapping it into the conditional blocks of its nesting condition.
func (p *printer) printNested(r *Rule, level int) {
	n := r.Nesting
	headers := MediaKey(n.Condition).headers()
	if n.Selector == "" && len(headers) == 0 {
		headers = []string{mediaMarker + string(MediaAll)}
	}
	for _, h := range headers {
		if p.compact() {
			p.print(" ")
		}
		p.indent(level)
		p.print(h + " {")
		if !p.compact() {
			p.newline()
		}
		level++
	}
	if n.Selector == "" && len(headers) > 0 {
		p.printFlatContent(r, level)
	} else {
		if p.compact() {
			p.print(" ")
		}
		p.printNestedRule(r, n.Selector, level)
	}
	for range headers {
		level--
		if p.compact() {
			p.print(" }")
		} else {
			p.indent(level)
			p.print("}")
			p.newline()
		}
	}
}

// printFlatContent prints the content of a rule without a block of its own.
func (p *printer) printFlatContent(r *Rule, level int) {
	for _, d := range r.Declarations {
		if p.compact() {
			p.print(" ")
		} else {
			p.indent(level)
		}
		p.print(d.String() + ";")
		if !p.compact() {
			p.newline()
		}
	}
	for _, child := range p.children[r.ID()] {
		p.printNested(child, level)
	}
}

func (p *printer) printNestedRule(r *Rule, selector string, level int) {
	p.indent(level)
	p.print(selector + " {")
	p.printBlockContent(r, level)
	if p.compact() {
		p.print(" }")
	} else {
		p.indent(level)
		p.print("}")
		p.newline()
	}
}

func (p *printer) printAtRule(a *AtRuleBlock, level int) {
	p.indent(level)
	switch {
	case a.Statement:
		p.print(a.Header() + ";")
	case a.Body == "":
		p.print(a.Header() + " { }")
	case p.compact():
		p.print(a.Header() + " { " + a.Body + " }")
	default:
		p.print(a.Header() + " {")
		p.newline()
		p.indent(level + 1)
		p.print(a.Body)
		p.newline()
		p.indent(level)
		p.print("}")
	}
	p.newline()
}

func (p *printer) compact() bool {
	return p.format.Indent == ""
}

func (p *printer) print(s string) {
	p.css.WriteString(s)
}

func (p *printer) newline() {
	p.css.WriteByte('\n')
}

func (p *printer) indent(level int) {
	if p.compact() {
		return
	}
	for i := 0; i < level; i++ {
		p.css.WriteString(p.format.Indent)
	}
}

// --- Media headers ---------------------------------------------------------

// Headers returns the headers of the conditional at-rules a set of media
// contexts is written in, outermost first, e.g. "@media print". MediaAll has
// no headers.
func Headers(keys []MediaKey) []string {
	return headersFor(keys)
}

// headersFor returns the at-rule headers of the conditional blocks a set of
// media contexts is written in, outermost first.
//
// A set of several keys is written as a media query list. This works if the
// keys differ in a single @media segment only, e.g. "screen" and "print", or
// "@supports (x) @media screen" and "@supports (x) @media print". For other
// sets, the first key is used.
func headersFor(keys []MediaKey) []string {
	if IsAll(keys) {
		return nil
	}
	if len(keys) == 1 {
		return keys[0].headers()
	}
	segs := make([][]string, len(keys))
	for i, k := range keys {
		segs[i] = k.segments()
		if len(segs[i]) != len(segs[0]) {
			return fallbackHeaders(keys)
		}
	}
	diff := -1
	for j := range segs[0] {
		for i := 1; i < len(keys); i++ {
			if segs[i][j] != segs[0][j] {
				if diff >= 0 && diff != j {
					return fallbackHeaders(keys)
				}
				diff = j
			}
		}
	}
	headers := keys[0].headers()
	if diff < 0 {
		return headers
	}
	list := make([]string, len(keys))
	for i := range keys {
		if strings.HasPrefix(segs[i][diff], supportsMarker) || keys[i] == MediaAll {
			return fallbackHeaders(keys)
		}
		list[i] = segs[i][diff]
	}
	headers[diff] = mediaMarker + strings.Join(list, ", ")
	return headers
}

func fallbackHeaders(keys []MediaKey) []string {
	tracer().Infof("cssom: cannot write media list %v, using %q", keys, keys[0])
	return keys[0].headers()
}

// headers returns the at-rule headers for a single media key.
func (k MediaKey) headers() []string {
	if k == MediaAll || k == "" {
		return nil
	}
	segs := k.segments()
	headers := make([]string, len(segs))
	for i, seg := range segs {
		if strings.HasPrefix(seg, supportsMarker) {
			headers[i] = seg
		} else {
			headers[i] = mediaMarker + seg
		}
	}
	return headers
}
