/*
Package douceuradapter converts between stylesheets of package cssom and the
stylesheet ASTs of github.com/aymerick/douceur.

Douceur is used by quite a number of tools, e.g. for inlining styles into
HTML mail. This package lets clients hand over stylesheets in either
direction, and extracts embedded <style> elements from HTML parse trees.

The conversion to douceur is lossy in a few places: douceur has no notion
of nesting annotations, and at-rule blocks with an empty body are written as
statements.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>
*/
package douceuradapter

import (
	"errors"
	"strings"

	"github.com/aymerick/douceur/css"
	dparser "github.com/aymerick/douceur/parser"
	"github.com/npillmayer/csskit/cssom"
	"github.com/npillmayer/csskit/cssom/parser"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// tracer traces with key 'csskit.douceur'.
func tracer() tracing.Trace {
	return tracing.Select("csskit.douceur")
}

// --- From douceur ----------------------------------------------------------

// FromDouceur converts a douceur stylesheet into a new cssom stylesheet.
//
// Qualified rules are split into one rule per selector. @media and @supports
// blocks are unfolded into media contexts of their rules. Every other at-rule
// is handed to the csskit parser, which will treat it the same way as if it
// had been part of CSS source text.
func FromDouceur(src *css.Stylesheet) (*cssom.Stylesheet, error) {
	sheet := cssom.NewStylesheet()
	if src == nil {
		return sheet, nil
	}
	if err := fromRules(sheet, src.Rules, nil); err != nil {
		return nil, err
	}
	return sheet, nil
}

func fromRules(sheet *cssom.Stylesheet, rules []*css.Rule, media []cssom.MediaKey) error {
	for _, r := range rules {
		if r == nil {
			continue
		}
		if r.Kind == css.QualifiedRule {
			if err := fromQualified(sheet, r, media); err != nil {
				return err
			}
			continue
		}
		name := strings.ToLower(strings.TrimPrefix(r.Name, "@"))
		var err error
		switch name {
		case "charset":
			if !sheet.SetCharset(strings.Trim(r.Prelude, `"'`)) {
				tracer().Infof("douceur: @charset %s ignored", r.Prelude)
			}
		case "media":
			err = fromRules(sheet, r.Rules, composeAll(media, cssom.MediaKeysFor(r.Prelude)))
		case "supports":
			err = fromRules(sheet, r.Rules, composeAll(media, []cssom.MediaKey{cssom.SupportsKeyFor(r.Prelude)}))
		default:
			err = parser.AddBlock(sheet, r.String(), &parser.Options{
				Media:        media,
				MaxMediaKeys: sheet.MaxMediaKeys,
			})
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func fromQualified(sheet *cssom.Stylesheet, r *css.Rule, media []cssom.MediaKey) error {
	var decls cssom.Declarations
	for _, d := range r.Declarations {
		if d == nil || d.Property == "" {
			continue
		}
		decls.Redeclare(cssom.NewDeclaration(d.Property, d.Value, d.Important))
	}
	prelude := r.Prelude
	if prelude == "" { // rule has been constructed by a client
		prelude = strings.Join(r.Selectors, ", ")
	}
	_, err := sheet.AddRules(prelude, decls, media...)
	if errors.Is(err, cssom.ErrEmptySelector) {
		tracer().Infof("douceur: rule without selector skipped")
		return nil
	}
	return err
}

func composeAll(outer, inner []cssom.MediaKey) []cssom.MediaKey {
	if len(outer) == 0 {
		outer = []cssom.MediaKey{cssom.MediaAll}
	}
	keys := make([]cssom.MediaKey, 0, len(outer)*len(inner))
	for _, o := range outer {
		for _, i := range inner {
			keys = append(keys, cssom.ComposeMedia(o, i))
		}
	}
	if cssom.IsAll(keys) {
		return nil
	}
	return keys
}

// --- To douceur ------------------------------------------------------------

// ToDouceur converts a cssom stylesheet into a douceur stylesheet.
//
// Consecutive entries of identical media contexts are collected into common
// @media and @supports rules. Bodies of opaque at-rules are parsed by douceur;
// if douceur is unable to parse a body, the at-rule is written without one.
func ToDouceur(sheet *cssom.Stylesheet) *css.Stylesheet {
	out := css.NewStylesheet()
	if sheet == nil {
		return out
	}
	if sheet.Charset != "" {
		r := css.NewRule(css.AtRule)
		r.Name = "@charset"
		r.Prelude = cssom.QuoteString(sheet.Charset)
		out.Rules = append(out.Rules, r)
	}
	b := &builder{out: out}
	for _, e := range sheet.Entries() {
		switch x := e.(type) {
		case *cssom.ImportStatement:
			b.open(nil)
			r := css.NewRule(css.AtRule)
			r.Name = "@import"
			r.Prelude = strings.TrimSuffix(strings.TrimPrefix(x.String(), "@import "), ";")
			b.add(r)
		case *cssom.AtRuleBlock:
			b.open(cssom.Headers(x.Media))
			b.add(toAtRule(x))
		case *cssom.Rule:
			b.open(cssom.Headers(x.Media))
			b.add(toQualified(x))
		}
	}
	return out
}

// builder keeps track of the conditional rules currently open.
type builder struct {
	out     *css.Stylesheet
	headers []string
	stack   []*css.Rule
}

func (b *builder) open(headers []string) {
	common := 0
	for common < len(b.headers) && common < len(headers) && b.headers[common] == headers[common] {
		common++
	}
	b.headers, b.stack = b.headers[:common], b.stack[:common]
	for _, h := range headers[common:] {
		r := css.NewRule(css.AtRule)
		r.Name, r.Prelude = h, ""
		if i := strings.IndexByte(h, ' '); i > 0 {
			r.Name, r.Prelude = h[:i], h[i+1:]
		}
		b.add(r)
		b.headers = append(b.headers, h)
		b.stack = append(b.stack, r)
	}
}

func (b *builder) add(r *css.Rule) {
	setEmbedLevel(r, len(b.stack))
	if len(b.stack) == 0 {
		b.out.Rules = append(b.out.Rules, r)
		return
	}
	top := b.stack[len(b.stack)-1]
	top.Rules = append(top.Rules, r)
}

func setEmbedLevel(r *css.Rule, level int) {
	r.EmbedLevel = level
	for _, sub := range r.Rules {
		setEmbedLevel(sub, level+1)
	}
}

func toQualified(r *cssom.Rule) *css.Rule {
	q := css.NewRule(css.QualifiedRule)
	q.Prelude = r.Selector()
	q.Selectors = []string{r.Selector()}
	for _, d := range r.Declarations {
		q.Declarations = append(q.Declarations, &css.Declaration{
			Property:  d.Property,
			Value:     d.Value,
			Important: d.Important,
		})
	}
	return q
}

func toAtRule(a *cssom.AtRuleBlock) *css.Rule {
	r := css.NewRule(css.AtRule)
	r.Name = "@" + a.Name
	r.Prelude = a.Prelude
	if a.Statement || a.Body == "" {
		return r
	}
	if r.EmbedsRules() {
		sub, err := dparser.Parse(a.Body)
		if err != nil {
			tracer().Infof("douceur: cannot parse body of @%s: %v", a.Name, err)
			return r
		}
		r.Rules = sub.Rules
		return r
	}
	decls, err := dparser.ParseDeclarations("{" + a.Body + "}")
	if err != nil {
		tracer().Infof("douceur: cannot parse body of @%s: %v", a.Name, err)
		return r
	}
	r.Declarations = decls
	return r
}

// --- HTML ------------------------------------------------------------------

// ExtractStyleElements visits <head> and <body> elements in an HTML parse
// tree and searches for embedded <style>s. It returns the content of
// style-elements as style sheets. A media attribute of a <style> element sets
// the media context of the rules within.
//
// Parsing stops at the first error, which is returned together with the
// style sheets extracted so far.
func ExtractStyleElements(htmldoc *html.Node, opts *parser.Options) ([]*cssom.Stylesheet, error) {
	var sheets []*cssom.Stylesheet
	for _, a := range []atom.Atom{atom.Head, atom.Body} {
		h := findElement(a, htmldoc)
		if h == nil {
			continue
		}
		css, err := extractStyles(h, opts)
		sheets = append(sheets, css...)
		if err != nil {
			return sheets, err
		}
	}
	return sheets, nil
}

func extractStyles(h *html.Node, opts *parser.Options) ([]*cssom.Stylesheet, error) {
	var css []*cssom.Stylesheet
	for ch := h.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type != html.ElementNode || ch.DataAtom != atom.Style {
			continue
		}
		text := textContent(ch)
		if strings.TrimSpace(text) == "" {
			continue
		}
		o := parser.Options{}
		if opts != nil {
			o = *opts
		}
		if media, ok := attr(ch, "media"); ok {
			o.Media = cssom.MediaKeysFor(media)
		}
		c, err := parser.Parse(text, &o)
		if err != nil {
			return css, err
		}
		css = append(css, c)
	}
	return css, nil
}

func findElement(a atom.Atom, h *html.Node) *html.Node {
	if h == nil {
		return nil
	}
	if h.DataAtom == a {
		return h
	}
	for ch := h.FirstChild; ch != nil; ch = ch.NextSibling {
		if r := findElement(a, ch); r != nil {
			return r
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var b strings.Builder
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type == html.TextNode {
			b.WriteString(ch.Data)
		}
	}
	return b.String()
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
