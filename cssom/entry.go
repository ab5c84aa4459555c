package cssom

import (
	"strings"

	"github.com/npillmayer/csskit/specificity"
)

// Entry is the type stylesheets consist of. An entry is one of
//
//    *Rule            a style rule, e.g. "p { margin: 0; }"
//    *AtRuleBlock     an opaque at-rule, e.g. "@font-face { … }"
//    *ImportStatement an @import statement
//
// Entries are identified by a dense, non-negative id which is assigned when
// an entry is added to a stylesheet. An entry belongs to at most one stylesheet.
type Entry interface {
	ID() int
	entry() // sealed
}

// Rule is a style rule with a fully resolved selector, e.g.
//
//    .parent .child { color: blue; }
//
// Nesting has been resolved at this point: a selector never contains "&".
// The way a rule has been written in source may be recorded in a Nesting
// annotation, which the serializer may use to reproduce the nested form.
type Rule struct {
	id           int
	selector     string
	specificity  int
	Declarations Declarations // ordered property/value pairs
	Media        []MediaKey   // media contexts the rule is visible under; nil means MediaAll
	Nesting      *Nesting     // optional annotation of the source form
}

// Nesting records how a rule has been nested within another one.
type Nesting struct {
	Parent    int    // id of the enclosing rule
	Selector  string // selector fragment as written, e.g. "&:hover" or ".child"
	Condition string // media context relative to the parent, as a MediaKey, e.g. "print"
}

// NewRule creates an unattached rule. The selector is normalized and its
// specificity is computed.
func NewRule(selector string, decls ...Declaration) *Rule {
	r := &Rule{id: -1}
	r.SetSelector(selector)
	for _, d := range decls {
		r.Declarations.Set(d)
	}
	return r
}

// ID returns the id of a rule, or -1 if it is not attached to a stylesheet.
func (r *Rule) ID() int { return r.id }

func (r *Rule) entry() {}

// Selector returns the resolved selector text.
func (r *Rule) Selector() string { return r.selector }

// Specificity returns the flattened specificity weight of the selector.
func (r *Rule) Specificity() int { return r.specificity }

// SetSelector changes the selector of a rule and recomputes its specificity.
func (r *Rule) SetSelector(selector string) {
	r.selector = NormalizeSelector(selector)
	r.specificity = specificity.Of(r.selector)
}

// MediaKey returns the key under which the rule is grouped.
func (r *Rule) MediaKey() MediaKey {
	return MediaKeyOf(r.Media)
}

// VisibleUnder is true if the rule applies under a media context.
// Rules for MediaAll are visible under every context.
func (r *Rule) VisibleUnder(key MediaKey) bool {
	if IsAll(r.Media) {
		return true
	}
	return containsKey(r.Media, key)
}

// Clone returns an unattached deep copy of a rule.
func (r *Rule) Clone() *Rule {
	c := &Rule{
		id:           -1,
		selector:     r.selector,
		specificity:  r.specificity,
		Declarations: r.Declarations.Clone(),
	}
	if r.Media != nil {
		c.Media = append([]MediaKey(nil), r.Media...)
	}
	if r.Nesting != nil {
		n := *r.Nesting
		c.Nesting = &n
	}
	return c
}

// String writes a rule in compact form, without media context.
func (r *Rule) String() string {
	if len(r.Declarations) == 0 {
		return r.selector + " { }"
	}
	return r.selector + " { " + r.Declarations.String() + " }"
}

// AtRuleBlock is an at-rule whose content is not interpreted, e.g.
//
//    @font-face { font-family: "Foo"; src: url(foo.woff); }
//    @keyframes spin { from { … } to { … } }
//    @layer base, components;
//
// Body holds the raw text between the braces. Statement at-rules (without a
// block) have Statement set and an empty Body.
type AtRuleBlock struct {
	id        int
	Name      string     // lowercase name without '@', e.g. "font-face"
	Prelude   string     // text between name and block, whitespace collapsed
	Body      string     // raw block content
	Statement bool       // at-rule has been terminated by ';' instead of a block
	Media     []MediaKey // media contexts the at-rule is nested in
}

// NewAtRuleBlock creates an unattached at-rule.
func NewAtRuleBlock(name, prelude, body string) *AtRuleBlock {
	return &AtRuleBlock{
		id:      -1,
		Name:    strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "@")),
		Prelude: CollapseWhitespace(prelude),
		Body:    strings.TrimSpace(body),
	}
}

// ID returns the id of the at-rule, or -1 if it is not attached.
func (a *AtRuleBlock) ID() int { return a.id }

func (a *AtRuleBlock) entry() {}

// Header returns "@name prelude".
func (a *AtRuleBlock) Header() string {
	if a.Prelude == "" {
		return "@" + a.Name
	}
	return "@" + a.Name + " " + a.Prelude
}

func (a *AtRuleBlock) String() string {
	if a.Statement {
		return a.Header() + ";"
	}
	if a.Body == "" {
		return a.Header() + " { }"
	}
	return a.Header() + " { " + a.Body + " }"
}

// ImportStatement is an @import, e.g.
//
//    @import url("print.css") print;
//
// Resolved is set as soon as the imported stylesheet has been spliced in.
type ImportStatement struct {
	id       int
	URL      string
	Media    string // optional media condition as written
	Resolved bool
}

// ID returns the id of the statement, or -1 if it is not attached.
func (i *ImportStatement) ID() int { return i.id }

func (i *ImportStatement) entry() {}

func (i *ImportStatement) String() string {
	s := "@import url(" + QuoteString(i.URL) + ")"
	if i.Media != "" {
		s += " " + i.Media
	}
	return s + ";"
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\a `)

// QuoteString puts a string into double quotes, escaping quotes, backslashes
// and newlines.
func QuoteString(s string) string {
	return `"` + quoteEscaper.Replace(s) + `"`
}
