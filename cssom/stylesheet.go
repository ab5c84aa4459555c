package cssom

import (
	"fmt"
	"strings"
)

// DefaultMaxMediaKeys is the default bound for the number of distinct media
// contexts of a stylesheet.
const DefaultMaxMediaKeys = 1000

// Stylesheet is an ordered sequence of entries, together with an optional
// charset and an index of media contexts.
//
// Stylesheets are not safe for concurrent mutation. The zero value is not
// usable, create stylesheets with NewStylesheet.
type Stylesheet struct {
	Charset      string // from @charset, if present
	MaxMediaKeys int    // bound for distinct media contexts, see DefaultMaxMediaKeys

	entries       []Entry
	mediaIndex    map[MediaKey][]int
	mediaOrder    []MediaKey
	diagnostics   []Diagnostic
	importsClosed bool
}

// NewStylesheet creates an empty stylesheet.
func NewStylesheet() *Stylesheet {
	return &Stylesheet{
		MaxMediaKeys: DefaultMaxMediaKeys,
		mediaIndex:   make(map[MediaKey][]int),
	}
}

// Len returns the number of entries.
func (s *Stylesheet) Len() int {
	return len(s.entries)
}

// Empty is true for a stylesheet without any entries.
func (s *Stylesheet) Empty() bool {
	return len(s.entries) == 0
}

// SetCharset sets the charset of a stylesheet. A charset may only be set once
// and only as long as the stylesheet is empty; SetCharset returns false
// otherwise.
func (s *Stylesheet) SetCharset(charset string) bool {
	if s.Charset != "" || len(s.entries) > 0 {
		return false
	}
	s.Charset = charset
	return true
}

// ImportsClosed is true as soon as rules have been added. From then on,
// AddImport will refuse to add @import statements.
func (s *Stylesheet) ImportsClosed() bool {
	return s.importsClosed
}

// AddRule appends a rule to the stylesheet and returns its id.
// A rule which already belongs to a stylesheet is cloned first.
//
// Adding a rule may grow the media index. If the number of distinct media
// contexts would exceed MaxMediaKeys, the rule is not added and
// ErrSizeExceeded is returned.
func (s *Stylesheet) AddRule(r *Rule) (int, error) {
	if r == nil || r.selector == "" {
		return -1, ErrEmptySelector
	}
	if r.id >= 0 {
		r = r.Clone()
	}
	if err := s.checkMediaGrowth(r.Media); err != nil {
		return -1, err
	}
	r.id = len(s.entries)
	s.entries = append(s.entries, r)
	s.index(r.id, r.Media)
	s.importsClosed = true
	return r.id, nil
}

// AddRules splits a selector list at top-level commas and adds a rule for
// every selector, each with its own copy of the declarations. Empty selectors
// within the list are skipped. It returns the rules added.
func (s *Stylesheet) AddRules(selectors string, decls Declarations, media ...MediaKey) ([]*Rule, error) {
	var rules []*Rule
	for _, sel := range SplitSelectorList(selectors) {
		if sel == "" {
			continue
		}
		r := NewRule(sel)
		r.Declarations = decls.Clone()
		if len(media) > 0 {
			r.Media = append([]MediaKey(nil), media...)
		}
		if _, err := s.AddRule(r); err != nil {
			return rules, err
		}
		rules = append(rules, r)
	}
	if len(rules) == 0 {
		return nil, ErrEmptySelector
	}
	return rules, nil
}

// AddAtRule appends an opaque at-rule and returns its id.
// Apart from "@layer" statements, at-rules close the window for @import.
func (s *Stylesheet) AddAtRule(a *AtRuleBlock) (int, error) {
	if a == nil || a.Name == "" {
		return -1, fmt.Errorf("cssom: at-rule without a name")
	}
	if a.id >= 0 {
		c := *a
		a = &c
	}
	if err := s.checkMediaGrowth(a.Media); err != nil {
		return -1, err
	}
	a.id = len(s.entries)
	s.entries = append(s.entries, a)
	s.registerKeys(a.Media)
	if !(a.Statement && a.Name == "layer") {
		s.importsClosed = true
	}
	return a.id, nil
}

// AddImport appends an @import statement. @import is accepted only as long as
// no rule has been added; otherwise ErrLateImport is returned.
func (s *Stylesheet) AddImport(url, media string) (*ImportStatement, error) {
	if s.importsClosed {
		return nil, ErrLateImport
	}
	imp := &ImportStatement{
		id:    len(s.entries),
		URL:   url,
		Media: CollapseWhitespace(media),
	}
	s.entries = append(s.entries, imp)
	return imp, nil
}

// Warn records a non-fatal diagnostic.
func (s *Stylesheet) Warn(d Diagnostic) {
	tracer().Infof("css: %s", d)
	s.diagnostics = append(s.diagnostics, d)
}

// Diagnostics returns the warnings collected while building the stylesheet.
func (s *Stylesheet) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), s.diagnostics...)
}

// --- Queries ---------------------------------------------------------------

// Entries returns all entries in order.
func (s *Stylesheet) Entries() []Entry {
	return append([]Entry(nil), s.entries...)
}

// Entry returns the entry for an id, or nil.
func (s *Stylesheet) Entry(id int) Entry {
	if id < 0 || id >= len(s.entries) {
		return nil
	}
	return s.entries[id]
}

// Rule returns the rule for an id, or nil if id does not denote a rule.
func (s *Stylesheet) Rule(id int) *Rule {
	r, _ := s.Entry(id).(*Rule)
	return r
}

// Rules returns all style rules in order.
func (s *Stylesheet) Rules() []*Rule {
	rules := make([]*Rule, 0, len(s.entries))
	for _, e := range s.entries {
		if r, ok := e.(*Rule); ok {
			rules = append(rules, r)
		}
	}
	return rules
}

// RulesFor returns the rules indexed under a media context, in order.
// RulesFor(MediaAll) returns the rules without any media condition.
func (s *Stylesheet) RulesFor(key MediaKey) []*Rule {
	ids := s.mediaIndex[key]
	rules := make([]*Rule, 0, len(ids))
	for _, id := range ids {
		if r := s.Rule(id); r != nil {
			rules = append(rules, r)
		}
	}
	return rules
}

// MediaKeys returns all media contexts in order of first appearance.
func (s *Stylesheet) MediaKeys() []MediaKey {
	return append([]MediaKey(nil), s.mediaOrder...)
}

// MediaIndex returns a copy of the media index, mapping media contexts to the
// ids of the rules visible under them.
func (s *Stylesheet) MediaIndex() map[MediaKey][]int {
	m := make(map[MediaKey][]int, len(s.mediaIndex))
	for k, ids := range s.mediaIndex {
		m[k] = append([]int(nil), ids...)
	}
	return m
}

// Imports returns all @import statements in order.
func (s *Stylesheet) Imports() []*ImportStatement {
	var imports []*ImportStatement
	for _, e := range s.entries {
		if imp, ok := e.(*ImportStatement); ok {
			imports = append(imports, imp)
		}
	}
	return imports
}

// AtRules returns all opaque at-rules in order.
func (s *Stylesheet) AtRules() []*AtRuleBlock {
	var atrules []*AtRuleBlock
	for _, e := range s.entries {
		if a, ok := e.(*AtRuleBlock); ok {
			atrules = append(atrules, a)
		}
	}
	return atrules
}

// FindBySelector returns the rules for a selector. Without media arguments, or
// if MediaAll is among them, rules of every media context are returned.
// Otherwise the result is restricted to rules visible under one of the media
// contexts given, which includes rules without a media condition.
func (s *Stylesheet) FindBySelector(selector string, media ...MediaKey) []*Rule {
	selector = NormalizeSelector(selector)
	all := len(media) == 0 || containsKey(media, MediaAll)
	var rules []*Rule
	for _, e := range s.entries {
		r, ok := e.(*Rule)
		if !ok || r.selector != selector {
			continue
		}
		if all || r.visibleUnderAny(media) {
			rules = append(rules, r)
		}
	}
	return rules
}

func (r *Rule) visibleUnderAny(keys []MediaKey) bool {
	for _, k := range keys {
		if r.VisibleUnder(k) {
			return true
		}
	}
	return false
}

// EachSelector calls f for every rule visible under a media context, in order.
// For MediaAll, f is called for every rule. Iteration stops if f returns false.
func (s *Stylesheet) EachSelector(media MediaKey, f func(selector string, decls Declarations, specificity int) bool) {
	for _, e := range s.entries {
		r, ok := e.(*Rule)
		if !ok {
			continue
		}
		if media != MediaAll && !r.VisibleUnder(media) {
			continue
		}
		if !f(r.selector, r.Declarations, r.specificity) {
			return
		}
	}
}

// Clone returns a deep copy of a stylesheet.
func (s *Stylesheet) Clone() *Stylesheet {
	c := &Stylesheet{
		Charset:       s.Charset,
		MaxMediaKeys:  s.MaxMediaKeys,
		entries:       make([]Entry, len(s.entries)),
		mediaIndex:    s.MediaIndex(),
		mediaOrder:    s.MediaKeys(),
		diagnostics:   s.Diagnostics(),
		importsClosed: s.importsClosed,
	}
	for i, e := range s.entries {
		c.entries[i] = cloneEntry(e)
		setID(c.entries[i], i)
	}
	return c
}

func cloneEntry(e Entry) Entry {
	switch x := e.(type) {
	case *Rule:
		return x.Clone()
	case *AtRuleBlock:
		c := *x
		if x.Media != nil {
			c.Media = append([]MediaKey(nil), x.Media...)
		}
		return &c
	case *ImportStatement:
		c := *x
		return &c
	}
	panic(fmt.Sprintf("cssom: unknown entry type %T", e))
}

func setID(e Entry, id int) {
	switch x := e.(type) {
	case *Rule:
		x.id = id
	case *AtRuleBlock:
		x.id = id
	case *ImportStatement:
		x.id = id
	}
}

func mediaOf(e Entry) []MediaKey {
	switch x := e.(type) {
	case *Rule:
		return x.Media
	case *AtRuleBlock:
		return x.Media
	}
	return nil
}

// --- Compaction ------------------------------------------------------------

// Compact removes every entry for which keep returns false. Remaining entries
// are renumbered densely, preserving their order, and the media index is
// rebuilt. Nesting annotations referring to a removed parent are dropped.
func (s *Stylesheet) Compact(keep func(Entry) bool) error {
	kept := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if keep(e) {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(s.entries) {
		return nil
	}
	tracer().Debugf("cssom: compacting %d entries to %d", len(s.entries), len(kept))
	return s.reset(kept)
}

// RemoveRule removes the entry with the given id. Entries are renumbered.
func (s *Stylesheet) RemoveRule(id int) error {
	target := s.Entry(id)
	if target == nil {
		return ErrNoSuchEntry
	}
	return s.Compact(func(e Entry) bool { return e != target })
}

// SpliceImport replaces the content of an unresolved @import statement: the
// entries of sub are inserted directly after the statement, which is marked as
// resolved. Thus imported rules precede the rules which followed the @import in
// source. If the statement carries a media query list, every entry spliced in
// is tagged with each of its queries, the way rules of a @media block are.
// Entries are renumbered densely.
//
// sub must not be used any more after the call.
func (s *Stylesheet) SpliceImport(importID int, sub *Stylesheet) error {
	imp, ok := s.Entry(importID).(*ImportStatement)
	if !ok || imp.Resolved {
		return ErrNotAnImport
	}
	if sub == nil {
		imp.Resolved = true
		return nil
	}
	outer := MediaKeysFor(imp.Media)
	inserted := make([]Entry, 0, len(sub.entries))
	offset := importID + 1
	for _, e := range sub.entries {
		e = cloneEntry(e)
		switch x := e.(type) {
		case *Rule:
			x.Media = composeAll(outer, x.Media)
			if x.Nesting != nil {
				x.Nesting.Parent += offset
			}
		case *AtRuleBlock:
			x.Media = composeAll(outer, x.Media)
		}
		inserted = append(inserted, e)
	}
	entries := make([]Entry, 0, len(s.entries)+len(inserted))
	entries = append(entries, s.entries[:offset]...)
	entries = append(entries, inserted...)
	entries = append(entries, s.entries[offset:]...)
	if err := s.checkKeys(entries); err != nil {
		return err
	}
	for i, e := range entries {
		if r, ok := e.(*Rule); ok && r.Nesting != nil && i >= offset+len(inserted) && r.Nesting.Parent >= offset {
			r.Nesting.Parent += len(inserted)
		}
		setID(e, i)
	}
	s.install(entries)
	imp.Resolved = true
	s.diagnostics = append(s.diagnostics, sub.diagnostics...)
	return nil
}

func composeAll(outer []MediaKey, keys []MediaKey) []MediaKey {
	if IsAll(outer) {
		return keys
	}
	if len(keys) == 0 {
		return outer
	}
	composed := make([]MediaKey, 0, len(outer)*len(keys))
	for _, o := range outer {
		for _, k := range keys {
			composed = append(composed, ComposeMedia(o, k))
		}
	}
	return composed
}

// reset installs a new sequence of entries, renumbering them and rebuilding
// the media index. The stylesheet is left untouched if the media bound is
// exceeded.
func (s *Stylesheet) reset(entries []Entry) error {
	if err := s.checkKeys(entries); err != nil {
		return err
	}
	s.install(entries)
	return nil
}

func (s *Stylesheet) checkKeys(entries []Entry) error {
	keys := make(map[MediaKey]struct{})
	for _, e := range entries {
		for _, k := range normalizedKeys(mediaOf(e)) {
			if _, ok := keys[k]; !ok {
				keys[k] = struct{}{}
				if len(keys) > s.maxMediaKeys() {
					return fmt.Errorf("cssom: %d media contexts: %w", len(keys), ErrSizeExceeded)
				}
			}
		}
	}
	return nil
}

// install renumbers entries and rebuilds the media index. Nesting parents are
// expected to refer to the current ids of entries of the new sequence.
func (s *Stylesheet) install(entries []Entry) {
	renumber := make(map[int]int, len(entries))
	for i, e := range entries {
		renumber[e.ID()] = i
	}
	s.entries = entries
	s.mediaIndex = make(map[MediaKey][]int)
	s.mediaOrder = nil
	for i, e := range entries {
		setID(e, i)
		switch x := e.(type) {
		case *Rule:
			s.index(i, x.Media)
			if x.Nesting != nil {
				if p, ok := renumber[x.Nesting.Parent]; ok && p < i {
					x.Nesting.Parent = p
				} else {
					x.Nesting = nil
				}
			}
		case *AtRuleBlock:
			s.registerKeys(x.Media)
		}
	}
}

// --- Media index -----------------------------------------------------------

func (s *Stylesheet) maxMediaKeys() int {
	if s.MaxMediaKeys <= 0 {
		return DefaultMaxMediaKeys
	}
	return s.MaxMediaKeys
}

func normalizedKeys(keys []MediaKey) []MediaKey {
	if len(keys) == 0 {
		return []MediaKey{MediaAll}
	}
	return keys
}

// checkMediaGrowth makes sure the media index stays within its bound when
// indexing under keys. It has to be called before any mutation.
func (s *Stylesheet) checkMediaGrowth(keys []MediaKey) error {
	n := len(s.mediaOrder)
	for i, k := range normalizedKeys(keys) {
		if _, ok := s.mediaIndex[k]; ok {
			continue
		}
		if containsKey(keys[:i], k) {
			continue
		}
		n++
		if n > s.maxMediaKeys() {
			return fmt.Errorf("cssom: media context %q exceeds limit of %d: %w",
				shorten(string(k)), s.maxMediaKeys(), ErrSizeExceeded)
		}
	}
	return nil
}

func (s *Stylesheet) registerKeys(keys []MediaKey) {
	for _, k := range normalizedKeys(keys) {
		if _, ok := s.mediaIndex[k]; !ok {
			s.mediaIndex[k] = nil
			s.mediaOrder = append(s.mediaOrder, k)
		}
	}
}

func (s *Stylesheet) index(id int, keys []MediaKey) {
	s.registerKeys(keys)
	for _, k := range normalizedKeys(keys) {
		ids := s.mediaIndex[k]
		if len(ids) > 0 && ids[len(ids)-1] == id {
			continue
		}
		s.mediaIndex[k] = append(ids, id)
	}
}

func shorten(s string) string {
	if len(s) <= 40 {
		return s
	}
	return strings.TrimSpace(s[:37]) + "..."
}
