package cascade

import (
	"strings"

	"github.com/npillmayer/csskit/cssom"
	"github.com/npillmayer/csskit/style"
)

// Flatten returns a flattened copy of a stylesheet. The input is left
// untouched.
//
// Every group of rules with identical selector and media context is reduced to
// a single rule, positioned at the first rule of the group. Groups without any
// declarations are dropped. Entries other than style rules keep their relative
// position. Ids are renumbered densely, therefore ids of the input are not
// valid for the result.
func Flatten(sheet *cssom.Stylesheet) *cssom.Stylesheet {
	if sheet == nil {
		return nil
	}
	flat := sheet.Clone()
	FlattenInPlace(flat)
	return flat
}

// FlattenInPlace flattens a stylesheet the way Flatten does, but modifies the
// stylesheet given as argument.
//
// Nesting annotations are removed from the rules, as nested rules are merged
// with others.
func FlattenInPlace(sheet *cssom.Stylesheet) {
	if sheet == nil {
		return
	}
	groups, order := groupRules(sheet.Rules())
	survivors := make(map[*cssom.Rule]bool, len(order))
	for _, key := range order {
		g := groups[key]
		first := g[0]
		first.Declarations = cascade(g)
		first.Nesting = nil
		if len(first.Declarations) > 0 {
			survivors[first] = true
		}
		tracer().Debugf("cascade: %d rule(s) for %s under %s", len(g), key.selector, key.media)
	}
	err := sheet.Compact(func(e cssom.Entry) bool {
		if r, ok := e.(*cssom.Rule); ok {
			return survivors[r]
		}
		return true
	})
	if err != nil { // cannot happen, compaction never adds media contexts
		tracer().Errorf("cascade: %v", err)
	}
}

// FlattenRules flattens an arbitrary sequence of rules, which need not stem
// from a single stylesheet. The result contains a new, unattached rule for every
// group of rules with identical selector and media context, in order of first
// appearance of the group.
func FlattenRules(rules []*cssom.Rule) []*cssom.Rule {
	groups, order := groupRules(rules)
	flat := make([]*cssom.Rule, 0, len(order))
	for _, key := range order {
		g := groups[key]
		decls := cascade(g)
		if len(decls) == 0 {
			continue
		}
		r := g[0].Clone()
		r.Declarations = decls
		r.Nesting = nil
		flat = append(flat, r)
	}
	return flat
}

// MergeAll folds all rules into a single synthetic rule, as if every rule
// applied to one and the same element. The selector of the result is the list
// of the rules' distinct selectors; its specificity is not meaningful. Media
// contexts are ignored.
//
// MergeAll is kept for compatibility with older clients. Use Flatten or
// FlattenRules, which respect selectors and media contexts.
func MergeAll(rules ...*cssom.Rule) *cssom.Rule {
	var selectors []string
	seen := make(map[string]bool)
	var all []*cssom.Rule
	for _, r := range rules {
		if r == nil {
			continue
		}
		all = append(all, r)
		if !seen[r.Selector()] {
			seen[r.Selector()] = true
			selectors = append(selectors, r.Selector())
		}
	}
	if len(all) == 0 {
		return nil
	}
	merged := cssom.NewRule(strings.Join(selectors, ", "))
	merged.Declarations = cascade(all)
	return merged
}

// Resolve computes the effective declarations for a selector under a media
// context. Rules without a media condition apply under every context.
// With media set to cssom.MediaAll, rules of every media context take part.
func Resolve(sheet *cssom.Stylesheet, selector string, media cssom.MediaKey) cssom.Declarations {
	if sheet == nil {
		return nil
	}
	return cascade(sheet.FindBySelector(selector, media))
}

// --- Cascade ---------------------------------------------------------------

type groupKey struct {
	selector string
	media    cssom.MediaKey
}

func groupRules(rules []*cssom.Rule) (map[groupKey][]*cssom.Rule, []groupKey) {
	groups := make(map[groupKey][]*cssom.Rule)
	var order []groupKey
	for _, r := range rules {
		if r == nil {
			continue
		}
		key := groupKey{selector: r.Selector(), media: r.MediaKey()}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], r)
	}
	return groups, order
}

// candidate is a declaration competing for a property.
type candidate struct {
	important   bool
	specificity int
}

// beats is true if a declaration with cascade properties c, appearing later in
// source order, wins against w.
func (c candidate) beats(w candidate) bool {
	if c.important != w.important {
		return c.important
	}
	return c.specificity >= w.specificity
}

// cascade selects the winning declaration for every longhand of a sequence of
// rules, given in source order, and re-forms shorthands. The result lists
// properties in order of first occurrence, except that a winning declaration
// is kept behind any declaration it overlaps with.
func cascade(rules []*cssom.Rule) cssom.Declarations {
	var decls cssom.Declarations
	winners := make(map[string]candidate)
	pos := make(map[string]int)
	for _, r := range rules {
		for _, d := range r.Declarations {
			for _, l := range style.Expand(d) {
				c := candidate{important: l.Important, specificity: r.Specificity()}
				w, ok := winners[l.Property]
				if !ok {
					winners[l.Property] = c
					pos[l.Property] = len(decls)
					decls = append(decls, l)
					continue
				}
				if c.beats(w) {
					winners[l.Property] = c
					i := pos[l.Property]
					decls[i] = l
					if j := lastOverlap(decls, i); j > i {
						moveBehind(decls, i, j, pos)
					}
				}
			}
		}
	}
	return style.Synthesize(decls)
}

// lastOverlap returns the position of the last declaration after i which
// sets a longhand in common with decls[i], or -1. Overlaps occur only for
// shorthands which have not been expanded, e.g. because they contain var(…).
func lastOverlap(decls cssom.Declarations, i int) int {
	j := -1
	for k := i + 1; k < len(decls); k++ {
		if overlaps(decls[i].Property, decls[k].Property) {
			j = k
		}
	}
	return j
}

func overlaps(a, b string) bool {
	for _, x := range coverage(a) {
		for _, y := range coverage(b) {
			if x == y {
				return true
			}
		}
	}
	return false
}

func coverage(property string) []string {
	if l := style.Longhands(property); l != nil {
		return l
	}
	return []string{property}
}

// moveBehind moves decls[i] to position j, shifting the declarations between
// them to the front.
func moveBehind(decls cssom.Declarations, i, j int, pos map[string]int) {
	d := decls[i]
	copy(decls[i:j], decls[i+1:j+1])
	decls[j] = d
	for k := i; k <= j; k++ {
		pos[decls[k].Property] = k
	}
}
