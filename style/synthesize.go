package style

import (
	"strings"

	"github.com/npillmayer/csskit/cssom"
)

// Shorthands are synthesized in this order. Border has to precede its
// partial families.
var synthesisOrder = []string{
	Margin, Padding,
	Border, BorderWidth, BorderStyle, BorderColor,
	BorderTop, BorderRight, BorderBottom, BorderLeft,
	BorderRadius, Font, Background, ListStyle,
}

// Synthesize replaces sets of longhands by their shorthand wherever possible,
// e.g.
//
//    margin-top: 10px; margin-right: 5px; margin-bottom: 5px; margin-left: 5px
//
// becomes "margin: 10px 5px 5px". The shorthand takes the position of the
// first of its longhands. Longhands for which no shorthand can be formed are
// left as they are. The input list is not modified.
func Synthesize(decls cssom.Declarations) cssom.Declarations {
	out := decls.Clone()
	for _, sh := range synthesisOrder {
		d, members, ok := synthesize(sh, out)
		if !ok {
			continue
		}
		out = replaceMembers(out, d, members)
	}
	return out
}

// SynthesizeFamily tries to form a shorthand declaration from the longhands of
// a family present in decls. It returns false if the set of longhands is
// incomplete or if the longhands differ in importance ("no shorthand possible").
//
// Four-sided families, border and list-style need all of their longhands.
// Font needs at least font-size and font-family. Background needs all of its
// longhands.
func SynthesizeFamily(shorthand string, decls cssom.Declarations) (cssom.Declaration, bool) {
	d, _, ok := synthesize(strings.ToLower(shorthand), decls)
	return d, ok
}

func synthesize(sh string, decls cssom.Declarations) (cssom.Declaration, []string, bool) {
	lh := longhands[sh]
	if lh == nil || decls.Index(sh) >= 0 {
		return cssom.Declaration{}, nil, false
	}
	values := make(map[string]string, len(lh))
	var members []string
	important, first := false, true
	for _, l := range lh {
		d, ok := decls.Get(l)
		if !ok {
			continue
		}
		if first {
			important, first = d.Important, false
		} else if d.Important != important {
			return cssom.Declaration{}, nil, false // mixed !important
		}
		if Property(d.Value).HasVar() {
			return cssom.Declaration{}, nil, false
		}
		values[l] = d.Value
		members = append(members, l)
	}
	if sh == Font {
		if values["font-size"] == "" || values["font-family"] == "" {
			return cssom.Declaration{}, nil, false
		}
	} else if len(members) != len(lh) {
		return cssom.Declaration{}, nil, false
	}
	value, ok := globalKeyword(lh, members, values)
	if !ok {
		return cssom.Declaration{}, nil, false
	}
	if value == "" {
		value = compose(sh, lh, values)
	}
	if value == "" {
		return cssom.Declaration{}, nil, false
	}
	d := cssom.Declaration{Property: sh, Value: value, Important: important}
	if !expandsTo(d, members, values) {
		tracer().Debugf("style: %s: %s would not expand to its longhands", sh, value)
		return cssom.Declaration{}, nil, false
	}
	return d, members, true
}

// globalKeyword checks for CSS-wide keywords within a set of longhands. These
// may be synthesized only if all longhands share the same keyword.
func globalKeyword(lh, members []string, values map[string]string) (string, bool) {
	kw := ""
	n := 0
	for _, m := range members {
		if Property(values[m]).IsGlobalKeyword() {
			v := strings.ToLower(strings.TrimSpace(values[m]))
			if kw != "" && v != kw {
				return "", false
			}
			kw = v
			n++
		}
	}
	if n == 0 {
		return "", true
	}
	if n != len(members) || len(members) != len(lh) {
		return "", false
	}
	return kw, true
}

// compose writes the shorthand value for a set of longhand values.
// It returns the empty string if the values cannot be combined.
func compose(sh string, lh []string, values map[string]string) string {
	switch sh {
	case Margin, Padding, BorderWidth, BorderStyle, BorderColor, BorderRadius:
		var v [4]string
		for i, l := range lh {
			v[i] = values[l]
		}
		return collapseCompound4(v)
	case Border:
		var parts []string
		for _, a := range borderAspects {
			v := values[p("border", a, "top")]
			for _, d := range fourDirs[1:] {
				if values[p("border", a, d)] != v {
					return ""
				}
			}
			parts = append(parts, v)
		}
		return strings.Join(parts, " ")
	case BorderTop, BorderRight, BorderBottom, BorderLeft:
		return values[lh[0]] + " " + values[lh[1]] + " " + values[lh[2]]
	case Font:
		var parts []string
		for _, l := range fontLonghands[:4] {
			if v := values[l]; v != "" {
				parts = append(parts, v)
			}
		}
		size := values["font-size"]
		if lh := values["line-height"]; lh != "" {
			size += "/" + lh
		}
		parts = append(parts, size, values["font-family"])
		return strings.Join(parts, " ")
	case Background:
		position := values["background-position"]
		if size := values["background-size"]; size != "" {
			position += " / " + size
		}
		parts := []string{
			values["background-image"], position, values["background-repeat"],
			values["background-attachment"], values["background-origin"],
		}
		if clip := values["background-clip"]; clip != values["background-origin"] {
			parts = append(parts, clip)
		}
		parts = append(parts, values["background-color"])
		return strings.Join(parts, " ")
	case ListStyle:
		return values["list-style-type"] + " " + values["list-style-position"] + " " +
			values["list-style-image"]
	}
	return ""
}

// expandsTo makes sure that a synthesized shorthand expands to exactly the
// longhands it has been synthesized from.
func expandsTo(d cssom.Declaration, members []string, values map[string]string) bool {
	exp := Expand(d)
	if len(exp) != len(members) {
		return false
	}
	for _, x := range exp {
		v, ok := values[x.Property]
		if !ok || !strings.EqualFold(v, x.Value) && !Property(v).IsGlobalKeyword() {
			return false
		}
		if Property(v).IsGlobalKeyword() && !strings.EqualFold(strings.TrimSpace(v), x.Value) {
			return false
		}
	}
	return true
}

// replaceMembers puts d at the position of the first member and removes the
// other members.
func replaceMembers(decls cssom.Declarations, d cssom.Declaration, members []string) cssom.Declarations {
	isMember := make(map[string]bool, len(members))
	for _, m := range members {
		isMember[m] = true
	}
	out := make(cssom.Declarations, 0, len(decls)-len(members)+1)
	placed := false
	for _, x := range decls {
		if !isMember[x.Property] {
			out = append(out, x)
			continue
		}
		if !placed {
			out = append(out, d)
			placed = true
		}
	}
	return out
}
