package style

import (
	"strings"

	"github.com/npillmayer/csskit/cssom"
	"github.com/tdewolff/parse/v2/css"
)

// Expand returns the longhand declarations a shorthand declaration implies,
// e.g.
//
//    margin: 3em 1em  =>  margin-top: 3em; margin-right: 1em;
//                         margin-bottom: 3em; margin-left: 1em
//
// Four-sided properties follow the usual positional rule, border distributes
// width, style and color onto all four sides, font, background and list-style
// decompose into their named sub-properties. Sub-properties which are not
// present in the shorthand value are omitted rather than set to their initial
// value. A CSS-wide keyword (inherit, initial, …) expands to every longhand.
//
// Declarations which are not shorthands, custom properties, values containing
// var(…), and values which cannot be decomposed are returned unchanged.
// The importance of the shorthand is propagated to every longhand.
func Expand(d cssom.Declaration) []cssom.Declaration {
	prop := strings.ToLower(d.Property)
	lh, ok := longhands[prop]
	if !ok || d.IsCustom() {
		return []cssom.Declaration{d}
	}
	value := Property(d.Value)
	if value.HasVar() {
		tracer().Debugf("style: not expanding %s, contains var()", prop)
		return []cssom.Declaration{d}
	}
	if value.IsGlobalKeyword() {
		kw := strings.ToLower(strings.TrimSpace(d.Value))
		decls := make([]cssom.Declaration, len(lh))
		for i, l := range lh {
			decls[i] = cssom.Declaration{Property: l, Value: kw, Important: d.Important}
		}
		return decls
	}
	var kv []KeyValue
	var err error
	switch prop {
	case Margin, Padding, BorderWidth, BorderStyle, BorderColor, BorderRadius:
		kv, err = SplitCompoundProperty(prop, value)
		if err != nil {
			kv = nil
		}
	case Border:
		kv = expandBorder(value)
	case BorderTop, BorderRight, BorderBottom, BorderLeft:
		kv = expandBorderSide(strings.TrimPrefix(prop, "border-"), value)
	case Font:
		kv = expandFont(value)
	case Background:
		kv = expandBackground(value)
	case ListStyle:
		kv = expandListStyle(value)
	}
	if len(kv) == 0 {
		tracer().Debugf("style: cannot expand %s: %s", prop, d.Value)
		return []cssom.Declaration{d}
	}
	decls := make([]cssom.Declaration, len(kv))
	for i, x := range kv {
		decls[i] = cssom.Declaration{Property: x.Key, Value: x.Value.String(), Important: d.Important}
	}
	return decls
}

// ExpandAll expands every declaration of a list. If a longhand occurs more
// than once, the later one replaces the earlier one in place.
func ExpandAll(decls cssom.Declarations) cssom.Declarations {
	var out cssom.Declarations
	for _, d := range decls {
		for _, x := range Expand(d) {
			out.Set(x)
		}
	}
	return out
}

// borderParts splits a border value into width, style and color.
// Every part may be present at most once.
func borderParts(value Property) (parts [3]string, ok bool) {
	comps := componentsOf(value.String())
	if len(comps) == 0 || len(comps) > 3 {
		return parts, false
	}
	for _, c := range comps {
		i := 2 // color
		switch {
		case isBorderStyle(c.lower()):
			i = 1
		case isBorderWidth(c):
			i = 0
		case !isColor(c):
			return parts, false
		}
		if parts[i] != "" {
			return parts, false
		}
		parts[i] = c.text
	}
	return parts, true
}

func expandBorder(value Property) []KeyValue {
	parts, ok := borderParts(value)
	if !ok {
		return nil
	}
	var kv []KeyValue
	for i, a := range borderAspects {
		if parts[i] == "" {
			continue
		}
		for _, d := range fourDirs {
			kv = append(kv, KeyValue{p("border", a, d), Property(parts[i])})
		}
	}
	return kv
}

func expandBorderSide(side string, value Property) []KeyValue {
	parts, ok := borderParts(value)
	if !ok {
		return nil
	}
	var kv []KeyValue
	for i, a := range borderAspects {
		if parts[i] != "" {
			kv = append(kv, KeyValue{"border-" + side + "-" + a, Property(parts[i])})
		}
	}
	return kv
}

// expandFont decomposes
//
//    [ style || variant || weight || stretch ]? size [ / line-height ]? family
//
// System fonts (caption, menu, …) are not decomposed.
func expandFont(value Property) []KeyValue {
	comps := componentsOf(value.String())
	if len(comps) == 1 && isSystemFont(comps[0].lower()) {
		return nil
	}
	var pre [4]string // style, variant, weight, stretch
	i := 0
	for ; i < len(comps) && i < 4; i++ {
		c := comps[i]
		s := c.lower()
		slot := -1
		switch {
		case s == "normal":
			for j := range pre {
				if pre[j] == "" {
					slot = j
					break
				}
			}
		case isFontStyle(s):
			slot = 0
		case s == "small-caps":
			slot = 1
		case isFontWeight(c):
			slot = 2
		case isFontStretch(s):
			slot = 3
		}
		if slot < 0 {
			break
		}
		if pre[slot] != "" {
			return nil
		}
		pre[slot] = c.text
	}
	if i >= len(comps) || !isFontSize(comps[i]) {
		return nil
	}
	size := comps[i].text
	i++
	var lineHeight string
	if i < len(comps) && comps[i].isSlash() {
		if i+1 >= len(comps) || comps[i+1].isComma() {
			return nil
		}
		lineHeight = comps[i+1].text
		i += 2
	}
	if i >= len(comps) || comps[i].isComma() || comps[len(comps)-1].isComma() {
		return nil
	}
	family := joinComponents(comps[i:])
	var kv []KeyValue
	for j, v := range pre {
		if v != "" {
			kv = append(kv, KeyValue{fontLonghands[j], Property(v)})
		}
	}
	kv = append(kv, KeyValue{"font-size", Property(size)})
	if lineHeight != "" {
		kv = append(kv, KeyValue{"line-height", Property(lineHeight)})
	}
	return append(kv, KeyValue{"font-family", Property(family)})
}

// expandBackground decomposes a single background layer. Multi-layer values
// (separated by commas) are not decomposed.
func expandBackground(value Property) []KeyValue {
	comps := componentsOf(value.String())
	var (
		color, image, repeat, attachment string
		position, size                   []string
		boxes                            []string
	)
	for i := 0; i < len(comps); i++ {
		c := comps[i]
		s := c.lower()
		switch {
		case c.isComma():
			return nil
		case s == "none" || isImage(c):
			if image != "" {
				return nil
			}
			image = c.text
		case isRepeat(s):
			if repeat != "" && len(strings.Fields(repeat)) == 2 {
				return nil
			}
			if repeat != "" {
				repeat += " " + c.text
			} else {
				repeat = c.text
			}
		case isAttachment(s):
			if attachment != "" {
				return nil
			}
			attachment = c.text
		case isBox(s):
			if len(boxes) == 2 {
				return nil
			}
			boxes = append(boxes, c.text)
		case isPosition(c):
			if position != nil {
				return nil
			}
			for i < len(comps) && isPosition(comps[i]) && len(position) < 4 {
				position = append(position, comps[i].text)
				i++
			}
			if i < len(comps) && comps[i].isSlash() {
				i++
				for i < len(comps) && isBackgroundSize(comps[i]) && len(size) < 2 {
					size = append(size, comps[i].text)
					i++
				}
				if len(size) == 0 {
					return nil
				}
			}
			i--
		case isColor(c):
			if color != "" {
				return nil
			}
			color = c.text
		default:
			return nil
		}
	}
	var kv []KeyValue
	add := func(key, v string) {
		if v != "" {
			kv = append(kv, KeyValue{key, Property(v)})
		}
	}
	add("background-color", color)
	add("background-image", image)
	add("background-repeat", repeat)
	add("background-attachment", attachment)
	add("background-position", strings.Join(position, " "))
	add("background-size", strings.Join(size, " "))
	switch len(boxes) {
	case 1:
		add("background-origin", boxes[0])
		add("background-clip", boxes[0])
	case 2:
		add("background-origin", boxes[0])
		add("background-clip", boxes[1])
	}
	return kv
}

// expandListStyle decomposes "type || position || image". "none" sets the
// type first, then the image.
func expandListStyle(value Property) []KeyValue {
	comps := componentsOf(value.String())
	var typ, pos, img string
	nones := 0
	for _, c := range comps {
		s := c.lower()
		switch {
		case s == "none":
			nones++
			if nones > 2 {
				return nil
			}
		case isListPosition(s):
			if pos != "" {
				return nil
			}
			pos = c.text
		case isImage(c):
			if img != "" {
				return nil
			}
			img = c.text
		case c.is(css.IdentToken) || c.is(css.StringToken) || c.function() == "symbols":
			if typ != "" {
				return nil
			}
			typ = c.text
		default:
			return nil
		}
	}
	for ; nones > 0; nones-- {
		switch {
		case typ == "":
			typ = "none"
		case img == "":
			img = "none"
		default:
			return nil
		}
	}
	var kv []KeyValue
	if typ != "" {
		kv = append(kv, KeyValue{"list-style-type", Property(typ)})
	}
	if pos != "" {
		kv = append(kv, KeyValue{"list-style-position", Property(pos)})
	}
	if img != "" {
		kv = append(kv, KeyValue{"list-style-image", Property(img)})
	}
	return kv
}
