package style

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"strings"

	"github.com/npillmayer/schuko/tracing"
)

// tracer will return a tracer. We are tracing to 'csskit.style'
func tracer() tracing.Trace {
	return tracing.Select("csskit.style")
}

// Property is a raw value for a CSS property. For example, with
//
//     color: black
//
// a property value of "black" is set. The main purpose of wrapping
// the raw string value into type Property is to provide a set of
// convenient helpers.
type Property string

// NullStyle is an empty property value.
const NullStyle Property = ""

func (p Property) String() string {
	return string(p)
}

// IsInitial denotes if a property is of inheritence-type "initial"
func (p Property) IsInitial() bool {
	return strings.EqualFold(string(p), "initial")
}

// IsInherit denotes if a property is of inheritence-type "inherit"
func (p Property) IsInherit() bool {
	return strings.EqualFold(string(p), "inherit")
}

// IsEmpty checks wether a property is empty, i.e. the null-string.
func (p Property) IsEmpty() bool {
	return p == ""
}

// IsGlobalKeyword is true for the CSS-wide keywords, which are valid for every
// property: inherit, initial, unset, revert and revert-layer.
func (p Property) IsGlobalKeyword() bool {
	switch strings.ToLower(strings.TrimSpace(string(p))) {
	case "inherit", "initial", "unset", "revert", "revert-layer":
		return true
	}
	return false
}

// HasVar is true if a property value references a custom property. Such values
// cannot be distributed onto longhands before substitution.
func (p Property) HasVar() bool {
	return strings.Contains(strings.ToLower(string(p)), "var(")
}

// KeyValue is a container for a style property.
type KeyValue struct {
	Key   string
	Value Property
}

// --- Shorthand families ------------------------------------------------

// Symbolic names for shorthand properties.
const (
	Margin       = "margin"
	Padding      = "padding"
	Border       = "border"
	BorderWidth  = "border-width"
	BorderStyle  = "border-style"
	BorderColor  = "border-color"
	BorderTop    = "border-top"
	BorderRight  = "border-right"
	BorderBottom = "border-bottom"
	BorderLeft   = "border-left"
	BorderRadius = "border-radius"
	Font         = "font"
	Background   = "background"
	ListStyle    = "list-style"
)

var fourDirs = [4]string{"top", "right", "bottom", "left"}
var fourCorners = [4]string{"top-left", "top-right", "bottom-right", "bottom-left"}
var borderAspects = [3]string{"width", "style", "color"}

var fontLonghands = []string{
	"font-style", "font-variant", "font-weight", "font-stretch",
	"font-size", "line-height", "font-family",
}

var backgroundLonghands = []string{
	"background-color", "background-image", "background-repeat", "background-attachment",
	"background-position", "background-size", "background-origin", "background-clip",
}

var listStyleLonghands = []string{
	"list-style-type", "list-style-position", "list-style-image",
}

// longhands maps every shorthand to the longhands it finally expands to.
var longhands = map[string][]string{
	Margin:       quad("margin", "", fourDirs),
	Padding:      quad("padding", "", fourDirs),
	BorderWidth:  quad("border", "width", fourDirs),
	BorderStyle:  quad("border", "style", fourDirs),
	BorderColor:  quad("border", "color", fourDirs),
	BorderRadius: quad("border", "radius", fourCorners),
	BorderTop:    borderSide("top"),
	BorderRight:  borderSide("right"),
	BorderBottom: borderSide("bottom"),
	BorderLeft:   borderSide("left"),
	Border:       borderAll(),
	Font:         fontLonghands,
	Background:   backgroundLonghands,
	ListStyle:    listStyleLonghands,
}

// familyOf maps longhands to their closest shorthand.
var familyOf = map[string]string{}

func init() {
	for _, sh := range []string{Margin, Padding, BorderWidth, BorderStyle, BorderColor,
		BorderRadius, Font, Background, ListStyle} {
		for _, l := range longhands[sh] {
			familyOf[l] = sh
		}
	}
}

func quad(pre string, suf string, dirs [4]string) []string {
	l := make([]string, 4)
	for i, d := range dirs {
		l[i] = p(pre, suf, d)
	}
	return l
}

func borderSide(side string) []string {
	l := make([]string, 3)
	for i, a := range borderAspects {
		l[i] = "border-" + side + "-" + a
	}
	return l
}

func borderAll() []string {
	var l []string
	for _, a := range borderAspects {
		l = append(l, quad("border", a, fourDirs)...)
	}
	return l
}

// IsShorthand is a predicate for the shorthand properties known to this package.
func IsShorthand(property string) bool {
	_, ok := longhands[strings.ToLower(property)]
	return ok
}

// Longhands returns the longhand properties a shorthand finally expands to,
// or nil for unknown shorthands.
// Example:
//    Longhands("margin") => [margin-top margin-right margin-bottom margin-left]
//
func Longhands(shorthand string) []string {
	l := longhands[strings.ToLower(shorthand)]
	if l == nil {
		return nil
	}
	return append([]string(nil), l...)
}

// FamilyOf returns the closest shorthand property for a longhand, or the
// empty string.
// Example:
//    FamilyOf("border-top-width") => "border-width"
//
func FamilyOf(longhand string) string {
	return familyOf[strings.ToLower(longhand)]
}

// SplitCompoundProperty splits up a four-sided shorthand property into its
// individual components. Returns a slice of key-value pairs representing the
// individual (fine grained) style properties.
// Example:
//    SplitCompoundProperty("padding", "3px")
// will return
//    "padding-top"    => "3px"
//    "padding-right"  => "3px"
//    "padding-bottom" => "3px"
//    "padding-left"   => "3px"
//
func SplitCompoundProperty(key string, value Property) ([]KeyValue, error) {
	fields := fieldsOf(value.String())
	switch strings.ToLower(key) {
	case Margin:
		return feazeCompound4("margin", "", fourDirs, fields)
	case Padding:
		return feazeCompound4("padding", "", fourDirs, fields)
	case BorderColor:
		return feazeCompound4("border", "color", fourDirs, fields)
	case BorderWidth:
		return feazeCompound4("border", "width", fourDirs, fields)
	case BorderStyle:
		return feazeCompound4("border", "style", fourDirs, fields)
	case BorderRadius:
		for _, f := range fields {
			if f == "/" {
				return nil, fmt.Errorf("elliptical corners not supported for %s", key)
			}
		}
		return feazeCompound4("border", "radius", fourCorners, fields)
	}
	return nil, fmt.Errorf("not recognized as compound property: %s", key)
}

// CSS logic to distribute individual values from compound shortcuts is as
// follows: https://www.w3schools.com/css/css_border.asp
func feazeCompound4(pre string, suf string, dirs [4]string, fields []string) ([]KeyValue, error) {
	l := len(fields)
	if l == 0 || l > 4 {
		return nil, fmt.Errorf("expecting 1-4 values for %s", p(pre, suf, "*"))
	}
	r := make([]KeyValue, 4)
	r[0] = KeyValue{p(pre, suf, dirs[0]), Property(fields[0])}
	if l >= 2 {
		r[1] = KeyValue{p(pre, suf, dirs[1]), Property(fields[1])}
		if l >= 3 {
			r[2] = KeyValue{p(pre, suf, dirs[2]), Property(fields[2])}
			if l == 4 {
				r[3] = KeyValue{p(pre, suf, dirs[3]), Property(fields[3])}
			} else {
				r[3] = KeyValue{p(pre, suf, dirs[3]), Property(fields[1])}
			}
		} else {
			r[2] = KeyValue{p(pre, suf, dirs[2]), Property(fields[0])}
			r[3] = KeyValue{p(pre, suf, dirs[3]), Property(fields[1])}
		}
	} else {
		r[1] = KeyValue{p(pre, suf, dirs[1]), Property(fields[0])}
		r[2] = KeyValue{p(pre, suf, dirs[2]), Property(fields[0])}
		r[3] = KeyValue{p(pre, suf, dirs[3]), Property(fields[0])}
	}
	return r, nil
}

// collapseCompound4 is the inverse of feazeCompound4: it returns the shortest
// positional form for four side values top, right, bottom, left.
func collapseCompound4(v [4]string) string {
	t, r, b, l := v[0], v[1], v[2], v[3]
	switch {
	case r != l:
		return t + " " + r + " " + b + " " + l
	case t != b:
		return t + " " + r + " " + b
	case t != r:
		return t + " " + r
	}
	return t
}

func p(prefix string, suffix string, tag string) string {
	if suffix == "" {
		return prefix + "-" + tag
	}
	if prefix == "" {
		return tag + "-" + suffix
	}
	return prefix + "-" + tag + "-" + suffix
}
