package units

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/npillmayer/tyse/core/dimen"
	"github.com/npillmayer/tyse/core/percent"
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

const (
	dimenNone uint32 = 0

	dimenAbsolute uint32 = 0x0001
	dimenAuto     uint32 = 0x0002
	dimenInherit  uint32 = 0x0003
	dimenInitial  uint32 = 0x0004
	kindMask      uint32 = 0x000f

	// Flags for content dependent dimensions
	DimenContentMax uint32 = 0x0010
	DimenContentMin uint32 = 0x0020
	DimenContentFit uint32 = 0x0030
	contentMask     uint32 = 0x00f0

	dimenEM      uint32 = 0x0100
	dimenEX      uint32 = 0x0200
	dimenCH      uint32 = 0x0300
	dimenREM     uint32 = 0x0400
	dimenVW      uint32 = 0x0500
	dimenVH      uint32 = 0x0600
	dimenVMIN    uint32 = 0x0700
	dimenVMAX    uint32 = 0x0800
	dimenPercent uint32 = 0x0900
	relativeMask uint32 = 0xff00
)

// ErrNotADimension is returned by Parse for values which are not a single
// CSS dimension.
var ErrNotADimension = errors.New("not a CSS dimension")

// points per absolute unit
var absoluteUnits = map[string]float64{
	"px": 0.75,
	"pt": 1,
	"pc": 12,
	"in": 72,
	"cm": 72 / 2.54,
	"mm": 72 / 25.4,
	"q":  72 / 101.6,
}

var relativeUnits = map[string]uint32{
	"em":   dimenEM,
	"ex":   dimenEX,
	"ch":   dimenCH,
	"rem":  dimenREM,
	"vw":   dimenVW,
	"vh":   dimenVH,
	"vmin": dimenVMIN,
	"vmax": dimenVMAX,
}

// IsAbsoluteUnit is true for units of absolute lengths, e.g. "cm".
func IsAbsoluteUnit(unit string) bool {
	_, ok := absoluteUnits[strings.ToLower(unit)]
	return ok
}

// DimenT is an option type for CSS dimensions.
type DimenT struct {
	d       dimen.DU
	percent percent.Percent
	scale   float64 // factor for relative units and percentages
	flags   uint32
}

/*
type DimenT
	= Auto
	| Inherit
	| Initial
	| JustDimen dimen
	| Percentage Percent
	| ViewRel unit
	| FontRel unit
	| ContentRel Min N
	| ContentRel Max N
*/

func Auto() DimenT {
	return DimenT{flags: dimenAuto}
}

func Inherit() DimenT {
	return DimenT{flags: dimenInherit}
}

func Initial() DimenT {
	return DimenT{flags: dimenInitial}
}

// JustDimen creates a CSS dimension with a fixed value of x.
func JustDimen(x dimen.DU) DimenT {
	return DimenT{d: x, flags: dimenAbsolute}
}

// Percentage creates a CSS dimension with a %-relative value.
func Percentage(n percent.Percent) DimenT {
	return DimenT{percent: n, flags: dimenPercent}
}

// Content creates a content dependent dimension, with flag one of
// DimenContentMax, DimenContentMin or DimenContentFit.
func Content(flag uint32) DimenT {
	return DimenT{flags: flag & contentMask}
}

// Relative creates a font- or viewport-relative dimension, e.g. 1.5em.
func Relative(x float64, unit string) (DimenT, error) {
	u, ok := relativeUnits[strings.ToLower(unit)]
	if !ok {
		return DimenT{}, fmt.Errorf("unknown relative unit %q: %w", unit, ErrNotADimension)
	}
	return DimenT{scale: x, flags: u}, nil
}

// Absolute creates a fixed dimension from a number and an absolute unit.
func Absolute(x float64, unit string) (DimenT, error) {
	pt, ok := absoluteUnits[strings.ToLower(unit)]
	if !ok {
		return DimenT{}, fmt.Errorf("unknown absolute unit %q: %w", unit, ErrNotADimension)
	}
	return JustDimen(dimen.DU(math.Round(x * pt * float64(dimen.PT)))), nil
}

// IsNone is true for the zero value, which is not a valid dimension.
func (d DimenT) IsNone() bool {
	return d.flags == dimenNone
}

// IsAbsolute is true for fixed dimensions.
func (d DimenT) IsAbsolute() bool {
	return d.flags&kindMask == dimenAbsolute
}

// IsRelative is true for font- or viewport-relative dimensions and for
// percentages.
func (d DimenT) IsRelative() bool {
	return d.flags&relativeMask > 0
}

// In returns the value of a fixed dimension in an absolute unit, e.g. "px".
func (d DimenT) In(unit string) (float64, error) {
	if !d.IsAbsolute() {
		return 0, fmt.Errorf("dimension is not absolute: %w", ErrNotADimension)
	}
	pt, ok := absoluteUnits[strings.ToLower(unit)]
	if !ok {
		return 0, fmt.Errorf("unknown absolute unit %q: %w", unit, ErrNotADimension)
	}
	return float64(d.d) / float64(dimen.PT) / pt, nil
}

// Unit returns the unit of a relative dimension, e.g. "rem", or "%" for
// percentages.
func (d DimenT) Unit() string {
	if d.flags&relativeMask == dimenPercent {
		return "%"
	}
	for u, f := range relativeUnits {
		if d.flags&relativeMask == f {
			return u
		}
	}
	return ""
}

// Scale returns the factor of a relative dimension, e.g. 1.5 for 1.5em.
func (d DimenT) Scale() float64 {
	return d.scale
}

func (d DimenT) String() string {
	switch {
	case d.flags&kindMask == dimenAuto:
		return "auto"
	case d.flags&kindMask == dimenInherit:
		return "inherit"
	case d.flags&kindMask == dimenInitial:
		return "initial"
	case d.IsAbsolute():
		px, _ := d.In("px")
		return formatNumber(px, 4) + "px"
	case d.IsRelative():
		return formatNumber(d.scale, 4) + d.Unit()
	}
	switch d.flags & contentMask {
	case DimenContentMax:
		return "max-content"
	case DimenContentMin:
		return "min-content"
	case DimenContentFit:
		return "fit-content"
	}
	return "none"
}

// --- Parsing ---------------------------------------------------------------

// Parse classifies a single dimension value, e.g. "12pt", "80%" or "auto".
// A unitless zero is a fixed dimension of 0. Other values, including
// functions like calc(…), return ErrNotADimension.
func Parse(value string) (DimenT, error) {
	v := strings.TrimSpace(value)
	switch strings.ToLower(v) {
	case "auto":
		return Auto(), nil
	case "inherit":
		return Inherit(), nil
	case "initial":
		return Initial(), nil
	case "max-content":
		return Content(DimenContentMax), nil
	case "min-content":
		return Content(DimenContentMin), nil
	case "fit-content":
		return Content(DimenContentFit), nil
	}
	tt, text, ok := singleToken(v)
	if !ok {
		return DimenT{}, fmt.Errorf("%q: %w", value, ErrNotADimension)
	}
	switch tt {
	case css.NumberToken:
		if x, err := strconv.ParseFloat(text, 64); err == nil && x == 0 {
			return JustDimen(0), nil
		}
	case css.PercentageToken:
		x, err := strconv.ParseFloat(strings.TrimSuffix(text, "%"), 64)
		if err == nil {
			d := Percentage(percent.FromInt(int(math.Round(x))))
			d.scale = x
			return d, nil
		}
	case css.DimensionToken:
		num, unit := splitDimension(text)
		x, err := strconv.ParseFloat(num, 64)
		if err != nil {
			break
		}
		if IsAbsoluteUnit(unit) {
			return Absolute(x, unit)
		}
		return Relative(x, unit)
	}
	return DimenT{}, fmt.Errorf("%q: %w", value, ErrNotADimension)
}

// singleToken lexes a value which is expected to consist of exactly one token.
func singleToken(value string) (css.TokenType, string, bool) {
	l := css.NewLexer(parse.NewInputString(value))
	tt, data := l.Next()
	if tt == css.ErrorToken {
		return tt, "", false
	}
	text := string(data)
	if next, _ := l.Next(); next != css.ErrorToken {
		return tt, text, false
	}
	return tt, text, true
}

// splitDimension splits the text of a dimension token into number and unit.
func splitDimension(text string) (string, string) {
	i := 0
	if i < len(text) && (text[i] == '+' || text[i] == '-') {
		i++
	}
scan:
	for i < len(text) {
		c := text[i]
		switch {
		case c >= '0' && c <= '9' || c == '.':
			i++
		case (c == 'e' || c == 'E') && isExponent(text[i+1:]):
			i++
			if text[i] == '+' || text[i] == '-' {
				i++
			}
		default:
			break scan
		}
	}
	return text[:i], text[i:]
}

func isExponent(s string) bool {
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	return len(s) > 0 && s[0] >= '0' && s[0] <= '9'
}

// formatNumber writes x with at most prec decimals, without trailing zeros.
func formatNumber(x float64, prec int) string {
	p := math.Pow(10, float64(prec))
	x = math.Round(x*p) / p
	if x == 0 {
		return "0"
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}

// --- Matching --------------------------------------------------------------

func (d DimenT) Match() *Matcher {
	return &Matcher{dimen: d}
}

type Matcher struct {
	dimen DimenT
}

func (m *Matcher) IsKind(d DimenT) *Matcher {
	switch {
	case m.dimen.flags&kindMask != 0 && (m.dimen.flags&kindMask) == (d.flags&kindMask):
		return m
	case (m.dimen.flags&relativeMask > 0) && (d.flags&relativeMask > 0):
		if (m.dimen.flags&relativeMask == dimenPercent) != (d.flags&relativeMask == dimenPercent) {
			return nil
		}
		return m
	case (m.dimen.flags&contentMask > 0) && (d.flags&contentMask > 0):
		return m
	}
	return nil
}

func (m *Matcher) Just(du *dimen.DU) *Matcher {
	if m.dimen.IsAbsolute() {
		if du != nil {
			*du = m.dimen.d
		}
		return m
	}
	return nil
}

func (m *Matcher) Percentage(p *percent.Percent) *Matcher {
	if m.dimen.flags&relativeMask == dimenPercent {
		if p != nil {
			*p = m.dimen.percent
		}
		return m
	}
	return nil
}

// --- Expression matching ---------------------------------------------------

type DimenPatterns[T any] struct {
	Auto     T
	Inherit  T
	Initial  T
	Just     T
	Relative T
	Content  T
	Default  T
}

func DimenPattern[T any](d DimenT) *MatchExpr[T] {
	return &MatchExpr[T]{dimen: d}
}

type MatchExpr[T any] struct {
	dimen DimenT
}

func (m *MatchExpr[T]) OneOf(patterns DimenPatterns[T]) T {
	switch {
	case m.dimen.flags&kindMask == dimenAuto:
		return patterns.Auto
	case m.dimen.IsAbsolute():
		return patterns.Just
	case m.dimen.flags&kindMask == dimenInitial:
		return patterns.Initial
	case m.dimen.flags&kindMask == dimenInherit:
		return patterns.Inherit
	case m.dimen.IsRelative():
		return patterns.Relative
	case m.dimen.flags&contentMask > 0:
		return patterns.Content
	}
	return patterns.Default
}

func (m *MatchExpr[T]) With(du *dimen.DU) *MatchExpr[T] {
	*du = m.dimen.d
	return m
}

func (m *MatchExpr[T]) Const(x T) T {
	return x
}
