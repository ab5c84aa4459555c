package units

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/csskit/cssom"
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// DefaultPrecision is the default number of decimals of converted lengths.
const DefaultPrecision = 4

// Normalizer converts absolute lengths within declaration values to a common
// unit. Relative lengths, percentages and unitless numbers are left untouched,
// as are values containing functions like calc(…) or var(…) and the values of
// custom properties.
//
// Normalizer implements cssom.ValueTransformer:
//
//    n, _ := units.NewNormalizer("px", units.DefaultPrecision)
//    sheet.Transform(n)
type Normalizer struct {
	target    string
	precision int
}

var _ cssom.ValueTransformer = &Normalizer{}

// NewNormalizer creates a normalizer converting to an absolute unit, rounding
// to precision decimals.
func NewNormalizer(target string, precision int) (*Normalizer, error) {
	t := strings.ToLower(target)
	if !IsAbsoluteUnit(t) {
		return nil, fmt.Errorf("normalizer target %q: %w", target, ErrNotADimension)
	}
	if precision < 0 {
		precision = DefaultPrecision
	}
	return &Normalizer{target: t, precision: precision}, nil
}

// TransformValue is part of interface cssom.ValueTransformer.
func (n *Normalizer) TransformValue(property, value string) (string, bool) {
	if cssom.IsCustomProperty(property) || cssom.IsOpaqueValue(value) {
		return value, false
	}
	var b strings.Builder
	changed := false
	l := css.NewLexer(parse.NewInputString(value))
	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			break
		}
		if tt == css.DimensionToken {
			if s, ok := n.convert(string(data)); ok {
				b.WriteString(s)
				changed = true
				continue
			}
		}
		b.Write(data)
	}
	if !changed {
		return value, false
	}
	tracer().Debugf("units: %s: %s => %s", property, value, b.String())
	return b.String(), true
}

func (n *Normalizer) convert(text string) (string, bool) {
	num, unit := splitDimension(text)
	if !IsAbsoluteUnit(unit) || strings.EqualFold(unit, n.target) {
		return text, false
	}
	x, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return text, false
	}
	d, err := Absolute(x, unit)
	if err != nil {
		return text, false
	}
	y, err := d.In(n.target)
	if err != nil {
		return text, false
	}
	return formatNumber(y, n.precision) + n.target, true
}
