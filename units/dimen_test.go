package units

import (
	"errors"
	"testing"

	"github.com/npillmayer/csskit/cssom"
	"github.com/npillmayer/csskit/cssom/parser"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/tyse/core/dimen"
	"github.com/npillmayer/tyse/core/percent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDimenBasic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "csskit.units")
	defer teardown()
	//
	ten := JustDimen(dimen.PT * 10)
	var du dimen.DU
	switch m := ten.Match(); m {
	case m.Just(&du):
		t.Logf("du = %d", du)
	default:
		t.Errorf("expected Just(10pt) to be a fixed value, isn't: %#v", ten)
	}

	auto := Auto()
	switch m := auto.Match(); m {
	case m.IsKind(Auto()):
		t.Logf("dimen is auto")
	default:
		t.Errorf("expected dimen auto to match auto, isn't: %#v", auto)
	}

	pcnt := Percentage(percent.FromInt(80))
	var p percent.Percent
	switch m := pcnt.Match(); m {
	case m.Percentage(&p):
		assert.Equal(t, percent.FromInt(80), p)
	default:
		t.Errorf("expected Percentage(80) to be a percentage value, isn't: %#v", pcnt)
	}
}

func TestDimenPattern(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "csskit.units")
	defer teardown()
	//
	ten := JustDimen(dimen.PT * 10)
	var du dimen.DU
	m := DimenPattern[int](ten)
	zehn := m.OneOf(DimenPatterns[int]{
		Just:    m.With(&du).Const(10),
		Auto:    0,
		Default: -1,
	})
	if zehn != 10 {
		t.Errorf("expected zehn == 10, isn't: %#v", zehn)
	}

	e := DimenPattern[dimen.DU](ten)
	distance := e.OneOf(DimenPatterns[dimen.DU]{
		Just:    e.With(&du).Const(2 * du),
		Auto:    0,
		Default: -1,
	})
	if distance != 2*10*dimen.PT {
		t.Errorf("expected distance to be %v, isn't: %#v", 20*dimen.PT, distance)
	}
}

func TestParse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "csskit.units")
	defer teardown()
	//
	var tests = []struct {
		value string
		kind  string
		str   string
	}{
		{"auto", "auto", "auto"},
		{"INHERIT", "inherit", "inherit"},
		{"initial", "initial", "initial"},
		{"10pt", "just", "13.3333px"},
		{"1in", "just", "96px"},
		{"2.54cm", "just", "96px"},
		{"0", "just", "0px"},
		{"80%", "relative", "80%"},
		{"1.5em", "relative", "1.5em"},
		{"-2rem", "relative", "-2rem"},
		{"1e1vw", "relative", "10vw"},
		{"fit-content", "content", "fit-content"},
	}
	for _, tt := range tests {
		d, err := Parse(tt.value)
		require.NoError(t, err, tt.value)
		m := DimenPattern[string](d)
		kind := m.OneOf(DimenPatterns[string]{
			Auto:     "auto",
			Inherit:  "inherit",
			Initial:  "initial",
			Just:     "just",
			Relative: "relative",
			Content:  "content",
			Default:  "?",
		})
		assert.Equal(t, tt.kind, kind, tt.value)
		assert.Equal(t, tt.str, d.String(), tt.value)
	}
	d, err := Parse("12pt")
	require.NoError(t, err)
	var du dimen.DU
	assert.NotNil(t, d.Match().Just(&du))
	assert.Equal(t, 12*dimen.PT, du)
	//
	for _, v := range []string{"", "5", "1px 2px", "calc(1px + 2px)", "12parsecs", "red"} {
		_, err := Parse(v)
		assert.True(t, errors.Is(err, ErrNotADimension), "%q: %v", v, err)
	}
}

func TestNormalizer(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "csskit.units")
	defer teardown()
	//
	n, err := NewNormalizer("px", DefaultPrecision)
	require.NoError(t, err)
	var tests = []struct {
		property, value, result string
		changed                 bool
	}{
		{"margin", "1in 12pt", "96px 16px", true},
		{"width", "1Q", "0.9449px", true},
		{"border", "1pt solid red", "1.3333px solid red", true},
		{"width", "10px", "10px", false},
		{"width", "50%", "50%", false},
		{"font-size", "2em", "2em", false},
		{"width", "calc(1in + 2pt)", "calc(1in + 2pt)", false},
		{"--gap", "1in", "1in", false},
	}
	for _, tt := range tests {
		v, changed := n.TransformValue(tt.property, tt.value)
		assert.Equal(t, tt.result, v, tt.value)
		assert.Equal(t, tt.changed, changed, tt.value)
	}
	_, err = NewNormalizer("em", 2)
	assert.True(t, errors.Is(err, ErrNotADimension))
}

func TestNormalizeStylesheet(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "csskit.units")
	defer teardown()
	//
	sheet, err := parser.Parse("p { margin: 1cm; padding: 2px } @media print { h1 { font-size: 24pt } }", nil)
	require.NoError(t, err)
	n, err := NewNormalizer("pt", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, sheet.Transform(n))
	assert.Equal(t, "p { margin: 28.35pt; padding: 1.5pt; }\n@media print {\nh1 { font-size: 24pt; }\n}\n",
		sheet.String())
	assert.Equal(t, cssom.MediaKey("print"), sheet.Rules()[1].MediaKey())
}
