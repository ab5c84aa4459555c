package cssom

import (
	"errors"
	"fmt"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeclarationNormalization(t *testing.T) {
	d := NewDeclaration("  Margin-TOP ", " 3px ", false)
	if d.Property != "margin-top" || d.Value != "3px" {
		t.Errorf("expected normalized declaration, is %q", d.String())
	}
	c := NewDeclaration("--Main-Color", "red", true)
	if c.Property != "--Main-Color" {
		t.Errorf("expected custom property to keep its case, is %q", c.Property)
	}
	if c.String() != "--Main-Color: red !important" {
		t.Errorf("unexpected output %q", c.String())
	}
}

func TestDeclarationsSetKeepsPosition(t *testing.T) {
	var ds Declarations
	ds.Set(NewDeclaration("color", "red", false))
	ds.Set(NewDeclaration("margin", "0", false))
	ds.Set(NewDeclaration("COLOR", "blue", false))
	assert.Equal(t, "color: blue; margin: 0;", ds.String())
	assert.True(t, ds.Remove("margin"))
	assert.False(t, ds.Remove("margin"))
	assert.Equal(t, 1, len(ds))
}

func TestDeclarationsRedeclare(t *testing.T) {
	var ds Declarations
	ds.Redeclare(NewDeclaration("margin", "1px", false))
	ds.Redeclare(NewDeclaration("margin-top", "2px", false))
	assert.True(t, ds.Redeclare(NewDeclaration("Margin", "3px", true)))
	assert.Equal(t, "margin-top: 2px; margin: 3px !important;", ds.String())
	assert.False(t, ds.Redeclare(NewDeclaration("margin", "4px", false)))
	assert.Equal(t, "margin-top: 2px; margin: 3px !important;", ds.String())
}

func TestSelectorSplitting(t *testing.T) {
	var tests = []struct {
		list  string
		parts []string
	}{
		{".btn, .button", []string{".btn", ".button"}},
		{"a:not(.b, .c), d", []string{"a:not(.b, .c)", "d"}},
		{`a[title="x,y"], b`, []string{`a[title="x,y"]`, "b"}},
		{"a,,b", []string{"a", "", "b"}},
		{`a\,b`, []string{`a\,b`}},
	}
	for i, tt := range tests {
		assert.Equal(t, tt.parts, SplitSelectorList(tt.list), "test %d", i)
	}
}

func TestSelectorNormalization(t *testing.T) {
	var tests = []struct{ in, out string }{
		{"ul>li  +li", "ul > li + li"},
		{"  div   p ", "div p"},
		{"a[href~='x  y']", "a[href~='x  y']"},
		{"li:nth-child(2n+1)", "li:nth-child(2n+1)"},
		{"> li", "> li"},
		{"ul >", "ul >"},
	}
	for _, tt := range tests {
		if s := NormalizeSelector(tt.in); s != tt.out {
			t.Errorf("expected %q to normalize to %q, is %q", tt.in, tt.out, s)
		}
	}
}

func TestMediaKeys(t *testing.T) {
	assert.Equal(t, MediaAll, MediaKeyFor("  "))
	assert.Equal(t, MediaKey("screen"), MediaKeyFor("SCREEN"))
	assert.Equal(t, MediaKey("screen and (min-width: 768px)"), MediaKeyFor("screen  and\n(min-width: 768px)"))
	assert.Equal(t, MediaKey("screen and (color)"), ComposeMedia("screen", "(color)"))
	assert.Equal(t, MediaKey("screen @supports (display: grid)"),
		ComposeMedia("screen", SupportsKeyFor("(display: grid)")))
	assert.Equal(t, MediaKey("@supports (display: grid) @media print"),
		ComposeMedia(SupportsKeyFor("(display: grid)"), "print"))
	k := ComposeMedia(SupportsKeyFor("(x: y)"), "print")
	assert.Equal(t, []string{"@supports (x: y)", "@media print"}, k.headers())
}

func TestStylesheetIDsAndIndex(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "csskit.cssom")
	defer teardown()
	//
	s := NewStylesheet()
	_, err := s.AddImport("base.css", "")
	require.NoError(t, err)
	rules, err := s.AddRules(".btn, .button", Declarations{NewDeclaration("color", "white", false)})
	require.NoError(t, err)
	require.Len(t, rules, 2)
	r := NewRule("p")
	r.Media = []MediaKey{"screen", "print"}
	id, err := s.AddRule(r)
	require.NoError(t, err)
	if id != 3 {
		t.Errorf("expected dense id 3, is %d", id)
	}
	if _, err := s.AddImport("late.css", ""); !errors.Is(err, ErrLateImport) {
		t.Errorf("expected late import to be rejected, is %v", err)
	}
	assert.Equal(t, []MediaKey{MediaAll, "screen", "print"}, s.MediaKeys())
	assert.Equal(t, []int{1, 2}, s.MediaIndex()[MediaAll])
	assert.Equal(t, []int{3}, s.MediaIndex()["print"])
	assert.Len(t, s.FindBySelector(".btn"), 1)
	assert.Len(t, s.FindBySelector("p", "print"), 1)
	assert.Len(t, s.FindBySelector("p", "tv"), 0)
	assert.Len(t, s.FindBySelector(".btn", "tv"), 1) // visible under every context
	if _, err := s.AddRule(&Rule{id: -1}); !errors.Is(err, ErrEmptySelector) {
		t.Errorf("expected empty selector to be rejected, is %v", err)
	}
}

func TestStylesheetMediaBound(t *testing.T) {
	s := NewStylesheet()
	s.MaxMediaKeys = 3
	var err error
	for i := 0; i < 5 && err == nil; i++ {
		r := NewRule("a")
		r.Media = []MediaKey{MediaKeyFor(fmt.Sprintf("(width: %dpx)", i))}
		_, err = s.AddRule(r)
	}
	if !errors.Is(err, ErrSizeExceeded) {
		t.Fatalf("expected size to be exceeded, is %v", err)
	}
	if len(s.MediaKeys()) != 3 || s.Len() != 3 {
		t.Errorf("expected stylesheet to stay within bounds, have %d keys and %d entries",
			len(s.MediaKeys()), s.Len())
	}
}

func TestStylesheetCompactRemapsNesting(t *testing.T) {
	s := NewStylesheet()
	s.AddRule(NewRule("x"))
	parent := NewRule(".parent")
	s.AddRule(parent)
	child := NewRule(".parent .child")
	child.Nesting = &Nesting{Parent: parent.ID(), Selector: ".child"}
	s.AddRule(child)
	orphan := NewRule(".x .y")
	orphan.Nesting = &Nesting{Parent: 0, Selector: ".y"}
	s.AddRule(orphan)
	require.NoError(t, s.RemoveRule(0))
	require.Equal(t, 3, s.Len())
	if child.ID() != 1 || child.Nesting == nil || child.Nesting.Parent != 0 {
		t.Errorf("expected child to be renumbered and to point to parent 0, is %d/%v", child.ID(), child.Nesting)
	}
	if orphan.Nesting != nil {
		t.Errorf("expected nesting of orphan to be dropped")
	}
	if err := s.RemoveRule(17); !errors.Is(err, ErrNoSuchEntry) {
		t.Errorf("expected error for unknown id, is %v", err)
	}
}

func TestSpliceImport(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "csskit.cssom")
	defer teardown()
	//
	s := NewStylesheet()
	imp, _ := s.AddImport("print.css", "print")
	s.AddRule(NewRule("body", NewDeclaration("color", "red", false)))
	sub := NewStylesheet()
	sub.AddRule(NewRule("h1"))
	sub.AddRule(NewRule("h2"))
	require.NoError(t, s.SpliceImport(imp.ID(), sub))
	rules := s.Rules()
	require.Len(t, rules, 3)
	assert.Equal(t, "h1", rules[0].Selector())
	assert.Equal(t, "h2", rules[1].Selector())
	assert.Equal(t, "body", rules[2].Selector())
	assert.Equal(t, MediaKey("print"), rules[0].MediaKey())
	assert.True(t, imp.Resolved)
	assert.Equal(t, []int{3}, s.MediaIndex()[MediaAll])
	if err := s.SpliceImport(imp.ID(), sub); !errors.Is(err, ErrNotAnImport) {
		t.Errorf("expected second splice to fail, is %v", err)
	}
}

func TestSpliceImportMediaList(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "csskit.cssom")
	defer teardown()
	//
	s := NewStylesheet()
	imp, _ := s.AddImport("both.css", "screen, print")
	sub := NewStylesheet()
	sub.AddRule(NewRule("h1"))
	h2 := NewRule("h2")
	h2.Media = []MediaKey{"(min-width: 100px)"}
	sub.AddRule(h2)
	require.NoError(t, s.SpliceImport(imp.ID(), sub))
	rules := s.Rules()
	require.Len(t, rules, 2)
	assert.Equal(t, []MediaKey{"screen", "print"}, rules[0].Media)
	assert.Equal(t, []MediaKey{"screen and (min-width: 100px)", "print and (min-width: 100px)"}, rules[1].Media)
	assert.Equal(t, []int{1}, s.MediaIndex()["print"])
	assert.Equal(t, []MediaKey{"a", "b and (c)"}, MediaKeysFor(" a ,  b and (c) "))
	assert.Equal(t, []MediaKey{MediaAll}, MediaKeysFor(""))
}

func TestTransform(t *testing.T) {
	s := NewStylesheet()
	s.AddRule(NewRule("a",
		NewDeclaration("color", "RED", false),
		NewDeclaration("background", "url(X.PNG)", false)))
	n := s.Transform(ValueTransformerFunc(func(p, v string) (string, bool) {
		if IsOpaqueValue(v) {
			return v, false
		}
		return "red", true
	}))
	if n != 1 {
		t.Errorf("expected 1 value to be changed, is %d", n)
	}
	assert.Equal(t, "url(X.PNG)", s.Rules()[0].Declarations.Value("background"))
}
