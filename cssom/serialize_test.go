package cssom

import (
	"bytes"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func buildSheet() *Stylesheet {
	s := NewStylesheet()
	s.SetCharset("UTF-8")
	s.AddImport("base.css", "screen")
	s.AddRule(NewRule("a", NewDeclaration("color", "red", false)))
	for _, sel := range []string{"b", "c"} {
		r := NewRule(sel, NewDeclaration("margin", "0", true))
		r.Media = []MediaKey{"print"}
		s.AddRule(r)
	}
	s.AddRule(NewRule("d"))
	r := NewRule("e", NewDeclaration("x", "y", false))
	r.Media = []MediaKey{"print"}
	s.AddRule(r)
	return s
}

func TestSerializeCompact(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "csskit.cssom")
	defer teardown()
	//
	expected := `@charset "UTF-8";
@import url("base.css") screen;
a { color: red; }
@media print {
b { margin: 0 !important; }
c { margin: 0 !important; }
}
d { }
@media print {
e { x: y; }
}
`
	if s := buildSheet().String(); s != expected {
		t.Errorf("expected\n%s\nis\n%s", expected, s)
	}
}

func TestSerializeIndented(t *testing.T) {
	var buf bytes.Buffer
	s := NewStylesheet()
	r := NewRule("a", NewDeclaration("color", "red", false), NewDeclaration("margin", "0", false))
	r.Media = []MediaKey{"screen"}
	s.AddRule(r)
	s.Write(&buf, Format{Indent: "  "})
	expected := "@media screen {\n  a {\n    color: red;\n    margin: 0;\n  }\n}\n"
	assert.Equal(t, expected, buf.String())
}

func TestSerializeMediaLists(t *testing.T) {
	var tests = []struct {
		keys   []MediaKey
		header []string
	}{
		{nil, nil},
		{[]MediaKey{"screen", "print"}, []string{"@media screen, print"}},
		{[]MediaKey{"@supports (x: y) @media screen", "@supports (x: y) @media print"},
			[]string{"@supports (x: y)", "@media screen, print"}},
		{[]MediaKey{"@supports (x: y)", "print"}, []string{"@supports (x: y)"}},
	}
	for i, tt := range tests {
		assert.Equal(t, tt.header, headersFor(tt.keys), "test %d", i)
	}
}

func TestSerializeNested(t *testing.T) {
	s := NewStylesheet()
	parent := NewRule(".parent", NewDeclaration("color", "red", false))
	s.AddRule(parent)
	child := NewRule(".parent .child", NewDeclaration("color", "blue", false))
	child.Nesting = &Nesting{Parent: parent.ID(), Selector: ".child"}
	s.AddRule(child)
	printed := NewRule(".parent", NewDeclaration("color", "black", false))
	printed.Media = []MediaKey{"print"}
	printed.Nesting = &Nesting{Parent: parent.ID(), Condition: "print"}
	s.AddRule(printed)
	var buf bytes.Buffer
	s.Write(&buf, Format{Nested: true})
	expected := ".parent { color: red; .child { color: blue; } @media print { color: black; } }\n"
	assert.Equal(t, expected, buf.String())
	flat := s.String()
	assert.True(t, strings.Contains(flat, ".parent .child { color: blue; }"), flat)
}

func TestSerializeMinified(t *testing.T) {
	var buf bytes.Buffer
	err := buildSheet().Write(&buf, Format{Minify: true, Indent: "    "})
	assert.NoError(t, err)
	out := buf.String()
	if strings.Contains(out, "\n") || !strings.Contains(out, "a{color:red}") {
		t.Errorf("expected minified output, is %q", out)
	}
}
