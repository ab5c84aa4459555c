package douceuradapter

import (
	"strings"
	"testing"

	"github.com/aymerick/douceur/css"
	dparser "github.com/aymerick/douceur/parser"
	"github.com/npillmayer/csskit/cssom"
	"github.com/npillmayer/csskit/cssom/parser"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestFromDouceur(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "csskit.douceur")
	defer teardown()
	//
	src, err := dparser.Parse(`@charset "utf-8";
	@import "a.css" print;
	h1, h2 { color: red !important; margin: 0 }
	@media screen, print {
		p { margin: 0 }
		@supports (display: grid) { div { display: grid } }
	}
	@font-face { font-family: Foo }
	@keyframes spin { from { opacity: 0 } to { opacity: 1 } }`)
	require.NoError(t, err)
	sheet, err := FromDouceur(src)
	require.NoError(t, err)
	assert.Equal(t, "utf-8", sheet.Charset)
	require.Equal(t, 1, len(sheet.Imports()))
	assert.Equal(t, "a.css", sheet.Imports()[0].URL)
	assert.Equal(t, "print", sheet.Imports()[0].Media)
	rules := sheet.Rules()
	require.Equal(t, 4, len(rules))
	var sels []string
	for _, r := range rules {
		sels = append(sels, r.Selector())
	}
	assert.Equal(t, []string{"h1", "h2", "p", "div"}, sels)
	assert.Equal(t, "color: red !important; margin: 0;", rules[0].Declarations.String())
	assert.Equal(t, []cssom.MediaKey{"screen", "print"}, rules[2].Media)
	assert.Equal(t, []cssom.MediaKey{
		"screen @supports (display: grid)",
		"print @supports (display: grid)",
	}, rules[3].Media)
	var names []string
	for _, a := range sheet.AtRules() {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"font-face", "keyframes"}, names)
	assert.Equal(t, "spin", sheet.AtRules()[1].Prelude)
}

func TestFromDouceurConstructed(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "csskit.douceur")
	defer teardown()
	//
	r := css.NewRule(css.QualifiedRule)
	r.Selectors = []string{".a", ".b"}
	r.Declarations = []*css.Declaration{{Property: "Color", Value: "blue"}}
	empty := css.NewRule(css.QualifiedRule)
	sheet, err := FromDouceur(&css.Stylesheet{Rules: []*css.Rule{r, empty}})
	require.NoError(t, err)
	require.Equal(t, 2, len(sheet.Rules()))
	assert.Equal(t, ".b { color: blue; }", sheet.Rules()[1].String())
	sheet, err = FromDouceur(nil)
	require.NoError(t, err)
	assert.True(t, sheet.Empty())
}

func TestToDouceur(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "csskit.douceur")
	defer teardown()
	//
	sheet, err := parser.Parse(`@charset "utf-8";
	@import url("a.css") print;
	h1 { color: red !important }
	@media print { p { margin: 0 } div { x: 1 } }
	@media screen { @supports (display: grid) { div { display: grid } } }
	@font-face { font-family: Foo }
	@keyframes spin { from { opacity: 0 } to { opacity: 1 } }
	@layer base;`, nil)
	require.NoError(t, err)
	out := ToDouceur(sheet)
	var heads []string
	for _, r := range out.Rules {
		heads = append(heads, strings.TrimSpace(r.Name+" "+r.Prelude))
	}
	assert.Equal(t, []string{`@charset "utf-8"`, `@import url("a.css") print`, "h1", "@media print",
		"@media screen", "@font-face", "@keyframes spin", "@layer base"}, heads)
	assert.True(t, out.Rules[2].Declarations[0].Important)
	require.Equal(t, 2, len(out.Rules[3].Rules))
	assert.Equal(t, 1, out.Rules[3].Rules[1].EmbedLevel)
	supports := out.Rules[4].Rules[0]
	assert.Equal(t, "@supports", supports.Name)
	assert.Equal(t, "(display: grid)", supports.Prelude)
	require.Equal(t, 1, len(supports.Rules))
	assert.Equal(t, 2, supports.Rules[0].EmbedLevel)
	require.Equal(t, 1, len(out.Rules[5].Declarations))
	assert.Equal(t, "Foo", out.Rules[5].Declarations[0].Value)
	assert.Equal(t, 2, len(out.Rules[6].Rules))
	assert.True(t, strings.HasSuffix(out.String(), "@layer base;"))
	//
	back, err := FromDouceur(out)
	require.NoError(t, err)
	assert.Equal(t, sheet.Charset, back.Charset)
	require.Equal(t, len(sheet.Rules()), len(back.Rules()))
	for i, r := range sheet.Rules() {
		assert.Equal(t, r.Selector(), back.Rules()[i].Selector())
		assert.Equal(t, r.MediaKey(), back.Rules()[i].MediaKey())
		assert.True(t, r.Declarations.Equal(back.Rules()[i].Declarations), "rule %d", i)
	}
}

func TestExtractStyleElements(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "csskit.douceur")
	defer teardown()
	//
	doc, err := html.Parse(strings.NewReader(`<html><head>
	<style>h1 { color: red }</style>
	<style media="print">p { margin: 0 }</style>
	<style></style>
	</head><body>
	<style>div { x: 1 }</style>
	<p>Hello</p>
	</body></html>`))
	require.NoError(t, err)
	sheets, err := ExtractStyleElements(doc, nil)
	require.NoError(t, err)
	require.Equal(t, 3, len(sheets))
	assert.Equal(t, "h1", sheets[0].Rules()[0].Selector())
	assert.Equal(t, cssom.MediaKey("print"), sheets[1].Rules()[0].MediaKey())
	assert.Equal(t, "div", sheets[2].Rules()[0].Selector())
	//
	doc, err = html.Parse(strings.NewReader(`<style>h1 { x: 1 }</style><style>h2 { color: }</style>`))
	require.NoError(t, err)
	sheets, err = ExtractStyleElements(doc, &parser.Options{Strict: parser.StrictAll})
	assert.Error(t, err)
	assert.Equal(t, 1, len(sheets))
	sheets, err = ExtractStyleElements(nil, nil)
	assert.NoError(t, err)
	assert.Empty(t, sheets)
}
