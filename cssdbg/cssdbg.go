/*
Package cssdbg implements helpers to debug stylesheets.

Dump renders a stylesheet as a tree on the console, ToGraphViz writes it as a
GraphViz diagram of media contexts, rules and their nesting.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package cssdbg

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"testing"
	"text/template"

	"github.com/npillmayer/csskit/cssom"
	"github.com/npillmayer/csskit/specificity"
	tp "github.com/xlab/treeprint"
)

// Dump returns a tree representation of a stylesheet, listing every entry
// with its id, media contexts, nesting annotation and declarations.
func Dump(sheet *cssom.Stylesheet) string {
	t := tp.New()
	if sheet == nil {
		return t.String()
	}
	if sheet.Charset != "" {
		t.AddNode("@charset " + cssom.QuoteString(sheet.Charset))
	}
	for _, e := range sheet.Entries() {
		switch x := e.(type) {
		case *cssom.ImportStatement:
			t.AddNode(fmt.Sprintf("#%d %s", x.ID(), x))
		case *cssom.AtRuleBlock:
			b := t.AddBranch(fmt.Sprintf("#%d %s", x.ID(), x.Header()))
			addMedia(b, x.Media)
			if x.Body != "" {
				b.AddNode("{ " + shorten(x.Body, 60) + " }")
			}
		case *cssom.Rule:
			b := t.AddBranch(fmt.Sprintf("#%d %s", x.ID(), x.Selector()))
			if v, ok := specificity.VectorOf(x.Selector()); ok {
				b.AddNode(fmt.Sprintf("specificity %d-%d-%d", v[0], v[1], v[2]))
			}
			addMedia(b, x.Media)
			if n := x.Nesting; n != nil {
				b.AddNode(fmt.Sprintf("nested in #%d as %q %s", n.Parent, n.Selector, n.Condition))
			}
			for _, d := range x.Declarations {
				b.AddNode(d.String())
			}
		}
	}
	return t.String()
}

func addMedia(b tp.Tree, media []cssom.MediaKey) {
	if cssom.IsAll(media) {
		return
	}
	b.AddNode("media " + string(cssom.MediaKeyOf(media)))
}

func shorten(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

// --- GraphViz --------------------------------------------------------------

// Parameters for GraphViz drawing.
type graphParamsType struct {
	Fontname  string
	MediaTmpl *template.Template
	RuleTmpl  *template.Template
	EdgeTmpl  *template.Template
}

type node struct {
	Name  string
	Label string
	Decls cssom.Declarations
}

type edge struct {
	From, To string
	Style    string
}

// ToGraphViz outputs a diagram for a stylesheet. The diagram is in
// GraphViz (DOT) format. Every media context is drawn as a node, connected
// to the rules visible under it. Rules written nested within other rules are
// connected to their parent by a dashed edge.
func ToGraphViz(sheet *cssom.Stylesheet, w io.Writer) error {
	tmpl, err := template.New("sheet").Parse(graphHeadTmpl)
	if err != nil {
		return err
	}
	gparams := graphParamsType{Fontname: "Helvetica"}
	gparams.MediaTmpl = template.Must(template.New("media").Parse(mediaNodeTmpl))
	gparams.RuleTmpl = template.Must(template.New("rule").Parse(ruleNodeTmpl))
	gparams.EdgeTmpl = template.Must(template.New("edge").Parse(edgeTmpl))
	if err = tmpl.Execute(w, gparams); err != nil {
		return err
	}
	dict := make(map[cssom.MediaKey]string)
	for _, key := range sheet.MediaKeys() {
		name := fmt.Sprintf("media%04d", len(dict)+1)
		dict[key] = name
		if err = gparams.MediaTmpl.Execute(w, node{Name: name, Label: string(key)}); err != nil {
			return err
		}
	}
	for _, r := range sheet.Rules() {
		name := ruleName(r.ID())
		if err = gparams.RuleTmpl.Execute(w, node{Name: name, Label: r.Selector(), Decls: r.Declarations}); err != nil {
			return err
		}
		keys := r.Media
		if len(keys) == 0 {
			keys = []cssom.MediaKey{cssom.MediaAll}
		}
		for _, k := range keys {
			if m, ok := dict[k]; ok {
				if err = gparams.EdgeTmpl.Execute(w, edge{From: m, To: name, Style: "solid"}); err != nil {
					return err
				}
			}
		}
		if r.Nesting != nil && sheet.Rule(r.Nesting.Parent) != nil {
			e := edge{From: ruleName(r.Nesting.Parent), To: name, Style: "dashed"}
			if err = gparams.EdgeTmpl.Execute(w, e); err != nil {
				return err
			}
		}
	}
	_, err = w.Write([]byte("}\n"))
	return err
}

func ruleName(id int) string {
	return fmt.Sprintf("rule%05d", id)
}

// Dotty is a helper for testing. Given a stylesheet and a testing.T, it will
// create a Graphiviz image of the stylesheet and write it to a file in the
// current folder, choosing a unique file name. The image is in SVG format.
//
// If an error occurs, t.Error(…) will be set, causing the test to fail.
func Dotty(sheet *cssom.Stylesheet, t *testing.T) {
	tmpfile, err := os.CreateTemp(".", "css.*.dot")
	if err != nil {
		t.Error(err)
		return
	}
	defer func() {
		tmpfile.Close()
		os.Remove(tmpfile.Name()) // clean up
	}()
	t.Logf("writing stylesheet digraph to %s\n", tmpfile.Name())
	if err := ToGraphViz(sheet, tmpfile); err != nil {
		t.Error(err)
		return
	}
	outOption := fmt.Sprintf("-o%s.svg", tmpfile.Name())
	cmd := exec.Command("dot", "-Tsvg", outOption, tmpfile.Name())
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	t.Logf("writing stylesheet image to %s.svg\n", tmpfile.Name())
	if err := cmd.Run(); err != nil {
		t.Error(err.Error())
	}
}

// --- Templates --------------------------------------------------------

const graphHeadTmpl = `digraph g {
  graph [labelloc="t" label="" splines=true overlap=false rankdir = "LR"];
  node [fontname = "{{ .Fontname }}" fontsize=14] ;
  edge [fontname = "{{ .Fontname }}" fontsize=14] ;
`

const mediaNodeTmpl = `{{ .Name }}	[ label={{ printf "%q" .Label }} shape=ellipse style=filled fillcolor=lightblue3 ] ;
`

const ruleNodeTmpl = `{{ .Name }} [ style="filled" penwidth=1 fillcolor="ivory3" shape="Mrecord" fontsize=12
    label=<<table border="0" cellborder="0" cellpadding="2" cellspacing="0" bgcolor="ivory3">
      <tr><td bgcolor="azure4" align="center" colspan="2"><font color="white">{{ .Label | html }}</font></td></tr>
      {{ range .Decls }}
      <tr><td align="right">{{ .Property | html }}:</td><td>{{ .Value | html }}{{ if .Important }} !{{ end }}</td></tr>
      {{ else }}
      <tr><td colspan="2">no declarations</td></tr>
      {{ end }}
    </table>> ] ;
`

const edgeTmpl = `{{ .From }} -> {{ .To }} [weight=1 style="{{ .Style }}"] ;
`
