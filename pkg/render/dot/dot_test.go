package dot

import (
	"strings"
	"testing"

	"github.com/matzehuels/waymark/pkg/layout"
	"github.com/matzehuels/waymark/pkg/roadmap"
)

func sample(exp layout.Expanded) layout.Result {
	root := roadmap.Node{ID: "R", Title: "Root", Description: "start here", Children: []roadmap.Node{
		{ID: "A", Title: "A", Children: []roadmap.Node{{ID: "A1", Title: "A1"}}},
		{ID: "B", Title: "B \"quoted\""},
	}}
	return layout.Layout(root, exp, layout.DefaultOptions())
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sample(layout.NewExpanded("R")), Options{})

	for _, want := range []string{
		"digraph G {",
		`"R" [label="Root", color="#818cf8", penwidth=2];`,
		`"A" [label="A +"];`,
		`"B" [label="B \"quoted\""];`,
		`"R" -> "A";`,
		`"R" -> "B";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "A1") {
		t.Error("collapsed children should not be exported")
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(sample(layout.NewExpanded()), Options{Detailed: true})
	if !strings.Contains(dot, `label="Root +\nstart here"`) {
		t.Errorf("detailed label missing description:\n%s", dot)
	}
	if strings.Contains(dot, "->") {
		t.Error("collapsed root should have no edges")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="44pt" viewBox="0.00 0.00 62.00 44.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 44.00" width="62" height="44"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox = %s, want %s", got, want)
	}

	plain := []byte(`<svg><g/></svg>`)
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("svg without viewBox should pass through unchanged")
	}
}
