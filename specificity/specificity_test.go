package specificity_test

import (
	"testing"

	"github.com/npillmayer/csskit/specificity"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestSpecificityFlattened(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "csskit.specificity")
	defer teardown()
	//
	var tests = []struct {
		selector string
		weight   int
	}{
		{"*", 0},
		{"#x", 100},
		{".a.b", 20},
		{"div", 1},
		{"div > p", 2},
		{"div p", 2},
		{"div + p ~ span", 3},
		{"a:hover", 11},
		{"li:nth-child(2n+1)", 11},
		{"p::before", 2},
		{"p:before", 2},
		{"input[type=\"text\"]", 11},
		{"a[href^='http'][target]", 21},
		{"#nav .item > a:focus", 121},
		{"svg|circle", 1},
		{"*|*", 0},
		{"", 0},
		{")(][", 10},
	}
	for i, tt := range tests {
		if w := specificity.Of(tt.selector); w != tt.weight {
			t.Errorf("%d. expected specificity(%q) to be %d, is %d", i, tt.selector, tt.weight, w)
		}
	}
}

func TestSpecificityCombinatorsAreFree(t *testing.T) {
	if specificity.Of("div > p") != specificity.Of("div p") {
		t.Error("expected combinators not to change specificity")
	}
}

func TestSpecificityBracketsDoNotLeak(t *testing.T) {
	// class-like text within attribute values or pseudo-class arguments
	// must not be counted separately
	w := specificity.Of(`a[title=".x#y"]:not(.b.c)`)
	if w != 21 {
		t.Errorf("expected weight 21, is %d", w)
	}
}

func TestSpecificityVectorKnownApproximation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "csskit.specificity")
	defer teardown()
	//
	tenClasses := ".a.b.c.d.e.f.g.h.i.j"
	oneID := "#id"
	if specificity.Of(tenClasses) != specificity.Of(oneID) {
		t.Errorf("expected flattened weights to collide, have %d and %d",
			specificity.Of(tenClasses), specificity.Of(oneID))
	}
	vc, ok1 := specificity.VectorOf(tenClasses)
	vi, ok2 := specificity.VectorOf(oneID)
	if !ok1 || !ok2 {
		t.Fatalf("expected cascadia to parse simple selectors")
	}
	if !vc.Less(vi) {
		t.Errorf("expected canonical vector %v to be less than %v", vc, vi)
	}
	if vc.Weight() != 100 || vi.Weight() != 100 {
		t.Errorf("expected both vectors to weigh 100, have %d and %d", vc.Weight(), vi.Weight())
	}
}

func TestSpecificityVectorUnparsable(t *testing.T) {
	if _, ok := specificity.VectorOf("div["); ok {
		t.Error("expected garbage selector not to produce a vector")
	}
}
