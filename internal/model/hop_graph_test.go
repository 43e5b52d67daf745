package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewHopGraph(t *testing.T) {
	t.Parallel()

	g := NewHopGraph("Foo",
		[][]string{{"Foo"}, {"Qux", "Bar"}, nil},
		map[string]string{"Zed": "Zeta", "Alpha": "Beta"},
	)

	if g.Origin != "Foo" {
		t.Errorf("expected origin Foo, got %q", g.Origin)
	}
	want := []Layer{
		{Hop: 0, Members: []string{"Foo"}},
		{Hop: 1, Members: []string{"Bar", "Qux"}},
		{Hop: 2, Members: []string{}},
	}
	if diff := cmp.Diff(want, g.Layers); diff != "" {
		t.Errorf("layers mismatch (-want +got):\n%s", diff)
	}
	wantRedirects := []Redirect{
		{Source: "Alpha", Target: "Beta"},
		{Source: "Zed", Target: "Zeta"},
	}
	if diff := cmp.Diff(wantRedirects, g.Redirects); diff != "" {
		t.Errorf("redirects mismatch (-want +got):\n%s", diff)
	}
}

func TestHopGraphCounts(t *testing.T) {
	t.Parallel()

	t.Run("with neighbors", func(t *testing.T) {
		t.Parallel()

		g := NewHopGraph("A", [][]string{{"A"}, {"B", "C"}, {"D", "E", "F"}}, nil)
		if g.Hops() != 2 {
			t.Errorf("expected 2 hops, got %d", g.Hops())
		}
		if g.TotalNeighbors() != 5 {
			t.Errorf("expected 5 neighbors, got %d", g.TotalNeighbors())
		}

		s := g.Summary()
		if diff := cmp.Diff([]int{1, 2, 3}, s.LayerSizes); diff != "" {
			t.Errorf("layer sizes mismatch (-want +got):\n%s", diff)
		}
		if s.LargestLayer() != 2 {
			t.Errorf("expected largest layer 2, got %d", s.LargestLayer())
		}
	})

	t.Run("origin only", func(t *testing.T) {
		t.Parallel()

		g := NewHopGraph("A", [][]string{{"A"}}, nil)
		if g.Neighbors() != nil {
			t.Errorf("expected no neighbors, got %v", g.Neighbors())
		}
		if g.Summary().LargestLayer() != 0 {
			t.Errorf("expected largest layer 0")
		}
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		g := NewHopGraph("", nil, nil)
		if g.Hops() != 0 || g.Origin != "" {
			t.Errorf("unexpected empty graph: %+v", g)
		}
	})
}
