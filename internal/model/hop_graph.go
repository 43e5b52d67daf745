package model

import (
	"slices"
	"strings"
	"time"
)

// HopGraph is the result of one run: the origin article, every layer of
// endpoints around it, and the redirects observed while fetching.
//
// All endpoints are raw (percent-encoded, underscores for spaces).
type HopGraph struct {
	// Origin is the endpoint of the starting article.
	Origin string `json:"origin"`

	// Title is the origin article's heading.
	Title string `json:"title"`

	// Lead is the plain text of the origin article's introduction.
	Lead string `json:"lead,omitempty"`

	// Layers holds one entry per hop distance. Layers[0] contains only the
	// origin.
	Layers []Layer `json:"layers"`

	// Redirects lists requested endpoints and the endpoints actually served,
	// ordered by source.
	Redirects []Redirect `json:"redirects"`

	// DateComputed is when the run started.
	DateComputed time.Time `json:"date_computed"`

	// Elapsed is how long the run took.
	Elapsed time.Duration `json:"elapsed"`

	// Requests is the number of HTTP requests sent during the run.
	Requests int64 `json:"requests"`

	// Retries is the number of requests that repeated a failed attempt.
	Retries int64 `json:"retries"`
}

// Layer is the set of endpoints at one hop distance.
type Layer struct {
	// Hop is the distance from the origin.
	Hop int `json:"hop"`

	// Members are the layer's endpoints in byte order.
	Members []string `json:"members"`
}

// Redirect maps a requested endpoint to the served one.
type Redirect struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// NewHopGraph builds a HopGraph from calculator output. Members of each
// layer and the redirects are sorted so the graph is deterministic.
func NewHopGraph(title string, layers [][]string, redirects map[string]string) *HopGraph {
	g := &HopGraph{
		Title:     title,
		Layers:    make([]Layer, len(layers)),
		Redirects: make([]Redirect, 0, len(redirects)),
	}

	for i, members := range layers {
		sorted := slices.Clone(members)
		if sorted == nil {
			sorted = []string{}
		}
		slices.Sort(sorted)
		g.Layers[i] = Layer{Hop: i, Members: sorted}
	}
	if len(g.Layers) > 0 && len(g.Layers[0].Members) > 0 {
		g.Origin = g.Layers[0].Members[0]
	}

	for source, target := range redirects {
		g.Redirects = append(g.Redirects, Redirect{Source: source, Target: target})
	}
	slices.SortFunc(g.Redirects, func(a, b Redirect) int {
		return strings.Compare(a.Source, b.Source)
	})

	return g
}

// Neighbors returns the layers after the origin.
func (g *HopGraph) Neighbors() []Layer {
	if len(g.Layers) <= 1 {
		return nil
	}
	return g.Layers[1:]
}

// Hops returns the number of hops computed.
func (g *HopGraph) Hops() int {
	if len(g.Layers) == 0 {
		return 0
	}
	return len(g.Layers) - 1
}

// TotalNeighbors returns the number of endpoints in all layers after the origin.
func (g *HopGraph) TotalNeighbors() int {
	total := 0
	for _, l := range g.Neighbors() {
		total += len(l.Members)
	}
	return total
}

// Summary derives the counters of g.
func (g *HopGraph) Summary() *Summary {
	s := &Summary{
		Origin:         g.Origin,
		Title:          g.Title,
		Hops:           g.Hops(),
		LayerSizes:     make([]int, 0, len(g.Layers)),
		TotalNeighbors: g.TotalNeighbors(),
		RedirectCount:  len(g.Redirects),
		Requests:       g.Requests,
		Retries:        g.Retries,
		Elapsed:        g.Elapsed,
	}
	for _, l := range g.Layers {
		s.LayerSizes = append(s.LayerSizes, len(l.Members))
	}
	return s
}
