package model

import "time"

// Summary is a condensed view of a HopGraph.
// It carries counts only, so it stays small for very large graphs.
type Summary struct {
	// Origin is the endpoint of the starting article.
	Origin string `json:"origin"`

	// Title is the origin article's heading.
	Title string `json:"title"`

	// Hops is the number of layers after the origin.
	Hops int `json:"hops"`

	// LayerSizes holds the member count of every layer, origin included.
	LayerSizes []int `json:"layer_sizes"`

	// TotalNeighbors is the sum of LayerSizes without the origin.
	TotalNeighbors int `json:"total_neighbors"`

	// RedirectCount is the number of redirects observed.
	RedirectCount int `json:"redirect_count"`

	Requests int64         `json:"requests"`
	Retries  int64         `json:"retries"`
	Elapsed  time.Duration `json:"elapsed"`
}

// LargestLayer returns the hop with the most members, ignoring the origin.
// It returns 0 when there are no neighbors.
func (s *Summary) LargestLayer() int {
	best, size := 0, -1
	for hop := 1; hop < len(s.LayerSizes); hop++ {
		if s.LayerSizes[hop] > size {
			best, size = hop, s.LayerSizes[hop]
		}
	}
	return best
}
