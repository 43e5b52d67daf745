// Package links computes the layered link graph around an origin article.
//
// A Calculator owns a sequence of layers. Layer 0 holds the origin; layer
// n+1 holds every article linked from layer n that does not already appear
// in layers 0 through n. Each call to ComputeNext fetches every member of
// the last layer concurrently and appends exactly one layer, or appends
// nothing and returns an error if any fetch in the round failed.
//
// Redirects observed while fetching are recorded in a RedirectTable. The
// table is consulted when deciding whether a discovered link is already
// known, and after each round the processed layer is rewritten so that
// redirect sources are replaced by their targets.
package links
