package links

import (
	"slices"
)

// Layer is a set of endpoints discovered at the same hop distance from the
// origin. It is safe for concurrent use.
type Layer struct {
	set *shardedMap[struct{}]
}

// NewLayer creates a layer holding the given endpoints.
func NewLayer(endpoints ...string) *Layer {
	l := &Layer{set: newShardedMap[struct{}]()}
	for _, e := range endpoints {
		l.Add(e)
	}
	return l
}

// Add inserts endpoint and reports whether it was newly added.
// Adding an endpoint that is already present is a no-op.
func (l *Layer) Add(endpoint string) bool {
	_, loaded := l.set.loadOrStore(endpoint, struct{}{})
	return !loaded
}

// Remove deletes endpoint and reports whether it was present.
func (l *Layer) Remove(endpoint string) bool {
	return l.set.delete(endpoint)
}

// Contains reports whether endpoint is a member.
func (l *Layer) Contains(endpoint string) bool {
	_, ok := l.set.load(endpoint)
	return ok
}

// Len returns the number of members.
func (l *Layer) Len() int {
	return l.set.len()
}

// Members returns the members in byte order.
func (l *Layer) Members() []string {
	out := make([]string, 0, l.Len())
	l.set.each(func(e string, _ struct{}) {
		out = append(out, e)
	})
	slices.Sort(out)
	return out
}
