package links

// RedirectTable maps a requested endpoint to the endpoint the server actually
// served for it. Entries are never overwritten or removed. It is safe for
// concurrent use.
type RedirectTable struct {
	m *shardedMap[string]
}

// NewRedirectTable creates an empty table.
func NewRedirectTable() *RedirectTable {
	return &RedirectTable{m: newShardedMap[string]()}
}

// Record maps source to target. If source is already mapped the existing
// target is kept; Record returns it with ok set to false.
func (r *RedirectTable) Record(source, target string) (existing string, ok bool) {
	existing, loaded := r.m.loadOrStore(source, target)
	return existing, !loaded
}

// Lookup returns the target recorded for source.
func (r *RedirectTable) Lookup(source string) (string, bool) {
	return r.m.load(source)
}

// Resolve returns the target recorded for endpoint, or endpoint itself.
func (r *RedirectTable) Resolve(endpoint string) string {
	if target, ok := r.m.load(endpoint); ok {
		return target
	}
	return endpoint
}

// Len returns the number of recorded redirects.
func (r *RedirectTable) Len() int {
	return r.m.len()
}

// Map returns a copy of the table.
func (r *RedirectTable) Map() map[string]string {
	out := make(map[string]string, r.Len())
	r.m.each(func(source, target string) {
		out[source] = target
	})
	return out
}
