package links

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLayer(t *testing.T) {
	t.Parallel()

	t.Run("add is idempotent", func(t *testing.T) {
		t.Parallel()

		l := NewLayer()
		if !l.Add("Bar") {
			t.Error("expected first add to report a new member")
		}
		if l.Add("Bar") {
			t.Error("expected duplicate add to be a no-op")
		}
		if l.Len() != 1 {
			t.Errorf("expected 1 member, got %d", l.Len())
		}
	})

	t.Run("remove and contains", func(t *testing.T) {
		t.Parallel()

		l := NewLayer("A", "B")
		if !l.Remove("A") || l.Remove("A") {
			t.Error("expected remove to succeed once")
		}
		if l.Contains("A") || !l.Contains("B") {
			t.Errorf("unexpected members %v", l.Members())
		}
	})

	t.Run("concurrent inserts", func(t *testing.T) {
		t.Parallel()

		l := NewLayer()
		var wg sync.WaitGroup
		for w := range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range 100 {
					l.Add(fmt.Sprintf("E%03d", i))
					l.Contains(fmt.Sprintf("E%03d", (i+w)%100))
				}
			}()
		}
		wg.Wait()

		if l.Len() != 100 {
			t.Errorf("expected 100 members, got %d", l.Len())
		}
		members := l.Members()
		if members[0] != "E000" || members[99] != "E099" {
			t.Errorf("expected sorted members, got %s..%s", members[0], members[99])
		}
	})
}

func TestRedirectTable(t *testing.T) {
	t.Parallel()

	t.Run("first write wins", func(t *testing.T) {
		t.Parallel()

		r := NewRedirectTable()
		if _, ok := r.Record("Bar", "Baz"); !ok {
			t.Fatal("expected first record to succeed")
		}
		existing, ok := r.Record("Bar", "Qux")
		if ok || existing != "Baz" {
			t.Errorf("expected existing Baz to be kept, got %q, %v", existing, ok)
		}
		if target, _ := r.Lookup("Bar"); target != "Baz" {
			t.Errorf("expected Baz, got %q", target)
		}
	})

	t.Run("resolve falls back to the endpoint", func(t *testing.T) {
		t.Parallel()

		r := NewRedirectTable()
		r.Record("Bar", "Baz")
		if got := r.Resolve("Bar"); got != "Baz" {
			t.Errorf("expected Baz, got %q", got)
		}
		if got := r.Resolve("Other"); got != "Other" {
			t.Errorf("expected Other, got %q", got)
		}
	})

	t.Run("map is a copy", func(t *testing.T) {
		t.Parallel()

		r := NewRedirectTable()
		r.Record("A", "B")
		m := r.Map()
		m["C"] = "D"
		if diff := cmp.Diff(map[string]string{"A": "B"}, r.Map()); diff != "" {
			t.Errorf("map mismatch (-want +got):\n%s", diff)
		}
		if r.Len() != 1 {
			t.Errorf("expected 1 entry, got %d", r.Len())
		}
	})
}
