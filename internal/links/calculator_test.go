package links

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/nao1215/wikihop/internal/article"
)

var errMissing = errors.New("missing page")

// page describes how the fake fetcher answers one endpoint.
type page struct {
	served string
	links  []string
	err    error
	panics bool
}

type fakeFetcher struct {
	pages map[string]page
	delay time.Duration

	mu    sync.Mutex
	calls map[string]int

	inFlight atomic.Int32
	peak     atomic.Int32
}

func newFakeFetcher(pages map[string]page) *fakeFetcher {
	return &fakeFetcher{pages: pages, calls: make(map[string]int)}
}

func (f *fakeFetcher) Fetch(_ context.Context, endpoint string) (*article.Article, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}

	f.mu.Lock()
	f.calls[endpoint]++
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	p, ok := f.pages[endpoint]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errMissing, endpoint)
	}
	if p.panics {
		panic("fetcher exploded")
	}
	if p.err != nil {
		return nil, p.err
	}
	served, links := endpoint, p.links
	if p.served != "" {
		served = p.served
		if target, ok := f.pages[served]; ok {
			links = target.links
		}
	}
	return article.New(served, served, links, ""), nil
}

func (f *fakeFetcher) callCount(endpoint string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[endpoint]
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew(t *testing.T) {
	t.Parallel()

	c := New(newFakeFetcher(nil), "Foo", WithLogger(quietLogger()))
	if diff := cmp.Diff([][]string{{"Foo"}}, c.Layers()); diff != "" {
		t.Errorf("layers mismatch (-want +got):\n%s", diff)
	}
	if c.Origin() != "Foo" {
		t.Errorf("expected origin Foo, got %q", c.Origin())
	}
	if c.LayerCount() != 1 {
		t.Errorf("expected 1 layer, got %d", c.LayerCount())
	}
}

func TestFromArticle(t *testing.T) {
	t.Parallel()

	t.Run("layer one holds the origin links", func(t *testing.T) {
		t.Parallel()

		origin := article.New("Foo", "Foo", []string{"Bar", "Baz", "Foo"}, "")
		c := FromArticle(newFakeFetcher(nil), origin, WithLogger(quietLogger()))

		want := [][]string{{"Foo"}, {"Bar", "Baz"}}
		if diff := cmp.Diff(want, c.Layers()); diff != "" {
			t.Errorf("layers mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("redirected origin is recorded", func(t *testing.T) {
		t.Parallel()

		// Bar was requested and the server served Foo, which links back to Bar.
		origin := article.New("Foo", "Foo", []string{"Bar", "Baz"}, "")
		f := newFakeFetcher(map[string]page{
			"Baz": {links: []string{"Bar", "Qux"}},
		})
		c := FromArticle(f, origin, WithRequestedOrigin("Bar"), WithLogger(quietLogger()))

		if diff := cmp.Diff([][]string{{"Foo"}, {"Baz"}}, c.Layers()); diff != "" {
			t.Errorf("layers mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(map[string]string{"Bar": "Foo"}, c.Redirects()); diff != "" {
			t.Errorf("redirects mismatch (-want +got):\n%s", diff)
		}
		if hop, ok := c.FindLayer("Bar"); !ok || hop != 0 {
			t.Errorf("expected Bar in layer 0, got %d (found %v)", hop, ok)
		}

		if err := c.ComputeNext(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff([][]string{{"Foo"}, {"Baz"}, {"Qux"}}, c.Layers()); diff != "" {
			t.Errorf("layers mismatch (-want +got):\n%s", diff)
		}
		if f.callCount("Bar") != 0 {
			t.Errorf("expected the requested origin never to be fetched again, got %d calls", f.callCount("Bar"))
		}
	})

	t.Run("requested origin equal to the served one records nothing", func(t *testing.T) {
		t.Parallel()

		origin := article.New("Foo", "Foo", []string{"Bar"}, "")
		c := FromArticle(newFakeFetcher(nil), origin, WithRequestedOrigin("Foo"), WithLogger(quietLogger()))
		if len(c.Redirects()) != 0 {
			t.Errorf("expected no redirects, got %v", c.Redirects())
		}
	})

	t.Run("origin without links gives an empty layer one", func(t *testing.T) {
		t.Parallel()

		origin := article.New("Lonely", "Lonely", nil, "")
		c := FromArticle(newFakeFetcher(nil), origin, WithLogger(quietLogger()))

		want := [][]string{{"Lonely"}, {}}
		if diff := cmp.Diff(want, c.Layers()); diff != "" {
			t.Errorf("layers mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestComputeLayers(t *testing.T) {
	t.Parallel()

	t.Run("discovers unseen links hop by hop", func(t *testing.T) {
		t.Parallel()

		f := newFakeFetcher(map[string]page{
			"A": {links: []string{"B", "C"}},
			"B": {links: []string{"A", "D"}},
			"C": {links: []string{"B", "D", "E"}},
		})
		c := New(f, "A", WithLogger(quietLogger()))

		if err := c.ComputeLayers(context.Background(), 2); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := [][]string{{"A"}, {"B", "C"}, {"D", "E"}}
		if diff := cmp.Diff(want, c.Layers()); diff != "" {
			t.Errorf("layers mismatch (-want +got):\n%s", diff)
		}
		if f.callCount("A") != 1 || f.callCount("B") != 1 || f.callCount("D") != 0 {
			t.Errorf("unexpected fetch counts: %v", f.calls)
		}
	})

	t.Run("zero count is a no-op", func(t *testing.T) {
		t.Parallel()

		c := New(newFakeFetcher(nil), "A", WithLogger(quietLogger()))
		if err := c.ComputeLayers(context.Background(), 0); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.LayerCount() != 1 {
			t.Errorf("expected 1 layer, got %d", c.LayerCount())
		}
	})

	t.Run("negative count is rejected", func(t *testing.T) {
		t.Parallel()

		c := New(newFakeFetcher(nil), "A", WithLogger(quietLogger()))
		if err := c.ComputeLayers(context.Background(), -1); !errors.Is(err, ErrNegativeCount) {
			t.Errorf("expected ErrNegativeCount, got %v", err)
		}
	})

	t.Run("empty layer produces an empty layer", func(t *testing.T) {
		t.Parallel()

		origin := article.New("Lonely", "Lonely", nil, "")
		c := FromArticle(newFakeFetcher(nil), origin, WithLogger(quietLogger()))
		if err := c.ComputeLayers(context.Background(), 1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff([][]string{{"Lonely"}, {}, {}}, c.Layers()); diff != "" {
			t.Errorf("layers mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestComputeNextRedirects(t *testing.T) {
	t.Parallel()

	t.Run("redirect source is replaced by its target", func(t *testing.T) {
		t.Parallel()

		f := newFakeFetcher(map[string]page{
			"A":   {links: []string{"Bar"}},
			"Bar": {served: "Baz", links: []string{"Q"}},
		})
		c := New(f, "A", WithLogger(quietLogger()))
		if err := c.ComputeLayers(context.Background(), 2); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := [][]string{{"A"}, {"Baz"}, {"Q"}}
		if diff := cmp.Diff(want, c.Layers()); diff != "" {
			t.Errorf("layers mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(map[string]string{"Bar": "Baz"}, c.Redirects()); diff != "" {
			t.Errorf("redirects mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("links to a known redirect target are excluded", func(t *testing.T) {
		t.Parallel()

		f := newFakeFetcher(map[string]page{
			"A":   {links: []string{"Bar"}},
			"Bar": {served: "Baz", links: []string{"C"}},
			"C":   {links: []string{"Bar", "Baz", "D"}},
		})
		c := New(f, "A", WithLogger(quietLogger()))
		if err := c.ComputeLayers(context.Background(), 3); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := [][]string{{"A"}, {"Baz"}, {"C"}, {"D"}}
		if diff := cmp.Diff(want, c.Layers()); diff != "" {
			t.Errorf("layers mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("target already in the processed layer is not duplicated", func(t *testing.T) {
		t.Parallel()

		f := newFakeFetcher(map[string]page{
			"A":   {links: []string{"Bar", "Baz"}},
			"Bar": {served: "Baz"},
			"Baz": {links: []string{"Y"}},
		})
		c := New(f, "A", WithLogger(quietLogger()))
		if err := c.ComputeLayers(context.Background(), 2); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := [][]string{{"A"}, {"Baz"}, {"Y"}}
		if diff := cmp.Diff(want, c.Layers()); diff != "" {
			t.Errorf("layers mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("target discovered in the same round moves to the processed layer", func(t *testing.T) {
		t.Parallel()

		f := newFakeFetcher(map[string]page{
			"A":   {links: []string{"Bar", "C"}},
			"Bar": {served: "Baz"},
			"C":   {links: []string{"Baz", "E"}},
		})
		c := New(f, "A", WithLogger(quietLogger()))
		if err := c.ComputeLayers(context.Background(), 2); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := [][]string{{"A"}, {"Baz", "C"}, {"E"}}
		if diff := cmp.Diff(want, c.Layers()); diff != "" {
			t.Errorf("layers mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("target in an earlier layer only removes the source", func(t *testing.T) {
		t.Parallel()

		f := newFakeFetcher(map[string]page{
			"A":     {links: []string{"B"}},
			"B":     {links: []string{"Alias"}},
			"Alias": {served: "A"},
		})
		c := New(f, "A", WithLogger(quietLogger()))
		if err := c.ComputeLayers(context.Background(), 3); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := [][]string{{"A"}, {"B"}, {}, {}}
		if diff := cmp.Diff(want, c.Layers()); diff != "" {
			t.Errorf("layers mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("later links to a redirect source resolve through the table", func(t *testing.T) {
		t.Parallel()

		f := newFakeFetcher(map[string]page{
			"A":   {links: []string{"Bar", "C"}},
			"Bar": {served: "Baz", links: []string{"D"}},
			"C":   {links: []string{"Bar"}},
			"D":   {links: []string{"Bar", "Baz", "A"}},
		})
		c := New(f, "A", WithLogger(quietLogger()))
		if err := c.ComputeLayers(context.Background(), 3); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := [][]string{{"A"}, {"Baz", "C"}, {"D"}, {}}
		if diff := cmp.Diff(want, c.Layers()); diff != "" {
			t.Errorf("layers mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("redirecting origin is normalized", func(t *testing.T) {
		t.Parallel()

		f := newFakeFetcher(map[string]page{
			"Old": {served: "New", links: []string{"B"}},
		})
		c := New(f, "Old", WithLogger(quietLogger()))
		if err := c.ComputeNext(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if c.Origin() != "New" {
			t.Errorf("expected origin New, got %q", c.Origin())
		}
		if idx, ok := c.FindLayer("Old"); !ok || idx != 0 {
			t.Errorf("expected Old to resolve to layer 0, got %d, %v", idx, ok)
		}
	})
}

func TestComputeNextFailures(t *testing.T) {
	t.Parallel()

	t.Run("failed fetch aborts the round", func(t *testing.T) {
		t.Parallel()

		f := newFakeFetcher(map[string]page{
			"A": {links: []string{"B", "Gone"}},
			"B": {links: []string{"C"}},
		})
		c := New(f, "A", WithLogger(quietLogger()))
		if err := c.ComputeNext(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		before := c.Layers()

		err := c.ComputeLayers(context.Background(), 3)
		if !errors.Is(err, errMissing) {
			t.Fatalf("expected errMissing, got %v", err)
		}
		var roundErr *RoundError
		if !errors.As(err, &roundErr) {
			t.Fatalf("expected *RoundError, got %T", err)
		}
		if roundErr.Endpoint != "Gone" || roundErr.Layer != 2 {
			t.Errorf("unexpected round error: %+v", roundErr)
		}
		if diff := cmp.Diff(before, c.Layers()); diff != "" {
			t.Errorf("layers changed after failed round (-want +got):\n%s", diff)
		}
	})

	t.Run("failed round does not commit redirects", func(t *testing.T) {
		t.Parallel()

		f := newFakeFetcher(map[string]page{
			"A":   {links: []string{"Bar", "Gone"}},
			"Bar": {served: "Baz"},
		})
		f.delay = time.Millisecond
		c := New(f, "A", WithLogger(quietLogger()), WithRoundConcurrency(1))
		if err := c.ComputeLayers(context.Background(), 2); err == nil {
			t.Fatal("expected error")
		}
		if len(c.Redirects()) != 0 {
			t.Errorf("expected no redirects, got %v", c.Redirects())
		}
		if diff := cmp.Diff([][]string{{"A"}, {"Bar", "Gone"}}, c.Layers()); diff != "" {
			t.Errorf("layers mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("panicking unit is reported as a concurrency failure", func(t *testing.T) {
		t.Parallel()

		f := newFakeFetcher(map[string]page{
			"A": {panics: true},
		})
		c := New(f, "A", WithLogger(quietLogger()))
		err := c.ComputeNext(context.Background())
		if !errors.Is(err, ErrConcurrency) {
			t.Fatalf("expected ErrConcurrency, got %v", err)
		}
		if c.LayerCount() != 1 {
			t.Errorf("expected 1 layer, got %d", c.LayerCount())
		}
	})

	t.Run("calculator without layers", func(t *testing.T) {
		t.Parallel()

		c := &Calculator{}
		if err := c.ComputeNext(context.Background()); !errors.Is(err, ErrNotInitialized) {
			t.Errorf("expected ErrNotInitialized, got %v", err)
		}
	})
}

func TestRoundConcurrencyLimit(t *testing.T) {
	t.Parallel()

	pages := map[string]page{"Hub": {}}
	for i := range 20 {
		name := fmt.Sprintf("Leaf_%d", i)
		hub := pages["Hub"]
		hub.links = append(hub.links, name)
		pages["Hub"] = hub
		pages[name] = page{}
	}
	f := newFakeFetcher(pages)
	f.delay = 5 * time.Millisecond

	c := New(f, "Hub", WithLogger(quietLogger()), WithRoundConcurrency(3))
	if err := c.ComputeLayers(context.Background(), 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.peak.Load() > 3 {
		t.Errorf("expected at most 3 concurrent fetches, got %d", f.peak.Load())
	}
}

// TestLayerInvariants runs the calculator over a generated graph with
// redirects and checks that layers are disjoint and that every member of a
// layer is linked from the layer before it.
func TestLayerInvariants(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(7, 11))
	const size = 60

	pages := make(map[string]page, size)
	name := func(i int) string { return fmt.Sprintf("P%02d", i) }
	for i := range size {
		p := page{}
		if i%7 == 3 {
			p.served = name((i + 1) % size)
		}
		for range 4 {
			p.links = append(p.links, name(rng.IntN(size)))
		}
		pages[name(i)] = p
	}

	f := newFakeFetcher(pages)
	c := New(f, name(0), WithLogger(quietLogger()), WithRoundConcurrency(4))
	if err := c.ComputeLayers(context.Background(), 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	layers := c.Layers()
	if len(layers) != 5 {
		t.Fatalf("expected 5 layers, got %d", len(layers))
	}

	seen := make(map[string]int)
	for i, layer := range layers {
		for _, e := range layer {
			if j, dup := seen[e]; dup {
				t.Errorf("%s appears in layers %d and %d", e, j, i)
			}
			seen[e] = i
		}
	}

	redirects := c.Redirects()
	resolve := func(e string) string {
		if target, ok := redirects[e]; ok {
			return target
		}
		return e
	}
	for i := 0; i+1 < len(layers); i++ {
		linked := make(map[string]bool)
		for _, p := range layers[i] {
			for _, l := range pages[p].links {
				linked[resolve(l)] = true
			}
		}
		for _, e := range layers[i+1] {
			if !linked[e] {
				t.Errorf("%s in layer %d is not linked from layer %d", e, i+1, i)
			}
		}
	}

	for source, target := range redirects {
		if pages[source].served != target {
			t.Errorf("redirect %s -> %s does not match the served endpoint %s", source, target, pages[source].served)
		}
	}
}
