package links

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nao1215/wikihop/internal/article"
	"golang.org/x/sync/errgroup"
)

// DefaultRoundConcurrency is the number of work units that may fetch at the
// same time within one round.
const DefaultRoundConcurrency = 32

// Fetcher retrieves an article. The returned article's Endpoint is the
// endpoint actually served, which differs from the argument on a redirect.
type Fetcher interface {
	Fetch(ctx context.Context, endpoint string) (*article.Article, error)
}

// Calculator builds the layer sequence around an origin article.
//
// Concurrency model: during a round many units read the committed layers
// and the redirect table while inserting into the new layer. The committed
// layers are guarded by mu; units hold the read lock only while checking
// membership, and the write lock is taken once per round to normalize the
// processed layer and append the new one.
type Calculator struct {
	fetcher Fetcher

	mu     sync.RWMutex
	layers []*Layer

	redirects *RedirectTable

	// requested is the endpoint asked for before the origin was fetched.
	requested string

	roundConcurrency int
	logger           *slog.Logger
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithRoundConcurrency sets how many units of a round may fetch at once.
// The admission pool of the fetcher applies its own cap as well.
func WithRoundConcurrency(n int) Option {
	return func(c *Calculator) {
		if n > 0 {
			c.roundConcurrency = n
		}
	}
}

// WithRequestedOrigin names the endpoint that was requested for the origin
// article. When the server redirected it, FromArticle records the redirect
// so later links to the requested name resolve to layer 0. New ignores it.
func WithRequestedOrigin(endpoint string) Option {
	return func(c *Calculator) {
		c.requested = endpoint
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Calculator) {
		c.logger = logger
	}
}

func newCalculator(fetcher Fetcher, opts []Option) *Calculator {
	c := &Calculator{
		fetcher:          fetcher,
		redirects:        NewRedirectTable(),
		roundConcurrency: DefaultRoundConcurrency,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// New creates a calculator whose only layer holds start.
func New(fetcher Fetcher, start string, opts ...Option) *Calculator {
	c := newCalculator(fetcher, opts)
	c.layers = []*Layer{NewLayer(start)}
	return c
}

// FromArticle creates a calculator from an already fetched origin. Layer 0
// holds the origin's endpoint and layer 1 its outbound links, excluding the
// origin itself.
func FromArticle(fetcher Fetcher, origin *article.Article, opts ...Option) *Calculator {
	c := newCalculator(fetcher, opts)
	if c.requested != "" && c.requested != origin.Endpoint() {
		c.redirects.Record(c.requested, origin.Endpoint())
		c.logger.Debug("redirect observed", "source", c.requested, "target", origin.Endpoint())
	}

	first := NewLayer()
	for _, link := range origin.Links() {
		if canonical := c.redirects.Resolve(link); canonical != origin.Endpoint() {
			first.Add(canonical)
		}
	}
	c.layers = []*Layer{NewLayer(origin.Endpoint()), first}
	return c
}

// ComputeLayers runs count rounds in sequence. It stops at the first failed
// round, leaving the layers committed before it intact.
func (c *Calculator) ComputeLayers(ctx context.Context, count int) error {
	if count < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeCount, count)
	}
	for range count {
		if err := c.ComputeNext(ctx); err != nil {
			return err
		}
	}
	return nil
}

type redirect struct {
	source, target string
}

// ComputeNext fetches every member of the last layer and appends the layer
// of newly discovered endpoints. If any fetch fails no layer is appended and
// the returned error is a *RoundError naming the failing endpoint.
func (c *Calculator) ComputeNext(ctx context.Context) error {
	c.mu.RLock()
	if len(c.layers) == 0 {
		c.mu.RUnlock()
		return ErrNotInitialized
	}
	index := len(c.layers)
	current := c.layers[index-1]
	c.mu.RUnlock()

	sources := current.Members()
	c.logger.Info("computing layer", "layer", index, "sources", len(sources))
	start := time.Now()

	next := NewLayer()
	var (
		pendingMu sync.Mutex
		pending   []redirect
		failed    atomic.Bool
	)

	g := new(errgroup.Group)
	g.SetLimit(c.roundConcurrency)
	for _, source := range sources {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					failed.Store(true)
					err = &RoundError{Layer: index, Endpoint: source, Err: fmt.Errorf("%w: %v", ErrConcurrency, r)}
				}
			}()

			// Units queued behind a failure have nothing to contribute.
			if failed.Load() {
				return nil
			}

			target, err := c.expand(ctx, source, next)
			if err != nil {
				failed.Store(true)
				return &RoundError{Layer: index, Endpoint: source, Err: err}
			}
			if target != source {
				pendingMu.Lock()
				pending = append(pending, redirect{source: source, target: target})
				pendingMu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		c.logger.Error("layer computation failed", "layer", index, "error", err)
		return err
	}

	c.commit(current, next, pending)
	c.logger.Info("layer complete",
		"layer", index,
		"size", next.Len(),
		"redirects", len(pending),
		"elapsed", time.Since(start),
	)
	return nil
}

// expand fetches source and inserts its unseen links into next. It returns
// the endpoint that was actually served.
func (c *Calculator) expand(ctx context.Context, source string, next *Layer) (string, error) {
	doc, err := c.fetcher.Fetch(ctx, source)
	if err != nil {
		return "", err
	}
	if doc.Endpoint() != source {
		c.logger.Debug("redirect observed", "source", source, "target", doc.Endpoint())
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, link := range doc.Links() {
		canonical := c.redirects.Resolve(link)
		if _, seen := c.findLocked(canonical); !seen {
			next.Add(canonical)
		}
	}
	c.logger.Debug("stored links", "endpoint", source, "links", doc.LinkCount())
	return doc.Endpoint(), nil
}

// commit records the round's redirects, rewrites the processed layer so it
// holds redirect targets instead of sources, and appends next.
func (c *Calculator) commit(current, next *Layer, pending []redirect) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range pending {
		if existing, ok := c.redirects.Record(r.source, r.target); !ok && existing != r.target {
			c.logger.Warn("conflicting redirect ignored",
				"source", r.source,
				"recorded", existing,
				"observed", r.target,
			)
			continue
		}

		// Sources are members of current, so next never holds them. The
		// target may have been discovered this round and then moves back a
		// layer, where the source's fetch already expanded it.
		current.Remove(r.source)
		if _, seen := c.findLocked(r.target); !seen {
			current.Add(r.target)
			next.Remove(r.target)
		}
	}

	c.layers = append(c.layers, next)
}

// findLocked returns the index of the committed layer holding endpoint.
// The caller must hold mu.
func (c *Calculator) findLocked(endpoint string) (int, bool) {
	for i, layer := range c.layers {
		if layer.Contains(endpoint) {
			return i, true
		}
	}
	return 0, false
}

// FindLayer returns the index of the layer holding endpoint after resolving
// it through the redirect table.
func (c *Calculator) FindLayer(endpoint string) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.findLocked(c.redirects.Resolve(endpoint))
}

// LayerCount returns the number of committed layers.
func (c *Calculator) LayerCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.layers)
}

// Layers returns the members of every committed layer, each sorted.
func (c *Calculator) Layers() [][]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([][]string, len(c.layers))
	for i, layer := range c.layers {
		out[i] = layer.Members()
	}
	return out
}

// Origin returns the member of layer 0.
func (c *Calculator) Origin() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.layers) == 0 {
		return ""
	}
	members := c.layers[0].Members()
	if len(members) == 0 {
		return ""
	}
	return members[0]
}

// Redirects returns a copy of the redirect table.
func (c *Calculator) Redirects() map[string]string {
	return c.redirects.Map()
}
