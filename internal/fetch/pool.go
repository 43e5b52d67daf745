package fetch

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// AdmissionPool bounds the number of requests in flight. It holds no data;
// it only decides when a request may start.
type AdmissionPool struct {
	sem      *semaphore.Weighted
	capacity int

	// done is cancelled by Close so that blocked Acquire calls return.
	done   context.Context
	cancel context.CancelFunc

	inFlight atomic.Int64
	peak     atomic.Int64
}

// NewAdmissionPool creates a pool with the given number of tokens.
// A non-positive capacity is treated as 1.
func NewAdmissionPool(capacity int) *AdmissionPool {
	if capacity <= 0 {
		capacity = 1
	}
	done, cancel := context.WithCancel(context.Background())
	return &AdmissionPool{
		sem:      semaphore.NewWeighted(int64(capacity)),
		capacity: capacity,
		done:     done,
		cancel:   cancel,
	}
}

// Acquire blocks until a token is available. It returns ErrPoolClosed once
// the pool is closed, or the context error if ctx ends first.
func (p *AdmissionPool) Acquire(ctx context.Context) error {
	if p.done.Err() != nil {
		return ErrPoolClosed
	}

	actx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(p.done, cancel)
	defer stop()

	if err := p.sem.Acquire(actx, 1); err != nil {
		if p.done.Err() != nil {
			return ErrPoolClosed
		}
		return err
	}
	if p.done.Err() != nil {
		p.sem.Release(1)
		return ErrPoolClosed
	}

	n := p.inFlight.Add(1)
	for {
		peak := p.peak.Load()
		if n <= peak || p.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	return nil
}

// Release returns a token obtained by Acquire.
func (p *AdmissionPool) Release() {
	p.inFlight.Add(-1)
	p.sem.Release(1)
}

// Close shuts the pool down. Pending and future Acquire calls fail with
// ErrPoolClosed; tokens already held may still be released.
func (p *AdmissionPool) Close() {
	p.cancel()
}

// Capacity returns the number of tokens.
func (p *AdmissionPool) Capacity() int {
	return p.capacity
}

// InFlight returns the number of tokens currently held.
func (p *AdmissionPool) InFlight() int {
	return int(p.inFlight.Load())
}

// Peak returns the highest number of tokens held at once.
func (p *AdmissionPool) Peak() int {
	return int(p.peak.Load())
}

// BackoffSignal is the shared "someone is backing off" flag. It counts the
// workers currently in a backoff sleep so that one worker finishing its sleep
// does not clear the signal while another is still sleeping.
type BackoffSignal struct {
	active atomic.Int32
}

// Raise marks the start of one worker's backoff window.
func (b *BackoffSignal) Raise() {
	b.active.Add(1)
}

// Lower marks the end of one worker's backoff window.
func (b *BackoffSignal) Lower() {
	b.active.Add(-1)
}

// Active reports whether any worker is backing off.
func (b *BackoffSignal) Active() bool {
	return b.active.Load() > 0
}
