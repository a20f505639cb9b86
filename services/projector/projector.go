// Package projector turns a collection's change feed into a stream of full,
// normalized snapshots. Consumers (the calendar, the admin request queue)
// always see complete collections in the domain's own types — normalization
// of stored date encodings already happened at the store boundary — and never
// have to reassemble deltas.
package projector

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Source is a collection the projector can snapshot and watch. Both
// repositories backing the public calendar satisfy it.
type Source[T any] interface {
	List(ctx context.Context) ([]T, error)
	Changes(ctx context.Context) (<-chan struct{}, error)
}

// Update is one delivery. Stale marks a redelivery of the last known
// snapshot while the change feed is broken; consumers keep rendering it
// flagged as possibly out of date instead of blanking their state.
type Update[T any] struct {
	Items []T
	Stale bool
}

const (
	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second
)

// Projector republishes snapshots of one Source.
type Projector[T any] struct {
	source Source[T]
	logger *zap.Logger
}

func New[T any](source Source[T], logger *zap.Logger) *Projector[T] {
	return &Projector[T]{source: source, logger: logger}
}

type subscription[T any] struct {
	mu       sync.Mutex
	disposed bool
	cb       func(Update[T])
	last     []T
}

// deliver invokes the callback under the subscription lock. Dispose takes
// the same lock, so a delivery racing disposal either completes before
// dispose returns or is dropped entirely; nothing runs after disposal.
func (s *subscription[T]) deliver(u Update[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	if !u.Stale {
		s.last = u.Items
	}
	s.cb(u)
}

func (s *subscription[T]) deliverStale() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	s.cb(Update[T]{Items: s.last, Stale: true})
}

// Subscribe delivers the current snapshot, then one snapshot per committed
// change, in commit order for this collection (no ordering is promised
// relative to other collections). The returned disposer stops all further
// deliveries and releases the underlying change stream.
func (p *Projector[T]) Subscribe(ctx context.Context, cb func(Update[T])) (func(), error) {
	subCtx, cancel := context.WithCancel(ctx)

	items, err := p.source.List(subCtx)
	if err != nil {
		cancel()
		return nil, err
	}

	sub := &subscription[T]{cb: cb}
	sub.deliver(Update[T]{Items: items})

	go p.run(subCtx, sub)

	dispose := func() {
		sub.mu.Lock()
		sub.disposed = true
		sub.mu.Unlock()
		cancel()
	}
	return dispose, nil
}

func (p *Projector[T]) run(ctx context.Context, sub *subscription[T]) {
	backoff := initialBackoff
	for {
		changes, err := p.source.Changes(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Warn("change stream unavailable, keeping stale snapshot", zap.Error(err))
			sub.deliverStale()
			if !sleep(ctx, backoff) {
				return
			}
			backoff = nextBackoff(backoff)
			continue
		}
		backoff = initialBackoff

		for range changes {
			items, lerr := p.source.List(ctx)
			if lerr != nil {
				if ctx.Err() != nil {
					return
				}
				p.logger.Warn("snapshot read failed, keeping stale snapshot", zap.Error(lerr))
				sub.deliverStale()
				continue
			}
			sub.deliver(Update[T]{Items: items})
		}

		// Channel closed: the stream ended. Reconnect unless disposed.
		if ctx.Err() != nil {
			return
		}
		sub.deliverStale()
		if !sleep(ctx, backoff) {
			return
		}
		backoff = nextBackoff(backoff)
	}
}

func nextBackoff(d time.Duration) time.Duration {
	d *= 2
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
