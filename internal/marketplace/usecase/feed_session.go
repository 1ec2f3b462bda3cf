package usecase

import (
	"context"
	"sync"

	"github.com/DarshaunDavis/teststrip-marketplace/internal/marketplace/domain"
	"github.com/DarshaunDavis/teststrip-marketplace/internal/platform/metrics"
)

// FeedSession holds the latest decoded snapshot of one subscription. Close
// it when the consumer goes away.
type FeedSession[T any] struct {
	sub    domain.Subscription
	decode func(domain.Snapshot) []T

	mu      sync.RWMutex
	items   []T
	changed chan struct{}

	ready     chan struct{}
	readyOnce sync.Once
	done      chan struct{}
	closeOnce sync.Once
}

func newFeedSession[T any](sub domain.Subscription, collection string, decode func(domain.Snapshot) []T, m *metrics.MetricsManager) *FeedSession[T] {
	s := &FeedSession[T]{
		sub:     sub,
		decode:  decode,
		changed: make(chan struct{}),
		ready:   make(chan struct{}),
		done:    make(chan struct{}),
	}
	go s.run(collection, m)
	return s
}

func (s *FeedSession[T]) run(collection string, m *metrics.MetricsManager) {
	defer close(s.done)
	for snap := range s.sub.Updates() {
		items := s.decode(snap)
		m.FeedDelivered(collection)

		s.mu.Lock()
		s.items = items
		close(s.changed)
		s.changed = make(chan struct{})
		s.mu.Unlock()

		s.readyOnce.Do(func() { close(s.ready) })
	}
}

// Current returns the latest items and a channel closed on the next update.
// The returned slice must not be modified.
func (s *FeedSession[T]) Current() ([]T, <-chan struct{}) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items, s.changed
}

// WaitReady blocks until the first snapshot has arrived. An ended session
// always reports ErrSubscriptionClosed, even if it had become ready.
func (s *FeedSession[T]) WaitReady(ctx context.Context) error {
	select {
	case <-s.ready:
		if s.Ended() {
			return domain.ErrSubscriptionClosed
		}
		return nil
	case <-s.done:
		return domain.ErrSubscriptionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed once the underlying subscription has ended.
func (s *FeedSession[T]) Done() <-chan struct{} {
	return s.done
}

// Ended reports whether the underlying subscription has ended.
func (s *FeedSession[T]) Ended() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Close unsubscribes. It is safe to call more than once.
func (s *FeedSession[T]) Close() {
	s.closeOnce.Do(s.sub.Unsubscribe)
}
