package mongodb

import (
	"context"
	"reflect"
	"time"

	"github.com/DarshaunDavis/teststrip-marketplace/internal/marketplace/domain"

	"go.mongodb.org/mongo-driver/mongo"
	zap "go.uber.org/zap"
)

type subscription struct {
	ctx     context.Context
	cancel  context.CancelFunc
	updates chan domain.Snapshot
}

func (s *subscription) Updates() <-chan domain.Snapshot {
	return s.updates
}

// Unsubscribe stops the watcher; the updates channel is closed once it exits.
func (s *subscription) Unsubscribe() {
	s.cancel()
}

// deliver replaces any unread snapshot with snap. Only the watcher goroutine calls it.
func (s *subscription) deliver(snap domain.Snapshot) {
	if s.ctx.Err() != nil {
		return
	}
	select {
	case <-s.updates:
	default:
	}
	s.updates <- snap
}

// Subscribe loads the collection ordered by orderField and redelivers the
// full snapshot after every change. Change streams need a replica set; on a
// standalone server the store falls back to polling.
func (s *Store) Subscribe(ctx context.Context, collection, orderField string) (domain.Subscription, error) {
	subCtx, cancel := context.WithCancel(ctx)
	initial, err := s.snapshot(subCtx, collection, orderField)
	if err != nil {
		cancel()
		s.logger.Error("Failed to load initial snapshot", zap.String("collection", collection), zap.Error(err))
		return nil, err
	}

	sub := &subscription{ctx: subCtx, cancel: cancel, updates: make(chan domain.Snapshot, 1)}
	sub.deliver(initial)

	stream, err := s.db.Collection(collection).Watch(subCtx, mongo.Pipeline{})
	if err != nil {
		s.logger.Warn("Change stream unavailable, polling instead",
			zap.String("collection", collection), zap.Duration("interval", s.pollInterval), zap.Error(err))
		go s.poll(sub, collection, orderField, initial)
		return sub, nil
	}
	go s.watch(sub, stream, collection, orderField)
	return sub, nil
}

func (s *Store) watch(sub *subscription, stream *mongo.ChangeStream, collection, orderField string) {
	defer close(sub.updates)
	defer stream.Close(context.Background())

	for stream.Next(sub.ctx) {
		snap, err := s.snapshot(sub.ctx, collection, orderField)
		if err != nil {
			s.logger.Warn("Failed to reload snapshot after change", zap.String("collection", collection), zap.Error(err))
			continue
		}
		sub.deliver(snap)
	}
	if err := stream.Err(); err != nil && sub.ctx.Err() == nil {
		s.logger.Error("Change stream terminated", zap.String("collection", collection), zap.Error(err))
	}
}

func (s *Store) poll(sub *subscription, collection, orderField string, last domain.Snapshot) {
	defer close(sub.updates)
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-sub.ctx.Done():
			return
		case <-ticker.C:
			snap, err := s.snapshot(sub.ctx, collection, orderField)
			if err != nil {
				if sub.ctx.Err() == nil {
					s.logger.Warn("Failed to poll snapshot", zap.String("collection", collection), zap.Error(err))
				}
				continue
			}
			if reflect.DeepEqual(snap, last) {
				continue
			}
			last = snap
			sub.deliver(snap)
		}
	}
}
