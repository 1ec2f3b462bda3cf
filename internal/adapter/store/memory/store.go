// Package memory is an in-process RecordStore used for local runs and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/DarshaunDavis/teststrip-marketplace/internal/marketplace/domain"
	"github.com/DarshaunDavis/teststrip-marketplace/internal/platform/logger"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// Store keeps every collection in memory and pushes full snapshots to
// subscribers after each mutation.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]interface{}
	subscribers map[string]map[*subscription]struct{}
	policy      domain.AccessPolicy
	log         *logger.Logger
}

// NewStore creates an empty store. A nil policy allows everything.
func NewStore(policy domain.AccessPolicy, log *logger.Logger) *Store {
	if policy == nil {
		policy = domain.AllowAll{}
	}
	return &Store{
		collections: make(map[string]map[string]map[string]interface{}),
		subscribers: make(map[string]map[*subscription]struct{}),
		policy:      policy,
		log:         log.Named("MemoryStore"),
	}
}

// GenerateID returns a ULID so generated ids sort by creation time.
func (s *Store) GenerateID(string) string {
	return ulid.Make().String()
}

func (s *Store) Get(ctx context.Context, collection, id string) (domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return domain.Record{}, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	fields, ok := s.collections[collection][id]
	if !ok {
		return domain.Record{}, fmt.Errorf("%w: %s/%s", domain.ErrNotFound, collection, id)
	}
	return domain.Record{ID: id, Fields: copyFields(fields)}, nil
}

// QueryByField returns records whose field equals value, ordered by id.
func (s *Store) QueryByField(ctx context.Context, collection, field string, value interface{}) ([]domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Record
	for id, fields := range s.collections[collection] {
		v, ok := fields[field]
		if ok && valuesEqual(v, value) {
			out = append(out, domain.Record{ID: id, Fields: copyFields(fields)})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Write replaces the record at id.
func (s *Store) Write(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if err := domain.CheckNoAbsentFields(fields); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("%w: empty record id", domain.ErrInvalidInput)
	}
	if !s.policy.AllowWrite(collection, id) {
		return fmt.Errorf("%w: write %s/%s", domain.ErrAccessDenied, collection, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	docs, ok := s.collections[collection]
	if !ok {
		docs = make(map[string]map[string]interface{})
		s.collections[collection] = docs
	}
	docs[id] = copyFields(fields)
	s.notifyLocked(collection)
	return nil
}

// Update merges fields into an existing record.
func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if err := domain.CheckNoAbsentFields(fields); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.collections[collection][id]
	if !ok {
		return fmt.Errorf("%w: %s/%s", domain.ErrNotFound, collection, id)
	}
	if !s.policy.AllowUpdate(collection, domain.Record{ID: id, Fields: copyFields(current)}) {
		s.log.Debug("Update denied by access policy", zap.String("collection", collection), zap.String("id", id))
		return fmt.Errorf("%w: update %s/%s", domain.ErrAccessDenied, collection, id)
	}
	for k, v := range fields {
		current[k] = copyValue(v)
	}
	s.notifyLocked(collection)
	return nil
}

// Subscribe delivers the current snapshot right away and again after every
// change. The subscription ends on Unsubscribe or when ctx is done.
func (s *Store) Subscribe(ctx context.Context, collection, orderField string) (domain.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	sub := &subscription{
		store:      s,
		collection: collection,
		orderField: orderField,
		updates:    make(chan domain.Snapshot, 1),
		done:       make(chan struct{}),
	}

	s.mu.Lock()
	subs, ok := s.subscribers[collection]
	if !ok {
		subs = make(map[*subscription]struct{})
		s.subscribers[collection] = subs
	}
	subs[sub] = struct{}{}
	sub.deliver(s.snapshotLocked(collection, orderField))
	s.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			sub.Unsubscribe()
		case <-sub.done:
		}
	}()
	return sub, nil
}

func (s *Store) notifyLocked(collection string) {
	for sub := range s.subscribers[collection] {
		sub.deliver(s.snapshotLocked(collection, sub.orderField))
	}
}

func (s *Store) snapshotLocked(collection, orderField string) domain.Snapshot {
	docs := s.collections[collection]
	snap := make(domain.Snapshot, 0, len(docs))
	for id, fields := range docs {
		snap = append(snap, domain.Record{ID: id, Fields: copyFields(fields)})
	}
	sort.Slice(snap, func(i, j int) bool {
		if orderField != "" {
			if c := compareValues(snap[i].Fields[orderField], snap[j].Fields[orderField]); c != 0 {
				return c < 0
			}
		}
		return snap[i].ID < snap[j].ID
	})
	return snap
}

func (s *Store) removeSubscription(sub *subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subscribers[sub.collection], sub)
}

type subscription struct {
	store      *Store
	collection string
	orderField string

	mu      sync.Mutex
	closed  bool
	updates chan domain.Snapshot
	done    chan struct{}
	once    sync.Once
}

func (s *subscription) Updates() <-chan domain.Snapshot {
	return s.updates
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		s.store.removeSubscription(s)
		s.mu.Lock()
		s.closed = true
		close(s.updates)
		s.mu.Unlock()
		close(s.done)
	})
}

// deliver keeps only the newest snapshot; a slow reader skips stale ones.
func (s *subscription) deliver(snap domain.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case <-s.updates:
	default:
	}
	s.updates <- snap
}
