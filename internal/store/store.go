// Package store holds the local, ordered collection of one entity kind and keeps
// it consistent with the remote catalog.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"inventory-catalog/internal/apperrors"
	"inventory-catalog/internal/models"
)

// Remote is the gateway surface a store needs.
type Remote[T models.Entity] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, e T) (T, error)
	Update(ctx context.Context, e T) (T, error)
	Delete(ctx context.Context, id string) error
}

// Op names a store operation.
type Op string

const (
	OpRefresh Op = "refresh"
	OpCreate  Op = "create"
	OpUpdate  Op = "update"
	OpDelete  Op = "delete"
)

// Change is published on the bus after every successful operation.
type Change struct {
	Kind  models.Kind
	Op    Op
	ID    string
	Count int
}

// ChangedTopic is the bus topic a store of kind publishes on.
func ChangedTopic(kind models.Kind) string {
	return "catalog:" + string(kind) + ":changed"
}

type Option[T models.Entity] func(*Store[T])

// WithBus publishes change events on bus.
func WithBus[T models.Entity](bus EventBus.Bus) Option[T] {
	return func(s *Store[T]) { s.bus = bus }
}

// WithClock overrides the clock used for LastFetch.
func WithClock[T models.Entity](now func() time.Time) Option[T] {
	return func(s *Store[T]) { s.now = now }
}

// Store is the client-side collection of one entity kind. State is guarded by a
// mutex that is never held across a remote call; at most one operation runs at
// a time and a second one fails with apperrors.ErrBusy.
type Store[T models.Entity] struct {
	remote Remote[T]
	kind   models.Kind
	bus    EventBus.Bus
	now    func() time.Time

	mu        sync.Mutex
	items     []T
	loading   bool
	inFlight  Op
	lastFetch time.Time
}

func New[T models.Entity](remote Remote[T], opts ...Option[T]) *Store[T] {
	var zero T
	s := &Store[T]{
		remote: remote,
		kind:   zero.EntityKind(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store[T]) Kind() models.Kind { return s.kind }

// acquire takes the in-flight slot for op.
func (s *Store[T]) acquire(op Op) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight != "" {
		zap.S().Debugw("store_busy", "kind", s.kind, "op", op, "in_flight", s.inFlight)
		return errors.Wrapf(apperrors.ErrBusy, "%s %s", op, s.kind)
	}
	s.inFlight = op
	if op == OpRefresh {
		s.loading = true
	}
	return nil
}

func (s *Store[T]) release() {
	s.mu.Lock()
	s.inFlight = ""
	s.loading = false
	s.mu.Unlock()
}

// Refresh replaces the collection with the remote one. Entities without an
// identifier are dropped and the first of any duplicate identifier wins. On
// failure the collection is left untouched.
func (s *Store[T]) Refresh(ctx context.Context) error {
	if err := s.acquire(OpRefresh); err != nil {
		return err
	}
	defer s.release()

	fetched, err := s.remote.List(ctx)
	if err != nil {
		zap.S().Warnw("store_refresh_failed", "kind", s.kind, "error", err)
		return errors.Wrapf(err, "refresh %s", s.kind)
	}

	items := make([]T, 0, len(fetched))
	seen := make(map[string]struct{}, len(fetched))
	for _, e := range fetched {
		id := e.Identifier()
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		items = append(items, e)
	}

	s.mu.Lock()
	s.items = items
	s.lastFetch = s.now()
	s.mu.Unlock()

	zap.S().Debugw("store_refreshed", "kind", s.kind, "count", len(items), "dropped", len(fetched)-len(items))
	s.publish(Change{Kind: s.kind, Op: OpRefresh, Count: len(items)})
	return nil
}

// CommitCreate sends e to the server and inserts the result at the front of the
// collection. Nothing is inserted before the server answers.
func (s *Store[T]) CommitCreate(ctx context.Context, e T) (T, error) {
	var zero T
	if err := s.acquire(OpCreate); err != nil {
		return zero, err
	}
	defer s.release()

	created, err := s.remote.Create(ctx, e)
	if err != nil {
		return zero, errors.Wrapf(err, "create %s", s.kind)
	}
	id := created.Identifier()
	if id == "" {
		return zero, errors.Wrapf(apperrors.ErrMissingIdentifier, "create %s: response", s.kind)
	}

	s.mu.Lock()
	next := make([]T, 0, len(s.items)+1)
	next = append(next, created)
	for _, it := range s.items {
		if it.Identifier() != id {
			next = append(next, it)
		}
	}
	s.items = next
	s.mu.Unlock()

	s.publish(Change{Kind: s.kind, Op: OpCreate, ID: id})
	return created, nil
}

// CommitUpdate sends a full replacement of e and swaps the result in place. An
// entity the store does not hold yet is appended.
func (s *Store[T]) CommitUpdate(ctx context.Context, e T) (T, error) {
	var zero T
	if e.Identifier() == "" {
		return zero, apperrors.ErrMissingIdentifier
	}
	if err := s.acquire(OpUpdate); err != nil {
		return zero, err
	}
	defer s.release()

	updated, err := s.remote.Update(ctx, e)
	if err != nil {
		return zero, errors.Wrapf(err, "update %s %s", s.kind, e.Identifier())
	}
	id := updated.Identifier()
	if id == "" {
		// some servers answer an update with a bare acknowledgement
		updated, id = e, e.Identifier()
	}

	s.mu.Lock()
	replaced := false
	for i, it := range s.items {
		if it.Identifier() == id {
			s.items[i] = updated
			replaced = true
			break
		}
	}
	if !replaced {
		s.items = append(s.items, updated)
	}
	s.mu.Unlock()

	s.publish(Change{Kind: s.kind, Op: OpUpdate, ID: id})
	return updated, nil
}

// CommitDelete removes id remotely, then locally.
func (s *Store[T]) CommitDelete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.ErrMissingIdentifier
	}
	if err := s.acquire(OpDelete); err != nil {
		return err
	}
	defer s.release()

	if err := s.remote.Delete(ctx, id); err != nil {
		return errors.Wrapf(err, "delete %s %s", s.kind, id)
	}

	s.mu.Lock()
	next := s.items[:0:0]
	for _, it := range s.items {
		if it.Identifier() != id {
			next = append(next, it)
		}
	}
	s.items = next
	s.mu.Unlock()

	s.publish(Change{Kind: s.kind, Op: OpDelete, ID: id})
	return nil
}

func (s *Store[T]) publish(c Change) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ChangedTopic(s.kind), c)
}

// Items returns a copy of the collection in display order.
func (s *Store[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.Identifier() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store[T]) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Busy reports whether an operation currently holds the in-flight slot.
func (s *Store[T]) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight != ""
}

// LastFetch is the time of the last successful refresh, zero if none.
func (s *Store[T]) LastFetch() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastFetch
}

// ShowFullSpinner is true while the first load is running on an empty collection.
func (s *Store[T]) ShowFullSpinner() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading && len(s.items) == 0
}
