// Package form implements the create/edit lifecycle of one catalog entity.
package form

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"inventory-catalog/internal/apperrors"
	"inventory-catalog/internal/models"
)

type State int

const (
	StateEmpty State = iota
	StateEditing
	StateValidating
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateEditing:
		return "editing"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Draft is the raw, unvalidated content of a form.
type Draft struct {
	Values map[string]string
	Image  models.Image
}

func (d Draft) get(field string) string { return d.Values[field] }

// Schema turns drafts into entities of one kind.
type Schema[T models.Entity] interface {
	Fields() []string
	// Seed renders an existing entity as editable text.
	Seed(e T) Draft
	// Build validates d and returns the entity to submit. Identity and
	// server-owned fields are carried over from seed. The first failing rule
	// is returned as a *apperrors.ValidationError.
	Build(d Draft, seed T) (T, error)
}

// Committer persists a built entity. *store.Store satisfies it.
type Committer[T models.Entity] interface {
	CommitCreate(ctx context.Context, e T) (T, error)
	CommitUpdate(ctx context.Context, e T) (T, error)
}

// Session is the state machine behind one open form.
type Session[T models.Entity] struct {
	id        string
	schema    Schema[T]
	committer Committer[T]
	seed      T

	mu      sync.Mutex
	state   State
	draft   Draft
	lastErr error
	result  T
}

// NewSession starts an add session when seed is nil and an edit session
// otherwise.
func NewSession[T models.Entity](schema Schema[T], committer Committer[T], seed *T) *Session[T] {
	s := &Session[T]{
		id:        uuid.NewString(),
		schema:    schema,
		committer: committer,
		state:     StateEmpty,
		draft:     Draft{Values: map[string]string{}},
	}
	if seed != nil {
		s.seed = *seed
		s.draft = schema.Seed(*seed)
		if s.draft.Values == nil {
			s.draft.Values = map[string]string{}
		}
		s.state = StateEditing
	}
	return s
}

func (s *Session[T]) ID() string { return s.id }

// IsEdit reports whether the session was seeded with a stored entity.
func (s *Session[T]) IsEdit() bool { return s.seed.Identifier() != "" }

func (s *Session[T]) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err is the message of the last failed validation or submission.
func (s *Session[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Result is the committed entity once the session succeeded.
func (s *Session[T]) Result() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, s.state == StateSucceeded
}

func (s *Session[T]) Value(field string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Values[field]
}

func (s *Session[T]) Image() models.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Image
}

// beginEdit must be called with mu held.
func (s *Session[T]) beginEdit() error {
	switch s.state {
	case StateSucceeded:
		return apperrors.ErrSessionClosed
	case StateSubmitting, StateValidating:
		return apperrors.ErrBusy
	}
	s.state = StateEditing
	return nil
}

// Set changes one field.
func (s *Session[T]) Set(field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.beginEdit(); err != nil {
		return err
	}
	s.draft.Values[field] = value
	return nil
}

// SetImage attaches img, replacing any previous image.
func (s *Session[T]) SetImage(img models.Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.beginEdit(); err != nil {
		return err
	}
	s.draft.Image = img
	return nil
}

// Submit validates the draft and commits it. A validation failure returns the
// session to Editing without any network call; a commit failure moves it to
// Failed with the draft intact.
func (s *Session[T]) Submit(ctx context.Context) (T, error) {
	var zero T

	s.mu.Lock()
	switch s.state {
	case StateSucceeded:
		s.mu.Unlock()
		return zero, apperrors.ErrSessionClosed
	case StateSubmitting, StateValidating:
		s.mu.Unlock()
		return zero, apperrors.ErrBusy
	}
	s.state = StateValidating
	draft := Draft{Values: make(map[string]string, len(s.draft.Values)), Image: s.draft.Image}
	for k, v := range s.draft.Values {
		draft.Values[k] = v
	}
	s.mu.Unlock()

	entity, err := s.schema.Build(draft, s.seed)
	if err != nil {
		s.mu.Lock()
		s.state = StateEditing
		s.lastErr = err
		s.mu.Unlock()
		return zero, err
	}

	s.mu.Lock()
	s.state = StateSubmitting
	s.mu.Unlock()

	var committed T
	if s.IsEdit() {
		committed, err = s.committer.CommitUpdate(ctx, entity)
	} else {
		committed, err = s.committer.CommitCreate(ctx, entity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		zap.S().Warnw("form_submit_failed", "session", s.id, "kind", entity.EntityKind(), "error", err)
		s.state = StateFailed
		s.lastErr = err
		return zero, err
	}
	zap.S().Infow("form_submitted", "session", s.id, "kind", entity.EntityKind(), "id", committed.Identifier())
	s.state = StateSucceeded
	s.lastErr = nil
	s.result = committed
	return committed, nil
}
