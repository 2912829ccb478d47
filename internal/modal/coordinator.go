// Package modal decides which form session, if any, is presented.
package modal

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"inventory-catalog/internal/apperrors"
	"inventory-catalog/internal/form"
	"inventory-catalog/internal/models"
)

// Reason says why a modal was dismissed.
type Reason string

const (
	ReasonCancel    Reason = "cancel"
	ReasonSubmitted Reason = "submitted"
	ReasonBack      Reason = "back"
)

// State is either closed or open with exactly one session.
type State struct {
	Open      bool
	SessionID string
}

// Closed is the zero State.
var Closed = State{}

func (s State) String() string {
	if !s.Open {
		return "closed"
	}
	return "open(" + s.SessionID + ")"
}

// Coordinator owns at most one form session for a screen.
type Coordinator[T models.Entity] struct {
	schema    form.Schema[T]
	committer form.Committer[T]

	mu        sync.Mutex
	session   *form.Session[T]
	listeners []func(State)
}

func New[T models.Entity](schema form.Schema[T], committer form.Committer[T]) *Coordinator[T] {
	return &Coordinator[T]{schema: schema, committer: committer}
}

// OnChange registers fn to be called after every state transition.
func (c *Coordinator[T]) OnChange(fn func(State)) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// Open presents a new session, seeded from seed when editing. Any session
// already open is discarded.
func (c *Coordinator[T]) Open(seed *T) string {
	s := form.NewSession[T](c.schema, c.committer, seed)

	c.mu.Lock()
	if c.session != nil {
		zap.S().Debugw("modal_replaced", "session", c.session.ID())
	}
	c.session = s
	st := c.stateLocked()
	c.mu.Unlock()

	c.notify(st)
	return s.ID()
}

func (c *Coordinator[T]) stateLocked() State {
	if c.session == nil {
		return Closed
	}
	return State{Open: true, SessionID: c.session.ID()}
}

func (c *Coordinator[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Session is the presented session, nil when closed.
func (c *Coordinator[T]) Session() *form.Session[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Dismiss closes the modal and drops its session. It reports whether a
// session was open.
func (c *Coordinator[T]) Dismiss(reason Reason) bool {
	return c.dismiss(reason, "")
}

// dismiss closes the modal; a non-empty onlyID restricts it to that session.
func (c *Coordinator[T]) dismiss(reason Reason, onlyID string) bool {
	c.mu.Lock()
	if c.session == nil || (onlyID != "" && c.session.ID() != onlyID) {
		c.mu.Unlock()
		return false
	}
	id := c.session.ID()
	c.session = nil
	c.mu.Unlock()

	zap.S().Debugw("modal_dismissed", "session", id, "reason", reason)
	c.notify(Closed)
	return true
}

// HandleBack consumes a back press only while a session is open.
func (c *Coordinator[T]) HandleBack() bool {
	return c.Dismiss(ReasonBack)
}

// Submit submits the open session and closes the modal on success. On failure
// the modal stays open with the draft intact.
func (c *Coordinator[T]) Submit(ctx context.Context) (T, error) {
	s := c.Session()
	if s == nil {
		var zero T
		return zero, apperrors.ErrSessionClosed
	}
	result, err := s.Submit(ctx)
	if err != nil {
		return result, err
	}
	c.dismiss(ReasonSubmitted, s.ID())
	return result, nil
}

func (c *Coordinator[T]) notify(st State) {
	c.mu.Lock()
	listeners := append([]func(State){}, c.listeners...)
	c.mu.Unlock()
	for _, fn := range listeners {
		fn(st)
	}
}
