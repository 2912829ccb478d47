package search

import (
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"go.uber.org/zap"

	"inventory-catalog/internal/models"
)

// Source yields the current collection snapshot.
type Source[T models.Entity] interface {
	Items() []T
}

// Index is the filtered view of a Source. It recomputes once per applied query
// and once per Invalidate, never per keystroke.
type Index[T models.Entity] struct {
	source        Source[T]
	caseSensitive bool
	debouncer     *Debouncer

	mu         sync.Mutex
	results    []T
	recomputes int
	listeners  []func([]T)

	bus     EventBus.Bus
	topic   string
	handler func(any)
}

func NewIndex[T models.Entity](source Source[T], delay time.Duration, caseSensitive bool, after AfterFunc) *Index[T] {
	ix := &Index[T]{source: source, caseSensitive: caseSensitive}
	ix.debouncer = NewDebouncer(delay, func(string) { ix.recompute() }, after)
	ix.recompute()
	return ix
}

// SetQuery feeds one keystroke's worth of raw input.
func (ix *Index[T]) SetQuery(raw string) { ix.debouncer.Set(raw) }

func (ix *Index[T]) Pending() string { return ix.debouncer.Pending() }
func (ix *Index[T]) Applied() string { return ix.debouncer.Applied() }

// OnChange registers fn to receive every recomputed result set.
func (ix *Index[T]) OnChange(fn func([]T)) {
	ix.mu.Lock()
	ix.listeners = append(ix.listeners, fn)
	ix.mu.Unlock()
}

// Invalidate recomputes the results against the current snapshot without
// touching the query.
func (ix *Index[T]) Invalidate() { ix.recompute() }

// Watch invalidates the index whenever something is published on topic.
func (ix *Index[T]) Watch(bus EventBus.Bus, topic string) error {
	handler := func(any) { ix.Invalidate() }
	if err := bus.Subscribe(topic, handler); err != nil {
		return err
	}
	ix.bus, ix.topic, ix.handler = bus, topic, handler
	return nil
}

func (ix *Index[T]) recompute() {
	results := Filter(ix.source.Items(), ix.debouncer.Applied(), ix.caseSensitive)

	ix.mu.Lock()
	ix.results = results
	ix.recomputes++
	listeners := append([]func([]T){}, ix.listeners...)
	ix.mu.Unlock()

	zap.S().Debugw("search_recomputed", "query", ix.debouncer.Applied(), "results", len(results))
	for _, fn := range listeners {
		fn(results)
	}
}

// Results returns a copy of the current result set.
func (ix *Index[T]) Results() []T {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	out := make([]T, len(ix.results))
	copy(out, ix.results)
	return out
}

// Recomputes counts how many times the result set was rebuilt.
func (ix *Index[T]) Recomputes() int {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.recomputes
}

// Close stops the debouncer and detaches from the bus.
func (ix *Index[T]) Close() {
	ix.debouncer.Stop()
	if ix.bus != nil {
		_ = ix.bus.Unsubscribe(ix.topic, ix.handler)
		ix.bus = nil
	}
}
