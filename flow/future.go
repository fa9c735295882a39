package flow

import (
	"context"
	"sync"

	"github.com/cschladetsch/asyncflow-go/timeframe"
)

// Future is a single-assignment value cell that participates in the flow
// graph as a Generator: it completes on the first tick after its value has
// been set. A second SetValue call is a silent no-op — the first writer
// wins.
type Future[T any] struct {
	GeneratorBase
	mu    sync.Mutex
	value T
	isSet bool
	ready chan struct{}
}

// NewFuture returns an Inactive Future with no value set.
func NewFuture[T any](name string) *Future[T] {
	return &Future[T]{GeneratorBase: newGeneratorBase(name), ready: make(chan struct{})}
}

// Named sets the future's display name and returns it for chaining.
func (f *Future[T]) Named(name string) *Future[T] {
	f.setName(name)
	return f
}

// SetValue assigns v if no value has been set yet, and reports whether the
// assignment took effect. Later calls after the first are silent no-ops.
func (f *Future[T]) SetValue(v T) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.isSet {
		return false
	}
	f.value = v
	f.isSet = true
	close(f.ready)
	return true
}

// IsSet reports whether a value has been assigned.
func (f *Future[T]) IsSet() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.isSet
}

// Value returns the assigned value and true, or the zero value and false if
// none has been set yet.
func (f *Future[T]) Value() (T, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.isSet
}

// Wait blocks until a value has been set or ctx is done, whichever comes
// first.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.ready:
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.value, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Step activates the future on its first call. It completes on the first
// step after a value has been assigned, whether that assignment happened
// via SetValue from another goroutine or synchronously within the flow
// graph.
func (f *Future[T]) Step(tf timeframe.TimeFrame) error {
	_ = tf
	if !f.beginStep() {
		return nil
	}
	if f.IsSet() {
		f.Complete()
	}
	return nil
}
