// Package factory provides convenience constructors for the flow package's
// Generator types, so callers can build a graph without importing flow's
// full type set directly.
package factory

import (
	"context"
	"time"

	"github.com/cschladetsch/asyncflow-go/flow"
)

func NewNode(name string) *flow.Node {
	return flow.NewNode(name)
}

func NewSequence(name string) *flow.Sequence {
	return flow.NewSequence(name)
}

func NewBarrier(name string) *flow.Barrier {
	return flow.NewBarrier(name)
}

func NewTimer(name string, duration time.Duration) *flow.Timer {
	return flow.NewTimer(name, duration)
}

func NewPeriodicTimer(name string, interval time.Duration) *flow.PeriodicTimer {
	return flow.NewPeriodicTimer(name, interval)
}

func NewTrigger(name string, condition func() bool) *flow.Trigger {
	return flow.NewTrigger(name, condition)
}

func NewSyncCoroutine(name string, stepFn func() (flow.StepResult, error)) *flow.SyncCoroutine {
	return flow.NewSyncCoroutine(name, stepFn)
}

func NewAsyncCoroutine(name string, work func(ctx context.Context) error) *flow.AsyncCoroutine {
	return flow.NewAsyncCoroutine(name, work)
}

func NewBoundedAsyncCoroutine(name string, sem *flow.Semaphore, work func(ctx context.Context) error) *flow.AsyncCoroutine {
	return flow.NewBoundedAsyncCoroutine(name, sem, work)
}

// NewFuture returns a new single-assignment Future[T]. Named as a function
// rather than a method since Go does not allow generic methods on
// non-generic receivers to be forwarded any more concisely.
func NewFuture[T any](name string) *flow.Future[T] {
	return flow.NewFuture[T](name)
}
