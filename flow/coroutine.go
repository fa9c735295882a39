package flow

import (
	"context"
	"fmt"

	"github.com/cschladetsch/asyncflow-go/timeframe"
)

// StepResult is the outcome a SyncCoroutine step function reports each time
// it is called.
type StepResult int

const (
	// StepContinue means the step function made progress but is not done;
	// it will be called again on the next tick.
	StepContinue StepResult = iota
	// StepDone means the step function has finished successfully.
	StepDone
	// StepFailed means the step function encountered an error it cannot
	// recover from.
	StepFailed
)

// SyncCoroutine wraps a non-blocking step function so it participates in
// the flow graph as a leaf Generator, called once per tick until it
// reports StepDone or StepFailed.
type SyncCoroutine struct {
	GeneratorBase
	stepFn func() (StepResult, error)
}

// NewSyncCoroutine returns an Inactive SyncCoroutine driven by stepFn.
func NewSyncCoroutine(name string, stepFn func() (StepResult, error)) *SyncCoroutine {
	return &SyncCoroutine{GeneratorBase: newGeneratorBase(name), stepFn: stepFn}
}

// Named sets the coroutine's display name and returns it for chaining.
func (s *SyncCoroutine) Named(name string) *SyncCoroutine {
	s.setName(name)
	return s
}

// Step activates the coroutine on its first call, then invokes stepFn once
// per tick with panic recovery, completing or failing according to its
// result.
func (s *SyncCoroutine) Step(tf timeframe.TimeFrame) error {
	_ = tf
	if !s.beginStep() {
		return nil
	}
	if s.stepFn == nil {
		s.Complete()
		return nil
	}

	res, err, ok := protectStepFn(&s.GeneratorBase, s.stepFn)
	if !ok {
		return nil
	}

	switch res {
	case StepDone:
		s.Complete()
	case StepFailed:
		s.Fail(&CoroutineFailedError{Cause: err})
	case StepContinue:
	}
	return nil
}

// AsyncCoroutine wraps a goroutine-backed computation so it participates in
// the flow graph as a leaf Generator. The work function is launched on
// construction, mirroring the original design's spawn-then-poll model, and
// runs concurrently with the tick loop; Step merely polls for its outcome
// without blocking. A failed computation transitions the coroutine to
// Failed rather than silently completing.
type AsyncCoroutine struct {
	GeneratorBase
	cancel context.CancelFunc
	done   chan error
}

// NewAsyncCoroutine launches work in its own goroutine, bound to a context
// that CancelWork (or removal from a container) cancels.
func NewAsyncCoroutine(name string, work func(ctx context.Context) error) *AsyncCoroutine {
	ctx, cancel := context.WithCancel(context.Background())
	a := &AsyncCoroutine{
		GeneratorBase: newGeneratorBase(name),
		cancel:        cancel,
		done:          make(chan error, 1),
	}
	go a.run(ctx, work)
	return a
}

func (a *AsyncCoroutine) run(ctx context.Context, work func(context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			a.done <- fmt.Errorf("flow: async coroutine panicked: %v", r)
		}
	}()
	a.done <- work(ctx)
}

// Named sets the coroutine's display name and returns it for chaining.
func (a *AsyncCoroutine) Named(name string) *AsyncCoroutine {
	a.setName(name)
	return a
}

// CancelWork cancels the context passed to the wrapped work function. It
// does not itself transition the coroutine's state; the next Step observes
// whatever error the cancelled work function returns.
func (a *AsyncCoroutine) CancelWork() {
	a.cancel()
}

// Step activates the coroutine on its first call, then polls, without
// blocking, for the wrapped goroutine's completion.
func (a *AsyncCoroutine) Step(tf timeframe.TimeFrame) error {
	_ = tf
	if !a.beginStep() {
		return nil
	}

	select {
	case err := <-a.done:
		if err != nil {
			a.Fail(&CoroutineFailedError{Cause: err})
		} else {
			a.Complete()
		}
	default:
	}
	return nil
}
