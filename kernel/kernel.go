// Package kernel drives a flow graph's Root Node through repeated ticks,
// owning the TimeFrame clock and the break/wait gates that let a running
// flow graph or an external caller pause or halt the drive loop.
package kernel

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cschladetsch/asyncflow-go/flow"
	"github.com/cschladetsch/asyncflow-go/timeframe"
)

// tickQuantum is the sleep between ticks while polling for wait/break state
// or for the tree to make progress, matching the poll cadence of the
// original design's drive loops.
const tickQuantum = time.Millisecond

// Option configures a Kernel at construction time.
type Option func(*Kernel)

// WithLogger overrides the Kernel's diagnostic logger, and is propagated to
// the Root node.
func WithLogger(logger *slog.Logger) Option {
	return func(k *Kernel) { k.logger = logger }
}

// WithTickQuantum overrides the poll interval used while waiting for the
// wait-gate to clear or for the tree to make progress. Mainly useful for
// tests that want a tighter loop than the default millisecond quantum.
func WithTickQuantum(d time.Duration) Option {
	return func(k *Kernel) { k.quantum = d }
}

// WithObserver attaches an Observer notified once per completed tick. Only
// one Observer may be attached; a later WithObserver replaces an earlier
// one.
func WithObserver(obs Observer) Option {
	return func(k *Kernel) { k.observer = obs }
}

// Observer receives a callback once per tick, after the Root node has been
// stepped. Implementations must not block or panic; a panicking Observer
// faults the Kernel, whereas a panic inside a child Generator's step is
// logged and recovered by its parent without faulting it.
type Observer interface {
	OnTick(seq int64, tf timeframe.TimeFrame)
}

// Kernel owns a Root Node and drives it forward one tick at a time. It is
// the single point of contact between a flow graph and wall-clock time (or
// a caller-supplied synthetic delta).
type Kernel struct {
	mu        sync.RWMutex
	root      *flow.Node
	tf        timeframe.TimeFrame
	breaking  bool
	waitUntil time.Time
	waiting   bool
	faulted   bool
	logger    *slog.Logger
	quantum   time.Duration
	observer  Observer
	tickSeq   int64
}

// New returns a Kernel with a fresh, Inactive Root node.
func New(opts ...Option) *Kernel {
	k := &Kernel{
		root:    flow.NewNode("Root"),
		tf:      timeframe.New(),
		logger:  slog.Default().With("component", "kernel"),
		quantum: tickQuantum,
	}
	for _, opt := range opts {
		opt(k)
	}
	k.root.SetLogger(k.logger.With("node", "Root"))
	return k
}

// Root returns the Kernel's Root node, the attachment point for every
// Generator the caller wants driven.
func (k *Kernel) Root() *flow.Node {
	return k.root
}

// TimeFrame returns a snapshot of the current clock state.
func (k *Kernel) TimeFrame() timeframe.TimeFrame {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.tf
}

// BreakFlow requests that any in-progress or future Run* call return as
// soon as it next checks, without waiting for the tree to drain.
func (k *Kernel) BreakFlow() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.breaking = true
}

// IsBreaking reports whether BreakFlow has been called since the last
// ClearBreak.
func (k *Kernel) IsBreaking() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.breaking
}

// ClearBreak resets the break gate so the Kernel can be driven again after
// a BreakFlow-terminated run.
func (k *Kernel) ClearBreak() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.breaking = false
}

// Wait suspends ticking for duration: Run* calls keep polling but skip
// stepping the tree until the wait elapses.
func (k *Kernel) Wait(duration time.Duration) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.waitUntil = time.Now().Add(duration)
	k.waiting = true
}

// IsWaiting reports whether the Kernel is currently within a Wait period.
func (k *Kernel) IsWaiting() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.waiting && time.Now().Before(k.waitUntil)
}

// ClearWait cancels any in-progress Wait immediately.
func (k *Kernel) ClearWait() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.waiting = false
}

// IsFaulted reports whether a previous tick panicked. A faulted Kernel
// refuses all further Run* and Step calls.
func (k *Kernel) IsFaulted() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.faulted
}

// Step advances the clock to the current wall-clock instant and steps the
// Root node exactly once. A panic escaping the Root's step marks the
// Kernel faulted rather than propagating past the caller uncontrolled.
func (k *Kernel) Step() (err error) {
	defer func() {
		if r := recover(); r != nil {
			k.mu.Lock()
			k.faulted = true
			k.mu.Unlock()
			err = fmt.Errorf("kernel: tick panicked: %v: %w", r, flow.ErrKernelFault)
		}
	}()

	if k.IsFaulted() {
		return flow.ErrKernelFault
	}

	k.mu.Lock()
	k.tf.Update()
	tf := k.tf
	k.mu.Unlock()

	if err := k.root.Step(tf); err != nil {
		return err
	}
	k.root.ClearCompleted()
	k.notifyObserver(tf)
	return nil
}

// Update advances the clock by an explicit delta rather than sampling the
// wall clock, and steps the Root node once. Used by callers driving the
// Kernel with a synthetic or scaled clock.
func (k *Kernel) Update(delta time.Duration) (err error) {
	defer func() {
		if r := recover(); r != nil {
			k.mu.Lock()
			k.faulted = true
			k.mu.Unlock()
			err = fmt.Errorf("kernel: tick panicked: %v: %w", r, flow.ErrKernelFault)
		}
	}()

	if k.IsFaulted() {
		return flow.ErrKernelFault
	}

	k.mu.Lock()
	k.tf.UpdateWithDelta(delta)
	tf := k.tf
	k.mu.Unlock()

	if err := k.root.Step(tf); err != nil {
		return err
	}
	k.root.ClearCompleted()
	k.notifyObserver(tf)
	return nil
}

// notifyObserver invokes the attached Observer, if any, recovering from a
// panic by marking the Kernel faulted and logging it.
func (k *Kernel) notifyObserver(tf timeframe.TimeFrame) {
	if k.observer == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			k.mu.Lock()
			k.faulted = true
			k.mu.Unlock()
			k.logger.Error("observer panicked, kernel faulted", "panic", r)
		}
	}()
	k.mu.Lock()
	k.tickSeq++
	seq := k.tickSeq
	k.mu.Unlock()
	k.observer.OnTick(seq, tf)
}

// sleepQuantum sleeps for the Kernel's poll quantum or until ctx is done,
// whichever comes first.
func (k *Kernel) sleepQuantum(ctx context.Context) error {
	timer := time.NewTimer(k.quantum)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunUntilComplete drives the Kernel with the real wall clock until the
// Root node has no remaining children, BreakFlow is called, the Kernel
// faults, or ctx is cancelled. It returns nil on a clean drain,
// flow.ErrKernelBroken if BreakFlow ended the run, or the triggering error
// otherwise.
func (k *Kernel) RunUntilComplete(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if k.IsBreaking() {
			return flow.ErrKernelBroken
		}
		if k.IsFaulted() {
			return flow.ErrKernelFault
		}

		if k.IsWaiting() {
			if err := k.sleepQuantum(ctx); err != nil {
				return err
			}
			continue
		}

		if err := k.Step(); err != nil {
			return err
		}

		if k.root.ChildrenCount() == 0 {
			return nil
		}

		if err := k.sleepQuantum(ctx); err != nil {
			return err
		}
	}
}

// RunFor drives the Kernel with the real wall clock for at most duration,
// or until BreakFlow, a fault, or ctx cancellation ends it sooner.
func (k *Kernel) RunFor(ctx context.Context, duration time.Duration) error {
	return k.RunUntil(ctx, time.Now().Add(duration))
}

// RunUntil drives the Kernel with the real wall clock until the given
// instant, or until BreakFlow, a fault, or ctx cancellation ends it sooner.
func (k *Kernel) RunUntil(ctx context.Context, instant time.Time) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if k.IsBreaking() {
			return flow.ErrKernelBroken
		}
		if k.IsFaulted() {
			return flow.ErrKernelFault
		}
		if !time.Now().Before(instant) {
			return nil
		}

		if k.IsWaiting() {
			if err := k.sleepQuantum(ctx); err != nil {
				return err
			}
			continue
		}

		if err := k.Step(); err != nil {
			return err
		}

		if err := k.sleepQuantum(ctx); err != nil {
			return err
		}
	}
}
