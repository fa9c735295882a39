// Package flow implements the cooperative flow-graph primitives: the
// Generator lifecycle, the composite nodes that define execution order, and
// the timing leaves (Timer, PeriodicTimer, Trigger, Future, coroutines).
//
// Lifecycle state (GeneratorBase), child lists (Node, Sequence, Barrier),
// and the Future value cell are guarded by mutexes, so the Kernel's tick
// loop and any goroutines backing AsyncCoroutines can observe and mutate
// them without racing. The per-type step bookkeeping (Timer and
// PeriodicTimer timestamps, the Trigger latch, the Sequence index) is not
// locked: it is read and written by Step and by accessors such as
// Timer.Remaining and Trigger.IsTriggered without synchronization. Locks
// are never held across a user-supplied callback.
package flow

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/cschladetsch/asyncflow-go/timeframe"
)

// Generator is the capability every node in a flow graph implements:
// identity, lifecycle queries and transitions, and the single Step
// operation that advances it by one quantum of progress.
type Generator interface {
	ID() uuid.UUID
	Name() string
	IsActive() bool
	IsRunning() bool
	IsCompleted() bool
	IsFailed() bool
	IsTerminal() bool
	FailureReason() error
	Step(tf timeframe.TimeFrame) error
	Complete()
	Fail(reason error)
	Activate()
	Pause()
	Resume()
}

// Cancellable is implemented by Generators that back a cancellable
// out-of-band computation (AsyncCoroutine). Containers call CancelWork when
// a Cancellable child is removed, signalling the wrapped work to abort.
type Cancellable interface {
	CancelWork()
}

// GeneratorBase implements the identity and lifecycle-state bookkeeping
// shared by every concrete Generator. Concrete types embed it and delegate
// their capability methods to it.
type GeneratorBase struct {
	mu      sync.RWMutex
	id      uuid.UUID
	name    string
	state   State
	paused  bool
	failure error
	logger  *slog.Logger
}

// newGeneratorBase constructs a GeneratorBase in the Inactive state with a
// fresh identity.
func newGeneratorBase(name string) GeneratorBase {
	return GeneratorBase{
		id:     uuid.New(),
		name:   name,
		state:  StateInactive,
		logger: slog.Default().With("component", "flow"),
	}
}

func (b *GeneratorBase) ID() uuid.UUID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.id
}

func (b *GeneratorBase) Name() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.name
}

// setName renames the Generator. Concrete types expose this through their
// own fluent Named(name) builder so callers keep a concretely-typed value.
func (b *GeneratorBase) setName(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.name = name
}

// SetLogger replaces the diagnostic logger, scoped by the Kernel or factory
// that owns this Generator.
func (b *GeneratorBase) SetLogger(logger *slog.Logger) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.logger = logger
}

func (b *GeneratorBase) Logger() *slog.Logger {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.logger
}

func (b *GeneratorBase) State() State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

func (b *GeneratorBase) IsActive() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state == StateActive || b.state == StateRunning
}

func (b *GeneratorBase) IsRunning() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state == StateRunning
}

func (b *GeneratorBase) IsCompleted() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state == StateCompleted
}

func (b *GeneratorBase) IsFailed() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state == StateFailed
}

func (b *GeneratorBase) IsTerminal() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state.IsTerminal()
}

// FailureReason returns the error a Failed Generator was failed with, or nil
// if it never failed.
func (b *GeneratorBase) FailureReason() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.failure
}

// Activate admits an Inactive Generator into the Active state. It is a
// no-op on any other state.
func (b *GeneratorBase) Activate() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateInactive {
		b.state = StateActive
	}
}

// Pause suppresses step effects while leaving the Generator Active.
func (b *GeneratorBase) Pause() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.paused = true
}

// Resume clears a prior Pause.
func (b *GeneratorBase) Resume() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.paused = false
}

// Complete transitions to Completed. A no-op if already terminal.
func (b *GeneratorBase) Complete() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state.IsTerminal() {
		return
	}
	b.state = StateCompleted
}

// Fail transitions to Failed, recording reason. A no-op if already terminal.
func (b *GeneratorBase) Fail(reason error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state.IsTerminal() {
		return
	}
	b.state = StateFailed
	b.failure = reason
}

// beginStep implements the pre-step gate shared by every concrete Step
// method: a step on a terminal or paused Generator is a no-op; a step on an
// Inactive Generator activates it and is otherwise a no-op for that tick;
// otherwise it marks the Generator Running and tells the caller to proceed.
func (b *GeneratorBase) beginStep() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case b.state.IsTerminal():
		return false
	case b.state == StateInactive:
		b.state = StateActive
		return false
	case b.paused:
		return false
	}

	b.state = StateRunning
	return true
}

// container is the shared child-list bookkeeping for Node, Sequence, and
// Barrier: a mutex-guarded, insertion-ordered slice of shared Generator
// references.
type container struct {
	mu       sync.RWMutex
	children []Generator
}

func (c *container) addChild(g Generator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.children = append(c.children, g)
}

func (c *container) removeChild(id uuid.UUID) bool {
	c.mu.Lock()
	var removed Generator
	for i, ch := range c.children {
		if ch.ID() == id {
			removed = ch
			c.children = append(c.children[:i], c.children[i+1:]...)
			break
		}
	}
	c.mu.Unlock()

	if removed == nil {
		return false
	}
	if cancellable, ok := removed.(Cancellable); ok {
		cancellable.CancelWork()
	}
	return true
}

func (c *container) snapshot() []Generator {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Generator, len(c.children))
	copy(out, c.children)
	return out
}

func (c *container) clearCompleted() {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.children[:0]
	for _, ch := range c.children {
		if !ch.IsTerminal() {
			kept = append(kept, ch)
		}
	}
	c.children = kept
}

func (c *container) count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.children)
}

// stepChildSafely steps a child Generator, recovering from a panic in a
// third-party implementation so one bad child never stops its siblings. A
// panic is logged and swallowed, matching the contract that a child's
// failure never propagates to its parent.
func stepChildSafely(logger *slog.Logger, child Generator, tf timeframe.TimeFrame) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("child step panicked", "child_id", child.ID(), "child_name", child.Name(), "panic", r)
		}
	}()
	if err := child.Step(tf); err != nil {
		logger.Error("child step failed", "child_id", child.ID(), "child_name", child.Name(), "error", err)
	}
}
