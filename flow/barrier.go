package flow

import (
	"github.com/google/uuid"

	"github.com/cschladetsch/asyncflow-go/timeframe"
)

// Barrier is a concurrent composite: every non-terminal child is stepped
// each tick, and the Barrier completes once every child it currently holds
// has reached a terminal state — provided at least one child was ever
// added. A Barrier with no children (yet, or ever) remains Active
// indefinitely; it does not complete by default the way an empty Sequence
// does. A failed child counts as terminal for this purpose: it does not
// fail the Barrier, and is not bubbled up to it.
type Barrier struct {
	GeneratorBase
	container
	everHadChild bool
}

// NewBarrier returns an Inactive Barrier with the given name.
func NewBarrier(name string) *Barrier {
	return &Barrier{GeneratorBase: newGeneratorBase(name)}
}

// Named sets the barrier's display name and returns it for chaining.
func (b *Barrier) Named(name string) *Barrier {
	b.setName(name)
	return b
}

// AddChild admits g into the barrier's wait set.
func (b *Barrier) AddChild(g Generator) {
	b.addChild(g)
	b.container.mu.Lock()
	b.everHadChild = true
	b.container.mu.Unlock()
}

// RemoveChild removes the child with the given id, cancelling its work if
// it implements Cancellable.
func (b *Barrier) RemoveChild(id uuid.UUID) bool {
	return b.removeChild(id)
}

// Children returns a snapshot of the current child set.
func (b *Barrier) Children() []Generator {
	return b.snapshot()
}

// ChildrenCount reports the number of children currently held.
func (b *Barrier) ChildrenCount() int {
	return b.count()
}

// Step activates the barrier on its first call, then steps every
// non-terminal child. It completes only once at least one child has ever
// been added and every currently-held child has reached a terminal state,
// regardless of whether any of them failed.
func (b *Barrier) Step(tf timeframe.TimeFrame) error {
	if !b.beginStep() {
		return nil
	}

	children := b.snapshot()
	logger := b.Logger()

	for _, child := range children {
		if child.IsTerminal() {
			continue
		}
		stepChildSafely(logger, child, tf)
	}

	b.container.mu.RLock()
	everHadChild := b.everHadChild
	b.container.mu.RUnlock()
	if !everHadChild {
		return nil
	}

	allTerminal := true
	for _, child := range children {
		if !child.IsTerminal() {
			allTerminal = false
			break
		}
	}

	if len(children) > 0 && allTerminal {
		b.Complete()
	}
	return nil
}
