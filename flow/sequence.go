package flow

import (
	"github.com/google/uuid"

	"github.com/cschladetsch/asyncflow-go/timeframe"
)

// Sequence is an ordered composite: children run one at a time, in
// insertion order. The current child is stepped each tick; once it reaches
// a terminal state, Completed or Failed, the index advances to the next
// child on the following tick. A failed child does not abort the
// sequence — it is treated the same as a completed one for the purpose of
// advancing. A Sequence with no children, or whose children have all
// reached a terminal state, completes itself.
type Sequence struct {
	GeneratorBase
	container
	index int
}

// NewSequence returns an Inactive Sequence with the given name.
func NewSequence(name string) *Sequence {
	return &Sequence{GeneratorBase: newGeneratorBase(name)}
}

// Named sets the sequence's display name and returns it for chaining.
func (s *Sequence) Named(name string) *Sequence {
	s.setName(name)
	return s
}

// AddChild appends g to the end of the sequence's run order.
func (s *Sequence) AddChild(g Generator) {
	s.addChild(g)
}

// RemoveChild removes the child with the given id, cancelling its work if
// it implements Cancellable. Removing the currently-running child does not
// itself advance the index; the next Step will notice its absence and
// advance normally.
func (s *Sequence) RemoveChild(id uuid.UUID) bool {
	return s.removeChild(id)
}

// Children returns a snapshot of the sequence's children in run order.
func (s *Sequence) Children() []Generator {
	return s.snapshot()
}

// ChildrenCount reports the number of children currently held.
func (s *Sequence) ChildrenCount() int {
	return s.count()
}

// Step activates the sequence on its first call. On every subsequent call
// it steps the current child; once that child reaches a terminal state,
// the index advances so the next tick steps the following child,
// regardless of whether the child completed or failed. Once every child
// has been stepped through to a terminal state, the sequence completes
// itself.
func (s *Sequence) Step(tf timeframe.TimeFrame) error {
	if !s.beginStep() {
		return nil
	}

	children := s.snapshot()
	if len(children) == 0 {
		s.Complete()
		return nil
	}

	for s.index < len(children) && children[s.index].IsTerminal() {
		s.index++
	}

	if s.index >= len(children) {
		s.Complete()
		return nil
	}

	current := children[s.index]
	logger := s.Logger()
	stepChildSafely(logger, current, tf)

	if current.IsTerminal() {
		s.index++
		if s.index >= len(children) {
			s.Complete()
		}
	}
	return nil
}
