package flow

import (
	"github.com/google/uuid"

	"github.com/cschladetsch/asyncflow-go/timeframe"
)

// Node is a fan-out composite: every non-terminal child is stepped once
// per tick, in insertion order. A Node never completes on its own — a
// caller (or its own parent, via Complete) decides when it is done.
type Node struct {
	GeneratorBase
	container
}

// NewNode returns an Inactive Node with the given name.
func NewNode(name string) *Node {
	return &Node{GeneratorBase: newGeneratorBase(name)}
}

// Named sets the node's display name and returns it for chaining.
func (n *Node) Named(name string) *Node {
	n.setName(name)
	return n
}

// AddChild admits g into the node's child set. g is activated on its own
// first step, not here.
func (n *Node) AddChild(g Generator) {
	n.addChild(g)
}

// RemoveChild removes the child with the given id, cancelling its work if
// it implements Cancellable. Reports whether a child was found.
func (n *Node) RemoveChild(id uuid.UUID) bool {
	return n.removeChild(id)
}

// Children returns a snapshot of the current child set.
func (n *Node) Children() []Generator {
	return n.snapshot()
}

// ChildrenCount reports the number of children currently held.
func (n *Node) ChildrenCount() int {
	return n.count()
}

// ClearCompleted drops every terminal child, e.g. after inspecting their
// final states.
func (n *Node) ClearCompleted() {
	n.clearCompleted()
}

// Step activates the node on its first call, then steps every non-terminal
// child once. A Node never transitions itself to Completed or Failed as a
// side effect of stepping; only an explicit Complete/Fail call ends it.
func (n *Node) Step(tf timeframe.TimeFrame) error {
	if !n.beginStep() {
		return nil
	}

	logger := n.Logger()
	for _, child := range n.snapshot() {
		if child.IsTerminal() {
			continue
		}
		stepChildSafely(logger, child, tf)
	}
	return nil
}
