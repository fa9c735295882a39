package flow

import (
	"testing"

	"github.com/cschladetsch/asyncflow-go/timeframe"
)

func TestNode_StepsAllChildrenEachTick(t *testing.T) {
	n := NewNode("root")
	var aTicks, bTicks int

	a := NewSyncCoroutine("a", func() (StepResult, error) { aTicks++; return StepContinue, nil })
	b := NewSyncCoroutine("b", func() (StepResult, error) { bTicks++; return StepContinue, nil })
	n.AddChild(a)
	n.AddChild(b)

	tf := timeframe.New()
	n.Step(tf) // activates node, no children stepped
	n.Step(tf) // activates a and b
	n.Step(tf)
	n.Step(tf)

	if aTicks != 2 || bTicks != 2 {
		t.Fatalf("aTicks=%d bTicks=%d, want 2 and 2", aTicks, bTicks)
	}
}

func TestNode_NeverSelfCompletes(t *testing.T) {
	n := NewNode("root")
	tf := timeframe.New()
	for i := 0; i < 5; i++ {
		n.Step(tf)
	}
	if n.IsTerminal() {
		t.Fatal("an empty Node should never self-complete")
	}
}

func TestNode_SkipsTerminalChildren(t *testing.T) {
	n := NewNode("root")
	var ticks int
	c := NewSyncCoroutine("c", func() (StepResult, error) { ticks++; return StepDone, nil })
	n.AddChild(c)

	tf := timeframe.New()
	n.Step(tf) // activate node
	n.Step(tf) // activate c
	n.Step(tf) // c runs once and completes
	n.Step(tf) // c terminal, skipped

	if ticks != 1 {
		t.Fatalf("ticks = %d, want 1 (child stepped once then skipped)", ticks)
	}
	if !c.IsCompleted() {
		t.Fatal("child should have completed")
	}
}

func TestNode_RemoveChild(t *testing.T) {
	n := NewNode("root")
	c := NewNode("child")
	n.AddChild(c)

	if n.ChildrenCount() != 1 {
		t.Fatalf("ChildrenCount = %d, want 1", n.ChildrenCount())
	}
	if !n.RemoveChild(c.ID()) {
		t.Fatal("RemoveChild should succeed for a present child")
	}
	if n.ChildrenCount() != 0 {
		t.Fatalf("ChildrenCount after remove = %d, want 0", n.ChildrenCount())
	}
}
