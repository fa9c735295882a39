package flow

import (
	"errors"
	"testing"

	"github.com/cschladetsch/asyncflow-go/timeframe"
)

func TestBarrier_EmptyStaysActiveForever(t *testing.T) {
	b := NewBarrier("b")
	tf := timeframe.New()
	for i := 0; i < 10; i++ {
		b.Step(tf)
	}
	if b.IsTerminal() {
		t.Fatal("a Barrier that never received a child must never complete")
	}
}

func TestBarrier_CompletesWhenAllChildrenTerminal(t *testing.T) {
	b := NewBarrier("b")
	a := NewSyncCoroutine("a", func() (StepResult, error) { return StepDone, nil })
	c := NewSyncCoroutine("c", func() (StepResult, error) { return StepDone, nil })
	b.AddChild(a)
	b.AddChild(c)

	tf := timeframe.New()
	for i := 0; i < 6 && !b.IsTerminal(); i++ {
		b.Step(tf)
	}

	if !b.IsCompleted() {
		t.Fatalf("barrier state = %v, want Completed", b.State())
	}
}

func TestBarrier_FailedChildCountsAsTerminalAndDoesNotFailBarrier(t *testing.T) {
	b := NewBarrier("b")
	wantErr := errors.New("child blew up")
	a := NewSyncCoroutine("a", func() (StepResult, error) { return StepDone, nil })
	bad := NewSyncCoroutine("bad", func() (StepResult, error) { return StepFailed, wantErr })
	b.AddChild(a)
	b.AddChild(bad)

	tf := timeframe.New()
	for i := 0; i < 6 && !b.IsTerminal(); i++ {
		b.Step(tf)
	}

	if !b.IsCompleted() {
		t.Fatalf("barrier state = %v, want Completed once every child is terminal, even a failed one", b.State())
	}
	if !bad.IsFailed() {
		t.Fatal("the failed child itself should still report Failed")
	}
}

func TestBarrier_StepsChildrenConcurrentlyEachTick(t *testing.T) {
	b := NewBarrier("b")
	var aTicks, cTicks int
	a := NewSyncCoroutine("a", func() (StepResult, error) { aTicks++; return StepContinue, nil })
	c := NewSyncCoroutine("c", func() (StepResult, error) { cTicks++; return StepContinue, nil })
	b.AddChild(a)
	b.AddChild(c)

	tf := timeframe.New()
	b.Step(tf) // activate
	b.Step(tf) // activates a and c
	b.Step(tf)
	b.Step(tf)

	if aTicks != 2 || cTicks != 2 {
		t.Fatalf("aTicks=%d cTicks=%d, want 2 and 2", aTicks, cTicks)
	}
}

func TestBarrier_SingleChildCompletesBarrier(t *testing.T) {
	b := NewBarrier("b")
	first := NewSyncCoroutine("first", func() (StepResult, error) { return StepDone, nil })
	b.AddChild(first)

	tf := timeframe.New()
	b.Step(tf) // activate
	b.Step(tf) // activates first
	b.Step(tf) // first completes, barrier completes (only child)

	if !b.IsCompleted() {
		t.Fatal("barrier with one completed child should complete")
	}
}
