package flow

import (
	"testing"

	"github.com/cschladetsch/asyncflow-go/timeframe"
)

func TestTrigger_FiresOnceConditionBecomesTrue(t *testing.T) {
	ready := false
	fireCount := 0
	trig := NewTrigger("t", func() bool { return ready })
	trig.SetTriggeredCallback(func() { fireCount++ })

	tf := timeframe.New()
	trig.Step(tf) // activate
	trig.Step(tf) // condition false, no fire

	if fireCount != 0 || trig.IsTriggered() {
		t.Fatal("trigger should not fire while condition is false")
	}

	ready = true
	trig.Step(tf)

	if fireCount != 1 || !trig.IsTriggered() {
		t.Fatal("trigger should fire once condition becomes true")
	}
	if !trig.IsCompleted() {
		t.Fatalf("trigger state = %v, want Completed", trig.State())
	}
}

func TestTrigger_LatchesEvenIfConditionFlipsBack(t *testing.T) {
	ready := true
	fireCount := 0
	trig := NewTrigger("t", func() bool { return ready })
	trig.SetTriggeredCallback(func() { fireCount++ })

	tf := timeframe.New()
	trig.Step(tf) // activate
	trig.Step(tf) // fires

	ready = false
	trig.Step(tf) // terminal already, no-op

	if fireCount != 1 {
		t.Fatalf("fireCount = %d, want exactly 1", fireCount)
	}
}

func TestTrigger_PanicInConditionFailsTrigger(t *testing.T) {
	trig := NewTrigger("t", func() bool { panic("boom") })

	tf := timeframe.New()
	trig.Step(tf)
	trig.Step(tf)

	if !trig.IsFailed() {
		t.Fatalf("trigger state = %v, want Failed after panicking condition", trig.State())
	}
}
