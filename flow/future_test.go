package flow

import (
	"context"
	"testing"
	"time"

	"github.com/cschladetsch/asyncflow-go/timeframe"
)

func TestFuture_SetValueAndStep(t *testing.T) {
	f := NewFuture[int]("f")
	tf := timeframe.New()

	f.Step(tf) // activate
	f.Step(tf) // no value yet
	if f.IsTerminal() {
		t.Fatal("future should not complete before a value is set")
	}

	if !f.SetValue(42) {
		t.Fatal("first SetValue should succeed")
	}
	f.Step(tf)
	if !f.IsCompleted() {
		t.Fatalf("future state = %v, want Completed", f.State())
	}

	v, ok := f.Value()
	if !ok || v != 42 {
		t.Fatalf("Value() = (%v, %v), want (42, true)", v, ok)
	}
}

func TestFuture_SecondSetValueIsSilentNoOp(t *testing.T) {
	f := NewFuture[string]("f")

	if !f.SetValue("first") {
		t.Fatal("first SetValue should succeed")
	}
	if f.SetValue("second") {
		t.Fatal("second SetValue should report failure (no-op)")
	}

	v, ok := f.Value()
	if !ok || v != "first" {
		t.Fatalf("Value() = (%q, %v), want (\"first\", true) — second set must not overwrite", v, ok)
	}
}

func TestFuture_WaitBlocksUntilSet(t *testing.T) {
	f := NewFuture[int]("f")
	done := make(chan int, 1)

	go func() {
		v, err := f.Wait(context.Background())
		if err != nil {
			t.Errorf("Wait returned error: %v", err)
		}
		done <- v
	}()

	time.Sleep(5 * time.Millisecond)
	f.SetValue(7)

	select {
	case v := <-done:
		if v != 7 {
			t.Fatalf("Wait returned %d, want 7", v)
		}
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after SetValue")
	}
}

func TestFuture_WaitRespectsContextCancellation(t *testing.T) {
	f := NewFuture[int]("f")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	_, err := f.Wait(ctx)
	if err == nil {
		t.Fatal("Wait should return an error when context expires before a value is set")
	}
}
