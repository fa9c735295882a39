package timeframe

import (
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	tf := New()
	if tf.Now != tf.Last {
		t.Errorf("New() should start with Now == Last")
	}
	if tf.Delta != 0 {
		t.Errorf("New() should start with a zero delta, got %v", tf.Delta)
	}
}

func TestUpdate_MonotonicallyAdvances(t *testing.T) {
	tf := New()
	prev := tf.Now
	time.Sleep(2 * time.Millisecond)
	tf.Update()

	if !tf.Now.After(prev) {
		t.Errorf("Update() should move Now forward, prev=%v now=%v", prev, tf.Now)
	}
	if tf.Last != prev {
		t.Errorf("Update() should set Last to the previous Now")
	}
	if tf.Delta < 0 {
		t.Errorf("Update() produced a negative delta: %v", tf.Delta)
	}
}

func TestUpdateWithDelta(t *testing.T) {
	tf := New()
	start := tf.Now

	tf.UpdateWithDelta(500 * time.Millisecond)

	if tf.Last != start {
		t.Errorf("UpdateWithDelta should set Last to the prior Now")
	}
	if tf.Delta != 500*time.Millisecond {
		t.Errorf("UpdateWithDelta delta = %v, want 500ms", tf.Delta)
	}
	if !tf.Now.Equal(start.Add(500 * time.Millisecond)) {
		t.Errorf("UpdateWithDelta should advance Now by the delta")
	}
}

func TestUpdateWithDelta_Sequence(t *testing.T) {
	tf := New()
	for i := 0; i < 5; i++ {
		tf.UpdateWithDelta(10 * time.Millisecond)
	}
	if tf.Delta != 10*time.Millisecond {
		t.Errorf("final delta = %v, want 10ms", tf.Delta)
	}
}
