package flow

import "github.com/cschladetsch/asyncflow-go/timeframe"

// Trigger is an edge-triggered watcher: each step it evaluates a condition
// function, and the first time that condition reports true it fires its
// callback exactly once, latches, and completes. It never fires a second
// time even if the condition later flips back to false and true again.
type Trigger struct {
	GeneratorBase
	condition func() bool
	onTrigger func()
	fired     bool
}

// NewTrigger returns an Inactive Trigger that fires once condition first
// reports true.
func NewTrigger(name string, condition func() bool) *Trigger {
	return &Trigger{GeneratorBase: newGeneratorBase(name), condition: condition}
}

// Named sets the trigger's display name and returns it for chaining.
func (t *Trigger) Named(name string) *Trigger {
	t.setName(name)
	return t
}

// SetTriggeredCallback installs the callback invoked exactly once, the
// first tick the condition reports true.
func (t *Trigger) SetTriggeredCallback(fn func()) *Trigger {
	t.onTrigger = fn
	return t
}

// IsTriggered reports whether the condition has fired.
func (t *Trigger) IsTriggered() bool {
	return t.fired
}

// Step activates the trigger on its first call. Every subsequent step
// evaluates the condition (with panic recovery, failing the trigger rather
// than the tick loop) until it reports true, at which point the trigger
// fires its callback, latches, and completes.
func (t *Trigger) Step(tf timeframe.TimeFrame) error {
	_ = tf
	if !t.beginStep() {
		return nil
	}

	if t.fired {
		return nil
	}

	if t.condition == nil {
		return nil
	}

	result, ok := protectCondition(&t.GeneratorBase, t.condition)
	if !ok {
		return nil
	}
	if !result {
		return nil
	}

	t.fired = true
	protectCallback(&t.GeneratorBase, t.onTrigger)
	if !t.IsFailed() {
		t.Complete()
	}
	return nil
}
