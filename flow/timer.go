package flow

import (
	"time"

	"github.com/cschladetsch/asyncflow-go/timeframe"
)

// Timer is a one-shot leaf: its first productive step only records the
// instant it started; every step after that compares the elapsed time
// against its duration and, once it has elapsed, fires its callback exactly
// once and completes.
type Timer struct {
	GeneratorBase
	duration  time.Duration
	started   bool
	startTime time.Time
	onElapsed func()
}

// NewTimer returns an Inactive Timer that fires once duration has elapsed
// since its first step.
func NewTimer(name string, duration time.Duration) *Timer {
	return &Timer{GeneratorBase: newGeneratorBase(name), duration: duration}
}

// Named sets the timer's display name and returns it for chaining.
func (t *Timer) Named(name string) *Timer {
	t.setName(name)
	return t
}

// SetElapsedCallback installs the callback invoked exactly once, when the
// timer's duration has elapsed. A panic inside fn fails the timer rather
// than the tick loop.
func (t *Timer) SetElapsedCallback(fn func()) *Timer {
	t.onElapsed = fn
	return t
}

// Remaining returns the duration left before the timer elapses: the full
// duration if it has not started yet, or zero if it has already elapsed.
func (t *Timer) Remaining(tf timeframe.TimeFrame) time.Duration {
	if !t.started {
		return t.duration
	}
	elapsed := tf.Now.Sub(t.startTime)
	if elapsed >= t.duration {
		return 0
	}
	return t.duration - elapsed
}

// Step activates the timer on its first call. Its first productive step
// only records the start instant; only subsequent steps check for and act
// on elapse, so a Timer never fires in the same tick it starts.
func (t *Timer) Step(tf timeframe.TimeFrame) error {
	if !t.beginStep() {
		return nil
	}

	if !t.started {
		t.started = true
		t.startTime = tf.Now
		return nil
	}

	if tf.Now.Sub(t.startTime) < t.duration {
		return nil
	}

	protectCallback(&t.GeneratorBase, t.onElapsed)
	if !t.IsFailed() {
		t.Complete()
	}
	return nil
}

// PeriodicTimer is a repeating leaf: its first productive step only
// records the instant it started; every step after that fires its callback
// once for every full interval that has elapsed since the last fire,
// catching up in a single tick if the tick's delta spans multiple
// intervals. A PeriodicTimer never completes on its own.
type PeriodicTimer struct {
	GeneratorBase
	interval time.Duration
	started  bool
	lastFire time.Time
	onFire   func()
}

// NewPeriodicTimer returns an Inactive PeriodicTimer that fires every
// interval.
func NewPeriodicTimer(name string, interval time.Duration) *PeriodicTimer {
	return &PeriodicTimer{GeneratorBase: newGeneratorBase(name), interval: interval}
}

// Named sets the periodic timer's display name and returns it for
// chaining.
func (p *PeriodicTimer) Named(name string) *PeriodicTimer {
	p.setName(name)
	return p
}

// SetFireCallback installs the callback invoked once per elapsed interval.
func (p *PeriodicTimer) SetFireCallback(fn func()) *PeriodicTimer {
	p.onFire = fn
	return p
}

// Step activates the timer on its first call. Its first productive step
// only records the start instant. Every step after that fires once for
// every full interval elapsed since the last fire, so a tick with a large
// delta triggers multiple callback invocations rather than dropping them.
func (p *PeriodicTimer) Step(tf timeframe.TimeFrame) error {
	if !p.beginStep() {
		return nil
	}

	if !p.started {
		p.started = true
		p.lastFire = tf.Now
		return nil
	}

	for tf.Now.Sub(p.lastFire) >= p.interval {
		p.lastFire = p.lastFire.Add(p.interval)
		protectCallback(&p.GeneratorBase, p.onFire)
		if p.IsFailed() {
			return nil
		}
	}
	return nil
}
