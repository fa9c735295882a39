// Package timeframe tracks the monotonic clock state a Kernel updates once
// per tick and hands down to every Generator it steps.
package timeframe

import "time"

// TimeFrame is the wall-clock snapshot for a single tick: the current
// instant, the previous instant, and the delta between them.
type TimeFrame struct {
	Now   time.Time
	Last  time.Time
	Delta time.Duration
}

// New returns a TimeFrame anchored at the current instant with a zero delta.
func New() TimeFrame {
	now := time.Now()
	return TimeFrame{Now: now, Last: now}
}

// Update advances the frame to the current wall-clock instant.
func (tf *TimeFrame) Update() {
	now := time.Now()
	tf.Delta = now.Sub(tf.Now)
	tf.Last = tf.Now
	tf.Now = now
}

// UpdateWithDelta advances the frame by an explicit delta rather than
// sampling the wall clock, used by callers driving the Kernel with a
// synthetic or scaled clock (e.g. Kernel.Update).
func (tf *TimeFrame) UpdateWithDelta(delta time.Duration) {
	tf.Last = tf.Now
	tf.Delta = delta
	tf.Now = tf.Last.Add(delta)
}
