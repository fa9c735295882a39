package flow

import "context"

// Semaphore is a counting semaphore for bounding how many AsyncCoroutines a
// caller allows to run their wrapped work concurrently, independent of how
// many are attached to the flow graph at once.
type Semaphore struct {
	ch chan struct{}
}

// NewSemaphore creates a semaphore with the given capacity. If n <= 0, it
// returns nil, which behaves as an unlimited semaphore.
func NewSemaphore(n int) *Semaphore {
	if n <= 0 {
		return nil
	}
	return &Semaphore{ch: make(chan struct{}, n)}
}

// Acquire blocks until a slot is available or ctx is done. It reports
// whether a slot was acquired. A nil Semaphore always acquires immediately.
func (s *Semaphore) Acquire(ctx context.Context) bool {
	if s == nil {
		return true
	}
	select {
	case s.ch <- struct{}{}:
		return true
	case <-ctx.Done():
		return false
	}
}

// Release frees a slot. A no-op on a nil Semaphore.
func (s *Semaphore) Release() {
	if s == nil {
		return
	}
	<-s.ch
}

// Capacity returns the semaphore's capacity, or 0 for a nil (unlimited)
// Semaphore.
func (s *Semaphore) Capacity() int {
	if s == nil {
		return 0
	}
	return cap(s.ch)
}

// NewBoundedAsyncCoroutine launches work in its own goroutine like
// NewAsyncCoroutine, but has work wait on sem before running and release it
// on return, bounding how many such coroutines execute concurrently.
func NewBoundedAsyncCoroutine(name string, sem *Semaphore, work func(ctx context.Context) error) *AsyncCoroutine {
	return NewAsyncCoroutine(name, func(ctx context.Context) error {
		if !sem.Acquire(ctx) {
			return ctx.Err()
		}
		defer sem.Release()
		return work(ctx)
	})
}
