package flow

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cschladetsch/asyncflow-go/timeframe"
)

func TestSemaphore_LimitsConcurrency(t *testing.T) {
	sem := NewSemaphore(3)

	var maxConcurrent int32
	var current int32
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx := context.Background()
			if !sem.Acquire(ctx) {
				t.Error("Acquire failed unexpectedly")
				return
			}

			c := atomic.AddInt32(&current, 1)
			for {
				old := atomic.LoadInt32(&maxConcurrent)
				if c <= old || atomic.CompareAndSwapInt32(&maxConcurrent, old, c) {
					break
				}
			}

			time.Sleep(10 * time.Millisecond)

			atomic.AddInt32(&current, -1)
			sem.Release()
		}()
	}

	wg.Wait()

	if maxConcurrent > 3 {
		t.Errorf("max concurrent %d exceeded semaphore limit 3", maxConcurrent)
	}
}

func TestSemaphore_Nil(t *testing.T) {
	var sem *Semaphore

	ctx := context.Background()
	if !sem.Acquire(ctx) {
		t.Error("nil semaphore Acquire should return true")
	}
	sem.Release()

	if sem.Capacity() != 0 {
		t.Errorf("nil semaphore capacity should be 0, got %d", sem.Capacity())
	}
}

func TestSemaphore_ContextCancellation(t *testing.T) {
	sem := NewSemaphore(1)

	ctx := context.Background()
	sem.Acquire(ctx)

	cancelledCtx, cancel := context.WithCancel(context.Background())
	cancel()

	if sem.Acquire(cancelledCtx) {
		t.Error("Acquire should return false when context is cancelled")
	}

	sem.Release()
}

func TestNewSemaphore_ZeroOrNegative(t *testing.T) {
	if NewSemaphore(0) != nil {
		t.Error("NewSemaphore(0) should return nil")
	}
	if NewSemaphore(-1) != nil {
		t.Error("NewSemaphore(-1) should return nil")
	}
}

func TestNewBoundedAsyncCoroutine_LimitsConcurrency(t *testing.T) {
	sem := NewSemaphore(2)
	var current, maxConcurrent int32

	coros := make([]*AsyncCoroutine, 0, 5)
	for i := 0; i < 5; i++ {
		c := NewBoundedAsyncCoroutine("bounded", sem, func(ctx context.Context) error {
			n := atomic.AddInt32(&current, 1)
			for {
				old := atomic.LoadInt32(&maxConcurrent)
				if n <= old || atomic.CompareAndSwapInt32(&maxConcurrent, old, n) {
					break
				}
			}
			time.Sleep(15 * time.Millisecond)
			atomic.AddInt32(&current, -1)
			return nil
		})
		coros = append(coros, c)
	}

	deadline := time.Now().Add(2 * time.Second)
	tf := timeframe.New()
	for time.Now().Before(deadline) {
		allDone := true
		for _, c := range coros {
			c.Step(tf)
			if !c.IsTerminal() {
				allDone = false
			}
		}
		if allDone {
			break
		}
		time.Sleep(time.Millisecond)
	}

	if maxConcurrent > 2 {
		t.Errorf("max concurrent %d exceeded semaphore limit 2", maxConcurrent)
	}
	for _, c := range coros {
		if !c.IsCompleted() {
			t.Errorf("coroutine %s did not complete, state=%s", c.Name(), c.State())
		}
	}
}
