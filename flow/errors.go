package flow

import (
	"errors"
	"fmt"
)

// ErrInvalidState marks an operation attempted on a Generator in a state
// where it is undefined. No function in this module returns it; stepping a
// Kernel that has already faulted reports ErrKernelFault instead.
var ErrInvalidState = errors.New("flow: invalid state for operation")

// ErrKernelBroken is the (non-error, success) sentinel a caller can compare
// against to tell that a run_* method returned because break_flow was
// called, rather than because the tree drained naturally.
var ErrKernelBroken = errors.New("flow: kernel break requested")

// ErrKernelFault marks a catastrophic failure in the tick loop itself (a
// panic escaping the Kernel's own bookkeeping, not a Generator or callback
// failure). A Kernel that has faulted refuses all further run_* calls.
var ErrKernelFault = errors.New("flow: kernel fault, kernel is no longer usable")

// CoroutineFailedError wraps the error returned by a SyncCoroutine step
// function or an AsyncCoroutine body.
type CoroutineFailedError struct {
	Cause error
}

func (e *CoroutineFailedError) Error() string {
	return fmt.Sprintf("flow: coroutine failed: %v", e.Cause)
}

func (e *CoroutineFailedError) Unwrap() error {
	return e.Cause
}

// CallbackPanickedError marks a Generator as Failed after a user-supplied
// callback or condition function panicked. The tick loop that observed the
// panic recovers from it and continues stepping the rest of the tree.
type CallbackPanickedError struct {
	Cause any
}

func (e *CallbackPanickedError) Error() string {
	return fmt.Sprintf("flow: callback panicked: %v", e.Cause)
}

// protectCallback runs fn with panic recovery, failing base with a
// CallbackPanickedError if fn panics. Used by Timer, PeriodicTimer, and
// Trigger so a bad user callback fails only the Generator that owns it.
func protectCallback(base *GeneratorBase, fn func()) {
	if fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			base.Fail(&CallbackPanickedError{Cause: r})
		}
	}()
	fn()
}

// protectCondition runs fn with panic recovery. ok is false if fn panicked,
// in which case base has already been failed and result is meaningless.
func protectCondition(base *GeneratorBase, fn func() bool) (result bool, ok bool) {
	ok = true
	defer func() {
		if r := recover(); r != nil {
			base.Fail(&CallbackPanickedError{Cause: r})
			ok = false
		}
	}()
	result = fn()
	return result, ok
}

// protectStepFn runs a SyncCoroutine step function with panic recovery.
func protectStepFn(base *GeneratorBase, fn func() (StepResult, error)) (res StepResult, err error, ok bool) {
	ok = true
	defer func() {
		if r := recover(); r != nil {
			base.Fail(&CallbackPanickedError{Cause: r})
			ok = false
		}
	}()
	res, err = fn()
	return res, err, ok
}
