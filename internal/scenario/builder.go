package scenario

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cschladetsch/asyncflow-go/flow"
	"github.com/cschladetsch/asyncflow-go/internal/script"
)

// Builder turns a Spec into a live flow graph. Every scripted condition or
// callback in the document shares the same mutable bindings map, so a
// timer's on_elapsed expression can flip a variable a trigger's condition
// later observes.
type Builder struct {
	engine *script.Engine
	logger *slog.Logger

	mu        sync.Mutex
	bindings  map[string]any
	breakFunc func()
}

// NewBuilder returns a Builder evaluating scripts with engine, seeded with
// the given initial bindings (which may be nil).
func NewBuilder(engine *script.Engine, initial map[string]any) *Builder {
	b := &Builder{
		engine:   engine,
		logger:   slog.Default().With("component", "scenario"),
		bindings: map[string]any{},
	}
	for k, v := range initial {
		b.bindings[k] = v
	}
	return b
}

// SetLogger overrides the logger used by "log:" declarative actions.
func (b *Builder) SetLogger(logger *slog.Logger) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.logger = logger
}

// SetBreakFunc installs the func a "break" declarative action invokes,
// typically a Kernel's BreakFlow. It may be set after Build has already
// compiled the graph's callbacks, as long as it is set before any of them
// fire — the callbacks read it fresh on every call.
func (b *Builder) SetBreakFunc(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.breakFunc = fn
}

// Set assigns a binding visible to every scripted expression built so far
// and hereafter.
func (b *Builder) Set(name string, value any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bindings[name] = value
}

// Get reads a binding's current value.
func (b *Builder) Get(name string) (any, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.bindings[name]
	return v, ok
}

func (b *Builder) snapshotBindings() map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[string]any, len(b.bindings))
	for k, v := range b.bindings {
		out[k] = v
	}
	return out
}

// compileMutatingCallback returns a func() suitable for a Timer,
// PeriodicTimer, or Trigger callback: expr runs against the Builder's
// current bindings, and any bindings it reassigns (e.g. "counter = counter
// + 1") are written back so later steps and other scripted expressions see
// the update.
func (b *Builder) compileMutatingCallback(expr string) func() {
	return func() {
		updated, err := b.engine.RunAndCapture(expr, b.snapshotBindings())
		if err != nil {
			panic(err)
		}
		b.mu.Lock()
		for k, v := range updated {
			b.bindings[k] = v
		}
		b.mu.Unlock()
	}
}

// compileAction returns a func() for an on_elapsed/on_fire/on_triggered
// field. The literal string "break" requests the driving Kernel stop via
// whatever func SetBreakFunc installed; a "log:" prefix logs the rest of
// the string; anything else is compiled as a mutating script expression.
func (b *Builder) compileAction(expr string) func() {
	switch {
	case expr == "break":
		return func() {
			b.mu.Lock()
			fn := b.breakFunc
			b.mu.Unlock()
			if fn != nil {
				fn()
			}
		}
	case strings.HasPrefix(expr, "log:"):
		message := strings.TrimPrefix(expr, "log:")
		return func() {
			b.mu.Lock()
			logger := b.logger
			b.mu.Unlock()
			logger.Info(message)
		}
	default:
		return b.compileMutatingCallback(expr)
	}
}

// compileStepFn returns a func() (flow.StepResult, error) suitable for a
// SyncCoroutine: expr runs against the Builder's current bindings on every
// call, is coerced to a bool deciding StepDone versus StepContinue, and any
// bindings it reassigns are written back exactly like compileMutatingCallback.
func (b *Builder) compileStepFn(expr string) func() (flow.StepResult, error) {
	return func() (flow.StepResult, error) {
		done, updated, err := b.engine.EvalBoolAndCapture(expr, b.snapshotBindings())
		if err != nil {
			return flow.StepFailed, err
		}
		b.mu.Lock()
		for k, v := range updated {
			b.bindings[k] = v
		}
		b.mu.Unlock()

		if done {
			return flow.StepDone, nil
		}
		return flow.StepContinue, nil
	}
}

// Build recursively constructs the Generator described by spec, wiring
// scripted conditions and callbacks against the Builder's shared bindings.
func (b *Builder) Build(spec NodeSpec) (flow.Generator, error) {
	switch spec.Kind {
	case "node":
		n := flow.NewNode(spec.Name)
		for _, childSpec := range spec.Children {
			child, err := b.Build(childSpec)
			if err != nil {
				return nil, err
			}
			n.AddChild(child)
		}
		return n, nil

	case "sequence":
		seq := flow.NewSequence(spec.Name)
		for _, childSpec := range spec.Children {
			child, err := b.Build(childSpec)
			if err != nil {
				return nil, err
			}
			seq.AddChild(child)
		}
		return seq, nil

	case "barrier":
		bar := flow.NewBarrier(spec.Name)
		for _, childSpec := range spec.Children {
			child, err := b.Build(childSpec)
			if err != nil {
				return nil, err
			}
			bar.AddChild(child)
		}
		return bar, nil

	case "timer":
		duration, err := time.ParseDuration(spec.Duration)
		if err != nil {
			return nil, fmt.Errorf("scenario: timer %q: parse duration %q: %w", spec.Name, spec.Duration, err)
		}
		timer := flow.NewTimer(spec.Name, duration)
		if spec.OnElapsed != "" {
			timer.SetElapsedCallback(b.compileAction(spec.OnElapsed))
		}
		return timer, nil

	case "periodic_timer":
		interval, err := time.ParseDuration(spec.Duration)
		if err != nil {
			return nil, fmt.Errorf("scenario: periodic_timer %q: parse duration %q: %w", spec.Name, spec.Duration, err)
		}
		pt := flow.NewPeriodicTimer(spec.Name, interval)
		if spec.OnFire != "" {
			pt.SetFireCallback(b.compileAction(spec.OnFire))
		}
		return pt, nil

	case "trigger":
		if spec.Condition == "" {
			return nil, fmt.Errorf("scenario: trigger %q must set a condition", spec.Name)
		}
		trig := flow.NewTrigger(spec.Name, b.engine.CompileCondition(spec.Condition, b.snapshotBindings))
		if spec.OnTriggered != "" {
			trig.SetTriggeredCallback(b.compileAction(spec.OnTriggered))
		}
		return trig, nil

	case "sync_coroutine":
		if spec.Step == "" {
			return nil, fmt.Errorf("scenario: sync_coroutine %q must set a step expression", spec.Name)
		}
		return flow.NewSyncCoroutine(spec.Name, b.compileStepFn(spec.Step)), nil

	default:
		return nil, fmt.Errorf("scenario: unknown node kind %q", spec.Kind)
	}
}
