// Package script evaluates small JavaScript snippets, via goja, as trigger
// conditions and step functions for scenario graphs loaded from YAML: a
// scripted condition or step body is just another expression string in the
// document, evaluated fresh against the current bindings on every call.
package script

import (
	"fmt"

	"github.com/dop251/goja"
)

// Engine wraps a goja runtime configured with a fixed prelude, e.g. helper
// functions shared by every expression evaluated through it.
type Engine struct {
	prelude []string
}

// NewEngine returns an Engine that runs prelude before every expression.
func NewEngine(prelude ...string) *Engine {
	return &Engine{prelude: prelude}
}

// newVM builds a fresh runtime with the prelude loaded and bindings set as
// global variables. A fresh runtime per call keeps evaluations isolated
// from each other, since scenario conditions are re-evaluated every tick
// against bindings that may have changed shape.
func (e *Engine) newVM(bindings map[string]any) (*goja.Runtime, error) {
	vm := goja.New()

	for i, src := range e.prelude {
		if _, err := vm.RunString(src); err != nil {
			return nil, fmt.Errorf("script: prelude[%d]: %w", i, err)
		}
	}
	for name, value := range bindings {
		if err := vm.Set(name, value); err != nil {
			return nil, fmt.Errorf("script: set %q: %w", name, err)
		}
	}
	return vm, nil
}

// Eval evaluates expr against bindings and returns its exported result.
func (e *Engine) Eval(expr string, bindings map[string]any) (any, error) {
	vm, err := e.newVM(bindings)
	if err != nil {
		return nil, err
	}
	value, err := vm.RunString(expr)
	if err != nil {
		return nil, fmt.Errorf("script: eval %q: %w", expr, err)
	}
	return value.Export(), nil
}

// EvalBool evaluates expr and coerces its result to bool. A non-boolean
// result is an error rather than a silent falsy coercion, since a
// misspelled condition should fail loudly instead of never firing.
func (e *Engine) EvalBool(expr string, bindings map[string]any) (bool, error) {
	result, err := e.Eval(expr, bindings)
	if err != nil {
		return false, err
	}
	b, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("script: expression %q did not evaluate to a boolean, got %T", expr, result)
	}
	return b, nil
}

// BindingsFunc supplies the variable bindings visible to a scripted
// expression at the moment it runs.
type BindingsFunc func() map[string]any

// CompileCondition returns a func() bool suitable for flow.NewTrigger,
// evaluating expr against fresh bindings from bindingsFn on every call. A
// script or type error panics, which the flow package's condition
// protection converts into a Trigger failure rather than a crash.
func (e *Engine) CompileCondition(expr string, bindingsFn BindingsFunc) func() bool {
	return func() bool {
		result, err := e.EvalBool(expr, bindingsFn())
		if err != nil {
			panic(err)
		}
		return result
	}
}

// EvalBoolAndCapture evaluates expr, coercing its result to bool exactly
// like EvalBool, and also returns the post-run value of every key
// originally present in bindings, exactly like RunAndCapture. This is what
// a scripted SyncCoroutine step needs: a StepResult-deciding boolean and any
// mutation the step made to shared bindings, from a single VM run.
func (e *Engine) EvalBoolAndCapture(expr string, bindings map[string]any) (bool, map[string]any, error) {
	vm, err := e.newVM(bindings)
	if err != nil {
		return false, nil, err
	}
	value, err := vm.RunString(expr)
	if err != nil {
		return false, nil, fmt.Errorf("script: eval %q: %w", expr, err)
	}
	result, ok := value.Export().(bool)
	if !ok {
		return false, nil, fmt.Errorf("script: expression %q did not evaluate to a boolean, got %T", expr, value.Export())
	}

	updated := make(map[string]any, len(bindings))
	for name := range bindings {
		updated[name] = vm.Get(name).Export()
	}
	return result, updated, nil
}

// RunAndCapture runs expr against bindings and returns the post-run value
// of every key originally present in bindings, so a caller can observe
// mutations a script made to variables it was handed (e.g. "counter =
// counter + 1"). Keys introduced by expr that were not in bindings are not
// captured.
func (e *Engine) RunAndCapture(expr string, bindings map[string]any) (map[string]any, error) {
	vm, err := e.newVM(bindings)
	if err != nil {
		return nil, err
	}
	if _, err := vm.RunString(expr); err != nil {
		return nil, fmt.Errorf("script: eval %q: %w", expr, err)
	}

	updated := make(map[string]any, len(bindings))
	for name := range bindings {
		updated[name] = vm.Get(name).Export()
	}
	return updated, nil
}
