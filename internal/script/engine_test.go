package script

import "testing"

func TestEngine_EvalBasicExpression(t *testing.T) {
	e := NewEngine()
	result, err := e.Eval("1 + 2", nil)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	n, ok := result.(int64)
	if !ok || n != 3 {
		t.Fatalf("result = %v (%T), want int64 3", result, result)
	}
}

func TestEngine_EvalWithBindings(t *testing.T) {
	e := NewEngine()
	result, err := e.Eval("counter > 5", map[string]any{"counter": 10})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if result != true {
		t.Fatalf("result = %v, want true", result)
	}
}

func TestEngine_EvalBool_RejectsNonBoolean(t *testing.T) {
	e := NewEngine()
	_, err := e.EvalBool("42", nil)
	if err == nil {
		t.Fatal("expected an error for a non-boolean condition result")
	}
}

func TestEngine_PreludeIsAvailable(t *testing.T) {
	e := NewEngine("function double(x) { return x * 2; }")
	result, err := e.Eval("double(21)", nil)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if result != int64(42) {
		t.Fatalf("result = %v, want 42", result)
	}
}

func TestEngine_CompileConditionReflectsLiveBindings(t *testing.T) {
	e := NewEngine()
	threshold := 0
	cond := e.CompileCondition("counter >= threshold", func() map[string]any {
		return map[string]any{"counter": threshold, "threshold": 5}
	})

	if cond() {
		t.Fatal("condition should be false before threshold is reached")
	}
	threshold = 5
	if !cond() {
		t.Fatal("condition should be true once threshold is reached")
	}
}

func TestEngine_CompileConditionPanicsOnScriptError(t *testing.T) {
	e := NewEngine()
	cond := e.CompileCondition("this is not valid js (((", func() map[string]any { return nil })

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected CompileCondition's returned func to panic on a script error")
		}
	}()
	cond()
}

func TestEngine_RunAndCaptureReflectsMutation(t *testing.T) {
	e := NewEngine()
	updated, err := e.RunAndCapture("counter = counter + 1", map[string]any{"counter": 5})
	if err != nil {
		t.Fatalf("RunAndCapture: %v", err)
	}
	if updated["counter"] != int64(6) {
		t.Fatalf("counter = %v, want 6", updated["counter"])
	}
}

func TestEngine_RunAndCaptureOnlyReturnsGivenKeys(t *testing.T) {
	e := NewEngine()
	updated, err := e.RunAndCapture("var extra = 99;", map[string]any{"counter": 1})
	if err != nil {
		t.Fatalf("RunAndCapture: %v", err)
	}
	if _, ok := updated["extra"]; ok {
		t.Fatal("RunAndCapture should not surface keys not present in the original bindings")
	}
	if updated["counter"] != int64(1) {
		t.Fatalf("counter = %v, want unchanged 1", updated["counter"])
	}
}

func TestEngine_EvalBoolAndCapture_ReflectsResultAndMutation(t *testing.T) {
	e := NewEngine()
	done, updated, err := e.EvalBoolAndCapture("(tick_count = tick_count + 1) > 2", map[string]any{"tick_count": 1})
	if err != nil {
		t.Fatalf("EvalBoolAndCapture: %v", err)
	}
	if done {
		t.Fatal("done should be false on the first call: tick_count becomes 2, not > 2")
	}
	if updated["tick_count"] != int64(2) {
		t.Fatalf("tick_count = %v, want 2", updated["tick_count"])
	}

	done, updated, err = e.EvalBoolAndCapture("(tick_count = tick_count + 1) > 2", map[string]any{"tick_count": updated["tick_count"]})
	if err != nil {
		t.Fatalf("EvalBoolAndCapture: %v", err)
	}
	if !done {
		t.Fatal("done should be true once tick_count exceeds 2")
	}
	if updated["tick_count"] != int64(3) {
		t.Fatalf("tick_count = %v, want 3", updated["tick_count"])
	}
}

func TestEngine_EvalBoolAndCapture_RejectsNonBoolean(t *testing.T) {
	e := NewEngine()
	if _, _, err := e.EvalBoolAndCapture("42", nil); err == nil {
		t.Fatal("expected an error for a non-boolean step result")
	}
}
