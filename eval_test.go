package appstate

import (
	"errors"
	"testing"
)

type capturingEvaluator struct {
	contexts []EvalContext
}

func (c *capturingEvaluator) Evaluate(ctx EvalContext, expr string) (any, error) {
	c.contexts = append(c.contexts, ctx)
	return true, nil
}

func (c *capturingEvaluator) Compile(expr string, _ ...CompileOption) (CompiledRule, error) {
	return nil, errors.New("not implemented")
}

func (c *capturingEvaluator) reset() {
	c.contexts = nil
}

func TestEvalContextDefaults(t *testing.T) {
	capture := &capturingEvaluator{}
	state := New(nil, WithEvaluator(capture))
	if err := state.Set("flag", Bool(true)); err != nil {
		t.Fatalf("unexpected error from Set: %v", err)
	}

	if _, err := state.Eval("flag"); err != nil {
		t.Fatalf("unexpected error from Eval: %v", err)
	}
	if len(capture.contexts) != 1 {
		t.Fatalf("expected evaluator to receive one context, got %d", len(capture.contexts))
	}
	received := capture.contexts[0]
	if received.Now == nil || received.Now.IsZero() {
		t.Fatalf("expected Eval to default EvalContext.Now")
	}
	if received.Bindings["flag"] != true {
		t.Fatalf("expected container bindings in context, got %v", received.Bindings)
	}
	if received.Container != state.ID() {
		t.Fatalf("expected container label to default to the container id")
	}

	capture.reset()
	ctx := EvalContext{Bindings: map[string]any{"flag": false}}
	if _, err := state.EvalWith(ctx, "flag"); err != nil {
		t.Fatalf("unexpected error from EvalWith: %v", err)
	}
	if len(capture.contexts) != 1 {
		t.Fatalf("expected evaluator to receive one context, got %d", len(capture.contexts))
	}
	if capture.contexts[0].Bindings["flag"] != false {
		t.Fatalf("expected explicit bindings to win over container bindings")
	}
}

func TestExprEvaluatorReadsContainerState(t *testing.T) {
	settings := &testSettings{intValue: 1}
	state := New(testSchema(settings), WithEvaluator(NewExprEvaluator()))
	if err := state.Set("score", Int(10)); err != nil {
		t.Fatalf("unexpected error from Set: %v", err)
	}

	resp, err := state.Eval("score == 10 && intvalue == 1")
	if err != nil {
		t.Fatalf("unexpected error from Eval: %v", err)
	}
	value, ok := resp.Value.(bool)
	if !ok {
		t.Fatalf("expected bool response, got %T", resp.Value)
	}
	if !value {
		t.Fatalf("expected expression to hold")
	}
}

func TestExprEvaluatorCallsWords(t *testing.T) {
	registry := NewWordRegistry()
	if err := registry.Register("double", func(args ...any) (any, error) {
		if len(args) != 1 {
			return nil, errors.New("double expects one argument")
		}
		i, ok := args[0].(int)
		if !ok {
			return nil, errors.New("double expects an int")
		}
		return int64(i) * 2, nil
	}); err != nil {
		t.Fatalf("unexpected error from Register: %v", err)
	}

	state := New(nil, WithWords(registry))
	resp, err := state.Eval("double(21) == 42")
	if err != nil {
		t.Fatalf("unexpected error from Eval: %v", err)
	}
	if value, ok := resp.Value.(bool); !ok || !value {
		t.Fatalf("expected word call to evaluate to true, got %v", resp.Value)
	}
}

func TestCELEvaluatorReadsContainerState(t *testing.T) {
	state := New(nil, WithEvaluator(NewCELEvaluator()))
	if err := state.Set("flag", Bool(true)); err != nil {
		t.Fatalf("unexpected error from Set: %v", err)
	}

	resp, err := state.Eval("flag")
	if err != nil {
		t.Fatalf("unexpected error from Eval: %v", err)
	}
	if value, ok := resp.Value.(bool); !ok || !value {
		t.Fatalf("expected true, got %v", resp.Value)
	}
}

func TestEvalLogsEngineAndDuration(t *testing.T) {
	var entries []LogEntry
	state := New(nil,
		WithEvaluator(NewExprEvaluator()),
		WithLogger(LoggerFunc(func(entry LogEntry) {
			entries = append(entries, entry)
		})),
	)

	if _, err := state.Eval("1 == 1"); err != nil {
		t.Fatalf("unexpected error from Eval: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one log entry, got %d", len(entries))
	}
	if entries[0].Op != "eval" || entries[0].Engine != "expr" {
		t.Fatalf("unexpected log entry: %+v", entries[0])
	}
}

func TestEvalWrapsEngineErrors(t *testing.T) {
	state := New(nil, WithEvaluator(NewExprEvaluator()))

	_, err := state.Eval("1 +")
	if err == nil {
		t.Fatalf("expected error for malformed expression")
	}
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected *EvaluationError, got %T", err)
	}
	if evalErr.Engine != "expr" {
		t.Fatalf("expected expr engine, got %q", evalErr.Engine)
	}
}

func TestProgramCacheIsConsulted(t *testing.T) {
	cache := NewMapCache()
	state := New(nil,
		WithEvaluator(NewExprEvaluator(ExprWithProgramCache(cache))),
	)

	if _, err := state.Eval("1 == 1"); err != nil {
		t.Fatalf("unexpected error from Eval: %v", err)
	}
	if _, ok := cache.Get("1 == 1"); !ok {
		t.Fatalf("expected compiled program to land in the cache")
	}
	if _, err := state.Eval("1 == 1"); err != nil {
		t.Fatalf("unexpected error on cached run: %v", err)
	}
}

func TestCompiledRuleReuse(t *testing.T) {
	evaluator := NewExprEvaluator()
	rule, err := evaluator.Compile("score > 5")
	if err != nil {
		t.Fatalf("unexpected error from Compile: %v", err)
	}

	result, err := rule.Evaluate(EvalContext{Bindings: map[string]any{"score": int64(10)}})
	if err != nil {
		t.Fatalf("unexpected error from Evaluate: %v", err)
	}
	if value, ok := result.(bool); !ok || !value {
		t.Fatalf("expected true, got %v", result)
	}

	result, err = rule.Evaluate(EvalContext{Bindings: map[string]any{"score": int64(1)}})
	if err != nil {
		t.Fatalf("unexpected error from Evaluate: %v", err)
	}
	if value, ok := result.(bool); !ok || value {
		t.Fatalf("expected false, got %v", result)
	}
}
