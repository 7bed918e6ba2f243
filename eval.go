package appstate

import (
	"errors"
	"fmt"
	"time"
)

var ErrNoEvaluator = errors.New("appstate: evaluator not configured")

// Eval executes expr against the container state using the configured
// evaluator and wraps the result. The environment exports every typed
// property and variable plus the registered host words.
func (s *AppState) Eval(expr string) (Response, error) {
	return s.EvalWith(EvalContext{}, expr)
}

// EvalWith executes expr using ctx, falling back to the container bindings
// when ctx.Bindings is nil.
func (s *AppState) EvalWith(ctx EvalContext, expr string) (Response, error) {
	if expr == "" {
		return Response{}, fmt.Errorf("expression must not be empty")
	}
	evaluator, err := s.resolveEvaluator()
	if err != nil {
		return Response{}, err
	}
	if ctx.Bindings == nil {
		ctx.Bindings = s.Bindings()
	}
	if ctx.Container == "" {
		ctx.Container = s.id
	}
	ctx = ctx.withDefaultNow().withDefaultMaps()
	engine := evaluatorEngineName(evaluator)
	start := time.Now()
	value, evalErr := evaluator.Evaluate(ctx, expr)
	duration := time.Since(start)
	evalErr = wrapEvaluationError("", expr, ctx.containerLabel(), evalErr)
	s.logger().Log(LogEntry{
		Op:        "eval",
		Engine:    engine,
		Expr:      expr,
		Container: ctx.containerLabel(),
		Duration:  duration,
		Err:       evalErr,
	})
	if evalErr != nil {
		return Response{}, evalErr
	}
	return Response{Value: value}, nil
}

func (s *AppState) resolveEvaluator() (Evaluator, error) {
	evaluator := s.evaluator()
	if evaluator != nil {
		return evaluator, nil
	}
	var exprOpts []ExprEvaluatorOption
	if cache := s.programCache(); cache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(cache))
	}
	if registry := s.wordRegistry(); registry != nil {
		exprOpts = append(exprOpts, ExprWithWordRegistry(registry))
	}
	defaultEvaluator := NewExprEvaluator(exprOpts...)
	if defaultEvaluator == nil {
		return nil, ErrNoEvaluator
	}
	s.withEvaluator(defaultEvaluator)
	return defaultEvaluator, nil
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	switch fmt.Sprintf("%T", e) {
	case "*appstate.exprEvaluator":
		return "expr"
	case "*appstate.celEvaluator":
		return "cel"
	case "*appstate.jsEvaluator":
		return "js"
	default:
		return "custom"
	}
}
