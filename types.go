package appstate

import (
	"time"

	"github.com/goliatone/go-appstate/pkg/activity"
)

// SchemaFormat identifies the representation a schema document encodes.
type SchemaFormat string

const (
	// SchemaFormatDescriptors represents the flattened property descriptors.
	SchemaFormatDescriptors SchemaFormat = "descriptors"
)

// SchemaDocument encapsulates a generated schema output alongside its format
// identifier. Implementations must ensure Document is JSON-serialisable.
type SchemaDocument struct {
	Format   SchemaFormat
	Document any
}

// SchemaGenerator transforms the declared property set into a schema document.
// Implementations must handle an empty property list by returning an empty
// document.
type SchemaGenerator interface {
	Generate(properties []TypedProperty) (SchemaDocument, error)
}

// Response stores the result produced by an evaluator.
type Response struct {
	Value any
}

// EvalContext carries inputs needed when evaluating a host expression.
// Bindings exports the container state (typed properties and variables) as
// native scalars keyed by normalized name.
type EvalContext struct {
	Bindings  map[string]any
	Now       *time.Time
	Args      map[string]any
	Metadata  map[string]any
	Container string
}

func (ctx EvalContext) withDefaultNow() EvalContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx EvalContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx EvalContext) withDefaultMaps() EvalContext {
	if ctx.Bindings == nil {
		ctx.Bindings = map[string]any{}
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx EvalContext) containerLabel() string {
	if ctx.Container != "" {
		return ctx.Container
	}
	return "unknown"
}

// Evaluator executes host expressions against an evaluation context.
type Evaluator interface {
	Evaluate(ctx EvalContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx EvalContext) (any, error)
}

// CompileOption configures evaluator compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct{}

type compileOptionFunc func(*compileConfig)

func (f compileOptionFunc) applyCompileOption(cfg *compileConfig) {
	if f != nil {
		f(cfg)
	}
}

// Option configures an AppState container at construction.
type Option func(*config)

type config struct {
	evaluator       Evaluator
	programCache    ProgramCache
	words           *WordRegistry
	logger          Logger
	schemaGenerator SchemaGenerator
	changeHooks     activity.Hooks
	changeChannel   string
}

func applyOptions(opts []Option) config {
	cfg := config{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

func (s *AppState) evaluator() Evaluator {
	return s.cfg.evaluator
}

func (s *AppState) withEvaluator(e Evaluator) {
	s.cfg.evaluator = e
}

func (s *AppState) programCache() ProgramCache {
	return s.cfg.programCache
}

func (s *AppState) wordRegistry() *WordRegistry {
	return s.cfg.words
}

func (s *AppState) logger() Logger {
	if s.cfg.logger != nil {
		return s.cfg.logger
	}
	return noopLogger{}
}

func (s *AppState) schemaGenerator() SchemaGenerator {
	if s == nil {
		return DefaultSchemaGenerator()
	}
	if s.cfg.schemaGenerator != nil {
		return s.cfg.schemaGenerator
	}
	return DefaultSchemaGenerator()
}
