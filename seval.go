// Package seval validates the body of a function written in a small, statically
// checked subset of JavaScript, and runs it with no access to the host's globals.
//
// A body is checked against an allow-list once, when the Evaluator is built. Only
// literals, declared identifiers, operators, ternaries, array literals, `let`/`const`,
// `if`, blocks and `return` are accepted, and loops when enabled. Anything that could
// reach outside the body, such as member access or calls, is rejected before any code
// runs. Accepted bodies then run in a fresh runtime per call, inside a scope that
// resolves every free name to undefined.
package seval

import (
	"context"
	"fmt"
	"io"

	"github.com/robbyt/go-seval/engines/safejs"
	"github.com/robbyt/go-seval/engines/safejs/evaluator"
	"github.com/robbyt/go-seval/platform"
	"github.com/robbyt/go-seval/platform/constants"
	"github.com/robbyt/go-seval/platform/data"
	"github.com/robbyt/go-seval/platform/script"
	"github.com/robbyt/go-seval/platform/script/loader"
)

// Evaluator holds one validated, compiled body. It is safe for concurrent use.
type Evaluator struct {
	delegate *evaluator.Evaluator
	execUnit *script.ExecutableUnit
}

// New validates and compiles source, the body of a function. Policy violations are
// returned as a *ValidationError, reachable with errors.As.
func New(source string, opts ...Option) (*Evaluator, error) {
	l, err := loader.NewFromString(source)
	if err != nil {
		return nil, err
	}
	return NewWithLoader(l, opts...)
}

// FromFile reads the body from an absolute path.
func FromFile(path string, opts ...Option) (*Evaluator, error) {
	l, err := loader.NewFromDisk(path)
	if err != nil {
		return nil, err
	}
	return NewWithLoader(l, opts...)
}

// FromReader reads the body from r once. name labels the source in logs and may be empty.
func FromReader(r io.Reader, name string, opts ...Option) (*Evaluator, error) {
	l, err := loader.NewFromIoReader(r, name)
	if err != nil {
		return nil, err
	}
	return NewWithLoader(l, opts...)
}

// NewWithLoader builds an Evaluator from any loader.
func NewWithLoader(l loader.Loader, opts ...Option) (*Evaluator, error) {
	cfg := &config{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("error applying option: %w", err)
		}
	}
	if cfg.handler == nil {
		cfg.handler = DefaultHandler()
	}

	provider := cfg.dataProvider
	if provider == nil {
		provider = data.NewContextProvider(constants.EvalData)
		if cfg.staticData != nil {
			provider = data.NewCompositeProvider(data.NewStaticProvider(cfg.staticData), provider)
		}
	}

	be, err := safejs.NewEvaluator(cfg.handler, l, provider, cfg.compilerOpts...)
	if err != nil {
		return nil, err
	}
	return &Evaluator{delegate: be, execUnit: be.ExecutableUnit()}, nil
}

// Run calls the body with args bound by position to the declared parameters and
// returns its value: nil, bool, float64, string, []any or map[string]any. Errors the
// body raises, such as a *goja.Exception, are returned unchanged.
func (e *Evaluator) Run(args ...any) (any, error) {
	return e.RunContext(context.Background(), args...)
}

// RunContext is Run with a context. When ctx ends before the body returns, the run
// is interrupted and the error matches ErrInterrupted.
func (e *Evaluator) RunContext(ctx context.Context, args ...any) (any, error) {
	resp, err := e.delegate.Run(ctx, args...)
	if err != nil {
		return nil, err
	}
	return resp.Interface(), nil
}

// Call is RunContext returning the full response, with the value's type and timing.
func (e *Evaluator) Call(ctx context.Context, args ...any) (platform.EvaluatorResponse, error) {
	return e.delegate.Run(ctx, args...)
}

// Eval runs the body with parameter values read by name from the data provider,
// usually stored with AddDataToContext.
func (e *Evaluator) Eval(ctx context.Context) (platform.EvaluatorResponse, error) {
	return e.delegate.Eval(ctx)
}

// AddDataToContext stores named parameter values in ctx for a later Eval.
func (e *Evaluator) AddDataToContext(ctx context.Context, d ...map[string]any) (context.Context, error) {
	return e.delegate.AddDataToContext(ctx, d...)
}

// Params returns the declared parameter names, in binding order.
func (e *Evaluator) Params() []string {
	return e.delegate.Params()
}

// Source returns the body text as given.
func (e *Evaluator) Source() string {
	return e.execUnit.GetContent().GetSource()
}

// GetExecutableUnit returns the compiled unit and its metadata.
func (e *Evaluator) GetExecutableUnit() *script.ExecutableUnit {
	return e.execUnit
}
