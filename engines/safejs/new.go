package safejs

import (
	"fmt"
	"log/slog"

	"github.com/robbyt/go-seval/engines/safejs/compiler"
	"github.com/robbyt/go-seval/engines/safejs/evaluator"
	"github.com/robbyt/go-seval/platform/constants"
	"github.com/robbyt/go-seval/platform/data"
	"github.com/robbyt/go-seval/platform/script"
	"github.com/robbyt/go-seval/platform/script/loader"
)

// FromSafeJSLoader creates a safejs evaluator from a loader with dynamic data only
// (ContextProvider). Parameter values for Eval are added with AddDataToContext.
//
// Input parameters:
// - logHandler: logger handler for logging
// - ldr: loader implementation for loading the function body
// - opts: compiler options, such as compiler.WithParams
func FromSafeJSLoader(
	logHandler slog.Handler,
	ldr loader.Loader,
	opts ...compiler.FunctionalOption,
) (*evaluator.Evaluator, error) {
	return NewEvaluator(
		logHandler,
		ldr,
		data.NewContextProvider(constants.EvalData),
		opts...,
	)
}

// FromSafeJSLoaderWithData creates a safejs evaluator with both static and dynamic data.
// Values added to the context override static values of the same name.
func FromSafeJSLoaderWithData(
	logHandler slog.Handler,
	ldr loader.Loader,
	staticData map[string]any,
	opts ...compiler.FunctionalOption,
) (*evaluator.Evaluator, error) {
	staticProvider := data.NewStaticProvider(staticData)
	dynamicProvider := data.NewContextProvider(constants.EvalData)
	compositeProvider := data.NewCompositeProvider(staticProvider, dynamicProvider)

	return NewEvaluator(
		logHandler,
		ldr,
		compositeProvider,
		opts...,
	)
}

// NewCompiler creates a new safejs compiler using the functional options pattern.
// Returns a compiler implementing the script.Compiler interface.
func NewCompiler(opts ...compiler.FunctionalOption) (*compiler.Compiler, error) {
	return compiler.NewCompiler(opts...)
}

// NewEvaluator compiles the body from ldr and returns an Evaluator ready to run it.
// The compiler's metrics and tracer are shared with the evaluator.
func NewEvaluator(
	logHandler slog.Handler,
	ldr loader.Loader,
	dataProvider data.Provider,
	opts ...compiler.FunctionalOption,
) (*evaluator.Evaluator, error) {
	if dataProvider == nil {
		return nil, fmt.Errorf("provider is nil")
	}
	if ldr == nil {
		return nil, fmt.Errorf("loader is nil")
	}

	if logHandler != nil {
		opts = append([]compiler.FunctionalOption{compiler.WithLogHandler(logHandler)}, opts...)
	}
	c, err := NewCompiler(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create safejs compiler: %w", err)
	}

	execUnit, err := script.NewExecutableUnit(
		logHandler,
		"",
		ldr,
		c,
		dataProvider,
	)
	if err != nil {
		return nil, err
	}

	return evaluator.New(
		logHandler,
		execUnit,
		evaluator.WithMetrics(c.Metrics()),
		evaluator.WithTracer(c.Tracer()),
	), nil
}
