package evaluator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/robbyt/go-seval/engines/safejs/internal"
	"github.com/robbyt/go-seval/engines/safejs/isolation"
	"github.com/robbyt/go-seval/internal/helpers"
	"github.com/robbyt/go-seval/internal/observability"
	"github.com/robbyt/go-seval/platform"
	"github.com/robbyt/go-seval/platform/constants"
	"github.com/robbyt/go-seval/platform/data"
	"github.com/robbyt/go-seval/platform/script"
)

// Evaluator runs a compiled safejs unit. It keeps no runtime between calls, so one
// Evaluator can serve many goroutines.
type Evaluator struct {
	// execUnit contains the compiled script and data provider
	execUnit *script.ExecutableUnit

	metrics *observability.Metrics
	tracer  trace.Tracer

	logHandler slog.Handler
	logger     *slog.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithMetrics records run outcomes on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(be *Evaluator) {
		be.metrics = m
	}
}

// WithTracer wraps every run in a span from tr.
func WithTracer(tr trace.Tracer) Option {
	return func(be *Evaluator) {
		be.tracer = observability.TracerOrNoop(tr)
	}
}

// New creates a new Evaluator object
func New(
	handler slog.Handler,
	execUnit *script.ExecutableUnit,
	opts ...Option,
) *Evaluator {
	handler, logger := helpers.SetupLogger(handler, "safejs", "Evaluator")

	be := &Evaluator{
		execUnit:   execUnit,
		tracer:     observability.TracerOrNoop(nil),
		logHandler: handler,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(be)
	}
	return be
}

func (be *Evaluator) String() string {
	return "safejs.Evaluator"
}

// loadUnit pulls the compiled unit out of the executable unit.
func (be *Evaluator) loadUnit() (*isolation.Unit, string, error) {
	if be.execUnit == nil {
		return nil, "", ErrExecUnitNil
	}

	content := be.execUnit.GetContent()
	if content == nil {
		return nil, "", ErrContentNil
	}

	exeID := be.execUnit.GetID()
	if exeID == "" {
		return nil, "", ErrExeIDEmpty
	}

	unit, ok := content.GetByteCode().(*isolation.Unit)
	if !ok || unit == nil {
		return nil, exeID, fmt.Errorf("%w: got %T for ID: %s", ErrByteCodeType, content.GetByteCode(), exeID)
	}
	return unit, exeID, nil
}

// loadInputData retrieves parameter values using the data provider in the executable unit.
func (be *Evaluator) loadInputData(ctx context.Context) (map[string]any, error) {
	logger := be.logger.WithGroup("loadInputData")

	if be.execUnit == nil || be.execUnit.GetDataProvider() == nil {
		logger.WarnContext(ctx, "no data provider available, using empty data")
		return make(map[string]any), nil
	}

	inputData, err := be.execUnit.GetDataProvider().GetData(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to get input data from provider", "error", err)
		return nil, err
	}

	if len(inputData) == 0 {
		logger.DebugContext(ctx, "empty input data returned from provider")
	}
	return inputData, nil
}

// exec runs call inside a span, records the outcome, and wraps the value. Errors raised
// by the body are returned as they are; an unsupported result still yields a response
// carrying its type.
func (be *Evaluator) exec(
	ctx context.Context,
	exeID string,
	argCount int,
	call func(context.Context) (isolation.Result, error),
) (*execResult, error) {
	runID := uuid.NewString()
	logger := be.logger.With("exeID", exeID, "runID", runID)

	ctx, span := be.tracer.Start(ctx, "seval.run", trace.WithAttributes(
		observability.AttrUnitID.String(exeID),
		observability.AttrRunID.String(runID),
		observability.AttrArgCount.Int(argCount),
	))
	ctx = context.WithValue(ctx, constants.RunID, runID)
	done := be.metrics.RunStarted()

	startTime := time.Now()
	res, err := call(ctx)
	execTime := time.Since(startTime)

	outcome := observability.ResultOK
	switch {
	case errors.Is(err, isolation.ErrInterrupted):
		outcome = observability.ResultInterrupted
	case err != nil:
		outcome = observability.ResultError
	}
	done(outcome)
	span.SetAttributes(
		observability.AttrResult.String(outcome),
		observability.AttrValueType.String(string(res.Type)),
	)
	observability.EndSpan(span, err)

	if err != nil {
		logger.DebugContext(ctx, "run failed", "error", err, "execTime", execTime)
		if errors.Is(err, internal.ErrUnsupportedResult) {
			return newEvalResult(be.logHandler, res, execTime, exeID, runID), err
		}
		return nil, err
	}

	result := newEvalResult(be.logHandler, res, execTime, exeID, runID)
	logger.DebugContext(ctx, "exec complete", "result", result)
	return result, nil
}

// Eval runs the unit with parameter values taken by name from the data provider.
// Declared parameters the provider does not supply read as undefined.
func (be *Evaluator) Eval(ctx context.Context) (platform.EvaluatorResponse, error) {
	unit, exeID, err := be.loadUnit()
	if err != nil {
		return nil, err
	}

	inputData, err := be.loadInputData(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get input data: %w", err)
	}

	result, err := be.exec(ctx, exeID, len(inputData), func(ctx context.Context) (isolation.Result, error) {
		return unit.CallNamed(ctx, inputData)
	})
	if result == nil {
		return nil, err
	}
	return result, err
}

// Run runs the unit with args bound positionally to the declared parameters.
func (be *Evaluator) Run(ctx context.Context, args ...any) (platform.EvaluatorResponse, error) {
	unit, exeID, err := be.loadUnit()
	if err != nil {
		return nil, err
	}

	result, err := be.exec(ctx, exeID, len(args), func(ctx context.Context) (isolation.Result, error) {
		return unit.Call(ctx, args...)
	})
	if result == nil {
		return nil, err
	}
	return result, err
}

// ExecutableUnit returns the unit this evaluator runs.
func (be *Evaluator) ExecutableUnit() *script.ExecutableUnit {
	return be.execUnit
}

// Params returns the declared parameter names of the compiled unit.
func (be *Evaluator) Params() []string {
	unit, _, err := be.loadUnit()
	if err != nil {
		return nil
	}
	return unit.Params()
}

// AddDataToContext implements the data.Setter interface which stores named parameter
// values for a later Eval.
func (be *Evaluator) AddDataToContext(
	ctx context.Context,
	d ...map[string]any,
) (context.Context, error) {
	logger := be.logger.WithGroup("AddDataToContext")

	if be.execUnit == nil || be.execUnit.GetDataProvider() == nil {
		return ctx, ErrNoDataProvider
	}

	return data.AddDataToContextHelper(
		ctx,
		logger,
		be.execUnit.GetDataProvider(),
		d...,
	)
}
