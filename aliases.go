package seval

import (
	"github.com/prometheus/client_golang/prometheus"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/robbyt/go-seval/engines/safejs"
	"github.com/robbyt/go-seval/engines/safejs/compiler"
	"github.com/robbyt/go-seval/engines/safejs/isolation"
	"github.com/robbyt/go-seval/engines/safejs/syntax"
	"github.com/robbyt/go-seval/engines/safejs/validator"
	"github.com/robbyt/go-seval/internal/observability"
	"github.com/robbyt/go-seval/platform"
)

// ValidationError is the construction-time failure for a body outside the allow-list.
type ValidationError = validator.ValidationError

// ValidationOptions are the options a validation pass ran with.
type ValidationOptions = validator.Options

// Position is a 1-based line and column inside the body text.
type Position = syntax.Position

// Response is the full result of Call and Eval.
type Response = platform.EvaluatorResponse

// Metrics are the prometheus collectors passed to WithMetrics.
type Metrics = observability.Metrics

// TracerSetup owns the tracer provider behind WithTracer.
type TracerSetup = observability.TracerSetup

// NewMetrics registers the collectors on a fresh registry, exposed as Metrics.Registry.
func NewMetrics() *Metrics {
	return observability.NewMetrics()
}

// NewMetricsWithRegisterer registers the collectors on reg, reusing any already there.
func NewMetricsWithRegisterer(reg prometheus.Registerer) (*Metrics, error) {
	return observability.NewMetricsWithRegisterer(reg)
}

// NewTracerSetup builds an SDK tracer provider for serviceName. Pass its Tracer to WithTracer.
func NewTracerSetup(serviceName string, opts ...sdktrace.TracerProviderOption) *TracerSetup {
	return observability.NewTracerSetup(serviceName, opts...)
}

var (
	// ErrValidation matches every *ValidationError.
	ErrValidation = validator.ErrValidation

	ErrForbiddenStatement   = validator.ErrForbiddenStatement
	ErrForbiddenExpression  = validator.ErrForbiddenExpression
	ErrUndeclaredIdentifier = validator.ErrUndeclaredIdentifier
	ErrUndeclaredAssignment = validator.ErrUndeclaredAssignment
	ErrUndeclaredMutation   = validator.ErrUndeclaredMutation
	ErrNonIdentifierTarget  = validator.ErrNonIdentifierTarget
	ErrDeclarationKind      = validator.ErrDeclarationKind
	ErrArrayElement         = validator.ErrArrayElement

	// ErrSyntax wraps parser errors for bodies that are not valid syntax.
	ErrSyntax = syntax.ErrSyntax

	// ErrContractViolation means the parser's tree did not have the wrapper's shape.
	ErrContractViolation = syntax.ErrContractViolation

	ErrInvalidParam = syntax.ErrInvalidParam

	// ErrCompileFailed wraps goja compile errors for accepted bodies.
	ErrCompileFailed = compiler.ErrCompileFailed

	// ErrInterrupted is returned when the context ends a run.
	ErrInterrupted = isolation.ErrInterrupted

	ErrUnsupportedArgument = safejs.ErrUnsupportedArgument
	ErrUnsupportedResult   = safejs.ErrUnsupportedResult
)
