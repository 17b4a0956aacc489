package compiler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/robbyt/go-seval/engines/safejs/isolation"
	"github.com/robbyt/go-seval/engines/safejs/syntax"
	"github.com/robbyt/go-seval/engines/safejs/validator"
	"github.com/robbyt/go-seval/internal/helpers"
	"github.com/robbyt/go-seval/internal/observability"
	"github.com/robbyt/go-seval/platform/script"
)

// Compiler turns a function body into an Executable. Each Compile is a separate
// validation pass with a fresh root scope.
type Compiler struct {
	params           []string
	validation       validator.Options
	maxCallStackSize int
	metrics          *observability.Metrics
	tracer           trace.Tracer
	logHandler       slog.Handler
	logger           *slog.Logger
}

// NewCompiler creates a new safejs Compiler with the provided options.
func NewCompiler(opts ...FunctionalOption) (*Compiler, error) {
	cfg := &Options{}
	ApplyDefaults(cfg)

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("error applying compiler option: %w", err)
		}
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid compiler configuration: %w", err)
	}

	c := &Compiler{
		params:           cfg.Params,
		validation:       validator.Options{AllowLoops: cfg.AllowLoops},
		maxCallStackSize: cfg.MaxCallStackSize,
		metrics:          cfg.Metrics,
		tracer:           observability.TracerOrNoop(cfg.Tracer),
	}
	c.logHandler, c.logger = helpers.LoggerFromOptions(cfg.Logger, cfg.LogHandler, "safejs", "Compiler")
	return c, nil
}

func (c *Compiler) String() string {
	return "safejs.Compiler"
}

// Params returns the declared parameter names.
func (c *Compiler) Params() []string {
	return slices.Clone(c.params)
}

// Metrics returns the metrics the compiler records on, possibly nil.
func (c *Compiler) Metrics() *observability.Metrics {
	return c.metrics
}

// Tracer returns the tracer the compiler creates spans with.
func (c *Compiler) Tracer() trace.Tracer {
	return c.tracer
}

// Compile reads the body from scriptReader, closes it, and compiles it.
func (c *Compiler) Compile(scriptReader io.ReadCloser) (script.ExecutableContent, error) {
	return c.CompileContext(context.Background(), scriptReader)
}

// CompileContext is Compile with a parent context for the compile span.
func (c *Compiler) CompileContext(
	ctx context.Context,
	scriptReader io.ReadCloser,
) (script.ExecutableContent, error) {
	if scriptReader == nil {
		return nil, ErrContentNil
	}

	scriptBodyBytes, err := io.ReadAll(scriptReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}

	err = scriptReader.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to close reader: %w", err)
	}

	exe, err := c.compile(ctx, scriptBodyBytes)
	if err != nil {
		return nil, err
	}
	return exe, nil
}

func (c *Compiler) compile(ctx context.Context, scriptBodyBytes []byte) (exe *Executable, err error) {
	logger := c.logger.WithGroup("compile")

	ctx, span := c.tracer.Start(ctx, "seval.compile", trace.WithAttributes(
		observability.AttrParams.StringSlice(c.params),
		attribute.Bool("seval.allow_loops", c.validation.AllowLoops),
	))
	start := time.Now()
	result := observability.ResultError
	defer func() {
		c.metrics.ObserveCompile(result, time.Since(start))
		observability.EndSpan(span, err)
	}()

	src, err := syntax.NewSource(string(scriptBodyBytes), c.params)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	tree, err := syntax.Parse(src)
	if err != nil {
		if errors.Is(err, syntax.ErrContractViolation) {
			// a body that closes the wrapper early lands here as well as a parser bug
			logger.ErrorContext(ctx, "parser returned an unexpected tree",
				"error", err,
				"body_bytes", len(scriptBodyBytes),
				"wrapped", src.Wrapped())
			return nil, err
		}
		logger.WarnContext(ctx, "syntax error", "error", err)
		result = observability.ResultRejected
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	logger.DebugContext(ctx, "starting validation", "params", c.params, "options", c.validation)
	if err = validator.Validate(tree, c.validation); err != nil {
		var verr *validator.ValidationError
		if errors.As(err, &verr) {
			logger.WarnContext(ctx, "body rejected",
				"message", verr.Message, "pos", verr.Pos.String(), "node", verr.Node)
			result = observability.ResultRejected
			if verr.Reason != nil {
				c.metrics.ObserveRejection(verr.Reason.Error())
			}
			return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
		}
		logger.ErrorContext(ctx, "validation could not run", "error", err)
		return nil, err
	}

	unit, err := isolation.Compile(tree, isolation.WithMaxCallStackSize(c.maxCallStackSize))
	if err != nil {
		logger.WarnContext(ctx, "compilation failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrCompileFailed, err)
	}

	exe = newExecutable(scriptBodyBytes, src, unit)
	if exe == nil {
		err = ErrExecCreationFailed
		logger.WarnContext(ctx, "failed to create executable")
		return nil, err
	}

	result = observability.ResultOK
	logger.DebugContext(ctx, "compilation completed")
	return exe, nil
}
