package compiler

import (
	"fmt"
	"log/slog"
	"os"
	"slices"

	"go.opentelemetry.io/otel/trace"

	"github.com/robbyt/go-seval/engines/safejs/isolation"
	"github.com/robbyt/go-seval/engines/safejs/syntax"
	"github.com/robbyt/go-seval/internal/observability"
)

// Options holds the configuration for the safejs compiler
type Options struct {
	// Params are the declared parameter names of the body, bound positionally at run time.
	Params []string

	// AllowLoops admits `while` and `for` statements.
	AllowLoops bool

	// MaxCallStackSize caps call depth on each runtime; zero means the isolation default.
	MaxCallStackSize int

	LogHandler slog.Handler
	Logger     *slog.Logger

	// Metrics and Tracer are optional; nil records nothing.
	Metrics *observability.Metrics
	Tracer  trace.Tracer
}

// FunctionalOption is a function that configures an Options instance
type FunctionalOption func(*Options) error

// WithParams sets the declared parameter names. Names must be plain identifiers,
// unique, and not reserved words.
func WithParams(params ...string) FunctionalOption {
	return func(cfg *Options) error {
		if err := syntax.CheckParams(params); err != nil {
			return err
		}
		cfg.Params = slices.Clone(params)
		return nil
	}
}

// WithAllowLoops admits `while` and `for` statements in the body.
func WithAllowLoops(allow bool) FunctionalOption {
	return func(cfg *Options) error {
		cfg.AllowLoops = allow
		return nil
	}
}

// WithMaxCallStackSize caps call depth on every runtime created for the compiled unit.
func WithMaxCallStackSize(n int) FunctionalOption {
	return func(cfg *Options) error {
		if n < 1 {
			return fmt.Errorf("max call stack size must be positive, got %d", n)
		}
		cfg.MaxCallStackSize = n
		return nil
	}
}

// WithLogHandler creates an option to set the log handler for the safejs compiler.
// This is the preferred option for logging configuration as it provides
// more flexibility through the slog.Handler interface.
func WithLogHandler(handler slog.Handler) FunctionalOption {
	return func(cfg *Options) error {
		if handler == nil {
			return fmt.Errorf("log handler cannot be nil")
		}
		cfg.LogHandler = handler
		// Clear logger if handler is explicitly set
		cfg.Logger = nil
		return nil
	}
}

// WithLogger creates an option to set a specific logger for the safejs compiler.
func WithLogger(logger *slog.Logger) FunctionalOption {
	return func(cfg *Options) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		cfg.Logger = logger
		// Clear handler if logger is explicitly set
		cfg.LogHandler = nil
		return nil
	}
}

// WithMetrics records compile outcomes and validator rejections on m.
func WithMetrics(m *observability.Metrics) FunctionalOption {
	return func(cfg *Options) error {
		cfg.Metrics = m
		return nil
	}
}

// WithTracer wraps every compile in a span from tr.
func WithTracer(tr trace.Tracer) FunctionalOption {
	return func(cfg *Options) error {
		cfg.Tracer = tr
		return nil
	}
}

// ApplyDefaults sets the default values for a compiler config
func ApplyDefaults(cfg *Options) {
	// Default to stderr for logging if neither handler nor logger specified
	if cfg.LogHandler == nil && cfg.Logger == nil {
		cfg.LogHandler = slog.NewTextHandler(os.Stderr, nil)
	}

	if cfg.Params == nil {
		cfg.Params = []string{}
	}

	if cfg.MaxCallStackSize == 0 {
		cfg.MaxCallStackSize = isolation.DefaultMaxCallStackSize
	}
}

// Validate checks if the configuration is valid
func Validate(cfg *Options) error {
	// Ensure we have either a logger or a handler
	if cfg.LogHandler == nil && cfg.Logger == nil {
		return fmt.Errorf("either log handler or logger must be specified")
	}

	if cfg.MaxCallStackSize < 1 {
		return fmt.Errorf("max call stack size must be positive, got %d", cfg.MaxCallStackSize)
	}

	return syntax.CheckParams(cfg.Params)
}
