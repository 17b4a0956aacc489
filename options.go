package seval

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/trace"

	"github.com/robbyt/go-seval/engines/safejs/compiler"
	"github.com/robbyt/go-seval/internal/observability"
	"github.com/robbyt/go-seval/platform/data"
)

// logOutput is where DefaultHandler writes.
var logOutput io.Writer = os.Stderr

// DefaultHandler returns the handler used when no logging option is given: text on
// stderr, warnings and above.
func DefaultHandler() slog.Handler {
	return slog.NewTextHandler(logOutput, &slog.HandlerOptions{Level: slog.LevelWarn})
}

// config holds everything needed to build an Evaluator.
type config struct {
	handler      slog.Handler
	compilerOpts []compiler.FunctionalOption
	staticData   map[string]any
	dataProvider data.Provider
}

// Option configures New and the other constructors.
type Option func(*config) error

// WithParams declares the body's parameter names. Run binds its arguments to them
// by position; Eval binds values of the same name.
func WithParams(names ...string) Option {
	return func(c *config) error {
		c.compilerOpts = append(c.compilerOpts, compiler.WithParams(names...))
		return nil
	}
}

// WithAllowLoops admits `while` and `for` statements.
func WithAllowLoops(allow bool) Option {
	return func(c *config) error {
		c.compilerOpts = append(c.compilerOpts, compiler.WithAllowLoops(allow))
		return nil
	}
}

// WithMaxCallStackSize caps call depth inside a run.
func WithMaxCallStackSize(n int) Option {
	return func(c *config) error {
		c.compilerOpts = append(c.compilerOpts, compiler.WithMaxCallStackSize(n))
		return nil
	}
}

// WithLogHandler sets the slog handler for every component.
func WithLogHandler(handler slog.Handler) Option {
	return func(c *config) error {
		if handler == nil {
			return fmt.Errorf("log handler cannot be nil")
		}
		c.handler = handler
		return nil
	}
}

// WithLogger uses logger's handler for every component.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		c.handler = logger.Handler()
		return nil
	}
}

// WithMetrics records compile and run outcomes on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *config) error {
		c.compilerOpts = append(c.compilerOpts, compiler.WithMetrics(m))
		return nil
	}
}

// WithTracer creates compile and run spans from tr.
func WithTracer(tr trace.Tracer) Option {
	return func(c *config) error {
		c.compilerOpts = append(c.compilerOpts, compiler.WithTracer(tr))
		return nil
	}
}

// WithStaticData sets parameter values used by Eval when the context has none.
func WithStaticData(d map[string]any) Option {
	return func(c *config) error {
		c.staticData = d
		return nil
	}
}

// WithDataProvider replaces the default data provider used by Eval.
func WithDataProvider(p data.Provider) Option {
	return func(c *config) error {
		if p == nil {
			return fmt.Errorf("data provider cannot be nil")
		}
		c.dataProvider = p
		return nil
	}
}
