package compiler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/robbyt/go-seval/engines/safejs/isolation"
	"github.com/robbyt/go-seval/engines/safejs/syntax"
	"github.com/robbyt/go-seval/engines/safejs/validator"
	engineTypes "github.com/robbyt/go-seval/engines/types"
	"github.com/robbyt/go-seval/internal/observability"
	"github.com/robbyt/go-seval/platform/data"
)

// mockScriptReaderCloser implements io.ReadCloser for testing
type mockScriptReaderCloser struct {
	*mock.Mock
	content string
	offset  int
}

func newMockScriptReaderCloser(content string) *mockScriptReaderCloser {
	return &mockScriptReaderCloser{
		Mock:    &mock.Mock{},
		content: content,
	}
}

func (m *mockScriptReaderCloser) Read(p []byte) (n int, err error) {
	if m.offset >= len(m.content) {
		return 0, io.EOF
	}
	n = copy(p, m.content[m.offset:])
	m.offset += n
	return n, nil
}

func (m *mockScriptReaderCloser) Close() error {
	args := m.Called()
	return args.Error(0)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("read failed") }
func (failingReader) Close() error             { return nil }

type testCase struct {
	name   string
	script string
	params []string
	loops  bool
	err    error
}

func runTestCase(t *testing.T, tt testCase) {
	t.Helper()
	t.Parallel()

	comp, err := NewCompiler(
		WithLogHandler(slog.NewTextHandler(os.Stdout, nil)),
		WithParams(tt.params...),
		WithAllowLoops(tt.loops),
	)
	require.NoError(t, err, "Failed to create compiler")

	reader := newMockScriptReaderCloser(tt.script)
	reader.On("Close").Return(nil)

	execContent, err := comp.Compile(reader)
	reader.AssertExpectations(t)

	if tt.err != nil {
		require.Error(t, err)
		require.Nil(t, execContent)
		require.ErrorIs(t, err, tt.err)
		return
	}

	require.NoError(t, err)
	require.NotNil(t, execContent)
	require.Equal(t, tt.script, execContent.GetSource())
	require.Equal(t, engineTypes.SafeJS, execContent.GetMachineType())

	exe, ok := execContent.(*Executable)
	require.True(t, ok, "Expected execContent to be a *Executable")
	require.NotNil(t, exe.GetUnit())
	require.Equal(t, exe.GetUnit(), exe.GetByteCode())
	if len(tt.params) > 0 {
		require.Equal(t, tt.params, exe.GetParams())
	}
}

func TestCompiler(t *testing.T) {
	t.Parallel()
	tests := []testCase{
		{
			name:   "valid body",
			script: `return 1 + 2;`,
		},
		{
			name:   "params are declared",
			script: `return a + b;`,
			params: []string{"a", "b"},
		},
		{
			name:   "loops allowed",
			script: "let s = 0;\nfor (let i = 0; i < 3; i++) { s += i; }\nreturn s;",
			loops:  true,
		},
		{
			name:   "loops rejected by default",
			script: "while (true) {}",
			err:    validator.ErrForbiddenStatement,
		},
		{
			name:   "syntax error",
			script: `return (1 + ;`,
			err:    syntax.ErrSyntax,
		},
		{
			name:   "syntax error is a validation failure",
			script: `let = ;`,
			err:    ErrValidationFailed,
		},
		{
			name:   "empty script",
			script: ``,
		},
		{
			name:   "whitespace only",
			script: "  \n\t",
		},
		{
			name:   "undeclared identifier",
			script: `return x;`,
			err:    validator.ErrUndeclaredIdentifier,
		},
		{
			name:   "call expression",
			script: `(1).constructor.constructor("return this")();`,
			err:    ErrValidationFailed,
		},
		{
			name:   "duplicate declaration fails in goja",
			script: `let x = 1; let x = 2;`,
			err:    ErrCompileFailed,
		},
		{
			name:   "wrapper escape attempt",
			script: "} } function other() { {",
			err:    syntax.ErrContractViolation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runTestCase(t, tt)
		})
	}
}

func TestCompileReaderErrors(t *testing.T) {
	t.Parallel()

	comp, err := NewCompiler(WithLogHandler(slog.NewTextHandler(os.Stdout, nil)))
	require.NoError(t, err)

	t.Run("nil reader", func(t *testing.T) {
		t.Parallel()
		_, err := comp.Compile(nil)
		require.ErrorIs(t, err, ErrContentNil)
	})

	t.Run("read failure", func(t *testing.T) {
		t.Parallel()
		_, err := comp.Compile(failingReader{})
		require.ErrorContains(t, err, "read failed")
	})

	t.Run("close failure", func(t *testing.T) {
		t.Parallel()
		reader := newMockScriptReaderCloser("return 1;")
		reader.On("Close").Return(errors.New("close failed"))
		_, err := comp.Compile(reader)
		require.ErrorContains(t, err, "close failed")
		reader.AssertExpectations(t)
	})
}

func TestValidationErrorReachable(t *testing.T) {
	t.Parallel()

	comp, err := NewCompiler(WithLogHandler(slog.NewTextHandler(os.Stdout, nil)))
	require.NoError(t, err)

	_, err = comp.Compile(io.NopCloser(strings.NewReader("let a = 1;\nreturn b;")))
	require.Error(t, err)

	var verr *validator.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, `cannot use undeclared identifier: "b"`, verr.Message)
	assert.Equal(t, syntax.Position{Line: 2, Column: 8}, verr.Pos)
	assert.ErrorIs(t, err, validator.ErrValidation)
}

func TestCompiledUnitRuns(t *testing.T) {
	t.Parallel()

	comp, err := NewCompiler(
		WithLogHandler(slog.NewTextHandler(os.Stdout, nil)),
		WithParams("n"),
		WithMaxCallStackSize(64),
	)
	require.NoError(t, err)

	content, err := comp.Compile(io.NopCloser(strings.NewReader("return n * 2;")))
	require.NoError(t, err)

	unit, ok := content.GetByteCode().(*isolation.Unit)
	require.True(t, ok)
	res, err := unit.Call(context.Background(), 21)
	require.NoError(t, err)
	assert.Equal(t, isolation.Result{Value: float64(42), Type: data.NUMBER}, res)
}

func TestCompilerObservability(t *testing.T) {
	t.Parallel()

	metrics := observability.NewMetrics()
	sr := tracetest.NewSpanRecorder()
	tracing := observability.NewTracerSetup("test", sdktrace.WithSpanProcessor(sr))

	comp, err := NewCompiler(
		WithLogHandler(slog.NewTextHandler(os.Stdout, nil)),
		WithMetrics(metrics),
		WithTracer(tracing.Tracer()),
	)
	require.NoError(t, err)

	_, err = comp.Compile(io.NopCloser(strings.NewReader("return 1;")))
	require.NoError(t, err)
	_, err = comp.Compile(io.NopCloser(strings.NewReader("return x;")))
	require.Error(t, err)

	assert.InDelta(t, 1,
		testutil.ToFloat64(metrics.CompilesTotal.WithLabelValues(observability.ResultOK)), 0)
	assert.InDelta(t, 1,
		testutil.ToFloat64(metrics.CompilesTotal.WithLabelValues(observability.ResultRejected)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(
		metrics.RejectionsTotal.WithLabelValues(validator.ErrUndeclaredIdentifier.Error())), 0)

	ended := sr.Ended()
	require.Len(t, ended, 2)
	for _, s := range ended {
		assert.Equal(t, "seval.compile", s.Name())
	}
}

func TestCompilerOptions(t *testing.T) {
	t.Parallel()

	t.Run("WithLogHandler option", func(t *testing.T) {
		t.Parallel()
		comp, err := NewCompiler(WithLogHandler(slog.NewTextHandler(os.Stdout, nil)))
		require.NoError(t, err)
		require.Equal(t, "safejs.Compiler", comp.String())
	})

	t.Run("WithLogger option", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		comp, err := NewCompiler(WithLogger(logger))
		require.NoError(t, err)

		_, err = comp.Compile(io.NopCloser(strings.NewReader("return y;")))
		require.Error(t, err)
		assert.Contains(t, buf.String(), "body rejected")
		assert.Contains(t, buf.String(), "level=WARN")
	})

	t.Run("invalid params", func(t *testing.T) {
		t.Parallel()
		_, err := NewCompiler(WithParams("a", "a"))
		require.ErrorIs(t, err, syntax.ErrInvalidParam)

		_, err = NewCompiler(WithParams("this"))
		require.ErrorIs(t, err, syntax.ErrInvalidParam)
	})

	t.Run("nil log options", func(t *testing.T) {
		t.Parallel()
		_, err := NewCompiler(WithLogHandler(nil))
		require.Error(t, err)
		_, err = NewCompiler(WithLogger(nil))
		require.Error(t, err)
	})

	t.Run("invalid stack size", func(t *testing.T) {
		t.Parallel()
		_, err := NewCompiler(WithMaxCallStackSize(0))
		require.Error(t, err)
	})
}

func TestWrapperEscapeIsLogged(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	comp, err := NewCompiler(WithLogHandler(slog.NewTextHandler(&buf, nil)))
	require.NoError(t, err)

	body := "} } function __seval_unit(__seval_sandbox) { with (__seval_sandbox) {"
	_, err = comp.Compile(io.NopCloser(strings.NewReader(body)))
	require.ErrorIs(t, err, syntax.ErrContractViolation)

	out := buf.String()
	assert.Contains(t, out, "parser returned an unexpected tree")
	assert.Contains(t, out, "body_bytes=69")
	assert.Contains(t, out, "function __seval_unit(__seval_sandbox) { with (__seval_sandbox) {")
}
