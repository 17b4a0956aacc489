package isolation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbyt/go-seval/engines/safejs/internal"
	"github.com/robbyt/go-seval/engines/safejs/syntax"
	"github.com/robbyt/go-seval/platform/data"
)

// compile parses and compiles body without running the policy validator, so these
// tests exercise the runtime sandbox on its own.
func compile(t *testing.T, body string, params ...string) *Unit {
	t.Helper()
	src, err := syntax.NewSource(body, params)
	require.NoError(t, err)
	tree, err := syntax.Parse(src)
	require.NoError(t, err)
	unit, err := Compile(tree)
	require.NoError(t, err)
	return unit
}

func call(t *testing.T, u *Unit, args ...any) Result {
	t.Helper()
	res, err := u.Call(context.Background(), args...)
	require.NoError(t, err)
	return res
}

func TestUnit_FreeNamesAreNeutralized(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want any
	}{
		{name: "global object", body: "return typeof globalThis;", want: "undefined"},
		{name: "builtin", body: "return typeof Math;", want: "undefined"},
		{name: "constructor", body: "return typeof Function;", want: "undefined"},
		{name: "entry function", body: "return typeof __seval_unit;", want: "undefined"},
		{name: "sandbox name", body: "return typeof __seval_sandbox;", want: "undefined"},
		{name: "arguments", body: "return typeof arguments;", want: "undefined"},
		{name: "this reaches no globals", body: "return typeof this.Object;", want: "undefined"},
		{name: "writes are dropped", body: "leak = 5; return typeof leak;", want: "undefined"},
		{name: "locals still work", body: "let x = 2; { const y = x * 3; x = y; } return x;", want: 6.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := call(t, compile(t, tt.body))
			assert.Equal(t, tt.want, res.Value)
		})
	}
}

func TestUnit_WritesDoNotPersistAcrossCalls(t *testing.T) {
	t.Parallel()

	u := compile(t, "let n = 0; n++; return n;")
	for range 3 {
		assert.Equal(t, 1.0, call(t, u).Value)
	}
}

func TestUnit_Params(t *testing.T) {
	t.Parallel()

	u := compile(t, "return [a, b];", "a", "b")
	assert.Equal(t, []string{"a", "b"}, u.Params())

	t.Run("positional", func(t *testing.T) {
		res := call(t, u, 1, "two")
		assert.Equal(t, []any{1.0, "two"}, res.Value)
		assert.Equal(t, data.LIST, res.Type)
	})

	t.Run("missing are undefined", func(t *testing.T) {
		res := call(t, u, 1)
		assert.Equal(t, []any{1.0, nil}, res.Value)
	})

	t.Run("extra are unreachable", func(t *testing.T) {
		res := call(t, compile(t, "return typeof arguments;", "a"), 1, 2, 3)
		assert.Equal(t, "undefined", res.Value)
	})

	t.Run("extra are not checked", func(t *testing.T) {
		res := call(t, compile(t, "return a;", "a"), 1, struct{}{}, func() {})
		assert.Equal(t, 1.0, res.Value)
		res = call(t, compile(t, "return 2;"), make(chan int))
		assert.Equal(t, 2.0, res.Value)
	})

	t.Run("nested data", func(t *testing.T) {
		res := call(t, compile(t, "return m;", "m"), map[string]any{"k": []any{true}})
		assert.Equal(t, map[string]any{"k": []any{true}}, res.Value)
		assert.Equal(t, data.MAP, res.Type)
	})

	t.Run("nil argument is null", func(t *testing.T) {
		res := call(t, u, nil, nil)
		assert.Equal(t, []any{nil, nil}, res.Value)
		res = call(t, compile(t, "return a;", "a"), nil)
		assert.Equal(t, data.NULL, res.Type)
	})

	t.Run("unsupported argument", func(t *testing.T) {
		_, err := u.Call(context.Background(), struct{}{})
		require.ErrorIs(t, err, internal.ErrUnsupportedArgument)
	})

	t.Run("named", func(t *testing.T) {
		typed := compile(t, "return [typeof a, typeof b, a];", "a", "b")

		res, err := typed.CallNamed(context.Background(), map[string]any{"b": 2, "other": 3})
		require.NoError(t, err)
		assert.Equal(t, []any{"undefined", "number", nil}, res.Value)

		res, err = typed.CallNamed(context.Background(), map[string]any{"a": nil})
		require.NoError(t, err)
		assert.Equal(t, []any{"object", "undefined", nil}, res.Value)

		_, err = typed.CallNamed(context.Background(), map[string]any{"a": func() {}})
		require.ErrorIs(t, err, internal.ErrUnsupportedArgument)
	})
}

func TestUnit_ResultTypes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		body     string
		want     any
		wantType data.Types
	}{
		{body: "", want: nil, wantType: data.UNDEFINED},
		{body: "return;", want: nil, wantType: data.UNDEFINED},
		{body: "return null;", want: nil, wantType: data.NULL},
		{body: "return 1 < 2;", want: true, wantType: data.BOOL},
		{body: "return 7 / 2;", want: 3.5, wantType: data.NUMBER},
		{body: "return 'a' + 1;", want: "a1", wantType: data.STRING},
		{body: "return [1, 'abc', true];", want: []any{1.0, "abc", true}, wantType: data.LIST},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			t.Parallel()
			res := call(t, compile(t, tt.body))
			assert.Equal(t, tt.want, res.Value)
			assert.Equal(t, tt.wantType, res.Type)
		})
	}

	t.Run("function result", func(t *testing.T) {
		t.Parallel()
		_, err := compile(t, "return function () {};").Call(context.Background())
		require.ErrorIs(t, err, internal.ErrUnsupportedResult)
	})
}

func TestUnit_RuntimeErrorsAreUnwrapped(t *testing.T) {
	t.Parallel()

	_, err := compile(t, "const c = 1; c = 2; return c;").Call(context.Background())
	require.Error(t, err)

	var exc *goja.Exception
	require.ErrorAs(t, err, &exc)
	assert.Same(t, exc, err)
	assert.Contains(t, exc.Error(), "Assignment to constant variable")
}

func TestUnit_StackOverflow(t *testing.T) {
	t.Parallel()

	src, err := syntax.NewSource("function f() { return f(); } return f();", nil)
	require.NoError(t, err)
	tree, err := syntax.Parse(src)
	require.NoError(t, err)
	u, err := Compile(tree, WithMaxCallStackSize(16))
	require.NoError(t, err)

	// f is declared in the with block, so it is reachable
	_, err = u.Call(context.Background())
	var overflow *goja.StackOverflowError
	require.ErrorAs(t, err, &overflow)
}

func TestUnit_Interrupt(t *testing.T) {
	t.Parallel()

	u := compile(t, "while (true) {}")

	t.Run("deadline", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := u.Call(ctx)
		require.ErrorIs(t, err, ErrInterrupted)
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("already cancelled", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := u.Call(ctx)
		require.ErrorIs(t, err, ErrInterrupted)
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("custom cause", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("tenant quota")
		ctx, cancel := context.WithCancelCause(context.Background())
		time.AfterFunc(20*time.Millisecond, func() { cancel(cause) })

		_, err := u.Call(ctx)
		require.ErrorIs(t, err, ErrInterrupted)
		require.ErrorIs(t, err, cause)
	})
}

func TestUnit_ConcurrentCalls(t *testing.T) {
	t.Parallel()

	u := compile(t, "let s = 0; let i = 0; while (i < n) { s += i; i++; } return s;", "n")

	var wg sync.WaitGroup
	results := make([]any, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := u.Call(context.Background(), 100)
			if err == nil {
				results[i] = res.Value
			}
		}()
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, 4950.0, r)
	}
}

func TestCompile(t *testing.T) {
	t.Parallel()

	t.Run("nil tree", func(t *testing.T) {
		_, err := Compile(nil)
		require.ErrorIs(t, err, syntax.ErrContractViolation)
	})

	t.Run("duplicate lexical declaration", func(t *testing.T) {
		src, err := syntax.NewSource("let x = 1; let x = 2;", nil)
		require.NoError(t, err)
		tree, err := syntax.Parse(src)
		if err != nil {
			// some parser versions report this early
			require.ErrorIs(t, err, syntax.ErrSyntax)
			return
		}
		_, err = Compile(tree)
		require.ErrorIs(t, err, ErrCompile)
	})
}
