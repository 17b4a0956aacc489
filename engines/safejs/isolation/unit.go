package isolation

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/dop251/goja"

	"github.com/robbyt/go-seval/engines/safejs/internal"
	"github.com/robbyt/go-seval/engines/safejs/syntax"
	"github.com/robbyt/go-seval/platform/data"
)

// DefaultMaxCallStackSize caps call depth on every runtime.
const DefaultMaxCallStackSize = 256

// Unit is a compiled wrapper program. It holds no runtime: every Call builds a fresh
// one, so a Unit can be called from many goroutines at once.
type Unit struct {
	program          *goja.Program
	params           []string
	maxCallStackSize int
}

// Option configures a Unit.
type Option func(*Unit)

// WithMaxCallStackSize overrides DefaultMaxCallStackSize. Values below 1 are ignored.
func WithMaxCallStackSize(n int) Option {
	return func(u *Unit) {
		if n > 0 {
			u.maxCallStackSize = n
		}
	}
}

// Result is the converted return value of one Call.
type Result struct {
	Value any
	Type  data.Types
}

// Compile turns an already parsed tree into a Unit. The tree is compiled as is; the
// source text is not parsed again.
func Compile(tree *syntax.Tree, opts ...Option) (*Unit, error) {
	if tree == nil || tree.Program == nil || tree.Source == nil {
		return nil, fmt.Errorf("%w: nothing to compile", syntax.ErrContractViolation)
	}

	prg, err := goja.CompileAST(tree.Program, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompile, err)
	}

	u := &Unit{
		program:          prg,
		params:           tree.Source.Params(),
		maxCallStackSize: DefaultMaxCallStackSize,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u, nil
}

// Params returns the declared parameter names, in binding order.
func (u *Unit) Params() []string {
	return slices.Clone(u.params)
}

// Call runs the body with args bound positionally to the declared parameters.
// Missing arguments read as undefined; extra ones are dropped unchecked. Errors raised by
// the body, such as *goja.Exception, are returned as they are. When ctx ends first,
// the run is interrupted and the error wraps both ErrInterrupted and ctx's cause.
func (u *Unit) Call(ctx context.Context, args ...any) (Result, error) {
	if len(args) > len(u.params) {
		args = args[:len(u.params)]
	}
	return u.call(ctx, args, nil)
}

// CallNamed binds values by parameter name. Declared parameters missing from values
// read as undefined; keys that name no parameter are ignored.
func (u *Unit) CallNamed(ctx context.Context, values map[string]any) (Result, error) {
	args := make([]any, len(u.params))
	present := make([]bool, len(u.params))
	for i, p := range u.params {
		args[i], present[i] = values[p]
	}
	return u.call(ctx, args, present)
}

// call runs the entry function. A nil present marks every argument as given.
func (u *Unit) call(ctx context.Context, args []any, present []bool) (Result, error) {
	if err := internal.CheckArgs(args); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrInterrupted, context.Cause(ctx))
	}

	vm := goja.New()
	vm.SetMaxCallStackSize(u.maxCallStackSize)

	stop := context.AfterFunc(ctx, func() {
		vm.Interrupt(context.Cause(ctx))
	})
	defer stop()

	v, err := u.run(vm, args, present)
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			return Result{}, fmt.Errorf("%w: %w", ErrInterrupted, context.Cause(ctx))
		}
		return Result{}, err
	}

	out, typ, err := internal.FromValue(v)
	if err != nil {
		return Result{Type: typ}, err
	}
	return Result{Value: out, Type: typ}, nil
}

func (u *Unit) run(vm *goja.Runtime, args []any, present []bool) (goja.Value, error) {
	if _, err := vm.RunProgram(u.program); err != nil {
		return nil, err
	}

	entry, ok := goja.AssertFunction(vm.Get(syntax.EntryName))
	if !ok {
		return nil, ErrEntryMissing
	}

	sandbox := newSandbox(vm, u.params)
	callArgs := make([]goja.Value, 0, len(args)+1)
	callArgs = append(callArgs, sandbox)
	for i, arg := range args {
		if present != nil && !present[i] {
			callArgs = append(callArgs, goja.Undefined())
			continue
		}
		callArgs = append(callArgs, internal.ToValue(vm, arg))
	}

	return entry(sandbox, callArgs...)
}
