package syntax

import (
	"fmt"

	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/parser"
)

// Tree is a parsed Source whose shape has been checked. Body is the caller's function
// body, the node the policy validator walks.
type Tree struct {
	Source   *Source
	Program  *ast.Program
	Function *ast.FunctionLiteral
	Body     *ast.BlockStatement
}

// Parse runs the goja parser over the wrapped source and checks that the result is
// exactly the wrapper declaration. Source maps are never loaded.
func Parse(src *Source) (*Tree, error) {
	prg, err := parser.ParseFile(nil, "", src.Wrapped(), 0, parser.WithDisableSourceMaps)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}
	return assertShape(src, prg)
}

func contractErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrContractViolation, fmt.Sprintf(format, args...))
}

func assertShape(src *Source, prg *ast.Program) (*Tree, error) {
	if prg == nil {
		return nil, contractErr("parser returned no program")
	}
	if len(prg.Body) != 1 {
		return nil, contractErr("expected one top-level statement, got %d", len(prg.Body))
	}

	decl, ok := prg.Body[0].(*ast.FunctionDeclaration)
	if !ok || decl.Function == nil {
		return nil, contractErr("expected FunctionDeclaration, got %s", NodeName(prg.Body[0]))
	}
	fn := decl.Function
	if fn.Name == nil || fn.Name.Name.String() != EntryName {
		return nil, contractErr("unexpected function name")
	}

	if err := assertParams(src, fn.ParameterList); err != nil {
		return nil, err
	}

	if fn.Body == nil || len(fn.Body.List) != 1 {
		return nil, contractErr("expected a single statement in the wrapper body")
	}
	with, ok := fn.Body.List[0].(*ast.WithStatement)
	if !ok {
		return nil, contractErr("expected WithStatement, got %s", NodeName(fn.Body.List[0]))
	}
	scope, ok := with.Object.(*ast.Identifier)
	if !ok || scope.Name.String() != SandboxName {
		return nil, contractErr("unexpected with-scope object %s", NodeName(with.Object))
	}
	body, ok := with.Body.(*ast.BlockStatement)
	if !ok {
		return nil, contractErr("expected BlockStatement, got %s", NodeName(with.Body))
	}

	return &Tree{
		Source:   src,
		Program:  prg,
		Function: fn,
		Body:     body,
	}, nil
}

func assertParams(src *Source, list *ast.ParameterList) error {
	want := append([]string{SandboxName}, src.params...)
	if list == nil || list.Rest != nil || len(list.List) != len(want) {
		return contractErr("parameter list does not match the wrapper")
	}
	for i, b := range list.List {
		id, ok := b.Target.(*ast.Identifier)
		if !ok || b.Initializer != nil || id.Name.String() != want[i] {
			return contractErr("parameter %d does not match the wrapper", i)
		}
	}
	return nil
}
