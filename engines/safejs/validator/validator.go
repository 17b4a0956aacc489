package validator

import (
	"fmt"

	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/file"
	"github.com/dop251/goja/token"

	"github.com/robbyt/go-seval/engines/safejs/syntax"
)

// Options control a single validation pass.
type Options struct {
	// AllowLoops admits `while` and `for` statements.
	AllowLoops bool `json:"allowLoops" yaml:"allow_loops"`
}

type validator struct {
	opts Options
	src  *syntax.Source
}

// Validate walks the caller's body of tree and returns the first policy violation as a
// *ValidationError, or nil. The root scope holds only the declared parameters.
func Validate(tree *syntax.Tree, opts Options) error {
	if tree == nil || tree.Body == nil || tree.Source == nil {
		return fmt.Errorf("%w: nothing to validate", syntax.ErrContractViolation)
	}

	root := NewTracker().Root()
	for _, name := range tree.Source.Params() {
		root.Declare(name)
	}

	v := &validator{opts: opts, src: tree.Source}
	// The body block shares the root scope: parameters and top-level lets live side by side.
	return v.statements(tree.Body.List, root)
}

func (v *validator) fail(reason error, node any, format string, args ...any) error {
	var pos syntax.Position
	if n, ok := node.(interface{ Idx0() file.Idx }); ok && node != nil {
		pos = v.src.Position(n.Idx0())
	}
	return &ValidationError{
		Message: fmt.Sprintf(format, args...),
		Options: v.opts,
		Pos:     pos,
		Node:    syntax.NodeName(node),
		Reason:  reason,
	}
}

func (v *validator) statements(list []ast.Statement, sc Scope) error {
	for _, stmt := range list {
		if err := v.statement(stmt, sc); err != nil {
			return err
		}
	}
	return nil
}

func (v *validator) statement(stmt ast.Statement, sc Scope) error {
	switch syntax.ClassifyStatement(stmt) {
	case syntax.StatementEmpty:
		return nil

	case syntax.StatementIf:
		s := stmt.(*ast.IfStatement)
		if err := v.expression(s.Test, sc); err != nil {
			return err
		}
		if err := v.statement(s.Consequent, sc); err != nil {
			return err
		}
		if s.Alternate != nil {
			return v.statement(s.Alternate, sc)
		}
		return nil

	case syntax.StatementBlock:
		return v.statements(stmt.(*ast.BlockStatement).List, sc.Child())

	case syntax.StatementVariableDeclaration:
		return v.declaration(stmt, sc)

	case syntax.StatementReturn:
		s := stmt.(*ast.ReturnStatement)
		if s.Argument == nil {
			return nil
		}
		return v.expression(s.Argument, sc)

	case syntax.StatementExpression:
		return v.expression(stmt.(*ast.ExpressionStatement).Expression, sc)

	case syntax.StatementWhile:
		if !v.opts.AllowLoops {
			return v.forbiddenStatement(stmt)
		}
		s := stmt.(*ast.WhileStatement)
		if err := v.expression(s.Test, sc); err != nil {
			return err
		}
		return v.statement(s.Body, sc)

	case syntax.StatementFor:
		if !v.opts.AllowLoops {
			return v.forbiddenStatement(stmt)
		}
		return v.forStatement(stmt.(*ast.ForStatement), sc)

	case syntax.StatementUnknown:
		return v.forbiddenStatement(stmt)
	}
	return v.forbiddenStatement(stmt)
}

func (v *validator) forbiddenStatement(stmt ast.Statement) error {
	return v.fail(ErrForbiddenStatement, stmt,
		"forbidden statement type: %s", syntax.NodeName(stmt))
}

// forStatement opens one scope for the whole loop: the initializer's bindings are
// visible to the test, the update and the body.
func (v *validator) forStatement(s *ast.ForStatement, sc Scope) error {
	inner := sc.Child()

	switch init := s.Initializer.(type) {
	case nil:
	case *ast.ForLoopInitializerLexicalDecl:
		decl := &init.LexicalDeclaration
		if err := v.lexical(decl, decl.Token, decl.List, inner); err != nil {
			return err
		}
	case *ast.ForLoopInitializerVarDeclList:
		return v.fail(ErrDeclarationKind, s, `cannot declare variables with "var"`)
	case *ast.ForLoopInitializerExpression:
		if err := v.expression(init.Expression, inner); err != nil {
			return err
		}
	default:
		return v.forbiddenStatement(s)
	}

	if s.Test != nil {
		if err := v.expression(s.Test, inner); err != nil {
			return err
		}
	}
	if s.Update != nil {
		if err := v.expression(s.Update, inner); err != nil {
			return err
		}
	}
	return v.statement(s.Body, inner)
}

func (v *validator) declaration(stmt ast.Statement, sc Scope) error {
	switch d := stmt.(type) {
	case *ast.LexicalDeclaration:
		return v.lexical(d, d.Token, d.List, sc)
	case *ast.VariableStatement:
		return v.fail(ErrDeclarationKind, d, `cannot declare variables with "var"`)
	}
	return v.forbiddenStatement(stmt)
}

// lexical checks each declarator in order. An initializer is validated before its own
// name is declared, so `let x = x` is rejected.
func (v *validator) lexical(node any, kind token.Token, list []*ast.Binding, sc Scope) error {
	if kind != token.LET && kind != token.CONST {
		return v.fail(ErrDeclarationKind, node, "cannot declare variables with %q", kind.String())
	}
	for _, b := range list {
		if b == nil {
			return v.fail(ErrNonIdentifierTarget, node, "cannot declare non-identifier: %s", syntax.NodeName(nil))
		}
		id, ok := b.Target.(*ast.Identifier)
		if !ok {
			return v.fail(ErrNonIdentifierTarget, b.Target,
				"cannot declare non-identifier: %s", syntax.NodeName(b.Target))
		}
		if b.Initializer != nil {
			if err := v.expression(b.Initializer, sc); err != nil {
				return err
			}
		}
		sc.Declare(id.Name.String())
	}
	return nil
}

func (v *validator) expression(expr ast.Expression, sc Scope) error {
	switch syntax.ClassifyExpression(expr) {
	case syntax.ExpressionLiteral:
		return nil

	case syntax.ExpressionIdentifier:
		id := expr.(*ast.Identifier)
		if name := id.Name.String(); !sc.IsDeclared(name) {
			return v.fail(ErrUndeclaredIdentifier, id, "cannot use undeclared identifier: %q", name)
		}
		return nil

	case syntax.ExpressionUnary:
		return v.expression(expr.(*ast.UnaryExpression).Operand, sc)

	case syntax.ExpressionUpdate:
		e := expr.(*ast.UnaryExpression)
		id, ok := e.Operand.(*ast.Identifier)
		if !ok {
			return v.fail(ErrNonIdentifierTarget, e.Operand,
				"cannot mutate non-identifier: %s", syntax.NodeName(e.Operand))
		}
		if name := id.Name.String(); !sc.IsDeclared(name) {
			return v.fail(ErrUndeclaredMutation, id, "cannot mutate undeclared identifier: %q", name)
		}
		return nil

	case syntax.ExpressionBinary, syntax.ExpressionLogical:
		e := expr.(*ast.BinaryExpression)
		if err := v.expression(e.Left, sc); err != nil {
			return err
		}
		return v.expression(e.Right, sc)

	case syntax.ExpressionAssignment:
		e := expr.(*ast.AssignExpression)
		id, ok := e.Left.(*ast.Identifier)
		if !ok {
			return v.fail(ErrNonIdentifierTarget, e.Left,
				"cannot assign to non-identifier: %s", syntax.NodeName(e.Left))
		}
		if name := id.Name.String(); !sc.IsDeclared(name) {
			return v.fail(ErrUndeclaredAssignment, id, "cannot assign to undeclared identifier: %q", name)
		}
		return v.expression(e.Right, sc)

	case syntax.ExpressionConditional:
		e := expr.(*ast.ConditionalExpression)
		if err := v.expression(e.Test, sc); err != nil {
			return err
		}
		if err := v.expression(e.Consequent, sc); err != nil {
			return err
		}
		return v.expression(e.Alternate, sc)

	case syntax.ExpressionArray:
		e := expr.(*ast.ArrayLiteral)
		for _, el := range e.Value {
			if el == nil {
				return v.fail(ErrArrayElement, e, "cannot construct array from non-expression element")
			}
			if _, spread := el.(*ast.SpreadElement); spread {
				return v.fail(ErrArrayElement, e, "cannot construct array from non-expression element")
			}
			if err := v.expression(el, sc); err != nil {
				return err
			}
		}
		return nil

	case syntax.ExpressionUnknown:
		return v.forbiddenExpression(expr)
	}
	return v.forbiddenExpression(expr)
}

func (v *validator) forbiddenExpression(expr ast.Expression) error {
	return v.fail(ErrForbiddenExpression, expr,
		"forbidden expression type: %s", syntax.NodeName(expr))
}
