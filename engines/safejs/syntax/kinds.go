package syntax

import (
	"fmt"
	"strings"

	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/token"
)

// StatementKind is the closed set of statement shapes the policy knows about.
type StatementKind int

const (
	StatementUnknown StatementKind = iota
	StatementEmpty
	StatementIf
	StatementBlock
	StatementVariableDeclaration
	StatementReturn
	StatementExpression
	StatementWhile
	StatementFor
)

var statementNames = [...]string{
	StatementUnknown:             "Unknown",
	StatementEmpty:               "Empty",
	StatementIf:                  "If",
	StatementBlock:               "Block",
	StatementVariableDeclaration: "VariableDeclaration",
	StatementReturn:              "Return",
	StatementExpression:          "Expression",
	StatementWhile:               "While",
	StatementFor:                 "For",
}

func (k StatementKind) String() string {
	if k < 0 || int(k) >= len(statementNames) {
		return fmt.Sprintf("StatementKind(%d)", int(k))
	}
	return statementNames[k]
}

// ExpressionKind is the closed set of expression shapes the policy knows about.
type ExpressionKind int

const (
	ExpressionUnknown ExpressionKind = iota
	ExpressionLiteral
	ExpressionIdentifier
	ExpressionUnary
	ExpressionBinary
	ExpressionLogical
	ExpressionAssignment
	ExpressionConditional
	ExpressionArray
	ExpressionUpdate
)

var expressionNames = [...]string{
	ExpressionUnknown:     "Unknown",
	ExpressionLiteral:     "Literal",
	ExpressionIdentifier:  "Identifier",
	ExpressionUnary:       "Unary",
	ExpressionBinary:      "Binary",
	ExpressionLogical:     "Logical",
	ExpressionAssignment:  "Assignment",
	ExpressionConditional: "Conditional",
	ExpressionArray:       "Array",
	ExpressionUpdate:      "Update",
}

func (k ExpressionKind) String() string {
	if k < 0 || int(k) >= len(expressionNames) {
		return fmt.Sprintf("ExpressionKind(%d)", int(k))
	}
	return expressionNames[k]
}

// ClassifyStatement maps a goja statement node onto StatementKind. Both `var` and
// lexical declarations classify as VariableDeclaration; the policy decides on the kind.
func ClassifyStatement(stmt ast.Statement) StatementKind {
	switch stmt.(type) {
	case *ast.EmptyStatement:
		return StatementEmpty
	case *ast.IfStatement:
		return StatementIf
	case *ast.BlockStatement:
		return StatementBlock
	case *ast.LexicalDeclaration, *ast.VariableStatement:
		return StatementVariableDeclaration
	case *ast.ReturnStatement:
		return StatementReturn
	case *ast.ExpressionStatement:
		return StatementExpression
	case *ast.WhileStatement:
		return StatementWhile
	case *ast.ForStatement:
		return StatementFor
	default:
		return StatementUnknown
	}
}

// ClassifyExpression maps a goja expression node onto ExpressionKind. goja has no
// separate update node: prefix and postfix ++/-- are unary expressions.
func ClassifyExpression(expr ast.Expression) ExpressionKind {
	switch e := expr.(type) {
	case *ast.NumberLiteral, *ast.StringLiteral, *ast.BooleanLiteral, *ast.NullLiteral:
		return ExpressionLiteral
	case *ast.Identifier:
		return ExpressionIdentifier
	case *ast.UnaryExpression:
		if IsUpdateOperator(e.Operator) {
			return ExpressionUpdate
		}
		return ExpressionUnary
	case *ast.BinaryExpression:
		if IsLogicalOperator(e.Operator) {
			return ExpressionLogical
		}
		return ExpressionBinary
	case *ast.AssignExpression:
		return ExpressionAssignment
	case *ast.ConditionalExpression:
		return ExpressionConditional
	case *ast.ArrayLiteral:
		return ExpressionArray
	default:
		return ExpressionUnknown
	}
}

// IsUpdateOperator reports whether tok is ++ or --.
func IsUpdateOperator(tok token.Token) bool {
	return tok == token.INCREMENT || tok == token.DECREMENT
}

// IsLogicalOperator reports whether tok is a short-circuit operator.
func IsLogicalOperator(tok token.Token) bool {
	return tok == token.LOGICAL_AND || tok == token.LOGICAL_OR || tok == token.COALESCE
}

// NodeName is the goja type name of a node, used in messages.
func NodeName(node any) string {
	if node == nil {
		return "<nil>"
	}
	name := fmt.Sprintf("%T", node)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}
