package validator

import (
	"errors"
	"fmt"

	"github.com/robbyt/go-seval/engines/safejs/syntax"
)

// ErrValidation matches every *ValidationError.
var ErrValidation = errors.New("safejs validation failed")

// Reasons carried by a ValidationError. Loops rejected because AllowLoops is off
// report ErrForbiddenStatement, like any other unknown statement.
var (
	ErrForbiddenStatement   = errors.New("forbidden statement")
	ErrForbiddenExpression  = errors.New("forbidden expression")
	ErrUndeclaredIdentifier = errors.New("undeclared identifier")
	ErrUndeclaredAssignment = errors.New("assignment to undeclared identifier")
	ErrUndeclaredMutation   = errors.New("mutation of undeclared identifier")
	ErrNonIdentifierTarget  = errors.New("non-identifier target")
	ErrDeclarationKind      = errors.New("disallowed declaration kind")
	ErrArrayElement         = errors.New("non-expression array element")
)

// ValidationError is the single failure type of a validation pass. The first
// violation stops the walk.
type ValidationError struct {
	// Message is the human readable reason, e.g. `cannot use undeclared identifier: "x"`.
	Message string `json:"message"`

	// Options are the options the pass ran with.
	Options Options `json:"options"`

	// Pos is where the offending node starts in the caller's body text.
	Pos syntax.Position `json:"pos"`

	// Node is the goja type name of the offending node.
	Node string `json:"node,omitempty"`

	// Reason is one of the Err* sentinels of this package.
	Reason error `json:"-"`
}

func (e *ValidationError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s (at %s)", e.Message, e.Pos)
	}
	return e.Message
}

// Unwrap exposes both ErrValidation and the specific reason to errors.Is.
func (e *ValidationError) Unwrap() []error {
	if e.Reason == nil {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.Reason}
}
