package syntax

import "errors"

var (
	// ErrSyntax wraps the parser's error list when the wrapped source does not parse.
	ErrSyntax = errors.New("safejs source is not valid syntax")

	// ErrContractViolation means the parser returned a tree whose shape does not match
	// the single wrapped function declaration. It is never a policy decision.
	ErrContractViolation = errors.New("safejs parser contract violation")

	ErrInvalidParam = errors.New("safejs invalid parameter name")
)
