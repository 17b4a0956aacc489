package safejs

import "github.com/robbyt/go-seval/engines/safejs/internal"

var (
	// ErrUnsupportedArgument is returned when a run argument is not plain data.
	ErrUnsupportedArgument = internal.ErrUnsupportedArgument

	// ErrUnsupportedResult is returned when the body returns a value with no Go form,
	// such as a function.
	ErrUnsupportedResult = internal.ErrUnsupportedResult
)
