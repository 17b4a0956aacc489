package internal

import "errors"

var (
	// ErrUnsupportedArgument is returned for Run arguments that are not plain data.
	ErrUnsupportedArgument = errors.New("unsupported argument")

	// ErrUnsupportedResult is returned when a script returns a value with no Go form.
	ErrUnsupportedResult = errors.New("unsupported result")
)
