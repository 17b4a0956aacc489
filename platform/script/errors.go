package script

import "errors"

var (
	// ErrCompiler is returned when the compiler is missing or fails.
	ErrCompiler = errors.New("compiler failed or is invalid")

	// ErrLoader is returned when the loader is missing or cannot provide a reader.
	ErrLoader = errors.New("loader failed or is invalid")
)
