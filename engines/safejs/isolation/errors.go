package isolation

import "errors"

var (
	// ErrCompile wraps goja compile errors, such as a `let` declared twice in one block.
	ErrCompile = errors.New("unable to compile program")

	// ErrInterrupted is returned when the caller's context ends a run.
	ErrInterrupted = errors.New("run interrupted")

	// ErrEntryMissing means the compiled program did not define the entry function.
	ErrEntryMissing = errors.New("entry function missing")
)
