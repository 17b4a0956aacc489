package platform

import "github.com/robbyt/go-seval/platform/data"

// EvaluatorResponse is the result of one evaluation.
type EvaluatorResponse interface {
	// Type reports which kind of value the script returned.
	Type() data.Types

	// Inspect returns a string representation of the value.
	Inspect() string

	// Interface converts the value to a native Go value.
	Interface() any

	// GetScriptExeID returns the ID of the ExecutableUnit that produced the value.
	GetScriptExeID() string

	// GetExecTime returns how long the run took.
	GetExecTime() string
}
