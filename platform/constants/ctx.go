// Package constants holds the keys used to pass values through context objects.
package constants

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// EvalData is the context key holding the named parameter values read by Eval.
	EvalData ContextKey = "eval_data"

	// RunID is the context key holding the ID of the current run, when the caller set one.
	RunID ContextKey = "seval_run_id"
)
