package platform

import (
	"context"

	"github.com/robbyt/go-seval/platform/data"
)

// EvalOnly is the interface for the generic code evaluator.
type EvalOnly interface {
	// Eval runs the compiled script with parameter values taken from the context
	// through the ExecutableUnit's DataProvider. Compiling happens once, when the
	// evaluator is built; Eval can then be called many times.
	Eval(ctx context.Context) (EvaluatorResponse, error)
}

// Evaluator combines Eval with data preparation, so the two steps can run separately.
type Evaluator interface {
	EvalOnly
	data.Setter
}
