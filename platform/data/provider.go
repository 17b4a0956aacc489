package data

import (
	"context"
)

// Getter defines the interface for retrieving parameter values from a context.
type Getter interface {
	GetData(ctx context.Context) (map[string]any, error)
}

// Setter prepares parameter values for evaluation by enriching a context.
// Preparing data and evaluating are separate steps, so they can happen in different places.
type Setter interface {
	// AddDataToContext stores named values in a context, later read back by the
	// ExecutableUnit's DataProvider when Eval binds parameters by name.
	//
	// Example:
	//  enrichedCtx, err := evaluator.AddDataToContext(ctx, map[string]any{"price": 12.5, "qty": 3})
	//  if err != nil {
	//      return err
	//  }
	//  result, err := evaluator.Eval(enrichedCtx)
	AddDataToContext(ctx context.Context, data ...map[string]any) (context.Context, error)
}

// Provider defines the interface for accessing runtime data for script execution.
type Provider interface {
	Getter
	Setter
}
