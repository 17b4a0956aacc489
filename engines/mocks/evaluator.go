package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/robbyt/go-seval/platform"
)

// Evaluator is a mock implementation of platform.Evaluator for testing purposes.
type Evaluator struct {
	mock.Mock
}

// Eval is a mock implementation of the Eval method.
func (m *Evaluator) Eval(ctx context.Context) (platform.EvaluatorResponse, error) {
	args := m.Called(ctx)
	resp, _ := args.Get(0).(platform.EvaluatorResponse)
	return resp, args.Error(1)
}

// AddDataToContext is a mock implementation of the AddDataToContext method.
func (m *Evaluator) AddDataToContext(
	ctx context.Context,
	d ...map[string]any,
) (context.Context, error) {
	args := m.Called(ctx, d)
	newCtx, _ := args.Get(0).(context.Context)
	return newCtx, args.Error(1)
}
