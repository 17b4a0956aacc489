package data

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	// parameter values as a host would bind them
	simpleData = map[string]any{
		"price": 12.5,
		"qty":   3,
		"name":  "widget",
	}

	nestedData = map[string]any{
		"qty": 4,
		"limits": map[string]any{
			"max": 10,
			"min": map[string]any{"hard": 1},
		},
		"tags": []any{"a", "b"},
	}
)

// MockProvider is a testify mock implementation of Provider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) GetData(ctx context.Context) (map[string]any, error) {
	args := m.Called(ctx)
	data, _ := args.Get(0).(map[string]any)
	return data, args.Error(1)
}

func (m *MockProvider) AddDataToContext(
	ctx context.Context,
	data ...map[string]any,
) (context.Context, error) {
	args := m.Called(ctx, data)
	newCtx, _ := args.Get(0).(context.Context)
	return newCtx, args.Error(1)
}

func newMockErrorProvider() *MockProvider {
	provider := new(MockProvider)
	provider.On("GetData", mock.Anything).Return(nil, assert.AnError)
	provider.On("AddDataToContext", mock.Anything, mock.Anything).Return(nil, assert.AnError)
	return provider
}

// getDataCheckHelper checks if multiple calls to GetData return consistent results
func getDataCheckHelper(t *testing.T, provider Provider, ctx context.Context) {
	t.Helper()
	result1, err1 := provider.GetData(ctx)
	require.NoError(t, err1)

	result2, err2 := provider.GetData(ctx)
	require.NoError(t, err2)

	assert.Equal(t, result1, result2, "Multiple GetData calls should return consistent results")
}
