package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/robbyt/go-seval/platform"
	"github.com/robbyt/go-seval/platform/data"
)

func TestEvaluatorImplementsPlatformEvaluator(t *testing.T) {
	t.Parallel()
	var _ platform.Evaluator = (*Evaluator)(nil)
	var _ platform.EvaluatorResponse = (*EvaluatorResponse)(nil)
}

func TestEvaluator(t *testing.T) {
	t.Parallel()

	resp := new(EvaluatorResponse)
	resp.On("Interface").Return(4950.0)

	m := new(Evaluator)
	m.On("Eval", mock.Anything).Return(resp, nil)
	m.On("AddDataToContext", mock.Anything, mock.Anything).Return(context.Background(), nil)

	ctx, err := m.AddDataToContext(context.Background(), map[string]any{"n": 100})
	require.NoError(t, err)

	got, err := m.Eval(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4950.0, got.Interface())
	m.AssertExpectations(t)
	resp.AssertExpectations(t)

	failing := new(Evaluator)
	failing.On("Eval", mock.Anything).Return(nil, assert.AnError)
	got, err = failing.Eval(context.Background())
	require.ErrorIs(t, err, assert.AnError)
	assert.Nil(t, got)
}

func TestEvaluatorResponse_Type(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
		want  data.Types
	}{
		{name: "explicit", value: data.NULL, want: data.NULL},
		{name: "nil", value: nil, want: data.UNDEFINED},
		{name: "bool", value: true, want: data.BOOL},
		{name: "int", value: 3, want: data.NUMBER},
		{name: "float", value: 1.5, want: data.NUMBER},
		{name: "string", value: "x", want: data.STRING},
		{name: "list", value: []any{1}, want: data.LIST},
		{name: "map", value: map[string]any{}, want: data.MAP},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			resp := new(EvaluatorResponse)
			resp.On("Type").Return(tt.value)
			assert.Equal(t, tt.want, resp.Type())
		})
	}

	t.Run("unknown panics", func(t *testing.T) {
		t.Parallel()
		resp := new(EvaluatorResponse)
		resp.On("Type").Return(struct{}{})
		assert.Panics(t, func() { resp.Type() })
	})
}
