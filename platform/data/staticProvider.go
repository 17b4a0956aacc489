package data

import (
	"context"
	"maps"
)

// StaticProvider returns a fixed map of values, set when the evaluator is built. Use it
// for parameters that never change between runs.
type StaticProvider struct {
	data map[string]any
}

// NewStaticProvider creates a new StaticProvider with the provided data map
func NewStaticProvider(data map[string]any) *StaticProvider {
	if data == nil {
		data = make(map[string]any)
	}
	return &StaticProvider{
		data: maps.Clone(data),
	}
}

// GetData returns a copy of the static values, regardless of the context.
func (p *StaticProvider) GetData(_ context.Context) (map[string]any, error) {
	return maps.Clone(p.data), nil
}

// AddDataToContext always fails: static values are fixed at construction time.
// With no input data the context is returned unchanged and no error is reported.
func (p *StaticProvider) AddDataToContext(
	ctx context.Context,
	data ...map[string]any,
) (context.Context, error) {
	if len(data) == 0 {
		return ctx, nil
	}
	return ctx, ErrStaticProviderNoRuntimeUpdates
}
