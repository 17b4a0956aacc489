package data

import (
	"context"
	"errors"
	"fmt"

	"github.com/robbyt/go-seval/platform/constants"
)

// ContextProvider keeps parameter values in a context under one key, so values can be
// prepared per request and read back by Eval.
type ContextProvider struct {
	contextKey constants.ContextKey
}

// NewContextProvider stores and reads its map under contextKey.
func NewContextProvider(contextKey constants.ContextKey) *ContextProvider {
	return &ContextProvider{
		contextKey: contextKey,
	}
}

// GetData returns the map stored in ctx, or an empty map when nothing was stored.
func (p *ContextProvider) GetData(ctx context.Context) (map[string]any, error) {
	if p.contextKey == "" {
		return nil, ErrContextKeyEmpty
	}

	switch value := ctx.Value(p.contextKey).(type) {
	case nil:
		return make(map[string]any), nil
	case map[string]any:
		return value, nil
	default:
		return nil, fmt.Errorf("invalid input data type: expected map[string]any, got %T", value)
	}
}

// AddDataToContext merges the provided maps into the data already stored in the
// context. Nested maps are merged recursively and later values override earlier
// ones. The context's existing map is never mutated. Entries with an empty key, at
// any depth, are dropped and reported while the rest are still stored.
func (p *ContextProvider) AddDataToContext(
	ctx context.Context,
	data ...map[string]any,
) (context.Context, error) {
	if p.contextKey == "" {
		return ctx, ErrContextKeyEmpty
	}

	existing, _ := ctx.Value(p.contextKey).(map[string]any)
	toStore := merged(existing, nil)

	var errz []error
	for _, dataMap := range data {
		for key, value := range dataMap {
			if key == "" {
				errz = append(errz, ErrEmptyKey)
				continue
			}
			if err := checkKeys(value); err != nil {
				errz = append(errz, fmt.Errorf("processing value for key '%s': %w", key, err))
				continue
			}
			mergeInto(toStore, key, copyValue(value))
		}
	}

	return context.WithValue(ctx, p.contextKey, toStore), errors.Join(errz...)
}
