package data

import (
	"context"
	"errors"
	"fmt"
)

// CompositeProvider combines multiple providers, with later providers
// overriding values from earlier ones in the chain.
type CompositeProvider struct {
	providers []Provider
}

// NewCompositeProvider creates a provider that queries given providers in order.
func NewCompositeProvider(providers ...Provider) *CompositeProvider {
	return &CompositeProvider{
		providers: providers,
	}
}

// GetData merges the data of every provider, in order. Nested maps are merged
// deeply; any other value from a later provider replaces the earlier one.
func (p *CompositeProvider) GetData(ctx context.Context) (map[string]any, error) {
	result := make(map[string]any)

	for i, provider := range p.providers {
		if provider == nil {
			continue
		}

		data, err := provider.GetData(ctx)
		if err != nil {
			return nil, fmt.Errorf("error from provider %d: %w", i, err)
		}
		result = merged(result, data)
	}

	return result, nil
}

// AddDataToContext hands the data to every provider in the chain. Static providers
// refusing runtime data are tolerated as long as some other provider accepts it.
func (p *CompositeProvider) AddDataToContext(
	ctx context.Context,
	data ...map[string]any,
) (context.Context, error) {
	finalCtx := ctx

	var errs, staticErrs []error
	dynamic, accepted := 0, 0

	for i, provider := range p.providers {
		if provider == nil {
			continue
		}

		_, isStatic := provider.(*StaticProvider)
		if !isStatic {
			dynamic++
		}

		nextCtx, err := provider.AddDataToContext(finalCtx, data...)
		if err != nil {
			wrapped := fmt.Errorf("error from provider %d: %w", i, err)
			if isStatic && errors.Is(err, ErrStaticProviderNoRuntimeUpdates) {
				staticErrs = append(staticErrs, wrapped)
			} else {
				errs = append(errs, wrapped)
			}
			continue
		}

		finalCtx = nextCtx
		if !isStatic {
			accepted++
		}
	}

	switch {
	case dynamic == 0 && len(staticErrs) > 0:
		return ctx, errors.Join(staticErrs...)
	case dynamic > 0 && accepted == 0 && len(errs) > 0:
		return ctx, errors.Join(errs...)
	}
	return finalCtx, nil
}
