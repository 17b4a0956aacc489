package data

import (
	"context"
	"fmt"
	"log/slog"
)

// AddDataToContextHelper is the shared implementation behind every evaluator's
// AddDataToContext: it logs and forwards to the provider.
func AddDataToContextHelper(
	ctx context.Context,
	logger *slog.Logger,
	provider Provider,
	d ...map[string]any,
) (context.Context, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if provider == nil {
		logger.WarnContext(ctx, "no data provider available for context preparation")
		return ctx, ErrNoProvider
	}

	enrichedCtx, err := provider.AddDataToContext(ctx, d...)
	if err != nil {
		return ctx, fmt.Errorf("failed to prepare context: %w", err)
	}
	logger.DebugContext(ctx, "data added to context", "maps", len(d))

	return enrichedCtx, nil
}
