package data

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbyt/go-seval/platform/constants"
)

func TestAddDataToContextHelper(t *testing.T) {
	t.Parallel()

	t.Run("nil provider", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		ctx := context.Background()

		newCtx, err := AddDataToContextHelper(ctx, logger, nil, simpleData)
		require.ErrorIs(t, err, ErrNoProvider)
		assert.Equal(t, ctx, newCtx)
		assert.Contains(t, buf.String(), "no data provider available")
	})

	t.Run("nil logger falls back to the default", func(t *testing.T) {
		provider := NewContextProvider(constants.EvalData)
		ctx, err := AddDataToContextHelper(context.Background(), nil, provider, simpleData)
		require.NoError(t, err)

		result, err := provider.GetData(ctx)
		require.NoError(t, err)
		assert.Equal(t, simpleData, result)
	})

	t.Run("provider errors are wrapped", func(t *testing.T) {
		provider := NewStaticProvider(nil)
		ctx := context.Background()
		newCtx, err := AddDataToContextHelper(ctx, slog.Default(), provider, simpleData)
		require.ErrorIs(t, err, ErrStaticProviderNoRuntimeUpdates)
		assert.Contains(t, err.Error(), "failed to prepare context")
		assert.Equal(t, ctx, newCtx)
	})
}

func TestTypes_IsNil(t *testing.T) {
	t.Parallel()

	assert.True(t, UNDEFINED.IsNil())
	assert.True(t, NULL.IsNil())
	for _, typ := range []Types{BOOL, NUMBER, STRING, LIST, MAP, FUNCTION, ERROR} {
		assert.False(t, typ.IsNil(), typ)
	}
}
