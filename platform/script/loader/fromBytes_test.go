package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbyt/go-seval/internal/helpers"
)

func TestNewFromBytes(t *testing.T) {
	t.Parallel()

	t.Run("valid content", func(t *testing.T) {
		tests := []struct {
			name    string
			content []byte
		}{
			{name: "simple", content: []byte(simpleContent)},
			{name: "multiline", content: []byte(multilineContent)},
			{name: "mixed line endings", content: []byte("let a = 1;\r\nreturn a;")},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				l, err := NewFromBytes(tc.content)
				require.NoError(t, err)
				hash := helpers.SHA256Bytes(tc.content)[:8]
				verifyLoader(t, l, "bytes://inline/"+hash, string(tc.content))
			})
		}
	})

	t.Run("input is copied", func(t *testing.T) {
		in := []byte("return 1;")
		l, err := NewFromBytes(in)
		require.NoError(t, err)
		in[7] = '2'
		assert.Equal(t, "return 1;", readAll(t, l))
	})

	t.Run("blank content", func(t *testing.T) {
		for _, content := range [][]byte{nil, {}, []byte("   \n\t   ")} {
			l, err := NewFromBytes(content)
			require.NoError(t, err)
			assert.Equal(t, string(content), readAll(t, l))
		}
	})
}
