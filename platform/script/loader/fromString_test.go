package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbyt/go-seval/internal/helpers"
)

func TestNewFromString(t *testing.T) {
	t.Parallel()

	t.Run("valid content", func(t *testing.T) {
		tests := []struct {
			name    string
			content string
		}{
			{name: "simple", content: simpleContent},
			{name: "multiline", content: multilineContent},
			{name: "surrounding whitespace is kept", content: "\n\n  return 1;  \n"},
			{name: "unicode", content: "return 'π';"},
			{name: "empty", content: ""},
			{name: "only whitespace", content: "\n\t\r\n"},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				l, err := NewFromString(tc.content)
				require.NoError(t, err)
				verifyLoader(t, l, "string://inline/"+helpers.ShortID(tc.content, 8), tc.content)
				assert.Contains(t, l.String(), "loader.FromString")
			})
		}
	})
}
