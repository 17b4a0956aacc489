package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScope(t *testing.T) {
	t.Parallel()

	t.Run("root starts empty", func(t *testing.T) {
		tr := NewTracker()
		assert.Equal(t, 1, tr.size())
		assert.False(t, tr.Root().IsDeclared("x"))
		assert.Empty(t, tr.Root().visible())
	})

	t.Run("child sees parent", func(t *testing.T) {
		root := NewTracker().Root()
		root.Declare("a")
		child := root.Child()
		assert.True(t, child.IsDeclared("a"))
	})

	t.Run("child declarations do not leak", func(t *testing.T) {
		root := NewTracker().Root()
		child := root.Child()
		child.Declare("b")
		assert.True(t, child.IsDeclared("b"))
		assert.False(t, root.IsDeclared("b"))
	})

	t.Run("siblings are independent", func(t *testing.T) {
		tr := NewTracker()
		root := tr.Root()
		first := root.Child()
		first.Declare("x")
		second := root.Child()
		assert.False(t, second.IsDeclared("x"))
		assert.Equal(t, 3, tr.size())
	})

	t.Run("names are merged and sorted", func(t *testing.T) {
		root := NewTracker().Root()
		root.Declare("z")
		root.Declare("a")
		child := root.Child()
		child.Declare("m")
		child.Declare("a")
		require.Equal(t, []string{"a", "m", "z"}, child.visible())
		assert.Equal(t, []string{"a", "z"}, root.visible())
	})
}
