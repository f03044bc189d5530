package set

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	t.Run("it should report whether a value was added", func(t *testing.T) {
		// GIVEN
		s := New[string]()

		// WHEN
		first := s.Add("wheels")
		second := s.Add("wheels")

		// THEN
		assert.True(t, first)
		assert.False(t, second)
		assert.Len(t, s, 1)
		assert.True(t, s.Contains("wheels"))
		assert.False(t, s.Contains("fuel"))
	})

	t.Run("it should return sorted values", func(t *testing.T) {
		// GIVEN
		s := NewWithValues("fuel", "engine", "wheels", "engine")

		// WHEN
		values := Sorted(s)

		// THEN
		assert.Equal(t, []string{"engine", "fuel", "wheels"}, values)
	})
}
