package autowire

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracker(t *testing.T) {
	t.Run("it should track the resolution chain", func(t *testing.T) {
		// GIVEN
		tracker := NewTracker()

		// WHEN
		tracker.Push("app.Car")
		tracker.Push("app.Engine")

		// THEN
		assert.Equal(t, 2, tracker.Depth())
		assert.Equal(t, "app.Car -> app.Engine", tracker.String())
		assert.Equal(t, []string{"app.Car", "app.Engine"}, tracker.Path())
	})

	t.Run("it should return copies of the path", func(t *testing.T) {
		// GIVEN
		tracker := NewTracker()
		tracker.Push("app.Car")
		path := tracker.Path()

		// WHEN
		popped := tracker.Pop()

		// THEN
		assert.Equal(t, "app.Car", popped)
		assert.Equal(t, []string{"app.Car"}, path)
		assert.Equal(t, 0, tracker.Depth())
	})

	t.Run("it should allow the same type twice in the chain", func(t *testing.T) {
		// GIVEN
		tracker := NewTracker()

		// WHEN
		tracker.Push("app.Node")
		tracker.Push("app.Node")

		// THEN
		assert.Equal(t, "app.Node -> app.Node", tracker.String())
	})

	t.Run("it should panic when popping an empty tracker", func(t *testing.T) {
		assert.Panics(t, func() { NewTracker().Pop() })
	})
}
