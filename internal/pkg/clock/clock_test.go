package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMockClock(t *testing.T) {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("fixed clock does not move", func(t *testing.T) {
		clk := NewMockClock(start)
		assert.Equal(t, start, clk.Now())
		assert.Equal(t, start, clk.Now())
	})

	t.Run("advance and set", func(t *testing.T) {
		clk := NewMockClock(start)
		clk.Advance(time.Hour)
		assert.Equal(t, start.Add(time.Hour), clk.Now())
		clk.Set(start)
		assert.Equal(t, start, clk.Now())
	})

	t.Run("ticking clock is strictly increasing", func(t *testing.T) {
		clk := NewTickingClock(start, time.Millisecond)
		first := clk.Now()
		second := clk.Now()
		assert.True(t, second.After(first))
	})
}
