package testutil

import (
	"time"

	"github.com/light-bringer/pav-service/internal/pkg/clock"
)

// NewFixedClock creates a mock clock fixed at the given time.
func NewFixedClock(t time.Time) clock.Clock {
	return clock.NewMockClock(t)
}

// NewTickingClock creates a clock starting now that advances one second per
// reading, so rows written in sequence get distinct timestamps.
func NewTickingClock() *clock.MockClock {
	return clock.NewTickingClock(time.Now().UTC().Truncate(time.Second), time.Second)
}
