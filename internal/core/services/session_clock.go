package services

import (
	"time"

	"github.com/vncsmyrnk/queridometro/internal/core/domain"
	"github.com/vncsmyrnk/queridometro/internal/core/ports"
)

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// SessionClock derives day keys from an injected clock in a fixed
// reference timezone.
type SessionClock struct {
	clock ports.Clock
	loc   *time.Location
}

func NewSessionClock(clock ports.Clock, loc *time.Location) *SessionClock {
	if clock == nil {
		clock = SystemClock{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &SessionClock{clock: clock, loc: loc}
}

func (c *SessionClock) Now() time.Time {
	return c.clock.Now()
}

func (c *SessionClock) CurrentDayKey() domain.DayKey {
	return domain.DayKeyOf(c.clock.Now(), c.loc)
}

func (c *SessionClock) HasRolledOver(previous domain.DayKey) bool {
	return c.CurrentDayKey() != previous
}
