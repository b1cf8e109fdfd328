package domain

import (
	"fmt"
	"time"
)

// DayKey partitions votes by calendar day, formatted as an ISO date.
type DayKey string

func DayKeyOf(t time.Time, loc *time.Location) DayKey {
	if loc == nil {
		loc = time.UTC
	}
	return DayKey(t.In(loc).Format(time.DateOnly))
}

func ParseDayKey(s string) (DayKey, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDayKey, s)
	}
	return DayKey(t.Format(time.DateOnly)), nil
}

func (d DayKey) String() string {
	return string(d)
}
