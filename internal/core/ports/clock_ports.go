package ports

import (
	"time"

	"github.com/vncsmyrnk/queridometro/internal/core/domain"
)

type Clock interface {
	Now() time.Time
}

// DayClock reports the current voting day in the reference timezone.
type DayClock interface {
	CurrentDayKey() domain.DayKey
}
