package ports

import (
	"context"

	"github.com/vncsmyrnk/queridometro/internal/core/domain"
)

type TallyService interface {
	ComputeTally(ctx context.Context, day domain.DayKey) (*domain.Tally, error)
	CanDisclose(ctx context.Context, day domain.DayKey) (bool, int, error)
	Disclose(ctx context.Context, day domain.DayKey) (*domain.Disclosure, error)
}
