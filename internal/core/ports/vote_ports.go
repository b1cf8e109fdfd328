package ports

import (
	"context"

	"github.com/vncsmyrnk/queridometro/internal/core/domain"
)

// VoteRepository persists the votes relation. AppendBallot must write all
// records or none; a uniqueness violation on (voter, target, day) is
// reported as domain.ErrConflict.
type VoteRepository interface {
	HasVoted(ctx context.Context, voter domain.Person, day domain.DayKey) (bool, error)
	AppendBallot(ctx context.Context, records []domain.VoteRecord) error
	ListByDay(ctx context.Context, day domain.DayKey) ([]domain.VoteRecord, error)
	CountByDay(ctx context.Context, day domain.DayKey) (int, error)
}

type LedgerService interface {
	HasVotedToday(ctx context.Context, person domain.Person) (bool, error)
	SubmitBallot(ctx context.Context, voter domain.Person, ballot domain.Ballot) (*domain.BallotOutcome, error)
	SubmitChoices(ctx context.Context, voter domain.Person, choices map[string]string) (*domain.BallotOutcome, error)
}
