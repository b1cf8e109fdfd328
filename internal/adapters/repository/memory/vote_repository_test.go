package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/queridometro/internal/core/domain"
)

func rec(voter, target string, day domain.DayKey) domain.VoteRecord {
	return domain.VoteRecord{ID: uuid.New(), Voter: voter, Target: target, Emoji: "❤️", Day: day}
}

func TestVoteRepository_AppendAndQuery(t *testing.T) {
	ctx := context.Background()
	repo := NewVoteRepository()

	require.NoError(t, repo.AppendBallot(ctx, []domain.VoteRecord{
		rec("Ana", "Bea", "2026-10-16"),
		rec("Ana", "Cid", "2026-10-16"),
	}))
	require.NoError(t, repo.AppendBallot(ctx, []domain.VoteRecord{rec("Ana", "Bea", "2026-10-15")}))

	voted, err := repo.HasVoted(ctx, "Ana", "2026-10-16")
	require.NoError(t, err)
	assert.True(t, voted)

	voted, err = repo.HasVoted(ctx, "Bea", "2026-10-16")
	require.NoError(t, err)
	assert.False(t, voted)

	records, err := repo.ListByDay(ctx, "2026-10-16")
	require.NoError(t, err)
	assert.Len(t, records, 2)

	n, err := repo.CountByDay(ctx, "2026-10-15")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestVoteRepository_ConflictWritesNothing(t *testing.T) {
	ctx := context.Background()
	repo := NewVoteRepository()

	require.NoError(t, repo.AppendBallot(ctx, []domain.VoteRecord{rec("Ana", "Cid", "2026-10-16")}))

	err := repo.AppendBallot(ctx, []domain.VoteRecord{
		rec("Ana", "Bea", "2026-10-16"),
		rec("Ana", "Cid", "2026-10-16"),
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	n, err := repo.CountByDay(ctx, "2026-10-16")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestVoteRepository_ConcurrentSameVoter(t *testing.T) {
	ctx := context.Background()
	repo := NewVoteRepository()

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.AppendBallot(ctx, []domain.VoteRecord{
				rec("Ana", "Bea", "2026-10-16"),
				rec("Ana", "Cid", "2026-10-16"),
			})
		}()
	}
	wg.Wait()
	close(errs)

	accepted := 0
	for err := range errs {
		if err == nil {
			accepted++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrConflict)
	}
	assert.Equal(t, 1, accepted)

	n, err := repo.CountByDay(ctx, "2026-10-16")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestVoteRepository_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewVoteRepository().ListByDay(ctx, "2026-10-16")
	assert.ErrorIs(t, err, context.Canceled)
}
