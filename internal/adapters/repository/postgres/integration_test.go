package postgres

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/vncsmyrnk/queridometro/internal/core/domain"
)

func setupPostgres(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}

	ctx := context.Background()
	pgContainer, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("user"),
		tcpostgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgContainer.Terminate(context.Background()) })

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := Open(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, Migrate(ctx, db, slog.New(slog.NewTextHandler(io.Discard, nil))))
	return db
}

func TestIntegration_VoteRepository(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()
	repo := NewVoteRepository(db)

	require.NoError(t, repo.AppendBallot(ctx, ballot("Ana", "Bea", "Cid")))

	err := repo.AppendBallot(ctx, ballot("Ana", "Dan", "Cid"))
	require.ErrorIs(t, err, domain.ErrConflict)

	n, err := repo.CountByDay(ctx, "2026-10-16")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	voted, err := repo.HasVoted(ctx, "Ana", "2026-10-16")
	require.NoError(t, err)
	assert.True(t, voted)

	records, err := repo.ListByDay(ctx, "2026-10-16")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Ana", records[0].Voter)
}

func TestIntegration_ConcurrentBallotsFromOneVoter(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()
	repo := NewVoteRepository(db)

	var wg sync.WaitGroup
	errs := make(chan error, 6)
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.AppendBallot(ctx, ballot("Bea", "Ana", "Cid"))
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

func TestIntegration_CredentialRepository(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()
	repo := NewCredentialRepository(db)

	c, err := repo.Get(ctx, "Ana")
	require.NoError(t, err)
	assert.Nil(t, c)

	require.NoError(t, repo.Create(ctx, &domain.Credential{Person: "Ana", Secret: "hash", CreatedAt: time.Now()}))
	assert.ErrorIs(t, repo.Create(ctx, &domain.Credential{Person: "Ana", Secret: "x", CreatedAt: time.Now()}), domain.ErrConflict)

	c, err = repo.Get(ctx, "Ana")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "hash", c.Secret)
}
