package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/queridometro/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/queridometro/internal/core/domain"
	"github.com/vncsmyrnk/queridometro/internal/core/ports"
)

var testEmojis = []string{"❤️", "🤥", "🤮", "🐍"}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEngine struct {
	roster      *domain.Roster
	clock       *fakeClock
	session     *DaySession
	votes       *memory.VoteRepository
	credentials ports.CredentialRepository
	ledger      ports.LedgerService
	tally       ports.TallyService
	tokens      ports.TokenService
	identity    ports.IdentityService
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(t *testing.T, threshold int, people ...string) *testEngine {
	t.Helper()
	return newTestEngineWithRepo(t, threshold, nil, people...)
}

func newTestEngineWithRepo(t *testing.T, threshold int, repo ports.VoteRepository, people ...string) *testEngine {
	t.Helper()

	roster, err := domain.NewRoster(people, testEmojis)
	require.NoError(t, err)

	e := &testEngine{
		roster:      roster,
		clock:       newFakeClock(),
		votes:       memory.NewVoteRepository(),
		credentials: memory.NewCredentialRepository(),
	}
	if repo == nil {
		repo = e.votes
	}

	logger := discardLogger()
	e.session = NewDaySession(NewSessionClock(e.clock, time.UTC))
	e.ledger = NewLedgerService(repo, roster, e.session, 50*time.Millisecond, logger)
	e.tally = NewTallyService(repo, roster, e.session, threshold, 50*time.Millisecond, logger)
	e.tokens = NewTokenService("test-secret", time.Hour, e.clock)
	e.identity = NewIdentityService(e.credentials, e.ledger, e.tokens, roster, e.session.Clock(), 50*time.Millisecond, logger)
	return e
}

// completeBallot gives every other person the first emoji.
func (e *testEngine) completeBallot(voter domain.Person) domain.Ballot {
	b := domain.Ballot{}
	for _, p := range e.roster.Others(voter) {
		b[p] = domain.Emoji(testEmojis[0])
	}
	return b
}

func (e *testEngine) submit(t *testing.T, voter domain.Person) {
	t.Helper()
	_, err := e.ledger.SubmitBallot(context.Background(), voter, e.completeBallot(voter))
	require.NoError(t, err)
}

type faultyVoteRepo struct {
	*memory.VoteRepository
	hasVotedErr error
	appendErr   error
	block       bool
}

func (r *faultyVoteRepo) HasVoted(ctx context.Context, voter domain.Person, day domain.DayKey) (bool, error) {
	if r.block {
		<-ctx.Done()
		return false, ctx.Err()
	}
	if r.hasVotedErr != nil {
		return false, r.hasVotedErr
	}
	return r.VoteRepository.HasVoted(ctx, voter, day)
}

func (r *faultyVoteRepo) AppendBallot(ctx context.Context, records []domain.VoteRecord) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	return r.VoteRepository.AppendBallot(ctx, records)
}
