package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/queridometro/internal/core/domain"
	"github.com/vncsmyrnk/queridometro/internal/core/ports"
)

type ledgerService struct {
	roster  *domain.Roster
	repo    ports.VoteRepository
	session *DaySession
	timeout time.Duration
	logger  *slog.Logger
}

func NewLedgerService(repo ports.VoteRepository, roster *domain.Roster, session *DaySession, timeout time.Duration, logger *slog.Logger) ports.LedgerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ledgerService{
		roster:  roster,
		repo:    repo,
		session: session,
		timeout: timeout,
		logger:  logger,
	}
}

func (s *ledgerService) HasVotedToday(ctx context.Context, person domain.Person) (bool, error) {
	if !s.roster.Contains(person) {
		return false, fmt.Errorf("%w: %q", domain.ErrUnknownPerson, person)
	}
	return s.hasVoted(ctx, person, s.session.Day())
}

func (s *ledgerService) SubmitBallot(ctx context.Context, voter domain.Person, ballot domain.Ballot) (*domain.BallotOutcome, error) {
	return s.submit(ctx, voter, func() (domain.Ballot, error) {
		return ballot, nil
	})
}

// SubmitChoices takes target names as typed by the voter. They are resolved
// through the roster only after the already-voted check.
func (s *ledgerService) SubmitChoices(ctx context.Context, voter domain.Person, choices map[string]string) (*domain.BallotOutcome, error) {
	return s.submit(ctx, voter, func() (domain.Ballot, error) {
		for raw := range choices {
			if target, ok := s.roster.Match(raw); ok && target == voter {
				return nil, domain.ErrSelfVote
			}
		}
		return s.roster.BallotFrom(choices)
	})
}

func (s *ledgerService) submit(ctx context.Context, voter domain.Person, build func() (domain.Ballot, error)) (*domain.BallotOutcome, error) {
	if !s.roster.Contains(voter) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownPerson, voter)
	}

	day := s.session.Day()

	voted, err := s.hasVoted(ctx, voter, day)
	if err != nil {
		return nil, err
	}
	if voted {
		return nil, domain.ErrAlreadyVoted
	}

	ballot, err := build()
	if err != nil {
		return nil, err
	}
	if err := s.roster.ValidateBallot(voter, ballot); err != nil {
		return nil, err
	}

	ballotID := uuid.New()
	records := s.roster.Records(voter, ballot, day, ballotID, s.session.Clock().Now())

	appendCtx, cancel := withStoreTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.repo.AppendBallot(appendCtx, records); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			s.session.MarkVoted(day, voter)
			return nil, domain.ErrAlreadyVoted
		}
		s.logger.ErrorContext(ctx, "ballot append failed", "day", day, "ballot_id", ballotID, "error", err)
		return nil, storeError("append ballot", err)
	}

	s.session.MarkVoted(day, voter)
	s.session.InvalidateTally()
	s.logger.InfoContext(ctx, "ballot accepted", "day", day, "ballot_id", ballotID, "records", len(records))

	return &domain.BallotOutcome{
		Status:   domain.BallotAccepted,
		BallotID: ballotID,
		Day:      day,
		Records:  len(records),
	}, nil
}

func (s *ledgerService) hasVoted(ctx context.Context, person domain.Person, day domain.DayKey) (bool, error) {
	ctx, cancel := withStoreTimeout(ctx, s.timeout)
	defer cancel()

	voted, err := s.repo.HasVoted(ctx, person, day)
	if err != nil {
		return false, storeError("check existing vote", err)
	}
	if s.session.Reconcile(day, person, voted) {
		s.logger.WarnContext(ctx, "has-voted marker not backed by the vote store", "person", person, "day", day)
	}
	return voted, nil
}
