package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/vncsmyrnk/queridometro/internal/core/domain"
	"github.com/vncsmyrnk/queridometro/internal/core/ports"
)

const DefaultQuorumThreshold = 5

type tallyService struct {
	roster    *domain.Roster
	repo      ports.VoteRepository
	session   *DaySession
	threshold int
	timeout   time.Duration
	logger    *slog.Logger
}

func NewTallyService(repo ports.VoteRepository, roster *domain.Roster, session *DaySession, threshold int, timeout time.Duration, logger *slog.Logger) ports.TallyService {
	if threshold < 1 {
		threshold = DefaultQuorumThreshold
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &tallyService{
		roster:    roster,
		repo:      repo,
		session:   session,
		threshold: threshold,
		timeout:   timeout,
		logger:    logger,
	}
}

func (s *tallyService) ComputeTally(ctx context.Context, day domain.DayKey) (*domain.Tally, error) {
	snap, err := s.snapshot(ctx, day)
	if err != nil {
		return nil, err
	}
	return snap.tally, nil
}

func (s *tallyService) CanDisclose(ctx context.Context, day domain.DayKey) (bool, int, error) {
	snap, err := s.snapshot(ctx, day)
	if err != nil {
		return false, 0, err
	}
	return snap.voters >= s.threshold, snap.voters, nil
}

func (s *tallyService) Disclose(ctx context.Context, day domain.DayKey) (*domain.Disclosure, error) {
	snap, err := s.snapshot(ctx, day)
	if err != nil {
		return nil, err
	}

	disclosure := &domain.Disclosure{
		Day:       day,
		Voters:    snap.voters,
		Threshold: s.threshold,
	}
	if snap.voters < s.threshold {
		disclosure.Withheld = true
		return disclosure, nil
	}
	disclosure.Tally = snap.tally
	return disclosure, nil
}

func (s *tallyService) snapshot(ctx context.Context, day domain.DayKey) (*tallySnapshot, error) {
	ctx, cancel := withStoreTimeout(ctx, s.timeout)
	defer cancel()

	current := day == s.session.Day()
	if current {
		count, err := s.repo.CountByDay(ctx, day)
		if err != nil {
			return nil, storeError("count votes", err)
		}
		if snap, ok := s.session.cached(day, count); ok {
			return snap, nil
		}
	}

	records, err := s.repo.ListByDay(ctx, day)
	if err != nil {
		return nil, storeError("list votes", err)
	}

	tally := domain.FoldTally(s.roster, day, records)
	for _, w := range tally.Skipped {
		s.logger.WarnContext(ctx, "skipping vote record that does not match the roster",
			"day", day, "record_id", w.RecordID, "field", w.Field, "value", w.Value)
	}

	snap := &tallySnapshot{
		tally:   tally,
		voters:  domain.DistinctVoters(records),
		records: len(records),
	}
	if current {
		s.session.store(day, snap)
	}
	return snap, nil
}
