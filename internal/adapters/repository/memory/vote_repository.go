package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/vncsmyrnk/queridometro/internal/core/domain"
)

type voteKey struct {
	voter  string
	target string
	day    domain.DayKey
}

// VoteRepository keeps vote records in process memory with the same
// (voter, target, day) uniqueness as the SQL backends.
type VoteRepository struct {
	mu      sync.RWMutex
	records []domain.VoteRecord
	keys    map[voteKey]struct{}
}

func NewVoteRepository() *VoteRepository {
	return &VoteRepository{keys: make(map[voteKey]struct{})}
}

func (r *VoteRepository) HasVoted(ctx context.Context, voter domain.Person, day domain.DayKey) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.records {
		if rec.Voter == string(voter) && rec.Day == day {
			return true, nil
		}
	}
	return false, nil
}

func (r *VoteRepository) AppendBallot(ctx context.Context, records []domain.VoteRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	batch := make(map[voteKey]struct{}, len(records))
	for _, rec := range records {
		k := voteKey{voter: rec.Voter, target: rec.Target, day: rec.Day}
		if _, ok := r.keys[k]; ok {
			return domain.ErrConflict
		}
		if _, ok := batch[k]; ok {
			return domain.ErrConflict
		}
		batch[k] = struct{}{}
	}

	for k := range batch {
		r.keys[k] = struct{}{}
	}
	r.records = append(r.records, records...)
	return nil
}

func (r *VoteRepository) ListByDay(ctx context.Context, day domain.DayKey) ([]domain.VoteRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.VoteRecord
	for _, rec := range r.records {
		if rec.Day == day {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *VoteRepository) CountByDay(ctx context.Context, day domain.DayKey) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, rec := range r.records {
		if rec.Day == day {
			n++
		}
	}
	return n, nil
}

// Import stores records as-is, without the uniqueness check. It stands in
// for rows that reached the store before the constraint existed.
func (r *VoteRepository) Import(records ...domain.VoteRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, slices.Clone(records)...)
}
