package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// VoteRecord is one stored (voter, target, emoji, day) tuple. Voter and
// Target hold whatever text the store has; they are resolved against the
// roster only when a tally is folded.
type VoteRecord struct {
	ID        uuid.UUID `json:"id"`
	BallotID  uuid.UUID `json:"ballot_id"`
	Voter     string    `json:"voter"`
	Target    string    `json:"target"`
	Emoji     Emoji     `json:"emoji"`
	Day       DayKey    `json:"day"`
	CreatedAt time.Time `json:"created_at"`
}

// Ballot is one voter's emoji choice per target.
type Ballot map[Person]Emoji

// BallotFrom resolves raw target names through the roster and builds a
// typed ballot. Two spellings of the same person are rejected.
func (r *Roster) BallotFrom(choices map[string]string) (Ballot, error) {
	ballot := make(Ballot, len(choices))
	for _, raw := range sortedKeys(choices) {
		target, ok := r.Match(raw)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPerson, raw)
		}
		if _, dup := ballot[target]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateTarget, target)
		}
		emoji := Emoji(strings.TrimSpace(choices[raw]))
		if !r.HasEmoji(emoji) {
			return nil, fmt.Errorf("%w: %q for %q", ErrUnknownEmoji, emoji, target)
		}
		ballot[target] = emoji
	}
	return ballot, nil
}

// ValidateBallot checks that b names every roster person other than voter
// exactly once, with emoji from the roster's set.
func (r *Roster) ValidateBallot(voter Person, b Ballot) error {
	if !r.Contains(voter) {
		return fmt.Errorf("%w: voter %q", ErrUnknownPerson, voter)
	}
	if _, ok := b[voter]; ok {
		return ErrSelfVote
	}

	targets := make([]Person, 0, len(b))
	for target := range b {
		targets = append(targets, target)
	}
	slices.Sort(targets)

	for _, target := range targets {
		if !r.Contains(target) {
			return fmt.Errorf("%w: %q", ErrUnknownPerson, target)
		}
		if !r.HasEmoji(b[target]) {
			return fmt.Errorf("%w: %q for %q", ErrUnknownEmoji, b[target], target)
		}
	}

	var missing []string
	for _, p := range r.Others(voter) {
		if _, ok := b[p]; !ok {
			missing = append(missing, string(p))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIncompleteBallot, strings.Join(missing, ", "))
	}

	return nil
}

// Records expands a validated ballot into the vote records of one
// submission, in roster order.
func (r *Roster) Records(voter Person, b Ballot, day DayKey, ballotID uuid.UUID, now time.Time) []VoteRecord {
	records := make([]VoteRecord, 0, len(b))
	for _, target := range r.Others(voter) {
		emoji, ok := b[target]
		if !ok {
			continue
		}
		records = append(records, VoteRecord{
			ID:        uuid.New(),
			BallotID:  ballotID,
			Voter:     string(voter),
			Target:    string(target),
			Emoji:     emoji,
			Day:       day,
			CreatedAt: now,
		})
	}
	return records
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
