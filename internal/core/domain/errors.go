package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// validation
	ErrIncompleteBallot = errors.New("ballot must cover every other person exactly once")
	ErrSelfVote         = errors.New("voter cannot vote for themself")
	ErrDuplicateTarget  = errors.New("person appears more than once in the ballot")
	ErrEmptySecret      = errors.New("secret is required")
	ErrSecretTooLong    = errors.New("secret is too long")
	ErrUnknownPerson    = errors.New("person is not on the roster")
	ErrUnknownEmoji     = errors.New("emoji is not available")
	ErrInvalidDayKey    = errors.New("invalid day key")

	// auth
	ErrInvalidCredential = errors.New("invalid credential")
	ErrAlreadyEnrolled   = errors.New("person is already enrolled")

	// conflict
	ErrAlreadyVoted = errors.New("person has already voted today")

	// persistence
	ErrPersistence = errors.New("store unavailable, safe to retry")

	// repository specific errors
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("uniqueness constraint violated")

	// configuration
	ErrInvalidRoster   = errors.New("invalid roster")
	ErrAmbiguousRoster = errors.New("roster names collide after normalization")
)

type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindAuth
	KindConflict
	KindPersistence
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindConflict:
		return "conflict"
	case KindPersistence:
		return "persistence"
	default:
		return "unknown"
	}
}

// KindOf classifies err into the engine's error taxonomy.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrPersistence):
		return KindPersistence
	case errors.Is(err, ErrAlreadyVoted):
		return KindConflict
	case errors.Is(err, ErrInvalidCredential), errors.Is(err, ErrAlreadyEnrolled):
		return KindAuth
	case errors.Is(err, ErrIncompleteBallot),
		errors.Is(err, ErrSelfVote),
		errors.Is(err, ErrDuplicateTarget),
		errors.Is(err, ErrEmptySecret),
		errors.Is(err, ErrSecretTooLong),
		errors.Is(err, ErrUnknownPerson),
		errors.Is(err, ErrUnknownEmoji),
		errors.Is(err, ErrInvalidDayKey):
		return KindValidation
	default:
		return KindUnknown
	}
}

// Retryable reports whether the whole operation may be repeated unchanged.
func Retryable(err error) bool {
	return KindOf(err) == KindPersistence
}

// IntegrityWarning describes a stored vote record that was skipped while
// folding a tally because one of its fields no longer matches the roster.
type IntegrityWarning struct {
	RecordID uuid.UUID `json:"record_id"`
	Field    string    `json:"field"`
	Value    string    `json:"value"`
}

func (w IntegrityWarning) Error() string {
	return fmt.Sprintf("vote record %s: unmatched %s %q", w.RecordID, w.Field, w.Value)
}
