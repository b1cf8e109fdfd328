package services

import (
	"sync"

	"github.com/vncsmyrnk/queridometro/internal/core/domain"
)

// DaySession keeps the day-scoped state of this process: a has-voted
// marker set and the last computed tally. Everything is dropped when the
// session clock rolls over. The marker is advisory; the vote repository
// stays authoritative.
type DaySession struct {
	clock *SessionClock

	mu       sync.Mutex
	day      domain.DayKey
	voted    map[domain.Person]struct{}
	snapshot *tallySnapshot
}

type tallySnapshot struct {
	tally   *domain.Tally
	voters  int
	records int
}

func NewDaySession(clock *SessionClock) *DaySession {
	return &DaySession{clock: clock}
}

func (s *DaySession) Clock() *SessionClock {
	return s.clock
}

// Day returns the current day key, resetting state on rollover.
func (s *DaySession) Day() domain.DayKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rollLocked()
}

func (s *DaySession) rollLocked() domain.DayKey {
	if s.day == "" || s.clock.HasRolledOver(s.day) {
		s.day = s.clock.CurrentDayKey()
		s.voted = make(map[domain.Person]struct{})
		s.snapshot = nil
	}
	return s.day
}

func (s *DaySession) MarkVoted(day domain.DayKey, person domain.Person) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rollLocked() != day {
		return
	}
	s.voted[person] = struct{}{}
}

func (s *DaySession) markedVoted(person domain.Person) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rollLocked()
	_, ok := s.voted[person]
	return ok
}

// Reconcile aligns the marker of person with what the vote store reported
// for day and tells whether the marker claimed a vote the store does not have.
func (s *DaySession) Reconcile(day domain.DayKey, person domain.Person, voted bool) (stale bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rollLocked() != day {
		return false
	}
	_, marked := s.voted[person]
	if voted {
		s.voted[person] = struct{}{}
		return false
	}
	delete(s.voted, person)
	return marked
}

func (s *DaySession) cached(day domain.DayKey, records int) (*tallySnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rollLocked() != day || s.snapshot == nil || s.snapshot.records != records {
		return nil, false
	}
	return s.snapshot, true
}

func (s *DaySession) store(day domain.DayKey, snap *tallySnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rollLocked() != day {
		return
	}
	s.snapshot = snap
}

func (s *DaySession) InvalidateTally() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = nil
}
