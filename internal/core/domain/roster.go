package domain

import (
	"fmt"
	"slices"
	"strings"
)

type Person string

type Emoji string

// Roster is the deployment's fixed list of participants and the emoji they
// may hand out. It is immutable once built.
type Roster struct {
	people []Person
	emojis []Emoji
	byKey  map[string]Person
	emoji  map[Emoji]struct{}
}

// NewRoster validates and builds a roster. People are sorted by their
// normalized form; emoji keep the given display order.
func NewRoster(people []string, emojis []string) (*Roster, error) {
	if len(people) < 2 {
		return nil, fmt.Errorf("%w: at least two people are required", ErrInvalidRoster)
	}
	if len(emojis) == 0 {
		return nil, fmt.Errorf("%w: at least one emoji is required", ErrInvalidRoster)
	}

	r := &Roster{
		byKey: make(map[string]Person, len(people)),
		emoji: make(map[Emoji]struct{}, len(emojis)),
	}

	for _, name := range people {
		name = strings.TrimSpace(name)
		key := Normalize(name)
		if key == "" {
			return nil, fmt.Errorf("%w: blank person name", ErrInvalidRoster)
		}
		if existing, ok := r.byKey[key]; ok {
			return nil, fmt.Errorf("%w: %q and %q", ErrAmbiguousRoster, existing, name)
		}
		r.byKey[key] = Person(name)
		r.people = append(r.people, Person(name))
	}

	slices.SortFunc(r.people, func(a, b Person) int {
		if c := strings.Compare(Normalize(string(a)), Normalize(string(b))); c != 0 {
			return c
		}
		return strings.Compare(string(a), string(b))
	})

	for _, e := range emojis {
		e = strings.TrimSpace(e)
		if e == "" {
			return nil, fmt.Errorf("%w: blank emoji", ErrInvalidRoster)
		}
		if _, ok := r.emoji[Emoji(e)]; ok {
			return nil, fmt.Errorf("%w: duplicate emoji %q", ErrInvalidRoster, e)
		}
		r.emoji[Emoji(e)] = struct{}{}
		r.emojis = append(r.emojis, Emoji(e))
	}

	return r, nil
}

func (r *Roster) People() []Person {
	return slices.Clone(r.people)
}

func (r *Roster) Emojis() []Emoji {
	return slices.Clone(r.emojis)
}

func (r *Roster) Size() int {
	return len(r.people)
}

// Match resolves raw text to the roster entry sharing its normalized form.
// The boolean is false when nothing matches; callers are expected to skip
// the input rather than fail.
func (r *Roster) Match(raw string) (Person, bool) {
	p, ok := r.byKey[Normalize(raw)]
	return p, ok
}

// Contains reports whether p is a canonical roster entry.
func (r *Roster) Contains(p Person) bool {
	matched, ok := r.Match(string(p))
	return ok && matched == p
}

func (r *Roster) HasEmoji(e Emoji) bool {
	_, ok := r.emoji[e]
	return ok
}

// Others returns every person except voter, in roster order.
func (r *Roster) Others(voter Person) []Person {
	others := make([]Person, 0, len(r.people))
	for _, p := range r.people {
		if p != voter {
			others = append(others, p)
		}
	}
	return others
}
