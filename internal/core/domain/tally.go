package domain

// Tally holds per-target emoji counts for one day. Counts contains every
// roster person and every emoji, zeros included.
type Tally struct {
	Day     DayKey                   `json:"day"`
	Counts  map[Person]map[Emoji]int `json:"counts"`
	Records int                      `json:"records"`
	Skipped []IntegrityWarning       `json:"skipped,omitempty"`
}

func NewTally(day DayKey, roster *Roster) *Tally {
	t := &Tally{
		Day:    day,
		Counts: make(map[Person]map[Emoji]int, roster.Size()),
	}
	for _, p := range roster.People() {
		row := make(map[Emoji]int, len(roster.emojis))
		for _, e := range roster.emojis {
			row[e] = 0
		}
		t.Counts[p] = row
	}
	return t
}

// Total is the number of counted records that targeted p.
func (t *Tally) Total(p Person) int {
	total := 0
	for _, n := range t.Counts[p] {
		total += n
	}
	return total
}

// Disclosure is the quorum-gated view of a tally. When Withheld is true
// Tally is nil and only the progress counters are set.
type Disclosure struct {
	Day       DayKey `json:"day"`
	Withheld  bool   `json:"withheld"`
	Voters    int    `json:"voters"`
	Threshold int    `json:"threshold"`
	Tally     *Tally `json:"tally,omitempty"`
}

// FoldTally counts every record of day by its roster-matched target.
// Records whose target or emoji no longer match the roster are skipped and
// reported in Skipped. Duplicates are counted as stored.
func FoldTally(roster *Roster, day DayKey, records []VoteRecord) *Tally {
	t := NewTally(day, roster)
	for _, rec := range records {
		target, ok := roster.Match(rec.Target)
		if !ok {
			t.Skipped = append(t.Skipped, IntegrityWarning{RecordID: rec.ID, Field: "target", Value: rec.Target})
			continue
		}
		if !roster.HasEmoji(rec.Emoji) {
			t.Skipped = append(t.Skipped, IntegrityWarning{RecordID: rec.ID, Field: "emoji", Value: string(rec.Emoji)})
			continue
		}
		t.Counts[target][rec.Emoji]++
		t.Records++
	}
	return t
}

// DistinctVoters counts voters by normalized name.
func DistinctVoters(records []VoteRecord) int {
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		key := Normalize(rec.Voter)
		if key == "" {
			continue
		}
		seen[key] = struct{}{}
	}
	return len(seen)
}
