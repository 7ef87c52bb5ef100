// Package leaderboard keeps the ranked list of finished runs and the
// all-time high score. Scores go to an optional remote service first and are
// always recorded locally, falling back to a locally stamped entry when the
// service cannot be reached.
package leaderboard

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// MaxNameLen is the longest player name kept, in runes.
	MaxNameLen = 32
	// DefaultCapacity is how many entries the local list keeps.
	DefaultCapacity = 100
	// DefaultLimit is the default number of entries returned by TopEntries.
	DefaultLimit = 10
)

// Entry is one finished run on the leaderboard.
type Entry struct {
	Name      string // Empty for anonymous players
	Score     int
	Timestamp string // ISO-8601, compared as a string for tie-breaking
	RunID     string // Run that produced the score; local only, not sent to the service
}

// DisplayName returns the name, or "—" for anonymous entries.
func (e Entry) DisplayName() string {
	if e.Name == "" {
		return "—"
	}
	return e.Name
}

type entryJSON struct {
	Name  *string `json:"name"`
	Score int     `json:"score"`
	TS    string  `json:"ts"`
}

// MarshalJSON encodes the entry as {"name": string|null, "score": n, "ts": "..."}.
func (e Entry) MarshalJSON() ([]byte, error) {
	var name *string
	if e.Name != "" {
		name = &e.Name
	}
	return json.Marshal(entryJSON{Name: name, Score: e.Score, TS: e.Timestamp})
}

// UnmarshalJSON decodes the wire form; a null name becomes "".
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw entryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.Name = ""
	if raw.Name != nil {
		e.Name = *raw.Name
	}
	e.Score = raw.Score
	e.Timestamp = raw.TS
	return nil
}

// NormalizeName trims whitespace and truncates to MaxNameLen runes.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) <= MaxNameLen {
		return name
	}
	return strings.TrimSpace(string([]rune(name)[:MaxNameLen]))
}

// NormalizeScore clamps negative scores to zero.
func NormalizeScore(score int) int {
	return max(score, 0)
}

// Stamp formats t as the ISO-8601 timestamp used by entries.
func Stamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// SortEntries orders entries by score descending, then timestamp ascending.
// Entries with equal keys keep their relative order.
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Timestamp < entries[j].Timestamp
	})
}
