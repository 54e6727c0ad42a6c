// Package scoring turns publish time and source name into a ranking priority.
package scoring

import (
	"strings"
	"time"

	"github.com/deusflow/mediamon/internal/timeparse"
)

const (
	recencyWindowDays = 7.0
	recencyWeight     = 0.7
	authorityWeight   = 0.3

	// DefaultAuthority is the score for outlets missing from the table.
	DefaultAuthority = 0.3
)

// Recency decays linearly from 1 at age zero to 0 at seven days.
// Missing dates score 0; future dates score 1.
func Recency(published *time.Time, now time.Time) float64 {
	if published == nil || published.IsZero() {
		return 0
	}
	ageDays := now.Sub(*published).Hours() / 24
	if ageDays > recencyWindowDays {
		ageDays = recencyWindowDays
	}
	return clamp01(1 - ageDays/recencyWindowDays)
}

// RecencyString parses a timestamp and scores it. Anything unparsable
// scores 0.
func RecencyString(published string, now time.Time) float64 {
	return Recency(timeparse.Parse(published), now)
}

// Priority combines recency and authority.
func Priority(recency, authority float64) float64 {
	return clamp01(recencyWeight*recency + authorityWeight*authority)
}

// AuthorityEntry is one row of the authority table.
type AuthorityEntry struct {
	Match string
	Score float64
}

// AuthorityTable scores sources by ordered substring match. Read-only.
type AuthorityTable struct {
	entries  []AuthorityEntry
	fallback float64
}

// NewAuthorityTable copies entries, lower-casing matches and clamping scores.
func NewAuthorityTable(entries []AuthorityEntry) *AuthorityTable {
	t := &AuthorityTable{fallback: DefaultAuthority}
	for _, e := range entries {
		m := strings.ToLower(strings.TrimSpace(e.Match))
		if m == "" {
			continue
		}
		t.entries = append(t.entries, AuthorityEntry{Match: m, Score: clamp01(e.Score)})
	}
	return t
}

// Score returns the first matching entry's score, or DefaultAuthority.
func (t *AuthorityTable) Score(sourceName string) float64 {
	if t == nil {
		return DefaultAuthority
	}
	name := strings.ToLower(sourceName)
	for _, e := range t.entries {
		if strings.Contains(name, e.Match) {
			return e.Score
		}
	}
	return t.fallback
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
