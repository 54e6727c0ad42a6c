package news

import (
	"time"

	"github.com/deusflow/mediamon/internal/timeparse"
)

// ParseTimestamp parses the date formats providers and pages use.
// It returns nil for empty or unparsable input.
func ParseTimestamp(s string) *time.Time {
	return timeparse.Parse(s)
}

// UTC returns a UTC copy of t, or nil.
func UTC(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	u := t.UTC()
	return &u
}
