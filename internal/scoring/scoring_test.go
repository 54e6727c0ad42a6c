package scoring

import (
	"math"
	"testing"
	"time"
)

var now = time.Date(2025, time.July, 29, 12, 0, 0, 0, time.UTC)

func ago(d time.Duration) *time.Time {
	t := now.Add(-d)
	return &t
}

func TestRecencyBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   *time.Time
		want float64
	}{
		{"nil", nil, 0},
		{"now", ago(0), 1},
		{"future", ago(-48 * time.Hour), 1},
		{"seven days", ago(7 * 24 * time.Hour), 0},
		{"ten days", ago(10 * 24 * time.Hour), 0},
		{"three and a half days", ago(84 * time.Hour), 0.5},
	}
	for _, tt := range tests {
		if got := Recency(tt.in, now); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s: Recency = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRecencyMonotonic(t *testing.T) {
	t.Parallel()

	prev := 2.0
	for h := 0; h <= 8*24; h += 6 {
		got := Recency(ago(time.Duration(h)*time.Hour), now)
		if got > prev {
			t.Fatalf("recency increased at %dh: %v > %v", h, got, prev)
		}
		if got < 0 || got > 1 {
			t.Fatalf("recency out of range at %dh: %v", h, got)
		}
		prev = got
	}
}

func TestRecencyString(t *testing.T) {
	t.Parallel()

	if got := RecencyString("", now); got != 0 {
		t.Errorf("empty: %v", got)
	}
	if got := RecencyString("not-a-date", now); got != 0 {
		t.Errorf("garbage: %v", got)
	}
	if got := RecencyString("2025-07-29T12:00:00Z", now); got != 1 {
		t.Errorf("now: %v", got)
	}
	if got := RecencyString("2025-07-26T00:00:00+00:00", now); got <= 0 || got >= 1 {
		t.Errorf("three and a half days: %v", got)
	}

	// offset-less forms are read as UTC, the same way the adapters read them
	if a, b := RecencyString("2025-07-27T12:00:00", now), RecencyString("2025-07-27T12:00:00Z", now); a != b || a <= 0 {
		t.Errorf("offset-less = %v, with zone = %v", a, b)
	}
	if got := RecencyString("Mon, 28 Jul 2025 12:00:00 +0000", now); got <= 0 {
		t.Errorf("RFC1123Z: %v", got)
	}
}

func testTable() *AuthorityTable {
	return NewAuthorityTable([]AuthorityEntry{
		{Match: "associated press", Score: 1.0},
		{Match: "reuters", Score: 1.0},
		{Match: "the new york times", Score: 0.9},
		{Match: "cnn", Score: 0.7},
		{Match: "bloomberg", Score: 0.8},
	})
}

func TestAuthorityScore(t *testing.T) {
	t.Parallel()

	table := testTable()
	tests := []struct {
		source string
		want   float64
	}{
		{"Reuters", 1.0},
		{"REUTERS UK", 1.0},
		{"Thomson Reuters Foundation", 1.0},
		{"The New York Times", 0.9},
		{"CNN International", 0.7},
		{"Bloomberg", 0.8},
		{"Random Blog", 0.3},
		{"", 0.3},
	}
	for _, tt := range tests {
		if got := table.Score(tt.source); got != tt.want {
			t.Errorf("Score(%q) = %v, want %v", tt.source, got, tt.want)
		}
	}
}

func TestAuthorityFirstMatchWins(t *testing.T) {
	t.Parallel()

	table := NewAuthorityTable([]AuthorityEntry{
		{Match: "cnn", Score: 0.7},
		{Match: "cnn money", Score: 0.2},
	})
	if got := table.Score("CNN Money"); got != 0.7 {
		t.Errorf("got %v, want first entry 0.7", got)
	}
}

func TestPriority(t *testing.T) {
	t.Parallel()

	for _, r := range []float64{0, 0.25, 0.5, 1} {
		for _, a := range []float64{0.3, 0.7, 0.8, 0.9, 1} {
			got := Priority(r, a)
			want := 0.7*r + 0.3*a
			if math.Abs(got-want) > 1e-12 {
				t.Errorf("Priority(%v, %v) = %v, want %v", r, a, got, want)
			}
			if got < 0 || got > 1 {
				t.Errorf("Priority(%v, %v) = %v out of range", r, a, got)
			}
		}
	}
}
