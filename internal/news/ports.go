package news

import (
	"context"
	"time"

	"github.com/deusflow/mediamon/internal/classify"
)

// Locale selects the language/country edition of a feed search.
type Locale struct {
	Language string // e.g. "en-GB"
	Country  string // e.g. "GB"
	Edition  string // combined id, e.g. "GB:en"
}

// IsZero reports whether no locale was requested.
func (l Locale) IsZero() bool {
	return l.Language == "" && l.Country == "" && l.Edition == ""
}

// Constraints narrows a single provider call.
type Constraints struct {
	Limit      int
	Domains    []string
	WithinDays int
	Locale     Locale
}

// Source is a provider adapter. Fetch may fail; callers go through Guard.
type Source interface {
	Name() string
	Fetch(ctx context.Context, query string, c Constraints) ([]RawArticle, error)
}

// Extraction is the outcome of the extraction chain for one URL.
// The zero value means every strategy failed.
type Extraction struct {
	Text        string
	PublishedAt *time.Time
	Strategy    string
}

// Extractor produces article text for a URL. It never fails past its boundary.
type Extractor interface {
	Extract(ctx context.Context, url string) Extraction
}

// AuthorityScorer maps a source name to an authority score in [0,1].
type AuthorityScorer interface {
	Score(sourceName string) float64
}

// TierAssigner maps a source name to a publication tier.
type TierAssigner interface {
	Assign(sourceName string) classify.Tier
}

// SentimentAnalyzer labels article text.
type SentimentAnalyzer interface {
	Compute(ctx context.Context, text string) (classify.Label, float64)
}
