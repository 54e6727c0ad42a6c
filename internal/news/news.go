package news

import (
	"sort"
	"time"

	"github.com/deusflow/mediamon/internal/classify"
)

// Extraction strategy names recorded on EnrichedArticle.ExtractedBy.
const (
	ExtractedByProvider = "provider"
)

// RawArticle is a single item as emitted by a provider adapter.
type RawArticle struct {
	Title       string
	Description string
	URL         string
	SourceName  string
	// PublishedAt is UTC; nil when the provider gave no date or an unparsable one.
	PublishedAt *time.Time
	// Body is provider-native full text. Only some providers set it.
	Body *string
	// Provider names the adapter that produced the item.
	Provider string
}

// HasBody reports whether the provider supplied full text.
func (r RawArticle) HasBody() bool {
	return r.Body != nil && *r.Body != ""
}

// EnrichedArticle is a RawArticle plus extracted content, scores and labels.
type EnrichedArticle struct {
	RawArticle

	Content        string
	Recency        float64
	Authority      float64
	Priority       float64
	Sentiment      classify.Label
	SentimentScore float64
	Tier           classify.Tier

	// ExtractedBy names the strategy that produced Content, empty on failure.
	ExtractedBy string
}

// SortByPriority orders articles by descending priority. Equal priorities
// keep their input order.
func SortByPriority(articles []EnrichedArticle) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].Priority > articles[j].Priority
	})
}

// FilterTiers keeps only articles whose tier is one of tiers.
func FilterTiers(articles []EnrichedArticle, tiers ...classify.Tier) []EnrichedArticle {
	keep := make(map[classify.Tier]bool, len(tiers))
	for _, t := range tiers {
		keep[t] = true
	}
	out := make([]EnrichedArticle, 0, len(articles))
	for _, a := range articles {
		if keep[a.Tier] {
			out = append(out, a)
		}
	}
	return out
}
