package scraper

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	goose "github.com/advancedlogic/GoOse"
)

// Heuristic removes boilerplate with GoOse's content scoring.
type Heuristic struct {
	fetcher *Fetcher
}

var _ Strategy = (*Heuristic)(nil)

func NewHeuristic(fetcher *Fetcher) *Heuristic {
	return &Heuristic{fetcher: fetcher}
}

func (h *Heuristic) Name() string {
	return StrategyHeuristic
}

func (h *Heuristic) Extract(ctx context.Context, pageURL string) (string, *time.Time, error) {
	raw, err := h.fetcher.Get(ctx, pageURL)
	if err != nil {
		return "", nil, err
	}

	article, err := goose.New().ExtractFromRawHTML(raw, pageURL)
	if err != nil {
		return "", nil, err
	}
	if article == nil || article.CleanedText == "" {
		return "", nil, errNoText
	}

	published := article.PublishDate
	if published == nil {
		// GoOse ignores most metadata tags, so read them the structured way
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw)); err == nil {
			published = publishedDate(doc)
		}
	}
	return normalizeLines(article.CleanedText), published, nil
}
