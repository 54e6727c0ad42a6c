package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
)

// Readability runs Mozilla's readability algorithm. It never reports a date.
type Readability struct {
	fetcher *Fetcher
}

var _ Strategy = (*Readability)(nil)

func NewReadability(fetcher *Fetcher) *Readability {
	return &Readability{fetcher: fetcher}
}

func (r *Readability) Name() string {
	return StrategyReadability
}

func (r *Readability) Extract(ctx context.Context, pageURL string) (string, *time.Time, error) {
	raw, err := r.fetcher.Get(ctx, pageURL)
	if err != nil {
		return "", nil, err
	}
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", nil, fmt.Errorf("invalid url: %w", err)
	}

	article, err := readability.FromReader(strings.NewReader(raw), u)
	if err != nil {
		return "", nil, err
	}
	text := HTMLToText(article.Content)
	if text == "" {
		text = normalizeLines(article.TextContent)
	}
	if text == "" {
		return "", nil, errNoText
	}
	return text, nil, nil
}
