// Package rss searches Google News through its RSS endpoint.
package rss

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	gofeedrss "github.com/mmcdole/gofeed/rss"

	"github.com/deusflow/mediamon/internal/news"
	"github.com/deusflow/mediamon/internal/scraper"
)

const (
	DefaultBaseURL = "https://news.google.com"
	fallbackSource = "Google News"
	userAgent      = "mediamon/1.0 (+https://github.com/deusflow/mediamon)"
)

var (
	LocaleUK = news.Locale{Language: "en-GB", Country: "GB", Edition: "GB:en"}
	LocaleUS = news.Locale{Language: "en-US", Country: "US", Edition: "US:en"}
)

// LocaleFor maps the home-locale toggle to a feed edition.
func LocaleFor(uk bool) news.Locale {
	if uk {
		return LocaleUK
	}
	return LocaleUS
}

// GoogleNews is the keyless keyword search.
type GoogleNews struct {
	BaseURL string
	client  *http.Client
	logger  *slog.Logger
}

var _ news.Source = (*GoogleNews)(nil)

func NewGoogleNews(client *http.Client, logger *slog.Logger) *GoogleNews {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GoogleNews{
		BaseURL: DefaultBaseURL,
		client:  client,
		logger:  logger.With("component", "google-news"),
	}
}

func (g *GoogleNews) Name() string {
	return "google-news"
}

// SearchURL builds the feed URL for a query and locale.
func (g *GoogleNews) SearchURL(query string, loc news.Locale) string {
	params := url.Values{}
	params.Set("q", query)
	if loc.Language != "" {
		params.Set("hl", loc.Language)
	}
	if loc.Country != "" {
		params.Set("gl", loc.Country)
	}
	if loc.Edition != "" {
		params.Set("ceid", loc.Edition)
	}
	return strings.TrimRight(g.BaseURL, "/") + "/rss/search?" + params.Encode()
}

// Fetch downloads and parses the search feed, keeping at most c.Limit entries.
func (g *GoogleNews) Fetch(ctx context.Context, query string, c news.Constraints) ([]news.RawArticle, error) {
	feedURL := g.SearchURL(query, c.Locale)

	// Get feed
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("google news: build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google news: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google news: HTTP %d", resp.StatusCode)
	}

	// Parse RSS
	parser := &gofeedrss.Parser{}
	feed, err := parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("google news: parse feed: %w", err)
	}

	// Keep the newest entries up to the limit
	items := feed.Items
	if c.Limit > 0 && len(items) > c.Limit {
		items = items[:c.Limit]
	}

	out := make([]news.RawArticle, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		out = append(out, toRaw(item))
	}
	g.logger.Debug("feed parsed", "query", query, "entries", len(feed.Items), "kept", len(out))
	return out, nil
}

func toRaw(item *gofeedrss.Item) news.RawArticle {
	source := fallbackSource
	if item.Source != nil && strings.TrimSpace(item.Source.Title) != "" {
		source = strings.TrimSpace(item.Source.Title)
	}

	// Prefer the date gofeed already parsed
	published := news.UTC(item.PubDateParsed)
	if published == nil {
		published = news.ParseTimestamp(item.PubDate)
	}

	return news.RawArticle{
		Title:       strings.TrimSpace(item.Title),
		Description: scraper.HTMLToText(item.Description),
		URL:         strings.TrimSpace(item.Link),
		SourceName:  source,
		PublishedAt: published,
	}
}
