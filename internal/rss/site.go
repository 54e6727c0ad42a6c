package rss

import (
	"context"
	"fmt"
	"strings"

	"github.com/deusflow/mediamon/internal/news"
)

// SiteQuery composes a domain-restricted feed query. Empty parts are omitted.
func SiteQuery(query, domain string, withinDays int) string {
	parts := make([]string, 0, 3)
	if q := strings.TrimSpace(query); q != "" {
		parts = append(parts, q)
	}
	if d := strings.TrimSpace(domain); d != "" {
		parts = append(parts, "site:"+d)
	}
	if withinDays > 0 {
		parts = append(parts, fmt.Sprintf("when:%dd", withinDays))
	}
	return strings.Join(parts, " ")
}

// SiteSearch restricts a feed search to one domain per call.
type SiteSearch struct {
	feed *GoogleNews
}

var _ news.Source = (*SiteSearch)(nil)

func NewSiteSearch(feed *GoogleNews) *SiteSearch {
	return &SiteSearch{feed: feed}
}

func (s *SiteSearch) Name() string {
	return "site-search"
}

// Fetch searches the first domain in c.Domains; with no domain it behaves as
// a plain feed search bounded by c.WithinDays.
func (s *SiteSearch) Fetch(ctx context.Context, query string, c news.Constraints) ([]news.RawArticle, error) {
	var domain string
	if len(c.Domains) > 0 {
		domain = c.Domains[0]
	}
	inner := news.Constraints{Limit: c.Limit, Locale: c.Locale}
	return s.feed.Fetch(ctx, SiteQuery(query, domain, c.WithinDays), inner)
}
