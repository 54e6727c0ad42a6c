package sources

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/deusflow/mediamon/internal/news"
)

const (
	gdeltBaseURL = "https://api.gdeltproject.org"
	gdeltSource  = "GDELT"
)

// GDELT queries the GDELT DOC 2.0 article list. Its payload shape varies
// between JSON feed and article list variants, so fields are read by path.
type GDELT struct {
	BaseURL string
	client  *http.Client
}

var _ news.Source = (*GDELT)(nil)

func NewGDELT(client *http.Client) *GDELT {
	if client == nil {
		client = NewHTTPClient(DefaultTimeout)
	}
	return &GDELT{BaseURL: gdeltBaseURL, client: client}
}

func (g *GDELT) Name() string {
	return "gdelt"
}

func (g *GDELT) Fetch(ctx context.Context, query string, cons news.Constraints) ([]news.RawArticle, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("mode", "ArtList")
	if cons.Limit > 0 {
		params.Set("maxrecords", strconv.Itoa(cons.Limit))
	}
	params.Set("format", "json")
	params.Set("sort", "datedesc")
	params.Set("timespan", "1 week")

	body, err := getBody(ctx, g.client, "gdelt", strings.TrimRight(g.BaseURL, "/")+"/api/v2/doc/doc?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, errors.New("gdelt: response is not valid JSON")
	}
	return parseGDELT(body), nil
}

func parseGDELT(body []byte) []news.RawArticle {
	root := gjson.ParseBytes(body)
	list := root.Get("items")
	if !list.IsArray() {
		list = root.Get("articles")
	}
	if !list.IsArray() {
		return nil
	}

	var out []news.RawArticle
	list.ForEach(func(_, item gjson.Result) bool {
		link := firstString(item, "url", "id")
		source := firstString(item, "source.title", "domain")
		if source == "" {
			source = gdeltSource
		}
		out = append(out, news.RawArticle{
			Title:       item.Get("title").String(),
			Description: firstString(item, "summary", "content_text"),
			URL:         link,
			SourceName:  source,
			PublishedAt: news.ParseTimestamp(firstString(item, "date_published", "publishedAt", "seendate")),
		})
		return true
	})
	return out
}

func firstString(r gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := strings.TrimSpace(r.Get(p).String()); v != "" {
			return v
		}
	}
	return ""
}
