package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/deusflow/mediamon/internal/news"
)

const newsAPIBaseURL = "https://newsapi.org"

// NewsAPI is the keyed general keyword search.
type NewsAPI struct {
	BaseURL string
	apiKey  string
	client  *http.Client
}

var _ news.Source = (*NewsAPI)(nil)

type newsAPIResponse struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

func NewNewsAPI(apiKey string, client *http.Client) *NewsAPI {
	if client == nil {
		client = NewHTTPClient(DefaultTimeout)
	}
	return &NewsAPI{BaseURL: newsAPIBaseURL, apiKey: apiKey, client: client}
}

func (c *NewsAPI) Name() string {
	return "newsapi"
}

func (c *NewsAPI) Fetch(ctx context.Context, query string, cons news.Constraints) ([]news.RawArticle, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("language", "en")
	params.Set("sortBy", "publishedAt")
	if cons.Limit > 0 {
		params.Set("pageSize", strconv.Itoa(cons.Limit))
	}
	if len(cons.Domains) > 0 {
		params.Set("domains", strings.Join(cons.Domains, ","))
	}

	// the key travels as a header so it never appears in a URL
	header := http.Header{}
	header.Set("X-Api-Key", c.apiKey)

	body, err := getBody(ctx, c.client, "newsapi", strings.TrimRight(c.BaseURL, "/")+"/v2/everything?"+params.Encode(), header)
	if err != nil {
		return nil, err
	}

	var apiResp newsAPIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("newsapi: decode: %w", err)
	}
	if apiResp.Status != "ok" {
		if apiResp.Message != "" {
			return nil, fmt.Errorf("newsapi error: %s: %s", apiResp.Code, apiResp.Message)
		}
		return nil, fmt.Errorf("newsapi error: status %q", apiResp.Status)
	}

	articles := make([]news.RawArticle, 0, len(apiResp.Articles))
	for _, a := range apiResp.Articles {
		articles = append(articles, news.RawArticle{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			SourceName:  a.Source.Name,
			PublishedAt: news.ParseTimestamp(a.PublishedAt),
		})
	}
	return articles, nil
}
