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
	"github.com/deusflow/mediamon/internal/scraper"
)

const (
	guardianBaseURL = "https://content.guardianapis.com"
	guardianSource  = "The Guardian"
)

// Guardian searches the Guardian archive. Results carry the article body, so
// they never go through extraction.
type Guardian struct {
	BaseURL string
	apiKey  string
	client  *http.Client
}

var _ news.Source = (*Guardian)(nil)

type guardianResponse struct {
	Response struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Results []struct {
			WebTitle           string `json:"webTitle"`
			WebURL             string `json:"webUrl"`
			WebPublicationDate string `json:"webPublicationDate"`
			Fields             *struct {
				Body      string `json:"body"`
				TrailText string `json:"trailText"`
			} `json:"fields"`
		} `json:"results"`
	} `json:"response"`
}

func NewGuardian(apiKey string, client *http.Client) *Guardian {
	if client == nil {
		client = NewHTTPClient(DefaultTimeout)
	}
	return &Guardian{BaseURL: guardianBaseURL, apiKey: apiKey, client: client}
}

func (g *Guardian) Name() string {
	return "guardian"
}

func (g *Guardian) Fetch(ctx context.Context, query string, cons news.Constraints) ([]news.RawArticle, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("api-key", g.apiKey)
	if cons.Limit > 0 {
		params.Set("page-size", strconv.Itoa(cons.Limit))
	}
	params.Set("order-by", "newest")
	params.Set("show-fields", "body,trailText")

	body, err := getBody(ctx, g.client, "guardian", strings.TrimRight(g.BaseURL, "/")+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var apiResp guardianResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("guardian: decode: %w", err)
	}
	if s := apiResp.Response.Status; s != "" && s != "ok" {
		return nil, fmt.Errorf("guardian error: %s %s", s, apiResp.Response.Message)
	}

	articles := make([]news.RawArticle, 0, len(apiResp.Response.Results))
	for _, r := range apiResp.Response.Results {
		art := news.RawArticle{
			Title:       r.WebTitle,
			URL:         r.WebURL,
			SourceName:  guardianSource,
			PublishedAt: news.ParseTimestamp(r.WebPublicationDate),
		}
		if r.Fields != nil {
			art.Description = scraper.HTMLToText(r.Fields.TrailText)
			if text := scraper.HTMLToText(r.Fields.Body); text != "" {
				art.Body = &text
			}
		}
		articles = append(articles, art)
	}
	return articles, nil
}
