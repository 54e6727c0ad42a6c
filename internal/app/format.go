package app

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/deusflow/mediamon/internal/news"
	"github.com/deusflow/mediamon/internal/report"
)

const (
	dateLayout      = "2006-01-02 15:04"
	noTextExtracted = "Full text could not be extracted for this article; only the provider description is available."
)

// ArticleView is the JSON shape of one enriched article.
type ArticleView struct {
	Rank           int        `json:"rank"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	URL            string     `json:"url"`
	Source         string     `json:"source"`
	Provider       string     `json:"provider"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	Priority       float64    `json:"priority"`
	Recency        float64    `json:"recency"`
	Authority      float64    `json:"authority"`
	Tier           string     `json:"tier"`
	Sentiment      string     `json:"sentiment"`
	SentimentScore float64    `json:"sentiment_score"`
	ExtractedBy    string     `json:"extracted_by,omitempty"`
	Content        string     `json:"content,omitempty"`
}

// ResultView is the JSON shape of a search result.
type ResultView struct {
	RunID       string        `json:"run_id"`
	Domains     []string      `json:"domains,omitempty"`
	Notices     []string      `json:"notices,omitempty"`
	Diagnostics []string      `json:"diagnostics,omitempty"`
	Articles    []ArticleView `json:"articles"`
}

// NewResultView flattens res; withContent controls whether full text is included.
func NewResultView(res news.Result, withContent bool) ResultView {
	v := ResultView{
		RunID:    res.RunID,
		Domains:  res.Domains,
		Notices:  res.Notices,
		Articles: make([]ArticleView, 0, len(res.Articles)),
	}
	for _, d := range res.Diagnostics {
		v.Diagnostics = append(v.Diagnostics, d.String())
	}
	for i, a := range res.Articles {
		av := ArticleView{
			Rank:           i + 1,
			Title:          a.Title,
			Description:    a.Description,
			URL:            a.URL,
			Source:         a.SourceName,
			Provider:       a.Provider,
			PublishedAt:    a.PublishedAt,
			Priority:       a.Priority,
			Recency:        a.Recency,
			Authority:      a.Authority,
			Tier:           string(a.Tier),
			Sentiment:      string(a.Sentiment),
			SentimentScore: a.SentimentScore,
			ExtractedBy:    a.ExtractedBy,
		}
		if withContent {
			av.Content = a.Content
		}
		v.Articles = append(v.Articles, av)
	}
	return v
}

// WriteJSON encodes res as indented JSON.
func WriteJSON(w io.Writer, res news.Result, withContent bool) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewResultView(res, withContent))
}

// WriteTable renders the ranked result list.
func WriteTable(w io.Writer, articles []news.EnrichedArticle) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"#", "Priority", "Recency", "Authority", "Date", "Source", "Tier", "Sentiment", "Title", "URL"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Priority", Align: text.AlignRight},
		{Name: "Recency", Align: text.AlignRight},
		{Name: "Authority", Align: text.AlignRight},
		{Name: "Title", WidthMax: 60},
		{Name: "URL", WidthMax: 50},
	})

	for i, a := range articles {
		t.AppendRow(table.Row{
			i + 1,
			fmt.Sprintf("%.3f", a.Priority),
			fmt.Sprintf("%.2f", a.Recency),
			fmt.Sprintf("%.2f", a.Authority),
			formatDate(a.PublishedAt),
			a.SourceName,
			string(a.Tier),
			string(a.Sentiment),
			a.Title,
			a.URL,
		})
	}
	t.AppendFooter(table.Row{"", "", "", "", "", "", "", "", fmt.Sprintf("%d articles", len(articles)), ""})
	t.Render()
}

// WriteDetails prints one article with its extracted text.
func WriteDetails(w io.Writer, a news.EnrichedArticle) {
	fmt.Fprintf(w, "%s\n%s\n\n", a.Title, strings.Repeat("=", min(len(a.Title), 80)))
	fmt.Fprintf(w, "Source:    %s (%s tier)\n", a.SourceName, a.Tier)
	fmt.Fprintf(w, "Published: %s\n", formatDate(a.PublishedAt))
	fmt.Fprintf(w, "URL:       %s\n", a.URL)
	fmt.Fprintf(w, "Priority:  %.3f (recency %.2f, authority %.2f)\n", a.Priority, a.Recency, a.Authority)
	fmt.Fprintf(w, "Sentiment: %s (%.3f)\n\n", a.Sentiment, a.SentimentScore)

	if strings.TrimSpace(a.Content) == "" {
		fmt.Fprintln(w, noTextExtracted)
		if a.Description != "" {
			fmt.Fprintf(w, "\n%s\n", a.Description)
		}
		return
	}
	fmt.Fprintln(w, a.Content)
}

// WriteNotices prints configuration downgrades and provider failures.
func WriteNotices(w io.Writer, res news.Result) {
	for _, n := range res.Notices {
		fmt.Fprintf(w, "Note: %s\n", n)
	}
	for _, d := range res.Diagnostics {
		fmt.Fprintf(w, "Warning: %s\n", d)
	}
}

// WriteReport renders the tiered report in the named format. Unsupported
// formats return an error wrapping report.ErrUnavailable.
func WriteReport(w io.Writer, articles []news.EnrichedArticle, format string, includeSentiment bool) error {
	b, err := report.NewBuilder(report.Format(strings.ToLower(format)))
	if err != nil {
		return err
	}
	return b.Build(w, articles, includeSentiment)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return t.UTC().Format(dateLayout)
}
