// Package report renders tiered, paginated monitoring reports.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/deusflow/mediamon/internal/classify"
	"github.com/deusflow/mediamon/internal/news"
)

// ErrUnavailable is returned for a format with no renderer.
var ErrUnavailable = errors.New("report format not available")

type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatCSV      Format = "csv"
	FormatPDF      Format = "pdf"
)

const (
	Title              = "Media Monitoring Report"
	DefaultRowsPerPage = 20
	dateLayout         = "2006-01-02"
)

// Builder turns enriched articles into a report document.
type Builder struct {
	format      Format
	RowsPerPage int
	Now         func() time.Time
}

// NewBuilder returns a builder for format, or ErrUnavailable.
func NewBuilder(format Format) (*Builder, error) {
	switch format {
	case FormatText, FormatMarkdown, FormatHTML, FormatCSV:
	case "":
		format = FormatText
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, format)
	}
	return &Builder{format: format, RowsPerPage: DefaultRowsPerPage, Now: time.Now}, nil
}

type entry struct {
	tier    classify.Tier
	article news.EnrichedArticle
}

// Build writes the report. Only Top, Mid and Trade articles appear, grouped in
// that order; input order is kept within a group.
func (b *Builder) Build(w io.Writer, articles []news.EnrichedArticle, includeSentiment bool) error {
	pages := b.paginate(articles)
	generated := b.Now().UTC().Format("2006-01-02 15:04 UTC")

	var out strings.Builder
	for i, page := range pages {
		if i > 0 {
			out.WriteString("\n")
		}
		fmt.Fprintf(&out, "%s\nGenerated: %s\n\n", Title, generated)
		if len(page) == 0 {
			out.WriteString("No articles from Top, Mid or Trade outlets.\n\n")
		}
		for _, group := range groupByTier(page) {
			out.WriteString(b.renderGroup(group, includeSentiment))
			out.WriteString("\n\n")
		}
		fmt.Fprintf(&out, "Page %d of %d\n", i+1, len(pages))
	}

	_, err := io.WriteString(w, out.String())
	return err
}

// Pages reports how many pages Build would produce.
func (b *Builder) Pages(articles []news.EnrichedArticle) int {
	return len(b.paginate(articles))
}

func (b *Builder) paginate(articles []news.EnrichedArticle) [][]entry {
	var entries []entry
	for _, tier := range classify.ReportTiers {
		for _, a := range news.FilterTiers(articles, tier) {
			entries = append(entries, entry{tier: tier, article: a})
		}
	}
	if len(entries) == 0 {
		return [][]entry{nil}
	}

	per := b.RowsPerPage
	if per <= 0 {
		per = DefaultRowsPerPage
	}
	var pages [][]entry
	for start := 0; start < len(entries); start += per {
		end := min(start+per, len(entries))
		pages = append(pages, entries[start:end])
	}
	return pages
}

func groupByTier(page []entry) [][]entry {
	var groups [][]entry
	for _, e := range page {
		if n := len(groups); n > 0 && groups[n-1][0].tier == e.tier {
			groups[n-1] = append(groups[n-1], e)
			continue
		}
		groups = append(groups, []entry{e})
	}
	return groups
}

func (b *Builder) renderGroup(group []entry, includeSentiment bool) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetTitle(fmt.Sprintf("%s tier", group[0].tier))

	header := table.Row{"Priority", "Date", "Source", "Title", "URL"}
	if includeSentiment {
		header = append(header, "Sentiment")
	}
	t.AppendHeader(header)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Priority", Align: text.AlignRight},
		{Name: "Title", WidthMax: 60},
		{Name: "URL", WidthMax: 50},
	})

	for _, e := range group {
		a := e.article
		date := ""
		if a.PublishedAt != nil {
			date = a.PublishedAt.UTC().Format(dateLayout)
		}
		row := table.Row{fmt.Sprintf("%.3f", a.Priority), date, a.SourceName, a.Title, a.URL}
		if includeSentiment {
			row = append(row, string(a.Sentiment))
		}
		t.AppendRow(row)
	}

	switch b.format {
	case FormatMarkdown:
		return t.RenderMarkdown()
	case FormatHTML:
		return t.RenderHTML()
	case FormatCSV:
		return t.RenderCSV()
	default:
		return t.Render()
	}
}
