package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deusflow/mediamon/internal/app"
	"github.com/deusflow/mediamon/internal/news"
	"github.com/deusflow/mediamon/internal/report"
)

var searchFlags struct {
	keywords  string
	max       int
	domains   string
	uk        bool
	json      bool
	content   bool
	details   int
	report    string
	sentiment bool
}

var searchCmd = &cobra.Command{
	Use:   "search [keyword...]",
	Short: "Search news coverage for keywords",
	Long: `Search every configured provider for each keyword, extract full texts and
print the ranked results.

Usage:
  mediamon search lithium "rare earths"
  mediamon search --keywords "lithium, cobalt" --domains "BBC, ft.com" --uk
  mediamon search lithium --details 3
  mediamon search lithium --report markdown --sentiment-column > report.md`,
	RunE: runSearch,
}

func init() {
	f := searchCmd.Flags()
	f.StringVarP(&searchFlags.keywords, "keywords", "k", "", "Comma-separated keywords (added to positional args)")
	f.IntVarP(&searchFlags.max, "max", "n", app.DefaultMaxPerQuery, fmt.Sprintf("Articles per keyword and provider (%d-%d)", news.MinPerQuery, news.MaxPerQuery))
	f.StringVarP(&searchFlags.domains, "domains", "d", "", "Comma-separated publications or domains to restrict to")
	f.BoolVar(&searchFlags.uk, "uk", false, "Use the UK edition of Google News")
	f.BoolVar(&searchFlags.json, "json", false, "Print the result as JSON")
	f.BoolVar(&searchFlags.content, "content", false, "Include extracted texts in JSON output")
	f.IntVar(&searchFlags.details, "details", 0, "Show the full text of the N-th result")
	f.StringVar(&searchFlags.report, "report", "", "Render a tiered report: text, markdown, html, csv or pdf")
	f.BoolVar(&searchFlags.sentiment, "sentiment-column", false, "Include the sentiment column in the report")
}

func runSearch(cmd *cobra.Command, args []string) error {
	queries := append([]string(nil), args...)
	queries = append(queries, news.SplitList(searchFlags.keywords)...)
	if len(queries) == 0 {
		return fmt.Errorf("at least one keyword is required\n\nUsage: mediamon search <keyword> [keyword...]")
	}

	a, _, log, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	limit := app.ClampMax(searchFlags.max)
	if limit != searchFlags.max {
		log.Warn("max articles clamped", "requested", searchFlags.max, "used", limit)
	}

	res, err := a.Search(cmd.Context(), app.SearchRequest{
		Queries: queries,
		Max:     limit,
		Domains: news.SplitList(searchFlags.domains),
		UK:      searchFlags.uk,
	})
	out := cmd.OutOrStdout()
	if err != nil {
		if app.IsNoArticles(err) {
			app.WriteNotices(cmd.ErrOrStderr(), res)
			fmt.Fprintln(out, "No articles were found for the specified queries.")
			return nil
		}
		return err
	}

	switch {
	case searchFlags.json:
		return app.WriteJSON(out, res, searchFlags.content)
	case searchFlags.report != "":
		err := app.WriteReport(out, res.Articles, searchFlags.report, searchFlags.sentiment)
		if errors.Is(err, report.ErrUnavailable) {
			return fmt.Errorf("%s reports are not available in this build (supported: text, markdown, html, csv)", strings.ToLower(searchFlags.report))
		}
		return err
	}

	app.WriteNotices(cmd.ErrOrStderr(), res)
	if n := searchFlags.details; n > 0 {
		if n > len(res.Articles) {
			return fmt.Errorf("--details %d is out of range (1-%d)", n, len(res.Articles))
		}
		app.WriteDetails(out, res.Articles[n-1])
		return nil
	}

	fmt.Fprintf(out, "Found %d articles for %s\n", len(res.Articles), strings.Join(queries, ", "))
	app.WriteTable(out, res.Articles)
	if len(res.Domains) > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "Restricted to: %s\n", strings.Join(res.Domains, ", "))
	}
	return nil
}
