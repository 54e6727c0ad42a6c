// Package app wires configuration, providers and the pipeline into the
// search operation shared by the CLI and the HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/deusflow/mediamon/internal/cache"
	"github.com/deusflow/mediamon/internal/classify"
	"github.com/deusflow/mediamon/internal/config"
	"github.com/deusflow/mediamon/internal/gemini"
	"github.com/deusflow/mediamon/internal/metrics"
	"github.com/deusflow/mediamon/internal/news"
	"github.com/deusflow/mediamon/internal/openai"
	"github.com/deusflow/mediamon/internal/ratelimit"
	"github.com/deusflow/mediamon/internal/rss"
	"github.com/deusflow/mediamon/internal/scraper"
	"github.com/deusflow/mediamon/internal/sources"
)

const (
	noticeNoNewsAPI  = "No NEWS_API_KEY found. Using the public Google News RSS feed instead, which may return limited and delayed results."
	noticeNoGuardian = "No GUARDIAN_API_KEY provided. The Guardian archive and its full article texts are not included."
)

const DefaultMaxPerQuery = 20

// Sources is the active provider set.
type Sources struct {
	General news.Source
	Site    news.Source
	Archive news.Source
	Index   news.Source
	// GeneralTakesDomains is set when General accepts a domain restriction.
	GeneralTakesDomains bool
}

// App holds everything that lives for the whole process.
type App struct {
	cfg     *config.Config
	lookups *config.Lookups
	logger  *slog.Logger
	metrics *metrics.Metrics

	sources Sources
	chain   *scraper.Chain
	// local is a backend that needs no budget; remote calls go through one.
	local   classify.Backend
	remote  classify.Backend
	notices []string
	closers []func()

	mu         sync.Mutex
	lastBudget *ratelimit.Budget
}

// New builds the application from configuration. Missing provider keys
// downgrade the provider set and are reported as notices on every result.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	lookups, err := config.LoadTables(cfg.TablesPath)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:     cfg,
		lookups: lookups,
		logger:  logger.With("component", "app"),
		metrics: metrics.Global,
	}

	client := sources.NewHTTPClient(cfg.HTTPTimeout)
	a.sources, a.notices = buildSources(cfg, client, logger)
	a.chain = buildChain(cfg, client, logger)

	if err := a.initSentiment(ctx); err != nil {
		a.Close()
		return nil, err
	}

	a.logger.Info("application ready",
		"general", a.sources.General.Name(),
		"guardian", a.sources.Archive != nil,
		"gdelt", a.sources.Index != nil,
		"extractors", strings.Join(a.chain.Strategies(), ","),
		"sentiment", cfg.Sentiment,
	)
	return a, nil
}

func buildSources(cfg *config.Config, client *http.Client, logger *slog.Logger) (Sources, []string) {
	var s Sources
	var notices []string

	feed := rss.NewGoogleNews(client, logger)
	s.Site = rss.NewSiteSearch(feed)

	if cfg.NewsAPIKey != "" {
		s.General = sources.NewNewsAPI(cfg.NewsAPIKey, client)
		s.GeneralTakesDomains = true
	} else {
		s.General = feed
		notices = append(notices, noticeNoNewsAPI)
	}

	if cfg.GuardianAPIKey != "" {
		s.Archive = sources.NewGuardian(cfg.GuardianAPIKey, client)
	} else {
		notices = append(notices, noticeNoGuardian)
	}

	if cfg.EnableGDELT {
		s.Index = sources.NewGDELT(client)
	}
	return s, notices
}

func buildChain(cfg *config.Config, client *http.Client, logger *slog.Logger) *scraper.Chain {
	fetcher := scraper.NewFetcher(client)
	var strategies []scraper.Strategy
	for _, name := range scraper.StrategyNames {
		if !cfg.ExtractorEnabled(name) {
			continue
		}
		switch name {
		case scraper.StrategyStructured:
			strategies = append(strategies, scraper.NewStructured(fetcher))
		case scraper.StrategyHeuristic:
			strategies = append(strategies, scraper.NewHeuristic(fetcher))
		case scraper.StrategyReadability:
			strategies = append(strategies, scraper.NewReadability(fetcher))
		}
	}
	return scraper.NewChain(logger, strategies...)
}

func (a *App) initSentiment(ctx context.Context) error {
	switch a.cfg.Sentiment {
	case config.SentimentLexicon:
		a.local = classify.NewLexicon()
	case config.SentimentGemini:
		c, err := gemini.NewClient(ctx, a.cfg.GeminiAPIKey, a.cfg.GeminiModel)
		if err != nil {
			return err
		}
		a.remote = c
		a.closers = append(a.closers, c.Close)
	case config.SentimentOpenAI:
		a.remote = openai.NewClient(a.cfg.OpenAIAPIKey, a.cfg.OpenAIModel)
	case config.SentimentNone:
	}
	return nil
}

// Close releases backend clients.
func (a *App) Close() {
	for _, c := range a.closers {
		c()
	}
	a.closers = nil
}

// Notices lists configuration downgrades.
func (a *App) Notices() []string {
	return append([]string(nil), a.notices...)
}

// SearchRequest is one user search, as entered on the CLI or over HTTP.
type SearchRequest struct {
	Queries []string
	Max     int
	Domains []string
	UK      bool
}

// ClampMax keeps a per-query limit inside the accepted range, using the
// default for zero.
func ClampMax(n int) int {
	switch {
	case n == 0:
		return DefaultMaxPerQuery
	case n < news.MinPerQuery:
		return news.MinPerQuery
	case n > news.MaxPerQuery:
		return news.MaxPerQuery
	}
	return n
}

// Search runs one pipeline pass. A non-empty query list that finds nothing
// returns the (empty) result together with news.ErrNoArticles.
func (a *App) Search(ctx context.Context, req SearchRequest) (news.Result, error) {
	memo := cache.New(0)
	defer memo.Close()

	p := news.NewPipeline(news.PipelineDeps{
		General:             a.sources.General,
		Site:                a.sources.Site,
		Archive:             a.sources.Archive,
		Index:               a.sources.Index,
		GeneralTakesDomains: a.sources.GeneralTakesDomains,
		Extractor:           a.chain.WithMemo(memo),
		Authority:           a.lookups.Authority,
		Tiers:               a.lookups.Tiers,
		Sentiment:           a.sentimentForRun(),
		Domains:             a.lookups.Domains,
		SiteWindowDays:      a.cfg.SiteWindowDays,
		Concurrency:         a.cfg.Concurrency,
		Metrics:             a.metrics,
		Logger:              a.logger,
	})

	res, err := p.Run(ctx, news.Request{
		Queries:     req.Queries,
		MaxPerQuery: ClampMax(req.Max),
		Tokens:      req.Domains,
		Locale:      rss.LocaleFor(req.UK),
	})
	res.Notices = a.Notices()
	if b := a.LastBudget(); b != nil && res.RunID != "" {
		a.logger.Info("ai budget", "run_id", res.RunID, "remaining", b.Remaining())
	}
	if err != nil {
		a.metrics.SetError(err.Error())
		return res, fmt.Errorf("search: %w", err)
	}
	if len(res.Articles) == 0 && hasQuery(req.Queries) {
		return res, news.ErrNoArticles
	}
	return res, nil
}

// sentimentForRun returns a classifier whose remote budget starts fresh.
func (a *App) sentimentForRun() *classify.Sentiment {
	log := a.logger.With("component", "sentiment")
	switch {
	case a.remote != nil:
		b := ratelimit.NewBudget(a.remote, a.cfg.MaxAIRequests, a.metrics)
		a.mu.Lock()
		a.lastBudget = b
		a.mu.Unlock()
		return classify.NewSentiment(b, log)
	case a.local != nil:
		return classify.NewSentiment(a.local, log)
	}
	return classify.NewSentiment(nil, log)
}

// LastBudget is the remote call budget of the most recent run, nil when no
// remote backend is configured.
func (a *App) LastBudget() *ratelimit.Budget {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastBudget
}

func hasQuery(qs []string) bool {
	for _, q := range qs {
		if strings.TrimSpace(q) != "" {
			return true
		}
	}
	return false
}

// IsNoArticles reports whether err means the search simply found nothing.
func IsNoArticles(err error) bool {
	return errors.Is(err, news.ErrNoArticles)
}
