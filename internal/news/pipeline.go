package news

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/deusflow/mediamon/internal/classify"
	"github.com/deusflow/mediamon/internal/metrics"
	"github.com/deusflow/mediamon/internal/scoring"
)

const (
	DefaultSiteWindowDays = 7
	defaultConcurrency    = 1

	MinPerQuery = 5
	MaxPerQuery = 50
)

// ErrInvalidLimit is returned when MaxPerQuery is outside [MinPerQuery, MaxPerQuery].
var ErrInvalidLimit = fmt.Errorf("max articles per query must be between %d and %d", MinPerQuery, MaxPerQuery)

// ErrNoArticles signals that a non-empty query list produced nothing.
var ErrNoArticles = errors.New("no articles were found for the specified queries")

// PipelineDeps wires adapters and classifiers into the orchestrator.
// General is required; every other source is optional.
type PipelineDeps struct {
	General Source
	Site    Source
	Archive Source
	Index   Source

	Extractor Extractor
	Authority AuthorityScorer
	Tiers     TierAssigner
	Sentiment SentimentAnalyzer
	Domains   DomainMap

	// GeneralTakesDomains passes resolved domains to the general search as a
	// constraint (NewsAPI supports it; the keyless feed does not).
	GeneralTakesDomains bool
	SiteWindowDays      int
	Concurrency         int

	Metrics *metrics.Metrics
	Logger  *slog.Logger
	Now     func() time.Time
}

// Request is one user-initiated search.
type Request struct {
	Queries     []string
	MaxPerQuery int
	Tokens      []string
	Locale      Locale
}

// Result is the finalized, sorted output of one run.
type Result struct {
	RunID       string
	Articles    []EnrichedArticle
	Diagnostics []Diagnostic
	// Notices describe configuration downgrades, such as a missing API key.
	Notices []string
	Domains []string
}

// Pipeline fans queries out to sources and enriches what comes back.
type Pipeline struct {
	deps PipelineDeps
}

func NewPipeline(deps PipelineDeps) *Pipeline {
	if deps.SiteWindowDays <= 0 {
		deps.SiteWindowDays = DefaultSiteWindowDays
	}
	if deps.Concurrency <= 0 {
		deps.Concurrency = defaultConcurrency
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.Global
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Pipeline{deps: deps}
}

type fetchTask struct {
	src   Source
	query string
	c     Constraints
}

// Run executes one search. Provider and extraction failures never abort it;
// the only errors are an invalid request or a cancelled context.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	startTime := time.Now()
	res := Result{RunID: uuid.NewString()}
	log := p.deps.Logger.With("run_id", res.RunID)

	queries := make([]string, 0, len(req.Queries))
	for _, q := range req.Queries {
		if q = strings.TrimSpace(q); q != "" {
			queries = append(queries, q)
		}
	}
	if len(queries) == 0 {
		return res, nil
	}
	if req.MaxPerQuery < MinPerQuery || req.MaxPerQuery > MaxPerQuery {
		return res, ErrInvalidLimit
	}
	if p.deps.General == nil {
		return res, fmt.Errorf("pipeline: no general search source configured")
	}

	defer func() {
		p.deps.Metrics.RecordProcessingTime(time.Since(startTime))
		p.deps.Metrics.SetLastRun()
	}()

	res.Domains = ResolveDomains(req.Tokens, p.deps.Domains)
	tasks := p.plan(queries, req, res.Domains)
	log.Info("run started", "queries", len(queries), "domains", len(res.Domains), "calls", len(tasks))

	raw, diags, err := p.fetchAll(ctx, tasks)
	if err != nil {
		return res, err
	}
	res.Diagnostics = diags
	for _, d := range diags {
		log.Warn("source failed", "provider", d.Provider, "query", d.Query, "error", d.Err)
	}
	p.deps.Metrics.AddArticlesFetched(len(raw))

	if len(raw) == 0 {
		log.Info("run finished", "articles", 0)
		return res, nil
	}

	now := p.deps.Now().UTC()
	enriched, err := p.enrichAll(ctx, raw, now)
	if err != nil {
		return res, err
	}

	SortByPriority(enriched)
	res.Articles = enriched
	log.Info("run finished", "articles", len(enriched), "failed_sources", len(diags), "elapsed", time.Since(startTime))
	return res, nil
}

// plan lists provider calls in merge order: per query the general search,
// the site searches in domain order, then archive and index.
func (p *Pipeline) plan(queries []string, req Request, domains []string) []fetchTask {
	var tasks []fetchTask
	for _, q := range queries {
		general := Constraints{Limit: req.MaxPerQuery, Locale: req.Locale}
		if p.deps.GeneralTakesDomains {
			general.Domains = domains
		}
		tasks = append(tasks, fetchTask{src: p.deps.General, query: q, c: general})

		if p.deps.Site != nil {
			for _, d := range domains {
				tasks = append(tasks, fetchTask{src: p.deps.Site, query: q, c: Constraints{
					Limit:      req.MaxPerQuery,
					Domains:    []string{d},
					WithinDays: p.deps.SiteWindowDays,
					Locale:     req.Locale,
				}})
			}
		}
		if p.deps.Archive != nil {
			tasks = append(tasks, fetchTask{src: p.deps.Archive, query: q, c: Constraints{Limit: req.MaxPerQuery}})
		}
		if p.deps.Index != nil {
			tasks = append(tasks, fetchTask{src: p.deps.Index, query: q, c: Constraints{Limit: req.MaxPerQuery}})
		}
	}
	return tasks
}

func (p *Pipeline) fetchAll(ctx context.Context, tasks []fetchTask) ([]RawArticle, []Diagnostic, error) {
	batches := make([][]RawArticle, len(tasks))
	failures := make([]*Diagnostic, len(tasks))

	var g errgroup.Group
	g.SetLimit(p.deps.Concurrency)
	for i, task := range tasks {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			batches[i], failures[i] = Guard(ctx, task.src, task.query, task.c)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	var raw []RawArticle
	var diags []Diagnostic
	for i := range tasks {
		raw = append(raw, batches[i]...)
		if failures[i] != nil {
			diags = append(diags, *failures[i])
			p.deps.Metrics.IncrementSourceFailures()
		}
	}
	return raw, diags, nil
}

func (p *Pipeline) enrichAll(ctx context.Context, raw []RawArticle, now time.Time) ([]EnrichedArticle, error) {
	out := make([]EnrichedArticle, len(raw))

	var g errgroup.Group
	g.SetLimit(p.deps.Concurrency)
	for i := range raw {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			out[i] = p.enrich(ctx, raw[i], now)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// enrich runs extraction, scoring and classification for one article.
func (p *Pipeline) enrich(ctx context.Context, raw RawArticle, now time.Time) EnrichedArticle {
	art := EnrichedArticle{RawArticle: raw}

	switch {
	case raw.HasBody():
		art.Content = *raw.Body
		art.ExtractedBy = ExtractedByProvider
	case raw.URL != "" && p.deps.Extractor != nil:
		ex := p.deps.Extractor.Extract(ctx, raw.URL)
		art.Content = ex.Text
		art.ExtractedBy = ex.Strategy
		if art.PublishedAt == nil {
			art.PublishedAt = UTC(ex.PublishedAt)
		}
	}
	p.deps.Metrics.RecordExtraction(art.ExtractedBy)

	art.Recency = scoring.Recency(art.PublishedAt, now)
	if p.deps.Authority != nil {
		art.Authority = p.deps.Authority.Score(art.SourceName)
	} else {
		art.Authority = scoring.DefaultAuthority
	}
	art.Priority = scoring.Priority(art.Recency, art.Authority)

	art.Sentiment, art.SentimentScore = classify.Undefined, 0
	if p.deps.Sentiment != nil {
		art.Sentiment, art.SentimentScore = p.deps.Sentiment.Compute(ctx, art.Content)
	}
	art.Tier = classify.TierUnclassified
	if p.deps.Tiers != nil {
		art.Tier = p.deps.Tiers.Assign(art.SourceName)
	}
	return art
}
