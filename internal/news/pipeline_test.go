package news

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/deusflow/mediamon/internal/classify"
	"github.com/deusflow/mediamon/internal/metrics"
	"github.com/deusflow/mediamon/internal/scoring"
)

var testNow = time.Date(2025, time.July, 29, 12, 0, 0, 0, time.UTC)

func at(d time.Duration) *time.Time {
	t := testNow.Add(-d)
	return &t
}

type fakeSource struct {
	name  string
	items []RawArticle
	err   error
	panic bool

	mu    sync.Mutex
	calls []Constraints
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Fetch(_ context.Context, _ string, c Constraints) ([]RawArticle, error) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()
	if f.panic {
		panic("boom")
	}
	if f.err != nil {
		return nil, f.err
	}
	out := make([]RawArticle, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeExtractor struct {
	result Extraction

	mu   sync.Mutex
	urls []string
}

func (f *fakeExtractor) Extract(_ context.Context, url string) Extraction {
	f.mu.Lock()
	f.urls = append(f.urls, url)
	f.mu.Unlock()
	return f.result
}

type flatAuthority float64

func (a flatAuthority) Score(string) float64 { return float64(a) }

func newTestPipeline(deps PipelineDeps) *Pipeline {
	deps.Now = func() time.Time { return testNow }
	deps.Metrics = metrics.New()
	return NewPipeline(deps)
}

func TestRunOrdersByRecency(t *testing.T) {
	t.Parallel()

	feed := &fakeSource{name: "feed", items: []RawArticle{
		{Title: "old", URL: "https://x/old", PublishedAt: at(10 * 24 * time.Hour)},
		{Title: "fresh", URL: "https://x/fresh", PublishedAt: at(0)},
		{Title: "mid", URL: "https://x/mid", PublishedAt: at(3 * 24 * time.Hour)},
	}}
	p := newTestPipeline(PipelineDeps{
		General:   feed,
		Extractor: &fakeExtractor{},
		Authority: flatAuthority(0.5),
	})

	res, err := p.Run(context.Background(), Request{Queries: []string{"copper"}, MaxPerQuery: 10})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var titles []string
	for _, a := range res.Articles {
		titles = append(titles, a.Title)
	}
	if diff := cmp.Diff([]string{"fresh", "mid", "old"}, titles); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if got := res.Articles[2].Recency; got != 0 {
		t.Errorf("ten-day-old recency = %v, want 0", got)
	}
	if res.RunID == "" {
		t.Error("missing run id")
	}
}

func TestRunUsesProviderBody(t *testing.T) {
	t.Parallel()

	body := "Full text as delivered by the provider."
	ex := &fakeExtractor{result: Extraction{Text: "scraped", Strategy: "structured"}}
	p := newTestPipeline(PipelineDeps{
		General: &fakeSource{name: "guardian", items: []RawArticle{
			{Title: "a", URL: "https://x/a", Body: &body, PublishedAt: at(time.Hour)},
		}},
		Extractor: ex,
	})

	res, err := p.Run(context.Background(), Request{Queries: []string{"q"}, MaxPerQuery: 5})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(ex.urls) != 0 {
		t.Errorf("extractor invoked for %v", ex.urls)
	}
	got := res.Articles[0]
	if got.Content != body {
		t.Errorf("content = %q, want provider body", got.Content)
	}
	if got.ExtractedBy != ExtractedByProvider {
		t.Errorf("ExtractedBy = %q", got.ExtractedBy)
	}
	if got.Provider != "guardian" {
		t.Errorf("Provider = %q, want filled from source name", got.Provider)
	}
}

func TestRunExtractionFailureKeepsProviderDate(t *testing.T) {
	t.Parallel()

	published := at(84 * time.Hour)
	p := newTestPipeline(PipelineDeps{
		General: &fakeSource{name: "feed", items: []RawArticle{
			{Title: "dated", URL: "https://x/dated", PublishedAt: published},
			{Title: "undated", URL: "https://x/undated"},
		}},
		Extractor: &fakeExtractor{},
		Authority: flatAuthority(scoring.DefaultAuthority),
	})

	res, err := p.Run(context.Background(), Request{Queries: []string{"q"}, MaxPerQuery: 5})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Articles) != 2 {
		t.Fatalf("got %d articles, want 2", len(res.Articles))
	}
	for _, a := range res.Articles {
		if a.Content != "" || a.ExtractedBy != "" {
			t.Errorf("%s: content %q by %q, want empty", a.Title, a.Content, a.ExtractedBy)
		}
		if a.Sentiment != classify.Undefined {
			t.Errorf("%s: sentiment %s, want undefined", a.Title, a.Sentiment)
		}
	}
	if res.Articles[0].Title != "dated" || res.Articles[0].Recency != 0.5 {
		t.Errorf("dated article: %+v", res.Articles[0])
	}
	if res.Articles[1].Recency != 0 {
		t.Errorf("undated recency = %v", res.Articles[1].Recency)
	}
}

func TestRunFillsDateFromExtraction(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(PipelineDeps{
		General:   &fakeSource{name: "feed", items: []RawArticle{{Title: "a", URL: "https://x/a"}}},
		Extractor: &fakeExtractor{result: Extraction{Text: "body", PublishedAt: at(0), Strategy: "heuristic"}},
	})

	res, err := p.Run(context.Background(), Request{Queries: []string{"q"}, MaxPerQuery: 5})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	a := res.Articles[0]
	if a.PublishedAt == nil || !a.PublishedAt.Equal(testNow) {
		t.Errorf("PublishedAt = %v, want extracted date", a.PublishedAt)
	}
	if a.Recency != 1 || a.ExtractedBy != "heuristic" {
		t.Errorf("got recency %v by %q", a.Recency, a.ExtractedBy)
	}
}

func TestRunNoQueries(t *testing.T) {
	t.Parallel()

	feed := &fakeSource{name: "feed"}
	site := &fakeSource{name: "site"}
	p := newTestPipeline(PipelineDeps{General: feed, Site: site})

	for _, qs := range [][]string{nil, {}, {"  ", ""}} {
		res, err := p.Run(context.Background(), Request{Queries: qs, MaxPerQuery: 0})
		if err != nil {
			t.Fatalf("Run(%q): %v", qs, err)
		}
		if len(res.Articles) != 0 {
			t.Errorf("Run(%q) returned %d articles", qs, len(res.Articles))
		}
	}
	if feed.callCount()+site.callCount() != 0 {
		t.Error("adapters were invoked with no queries")
	}
}

func TestRunRejectsLimitOutOfRange(t *testing.T) {
	t.Parallel()

	feed := &fakeSource{name: "feed"}
	p := newTestPipeline(PipelineDeps{General: feed})
	for _, n := range []int{0, 4, 51} {
		_, err := p.Run(context.Background(), Request{Queries: []string{"q"}, MaxPerQuery: n})
		if !errors.Is(err, ErrInvalidLimit) {
			t.Errorf("max %d: err = %v, want ErrInvalidLimit", n, err)
		}
	}
	if feed.callCount() != 0 {
		t.Error("adapter invoked for an invalid request")
	}
}

func TestRunContainsSourceFailures(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(PipelineDeps{
		General: &fakeSource{name: "feed", items: []RawArticle{{Title: "ok", URL: "https://x/ok", PublishedAt: at(0)}}},
		Site:    &fakeSource{name: "site", err: errors.New("503")},
		Archive: &fakeSource{name: "archive", panic: true},
		Domains: DomainMap{"reuters": {"reuters.com"}},
	})

	res, err := p.Run(context.Background(), Request{
		Queries:     []string{"q"},
		MaxPerQuery: 5,
		Tokens:      []string{"Reuters"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Articles) != 1 || res.Articles[0].Title != "ok" {
		t.Errorf("articles = %+v", res.Articles)
	}
	var providers []string
	for _, d := range res.Diagnostics {
		providers = append(providers, d.Provider)
	}
	if diff := cmp.Diff([]string{"site", "archive"}, providers); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func TestRunPlansSiteSearches(t *testing.T) {
	t.Parallel()

	site := &fakeSource{name: "site"}
	p := newTestPipeline(PipelineDeps{
		General: &fakeSource{name: "feed"},
		Site:    site,
		Domains: DomainMap{"ft": {"ft.com"}, "bbc": {"bbc.co.uk", "bbc.com"}},
	})

	uk := Locale{Language: "en-GB", Country: "GB", Edition: "GB:en"}
	_, err := p.Run(context.Background(), Request{
		Queries:     []string{"lithium"},
		MaxPerQuery: 5,
		Tokens:      []string{"BBC", "ft", "bbc.com"},
		Locale:      uk,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var domains []string
	for _, c := range site.calls {
		if c.WithinDays != DefaultSiteWindowDays || c.Locale != uk {
			t.Errorf("unexpected constraints %+v", c)
		}
		domains = append(domains, c.Domains...)
	}
	want := []string{"bbc.co.uk", "bbc.com", "ft.com"}
	if diff := cmp.Diff(want, domains); diff != "" {
		t.Errorf("site domains mismatch (-want +got):\n%s", diff)
	}
}

func TestRunDeterministicMerge(t *testing.T) {
	t.Parallel()

	mk := func(name string) *fakeSource {
		return &fakeSource{name: name, items: []RawArticle{{Title: name, URL: "https://x/" + name, PublishedAt: at(time.Hour)}}}
	}
	deps := PipelineDeps{
		General:     mk("general"),
		Archive:     mk("archive"),
		Index:       mk("index"),
		Concurrency: 8,
	}

	var first []string
	for i := 0; i < 5; i++ {
		res, err := newTestPipeline(deps).Run(context.Background(), Request{Queries: []string{"a", "b"}, MaxPerQuery: 5})
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		var got []string
		for _, a := range res.Articles {
			got = append(got, a.Provider)
		}
		if first == nil {
			first = got
			continue
		}
		if diff := cmp.Diff(first, got); diff != "" {
			t.Fatalf("run %d differs (-first +got):\n%s", i, diff)
		}
	}
	want := []string{"general", "archive", "index", "general", "archive", "index"}
	if diff := cmp.Diff(want, first); diff != "" {
		t.Errorf("merge order mismatch (-want +got):\n%s", diff)
	}
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := newTestPipeline(PipelineDeps{General: &fakeSource{name: "feed"}})
	if _, err := p.Run(ctx, Request{Queries: []string{"q"}, MaxPerQuery: 5}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
