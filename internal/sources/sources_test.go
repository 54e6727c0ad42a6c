package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/deusflow/mediamon/internal/news"
)

func serve(t *testing.T, status int, body string, check func(*http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewsAPIFetch(t *testing.T) {
	t.Parallel()

	const payload = `{"status":"ok","totalResults":2,"articles":[
		{"source":{"id":"reuters","name":"Reuters"},"title":"Copper climbs","description":"Prices up","url":"https://reuters.com/a","publishedAt":"2025-07-29T08:30:00Z"},
		{"source":{"name":"Blog"},"title":"No date","url":"https://blog.example/b"}
	]}`
	srv := serve(t, http.StatusOK, payload, func(r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/v2/everything" || q.Get("q") != "copper" || r.Header.Get("X-Api-Key") != "k" || q.Has("apiKey") {
			t.Errorf("unexpected request %s", r.URL)
		}
		if q.Get("domains") != "reuters.com,ft.com" || q.Get("pageSize") != "5" || q.Get("language") != "en" {
			t.Errorf("unexpected params %v", q)
		}
	})
	c := NewNewsAPI("k", srv.Client())
	c.BaseURL = srv.URL

	got, err := c.Fetch(context.Background(), "copper", news.Constraints{Limit: 5, Domains: []string{"reuters.com", "ft.com"}})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	published := time.Date(2025, time.July, 29, 8, 30, 0, 0, time.UTC)
	want := []news.RawArticle{
		{Title: "Copper climbs", Description: "Prices up", URL: "https://reuters.com/a", SourceName: "Reuters", PublishedAt: &published},
		{Title: "No date", URL: "https://blog.example/b", SourceName: "Blog"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("articles mismatch (-want +got):\n%s", diff)
	}
}

func TestNewsAPIFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"non-ok status", http.StatusOK, `{"status":"error","code":"apiKeyInvalid","message":"bad key"}`},
		{"malformed json", http.StatusOK, `{"status":"ok","articles":[`},
		{"html body", http.StatusOK, `<html>oops</html>`},
		{"http 401", http.StatusUnauthorized, `{"status":"error"}`},
	}
	for _, tt := range tests {
		srv := serve(t, tt.status, tt.body, nil)
		c := NewNewsAPI("k", srv.Client())
		c.BaseURL = srv.URL
		if _, err := c.Fetch(context.Background(), "q", news.Constraints{Limit: 5}); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestGuardianFetch(t *testing.T) {
	t.Parallel()

	const payload = `{"response":{"status":"ok","results":[
		{"webTitle":"Mine expansion","webUrl":"https://theguardian.com/x","webPublicationDate":"2025-07-28T12:00:00Z",
		 "fields":{"trailText":"<strong>Lead</strong> text","body":"<p>First paragraph.</p><p>Second <em>paragraph</em>.</p>"}},
		{"webTitle":"Bare","webUrl":"https://theguardian.com/y"}
	]}}`
	srv := serve(t, http.StatusOK, payload, func(r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/search" || q.Get("show-fields") != "body,trailText" || q.Get("api-key") != "g" || q.Get("order-by") != "newest" {
			t.Errorf("unexpected request %s", r.URL)
		}
	})
	g := NewGuardian("g", srv.Client())
	g.BaseURL = srv.URL

	got, err := g.Fetch(context.Background(), "mine", news.Constraints{Limit: 5})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d articles", len(got))
	}

	first := got[0]
	if first.SourceName != "The Guardian" || first.Description != "Lead text" {
		t.Errorf("first = %+v", first)
	}
	if first.Body == nil || *first.Body != "First paragraph.\nSecond paragraph." {
		t.Errorf("body = %v", first.Body)
	}
	if first.PublishedAt == nil {
		t.Error("missing publication date")
	}

	if got[1].Body != nil || got[1].PublishedAt != nil || got[1].SourceName != "The Guardian" {
		t.Errorf("bare result = %+v", got[1])
	}
}

func TestGuardianErrorStatus(t *testing.T) {
	t.Parallel()

	srv := serve(t, http.StatusOK, `{"response":{"status":"error","message":"Invalid authentication credentials"}}`, nil)
	g := NewGuardian("bad", srv.Client())
	g.BaseURL = srv.URL
	if _, err := g.Fetch(context.Background(), "q", news.Constraints{Limit: 5}); err == nil {
		t.Fatal("expected error")
	}
}

func TestGDELTShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
		want    []string
	}{
		{
			name:    "article list",
			payload: `{"articles":[{"url":"https://a.example/1","title":"One","seendate":"20250729T101500Z","domain":"a.example"}]}`,
			want:    []string{"One|https://a.example/1|a.example|2025-07-29T10:15:00Z"},
		},
		{
			name:    "json feed",
			payload: `{"items":[{"id":"https://b.example/2","title":"Two","date_published":"2025-07-28T00:00:00Z","source":{"title":"B Daily"},"summary":"s"}]}`,
			want:    []string{"Two|https://b.example/2|B Daily|2025-07-28T00:00:00Z"},
		},
		{
			name:    "missing fields",
			payload: `{"items":[{"title":"Three"}]}`,
			want:    []string{"Three||GDELT|"},
		},
		{
			name:    "empty",
			payload: `{}`,
			want:    nil,
		},
	}
	for _, tt := range tests {
		srv := serve(t, http.StatusOK, tt.payload, func(r *http.Request) {
			q := r.URL.Query()
			if q.Get("mode") != "ArtList" || q.Get("format") != "json" || q.Get("timespan") != "1 week" {
				t.Errorf("unexpected params %v", q)
			}
		})
		g := NewGDELT(srv.Client())
		g.BaseURL = srv.URL

		items, err := g.Fetch(context.Background(), "q", news.Constraints{Limit: 5})
		if err != nil {
			t.Fatalf("%s: Fetch: %v", tt.name, err)
		}
		var got []string
		for _, it := range items {
			date := ""
			if it.PublishedAt != nil {
				date = it.PublishedAt.Format(time.RFC3339)
			}
			got = append(got, strings.Join([]string{it.Title, it.URL, it.SourceName, date}, "|"))
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("%s: mismatch (-want +got):\n%s", tt.name, diff)
		}
	}
}

func TestGDELTRejectsNonJSON(t *testing.T) {
	t.Parallel()

	srv := serve(t, http.StatusOK, "Your search contained a phrase that is too short.", nil)
	g := NewGDELT(srv.Client())
	g.BaseURL = srv.URL
	if _, err := g.Fetch(context.Background(), "q", news.Constraints{Limit: 5}); err == nil {
		t.Fatal("expected error for plain-text body")
	}
}

func TestFetchErrorsHideKeys(t *testing.T) {
	t.Parallel()

	// nothing listens on port 1, so every request fails in transport
	const deadURL = "http://127.0.0.1:1"
	newsAPI := NewNewsAPI("SECRET-KEY-123", NewHTTPClient(time.Second))
	newsAPI.BaseURL = deadURL
	guardian := NewGuardian("GUARD-SECRET", NewHTTPClient(time.Second))
	guardian.BaseURL = deadURL

	for key, src := range map[string]news.Source{"SECRET-KEY-123": newsAPI, "GUARD-SECRET": guardian} {
		items, diag := news.Guard(context.Background(), src, "copper", news.Constraints{Limit: 5})
		if len(items) != 0 || diag == nil {
			t.Fatalf("%s: items %v, diag %v", src.Name(), items, diag)
		}
		if msg := diag.String(); strings.Contains(msg, key) || strings.Contains(msg, "127.0.0.1:1/") {
			t.Errorf("%s: diagnostic leaks the request URL: %s", src.Name(), msg)
		}
	}
}

func TestFetchTimeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	g := NewGuardian("GUARD-SECRET", NewHTTPClient(50*time.Millisecond))
	g.BaseURL = srv.URL

	start := time.Now()
	items, diag := news.Guard(context.Background(), g, "copper", news.Constraints{Limit: 5})
	if len(items) != 0 || diag == nil {
		t.Fatalf("items %v, diag %v", items, diag)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("request took %v, timeout not applied", elapsed)
	}
	if strings.Contains(diag.String(), "GUARD-SECRET") {
		t.Errorf("diagnostic leaks the key: %s", diag)
	}
}
