package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"

	"github.com/deusflow/mediamon/internal/news"
)

// siteSelectors holds article-body selectors for outlets whose markup the
// generic list handles poorly. Keys are matched as host suffixes.
var siteSelectors = map[string][]string{
	"reuters.com": {
		`div[data-testid^="paragraph-"]`,
		".article-body__content p",
	},
	"bbc.co.uk": {`[data-component="text-block"] p`, "article p"},
	"bbc.com":   {`[data-component="text-block"] p`, "article p"},
	"theguardian.com": {
		".article-body-commercial-selector p",
		"#maincontent p",
	},
	"apnews.com": {".RichTextStoryBody p", ".Article p"},
	"ft.com":     {".article__content-body p", "#article-body p"},
	"cnbc.com":   {".ArticleBody-articleBody p", ".group p"},
	"mining.com": {".post-inner-content p", ".entry-content p"},
	"miningweekly.com": {
		"#article_content p",
		".article_body p",
	},
}

var genericSelectors = []string{
	"article p",
	".article-body p",
	".article p",
	".story-body p",
	".content p",
	".post-content p",
	".entry-content p",
	"main p",
	"#content p",
	"p",
}

var publishedSelectors = []struct {
	selector string
	attr     string
}{
	{`meta[property="article:published_time"]`, "content"},
	{`meta[property="og:published_time"]`, "content"},
	{`meta[name="article:published_time"]`, "content"},
	{`meta[itemprop="datePublished"]`, "content"},
	{`meta[name="pubdate"]`, "content"},
	{`meta[name="publishdate"]`, "content"},
	{`meta[name="date"]`, "content"},
	{`time[datetime]`, "datetime"},
}

// Structured isolates the article body through selector lists and reads the
// publish date from page metadata.
type Structured struct {
	fetcher *Fetcher
}

var _ Strategy = (*Structured)(nil)

func NewStructured(fetcher *Fetcher) *Structured {
	return &Structured{fetcher: fetcher}
}

func (s *Structured) Name() string {
	return StrategyStructured
}

func (s *Structured) Extract(ctx context.Context, pageURL string) (string, *time.Time, error) {
	// Get HTML page
	raw, err := s.fetcher.Get(ctx, pageURL)
	if err != nil {
		return "", nil, err
	}
	return ExtractStructured(raw, pageURL)
}

// ExtractStructured runs the selector-based extraction on an already
// downloaded page.
func ExtractStructured(raw, pageURL string) (string, *time.Time, error) {
	// Parse HTML
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return "", nil, fmt.Errorf("error parsing HTML: %w", err)
	}
	// Remove everything that is never article text
	doc.Find("script:not([type='application/ld+json']), style, nav, footer, aside, form").Remove()

	// Get content by site
	content := cleanContent(extractBody(doc, pageURL))
	if content == "" {
		return "", nil, errNoText
	}
	return content, publishedDate(doc), nil
}

func extractBody(doc *goquery.Document, pageURL string) string {
	if sel := selectorsFor(pageURL); sel != nil {
		if text := collectParagraphs(doc, sel, 10, 1); text != "" {
			return text
		}
	}
	// Generic parser for other sites
	return collectParagraphs(doc, genericSelectors, 20, 3)
}

func selectorsFor(pageURL string) []string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	for suffix, sel := range siteSelectors {
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return sel
		}
	}
	return nil
}

// collectParagraphs tries selectors in order and stops at the first that
// yields at least enough paragraphs longer than minLen.
func collectParagraphs(doc *goquery.Document, selectors []string, minLen, enough int) string {
	var paragraphs []string
	for _, selector := range selectors {
		paragraphs = paragraphs[:0]
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			text := strings.Join(strings.Fields(s.Text()), " ")
			if len(text) > minLen {
				paragraphs = append(paragraphs, text)
			}
		})
		if len(paragraphs) >= enough {
			return strings.Join(paragraphs, "\n\n")
		}
	}
	return strings.Join(paragraphs, "\n\n")
}

func publishedDate(doc *goquery.Document) *time.Time {
	for _, p := range publishedSelectors {
		if v, ok := doc.Find(p.selector).First().Attr(p.attr); ok {
			if t := news.ParseTimestamp(v); t != nil {
				return t
			}
		}
	}

	// Fall back to JSON-LD
	var found *time.Time
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		found = jsonLDDate(s.Text())
		return found == nil
	})
	return found
}

// jsonLDDate reads datePublished from a JSON-LD object, array or @graph.
func jsonLDDate(payload string) *time.Time {
	if !gjson.Valid(payload) {
		return nil
	}
	return ldDate(gjson.Parse(payload), 0)
}

func ldDate(node gjson.Result, depth int) *time.Time {
	if depth > 3 {
		return nil
	}
	switch {
	case node.IsArray():
		for _, item := range node.Array() {
			if t := ldDate(item, depth+1); t != nil {
				return t
			}
		}
	case node.IsObject():
		if t := news.ParseTimestamp(node.Get("datePublished").String()); t != nil {
			return t
		}
		var found *time.Time
		node.ForEach(func(key, value gjson.Result) bool {
			if key.String() == "@graph" {
				found = ldDate(value, depth+1)
				return false
			}
			return true
		})
		return found
	}
	return nil
}

var junkPhrases = []string{
	"Sign up for our newsletter",
	"Subscribe to our newsletter",
	"Read more:",
	"Related:",
	"Advertisement",
	"Share this article",
	"Click here to",
	"Follow us on",
	"All rights reserved",
}

var junkIndicators = []string{
	"cookie", "gdpr", "privacy policy", "sign up", "subscribe now",
	"read more", "click here", "follow us", "share this", "advertisement",
}

// cleanContent normalizes paragraphs and drops boilerplate lines.
func cleanContent(content string) string {
	if content == "" {
		return ""
	}
	// Remove junk phrases
	for _, phrase := range junkPhrases {
		content = strings.ReplaceAll(content, phrase, "")
	}

	var cleanLines []string
	var current strings.Builder
	flush := func() {
		paragraph := strings.TrimSpace(current.String())
		if len(paragraph) > 30 {
			cleanLines = append(cleanLines, paragraph)
		}
		current.Reset()
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < 8 {
			if current.Len() > 0 {
				flush()
			}
			continue
		}
		if isJunk(line) {
			continue
		}

		// Make sentences into paragraphs
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(line)
		if strings.HasSuffix(line, ".") || strings.HasSuffix(line, "!") || strings.HasSuffix(line, "?") || strings.HasSuffix(line, "\"") {
			flush()
		}
	}
	if current.Len() > 0 {
		flush()
	}
	return strings.Join(cleanLines, "\n\n")
}

func isJunk(line string) bool {
	if len(line) > 200 {
		return false
	}
	lower := strings.ToLower(line)
	for _, indicator := range junkIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}
