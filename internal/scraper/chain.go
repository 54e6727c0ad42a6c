// Package scraper extracts article text from a page URL through an ordered
// chain of independent strategies.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/deusflow/mediamon/internal/cache"
	"github.com/deusflow/mediamon/internal/news"
)

const (
	StrategyStructured  = "structured"
	StrategyHeuristic   = "heuristic"
	StrategyReadability = "readability"
)

// StrategyNames lists the strategies in chain order.
var StrategyNames = []string{StrategyStructured, StrategyHeuristic, StrategyReadability}

var errNoText = errors.New("no text extracted")

// Strategy is one extraction technique.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, pageURL string) (text string, published *time.Time, err error)
}

// Chain tries strategies in order and stops at the first non-empty text.
type Chain struct {
	strategies []Strategy
	memo       *cache.Cache
	logger     *slog.Logger
}

var _ news.Extractor = (*Chain)(nil)

// NewChain builds a chain, skipping nil strategies.
func NewChain(logger *slog.Logger, strategies ...Strategy) *Chain {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c := &Chain{logger: logger.With("component", "extraction")}
	for _, s := range strategies {
		if s != nil {
			c.strategies = append(c.strategies, s)
		}
	}
	return c
}

// WithMemo returns a copy of the chain that remembers results per URL in m.
func (c *Chain) WithMemo(m *cache.Cache) *Chain {
	cp := *c
	cp.memo = m
	return &cp
}

// Strategies returns the active strategy names in order.
func (c *Chain) Strategies() []string {
	names := make([]string, len(c.strategies))
	for i, s := range c.strategies {
		names[i] = s.Name()
	}
	return names
}

// Extract never fails; the zero Extraction means every strategy came up empty.
func (c *Chain) Extract(ctx context.Context, pageURL string) news.Extraction {
	pageURL = strings.TrimSpace(pageURL)
	if pageURL == "" || len(c.strategies) == 0 {
		return news.Extraction{}
	}

	var key string
	if c.memo != nil {
		key = cache.Key("extract", pageURL)
		if v, ok := c.memo.Get(key); ok {
			if ex, ok := v.(news.Extraction); ok {
				return ex
			}
		}
	}

	var result news.Extraction
	for _, s := range c.strategies {
		if ctx.Err() != nil {
			break
		}
		text, published, err := c.run(ctx, s, pageURL)
		if err != nil {
			c.logger.Debug("strategy failed", "strategy", s.Name(), "url", pageURL, "error", err)
			continue
		}
		result = news.Extraction{Text: text, PublishedAt: news.UTC(published), Strategy: s.Name()}
		break
	}

	if c.memo != nil && ctx.Err() == nil {
		c.memo.Set(key, result)
	}
	return result
}

// run calls one strategy, converting panics and empty text into errors.
func (c *Chain) run(ctx context.Context, s Strategy, pageURL string) (text string, published *time.Time, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, published, err = "", nil, fmt.Errorf("panic: %v", r)
		}
	}()

	text, published, err = s.Extract(ctx, pageURL)
	if err != nil {
		return "", nil, err
	}
	if strings.TrimSpace(text) == "" {
		return "", nil, errNoText
	}
	return strings.TrimSpace(text), published, nil
}
