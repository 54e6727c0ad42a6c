package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/deusflow/mediamon/internal/classify"
	"github.com/deusflow/mediamon/internal/metrics"
)

// ErrBudgetExhausted is returned once a budget has no calls left.
var ErrBudgetExhausted = errors.New("ai request budget exhausted")

// Budget caps the number of remote sentiment calls made through it.
// Create one per run.
type Budget struct {
	mu      sync.Mutex
	backend classify.Backend
	metrics *metrics.Metrics

	maxCalls int
	used     int
	denied   int
}

var _ classify.Backend = (*Budget)(nil)

// NewBudget wraps backend. maxCalls <= 0 means unlimited.
func NewBudget(backend classify.Backend, maxCalls int, m *metrics.Metrics) *Budget {
	if m == nil {
		m = metrics.Global
	}
	return &Budget{backend: backend, maxCalls: maxCalls, metrics: m}
}

func (b *Budget) Name() string {
	return b.backend.Name()
}

func (b *Budget) Polarity(ctx context.Context, text string) (float64, error) {
	if err := b.take(); err != nil {
		return 0, err
	}
	b.metrics.IncrementAIRequests()

	score, err := b.backend.Polarity(ctx, text)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", b.backend.Name(), err)
	}
	return score, nil
}

func (b *Budget) take() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.maxCalls > 0 && b.used >= b.maxCalls {
		b.denied++
		return ErrBudgetExhausted
	}
	b.used++
	return nil
}

// Remaining returns calls left, or -1 for an unlimited budget.
func (b *Budget) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.maxCalls <= 0 {
		return -1
	}
	return b.maxCalls - b.used
}

func (b *Budget) GetStats() map[string]interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()

	return map[string]interface{}{
		"backend": b.backend.Name(),
		"used":    b.used,
		"limit":   b.maxCalls,
		"denied":  b.denied,
	}
}
