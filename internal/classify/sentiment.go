package classify

import (
	"context"
	"log/slog"
	"strings"
)

// Label is a sentiment class.
type Label string

const (
	Positive  Label = "positive"
	Neutral   Label = "neutral"
	Negative  Label = "negative"
	Undefined Label = "undefined"
)

const (
	positiveThreshold = 0.05
	negativeThreshold = -0.05
)

// Backend returns a compound polarity score for text.
type Backend interface {
	Name() string
	Polarity(ctx context.Context, text string) (float64, error)
}

// Sentiment labels text through an optional backend.
type Sentiment struct {
	backend Backend
	logger  *slog.Logger
}

// NewSentiment wires a backend. A nil backend disables sentiment entirely.
func NewSentiment(backend Backend, logger *slog.Logger) *Sentiment {
	return &Sentiment{backend: backend, logger: logger}
}

// Available reports whether a backend is configured.
func (s *Sentiment) Available() bool {
	return s != nil && s.backend != nil
}

// Compute returns (Undefined, 0) for empty text, a missing backend, or a
// backend failure.
func (s *Sentiment) Compute(ctx context.Context, text string) (Label, float64) {
	if strings.TrimSpace(text) == "" || !s.Available() {
		return Undefined, 0
	}

	score, err := s.backend.Polarity(ctx, text)
	if err != nil {
		if s.logger != nil {
			s.logger.Debug("sentiment unavailable", "backend", s.backend.Name(), "error", err)
		}
		return Undefined, 0
	}

	score = clamp(score)
	return LabelFor(score), score
}

// LabelFor maps a compound score to a label.
func LabelFor(score float64) Label {
	switch {
	case score >= positiveThreshold:
		return Positive
	case score <= negativeThreshold:
		return Negative
	default:
		return Neutral
	}
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
