package classify

import (
	"context"
	"errors"
	"testing"
)

type stubBackend struct {
	score float64
	err   error
	calls int
}

func (s *stubBackend) Name() string { return "stub" }

func (s *stubBackend) Polarity(context.Context, string) (float64, error) {
	s.calls++
	return s.score, s.err
}

func TestComputeEmptyTextIsUndefined(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{score: 0.9}
	for _, s := range []*Sentiment{NewSentiment(nil, nil), NewSentiment(backend, nil)} {
		label, score := s.Compute(context.Background(), "")
		if label != Undefined || score != 0 {
			t.Errorf("Compute(\"\") = (%s, %v), want (undefined, 0)", label, score)
		}
	}
	if backend.calls != 0 {
		t.Errorf("backend called %d times for empty text", backend.calls)
	}
}

func TestComputeWithoutBackend(t *testing.T) {
	t.Parallel()

	label, score := NewSentiment(nil, nil).Compute(context.Background(), "Markets rallied strongly")
	if label != Undefined || score != 0 {
		t.Errorf("got (%s, %v), want (undefined, 0)", label, score)
	}
}

func TestComputeThresholds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score float64
		want  Label
	}{
		{0.05, Positive},
		{0.7, Positive},
		{0.0499, Neutral},
		{0, Neutral},
		{-0.0499, Neutral},
		{-0.05, Negative},
		{-0.9, Negative},
	}
	for _, tt := range tests {
		s := NewSentiment(&stubBackend{score: tt.score}, nil)
		label, score := s.Compute(context.Background(), "some text")
		if label != tt.want {
			t.Errorf("score %v: label %s, want %s", tt.score, label, tt.want)
		}
		if score != tt.score {
			t.Errorf("score %v: returned %v", tt.score, score)
		}
	}
}

func TestComputeClampsAndDegrades(t *testing.T) {
	t.Parallel()

	_, score := NewSentiment(&stubBackend{score: 3}, nil).Compute(context.Background(), "x")
	if score != 1 {
		t.Errorf("score = %v, want clamp to 1", score)
	}

	label, score := NewSentiment(&stubBackend{err: errors.New("quota")}, nil).Compute(context.Background(), "x")
	if label != Undefined || score != 0 {
		t.Errorf("backend error: got (%s, %v), want (undefined, 0)", label, score)
	}
}

func TestLexiconPolarity(t *testing.T) {
	t.Parallel()

	s := NewSentiment(NewLexicon(), nil)
	if label, _ := s.Compute(context.Background(), "This is a great, wonderful and excellent result."); label != Positive {
		t.Errorf("positive text labelled %s", label)
	}
	if label, _ := s.Compute(context.Background(), "This is a terrible, horrible and awful disaster."); label != Negative {
		t.Errorf("negative text labelled %s", label)
	}
}

func TestAssignTierPrecedence(t *testing.T) {
	t.Parallel()

	table := NewTierTable(
		[]string{"reuters", "financial times"},
		[]string{"daily mail"},
		[]string{"reuters events", "mining weekly"},
	)

	tests := []struct {
		source string
		want   Tier
	}{
		{"Reuters", TierTop},
		{"Reuters Events: Energy Transition", TierTrade},
		{"MINING WEEKLY", TierTrade},
		{"Daily Mail Online", TierMid},
		{"Random Blog", TierUnclassified},
		{"", TierUnclassified},
	}
	for _, tt := range tests {
		if got := table.Assign(tt.source); got != tt.want {
			t.Errorf("Assign(%q) = %s, want %s", tt.source, got, tt.want)
		}
	}
}

func TestAssignMidBeforeTop(t *testing.T) {
	t.Parallel()

	table := NewTierTable([]string{"times"}, []string{"financial times"}, nil)
	if got := table.Assign("Financial Times"); got != TierMid {
		t.Errorf("got %s, want Mid", got)
	}
}
