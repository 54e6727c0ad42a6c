package classify

import (
	"context"

	"github.com/jonreiter/govader"
)

// Lexicon scores text locally with the VADER lexicon.
type Lexicon struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

var _ Backend = (*Lexicon)(nil)

func NewLexicon() *Lexicon {
	return &Lexicon{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (l *Lexicon) Name() string {
	return "lexicon"
}

func (l *Lexicon) Polarity(_ context.Context, text string) (float64, error) {
	return l.analyzer.PolarityScores(text).Compound, nil
}
