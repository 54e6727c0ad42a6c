package classify

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const maxPromptChars = 6000

var scorePattern = regexp.MustCompile(`[-+]?\d*\.?\d+`)

// Prompt asks a language model for a single compound score for text.
func Prompt(text string) string {
	text = strings.Join(strings.Fields(strings.ReplaceAll(text, "\r", "")), " ")
	if utf8.RuneCountInString(text) > maxPromptChars {
		runes := []rune(text)
		trimmed := string(runes[:maxPromptChars])
		if idx := strings.LastIndex(trimmed, ". "); idx > 1200 {
			trimmed = trimmed[:idx+1]
		}
		text = trimmed
	}

	return fmt.Sprintf(`Rate the overall sentiment of the news article below.

Reply with a single number between -1 and 1, where -1 is very negative,
0 is neutral and 1 is very positive. Reply with the number only.

ARTICLE:
%s`, text)
}

// ParseScore reads the first number in a model reply and clamps it to [-1,1].
func ParseScore(reply string) (float64, error) {
	m := scorePattern.FindString(reply)
	if m == "" {
		return 0, fmt.Errorf("no score in reply %q", truncate(reply, 80))
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, fmt.Errorf("bad score %q: %w", m, err)
	}
	return clamp(v), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
