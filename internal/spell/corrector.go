package spell

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Default suggestion settings
const (
	DefaultMaxResults = 3
	DefaultThreshold  = 0.8
)

// Corrector matches tokens against a list of known words
type Corrector struct {
	MaxResults int
	Threshold  float64
}

// NewCorrector creates a corrector with the default settings
func NewCorrector() *Corrector {
	return &Corrector{
		MaxResults: DefaultMaxResults,
		Threshold:  DefaultThreshold,
	}
}

// Suggest returns the known words closest to token using the corrector's settings
func (c *Corrector) Suggest(token string, known []string) ([]string, error) {
	return Suggest(token, known, c.MaxResults, c.Threshold)
}

type candidate struct {
	word  string
	score float64
}

// Suggest returns up to maxResults known words whose similarity ratio to
// token is at least threshold, best first. Comparison is done on lowercase
// characters.
func Suggest(token string, known []string, maxResults int, threshold float64) ([]string, error) {
	if maxResults <= 0 {
		return nil, fmt.Errorf("maxResults must be > 0, got %d", maxResults)
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("threshold must be in [0, 1], got %v", threshold)
	}

	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		return nil, nil
	}

	m := difflib.NewMatcher(nil, chars(token))

	var found []candidate
	for _, word := range known {
		w := strings.ToLower(word)
		m.SetSeq1(chars(w))
		if m.RealQuickRatio() >= threshold && m.QuickRatio() >= threshold {
			if score := m.Ratio(); score >= threshold {
				found = append(found, candidate{word: w, score: score})
			}
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].score != found[j].score {
			return found[i].score > found[j].score
		}
		return found[i].word > found[j].word
	})

	if len(found) > maxResults {
		found = found[:maxResults]
	}

	result := make([]string, len(found))
	for i, c := range found {
		result[i] = c.word
	}
	return result, nil
}

// Ratio returns the similarity of two words in [0, 1]
func Ratio(a, b string) float64 {
	return difflib.NewMatcher(chars(strings.ToLower(a)), chars(strings.ToLower(b))).Ratio()
}

func chars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
