package match

import (
	"sort"
)

// Candidate is a known field name scored against a requested one.
type Candidate struct {
	Name  string
	Score float64 // normalized Levenshtein similarity (0-1)
}

// CandidateList is a list of candidates with ranking functionality.
type CandidateList []Candidate

// RankNames scores every known name against the requested one and returns
// them sorted by score (descending). Both the plain and the suffix-stripped
// normalizations are tried; the better score wins.
func RankNames(requested string, known []string) CandidateList {
	candidates := make(CandidateList, 0, len(known))

	for _, name := range known {
		score := NormalizedLevenshteinScore(requested, name)
		if stripped := NormalizedLevenshteinScoreWithSuffixStrip(requested, name); stripped > score {
			score = stripped
		}

		candidates = append(candidates, Candidate{Name: name, Score: score})
	}

	sort.Sort(candidates)

	return candidates
}

// Suggest returns at most limit names scoring at least DefaultMinScore,
// best first. Used to build "did you mean" hints.
func Suggest(requested string, known []string, limit int) []string {
	ranked := RankNames(requested, known).AboveThreshold(DefaultMinScore).Top(limit)

	out := make([]string, 0, len(ranked))
	for _, c := range ranked {
		out = append(out, c.Name)
	}

	return out
}

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
// Sorts by score descending, then by name for determinism.
func (c CandidateList) Less(i, j int) bool {
	if c[i].Score != c[j].Score {
		return c[i].Score > c[j].Score
	}

	return c[i].Name < c[j].Name
}

// Top returns the top n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n >= len(c) {
		return c
	}
	return c[:n]
}

// AboveThreshold returns candidates with score above the threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var result CandidateList
	for _, cand := range c {
		if cand.Score >= threshold {
			result = append(result, cand)
		}
	}
	return result
}

// DefaultMinScore is the minimum similarity for a name to be suggested.
const DefaultMinScore = 0.5
