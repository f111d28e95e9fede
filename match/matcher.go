// Package match provides the approximate-matching primitives the resolution
// pipeline is built on: a dissimilarity ranker, tokenizer strategies, and a
// statistical language detector.
//
// Scores are dissimilarities: 0 means identical, 1 means unrelated, and lower
// is always better. The score/weight re-ranking arithmetic in the dialogue
// engine depends on this direction.
package match

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Candidate is one rankable unit: a key identifying the underlying item and
// the text variants it may be matched by.
type Candidate struct {
	Key   string
	Texts []string
}

// Result is a ranked candidate with its dissimilarity score in [0,1].
type Result struct {
	Key   string
	Score float64
}

// Matcher ranks candidates against a query, best (lowest score) first.
type Matcher interface {
	Rank(query string, cands []Candidate) []Result
}

// NewLevenshteinMatcher returns a Matcher scoring by case-folded normalized
// edit distance. A candidate's score is the best over its text variants.
func NewLevenshteinMatcher() Matcher {
	return levenshteinMatcher{}
}

type levenshteinMatcher struct{}

func (levenshteinMatcher) Rank(query string, cands []Candidate) []Result {
	q := fold(query)
	if q == "" || len(cands) == 0 {
		return nil
	}

	results := make([]Result, 0, len(cands))
	for _, c := range cands {
		best := math.Inf(1)
		for _, text := range c.Texts {
			if s := Distance(q, fold(text)); s < best {
				best = s
			}
		}
		if math.IsInf(best, 1) {
			continue // candidate had no usable text
		}
		results = append(results, Result{Key: c.Key, Score: best})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score < results[j].Score
	})
	return results
}

// Distance returns the normalized edit distance between two strings:
// edit distance divided by the longer rune length. Inputs are compared
// as given; callers fold case first if they want case-insensitivity.
func Distance(a, b string) float64 {
	if a == b {
		return 0
	}
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 0
	}
	d := float64(levenshtein.ComputeDistance(a, b)) / float64(longest)
	if d > 1 {
		d = 1
	}
	return d
}

// Suggest returns up to max entries from pool that the query is a fuzzy
// subsequence of, nearest first. Used for "did you mean" hints on the
// fallback path.
func Suggest(query string, pool []string, max int) []string {
	query = fold(query)
	if query == "" || max <= 0 {
		return nil
	}

	ranks := fuzzy.RankFindNormalizedFold(query, pool)
	sort.Sort(ranks)

	seen := make(map[string]struct{}, max)
	out := make([]string, 0, max)
	for _, r := range ranks {
		if _, ok := seen[r.Target]; ok {
			continue
		}
		seen[r.Target] = struct{}{}
		out = append(out, r.Target)
		if len(out) == max {
			break
		}
	}
	return out
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
