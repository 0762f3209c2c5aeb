// Package search ranks candidate names against a query with fuzzy subsequence matching.
package search

import (
	"cmp"
	"slices"
	"unicode"
)

// Candidate is a rankable item: ID identifies it, Display is what the query is matched against.
type Candidate struct {
	ID      string
	Display string
}

const (
	scoreMatch       = 1
	bonusConsecutive = 5
	bonusBoundary    = 8
	bonusStart       = 10
	bonusPrefix      = 25
	bonusExact       = 100
)

type options struct {
	minScore int
}

// Option configures Rank.
type Option func(*options)

// WithMinScore excludes candidates scoring below n. Values below 1 are raised to 1 so a
// non-matching candidate is never returned.
func WithMinScore(n int) Option {
	return func(o *options) {
		o.minScore = max(n, 1)
	}
}

// Rank orders candidates by their score against query. An empty query returns candidates as is.
// Otherwise non-matching candidates are dropped and the rest are ordered by score descending,
// then display name, then id.
func Rank(query string, candidates []Candidate, opts ...Option) []Candidate {
	if query == "" {
		return candidates
	}

	o := options{minScore: 1}
	for _, opt := range opts {
		opt(&o)
	}

	type scored struct {
		Candidate
		score int
	}

	matches := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		if s := Score(query, c.Display); s >= o.minScore {
			matches = append(matches, scored{Candidate: c, score: s})
		}
	}

	slices.SortFunc(matches, func(a, b scored) int {
		if a.score != b.score {
			return cmp.Compare(b.score, a.score)
		}
		if c := cmp.Compare(a.Display, b.Display); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	out := make([]Candidate, len(matches))
	for i, m := range matches {
		out[i] = m.Candidate
	}
	return out
}

// Score returns how well query matches name. Zero means query is not a case-insensitive
// subsequence of name; any match scores at least 1.
func Score(query, name string) int {
	score, _ := best(query, name)
	return score
}

// MatchPositions returns the rune indices of name matched by the best alignment of query, or nil
// when there is no match.
func MatchPositions(query, name string) []int {
	_, positions := best(query, name)
	return positions
}

func best(query, name string) (int, []int) {
	q := []rune(query)
	orig := []rune(name)
	if len(q) == 0 || len(q) > len(orig) {
		return 0, nil
	}
	for i := range q {
		q[i] = unicode.ToLower(q[i])
	}
	lower := make([]rune, len(orig))
	for i, r := range orig {
		lower[i] = unicode.ToLower(r)
	}

	bestScore := 0
	var bestPositions []int
	for start := range lower {
		if lower[start] != q[0] {
			continue
		}
		score, positions, ok := align(q, lower, orig, start)
		if ok && score > bestScore {
			bestScore, bestPositions = score, positions
		}
	}
	if bestScore == 0 {
		return 0, nil
	}

	if len(q) <= len(lower) && slices.Equal(lower[:len(q)], q) {
		bestScore += bonusPrefix
		if len(q) == len(lower) {
			bestScore += bonusExact
		}
	}
	return bestScore, bestPositions
}

// align greedily matches q against lower from start and scores the alignment.
func align(q, lower, orig []rune, start int) (int, []int, bool) {
	positions := make([]int, 0, len(q))
	score := 0
	qi := 0
	for i := start; i < len(lower) && qi < len(q); i++ {
		if lower[i] != q[qi] {
			continue
		}
		score += scoreMatch
		if n := len(positions); n > 0 && positions[n-1] == i-1 {
			score += bonusConsecutive
		}
		if isBoundary(orig, i) {
			score += bonusBoundary
		}
		positions = append(positions, i)
		qi++
	}
	if qi < len(q) {
		return 0, nil, false
	}

	if start == 0 {
		score += bonusStart
	}
	gaps := positions[len(positions)-1] - positions[0] + 1 - len(positions)
	return max(score-gaps, 1), positions, true
}

func isBoundary(orig []rune, i int) bool {
	if i == 0 {
		return true
	}
	prev, cur := orig[i-1], orig[i]
	switch prev {
	case '_', '-', '.', '/', ' ', '{', '}':
		return true
	}
	return unicode.IsLower(prev) && unicode.IsUpper(cur)
}
