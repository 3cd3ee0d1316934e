package catalog

import (
	"sort"
	"strings"

	"shopfront/internal/domain"
)

// Attribute weights for the related-items heuristic. Hand-tuned constants,
// not a calibrated model.
const (
	weightBrand   = 3
	weightStorage = 2
	weightRAM     = 2
	weightColor   = 1
	weightModel   = 1
	weightPrice   = 1

	// priceBand is the relative distance within which two prices are
	// considered close.
	priceBand = 0.20
)

// ScoredCandidate wraps a catalog item with its relevance score against a
// reference item. Lives only for the duration of one ranking call.
type ScoredCandidate struct {
	Item              domain.CatalogItem `json:"item"`
	Score             int                `json:"score"`
	MatchedAttributes []string           `json:"matched_attributes"`
}

// Score computes the weighted attribute-match score of candidate against
// ref. Missing attributes on either side never match and never panic.
func Score(ref, candidate *domain.CatalogItem) (int, []string) {
	score := 0
	var matched []string

	if ref.Brand != "" && ref.Brand == candidate.Brand {
		score += weightBrand
		matched = append(matched, "brand")
	}
	if strEq(ref.Storage, candidate.Storage) {
		score += weightStorage
		matched = append(matched, "storage")
	}
	if strEq(ref.RAM, candidate.RAM) {
		score += weightRAM
		matched = append(matched, "ram")
	}
	if strEq(ref.Color, candidate.Color) {
		score += weightColor
		matched = append(matched, "color")
	}
	if modelOverlap(ref.Model, candidate.Model) {
		score += weightModel
		matched = append(matched, "model")
	}
	if priceClose(ref.Price, candidate.Price) {
		score += weightPrice
		matched = append(matched, "price")
	}

	return score, matched
}

func strEq(a, b *string) bool {
	return a != nil && b != nil && *a == *b
}

// modelOverlap tokenizes both model names on whitespace, lower-cases the
// tokens and reports whether any token of one is a substring of any token
// of the other.
func modelOverlap(a, b *string) bool {
	if a == nil || b == nil {
		return false
	}
	aTokens := strings.Fields(strings.ToLower(*a))
	bTokens := strings.Fields(strings.ToLower(*b))

	for _, at := range aTokens {
		for _, bt := range bTokens {
			if strings.Contains(at, bt) || strings.Contains(bt, at) {
				return true
			}
		}
	}
	return false
}

func priceClose(ref, candidate float64) bool {
	if ref <= 0 {
		return false
	}
	diff := candidate - ref
	if diff < 0 {
		diff = -diff
	}
	return diff <= priceBand*ref
}

// Rank scores one fetched page of candidates against ref, drops candidates
// with no matched attribute at all, and orders the rest by score descending
// with match count as tie-break. Remaining ties keep fetch order. A
// candidate carrying the reference id is skipped.
func Rank(ref *domain.CatalogItem, candidates []domain.CatalogItem) []ScoredCandidate {
	scored := make([]ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == ref.ID {
			continue
		}
		score, matched := Score(ref, &c)
		if len(matched) == 0 {
			continue
		}
		scored = append(scored, ScoredCandidate{Item: c, Score: score, MatchedAttributes: matched})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return len(scored[i].MatchedAttributes) > len(scored[j].MatchedAttributes)
	})

	return scored
}
