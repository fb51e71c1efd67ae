// Package weights provides relevance weights for search term matches on
// catalog components. Matches on stronger fields score higher.
package weights

import (
	"strings"

	"github.com/opmodel/catalog/pkg/metadata"
)

// Default weights for component field matches.
// Higher weights rank earlier in search results.
const (
	WeightID      = 100
	WeightName    = 80
	WeightPkgName = 60
	WeightSummary = 40
	WeightDefault = 0
)

// Score computes the relevance of cpt against the given search terms,
// stores it as the component's sort score and returns it. Matching is
// case-insensitive substring matching per field; every term scores its
// strongest matching field.
func Score(cpt *metadata.Component, terms ...string) int {
	score := 0
	for _, term := range terms {
		term = strings.ToLower(term)
		if term == "" {
			continue
		}
		switch {
		case strings.Contains(strings.ToLower(cpt.ID), term):
			score += WeightID
		case strings.Contains(strings.ToLower(cpt.Name), term):
			score += WeightName
		case strings.Contains(strings.ToLower(cpt.PkgName), term):
			score += WeightPkgName
		case strings.Contains(strings.ToLower(cpt.Summary), term):
			score += WeightSummary
		default:
			score += WeightDefault
		}
	}

	cpt.SortScore = score
	return score
}

// Rank scores every component of the collection against the search terms
// and sorts the collection best match first.
func Rank(cc *metadata.ComponentCollection, terms ...string) {
	for _, cpt := range cc.Components() {
		Score(cpt, terms...)
	}
	cc.SortByScore()
}
