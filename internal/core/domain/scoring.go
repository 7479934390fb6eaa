// internal/core/domain/scoring.go
package domain

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Score weights
const (
	ScoreNameExact     = 3.0
	ScoreNameContains  = 2.0
	ScoreBrandExact    = 1.0
	ScoreBrandContains = 0.5
)

// Candidate is one (batch, product) pair from a shop's sellable catalog
type Candidate struct {
	BatchID      uuid.UUID `json:"batch_id"`
	Quantity     int       `json:"quantity"`
	ProductName  string    `json:"product_name"`
	ProductBrand *string   `json:"product_brand,omitempty"`
}

// ResolvedMatch is a scored candidate. It lives for one resolution call.
type ResolvedMatch struct {
	BatchID  uuid.UUID `json:"batch_id"`
	Quantity int       `json:"quantity"`
	Score    float64   `json:"score"`
}

// ScoreCandidates ranks candidates against a target name and brand.
// Candidates scoring 0 or holding no stock are dropped. Ties keep the
// order in which candidates were supplied.
func ScoreCandidates(targetName, targetBrand string, candidates []Candidate) []ResolvedMatch {
	name := Normalize(targetName)
	brand := Normalize(targetBrand)

	matches := make([]ResolvedMatch, 0, len(candidates))
	for _, c := range candidates {
		if c.Quantity <= 0 {
			continue
		}
		score := similarity(name, Normalize(c.ProductName), ScoreNameExact, ScoreNameContains) +
			similarity(brand, NormalizePtr(c.ProductBrand), ScoreBrandExact, ScoreBrandContains)
		if score <= 0 {
			continue
		}
		matches = append(matches, ResolvedMatch{
			BatchID:  c.BatchID,
			Quantity: c.Quantity,
			Score:    score,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

// TopMatch returns the best ranked match or nil
func TopMatch(matches []ResolvedMatch) *ResolvedMatch {
	if len(matches) == 0 {
		return nil
	}
	m := matches[0]
	return &m
}

// similarity compares two normalized strings. Empty on either side scores 0.
func similarity(target, candidate string, exact, contains float64) float64 {
	if target == "" || candidate == "" {
		return 0
	}
	if target == candidate {
		return exact
	}
	if strings.Contains(candidate, target) || strings.Contains(target, candidate) {
		return contains
	}
	return 0
}
