package catalog

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Field weights for query matching. A product earns each weight at most once.
const (
	WeightName        = 10.0
	WeightBrand       = 8.0
	WeightCategory    = 6.0
	WeightSubcategory = 5.0
	WeightTag         = 4.0
	WeightDescription = 3.0
	WeightColor       = 2.0
	WeightMaterial    = 1.0

	// RatingBoost is multiplied by the product rating and added to every score.
	RatingBoost = 0.5
)

// Filters narrows a search. Zero values disable a filter.
type Filters struct {
	Category string
	MaxPrice decimal.Decimal
	Color    string
	Brand    string
}

func (f Filters) normalized() Filters {
	return Filters{
		Category: strings.TrimSpace(f.Category),
		MaxPrice: f.MaxPrice,
		Color:    strings.TrimSpace(f.Color),
		Brand:    strings.TrimSpace(f.Brand),
	}
}

func (f Filters) IsZero() bool {
	n := f.normalized()
	return n.Category == "" && n.Color == "" && n.Brand == "" && !n.MaxPrice.IsPositive()
}

func (f Filters) admits(p Product) bool {
	if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
		return false
	}
	if f.MaxPrice.IsPositive() && p.Price.GreaterThan(f.MaxPrice) {
		return false
	}
	if f.Color != "" && !strings.EqualFold(p.Color, f.Color) {
		return false
	}
	if f.Brand != "" && !strings.EqualFold(p.Brand, f.Brand) {
		return false
	}
	return true
}

type scored struct {
	product Product
	score   float64
}

// Search filters in-stock products and ranks them by relevance to query.
// With an empty query every filtered product is kept and ranked by rating.
// Ties keep catalog order.
func (c *Catalog) Search(query string, filters Filters) []Product {
	q := strings.ToLower(strings.TrimSpace(query))
	f := filters.normalized()

	c.mu.RLock()
	results := make([]scored, 0, len(c.entries))
	for _, e := range c.entries {
		if e.invalid != nil || !e.product.InStock || !f.admits(e.product) {
			continue
		}

		var score float64
		if q != "" {
			score = MatchScore(e.product, q)
			if score == 0 {
				continue
			}
		}
		score += e.product.Rating * RatingBoost
		results = append(results, scored{product: e.product.clone(), score: score})
	}
	c.mu.RUnlock()

	slices.SortStableFunc(results, func(a, b scored) int {
		if a.score != b.score {
			if a.score > b.score {
				return -1
			}
			return 1
		}
		switch {
		case a.product.Rating > b.product.Rating:
			return -1
		case a.product.Rating < b.product.Rating:
			return 1
		}
		return 0
	})

	out := make([]Product, 0, len(results))
	for _, r := range results {
		out = append(out, r.product)
	}
	return out
}

// MatchScore sums the weights of the fields of p that contain the lowercased
// query q. It does not include the rating boost.
func MatchScore(p Product, q string) float64 {
	if q == "" {
		return 0
	}

	contains := func(field string) bool {
		return strings.Contains(strings.ToLower(field), q)
	}

	var score float64
	if contains(p.Name) {
		score += WeightName
	}
	if contains(p.Brand) {
		score += WeightBrand
	}
	if contains(p.Category) {
		score += WeightCategory
	}
	if contains(p.Subcategory) {
		score += WeightSubcategory
	}
	if slices.ContainsFunc(p.Tags, contains) {
		score += WeightTag
	}
	if contains(p.Description) {
		score += WeightDescription
	}
	if contains(p.Color) {
		score += WeightColor
	}
	if contains(p.Material) {
		score += WeightMaterial
	}
	return score
}
