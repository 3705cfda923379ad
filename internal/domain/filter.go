package domain

import (
	"strings"

	"golang.org/x/text/cases"
)

// CategoryAll is the wildcard category selector
const CategoryAll = "all"

// DefaultMaxPrice is the upper bound of the default price band
const DefaultMaxPrice = 1000.0

// FilterCriteria is the structured narrowing applied to the catalog
type FilterCriteria struct {
	Category  string  `json:"category"`
	MinPrice  float64 `json:"minPrice"`
	MaxPrice  float64 `json:"maxPrice"`
	MinRating float64 `json:"minRating"`
}

// FilterPatch carries the fields of a partial filter update.
// Nil fields retain their prior value.
type FilterPatch struct {
	Category  *string
	MinPrice  *float64
	MaxPrice  *float64
	MinRating *float64
}

// DefaultFilterCriteria returns the wildcard criteria for a price band of [0, maxPrice]
func DefaultFilterCriteria(maxPrice float64) FilterCriteria {
	return FilterCriteria{
		Category:  CategoryAll,
		MinPrice:  0,
		MaxPrice:  maxPrice,
		MinRating: 0,
	}
}

// Merge returns f with the non-nil patch fields applied
func (f FilterCriteria) Merge(patch FilterPatch) FilterCriteria {
	if patch.Category != nil {
		f.Category = *patch.Category
	}
	if patch.MinPrice != nil {
		f.MinPrice = *patch.MinPrice
	}
	if patch.MaxPrice != nil {
		f.MaxPrice = *patch.MaxPrice
	}
	if patch.MinRating != nil {
		f.MinRating = *patch.MinRating
	}
	return f
}

// IsActive reports whether f narrows anything compared to defaults
func (f FilterCriteria) IsActive(defaults FilterCriteria) bool {
	return f.Category != CategoryAll ||
		f.MinPrice > defaults.MinPrice ||
		f.MaxPrice < defaults.MaxPrice ||
		f.MinRating > defaults.MinRating
}

// Matches applies category, inclusive price band and rating floor
func (f FilterCriteria) Matches(p Product) bool {
	if f.Category != CategoryAll && p.Category != f.Category {
		return false
	}
	if p.Price < f.MinPrice || p.Price > f.MaxPrice {
		return false
	}
	return p.Rating.Rate >= f.MinRating
}

// VisibleProducts applies the search predicate then the filter predicate,
// preserving the order of products.
func VisibleProducts(products []Product, query string, f FilterCriteria) []Product {
	s := newSearcher(query)
	visible := make([]Product, 0, len(products))
	for _, p := range products {
		if s.match(p) && f.Matches(p) {
			visible = append(visible, p)
		}
	}
	return visible
}

// Categories returns CategoryAll followed by the distinct categories of
// products in first-seen order.
func Categories(products []Product) []string {
	seen := make(map[string]struct{}, len(products))
	out := []string{CategoryAll}
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

// searcher folds case once per query. A cases.Caser is stateful, so each
// searcher owns its own.
type searcher struct {
	caser  cases.Caser
	folded string
}

func newSearcher(query string) *searcher {
	c := cases.Fold()
	return &searcher{caser: c, folded: c.String(query)}
}

func (s *searcher) match(p Product) bool {
	if s.folded == "" {
		return true
	}
	return s.contains(p.Title) || s.contains(p.Category) || s.contains(p.Description)
}

func (s *searcher) contains(field string) bool {
	return strings.Contains(s.caser.String(field), s.folded)
}
