package domain

import (
	"errors"
	"strings"
)

var (
	ErrInvalidProductTitle    = errors.New("product title is required")
	ErrInvalidProductCategory = errors.New("product category is required")
	ErrInvalidProductPrice    = errors.New("product price must not be negative")
	ErrInvalidProductRating   = errors.New("product rating must be between 0 and 5 with a non-negative count")
)

// MaxRating is the upper bound of an average product rating
const MaxRating = 5.0

// Rating is the aggregated review score of a product
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product represents a catalog item as served by the remote catalog
type Product struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      Rating  `json:"rating"`
}

// ProductPatch carries a partial update for a locally managed product.
// Nil fields keep their current value.
type ProductPatch struct {
	Title       *string
	Price       *float64
	Description *string
	Category    *string
	Image       *string
	Rating      *Rating
}

// Validate performs business validation on the product
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return ErrInvalidProductTitle
	}
	if strings.TrimSpace(p.Category) == "" {
		return ErrInvalidProductCategory
	}
	if p.Price < 0 {
		return ErrInvalidProductPrice
	}
	if p.Rating.Rate < 0 || p.Rating.Rate > MaxRating || p.Rating.Count < 0 {
		return ErrInvalidProductRating
	}
	return nil
}

// Apply returns a copy of p with the patch fields merged in
func (p Product) Apply(patch ProductPatch) Product {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	if patch.Rating != nil {
		p.Rating = *patch.Rating
	}
	return p
}
