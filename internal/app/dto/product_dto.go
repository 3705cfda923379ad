package dto

import (
	"github.com/mrops-br/shophub-api/internal/domain"
)

// RatingPayload is the review score of a product
type RatingPayload struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// ProductResponse represents the product response
type ProductResponse struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Price       float64       `json:"price"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Image       string        `json:"image"`
	Rating      RatingPayload `json:"rating"`
}

// CreateProductRequest represents the request to create a local product
type CreateProductRequest struct {
	Title       string         `json:"title"`
	Price       float64        `json:"price"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Image       string         `json:"image"`
	Rating      *RatingPayload `json:"rating,omitempty"`
}

// UpdateProductRequest carries the fields to change; absent fields are kept
type UpdateProductRequest struct {
	Title       *string        `json:"title,omitempty"`
	Price       *float64       `json:"price,omitempty"`
	Description *string        `json:"description,omitempty"`
	Category    *string        `json:"category,omitempty"`
	Image       *string        `json:"image,omitempty"`
	Rating      *RatingPayload `json:"rating,omitempty"`
}

// ToProduct converts the request into a product draft without an id
func (r CreateProductRequest) ToProduct() domain.Product {
	p := domain.Product{
		Title:       r.Title,
		Price:       r.Price,
		Description: r.Description,
		Category:    r.Category,
		Image:       r.Image,
	}
	if r.Rating != nil {
		p.Rating = domain.Rating{Rate: r.Rating.Rate, Count: r.Rating.Count}
	}
	return p
}

// ToPatch converts the request into a domain patch
func (r UpdateProductRequest) ToPatch() domain.ProductPatch {
	patch := domain.ProductPatch{
		Title:       r.Title,
		Price:       r.Price,
		Description: r.Description,
		Category:    r.Category,
		Image:       r.Image,
	}
	if r.Rating != nil {
		patch.Rating = &domain.Rating{Rate: r.Rating.Rate, Count: r.Rating.Count}
	}
	return patch
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Title:       p.Title,
		Price:       p.Price,
		Description: p.Description,
		Category:    p.Category,
		Image:       p.Image,
		Rating:      RatingPayload{Rate: p.Rating.Rate, Count: p.Rating.Count},
	}
}

// ToProductResponseList converts a list of domain Products to ProductResponse list
func ToProductResponseList(products []domain.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i, p := range products {
		responses[i] = ToProductResponse(p)
	}
	return responses
}
