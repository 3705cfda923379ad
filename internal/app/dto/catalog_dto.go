package dto

import (
	"github.com/mrops-br/shophub-api/internal/app/service"
	"github.com/mrops-br/shophub-api/internal/domain"
)

// FiltersPayload is both the filter state and a partial update of it
type FiltersPayload struct {
	Category  *string  `json:"category,omitempty"`
	MinPrice  *float64 `json:"minPrice,omitempty"`
	MaxPrice  *float64 `json:"maxPrice,omitempty"`
	MinRating *float64 `json:"minRating,omitempty"`
}

func (f FiltersPayload) ToPatch() domain.FilterPatch {
	return domain.FilterPatch{
		Category:  f.Category,
		MinPrice:  f.MinPrice,
		MaxPrice:  f.MaxPrice,
		MinRating: f.MinRating,
	}
}

type SearchRequest struct {
	Query string `json:"query"`
}

// CatalogResponse is the listing view state
type CatalogResponse struct {
	Products          []ProductResponse     `json:"products"`
	Loading           bool                  `json:"loading"`
	Error             *string               `json:"error"`
	SearchQuery       string                `json:"searchQuery"`
	Filters           domain.FilterCriteria `json:"filters"`
	Categories        []string              `json:"categories"`
	IsAnyFilterActive bool                  `json:"isAnyFilterActive"`
}

func ToCatalogResponse(s service.CatalogState) CatalogResponse {
	resp := CatalogResponse{
		Products:          ToProductResponseList(s.Products),
		Loading:           s.Loading,
		SearchQuery:       s.SearchQuery,
		Filters:           s.Filters,
		Categories:        s.Categories,
		IsAnyFilterActive: s.IsAnyFilterActive,
	}
	if s.Error != "" {
		msg := s.Error
		resp.Error = &msg
	}
	return resp
}
