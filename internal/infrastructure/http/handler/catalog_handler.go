package handler

import (
	"log/slog"
	"net/http"

	"github.com/mrops-br/shophub-api/internal/app/dto"
	"github.com/mrops-br/shophub-api/internal/app/service"
	"github.com/mrops-br/shophub-api/internal/infrastructure/http/response"
)

// CatalogHandler exposes the search and filter state of the listing
type CatalogHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

func NewCatalogHandler(service *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger,
	}
}

// GetState handles GET /catalog
func (h *CatalogHandler) GetState(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, dto.ToCatalogResponse(h.service.State()))
}

// Refresh handles POST /catalog/refresh
func (h *CatalogHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.service.FetchProducts(r.Context()); err != nil {
		response.Error(w, http.StatusBadGateway, err)
		return
	}

	response.JSON(w, http.StatusOK, dto.ToCatalogResponse(h.service.State()))
}

// SetSearch handles PUT /catalog/search
func (h *CatalogHandler) SetSearch(w http.ResponseWriter, r *http.Request) {
	var req dto.SearchRequest
	if err := decodeJSON(r, h.logger, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	h.service.SetSearchQuery(r.Context(), req.Query)
	response.JSON(w, http.StatusOK, dto.ToCatalogResponse(h.service.State()))
}

// UpdateFilters handles PATCH /catalog/filters
func (h *CatalogHandler) UpdateFilters(w http.ResponseWriter, r *http.Request) {
	var req dto.FiltersPayload
	if err := decodeJSON(r, h.logger, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	h.service.UpdateFilters(r.Context(), req.ToPatch())
	response.JSON(w, http.StatusOK, dto.ToCatalogResponse(h.service.State()))
}

// ClearFilters handles DELETE /catalog/filters
func (h *CatalogHandler) ClearFilters(w http.ResponseWriter, r *http.Request) {
	h.service.ClearFilters(r.Context())
	response.JSON(w, http.StatusOK, dto.ToCatalogResponse(h.service.State()))
}
