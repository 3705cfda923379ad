package handler

import (
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mrops-br/shophub-api/internal/app/dto"
	"github.com/mrops-br/shophub-api/internal/app/service"
	"github.com/mrops-br/shophub-api/internal/domain"
	"github.com/mrops-br/shophub-api/internal/infrastructure/http/response"
)

// ProductHandler serves the product listing and the locally managed products
type ProductHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *service.CatalogService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// ListProducts handles GET /products. Query parameters q, category,
// minPrice, maxPrice and minRating update the catalog state before listing.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	patch, err := filterPatchFromQuery(query)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	if query.Has("q") {
		h.service.SetSearchQuery(r.Context(), query.Get("q"))
	}
	if patch != (domain.FilterPatch{}) {
		h.service.UpdateFilters(r.Context(), patch)
	}

	response.JSON(w, http.StatusOK, dto.ToProductResponseList(h.service.VisibleProducts()))
}

// GetProduct handles GET /products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	product, err := h.service.FindProduct(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, dto.ToProductResponse(product))
}

// ListCategories handles GET /categories
func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.service.Categories())
}

// ListLocalProducts handles GET /local-products
func (h *ProductHandler) ListLocalProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.LocalProducts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, dto.ToProductResponseList(products))
}

// CreateLocalProduct handles POST /local-products
func (h *ProductHandler) CreateLocalProduct(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateProductRequest
	if err := decodeJSON(r, h.logger, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	product, err := h.service.AddProduct(r.Context(), req.ToProduct())
	if err != nil {
		writeError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, dto.ToProductResponse(product))
}

// UpdateLocalProduct handles PUT /local-products/{id}
func (h *ProductHandler) UpdateLocalProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	var req dto.UpdateProductRequest
	if err := decodeJSON(r, h.logger, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), id, req.ToPatch())
	if err != nil {
		writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, dto.ToProductResponse(product))
}

// DeleteLocalProduct handles DELETE /local-products/{id}
func (h *ProductHandler) DeleteLocalProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	response.NoContent(w)
}

func filterPatchFromQuery(query url.Values) (domain.FilterPatch, error) {
	var patch domain.FilterPatch
	if query.Has("category") {
		category := query.Get("category")
		patch.Category = &category
	}

	for name, dst := range map[string]**float64{
		"minPrice":  &patch.MinPrice,
		"maxPrice":  &patch.MaxPrice,
		"minRating": &patch.MinRating,
	} {
		if !query.Has(name) {
			continue
		}
		v, err := strconv.ParseFloat(query.Get(name), 64)
		if err != nil {
			return domain.FilterPatch{}, fmt.Errorf("%s must be a number", name)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return domain.FilterPatch{}, fmt.Errorf("%s must be a finite number", name)
		}
		*dst = &v
	}
	return patch, nil
}
