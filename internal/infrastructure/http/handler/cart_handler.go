package handler

import (
	"log/slog"
	"net/http"

	"github.com/mrops-br/shophub-api/internal/app/dto"
	"github.com/mrops-br/shophub-api/internal/app/service"
	"github.com/mrops-br/shophub-api/internal/infrastructure/http/response"
)

// CartHandler handles HTTP requests for the cart
type CartHandler struct {
	cart    *service.CartService
	catalog *service.CatalogService
	logger  *slog.Logger
}

func NewCartHandler(cart *service.CartService, catalog *service.CatalogService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		cart:    cart,
		catalog: catalog,
		logger:  logger,
	}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, dto.ToCartResponse(h.cart.Snapshot(r.Context())))
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.cart.ClearCart(r.Context())
	response.NoContent(w)
}

// AddItem handles POST /cart/items. The quantity defaults to 1.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req dto.AddToCartRequest
	if err := decodeJSON(r, h.logger, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	product, err := h.catalog.FindProduct(r.Context(), req.ProductID)
	if err != nil {
		writeError(w, err)
		return
	}

	snap, err := h.cart.AddToCart(r.Context(), product, quantity)
	if err != nil {
		writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, dto.ToCartResponse(snap))
}

// UpdateItem handles PATCH /cart/items/{id}
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	var req dto.UpdateQuantityRequest
	if err := decodeJSON(r, h.logger, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	response.JSON(w, http.StatusOK, dto.ToCartResponse(h.cart.UpdateQuantity(r.Context(), id, req.Quantity)))
}

// RemoveItem handles DELETE /cart/items/{id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	response.JSON(w, http.StatusOK, dto.ToCartResponse(h.cart.RemoveFromCart(r.Context(), id)))
}
