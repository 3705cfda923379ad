package handler

import (
	"log/slog"
	"net/http"

	"github.com/mrops-br/shophub-api/internal/app/dto"
	"github.com/mrops-br/shophub-api/internal/app/service"
	"github.com/mrops-br/shophub-api/internal/infrastructure/http/response"
)

type CheckoutHandler struct {
	service *service.CheckoutService
	logger  *slog.Logger
}

func NewCheckoutHandler(service *service.CheckoutService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		logger:  logger,
	}
}

// PlaceOrder handles POST /checkout
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req dto.CheckoutRequest
	if err := decodeJSON(r, h.logger, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}
	req = req.WithDefaults()

	order, err := h.service.PlaceOrder(r.Context(), req.Shipping, req.Payment)
	if err != nil {
		writeError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, dto.ToOrderResponse(order))
}
