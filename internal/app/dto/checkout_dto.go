package dto

import (
	"time"

	"github.com/mrops-br/shophub-api/internal/app/service"
	"github.com/mrops-br/shophub-api/internal/domain"
)

type CheckoutRequest struct {
	Shipping domain.ShippingInfo `json:"shipping"`
	Payment  domain.PaymentInfo  `json:"payment"`
}

// WithDefaults fills the country preselected on the form when it was left out
func (r CheckoutRequest) WithDefaults() CheckoutRequest {
	if r.Shipping.Country == "" {
		r.Shipping.Country = domain.DefaultCountry
	}
	return r
}

type OrderResponse struct {
	ID        string              `json:"id"`
	Items     []CartItemResponse  `json:"items"`
	ItemCount int                 `json:"itemCount"`
	Summary   CartSummary         `json:"summary"`
	Shipping  domain.ShippingInfo `json:"shipping"`
	PlacedAt  time.Time           `json:"placedAt"`
	Message   string              `json:"message"`
}

func ToOrderResponse(o *domain.Order) OrderResponse {
	cart := ToCartResponse(service.CartSnapshot{
		Items:      o.Items,
		TotalItems: o.ItemCount,
		TotalPrice: o.Subtotal,
	})
	return OrderResponse{
		ID:        o.ID,
		Items:     cart.Items,
		ItemCount: o.ItemCount,
		Summary:   cart.Summary,
		Shipping:  o.Shipping,
		PlacedAt:  o.PlacedAt,
		Message:   "Thank you for your purchase. Your order has been successfully placed and will be shipped soon.",
	}
}
