package dto

import (
	"github.com/mrops-br/shophub-api/internal/app/service"
	"github.com/shopspring/decimal"
)

// TaxRate is applied to the cart subtotal on the summary
var TaxRate = decimal.RequireFromString("0.10")

type AddToCartRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  *int  `json:"quantity,omitempty"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CartItemResponse struct {
	Product   ProductResponse `json:"product"`
	Quantity  int             `json:"quantity"`
	LineTotal string          `json:"lineTotal"`
}

// CartSummary holds the money figures shown next to the cart, as fixed
// two-decimal strings. Shipping is always free.
type CartSummary struct {
	Subtotal string `json:"subtotal"`
	Tax      string `json:"tax"`
	Shipping string `json:"shipping"`
	Total    string `json:"total"`
}

type CartResponse struct {
	Items      []CartItemResponse `json:"items"`
	TotalItems int                `json:"totalItems"`
	TotalPrice float64            `json:"totalPrice"`
	Summary    CartSummary        `json:"summary"`
}

func ToCartResponse(s service.CartSnapshot) CartResponse {
	items := make([]CartItemResponse, len(s.Items))
	for i, e := range s.Items {
		line := decimal.NewFromFloat(e.Product.Price).Mul(decimal.NewFromInt(int64(e.Quantity)))
		items[i] = CartItemResponse{
			Product:   ToProductResponse(e.Product),
			Quantity:  e.Quantity,
			LineTotal: line.StringFixed(2),
		}
	}

	return CartResponse{
		Items:      items,
		TotalItems: s.TotalItems,
		TotalPrice: s.TotalPrice,
		Summary:    NewCartSummary(s.TotalPrice),
	}
}

// NewCartSummary derives tax and total from an unrounded subtotal
func NewCartSummary(subtotal float64) CartSummary {
	sub := decimal.NewFromFloat(subtotal)
	tax := sub.Mul(TaxRate)
	return CartSummary{
		Subtotal: sub.StringFixed(2),
		Tax:      tax.StringFixed(2),
		Shipping: decimal.Zero.StringFixed(2),
		Total:    sub.Add(tax).StringFixed(2),
	}
}
