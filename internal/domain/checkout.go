package domain

import (
	"fmt"
	"strings"
	"time"
)

// DefaultCountry is preselected on the shipping form
const DefaultCountry = "Indonesia"

// ShippingInfo is the delivery part of the checkout form
type ShippingInfo struct {
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// PaymentInfo is captured for display only, nothing is charged
type PaymentInfo struct {
	CardNumber string `json:"cardNumber"`
	CardName   string `json:"cardName"`
	ExpiryDate string `json:"expiryDate"`
	CVV        string `json:"cvv"`
}

// ValidationError lists the form fields that were left blank
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// Order is the result of a completed checkout
type Order struct {
	ID        string       `json:"id"`
	Items     []CartEntry  `json:"items"`
	ItemCount int          `json:"itemCount"`
	Subtotal  float64      `json:"subtotal"`
	Shipping  ShippingInfo `json:"shipping"`
	PlacedAt  time.Time    `json:"placedAt"`
}

// ValidateCheckout checks that every shipping and payment field is present
func ValidateCheckout(shipping ShippingInfo, payment PaymentInfo) error {
	fields := []struct {
		name  string
		value string
	}{
		{"fullName", shipping.FullName},
		{"email", shipping.Email},
		{"phone", shipping.Phone},
		{"address", shipping.Address},
		{"city", shipping.City},
		{"postalCode", shipping.PostalCode},
		{"country", shipping.Country},
		{"cardNumber", payment.CardNumber},
		{"cardName", payment.CardName},
		{"expiryDate", payment.ExpiryDate},
		{"cvv", payment.CVV},
	}

	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}
