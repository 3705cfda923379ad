package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCheckout(t *testing.T) {
	shipping := ShippingInfo{
		FullName:   "Budi Santoso",
		Email:      "budi@example.com",
		Phone:      "+62 812 0000 0000",
		Address:    "Jl. Merdeka 1",
		City:       "Jakarta",
		PostalCode: "10110",
		Country:    DefaultCountry,
	}
	payment := PaymentInfo{CardNumber: "4111 1111 1111 1111", CardName: "BUDI", ExpiryDate: "12/29", CVV: "123"}

	require.NoError(t, ValidateCheckout(shipping, payment))

	shipping.City = " "
	payment.CVV = ""
	err := ValidateCheckout(shipping, payment)

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, []string{"city", "cvv"}, vErr.Fields)
	assert.Equal(t, "missing required fields: city, cvv", err.Error())
}
