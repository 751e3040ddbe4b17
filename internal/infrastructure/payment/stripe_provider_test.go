package payment_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbilling "github.com/jhoicas/invoice-builder-api/internal/application/billing"
	"github.com/jhoicas/invoice-builder-api/internal/domain"
	"github.com/jhoicas/invoice-builder-api/internal/infrastructure/payment"
)

func TestAmountInMinorUnits(t *testing.T) {
	cases := []struct {
		in       string
		currency string
		want     int64
	}{
		{"2712.50", "USD", 271250},
		{"1250", "usd", 125000},
		{"0.725725", "EUR", 73},
		{"10.004", "USD", 1000},
		{"1000", "JPY", 1000},
		{"1000", "jpy", 1000},
		{"15000.6", "KRW", 15001},
		{"25.5", "", 2550},
	}
	for _, tc := range cases {
		got, err := payment.AmountInMinorUnits(decimal.RequireFromString(tc.in), tc.currency)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, "%s %s", tc.in, tc.currency)
	}
}

func TestAmountInMinorUnits_NoPositivo(t *testing.T) {
	_, err := payment.AmountInMinorUnits(decimal.Zero, "USD")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestCreatePaymentLink_SinSecretKey(t *testing.T) {
	p := payment.NewStripeProvider()
	_, err := p.CreatePaymentLink(context.Background(), appbilling.PaymentLinkRequest{
		InvoiceID: "inv_1",
		Currency:  "USD",
		Amount:    decimal.NewFromInt(10),
		Config:    map[string]string{"publishableKey": "pk_test"},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "sin secretKey es error de validación")
}
