// Package payment adaptadores de pasarelas de pago.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	appbilling "github.com/jhoicas/invoice-builder-api/internal/application/billing"
	"github.com/jhoicas/invoice-builder-api/internal/domain"
)

var _ appbilling.PaymentLinkProvider = (*StripeProvider)(nil)

// StripeProvider crea Payment Links de Stripe con la clave secreta guardada por el usuario.
type StripeProvider struct {
	backends *stripe.Backends // nil usa los backends por defecto
}

// NewStripeProvider construye el proveedor.
func NewStripeProvider() *StripeProvider { return &StripeProvider{} }

// WithBackends reemplaza los backends HTTP de Stripe (tests contra stripe-mock).
func (p *StripeProvider) WithBackends(b *stripe.Backends) *StripeProvider {
	p.backends = b
	return p
}

// CreatePaymentLink crea un Price de un solo uso por el total y un Payment Link sobre él.
func (p *StripeProvider) CreatePaymentLink(ctx context.Context, req appbilling.PaymentLinkRequest) (string, error) {
	key := strings.TrimSpace(req.Config["secretKey"])
	if key == "" {
		return "", fmt.Errorf("%w: stripe sin secretKey", domain.ErrInvalidInput)
	}
	amount, err := AmountInMinorUnits(req.Amount, req.Currency)
	if err != nil {
		return "", err
	}
	sc := client.New(key, p.backends)

	priceParams := &stripe.PriceParams{
		Currency:   stripe.String(strings.ToLower(req.Currency)),
		UnitAmount: stripe.Int64(amount),
		ProductData: &stripe.PriceProductDataParams{
			Name: stripe.String(req.Title),
		},
	}
	priceParams.Context = ctx
	price, err := sc.Prices.New(priceParams)
	if err != nil {
		return "", fmt.Errorf("stripe: crear precio: %w", stripeErr(err))
	}

	linkParams := &stripe.PaymentLinkParams{
		LineItems: []*stripe.PaymentLinkLineItemParams{
			{Price: stripe.String(price.ID), Quantity: stripe.Int64(1)},
		},
	}
	linkParams.Context = ctx
	linkParams.AddMetadata("invoice_id", req.InvoiceID)
	linkParams.AddMetadata("invoice_number", req.InvoiceNumber)
	link, err := sc.PaymentLinks.New(linkParams)
	if err != nil {
		return "", fmt.Errorf("stripe: crear enlace: %w", stripeErr(err))
	}
	return link.URL, nil
}

// zeroDecimalCurrencies monedas que Stripe cobra en unidades enteras.
// https://docs.stripe.com/currencies#zero-decimal
var zeroDecimalCurrencies = map[string]bool{
	"bif": true, "clp": true, "djf": true, "gnf": true, "jpy": true, "kmf": true,
	"krw": true, "mga": true, "pyg": true, "rwf": true, "ugx": true, "vnd": true,
	"vuv": true, "xaf": true, "xof": true, "xpf": true,
}

// AmountInMinorUnits convierte el total a la unidad mínima de la moneda (centavos, o la
// unidad entera en monedas sin decimales) redondeando al entero más cercano.
func AmountInMinorUnits(total decimal.Decimal, currency string) (int64, error) {
	if !total.IsPositive() {
		return 0, fmt.Errorf("%w: el total a cobrar debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if zeroDecimalCurrencies[strings.ToLower(strings.TrimSpace(currency))] {
		return total.Round(0).IntPart(), nil
	}
	return total.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}

// stripeErr traduce errores de autenticación o de solicitud a ErrInvalidInput.
func stripeErr(err error) error {
	var se *stripe.Error
	if !errors.As(err, &se) {
		return err
	}
	switch {
	case se.HTTPStatusCode == 401:
		return fmt.Errorf("%w: clave de stripe rechazada", domain.ErrInvalidInput)
	case se.Type == stripe.ErrorTypeInvalidRequest:
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, se.Msg)
	default:
		return err
	}
}
