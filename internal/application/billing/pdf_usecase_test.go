package billing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-builder-api/internal/application/billing"
	"github.com/jhoicas/invoice-builder-api/internal/domain"
	"github.com/jhoicas/invoice-builder-api/internal/domain/entity"
)

type captureGenerator struct {
	data billing.InvoicePDFData
}

func (g *captureGenerator) GenerateInvoicePDF(_ context.Context, data billing.InvoicePDFData) ([]byte, error) {
	g.data = data
	return []byte("%PDF-fake"), nil
}

func TestDownloadInvoicePDF(t *testing.T) {
	s := seeded(t)
	gen := &captureGenerator{}
	uc := billing.NewPDFUseCase(s.Invoices(), s.Clients(), s.Users(), gen, "Config Co")

	data, filename, err := uc.DownloadInvoicePDF(context.Background(), user, "invoice_3")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(data))
	assert.Equal(t, "invoice_INV-2024-003.pdf", filename)
	assert.Equal(t, "Your Company Name", gen.data.CompanyName, "el nombre de empresa del usuario tiene prioridad")
	assert.Equal(t, "Michael Brown", gen.data.Client.Name)
	assert.Len(t, gen.data.Items, 2)
	// el reloj real ya superó el vencimiento de 2024
	assert.Equal(t, entity.InvoiceStatusOverdue, gen.data.Status)
}

func TestDownloadInvoicePDF_OtroUsuario(t *testing.T) {
	s := seeded(t)
	uc := billing.NewPDFUseCase(s.Invoices(), s.Clients(), s.Users(), &captureGenerator{}, "Config Co")
	_, _, err := uc.DownloadInvoicePDF(context.Background(), "user_2", "invoice_1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
