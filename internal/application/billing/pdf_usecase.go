package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/invoice-builder-api/internal/domain"
	"github.com/jhoicas/invoice-builder-api/internal/domain/repository"
)

// PDFUseCase genera la representación gráfica (PDF) de una factura.
type PDFUseCase struct {
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
	userRepo    repository.UserRepository
	generator   InvoicePDFGenerator
	companyName string // emisor por defecto si el usuario no tiene empresa
	now         func() time.Time
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	userRepo repository.UserRepository,
	generator InvoicePDFGenerator,
	companyName string,
) *PDFUseCase {
	return &PDFUseCase{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		userRepo:    userRepo,
		generator:   generator,
		companyName: companyName,
		now:         time.Now,
	}
}

// DownloadInvoicePDF carga factura, líneas y cliente y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe o no es del usuario.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, userID, invoiceID string) (pdfBytes []byte, filename string, err error) {
	// ── 1. Cargar factura ─────────────────────────────────────────────────────
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil || inv.UserID != userID {
		return nil, "", domain.ErrNotFound
	}

	// ── 2. Cliente y líneas ───────────────────────────────────────────────────
	client, err := uc.clientRepo.GetByID(ctx, inv.ClientID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener cliente: %w", err)
	}
	if client == nil {
		return nil, "", fmt.Errorf("%w: cliente de la factura", domain.ErrNotFound)
	}
	items, err := uc.invoiceRepo.GetItemsByInvoiceID(ctx, inv.ID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener líneas: %w", err)
	}

	// ── 3. Emisor ─────────────────────────────────────────────────────────────
	company := uc.companyName
	if u, uErr := uc.userRepo.GetByID(ctx, userID); uErr == nil && u != nil && u.CompanyName != "" {
		company = u.CompanyName
	}

	// ── 4. Generar PDF ────────────────────────────────────────────────────────
	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, InvoicePDFData{
		Invoice:     inv,
		Items:       items,
		Client:      client,
		CompanyName: company,
		Status:      inv.EffectiveStatus(uc.now()),
	})
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}

	filename = fmt.Sprintf("invoice_%s.pdf", strings.ReplaceAll(inv.InvoiceNumber, "/", "-"))
	return pdfBytes, filename, nil
}
