// Package settings casos de uso de configuración del usuario: recordatorios, plantillas
// de correo y pasarelas de pago.
package settings

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/invoice-builder-api/internal/application/dto"
	"github.com/jhoicas/invoice-builder-api/internal/domain"
	"github.com/jhoicas/invoice-builder-api/internal/domain/entity"
	"github.com/jhoicas/invoice-builder-api/internal/domain/repository"
)

// TemplateKind metadatos de un tipo de plantilla.
type TemplateKind struct {
	Type      string
	Name      string
	Variables []string
	Subject   string // asunto por defecto
	Body      string // cuerpo por defecto
}

// TemplateKinds tipos de plantilla con su contenido por defecto, en orden de presentación.
var TemplateKinds = []TemplateKind{
	{
		Type: entity.TemplateInvoice,
		Name: "Invoice Email",
		Variables: []string{
			"client_name", "invoice_number", "total_amount", "due_date",
			"payment_link", "company_name", "invoice_date", "currency",
		},
		Subject: "Invoice #{invoice_number} from {company_name}",
		Body: `Dear {client_name},

I hope this email finds you well. Please find attached your invoice #{invoice_number} for {total_amount} {currency}.

Invoice Details:
- Invoice Number: #{invoice_number}
- Amount: {total_amount} {currency}
- Due Date: {due_date}

You can pay online using the following secure link:
{payment_link}

If you have any questions about this invoice, please don't hesitate to contact us.

Thank you for your business!

Best regards,
{company_name}`,
	},
	{
		Type: entity.TemplateReminder,
		Name: "Payment Reminder",
		Variables: []string{
			"client_name", "invoice_number", "total_amount", "due_date",
			"days_overdue", "payment_link", "company_name", "currency",
		},
		Subject: "Payment Reminder: Invoice #{invoice_number} - {days_overdue} days overdue",
		Body: `Dear {client_name},

This is a friendly reminder that invoice #{invoice_number} for {total_amount} {currency} was due on {due_date} and is now {days_overdue} days overdue.

To avoid any late fees or service interruptions, please process your payment as soon as possible.

You can pay online using the following secure link:
{payment_link}

If you have already made this payment, please disregard this message. If you have any questions or concerns, please contact us immediately.

Thank you for your prompt attention to this matter.

Best regards,
{company_name}`,
	},
	{
		Type: entity.TemplateThankYou,
		Name: "Thank You Email",
		Variables: []string{
			"client_name", "invoice_number", "total_amount", "payment_date",
			"company_name", "currency", "payment_method",
		},
		Subject: "Payment Received - Thank You! Invoice #{invoice_number}",
		Body: `Dear {client_name},

Thank you for your payment of {total_amount} {currency} for invoice #{invoice_number}.

Payment Details:
- Invoice Number: #{invoice_number}
- Amount Paid: {total_amount} {currency}
- Payment Date: {payment_date}
- Payment Method: {payment_method}

Your payment has been successfully processed and your account is now up to date.

We truly appreciate your business and look forward to continuing our partnership.

If you need a receipt or have any questions, please don't hesitate to contact us.

Best regards,
{company_name}`,
	},
}

// SampleVariables datos de ejemplo para la vista previa.
var SampleVariables = map[string]string{
	"client_name":    "John Smith",
	"invoice_number": "INV-2024-001",
	"total_amount":   "$1,250.00",
	"due_date":       "January 31, 2024",
	"payment_link":   "https://pay.example.com/invoice/123",
	"company_name":   "Your Company Name",
	"invoice_date":   "January 15, 2024",
	"currency":       "USD",
	"days_overdue":   "5",
	"payment_date":   "January 30, 2024",
	"payment_method": "Credit Card",
}

// LookupTemplateKind devuelve los metadatos del tipo.
func LookupTemplateKind(templateType string) (TemplateKind, bool) {
	for _, k := range TemplateKinds {
		if k.Type == templateType {
			return k, true
		}
	}
	return TemplateKind{}, false
}

// Render sustituye cada {variable} conocida; los tokens sin valor se dejan tal cual.
func Render(text string, vars map[string]string) string {
	if len(vars) == 0 {
		return text
	}
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// TemplateUseCase plantillas de correo por usuario.
type TemplateUseCase struct {
	repo repository.EmailTemplateRepository
	now  func() time.Time
}

// NewTemplateUseCase construye el caso de uso.
func NewTemplateUseCase(repo repository.EmailTemplateRepository) *TemplateUseCase {
	return &TemplateUseCase{repo: repo, now: time.Now}
}

// List una plantilla por tipo: la guardada o la de fábrica.
func (uc *TemplateUseCase) List(ctx context.Context, userID string) ([]dto.EmailTemplateResponse, error) {
	stored, err := uc.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	byType := make(map[string]*entity.EmailTemplate, len(stored))
	for _, t := range stored {
		byType[t.TemplateType] = t
	}
	out := make([]dto.EmailTemplateResponse, 0, len(TemplateKinds))
	for _, k := range TemplateKinds {
		out = append(out, toTemplateResponse(k, byType[k.Type]))
	}
	return out, nil
}

// Get plantilla efectiva de un tipo.
func (uc *TemplateUseCase) Get(ctx context.Context, userID, templateType string) (*dto.EmailTemplateResponse, error) {
	kind, err := templateKind(templateType)
	if err != nil {
		return nil, err
	}
	t, err := uc.repo.GetByUserAndType(ctx, userID, kind.Type)
	if err != nil {
		return nil, err
	}
	out := toTemplateResponse(kind, t)
	return &out, nil
}

// Save guarda asunto y cuerpo del usuario para el tipo.
func (uc *TemplateUseCase) Save(ctx context.Context, userID, templateType string, in dto.EmailTemplateRequest) (*dto.EmailTemplateResponse, error) {
	kind, err := templateKind(templateType)
	if err != nil {
		return nil, err
	}
	subject, body := strings.TrimSpace(in.Subject), strings.TrimSpace(in.Body)
	if subject == "" || body == "" {
		return nil, fmt.Errorf("%w: asunto y cuerpo son obligatorios", domain.ErrInvalidInput)
	}
	return uc.upsert(ctx, userID, kind, subject, body, false)
}

// ResetToDefault sobrescribe la plantilla del usuario con la de fábrica (marcada is_default).
func (uc *TemplateUseCase) ResetToDefault(ctx context.Context, userID, templateType string) (*dto.EmailTemplateResponse, error) {
	kind, err := templateKind(templateType)
	if err != nil {
		return nil, err
	}
	return uc.upsert(ctx, userID, kind, kind.Subject, kind.Body, true)
}

// Delete quita la personalización; el tipo vuelve a la plantilla de fábrica y los
// recordatorios que la usaban quedan sin plantilla.
func (uc *TemplateUseCase) Delete(ctx context.Context, userID, templateType string) error {
	kind, err := templateKind(templateType)
	if err != nil {
		return err
	}
	return uc.repo.DeleteByUserAndType(ctx, userID, kind.Type)
}

// Preview renderiza la plantilla efectiva con SampleVariables.
func (uc *TemplateUseCase) Preview(ctx context.Context, userID, templateType string) (*dto.EmailPreviewResponse, error) {
	t, err := uc.Get(ctx, userID, templateType)
	if err != nil {
		return nil, err
	}
	return &dto.EmailPreviewResponse{
		TemplateType: t.TemplateType,
		Subject:      Render(t.Subject, SampleVariables),
		Body:         Render(t.Body, SampleVariables),
	}, nil
}

func (uc *TemplateUseCase) upsert(ctx context.Context, userID string, kind TemplateKind, subject, body string, isDefault bool) (*dto.EmailTemplateResponse, error) {
	now := uc.now()
	t := &entity.EmailTemplate{
		ID:           uuid.New().String(),
		UserID:       userID,
		TemplateType: kind.Type,
		Subject:      subject,
		Body:         body,
		IsDefault:    isDefault,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Upsert(ctx, t); err != nil {
		return nil, fmt.Errorf("guardar plantilla: %w", err)
	}
	out := toTemplateResponse(kind, t)
	return &out, nil
}

func templateKind(templateType string) (TemplateKind, error) {
	kind, ok := LookupTemplateKind(strings.ToLower(strings.TrimSpace(templateType)))
	if !ok {
		return TemplateKind{}, fmt.Errorf("%w: tipo de plantilla %q desconocido", domain.ErrInvalidInput, templateType)
	}
	return kind, nil
}

func toTemplateResponse(kind TemplateKind, t *entity.EmailTemplate) dto.EmailTemplateResponse {
	out := dto.EmailTemplateResponse{
		TemplateType: kind.Type,
		Name:         kind.Name,
		Subject:      kind.Subject,
		Body:         kind.Body,
		IsDefault:    true,
		Variables:    kind.Variables,
	}
	if t != nil {
		out.ID = t.ID
		out.Subject = t.Subject
		out.Body = t.Body
		out.IsDefault = t.IsDefault
		out.Customized = true
	}
	return out
}
