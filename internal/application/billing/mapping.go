package billing

import (
	"time"

	"github.com/jhoicas/invoice-builder-api/internal/application/dto"
	"github.com/jhoicas/invoice-builder-api/internal/domain/entity"
	"github.com/jhoicas/invoice-builder-api/internal/domain/invoicing"
)

// ToInvoiceResponse convierte la factura; el estado es el efectivo a la fecha now.
func ToInvoiceResponse(inv *entity.Invoice, items []*entity.LineItem, clientName string, now time.Time) dto.InvoiceResponse {
	out := dto.InvoiceResponse{
		ID:             inv.ID,
		ClientID:       inv.ClientID,
		ClientName:     clientName,
		InvoiceNumber:  inv.InvoiceNumber,
		Title:          inv.Title,
		Description:    inv.Description,
		Currency:       inv.Currency,
		TaxRate:        inv.TaxRate,
		Subtotal:       inv.Subtotal,
		TaxAmount:      inv.TaxAmount,
		TotalAmount:    inv.TotalAmount,
		Status:         string(inv.EffectiveStatus(now)),
		DaysOverdue:    inv.DaysOverdue(now),
		IssueDate:      inv.IssueDate.Format(time.DateOnly),
		PaymentGateway: inv.PaymentGateway,
		PaymentLink:    inv.PaymentLink,
		Notes:          inv.Notes,
		Terms:          inv.Terms,
		SentAt:         inv.SentAt,
		PaidAt:         inv.PaidAt,
		CreatedAt:      inv.CreatedAt,
		UpdatedAt:      inv.UpdatedAt,
	}
	if inv.DueDate != nil {
		out.DueDate = inv.DueDate.Format(time.DateOnly)
	}
	for _, f := range inv.CustomFields {
		out.CustomFields = append(out.CustomFields, dto.CustomFieldDTO(f))
	}
	for _, it := range items {
		out.Items = append(out.Items, dto.InvoiceItemResponse{
			ID:          it.ID,
			Position:    it.Position,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Total:       it.Total,
		})
	}
	return out
}

// ToReminderEventResponse formatea un evento del resolvedor.
func ToReminderEventResponse(ev invoicing.ReminderEvent) dto.ReminderEventResponse {
	return dto.ReminderEventResponse{
		InvoiceID:       ev.InvoiceID,
		InvoiceNumber:   ev.InvoiceNumber,
		Kind:            string(ev.Kind),
		Date:            ev.Date.Format(time.DateOnly),
		DaysOffset:      ev.DaysOffset,
		EmailTemplateID: ev.EmailTemplateID,
	}
}

func toClientResponse(c *entity.Client) dto.ClientResponse {
	return dto.ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Company:   c.Company,
		Address:   c.Address,
		Phone:     c.Phone,
		TaxID:     c.TaxID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
