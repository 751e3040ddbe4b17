package entity

import "time"

// Tipos de plantilla de correo.
const (
	TemplateInvoice  = "invoice"
	TemplateReminder = "reminder"
	TemplateThankYou = "thank_you"
)

// EmailTemplate plantilla de correo del usuario (una por tipo). Subject y Body usan
// variables con la forma {client_name}.
type EmailTemplate struct {
	ID           string
	UserID       string
	TemplateType string
	Subject      string
	Body         string
	IsDefault    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
