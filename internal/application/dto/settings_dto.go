package dto

import "time"

// ReminderSettingRequest body para PUT /api/settings/reminders/:kind.
type ReminderSettingRequest struct {
	DaysOffset      int    `json:"days_offset"`
	IsActive        bool   `json:"is_active"`
	EmailTemplateID string `json:"email_template_id,omitempty"`
}

// ReminderSettingResponse configuración efectiva. Stored=false indica valores por defecto.
type ReminderSettingResponse struct {
	ID              string     `json:"id,omitempty"`
	Kind            string     `json:"kind"`
	DaysOffset      int        `json:"days_offset"`
	IsActive        bool       `json:"is_active"`
	EmailTemplateID string     `json:"email_template_id,omitempty"`
	Stored          bool       `json:"stored"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

// EmailTemplateRequest body para PUT /api/settings/email-templates/:type.
type EmailTemplateRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// EmailTemplateResponse plantilla efectiva (personalizada o por defecto).
type EmailTemplateResponse struct {
	ID           string   `json:"id,omitempty"`
	TemplateType string   `json:"template_type"`
	Name         string   `json:"name"`
	Subject      string   `json:"subject"`
	Body         string   `json:"body"`
	IsDefault    bool     `json:"is_default"`
	Customized   bool     `json:"customized"`
	Variables    []string `json:"variables"`
}

// EmailPreviewResponse plantilla renderizada con datos de ejemplo.
type EmailPreviewResponse struct {
	TemplateType string `json:"template_type"`
	Subject      string `json:"subject"`
	Body         string `json:"body"`
}

// PaymentGatewayRequest body para PUT /api/settings/payment-gateways/:type.
type PaymentGatewayRequest struct {
	IsActive bool              `json:"is_active"`
	Config   map[string]string `json:"config"`
}

// PaymentGatewayResponse estado de la pasarela con secretos enmascarados.
// Status: active | configured | not_configured.
type PaymentGatewayResponse struct {
	ID          string            `json:"id,omitempty"`
	GatewayType string            `json:"gateway_type"`
	IsActive    bool              `json:"is_active"`
	Status      string            `json:"status"`
	Fields      []string          `json:"fields"`
	Config      map[string]string `json:"config"`
}
