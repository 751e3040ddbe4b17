package repository

import (
	"context"

	"github.com/jhoicas/invoice-builder-api/internal/domain/entity"
)

// PaymentGatewayRepository una pasarela por (usuario, tipo).
type PaymentGatewayRepository interface {
	Upsert(ctx context.Context, gateway *entity.PaymentGateway) error
	GetByUserAndType(ctx context.Context, userID, gatewayType string) (*entity.PaymentGateway, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.PaymentGateway, error)
}

// EmailTemplateRepository una plantilla por (usuario, tipo).
type EmailTemplateRepository interface {
	Upsert(ctx context.Context, tpl *entity.EmailTemplate) error
	GetByUserAndType(ctx context.Context, userID, templateType string) (*entity.EmailTemplate, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.EmailTemplate, error)
	DeleteByUserAndType(ctx context.Context, userID, templateType string) error
}

// ReminderSettingRepository una configuración por (usuario, tipo de recordatorio).
type ReminderSettingRepository interface {
	Upsert(ctx context.Context, setting *entity.ReminderSetting) error
	ListByUser(ctx context.Context, userID string) ([]*entity.ReminderSetting, error)
}
