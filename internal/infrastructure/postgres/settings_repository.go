package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/invoice-builder-api/internal/domain"
	"github.com/jhoicas/invoice-builder-api/internal/domain/entity"
	"github.com/jhoicas/invoice-builder-api/internal/domain/repository"
)

var (
	_ repository.PaymentGatewayRepository  = (*PaymentGatewayRepo)(nil)
	_ repository.EmailTemplateRepository   = (*EmailTemplateRepo)(nil)
	_ repository.ReminderSettingRepository = (*ReminderSettingRepo)(nil)
)

// ── Pasarelas de pago ────────────────────────────────────────────────────────

// PaymentGatewayRepo guarda la configuración de cada pasarela como JSONB.
type PaymentGatewayRepo struct {
	q Querier
}

// NewPaymentGatewayRepository construye el adaptador.
func NewPaymentGatewayRepository(q Querier) *PaymentGatewayRepo {
	return &PaymentGatewayRepo{q: q}
}

// Upsert inserta o actualiza la pasarela del usuario para ese tipo. Deja en g el ID y
// created_at efectivos.
func (r *PaymentGatewayRepo) Upsert(ctx context.Context, g *entity.PaymentGateway) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	cfg, err := json.Marshal(g.Config)
	if err != nil {
		return fmt.Errorf("%w: config: %v", domain.ErrInvalidInput, err)
	}
	query := `
		INSERT INTO payment_gateways (id, user_id, gateway_type, is_active, config, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7)
		ON CONFLICT (user_id, gateway_type)
		DO UPDATE SET is_active = EXCLUDED.is_active, config = EXCLUDED.config, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`
	err = r.q.QueryRow(ctx, query, g.ID, g.UserID, g.GatewayType, g.IsActive, string(cfg), g.CreatedAt, g.UpdatedAt).
		Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		return writeErr("upsert payment gateway", err)
	}
	return nil
}

// GetByUserAndType (nil, nil) si el usuario no configuró ese tipo.
func (r *PaymentGatewayRepo) GetByUserAndType(ctx context.Context, userID, gatewayType string) (*entity.PaymentGateway, error) {
	query := `
		SELECT id, user_id, gateway_type, is_active, config, created_at, updated_at
		FROM payment_gateways WHERE user_id = $1 AND gateway_type = $2`
	g, err := scanGateway(r.q.QueryRow(ctx, query, userID, gatewayType))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, persistErr("get payment gateway", err)
	}
	return g, nil
}

// ListByUser pasarelas configuradas por el usuario.
func (r *PaymentGatewayRepo) ListByUser(ctx context.Context, userID string) ([]*entity.PaymentGateway, error) {
	query := `
		SELECT id, user_id, gateway_type, is_active, config, created_at, updated_at
		FROM payment_gateways WHERE user_id = $1 ORDER BY gateway_type`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, persistErr("list payment gateways", err)
	}
	defer rows.Close()
	var list []*entity.PaymentGateway
	for rows.Next() {
		g, err := scanGateway(rows)
		if err != nil {
			return nil, persistErr("scan payment gateway", err)
		}
		list = append(list, g)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("list payment gateways", err)
	}
	return list, nil
}

func scanGateway(row rowScanner) (*entity.PaymentGateway, error) {
	var (
		g   entity.PaymentGateway
		raw []byte
	)
	if err := row.Scan(&g.ID, &g.UserID, &g.GatewayType, &g.IsActive, &raw, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return nil, err
	}
	g.Config = map[string]string{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &g.Config); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	return &g, nil
}

// ── Plantillas de correo ─────────────────────────────────────────────────────

// EmailTemplateRepo plantillas personalizadas por usuario.
type EmailTemplateRepo struct {
	q Querier
}

// NewEmailTemplateRepository construye el adaptador.
func NewEmailTemplateRepository(q Querier) *EmailTemplateRepo {
	return &EmailTemplateRepo{q: q}
}

const templateColumns = `id, user_id, template_type, subject, body, is_default, created_at, updated_at`

// Upsert guarda la plantilla del usuario para el tipo.
func (r *EmailTemplateRepo) Upsert(ctx context.Context, t *entity.EmailTemplate) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	query := `
		INSERT INTO email_templates (` + templateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, template_type)
		DO UPDATE SET subject = EXCLUDED.subject, body = EXCLUDED.body, is_default = EXCLUDED.is_default,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query, t.ID, t.UserID, t.TemplateType, t.Subject, t.Body, t.IsDefault,
		t.CreatedAt, t.UpdatedAt).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return writeErr("upsert email template", err)
	}
	return nil
}

// GetByUserAndType (nil, nil) si el usuario usa la plantilla por defecto.
func (r *EmailTemplateRepo) GetByUserAndType(ctx context.Context, userID, templateType string) (*entity.EmailTemplate, error) {
	var t entity.EmailTemplate
	err := r.q.QueryRow(ctx,
		`SELECT `+templateColumns+` FROM email_templates WHERE user_id = $1 AND template_type = $2`,
		userID, templateType,
	).Scan(&t.ID, &t.UserID, &t.TemplateType, &t.Subject, &t.Body, &t.IsDefault, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, persistErr("get email template", err)
	}
	return &t, nil
}

// ListByUser plantillas guardadas por el usuario.
func (r *EmailTemplateRepo) ListByUser(ctx context.Context, userID string) ([]*entity.EmailTemplate, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+templateColumns+` FROM email_templates WHERE user_id = $1 ORDER BY template_type`, userID)
	if err != nil {
		return nil, persistErr("list email templates", err)
	}
	defer rows.Close()
	var list []*entity.EmailTemplate
	for rows.Next() {
		var t entity.EmailTemplate
		if err := rows.Scan(&t.ID, &t.UserID, &t.TemplateType, &t.Subject, &t.Body, &t.IsDefault,
			&t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, persistErr("scan email template", err)
		}
		list = append(list, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("list email templates", err)
	}
	return list, nil
}

// DeleteByUserAndType vuelve a la plantilla por defecto. No falla si no había personalización.
func (r *EmailTemplateRepo) DeleteByUserAndType(ctx context.Context, userID, templateType string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM email_templates WHERE user_id = $1 AND template_type = $2`, userID, templateType)
	if err != nil {
		return persistErr("delete email template", err)
	}
	return nil
}

// ── Recordatorios ────────────────────────────────────────────────────────────

// ReminderSettingRepo configuración de recordatorios por usuario.
type ReminderSettingRepo struct {
	q Querier
}

// NewReminderSettingRepository construye el adaptador.
func NewReminderSettingRepository(q Querier) *ReminderSettingRepo {
	return &ReminderSettingRepo{q: q}
}

// Upsert idempotente por (usuario, tipo).
func (r *ReminderSettingRepo) Upsert(ctx context.Context, s *entity.ReminderSetting) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	query := `
		INSERT INTO reminder_settings (id, user_id, reminder_type, days_offset, is_active, email_template_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, reminder_type)
		DO UPDATE SET days_offset = EXCLUDED.days_offset, is_active = EXCLUDED.is_active,
			email_template_id = EXCLUDED.email_template_id, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query, s.ID, s.UserID, string(s.Kind), s.DaysOffset, s.IsActive,
		nullIfEmpty(s.EmailTemplateID), s.CreatedAt, s.UpdatedAt).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return writeErr("upsert reminder setting", err)
	}
	return nil
}

// ListByUser configuraciones guardadas (puede faltar algún tipo).
func (r *ReminderSettingRepo) ListByUser(ctx context.Context, userID string) ([]*entity.ReminderSetting, error) {
	query := `
		SELECT id, user_id, reminder_type, days_offset, is_active, COALESCE(email_template_id, ''), created_at, updated_at
		FROM reminder_settings WHERE user_id = $1 ORDER BY reminder_type`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, persistErr("list reminder settings", err)
	}
	defer rows.Close()
	var list []*entity.ReminderSetting
	for rows.Next() {
		var (
			s    entity.ReminderSetting
			kind string
		)
		if err := rows.Scan(&s.ID, &s.UserID, &kind, &s.DaysOffset, &s.IsActive, &s.EmailTemplateID,
			&s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, persistErr("scan reminder setting", err)
		}
		s.Kind = entity.ReminderKind(kind)
		list = append(list, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("list reminder settings", err)
	}
	return list, nil
}
