package settings_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-builder-api/internal/application/dto"
	"github.com/jhoicas/invoice-builder-api/internal/application/settings"
	"github.com/jhoicas/invoice-builder-api/internal/domain"
	"github.com/jhoicas/invoice-builder-api/internal/infrastructure/memory"
)

func seeded(t *testing.T) *memory.Store {
	t.Helper()
	s, err := memory.NewSeeded()
	require.NoError(t, err)
	return s
}

// ─── Plantillas ──────────────────────────────────────────────────────────────

func TestRender_SustituyeVariablesConocidas(t *testing.T) {
	got := settings.Render("Hola {client_name}, factura #{invoice_number} {desconocida}", map[string]string{
		"client_name":    "John Smith",
		"invoice_number": "INV-2024-001",
	})
	assert.Equal(t, "Hola John Smith, factura #INV-2024-001 {desconocida}", got)
}

func TestTemplates_ListMezclaGuardadasYDeFabrica(t *testing.T) {
	uc := settings.NewTemplateUseCase(seeded(t).EmailTemplates())
	list, err := uc.List(context.Background(), memory.DemoUserID)
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, "invoice", list[0].TemplateType)
	assert.True(t, list[0].Customized, "invoice está guardada en el seed")
	assert.Equal(t, "template_1", list[0].ID)

	assert.Equal(t, "reminder", list[1].TemplateType)
	assert.False(t, list[1].Customized)
	assert.True(t, list[1].IsDefault)
	assert.Contains(t, list[1].Variables, "days_overdue")
}

func TestTemplates_SaveResetYPreview(t *testing.T) {
	ctx := context.Background()
	uc := settings.NewTemplateUseCase(seeded(t).EmailTemplates())

	saved, err := uc.Save(ctx, memory.DemoUserID, "reminder", dto.EmailTemplateRequest{
		Subject: "Recordatorio {invoice_number}",
		Body:    "Vence el {due_date}",
	})
	require.NoError(t, err)
	assert.True(t, saved.Customized)
	assert.False(t, saved.IsDefault)

	preview, err := uc.Preview(ctx, memory.DemoUserID, "reminder")
	require.NoError(t, err)
	assert.Equal(t, "Recordatorio INV-2024-001", preview.Subject)
	assert.Equal(t, "Vence el January 31, 2024", preview.Body)

	reset, err := uc.ResetToDefault(ctx, memory.DemoUserID, "reminder")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, reset.ID, "el upsert conserva el ID")
	assert.True(t, reset.IsDefault)
	assert.Contains(t, reset.Subject, "{days_overdue} days overdue")
}

func TestTemplates_Validacion(t *testing.T) {
	uc := settings.NewTemplateUseCase(seeded(t).EmailTemplates())
	_, err := uc.Save(context.Background(), memory.DemoUserID, "newsletter", dto.EmailTemplateRequest{Subject: "a", Body: "b"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Save(context.Background(), memory.DemoUserID, "invoice", dto.EmailTemplateRequest{Subject: " ", Body: "b"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTemplates_DeleteDesvinculaRecordatorios(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)
	tpl := settings.NewTemplateUseCase(s.EmailTemplates())
	rem := settings.NewReminderUseCase(s.ReminderSettings(), s.EmailTemplates())

	require.NoError(t, tpl.Delete(ctx, memory.DemoUserID, "invoice"))

	got, err := tpl.Get(ctx, memory.DemoUserID, "invoice")
	require.NoError(t, err)
	assert.False(t, got.Customized, "vuelve a la de fábrica")

	list, err := rem.List(ctx, memory.DemoUserID)
	require.NoError(t, err)
	assert.Empty(t, list[0].EmailTemplateID)
}

// ─── Recordatorios ───────────────────────────────────────────────────────────

func TestReminders_ListConValoresPorDefecto(t *testing.T) {
	s := seeded(t)
	uc := settings.NewReminderUseCase(s.ReminderSettings(), s.EmailTemplates())
	list, err := uc.List(context.Background(), memory.DemoUserID)
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, "before_due", list[0].Kind)
	assert.True(t, list[0].Stored)
	assert.Equal(t, 3, list[0].DaysOffset)

	assert.Equal(t, "thank_you", list[2].Kind)
	assert.False(t, list[2].Stored, "thank_you no está guardado")
	assert.False(t, list[2].IsActive, "por defecto inactivo")
	assert.Equal(t, 0, list[2].DaysOffset)
}

func TestReminders_SaveIdempotente(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)
	uc := settings.NewReminderUseCase(s.ReminderSettings(), s.EmailTemplates())

	first, err := uc.Save(ctx, memory.DemoUserID, "thank_you", dto.ReminderSettingRequest{DaysOffset: 2, IsActive: true})
	require.NoError(t, err)
	second, err := uc.Save(ctx, memory.DemoUserID, "thank_you", dto.ReminderSettingRequest{DaysOffset: 2, IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	stored, err := s.ReminderSettings().ListByUser(ctx, memory.DemoUserID)
	require.NoError(t, err)
	assert.Len(t, stored, 3, "una configuración por tipo")
}

func TestReminders_SaveValidacion(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)
	uc := settings.NewReminderUseCase(s.ReminderSettings(), s.EmailTemplates())

	_, err := uc.Save(ctx, memory.DemoUserID, "weekly", dto.ReminderSettingRequest{DaysOffset: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Save(ctx, memory.DemoUserID, "after_due", dto.ReminderSettingRequest{DaysOffset: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Save(ctx, memory.DemoUserID, "after_due", dto.ReminderSettingRequest{DaysOffset: 1, EmailTemplateID: "nope"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ─── Pasarelas ───────────────────────────────────────────────────────────────

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", settings.MaskSecret(""))
	assert.Equal(t, "••••", settings.MaskSecret("abc"))
	assert.Equal(t, "••••1234", settings.MaskSecret("sk_test_abcd1234"))
}

func TestGateways_ListEnmascaraSecretos(t *testing.T) {
	uc := settings.NewGatewayUseCase(seeded(t).PaymentGateways())
	list, err := uc.List(context.Background(), memory.DemoUserID)
	require.NoError(t, err)
	require.Len(t, list, 6)

	stripe := list[0]
	assert.Equal(t, "stripe", stripe.GatewayType)
	assert.Equal(t, settings.GatewayActive, stripe.Status)
	assert.Equal(t, "pk_test_...", stripe.Config["publishableKey"], "las claves públicas no se enmascaran")
	assert.Equal(t, "••••_...", stripe.Config["secretKey"])

	assert.Equal(t, settings.GatewayNotConfigured, list[2].Status, "payoneer sin configurar")
}

func TestGateways_SaveConservaSecretoEnmascarado(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)
	uc := settings.NewGatewayUseCase(s.PaymentGateways())

	_, err := uc.Save(ctx, memory.DemoUserID, "stripe", dto.PaymentGatewayRequest{
		IsActive: true,
		Config: map[string]string{
			"publishableKey": "pk_live_new",
			"secretKey":      "••••_...",
			"webhookSecret":  "whsec_new",
		},
	})
	require.NoError(t, err)

	g, err := s.PaymentGateways().GetByUserAndType(ctx, memory.DemoUserID, "stripe")
	require.NoError(t, err)
	assert.Equal(t, "gateway_1", g.ID)
	assert.Equal(t, "sk_test_...", g.Config["secretKey"], "el secreto guardado se conserva")
	assert.Equal(t, "pk_live_new", g.Config["publishableKey"])
}

func TestGateways_SaveValidacion(t *testing.T) {
	ctx := context.Background()
	uc := settings.NewGatewayUseCase(seeded(t).PaymentGateways())

	_, err := uc.Save(ctx, memory.DemoUserID, "bitcoin", dto.PaymentGatewayRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Save(ctx, memory.DemoUserID, "wise", dto.PaymentGatewayRequest{Config: map[string]string{"foo": "x"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "clave desconocida")

	_, err = uc.Save(ctx, memory.DemoUserID, "wise", dto.PaymentGatewayRequest{IsActive: true, Config: map[string]string{"apiToken": "t"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "no se activa incompleta")

	saved, err := uc.Save(ctx, memory.DemoUserID, "wise", dto.PaymentGatewayRequest{Config: map[string]string{"apiToken": "t"}})
	require.NoError(t, err)
	assert.Equal(t, settings.GatewayNotConfigured, saved.Status)
}
