package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	appanalytics "github.com/jhoicas/invoice-builder-api/internal/application/analytics"
	"github.com/jhoicas/invoice-builder-api/internal/application/auth"
	"github.com/jhoicas/invoice-builder-api/internal/application/billing"
	"github.com/jhoicas/invoice-builder-api/internal/application/dto"
	"github.com/jhoicas/invoice-builder-api/internal/application/expenses"
	"github.com/jhoicas/invoice-builder-api/internal/application/settings"
	"github.com/jhoicas/invoice-builder-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/invoice-builder-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/invoice-builder-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/invoice-builder-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Servidor de prueba sobre el store en memoria
// ──────────────────────────────────────────────────────────────────────────────

func clock() time.Time { return time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC) }

func newServer(t *testing.T) *fiber.App {
	t.Helper()
	store, err := memory.NewSeeded()
	require.NoError(t, err)

	invoiceUC := billing.NewInvoiceUseCase(store, store.Invoices(), store.Clients(), store.ReminderSettings(), store.PaymentGateways()).
		WithClock(clock)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(store.Users(), auth.JWTConfig{
			Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
		}).WithBcryptCost(bcrypt.MinCost),
		ClientUC:    billing.NewClientUseCase(store.Clients()),
		InvoiceUC:   invoiceUC,
		InvoicePDF:  billing.NewPDFUseCase(store.Invoices(), store.Clients(), store.Users(), infrapdf.NewMarotoPDFGenerator(), "Acme"),
		ReminderUC:  settings.NewReminderUseCase(store.ReminderSettings(), store.EmailTemplates()),
		TemplateUC:  settings.NewTemplateUseCase(store.EmailTemplates()),
		GatewayUC:   settings.NewGatewayUseCase(store.PaymentGateways()),
		ExpenseUC:   expenses.NewUseCase(store.Expenses(), store.Clients()).WithClock(clock),
		DashboardUC: appanalytics.NewDashboardUseCase(store.Invoices(), store.Clients(), store.Expenses(), store.ReminderSettings()).WithClock(clock),
		JWTSecret:   testJWTSecret,
	})
	return app
}

func demoToken(t *testing.T) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, memory.DemoUserID, memory.DemoEmail, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_LoginYMe(t *testing.T) {
	app := newServer(t)

	resp := call(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: memory.DemoEmail, Password: memory.DemoPassword})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decode[dto.LoginResponse](t, resp)
	require.NotEmpty(t, login.Token, "el login debe devolver un token")

	resp = call(t, app, http.MethodGet, "/api/auth/me", "Bearer "+login.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decode[dto.UserResponse](t, resp)
	assert.Equal(t, memory.DemoUserID, me.ID)
}

func TestRouter_LoginPasswordIncorrecto_Retorna401(t *testing.T) {
	resp := call(t, newServer(t), http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: memory.DemoEmail, Password: "incorrecta"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_RegistroEmailDuplicado_Retorna409(t *testing.T) {
	resp := call(t, newServer(t), http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Email: memory.DemoEmail, Password: "otra-clave-1"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "EMAIL_EXISTS", body.Code)
}

func TestRouter_SinToken_Retorna401(t *testing.T) {
	resp := call(t, newServer(t), http.MethodGet, "/api/invoices", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Facturas
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_ListarFacturasVencidas(t *testing.T) {
	resp := call(t, newServer(t), http.MethodGet, "/api/invoices?status=overdue", demoToken(t), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.InvoiceListResponse](t, resp)

	require.Len(t, list.Items, 1, "solo INV-2024-003 está vencida el 2024-02-10")
	assert.Equal(t, "invoice_3", list.Items[0].ID)
	assert.Equal(t, "overdue", list.Items[0].Status)
	assert.Equal(t, 11, list.Items[0].DaysOverdue)
}

func TestRouter_CrearFactura(t *testing.T) {
	app := newServer(t)
	req := dto.InvoiceRequest{
		ClientID:  "client_2",
		TaxRate:   decimal.NewFromInt(10),
		IssueDate: "2024-02-10",
		DueDate:   "2024-03-10",
		Items: []dto.InvoiceItemRequest{
			{Description: "Consultoría", Quantity: "2", UnitPrice: "100"},
			{Description: "Soporte", Quantity: "0", UnitPrice: "50.5"},
		},
	}
	resp := call(t, app, http.MethodPost, "/api/invoices", demoToken(t), req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	inv := decode[dto.InvoiceResponse](t, resp)

	assert.Equal(t, "draft", inv.Status)
	assert.Equal(t, "INV-2024-005", inv.InvoiceNumber, "número generado a partir del conteo")
	assert.True(t, decimal.RequireFromString("250.5").Equal(inv.Subtotal), "subtotal %s", inv.Subtotal)
	assert.True(t, decimal.RequireFromString("25.05").Equal(inv.TaxAmount), "impuesto %s", inv.TaxAmount)
	assert.True(t, decimal.RequireFromString("275.55").Equal(inv.TotalAmount), "total %s", inv.TotalAmount)
	require.Len(t, inv.Items, 2)
	assert.Equal(t, int64(1), inv.Items[1].Quantity, "cantidad 0 se normaliza a 1")
}

func TestRouter_CrearFactura_ValoresNoNumericosSeNormalizan(t *testing.T) {
	body := json.RawMessage(`{
		"client_id": "client_1",
		"tax_rate": "0",
		"issue_date": "2024-02-10",
		"items": [
			{"description": "Texto", "quantity": "abc", "unit_price": "xyz"},
			{"description": "Números", "quantity": 3, "unit_price": 12.5},
			{"description": "Nulos", "quantity": null, "unit_price": -4}
		]
	}`)
	resp := call(t, newServer(t), http.MethodPost, "/api/invoices", demoToken(t), body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "la entrada no numérica no debe rechazar el cuerpo")
	inv := decode[dto.InvoiceResponse](t, resp)

	require.Len(t, inv.Items, 3)
	assert.Equal(t, int64(1), inv.Items[0].Quantity, "cantidad no numérica pasa a 1")
	assert.True(t, inv.Items[0].UnitPrice.IsZero(), "precio no numérico pasa a 0")
	assert.Equal(t, int64(3), inv.Items[1].Quantity)
	assert.True(t, decimal.RequireFromString("37.5").Equal(inv.Items[1].Total), "total %s", inv.Items[1].Total)
	assert.Equal(t, int64(1), inv.Items[2].Quantity, "cantidad null pasa a 1")
	assert.True(t, inv.Items[2].UnitPrice.IsZero(), "precio negativo pasa a 0")
	assert.True(t, decimal.RequireFromString("37.5").Equal(inv.TotalAmount))
}

func TestRouter_CrearFacturaSinLineas_Retorna400(t *testing.T) {
	req := dto.InvoiceRequest{ClientID: "client_1", IssueDate: "2024-02-10"}
	resp := call(t, newServer(t), http.MethodPost, "/api/invoices", demoToken(t), req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
}

func TestRouter_FacturaInexistente_Retorna404(t *testing.T) {
	resp := call(t, newServer(t), http.MethodGet, "/api/invoices/nope", demoToken(t), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_FacturaDeOtroUsuario_Retorna404(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, "user_2", "otro@example.com", testIssuer, testExpMin)
	require.NoError(t, err)
	resp := call(t, newServer(t), http.MethodGet, "/api/invoices/invoice_1", "Bearer "+tok, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "la factura de otro usuario no debe ser visible")
}

func TestRouter_Transiciones(t *testing.T) {
	app := newServer(t)
	tok := demoToken(t)

	resp := call(t, app, http.MethodPost, "/api/invoices/invoice_4/send", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	inv := decode[dto.InvoiceResponse](t, resp)
	assert.Equal(t, "sent", inv.Status)

	resp = call(t, app, http.MethodPost, "/api/invoices/invoice_1/send", tok, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "una factura pagada no se puede enviar")
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INVALID_TRANSITION", body.Code)

	resp = call(t, app, http.MethodPost, "/api/invoices/invoice_3/pay", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, "una factura vencida se puede pagar")
	inv = decode[dto.InvoiceResponse](t, resp)
	assert.Equal(t, "paid", inv.Status)
}

func TestRouter_ActualizarFacturaEnviada_Retorna409(t *testing.T) {
	req := dto.InvoiceRequest{
		ClientID: "client_2", IssueDate: "2024-02-01",
		Items: []dto.InvoiceItemRequest{{Description: "x", Quantity: "1", UnitPrice: "1"}},
	}
	resp := call(t, newServer(t), http.MethodPut, "/api/invoices/invoice_2", demoToken(t), req)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRouter_RecordatoriosProximos(t *testing.T) {
	resp := call(t, newServer(t), http.MethodGet, "/api/reminders?from=2024-01-01&to=2024-03-31", demoToken(t), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	events := decode[[]dto.ReminderEventResponse](t, resp)

	require.Len(t, events, 4)
	assert.Equal(t, "2024-01-27", events[0].Date)
	assert.Equal(t, "before_due", events[0].Kind)
}

func TestRouter_RecordatoriosFechaInvalida_Retorna400(t *testing.T) {
	resp := call(t, newServer(t), http.MethodGet, "/api/reminders?from=01/02/2024", demoToken(t), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_DescargarPDF(t *testing.T) {
	resp := call(t, newServer(t), http.MethodGet, "/api/invoices/invoice_1/pdf", demoToken(t), nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "el cuerpo debe ser un PDF")
}

// ──────────────────────────────────────────────────────────────────────────────
// Ajustes, gastos y tableros
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_Pasarelas(t *testing.T) {
	resp := call(t, newServer(t), http.MethodGet, "/api/settings/payment-gateways", demoToken(t), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	gateways := decode[[]dto.PaymentGatewayResponse](t, resp)

	require.Len(t, gateways, 6)
	assert.Equal(t, "stripe", gateways[0].GatewayType)
	assert.NotContains(t, gateways[0].Config["secretKey"], "sk_test", "el secreto debe ir enmascarado")
}

func TestRouter_GuardarRecordatorioNegativo_Retorna400(t *testing.T) {
	resp := call(t, newServer(t), http.MethodPut, "/api/settings/reminders/before_due", demoToken(t),
		dto.ReminderSettingRequest{DaysOffset: -1, IsActive: true})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_PlantillaRestablecerYBorrar(t *testing.T) {
	app := newServer(t)
	tok := demoToken(t)

	resp := call(t, app, http.MethodPost, "/api/settings/email-templates/invoice/reset", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tpl := decode[dto.EmailTemplateResponse](t, resp)
	assert.True(t, tpl.IsDefault)

	resp = call(t, app, http.MethodGet, "/api/settings/email-templates/invoice/preview", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	preview := decode[dto.EmailPreviewResponse](t, resp)
	assert.Contains(t, preview.Subject, "INV-2024-001", "la vista previa usa los datos de ejemplo")
	assert.NotContains(t, preview.Body, "{client_name}")

	resp = call(t, app, http.MethodDelete, "/api/settings/email-templates/invoice", tok, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestRouter_ResumenDeGastos(t *testing.T) {
	resp := call(t, newServer(t), http.MethodGet, "/api/expenses/summary", demoToken(t), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sum := decode[dto.ExpenseSummaryResponse](t, resp)

	assert.Equal(t, 3, sum.Count)
	assert.True(t, decimal.RequireFromString("1598.48").Equal(sum.Total), "total %s", sum.Total)
	assert.True(t, decimal.RequireFromString("245.50").Equal(sum.Billable))
	assert.True(t, decimal.RequireFromString("52.99").Equal(sum.ThisMonth))
}

func TestRouter_CrearGastoMontoCero_Retorna400(t *testing.T) {
	resp := call(t, newServer(t), http.MethodPost, "/api/expenses", demoToken(t),
		dto.ExpenseRequest{Category: "Software", Description: "x", Amount: decimal.Zero})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_TableroResumen(t *testing.T) {
	resp := call(t, newServer(t), http.MethodGet, "/api/dashboard/summary", demoToken(t), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sum := decode[dto.DashboardSummaryDTO](t, resp)

	assert.Equal(t, 4, sum.TotalInvoices)
	assert.Equal(t, 1, sum.OverdueCount)
	assert.True(t, decimal.RequireFromString("2712.5").Equal(sum.TotalRevenue))
}
