package billing

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/invoice-builder-api/internal/application/dto"
	"github.com/jhoicas/invoice-builder-api/internal/domain"
	"github.com/jhoicas/invoice-builder-api/internal/domain/entity"
	"github.com/jhoicas/invoice-builder-api/internal/domain/invoicing"
	"github.com/jhoicas/invoice-builder-api/internal/domain/repository"
)

const (
	defaultCurrency  = "USD"
	maxNumberRetries = 50
)

// InvoiceUseCase casos de uso de facturas: edición en borrador, ciclo de vida, recordatorios
// y enlaces de pago. Toda validación y toda transición se comprueban antes de escribir.
type InvoiceUseCase struct {
	txRunner     InvoiceTxRunner
	invoiceRepo  repository.InvoiceRepository
	clientRepo   repository.ClientRepository
	reminderRepo repository.ReminderSettingRepository
	gatewayRepo  repository.PaymentGatewayRepository
	links        map[string]PaymentLinkProvider
	now          func() time.Time
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner InvoiceTxRunner,
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	reminderRepo repository.ReminderSettingRepository,
	gatewayRepo repository.PaymentGatewayRepository,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:     txRunner,
		invoiceRepo:  invoiceRepo,
		clientRepo:   clientRepo,
		reminderRepo: reminderRepo,
		gatewayRepo:  gatewayRepo,
		links:        map[string]PaymentLinkProvider{},
		now:          time.Now,
	}
}

// WithPaymentLinkProvider registra el proveedor de enlaces de pago de un tipo de pasarela.
func (uc *InvoiceUseCase) WithPaymentLinkProvider(gatewayType string, p PaymentLinkProvider) *InvoiceUseCase {
	uc.links[gatewayType] = p
	return uc
}

// WithClock reemplaza el reloj (tests).
func (uc *InvoiceUseCase) WithClock(now func() time.Time) *InvoiceUseCase {
	uc.now = now
	return uc
}

// Create valida la solicitud, calcula totales y guarda la factura en borrador con sus líneas.
func (uc *InvoiceUseCase) Create(ctx context.Context, userID string, in dto.InvoiceRequest) (*dto.InvoiceResponse, error) {
	draft, err := parseInvoiceRequest(in)
	if err != nil {
		return nil, err
	}
	client, err := uc.ownedClient(ctx, userID, draft.ClientID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	inv := draft.invoice
	inv.ID = uuid.New().String()
	inv.UserID = userID
	invoicing.NewDraft(&inv, now)

	if inv.InvoiceNumber == "" {
		if inv.InvoiceNumber, err = uc.nextNumber(ctx, userID, now); err != nil {
			return nil, err
		}
	} else if err := uc.ensureNumberFree(ctx, userID, inv.InvoiceNumber, ""); err != nil {
		return nil, err
	}

	items := uc.buildItems(&inv, draft.items, now)
	err = uc.txRunner.RunInvoice(ctx, func(repo repository.InvoiceRepository) error {
		if err := repo.Create(ctx, &inv); err != nil {
			return err
		}
		for _, it := range items {
			if err := repo.CreateItem(ctx, it); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("crear factura: %w", err)
	}
	out := ToInvoiceResponse(&inv, items, client.Name, now)
	return &out, nil
}

// Update reemplaza datos y líneas de una factura en borrador y recalcula totales.
func (uc *InvoiceUseCase) Update(ctx context.Context, userID, id string, in dto.InvoiceRequest) (*dto.InvoiceResponse, error) {
	draft, err := parseInvoiceRequest(in)
	if err != nil {
		return nil, err
	}
	inv, err := uc.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if inv.Status != entity.InvoiceStatusDraft {
		return nil, fmt.Errorf("%w: solo se editan facturas en borrador (estado %s)", domain.ErrConflict, inv.Status)
	}
	client, err := uc.ownedClient(ctx, userID, draft.ClientID)
	if err != nil {
		return nil, err
	}
	number := draft.invoice.InvoiceNumber
	if number == "" {
		number = inv.InvoiceNumber
	} else if err := uc.ensureNumberFree(ctx, userID, number, inv.ID); err != nil {
		return nil, err
	}

	now := uc.now()
	next := draft.invoice
	next.ID, next.UserID, next.InvoiceNumber = inv.ID, inv.UserID, number
	next.Status, next.PaymentLink = inv.Status, inv.PaymentLink
	next.CreatedAt, next.UpdatedAt = inv.CreatedAt, now

	items := uc.buildItems(&next, draft.items, now)
	// el update condicional es la primera escritura: si otro cambio de estado se adelantó
	// a la lectura, la transacción se aborta antes de tocar las líneas
	err = uc.txRunner.RunInvoice(ctx, func(repo repository.InvoiceRepository) error {
		if err := repo.Update(ctx, &next, entity.InvoiceStatusDraft); err != nil {
			return err
		}
		if err := repo.DeleteItemsByInvoiceID(ctx, next.ID); err != nil {
			return err
		}
		for _, it := range items {
			if err := repo.CreateItem(ctx, it); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("actualizar factura: %w", err)
	}
	out := ToInvoiceResponse(&next, items, client.Name, now)
	return &out, nil
}

// Get devuelve la factura con sus líneas.
func (uc *InvoiceUseCase) Get(ctx context.Context, userID, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	items, err := uc.invoiceRepo.GetItemsByInvoiceID(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	out := ToInvoiceResponse(inv, items, uc.clientName(ctx, inv.ClientID), uc.now())
	return &out, nil
}

// List facturas del usuario (más recientes primero). status filtra por el estado efectivo,
// por lo que "overdue" devuelve las enviadas ya vencidas.
func (uc *InvoiceUseCase) List(ctx context.Context, userID, status string, page dto.PageRequest) (*dto.InvoiceListResponse, error) {
	page.DefaultPage()
	var want entity.InvoiceStatus
	if status != "" {
		want = entity.InvoiceStatus(strings.ToLower(status))
		if !want.Valid() {
			return nil, fmt.Errorf("%w: estado %q desconocido", domain.ErrInvalidInput, status)
		}
	}
	list, err := uc.invoiceRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	clients, err := uc.clientNames(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	filtered := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		if want != "" && inv.EffectiveStatus(now) != want {
			continue
		}
		filtered = append(filtered, ToInvoiceResponse(inv, nil, clients[inv.ClientID], now))
	}
	total := len(filtered)
	start := min(page.Offset, total)
	end := min(start+page.Limit, total)
	return &dto.InvoiceListResponse{
		Items: filtered[start:end],
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Delete elimina la factura y sus líneas.
func (uc *InvoiceUseCase) Delete(ctx context.Context, userID, id string) error {
	if _, err := uc.load(ctx, userID, id); err != nil {
		return err
	}
	return uc.invoiceRepo.Delete(ctx, id)
}

// Send draft → sent.
func (uc *InvoiceUseCase) Send(ctx context.Context, userID, id string) (*dto.InvoiceResponse, error) {
	return uc.transition(ctx, userID, id, invoicing.Send)
}

// MarkPaid sent (o vencida) → paid.
func (uc *InvoiceUseCase) MarkPaid(ctx context.Context, userID, id string) (*dto.InvoiceResponse, error) {
	return uc.transition(ctx, userID, id, invoicing.MarkPaid)
}

// Cancel draft | sent → cancelled.
func (uc *InvoiceUseCase) Cancel(ctx context.Context, userID, id string) (*dto.InvoiceResponse, error) {
	return uc.transition(ctx, userID, id, invoicing.Cancel)
}

func (uc *InvoiceUseCase) transition(
	ctx context.Context,
	userID, id string,
	apply func(*entity.Invoice, time.Time) error,
) (*dto.InvoiceResponse, error) {
	inv, err := uc.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	prior := inv.Status
	if err := apply(inv, now); err != nil {
		return nil, err
	}
	if err := uc.invoiceRepo.Update(ctx, inv, prior); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("%w: la factura %s cambió de estado (%w)", domain.ErrInvalidTransition, id, err)
		}
		return nil, fmt.Errorf("guardar estado: %w", err)
	}
	out := ToInvoiceResponse(inv, nil, uc.clientName(ctx, inv.ClientID), now)
	return &out, nil
}

// Reminders fechas de recordatorio de una factura según la configuración activa del usuario.
func (uc *InvoiceUseCase) Reminders(ctx context.Context, userID, id string) ([]dto.ReminderEventResponse, error) {
	inv, err := uc.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	settings, err := uc.reminderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := []dto.ReminderEventResponse{}
	for ev := range invoicing.ResolveReminders(inv, settings) {
		out = append(out, ToReminderEventResponse(ev))
	}
	return out, nil
}

// UpcomingEvents recordatorios de todas las facturas del usuario con fecha en [from, to],
// ordenados por fecha.
func (uc *InvoiceUseCase) UpcomingEvents(ctx context.Context, userID string, from, to time.Time) ([]invoicing.ReminderEvent, error) {
	if entity.DateOf(to).Before(entity.DateOf(from)) {
		return nil, fmt.Errorf("%w: el rango de fechas está invertido", domain.ErrInvalidInput)
	}
	settings, err := uc.reminderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	invoices, err := uc.invoiceRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	var events []invoicing.ReminderEvent
	for _, inv := range invoices {
		events = append(events, invoicing.RemindersBetween(invoicing.ResolveReminders(inv, settings), from, to)...)
	}
	slices.SortFunc(events, func(a, b invoicing.ReminderEvent) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.InvoiceNumber, b.InvoiceNumber)
	})
	return events, nil
}

// UpcomingReminders versión DTO de UpcomingEvents.
func (uc *InvoiceUseCase) UpcomingReminders(ctx context.Context, userID string, from, to time.Time) ([]dto.ReminderEventResponse, error) {
	events, err := uc.UpcomingEvents(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReminderEventResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, ToReminderEventResponse(ev))
	}
	return out, nil
}

// CreatePaymentLink genera el enlace de pago con la pasarela de la factura y lo guarda.
func (uc *InvoiceUseCase) CreatePaymentLink(ctx context.Context, userID, id string) (*dto.PaymentLinkResponse, error) {
	inv, err := uc.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if inv.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: la factura está %s", domain.ErrConflict, inv.Status)
	}
	if inv.PaymentGateway == "" {
		return nil, fmt.Errorf("%w: la factura no tiene pasarela de pago", domain.ErrInvalidInput)
	}
	gw, err := uc.gatewayRepo.GetByUserAndType(ctx, userID, inv.PaymentGateway)
	if err != nil {
		return nil, err
	}
	if gw == nil || !gw.IsUsable() {
		return nil, fmt.Errorf("%w: la pasarela %s no está configurada o activa", domain.ErrInvalidInput, inv.PaymentGateway)
	}
	provider, ok := uc.links[inv.PaymentGateway]
	if !ok {
		return nil, fmt.Errorf("%w: la pasarela %s no genera enlaces de pago", domain.ErrInvalidInput, inv.PaymentGateway)
	}
	title := inv.Title
	if title == "" {
		title = "Invoice " + inv.InvoiceNumber
	}
	link, err := provider.CreatePaymentLink(ctx, PaymentLinkRequest{
		InvoiceID:     inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		Title:         title,
		Currency:      inv.Currency,
		Amount:        inv.TotalAmount,
		Config:        gw.Config,
	})
	if err != nil {
		return nil, fmt.Errorf("enlace de pago %s: %w", inv.PaymentGateway, err)
	}
	inv.PaymentLink = link
	inv.UpdatedAt = uc.now()
	if err := uc.invoiceRepo.Update(ctx, inv, inv.Status); err != nil {
		return nil, err
	}
	return &dto.PaymentLinkResponse{InvoiceID: inv.ID, Gateway: inv.PaymentGateway, PaymentLink: link}, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func (uc *InvoiceUseCase) load(ctx context.Context, userID, id string) (*entity.Invoice, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil || inv.UserID != userID {
		return nil, fmt.Errorf("%w: factura %s", domain.ErrNotFound, id)
	}
	return inv, nil
}

func (uc *InvoiceUseCase) ownedClient(ctx context.Context, userID, clientID string) (*entity.Client, error) {
	c, err := uc.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if c == nil || c.UserID != userID {
		return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, clientID)
	}
	return c, nil
}

func (uc *InvoiceUseCase) clientName(ctx context.Context, clientID string) string {
	c, err := uc.clientRepo.GetByID(ctx, clientID)
	if err != nil || c == nil {
		return ""
	}
	return c.Name
}

func (uc *InvoiceUseCase) clientNames(ctx context.Context, userID string) (map[string]string, error) {
	list, err := uc.clientRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(list))
	for _, c := range list {
		names[c.ID] = c.Name
	}
	return names, nil
}

// nextNumber INV-<año>-<NNN> a partir del número de facturas del usuario, saltando los ocupados.
func (uc *InvoiceUseCase) nextNumber(ctx context.Context, userID string, now time.Time) (string, error) {
	n, err := uc.invoiceRepo.CountByUser(ctx, userID)
	if err != nil {
		return "", err
	}
	for i := 1; i <= maxNumberRetries; i++ {
		candidate := fmt.Sprintf("INV-%d-%03d", now.Year(), n+i)
		existing, err := uc.invoiceRepo.GetByUserAndNumber(ctx, userID, candidate)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: no hay números de factura libres", domain.ErrConflict)
}

func (uc *InvoiceUseCase) ensureNumberFree(ctx context.Context, userID, number, exceptID string) error {
	existing, err := uc.invoiceRepo.GetByUserAndNumber(ctx, userID, number)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != exceptID {
		return fmt.Errorf("%w: el número %s ya existe", domain.ErrDuplicate, number)
	}
	return nil
}

// buildItems pasa las líneas por el libro (normalización) y fija los totales de la factura.
func (uc *InvoiceUseCase) buildItems(inv *entity.Invoice, in []dto.InvoiceItemRequest, now time.Time) []*entity.LineItem {
	inputs := make([]invoicing.ItemInput, 0, len(in))
	for _, it := range in {
		inputs = append(inputs, invoicing.ItemInput{
			Description: it.Description,
			Quantity:    string(it.Quantity),
			UnitPrice:   string(it.UnitPrice),
		})
	}
	lines := invoicing.LedgerFrom(inputs).Items()
	invoicing.Totals(inv, lines)

	out := make([]*entity.LineItem, 0, len(lines))
	for i := range lines {
		it := lines[i]
		it.ID = uuid.New().String()
		it.InvoiceID = inv.ID
		it.CreatedAt = now
		out = append(out, &it)
	}
	return out
}

type invoiceDraft struct {
	ClientID string
	invoice  entity.Invoice
	items    []dto.InvoiceItemRequest
}

var (
	fieldTypes     = map[string]bool{"text": true, "number": true, "date": true, "select": true}
	fieldPositions = map[string]bool{"header": true, "items": true, "footer": true}
)

// parseInvoiceRequest valida la solicitud completa antes de tocar el almacenamiento.
func parseInvoiceRequest(in dto.InvoiceRequest) (*invoiceDraft, error) {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: "+format, append([]any{domain.ErrInvalidInput}, args...)...)
	}
	clientID := strings.TrimSpace(in.ClientID)
	if clientID == "" {
		return nil, invalid("el cliente es obligatorio")
	}
	if len(in.Items) == 0 {
		return nil, invalid("la factura necesita al menos una línea")
	}
	for i, it := range in.Items {
		if strings.TrimSpace(it.Description) == "" {
			return nil, invalid("la línea %d no tiene descripción", i+1)
		}
	}
	if !invoicing.ValidTaxRate(in.TaxRate) {
		return nil, invalid("la tasa de impuesto debe estar entre 0 y 100")
	}
	if strings.TrimSpace(in.IssueDate) == "" {
		return nil, invalid("la fecha de emisión es obligatoria")
	}
	issue, err := time.Parse(time.DateOnly, strings.TrimSpace(in.IssueDate))
	if err != nil {
		return nil, invalid("fecha de emisión inválida %q", in.IssueDate)
	}
	var due *time.Time
	if s := strings.TrimSpace(in.DueDate); s != "" {
		d, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return nil, invalid("fecha de vencimiento inválida %q", in.DueDate)
		}
		if d.Before(issue) {
			return nil, invalid("el vencimiento no puede ser anterior a la emisión")
		}
		due = &d
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = defaultCurrency
	}
	if len(currency) != 3 {
		return nil, invalid("moneda inválida %q", in.Currency)
	}
	gateway := strings.ToLower(strings.TrimSpace(in.PaymentGateway))
	if _, ok := entity.GatewayFields[gateway]; gateway != "" && !ok {
		return nil, invalid("pasarela desconocida %q", in.PaymentGateway)
	}
	fields := make([]entity.CustomField, 0, len(in.CustomFields))
	for _, f := range in.CustomFields {
		if strings.TrimSpace(f.Name) == "" {
			return nil, invalid("campo personalizado sin nombre")
		}
		cf := entity.CustomField{Name: strings.TrimSpace(f.Name), Value: f.Value, Type: f.Type, Position: f.Position}
		if cf.Type == "" {
			cf.Type = "text"
		}
		if cf.Position == "" {
			cf.Position = "footer"
		}
		if !fieldTypes[cf.Type] || !fieldPositions[cf.Position] {
			return nil, invalid("campo personalizado %q con tipo o posición inválidos", cf.Name)
		}
		fields = append(fields, cf)
	}

	return &invoiceDraft{
		ClientID: clientID,
		invoice: entity.Invoice{
			ClientID:       clientID,
			InvoiceNumber:  strings.TrimSpace(in.InvoiceNumber),
			Title:          strings.TrimSpace(in.Title),
			Description:    in.Description,
			Currency:       currency,
			TaxRate:        in.TaxRate,
			IssueDate:      issue,
			DueDate:        due,
			PaymentGateway: gateway,
			Notes:          in.Notes,
			Terms:          in.Terms,
			CustomFields:   fields,
		},
		items: in.Items,
	}, nil
}
