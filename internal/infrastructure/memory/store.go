// Package memory implementa los puertos de repositorio sobre mapas en memoria. Se usa como
// conjunto de datos de demostración (STORAGE_DRIVER=memory o sin base de datos) y como
// doble de pruebas de los casos de uso y handlers.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/jhoicas/invoice-builder-api/internal/application/billing"
	"github.com/jhoicas/invoice-builder-api/internal/domain/entity"
	"github.com/jhoicas/invoice-builder-api/internal/domain/repository"
)

var (
	_ billing.InvoiceTxRunner      = (*Store)(nil)
	_ repository.InvoiceRepository = (*invoiceTx)(nil)
)

// Store guarda todas las colecciones bajo un único mutex.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	users     map[string]*entity.User
	clients   map[string]*entity.Client
	invoices  map[string]*entity.Invoice
	items     map[string][]*entity.LineItem // por invoice_id
	gateways  map[string]*entity.PaymentGateway
	templates map[string]*entity.EmailTemplate
	reminders map[string]*entity.ReminderSetting
	expenses  map[string]*entity.Expense
}

// New crea un store vacío.
func New() *Store {
	return &Store{
		users:     map[string]*entity.User{},
		clients:   map[string]*entity.Client{},
		invoices:  map[string]*entity.Invoice{},
		items:     map[string][]*entity.LineItem{},
		gateways:  map[string]*entity.PaymentGateway{},
		templates: map[string]*entity.EmailTemplate{},
		reminders: map[string]*entity.ReminderSetting{},
		expenses:  map[string]*entity.Expense{},
	}
}

// Users, Clients, ... devuelven los adaptadores de cada puerto sobre este store.
func (s *Store) Users() *UserRepo                       { return &UserRepo{s} }
func (s *Store) Clients() *ClientRepo                   { return &ClientRepo{s} }
func (s *Store) Invoices() *InvoiceRepo                 { return &InvoiceRepo{s} }
func (s *Store) PaymentGateways() *PaymentGatewayRepo   { return &PaymentGatewayRepo{s} }
func (s *Store) EmailTemplates() *EmailTemplateRepo     { return &EmailTemplateRepo{s} }
func (s *Store) ReminderSettings() *ReminderSettingRepo { return &ReminderSettingRepo{s} }
func (s *Store) Expenses() *ExpenseRepo                 { return &ExpenseRepo{s} }

// RunInvoice ejecuta fn con un repo de facturas que registra cada factura que toca. Si fn
// falla o ctx se cancela antes de confirmar, solo esas facturas y sus líneas vuelven al
// estado previo; las escrituras ajenas a la transacción se conservan. Las transacciones
// se serializan entre sí.
func (s *Store) RunInvoice(ctx context.Context, fn func(invoices repository.InvoiceRepository) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	tx := &invoiceTx{InvoiceRepo: s.Invoices(), saved: map[string]invoiceSnapshot{}}
	if err := fn(tx); err != nil {
		tx.rollback()
		return err
	}
	if err := ctx.Err(); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

// invoiceSnapshot estado de una factura antes de la primera escritura de la transacción.
type invoiceSnapshot struct {
	invoice  *entity.Invoice // nil si no existía
	items    []*entity.LineItem
	hasItems bool
}

type invoiceTx struct {
	*InvoiceRepo
	saved map[string]invoiceSnapshot
}

func (t *invoiceTx) touch(id string) {
	if _, ok := t.saved[id]; ok {
		return
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	var snap invoiceSnapshot
	if inv, ok := t.s.invoices[id]; ok {
		snap.invoice = cloneInvoice(inv)
	}
	if items, ok := t.s.items[id]; ok {
		snap.items, snap.hasItems = slices.Clone(items), true
	}
	t.saved[id] = snap
}

func (t *invoiceTx) rollback() {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for id, snap := range t.saved {
		if snap.invoice == nil {
			delete(t.s.invoices, id)
		} else {
			t.s.invoices[id] = snap.invoice
		}
		if snap.hasItems {
			t.s.items[id] = snap.items
		} else {
			delete(t.s.items, id)
		}
	}
}

func (t *invoiceTx) Create(ctx context.Context, inv *entity.Invoice) error {
	inv.ID = newID(inv.ID)
	t.touch(inv.ID)
	return t.InvoiceRepo.Create(ctx, inv)
}

func (t *invoiceTx) Update(ctx context.Context, inv *entity.Invoice, expected entity.InvoiceStatus) error {
	t.touch(inv.ID)
	return t.InvoiceRepo.Update(ctx, inv, expected)
}

func (t *invoiceTx) Delete(ctx context.Context, id string) error {
	t.touch(id)
	return t.InvoiceRepo.Delete(ctx, id)
}

func (t *invoiceTx) CreateItem(ctx context.Context, item *entity.LineItem) error {
	t.touch(item.InvoiceID)
	return t.InvoiceRepo.CreateItem(ctx, item)
}

func (t *invoiceTx) DeleteItemsByInvoiceID(ctx context.Context, invoiceID string) error {
	t.touch(invoiceID)
	return t.InvoiceRepo.DeleteItemsByInvoiceID(ctx, invoiceID)
}

func newID(id string) string {
	if id == "" {
		return uuid.New().String()
	}
	return id
}
