package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/jhoicas/invoice-builder-api/internal/domain"
	"github.com/jhoicas/invoice-builder-api/internal/domain/entity"
	"github.com/jhoicas/invoice-builder-api/internal/domain/repository"
)

var (
	_ repository.UserRepository            = (*UserRepo)(nil)
	_ repository.ClientRepository          = (*ClientRepo)(nil)
	_ repository.InvoiceRepository         = (*InvoiceRepo)(nil)
	_ repository.PaymentGatewayRepository  = (*PaymentGatewayRepo)(nil)
	_ repository.EmailTemplateRepository   = (*EmailTemplateRepo)(nil)
	_ repository.ReminderSettingRepository = (*ReminderSettingRepo)(nil)
	_ repository.ExpenseRepository         = (*ExpenseRepo)(nil)
)

// Todas las lecturas y escrituras copian las entidades: el llamador nunca comparte punteros
// con el store.

// ── Usuarios ─────────────────────────────────────────────────────────────────

type UserRepo struct{ s *Store }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	u.ID = newID(u.ID)
	c := *u
	r.s.users[u.ID] = &c
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if u, ok := r.s.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

// ── Clientes ─────────────────────────────────────────────────────────────────

type ClientRepo struct{ s *Store }

func (r *ClientRepo) Create(_ context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID = newID(c.ID)
	if _, ok := r.s.clients[c.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *c
	r.s.clients[c.ID] = &cp
	return nil
}

func (r *ClientRepo) GetByID(_ context.Context, id string) (*entity.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if c, ok := r.s.clients[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *ClientRepo) ListByUser(_ context.Context, userID string) ([]*entity.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Client
	for _, c := range r.s.clients {
		if c.UserID == userID {
			cp := *c
			list = append(list, &cp)
		}
	}
	slices.SortFunc(list, func(a, b *entity.Client) int { return cmp.Compare(a.Name, b.Name) })
	return list, nil
}

func (r *ClientRepo) Update(_ context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.clients[c.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *c
	r.s.clients[c.ID] = &cp
	return nil
}

// Delete falla con ErrConflict si el cliente tiene facturas, igual que la FK en postgres.
func (r *ClientRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.clients[id]; !ok {
		return domain.ErrNotFound
	}
	for _, inv := range r.s.invoices {
		if inv.ClientID == id {
			return domain.ErrConflict
		}
	}
	delete(r.s.clients, id)
	for _, e := range r.s.expenses {
		if e.ClientID == id {
			e.ClientID = ""
		}
	}
	return nil
}

// ── Facturas ─────────────────────────────────────────────────────────────────

type InvoiceRepo struct{ s *Store }

func cloneInvoice(inv *entity.Invoice) *entity.Invoice {
	c := *inv
	c.DueDate = clonePtr(inv.DueDate)
	c.SentAt = clonePtr(inv.SentAt)
	c.PaidAt = clonePtr(inv.PaidAt)
	c.CustomFields = slices.Clone(inv.CustomFields)
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func (r *InvoiceRepo) numberTaken(userID, number, exceptID string) bool {
	for _, inv := range r.s.invoices {
		if inv.UserID == userID && inv.InvoiceNumber == number && inv.ID != exceptID {
			return true
		}
	}
	return false
}

func (r *InvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv.ID = newID(inv.ID)
	if _, ok := r.s.invoices[inv.ID]; ok || r.numberTaken(inv.UserID, inv.InvoiceNumber, "") {
		return domain.ErrDuplicate
	}
	r.s.invoices[inv.ID] = cloneInvoice(inv)
	return nil
}

func (r *InvoiceRepo) Update(_ context.Context, inv *entity.Invoice, expected entity.InvoiceStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.invoices[inv.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if current.Status != expected {
		return fmt.Errorf("%w: la factura %s está %s, se esperaba %s", domain.ErrConflict, inv.ID, current.Status, expected)
	}
	if r.numberTaken(inv.UserID, inv.InvoiceNumber, inv.ID) {
		return domain.ErrDuplicate
	}
	r.s.invoices[inv.ID] = cloneInvoice(inv)
	return nil
}

func (r *InvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if inv, ok := r.s.invoices[id]; ok {
		return cloneInvoice(inv), nil
	}
	return nil, nil
}

func (r *InvoiceRepo) GetByUserAndNumber(_ context.Context, userID, number string) (*entity.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, inv := range r.s.invoices {
		if inv.UserID == userID && inv.InvoiceNumber == number {
			return cloneInvoice(inv), nil
		}
	}
	return nil, nil
}

func (r *InvoiceRepo) ListByUser(_ context.Context, userID string) ([]*entity.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Invoice
	for _, inv := range r.s.invoices {
		if inv.UserID == userID {
			list = append(list, cloneInvoice(inv))
		}
	}
	slices.SortFunc(list, func(a, b *entity.Invoice) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return list, nil
}

func (r *InvoiceRepo) CountByUser(_ context.Context, userID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, inv := range r.s.invoices {
		if inv.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *InvoiceRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.invoices[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.invoices, id)
	delete(r.s.items, id)
	return nil
}

func (r *InvoiceRepo) CreateItem(_ context.Context, item *entity.LineItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.invoices[item.InvoiceID]; !ok {
		return domain.ErrNotFound
	}
	item.ID = newID(item.ID)
	c := *item
	r.s.items[item.InvoiceID] = append(r.s.items[item.InvoiceID], &c)
	return nil
}

func (r *InvoiceRepo) DeleteItemsByInvoiceID(_ context.Context, invoiceID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.items, invoiceID)
	return nil
}

func (r *InvoiceRepo) GetItemsByInvoiceID(_ context.Context, invoiceID string) ([]*entity.LineItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	src := r.s.items[invoiceID]
	list := make([]*entity.LineItem, 0, len(src))
	for _, it := range src {
		c := *it
		list = append(list, &c)
	}
	slices.SortStableFunc(list, func(a, b *entity.LineItem) int { return cmp.Compare(a.Position, b.Position) })
	return list, nil
}

// ── Pasarelas ────────────────────────────────────────────────────────────────

type PaymentGatewayRepo struct{ s *Store }

func cloneGateway(g *entity.PaymentGateway) *entity.PaymentGateway {
	c := *g
	c.Config = make(map[string]string, len(g.Config))
	for k, v := range g.Config {
		c.Config[k] = v
	}
	return &c
}

func (r *PaymentGatewayRepo) Upsert(_ context.Context, g *entity.PaymentGateway) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.gateways {
		if existing.UserID == g.UserID && existing.GatewayType == g.GatewayType {
			g.ID = existing.ID
			g.CreatedAt = existing.CreatedAt
			break
		}
	}
	g.ID = newID(g.ID)
	r.s.gateways[g.ID] = cloneGateway(g)
	return nil
}

func (r *PaymentGatewayRepo) GetByUserAndType(_ context.Context, userID, gatewayType string) (*entity.PaymentGateway, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, g := range r.s.gateways {
		if g.UserID == userID && g.GatewayType == gatewayType {
			return cloneGateway(g), nil
		}
	}
	return nil, nil
}

func (r *PaymentGatewayRepo) ListByUser(_ context.Context, userID string) ([]*entity.PaymentGateway, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.PaymentGateway
	for _, g := range r.s.gateways {
		if g.UserID == userID {
			list = append(list, cloneGateway(g))
		}
	}
	slices.SortFunc(list, func(a, b *entity.PaymentGateway) int { return cmp.Compare(a.GatewayType, b.GatewayType) })
	return list, nil
}

// ── Plantillas ───────────────────────────────────────────────────────────────

type EmailTemplateRepo struct{ s *Store }

func (r *EmailTemplateRepo) Upsert(_ context.Context, t *entity.EmailTemplate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.templates {
		if existing.UserID == t.UserID && existing.TemplateType == t.TemplateType {
			t.ID = existing.ID
			t.CreatedAt = existing.CreatedAt
			break
		}
	}
	t.ID = newID(t.ID)
	c := *t
	r.s.templates[t.ID] = &c
	return nil
}

func (r *EmailTemplateRepo) GetByUserAndType(_ context.Context, userID, templateType string) (*entity.EmailTemplate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, t := range r.s.templates {
		if t.UserID == userID && t.TemplateType == templateType {
			c := *t
			return &c, nil
		}
	}
	return nil, nil
}

func (r *EmailTemplateRepo) ListByUser(_ context.Context, userID string) ([]*entity.EmailTemplate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.EmailTemplate
	for _, t := range r.s.templates {
		if t.UserID == userID {
			c := *t
			list = append(list, &c)
		}
	}
	slices.SortFunc(list, func(a, b *entity.EmailTemplate) int { return cmp.Compare(a.TemplateType, b.TemplateType) })
	return list, nil
}

// DeleteByUserAndType también desvincula los recordatorios que apuntaban a la plantilla.
func (r *EmailTemplateRepo) DeleteByUserAndType(_ context.Context, userID, templateType string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, t := range r.s.templates {
		if t.UserID == userID && t.TemplateType == templateType {
			delete(r.s.templates, id)
			for _, rs := range r.s.reminders {
				if rs.EmailTemplateID == id {
					rs.EmailTemplateID = ""
				}
			}
		}
	}
	return nil
}

// ── Recordatorios ────────────────────────────────────────────────────────────

type ReminderSettingRepo struct{ s *Store }

func (r *ReminderSettingRepo) Upsert(_ context.Context, rs *entity.ReminderSetting) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.reminders {
		if existing.UserID == rs.UserID && existing.Kind == rs.Kind {
			rs.ID = existing.ID
			rs.CreatedAt = existing.CreatedAt
			break
		}
	}
	rs.ID = newID(rs.ID)
	c := *rs
	r.s.reminders[rs.ID] = &c
	return nil
}

func (r *ReminderSettingRepo) ListByUser(_ context.Context, userID string) ([]*entity.ReminderSetting, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.ReminderSetting
	for _, rs := range r.s.reminders {
		if rs.UserID == userID {
			c := *rs
			list = append(list, &c)
		}
	}
	slices.SortFunc(list, func(a, b *entity.ReminderSetting) int { return cmp.Compare(a.Kind, b.Kind) })
	return list, nil
}

// ── Gastos ───────────────────────────────────────────────────────────────────

type ExpenseRepo struct{ s *Store }

func (r *ExpenseRepo) Create(_ context.Context, e *entity.Expense) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e.ID = newID(e.ID)
	if _, ok := r.s.expenses[e.ID]; ok {
		return domain.ErrDuplicate
	}
	c := *e
	r.s.expenses[e.ID] = &c
	return nil
}

func (r *ExpenseRepo) GetByID(_ context.Context, id string) (*entity.Expense, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if e, ok := r.s.expenses[id]; ok {
		c := *e
		return &c, nil
	}
	return nil, nil
}

func (r *ExpenseRepo) List(_ context.Context, f repository.ExpenseFilter) ([]*entity.Expense, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Expense
	for _, e := range r.s.expenses {
		if e.UserID != f.UserID {
			continue
		}
		if f.Category != "" && e.Category != f.Category {
			continue
		}
		day := entity.DateOf(e.ExpenseDate)
		if f.From != nil && day.Before(entity.DateOf(*f.From)) {
			continue
		}
		if f.To != nil && day.After(entity.DateOf(*f.To)) {
			continue
		}
		c := *e
		list = append(list, &c)
	}
	slices.SortFunc(list, func(a, b *entity.Expense) int {
		if c := b.ExpenseDate.Compare(a.ExpenseDate); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return list, nil
}

func (r *ExpenseRepo) Update(_ context.Context, e *entity.Expense) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.expenses[e.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *e
	r.s.expenses[e.ID] = &c
	return nil
}

func (r *ExpenseRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.expenses[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.expenses, id)
	return nil
}
