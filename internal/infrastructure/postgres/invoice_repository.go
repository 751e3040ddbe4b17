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

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const invoiceColumns = `id, user_id, client_id, invoice_number, title, description, currency,
	tax_rate, subtotal, tax_amount, total_amount, status, issue_date, due_date,
	payment_gateway, payment_link, notes, terms, custom_fields, sent_at, paid_at, created_at, updated_at`

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste la cabecera de la factura.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	fields, err := marshalCustomFields(inv.CustomFields)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
			$19::jsonb, $20, $21, $22, $23)`
	_, err = r.q.Exec(ctx, query,
		inv.ID, inv.UserID, inv.ClientID, inv.InvoiceNumber, inv.Title, inv.Description, inv.Currency,
		inv.TaxRate, inv.Subtotal, inv.TaxAmount, inv.TotalAmount, string(inv.Status), inv.IssueDate, inv.DueDate,
		inv.PaymentGateway, inv.PaymentLink, inv.Notes, inv.Terms, fields, inv.SentAt, inv.PaidAt,
		inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		return writeErr("insert invoice", err)
	}
	return nil
}

// Update reescribe la cabecera (totales, estado y datos editables) con compare-and-set sobre
// el estado: la fila solo cambia si sigue en expected. Un "overdue" heredado cuenta como sent.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice, expected entity.InvoiceStatus) error {
	fields, err := marshalCustomFields(inv.CustomFields)
	if err != nil {
		return err
	}
	query := `
		UPDATE invoices SET client_id = $2, invoice_number = $3, title = $4, description = $5, currency = $6,
			tax_rate = $7, subtotal = $8, tax_amount = $9, total_amount = $10, status = $11,
			issue_date = $12, due_date = $13, payment_gateway = $14, payment_link = $15,
			notes = $16, terms = $17, custom_fields = $18::jsonb, sent_at = $19, paid_at = $20, updated_at = $21
		WHERE id = $1 AND (status = $22::text OR ($22::text = 'sent' AND status = 'overdue'))`
	tag, err := r.q.Exec(ctx, query,
		inv.ID, inv.ClientID, inv.InvoiceNumber, inv.Title, inv.Description, inv.Currency,
		inv.TaxRate, inv.Subtotal, inv.TaxAmount, inv.TotalAmount, string(inv.Status),
		inv.IssueDate, inv.DueDate, inv.PaymentGateway, inv.PaymentLink,
		inv.Notes, inv.Terms, fields, inv.SentAt, inv.PaidAt, inv.UpdatedAt, string(expected),
	)
	if err != nil {
		return writeErr("update invoice", err)
	}
	if tag.RowsAffected() == 0 {
		return r.staleOrMissing(ctx, inv.ID, expected)
	}
	return nil
}

// staleOrMissing distingue por qué un UPDATE condicional no afectó filas.
func (r *InvoiceRepo) staleOrMissing(ctx context.Context, id string, expected entity.InvoiceStatus) error {
	var status string
	err := r.q.QueryRow(ctx, `SELECT status FROM invoices WHERE id = $1`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return persistErr("check invoice status", err)
	}
	return fmt.Errorf("%w: la factura %s está %s, se esperaba %s", domain.ErrConflict, id, status, expected)
}

// GetByID obtiene una factura por ID. (nil, nil) si no existe.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	row := r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, persistErr("get invoice", err)
	}
	return inv, nil
}

// GetByUserAndNumber busca por número dentro de las facturas del usuario.
func (r *InvoiceRepo) GetByUserAndNumber(ctx context.Context, userID, number string) (*entity.Invoice, error) {
	row := r.q.QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE user_id = $1 AND invoice_number = $2`, userID, number)
	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, persistErr("get invoice by number", err)
	}
	return inv, nil
}

// ListByUser lista las facturas del usuario, más recientes primero.
func (r *InvoiceRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE user_id = $1 ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, persistErr("list invoices", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, persistErr("scan invoice", err)
		}
		list = append(list, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("list invoices", err)
	}
	return list, nil
}

// CountByUser número de facturas del usuario (para numeración automática).
func (r *InvoiceRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM invoices WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, persistErr("count invoices", err)
	}
	return n, nil
}

// Delete elimina la factura; las líneas caen por ON DELETE CASCADE.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return persistErr("delete invoice", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CreateItem persiste una línea.
func (r *InvoiceRepo) CreateItem(ctx context.Context, item *entity.LineItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoice_items (id, invoice_id, position, description, quantity, unit_price, total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.InvoiceID, item.Position, item.Description, item.Quantity, item.UnitPrice,
		item.Total, item.CreatedAt,
	)
	if err != nil {
		return writeErr("insert invoice item", err)
	}
	return nil
}

// DeleteItemsByInvoiceID borra todas las líneas de la factura (reemplazo en Update).
func (r *InvoiceRepo) DeleteItemsByInvoiceID(ctx context.Context, invoiceID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, invoiceID); err != nil {
		return persistErr("delete invoice items", err)
	}
	return nil
}

// GetItemsByInvoiceID líneas de la factura en orden.
func (r *InvoiceRepo) GetItemsByInvoiceID(ctx context.Context, invoiceID string) ([]*entity.LineItem, error) {
	query := `
		SELECT id, invoice_id, position, description, quantity, unit_price, total, created_at
		FROM invoice_items WHERE invoice_id = $1 ORDER BY position, created_at`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, persistErr("list invoice items", err)
	}
	defer rows.Close()
	var list []*entity.LineItem
	for rows.Next() {
		var it entity.LineItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.Position, &it.Description, &it.Quantity,
			&it.UnitPrice, &it.Total, &it.CreatedAt); err != nil {
			return nil, persistErr("scan invoice item", err)
		}
		list = append(list, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("list invoice items", err)
	}
	return list, nil
}

func scanInvoice(row rowScanner) (*entity.Invoice, error) {
	var (
		inv    entity.Invoice
		status string
		fields []byte
	)
	err := row.Scan(
		&inv.ID, &inv.UserID, &inv.ClientID, &inv.InvoiceNumber, &inv.Title, &inv.Description, &inv.Currency,
		&inv.TaxRate, &inv.Subtotal, &inv.TaxAmount, &inv.TotalAmount, &status, &inv.IssueDate, &inv.DueDate,
		&inv.PaymentGateway, &inv.PaymentLink, &inv.Notes, &inv.Terms, &fields, &inv.SentAt, &inv.PaidAt,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	st, ok := entity.ParseInvoiceStatus(status)
	if !ok {
		return nil, fmt.Errorf("estado de factura desconocido %q", status)
	}
	inv.Status = st
	if len(fields) > 0 {
		if err := json.Unmarshal(fields, &inv.CustomFields); err != nil {
			return nil, fmt.Errorf("custom_fields: %w", err)
		}
	}
	return &inv, nil
}

func marshalCustomFields(fields []entity.CustomField) (string, error) {
	if fields == nil {
		fields = []entity.CustomField{}
	}
	b, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("%w: custom_fields: %v", domain.ErrInvalidInput, err)
	}
	return string(b), nil
}
