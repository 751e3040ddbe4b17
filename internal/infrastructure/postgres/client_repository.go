package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/invoice-builder-api/internal/domain"
	"github.com/jhoicas/invoice-builder-api/internal/domain/entity"
	"github.com/jhoicas/invoice-builder-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

const clientColumns = `id, user_id, name, email, company, address, phone, tax_id, created_at, updated_at`

// ClientRepo implementación de ClientRepository (usable con pool o tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

// Create persiste un nuevo cliente.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	query := `INSERT INTO clients (` + clientColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.UserID, c.Name, c.Email, c.Company, c.Address, c.Phone, c.TaxID, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return writeErr("insert client", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	var c entity.Client
	err := r.q.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id).Scan(
		&c.ID, &c.UserID, &c.Name, &c.Email, &c.Company, &c.Address, &c.Phone, &c.TaxID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, persistErr("get client", err)
	}
	return &c, nil
}

// ListByUser lista los clientes del usuario por nombre.
func (r *ClientRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Client, error) {
	rows, err := r.q.Query(ctx, `SELECT `+clientColumns+` FROM clients WHERE user_id = $1 ORDER BY name`, userID)
	if err != nil {
		return nil, persistErr("list clients", err)
	}
	defer rows.Close()
	var list []*entity.Client
	for rows.Next() {
		var c entity.Client
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.Company, &c.Address, &c.Phone, &c.TaxID,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, persistErr("scan client", err)
		}
		list = append(list, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("list clients", err)
	}
	return list, nil
}

// Update actualiza un cliente.
func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	query := `
		UPDATE clients SET name = $2, email = $3, company = $4, address = $5, phone = $6, tax_id = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, c.ID, c.Name, c.Email, c.Company, c.Address, c.Phone, c.TaxID, c.UpdatedAt)
	if err != nil {
		return writeErr("update client", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un cliente por ID. Si tiene facturas la FK lo impide (ErrConflict).
func (r *ClientRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return persistErr("delete client", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
