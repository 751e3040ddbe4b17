package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/invoice-builder-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// persistErr envuelve un error del driver como ErrPersistence conservando la causa.
func persistErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrPersistence, err)
}

// writeErr como persistErr, pero las violaciones de unicidad se reportan como ErrDuplicate.
func writeErr(op string, err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%s: %w", op, domain.ErrDuplicate)
	}
	return persistErr(op, err)
}

// nullIfEmpty convierte "" en NULL para columnas opcionales.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// isForeignKeyViolation 23503: la fila sigue referenciada.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
