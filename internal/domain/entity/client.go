package entity

import "time"

// Client representa un cliente del usuario (destinatario de facturas).
type Client struct {
	ID        string
	UserID    string
	Name      string
	Email     string
	Company   string
	Address   string
	Phone     string
	TaxID     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
