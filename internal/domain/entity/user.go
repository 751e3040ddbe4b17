package entity

import "time"

// User representa un usuario (dueño de clientes, facturas y configuración).
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	CompanyName  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
