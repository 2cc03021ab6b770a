package entity

import "time"

// Roles válidos para User.
const (
	RoleCliente  = "cliente"
	RoleVendedor = "vendedor"
	RoleAdmin    = "admin"
)

// ValidRole indica si r es uno de los roles conocidos.
func ValidRole(r string) bool {
	switch r {
	case RoleCliente, RoleVendedor, RoleAdmin:
		return true
	}
	return false
}

// User representa una cuenta de la tienda: cliente, vendedor o administrador.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
