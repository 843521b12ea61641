package entity

import "time"

// Roles válidos para User.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User representa un cliente o administrador de la tienda.
// ExternalID es el subject del proveedor de identidad; vacío para cuentas solo locales.
type User struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	Role         string // user, admin
	ExternalID   string
	PasswordHash string // bcrypt; vacío si la cuenta viene del proveedor externo
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin indica si el usuario tiene rol administrador.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// ValidRole indica si role es uno de los roles conocidos.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}
