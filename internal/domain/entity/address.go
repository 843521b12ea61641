package entity

import "time"

// AddressRole uso de una dirección dentro de un pedido.
type AddressRole string

const (
	AddressRoleShipping AddressRole = "shipping"
	AddressRoleBilling  AddressRole = "billing"
)

// Valid indica si el rol es shipping o billing.
func (r AddressRole) Valid() bool {
	return r == AddressRoleShipping || r == AddressRoleBilling
}

// AddressFields campos estructurados que identifican una dirección.
// Dos direcciones son la misma solo si los cinco campos coinciden exactamente.
type AddressFields struct {
	Street     string
	City       string
	State      string
	Country    string
	PostalCode string
}

// Address dirección de un usuario. IsBilling e IsShipping son independientes.
type Address struct {
	ID     string
	UserID string
	AddressFields
	IsBilling  bool
	IsShipping bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Flag devuelve el flag correspondiente al rol.
func (a *Address) Flag(role AddressRole) bool {
	if role == AddressRoleBilling {
		return a.IsBilling
	}
	return a.IsShipping
}
