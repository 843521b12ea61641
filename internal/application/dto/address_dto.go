package dto

import (
	"strings"
	"time"

	"github.com/jhoicas/ecommerce-api/internal/domain"
	"github.com/jhoicas/ecommerce-api/internal/domain/entity"
)

// AddressInput dirección estructurada recibida en el body.
type AddressInput struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

// Fields convierte a los campos de dominio sin normalizar.
func (a AddressInput) Fields() entity.AddressFields {
	return entity.AddressFields{
		Street:     a.Street,
		City:       a.City,
		State:      a.State,
		Country:    a.Country,
		PostalCode: a.PostalCode,
	}
}

// Validate exige los cinco campos no vacíos. field prefija el nombre en el error.
func (a AddressInput) Validate(field string) error {
	checks := []struct{ name, value string }{
		{"street", a.Street},
		{"city", a.City},
		{"state", a.State},
		{"country", a.Country},
		{"postal_code", a.PostalCode},
	}
	for _, c := range checks {
		if strings.TrimSpace(c.value) == "" {
			return domain.NewValidationError(field+"."+c.name, "es requerido")
		}
	}
	return nil
}

// CreateAddressRequest alta de dirección desde el perfil.
type CreateAddressRequest struct {
	AddressInput
	IsBilling  bool `json:"is_billing"`
	IsShipping bool `json:"is_shipping"`
}

// AddressResponse salida de una dirección.
type AddressResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Street     string    `json:"street"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	Country    string    `json:"country"`
	PostalCode string    `json:"postal_code"`
	IsBilling  bool      `json:"is_billing"`
	IsShipping bool      `json:"is_shipping"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AddressView dirección embebida en un pedido.
type AddressView struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

// NewAddressView construye la vista desde los campos de dominio.
func NewAddressView(f entity.AddressFields) AddressView {
	return AddressView{Street: f.Street, City: f.City, State: f.State, Country: f.Country, PostalCode: f.PostalCode}
}
