// Package order contiene las reglas puras del ciclo de vida de un pedido.
package order

import (
	"github.com/jhoicas/ecommerce-api/internal/domain"
	"github.com/jhoicas/ecommerce-api/internal/domain/entity"
)

// transitions flujo normal del pedido. Los estados sin entrada son terminales.
var transitions = map[entity.OrderStatus][]entity.OrderStatus{
	entity.OrderStatusPending:    {entity.OrderStatusProcessing, entity.OrderStatusCancelled},
	entity.OrderStatusProcessing: {entity.OrderStatusShipped, entity.OrderStatusCancelled},
	entity.OrderStatusShipped:    {entity.OrderStatusDelivered},
}

// ParseStatus valida s contra la enumeración de estados.
func ParseStatus(s string) (entity.OrderStatus, error) {
	for _, st := range entity.OrderStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", domain.NewValidationError("status", "estado inválido %q; valores permitidos: %s",
		s, domain.JoinOptions(entity.OrderStatuses))
}

// CanTransition indica si from -> to sigue el flujo normal.
func CanTransition(from, to entity.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanUserCancel indica si el dueño del pedido puede cancelarlo por sí mismo.
func CanUserCancel(current entity.OrderStatus) bool {
	return CanTransition(current, entity.OrderStatusCancelled)
}

// UserCancellableStatuses estados desde los que el dueño puede cancelar.
func UserCancellableStatuses() []entity.OrderStatus {
	var out []entity.OrderStatus
	for _, st := range entity.OrderStatuses {
		if CanUserCancel(st) {
			out = append(out, st)
		}
	}
	return out
}

// CheckAdminTransition política para cambios hechos por un administrador.
// Hoy es permisiva: cualquier estado válido se acepta desde cualquier estado.
func CheckAdminTransition(_, to entity.OrderStatus) error {
	_, err := ParseStatus(string(to))
	return err
}
