package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/ecommerce-api/internal/domain"
)

func TestTypedErrors_UnwrapASentinelas(t *testing.T) {
	assert.ErrorIs(t, domain.NewValidationError("items", "vacío"), domain.ErrInvalidInput)
	assert.ErrorIs(t, &domain.NotFoundError{Entity: "usuario", ID: "u1"}, domain.ErrNotFound)
	assert.ErrorIs(t, &domain.ConflictError{Message: "x"}, domain.ErrConflict)
}

func TestOrderCreationFailed_ConservaCausa(t *testing.T) {
	cause := &domain.ConflictError{Message: "unable to allocate tracking number"}
	err := fmt.Errorf("handler: %w", &domain.OrderCreationFailed{Cause: cause})

	var failed *domain.OrderCreationFailed
	assert.True(t, errors.As(err, &failed))
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Contains(t, err.Error(), "unable to allocate tracking number")
}

func TestValidationError_Mensaje(t *testing.T) {
	assert.Equal(t, "quantity: debe ser mayor que cero", domain.NewValidationError("quantity", "debe ser mayor que cero").Error())
	assert.Equal(t, "sin campo", domain.NewValidationError("", "sin campo").Error())
}
