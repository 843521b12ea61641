package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/ecommerce-api/internal/domain"
	"github.com/jhoicas/ecommerce-api/internal/domain/entity"
)

func TestIsUniqueViolation(t *testing.T) {
	wrapped := fmt.Errorf("insert order: %w", &pgconn.PgError{Code: "23505"})
	assert.True(t, isUniqueViolation(wrapped))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("conexión cerrada")))
}

func TestIsForeignKeyViolation(t *testing.T) {
	assert.True(t, isForeignKeyViolation(fmt.Errorf("x: %w", &pgconn.PgError{Code: "23503"})))
	assert.False(t, isForeignKeyViolation(&pgconn.PgError{Code: "23505"}))
}

func TestValidUUID(t *testing.T) {
	assert.True(t, validUUID("6f1c2b1e-8d7a-4c1e-9a51-2b4f3d1e0c9a"))
	assert.False(t, validUUID("5"))
	assert.False(t, validUUID(""))
}

func TestRoleColumn(t *testing.T) {
	col, err := roleColumn(entity.AddressRoleBilling)
	assert.NoError(t, err)
	assert.Equal(t, "is_billing", col)

	col, err = roleColumn(entity.AddressRoleShipping)
	assert.NoError(t, err)
	assert.Equal(t, "is_shipping", col)

	_, err = roleColumn(entity.AddressRole("is_billing = TRUE; --"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNullHelpers(t *testing.T) {
	assert.Nil(t, nullIfEmpty(""))
	v := nullIfEmpty("x")
	if assert.NotNil(t, v) {
		assert.Equal(t, "x", deref(v))
	}
	assert.Equal(t, "", deref(nil))
}
