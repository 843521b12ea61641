package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType forma de calcular el descuento.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Discount código promocional. Value es porcentaje (0-100) o monto fijo según Type.
type Discount struct {
	ID          string
	Code        string
	Description string
	Type        DiscountType
	Value       decimal.Decimal
	MinAmount   decimal.Decimal
	UsageLimit  int // 0 = ilimitado
	UsedCount   int
	StartsAt    *time.Time
	EndsAt      *time.Time
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Amount calcula el descuento aplicable a subtotal, sin superar el subtotal.
func (d *Discount) Amount(subtotal decimal.Decimal) decimal.Decimal {
	var amount decimal.Decimal
	switch d.Type {
	case DiscountPercentage:
		amount = subtotal.Mul(d.Value).Div(decimal.NewFromInt(100)).Round(2)
	default:
		amount = d.Value
	}
	if amount.GreaterThan(subtotal) {
		return subtotal
	}
	return amount
}
