package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ecommerce-api/internal/application/dto"
	"github.com/jhoicas/ecommerce-api/internal/domain"
	"github.com/jhoicas/ecommerce-api/internal/domain/entity"
	"github.com/jhoicas/ecommerce-api/internal/domain/repository"
)

var hundred = decimal.NewFromInt(100)

// DiscountUseCase códigos promocionales: CRUD administrativo y validación pública.
type DiscountUseCase struct {
	repo repository.DiscountRepository
	now  func() time.Time
}

// NewDiscountUseCase construye el caso de uso.
func NewDiscountUseCase(repo repository.DiscountRepository) *DiscountUseCase {
	return &DiscountUseCase{repo: repo, now: time.Now}
}

// Create crea un código. Los códigos se guardan en mayúsculas.
func (uc *DiscountUseCase) Create(ctx context.Context, in dto.DiscountRequest) (*dto.DiscountResponse, error) {
	if err := validateDiscount(in); err != nil {
		return nil, err
	}
	code := normalizeCode(in.Code)
	existing, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &domain.ConflictError{Message: "ya existe el código " + code}
	}
	now := uc.now()
	discount := &entity.Discount{ID: uuid.New().String(), CreatedAt: now}
	applyDiscount(discount, in, now)
	if err := uc.repo.Create(ctx, discount); err != nil {
		return nil, err
	}
	return toDiscountResponse(discount), nil
}

// GetByID obtiene un descuento por ID.
func (uc *DiscountUseCase) GetByID(ctx context.Context, id string) (*dto.DiscountResponse, error) {
	discount, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDiscountResponse(discount), nil
}

// List todos los descuentos.
func (uc *DiscountUseCase) List(ctx context.Context) ([]dto.DiscountResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DiscountResponse, 0, len(list))
	for _, d := range list {
		out = append(out, *toDiscountResponse(d))
	}
	return out, nil
}

// Update reemplaza la definición de un descuento. UsedCount se conserva.
func (uc *DiscountUseCase) Update(ctx context.Context, id string, in dto.DiscountRequest) (*dto.DiscountResponse, error) {
	if err := validateDiscount(in); err != nil {
		return nil, err
	}
	discount, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	code := normalizeCode(in.Code)
	if code != discount.Code {
		existing, err := uc.repo.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, &domain.ConflictError{Message: "ya existe el código " + code}
		}
	}
	applyDiscount(discount, in, uc.now())
	if err := uc.repo.Update(ctx, discount); err != nil {
		return nil, err
	}
	return toDiscountResponse(discount), nil
}

// Delete elimina un descuento.
func (uc *DiscountUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.load(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// Validate comprueba que el código sea aplicable a subtotal y calcula el descuento.
// Reglas: activo, dentro de la ventana de fechas, con usos disponibles y subtotal >= mínimo.
func (uc *DiscountUseCase) Validate(ctx context.Context, code string, subtotal decimal.Decimal) (*dto.DiscountValidationResponse, error) {
	code = normalizeCode(code)
	if code == "" {
		return nil, domain.NewValidationError("code", "es requerido")
	}
	if subtotal.IsNegative() {
		return nil, domain.NewValidationError("subtotal", "no puede ser negativo")
	}
	discount, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if discount == nil {
		return nil, &domain.NotFoundError{Entity: "código de descuento", ID: code}
	}
	now := uc.now()
	switch {
	case !discount.Active:
		return nil, domain.NewValidationError("code", "el código no está activo")
	case discount.StartsAt != nil && now.Before(*discount.StartsAt):
		return nil, domain.NewValidationError("code", "el código aún no está vigente")
	case discount.EndsAt != nil && now.After(*discount.EndsAt):
		return nil, domain.NewValidationError("code", "el código expiró")
	case discount.UsageLimit > 0 && discount.UsedCount >= discount.UsageLimit:
		return nil, domain.NewValidationError("code", "el código alcanzó su límite de usos")
	case subtotal.LessThan(discount.MinAmount):
		return nil, domain.NewValidationError("subtotal", "el mínimo para este código es %s", discount.MinAmount.StringFixed(2))
	}
	amount := discount.Amount(subtotal)
	return &dto.DiscountValidationResponse{
		Code:     discount.Code,
		Type:     string(discount.Type),
		Value:    discount.Value,
		Discount: amount,
		Total:    subtotal.Sub(amount),
	}, nil
}

func (uc *DiscountUseCase) load(ctx context.Context, id string) (*entity.Discount, error) {
	discount, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if discount == nil {
		return nil, &domain.NotFoundError{Entity: "descuento", ID: id}
	}
	return discount, nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func validateDiscount(in dto.DiscountRequest) error {
	if normalizeCode(in.Code) == "" {
		return domain.NewValidationError("code", "es requerido")
	}
	switch entity.DiscountType(in.Type) {
	case entity.DiscountPercentage:
		if in.Value.LessThanOrEqual(decimal.Zero) || in.Value.GreaterThan(hundred) {
			return domain.NewValidationError("value", "el porcentaje debe estar entre 0 y 100")
		}
	case entity.DiscountFixed:
		if in.Value.LessThanOrEqual(decimal.Zero) {
			return domain.NewValidationError("value", "debe ser mayor que cero")
		}
	default:
		return domain.NewValidationError("type", "tipo inválido %q; valores permitidos: %s, %s",
			in.Type, entity.DiscountPercentage, entity.DiscountFixed)
	}
	if in.MinAmount.IsNegative() {
		return domain.NewValidationError("min_amount", "no puede ser negativo")
	}
	if in.UsageLimit < 0 {
		return domain.NewValidationError("usage_limit", "no puede ser negativo")
	}
	if in.StartsAt != nil && in.EndsAt != nil && in.EndsAt.Before(*in.StartsAt) {
		return domain.NewValidationError("ends_at", "debe ser posterior a starts_at")
	}
	return nil
}

func applyDiscount(d *entity.Discount, in dto.DiscountRequest, now time.Time) {
	d.Code = normalizeCode(in.Code)
	d.Description = in.Description
	d.Type = entity.DiscountType(in.Type)
	d.Value = in.Value
	d.MinAmount = in.MinAmount
	d.UsageLimit = in.UsageLimit
	d.StartsAt = in.StartsAt
	d.EndsAt = in.EndsAt
	d.Active = true
	if in.Active != nil {
		d.Active = *in.Active
	}
	d.UpdatedAt = now
}

func toDiscountResponse(d *entity.Discount) *dto.DiscountResponse {
	return &dto.DiscountResponse{
		ID:          d.ID,
		Code:        d.Code,
		Description: d.Description,
		Type:        string(d.Type),
		Value:       d.Value,
		MinAmount:   d.MinAmount,
		UsageLimit:  d.UsageLimit,
		UsedCount:   d.UsedCount,
		StartsAt:    d.StartsAt,
		EndsAt:      d.EndsAt,
		Active:      d.Active,
	}
}
