package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ecommerce-api/internal/application/dto"
	"github.com/jhoicas/ecommerce-api/internal/application/ports"
	"github.com/jhoicas/ecommerce-api/internal/domain"
	"github.com/jhoicas/ecommerce-api/internal/domain/entity"
	"github.com/jhoicas/ecommerce-api/internal/domain/repository"
)

// ProductUseCase casos de uso de catálogo: productos y sus variantes.
// El stock de una variante solo se fija aquí por ajuste absoluto; los pedidos lo descuentan.
type ProductUseCase struct {
	repo         repository.ProductRepository
	variantRepo  repository.VariantRepository
	categoryRepo repository.CategoryRepository
	sanitizer    ports.TextSanitizer
}

// NewProductUseCase construye el caso de uso. sanitizer puede ser nil.
func NewProductUseCase(
	repo repository.ProductRepository,
	variantRepo repository.VariantRepository,
	categoryRepo repository.CategoryRepository,
	sanitizer ports.TextSanitizer,
) *ProductUseCase {
	return &ProductUseCase{repo: repo, variantRepo: variantRepo, categoryRepo: categoryRepo, sanitizer: sanitizer}
}

// Create crea un nuevo producto. Activo por defecto.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "es requerido")
	}
	if in.BasePrice.IsNegative() {
		return nil, domain.NewValidationError("base_price", "no puede ser negativo")
	}
	if err := uc.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		CategoryID:  in.CategoryID,
		Name:        name,
		Description: uc.clean(in.Description),
		BasePrice:   in.BasePrice,
		ImageURL:    in.ImageURL,
		Active:      active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product, nil), nil
}

// GetByID obtiene un producto con sus variantes.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	variants, err := uc.variantRepo.ListByProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product, variants), nil
}

// List lista productos con paginación y filtro opcional de categoría.
func (uc *ProductUseCase) List(ctx context.Context, categoryID string, onlyActive bool, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.repo.List(ctx, repository.ProductFilter{
		CategoryID: categoryID,
		OnlyActive: onlyActive,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p, nil))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Update actualiza un producto.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.CategoryID != nil {
		if err := uc.checkCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = *in.CategoryID
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.NewValidationError("name", "no puede quedar vacío")
		}
		product.Name = name
	}
	if in.Description != nil {
		product.Description = uc.clean(*in.Description)
	}
	if in.BasePrice != nil {
		if in.BasePrice.IsNegative() {
			return nil, domain.NewValidationError("base_price", "no puede ser negativo")
		}
		product.BasePrice = *in.BasePrice
	}
	if in.ImageURL != nil {
		product.ImageURL = *in.ImageURL
	}
	if in.Active != nil {
		product.Active = *in.Active
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product, nil), nil
}

// Delete elimina un producto y sus variantes (cascada en DB).
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.load(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// CreateVariant agrega una variante al producto.
func (uc *ProductUseCase) CreateVariant(ctx context.Context, productID string, in dto.VariantRequest) (*dto.VariantResponse, error) {
	product, err := uc.load(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := validateVariant(in); err != nil {
		return nil, err
	}
	now := time.Now()
	variant := &entity.ProductVariant{
		ID:            uuid.New().String(),
		ProductID:     productID,
		Name:          strings.TrimSpace(in.Name),
		SKU:           strings.TrimSpace(in.SKU),
		Color:         in.Color,
		Size:          in.Size,
		Material:      in.Material,
		PriceModifier: in.PriceModifier,
		StockQuantity: in.StockQuantity,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.variantRepo.Create(ctx, variant); err != nil {
		return nil, err
	}
	resp := toVariantResponse(variant, product.BasePrice)
	return &resp, nil
}

// UpdateVariant reemplaza los datos de una variante, incluido el stock.
func (uc *ProductUseCase) UpdateVariant(ctx context.Context, variantID string, in dto.VariantRequest) (*dto.VariantResponse, error) {
	if err := validateVariant(in); err != nil {
		return nil, err
	}
	variant, product, err := uc.loadVariant(ctx, variantID)
	if err != nil {
		return nil, err
	}
	variant.Name = strings.TrimSpace(in.Name)
	variant.SKU = strings.TrimSpace(in.SKU)
	variant.Color = in.Color
	variant.Size = in.Size
	variant.Material = in.Material
	variant.PriceModifier = in.PriceModifier
	variant.StockQuantity = in.StockQuantity
	variant.UpdatedAt = time.Now()
	if err := uc.variantRepo.Update(ctx, variant); err != nil {
		return nil, err
	}
	resp := toVariantResponse(variant, product.BasePrice)
	return &resp, nil
}

// SetStock fija el stock absoluto de una variante.
func (uc *ProductUseCase) SetStock(ctx context.Context, variantID string, quantity int) (*dto.VariantResponse, error) {
	if quantity < 0 {
		return nil, domain.NewValidationError("stock_quantity", "no puede ser negativo")
	}
	variant, product, err := uc.loadVariant(ctx, variantID)
	if err != nil {
		return nil, err
	}
	if err := uc.variantRepo.SetStock(ctx, variantID, quantity); err != nil {
		return nil, err
	}
	variant.StockQuantity = quantity
	resp := toVariantResponse(variant, product.BasePrice)
	return &resp, nil
}

// DeleteVariant elimina una variante. Las líneas de pedidos previos conservan su variant_id.
func (uc *ProductUseCase) DeleteVariant(ctx context.Context, variantID string) error {
	if _, _, err := uc.loadVariant(ctx, variantID); err != nil {
		return err
	}
	return uc.variantRepo.Delete(ctx, variantID)
}

func (uc *ProductUseCase) load(ctx context.Context, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &domain.NotFoundError{Entity: "producto", ID: id}
	}
	return product, nil
}

func (uc *ProductUseCase) loadVariant(ctx context.Context, id string) (*entity.ProductVariant, *entity.Product, error) {
	variant, err := uc.variantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if variant == nil {
		return nil, nil, &domain.NotFoundError{Entity: "variante", ID: id}
	}
	product, err := uc.load(ctx, variant.ProductID)
	if err != nil {
		return nil, nil, err
	}
	return variant, product, nil
}

func (uc *ProductUseCase) checkCategory(ctx context.Context, categoryID string) error {
	if categoryID == "" {
		return nil
	}
	category, err := uc.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return &domain.NotFoundError{Entity: "categoría", ID: categoryID}
	}
	return nil
}

func (uc *ProductUseCase) clean(s string) string {
	if uc.sanitizer == nil {
		return s
	}
	return uc.sanitizer.Sanitize(s)
}

func validateVariant(in dto.VariantRequest) error {
	if strings.TrimSpace(in.SKU) == "" {
		return domain.NewValidationError("sku", "es requerido")
	}
	if in.StockQuantity < 0 {
		return domain.NewValidationError("stock_quantity", "no puede ser negativo")
	}
	return nil
}

func toProductResponse(p *entity.Product, variants []*entity.ProductVariant) *dto.ProductResponse {
	resp := &dto.ProductResponse{
		ID:          p.ID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Description: p.Description,
		BasePrice:   p.BasePrice,
		ImageURL:    p.ImageURL,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	for _, v := range variants {
		resp.Variants = append(resp.Variants, toVariantResponse(v, p.BasePrice))
	}
	return resp
}

func toVariantResponse(v *entity.ProductVariant, basePrice decimal.Decimal) dto.VariantResponse {
	return dto.VariantResponse{
		ID:            v.ID,
		ProductID:     v.ProductID,
		Name:          v.Name,
		SKU:           v.SKU,
		Color:         v.Color,
		Size:          v.Size,
		Material:      v.Material,
		PriceModifier: v.PriceModifier,
		Price:         basePrice.Add(v.PriceModifier),
		StockQuantity: v.StockQuantity,
	}
}
