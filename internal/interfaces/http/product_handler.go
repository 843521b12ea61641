package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ecommerce-api/internal/application/dto"
	"github.com/jhoicas/ecommerce-api/internal/application/usecase"
	"github.com/jhoicas/ecommerce-api/internal/domain/entity"
	"github.com/jhoicas/ecommerce-api/pkg/logger"
)

// ProductHandler productos y variantes. Lectura pública (solo activos), escritura admin.
type ProductHandler struct {
	uc  *usecase.ProductUseCase
	log *logger.Logger
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, log *logger.Logger) *ProductHandler {
	return &ProductHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar productos activos
// @Tags         products
// @Produce      json
// @Param        category_id  query  string  false  "Filtrar por categoría"
// @Param        limit        query  int     false  "Límite"  default(20)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200          {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	return h.list(c, true)
}

// ListAll listado administrativo, incluye productos inactivos.
func (h *ProductHandler) ListAll(c *fiber.Ctx) error {
	return h.list(c, false)
}

func (h *ProductHandler) list(c *fiber.Ctx, onlyActive bool) error {
	out, err := h.uc.List(c.UserContext(), c.Query("category_id"), onlyActive, pageFromQuery(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// GetByID godoc
// @Summary      Obtener producto con sus variantes
// @Tags         products
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	if !out.Active && GetRole(c) != entity.RoleAdmin {
		return fail(c, fiber.StatusNotFound, CodeNotFound, "producto no encontrado")
	}
	return ok(c, fiber.StatusOK, out)
}

// Create godoc
// @Summary      Crear producto (admin)
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusCreated, out)
}

// Update godoc
// @Summary      Actualizar producto (admin)
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, out)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ── Variantes ─────────────────────────────────────────────────────────────────

// CreateVariant alta de variante bajo /products/:id/variants.
func (h *ProductHandler) CreateVariant(c *fiber.Ctx) error {
	var in dto.VariantRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.CreateVariant(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusCreated, out)
}

func (h *ProductHandler) UpdateVariant(c *fiber.Ctx) error {
	var in dto.VariantRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.UpdateVariant(c.UserContext(), c.Params("variantId"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// SetStock godoc
// @Summary      Fijar stock de una variante (admin)
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        variantId  path  string            true  "ID de la variante"
// @Param        body       body  dto.StockRequest  true  "Cantidad absoluta"
// @Success      200        {object}  dto.VariantResponse
// @Router       /api/variants/{variantId}/stock [put]
func (h *ProductHandler) SetStock(c *fiber.Ctx) error {
	var in dto.StockRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.SetStock(c.UserContext(), c.Params("variantId"), in.StockQuantity)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, out)
}

func (h *ProductHandler) DeleteVariant(c *fiber.Ctx) error {
	if err := h.uc.DeleteVariant(c.UserContext(), c.Params("variantId")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
