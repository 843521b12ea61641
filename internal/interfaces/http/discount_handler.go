package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ecommerce-api/internal/application/dto"
	"github.com/jhoicas/ecommerce-api/internal/application/usecase"
	"github.com/jhoicas/ecommerce-api/pkg/logger"
)

// DiscountHandler códigos de descuento: validación pública y CRUD admin.
type DiscountHandler struct {
	uc  *usecase.DiscountUseCase
	log *logger.Logger
}

// NewDiscountHandler construye el handler.
func NewDiscountHandler(uc *usecase.DiscountUseCase, log *logger.Logger) *DiscountHandler {
	return &DiscountHandler{uc: uc, log: log}
}

// Validate godoc
// @Summary      Validar código de descuento
// @Description  Revisa vigencia, límite de uso y monto mínimo; devuelve el descuento calculado.
// @Tags         discounts
// @Produce      json
// @Param        code      query  string  true  "Código"
// @Param        subtotal  query  string  true  "Subtotal del carrito"
// @Success      200       {object}  dto.DiscountValidationResponse
// @Failure      400       {object}  dto.ErrorResponse
// @Failure      404       {object}  dto.ErrorResponse
// @Router       /api/discounts/validate [get]
func (h *DiscountHandler) Validate(c *fiber.Ctx) error {
	subtotal, err := decimal.NewFromString(c.Query("subtotal", "0"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, CodeValidation, "subtotal: no es un número válido")
	}
	out, err := h.uc.Validate(c.UserContext(), c.Query("code"), subtotal)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, out)
}

func (h *DiscountHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, out)
}

func (h *DiscountHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, out)
}

func (h *DiscountHandler) Create(c *fiber.Ctx) error {
	var in dto.DiscountRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusCreated, out)
}

func (h *DiscountHandler) Update(c *fiber.Ctx) error {
	var in dto.DiscountRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, out)
}

func (h *DiscountHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
