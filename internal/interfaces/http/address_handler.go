package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ecommerce-api/internal/application/dto"
	"github.com/jhoicas/ecommerce-api/internal/application/usecase"
	"github.com/jhoicas/ecommerce-api/internal/domain/entity"
	"github.com/jhoicas/ecommerce-api/pkg/logger"
)

// AddressHandler direcciones del usuario autenticado.
type AddressHandler struct {
	uc  *usecase.AddressUseCase
	log *logger.Logger
}

// NewAddressHandler construye el handler.
func NewAddressHandler(uc *usecase.AddressUseCase, log *logger.Logger) *AddressHandler {
	return &AddressHandler{uc: uc, log: log}
}

// List direcciones propias.
func (h *AddressHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetUserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// Create godoc
// @Summary      Agregar dirección
// @Tags         addresses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAddressRequest  true  "Dirección y flags por defecto"
// @Success      201   {object}  dto.AddressResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/addresses [post]
func (h *AddressHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAddressRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusCreated, out)
}

// Update reemplaza los campos de una dirección propia.
func (h *AddressHandler) Update(c *fiber.Ctx) error {
	var in dto.AddressInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// SetDefault godoc
// @Summary      Marcar dirección por defecto
// @Description  Desmarca las demás direcciones del usuario para el rol y marca esta, en una transacción.
// @Tags         addresses
// @Security     Bearer
// @Produce      json
// @Param        id    path   string  true  "ID de la dirección"
// @Param        role  query  string  true  "billing | shipping"
// @Success      200   {object}  dto.AddressResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/addresses/{id}/default [put]
func (h *AddressHandler) SetDefault(c *fiber.Ctx) error {
	role := entity.AddressRole(c.Query("role"))
	out, err := h.uc.SetDefault(c.UserContext(), GetUserID(c), c.Params("id"), role)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, out)
}
