package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ecommerce-api/internal/application/dto"
	"github.com/jhoicas/ecommerce-api/internal/application/usecase"
	"github.com/jhoicas/ecommerce-api/pkg/logger"
)

// SettingHandler configuración de la tienda (clave/valor).
type SettingHandler struct {
	uc  *usecase.SettingUseCase
	log *logger.Logger
}

// NewSettingHandler construye el handler.
func NewSettingHandler(uc *usecase.SettingUseCase, log *logger.Logger) *SettingHandler {
	return &SettingHandler{uc: uc, log: log}
}

func (h *SettingHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, out)
}

func (h *SettingHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("key"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// Set godoc
// @Summary      Crear o reemplazar una clave (admin)
// @Description  El valor se sanitiza (HTML permitido: formato básico).
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        key   path  string              true  "Clave"
// @Param        body  body  dto.SettingRequest  true  "Valor"
// @Success      200   {object}  dto.SettingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/settings/{key} [put]
func (h *SettingHandler) Set(c *fiber.Ctx) error {
	var in dto.SettingRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Set(c.UserContext(), c.Params("key"), in.Value)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, out)
}

func (h *SettingHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("key")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
