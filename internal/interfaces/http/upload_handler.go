package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ecommerce-api/internal/application/usecase"
	"github.com/jhoicas/ecommerce-api/pkg/logger"
)

// UploadHandler subida de imágenes de catálogo (admin).
type UploadHandler struct {
	uc  *usecase.UploadUseCase
	log *logger.Logger
}

// NewUploadHandler construye el handler.
func NewUploadHandler(uc *usecase.UploadUseCase, log *logger.Logger) *UploadHandler {
	return &UploadHandler{uc: uc, log: log}
}

// Upload godoc
// @Summary      Subir imagen (admin)
// @Tags         uploads
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Imagen jpeg, png, gif o webp"
// @Success      201   {object}  dto.UploadResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/uploads [post]
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, CodeValidation, "file: campo multipart requerido")
	}
	f, err := fh.Open()
	if err != nil {
		return respondError(c, h.log, err)
	}
	defer f.Close()

	out, err := h.uc.UploadImage(c.UserContext(), fh.Size, f)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusCreated, out)
}
