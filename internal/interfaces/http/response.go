package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ecommerce-api/internal/application/dto"
	"github.com/jhoicas/ecommerce-api/internal/domain"
	"github.com/jhoicas/ecommerce-api/pkg/logger"
)

// Códigos máquina del campo "error" del envelope.
const (
	CodeValidation    = "VALIDATION"
	CodeInvalidBody   = "INVALID_BODY"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"
	CodeMissingToken  = "MISSING_TOKEN"
	CodeInvalidToken  = "INVALID_TOKEN"
	CodeMissingRole   = "MISSING_ROLE"
	CodeOrderFailed   = "ORDER_CREATION_FAILED"
	CodeInsufficient  = "INSUFFICIENT_STOCK"
	CodeInternal      = "INTERNAL"
	CodeUnavailable   = "UNAVAILABLE"
	CodeBadSignature  = "INVALID_SIGNATURE"
	CodeRouteNotFound = "ROUTE_NOT_FOUND"
)

func ok(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(dto.SuccessResponse{Success: true, Data: data})
}

func fail(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Success: false, Message: message, Error: code})
}

// respondError traduce errores de dominio a status + envelope. Los errores no tipados salen
// como 500 con un mensaje genérico; el detalle solo va al log.
func respondError(c *fiber.Ctx, log *logger.Logger, err error) error {
	var (
		verr     *domain.ValidationError
		nf       *domain.NotFoundError
		conflict *domain.ConflictError
		failed   *domain.OrderCreationFailed
	)
	switch {
	case errors.As(err, &failed):
		// dentro de la transacción ya revertida: stock insuficiente sigue siendo 409
		if errors.Is(err, domain.ErrInsufficientStock) {
			return fail(c, fiber.StatusConflict, CodeInsufficient, "stock insuficiente para completar el pedido")
		}
		logFor(c, log).Error().Err(err).Msg("creación de pedido fallida")
		return fail(c, fiber.StatusInternalServerError, CodeOrderFailed, "no se pudo crear el pedido")
	case errors.As(err, &verr):
		return fail(c, fiber.StatusBadRequest, CodeValidation, verr.Error())
	case errors.As(err, &nf):
		return fail(c, fiber.StatusNotFound, CodeNotFound, nf.Error())
	case errors.As(err, &conflict):
		return fail(c, fiber.StatusConflict, CodeConflict, conflict.Error())
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fail(c, fiber.StatusConflict, CodeConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return fail(c, fiber.StatusBadRequest, CodeValidation, err.Error())
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fail(c, fiber.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return fail(c, fiber.StatusUnauthorized, CodeUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		return fail(c, fiber.StatusForbidden, CodeForbidden, err.Error())
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrInsufficientStock):
		return fail(c, fiber.StatusConflict, CodeConflict, err.Error())
	default:
		logFor(c, log).Error().Err(err).Str("path", c.Path()).Msg("error interno")
		return fail(c, fiber.StatusInternalServerError, CodeInternal, "error interno del servidor")
	}
}

// ErrorHandler manejador global de Fiber: rutas inexistentes, body demasiado grande y panics recuperados.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			switch fe.Code {
			case fiber.StatusNotFound:
				return fail(c, fe.Code, CodeRouteNotFound, "ruta no encontrada")
			case fiber.StatusRequestEntityTooLarge:
				return fail(c, fe.Code, CodeValidation, "el cuerpo supera el tamaño permitido")
			}
			if fe.Code < fiber.StatusInternalServerError {
				return fail(c, fe.Code, CodeInvalidBody, fe.Message)
			}
		}
		return respondError(c, log, err)
	}
}

// parseBody decodifica el JSON del body; responde 400 si no es válido.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fail(c, fiber.StatusBadRequest, CodeInvalidBody, "cuerpo inválido")
	}
	return nil
}

func pageFromQuery(c *fiber.Ctx) dto.PageRequest {
	return dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
}
