package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/ecommerce-api/pkg/logger"
)

// LocalRequestID clave que usa el middleware requestid de Fiber.
const LocalRequestID = "requestid"

// RequestLogger registra cada petición: método, ruta, status, latencia y request id.
func RequestLogger(log *logger.Logger) fiber.Handler {
	log = log.WithComponent("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// el ErrorHandler escribe la respuesta; así el status registrado es el final
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		status := c.Response().StatusCode()

		var ev *zerolog.Event
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = log.Error()
		case status >= fiber.StatusBadRequest:
			ev = log.Warn()
		default:
			ev = log.Info()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("request_id", requestID(c)).
			Str("user_id", GetUserID(c)).
			Msg("request")
		return nil
	}
}

func requestID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRequestID).(string)
	return s
}

// logFor sublogger con el request id de la petición actual.
func logFor(c *fiber.Ctx, log *logger.Logger) *zerolog.Logger {
	var zl zerolog.Logger
	if log != nil {
		zl = log.Zerolog()
	} else {
		zl = zerolog.Nop()
	}
	zl = zl.With().Str("request_id", requestID(c)).Logger()
	return &zl
}
