package http

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ecommerce-api/internal/application/auth"
	"github.com/jhoicas/ecommerce-api/internal/domain/entity"
	"github.com/jhoicas/ecommerce-api/pkg/logger"
)

// Headers de la firma del webhook del proveedor de identidad.
const (
	HeaderWebhookSignature = "X-Webhook-Signature"
	HeaderWebhookTimestamp = "X-Webhook-Timestamp"
)

// Tipos de evento soportados.
const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

// webhookMaxSkew diferencia máxima aceptada entre el timestamp firmado y el reloj local.
const webhookMaxSkew = 5 * time.Minute

// IdentityEvents operaciones que disparan los eventos del proveedor.
type IdentityEvents interface {
	Sync(ctx context.Context, ext auth.ExternalIdentity) (*entity.User, error)
	Remove(ctx context.Context, subject string) error
}

type webhookEvent struct {
	Type string `json:"type"`
	Data struct {
		ID        string `json:"id"`
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	} `json:"data"`
}

// WebhookHandler recibe eventos de usuario del proveedor de identidad, firmados con HMAC-SHA256
// sobre "<timestamp>.<body>".
type WebhookHandler struct {
	secret []byte
	events IdentityEvents
	log    *logger.Logger
	now    func() time.Time
}

// NewWebhookHandler construye el handler. Con secret vacío todas las peticiones se rechazan.
func NewWebhookHandler(secret string, events IdentityEvents, log *logger.Logger) *WebhookHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &WebhookHandler{secret: []byte(secret), events: events, log: log.WithComponent("webhook"), now: time.Now}
}

// Identity godoc
// @Summary      Webhook de usuarios del proveedor de identidad
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        X-Webhook-Signature  header  string  true  "hex(HMAC-SHA256(secret, timestamp + '.' + body))"
// @Param        X-Webhook-Timestamp  header  string  true  "Unix seconds"
// @Success      200  {object}  dto.SuccessResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/webhooks/identity [post]
func (h *WebhookHandler) Identity(c *fiber.Ctx) error {
	if err := h.verify(c); err != nil {
		h.log.Warn().Err(err).Str("request_id", requestID(c)).Msg("webhook rechazado")
		return fail(c, fiber.StatusUnauthorized, CodeBadSignature, "firma de webhook inválida")
	}

	var evt webhookEvent
	if err := c.App().Config().JSONDecoder(c.Body(), &evt); err != nil {
		return fail(c, fiber.StatusBadRequest, CodeInvalidBody, "cuerpo inválido")
	}
	if evt.Data.ID == "" {
		return fail(c, fiber.StatusBadRequest, CodeValidation, "data.id: es requerido")
	}
	ext := auth.ExternalIdentity{
		Subject:   evt.Data.ID,
		Email:     evt.Data.Email,
		FirstName: evt.Data.FirstName,
		LastName:  evt.Data.LastName,
	}

	ctx := c.UserContext()
	switch evt.Type {
	case EventUserCreated, EventUserUpdated:
		user, err := h.events.Sync(ctx, ext)
		if err != nil {
			return respondError(c, h.log, err)
		}
		h.log.Info().Str("event", evt.Type).Str("user_id", user.ID).Msg("usuario sincronizado")
		return ok(c, fiber.StatusOK, auth.ToUserResponse(user))
	case EventUserDeleted:
		if err := h.events.Remove(ctx, ext.Subject); err != nil {
			return respondError(c, h.log, err)
		}
		h.log.Info().Str("event", evt.Type).Str("subject", ext.Subject).Msg("usuario eliminado")
		return ok(c, fiber.StatusOK, fiber.Map{"deleted": true})
	default:
		h.log.Debug().Str("event", evt.Type).Msg("evento ignorado")
		return ok(c, fiber.StatusOK, fiber.Map{"ignored": true})
	}
}

func (h *WebhookHandler) verify(c *fiber.Ctx) error {
	if len(h.secret) == 0 {
		return errWebhook("secreto no configurado")
	}
	tsHeader := c.Get(HeaderWebhookTimestamp)
	ts, err := strconv.ParseInt(tsHeader, 10, 64)
	if err != nil {
		return errWebhook("timestamp inválido")
	}
	skew := h.now().Sub(time.Unix(ts, 0))
	if skew < 0 {
		skew = -skew
	}
	if skew > webhookMaxSkew {
		return errWebhook("timestamp fuera de ventana")
	}
	got, err := hex.DecodeString(strings.TrimPrefix(c.Get(HeaderWebhookSignature), "sha256="))
	if err != nil || len(got) == 0 {
		return errWebhook("firma ausente o mal formada")
	}
	if !hmac.Equal(got, SignWebhook(h.secret, tsHeader, c.Body())) {
		return errWebhook("firma no coincide")
	}
	return nil
}

// SignWebhook calcula HMAC-SHA256(secret, timestamp + "." + body).
func SignWebhook(secret []byte, timestamp string, body []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	return mac.Sum(nil)
}

type errWebhook string

func (e errWebhook) Error() string { return string(e) }
