package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ecommerce-api/internal/application/auth"
	"github.com/jhoicas/ecommerce-api/internal/application/dto"
	"github.com/jhoicas/ecommerce-api/internal/domain"
	"github.com/jhoicas/ecommerce-api/internal/domain/entity"
	"github.com/jhoicas/ecommerce-api/pkg/logger"
)

// IdentitySyncer sincroniza la identidad externa con el usuario local.
type IdentitySyncer interface {
	Sync(ctx context.Context, ext auth.ExternalIdentity) (*entity.User, error)
}

// AuthHandler maneja registro y login local, y el canje de un token externo por uno local.
type AuthHandler struct {
	uc       *auth.AuthUseCase
	verifier TokenVerifier
	syncer   IdentitySyncer
	log      *logger.Logger
}

// NewAuthHandler construye el handler. verifier y syncer pueden ser nil si no hay proveedor externo.
func NewAuthHandler(uc *auth.AuthUseCase, verifier TokenVerifier, syncer IdentitySyncer, log *logger.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, verifier: verifier, syncer: syncer, log: log}
}

// Register godoc
// @Summary      Registrar usuario local
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "Email, password y nombre"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.RegisterUser(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusCreated, out)
}

// Login godoc
// @Summary      Login con email y password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "Credenciales"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		// no distinguir email inexistente de password incorrecto
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrUnauthorized) {
			return fail(c, fiber.StatusUnauthorized, CodeUnauthorized, "credenciales inválidas")
		}
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// Sync godoc
// @Summary      Canjear token del proveedor externo por token local
// @Description  Verifica el token externo (JWKS), crea o vincula el usuario local y devuelve un JWT local.
// @Tags         auth
// @Produce      json
// @Param        Authorization  header  string  true  "Bearer <token externo>"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/sync [post]
func (h *AuthHandler) Sync(c *fiber.Ctx) error {
	if h.verifier == nil || h.syncer == nil {
		return fail(c, fiber.StatusServiceUnavailable, CodeUnavailable, "proveedor de identidad no configurado")
	}
	token, code, msg := bearerToken(c)
	if token == "" {
		return fail(c, fiber.StatusUnauthorized, code, msg)
	}
	ext, err := h.verifier.Verify(c.UserContext(), token)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, CodeInvalidToken, "token externo inválido")
	}
	user, err := h.syncer.Sync(c.UserContext(), ext)
	if err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.uc.IssueToken(user)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, out)
}
