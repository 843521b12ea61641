package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ecommerce-api/internal/application/auth"
	"github.com/jhoicas/ecommerce-api/internal/domain"
	"github.com/jhoicas/ecommerce-api/internal/domain/entity"
	"github.com/jhoicas/ecommerce-api/pkg/jwt"
	"github.com/jhoicas/ecommerce-api/pkg/logger"
)

// Locals keys para UserID y Role en Fiber.
const (
	LocalUserID = "user_id"
	LocalRole   = "role"
)

// TokenVerifier valida tokens del proveedor de identidad externo.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (auth.ExternalIdentity, error)
}

// IdentityResolver traduce la identidad externa a un usuario local.
type IdentityResolver interface {
	Resolve(ctx context.Context, ext auth.ExternalIdentity) (*entity.User, error)
}

// AuthConfig dependencias del middleware. Verifier y Resolver son opcionales: sin ellos solo
// se aceptan tokens locales.
type AuthConfig struct {
	JWTSecret string
	Verifier  TokenVerifier
	Resolver  IdentityResolver
	// IsUnavailable distingue errores de transporte del verificador (503) de tokens rechazados (401).
	IsUnavailable func(error) bool
	Log           *logger.Logger
}

// AuthMiddleware valida el Bearer Token y carga UserID y Role en c.Locals.
// Primero intenta el JWT local (HS256); si falla y hay proveedor externo, verifica contra su JWKS
// y resuelve el usuario local.
func AuthMiddleware(cfg AuthConfig) fiber.Handler {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	log = log.WithComponent("auth")

	return func(c *fiber.Ctx) error {
		tokenString, code, msg := bearerToken(c)
		if tokenString == "" {
			return fail(c, fiber.StatusUnauthorized, code, msg)
		}

		userID, role, err := jwt.Parse(cfg.JWTSecret, tokenString)
		if err == nil {
			c.Locals(LocalUserID, userID)
			c.Locals(LocalRole, role)
			return c.Next()
		}
		if cfg.Verifier == nil || cfg.Resolver == nil {
			return fail(c, fiber.StatusUnauthorized, CodeInvalidToken, "token inválido o expirado")
		}

		user, err := resolveExternal(c.UserContext(), cfg, tokenString)
		if err != nil {
			var unavailable *upstreamError
			if errors.As(err, &unavailable) {
				log.Error().Err(err).Msg("proveedor de identidad no disponible")
				return fail(c, fiber.StatusServiceUnavailable, CodeUnavailable, "proveedor de identidad no disponible")
			}
			log.Debug().Err(err).Msg("token externo rechazado")
			return fail(c, fiber.StatusUnauthorized, CodeInvalidToken, "token inválido o expirado")
		}
		c.Locals(LocalUserID, user.ID)
		c.Locals(LocalRole, user.Role)
		return c.Next()
	}
}

// RequireRole exige que el rol del token sea uno de roles. Debe ir después de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return fail(c, fiber.StatusUnauthorized, CodeMissingRole, "el token no incluye rol")
		}
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return fail(c, fiber.StatusForbidden, CodeForbidden, "acceso denegado para el rol "+role)
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetRole devuelve el rol del contexto (después del middleware de auth).
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}

func bearerToken(c *fiber.Ctx) (token, code, msg string) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", CodeMissingToken, "Authorization header requerido"
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", CodeInvalidToken, "formato: Bearer <token>"
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", CodeMissingToken, "token vacío"
	}
	return token, "", ""
}

// upstreamError fallo de infraestructura (JWKS inaccesible, DB) al resolver un token externo.
type upstreamError struct{ err error }

func (e *upstreamError) Error() string { return e.err.Error() }
func (e *upstreamError) Unwrap() error { return e.err }

func resolveExternal(ctx context.Context, cfg AuthConfig, token string) (*entity.User, error) {
	ext, err := cfg.Verifier.Verify(ctx, token)
	if err != nil {
		if cfg.IsUnavailable != nil && cfg.IsUnavailable(err) {
			return nil, &upstreamError{err: err}
		}
		return nil, err
	}
	user, err := cfg.Resolver.Resolve(ctx, ext)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return nil, err
		}
		return nil, &upstreamError{err: err}
	}
	return user, nil
}
