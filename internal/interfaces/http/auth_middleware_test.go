package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ecommerce-api/internal/application/auth"
	"github.com/jhoicas/ecommerce-api/internal/domain/entity"
	apphttp "github.com/jhoicas/ecommerce-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/ecommerce-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "ecommerce-api-test"
	testExpMin    = 60
)

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para parsear el JWT y cargar locals
//   - RequireRole para autorizar el acceso
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(cfg apphttp.AuthConfig, allowedRoles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(cfg),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":      true,
				"role":    apphttp.GetRole(c),
				"user_id": apphttp.GetUserID(c),
			})
		},
	)
	return app
}

func localOnly() apphttp.AuthConfig {
	return apphttp.AuthConfig{JWTSecret: testJWTSecret}
}

// tokenForRole genera un JWT local con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, role, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	assert.False(t, body.Success)
	return body.Error
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	app := buildTestApp(localOnly(), entity.RoleAdmin)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleAdmin))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"admin debe poder acceder a ruta restringida a admin")

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, entity.RoleAdmin, body["role"])
	assert.Equal(t, testUserID, body["user_id"])
}

func TestRequireRole_UserAccedeRutaMultiRol(t *testing.T) {
	app := buildTestApp(localOnly(), entity.RoleAdmin, entity.RoleUser)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleUser))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_UserBloqueadoEnRutaAdmin(t *testing.T) {
	app := buildTestApp(localOnly(), entity.RoleAdmin)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleUser))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode,
		"user no debe poder acceder a ruta restringida a admin")
	assert.Equal(t, apphttp.CodeForbidden, errorCode(t, resp))
}

func TestRequireRole_TokenSinRol_Retorna401(t *testing.T) {
	app := buildTestApp(localOnly(), entity.RoleAdmin)
	resp := doRequest(t, app, tokenForRole(t, ""))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, apphttp.CodeMissingRole, errorCode(t, resp))
}

func TestAuthMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp(localOnly(), entity.RoleAdmin)
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, apphttp.CodeMissingToken, errorCode(t, resp))
}

func TestAuthMiddleware_FormatoInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(localOnly(), entity.RoleAdmin)
	resp := doRequest(t, app, "Token abc")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, apphttp.CodeInvalidToken, errorCode(t, resp))
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(localOnly(), entity.RoleAdmin)
	resp := doRequest(t, app, "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, apphttp.CodeInvalidToken, errorCode(t, resp))
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware: tokens del proveedor externo
// ──────────────────────────────────────────────────────────────────────────────

var errTransport = errors.New("jwks inaccesible")

type fakeVerifier struct {
	tokens map[string]auth.ExternalIdentity
	down   bool
}

func (f fakeVerifier) Verify(_ context.Context, token string) (auth.ExternalIdentity, error) {
	if f.down {
		return auth.ExternalIdentity{}, errTransport
	}
	ext, ok := f.tokens[token]
	if !ok {
		return auth.ExternalIdentity{}, errors.New("firma inválida")
	}
	return ext, nil
}

type fakeResolver struct{ users map[string]*entity.User }

func (f fakeResolver) Resolve(_ context.Context, ext auth.ExternalIdentity) (*entity.User, error) {
	if u, ok := f.users[ext.Subject]; ok {
		return u, nil
	}
	return nil, errors.New("db caída")
}

func externalConfig(down bool) apphttp.AuthConfig {
	return apphttp.AuthConfig{
		JWTSecret: testJWTSecret,
		Verifier: fakeVerifier{
			down: down,
			tokens: map[string]auth.ExternalIdentity{
				"ext-token-admin":    {Subject: "ext-1", Email: "root@example.com"},
				"ext-token-huerfano": {Subject: "ext-404", Email: "x@example.com"},
			},
		},
		Resolver: fakeResolver{users: map[string]*entity.User{
			"ext-1": {ID: "local-1", Role: entity.RoleAdmin},
		}},
		IsUnavailable: func(err error) bool { return errors.Is(err, errTransport) },
	}
}

func TestAuthMiddleware_TokenExternoResuelveUsuarioLocal(t *testing.T) {
	app := buildTestApp(externalConfig(false), entity.RoleAdmin)
	resp := doRequest(t, app, "Bearer ext-token-admin")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "local-1", body["user_id"])
	assert.Equal(t, entity.RoleAdmin, body["role"])
}

func TestAuthMiddleware_TokenLocalTienePrioridad(t *testing.T) {
	app := buildTestApp(externalConfig(true), entity.RoleUser)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleUser))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode, "el token local no consulta el proveedor")
}

func TestAuthMiddleware_TokenExternoRechazado(t *testing.T) {
	app := buildTestApp(externalConfig(false), entity.RoleAdmin)
	resp := doRequest(t, app, "Bearer desconocido")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, apphttp.CodeInvalidToken, errorCode(t, resp))
}

func TestAuthMiddleware_ProveedorCaido_Retorna503(t *testing.T) {
	app := buildTestApp(externalConfig(true), entity.RoleAdmin)
	resp := doRequest(t, app, "Bearer ext-token-admin")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, apphttp.CodeUnavailable, errorCode(t, resp))
}

func TestAuthMiddleware_ResolverFalla_Retorna503(t *testing.T) {
	app := buildTestApp(externalConfig(false), entity.RoleAdmin)
	resp := doRequest(t, app, "Bearer ext-token-huerfano")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
