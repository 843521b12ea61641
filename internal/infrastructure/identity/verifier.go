package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jhoicas/ecommerce-api/internal/application/auth"
)

// ErrInvalidToken token externo rechazado (firma, expiración, issuer o audience).
var ErrInvalidToken = errors.New("identity: token inválido")

// claims campos que el proveedor incluye en el id token.
type claims struct {
	jwt.RegisteredClaims
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Name       string `json:"name"`
}

// Verifier valida tokens RS256 del proveedor y devuelve la identidad externa.
type Verifier struct {
	keys     *JWKSCache
	issuer   string
	audience string
	leeway   time.Duration
}

// NewVerifier construye el verificador. issuer y audience vacíos no se validan.
func NewVerifier(keys *JWKSCache, issuer, audience string) *Verifier {
	return &Verifier{keys: keys, issuer: issuer, audience: audience, leeway: 30 * time.Second}
}

// Verify valida firma y claims y mapea a auth.ExternalIdentity.
// Los errores de red del JWKS se devuelven envueltos en ErrJWKSFetchFailed.
func (v *Verifier) Verify(ctx context.Context, token string) (auth.ExternalIdentity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	var c claims
	if _, err := jwt.ParseWithClaims(token, &c, v.keys.Keyfunc(ctx), opts...); err != nil {
		if errors.Is(err, ErrJWKSFetchFailed) {
			return auth.ExternalIdentity{}, err
		}
		return auth.ExternalIdentity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if c.Subject == "" {
		return auth.ExternalIdentity{}, fmt.Errorf("%w: sin sub", ErrInvalidToken)
	}

	first, last := c.GivenName, c.FamilyName
	if first == "" && last == "" && c.Name != "" {
		first, last, _ = strings.Cut(c.Name, " ")
	}
	return auth.ExternalIdentity{
		Subject:   c.Subject,
		Email:     strings.ToLower(strings.TrimSpace(c.Email)),
		FirstName: first,
		LastName:  last,
	}, nil
}
