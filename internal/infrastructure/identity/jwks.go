// Package identity verifica tokens del proveedor de identidad externo (RS256 firmados, JWKS publicado).
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	jose "github.com/go-jose/go-jose/v4"
	"github.com/golang-jwt/jwt/v5"

	"github.com/jhoicas/ecommerce-api/pkg/logger"
)

var (
	// ErrKeyNotFound el kid del token no está en el JWKS ni tras refrescar.
	ErrKeyNotFound = errors.New("identity: clave jwks no encontrada")
	// ErrJWKSFetchFailed error de transporte o decodificación al refrescar el JWKS.
	ErrJWKSFetchFailed = errors.New("identity: no se pudo obtener el jwks")
)

const (
	defaultRefreshInterval = 15 * time.Minute
	defaultFetchTimeout    = 5 * time.Second
)

// JWKSCache descarga y cachea las claves públicas. Respeta Cache-Control max-age.
type JWKSCache struct {
	url    string
	client *http.Client
	log    *logger.Logger
	now    func() time.Time

	refreshInterval time.Duration

	mu     sync.RWMutex
	keys   map[string]jose.JSONWebKey
	expiry time.Time

	refreshMu sync.Mutex
}

// NewJWKSCache construye el cache para url. client y log pueden ser nil.
func NewJWKSCache(url string, client *http.Client, log *logger.Logger) *JWKSCache {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &JWKSCache{
		url:             url,
		client:          client,
		log:             log.WithComponent("jwks"),
		now:             time.Now,
		refreshInterval: defaultRefreshInterval,
	}
}

// Keyfunc adapta el cache a jwt.Keyfunc: exige kid y RS256.
func (c *JWKSCache) Keyfunc(ctx context.Context) jwt.Keyfunc {
	return func(token *jwt.Token) (any, error) {
		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("identity: token sin header kid")
		}
		if token.Method == nil || token.Method.Alg() != jwt.SigningMethodRS256.Alg() {
			return nil, fmt.Errorf("identity: método de firma inesperado %v", token.Header["alg"])
		}
		return c.Key(ctx, kid)
	}
}

// Key devuelve la clave pública de kid, refrescando si el cache expiró o el kid es nuevo (rotación).
func (c *JWKSCache) Key(ctx context.Context, kid string) (any, error) {
	if c.expired(c.now()) {
		if err := c.refresh(ctx); err != nil {
			return nil, err
		}
	}
	if key, ok := c.cached(kid); ok {
		return key, nil
	}
	if err := c.refresh(ctx); err != nil {
		return nil, err
	}
	if key, ok := c.cached(kid); ok {
		return key, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, kid)
}

func (c *JWKSCache) cached(kid string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	jwk, ok := c.keys[kid]
	if !ok {
		return nil, false
	}
	return jwk.Key, true
}

func (c *JWKSCache) expired(now time.Time) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.keys) == 0 || !now.Before(c.expiry)
}

func (c *JWKSCache) refresh(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultFetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrJWKSFetchFailed, err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrJWKSFetchFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrJWKSFetchFailed, resp.StatusCode)
	}

	var set jose.JSONWebKeySet
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrJWKSFetchFailed, err)
	}
	keys := make(map[string]jose.JSONWebKey, len(set.Keys))
	for _, jwk := range set.Keys {
		if jwk.KeyID == "" || !jwk.Valid() {
			continue
		}
		keys[jwk.KeyID] = jwk
	}
	if len(keys) == 0 {
		return fmt.Errorf("%w: jwks sin claves", ErrJWKSFetchFailed)
	}

	validity := c.refreshInterval
	if maxAge := parseMaxAge(resp.Header.Get("Cache-Control")); maxAge > 0 {
		validity = maxAge
	}

	c.mu.Lock()
	c.keys = keys
	c.expiry = c.now().Add(validity)
	c.mu.Unlock()

	c.log.Debug().Int("keys", len(keys)).Dur("valid_for", validity).Msg("jwks actualizado")
	return nil
}

// parseMaxAge extrae max-age de un header Cache-Control; 0 si no hay.
func parseMaxAge(header string) time.Duration {
	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		if !strings.HasPrefix(strings.ToLower(part), "max-age=") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(part[len("max-age="):]))
		if err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return 0
}
