package identity_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	jose "github.com/go-jose/go-jose/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ecommerce-api/internal/infrastructure/identity"
)

const (
	testIssuer   = "https://id.example.com"
	testAudience = "ecommerce-api"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

type jwksServer struct {
	*httptest.Server
	hits atomic.Int32
}

func newJWKSServer(t *testing.T, keys ...jose.JSONWebKey) *jwksServer {
	t.Helper()
	s := &jwksServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		_ = json.NewEncoder(w).Encode(jose.JSONWebKeySet{Keys: keys})
	}))
	t.Cleanup(s.Close)
	return s
}

func newRSAKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func publicJWK(key *rsa.PrivateKey, kid string) jose.JSONWebKey {
	return jose.JSONWebKey{Key: &key.PublicKey, KeyID: kid, Algorithm: "RS256", Use: "sig"}
}

func signToken(t *testing.T, key *rsa.PrivateKey, kid string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = kid
	s, err := tok.SignedString(key)
	require.NoError(t, err)
	return s
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":         "ext-42",
		"email":       "Ana@Example.com",
		"given_name":  "Ana",
		"family_name": "Gómez",
		"iss":         testIssuer,
		"aud":         []string{testAudience},
		"exp":         time.Now().Add(time.Hour).Unix(),
		"iat":         time.Now().Unix(),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Verify
// ──────────────────────────────────────────────────────────────────────────────

func TestVerify_TokenValido(t *testing.T) {
	key := newRSAKey(t)
	srv := newJWKSServer(t, publicJWK(key, "key1"))
	v := identity.NewVerifier(identity.NewJWKSCache(srv.URL, srv.Client(), nil), testIssuer, testAudience)

	ext, err := v.Verify(context.Background(), signToken(t, key, "key1", validClaims()))
	require.NoError(t, err)
	assert.Equal(t, "ext-42", ext.Subject)
	assert.Equal(t, "ana@example.com", ext.Email)
	assert.Equal(t, "Ana", ext.FirstName)
	assert.Equal(t, "Gómez", ext.LastName)

	// segunda verificación usa el cache
	_, err = v.Verify(context.Background(), signToken(t, key, "key1", validClaims()))
	require.NoError(t, err)
	assert.Equal(t, int32(1), srv.hits.Load())
}

func TestVerify_NombreCompletoSinGivenName(t *testing.T) {
	key := newRSAKey(t)
	srv := newJWKSServer(t, publicJWK(key, "key1"))
	v := identity.NewVerifier(identity.NewJWKSCache(srv.URL, srv.Client(), nil), "", "")

	c := validClaims()
	delete(c, "given_name")
	delete(c, "family_name")
	c["name"] = "Luis Pérez Díaz"
	ext, err := v.Verify(context.Background(), signToken(t, key, "key1", c))
	require.NoError(t, err)
	assert.Equal(t, "Luis", ext.FirstName)
	assert.Equal(t, "Pérez Díaz", ext.LastName)
}

func TestVerify_Rechazos(t *testing.T) {
	key := newRSAKey(t)
	other := newRSAKey(t)
	srv := newJWKSServer(t, publicJWK(key, "key1"))
	v := identity.NewVerifier(identity.NewJWKSCache(srv.URL, srv.Client(), nil), testIssuer, testAudience)

	cases := map[string]func() string{
		"expirado": func() string {
			c := validClaims()
			c["exp"] = time.Now().Add(-time.Hour).Unix()
			return signToken(t, key, "key1", c)
		},
		"issuer distinto": func() string {
			c := validClaims()
			c["iss"] = "https://otro.example.com"
			return signToken(t, key, "key1", c)
		},
		"audience distinta": func() string {
			c := validClaims()
			c["aud"] = "otra-api"
			return signToken(t, key, "key1", c)
		},
		"firma con otra clave": func() string {
			return signToken(t, other, "key1", validClaims())
		},
		"sin sub": func() string {
			c := validClaims()
			delete(c, "sub")
			return signToken(t, key, "key1", c)
		},
		"HS256": func() string {
			tok := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims())
			tok.Header["kid"] = "key1"
			s, err := tok.SignedString([]byte("secreto"))
			require.NoError(t, err)
			return s
		},
	}
	for name, build := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), build())
			assert.ErrorIs(t, err, identity.ErrInvalidToken)
		})
	}
}

func TestVerify_KidDesconocido(t *testing.T) {
	key := newRSAKey(t)
	srv := newJWKSServer(t, publicJWK(key, "key1"))
	v := identity.NewVerifier(identity.NewJWKSCache(srv.URL, srv.Client(), nil), testIssuer, testAudience)

	_, err := v.Verify(context.Background(), signToken(t, key, "key2", validClaims()))
	require.Error(t, err)
	assert.ErrorIs(t, err, identity.ErrKeyNotFound)
	assert.ErrorIs(t, err, identity.ErrInvalidToken)
}

// ──────────────────────────────────────────────────────────────────────────────
// JWKSCache
// ──────────────────────────────────────────────────────────────────────────────

func TestJWKSCache_ServidorCaido(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cache := identity.NewJWKSCache(srv.URL, srv.Client(), nil)
	_, err := cache.Key(context.Background(), "key1")
	assert.ErrorIs(t, err, identity.ErrJWKSFetchFailed)
}

func TestJWKSCache_RotacionRefresca(t *testing.T) {
	oldKey, newKey := newRSAKey(t), newRSAKey(t)
	var rotated atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		set := jose.JSONWebKeySet{Keys: []jose.JSONWebKey{publicJWK(oldKey, "old")}}
		if rotated.Load() {
			set.Keys = append(set.Keys, publicJWK(newKey, "new"))
		}
		w.Header().Set("Cache-Control", "max-age=3600")
		_ = json.NewEncoder(w).Encode(set)
	}))
	defer srv.Close()

	cache := identity.NewJWKSCache(srv.URL, srv.Client(), nil)
	_, err := cache.Key(context.Background(), "old")
	require.NoError(t, err)

	rotated.Store(true)
	got, err := cache.Key(context.Background(), "new")
	require.NoError(t, err)
	pub, ok := got.(*rsa.PublicKey)
	require.True(t, ok)
	assert.Zero(t, newKey.PublicKey.N.Cmp(pub.N))
}
