package http

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ecommerce-api/internal/application/auth"
	"github.com/jhoicas/ecommerce-api/internal/application/dto"
	"github.com/jhoicas/ecommerce-api/internal/domain/entity"
)

const webhookSecret = "whsec_test"

type fakeEvents struct {
	synced  []auth.ExternalIdentity
	removed []string
}

func (f *fakeEvents) Sync(_ context.Context, ext auth.ExternalIdentity) (*entity.User, error) {
	f.synced = append(f.synced, ext)
	return &entity.User{ID: "local-" + ext.Subject, Email: ext.Email, Role: entity.RoleUser}, nil
}

func (f *fakeEvents) Remove(_ context.Context, subject string) error {
	f.removed = append(f.removed, subject)
	return nil
}

var webhookNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newWebhookApp(secret string, events *fakeEvents) *fiber.App {
	h := NewWebhookHandler(secret, events, nil)
	h.now = func() time.Time { return webhookNow }
	app := fiber.New()
	app.Post("/webhook", h.Identity)
	return app
}

func postWebhook(t *testing.T, app *fiber.App, body string, ts time.Time, signature string) (int, dto.ErrorResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderWebhookTimestamp, strconv.FormatInt(ts.Unix(), 10))
	req.Header.Set(HeaderWebhookSignature, signature)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func sign(secret, body string, ts time.Time) string {
	return "sha256=" + hex.EncodeToString(SignWebhook([]byte(secret), strconv.FormatInt(ts.Unix(), 10), []byte(body)))
}

func TestWebhook_UserCreatedSincroniza(t *testing.T) {
	events := &fakeEvents{}
	app := newWebhookApp(webhookSecret, events)

	body := `{"type":"user.created","data":{"id":"ext_1","email":"ana@example.com","first_name":"Ana","last_name":"Gómez"}}`
	status, out := postWebhook(t, app, body, webhookNow, sign(webhookSecret, body, webhookNow))

	require.Equal(t, http.StatusOK, status)
	assert.True(t, out.Success)
	require.Len(t, events.synced, 1)
	assert.Equal(t, auth.ExternalIdentity{Subject: "ext_1", Email: "ana@example.com", FirstName: "Ana", LastName: "Gómez"}, events.synced[0])
}

func TestWebhook_UserDeletedElimina(t *testing.T) {
	events := &fakeEvents{}
	app := newWebhookApp(webhookSecret, events)

	body := `{"type":"user.deleted","data":{"id":"ext_9"}}`
	// firma sin prefijo también es válida
	sig := strings.TrimPrefix(sign(webhookSecret, body, webhookNow), "sha256=")
	status, _ := postWebhook(t, app, body, webhookNow.Add(-time.Minute), sig)
	assert.Equal(t, http.StatusUnauthorized, status, "timestamp distinto al firmado")

	status, _ = postWebhook(t, app, body, webhookNow, sig)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"ext_9"}, events.removed)
}

func TestWebhook_Rechazos(t *testing.T) {
	body := `{"type":"user.updated","data":{"id":"ext_1"}}`
	stale := webhookNow.Add(-10 * time.Minute)

	cases := []struct {
		name   string
		secret string
		ts     time.Time
		sig    string
	}{
		{"firma de otro secreto", webhookSecret, webhookNow, sign("otro", body, webhookNow)},
		{"firma no hex", webhookSecret, webhookNow, "zz"},
		{"sin firma", webhookSecret, webhookNow, ""},
		{"timestamp viejo", webhookSecret, stale, sign(webhookSecret, body, stale)},
		{"secreto no configurado", "", webhookNow, sign("", body, webhookNow)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			events := &fakeEvents{}
			status, out := postWebhook(t, newWebhookApp(tc.secret, events), body, tc.ts, tc.sig)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, CodeBadSignature, out.Error)
			assert.Empty(t, events.synced)
		})
	}
}

func TestWebhook_EventoDesconocidoIgnorado(t *testing.T) {
	events := &fakeEvents{}
	app := newWebhookApp(webhookSecret, events)

	body := `{"type":"session.created","data":{"id":"ext_1"}}`
	status, _ := postWebhook(t, app, body, webhookNow, sign(webhookSecret, body, webhookNow))
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, events.synced)
	assert.Empty(t, events.removed)
}

func TestWebhook_SinDataID(t *testing.T) {
	app := newWebhookApp(webhookSecret, &fakeEvents{})

	body := `{"type":"user.created","data":{}}`
	status, out := postWebhook(t, app, body, webhookNow, sign(webhookSecret, body, webhookNow))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, CodeValidation, out.Error)
}
