package order

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/jhoicas/ecommerce-api/internal/domain"
)

const (
	// DefaultTrackingAttempts intentos aleatorios antes de pasar al formato con timestamp.
	DefaultTrackingAttempts = 10

	trackingPrefix = "TRK"
	trackingMin    = 100000
	trackingMax    = 99999999
)

// TrackingChecker consulta si un número de guía ya está en uso (dentro de la tx del pedido).
type TrackingChecker interface {
	TrackingNumberExists(ctx context.Context, trackingNumber string) (bool, error)
}

// TrackingGenerator genera números de guía "TRK" + 6 a 8 dígitos con reintentos acotados.
type TrackingGenerator struct {
	maxAttempts int
	intn        func(n int) int
	now         func() time.Time
}

// NewTrackingGenerator construye el generador. maxAttempts <= 0 usa DefaultTrackingAttempts.
func NewTrackingGenerator(maxAttempts int) *TrackingGenerator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultTrackingAttempts
	}
	return &TrackingGenerator{maxAttempts: maxAttempts, intn: rand.IntN, now: time.Now}
}

// Generate devuelve un número de guía que no existe según checker.
// Agotados los intentos usa TRK + últimos 8 dígitos del epoch en ms + 2 dígitos aleatorios,
// con una última verificación.
func (g *TrackingGenerator) Generate(ctx context.Context, checker TrackingChecker) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		candidate := fmt.Sprintf("%s%d", trackingPrefix, trackingMin+g.intn(trackingMax-trackingMin+1))
		exists, err := checker.TrackingNumberExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("verificar número de guía: %w", err)
		}
		if !exists {
			return candidate, nil
		}
	}

	ms := g.now().UnixMilli() % 100_000_000
	fallback := fmt.Sprintf("%s%08d%02d", trackingPrefix, ms, g.intn(100))
	exists, err := checker.TrackingNumberExists(ctx, fallback)
	if err != nil {
		return "", fmt.Errorf("verificar número de guía: %w", err)
	}
	if exists {
		return "", &domain.ConflictError{Message: "unable to allocate tracking number"}
	}
	return fallback, nil
}
