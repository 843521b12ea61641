package order

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ecommerce-api/internal/domain"
)

var trackingPattern = regexp.MustCompile(`^TRK\d{6,10}$`)

// setChecker marca como ocupados los números del set y cuenta las consultas.
type setChecker struct {
	taken map[string]bool
	calls int
	err   error
}

func (c *setChecker) TrackingNumberExists(_ context.Context, n string) (bool, error) {
	c.calls++
	if c.err != nil {
		return false, c.err
	}
	return c.taken[n], nil
}

// sequence devuelve los valores en orden; se usa como intn determinista.
func sequence(values ...int) func(int) int {
	i := 0
	return func(int) int {
		v := values[i%len(values)]
		i++
		return v
	}
}

func TestGenerate_PrimerIntentoLibre(t *testing.T) {
	g := &TrackingGenerator{maxAttempts: 10, intn: sequence(0), now: time.Now}
	checker := &setChecker{taken: map[string]bool{}}

	n, err := g.Generate(context.Background(), checker)
	require.NoError(t, err)
	assert.Equal(t, "TRK100000", n)
	assert.Equal(t, 1, checker.calls)
}

func TestGenerate_ReintentaHastaEncontrarLibre(t *testing.T) {
	g := &TrackingGenerator{maxAttempts: 10, intn: sequence(0, 0, 5), now: time.Now}
	checker := &setChecker{taken: map[string]bool{"TRK100000": true}}

	n, err := g.Generate(context.Background(), checker)
	require.NoError(t, err)
	assert.Equal(t, "TRK100005", n)
	assert.Equal(t, 3, checker.calls)
}

func TestGenerate_FallbackConTimestamp(t *testing.T) {
	now := time.UnixMilli(1_700_000_123_456)
	g := &TrackingGenerator{maxAttempts: 3, intn: sequence(0, 0, 0, 7), now: func() time.Time { return now }}
	checker := &setChecker{taken: map[string]bool{"TRK100000": true}}

	n, err := g.Generate(context.Background(), checker)
	require.NoError(t, err)
	assert.Equal(t, "TRK0012345607", n, "últimos 8 dígitos de epoch ms + sufijo de 2 dígitos")
	assert.Equal(t, 4, checker.calls, "3 intentos aleatorios + verificación final")
	assert.Regexp(t, trackingPattern, n)
}

func TestGenerate_FallbackOcupadoEsConflicto(t *testing.T) {
	now := time.UnixMilli(1_700_000_123_456)
	g := &TrackingGenerator{maxAttempts: 2, intn: sequence(0, 0, 7), now: func() time.Time { return now }}
	checker := &setChecker{taken: map[string]bool{"TRK100000": true, "TRK0012345607": true}}

	_, err := g.Generate(context.Background(), checker)
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "unable to allocate tracking number", conflict.Message)
}

func TestGenerate_ErrorDelChecker(t *testing.T) {
	g := NewTrackingGenerator(0)
	boom := errors.New("db caída")

	_, err := g.Generate(context.Background(), &setChecker{err: boom})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, DefaultTrackingAttempts, g.maxAttempts)
}

func TestGenerate_FormatoAleatorio(t *testing.T) {
	g := NewTrackingGenerator(10)
	checker := &setChecker{taken: map[string]bool{}}
	for i := 0; i < 500; i++ {
		n, err := g.Generate(context.Background(), checker)
		require.NoError(t, err)
		assert.Regexp(t, trackingPattern, n)
	}
}
