package tracing_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ecommerce-api/internal/infrastructure/tracing"
	"github.com/jhoicas/ecommerce-api/pkg/config"
)

func TestNewProvider_Deshabilitado(t *testing.T) {
	var buf bytes.Buffer
	p, err := tracing.NewProvider(config.TracingConfig{}, "tienda", &buf, nil)
	require.NoError(t, err)

	_, span := p.Tracer("t").Start(context.Background(), "nada")
	assert.False(t, span.SpanContext().IsValid(), "noop no genera ids")
	span.End()
	require.NoError(t, p.Shutdown(context.Background()))
	assert.Zero(t, buf.Len())
}

func TestNewProvider_StdoutExportaAlCerrar(t *testing.T) {
	var buf bytes.Buffer
	p, err := tracing.NewProvider(config.TracingConfig{Enabled: true, Exporter: tracing.ExporterStdout, SampleRatio: 1}, "tienda", &buf, nil)
	require.NoError(t, err)

	_, span := p.Tracer("t").Start(context.Background(), "order.create")
	assert.True(t, span.SpanContext().IsSampled())
	span.End()
	require.NoError(t, p.Shutdown(context.Background()))

	assert.Contains(t, buf.String(), "order.create")
	assert.Contains(t, buf.String(), "tienda")
}

func TestNewProvider_RatioCeroNoMuestrea(t *testing.T) {
	p, err := tracing.NewProvider(config.TracingConfig{Enabled: true, Exporter: tracing.ExporterNone}, "tienda", nil, nil)
	require.NoError(t, err)
	defer p.Shutdown(context.Background())

	_, span := p.Tracer("t").Start(context.Background(), "x")
	defer span.End()
	assert.True(t, span.SpanContext().IsValid())
	assert.False(t, span.SpanContext().IsSampled())
}

func TestNewProvider_ExportadorDesconocido(t *testing.T) {
	_, err := tracing.NewProvider(config.TracingConfig{Enabled: true, Exporter: "zipkin"}, "tienda", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zipkin")
}
