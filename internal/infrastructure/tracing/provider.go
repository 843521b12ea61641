// Package tracing arma el TracerProvider de OpenTelemetry a partir de la configuración.
package tracing

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/jhoicas/ecommerce-api/pkg/config"
	"github.com/jhoicas/ecommerce-api/pkg/logger"
)

// Exportadores soportados.
const (
	ExporterStdout = "stdout"
	ExporterNone   = "none"
)

// Provider TracerProvider de la aplicación con su cierre.
type Provider struct {
	trace.TracerProvider
	shutdown func(context.Context) error
}

// NewProvider construye el provider del SDK. Deshabilitado devuelve uno noop.
// w recibe los spans cuando el exportador es stdout.
func NewProvider(cfg config.TracingConfig, serviceName string, w io.Writer, log *logger.Logger) (*Provider, error) {
	if log == nil {
		log = logger.Nop()
	}
	if !cfg.Enabled {
		return &Provider{TracerProvider: noop.NewTracerProvider(), shutdown: func(context.Context) error { return nil }}, nil
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", serviceName))),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	}
	switch cfg.Exporter {
	case ExporterStdout:
		exp, err := stdouttrace.New(stdouttrace.WithWriter(w))
		if err != nil {
			return nil, fmt.Errorf("tracing: exportador stdout: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exp))
	case ExporterNone:
	default:
		return nil, fmt.Errorf("tracing: exportador desconocido %q", cfg.Exporter)
	}

	tp := sdktrace.NewTracerProvider(opts...)
	log.Info().
		Str("exporter", cfg.Exporter).
		Float64("sample_ratio", cfg.SampleRatio).
		Msg("trazas habilitadas")
	return &Provider{TracerProvider: tp, shutdown: tp.Shutdown}, nil
}

// SetGlobal registra el provider como global de otel.
func (p *Provider) SetGlobal() {
	otel.SetTracerProvider(p.TracerProvider)
}

// Shutdown vacía los spans pendientes y libera el exportador.
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.shutdown(ctx)
}
