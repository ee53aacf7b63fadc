// Package traces initializes OpenTelemetry distributed tracing. Spans for
// incoming requests are produced by the router middleware; this package only
// owns the exporter lifecycle.
package traces

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/clearproof/api/config"
	"github.com/clearproof/api/logging"
)

var log = logging.GetLogger().WithFields(logrus.Fields{"package": "traces"})

// Init sets up the tracer provider. When the endpoint is empty, tracing is
// disabled and the returned shutdown function is a no-op.
func Init(ctx context.Context, otlpEndpoint, version string) (func(context.Context) error, error) {
	if otlpEndpoint == "" {
		log.Info("tracing disabled, no OTLP endpoint configured")
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(otlpEndpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, errors.Wrap(err, "unable to initialize the OTLP trace exporter")
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(config.ServiceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, errors.Wrap(err, "unable to describe the service resource")
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	log.Infof("tracing enabled, exporting to %s", otlpEndpoint)
	return tp.Shutdown, nil
}
