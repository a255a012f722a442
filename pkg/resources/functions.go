package resources

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Closable is anything the base server should tear down on shutdown.
type Closable interface {
	Close()
}

// InitConfig wires the env-driven configuration. The remote API base
// URL is the one externally supplied behavioral value; the rest are
// listen addresses and plumbing.
func InitConfig() {
	viper.AutomaticEnv()

	viper.SetDefault("CALENDAR_API_BASE_URL", "http://localhost:8000")
	viper.SetDefault("HTTP_HOST", "localhost")
	viper.SetDefault("HTTP_PORT", "8080")
	viper.SetDefault("DEBUG_HOST", "localhost")
	viper.SetDefault("DEBUG_PORT", "6060")
	viper.SetDefault("OTLP_ENDPOINT", "localhost:4317")
	viper.SetDefault("TEMPLATES_GLOB", "web/templates/*.tmpl")
}

func CreateTracer(ctx context.Context) (func(context.Context) error, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	tp, err := newTracerProvider(ctx)
	if err != nil {
		return func(context.Context) error { return nil }, fmt.Errorf("failed to create tracer provider: %w", err)
	}
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}

func newTracerProvider(ctx context.Context) (*sdktrace.TracerProvider, error) {
	exp, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(viper.GetString("OTLP_ENDPOINT")),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create the OTLP trace exporter: %w", err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
	), nil
}

func CreateMeter(ctx context.Context) (func(context.Context) error, error) {
	exp, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(viper.GetString("OTLP_ENDPOINT")),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return func(context.Context) error { return nil }, fmt.Errorf("failed to create the OTLP metric exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
	)
	otel.SetMeterProvider(mp)

	return mp.Shutdown, nil
}

// CreateLogger sets the global logger provider the zerolog bridge hook
// emits through.
func CreateLogger(ctx context.Context) (func(context.Context) error, error) {
	exp, err := otlploggrpc.New(ctx,
		otlploggrpc.WithEndpoint(viper.GetString("OTLP_ENDPOINT")),
		otlploggrpc.WithInsecure(),
	)
	if err != nil {
		return func(context.Context) error { return nil }, fmt.Errorf("failed to create the OTLP log exporter: %w", err)
	}

	lp := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exp)),
	)
	global.SetLoggerProvider(lp)

	return lp.Shutdown, nil
}
