// Package telemetry wires optional OpenTelemetry tracing and metrics,
// enabled by --otel (SPEC_FULL.md's AMBIENT STACK). Adapted from the
// teacher's libs/go/core/otelinit package: same OTLP gRPC exporters,
// same fail-open posture (a missing collector only logs a warning and
// hands back a no-op shutdown), trimmed to the instruments dp2d needs.
package telemetry

import (
	"context"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
)

const serviceName = "dp2d"

// Instruments holds every metric dp2d's orchestrator and miners report
// into (SPEC_FULL.md AMBIENT STACK: rounds completed, candidates
// considered, epsilon consumed, rules registered).
type Instruments struct {
	RoundsCompleted      metric.Int64Counter
	CandidatesConsidered metric.Int64Counter
	EpsilonConsumed      metric.Float64Counter
	RulesRegistered      metric.Int64Counter
}

// Provider bundles the tracer and instrument set, plus a shutdown hook.
type Provider struct {
	Tracer      trace.Tracer
	Instruments Instruments
	shutdownFns []func(context.Context) error
}

// noop returns a Provider whose tracer and instruments are all no-ops;
// used when --otel is absent, or when exporter setup fails (fail-open).
func noop() *Provider {
	return &Provider{
		Tracer:      otel.Tracer(serviceName),
		Instruments: Instruments{},
	}
}

// Init sets up OTLP gRPC tracing and metrics when enabled is true.
// Disabled, it returns a working no-op Provider. Enabled, an exporter
// that fails to start is replaced by its no-op (global tracer, or nil
// instruments) while the other exporter is kept; Init never returns an
// error — telemetry must never block a mining run.
func Init(ctx context.Context, enabled bool) *Provider {
	if !enabled {
		return noop()
	}

	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		endpoint = "localhost:4317"
	}

	res, _ := sdkresource.Merge(sdkresource.Default(), sdkresource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
	))

	p := &Provider{}

	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	traceExp, err := otlptracegrpc.New(dialCtx, otlptracegrpc.WithEndpoint(endpoint), otlptracegrpc.WithDialOption(grpc.WithInsecure()))
	if err != nil {
		slog.Warn("otel trace exporter init failed, continuing without tracing", "error", err)
		p.Tracer = otel.Tracer(serviceName)
	} else {
		tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(traceExp), sdktrace.WithResource(res))
		otel.SetTracerProvider(tp)
		p.shutdownFns = append(p.shutdownFns, tp.Shutdown)
		p.Tracer = otel.Tracer(serviceName)
	}

	metricExp, err := otlpmetricgrpc.New(dialCtx, otlpmetricgrpc.WithEndpoint(endpoint), otlpmetricgrpc.WithDialOption(grpc.WithInsecure()))
	if err != nil {
		slog.Warn("otel metric exporter init failed, continuing without metrics", "error", err)
		p.Instruments = Instruments{}
		return p
	}
	reader := sdkmetric.NewPeriodicReader(metricExp, sdkmetric.WithInterval(10*time.Second))
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader), sdkmetric.WithResource(res))
	otel.SetMeterProvider(mp)
	p.shutdownFns = append(p.shutdownFns, mp.Shutdown)

	meter := otel.Meter(serviceName)
	rounds, _ := meter.Int64Counter("dp2d_rounds_completed_total")
	candidates, _ := meter.Int64Counter("dp2d_candidates_considered_total")
	epsilon, _ := meter.Float64Counter("dp2d_epsilon_consumed")
	rules, _ := meter.Int64Counter("dp2d_rules_registered_total")
	p.Instruments = Instruments{
		RoundsCompleted:      rounds,
		CandidatesConsidered: candidates,
		EpsilonConsumed:      epsilon,
		RulesRegistered:      rules,
	}
	slog.Info("otel telemetry initialized", "endpoint", endpoint)
	return p
}

// StartRound opens the dp2d.round span for one mining round.
func (p *Provider) StartRound(ctx context.Context, round int) (context.Context, func()) {
	ctx, span := p.Tracer.Start(ctx, "dp2d.round", trace.WithAttributes(attribute.Int("round", round)))
	return ctx, func() { span.End() }
}

// Shutdown flushes and tears down every exporter that was started.
func (p *Provider) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	for _, fn := range p.shutdownFns {
		_ = fn(ctx)
	}
}
