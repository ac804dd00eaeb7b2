package observability

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"hirelink/internal/config"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const metricsCollectionInterval = 15 * time.Second

// ObservabilityConfig holds configuration for observability
type ObservabilityConfig struct {
	ServiceName    string
	ServiceVersion string
	Enabled        bool
	ConsoleOutput  bool
	PrettyPrint    bool
	SampleRate     float64
	OTLP           config.OTLPConfig
}

// Metrics holds all custom metrics for hirelink
type Metrics struct {
	// Gateway metrics
	GatewayRequests metric.Int64Counter
	GatewayDuration metric.Float64Histogram
	AuthFailures    metric.Int64Counter

	// Session metrics
	ForcedLogouts metric.Int64Counter
	GuardDenials  metric.Int64Counter
}

// ObservabilityManager manages OpenTelemetry setup
type ObservabilityManager struct {
	config         ObservabilityConfig
	tracerProvider *trace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	metrics        *Metrics
	shutdownFuncs  []func(context.Context) error
}

// NewObservabilityManager creates a new observability manager. A disabled
// manager hands out no-op tracers and instruments.
func NewObservabilityManager(obsConfig ObservabilityConfig) (*ObservabilityManager, error) {
	om := &ObservabilityManager{config: obsConfig}
	if !obsConfig.Enabled {
		metrics, err := newMetrics(metricnoop.NewMeterProvider().Meter(obsConfig.ServiceName))
		if err != nil {
			return nil, err
		}
		om.metrics = metrics
		return om, nil
	}

	res, err := om.createResource()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize resource: %w", err)
	}

	if err := om.initTracing(res); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if err := om.initMetrics(res); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return om, nil
}

// createResource creates the OpenTelemetry resource
func (om *ObservabilityManager) createResource() (*resource.Resource, error) {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(om.config.ServiceName),
			semconv.ServiceVersion(om.config.ServiceVersion),
			attribute.String("service.instance.id", fmt.Sprintf("%s-%s", om.config.ServiceName, hostname)),
		),
	)
}

// initTracing sets up OpenTelemetry tracing
func (om *ObservabilityManager) initTracing(res *resource.Resource) error {
	var exporter trace.SpanExporter
	var err error

	if om.config.ConsoleOutput {
		// stdout carries command output, so spans go to stderr
		opts := []stdouttrace.Option{stdouttrace.WithWriter(os.Stderr)}
		if om.config.PrettyPrint {
			opts = append(opts, stdouttrace.WithPrettyPrint())
		}
		exporter, err = stdouttrace.New(opts...)
	} else if om.config.OTLP.Enabled {
		exporter, err = om.createOTLPExporter()
	} else {
		exporter = &noOpSpanExporter{}
	}

	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
		trace.WithSampler(trace.TraceIDRatioBased(om.config.SampleRate)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	om.tracerProvider = tp
	om.shutdownFuncs = append(om.shutdownFuncs, tp.Shutdown)

	return nil
}

// initMetrics sets up OpenTelemetry metrics
func (om *ObservabilityManager) initMetrics(res *resource.Resource) error {
	readers, err := om.setupMetricReaders()
	if err != nil {
		return err
	}

	meterProviderOptions := []sdkmetric.Option{
		sdkmetric.WithResource(res),
	}
	for _, reader := range readers {
		meterProviderOptions = append(meterProviderOptions, sdkmetric.WithReader(reader))
	}

	mp := sdkmetric.NewMeterProvider(meterProviderOptions...)

	otel.SetMeterProvider(mp)
	om.meterProvider = mp
	om.shutdownFuncs = append(om.shutdownFuncs, mp.Shutdown)

	om.metrics, err = newMetrics(mp.Meter(om.config.ServiceName))
	return err
}

// setupMetricReaders sets up all metric readers based on configuration
func (om *ObservabilityManager) setupMetricReaders() ([]sdkmetric.Reader, error) {
	var readers []sdkmetric.Reader

	if om.config.ConsoleOutput {
		opts := []stdoutmetric.Option{stdoutmetric.WithWriter(os.Stderr)}
		if om.config.PrettyPrint {
			opts = append(opts, stdoutmetric.WithPrettyPrint())
		}
		exporter, err := stdoutmetric.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create console metric exporter: %w", err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(metricsCollectionInterval)))
	}

	if om.config.OTLP.Enabled {
		otlpReader, err := om.createOTLPMetricsReader()
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP metrics reader: %w", err)
		}
		readers = append(readers, otlpReader)
	}

	// If no readers configured, use manual reader as fallback
	if len(readers) == 0 {
		readers = append(readers, sdkmetric.NewManualReader())
	}

	return readers, nil
}

func newMetrics(meter metric.Meter) (*Metrics, error) {
	var m Metrics
	var err error

	m.GatewayRequests, err = meter.Int64Counter(
		"hirelink.gateway.requests",
		metric.WithDescription("Requests sent to the recruitment API"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway request counter: %w", err)
	}

	m.GatewayDuration, err = meter.Float64Histogram(
		"hirelink.gateway.duration",
		metric.WithDescription("Round-trip time of recruitment API requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway duration histogram: %w", err)
	}

	m.AuthFailures, err = meter.Int64Counter(
		"hirelink.gateway.auth_failures",
		metric.WithDescription("Responses reporting a missing or rejected credential"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth failure counter: %w", err)
	}

	m.ForcedLogouts, err = meter.Int64Counter(
		"hirelink.session.forced_logouts",
		metric.WithDescription("Sessions cleared after the API rejected the credential"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create forced logout counter: %w", err)
	}

	m.GuardDenials, err = meter.Int64Counter(
		"hirelink.guard.denials",
		metric.WithDescription("Screen mounts refused by the route guard"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create guard denial counter: %w", err)
	}

	return &m, nil
}

// NoopMetrics returns instruments that record nothing.
func NoopMetrics() *Metrics {
	m, _ := newMetrics(metricnoop.NewMeterProvider().Meter("hirelink"))
	return m
}

// GetMetrics returns the custom metrics. Never nil.
func (om *ObservabilityManager) GetMetrics() *Metrics {
	if om == nil || om.metrics == nil {
		return NoopMetrics()
	}
	return om.metrics
}

// HTTPTransport wraps base with OpenTelemetry client instrumentation
func (om *ObservabilityManager) HTTPTransport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	if om == nil || !om.config.Enabled {
		return base
	}

	return otelhttp.NewTransport(base,
		otelhttp.WithTracerProvider(om.tracerProvider),
		otelhttp.WithMeterProvider(om.meterProvider),
	)
}

// Tracer returns a tracer for the service
func (om *ObservabilityManager) Tracer(name string) oteltrace.Tracer {
	if om == nil || !om.config.Enabled {
		return noop.NewTracerProvider().Tracer(name)
	}
	return om.tracerProvider.Tracer(name)
}

// Shutdown flushes and stops all observability components
func (om *ObservabilityManager) Shutdown(ctx context.Context) error {
	if om == nil {
		return nil
	}
	for _, shutdown := range om.shutdownFuncs {
		if err := shutdown(ctx); err != nil {
			return err
		}
	}
	return nil
}

// RecordRequest records one gateway round trip
func (m *Metrics) RecordRequest(ctx context.Context, method, path string, status int, err error, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("api.path", path),
		attribute.Int("http.status_code", status),
		attribute.Bool("error", err != nil),
	)
	m.GatewayRequests.Add(ctx, 1, attrs)
	m.GatewayDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordAuthFailure records an authentication-failure response; forced is
// true when it cleared the session.
func (m *Metrics) RecordAuthFailure(ctx context.Context, path string, forced bool) {
	m.AuthFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("api.path", path),
		attribute.Bool("forced_logout", forced),
	))
	if forced {
		m.ForcedLogouts.Add(ctx, 1, metric.WithAttributes(attribute.String("api.path", path)))
	}
}

// RecordGuardDenial records a refused screen mount
func (m *Metrics) RecordGuardDenial(ctx context.Context, route, redirect string) {
	m.GuardDenials.Add(ctx, 1, metric.WithAttributes(
		attribute.String("route", route),
		attribute.String("redirect", redirect),
	))
}

type noOpSpanExporter struct{}

func (n *noOpSpanExporter) ExportSpans(ctx context.Context, spans []trace.ReadOnlySpan) error {
	return nil
}

func (n *noOpSpanExporter) Shutdown(ctx context.Context) error {
	return nil
}

// createOTLPExporter creates an OTLP HTTP trace exporter
func (om *ObservabilityManager) createOTLPExporter() (trace.SpanExporter, error) {
	otlpConfig := om.config.OTLP

	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(otlpConfig.Endpoint),
	}

	if otlpConfig.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	if len(otlpConfig.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(otlpConfig.Headers))
	}

	exporter, err := otlptracehttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	return exporter, nil
}

// createOTLPMetricsReader creates an OTLP HTTP metrics reader
func (om *ObservabilityManager) createOTLPMetricsReader() (sdkmetric.Reader, error) {
	otlpConfig := om.config.OTLP

	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(otlpConfig.Endpoint),
	}

	if otlpConfig.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	if len(otlpConfig.Headers) > 0 {
		opts = append(opts, otlpmetrichttp.WithHeaders(otlpConfig.Headers))
	}

	exporter, err := otlpmetrichttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
	}

	return sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(metricsCollectionInterval)), nil
}
