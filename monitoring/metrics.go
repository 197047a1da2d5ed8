package monitoring

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mlg-/factory-girl-book-club/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"
)

const (
	attrDBOperation = "db.operation"
	attrDBSuccess   = "db.success"
)

// DefaultBuckets are histogram boundaries in seconds
var DefaultBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// Config holds the configuration for OpenTelemetry metrics.
// ExporterType is "prometheus", "otlp" or "none"; OTLPEndpoint is required for otlp.
type Config struct {
	ExporterType     string
	ServiceName      string
	ServiceVersion   string
	OTLPEndpoint     string
	OTLPHeaders      map[string]string
	OTLPTLSInsecure  bool
	HistogramBuckets []float64
}

type instruments struct {
	requests  metric.Int64Counter
	duration  metric.Float64Histogram
	dbLatency metric.Float64Histogram
	handler   http.Handler
	provider  *sdkmetric.MeterProvider
}

var (
	mu      sync.RWMutex
	current *instruments
)

// DefaultConfig returns a configuration read from the OTEL_* environment variables
func DefaultConfig(serviceName string) Config {
	return Config{
		ExporterType:     config.GetEnvOrDefault("OTEL_METRICS_EXPORTER", "prometheus"),
		ServiceName:      serviceName,
		ServiceVersion:   config.GetEnvOrDefault("SERVICE_VERSION", "dev"),
		OTLPEndpoint:     config.GetEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTLPHeaders:      parseHeaders(config.GetEnvOrDefault("OTEL_EXPORTER_OTLP_HEADERS", "")),
		OTLPTLSInsecure:  config.GetBoolOrDefault("OTEL_EXPORTER_OTLP_INSECURE", false),
		HistogramBuckets: DefaultBuckets,
	}
}

// Setup installs a meter provider for the configured exporter and creates the
// service instruments. The returned function flushes and stops the provider.
func Setup(ctx context.Context, cfg Config) (func(context.Context) error, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	reader, handler, err := newReader(ctx, cfg)
	if err != nil {
		return nil, err
	}

	buckets := cfg.HistogramBuckets
	if len(buckets) == 0 {
		buckets = DefaultBuckets
	}
	bucketView := func(name string) sdkmetric.View {
		return sdkmetric.NewView(
			sdkmetric.Instrument{Name: name},
			sdkmetric.Stream{Aggregation: sdkmetric.AggregationExplicitBucketHistogram{Boundaries: buckets}},
		)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
		sdkmetric.WithView(bucketView("http_request_duration_seconds")),
		sdkmetric.WithView(bucketView("db_latency_seconds")),
	)
	otel.SetMeterProvider(provider)

	meter := provider.Meter(cfg.ServiceName)
	inst := &instruments{handler: handler, provider: provider}

	inst.requests, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	inst.duration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	inst.dbLatency, err = meter.Float64Histogram(
		"db_latency_seconds",
		metric.WithDescription("Database latency by repository operation"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create db_latency_seconds histogram: %w", err)
	}

	mu.Lock()
	current = inst
	mu.Unlock()

	return provider.Shutdown, nil
}

func newReader(ctx context.Context, cfg Config) (sdkmetric.Reader, http.Handler, error) {
	switch cfg.ExporterType {
	case "prometheus", "":
		reg := prometheus.NewRegistry()
		exporter, err := otelprom.New(otelprom.WithRegisterer(reg), otelprom.WithoutUnits())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
		}
		slog.Info("Initialized OpenTelemetry metrics with Prometheus exporter", "service", cfg.ServiceName)
		return exporter, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), nil

	case "otlp":
		if cfg.OTLPEndpoint == "" {
			return nil, nil, fmt.Errorf("OTLP endpoint is required when using OTLP exporter")
		}
		endpointURL, err := url.Parse(cfg.OTLPEndpoint)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid OTLP endpoint URL: %w", err)
		}
		if endpointURL.Scheme != "https" && !cfg.OTLPTLSInsecure {
			return nil, nil, fmt.Errorf("OTLP endpoint must use HTTPS (got: %s); set OTEL_EXPORTER_OTLP_INSECURE=true to allow plain HTTP", endpointURL.Scheme)
		}

		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(endpointURL.Host)}
		if endpointURL.Scheme == "http" {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		if len(cfg.OTLPHeaders) > 0 {
			opts = append(opts, otlpmetrichttp.WithHeaders(cfg.OTLPHeaders))
		}

		exporter, err := otlpmetrichttp.New(ctx, opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		slog.Info("Initialized OpenTelemetry metrics with OTLP exporter",
			"service", cfg.ServiceName,
			"endpoint", cfg.OTLPEndpoint)
		return sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(15*time.Second)),
			plainText("# Metrics exported via OTLP\n"), nil

	case "none":
		slog.Info("OpenTelemetry metrics disabled", "service", cfg.ServiceName)
		return sdkmetric.NewManualReader(), plainText("# Metrics disabled\n"), nil

	default:
		return nil, nil, fmt.Errorf("unknown exporter type: %s (supported: prometheus, otlp, none)", cfg.ExporterType)
	}
}

func plainText(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(body))
	})
}

func loaded() *instruments {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Handler returns the /metrics handler. Before Setup it answers 503.
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inst := loaded()
		if inst == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("# Metrics not initialized\n"))
			return
		}
		inst.handler.ServeHTTP(w, r)
	})
}

// HTTPMetricsMiddleware records request counts and latency by chi route pattern
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inst := loaded()
		if inst == nil {
			next.ServeHTTP(w, r)
			return
		}

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		route := routePattern(r)
		if recorder.status == http.StatusNotFound && route == "" {
			route = "unknown"
		}

		inst.requests.Add(r.Context(), 1, metric.WithAttributes(
			semconv.HTTPRequestMethodKey.String(r.Method),
			semconv.HTTPRouteKey.String(route),
			semconv.HTTPResponseStatusCodeKey.Int(recorder.status),
		))
		inst.duration.Record(r.Context(), time.Since(start).Seconds(), metric.WithAttributes(
			semconv.HTTPRequestMethodKey.String(r.Method),
			semconv.HTTPRouteKey.String(route),
		))
	})
}

// routePattern keeps ids out of metric labels
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return ""
}

// RecordDBLatency records the duration of a repository operation
func RecordDBLatency(ctx context.Context, operation string, duration time.Duration, err error) {
	inst := loaded()
	if inst == nil {
		return
	}

	inst.dbLatency.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String(attrDBOperation, operation),
		attribute.Bool(attrDBSuccess, err == nil),
	))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(statusCode int) {
	s.status = statusCode
	s.ResponseWriter.WriteHeader(statusCode)
}

// parseHeaders parses "key1=value1,key2=value2"
func parseHeaders(headerStr string) map[string]string {
	headers := make(map[string]string)
	if headerStr == "" {
		return headers
	}

	for _, pair := range strings.Split(headerStr, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) == 2 {
			headers[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
		}
	}
	return headers
}
