// Package api configures and exposes the HTTP server, routes,
// metrics, docs and related middleware for the portal service.
package api

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"
	"portal/internal/api/handler/v1handler"
	"portal/internal/config"
	"portal/pkg/controller"
	"portal/pkg/logger"
	"portal/pkg/metrics"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggest/swgui/v5emb"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

// v1Spec contains the embedded OpenAPI specification for version 1 of the API.
//
//go:embed specs/v1.yaml
var v1Spec []byte

const healthTimeout = 2 * time.Second

// Options holds configuration for the HTTP server and its dependencies.
// It is typically created from a config.Config via NewOptions.
// All durations are used to configure server timeouts, and zero values
// should be considered as using the defaults provided by net/http where applicable.
type Options struct {
	// SecHandlerOptions configures bearer token verification for v1 endpoints.
	// An empty public key leaves authenticated endpoints rejecting every request.
	SecHandlerOptions *v1handler.SecHandlerOptions
	// HandlerOptions tune v1 request handling.
	HandlerOptions v1handler.Options

	// Addr is the TCP address the server listens on, e.g. ":8080".
	Addr string
	// ReadTimeout is the maximum duration for reading the entire request, including the body.
	ReadTimeout time.Duration
	// ReadHeaderTimeout is the amount of time allowed to read request headers.
	ReadHeaderTimeout time.Duration
	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration
	// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled.
	IdleTimeout time.Duration
	// RequestTimeout is the global timeout applied via http.TimeoutHandler for handling requests.
	RequestTimeout time.Duration
	// MaxHeaderBytes controls the maximum number of bytes the server
	// will read parsing the request header's keys and values, including the request line.
	MaxHeaderBytes int
	// MetricsPath is the HTTP path at which Prometheus metrics are served.
	MetricsPath string
	// RateLimit is the per client requests per second on v1 routes. Zero disables it.
	RateLimit float64
	// RateBurst is the burst size for RateLimit.
	RateBurst int
	// CORSOrigins lists the allowed browser origins. Empty allows any.
	CORSOrigins []string
	// TrustedProxies are the peers whose forwarding headers set the rate limited client IP.
	TrustedProxies []string
}

// NewOptions constructs an Options value from the provided application configuration.
// It maps HTTP server-related settings from config.Config to the Options used by the API server.
func NewOptions(cfg *config.Config) Options {
	return Options{
		SecHandlerOptions: v1handler.NewSecHandlerOptions(cfg),
		HandlerOptions:    v1handler.NewOptions(cfg),

		Addr:              cfg.HTTP.Addr,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		RequestTimeout:    cfg.HTTP.RequestTimeout,
		MaxHeaderBytes:    cfg.HTTP.MaxHeaderBytes,
		MetricsPath:       cfg.HTTP.MetricsPath,
		RateLimit:         cfg.HTTP.RateLimit,
		RateBurst:         cfg.HTTP.RateBurst,
		CORSOrigins:       cfg.HTTP.CORSOrigins,
		TrustedProxies:    cfg.HTTP.TrustedProxies,
	}
}

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	v1handler.Deps

	// DB is checked by /healthz when set.
	DB Pinger
}

// NewServer wires up and returns a configured *http.Server using the provided Options.
// It sets up:
// - Prometheus metrics endpoint (MetricsPath) on a registry owned by the server
// - OpenTelemetry meter provider exporting to that registry
// - Embedded OpenAPI v1 spec and Swagger UI
// - v1 API routes
// - pprof endpoints for profiling and a health check
// It also wraps the router with recovery, logging, CORS and platform
// middlewares and applies a request timeout.
func NewServer(deps Deps, opts Options) (*http.Server, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// otel
	exp, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("could not create otel exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp))
	if deps.Metrics == nil {
		deps.Metrics, err = metrics.New(mp)
		if err != nil {
			return nil, fmt.Errorf("could not create instruments: %w", err)
		}
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(controller.WithLogger)
	r.Use(controller.WithCORS(opts.CORSOrigins...))
	r.Use(controller.WithPlatform)
	r.Use(controller.WithMetrics(deps.Metrics))

	// prometheus metrics server
	if opts.MetricsPath != "" {
		r.Handle(opts.MetricsPath, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	// v1 specs file
	r.Get("/specs/v1.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(v1Spec)
	})
	// v1 api swagger playground
	r.Handle("/v1/docs/*", v5emb.New(
		"Portal Service",
		"/specs/v1.yaml",
		"/v1/docs/",
	))

	r.Get("/healthz", healthHandler(deps.DB))

	// v1 api
	var secHandler *v1handler.SecHandler
	if opts.SecHandlerOptions != nil && opts.SecHandlerOptions.PublicKey != "" {
		secHandler, err = v1handler.NewSecHandler(opts.SecHandlerOptions)
		if err != nil {
			return nil, fmt.Errorf("could not create sec handler: %w", err)
		}
	}

	var limiter *controller.ClientRateLimiter
	if opts.RateLimit > 0 {
		limiter = controller.NewClientRateLimiter(opts.RateLimit, opts.RateBurst)
		if err := limiter.TrustProxies(opts.TrustedProxies...); err != nil {
			return nil, fmt.Errorf("could not configure rate limiter: %w", err)
		}
	}

	v1 := v1handler.New(deps.Deps, opts.HandlerOptions).Routes(secHandler)
	r.Mount("/v1", controller.WithRateLimit(limiter)(v1))

	// pprof
	r.Mount("/debug", chimw.Profiler())

	var handler http.Handler = r
	if opts.RequestTimeout > 0 {
		handler = http.TimeoutHandler(r, opts.RequestTimeout, `{"code":"TIMEOUT","message":"request timed out"}`)
	}

	return &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
		WriteTimeout:      opts.WriteTimeout,
		IdleTimeout:       opts.IdleTimeout,
		MaxHeaderBytes:    opts.MaxHeaderBytes,
	}, nil
}

func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
			defer cancel()

			if err := db.Ping(ctx); err != nil {
				logger.Warn(ctx, "health check failed", zap.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"unavailable"}`))

				return
			}
		}

		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}
