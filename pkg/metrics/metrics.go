// Package metrics declares the OpenTelemetry instruments of the service. They
// are exported to Prometheus by the meter provider the API server builds.
package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// DefaultBuckets provides a common set of histogram buckets in seconds that can
// be reused across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

const meterName = "portal"

// Instruments groups the counters and histograms recorded by handlers. A nil
// *Instruments records nothing.
type Instruments struct {
	resolutions     metric.Int64Counter
	normalizations  metric.Int64Counter
	requestDuration metric.Float64Histogram
}

// New creates the instruments on the given provider.
func New(mp metric.MeterProvider) (*Instruments, error) {
	meter := mp.Meter(meterName)

	resolutions, err := meter.Int64Counter("placelink.resolutions",
		metric.WithDescription("Place links resolved, by platform and link kind"))
	if err != nil {
		return nil, fmt.Errorf("could not create resolutions counter: %w", err)
	}

	normalizations, err := meter.Int64Counter("pdfurl.normalizations",
		metric.WithDescription("Document URLs normalized, by rule"))
	if err != nil {
		return nil, fmt.Errorf("could not create normalizations counter: %w", err)
	}

	requestDuration, err := meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("Duration of HTTP requests"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(DefaultBuckets...))
	if err != nil {
		return nil, fmt.Errorf("could not create request duration histogram: %w", err)
	}

	return &Instruments{
		resolutions:     resolutions,
		normalizations:  normalizations,
		requestDuration: requestDuration,
	}, nil
}

// RecordResolution counts one resolved place link.
func (i *Instruments) RecordResolution(ctx context.Context, platform string, explicit bool) {
	if i == nil {
		return
	}

	i.resolutions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("platform", platform),
		attribute.Bool("explicit", explicit),
	))
}

// RecordNormalization counts one normalized document URL.
func (i *Instruments) RecordNormalization(ctx context.Context, rule string) {
	if i == nil {
		return
	}

	i.normalizations.Add(ctx, 1, metric.WithAttributes(attribute.String("rule", rule)))
}

// RecordRequest records the duration of one HTTP request.
func (i *Instruments) RecordRequest(ctx context.Context, method string, status int, d time.Duration) {
	if i == nil {
		return
	}

	i.requestDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("method", method),
		attribute.Int("status", status),
	))
}
