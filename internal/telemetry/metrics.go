package telemetry

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName = "github.com/wolfeidau/inlineassets"
)

// Metrics holds all the OpenTelemetry metric instruments
type Metrics struct {
	// Load metrics
	AssetsInlinedTotal     metric.Int64Counter
	AssetsPassthroughTotal metric.Int64Counter
	InlinedBytesTotal      metric.Int64Counter
	LoadErrorsTotal        metric.Int64Counter

	// Copy metrics
	CopiesTotal     metric.Int64Counter
	CopyErrorsTotal metric.Int64Counter
	CopyDuration    metric.Float64Histogram
	CopiesInFlight  metric.Int64UpDownCounter
}

var (
	once    sync.Once
	metrics *Metrics
)

// GetMetrics returns the singleton Metrics instance, initializing it if necessary
func GetMetrics() *Metrics {
	once.Do(func() {
		metrics = NewMetrics(otel.GetMeterProvider())
	})
	return metrics
}

// NewMetrics creates all metric instruments from the given provider
func NewMetrics(provider metric.MeterProvider) *Metrics {
	meter := provider.Meter(meterName)

	m := &Metrics{}

	m.AssetsInlinedTotal, _ = meter.Int64Counter(
		"inlineassets.assets.inlined.total",
		metric.WithDescription("Total number of assets inlined as data URIs"),
		metric.WithUnit("{asset}"),
	)

	m.AssetsPassthroughTotal, _ = meter.Int64Counter(
		"inlineassets.assets.passthrough.total",
		metric.WithDescription("Total number of assets emitted as web paths"),
		metric.WithUnit("{asset}"),
	)

	m.InlinedBytesTotal, _ = meter.Int64Counter(
		"inlineassets.assets.inlined.bytes",
		metric.WithDescription("Total length of data URIs embedded into modules"),
		metric.WithUnit("By"),
	)

	m.LoadErrorsTotal, _ = meter.Int64Counter(
		"inlineassets.load.errors.total",
		metric.WithDescription("Total number of failed asset loads"),
		metric.WithUnit("{error}"),
	)

	m.CopiesTotal, _ = meter.Int64Counter(
		"inlineassets.copies.total",
		metric.WithDescription("Total number of assets copied into the output directory"),
		metric.WithUnit("{file}"),
	)

	m.CopyErrorsTotal, _ = meter.Int64Counter(
		"inlineassets.copies.errors.total",
		metric.WithDescription("Total number of failed asset copies"),
		metric.WithUnit("{error}"),
	)

	m.CopyDuration, _ = meter.Float64Histogram(
		"inlineassets.copies.duration",
		metric.WithDescription("Duration of asset copy operations"),
		metric.WithUnit("ms"),
	)

	m.CopiesInFlight, _ = meter.Int64UpDownCounter(
		"inlineassets.copies.in_flight",
		metric.WithDescription("Number of asset copies currently running"),
		metric.WithUnit("{file}"),
	)

	return m
}
