package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	HTTPRequestsTotal       metric.Int64Counter
	HTTPRequestDuration     metric.Float64Histogram
	PipelineRequestsTotal   metric.Int64Counter
	PipelineDurationSeconds metric.Float64Histogram
	ModelCallsTotal         metric.Int64Counter
	ProviderFallbacksTotal  metric.Int64Counter
	AttractionsEnriched     metric.Int64Counter
	AuthRequestsTotal       metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metric instruments once, using the
// meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("tripflow")
		var err error
		m := &AppMetrics{}

		m.HTTPRequestsTotal, err = meter.Int64Counter(
			"http_requests_total",
			metric.WithDescription("Total number of HTTP requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_requests_total: %v", err)
		}

		m.HTTPRequestDuration, err = meter.Float64Histogram(
			"http_request_duration_seconds",
			metric.WithDescription("Duration of HTTP requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_request_duration_seconds: %v", err)
		}

		m.PipelineRequestsTotal, err = meter.Int64Counter(
			"itinerary_pipeline_requests_total",
			metric.WithDescription("Total number of itinerary pipeline runs"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itinerary_pipeline_requests_total: %v", err)
		}

		m.PipelineDurationSeconds, err = meter.Float64Histogram(
			"itinerary_pipeline_duration_seconds",
			metric.WithDescription("End-to-end duration of itinerary pipeline runs"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itinerary_pipeline_duration_seconds: %v", err)
		}

		m.ModelCallsTotal, err = meter.Int64Counter(
			"model_calls_total",
			metric.WithDescription("Total number of language model calls"),
			metric.WithUnit("{call}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create model_calls_total: %v", err)
		}

		m.ProviderFallbacksTotal, err = meter.Int64Counter(
			"provider_fallbacks_total",
			metric.WithDescription("Times a primary provider failed and a fallback was used"),
			metric.WithUnit("{fallback}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create provider_fallbacks_total: %v", err)
		}

		m.AttractionsEnriched, err = meter.Int64Counter(
			"attractions_enriched_total",
			metric.WithDescription("Total number of attractions enriched"),
			metric.WithUnit("{attraction}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create attractions_enriched_total: %v", err)
		}

		m.AuthRequestsTotal, err = meter.Int64Counter(
			"auth_requests_total",
			metric.WithDescription("Total number of authentication requests"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create auth_requests_total: %v", err)
		}

		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance. Panics if
// InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}
