package telemetry

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// UploadMetrics counts finished uploads by outcome. It feeds both the OTLP
// pipeline and the Prometheus registry scraped at /-/metrics.
type UploadMetrics struct {
	otelCounter metric.Int64Counter
	promCounter *prometheus.CounterVec
}

// NewUploadMetrics creates the upload counters. The Prometheus counter is
// registered with reg.
func NewUploadMetrics(mp metric.MeterProvider, reg prometheus.Registerer) (*UploadMetrics, error) {
	counter, err := mp.Meter(instrumentationName).Int64Counter(
		"quotation.uploads",
		metric.WithDescription("Finished quotation uploads by outcome"),
	)
	if err != nil {
		return nil, err
	}

	promCounter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quotation_uploads_total",
		Help: "Finished quotation uploads by outcome.",
	}, []string{"outcome"})

	if err := reg.Register(promCounter); err != nil {
		return nil, err
	}

	return &UploadMetrics{otelCounter: counter, promCounter: promCounter}, nil
}

// UploadFinished records one upload with the given outcome.
func (m *UploadMetrics) UploadFinished(ctx context.Context, outcome string) {
	m.otelCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	m.promCounter.WithLabelValues(outcome).Inc()
}
