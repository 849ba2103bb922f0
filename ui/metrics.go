package ui

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sickstat/app"
)

const metricsNamespace = "sickstat"

// Metrics holds the Prometheus collectors for the analysis endpoints.
//
// Each server owns its registry so several servers (and tests) can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	// AnalysesTotal counts analysis requests.
	// Labels: status (ok, error)
	AnalysesTotal *prometheus.CounterVec

	// ComparisonsTotal counts finished comparisons.
	// Labels: dimension (gender, age), result (significant, not_significant, error)
	ComparisonsTotal *prometheus.CounterVec

	// AnalysisDurationSeconds measures parse + analysis time of a request
	AnalysisDurationSeconds prometheus.Histogram

	// UploadBytes measures uploaded file sizes
	UploadBytes prometheus.Histogram
}

// NewMetrics registers the collectors on a fresh registry
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		AnalysesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "analyses_total",
			Help:      "Total analysis requests by status",
		}, []string{"status"}),
		ComparisonsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "comparisons_total",
			Help:      "Total group comparisons by dimension and result",
		}, []string{"dimension", "result"}),
		AnalysisDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "analysis_duration_seconds",
			Help:      "Time spent parsing and analysing one upload",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		UploadBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "upload_bytes",
			Help:      "Size of uploaded data files",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveReport records the outcome of both comparisons
func (m *Metrics) ObserveReport(report *app.Report) {
	if m == nil || report == nil {
		return
	}
	for _, cmp := range report.Comparisons() {
		result := "error"
		if cmp.Outcome != nil {
			result = "not_significant"
			if cmp.Outcome.Significant {
				result = "significant"
			}
		}
		m.ComparisonsTotal.WithLabelValues(string(cmp.Dimension), result).Inc()
	}
}
