package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "flight_brief"

// Metrics holds the Prometheus counters, histograms, and gauges for the brief pipeline.
type Metrics struct {
	MessagesConsumed prometheus.Counter
	MessagesProduced prometheus.Counter
	TransformErrors  *prometheus.CounterVec // labels: reason={parse,validation,format}
	PipelineRunning  prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Evaluation metrics.
	BriefsEvaluated *prometheus.CounterVec // labels: band={low,medium,high}
	ReportOutcomes  *prometheus.CounterVec // labels: end={dep,arr}, origin={supplied,fetched,missing,failed}

	// Report fetch metrics.
	ReportRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	ReportCache       *prometheus.CounterVec // labels: result={hit,miss,expired}
	ReportAPIDuration prometheus.Histogram
	ReportFetchOn     prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.MessagesConsumed,
		m.MessagesProduced,
		m.TransformErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.BriefsEvaluated,
		m.ReportOutcomes,
		m.ReportRequests,
		m.ReportCache,
		m.ReportAPIDuration,
		m.ReportFetchOn,
	)

	return m
}

// NewUnregisteredMetrics creates Metrics that are never registered, so
// tests and one-shot commands can build as many as they need without
// "already registered" panics.
func NewUnregisteredMetrics() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		MessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_consumed_total",
			Help:      "Total leg requests read from the source topic.",
		}),
		MessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_produced_total",
			Help:      "Total briefs written to the sink topic.",
		}),
		TransformErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transform_errors_total",
			Help:      "Leg requests that could not be evaluated, by reason.",
		}, []string{"reason"}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of messages per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-transform-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		BriefsEvaluated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "briefs_evaluated_total",
			Help:      "Briefs evaluated, by delay risk band.",
		}, []string{"band"}),
		ReportOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_outcomes_total",
			Help:      "Where each end's weather report came from.",
		}, []string{"end", "origin"}),
		ReportRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_requests_total",
			Help:      "Weather report API requests by outcome.",
		}, []string{"outcome"}),
		ReportCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_cache_total",
			Help:      "Weather report cache lookups by result.",
		}, []string{"result"}),
		ReportAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "report_api_duration_seconds",
			Help:      "Weather report API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		ReportFetchOn: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "report_fetch_enabled",
			Help:      "1 when weather report fetching is enabled, 0 otherwise.",
		}),
	}
}
