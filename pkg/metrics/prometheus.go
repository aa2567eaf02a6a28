package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	forecastsTotal *prometheus.CounterVec
	cacheTotal     *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	lastPrice      *prometheus.GaugeVec
	modelDuration  *prometheus.HistogramVec
	latency        *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		forecastsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpred_forecasts_total",
				Help: "Total number of forecast runs",
			},
			[]string{"symbol", "period", "result"},
		),
		cacheTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpred_forecast_cache_total",
				Help: "Forecast cache lookups by outcome",
			},
			[]string{"outcome"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpred_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockpred_last_price",
				Help: "Last observed price for a symbol",
			},
			[]string{"symbol"},
		),
		modelDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockpred_model_duration_seconds",
				Help:    "Per-model fit and forecast duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"model"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockpred_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordForecast records a completed forecast run.
func (r *Recorder) RecordForecast(symbol, period, result string) {
	r.forecastsTotal.WithLabelValues(symbol, period, result).Inc()
}

// RecordCacheLookup records a forecast cache hit or miss.
func (r *Recorder) RecordCacheLookup(outcome string) {
	r.cacheTotal.WithLabelValues(outcome).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordModelDuration records per-model compute latency in seconds.
func (r *Recorder) RecordModelDuration(model string, seconds float64) {
	r.modelDuration.WithLabelValues(model).Observe(seconds)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
