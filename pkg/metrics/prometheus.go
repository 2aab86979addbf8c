package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	messages    *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	lastPrice   *prometheus.GaugeVec
	latency     *prometheus.HistogramVec
	signalScore *prometheus.GaugeVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		messages: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "apexlob_messages_total",
				Help: "Total number of feed messages processed",
			},
			[]string{"symbol"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "apexlob_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "apexlob_last_trade_price",
				Help: "Price of the most recent match",
			},
			[]string{"symbol"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "apexlob_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		signalScore: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "apexlob_signal_score",
				Help: "Current alpha signal (-2 strong sell .. +2 strong buy)",
			},
			[]string{"symbol"},
		),
	}
}

// RecordMessage counts one processed feed message.
func (r *Recorder) RecordMessage(symbol string) {
	r.messages.WithLabelValues(symbol).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last trade price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// RecordSignal records the current discrete signal for a symbol.
func (r *Recorder) RecordSignal(symbol string, score int) {
	r.signalScore.WithLabelValues(symbol).Set(float64(score))
}
