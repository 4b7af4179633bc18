// Package metrics provides Prometheus metrics for the LEDI delivery pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all application metrics
type Metrics struct {
	RecordsIngested       prometheus.Counter
	FichasSent            *prometheus.CounterVec
	FichasFailed          *prometheus.CounterVec
	SendDuration          prometheus.Histogram
	BatchesCompleted      *prometheus.CounterVec
	PendingRecords        prometheus.Gauge
	KafkaMessagesProduced prometheus.Counter
	KafkaMessagesConsumed prometheus.Counter
	OutboxPending         prometheus.Gauge
	CircuitBreakerState   *prometheus.GaugeVec
}

// Failure reasons recorded on ledi_fichas_failed_total.
const (
	ReasonSendError     = "send_error"
	ReasonInternalError = "internal_error"
)

// New creates and registers all metrics
func New() *Metrics {
	m := &Metrics{
		RecordsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledi_records_ingested_total",
			Help: "Total encounter records accepted for delivery",
		}),
		FichasSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledi_fichas_sent_total",
			Help: "Total fichas confirmed by the PEC",
		}, []string{"sheet_type"}),
		FichasFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledi_fichas_failed_total",
			Help: "Total fichas that failed delivery",
		}, []string{"sheet_type", "reason"}),
		SendDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledi_pec_send_duration_seconds",
			Help:    "Per-ficha PEC upload duration",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}),
		BatchesCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledi_batches_completed_total",
			Help: "Total delivery batches by terminal status",
		}, []string{"status"}),
		PendingRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ledi_records_pending",
			Help: "Records currently awaiting delivery",
		}),
		KafkaMessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kafka_messages_produced_total",
			Help: "Total Kafka messages produced",
		}),
		KafkaMessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kafka_messages_consumed_total",
			Help: "Total Kafka messages consumed",
		}),
		OutboxPending: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "outbox_pending_entries",
			Help: "Pending outbox entries",
		}),
		CircuitBreakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		}, []string{"name"}),
	}

	prometheus.MustRegister(
		m.RecordsIngested,
		m.FichasSent,
		m.FichasFailed,
		m.SendDuration,
		m.BatchesCompleted,
		m.PendingRecords,
		m.KafkaMessagesProduced,
		m.KafkaMessagesConsumed,
		m.OutboxPending,
		m.CircuitBreakerState,
	)

	return m
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
