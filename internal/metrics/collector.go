// Package wiremetrics exposes the Prometheus series for the pubsubwire
// codec, authenticator, and replay store.
package wiremetrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// -------------------------------------------------------------------------
// Prometheus Metric Constants
// -------------------------------------------------------------------------

const (
	namespace = "pubsubwire"
)

// Label names.
const (
	labelDirection = "direction" // "s2b" or "b2s"
	labelType      = "type"      // message type name
	labelReason    = "reason"
	labelOperation = "operation"
	labelOutcome   = "outcome"
)

// -------------------------------------------------------------------------
// Collector — Prometheus pubsubwire Metrics
// -------------------------------------------------------------------------

// Collector holds every pubsubwire Prometheus metric.
//
//   - CodecMessages counts frames successfully parsed, by direction and type.
//   - CodecErrors counts frames rejected by the codec, by direction and
//     failure reason (truncated, malformed, unsupported_type).
//   - AuthOutcomes counts Is<Op>Allowed results, by operation and outcome.
//   - ReplayConflicts counts MarkCodeUsed calls that found an existing row.
//   - ReplayStoreSize gauges the current row count of the replay store, when
//     the backend can report one cheaply (SQLiteStore only).
type Collector struct {
	CodecMessages   *prometheus.CounterVec
	CodecErrors     *prometheus.CounterVec
	AuthOutcomes    *prometheus.CounterVec
	ReplayConflicts *prometheus.CounterVec
	ReplayStoreSize prometheus.Gauge
}

// NewCollector creates a Collector with all pubsubwire metrics registered
// against the provided prometheus.Registerer. If reg is nil,
// prometheus.DefaultRegisterer is used.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := newMetrics()

	reg.MustRegister(
		c.CodecMessages,
		c.CodecErrors,
		c.AuthOutcomes,
		c.ReplayConflicts,
		c.ReplayStoreSize,
	)

	return c
}

// newMetrics creates all Prometheus metric vectors without registering them.
func newMetrics() *Collector {
	return &Collector{
		CodecMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "codec_messages_total",
			Help:      "Total wire frames successfully parsed, by direction and message type.",
		}, []string{labelDirection, labelType}),

		CodecErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "codec_errors_total",
			Help:      "Total wire frames rejected by the codec, by direction and failure reason.",
		}, []string{labelDirection, labelReason}),

		AuthOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_outcomes_total",
			Help:      "Total Is<Op>Allowed results, by operation and outcome.",
		}, []string{labelOperation, labelOutcome}),

		ReplayConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "replay_conflicts_total",
			Help:      "Total MarkCodeUsed calls that found an HMAC digest already recorded.",
		}, []string{labelOperation}),

		ReplayStoreSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "replay_store_size",
			Help:      "Current row count of the replay store, when cheaply reportable.",
		}),
	}
}

// -------------------------------------------------------------------------
// Codec
// -------------------------------------------------------------------------

// IncCodecMessage records a successfully parsed frame.
func (c *Collector) IncCodecMessage(direction, msgType string) {
	c.CodecMessages.WithLabelValues(direction, msgType).Inc()
}

// IncCodecError records a rejected frame.
func (c *Collector) IncCodecError(direction, reason string) {
	c.CodecErrors.WithLabelValues(direction, reason).Inc()
}

// -------------------------------------------------------------------------
// Authentication
// -------------------------------------------------------------------------

// IncAuthOutcome records an Is<Op>Allowed result.
func (c *Collector) IncAuthOutcome(operation, outcome string) {
	c.AuthOutcomes.WithLabelValues(operation, outcome).Inc()
}

// -------------------------------------------------------------------------
// Replay
// -------------------------------------------------------------------------

// IncReplayConflict records a MarkCodeUsed call that hit an existing row.
func (c *Collector) IncReplayConflict(operation string) {
	c.ReplayConflicts.WithLabelValues(operation).Inc()
}

// SetReplayStoreSize updates the replay store row-count gauge.
func (c *Collector) SetReplayStoreSize(n float64) {
	c.ReplayStoreSize.Set(n)
}
