package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics records the aggregation pipeline's throughput and health.
type EngineMetrics struct {
	applied       *prometheus.CounterVec
	rejected      *prometheus.CounterVec
	reconnects    *prometheus.CounterVec
	snapshots     *prometheus.CounterVec
	applyDuration *prometheus.HistogramVec
}

// NewEngineMetrics registers the engine metrics on the provided registerer.
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	if reg == nil {
		return &EngineMetrics{}
	}
	applied := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "events_applied_total",
		Help: "Events folded into the aggregation store.",
	}, []string{"kind", "network"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "events_rejected_total",
		Help: "Events dropped before folding.",
	}, []string{"reason"})
	reconnects := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "channel_reconnects_total",
		Help: "Push channel reconnect attempts.",
	}, []string{"network"})
	snapshots := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "snapshot_loads_total",
		Help: "Snapshot load attempts by outcome.",
	}, []string{"outcome"})
	applyDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "event_apply_duration_seconds",
		Help:    "Time spent folding one event.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	reg.MustRegister(applied, rejected, reconnects, snapshots, applyDuration)
	return &EngineMetrics{
		applied:       applied,
		rejected:      rejected,
		reconnects:    reconnects,
		snapshots:     snapshots,
		applyDuration: applyDuration,
	}
}

// IncApplied counts one folded event.
func (e *EngineMetrics) IncApplied(kind, network string) {
	if e == nil || e.applied == nil {
		return
	}
	e.applied.WithLabelValues(normalizeLabel(kind), normalizeLabel(network)).Inc()
}

// IncRejected counts one dropped event.
func (e *EngineMetrics) IncRejected(reason string) {
	if e == nil || e.rejected == nil {
		return
	}
	e.rejected.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncReconnect counts one channel reconnect attempt.
func (e *EngineMetrics) IncReconnect(network string) {
	if e == nil || e.reconnects == nil {
		return
	}
	e.reconnects.WithLabelValues(normalizeLabel(network)).Inc()
}

// IncSnapshotLoad counts one snapshot load by outcome.
func (e *EngineMetrics) IncSnapshotLoad(outcome string) {
	if e == nil || e.snapshots == nil {
		return
	}
	e.snapshots.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveApply records the fold duration for one event kind.
func (e *EngineMetrics) ObserveApply(kind string, duration time.Duration) {
	if e == nil || e.applyDuration == nil {
		return
	}
	e.applyDuration.WithLabelValues(normalizeLabel(kind)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
