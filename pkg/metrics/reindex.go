package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ReindexMetrics records metadata for price index runs.
type ReindexMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	rows     *prometheus.CounterVec
}

// NewReindexMetrics registers the reindex metrics on the provided registerer.
func NewReindexMetrics(reg prometheus.Registerer) *ReindexMetrics {
	if reg == nil {
		return &ReindexMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "price_reindex_duration_seconds",
		Help:    "Duration of price reindex runs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"mode"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "price_reindex_success",
		Help: "Successful price reindex runs.",
	}, []string{"mode"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "price_reindex_failure",
		Help: "Failed price reindex runs.",
	}, []string{"mode"})
	rows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "price_reindex_rows_written",
		Help: "Price rows written into index tables.",
	}, []string{"mode"})
	reg.MustRegister(duration, success, failure, rows)
	return &ReindexMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
		rows:     rows,
	}
}

// ObserveDuration records the duration for the given run mode.
func (m *ReindexMetrics) ObserveDuration(mode string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(mode)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the given run mode.
func (m *ReindexMetrics) IncSuccess(mode string) {
	if m == nil || m.success == nil {
		return
	}
	m.success.WithLabelValues(normalizeLabel(mode)).Inc()
}

// IncFailure increments the failure counter for the given run mode.
func (m *ReindexMetrics) IncFailure(mode string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(mode)).Inc()
}

// AddRowsWritten counts index rows written for the given run mode.
func (m *ReindexMetrics) AddRowsWritten(mode string, count int) {
	if m == nil || m.rows == nil || count <= 0 {
		return
	}
	m.rows.WithLabelValues(normalizeLabel(mode)).Add(float64(count))
}

func normalizeLabel(mode string) string {
	if mode == "" {
		return "unknown"
	}
	return mode
}
