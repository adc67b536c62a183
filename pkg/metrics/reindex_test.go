package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestReindexMetricsCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewReindexMetrics(reg)

	m.IncSuccess("full")
	m.IncSuccess("full")
	m.IncFailure("rows")
	m.AddRowsWritten("full", 120)
	m.ObserveDuration("full", 2*time.Second)

	if got := testutil.ToFloat64(m.success.WithLabelValues("full")); got != 2 {
		t.Fatalf("expected 2 successes, got %v", got)
	}
	if got := testutil.ToFloat64(m.failure.WithLabelValues("rows")); got != 1 {
		t.Fatalf("expected 1 failure, got %v", got)
	}
	if got := testutil.ToFloat64(m.rows.WithLabelValues("full")); got != 120 {
		t.Fatalf("expected 120 rows, got %v", got)
	}
}

func TestReindexMetricsNilSafe(t *testing.T) {
	var m *ReindexMetrics
	m.IncSuccess("full")
	m.IncFailure("full")
	m.AddRowsWritten("full", 1)
	m.ObserveDuration("full", time.Second)

	unregistered := NewReindexMetrics(nil)
	unregistered.IncSuccess("full")
}

func TestNormalizeLabel(t *testing.T) {
	if normalizeLabel("") != "unknown" {
		t.Fatal("empty mode should normalize to unknown")
	}
	if normalizeLabel("rows") != "rows" {
		t.Fatal("non-empty mode should pass through")
	}
}
