package ops

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/storekit/priceindex/pkg/logger"
	"github.com/storekit/priceindex/pkg/metrics"
)

type stubPinger struct {
	err error
}

func (p *stubPinger) Ping(ctx context.Context) error {
	return p.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{Level: zerolog.ErrorLevel, Output: io.Discard})
}

func newTestServer(t *testing.T, dbErr, redisErr error, gatherer prometheus.Gatherer) *Server {
	t.Helper()
	server, err := NewServer(ServerParams{
		Logger:   testLogger(),
		DB:       &stubPinger{err: dbErr},
		Redis:    &stubPinger{err: redisErr},
		Gatherer: gatherer,
		Port:     "0",
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return server
}

func TestHealthzOK(t *testing.T) {
	server := newTestServer(t, nil, nil, nil)

	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), `"db":"ok"`) {
		t.Fatalf("expected db ok, got %s", recorder.Body.String())
	}
}

func TestHealthzFailingDependency(t *testing.T) {
	server := newTestServer(t, nil, errors.New("redis down"), nil)

	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if recorder.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", recorder.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	registry := prometheus.NewRegistry()
	reindexMetrics := metrics.NewReindexMetrics(registry)
	reindexMetrics.IncSuccess("full")

	server := newTestServer(t, nil, nil, registry)

	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "reindex") {
		t.Fatal("expected reindex metrics in exposition")
	}
}
