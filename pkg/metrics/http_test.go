package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestHTTPMetricsExportsRequests(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewHTTPMetrics(registry)

	m.ObserveRequest(http.MethodGet, "/api/products", http.StatusOK, 30*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/api/products", http.StatusOK, 10*time.Millisecond)
	m.ObserveRequest(http.MethodPost, "/api/products", http.StatusCreated, 120*time.Millisecond)

	mfs, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	count, err := fetchCounterValue(mfs, "http_requests_total", "method", http.MethodGet)
	if err != nil {
		t.Fatalf("fetch requests counter: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 GET requests recorded, got %v", count)
	}

	sum, err := fetchHistogramSum(mfs, "http_request_duration_seconds", "method", http.MethodPost)
	if err != nil {
		t.Fatalf("fetch duration histogram: %v", err)
	}
	if sum <= 0 {
		t.Fatalf("expected positive POST duration sum, got %v", sum)
	}
}

func TestHTTPMetricsNilIsNoop(t *testing.T) {
	var m *HTTPMetrics
	m.ObserveRequest(http.MethodGet, "/x", http.StatusOK, time.Millisecond)

	empty := NewHTTPMetrics(nil)
	empty.ObserveRequest(http.MethodGet, "/x", http.StatusOK, time.Millisecond)
}
