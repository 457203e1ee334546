package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestRequestMetricsNilReceiverIsSafe(t *testing.T) {
	t.Parallel()

	var m *RequestMetrics
	m.ObserveRequest("GET", "/api/products", 200, time.Millisecond)
}

func TestRequestMetricsRegistersBothVecs(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewRequestMetrics(reg)

	m.ObserveRequest("POST", "/api/order", 201, 40*time.Millisecond)
	m.ObserveRequest("", "", 500, time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	names := map[string]bool{}
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	if !names["http_requests_total"] || !names["http_request_duration_seconds"] {
		t.Fatalf("expected request metrics registered, got %v", names)
	}

	for _, mf := range families {
		if mf.GetName() != "http_requests_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetValue() == "" {
					t.Fatalf("expected empty labels normalized, got %v", metric.GetLabel())
				}
			}
		}
	}
}
