package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/shadeworks/storefront/pkg/metrics"
)

func TestMetricsRecordsRoutePatternAndStatus(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	m := metrics.NewRequestMetrics(registry)

	r := chi.NewRouter()
	r.Use(Metrics(m))
	r.Get("/api/admin/v1/products/{productId}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/products/7", nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	var requests *dto.MetricFamily
	for _, mf := range families {
		if mf.GetName() == "http_requests_total" {
			requests = mf
		}
	}
	if requests == nil {
		t.Fatal("request counter not registered")
	}

	labels := map[string]string{}
	metric := requests.GetMetric()[0]
	for _, label := range metric.GetLabel() {
		labels[label.GetName()] = label.GetValue()
	}
	if labels["route"] != "/api/admin/v1/products/{productId}" {
		t.Fatalf("expected route pattern label, got %q", labels["route"])
	}
	if labels["status"] != "404" {
		t.Fatalf("expected status label 404, got %q", labels["status"])
	}
	if metric.GetCounter().GetValue() != 2 {
		t.Fatalf("expected 2 requests counted, got %f", metric.GetCounter().GetValue())
	}
}

func TestMetricsNilCollectorPassesThrough(t *testing.T) {
	t.Parallel()

	r := chi.NewRouter()
	r.Use(Metrics(nil))
	hits := 0
	r.Get("/api/products", func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))

	if rec.Code != http.StatusOK || hits != 1 {
		t.Fatalf("expected handler served without metrics, got %d hits=%d", rec.Code, hits)
	}
}
