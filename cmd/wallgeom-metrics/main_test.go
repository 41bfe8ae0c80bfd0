package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wallcore/geom/cache"
)

func TestHealthEndpointReturnsOK(t *testing.T) {
	r := newRouter()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestMetricsEndpointExposesPrometheusFormat(t *testing.T) {
	ObserveCacheStats(cache.Stats{Hits: 9, Misses: 1, EntriesTracked: 3})

	r := newRouter()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "wallgeom_cache_hit_rate") {
		t.Errorf("expected wallgeom_cache_hit_rate in /metrics output")
	}
}
