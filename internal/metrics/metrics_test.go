package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc := NewService(reg)

	svc.ObserveRequest(http.MethodGet, "/api/games", http.StatusOK, 0.01)
	svc.ObserveRequest(http.MethodGet, "/api/games/search", http.StatusBadRequest, 0.002)
	svc.IncGameSearch("Kyiv", 2)
	svc.IncGameSearch("Atlantis", 0)
	svc.IncFieldMutation("create")

	assert.Equal(t, 1.0, testutil.ToFloat64(svc.RequestsTotal.WithLabelValues("GET", "/api/games", "2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.RequestsTotal.WithLabelValues("GET", "/api/games/search", "4xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.GameSearches.WithLabelValues("Kyiv", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.GameSearches.WithLabelValues("Atlantis", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.FieldMutations.WithLabelValues("create")))
}

func TestMetricsHandlerExposesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc := NewService(reg)
	svc.SetStartupTime(1.5)

	rr := httptest.NewRecorder()
	NewMetricsHandler(reg).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body, _ := io.ReadAll(rr.Body)
	assert.Contains(t, string(body), "teamer_startup_duration_seconds 1.5")
}
