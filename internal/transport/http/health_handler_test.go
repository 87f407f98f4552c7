package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "maintcli/internal/errors"
	"maintcli/internal/services"
	"maintcli/internal/shared/testutil"
)

func loadedService(t *testing.T) *services.AnalysisService {
	t.Helper()
	path := testutil.WriteFile(t, "interventions.csv", testutil.DirtyInterventionsCSV)
	svc := services.NewAnalysisService(path, nil, nil, quietLogger())
	require.NoError(t, svc.Load(context.Background()))
	return svc
}

func TestHealthHandler_HealthCheck(t *testing.T) {
	tests := []struct {
		name       string
		analysis   func(t *testing.T) *services.AnalysisService
		wantStatus int
		wantBody   string
	}{
		{
			name:       "loaded",
			analysis:   loadedService,
			wantStatus: http.StatusOK,
			wantBody:   "ok",
		},
		{
			name: "not loaded",
			analysis: func(t *testing.T) *services.AnalysisService {
				return services.NewAnalysisService("absent.csv", nil, nil, quietLogger())
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "degraded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hs := services.NewHealthService("v1.0.0-test", tt.analysis(t), nil, quietLogger())
			h := NewHealthHandler(hs, quietLogger())

			rec, body := doGet(t, http.HandlerFunc(h.HealthCheck), "/healthz")

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantBody, body["status"])
			assert.Equal(t, "v1.0.0-test", body["version"])
		})
	}
}

func TestHealthHandler_Version(t *testing.T) {
	h := NewHealthHandler(services.NewHealthService("v2", nil, nil, quietLogger()), nil)

	rec, body := doGet(t, http.HandlerFunc(h.Version), "/version")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "v2", body["version"])
	assert.Contains(t, body, "go_version")
}

func TestMetricsHandler(t *testing.T) {
	custom := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("custom_metric 1\n"))
	})
	rec := httptest.NewRecorder()
	NewMetricsHandler(custom).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, "custom_metric 1\n", rec.Body.String())

	rec = httptest.NewRecorder()
	NewMetricsHandler(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "go_goroutines"))
}

// End to end over the real service and the dirty fixture
func TestAnalysisHandler_WithLoadedService(t *testing.T) {
	logger := quietLogger()
	r := chi.NewRouter()
	r.Mount("/api/v1", NewAnalysisHandler(loadedService(t), logger, apierrors.NewErrorHandler(logger, false)).Routes())

	t.Run("summary", func(t *testing.T) {
		rec, body := doGet(t, r, "/api/v1/summary")
		require.Equal(t, http.StatusOK, rec.Code)
		summary := body["summary"].(map[string]interface{})
		assert.Equal(t, float64(3), summary["machines"])
		assert.Equal(t, float64(4), summary["interventions"])
	})

	t.Run("machine filter", func(t *testing.T) {
		rec, body := doGet(t, r, "/api/v1/machines?machine=PRESS-01")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(1), body["count"])
	})

	t.Run("cleaning report", func(t *testing.T) {
		rec, body := doGet(t, r, "/api/v1/cleaning/report")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(5), body["total_records"])
		assert.Equal(t, float64(1), body["missing_identifiers"])
	})

	t.Run("count basis", func(t *testing.T) {
		rec, body := doGet(t, r, "/api/v1/pareto?basis=count")
		require.Equal(t, http.StatusOK, rec.Code)
		entries := body["entries"].([]interface{})
		require.NotEmpty(t, entries)
		first := entries[0].(map[string]interface{})
		assert.Equal(t, float64(2), first["value"])
	})
}
