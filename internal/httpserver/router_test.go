package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"toolhaven/internal/config"
	"toolhaven/internal/email"
	"toolhaven/pkg/errs"
)

func degradedRouter() http.Handler {
	lg := zap.NewNop().Sugar()
	return NewRouter(nil, lg, config.Config{}, email.NewService("", "", "", lg))
}

func TestDegradedModeServesVisibleErrorNotPanic(t *testing.T) {
	r := degradedRouter()
	for _, path := range []string{"/v1/blogs", "/v1/tools", "/v1/auth/login", "/v1/admin/users"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		require.Equal(t, http.StatusServiceUnavailable, rec.Code, "path %s", path)
		var env struct {
			Error struct {
				Kind errs.Kind `json:"kind"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		assert.Equal(t, errs.KindBackend, env.Error.Kind)
	}
}

func TestHealthzReportsDegraded(t *testing.T) {
	rec := httptest.NewRecorder()
	degradedRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, "down", body["database"])
}

func TestMetricsEndpointUpEvenWhenDegraded(t *testing.T) {
	rec := httptest.NewRecorder()
	degradedRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
