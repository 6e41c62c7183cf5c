package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mc-forecast/internal/config"
	"mc-forecast/internal/forecast"
	"mc-forecast/internal/metrics"
	"mc-forecast/internal/simulation"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	defaults := config.SimulationConfig{Simulations: 1000, Confidence: 85, MaxDays: 200, Workers: 1}
	engine := simulation.NewEngine(simulation.Config{MaxDays: defaults.MaxDays})
	rec := metrics.NewRecorder()
	svc := forecast.NewService(engine, defaults, rec).WithClock(func() time.Time {
		return time.Date(2025, 10, 27, 0, 0, 0, 0, time.UTC)
	})
	return NewRouter(svc, rec)
}

func post(t *testing.T, router http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHowMany(t *testing.T) {
	router := newTestRouter(t)
	w := post(t, router, "/v1/forecasts/how-many",
		`{"throughput":[3,5,4,2,6,4,5,3,7,4],"target_date":"2025-11-26","seed":42}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var doc map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "scope", doc["mode"])
	assert.EqualValues(t, 30, doc["days_until_target"])
	assert.EqualValues(t, 42, doc["seed"])
	assert.Contains(t, doc["percentiles"], "P85")
}

func TestWhen(t *testing.T) {
	router := newTestRouter(t)
	w := post(t, router, "/v1/forecasts/when",
		`{"throughput":[3,5,4,2,6,4,5,3,7,4],"items":20,"start_date":"2025-10-27","confidence":50,"seed":1}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var doc map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "duration", doc["mode"])
	assert.EqualValues(t, 20, doc["stories_remaining"])
	assert.NotEmpty(t, doc["completion_date_at_confidence"])
}

func TestValidationErrors(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name      string
		path      string
		body      string
		wantField string
	}{
		{"short history", "/v1/forecasts/when", `{"throughput":[1,2,3],"items":5}`, "throughput"},
		{"negative day", "/v1/forecasts/when", `{"throughput":[1,2,3,4,5,6,7,8,9,-1],"items":5}`, "throughput[9]"},
		{"certainty", "/v1/forecasts/how-many", `{"throughput":[1,2,3,4,5,6,7,8,9,1],"target_date":"2025-11-01","confidence":100}`, "confidence"},
		{"no items", "/v1/forecasts/when", `{"throughput":[1,2,3,4,5,6,7,8,9,1],"items":0}`, "target_items"},
		{"past target", "/v1/forecasts/how-many", `{"throughput":[1,2,3,4,5,6,7,8,9,1],"target_date":"2025-01-01"}`, "target_date"},
		{"horizon beyond max days", "/v1/forecasts/how-many", `{"throughput":[1,2,3,4,5,6,7,8,9,1],"target_date":"2026-10-01"}`, "horizon_days"},
		{"huge daily value", "/v1/forecasts/how-many", `{"throughput":[1,2,3,4,5,6,7,8,9,2305843009213693951],"target_date":"2025-11-01"}`, "throughput[9]"},
		{"zero backtest simulations", "/v1/backtests", `{"throughput":[1,2,3,4,5,6,7,8,9,1,2,3],"horizon_days":2,"simulations":0}`, "num_simulations"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, router, tt.path, tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantField, resp.Field)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestMalformedBody(t *testing.T) {
	router := newTestRouter(t)
	w := post(t, router, "/v1/forecasts/when", `{"throughput":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNonTerminatingIsUnprocessable(t *testing.T) {
	router := newTestRouter(t)
	w := post(t, router, "/v1/forecasts/when", `{"throughput":[0,0,0,0,0,0,0,0,0,0],"items":1}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "not reached")
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)
	post(t, router, "/v1/forecasts/when", `{"throughput":[3,5,4,2,6,4,5,3,7,4],"items":20,"seed":1}`)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `mcforecast_forecasts_total{mode="duration",outcome="ok"} 1`)
}

func TestBacktest(t *testing.T) {
	router := newTestRouter(t)
	w := post(t, router, "/v1/backtests",
		`{"throughput":[2,2,2,2,2,2,2,2,2,2,2,2,2,2,2,2,2,2,2,2],"mode":"when","items":4,"step":3,"seed":1}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "duration", res["mode"])
	assert.EqualValues(t, 1, res["accuracy_score"])
	assert.EqualValues(t, 1, res["seed"])

	w = post(t, router, "/v1/backtests", `{"throughput":[2,2,2,2,2,2,2,2,2,2],"mode":"soon"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
