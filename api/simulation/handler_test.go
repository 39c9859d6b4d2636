package simulation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/iexsim/core/pricing"
	"github.com/kilianp07/iexsim/infra/logger"
	"github.com/kilianp07/iexsim/internal/report"
)

func init() { gin.SetMode(gin.TestMode) }

func newRouter(t *testing.T, def pricing.Config) *gin.Engine {
	t.Helper()
	svc, err := pricing.NewPresetService(def, nil, logger.NopLogger{}, pricing.WithSeed(3))
	require.NoError(t, err)
	return NewRouter(svc, logger.NopLogger{})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

const scenario20 = `{"solar_growth_pct":20,"hydro_growth_pct":20,"wind_growth_pct":20,"other_renewable_growth_pct":20,"confidence_level_pct":%s,"prediction_year":2030}`

func scenarioJSON(level string) string {
	return strings.Replace(scenario20, "%s", level, 1)
}

func TestHealth(t *testing.T) {
	rr := do(t, newRouter(t, pricing.MustPreset(pricing.PresetFull)), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestListPresets(t *testing.T) {
	rr := do(t, newRouter(t, pricing.MustPreset(pricing.PresetFull)), http.MethodGet, "/api/v1/presets", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var out struct {
		Default string          `json:"default"`
		Presets []report.Preset `json:"presets"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Equal(t, pricing.PresetFull, out.Default)
	assert.Len(t, out.Presets, 4)
}

func TestSimulate(t *testing.T) {
	router := newRouter(t, pricing.MustPreset(pricing.PresetFull))
	rr := do(t, router, http.MethodPost, "/api/v1/simulations",
		`{"scenario":`+scenarioJSON("90")+`,"samples":25,"curve_points":11}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var out report.Simulation
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Equal(t, pricing.PresetFull, out.Preset)
	assert.InDelta(t, 4.90, out.MeanPrice, 1e-9)
	assert.InDelta(t, 0.47, out.StdDev, 1e-9)
	require.NotNil(t, out.Interval.LowerBound)
	assert.InDelta(t, 4.90-0.47*1.6448536, *out.Interval.LowerBound, 1e-6)
	require.NotNil(t, out.Accuracy)
	assert.Equal(t, 88.0, *out.Accuracy)
	assert.Len(t, out.Samples, 25)
	assert.Len(t, out.Curve, 11)
	assert.Equal(t, "4.90", out.Display.MeanPrice)
	assert.Equal(t, "4.13", out.Display.LowerBound)
	assert.Equal(t, "5.67", out.Display.UpperBound)
}

func TestSimulate_Unbounded(t *testing.T) {
	rr := do(t, newRouter(t, pricing.MustPreset(pricing.PresetFull)), http.MethodPost, "/api/v1/simulations",
		`{"scenario":`+scenarioJSON("100")+`}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"unbounded":true`)
	assert.Contains(t, rr.Body.String(), `"lower_bound":null`)
}

func TestSimulate_Errors(t *testing.T) {
	router := newRouter(t, pricing.MustPreset(pricing.PresetFull))
	cases := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"malformed", `{"scenario":`, http.StatusBadRequest, report.CodeInvalidInput},
		{"out of range", `{"scenario":{"coal_variation_pct":75,"confidence_level_pct":90,"solar_growth_pct":20,"hydro_growth_pct":20,"wind_growth_pct":20,"other_renewable_growth_pct":20}}`, http.StatusBadRequest, report.CodeInvalidInput},
		{"unknown preset", `{"preset":"nope","scenario":` + scenarioJSON("90") + `}`, http.StatusBadRequest, report.CodeInvalidInput},
		{"too many samples", `{"scenario":` + scenarioJSON("90") + `,"samples":1000000}`, http.StatusBadRequest, report.CodeInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := do(t, router, http.MethodPost, "/api/v1/simulations", tc.body)
			assert.Equal(t, tc.status, rr.Code)
			var out struct {
				Error report.ErrorBody `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
			assert.Equal(t, tc.code, out.Error.Code)
			assert.NotEmpty(t, out.Error.Message)
		})
	}
}

func TestSimulate_Degenerate(t *testing.T) {
	cfg := pricing.MustPreset(pricing.PresetFull)
	cfg.Name = "steep"
	cfg.VolatilityDampening = pricing.Dampening(3)
	rr := do(t, newRouter(t, cfg), http.MethodPost, "/api/v1/simulations", `{"scenario":{"solar_growth_pct":40,"hydro_growth_pct":40,"wind_growth_pct":40,"other_renewable_growth_pct":40,"confidence_level_pct":90}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), report.CodeDegenerate)
}

func TestNotFound(t *testing.T) {
	rr := do(t, newRouter(t, pricing.MustPreset(pricing.PresetFull)), http.MethodGet, "/api/v1/missing", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestErrorHandler_RecoversPanic(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/boom", func(*gin.Context) { panic("boom") })
	rr := do(t, router, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), report.CodeInternal)
}

func TestCORS(t *testing.T) {
	h := NewHandlerWithCORS(newRouter(t, pricing.MustPreset(pricing.PresetFull)), []string{"https://dash.example"})
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/simulations", nil)
	req.Header.Set("Origin", "https://dash.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "https://dash.example", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusServiceUnavailable, StatusFor(context.Canceled))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.New("x")))
}
