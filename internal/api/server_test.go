package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statbook/internal"
	"statbook/internal/config"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Server: config.ServerConfig{Port: "0", GinMode: gin.TestMode},
		Engine: config.EngineConfig{DefaultSeed: 42, BootstrapBatch: 50, MaxSampleSize: 1000},
		Sim:    config.SimConfig{MaxConcurrent: 2, MaxTrials: 20000},
	}
	return NewServer(cfg, internal.NewLogger(internal.LogLevelError))
}

func postJSON(t *testing.T, s *Server, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func decodeResult(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope struct {
		RequestID string                 `json:"request_id"`
		Result    map[string]interface{} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.RequestID)
	return envelope.Result
}

func TestHealth(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGenerateNormal_SeededReproducibility(t *testing.T) {
	s := testServer(t)
	body := map[string]interface{}{"n": 20, "mean": 100, "sd": 15, "seed": 7}

	w1 := postJSON(t, s, "/api/v1/samples/normal", body)
	require.Equal(t, http.StatusOK, w1.Code)
	w2 := postJSON(t, s, "/api/v1/samples/normal", body)
	require.Equal(t, http.StatusOK, w2.Code)

	r1 := decodeResult(t, w1)
	r2 := decodeResult(t, w2)
	assert.Equal(t, r1["sample"], r2["sample"])
	assert.Equal(t, float64(7), r1["seed"])
}

func TestGenerateNormal_RejectsOversizedRequest(t *testing.T) {
	s := testServer(t)
	w := postJSON(t, s, "/api/v1/samples/normal", map[string]interface{}{"n": 100000, "sd": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestANOVARoute(t *testing.T) {
	s := testServer(t)
	w := postJSON(t, s, "/api/v1/tests/anova", map[string]interface{}{
		"groups": [][]float64{{85, 86, 88, 75, 78}, {78, 79, 80, 81, 77}, {60, 64, 70, 72, 68}},
	})
	require.Equal(t, http.StatusOK, w.Code)

	result := decodeResult(t, w)
	assert.Greater(t, result["f"].(float64), 1.0)
	assert.Less(t, result["p"].(float64), 0.05)
}

func TestANOVARoute_DegenerateInputIsBadRequest(t *testing.T) {
	s := testServer(t)
	w := postJSON(t, s, "/api/v1/tests/anova", map[string]interface{}{
		"groups": [][]float64{{1, 2, 3}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var errBody map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errBody))
	assert.Equal(t, "DEGENERATE_INPUT", errBody["code"])
}

func TestModeratedRegression_SingularIsUnprocessable(t *testing.T) {
	s := testServer(t)
	zeros := make([]float64, 30)
	x := make([]float64, 30)
	y := make([]float64, 30)
	for i := range x {
		x[i] = float64(i)
		y[i] = float64(i % 7)
	}
	w := postJSON(t, s, "/api/v1/regression/moderated", map[string]interface{}{
		"z": zeros, "x": x, "y": y,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestContrastEstimateRoute(t *testing.T) {
	s := testServer(t)
	w := postJSON(t, s, "/api/v1/contrasts/estimate", map[string]interface{}{
		"weights": []float64{1, 1, -2},
		"means":   []float64{85, 79, 68},
	})
	require.Equal(t, http.StatusOK, w.Code)
	result := decodeResult(t, w)
	assert.Equal(t, 28.0, result["estimate"].(float64))
}

func TestThresholdsRoute(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sequential/thresholds?stages=3", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	result := decodeResult(t, w)
	pocock := result["pocock"].([]interface{})
	require.Len(t, pocock, 3)
	assert.Equal(t, 0.0221, pocock[0].(float64))
}

func TestBootstrapRoute_Deterministic(t *testing.T) {
	s := testServer(t)
	n := 40
	x := make([]float64, n)
	m := make([]float64, n)
	y := make([]float64, n)
	for i := range x {
		x[i] = float64(i)
		m[i] = 0.5*x[i] + float64((i*13)%5)
		y[i] = 0.7*m[i] + float64((i*7)%3)
	}
	body := map[string]interface{}{"x": x, "m": m, "y": y, "replicates": 100, "seed": 5}

	w1 := postJSON(t, s, "/api/v1/bootstrap/mediation", body)
	require.Equal(t, http.StatusOK, w1.Code)
	w2 := postJSON(t, s, "/api/v1/bootstrap/mediation", body)
	require.Equal(t, http.StatusOK, w2.Code)

	r1 := decodeResult(t, w1)
	r2 := decodeResult(t, w2)
	assert.Equal(t, r1["replicates"], r2["replicates"])
	assert.NotNil(t, r1["ci"])
}

func TestMalformedBodyIsBadRequest(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tests/welch", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
