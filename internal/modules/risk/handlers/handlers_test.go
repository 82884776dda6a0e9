package handlers

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aristath/cryptorisk/internal/domain"
	testutil "github.com/aristath/cryptorisk/internal/testing"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func setupRouter(t *testing.T) *chi.Mux {
	t.Helper()
	classifier := domain.NewClassifier(map[string]domain.VolatilityClass{"BONK": domain.ClassAltCoin})
	handler := NewHandler(testutil.NewTestAnalysisService(), classifier, 42, zerolog.Nop())
	router := chi.NewRouter()
	router.Route("/api", handler.RegisterRoutes)
	return router
}

func post(t *testing.T, router http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleProfile_DirectReturns(t *testing.T) {
	router := setupRouter(t)

	w := post(t, router, "/api/risk/profile", `{
		"weights": {"A": 0.5, "B": 0.5},
		"returns": {"A": [0.01, -0.02, 0.03, -0.01], "B": [0.01, -0.02, 0.03, -0.01]},
		"total_value_usd": 1000,
		"risk_free_rate": 0
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data ProfileResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Data.RiskProfile.Periods)
	assert.InDelta(t, 0.5, resp.Data.Concentration.HHI, 1e-12)
	assert.Equal(t, domain.DiversificationLow, resp.Data.RiskProfile.DiversificationLabel)
	assert.LessOrEqual(t, resp.Data.RiskProfile.VaR95, 0.0)
	assert.LessOrEqual(t, resp.Data.RiskProfile.CVaR95, resp.Data.RiskProfile.VaR95)
	assert.InDelta(t, resp.Data.RiskProfile.VaR95*1000, resp.Data.RiskProfile.VaR95USD, 1e-9)
	assert.True(t, resp.Data.RiskProfile.SharpeDefined)
	assert.Equal(t, 2, resp.Data.PositionStats.NumTokens)
}

func TestHandleProfile_Portfolio(t *testing.T) {
	router := setupRouter(t)

	w := post(t, router, "/api/risk/profile", `{
		"portfolio": {"holdings": [
			{"token_symbol": "SOL", "quantity": 10, "unit_price_usd": 20},
			{"token_symbol": "USDC", "quantity": 1000, "unit_price_usd": 1}
		]}
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data ProfileResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 1.0/6, resp.Data.Weights["SOL"], 1e-12)
	assert.Equal(t, 252, resp.Data.RiskProfile.Periods)
	assert.Equal(t, domain.DiversificationLow, resp.Data.Concentration.Label)
}

func TestHandleProfile_ConstantSeriesLeavesSharpeUndefined(t *testing.T) {
	router := setupRouter(t)

	w := post(t, router, "/api/risk/profile", `{
		"weights": {"A": 1},
		"returns": {"A": [0.01, 0.01, 0.01]}
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data ProfileResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Data.RiskProfile.SharpeDefined)
	assert.Equal(t, 0.0, resp.Data.RiskProfile.SharpeRatio)
}

func TestHandleProfile_ErrorStatuses(t *testing.T) {
	router := setupRouter(t)

	testCases := []struct {
		name string
		body string
		want int
	}{
		{"no input", `{}`, http.StatusBadRequest},
		{"returns without weights", `{"returns": {"A": [0.1, 0.2]}}`, http.StatusBadRequest},
		{"weights do not sum to one", `{"weights": {"A": 0.4}, "returns": {"A": [0.1, 0.2]}}`, http.StatusUnprocessableEntity},
		{"unknown field", `{"weights": {"A": 1}, "bogus": true}`, http.StatusBadRequest},
		{"negative total value", `{"weights": {"A": 1}, "returns": {"A": [0.1, 0.2]}, "total_value_usd": -5}`, http.StatusBadRequest},
		{"horizon too long", `{"portfolio": {"holdings": [{"token_symbol": "SOL", "quantity": 1, "unit_price_usd": 20}]}, "horizon": 100000000}`, http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := post(t, router, "/api/risk/profile", tc.body)
			assert.Equal(t, tc.want, w.Code, w.Body.String())
		})
	}
}

func TestHandleProfile_MsgpackNonFiniteInput(t *testing.T) {
	router := setupRouter(t)

	testCases := []struct {
		name string
		req  ProfileRequest
	}{
		{"nan weight", ProfileRequest{
			Weights: domain.WeightVector{"SOL": math.NaN()},
			Returns: domain.ReturnSet{"SOL": {0.01, -0.02, 0.03}},
		}},
		{"nan return", ProfileRequest{
			Weights: domain.WeightVector{"SOL": 1},
			Returns: domain.ReturnSet{"SOL": {0.01, math.NaN(), 0.03}},
		}},
		{"infinite total value", ProfileRequest{
			Weights:       domain.WeightVector{"SOL": 1},
			Returns:       domain.ReturnSet{"SOL": {0.01, -0.02, 0.03}},
			TotalValueUSD: math.Inf(1),
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			body, err := msgpack.Marshal(tc.req)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/api/risk/profile", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/msgpack")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestHandleCorrelation_DirectReturns(t *testing.T) {
	router := setupRouter(t)

	w := post(t, router, "/api/risk/correlation", `{
		"returns": {
			"A": [0.01, 0.02, 0.03, 0.04],
			"B": [0.02, 0.04, 0.06, 0.08],
			"C": [0.01, 0.01, 0.01, 0.01]
		}
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "null")

	var resp struct {
		Data CorrelationResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	v, ok := resp.Data.Matrix.At("A", "B")
	require.True(t, ok)
	assert.InDelta(t, 1.0, v, 1e-12)
	_, ok = resp.Data.Matrix.At("A", "C")
	assert.False(t, ok)
	assert.Equal(t, 1, resp.Data.Insights.DefinedPairs)
	assert.Equal(t, 2, resp.Data.Insights.UndefinedPairs)
}

func TestHandleCorrelation_Portfolio(t *testing.T) {
	router := setupRouter(t)

	w := post(t, router, "/api/risk/correlation", `{
		"portfolio": {"holdings": [
			{"token_symbol": "SOL", "quantity": 10, "unit_price_usd": 20},
			{"token_symbol": "USDC", "quantity": 1000, "unit_price_usd": 1}
		]},
		"horizon": 30
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data CorrelationResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"SOL", "USDC"}, resp.Data.Matrix.Symbols)
	v, ok := resp.Data.Matrix.At("SOL", "SOL")
	assert.True(t, ok)
	assert.Equal(t, 1.0, v)
}

func TestHandleCorrelation_ErrorStatuses(t *testing.T) {
	router := setupRouter(t)

	testCases := []struct {
		name string
		body string
		want int
	}{
		{"no input", `{}`, http.StatusBadRequest},
		{"single period", `{"returns": {"A": [0.1], "B": [0.2]}}`, http.StatusBadRequest},
		{"misaligned", `{"returns": {"A": [0.1, 0.2], "B": [0.2]}}`, http.StatusUnprocessableEntity},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := post(t, router, "/api/risk/correlation", tc.body)
			assert.Equal(t, tc.want, w.Code, w.Body.String())
		})
	}
}

func TestHandleClassify(t *testing.T) {
	router := setupRouter(t)

	testCases := []struct {
		symbol string
		class  domain.VolatilityClass
		stdDev float64
	}{
		{"USDC", domain.ClassStablecoin, 0.001},
		{"SOL", domain.ClassMajorCap, 0.03},
		{"BONK", domain.ClassAltCoin, 0.06},
		{"XYZ", domain.ClassOther, 0.05},
	}

	for _, tc := range testCases {
		t.Run(tc.symbol, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/risk/classify/"+tc.symbol, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var resp struct {
				Data ClassificationResponse `json:"data"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tc.class, resp.Data.Class)
			assert.Equal(t, tc.stdDev, resp.Data.DailyStdDev)
		})
	}
}

func TestRegisterRoutes(t *testing.T) {
	handler := NewHandler(testutil.NewTestAnalysisService(), nil, 42, zerolog.Nop())
	router := chi.NewRouter()

	assert.NotPanics(t, func() {
		handler.RegisterRoutes(router)
	})
}
