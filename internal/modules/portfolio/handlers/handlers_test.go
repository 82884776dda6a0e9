package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aristath/cryptorisk/internal/api"
	"github.com/aristath/cryptorisk/internal/modules/portfolio"
	testutil "github.com/aristath/cryptorisk/internal/testing"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

const solUsdcBody = `{"portfolio": {"holdings": [
	{"token_symbol": "SOL", "quantity": 10, "unit_price_usd": 20},
	{"token_symbol": "USDC", "quantity": 1000, "unit_price_usd": 1}
]}}`

func setupRouter(t *testing.T) *chi.Mux {
	t.Helper()
	db, cleanup := testutil.NewTestDB(t, "snapshots")
	t.Cleanup(cleanup)

	repo := portfolio.NewSnapshotRepository(db.Conn(), zerolog.Nop())
	service := portfolio.NewPortfolioService(repo, testutil.NewTestAnalysisService(), zerolog.Nop())
	handler := NewHandler(service, zerolog.Nop())

	router := chi.NewRouter()
	router.Route("/api", handler.RegisterRoutes)
	return router
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSubmitAndLatest(t *testing.T) {
	router := setupRouter(t)

	w := do(t, router, http.MethodPost, "/api/snapshots/wallet-1", solUsdcBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Data portfolio.Snapshot `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.Data.ID)
	assert.Equal(t, "1200", created.Data.TotalValueUSD.String())

	w = do(t, router, http.MethodGet, "/api/snapshots/wallet-1/latest", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var latest struct {
		Data portfolio.Snapshot `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &latest))
	assert.Equal(t, created.Data.ID, latest.Data.ID)
	assert.Len(t, latest.Data.Portfolio.Holdings, 2)
}

func TestSubmit_RejectsEmptyPortfolio(t *testing.T) {
	router := setupRouter(t)

	w := do(t, router, http.MethodPost, "/api/snapshots/wallet-1", `{"portfolio": {"holdings": []}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLatest_NotFound(t *testing.T) {
	router := setupRouter(t)

	w := do(t, router, http.MethodGet, "/api/snapshots/nobody/latest", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, http.MethodGet, "/api/snapshots/nobody/analysis", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHistoryAndWallets(t *testing.T) {
	router := setupRouter(t)

	for _, wallet := range []string{"a", "a", "b"} {
		w := do(t, router, http.MethodPost, "/api/snapshots/"+wallet, solUsdcBody)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := do(t, router, http.MethodGet, "/api/snapshots/a?limit=1", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var history struct {
		Data []portfolio.Snapshot `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	assert.Len(t, history.Data, 1)

	w = do(t, router, http.MethodGet, "/api/snapshots/a?limit=zero", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodGet, "/api/snapshots/", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var wallets struct {
		Data struct {
			Wallets []string `json:"wallets"`
			Count   int      `json:"count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &wallets))
	assert.Equal(t, []string{"a", "b"}, wallets.Data.Wallets)
	assert.Equal(t, 2, wallets.Data.Count)
}

func TestAnalyzeLatest(t *testing.T) {
	router := setupRouter(t)

	w := do(t, router, http.MethodPost, "/api/snapshots/w", solUsdcBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, router, http.MethodPost, "/api/snapshots/w/analysis",
		`{"scenarios": [{"label": "crash", "type": "market_shock", "shock_multiplier": -0.5}]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data portfolio.SnapshotAnalysis `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Data.Analysis)
	assert.InDelta(t, 0.7222, resp.Data.Analysis.Concentration.HHI, 1e-4)
	assert.Len(t, resp.Data.Analysis.Scenarios, 1)

	w = do(t, router, http.MethodGet, "/api/snapshots/w/analysis", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestLatest_Msgpack(t *testing.T) {
	router := setupRouter(t)

	w := do(t, router, http.MethodPost, "/api/snapshots/w", solUsdcBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/api/snapshots/w/latest", nil)
	req.Header.Set("Accept", api.ContentTypeMsgpack)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, api.ContentTypeMsgpack, rec.Header().Get("Content-Type"))

	var resp struct {
		Data portfolio.Snapshot `msgpack:"data"`
	}
	require.NoError(t, msgpack.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "w", resp.Data.Wallet)
	assert.Len(t, resp.Data.Portfolio.Holdings, 2)
}
