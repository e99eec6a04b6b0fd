package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rdelorme/vaultlens/internal/analytics"
	"github.com/rdelorme/vaultlens/internal/external/morpho"
	"github.com/rdelorme/vaultlens/internal/vault"
	"github.com/rdelorme/vaultlens/pkg/logger"
	"github.com/rdelorme/vaultlens/pkg/redis"
)

const testAddress = "0x1111111111111111111111111111111111111111"

type fakeAPI struct {
	history []morpho.HistoryPoint
	histErr error
	vault   *morpho.Vault
	curator *morpho.Curator
	vaults  []morpho.Vault
}

func (f *fakeAPI) History(ctx context.Context, address string, chainID int64, bounds morpho.TimeRange) ([]morpho.HistoryPoint, error) {
	if f.histErr != nil {
		return nil, f.histErr
	}
	return f.history, nil
}

func (f *fakeAPI) VaultDetails(ctx context.Context, address string, chainID int64) (*morpho.Vault, error) {
	if f.vault == nil {
		return nil, morpho.ErrVaultNotFound
	}
	return f.vault, nil
}

func (f *fakeAPI) ResolveCurator(ctx context.Context, query string) (*morpho.Curator, error) {
	return f.curator, nil
}

func (f *fakeAPI) VaultsForCurator(ctx context.Context, curatorID string, limit int) ([]morpho.Vault, error) {
	return f.vaults, nil
}

func newTestRouter(t *testing.T, api *fakeAPI) http.Handler {
	t.Helper()
	log := logger.NewNop()
	svc := vault.NewService(api, redis.NewCache(redis.NewDisabled(), "test"), log)

	r := mux.NewRouter()
	vh := NewVaultHandler(svc, "https://app.morpho.org", log)
	ch := NewCuratorHandler(svc, log)
	r.HandleFunc("/api/networks", vh.GetNetworks).Methods("GET")
	r.HandleFunc("/api/vaults/{chainId}/{address}/summary", vh.GetSummary).Methods("GET")
	r.HandleFunc("/api/vaults/{chainId}/{address}/history", vh.GetHistory).Methods("GET")
	r.HandleFunc("/api/vaults/{chainId}/{address}", vh.GetOverview).Methods("GET")
	r.HandleFunc("/api/curators/{query}", ch.GetCurator).Methods("GET")
	return r
}

func dailyHistory(days int) []morpho.HistoryPoint {
	base := time.Now().UTC().AddDate(0, 0, -days)
	points := make([]morpho.HistoryPoint, 0, days+1)
	for i := 0; i <= days; i++ {
		points = append(points, morpho.HistoryPoint{
			Timestamp:     base.AddDate(0, 0, i),
			SharePriceUSD: 1.0 + float64(i)*0.001,
			TVLUSD:        1000 * (1.0 + float64(i)*0.001),
		})
	}
	return points
}

func doRequest(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGetSummary(t *testing.T) {
	router := newTestRouter(t, &fakeAPI{history: dailyHistory(30)})

	rec := doRequest(t, router, "/api/vaults/1/"+testAddress+"/summary?range=7d")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp summaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, int64(1), resp.ChainID)
	assert.Equal(t, "ethereum", resp.Network)
	assert.Equal(t, "https://app.morpho.org/ethereum/vault/"+testAddress, resp.MorphoURL)
	require.NotNil(t, resp.Summary)
	assert.Greater(t, resp.Summary.PnLAbsoluteUSD, 0.0)
	assert.Empty(t, resp.Warnings)
}

func TestGetSummary_AdjustedRangeWarning(t *testing.T) {
	router := newTestRouter(t, &fakeAPI{history: dailyHistory(10)})

	rec := doRequest(t, router, "/api/vaults/1/"+testAddress+"/summary?range=90d")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp summaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Summary)
	assert.True(t, resp.Summary.StartAdjusted)
	require.Len(t, resp.Warnings, 1)
	assert.Contains(t, resp.Warnings[0], "adjusted")
}

func TestGetSummary_NoHistory(t *testing.T) {
	router := newTestRouter(t, &fakeAPI{histErr: morpho.ErrNoHistory})

	rec := doRequest(t, router, "/api/vaults/1/"+testAddress+"/summary")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "no data available")
}

func TestGetSummary_VaultNotFound(t *testing.T) {
	router := newTestRouter(t, &fakeAPI{histErr: morpho.ErrVaultNotFound})

	rec := doRequest(t, router, "/api/vaults/1/"+testAddress+"/summary")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "vault not found")
}

func TestGetSummary_BadAddress(t *testing.T) {
	router := newTestRouter(t, &fakeAPI{})

	rec := doRequest(t, router, "/api/vaults/1/not-an-address/summary")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSummary_BadRange(t *testing.T) {
	router := newTestRouter(t, &fakeAPI{history: dailyHistory(30)})

	rec := doRequest(t, router, "/api/vaults/1/"+testAddress+"/summary?range=yesterday")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetHistory(t *testing.T) {
	router := newTestRouter(t, &fakeAPI{history: dailyHistory(5)})

	rec := doRequest(t, router, "/api/vaults/1/"+testAddress+"/history?range=all")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Count  int                   `json:"count"`
		Points []morpho.HistoryPoint `json:"points"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 6, resp.Count)
	assert.Len(t, resp.Points, 6)
}

func TestGetOverview(t *testing.T) {
	tvl := 1_000_000.0
	router := newTestRouter(t, &fakeAPI{vault: &morpho.Vault{
		Name:    "Flagship USDC",
		Symbol:  "fUSDC",
		Address: testAddress,
		State:   &morpho.VaultState{TotalAssetsUSD: &tvl},
	}})

	rec := doRequest(t, router, "/api/vaults/8453/"+testAddress)
	require.Equal(t, http.StatusOK, rec.Code)

	var overview vault.Overview
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &overview))
	assert.Equal(t, "Flagship USDC", overview.Name)
	assert.Equal(t, "base", overview.Network)
}

func TestGetNetworks(t *testing.T) {
	router := newTestRouter(t, &fakeAPI{})

	rec := doRequest(t, router, "/api/networks")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Networks []morpho.Network `json:"networks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Networks, len(morpho.Networks))
}

func TestGetCurator_NotFound(t *testing.T) {
	router := newTestRouter(t, &fakeAPI{})

	rec := doRequest(t, router, "/api/curators/nobody")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "no curator matches")
}

func TestGetCurator(t *testing.T) {
	tvl := 42.0
	router := newTestRouter(t, &fakeAPI{
		curator: &morpho.Curator{ID: "7", Name: "Steakhouse"},
		vaults: []morpho.Vault{{
			ID:      "v1",
			Name:    "Steak USDC",
			Address: testAddress,
			Chain:   &morpho.Chain{ID: 1},
			State:   &morpho.VaultState{TotalAssetsUSD: &tvl},
		}},
	})

	rec := doRequest(t, router, "/api/curators/steakhouse")
	require.Equal(t, http.StatusOK, rec.Code)

	var profile vault.CuratorProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, "Steakhouse", profile.Curator.Name)
	require.Len(t, profile.Vaults, 1)
	assert.Equal(t, "ethereum", profile.Vaults[0].Network)
}

func TestParseRangeSpec(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  analytics.RangeSpec
	}{
		{"default", "", analytics.LastDays(30)},
		{"all", "range=all", analytics.AllRange()},
		{"week", "range=7d", analytics.LastDays(7)},
		{"bare days", "range=14", analytics.LastDays(14)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x?"+tt.query, nil)
			got, err := parseRangeSpec(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRangeSpec_Explicit(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x?start=2025-01-01&end=2025-03-01+12:30", nil)
	got, err := parseRangeSpec(req)
	require.NoError(t, err)
	assert.Equal(t, analytics.RangeBetween, got.Kind)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), got.Start)
	assert.Equal(t, time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC), got.End)
}

func TestParseRangeSpec_Invalid(t *testing.T) {
	for _, query := range []string{"range=0d", "range=-3d", "range=soon", "start=not-a-date"} {
		req := httptest.NewRequest(http.MethodGet, "/x?"+query, nil)
		_, err := parseRangeSpec(req)
		assert.Error(t, err, query)
	}
}
