// Package handlers implements the HTTP handlers for the API.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/rdelorme/vaultlens/internal/analytics"
	"github.com/rdelorme/vaultlens/internal/chart"
	"github.com/rdelorme/vaultlens/internal/external/morpho"
	"github.com/rdelorme/vaultlens/internal/vault"
	"github.com/rdelorme/vaultlens/pkg/logger"
)

// defaultRangeDays is the trailing window used when no range is requested.
const defaultRangeDays = 30

// VaultHandler handles vault analytics requests.
type VaultHandler struct {
	service *vault.Service
	siteURL string
	logger  *logger.Logger
}

// NewVaultHandler creates a new vault handler.
func NewVaultHandler(service *vault.Service, siteURL string, log *logger.Logger) *VaultHandler {
	return &VaultHandler{
		service: service,
		siteURL: strings.TrimRight(siteURL, "/"),
		logger:  log,
	}
}

type summaryResponse struct {
	ChainID   int64              `json:"chain_id"`
	Network   string             `json:"network,omitempty"`
	Address   string             `json:"address"`
	MorphoURL string             `json:"morpho_url,omitempty"`
	Summary   *analytics.Summary `json:"summary"`
	Warnings  []string           `json:"warnings,omitempty"`
}

// GetSummary handles GET /api/vaults/{chainId}/{address}/summary.
func (h *VaultHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ref, ok := parseVaultRef(w, r)
	if !ok {
		return
	}

	spec, err := parseRangeSpec(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := h.service.PerformanceSummary(r.Context(), ref, spec)
	if err != nil {
		h.respondVaultError(w, ref, err)
		return
	}

	resp := summaryResponse{
		ChainID: ref.ChainID,
		Address: ref.Address,
		Summary: summary,
	}
	if slug, found := morpho.SlugByChainID(ref.ChainID); found {
		resp.Network = slug
		resp.MorphoURL = fmt.Sprintf("%s/%s/vault/%s", h.siteURL, slug, ref.Address)
	}
	if summary.StartAdjusted {
		resp.Warnings = append(resp.Warnings, "requested start predates available data; range was adjusted")
	}
	if summary.PartialDecomposition {
		resp.Warnings = append(resp.Warnings, "flow/price decomposition is partial over intervals with a zero share price")
	}

	respondJSON(w, http.StatusOK, resp)
}

// GetHistory handles GET /api/vaults/{chainId}/{address}/history.
func (h *VaultHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ref, ok := parseVaultRef(w, r)
	if !ok {
		return
	}

	spec, err := parseRangeSpec(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	points, err := h.service.History(r.Context(), ref, spec)
	if err != nil {
		h.respondVaultError(w, ref, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"chain_id": ref.ChainID,
		"address":  ref.Address,
		"count":    len(points),
		"points":   points,
	})
}

// GetChart handles GET /api/vaults/{chainId}/{address}/chart.png.
func (h *VaultHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	ref, ok := parseVaultRef(w, r)
	if !ok {
		return
	}

	spec, err := parseRangeSpec(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	points, err := h.service.History(r.Context(), ref, spec)
	if err != nil {
		h.respondVaultError(w, ref, err)
		return
	}

	title := "Share price"
	if slug, found := morpho.SlugByChainID(ref.ChainID); found {
		title = fmt.Sprintf("Share price (%s)", slug)
	}

	img, err := chart.RenderSharePrice(points, title)
	if err != nil {
		respondError(w, http.StatusNotFound, "not enough data to draw a chart")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(img)
}

// GetOverview handles GET /api/vaults/{chainId}/{address}.
func (h *VaultHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	ref, ok := parseVaultRef(w, r)
	if !ok {
		return
	}

	overview, err := h.service.Overview(r.Context(), ref)
	if err != nil {
		h.respondVaultError(w, ref, err)
		return
	}

	respondJSON(w, http.StatusOK, overview)
}

// GetNetworks handles GET /api/networks.
func (h *VaultHandler) GetNetworks(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"networks": morpho.Networks,
	})
}

// respondVaultError maps service errors to HTTP statuses.
func (h *VaultHandler) respondVaultError(w http.ResponseWriter, ref vault.Ref, err error) {
	switch {
	case errors.Is(err, morpho.ErrVaultNotFound):
		respondError(w, http.StatusNotFound, "vault not found on this network")
	case errors.Is(err, analytics.ErrInvalidSeries):
		respondError(w, http.StatusNotFound, "no data available for this vault/network")
	case errors.Is(err, analytics.ErrEmptyWindow):
		respondError(w, http.StatusNotFound, "no data in selected range")
	default:
		h.logger.WithError(err).WithFields(map[string]interface{}{
			"address":  ref.Address,
			"chain_id": ref.ChainID,
		}).Error("Vault request failed")
		respondError(w, http.StatusBadGateway, "upstream request failed")
	}
}

// parseVaultRef extracts and validates the {chainId}/{address} path pair.
// Writes the error response itself and returns ok=false on bad input.
func parseVaultRef(w http.ResponseWriter, r *http.Request) (vault.Ref, bool) {
	vars := mux.Vars(r)

	chainID, err := strconv.ParseInt(vars["chainId"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid chain id")
		return vault.Ref{}, false
	}

	address := strings.TrimSpace(vars["address"])
	if !morpho.LooksLikeAddress(address) {
		respondError(w, http.StatusBadRequest, "invalid vault address")
		return vault.Ref{}, false
	}

	return vault.Ref{ChainID: chainID, Address: address}, true
}

// parseRangeSpec reads the requested window from query parameters. Either
// range=7d|30d|90d|all (any day count works) or an explicit start/end pair;
// a bare start or end fills the other boundary from the data's edges.
func parseRangeSpec(r *http.Request) (analytics.RangeSpec, error) {
	q := r.URL.Query()

	if rng := strings.ToLower(strings.TrimSpace(q.Get("range"))); rng != "" {
		if rng == "all" {
			return analytics.AllRange(), nil
		}
		days, err := strconv.Atoi(strings.TrimSuffix(rng, "d"))
		if err != nil || days <= 0 {
			return analytics.RangeSpec{}, fmt.Errorf("invalid range %q", rng)
		}
		return analytics.LastDays(days), nil
	}

	startRaw := strings.TrimSpace(q.Get("start"))
	endRaw := strings.TrimSpace(q.Get("end"))
	if startRaw == "" && endRaw == "" {
		return analytics.LastDays(defaultRangeDays), nil
	}

	start := time.Time{}
	end := time.Now().UTC()
	var err error

	if startRaw != "" {
		if start, err = parseDate(startRaw); err != nil {
			return analytics.RangeSpec{}, fmt.Errorf("invalid start date %q", startRaw)
		}
	}
	if endRaw != "" {
		if end, err = parseDate(endRaw); err != nil {
			return analytics.RangeSpec{}, fmt.Errorf("invalid end date %q", endRaw)
		}
	}

	return analytics.Between(start, end), nil
}

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	time.RFC3339,
}

// parseDate parses a UTC date in any of the accepted layouts.
func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}
