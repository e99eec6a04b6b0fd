package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/rdelorme/vaultlens/internal/vault"
	"github.com/rdelorme/vaultlens/pkg/logger"
)

// CuratorHandler handles curator lookup requests.
type CuratorHandler struct {
	service *vault.Service
	logger  *logger.Logger
}

// NewCuratorHandler creates a new curator handler.
func NewCuratorHandler(service *vault.Service, log *logger.Logger) *CuratorHandler {
	return &CuratorHandler{
		service: service,
		logger:  log,
	}
}

// GetCurator handles GET /api/curators/{query}. The query is a curator
// slug, a numeric id, or a 0x address.
func (h *CuratorHandler) GetCurator(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(mux.Vars(r)["query"])
	if query == "" {
		respondError(w, http.StatusBadRequest, "missing curator query")
		return
	}

	profile, err := h.service.CuratorProfile(r.Context(), query)
	if err != nil {
		if errors.Is(err, vault.ErrCuratorNotFound) {
			respondError(w, http.StatusNotFound, "no curator matches this value")
			return
		}
		h.logger.WithError(err).WithField("query", query).Error("Curator request failed")
		respondError(w, http.StatusBadGateway, "upstream request failed")
		return
	}

	respondJSON(w, http.StatusOK, profile)
}
