package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/rdelorme/vaultlens/internal/api/handlers"
	"github.com/rdelorme/vaultlens/pkg/logger"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(vaultHandler *handlers.VaultHandler, curatorHandler *handlers.CuratorHandler, proxyHandler *handlers.ProxyHandler, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// API v1
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/networks", vaultHandler.GetNetworks).Methods("GET")

	api.HandleFunc("/vaults/{chainId}/{address}/summary", vaultHandler.GetSummary).Methods("GET")
	api.HandleFunc("/vaults/{chainId}/{address}/history", vaultHandler.GetHistory).Methods("GET")
	api.HandleFunc("/vaults/{chainId}/{address}/chart.png", vaultHandler.GetChart).Methods("GET")
	api.HandleFunc("/vaults/{chainId}/{address}", vaultHandler.GetOverview).Methods("GET")

	api.HandleFunc("/curators/{query}", curatorHandler.GetCurator).Methods("GET")

	// Morpho page embed proxy
	r.HandleFunc("/proxy/morpho", proxyHandler.GetMorphoPage).Methods("GET")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status.
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "vaultlens-api",
	})
}

// loggingMiddleware logs HTTP requests.
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics.
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
