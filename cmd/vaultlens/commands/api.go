package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rdelorme/vaultlens/internal/api"
	"github.com/rdelorme/vaultlens/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server.

Endpoints:
  GET /health                                      - Health check
  GET /api/networks                                - Supported networks
  GET /api/vaults/{chainId}/{address}/summary      - Performance summary
  GET /api/vaults/{chainId}/{address}/history      - Price/TVL history
  GET /api/vaults/{chainId}/{address}/chart.png    - Share price chart
  GET /api/vaults/{chainId}/{address}              - Vault overview
  GET /api/curators/{query}                        - Curator profile
  GET /proxy/morpho                                - Embeddable Morpho page

Example:
  go run ./cmd/vaultlens api
  go run ./cmd/vaultlens api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	vaultHandler := handlers.NewVaultHandler(a.service, a.cfg.Morpho.SiteURL, a.log)
	curatorHandler := handlers.NewCuratorHandler(a.service, a.log)
	proxyHandler := handlers.NewProxyHandler(a.httpClient, a.cfg.Morpho.SiteURL, a.log)

	router := api.NewRouter(vaultHandler, curatorHandler, proxyHandler, a.log)
	server := api.New(a.cfg, a.log, router)

	go func() {
		if err := server.Start(); err != nil {
			a.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	a.log.Info("Server stopped")
	return nil
}
