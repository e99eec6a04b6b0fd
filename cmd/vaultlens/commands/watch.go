package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/rdelorme/vaultlens/internal/vault"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Periodically refresh vault summaries",
	Long: `Recomputes the performance summary of the given vaults on a fixed
schedule and logs the results. Useful for keeping the cache warm and
spotting drawdowns early.

Example:
  go run ./cmd/vaultlens watch --vault 1:0x... --vault 8453:0x... --every 10m`,
	RunE: runWatch,
}

var (
	watchVaults []string
	watchEvery  time.Duration
	watchRange  string
)

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringArrayVar(&watchVaults, "vault", nil, "vault to watch as chainId:address (repeatable)")
	watchCmd.Flags().DurationVar(&watchEvery, "every", 10*time.Minute, "refresh interval")
	watchCmd.Flags().StringVar(&watchRange, "range", "30d", "range to summarize: 7d, 30d, 90d or all")
	watchCmd.MarkFlagRequired("vault")
}

func runWatch(cmd *cobra.Command, args []string) error {
	refs := make([]vault.Ref, 0, len(watchVaults))
	for _, raw := range watchVaults {
		ref, err := parseVaultArg(raw)
		if err != nil {
			return err
		}
		refs = append(refs, ref)
	}

	spec, err := parseRange(watchRange, "", "")
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	refresh := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		for _, ref := range refs {
			summary, err := a.service.PerformanceSummary(ctx, ref, spec)
			if err != nil {
				a.log.WithError(err).WithFields(map[string]interface{}{
					"address":  ref.Address,
					"chain_id": ref.ChainID,
				}).Error("Failed to refresh vault summary")
				continue
			}

			a.log.WithFields(map[string]interface{}{
				"address":      ref.Address,
				"chain_id":     ref.ChainID,
				"pnl_usd":      summary.PnLAbsoluteUSD,
				"max_drawdown": summary.MaxDrawdown,
				"tvl_usd":      summary.TVLEndUSD,
			}).Info("Vault summary refreshed")
		}
	}

	// First pass immediately, then on the schedule.
	refresh()

	c := cron.New()
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", watchEvery), refresh); err != nil {
		return fmt.Errorf("schedule refresh: %w", err)
	}
	c.Start()

	fmt.Printf("Watching %d vault(s) every %s. Press Ctrl+C to stop.\n", len(refs), watchEvery)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	stopCtx := c.Stop()
	<-stopCtx.Done()

	a.log.Info("Watch stopped")
	return nil
}
