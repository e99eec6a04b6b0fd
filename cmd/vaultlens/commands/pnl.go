package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rdelorme/vaultlens/internal/analytics"
	"github.com/rdelorme/vaultlens/internal/external/morpho"
	"github.com/rdelorme/vaultlens/internal/format"
	"github.com/rdelorme/vaultlens/internal/vault"
)

// pnlCmd represents the pnl command
var pnlCmd = &cobra.Command{
	Use:   "pnl",
	Short: "Compute the performance summary of one vault",
	Long: `Fetches a vault's share-price/TVL history and prints PnL,
annualized return, max drawdown and the flow/price TVL decomposition.

Example:
  go run ./cmd/vaultlens pnl --chain 1 --address 0x... --range 30d
  go run ./cmd/vaultlens pnl --chain 8453 --address 0x... --start 2025-01-01 --end 2025-06-30`,
	RunE: runPnL,
}

var (
	pnlChainID int64
	pnlAddress string
	pnlRange   string
	pnlStart   string
	pnlEnd     string
)

func init() {
	rootCmd.AddCommand(pnlCmd)

	pnlCmd.Flags().Int64Var(&pnlChainID, "chain", 1, "chain id of the vault's network")
	pnlCmd.Flags().StringVar(&pnlAddress, "address", "", "vault address (0x...)")
	pnlCmd.Flags().StringVar(&pnlRange, "range", "", "trailing range: 7d, 30d, 90d or all")
	pnlCmd.Flags().StringVar(&pnlStart, "start", "", "explicit range start (YYYY-MM-DD)")
	pnlCmd.Flags().StringVar(&pnlEnd, "end", "", "explicit range end (YYYY-MM-DD)")
	pnlCmd.MarkFlagRequired("address")
}

func runPnL(cmd *cobra.Command, args []string) error {
	if !morpho.LooksLikeAddress(pnlAddress) {
		return fmt.Errorf("invalid vault address %q", pnlAddress)
	}
	ref := vault.Ref{ChainID: pnlChainID, Address: pnlAddress}

	spec, err := parseRange(pnlRange, pnlStart, pnlEnd)
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	summary, err := a.service.PerformanceSummary(ctx, ref, spec)
	if err != nil {
		return err
	}

	printSummary(ref, summary)
	return nil
}

func printSummary(ref vault.Ref, s *analytics.Summary) {
	fmt.Printf("Vault %s (chain %d)\n", ref.Address, ref.ChainID)
	fmt.Printf("Window:             %s -> %s\n", format.Timestamp(s.StartTimestamp), format.Timestamp(s.EndTimestamp))
	fmt.Printf("Share price:        %s -> %s\n", format.USDShort(ptr(s.StartSharePriceUSD)), format.USDShort(ptr(s.EndSharePriceUSD)))
	fmt.Printf("TVL:                %s -> %s\n", format.USDShort(ptr(s.TVLStartUSD)), format.USDShort(ptr(s.TVLEndUSD)))
	fmt.Println()
	fmt.Printf("PnL:                %s (%s)\n", format.USDShort(ptr(s.PnLAbsoluteUSD)), format.Percent(s.PnLPercent))
	fmt.Printf("Annualized return:  %s\n", format.Percent(s.AnnualizedReturn))
	fmt.Printf("Max drawdown:       %s\n", format.Percent(ptr(s.MaxDrawdown)))
	fmt.Println()
	fmt.Printf("Flow contribution:  %s\n", format.USDShort(ptr(s.FlowContributionUSD)))
	fmt.Printf("Price contribution: %s\n", format.USDShort(ptr(s.PriceContributionUSD)))

	if s.StartAdjusted {
		fmt.Println("\nNote: requested start predates available data; range was adjusted.")
	}
	if s.PartialDecomposition {
		fmt.Println("\nNote: decomposition is partial over intervals with a zero share price.")
	}
}

func ptr(v float64) *float64 { return &v }
