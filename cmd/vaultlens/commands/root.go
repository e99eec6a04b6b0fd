package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vaultlens",
	Short: "Vaultlens - performance analytics for Morpho vaults",
	Long: `Vaultlens CLI

Fetches vault share-price and TVL history from the Morpho API and
computes PnL, annualized return, drawdown and flow/price decomposition.

Usage:
  go run ./cmd/vaultlens [command]

Examples:
  go run ./cmd/vaultlens api
  go run ./cmd/vaultlens pnl --chain 1 --address 0x... --range 30d
  go run ./cmd/vaultlens curator steakhouse
  go run ./cmd/vaultlens watch --vault 1:0x... --every 10m`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}
