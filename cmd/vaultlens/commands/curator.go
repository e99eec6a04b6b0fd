package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rdelorme/vaultlens/internal/format"
)

// curatorCmd represents the curator command
var curatorCmd = &cobra.Command{
	Use:   "curator <slug|id|address>",
	Short: "List a curator's vaults",
	Long: `Resolves a curator by slug, numeric id or 0x address and lists its
vaults sorted by TVL.

Example:
  go run ./cmd/vaultlens curator steakhouse
  go run ./cmd/vaultlens curator 0x255c7705e8BB334DfCae438197f7C4297988085a`,
	Args: cobra.ExactArgs(1),
	RunE: runCurator,
}

func init() {
	rootCmd.AddCommand(curatorCmd)
}

func runCurator(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	profile, err := a.service.CuratorProfile(ctx, args[0])
	if err != nil {
		return err
	}

	verified := ""
	if profile.Curator.Verified {
		verified = " (verified)"
	}
	fmt.Printf("Curator: %s%s\n", profile.Curator.Name, verified)
	if profile.Curator.Description != "" {
		fmt.Println(profile.Curator.Description)
	}
	fmt.Printf("Vaults: %d\n\n", len(profile.Vaults))

	for _, v := range profile.Vaults {
		network := v.Network
		if network == "" {
			network = fmt.Sprintf("chain %d", v.ChainID)
		}
		fmt.Printf("  %-40s %-12s %-8s %s\n",
			v.Name, network, v.AssetSymbol, format.USDShort(v.TotalAssetsUSD))
	}

	return nil
}
