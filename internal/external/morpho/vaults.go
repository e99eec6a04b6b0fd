package morpho

import (
	"context"
	"fmt"
)

const vaultDetailsQuery = `
query VaultExtended($address: String!, $chainId: Int!) {
  vaultByAddress(address: $address, chainId: $chainId) {
    address
    name
    symbol
    whitelisted
    promoted
    metadata {
      description
      image
    }
    asset {
      symbol
      name
      decimals
    }
    chain {
      id
    }
    state {
      totalAssetsUsd
      totalAssets
      apy
      netApy
      netApyWithoutRewards
      fee
      sharePriceUsd
      curator
      feeRecipient
      guardian
      owner
      allocation {
        supplyAssetsUsd
        supplyCapUsd
        enabled
        market {
          uniqueKey
          loanAsset {
            symbol
          }
          collateralAsset {
            symbol
          }
        }
      }
    }
  }
}`

// VaultDetails fetches the extended current state of a vault, including
// its market allocations.
func (c *Client) VaultDetails(ctx context.Context, address string, chainID int64) (*Vault, error) {
	var data struct {
		VaultByAddress *Vault `json:"vaultByAddress"`
	}

	variables := map[string]interface{}{
		"address": address,
		"chainId": chainID,
	}

	if err := c.runQuery(ctx, vaultDetailsQuery, variables, &data); err != nil {
		return nil, fmt.Errorf("fetch vault details: %w", err)
	}

	if data.VaultByAddress == nil {
		return nil, ErrVaultNotFound
	}

	return data.VaultByAddress, nil
}
