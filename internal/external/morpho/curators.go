package morpho

import (
	"context"
	"fmt"
	"strings"
)

const curatorByIDQuery = `
query CuratorById($curatorId: String!) {
  curator(id: $curatorId) {
    id
    name
    description
    verified
    addresses {
      chainId
      address
    }
  }
}`

const curatorByAddressQuery = `
query CuratorByAddress($address: String!) {
  curators(where: { address_in: [$address] }, first: 1) {
    items {
      id
      name
      description
      verified
      addresses {
        chainId
        address
      }
    }
  }
}`

const curatorVaultsQuery = `
query CuratorVaults($curatorId: String!, $first: Int!) {
  vaults(first: $first, where: { curator_in: [$curatorId] }) {
    items {
      id
      name
      address
      whitelisted
      chain {
        id
      }
      asset {
        symbol
      }
      state {
        totalAssetsUsd
      }
    }
  }
}`

// CuratorByID resolves a curator by its slug/id (e.g. "9summits").
// Returns nil when no curator matches.
func (c *Client) CuratorByID(ctx context.Context, curatorID string) (*Curator, error) {
	var data struct {
		Curator *Curator `json:"curator"`
	}

	if err := c.runQuery(ctx, curatorByIDQuery, map[string]interface{}{
		"curatorId": curatorID,
	}, &data); err != nil {
		return nil, fmt.Errorf("fetch curator by id: %w", err)
	}

	return data.Curator, nil
}

// CuratorByAddress resolves a curator by one of its on-chain addresses.
// Returns nil when no curator matches.
func (c *Client) CuratorByAddress(ctx context.Context, address string) (*Curator, error) {
	var data struct {
		Curators struct {
			Items []Curator `json:"items"`
		} `json:"curators"`
	}

	if err := c.runQuery(ctx, curatorByAddressQuery, map[string]interface{}{
		"address": address,
	}, &data); err != nil {
		return nil, fmt.Errorf("fetch curator by address: %w", err)
	}

	if len(data.Curators.Items) == 0 {
		return nil, nil
	}
	curator := data.Curators.Items[0]
	return &curator, nil
}

// ResolveCurator resolves a curator either by slug/id or by one of its
// known addresses. Returns nil when nothing matches.
func (c *Client) ResolveCurator(ctx context.Context, query string) (*Curator, error) {
	normalized := strings.TrimSpace(query)
	if normalized == "" {
		return nil, nil
	}

	var curator *Curator
	var err error

	if !LooksLikeAddress(normalized) {
		curator, err = c.CuratorByID(ctx, normalized)
		if err != nil {
			return nil, err
		}
	}

	if curator == nil {
		curator, err = c.CuratorByAddress(ctx, normalized)
		if err != nil {
			return nil, err
		}
	}

	return curator, nil
}

// VaultsForCurator lists the vaults managed by a curator.
func (c *Client) VaultsForCurator(ctx context.Context, curatorID string, limit int) ([]Vault, error) {
	if curatorID == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}

	var data struct {
		Vaults struct {
			Items []Vault `json:"items"`
		} `json:"vaults"`
	}

	if err := c.runQuery(ctx, curatorVaultsQuery, map[string]interface{}{
		"curatorId": curatorID,
		"first":     limit,
	}, &data); err != nil {
		return nil, fmt.Errorf("fetch curator vaults: %w", err)
	}

	return data.Vaults.Items, nil
}
