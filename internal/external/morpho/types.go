package morpho

import "time"

// TimeseriesPoint is one (timestamp, value) pair as returned by the API.
type TimeseriesPoint struct {
	X int64   `json:"x"`
	Y float64 `json:"y"`
}

// HistoryPoint is one joined observation of share price and TVL.
type HistoryPoint struct {
	Timestamp     time.Time `json:"timestamp"`
	SharePriceUSD float64   `json:"share_price_usd"`
	TVLUSD        float64   `json:"tvl_usd"`
}

// Asset describes a vault's underlying asset.
type Asset struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals int    `json:"decimals"`
}

// Chain identifies the network a vault lives on.
type Chain struct {
	ID int64 `json:"id"`
}

// Metadata holds optional descriptive fields of a vault.
type Metadata struct {
	Description string `json:"description"`
	Image       string `json:"image"`
}

// Market describes one lending market a vault allocates to.
type Market struct {
	UniqueKey       string `json:"uniqueKey"`
	LoanAsset       *Asset `json:"loanAsset"`
	CollateralAsset *Asset `json:"collateralAsset"`
}

// Allocation is a vault's position in one market.
type Allocation struct {
	SupplyAssetsUSD *float64 `json:"supplyAssetsUsd"`
	SupplyCapUSD    *float64 `json:"supplyCapUsd"`
	Enabled         bool     `json:"enabled"`
	Market          *Market  `json:"market"`
}

// VaultState is the current on-chain state of a vault.
type VaultState struct {
	TotalAssetsUSD       *float64     `json:"totalAssetsUsd"`
	TotalAssets          *float64     `json:"totalAssets"`
	APY                  *float64     `json:"apy"`
	NetAPY               *float64     `json:"netApy"`
	NetAPYWithoutRewards *float64     `json:"netApyWithoutRewards"`
	Fee                  *float64     `json:"fee"`
	SharePriceUSD        *float64     `json:"sharePriceUsd"`
	Curator              string       `json:"curator"`
	FeeRecipient         string       `json:"feeRecipient"`
	Guardian             string       `json:"guardian"`
	Owner                string       `json:"owner"`
	Allocation           []Allocation `json:"allocation"`
}

// Vault is the API's vault representation.
type Vault struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Symbol      string      `json:"symbol"`
	Address     string      `json:"address"`
	Whitelisted bool        `json:"whitelisted"`
	Promoted    bool        `json:"promoted"`
	Metadata    *Metadata   `json:"metadata"`
	Asset       *Asset      `json:"asset"`
	Chain       *Chain      `json:"chain"`
	State       *VaultState `json:"state"`
}

// CuratorAddress is one known on-chain address of a curator.
type CuratorAddress struct {
	ChainID int64  `json:"chainId"`
	Address string `json:"address"`
}

// Curator is an entity managing one or more vaults.
type Curator struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Verified    bool             `json:"verified"`
	Addresses   []CuratorAddress `json:"addresses"`
}
