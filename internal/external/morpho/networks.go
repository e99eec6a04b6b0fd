package morpho

import "strings"

// Network maps a chain id to the slug used in Morpho app URLs.
type Network struct {
	ChainID int64  `json:"chain_id"`
	Slug    string `json:"network"`
}

// Networks are the chains the Morpho app currently supports.
var Networks = []Network{
	{ChainID: 1, Slug: "ethereum"},
	{ChainID: 8453, Slug: "base"},
	{ChainID: 57073, Slug: "ink"},
	{ChainID: 137, Slug: "polygon"},
	{ChainID: 130, Slug: "unichain"},
	{ChainID: 10, Slug: "optimism"},
	{ChainID: 747474, Slug: "katana"},
	{ChainID: 42161, Slug: "arbitrum"},
	{ChainID: 239, Slug: "tac"},
	{ChainID: 999, Slug: "hyperliquid"},
}

// SlugByChainID returns the network slug for a chain id.
func SlugByChainID(chainID int64) (string, bool) {
	for _, n := range Networks {
		if n.ChainID == chainID {
			return n.Slug, true
		}
	}
	return "", false
}

// LooksLikeAddress reports whether value is a 0x-prefixed 20-byte hex address.
func LooksLikeAddress(value string) bool {
	value = strings.ToLower(value)
	if !strings.HasPrefix(value, "0x") || len(value) != 42 {
		return false
	}
	for _, c := range value[2:] {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
