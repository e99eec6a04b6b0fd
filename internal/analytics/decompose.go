package analytics

// Decomposition splits a window's TVL change into the value of net
// deposits/withdrawals (flows) and the value of share-price appreciation.
// FlowContributionUSD + PriceContributionUSD equals the window's absolute
// PnL within floating-point tolerance, except when Partial is set.
type Decomposition struct {
	FlowContributionUSD  float64 `json:"flow_contribution_usd"`
	PriceContributionUSD float64 `json:"price_contribution_usd"`

	// Partial is set when at least one sub-interval could not be split
	// (zero share price on either end) and its whole TVL delta was
	// attributed to flow.
	Partial bool `json:"partial"`
}

// Decompose walks consecutive snapshot pairs within the window. The share
// count is inferred per snapshot as TVL / price; the share-count change is
// priced at the interval's entry price (flows marked at entry, so price
// movement within the same interval is not double counted), and the price
// move is applied to the post-flow share balance.
//
// This is a first-order decomposition: exact in the limit of continuous
// sampling, approximate between widely spaced observations.
func Decompose(w Window) Decomposition {
	var d Decomposition

	snaps := w.Snapshots()
	for i := 1; i < len(snaps); i++ {
		a, b := snaps[i-1], snaps[i]

		sharesA, okA := a.Shares()
		sharesB, okB := b.Shares()
		if !okA || !okB {
			// Shares undefined on one end: price contribution cannot be
			// computed, so the whole delta counts as flow.
			d.FlowContributionUSD += b.TVLUSD - a.TVLUSD
			d.Partial = true
			continue
		}

		d.FlowContributionUSD += (sharesB - sharesA) * a.SharePriceUSD
		d.PriceContributionUSD += sharesB * (b.SharePriceUSD - a.SharePriceUSD)
	}

	return d
}
