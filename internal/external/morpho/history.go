package morpho

import (
	"context"
	"fmt"
	"sort"
	"time"
)

const historyQuery = `
query VaultHistory(
  $address: String!,
  $chainId: Int!,
  $options: TimeseriesOptions
) {
  vaultByAddress(address: $address, chainId: $chainId) {
    address
    name
    historicalState {
      sharePriceUsd(options: $options) {
        x
        y
      }
      totalAssetsUsd(options: $options) {
        x
        y
      }
    }
  }
}`

// TimeRange bounds a history request. Nil boundaries mean unbounded
// (full history when both are nil).
type TimeRange struct {
	Start *time.Time
	End   *time.Time
}

// History fetches the share-price and TVL time series for a vault and joins
// them by timestamp into raw (timestamp, sharePriceUsd, tvlUsd) points.
// Timestamps present in only one of the two series are dropped; the core
// re-validates ordering and values.
func (c *Client) History(ctx context.Context, address string, chainID int64, bounds TimeRange) ([]HistoryPoint, error) {
	options := map[string]interface{}{}
	if bounds.Start != nil {
		options["startTimestamp"] = bounds.Start.Unix()
	}
	if bounds.End != nil {
		options["endTimestamp"] = bounds.End.Unix()
	}

	variables := map[string]interface{}{
		"address": address,
		"chainId": chainID,
	}
	if len(options) > 0 {
		variables["options"] = options
	}

	var data struct {
		VaultByAddress *struct {
			HistoricalState *struct {
				SharePriceUSD  []TimeseriesPoint `json:"sharePriceUsd"`
				TotalAssetsUSD []TimeseriesPoint `json:"totalAssetsUsd"`
			} `json:"historicalState"`
		} `json:"vaultByAddress"`
	}

	if err := c.runQuery(ctx, historyQuery, variables, &data); err != nil {
		return nil, fmt.Errorf("fetch vault history: %w", err)
	}

	if data.VaultByAddress == nil {
		return nil, ErrVaultNotFound
	}
	hist := data.VaultByAddress.HistoricalState
	if hist == nil || len(hist.SharePriceUSD) == 0 {
		return nil, ErrNoHistory
	}

	points := joinSeries(hist.SharePriceUSD, hist.TotalAssetsUSD)
	if len(points) == 0 {
		return nil, ErrNoHistory
	}

	c.logger.WithFields(map[string]interface{}{
		"address":  address,
		"chain_id": chainID,
		"prices":   len(hist.SharePriceUSD),
		"tvls":     len(hist.TotalAssetsUSD),
		"joined":   len(points),
	}).Debug("Fetched vault history")

	return points, nil
}

// joinSeries zips the price and TVL series on matching timestamps.
func joinSeries(prices, tvls []TimeseriesPoint) []HistoryPoint {
	tvlByTS := make(map[int64]float64, len(tvls))
	for _, p := range tvls {
		tvlByTS[p.X] = p.Y
	}

	points := make([]HistoryPoint, 0, len(prices))
	for _, p := range prices {
		tvl, ok := tvlByTS[p.X]
		if !ok {
			continue
		}
		points = append(points, HistoryPoint{
			Timestamp:     time.Unix(p.X, 0).UTC(),
			SharePriceUSD: p.Y,
			TVLUSD:        tvl,
		})
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Timestamp.Before(points[j].Timestamp)
	})
	return points
}
