package analytics

import "time"

// Summary is the complete performance report for one vault window,
// recomputed from the fetched series on every query.
type Summary struct {
	StartTimestamp     time.Time `json:"start_timestamp"`
	EndTimestamp       time.Time `json:"end_timestamp"`
	StartSharePriceUSD float64   `json:"start_share_price_usd"`
	EndSharePriceUSD   float64   `json:"end_share_price_usd"`
	TVLStartUSD        float64   `json:"tvl_start_usd"`
	TVLEndUSD          float64   `json:"tvl_end_usd"`

	PnLAbsoluteUSD   float64  `json:"pnl_absolute_usd"`
	PnLPercent       *float64 `json:"pnl_percent"`
	AnnualizedReturn *float64 `json:"annualized_return"`
	MaxDrawdown      float64  `json:"max_drawdown"`

	FlowContributionUSD  float64 `json:"flow_contribution_usd"`
	PriceContributionUSD float64 `json:"price_contribution_usd"`

	// Soft warnings for the presentation layer.
	StartAdjusted        bool `json:"start_adjusted"`
	PartialDecomposition bool `json:"partial_decomposition"`
}

// Summarize resolves the requested range against the series and composes
// the performance metrics and flow/price decomposition into one report.
// Fails with ErrEmptyWindow when the range resolves to no data; a nil or
// empty series fails with ErrInvalidSeries.
func Summarize(s *Series, spec RangeSpec) (*Summary, error) {
	if s == nil || s.Len() == 0 {
		return nil, ErrInvalidSeries
	}

	w, err := s.Resolve(spec)
	if err != nil {
		return nil, err
	}

	perf := Compute(w)
	dec := Decompose(w)

	start, end := w.Start(), w.End()

	return &Summary{
		StartTimestamp:     start.Timestamp,
		EndTimestamp:       end.Timestamp,
		StartSharePriceUSD: start.SharePriceUSD,
		EndSharePriceUSD:   end.SharePriceUSD,
		TVLStartUSD:        start.TVLUSD,
		TVLEndUSD:          end.TVLUSD,

		PnLAbsoluteUSD:   perf.PnLAbsoluteUSD,
		PnLPercent:       perf.PnLPercent,
		AnnualizedReturn: perf.AnnualizedReturn,
		MaxDrawdown:      perf.MaxDrawdown,

		FlowContributionUSD:  dec.FlowContributionUSD,
		PriceContributionUSD: dec.PriceContributionUSD,

		StartAdjusted:        w.StartAdjusted,
		PartialDecomposition: dec.Partial,
	}, nil
}
