package analytics

import (
	"math"
	"time"
)

// Performance holds the return and risk metrics for one window.
// All percentage values are plain ratios (0.05 == 5%); formatting is the
// caller's concern. Nil pointer fields mark metrics that are undefined for
// this window (division by zero), never an error.
type Performance struct {
	PnLAbsoluteUSD   float64  `json:"pnl_absolute_usd"`
	PnLPercent       *float64 `json:"pnl_percent"`       // nil when starting TVL is zero
	AnnualizedReturn *float64 `json:"annualized_return"` // nil when starting share price is zero
	MaxDrawdown      float64  `json:"max_drawdown"`
}

// Compute calculates PnL, annualized return and max drawdown over a window.
//
// Annualization compounds the share-price total return, not the TVL return,
// since TVL conflates deposits and withdrawals with appreciation. Max
// drawdown likewise scans the share-price path, insulated from flow noise.
func Compute(w Window) Performance {
	start, end := w.Start(), w.End()

	perf := Performance{
		PnLAbsoluteUSD: end.TVLUSD - start.TVLUSD,
	}

	if start.TVLUSD > 0 {
		pct := perf.PnLAbsoluteUSD / start.TVLUSD
		perf.PnLPercent = &pct
	}

	if start.SharePriceUSD > 0 {
		priceReturn := end.SharePriceUSD/start.SharePriceUSD - 1
		days := wholeDays(start.Timestamp, end.Timestamp)
		annualized := math.Pow(1+priceReturn, 365/float64(days)) - 1
		perf.AnnualizedReturn = &annualized
	}

	perf.MaxDrawdown = maxDrawdown(w.Snapshots())

	return perf
}

// wholeDays returns the window length in whole days, floored at 1 so
// same-day windows never divide by zero.
func wholeDays(start, end time.Time) int {
	days := int(end.Sub(start).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

// maxDrawdown scans the share-price path keeping a running peak and
// returns the largest peak-to-trough decline as a ratio in [0, 1].
// Zero when the price never declines, including single-snapshot windows.
func maxDrawdown(snaps []Snapshot) float64 {
	var peak, maxDD float64
	for _, s := range snaps {
		if s.SharePriceUSD > peak {
			peak = s.SharePriceUSD
		}
		if peak > 0 {
			dd := (peak - s.SharePriceUSD) / peak
			if dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}
