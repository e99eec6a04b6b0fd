package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_PnL(t *testing.T) {
	s := buildTestSeries(t,
		Snapshot{Timestamp: day(0), SharePriceUSD: 1.00, TVLUSD: 1000},
		Snapshot{Timestamp: day(30), SharePriceUSD: 1.10, TVLUSD: 1210},
	)
	w, err := s.Resolve(AllRange())
	require.NoError(t, err)

	perf := Compute(w)

	assert.InDelta(t, 210, perf.PnLAbsoluteUSD, 1e-9)
	require.NotNil(t, perf.PnLPercent)
	assert.InDelta(t, 0.21, *perf.PnLPercent, 1e-9)
}

func TestCompute_ZeroStartTVL(t *testing.T) {
	// Brand-new vault: percent PnL is undefined, not an error.
	s := buildTestSeries(t,
		Snapshot{Timestamp: day(0), SharePriceUSD: 1.00, TVLUSD: 0},
		Snapshot{Timestamp: day(7), SharePriceUSD: 1.02, TVLUSD: 500},
	)
	w, err := s.Resolve(AllRange())
	require.NoError(t, err)

	perf := Compute(w)

	assert.InDelta(t, 500, perf.PnLAbsoluteUSD, 1e-9)
	assert.Nil(t, perf.PnLPercent)
	assert.NotNil(t, perf.AnnualizedReturn)
}

func TestCompute_ZeroStartPrice(t *testing.T) {
	s := buildTestSeries(t,
		Snapshot{Timestamp: day(0), SharePriceUSD: 0, TVLUSD: 100},
		Snapshot{Timestamp: day(7), SharePriceUSD: 1.0, TVLUSD: 200},
	)
	w, err := s.Resolve(AllRange())
	require.NoError(t, err)

	perf := Compute(w)

	assert.Nil(t, perf.AnnualizedReturn)
	require.NotNil(t, perf.PnLPercent)
}

func TestCompute_AnnualizedBaseCase(t *testing.T) {
	// Doubled share price over exactly 365 days: the annualized return
	// must equal the un-annualized 100%.
	s := buildTestSeries(t,
		Snapshot{Timestamp: day(0), SharePriceUSD: 1.00, TVLUSD: 1000},
		Snapshot{Timestamp: day(365), SharePriceUSD: 2.00, TVLUSD: 2000},
	)
	w, err := s.Resolve(AllRange())
	require.NoError(t, err)

	perf := Compute(w)

	require.NotNil(t, perf.AnnualizedReturn)
	assert.InDelta(t, 1.0, *perf.AnnualizedReturn, 1e-12)
}

func TestCompute_AnnualizedCompounds(t *testing.T) {
	// +1% over ~30 days annualizes well above a linear 12% scale.
	s := buildTestSeries(t,
		Snapshot{Timestamp: day(0), SharePriceUSD: 1.00, TVLUSD: 1000},
		Snapshot{Timestamp: day(30), SharePriceUSD: 1.01, TVLUSD: 1010},
	)
	w, err := s.Resolve(AllRange())
	require.NoError(t, err)

	perf := Compute(w)

	require.NotNil(t, perf.AnnualizedReturn)
	assert.Greater(t, *perf.AnnualizedReturn, 0.12)
	assert.Less(t, *perf.AnnualizedReturn, 0.14)
}

func TestCompute_SameDayWindowUsesOneDayFloor(t *testing.T) {
	s := buildTestSeries(t,
		Snapshot{Timestamp: day(0), SharePriceUSD: 1.00, TVLUSD: 1000},
		Snapshot{Timestamp: day(0).Add(6 * time.Hour), SharePriceUSD: 1.001, TVLUSD: 1001},
	)
	w, err := s.Resolve(Between(day(0), day(0).Add(6*time.Hour)))
	require.NoError(t, err)

	perf := Compute(w)

	// (1.001)^365 - 1, not an astronomic intra-day exponent.
	require.NotNil(t, perf.AnnualizedReturn)
	assert.InDelta(t, 0.4403, *perf.AnnualizedReturn, 0.001)
}

func TestCompute_MaxDrawdown(t *testing.T) {
	tests := []struct {
		name   string
		prices []float64
		want   float64
	}{
		{
			name:   "non-decreasing path has zero drawdown",
			prices: []float64{1.00, 1.00, 1.05, 1.10},
			want:   0,
		},
		{
			name:   "single dip from peak",
			prices: []float64{1.00, 1.20, 0.90, 1.30},
			want:   0.25,
		},
		{
			name:   "deepest of several dips wins",
			prices: []float64{1.00, 0.95, 1.10, 0.99, 1.05},
			want:   0.10,
		},
		{
			name:   "monotonic decline measures from first peak",
			prices: []float64{2.00, 1.50, 1.00},
			want:   0.50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snaps := make([]Snapshot, len(tt.prices))
			for i, p := range tt.prices {
				snaps[i] = Snapshot{Timestamp: day(i), SharePriceUSD: p, TVLUSD: p * 1000}
			}
			s := buildTestSeries(t, snaps...)
			w, err := s.Resolve(AllRange())
			require.NoError(t, err)

			perf := Compute(w)

			assert.InDelta(t, tt.want, perf.MaxDrawdown, 1e-9)
			assert.GreaterOrEqual(t, perf.MaxDrawdown, 0.0)
			assert.LessOrEqual(t, perf.MaxDrawdown, 1.0)
		})
	}
}

func TestCompute_SingleSnapshotWindow(t *testing.T) {
	s := dailySeries(t, 1)
	w, err := s.Resolve(AllRange())
	require.NoError(t, err)

	perf := Compute(w)

	assert.Zero(t, perf.PnLAbsoluteUSD)
	assert.Zero(t, perf.MaxDrawdown)
}
