package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	s := buildTestSeries(t,
		Snapshot{Timestamp: day(0), SharePriceUSD: 1.00, TVLUSD: 1000},
		Snapshot{Timestamp: day(10), SharePriceUSD: 1.02, TVLUSD: 1520},
		Snapshot{Timestamp: day(20), SharePriceUSD: 1.05, TVLUSD: 1575},
	)

	sum, err := Summarize(s, AllRange())
	require.NoError(t, err)

	assert.Equal(t, day(0), sum.StartTimestamp)
	assert.Equal(t, day(20), sum.EndTimestamp)
	assert.InDelta(t, 1000, sum.TVLStartUSD, 1e-9)
	assert.InDelta(t, 1575, sum.TVLEndUSD, 1e-9)
	assert.InDelta(t, 575, sum.PnLAbsoluteUSD, 1e-9)

	require.NotNil(t, sum.PnLPercent)
	assert.InDelta(t, 0.575, *sum.PnLPercent, 1e-9)
	require.NotNil(t, sum.AnnualizedReturn)

	// Composed decomposition still satisfies the completeness invariant.
	assert.InDelta(t, sum.PnLAbsoluteUSD,
		sum.FlowContributionUSD+sum.PriceContributionUSD, 1e-6)

	assert.False(t, sum.StartAdjusted)
	assert.False(t, sum.PartialDecomposition)
}

func TestSummarize_CarriesAdjustmentFlag(t *testing.T) {
	s := buildTestSeries(t,
		Snapshot{Timestamp: day(0), SharePriceUSD: 1.00, TVLUSD: 1000},
		Snapshot{Timestamp: day(5), SharePriceUSD: 1.01, TVLUSD: 1010},
	)

	sum, err := Summarize(s, Between(day(-30), day(5)))
	require.NoError(t, err)

	assert.True(t, sum.StartAdjusted)
}

func TestSummarize_CarriesPartialFlag(t *testing.T) {
	s := buildTestSeries(t,
		Snapshot{Timestamp: day(0), SharePriceUSD: 1.00, TVLUSD: 1000},
		Snapshot{Timestamp: day(1), SharePriceUSD: 0, TVLUSD: 1100},
		Snapshot{Timestamp: day(2), SharePriceUSD: 1.00, TVLUSD: 1200},
	)

	sum, err := Summarize(s, AllRange())
	require.NoError(t, err)

	assert.True(t, sum.PartialDecomposition)
}

func TestSummarize_EmptyWindow(t *testing.T) {
	s := dailySeries(t, 5)

	_, err := Summarize(s, Between(day(-20), day(-10)))
	assert.ErrorIs(t, err, ErrEmptyWindow)
}

func TestSummarize_NilSeries(t *testing.T) {
	_, err := Summarize(nil, AllRange())
	assert.ErrorIs(t, err, ErrInvalidSeries)
}
