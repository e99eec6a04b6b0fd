package chart

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rdelorme/vaultlens/internal/external/morpho"
)

func TestRenderSharePrice(t *testing.T) {
	base := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	points := make([]morpho.HistoryPoint, 0, 30)
	for i := 0; i < 30; i++ {
		points = append(points, morpho.HistoryPoint{
			Timestamp:     base.AddDate(0, 0, i),
			SharePriceUSD: 1.0 + float64(i)*0.002,
			TVLUSD:        1000,
		})
	}

	img, err := RenderSharePrice(points, "Flagship USDC")
	require.NoError(t, err)
	require.NotEmpty(t, img)

	// PNG magic bytes
	assert.True(t, bytes.HasPrefix(img, []byte{0x89, 'P', 'N', 'G'}))
}

func TestRenderSharePrice_NotEnoughPoints(t *testing.T) {
	_, err := RenderSharePrice([]morpho.HistoryPoint{{SharePriceUSD: 1}}, "x")
	assert.Error(t, err)
}
