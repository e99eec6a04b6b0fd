// Package chart renders vault share-price history as PNG line charts.
package chart

import (
	"errors"
	"fmt"

	charts "github.com/vicanso/go-charts/v2"

	"github.com/rdelorme/vaultlens/internal/external/morpho"
)

// RenderSharePrice renders the share-price path of a vault history as a
// PNG line chart. Fails when there are not enough points to draw a line.
func RenderSharePrice(points []morpho.HistoryPoint, title string) ([]byte, error) {
	if len(points) < 2 {
		return nil, errors.New("not enough data points")
	}

	labels := make([]string, len(points))
	values := make([]float64, len(points))
	yMin, yMax := points[0].SharePriceUSD, points[0].SharePriceUSD
	for i, p := range points {
		labels[i] = p.Timestamp.UTC().Format("Jan 02")
		v := p.SharePriceUSD
		values[i] = v
		if v < yMin {
			yMin = v
		}
		if v > yMax {
			yMax = v
		}
	}

	// Pad the y-range so the line does not hug the chart edges.
	pad := (yMax - yMin) * 0.05
	if pad < yMax*0.002 {
		pad = yMax * 0.002
	}
	yMin -= pad
	if yMin < 0 {
		yMin = 0
	}
	yMax += pad

	painter, err := charts.LineRender([][]float64{values},
		charts.TitleTextOptionFunc(title),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        labels,
			BoundaryGap: charts.FalseFlag(),
			SplitNumber: 8,
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{
			Min:         &yMin,
			Max:         &yMax,
			DivideCount: 5,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}

	img, err := painter.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}
	return img, nil
}
