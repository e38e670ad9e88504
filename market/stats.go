package market

import (
	"errors"

	"GETracker/model"
)

// SeriesStats summarizes a timeseries window for the detail view: the
// extremes of the window, the mean of each price side, and the percent
// change between the first and last points that carry a high price.
type SeriesStats struct {
	HighestPrice  int
	LowestPrice   int
	AvgHighPrice  int
	AvgLowPrice   int
	TotalVolume   int
	ChangePercent float64
}

var errEmptySeries = errors.New("market: empty timeseries")

// ComputeSeriesStats derives window statistics from a timeseries. Points
// with a nil side are skipped for that side's aggregates.
func ComputeSeriesStats(series []model.TimePoint) (SeriesStats, error) {
	if len(series) == 0 {
		return SeriesStats{}, errEmptySeries
	}

	var stats SeriesStats
	var highSum, highN, lowSum, lowN int
	var first, last *int

	for i := range series {
		p := &series[i]
		stats.TotalVolume += p.HighPriceVolume + p.LowPriceVolume
		if p.AvgHighPrice != nil {
			v := *p.AvgHighPrice
			highSum += v
			highN++
			if v > stats.HighestPrice {
				stats.HighestPrice = v
			}
			if first == nil {
				first = p.AvgHighPrice
			}
			last = p.AvgHighPrice
		}
		if p.AvgLowPrice != nil {
			v := *p.AvgLowPrice
			lowSum += v
			lowN++
			if stats.LowestPrice == 0 || v < stats.LowestPrice {
				stats.LowestPrice = v
			}
		}
	}

	if highN > 0 {
		stats.AvgHighPrice = highSum / highN
	}
	if lowN > 0 {
		stats.AvgLowPrice = lowSum / lowN
	}
	if first != nil && last != nil && *first != 0 {
		stats.ChangePercent = (float64(*last) - float64(*first)) / float64(*first) * 100
	}
	return stats, nil
}

// RangePosition returns where a price sits within [low, high] clamped to
// 0.0 through 1.0. A degenerate range reads as the midpoint.
func RangePosition(current, high, low int) float64 {
	if high <= low {
		return 0.5
	}
	pos := float64(current-low) / float64(high-low)
	if pos < 0 {
		return 0
	}
	if pos > 1 {
		return 1
	}
	return pos
}
