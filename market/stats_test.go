package market

import (
	"testing"

	"GETracker/model"
)

func TestComputeSeriesStats(t *testing.T) {
	series := []model.TimePoint{
		{Timestamp: 100, AvgHighPrice: intp(200), AvgLowPrice: intp(180), HighPriceVolume: 10, LowPriceVolume: 5},
		{Timestamp: 200, AvgHighPrice: nil, AvgLowPrice: intp(170), HighPriceVolume: 0, LowPriceVolume: 3},
		{Timestamp: 300, AvgHighPrice: intp(220), AvgLowPrice: nil, HighPriceVolume: 7, LowPriceVolume: 0},
	}

	stats, err := ComputeSeriesStats(series)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.HighestPrice != 220 {
		t.Errorf("highest = %d, want 220", stats.HighestPrice)
	}
	if stats.LowestPrice != 170 {
		t.Errorf("lowest = %d, want 170", stats.LowestPrice)
	}
	if stats.AvgHighPrice != 210 {
		t.Errorf("avg high = %d, want 210", stats.AvgHighPrice)
	}
	if stats.AvgLowPrice != 175 {
		t.Errorf("avg low = %d, want 175", stats.AvgLowPrice)
	}
	if stats.TotalVolume != 25 {
		t.Errorf("total volume = %d, want 25", stats.TotalVolume)
	}
	// 200 -> 220 over the window.
	if stats.ChangePercent < 9.99 || stats.ChangePercent > 10.01 {
		t.Errorf("change = %f, want 10", stats.ChangePercent)
	}
}

func TestComputeSeriesStatsEmpty(t *testing.T) {
	if _, err := ComputeSeriesStats(nil); err == nil {
		t.Fatal("expected error for empty series")
	}
}

func TestRangePosition(t *testing.T) {
	cases := []struct {
		current, high, low int
		want               float64
	}{
		{150, 200, 100, 0.5},
		{100, 200, 100, 0},
		{200, 200, 100, 1},
		{50, 200, 100, 0},
		{250, 200, 100, 1},
		{150, 100, 100, 0.5},
	}
	for _, tc := range cases {
		if got := RangePosition(tc.current, tc.high, tc.low); got != tc.want {
			t.Errorf("RangePosition(%d, %d, %d) = %f, want %f", tc.current, tc.high, tc.low, got, tc.want)
		}
	}
}
