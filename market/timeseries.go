package market

import (
	"context"
	"fmt"
	"log"
	"slices"
	"sort"
	"time"

	"GETracker/cache"
	"GETracker/model"
)

// Period selects a historical chart window.
type Period string

const (
	Period1D  Period = "1D"
	Period7D  Period = "7D"
	Period30D Period = "30D"
	Period1Y  Period = "1Y"
)

// periodSpec maps a period to its fixed sampling parameters.
type periodSpec struct {
	timestep  string
	lookback  time.Duration
	maxPoints int
}

var periodSpecs = map[Period]periodSpec{
	Period1D:  {timestep: "5m", lookback: 24 * time.Hour, maxPoints: 288},
	Period7D:  {timestep: "1h", lookback: 7 * 24 * time.Hour, maxPoints: 168},
	Period30D: {timestep: "6h", lookback: 30 * 24 * time.Hour, maxPoints: 120},
	Period1Y:  {timestep: "24h", lookback: 365 * 24 * time.Hour, maxPoints: 365},
}

func timeseriesKey(itemID int, p Period) string {
	return fmt.Sprintf("timeseries_%d_%s", itemID, p)
}

// ItemTimeseries returns the chart series for one item and period,
// cached per (item, period) with the timeseries expiry and the same
// stale-while-error fallback as the other datasets.
func (r *Refresher) ItemTimeseries(ctx context.Context, itemID int, p Period) ([]model.TimePoint, error) {
	spec, ok := periodSpecs[p]
	if !ok {
		return nil, fmt.Errorf("unknown period %q", p)
	}
	key := timeseriesKey(itemID, p)

	series, ok := cache.GetJSON[[]model.TimePoint](ctx, r.cache.store, key, cache.ExpiryTimeseries)
	if !ok {
		fetched, err := r.fetcher.Timeseries(ctx, spec.timestep, itemID)
		if err != nil {
			stale, haveStale := cache.GetJSONStale[[]model.TimePoint](ctx, r.cache.store, key)
			if !haveStale {
				return nil, err
			}
			log.Printf("[WARN] timeseries fetch for item %d failed, serving expired cache: %v", itemID, err)
			series = stale
		} else {
			if err := cache.SetJSON(ctx, r.cache.store, key, fetched); err != nil {
				log.Printf("[WARN] persist timeseries %q: %v", key, err)
			}
			series = fetched
		}
	}

	return windowSeries(series, spec, time.Now()), nil
}

// windowSeries sorts ascending by timestamp, truncates to the most
// recent maxPoints, then drops anything outside the lookback window.
// Truncation usually already satisfies the window; both are applied.
func windowSeries(points []model.TimePoint, spec periodSpec, now time.Time) []model.TimePoint {
	out := slices.Clone(points)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp < out[j].Timestamp
	})
	if len(out) > spec.maxPoints {
		out = out[len(out)-spec.maxPoints:]
	}
	cutoff := now.Add(-spec.lookback).Unix()
	filtered := out[:0]
	for _, pt := range out {
		if pt.Timestamp >= cutoff {
			filtered = append(filtered, pt)
		}
	}
	return filtered
}
