package market

import (
	"context"
	"strconv"

	"GETracker/model"
)

// ItemDetail bundles everything the item detail view needs. Each field
// comes from its own cached resource, so some may be empty when a
// source is unavailable and nothing was cached.
type ItemDetail struct {
	Mapping *model.ItemMapping
	Price   *model.PriceInfo
	Volume  int
	Series  []model.TimePoint
	Stats   SeriesStats
}

// ItemDetail loads mapping, price, volume, and chart data for one item.
// Each resource goes through the per-resource cache-then-fetch-then-
// stale-fallback path; only a resource with no cache at all surfaces
// its error, and only the timeseries error is fatal to the detail view.
func (r *Refresher) ItemDetail(ctx context.Context, itemID int, p Period) (ItemDetail, error) {
	var detail ItemDetail

	if mapping, err := r.CachedMapping(ctx); err == nil {
		for i := range mapping {
			if mapping[i].ID == itemID {
				detail.Mapping = &mapping[i]
				break
			}
		}
	}
	if prices, err := r.CachedLatest(ctx); err == nil {
		if info, ok := prices[strconv.Itoa(itemID)]; ok {
			detail.Price = &info
		}
	}
	if volumes, err := r.CachedVolumes(ctx); err == nil {
		detail.Volume = volumes[strconv.Itoa(itemID)]
	}

	series, err := r.ItemTimeseries(ctx, itemID, p)
	if err != nil {
		return detail, err
	}
	detail.Series = series
	if stats, err := ComputeSeriesStats(series); err == nil {
		detail.Stats = stats
	}
	return detail, nil
}
