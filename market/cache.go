package market

import (
	"context"
	"errors"
	"log"
	"time"

	"GETracker/cache"
	"GETracker/model"
)

// Logical cache keys for the datasets this package owns.
const (
	keyItemMapping    = "osrs_item_mapping"
	keyLatestPrices   = "osrs_latest_prices"
	keyVolumes        = "osrs_volumes"
	keyProcessedItems = "osrs_processed_items"
	keyLastFullFetch  = "osrs_last_full_fetch"
)

// refreshInterval is the daily boundary for the full-refresh decision.
const refreshInterval = 24 * time.Hour

// Cache provides typed accessors for the market datasets on top of the
// key-value store. Reads fail closed: anything missing, unreadable, or
// past its expiry is reported as absent.
type Cache struct {
	store cache.Store
}

func NewCache(store cache.Store) *Cache {
	return &Cache{store: store}
}

func (c *Cache) ItemMapping(ctx context.Context) ([]model.ItemMapping, bool) {
	return cache.GetJSON[[]model.ItemMapping](ctx, c.store, keyItemMapping, cache.ExpiryMapping)
}

func (c *Cache) ItemMappingStale(ctx context.Context) ([]model.ItemMapping, bool) {
	return cache.GetJSONStale[[]model.ItemMapping](ctx, c.store, keyItemMapping)
}

func (c *Cache) SetItemMapping(ctx context.Context, mapping []model.ItemMapping) error {
	return cache.SetJSON(ctx, c.store, keyItemMapping, mapping)
}

func (c *Cache) LatestPrices(ctx context.Context) (map[string]model.PriceInfo, bool) {
	return cache.GetJSON[map[string]model.PriceInfo](ctx, c.store, keyLatestPrices, cache.ExpiryPrices)
}

func (c *Cache) LatestPricesStale(ctx context.Context) (map[string]model.PriceInfo, bool) {
	return cache.GetJSONStale[map[string]model.PriceInfo](ctx, c.store, keyLatestPrices)
}

func (c *Cache) SetLatestPrices(ctx context.Context, prices map[string]model.PriceInfo) error {
	return cache.SetJSON(ctx, c.store, keyLatestPrices, prices)
}

func (c *Cache) Volumes(ctx context.Context) (map[string]int, bool) {
	return cache.GetJSON[map[string]int](ctx, c.store, keyVolumes, cache.ExpiryVolumes)
}

func (c *Cache) VolumesStale(ctx context.Context) (map[string]int, bool) {
	return cache.GetJSONStale[map[string]int](ctx, c.store, keyVolumes)
}

func (c *Cache) SetVolumes(ctx context.Context, volumes map[string]int) error {
	return cache.SetJSON(ctx, c.store, keyVolumes, volumes)
}

// ProcessedItems returns the cached processed list. The list is keyed
// independently of the mapping/price caches so a warm start can skip
// reprocessing entirely; it stays valid for a full day.
func (c *Cache) ProcessedItems(ctx context.Context) ([]model.ProcessedItem, bool) {
	return cache.GetJSON[[]model.ProcessedItem](ctx, c.store, keyProcessedItems, cache.ExpiryMapping)
}

func (c *Cache) SetProcessedItems(ctx context.Context, items []model.ProcessedItem) error {
	return cache.SetJSON(ctx, c.store, keyProcessedItems, items)
}

// ShouldRefreshData reports whether the last full fetch is absent or
// older than 24 hours. This is a boundary check on the refresh
// timestamp, independent of any single dataset's expiry.
func (c *Cache) ShouldRefreshData(ctx context.Context) bool {
	ts, ok := cache.GetJSONStale[int64](ctx, c.store, keyLastFullFetch)
	if !ok {
		return true
	}
	return time.Since(time.UnixMilli(ts)) > refreshInterval
}

// MarkDataRefreshed records now as the last full fetch. Called exactly
// once per successful full refresh cycle, never on partial success.
func (c *Cache) MarkDataRefreshed(ctx context.Context) error {
	return cache.SetJSON(ctx, c.store, keyLastFullFetch, time.Now().UnixMilli())
}

// ForceRefreshData clears the refresh timestamp so the next
// ShouldRefreshData reports true.
func (c *Cache) ForceRefreshData(ctx context.Context) error {
	err := c.store.Delete(ctx, keyLastFullFetch)
	if err != nil && !errors.Is(err, cache.ErrNotFound) {
		log.Printf("[ERROR] clear refresh timestamp: %v", err)
		return err
	}
	return nil
}
