package market

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"

	"GETracker/fetcher"
	"GETracker/model"
)

// ErrRefreshInFlight is returned when a refresh is requested while
// another one is already running.
var ErrRefreshInFlight = errors.New("refresh already in progress")

// Refresher produces consistent (mapping, prices) pairs from the remote
// API and writes them through the domain cache. Partial failure never
// corrupts previously cached good data.
type Refresher struct {
	fetcher   fetcher.Fetcher
	cache     *Cache
	batchSize int
	imageURL  func(itemID int) string
	inFlight  atomic.Bool
}

func NewRefresher(f fetcher.Fetcher, c *Cache) *Refresher {
	return &Refresher{fetcher: f, cache: c}
}

// SetImageURL installs the resolver used to attach image references to
// processed items.
func (r *Refresher) SetImageURL(fn func(itemID int) string) { r.imageURL = fn }

// RefreshAll runs one full refresh cycle: fetch and persist prices,
// fetch and persist mapping, fetch volumes, reprocess the item list,
// and mark the refresh timestamp. Any prices/mapping failure aborts the
// cycle without marking the timestamp and without overwriting the
// previously cached dataset for the failed step.
func (r *Refresher) RefreshAll(ctx context.Context) error {
	if !r.inFlight.CompareAndSwap(false, true) {
		log.Println("[INFO] refresh skipped: another refresh is in progress")
		return ErrRefreshInFlight
	}
	defer r.inFlight.Store(false)

	prices, err := r.fetcher.Latest(ctx)
	if err != nil {
		return fmt.Errorf("fetch latest prices: %w", err)
	}
	if err := r.cache.SetLatestPrices(ctx, prices); err != nil {
		log.Printf("[WARN] persist prices: %v", err)
	}

	mapping, err := r.fetcher.Mapping(ctx)
	if err != nil {
		return fmt.Errorf("fetch item mapping: %w", err)
	}
	if err := r.cache.SetItemMapping(ctx, mapping); err != nil {
		log.Printf("[WARN] persist mapping: %v", err)
	}

	// Volume data is best-effort: when the endpoint fails the cycle
	// continues with whatever volumes were cached last.
	volumes, err := r.fetcher.Volumes(ctx)
	if err != nil {
		log.Printf("[WARN] fetch volumes: %v, keeping cached figures", err)
		volumes, _ = r.cache.VolumesStale(ctx)
	} else if err := r.cache.SetVolumes(ctx, volumes); err != nil {
		log.Printf("[WARN] persist volumes: %v", err)
	}

	items, err := ProcessItems(ctx, ProcessInput{
		Prices:    prices,
		Mapping:   mapping,
		Volumes:   volumes,
		BatchSize: r.batchSize,
		ImageURL:  r.imageURL,
	})
	if err != nil {
		return fmt.Errorf("process items: %w", err)
	}
	if err := r.cache.SetProcessedItems(ctx, items); err != nil {
		log.Printf("[WARN] persist processed items: %v", err)
	}

	if err := r.cache.MarkDataRefreshed(ctx); err != nil {
		log.Printf("[WARN] mark data refreshed: %v", err)
	}
	log.Printf("[INFO] full refresh complete: %d items processed", len(items))
	return nil
}

// RefreshInBackground runs RefreshAll on its own goroutine. Failures
// are logged and swallowed; callers keep showing last-good cached data.
func (r *Refresher) RefreshInBackground(ctx context.Context) {
	go func() {
		if err := r.RefreshAll(ctx); err != nil && !errors.Is(err, ErrRefreshInFlight) {
			log.Printf("[ERROR] background refresh: %v", err)
		}
	}()
}

// InitializeData prepares data on startup. With no cached pair it
// blocks on a first full fetch; with a cached pair past the daily
// boundary it refreshes in the background; otherwise it does nothing.
func (r *Refresher) InitializeData(ctx context.Context) error {
	_, havePrices := r.cache.LatestPricesStale(ctx)
	_, haveMapping := r.cache.ItemMappingStale(ctx)

	if !havePrices || !haveMapping {
		log.Println("[INFO] no cached data found, fetching initial data")
		return r.RefreshAll(ctx)
	}

	if r.cache.ShouldRefreshData(ctx) {
		log.Println("[INFO] daily refresh needed, fetching in background")
		r.RefreshInBackground(ctx)
		return nil
	}

	log.Println("[INFO] using cached data (last refresh within 24h)")
	return nil
}

// CachedLatest returns latest prices, preferring fresh cache, then a
// live fetch, then expired cache as a stale-while-error fallback.
func (r *Refresher) CachedLatest(ctx context.Context) (map[string]model.PriceInfo, error) {
	if prices, ok := r.cache.LatestPrices(ctx); ok {
		return prices, nil
	}
	prices, err := r.fetcher.Latest(ctx)
	if err != nil {
		if stale, ok := r.cache.LatestPricesStale(ctx); ok {
			log.Printf("[WARN] latest prices fetch failed, serving expired cache: %v", err)
			return stale, nil
		}
		return nil, err
	}
	if err := r.cache.SetLatestPrices(ctx, prices); err != nil {
		log.Printf("[WARN] persist prices: %v", err)
	}
	return prices, nil
}

// CachedMapping is CachedLatest for the item mapping.
func (r *Refresher) CachedMapping(ctx context.Context) ([]model.ItemMapping, error) {
	if mapping, ok := r.cache.ItemMapping(ctx); ok {
		return mapping, nil
	}
	mapping, err := r.fetcher.Mapping(ctx)
	if err != nil {
		if stale, ok := r.cache.ItemMappingStale(ctx); ok {
			log.Printf("[WARN] mapping fetch failed, serving expired cache: %v", err)
			return stale, nil
		}
		return nil, err
	}
	if err := r.cache.SetItemMapping(ctx, mapping); err != nil {
		log.Printf("[WARN] persist mapping: %v", err)
	}
	return mapping, nil
}

// CachedVolumes is CachedLatest for the daily volume figures.
func (r *Refresher) CachedVolumes(ctx context.Context) (map[string]int, error) {
	if volumes, ok := r.cache.Volumes(ctx); ok {
		return volumes, nil
	}
	volumes, err := r.fetcher.Volumes(ctx)
	if err != nil {
		if stale, ok := r.cache.VolumesStale(ctx); ok {
			log.Printf("[WARN] volumes fetch failed, serving expired cache: %v", err)
			return stale, nil
		}
		return nil, err
	}
	if err := r.cache.SetVolumes(ctx, volumes); err != nil {
		log.Printf("[WARN] persist volumes: %v", err)
	}
	return volumes, nil
}

// ProcessedItems returns the cached processed list, running a blocking
// full refresh first when nothing usable is cached.
func (r *Refresher) ProcessedItems(ctx context.Context) ([]model.ProcessedItem, error) {
	if items, ok := r.cache.ProcessedItems(ctx); ok {
		return items, nil
	}
	if err := r.RefreshAll(ctx); err != nil && !errors.Is(err, ErrRefreshInFlight) {
		return nil, err
	}
	items, ok := r.cache.ProcessedItems(ctx)
	if !ok {
		return nil, errors.New("processed items unavailable")
	}
	return items, nil
}

// Search queries the remote search endpoint. Results are not cached.
func (r *Refresher) Search(ctx context.Context, query string) ([]model.SearchResult, error) {
	return r.fetcher.Search(ctx, query)
}
