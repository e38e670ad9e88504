package market

import (
	"context"
	"log"
	"runtime"
	"sort"
	"strconv"

	"GETracker/model"
)

// defaultBatchSize bounds how many price entries are processed between
// scheduler yields. Batching affects interleaving only; the output is
// identical for any batch size.
const defaultBatchSize = 500

// ProcessInput is a validated (prices, mapping) pair plus the daily
// volume figures joined in during processing.
type ProcessInput struct {
	Prices  map[string]model.PriceInfo
	Mapping []model.ItemMapping
	Volumes map[string]int

	// BatchSize overrides the default of 500 when positive.
	BatchSize int

	// ImageURL supplies the image reference for an item id. Optional.
	ImageURL func(itemID int) string
}

// ProcessItems joins price data with item mapping, computes derived
// fields, and returns the result sorted descending by margin. Entries
// without a mapping or with a missing/non-positive price side are
// skipped. A fault while deriving one item skips that item only.
//
// Price entries are visited in ascending item-id order, which fixes the
// encounter order ties preserve under the stable sort.
func ProcessItems(ctx context.Context, in ProcessInput) ([]model.ProcessedItem, error) {
	batchSize := in.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	byID := make(map[int]model.ItemMapping, len(in.Mapping))
	for _, m := range in.Mapping {
		byID[m.ID] = m
	}

	ids := make([]int, 0, len(in.Prices))
	for key := range in.Prices {
		id, err := strconv.Atoi(key)
		if err != nil {
			log.Printf("[WARN] skipping non-numeric item id %q", key)
			continue
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)

	items := make([]model.ProcessedItem, 0, len(ids))
	for start := 0; start < len(ids); start += batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := start + batchSize
		if end > len(ids) {
			end = len(ids)
		}
		for _, id := range ids[start:end] {
			if item, ok := processOne(id, in, byID); ok {
				items = append(items, item)
			}
		}
		// Yield between batches so a large dataset doesn't starve
		// other work; has no effect on the result.
		runtime.Gosched()
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Margin > items[j].Margin
	})
	return items, nil
}

func processOne(id int, in ProcessInput, byID map[int]model.ItemMapping) (item model.ProcessedItem, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[WARN] processing item %d: %v", id, r)
			ok = false
		}
	}()

	info, exists := in.Prices[strconv.Itoa(id)]
	if !exists || !info.Valid() {
		return model.ProcessedItem{}, false
	}
	meta, found := byID[id]
	if !found {
		return model.ProcessedItem{}, false
	}

	margin := *info.High - *info.Low
	volume := in.Volumes[strconv.Itoa(id)]
	capped := volume
	if meta.Limit < capped {
		capped = meta.Limit
	}

	item = model.ProcessedItem{
		ID:              id,
		Name:            meta.Name,
		BuyLimit:        meta.Limit,
		Members:         meta.Members,
		BuyPrice:        *info.High,
		SellPrice:       *info.Low,
		Margin:          margin,
		DailyVolume:     volume,
		PotentialProfit: margin * capped,
	}
	if in.ImageURL != nil {
		item.ImageURL = in.ImageURL(id)
	}
	return item, true
}
