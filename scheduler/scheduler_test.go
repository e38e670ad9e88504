package scheduler

import (
	"context"
	"testing"

	"GETracker/cache"
	"GETracker/fetcher"
	"GETracker/market"
	"GETracker/model"
)

func intp(v int) *int { return &v }

func i64p(v int64) *int64 { return &v }

func testRefresher() (*market.Refresher, *market.Cache) {
	mock := &fetcher.MockFetcher{
		LatestData: map[string]model.PriceInfo{
			"2": {High: intp(120), HighTime: i64p(1700000000), Low: intp(100), LowTime: i64p(1700000100)},
		},
		MappingData: []model.ItemMapping{{ID: 2, Name: "Cannonball", Limit: 11000}},
		VolumeData:  map[string]int{"2": 500000},
	}
	c := market.NewCache(cache.NewMemoryStore())
	return market.NewRefresher(mock, c), c
}

func TestRegisterRejectsBadSpec(t *testing.T) {
	r, _ := testRefresher()
	s := NewScheduler(context.Background(), r)
	if err := s.Register("not a cron spec"); err == nil {
		t.Fatal("expected error for invalid cron spec")
	}
}

func TestRegisterAcceptsSixFieldSpec(t *testing.T) {
	r, _ := testRefresher()
	s := NewScheduler(context.Background(), r)
	if err := s.Register("0 0 6 * * *"); err != nil {
		t.Fatalf("register: %v", err)
	}
	s.Start()
	s.Stop()
}

func TestRunNowRefreshes(t *testing.T) {
	ctx := context.Background()
	r, c := testRefresher()
	s := NewScheduler(ctx, r)

	s.RunNow()

	if c.ShouldRefreshData(ctx) {
		t.Error("refresh timestamp should be marked after RunNow")
	}
	items, ok := c.ProcessedItems(ctx)
	if !ok || len(items) != 1 {
		t.Fatalf("expected 1 processed item, got %d (ok=%v)", len(items), ok)
	}
}
