package getracker

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"GETracker/config"
	"GETracker/market"
	"GETracker/model"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/latest", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"2":{"high":180,"highTime":1700000000,"low":160,"lowTime":1700000100}}}`))
	})
	mux.HandleFunc("/mapping", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":2,"name":"Cannonball","limit":11000,"members":true,"value":5}]`))
	})
	mux.HandleFunc("/volumes", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"2":700000}}`))
	})
	mux.HandleFunc("/timeseries", func(w http.ResponseWriter, r *http.Request) {
		ts := time.Now().Add(-time.Hour).Unix()
		fmt.Fprintf(w, `{"data":[{"timestamp":%d,"avgHighPrice":180,"avgLowPrice":160,"highPriceVolume":5,"lowPriceVolume":4}]}`, ts)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg, err := config.Load(filepath.Join(dir, "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	cfg.API.BaseURL = baseURL
	cfg.Cache.SQLitePath = filepath.Join(dir, "cache.db")
	cfg.Cache.ImageDir = filepath.Join(dir, "images")
	cfg.Profile.StateFile = filepath.Join(dir, "profile.json")
	return cfg
}

func TestClientColdStart(t *testing.T) {
	ctx := context.Background()
	srv := testServer(t)

	client, err := New(ctx, testConfig(t, srv.URL))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	defer client.Close()

	if err := client.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	items, ok := client.Cache.ProcessedItems(ctx)
	if !ok || len(items) != 1 {
		t.Fatalf("expected 1 processed item after cold start, got %d (ok=%v)", len(items), ok)
	}
	item := items[0]
	if item.Margin != 20 {
		t.Errorf("margin = %d, want 20", item.Margin)
	}
	// Profit caps volume at the buy limit.
	if item.PotentialProfit != 20*11000 {
		t.Errorf("potential profit = %d, want %d", item.PotentialProfit, 20*11000)
	}
	if client.Cache.ShouldRefreshData(ctx) {
		t.Error("refresh should be marked after cold start")
	}
}

func TestClientWatchlistAndProfileWired(t *testing.T) {
	ctx := context.Background()
	srv := testServer(t)

	client, err := New(ctx, testConfig(t, srv.URL))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	defer client.Close()

	client.Watchlist.AddToWatchlist(model.WatchlistItem{ID: 2, Name: "Cannonball", CurrentPrice: 180}, "")
	if !client.Watchlist.IsInWatchlist(2) {
		t.Error("item 2 should be in the watchlist")
	}
	if got := client.Profile.Profile().Username; got != "Adventurer" {
		t.Errorf("username = %q, want Adventurer", got)
	}
}

func TestClientTimeseries(t *testing.T) {
	ctx := context.Background()
	srv := testServer(t)

	client, err := New(ctx, testConfig(t, srv.URL))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	defer client.Close()

	series, err := client.Refresher.ItemTimeseries(ctx, 2, market.Period1D)
	if err != nil {
		t.Fatalf("timeseries: %v", err)
	}
	if len(series) != 1 {
		t.Fatalf("expected 1 point inside the 1D window, got %d", len(series))
	}
	if series[0].AvgHighPrice == nil || *series[0].AvgHighPrice != 180 {
		t.Errorf("unexpected point: %+v", series[0])
	}
}
