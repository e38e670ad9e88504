// Package getracker is an embedded client library for the OSRS Grand
// Exchange price API: typed fetching, persistent local caching with
// per-dataset expiry, daily refresh orchestration, and a
// group-partitioned watchlist.
package getracker

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"GETracker/cache"
	"GETracker/config"
	"GETracker/fetcher"
	"GETracker/images"
	"GETracker/market"
	"GETracker/model"
	"GETracker/profile"
	"GETracker/scheduler"
	"GETracker/watchlist"
)

// Client wires the library's components together from one Config.
type Client struct {
	Config    *config.Config
	Store     cache.Store
	Cache     *market.Cache
	Fetcher   fetcher.Fetcher
	Refresher *market.Refresher
	Watchlist *watchlist.Store
	Profile   *profile.Manager
	Images    *images.Config
	Prefetch  *images.Prefetcher
	Scheduler *scheduler.Scheduler
}

// New builds a Client from the given configuration.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	store := openStore(ctx, cfg)
	domainCache := market.NewCache(store)

	wikiFetcher := fetcher.NewWikiFetcher(
		cfg.API.BaseURL, cfg.API.UserAgent,
		time.Duration(cfg.API.TimeoutSeconds)*time.Second)
	log.Printf("[INFO] data source: %s", wikiFetcher.Name())

	refresher := market.NewRefresher(wikiFetcher, domainCache)

	imageCfg := images.NewConfig(store)
	imgType := imageCfg.Type(ctx)
	refresher.SetImageURL(func(itemID int) string {
		return images.URLFor(imgType, itemID)
	})

	var repo watchlist.Repository
	if cfg.Watchlist.SnapshotFile != "" {
		repo = &watchlist.FileRepository{Path: cfg.Watchlist.SnapshotFile}
	} else {
		repo = &watchlist.CacheRepository{Store: store}
	}
	wl, err := watchlist.NewStore(repo)
	if err != nil {
		return nil, fmt.Errorf("init watchlist store: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Profile.StateFile), 0755); err != nil {
		return nil, fmt.Errorf("create profile dir: %w", err)
	}
	pm, err := profile.NewManager(cfg.Profile.StateFile)
	if err != nil {
		return nil, fmt.Errorf("init profile manager: %w", err)
	}

	sched := scheduler.NewScheduler(ctx, refresher)
	if err := sched.Register(cfg.Refresh.DailyCron); err != nil {
		return nil, fmt.Errorf("register refresh schedule: %w", err)
	}

	return &Client{
		Config:    cfg,
		Store:     store,
		Cache:     domainCache,
		Fetcher:   wikiFetcher,
		Refresher: refresher,
		Watchlist: wl,
		Profile:   pm,
		Images:    imageCfg,
		Prefetch:  images.NewPrefetcher(imageCfg, cfg.Cache.ImageDir),
		Scheduler: sched,
	}, nil
}

// openStore picks the cache backend: Redis when configured, else
// SQLite, degrading to an in-memory store when the database can't open.
func openStore(ctx context.Context, cfg *config.Config) cache.Store {
	if cfg.Cache.RedisAddr != "" {
		rs, err := cache.NewRedisStore(ctx, cfg.Cache.RedisAddr, "", 0)
		if err == nil {
			return rs
		}
		log.Printf("[WARN] init redis store failed, falling back to sqlite: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Cache.SQLitePath), 0755); err != nil {
		log.Printf("[WARN] create cache dir failed, using memory store: %v", err)
		return cache.NewMemoryStore()
	}
	ss, err := cache.NewSQLiteStore(cfg.Cache.SQLitePath)
	if err != nil {
		log.Printf("[WARN] init sqlite store failed, using memory store: %v", err)
		return cache.NewMemoryStore()
	}
	return ss
}

// Start initializes cached data and starts the refresh scheduler.
func (c *Client) Start(ctx context.Context) error {
	if err := c.Refresher.InitializeData(ctx); err != nil {
		return fmt.Errorf("initialize data: %w", err)
	}
	c.Scheduler.Start()
	if c.Config.Refresh.RunOnStart {
		log.Println("[INFO] run-on-start enabled, refreshing now")
		c.Refresher.RefreshInBackground(ctx)
	}
	return nil
}

// SetImageType updates the persisted image-type config and the
// resolver used for newly processed items.
func (c *Client) SetImageType(ctx context.Context, t model.ImageType) error {
	if err := c.Images.SetType(ctx, t); err != nil {
		return err
	}
	c.Refresher.SetImageURL(func(itemID int) string {
		return images.URLFor(t, itemID)
	})
	return nil
}

// Close stops the scheduler and releases the cache store.
func (c *Client) Close() error {
	c.Scheduler.Stop()
	return c.Store.Close()
}
