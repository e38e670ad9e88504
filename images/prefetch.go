package images

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"GETracker/cache"
	"GETracker/model"
)

// prefetchBatchSize bounds how many image downloads run at once.
const prefetchBatchSize = 10

// Prefetcher downloads item images into a local directory so views can
// render them offline. Cached files expire after seven days.
type Prefetcher struct {
	Config *Config
	Dir    string
	Client *http.Client
}

func NewPrefetcher(cfg *Config, dir string) *Prefetcher {
	return &Prefetcher{
		Config: cfg,
		Dir:    dir,
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *Prefetcher) ensureDir() error {
	return os.MkdirAll(p.Dir, 0755)
}

func (p *Prefetcher) filePath(t model.ImageType, itemID int) string {
	prefix, ext := "item_", ".gif"
	if t == model.ImageDetailed {
		prefix, ext = "detailed_", ".png"
	}
	return filepath.Join(p.Dir, fmt.Sprintf("%s%d%s", prefix, itemID, ext))
}

// CachedImagePath returns a local path for the item image, downloading
// it when missing or expired. On download failure the remote URL is
// returned so the caller can still render something.
func (p *Prefetcher) CachedImagePath(ctx context.Context, itemID int) (string, error) {
	if err := p.ensureDir(); err != nil {
		return "", err
	}
	t := p.Config.Type(ctx)
	path := p.filePath(t, itemID)

	if info, err := os.Stat(path); err == nil {
		if time.Since(info.ModTime()) < cache.ExpiryImages {
			return path, nil
		}
	}

	remote := URLFor(t, itemID)
	if err := p.download(ctx, remote, path); err != nil {
		log.Printf("[WARN] caching image for item %d: %v", itemID, err)
		return remote, nil
	}
	return path, nil
}

// Prefetch downloads images for the given items in fixed-size batches.
// Per-item failures are logged and skipped.
func (p *Prefetcher) Prefetch(ctx context.Context, itemIDs []int) error {
	if err := p.ensureDir(); err != nil {
		return err
	}
	t := p.Config.Type(ctx)

	for start := 0; start < len(itemIDs); start += prefetchBatchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := start + prefetchBatchSize
		if end > len(itemIDs) {
			end = len(itemIDs)
		}

		var wg sync.WaitGroup
		for _, id := range itemIDs[start:end] {
			path := p.filePath(t, id)
			if info, err := os.Stat(path); err == nil && time.Since(info.ModTime()) < cache.ExpiryImages {
				continue
			}
			wg.Add(1)
			go func(id int, path string) {
				defer wg.Done()
				if err := p.download(ctx, URLFor(t, id), path); err != nil {
					log.Printf("[WARN] prefetch image for item %d: %v", id, err)
				}
			}(id, path)
		}
		wg.Wait()
	}
	return nil
}

func (p *Prefetcher) download(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: status %d", url, resp.StatusCode)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
