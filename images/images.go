package images

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"GETracker/cache"
	"GETracker/model"
)

const configKey = "osrs_image_config"

// storedConfig is the persisted image-type selection.
type storedConfig struct {
	Type        model.ImageType `json:"type"`
	LastUpdated int64           `json:"last_updated"`
}

// Config selects which remote image source item icons come from,
// persisted in the key-value cache store.
type Config struct {
	store cache.Store
}

func NewConfig(store cache.Store) *Config {
	return &Config{store: store}
}

// Type returns the configured image type, writing the default on first use.
func (c *Config) Type(ctx context.Context) model.ImageType {
	cfg, ok := cache.GetJSONStale[storedConfig](ctx, c.store, configKey)
	if ok && (cfg.Type == model.ImageNormal || cfg.Type == model.ImageDetailed) {
		return cfg.Type
	}
	if err := c.SetType(ctx, model.ImageNormal); err != nil {
		log.Printf("[WARN] persist default image config: %v", err)
	}
	return model.ImageNormal
}

// SetType updates the configured image type.
func (c *Config) SetType(ctx context.Context, t model.ImageType) error {
	return cache.SetJSON(ctx, c.store, configKey, storedConfig{
		Type:        t,
		LastUpdated: time.Now().UnixMilli(),
	})
}

// URLForItem returns the remote image URL for an item id under the
// configured image type.
func (c *Config) URLForItem(ctx context.Context, itemID int) string {
	return URLFor(c.Type(ctx), itemID)
}

// URLFor maps an image type and item id to the remote image URL.
func URLFor(t model.ImageType, itemID int) string {
	switch t {
	case model.ImageDetailed:
		return fmt.Sprintf("https://oldschool.runescape.wiki/images/%d_detail.png", itemID)
	default:
		return fmt.Sprintf("https://secure.runescape.com/m=itemdb_oldschool/obj_big.gif?id=%d", itemID)
	}
}

// WikiImageURL builds the wiki image URL from an item name. Spaces and
// the characters the wiki escapes become URL-safe.
func WikiImageURL(itemName string, detailed bool) string {
	name := strings.NewReplacer(
		" ", "_",
		"'", "%27",
		"(", "%28",
		")", "%29",
	).Replace(itemName)
	if detailed {
		return fmt.Sprintf("https://oldschool.runescape.wiki/images/%s_detail.png", name)
	}
	return fmt.Sprintf("https://oldschool.runescape.wiki/images/%s.png", name)
}
