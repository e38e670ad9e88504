package model

import "time"

// WatchlistItem is one tracked item. An item id appears at most once
// across the entire watchlist, regardless of group.
type WatchlistItem struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	CurrentPrice int    `json:"current_price"`
	GroupName    string `json:"group_name"`
}

// WatchlistGroup is a named partition of the watchlist. The name acts
// as the identifier; the "default" group always exists.
type WatchlistGroup struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// WatchlistSnapshot is the full persisted state of the watchlist,
// written as one unit after every mutation.
type WatchlistSnapshot struct {
	Items     []WatchlistItem  `json:"items"`
	Groups    []WatchlistGroup `json:"groups"`
	UpdatedAt time.Time        `json:"updated_at"`
}
