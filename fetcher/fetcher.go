package fetcher

import (
	"context"
	"fmt"

	"GETracker/model"
)

// Fetcher defines the interface for fetching remote price data.
type Fetcher interface {
	Latest(ctx context.Context) (map[string]model.PriceInfo, error)
	Mapping(ctx context.Context) ([]model.ItemMapping, error)
	Volumes(ctx context.Context) (map[string]int, error)
	Timeseries(ctx context.Context, timestep string, itemID int) ([]model.TimePoint, error)
	Search(ctx context.Context, query string) ([]model.SearchResult, error)
	Name() string
}

// FetchError reports a non-success HTTP status or a network/timeout
// failure on a remote call.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ValidationError reports a response that decoded but lacked the
// expected shape. Loosely-shaped payloads never enter the domain model.
type ValidationError struct {
	URL    string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid response from %s: %s", e.URL, e.Reason)
}
