package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"GETracker/model"
)

// WikiFetcher implements Fetcher against the wiki prices REST API.
type WikiFetcher struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Client    *http.Client
}

// NewWikiFetcher creates a fetcher for the given API base URL. The
// timeout is applied per call via the request context.
func NewWikiFetcher(baseURL, userAgent string, timeout time.Duration) *WikiFetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WikiFetcher{
		BaseURL:   baseURL,
		UserAgent: userAgent,
		Timeout:   timeout,
		Client:    &http.Client{},
	}
}

func (f *WikiFetcher) Name() string { return "wiki" }

// getJSON performs a GET and decodes the body into out. A non-2xx
// status or transport failure yields a FetchError; a body that does
// not decode yields a ValidationError.
func (f *WikiFetcher) getJSON(ctx context.Context, endpoint string, out any) error {
	u := f.BaseURL + endpoint

	cctx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(cctx, http.MethodGet, u, nil)
	if err != nil {
		return &FetchError{URL: u, Err: err}
	}
	req.Header.Set("User-Agent", f.UserAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return &FetchError{URL: u, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &FetchError{URL: u, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return &FetchError{URL: u, Status: resp.StatusCode}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &ValidationError{URL: u, Reason: fmt.Sprintf("decode: %v", err)}
	}
	return nil
}

type latestResponse struct {
	Data map[string]model.PriceInfo `json:"data"`
}

func (f *WikiFetcher) Latest(ctx context.Context) (map[string]model.PriceInfo, error) {
	var resp latestResponse
	if err := f.getJSON(ctx, "/latest", &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, &ValidationError{URL: f.BaseURL + "/latest", Reason: "missing data map"}
	}
	return resp.Data, nil
}

func (f *WikiFetcher) Mapping(ctx context.Context) ([]model.ItemMapping, error) {
	var mapping []model.ItemMapping
	if err := f.getJSON(ctx, "/mapping", &mapping); err != nil {
		return nil, err
	}
	if mapping == nil {
		return nil, &ValidationError{URL: f.BaseURL + "/mapping", Reason: "mapping is not a list"}
	}
	return mapping, nil
}

type volumesResponse struct {
	Data map[string]int `json:"data"`
}

func (f *WikiFetcher) Volumes(ctx context.Context) (map[string]int, error) {
	var resp volumesResponse
	if err := f.getJSON(ctx, "/volumes", &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, &ValidationError{URL: f.BaseURL + "/volumes", Reason: "missing data map"}
	}
	return resp.Data, nil
}

type timeseriesResponse struct {
	Data []model.TimePoint `json:"data"`
}

func (f *WikiFetcher) Timeseries(ctx context.Context, timestep string, itemID int) ([]model.TimePoint, error) {
	endpoint := fmt.Sprintf("/timeseries?timestep=%s&id=%d", url.QueryEscape(timestep), itemID)
	var resp timeseriesResponse
	if err := f.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, &ValidationError{URL: f.BaseURL + endpoint, Reason: "missing data list"}
	}
	return resp.Data, nil
}

func (f *WikiFetcher) Search(ctx context.Context, query string) ([]model.SearchResult, error) {
	endpoint := "/search?query=" + url.QueryEscape(query)
	var results []model.SearchResult
	if err := f.getJSON(ctx, endpoint, &results); err != nil {
		return nil, err
	}
	return results, nil
}
