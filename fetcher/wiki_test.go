package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestFetcher(handler http.Handler) (*WikiFetcher, *httptest.Server) {
	srv := httptest.NewServer(handler)
	f := NewWikiFetcher(srv.URL, "GETracker test", 2*time.Second)
	return f, srv
}

func TestLatestDecodes(t *testing.T) {
	f, srv := newTestFetcher(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/latest" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"data":{"4151":{"high":1500000,"highTime":1700000000,"low":1480000,"lowTime":1700000100}}}`))
	}))
	defer srv.Close()

	prices, err := f.Latest(context.Background())
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	info, ok := prices["4151"]
	if !ok {
		t.Fatal("expected item 4151 in response")
	}
	if info.High == nil || *info.High != 1500000 || info.Low == nil || *info.Low != 1480000 {
		t.Errorf("unexpected price info: %+v", info)
	}
	if !info.Valid() {
		t.Error("expected price info to be valid")
	}
}

func TestLatestNullSidesDecode(t *testing.T) {
	f, srv := newTestFetcher(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"2":{"high":null,"highTime":null,"low":100,"lowTime":1700000000}}}`))
	}))
	defer srv.Close()

	prices, err := f.Latest(context.Background())
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	info := prices["2"]
	if info.High != nil {
		t.Error("expected nil high")
	}
	if info.Valid() {
		t.Error("entry with a nil side must not be valid")
	}
}

func TestLatestMissingDataMap(t *testing.T) {
	f, srv := newTestFetcher(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	_, err := f.Latest(context.Background())
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestFetchErrorOnStatus(t *testing.T) {
	f, srv := newTestFetcher(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "oops", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := f.Latest(context.Background())
	var ferr *FetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if ferr.Status != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", ferr.Status)
	}
}

func TestFetchErrorOnTimeout(t *testing.T) {
	f, srv := newTestFetcher(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()
	f.Timeout = 50 * time.Millisecond

	_, err := f.Latest(context.Background())
	var ferr *FetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected FetchError on timeout, got %v", err)
	}
}

func TestMappingDecodes(t *testing.T) {
	f, srv := newTestFetcher(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/mapping" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`[{"id":4151,"name":"Abyssal whip","limit":70,"members":true,"value":120001,"examine":"A weapon from the abyss."}]`))
	}))
	defer srv.Close()

	mapping, err := f.Mapping(context.Background())
	if err != nil {
		t.Fatalf("mapping: %v", err)
	}
	if len(mapping) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(mapping))
	}
	m := mapping[0]
	if m.ID != 4151 || m.Name != "Abyssal whip" || m.Limit != 70 || !m.Members {
		t.Errorf("unexpected mapping entry: %+v", m)
	}
}

func TestMappingNotAListIsValidationError(t *testing.T) {
	f, srv := newTestFetcher(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	_, err := f.Mapping(context.Background())
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestTimeseriesQueryParams(t *testing.T) {
	f, srv := newTestFetcher(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("timestep"); got != "5m" {
			t.Errorf("timestep = %q, want 5m", got)
		}
		if got := r.URL.Query().Get("id"); got != "4151" {
			t.Errorf("id = %q, want 4151", got)
		}
		w.Write([]byte(`{"data":[{"timestamp":1700000000,"avgHighPrice":1500000,"avgLowPrice":1480000,"highPriceVolume":12,"lowPriceVolume":9}]}`))
	}))
	defer srv.Close()

	series, err := f.Timeseries(context.Background(), "5m", 4151)
	if err != nil {
		t.Fatalf("timeseries: %v", err)
	}
	if len(series) != 1 || series[0].Timestamp != 1700000000 {
		t.Errorf("unexpected series: %+v", series)
	}
}

func TestSearchEscapesQuery(t *testing.T) {
	f, srv := newTestFetcher(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("query"); got != "rune scim" {
			t.Errorf("query = %q, want 'rune scim'", got)
		}
		w.Write([]byte(`[{"id":1333,"name":"Rune scimitar","current":{"price":15000}}]`))
	}))
	defer srv.Close()

	results, err := f.Search(context.Background(), "rune scim")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].Current.Price != 15000 {
		t.Errorf("unexpected results: %+v", results)
	}
}

func TestVolumesDecodes(t *testing.T) {
	f, srv := newTestFetcher(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"4151":3500,"453":900000}}`))
	}))
	defer srv.Close()

	volumes, err := f.Volumes(context.Background())
	if err != nil {
		t.Fatalf("volumes: %v", err)
	}
	if volumes["4151"] != 3500 || volumes["453"] != 900000 {
		t.Errorf("unexpected volumes: %v", volumes)
	}
}
