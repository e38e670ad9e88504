package fetcher

import (
	"context"

	"GETracker/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	LatestData     map[string]model.PriceInfo
	MappingData    []model.ItemMapping
	VolumeData     map[string]int
	TimeseriesData []model.TimePoint
	SearchData     []model.SearchResult

	LatestErr     error
	MappingErr    error
	VolumesErr    error
	TimeseriesErr error
	SearchErr     error

	LatestCalls  int
	MappingCalls int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) Latest(_ context.Context) (map[string]model.PriceInfo, error) {
	m.LatestCalls++
	if m.LatestErr != nil {
		return nil, m.LatestErr
	}
	return m.LatestData, nil
}

func (m *MockFetcher) Mapping(_ context.Context) ([]model.ItemMapping, error) {
	m.MappingCalls++
	if m.MappingErr != nil {
		return nil, m.MappingErr
	}
	return m.MappingData, nil
}

func (m *MockFetcher) Volumes(_ context.Context) (map[string]int, error) {
	if m.VolumesErr != nil {
		return nil, m.VolumesErr
	}
	return m.VolumeData, nil
}

func (m *MockFetcher) Timeseries(_ context.Context, _ string, _ int) ([]model.TimePoint, error) {
	if m.TimeseriesErr != nil {
		return nil, m.TimeseriesErr
	}
	return m.TimeseriesData, nil
}

func (m *MockFetcher) Search(_ context.Context, _ string) ([]model.SearchResult, error) {
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	return m.SearchData, nil
}
