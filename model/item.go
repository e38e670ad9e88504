package model

// PriceInfo is the latest high/low trade price snapshot for one item.
// High is the instant-buy side, Low the instant-sell side. Either side
// may be missing when an item has not traded recently.
type PriceInfo struct {
	High     *int   `json:"high"`
	HighTime *int64 `json:"highTime"`
	Low      *int   `json:"low"`
	LowTime  *int64 `json:"lowTime"`
}

// Valid reports whether both price sides are present and positive.
// Entries failing this check are excluded from processing.
func (p PriceInfo) Valid() bool {
	return p.High != nil && *p.High > 0 && p.Low != nil && *p.Low > 0
}

// ItemMapping is the static per-item metadata from the mapping endpoint.
type ItemMapping struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Examine  string `json:"examine"`
	Members  bool   `json:"members"`
	Limit    int    `json:"limit"`
	Value    int    `json:"value"`
	HighAlch int    `json:"highalch"`
	LowAlch  int    `json:"lowalch"`
	Icon     string `json:"icon"`
}

// ProcessedItem is the fully joined, derived record combining mapping,
// price, and volume data. Recomputed wholesale on every full refresh.
type ProcessedItem struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	BuyLimit        int    `json:"buy_limit"`
	Members         bool   `json:"members"`
	BuyPrice        int    `json:"buy_price"`
	SellPrice       int    `json:"sell_price"`
	Margin          int    `json:"margin"`
	DailyVolume     int    `json:"daily_volume"`
	PotentialProfit int    `json:"potential_profit"`
	ImageURL        string `json:"image_url"`
}

// TimePoint is one sampled entry from the timeseries endpoint.
type TimePoint struct {
	Timestamp       int64 `json:"timestamp"`
	AvgHighPrice    *int  `json:"avgHighPrice"`
	AvgLowPrice     *int  `json:"avgLowPrice"`
	HighPriceVolume int   `json:"highPriceVolume"`
	LowPriceVolume  int   `json:"lowPriceVolume"`
}

// SearchResult is one match from the search endpoint.
type SearchResult struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Current struct {
		Price int `json:"price"`
	} `json:"current"`
}
