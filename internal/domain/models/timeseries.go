package models

import "time"

// PricePoint is one trading day of dividend/split adjusted close price.
// Sequences are expected in ascending date order; engines sort defensively.
type PricePoint struct {
	Date          time.Time `json:"date"`
	AdjustedClose float64   `json:"adjustedClose"`
}

// DividendEvent is a cash distribution per unit keyed by ex-date.
// At most one event per date; a later event on the same date wins.
type DividendEvent struct {
	ExDate time.Time `json:"exDate"`
	Amount float64   `json:"amount"`
}

// DailyReturn is the derived per-day return decomposition. Ephemeral,
// never persisted.
type DailyReturn struct {
	Date              time.Time `json:"date"`
	TotalReturn       float64   `json:"totalReturn"`
	PriceReturn       float64   `json:"priceReturn"`
	DividendComponent float64   `json:"dividendComponent"`
}

// MetricsResult is the fixed set of performance and risk statistics for one
// instrument. A nil field means "insufficient data", never zero.
type MetricsResult struct {
	Return12M *float64 `json:"returns_12m"`
	Return24M *float64 `json:"returns_24m"`
	Return36M *float64 `json:"returns_36m"`
	Return5Y  *float64 `json:"returns_5y"`
	Return10Y *float64 `json:"returns_10y"`

	Volatility12M *float64 `json:"volatility_12m"`
	Volatility24M *float64 `json:"volatility_24m"`
	Volatility36M *float64 `json:"volatility_36m"`
	Volatility10Y *float64 `json:"volatility_10y"`

	Sharpe12M *float64 `json:"sharpe_12m"`
	Sharpe24M *float64 `json:"sharpe_24m"`
	Sharpe36M *float64 `json:"sharpe_36m"`
	Sharpe10Y *float64 `json:"sharpe_10y"`

	MaxDrawdown *float64 `json:"max_drawdown"`
}
