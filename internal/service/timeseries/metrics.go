package timeseries

import (
	"PortfolioCore/internal/domain/models"
)

// Return windows in calendar months.
var returnWindows = []int{12, 24, 36, 60, 120}

// Volatility (and Sharpe) windows in calendar months.
var volatilityWindows = []int{12, 24, 36, 120}

// CalculateAll computes the full metrics table for one instrument.
// An empty price history yields the all-nil result, not an error.
func CalculateAll(prices []models.PricePoint, dividends []models.DividendEvent) models.MetricsResult {
	var result models.MetricsResult
	if len(prices) == 0 {
		return result
	}

	sorted := sortPrices(prices)
	end := sorted[len(sorted)-1].Date
	dailyReturns := DailyReturns(sorted, dividends)

	rets := make(map[int]*float64, len(returnWindows))
	for _, m := range returnWindows {
		rets[m] = AnnualizedReturn(sorted, dividends, m)
	}
	vols := make(map[int]*float64, len(volatilityWindows))
	for _, m := range volatilityWindows {
		vols[m] = AnnualizedVolatility(dailyReturns, end, m)
	}

	result.Return12M = rets[12]
	result.Return24M = rets[24]
	result.Return36M = rets[36]
	result.Return5Y = rets[60]
	result.Return10Y = rets[120]

	result.Volatility12M = vols[12]
	result.Volatility24M = vols[24]
	result.Volatility36M = vols[36]
	result.Volatility10Y = vols[120]

	result.Sharpe12M = SharpeRatio(rets[12], vols[12])
	result.Sharpe24M = SharpeRatio(rets[24], vols[24])
	result.Sharpe36M = SharpeRatio(rets[36], vols[36])
	result.Sharpe10Y = SharpeRatio(rets[120], vols[120])

	result.MaxDrawdown = MaxDrawdown(sorted)
	return result
}
