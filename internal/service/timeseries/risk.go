package timeseries

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"PortfolioCore/internal/domain/models"
	"PortfolioCore/pkg/util"
)

// minVolatilityObservations is the smallest daily-return sample considered
// statistically meaningful for a volatility estimate.
const minVolatilityObservations = 30

// AnnualizedVolatility computes the annualized sample standard deviation of
// daily total returns over a trailing window of m calendar months. Returns
// nil when fewer than 30 observations fall inside the window.
func AnnualizedVolatility(returns []models.DailyReturn, end time.Time, months int) *float64 {
	if len(returns) == 0 || months <= 0 {
		return nil
	}

	fromDay := util.Day(util.MonthsBefore(end, months))
	endDay := util.Day(end)

	sample := make([]float64, 0, len(returns))
	for _, r := range returns {
		day := util.Day(r.Date)
		if !day.Before(fromDay) && !day.After(endDay) {
			sample = append(sample, r.TotalReturn)
		}
	}
	if len(sample) < minVolatilityObservations {
		return nil
	}

	daily := stat.StdDev(sample, nil) // sample std dev (n-1)
	annualized := daily * math.Sqrt(TradingDaysPerYear)
	return roundPtr(annualized, 6)
}

// SharpeRatio computes the risk-adjusted excess return for one window.
// Nil when either input is missing or volatility is zero.
func SharpeRatio(annualizedReturn, annualizedVolatility *float64) *float64 {
	if annualizedReturn == nil || annualizedVolatility == nil || *annualizedVolatility == 0 {
		return nil
	}
	sharpe := (*annualizedReturn - RiskFreeRate) / *annualizedVolatility
	return roundPtr(sharpe, 4)
}

// MaxDrawdown computes the largest peak-to-trough decline over the full
// price series. Always >= 0. Nil for an empty series, 0 for a single point.
func MaxDrawdown(prices []models.PricePoint) *float64 {
	sorted := sortPrices(prices)
	if len(sorted) == 0 {
		return nil
	}

	maxDrawdown := 0.0
	peak := sorted[0].AdjustedClose
	for _, p := range sorted {
		if p.AdjustedClose > peak {
			peak = p.AdjustedClose
		}
		if peak > 0 {
			if dd := (peak - p.AdjustedClose) / peak; dd > maxDrawdown {
				maxDrawdown = dd
			}
		}
	}
	return roundPtr(maxDrawdown, 6)
}
