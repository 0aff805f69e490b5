// Package timeseries converts price/dividend history into performance and
// risk statistics. All functions are pure: they sort their inputs
// defensively, allocate fresh results, and degrade to nil instead of
// returning errors when data is insufficient.
package timeseries

import (
	"math"
	"sort"
	"time"

	"PortfolioCore/internal/domain/models"
	"PortfolioCore/pkg/util"
)

const (
	// RiskFreeRate is the fixed annual risk-free rate used for Sharpe ratios.
	RiskFreeRate = 0.02

	// TradingDaysPerYear is the annualization base for daily volatility.
	TradingDaysPerYear = 252
)

// sortPrices returns a copy of the price series in ascending date order.
// Callers are not trusted to pre-sort.
func sortPrices(prices []models.PricePoint) []models.PricePoint {
	out := make([]models.PricePoint, len(prices))
	copy(out, prices)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// dividendsByDay collapses dividend events to one amount per calendar day.
// A later event in the sequence overwrites an earlier one on the same day.
func dividendsByDay(dividends []models.DividendEvent) map[time.Time]float64 {
	byDay := make(map[time.Time]float64, len(dividends))
	for _, d := range dividends {
		byDay[util.Day(d.ExDate)] = d.Amount
	}
	return byDay
}

// DailyReturns computes per-day returns for consecutive price pairs.
// The dividend amount on a day is converted to a yield against the previous
// close before being added to the price return.
func DailyReturns(prices []models.PricePoint, dividends []models.DividendEvent) []models.DailyReturn {
	sorted := sortPrices(prices)
	if len(sorted) < 2 {
		return nil
	}

	divs := dividendsByDay(dividends)
	out := make([]models.DailyReturn, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		prev := sorted[i-1].AdjustedClose
		cur := sorted[i].AdjustedClose
		if prev <= 0 {
			continue
		}

		priceReturn := (cur - prev) / prev
		dividendComponent := 0.0
		if amount, ok := divs[util.Day(sorted[i].Date)]; ok {
			dividendComponent = amount / prev
		}

		out = append(out, models.DailyReturn{
			Date:              sorted[i].Date,
			TotalReturn:       priceReturn + dividendComponent,
			PriceReturn:       priceReturn,
			DividendComponent: dividendComponent,
		})
	}
	return out
}

// AnnualizedReturn computes the annualized total return over a trailing
// window of m calendar months, dividends included. Returns nil when the
// series is empty or the window start price is unusable.
func AnnualizedReturn(prices []models.PricePoint, dividends []models.DividendEvent, months int) *float64 {
	sorted := sortPrices(prices)
	if len(sorted) < 2 || months <= 0 {
		return nil
	}

	end := sorted[len(sorted)-1]
	windowStart := util.MonthsBefore(end.Date, months)
	start := nearestPoint(sorted, windowStart)
	if start.AdjustedClose <= 0 {
		return nil
	}

	// Dividends are bounded by the calendar window, not by the date of the
	// price point standing in for its start.
	periodDividends := sumDividends(dividends, windowStart, end.Date)
	totalReturn := (end.AdjustedClose - start.AdjustedClose + periodDividends) / start.AdjustedClose
	if totalReturn <= -1 {
		// Total loss beyond -100% cannot be annualized.
		return nil
	}

	years := float64(months) / 12.0
	annualized := math.Pow(1+totalReturn, 1/years) - 1
	return roundPtr(annualized, 6)
}

// nearestPoint returns the price point with minimum absolute time distance
// to target. Ties resolve to the earlier point.
func nearestPoint(sorted []models.PricePoint, target time.Time) models.PricePoint {
	best := sorted[0]
	bestDist := absDuration(sorted[0].Date.Sub(target))
	for _, p := range sorted[1:] {
		if d := absDuration(p.Date.Sub(target)); d < bestDist {
			best = p
			bestDist = d
		}
	}
	return best
}

// sumDividends totals deduplicated dividend amounts with ex-dates in
// [from, to] inclusive.
func sumDividends(dividends []models.DividendEvent, from, to time.Time) float64 {
	fromDay, toDay := util.Day(from), util.Day(to)
	total := 0.0
	for day, amount := range dividendsByDay(dividends) {
		if !day.Before(fromDay) && !day.After(toDay) {
			total += amount
		}
	}
	return total
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

func roundPtr(v float64, decimals int) *float64 {
	scale := math.Pow(10, float64(decimals))
	r := math.Round(v*scale) / scale
	return &r
}
