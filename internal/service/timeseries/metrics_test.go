package timeseries

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortfolioCore/internal/domain/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func pricePoints(start time.Time, closes ...float64) []models.PricePoint {
	out := make([]models.PricePoint, len(closes))
	for i, c := range closes {
		out[i] = models.PricePoint{Date: start.AddDate(0, 0, i), AdjustedClose: c}
	}
	return out
}

func TestDailyReturns(t *testing.T) {
	start := day(2024, 1, 1)
	prices := pricePoints(start, 100, 110, 99)

	returns := DailyReturns(prices, nil)
	require.Len(t, returns, 2)
	assert.InDelta(t, 0.10, returns[0].TotalReturn, 1e-9)
	assert.InDelta(t, -0.10, returns[1].TotalReturn, 1e-9)
	assert.Equal(t, 0.0, returns[0].DividendComponent)
}

func TestDailyReturnsDividendYield(t *testing.T) {
	start := day(2024, 1, 1)
	prices := pricePoints(start, 100, 102)
	dividends := []models.DividendEvent{
		{ExDate: start.AddDate(0, 0, 1), Amount: 1.0},
	}

	returns := DailyReturns(prices, dividends)
	require.Len(t, returns, 1)
	// Dividend cash is normalized by the previous close: 1.0/100 = 1%.
	assert.InDelta(t, 0.02, returns[0].PriceReturn, 1e-9)
	assert.InDelta(t, 0.01, returns[0].DividendComponent, 1e-9)
	assert.InDelta(t, 0.03, returns[0].TotalReturn, 1e-9)
}

func TestDailyReturnsLaterDividendWins(t *testing.T) {
	start := day(2024, 1, 1)
	prices := pricePoints(start, 100, 100)
	exDate := start.AddDate(0, 0, 1)
	dividends := []models.DividendEvent{
		{ExDate: exDate, Amount: 1.0},
		{ExDate: exDate, Amount: 2.0},
	}

	returns := DailyReturns(prices, dividends)
	require.Len(t, returns, 1)
	assert.InDelta(t, 0.02, returns[0].DividendComponent, 1e-9)
}

func TestDailyReturnsUnsortedInput(t *testing.T) {
	start := day(2024, 1, 1)
	prices := []models.PricePoint{
		{Date: start.AddDate(0, 0, 2), AdjustedClose: 121},
		{Date: start, AdjustedClose: 100},
		{Date: start.AddDate(0, 0, 1), AdjustedClose: 110},
	}

	returns := DailyReturns(prices, nil)
	require.Len(t, returns, 2)
	assert.InDelta(t, 0.10, returns[0].TotalReturn, 1e-9)
	assert.InDelta(t, 0.10, returns[1].TotalReturn, 1e-9)
}

func TestDailyReturnsInsufficientData(t *testing.T) {
	assert.Nil(t, DailyReturns(nil, nil))
	assert.Nil(t, DailyReturns(pricePoints(day(2024, 1, 1), 100), nil))
}

func TestAnnualizedReturnOneYear(t *testing.T) {
	end := day(2024, 6, 15)
	prices := []models.PricePoint{
		{Date: end.AddDate(0, -12, 0), AdjustedClose: 100},
		{Date: end, AdjustedClose: 110},
	}

	got := AnnualizedReturn(prices, nil, 12)
	require.NotNil(t, got)
	assert.InDelta(t, 0.10, *got, 1e-9)
}

func TestAnnualizedReturnTwoYears(t *testing.T) {
	end := day(2024, 6, 15)
	prices := []models.PricePoint{
		{Date: end.AddDate(0, -24, 0), AdjustedClose: 100},
		{Date: end, AdjustedClose: 121},
	}

	// (1 + 0.21)^(1/2) - 1 = 0.10
	got := AnnualizedReturn(prices, nil, 24)
	require.NotNil(t, got)
	assert.InDelta(t, 0.10, *got, 1e-9)
}

func TestAnnualizedReturnIncludesWindowDividends(t *testing.T) {
	end := day(2024, 6, 15)
	prices := []models.PricePoint{
		{Date: end.AddDate(0, -12, 0), AdjustedClose: 100},
		{Date: end, AdjustedClose: 110},
	}
	dividends := []models.DividendEvent{
		{ExDate: end.AddDate(0, -6, 0), Amount: 5},
		{ExDate: end.AddDate(0, -18, 0), Amount: 99}, // outside window, ignored
	}

	got := AnnualizedReturn(prices, dividends, 12)
	require.NotNil(t, got)
	assert.InDelta(t, 0.15, *got, 1e-9)
}

func TestAnnualizedReturnNearestStartPrice(t *testing.T) {
	end := day(2024, 6, 15)
	prices := []models.PricePoint{
		{Date: end.AddDate(0, -12, -40), AdjustedClose: 50},
		{Date: end.AddDate(0, -12, 3), AdjustedClose: 100}, // nearest to window start
		{Date: end, AdjustedClose: 110},
	}

	got := AnnualizedReturn(prices, nil, 12)
	require.NotNil(t, got)
	assert.InDelta(t, 0.10, *got, 1e-9)
}

func TestAnnualizedReturnDividendWindowIsCalendarBound(t *testing.T) {
	end := day(2024, 6, 15)
	prices := []models.PricePoint{
		{Date: end.AddDate(0, -12, -5), AdjustedClose: 100}, // stands in for the window start
		{Date: end, AdjustedClose: 110},
	}
	// Ex-date sits between the stand-in price point and the calendar window
	// start, so it is outside the 12-month window and must not count.
	dividends := []models.DividendEvent{
		{ExDate: end.AddDate(0, -12, -3), Amount: 10},
	}

	got := AnnualizedReturn(prices, dividends, 12)
	require.NotNil(t, got)
	assert.InDelta(t, 0.10, *got, 1e-9)
}

func TestAnnualizedReturnInsufficientData(t *testing.T) {
	assert.Nil(t, AnnualizedReturn(nil, nil, 12))
	assert.Nil(t, AnnualizedReturn(pricePoints(day(2024, 1, 1), 100), nil, 12))
}

func TestAnnualizedVolatilityRequires30Observations(t *testing.T) {
	start := day(2024, 1, 1)
	prices := pricePoints(start, 100, 101, 102, 103, 104)
	returns := DailyReturns(prices, nil)

	assert.Nil(t, AnnualizedVolatility(returns, prices[len(prices)-1].Date, 12))
}

func TestAnnualizedVolatilityConstantReturns(t *testing.T) {
	start := day(2024, 1, 1)
	closes := make([]float64, 0, 41)
	c := 100.0
	for i := 0; i <= 40; i++ {
		closes = append(closes, c)
		c *= 1.01
	}
	prices := pricePoints(start, closes...)
	returns := DailyReturns(prices, nil)

	got := AnnualizedVolatility(returns, prices[len(prices)-1].Date, 12)
	require.NotNil(t, got)
	assert.Equal(t, 0.0, *got)
}

func TestAnnualizedVolatilityAlternatingReturns(t *testing.T) {
	start := day(2024, 1, 1)
	closes := []float64{100}
	for i := 0; i < 40; i++ {
		if i%2 == 0 {
			closes = append(closes, closes[len(closes)-1]*1.02)
		} else {
			closes = append(closes, closes[len(closes)-1]*0.99)
		}
	}
	prices := pricePoints(start, closes...)
	returns := DailyReturns(prices, nil)

	got := AnnualizedVolatility(returns, prices[len(prices)-1].Date, 12)
	require.NotNil(t, got)
	assert.Greater(t, *got, 0.0)
}

func TestSharpeRatio(t *testing.T) {
	ret := 0.10
	vol := 0.16
	zero := 0.0

	got := SharpeRatio(&ret, &vol)
	require.NotNil(t, got)
	assert.InDelta(t, 0.5, *got, 1e-9)

	assert.Nil(t, SharpeRatio(nil, &vol))
	assert.Nil(t, SharpeRatio(&ret, nil))
	assert.Nil(t, SharpeRatio(&ret, &zero))
}

func TestMaxDrawdown(t *testing.T) {
	start := day(2024, 1, 1)

	tests := []struct {
		name   string
		closes []float64
		want   float64
	}{
		{"monotonic rise has no drawdown", []float64{100, 110, 121}, 0},
		{"fifty percent drop", []float64{100, 50, 100}, 0.5},
		{"drop then deeper drop", []float64{100, 80, 90, 60}, 0.4},
		{"single point", []float64{100}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MaxDrawdown(pricePoints(start, tt.closes...))
			require.NotNil(t, got)
			assert.InDelta(t, tt.want, *got, 1e-9)
			assert.GreaterOrEqual(t, *got, 0.0)
			assert.LessOrEqual(t, *got, 1.0)
		})
	}
}

func TestMaxDrawdownEmptySeries(t *testing.T) {
	assert.Nil(t, MaxDrawdown(nil))
}

func TestCalculateAllEmptyHistory(t *testing.T) {
	result := CalculateAll(nil, nil)
	assert.Equal(t, models.MetricsResult{}, result)
}

func TestCalculateAllShortSeries(t *testing.T) {
	result := CalculateAll(pricePoints(day(2024, 1, 1), 100), nil)

	assert.Nil(t, result.Return12M)
	assert.Nil(t, result.Volatility12M)
	assert.Nil(t, result.Sharpe12M)
	require.NotNil(t, result.MaxDrawdown)
	assert.Equal(t, 0.0, *result.MaxDrawdown)
}

func TestCalculateAllFullHistory(t *testing.T) {
	// Two years of daily prices drifting up with alternating noise so the
	// return series has real variance.
	start := day(2022, 6, 15)
	closes := make([]float64, 0, 731)
	c := 100.0
	for i := 0; i <= 730; i++ {
		closes = append(closes, c)
		if i%2 == 0 {
			c *= 1.002
		} else {
			c *= 0.9995
		}
	}
	prices := pricePoints(start, closes...)

	result := CalculateAll(prices, nil)

	require.NotNil(t, result.Return12M)
	require.NotNil(t, result.Return24M)
	// Window start predates history; the nearest available point stands in.
	require.NotNil(t, result.Return5Y)
	require.NotNil(t, result.Return10Y)
	require.NotNil(t, result.Volatility12M)
	assert.Greater(t, *result.Volatility12M, 0.0)
	require.NotNil(t, result.Sharpe12M)
	require.NotNil(t, result.MaxDrawdown)
	assert.Greater(t, *result.MaxDrawdown, 0.0)
	assert.Greater(t, *result.Return12M, 0.0)
}
