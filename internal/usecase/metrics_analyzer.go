package usecase

import (
	"context"
	"fmt"
	"time"

	"PortfolioCore/internal/domain/models"
	domrepo "PortfolioCore/internal/domain/repository"
	"PortfolioCore/internal/service/timeseries"
	"PortfolioCore/pkg/cache"
	applogger "PortfolioCore/pkg/logger"
)

// MetricsAnalyzer computes performance metrics from stored history, with a
// per-symbol cache in front of the ClickHouse reads.
type MetricsAnalyzer struct {
	history  domrepo.HistorySource
	cache    cache.Service
	metrics  domrepo.Metrics
	l        *applogger.Logger
	cacheTTL time.Duration
}

func NewMetricsAnalyzer(history domrepo.HistorySource, c cache.Service, m domrepo.Metrics, l *applogger.Logger, cacheTTL time.Duration) *MetricsAnalyzer {
	return &MetricsAnalyzer{
		history:  history,
		cache:    c,
		metrics:  m,
		l:        l,
		cacheTTL: cacheTTL,
	}
}

type ComputeForSymbolParams struct {
	Symbol string
	From   time.Time
	To     time.Time
}

// ComputeForSymbol loads the symbol's history from the store and computes
// the full metrics snapshot. Results are cached per symbol and range.
func (uc *MetricsAnalyzer) ComputeForSymbol(ctx context.Context, p ComputeForSymbolParams) (*models.MetricsResult, error) {
	if p.Symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if p.From.After(p.To) {
		return nil, fmt.Errorf("from must be <= to")
	}

	key := cache.GenerateKeyWithParams("metrics", p.Symbol, p.From.Unix(), p.To.Unix())
	var cached models.MetricsResult
	if err := uc.cache.Get(ctx, key, &cached); err == nil {
		uc.metrics.RecordMetricsComputed(p.Symbol, "cache")
		return &cached, nil
	}

	start := time.Now()
	prices, err := uc.history.PriceHistory(ctx, p.Symbol, p.From, p.To)
	if err != nil {
		uc.metrics.RecordError("price_history")
		return nil, fmt.Errorf("price history: %w", err)
	}
	dividends, err := uc.history.DividendHistory(ctx, p.Symbol, p.From, p.To)
	if err != nil {
		uc.metrics.RecordError("dividend_history")
		return nil, fmt.Errorf("dividend history: %w", err)
	}

	result := timeseries.CalculateAll(prices, dividends)
	if len(prices) < 2 {
		uc.metrics.RecordInsufficientData(p.Symbol, "price_history")
		uc.l.Warn("insufficient price history",
			applogger.String("symbol", p.Symbol),
			applogger.Int("points", len(prices)),
		)
	}

	uc.metrics.RecordMetricsComputed(p.Symbol, "store")
	uc.metrics.RecordLatency("compute_metrics", time.Since(start).Seconds())

	if err := uc.cache.Set(ctx, key, result, uc.cacheTTL); err != nil {
		uc.l.Warn("metrics cache set failed",
			applogger.String("symbol", p.Symbol),
			applogger.Error(err),
		)
	}
	return &result, nil
}

// ComputeFromSnapshot computes metrics for a caller-supplied history. No
// storage or cache is involved.
func (uc *MetricsAnalyzer) ComputeFromSnapshot(symbol string, prices []models.PricePoint, dividends []models.DividendEvent) models.MetricsResult {
	result := timeseries.CalculateAll(prices, dividends)
	uc.metrics.RecordMetricsComputed(symbol, "request")
	return result
}

// Health reports whether the history store is reachable.
func (uc *MetricsAnalyzer) Health(ctx context.Context) error {
	return uc.history.Health(ctx)
}
