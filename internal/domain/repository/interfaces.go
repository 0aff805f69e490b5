package repository

import (
	"context"
	"time"

	"PortfolioCore/internal/domain/models"
)

// HistorySource supplies price and dividend history snapshots for one
// instrument. The core never fetches market data itself; implementations
// front an external provider or a local store.
type HistorySource interface {
	PriceHistory(ctx context.Context, symbol string, from, to time.Time) ([]models.PricePoint, error)
	DividendHistory(ctx context.Context, symbol string, from, to time.Time) ([]models.DividendEvent, error)
	Health(ctx context.Context) error
	Close() error
}

// PortfolioSource supplies live holdings and target allocations. The core
// does not validate that target percentages sum to 100; that invariant is
// enforced upstream.
type PortfolioSource interface {
	Holdings(ctx context.Context) ([]models.Holding, error)
	TargetAllocations(ctx context.Context) ([]models.TargetAllocation, error)
}

// Publisher emits generated recommendations for downstream consumers.
type Publisher interface {
	PublishRecommendation(ctx context.Context, rec *models.RebalanceRecommendation) error
	Close() error
}

// Metrics records operational counters and latencies.
type Metrics interface {
	RecordMetricsComputed(symbol, source string)
	RecordInsufficientData(symbol, metric string)
	RecordRebalancePlan(strategy string, needed bool)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
