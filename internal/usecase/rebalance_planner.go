package usecase

import (
	"context"
	"fmt"
	"time"

	"PortfolioCore/internal/domain/models"
	domrepo "PortfolioCore/internal/domain/repository"
	"PortfolioCore/internal/service/rebalance"
	applogger "PortfolioCore/pkg/logger"
)

// RebalancePlanner turns targets and holdings into rebalance
// recommendations and publishes generated plans for downstream consumers.
type RebalancePlanner struct {
	engine    *rebalance.Engine
	portfolio domrepo.PortfolioSource
	publisher domrepo.Publisher
	metrics   domrepo.Metrics
	l         *applogger.Logger
}

func NewRebalancePlanner(engine *rebalance.Engine, portfolio domrepo.PortfolioSource, publisher domrepo.Publisher, m domrepo.Metrics, l *applogger.Logger) *RebalancePlanner {
	return &RebalancePlanner{
		engine:    engine,
		portfolio: portfolio,
		publisher: publisher,
		metrics:   m,
		l:         l,
	}
}

// Evaluate checks drift only, without building a plan.
func (uc *RebalancePlanner) Evaluate(targets []models.TargetAllocation, holdings []models.Holding) models.NeedEvaluation {
	return uc.engine.EvaluateNeed(targets, rebalance.NormalizeHoldings(holdings))
}

// Plan produces a full recommendation for caller-supplied targets and
// holdings. The plan is published best-effort; publish failures are logged
// and do not fail the request.
func (uc *RebalancePlanner) Plan(ctx context.Context, targets []models.TargetAllocation, holdings []models.Holding, strategy string) *models.RebalanceRecommendation {
	start := time.Now()
	rec := uc.engine.Recommend(targets, holdings, strategy)

	uc.metrics.RecordRebalancePlan(rec.Strategy, rec.RebalanceNeeded)
	uc.metrics.RecordLatency("rebalance_plan", time.Since(start).Seconds())

	if err := uc.publisher.PublishRecommendation(ctx, &rec); err != nil {
		uc.metrics.RecordError("publish_recommendation")
		uc.l.Warn("recommendation publish failed",
			applogger.String("strategy", rec.Strategy),
			applogger.Error(err),
		)
	}
	return &rec
}

// PlanFromStore loads holdings and targets from the portfolio store and
// plans against them.
func (uc *RebalancePlanner) PlanFromStore(ctx context.Context, strategy string) (*models.RebalanceRecommendation, error) {
	holdings, err := uc.portfolio.Holdings(ctx)
	if err != nil {
		uc.metrics.RecordError("load_holdings")
		return nil, fmt.Errorf("load holdings: %w", err)
	}
	targets, err := uc.portfolio.TargetAllocations(ctx)
	if err != nil {
		uc.metrics.RecordError("load_targets")
		return nil, fmt.Errorf("load target allocations: %w", err)
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("no target allocations configured")
	}
	return uc.Plan(ctx, targets, holdings, strategy), nil
}

// Simulate applies a set of actions to holdings and returns the post-trade
// snapshot.
func (uc *RebalancePlanner) Simulate(holdings []models.Holding, actions []models.RebalanceAction) []models.Holding {
	return uc.engine.Simulate(rebalance.NormalizeHoldings(holdings), actions)
}
