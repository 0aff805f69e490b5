// Package rebalance decides whether a portfolio has drifted from its target
// allocations and, when it has, produces an ordered, cost-aware trade plan.
// The engine is pure: it holds immutable configuration only and is safe for
// concurrent use.
package rebalance

import (
	"fmt"

	"PortfolioCore/internal/domain/models"
)

// relativeDeviationTriggerPct flags an instrument as needing rebalance when
// its deviation relative to target exceeds this share, even inside its band.
const relativeDeviationTriggerPct = 25.0

// Config fixes the trading assumptions for one engine instance.
type Config struct {
	BaseCurrency   string
	TradingFeeRate float64
	TaxRate        float64
	MinTradeValue  float64
}

// Engine generates rebalancing recommendations against a fixed Config.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// NormalizeHoldings recomputes Value and AllocationPct from quantity and
// price so that downstream math never trusts caller-supplied derived fields.
func NormalizeHoldings(holdings []models.Holding) []models.Holding {
	out := make([]models.Holding, len(holdings))
	var total float64
	for i, h := range holdings {
		h.Value = h.Quantity * h.Price
		out[i] = h
		total += h.Value
	}
	for i := range out {
		if total > 0 {
			out[i].AllocationPct = out[i].Value / total * 100
		} else {
			out[i].AllocationPct = 0
		}
	}
	return out
}

func totalValue(holdings []models.Holding) float64 {
	var total float64
	for _, h := range holdings {
		total += h.Value
	}
	return total
}

func holdingsBySymbol(holdings []models.Holding) map[string]models.Holding {
	out := make(map[string]models.Holding, len(holdings))
	for _, h := range holdings {
		out[h.Symbol] = h
	}
	return out
}

// deviationPct is the deviation relative to the target, in percent.
// A zero target yields zero rather than a division by zero.
func deviationPct(deviation, targetPct float64) float64 {
	if targetPct == 0 {
		return 0
	}
	return deviation / targetPct * 100
}

// EvaluateNeed checks every target against current holdings. An instrument
// triggers a rebalance when its allocation falls outside the tolerance band,
// or when its relative deviation exceeds 25% even while inside the band.
// The two criteria are independent. Trigger carries the first reason found.
func (e *Engine) EvaluateNeed(targets []models.TargetAllocation, holdings []models.Holding) models.NeedEvaluation {
	by := holdingsBySymbol(holdings)

	eval := models.NeedEvaluation{}
	for _, t := range targets {
		currentPct := by[t.Symbol].AllocationPct
		deviation := abs(currentPct - t.TargetPct)
		if deviation > eval.MaxDeviation {
			eval.MaxDeviation = deviation
		}

		switch {
		case currentPct < t.LowerBound() || currentPct > t.UpperBound():
			if !eval.Needed {
				eval.Needed = true
				eval.Trigger = fmt.Sprintf("%s allocation %.2f%% outside band [%.2f%%, %.2f%%]",
					t.Symbol, currentPct, t.LowerBound(), t.UpperBound())
			}
		case deviationPct(deviation, t.TargetPct) > relativeDeviationTriggerPct:
			if !eval.Needed {
				eval.Needed = true
				eval.Trigger = fmt.Sprintf("%s deviates %.1f%% from its %.2f%% target",
					t.Symbol, deviationPct(deviation, t.TargetPct), t.TargetPct)
			}
		}
	}
	return eval
}

// Recommend runs the full pipeline: normalize holdings, evaluate drift,
// build the plan for the requested strategy, estimate costs and order
// execution. An unknown strategy falls back to band rebalancing.
func (e *Engine) Recommend(targets []models.TargetAllocation, holdings []models.Holding, strategy string) models.RebalanceRecommendation {
	normalized := NormalizeHoldings(holdings)
	need := e.EvaluateNeed(targets, normalized)

	var actions []models.RebalanceAction
	switch strategy {
	case models.StrategyHard:
		actions = e.HardPlan(targets, normalized)
	default:
		strategy = models.StrategyBand
		actions = e.BandPlan(targets, normalized)
	}

	return models.RebalanceRecommendation{
		PortfolioValue:  totalValue(normalized),
		RebalanceNeeded: need.Needed,
		Trigger:         need.Trigger,
		MaxDeviation:    need.MaxDeviation,
		Strategy:        strategy,
		Actions:         actions,
		Costs:           e.EstimateCosts(actions),
		Plan:            e.ExecutionPlan(actions),
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
