package rebalance

import (
	"fmt"
	"sort"

	"PortfolioCore/internal/domain/models"
)

// hardPriorityValue splits hard-rebalance actions into urgent and routine.
const hardPriorityValue = 1000.0

// BandPlan trades only the instruments sitting outside their tolerance
// bands, moving each back to its exact target value. Holdings within bands
// are reported as HOLD. Trades smaller than the configured minimum are
// downgraded to HOLD with the value and quantity zeroed. The result is
// stably sorted by ascending priority, most urgent first.
func (e *Engine) BandPlan(targets []models.TargetAllocation, holdings []models.Holding) []models.RebalanceAction {
	by := holdingsBySymbol(holdings)
	total := totalValue(holdings)

	actions := make([]models.RebalanceAction, 0, len(targets))
	for _, t := range targets {
		h := by[t.Symbol]
		targetValue := t.TargetPct / 100 * total
		deviation := abs(h.AllocationPct - t.TargetPct)
		devPct := deviationPct(deviation, t.TargetPct)
		withinBands := h.AllocationPct >= t.LowerBound() && h.AllocationPct <= t.UpperBound()

		action := models.RebalanceAction{
			Symbol:            t.Symbol,
			Action:            models.ActionHold,
			CurrentAllocation: h.AllocationPct,
			TargetAllocation:  t.TargetPct,
			Deviation:         deviation,
			DeviationPct:      devPct,
			Priority:          3,
			Reason:            "within tolerance band",
			WithinBands:       withinBands,
		}

		if !withinBands {
			value := abs(targetValue - h.Value)
			action.RecommendedValue = value
			action.RecommendedQty = quantityFor(value, h.Price)
			action.Priority = 2
			if devPct > relativeDeviationTriggerPct {
				action.Priority = 1
			}
			if h.AllocationPct < t.LowerBound() {
				action.Action = models.ActionBuy
				action.Reason = fmt.Sprintf("allocation %.2f%% below band lower bound %.2f%%",
					h.AllocationPct, t.LowerBound())
			} else {
				action.Action = models.ActionSell
				action.Reason = fmt.Sprintf("allocation %.2f%% above band upper bound %.2f%%",
					h.AllocationPct, t.UpperBound())
			}
		}

		actions = append(actions, e.suppressSmallTrade(action))
	}

	sort.SliceStable(actions, func(i, j int) bool {
		return actions[i].Priority < actions[j].Priority
	})
	return actions
}

// HardPlan ignores bands and moves every instrument exactly to its target
// value. Already-on-target instruments and sub-minimum moves come back as
// HOLD. The result is sorted by descending recommended value, largest
// trades first.
func (e *Engine) HardPlan(targets []models.TargetAllocation, holdings []models.Holding) []models.RebalanceAction {
	by := holdingsBySymbol(holdings)
	total := totalValue(holdings)

	actions := make([]models.RebalanceAction, 0, len(targets))
	for _, t := range targets {
		h := by[t.Symbol]
		targetValue := t.TargetPct / 100 * total
		diff := targetValue - h.Value
		deviation := abs(h.AllocationPct - t.TargetPct)

		action := models.RebalanceAction{
			Symbol:            t.Symbol,
			Action:            models.ActionHold,
			CurrentAllocation: h.AllocationPct,
			TargetAllocation:  t.TargetPct,
			Deviation:         deviation,
			DeviationPct:      deviationPct(deviation, t.TargetPct),
			Priority:          2,
			Reason:            "already at target",
			WithinBands:       h.AllocationPct >= t.LowerBound() && h.AllocationPct <= t.UpperBound(),
		}

		if value := abs(diff); value > 0 && value >= e.cfg.MinTradeValue {
			action.RecommendedValue = value
			action.RecommendedQty = quantityFor(value, h.Price)
			if diff > 0 {
				action.Action = models.ActionBuy
				action.Reason = fmt.Sprintf("move %.2f up to target %.2f%%", value, t.TargetPct)
			} else {
				action.Action = models.ActionSell
				action.Reason = fmt.Sprintf("move %.2f down to target %.2f%%", value, t.TargetPct)
			}
			if value > hardPriorityValue {
				action.Priority = 1
			}
		} else if value > 0 {
			action.Reason = fmt.Sprintf("trade value %.2f below minimum %.2f", value, e.cfg.MinTradeValue)
		}

		actions = append(actions, action)
	}

	sort.SliceStable(actions, func(i, j int) bool {
		return actions[i].RecommendedValue > actions[j].RecommendedValue
	})
	return actions
}

// ExecutionPlan splits actions into a sell leg and a buy leg, sells first so
// the cash they raise funds the buys. Both legs run most urgent first.
// NetCashFlow > 0 means the buys outweigh the sells and external cash is
// required.
func (e *Engine) ExecutionPlan(actions []models.RebalanceAction) models.ExecutionPlan {
	plan := models.ExecutionPlan{
		SellsFirst: []models.RebalanceAction{},
		BuysSecond: []models.RebalanceAction{},
	}
	for _, a := range actions {
		switch a.Action {
		case models.ActionSell:
			plan.SellsFirst = append(plan.SellsFirst, a)
			plan.CashGenerated += a.RecommendedValue
		case models.ActionBuy:
			plan.BuysSecond = append(plan.BuysSecond, a)
			plan.CashNeeded += a.RecommendedValue
		}
	}
	sort.SliceStable(plan.SellsFirst, func(i, j int) bool {
		return plan.SellsFirst[i].Priority < plan.SellsFirst[j].Priority
	})
	sort.SliceStable(plan.BuysSecond, func(i, j int) bool {
		return plan.BuysSecond[i].Priority < plan.BuysSecond[j].Priority
	})
	plan.NetCashFlow = plan.CashNeeded - plan.CashGenerated
	return plan
}

// suppressSmallTrade downgrades a trade below the minimum value to HOLD.
func (e *Engine) suppressSmallTrade(a models.RebalanceAction) models.RebalanceAction {
	if a.Action == models.ActionHold || a.RecommendedValue >= e.cfg.MinTradeValue {
		return a
	}
	a.Reason = fmt.Sprintf("trade value %.2f below minimum %.2f", a.RecommendedValue, e.cfg.MinTradeValue)
	a.Action = models.ActionHold
	a.RecommendedValue = 0
	a.RecommendedQty = 0
	return a
}

// quantityFor converts a trade value to units. An unknown or zero price, as
// for an instrument not yet held, yields quantity 0 instead of dividing by
// zero.
func quantityFor(value, price float64) float64 {
	if price <= 0 {
		return 0
	}
	return value / price
}
