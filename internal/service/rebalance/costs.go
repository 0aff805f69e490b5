package rebalance

import (
	"PortfolioCore/internal/domain/models"
)

// assumedRealizedGainRate approximates the taxable gain embedded in a sell
// as a fixed share of traded value. There is no cost-basis tracking here.
const assumedRealizedGainRate = 0.20

// EstimateCosts prices a set of actions: trading fees on every BUY and
// SELL, tax only on sells.
func (e *Engine) EstimateCosts(actions []models.RebalanceAction) models.CostEstimate {
	var est models.CostEstimate
	for _, a := range actions {
		if a.Action == models.ActionHold {
			continue
		}
		est.TradingFees += a.RecommendedValue * e.cfg.TradingFeeRate
		if a.Action == models.ActionSell {
			est.TaxImplications += a.RecommendedValue * assumedRealizedGainRate * e.cfg.TaxRate
		}
	}
	est.Total = est.TradingFees + est.TaxImplications
	return est
}

// Simulate applies the non-HOLD actions to a copy of the holdings and
// returns the post-trade snapshot. Quantities are floored at zero, newly
// bought instruments are appended, and allocations are recomputed against
// the pre-trade portfolio value. Zero-quantity positions are dropped. The
// input slice is never mutated.
func (e *Engine) Simulate(holdings []models.Holding, actions []models.RebalanceAction) []models.Holding {
	out := make([]models.Holding, len(holdings))
	copy(out, holdings)

	index := make(map[string]int, len(out))
	for i, h := range out {
		index[h.Symbol] = i
	}
	total := totalValue(holdings)

	for _, a := range actions {
		switch a.Action {
		case models.ActionBuy:
			i, ok := index[a.Symbol]
			if !ok {
				h := models.Holding{Symbol: a.Symbol, Currency: e.cfg.BaseCurrency}
				h.Quantity = a.RecommendedQty
				if a.RecommendedQty > 0 {
					h.Price = a.RecommendedValue / a.RecommendedQty
				}
				out = append(out, h)
				index[a.Symbol] = len(out) - 1
				continue
			}
			out[i].Quantity += a.RecommendedQty
		case models.ActionSell:
			if i, ok := index[a.Symbol]; ok {
				out[i].Quantity -= a.RecommendedQty
				if out[i].Quantity < 0 {
					out[i].Quantity = 0
				}
			}
		}
	}

	result := make([]models.Holding, 0, len(out))
	for _, h := range out {
		if h.Quantity <= 0 {
			continue
		}
		h.Value = h.Quantity * h.Price
		if total > 0 {
			h.AllocationPct = h.Value / total * 100
		} else {
			h.AllocationPct = 0
		}
		result = append(result, h)
	}
	return result
}
