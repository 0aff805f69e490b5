package rebalance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortfolioCore/internal/domain/models"
)

func testEngine() *Engine {
	return NewEngine(Config{
		BaseCurrency:   "USD",
		TradingFeeRate: 0.001,
		TaxRate:        0.25,
		MinTradeValue:  10,
	})
}

func target(symbol string, pct, lower, upper float64) models.TargetAllocation {
	return models.TargetAllocation{Symbol: symbol, TargetPct: pct, BandLower: lower, BandUpper: upper}
}

// twoAssetHoldings builds a normalized 1000-value portfolio where X carries
// xPct percent and Y the remainder.
func twoAssetHoldings(xPct float64) []models.Holding {
	return NormalizeHoldings([]models.Holding{
		{Symbol: "X", Quantity: xPct, Price: 10, Currency: "USD"},
		{Symbol: "Y", Quantity: (100 - xPct) / 2, Price: 20, Currency: "USD"},
	})
}

func actionFor(t *testing.T, actions []models.RebalanceAction, symbol string) models.RebalanceAction {
	t.Helper()
	for _, a := range actions {
		if a.Symbol == symbol {
			return a
		}
	}
	t.Fatalf("no action for %s", symbol)
	return models.RebalanceAction{}
}

func TestNormalizeHoldings(t *testing.T) {
	out := NormalizeHoldings([]models.Holding{
		{Symbol: "X", Quantity: 10, Price: 25},
		{Symbol: "Y", Quantity: 5, Price: 150},
	})

	require.Len(t, out, 2)
	assert.Equal(t, 250.0, out[0].Value)
	assert.Equal(t, 750.0, out[1].Value)
	assert.Equal(t, 25.0, out[0].AllocationPct)
	assert.Equal(t, 75.0, out[1].AllocationPct)
}

func TestNormalizeHoldingsEmptyPortfolio(t *testing.T) {
	out := NormalizeHoldings([]models.Holding{{Symbol: "X", Quantity: 0, Price: 100}})

	require.Len(t, out, 1)
	assert.Equal(t, 0.0, out[0].Value)
	assert.Equal(t, 0.0, out[0].AllocationPct)
}

func TestEvaluateNeedWithinBands(t *testing.T) {
	e := testEngine()
	targets := []models.TargetAllocation{
		target("X", 50, 5, 5),
		target("Y", 50, 5, 5),
	}

	eval := e.EvaluateNeed(targets, twoAssetHoldings(48))

	assert.False(t, eval.Needed)
	assert.Empty(t, eval.Trigger)
	assert.Equal(t, 2.0, eval.MaxDeviation)
}

func TestEvaluateNeedOutsideBand(t *testing.T) {
	e := testEngine()
	targets := []models.TargetAllocation{
		target("X", 50, 5, 5),
		target("Y", 50, 5, 5),
	}

	eval := e.EvaluateNeed(targets, twoAssetHoldings(38))

	assert.True(t, eval.Needed)
	assert.Contains(t, eval.Trigger, "X")
	assert.Contains(t, eval.Trigger, "outside band")
	assert.Equal(t, 12.0, eval.MaxDeviation)
}

// An instrument inside its band still triggers when the deviation relative
// to its target exceeds 25%.
func TestEvaluateNeedRelativeDeviationInsideBand(t *testing.T) {
	e := testEngine()
	targets := []models.TargetAllocation{target("X", 10, 5, 5)}
	holdings := []models.Holding{{Symbol: "X", AllocationPct: 13, Value: 130, Quantity: 13, Price: 10}}

	eval := e.EvaluateNeed(targets, holdings)

	assert.True(t, eval.Needed)
	assert.Contains(t, eval.Trigger, "deviates")
	assert.InDelta(t, 3.0, eval.MaxDeviation, 1e-9)
}

func TestEvaluateNeedZeroTarget(t *testing.T) {
	e := testEngine()
	targets := []models.TargetAllocation{target("X", 0, 5, 5)}
	holdings := []models.Holding{{Symbol: "X", AllocationPct: 3}}

	eval := e.EvaluateNeed(targets, holdings)

	// deviationPct guards the zero target, and 3% sits inside [-5, 5].
	assert.False(t, eval.Needed)
	assert.Equal(t, 3.0, eval.MaxDeviation)
}

func TestBandPlanHoldWithinBands(t *testing.T) {
	e := testEngine()
	targets := []models.TargetAllocation{
		target("X", 50, 5, 5),
		target("Y", 50, 5, 5),
	}

	actions := e.BandPlan(targets, twoAssetHoldings(48))

	x := actionFor(t, actions, "X")
	assert.Equal(t, models.ActionHold, x.Action)
	assert.Equal(t, 3, x.Priority)
	assert.True(t, x.WithinBands)
	assert.Equal(t, 0.0, x.RecommendedValue)
}

func TestBandPlanBuyBelowLowerBound(t *testing.T) {
	e := testEngine()
	targets := []models.TargetAllocation{
		target("X", 50, 5, 5),
		target("Y", 50, 5, 5),
	}

	actions := e.BandPlan(targets, twoAssetHoldings(38))

	x := actionFor(t, actions, "X")
	assert.Equal(t, models.ActionBuy, x.Action)
	assert.False(t, x.WithinBands)
	assert.InDelta(t, 120.0, x.RecommendedValue, 1e-9)
	assert.InDelta(t, 12.0, x.RecommendedQty, 1e-9)
	// deviationPct = 12/50*100 = 24, under the 25% urgency cut.
	assert.Equal(t, 2, x.Priority)

	y := actionFor(t, actions, "Y")
	assert.Equal(t, models.ActionSell, y.Action)
	assert.InDelta(t, 120.0, y.RecommendedValue, 1e-9)
}

func TestBandPlanUrgentPriority(t *testing.T) {
	e := testEngine()
	targets := []models.TargetAllocation{
		target("X", 50, 5, 5),
		target("Y", 50, 5, 5),
	}

	actions := e.BandPlan(targets, twoAssetHoldings(20))

	x := actionFor(t, actions, "X")
	assert.Equal(t, models.ActionBuy, x.Action)
	assert.Equal(t, 1, x.Priority)
}

func TestBandPlanMinTradeDowngrade(t *testing.T) {
	e := NewEngine(Config{BaseCurrency: "USD", TradingFeeRate: 0.001, TaxRate: 0.25, MinTradeValue: 100})
	targets := []models.TargetAllocation{
		target("X", 50, 1, 1),
		target("Y", 50, 10, 10),
	}

	actions := e.BandPlan(targets, twoAssetHoldings(46))

	x := actionFor(t, actions, "X")
	assert.Equal(t, models.ActionHold, x.Action)
	assert.Equal(t, 0.0, x.RecommendedValue)
	assert.Equal(t, 0.0, x.RecommendedQty)
	assert.Contains(t, x.Reason, "below minimum")
}

func TestBandPlanNewInstrumentZeroQuantity(t *testing.T) {
	e := testEngine()
	targets := []models.TargetAllocation{
		target("X", 50, 5, 5),
		target("Z", 50, 5, 5),
	}
	holdings := NormalizeHoldings([]models.Holding{
		{Symbol: "X", Quantity: 100, Price: 10},
	})

	actions := e.BandPlan(targets, holdings)

	z := actionFor(t, actions, "Z")
	assert.Equal(t, models.ActionBuy, z.Action)
	assert.InDelta(t, 500.0, z.RecommendedValue, 1e-9)
	assert.Equal(t, 0.0, z.RecommendedQty)
}

func TestBandPlanSortedAscendingPriority(t *testing.T) {
	e := testEngine()
	targets := []models.TargetAllocation{
		target("B", 35, 3, 3),
		target("A", 40, 5, 5),
		target("C", 25, 5, 5),
	}
	holdings := NormalizeHoldings([]models.Holding{
		{Symbol: "A", Quantity: 10, Price: 10},
		{Symbol: "B", Quantity: 27, Price: 10},
		{Symbol: "C", Quantity: 63, Price: 10},
	})

	actions := e.BandPlan(targets, holdings)

	require.Len(t, actions, 3)
	for i := 1; i < len(actions); i++ {
		assert.LessOrEqual(t, actions[i-1].Priority, actions[i].Priority)
	}
	assert.Equal(t, 1, actions[0].Priority)
	assert.Equal(t, 2, actions[len(actions)-1].Priority)
}

func TestHardPlanMovesExactlyToTarget(t *testing.T) {
	e := testEngine()
	targets := []models.TargetAllocation{
		target("X", 50, 5, 5),
		target("Y", 50, 5, 5),
	}

	actions := e.HardPlan(targets, twoAssetHoldings(38))

	x := actionFor(t, actions, "X")
	assert.Equal(t, models.ActionBuy, x.Action)
	assert.InDelta(t, 120.0, x.RecommendedValue, 1e-9)
	assert.InDelta(t, 12.0, x.RecommendedQty, 1e-9)
	assert.Equal(t, 2, x.Priority)

	y := actionFor(t, actions, "Y")
	assert.Equal(t, models.ActionSell, y.Action)
	assert.InDelta(t, 6.0, y.RecommendedQty, 1e-9)
}

func TestHardPlanHoldAtTarget(t *testing.T) {
	e := testEngine()
	targets := []models.TargetAllocation{
		target("X", 50, 5, 5),
		target("Y", 50, 5, 5),
	}

	actions := e.HardPlan(targets, twoAssetHoldings(50))

	for _, a := range actions {
		assert.Equal(t, models.ActionHold, a.Action)
		assert.Equal(t, 0.0, a.RecommendedValue)
	}
}

func TestHardPlanLargeTradeUrgent(t *testing.T) {
	e := testEngine()
	targets := []models.TargetAllocation{
		target("X", 50, 5, 5),
		target("Y", 50, 5, 5),
	}
	holdings := NormalizeHoldings([]models.Holding{
		{Symbol: "X", Quantity: 100, Price: 10},   // 1000
		{Symbol: "Y", Quantity: 450, Price: 10},   // 4500
	})

	actions := e.HardPlan(targets, holdings)

	// Each leg moves 1750, above the 1000 urgency cut.
	x := actionFor(t, actions, "X")
	assert.Equal(t, models.ActionBuy, x.Action)
	assert.Equal(t, 1, x.Priority)
}

func TestHardPlanSortedDescendingValue(t *testing.T) {
	e := testEngine()
	targets := []models.TargetAllocation{
		target("A", 60, 5, 5),
		target("B", 30, 5, 5),
		target("C", 10, 5, 5),
	}
	holdings := NormalizeHoldings([]models.Holding{
		{Symbol: "A", Quantity: 20, Price: 10},
		{Symbol: "B", Quantity: 30, Price: 10},
		{Symbol: "C", Quantity: 50, Price: 10},
	})

	actions := e.HardPlan(targets, holdings)

	require.Len(t, actions, 3)
	for i := 1; i < len(actions); i++ {
		assert.GreaterOrEqual(t, actions[i-1].RecommendedValue, actions[i].RecommendedValue)
	}
}

func TestEstimateCosts(t *testing.T) {
	e := testEngine()
	actions := []models.RebalanceAction{
		{Symbol: "A", Action: models.ActionBuy, RecommendedValue: 1000},
		{Symbol: "B", Action: models.ActionSell, RecommendedValue: 2000},
		{Symbol: "C", Action: models.ActionHold, RecommendedValue: 0},
	}

	est := e.EstimateCosts(actions)

	assert.InDelta(t, 3.0, est.TradingFees, 1e-9)
	// 2000 * 20% assumed gain * 25% tax rate.
	assert.InDelta(t, 100.0, est.TaxImplications, 1e-9)
	assert.InDelta(t, 103.0, est.Total, 1e-9)
}

func TestExecutionPlanSplitsAndOrders(t *testing.T) {
	e := testEngine()
	actions := []models.RebalanceAction{
		{Symbol: "A", Action: models.ActionBuy, RecommendedValue: 300, Priority: 2},
		{Symbol: "B", Action: models.ActionSell, RecommendedValue: 200, Priority: 2},
		{Symbol: "C", Action: models.ActionBuy, RecommendedValue: 100, Priority: 1},
		{Symbol: "D", Action: models.ActionSell, RecommendedValue: 400, Priority: 1},
		{Symbol: "E", Action: models.ActionHold, Priority: 3},
	}

	plan := e.ExecutionPlan(actions)

	require.Len(t, plan.SellsFirst, 2)
	require.Len(t, plan.BuysSecond, 2)
	assert.Equal(t, "D", plan.SellsFirst[0].Symbol)
	assert.Equal(t, "B", plan.SellsFirst[1].Symbol)
	assert.Equal(t, "C", plan.BuysSecond[0].Symbol)
	assert.Equal(t, "A", plan.BuysSecond[1].Symbol)

	assert.InDelta(t, 600.0, plan.CashGenerated, 1e-9)
	assert.InDelta(t, 400.0, plan.CashNeeded, 1e-9)
	assert.InDelta(t, -200.0, plan.NetCashFlow, 1e-9)
}

// A hard rebalance trades within the existing portfolio value, so the plan
// must reconcile to zero net cash flow.
func TestHardPlanNetCashFlowReconciles(t *testing.T) {
	e := testEngine()
	targets := []models.TargetAllocation{
		target("X", 50, 5, 5),
		target("Y", 30, 5, 5),
		target("Z", 20, 5, 5),
	}
	holdings := NormalizeHoldings([]models.Holding{
		{Symbol: "X", Quantity: 20, Price: 10},
		{Symbol: "Y", Quantity: 50, Price: 10},
		{Symbol: "Z", Quantity: 30, Price: 10},
	})

	plan := e.ExecutionPlan(e.HardPlan(targets, holdings))

	assert.InDelta(t, 0.0, plan.NetCashFlow, 1e-9)
	assert.Greater(t, plan.CashGenerated, 0.0)
}

func TestSimulateAppliesTrades(t *testing.T) {
	e := testEngine()
	holdings := twoAssetHoldings(38)
	actions := []models.RebalanceAction{
		{Symbol: "X", Action: models.ActionBuy, RecommendedQty: 12, RecommendedValue: 120},
		{Symbol: "Y", Action: models.ActionSell, RecommendedQty: 6, RecommendedValue: 120},
	}

	out := e.Simulate(holdings, actions)

	require.Len(t, out, 2)
	x := holdingFor(t, out, "X")
	assert.InDelta(t, 50.0, x.Quantity, 1e-9)
	assert.InDelta(t, 500.0, x.Value, 1e-9)
	assert.InDelta(t, 50.0, x.AllocationPct, 1e-9)

	y := holdingFor(t, out, "Y")
	assert.InDelta(t, 25.0, y.Quantity, 1e-9)
	assert.InDelta(t, 50.0, y.AllocationPct, 1e-9)
}

func TestSimulateDoesNotMutateInput(t *testing.T) {
	e := testEngine()
	holdings := twoAssetHoldings(38)
	before := make([]models.Holding, len(holdings))
	copy(before, holdings)

	e.Simulate(holdings, []models.RebalanceAction{
		{Symbol: "X", Action: models.ActionBuy, RecommendedQty: 12, RecommendedValue: 120},
		{Symbol: "Y", Action: models.ActionSell, RecommendedQty: 100, RecommendedValue: 2000},
	})

	assert.Equal(t, before, holdings)
}

func TestSimulateAppendsNewInstrument(t *testing.T) {
	e := testEngine()
	holdings := NormalizeHoldings([]models.Holding{
		{Symbol: "X", Quantity: 100, Price: 10},
	})
	actions := []models.RebalanceAction{
		{Symbol: "Z", Action: models.ActionBuy, RecommendedQty: 5, RecommendedValue: 100},
	}

	out := e.Simulate(holdings, actions)

	require.Len(t, out, 2)
	z := holdingFor(t, out, "Z")
	assert.Equal(t, 5.0, z.Quantity)
	assert.InDelta(t, 20.0, z.Price, 1e-9)
	assert.InDelta(t, 10.0, z.AllocationPct, 1e-9)
	assert.Equal(t, "USD", z.Currency)
}

func TestSimulateFloorsAndDropsZeroQuantity(t *testing.T) {
	e := testEngine()
	holdings := twoAssetHoldings(38)
	actions := []models.RebalanceAction{
		{Symbol: "X", Action: models.ActionSell, RecommendedQty: 1000, RecommendedValue: 10000},
	}

	out := e.Simulate(holdings, actions)

	require.Len(t, out, 1)
	assert.Equal(t, "Y", out[0].Symbol)
}

func TestRecommendBandStrategy(t *testing.T) {
	e := testEngine()
	targets := []models.TargetAllocation{
		target("X", 50, 5, 5),
		target("Y", 50, 5, 5),
	}
	// Raw holdings: derived fields set by Recommend, not the caller.
	holdings := []models.Holding{
		{Symbol: "X", Quantity: 38, Price: 10},
		{Symbol: "Y", Quantity: 31, Price: 20},
	}

	rec := e.Recommend(targets, holdings, models.StrategyBand)

	assert.InDelta(t, 1000.0, rec.PortfolioValue, 1e-9)
	assert.True(t, rec.RebalanceNeeded)
	assert.Equal(t, models.StrategyBand, rec.Strategy)
	require.Len(t, rec.Actions, 2)
	assert.NotEmpty(t, rec.Plan.SellsFirst)
	assert.NotEmpty(t, rec.Plan.BuysSecond)
	assert.Greater(t, rec.Costs.Total, 0.0)
}

func TestRecommendUnknownStrategyFallsBackToBand(t *testing.T) {
	e := testEngine()
	targets := []models.TargetAllocation{target("X", 100, 5, 5)}
	holdings := []models.Holding{{Symbol: "X", Quantity: 10, Price: 10}}

	rec := e.Recommend(targets, holdings, "gradual")

	assert.Equal(t, models.StrategyBand, rec.Strategy)
}

func holdingFor(t *testing.T, holdings []models.Holding, symbol string) models.Holding {
	t.Helper()
	for _, h := range holdings {
		if h.Symbol == symbol {
			return h
		}
	}
	t.Fatalf("no holding for %s", symbol)
	return models.Holding{}
}
