package models

// ActionType classifies a recommended trade.
type ActionType string

const (
	ActionBuy  ActionType = "BUY"
	ActionSell ActionType = "SELL"
	ActionHold ActionType = "HOLD"
)

// Rebalancing strategies.
const (
	StrategyBand = "band"
	StrategyHard = "hard"
)

// TargetAllocation is the desired portfolio weight for one instrument.
// Bands are percentage-point widths around TargetPct, not fractions of it.
type TargetAllocation struct {
	Symbol    string  `json:"symbol"`
	TargetPct float64 `json:"targetPct"`
	BandLower float64 `json:"bandLower"`
	BandUpper float64 `json:"bandUpper"`
}

// LowerBound returns the bottom of the tolerance band in percent.
func (t TargetAllocation) LowerBound() float64 {
	return t.TargetPct - t.BandLower
}

// UpperBound returns the top of the tolerance band in percent.
func (t TargetAllocation) UpperBound() float64 {
	return t.TargetPct + t.BandUpper
}

// Holding is a live position snapshot. Value and AllocationPct are derived
// from quantity and price, never stored independently.
type Holding struct {
	Symbol        string  `json:"symbol"`
	Quantity      float64 `json:"quantity"`
	Price         float64 `json:"price"`
	Value         float64 `json:"value"`
	AllocationPct float64 `json:"allocationPct"`
	Currency      string  `json:"currency"`
}

// RebalanceAction is one per-instrument trade recommendation.
type RebalanceAction struct {
	Symbol            string     `json:"symbol"`
	Action            ActionType `json:"action"`
	CurrentAllocation float64    `json:"currentAllocation"`
	TargetAllocation  float64    `json:"targetAllocation"`
	Deviation         float64    `json:"deviation"`
	DeviationPct      float64    `json:"deviationPct"`
	RecommendedQty    float64    `json:"recommendedQty"`
	RecommendedValue  float64    `json:"recommendedValue"`
	Priority          int        `json:"priority"`
	Reason            string     `json:"reason"`
	WithinBands       bool       `json:"withinBands"`
}

// NeedEvaluation is the outcome of the drift check.
type NeedEvaluation struct {
	Needed       bool    `json:"needed"`
	Trigger      string  `json:"trigger,omitempty"`
	MaxDeviation float64 `json:"maxDeviation"`
}

// CostEstimate approximates the cost of executing a set of actions.
// TaxImplications assumes a fixed 20% realized-gain share of sell value;
// there is no cost-basis tracking in this core.
type CostEstimate struct {
	TradingFees     float64 `json:"tradingFees"`
	TaxImplications float64 `json:"taxImplications"`
	Total           float64 `json:"total"`
}

// ExecutionPlan orders actions for manual execution: sells first to raise
// cash, buys second. NetCashFlow > 0 means external cash must be injected.
type ExecutionPlan struct {
	SellsFirst    []RebalanceAction `json:"sellsFirst"`
	BuysSecond    []RebalanceAction `json:"buysSecond"`
	CashGenerated float64           `json:"cashGenerated"`
	CashNeeded    float64           `json:"cashNeeded"`
	NetCashFlow   float64           `json:"netCashFlow"`
}

// RebalanceRecommendation is the full output of a rebalancing run.
type RebalanceRecommendation struct {
	PortfolioValue  float64           `json:"portfolioValue"`
	RebalanceNeeded bool              `json:"rebalanceNeeded"`
	Trigger         string            `json:"trigger,omitempty"`
	MaxDeviation    float64           `json:"maxDeviation"`
	Strategy        string            `json:"strategy"`
	Actions         []RebalanceAction `json:"actions"`
	Costs           CostEstimate      `json:"costs"`
	Plan            ExecutionPlan     `json:"plan"`
}
