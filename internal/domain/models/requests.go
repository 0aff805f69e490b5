package models

// Requests for the metrics and rebalancing HTTP endpoints. Dates travel as
// strings and are parsed at the handler boundary so malformed input surfaces
// as a validation error instead of a zero time.

type PricePointInput struct {
	Date          string  `json:"date" validate:"required"`
	AdjustedClose float64 `json:"adjustedClose" validate:"gt=0"`
}

type DividendEventInput struct {
	ExDate string  `json:"exDate" validate:"required"`
	Amount float64 `json:"amount" validate:"gte=0"`
}

type MetricsComputeRequest struct {
	PriceHistory    []PricePointInput    `json:"priceHistory" validate:"dive"`
	DividendHistory []DividendEventInput `json:"dividendHistory" validate:"dive"`
}

type MetricsQueryRequest struct {
	Symbol string `param:"symbol" validate:"required"`
	From   string `query:"from"`
	To     string `query:"to"`
}

type TargetAllocationInput struct {
	Symbol    string  `json:"symbol" validate:"required"`
	TargetPct float64 `json:"targetPct" validate:"gte=0,lte=100"`
	BandLower float64 `json:"bandLower" validate:"gte=0"`
	BandUpper float64 `json:"bandUpper" validate:"gte=0"`
}

type HoldingInput struct {
	Symbol   string  `json:"symbol" validate:"required"`
	Quantity float64 `json:"quantity" validate:"gte=0"`
	Price    float64 `json:"price" validate:"gte=0"`
	Currency string  `json:"currency"`
}

type RebalanceEvaluateRequest struct {
	Targets  []TargetAllocationInput `json:"targets" validate:"required,min=1,dive"`
	Holdings []HoldingInput          `json:"holdings" validate:"dive"`
}

type RebalancePlanRequest struct {
	Targets  []TargetAllocationInput `json:"targets" validate:"required,min=1,dive"`
	Holdings []HoldingInput          `json:"holdings" validate:"dive"`
	Strategy string                  `json:"strategy" default:"band" validate:"oneof=band hard"`
}

type RebalancePlanQueryRequest struct {
	Strategy string `query:"strategy" default:"band" validate:"oneof=band hard"`
}

type RebalanceSimulateRequest struct {
	Holdings []HoldingInput    `json:"holdings" validate:"dive"`
	Actions  []RebalanceAction `json:"actions" validate:"required,min=1"`
}

// Target converts the wire form to the domain type.
func (in TargetAllocationInput) Target() TargetAllocation {
	return TargetAllocation{
		Symbol:    in.Symbol,
		TargetPct: in.TargetPct,
		BandLower: in.BandLower,
		BandUpper: in.BandUpper,
	}
}

// Holding converts the wire form to the domain type. Value and allocation
// are derived later against the full portfolio.
func (in HoldingInput) Holding() Holding {
	return Holding{
		Symbol:   in.Symbol,
		Quantity: in.Quantity,
		Price:    in.Price,
		Value:    in.Quantity * in.Price,
		Currency: in.Currency,
	}
}
