package api

import (
	"time"

	models "PortfolioCore/internal/domain/models"
	"PortfolioCore/internal/usecase"
	xhttp "PortfolioCore/pkg/http"
	xlogger "PortfolioCore/pkg/logger"
	"PortfolioCore/pkg/util"

	"github.com/labstack/echo/v4"
)

// PortfolioHandler exposes the metrics and rebalancing endpoints.
type PortfolioHandler struct {
	logger   *xlogger.Logger
	analyzer *usecase.MetricsAnalyzer
	planner  *usecase.RebalancePlanner
}

func NewPortfolioHandler(logger *xlogger.Logger, analyzer *usecase.MetricsAnalyzer, planner *usecase.RebalancePlanner) *PortfolioHandler {
	return &PortfolioHandler{logger: logger, analyzer: analyzer, planner: planner}
}

func (h *PortfolioHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/metrics/:symbol", h.MetricsForSymbol)
	g.POST("/metrics", h.MetricsFromSnapshot)
	g.POST("/rebalance/evaluate", h.EvaluateRebalance)
	g.POST("/rebalance/plan", h.PlanRebalance)
	g.GET("/rebalance/plan", h.PlanFromStore)
	g.POST("/rebalance/simulate", h.SimulateRebalance)
	e.GET("/healthz", h.Health)
}

func (h *PortfolioHandler) MetricsForSymbol(c echo.Context) error {
	req := &models.MetricsQueryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	from, ok := parseBound(req.From, time.Unix(0, 0))
	if !ok {
		return xhttp.BadRequestResponse(c, invalidDate("from", req.From))
	}
	to, ok := parseBound(req.To, time.Now().UTC())
	if !ok {
		return xhttp.BadRequestResponse(c, invalidDate("to", req.To))
	}

	res, err := h.analyzer.ComputeForSymbol(c.Request().Context(), usecase.ComputeForSymbolParams{
		Symbol: req.Symbol,
		From:   from,
		To:     to,
	})
	if err != nil {
		h.logger.Error("metrics usecase error", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, res)
}

func (h *PortfolioHandler) MetricsFromSnapshot(c echo.Context) error {
	req := &models.MetricsComputeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	prices := make([]models.PricePoint, 0, len(req.PriceHistory))
	for _, in := range req.PriceHistory {
		date, ok := util.ParseTime(in.Date)
		if !ok {
			return xhttp.BadRequestResponse(c, invalidDate("priceHistory.date", in.Date))
		}
		prices = append(prices, models.PricePoint{Date: date, AdjustedClose: in.AdjustedClose})
	}
	dividends := make([]models.DividendEvent, 0, len(req.DividendHistory))
	for _, in := range req.DividendHistory {
		exDate, ok := util.ParseTime(in.ExDate)
		if !ok {
			return xhttp.BadRequestResponse(c, invalidDate("dividendHistory.exDate", in.ExDate))
		}
		dividends = append(dividends, models.DividendEvent{ExDate: exDate, Amount: in.Amount})
	}

	res := h.analyzer.ComputeFromSnapshot("snapshot", prices, dividends)
	return xhttp.SuccessResponse(c, res)
}

func (h *PortfolioHandler) EvaluateRebalance(c echo.Context) error {
	req := &models.RebalanceEvaluateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	eval := h.planner.Evaluate(toTargets(req.Targets), toHoldings(req.Holdings))
	return xhttp.SuccessResponse(c, eval)
}

func (h *PortfolioHandler) PlanRebalance(c echo.Context) error {
	req := &models.RebalancePlanRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	rec := h.planner.Plan(c.Request().Context(), toTargets(req.Targets), toHoldings(req.Holdings), req.Strategy)
	return xhttp.SuccessResponse(c, rec)
}

func (h *PortfolioHandler) PlanFromStore(c echo.Context) error {
	req := &models.RebalancePlanQueryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	rec, err := h.planner.PlanFromStore(c.Request().Context(), req.Strategy)
	if err != nil {
		h.logger.Error("plan usecase error", xlogger.String("strategy", req.Strategy), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, rec)
}

func (h *PortfolioHandler) SimulateRebalance(c echo.Context) error {
	req := &models.RebalanceSimulateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	out := h.planner.Simulate(toHoldings(req.Holdings), req.Actions)
	return xhttp.SuccessResponse(c, out)
}

func (h *PortfolioHandler) Health(c echo.Context) error {
	if err := h.analyzer.Health(c.Request().Context()); err != nil {
		h.logger.Error("health check failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("history store unreachable").WithError(err))
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

func toTargets(in []models.TargetAllocationInput) []models.TargetAllocation {
	out := make([]models.TargetAllocation, len(in))
	for i, t := range in {
		out[i] = t.Target()
	}
	return out
}

func toHoldings(in []models.HoldingInput) []models.Holding {
	out := make([]models.Holding, len(in))
	for i, h := range in {
		out[i] = h.Holding()
	}
	return out
}

// parseBound parses an optional query-time bound; empty means the default.
func parseBound(s string, def time.Time) (time.Time, bool) {
	if s == "" {
		return def, true
	}
	return util.ParseTime(s)
}

func invalidDate(field, value string) []xhttp.ValidationError {
	return []xhttp.ValidationError{{
		Code:    "ERR_INVALID_DATE",
		Field:   field,
		Message: field + " must be an RFC3339 timestamp, a YYYY-MM-DD date, or unix seconds",
		Params:  map[string]interface{}{"value": value},
	}}
}
