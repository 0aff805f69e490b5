package repository

import (
	"context"
	"database/sql"
	"fmt"

	"PortfolioCore/internal/domain/models"
	domrepo "PortfolioCore/internal/domain/repository"
	pkgch "PortfolioCore/pkg/clickhouse"
	applogger "PortfolioCore/pkg/logger"
)

// CHPortfolioSource implements PortfolioSource backed by ClickHouse.
type CHPortfolioSource struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHPortfolioSource(ch *pkgch.Client) *CHPortfolioSource {
	return &CHPortfolioSource{db: ch.DB()}
}

var _ domrepo.PortfolioSource = (*CHPortfolioSource)(nil)

// SetLogger injects a structured logger.
func (s *CHPortfolioSource) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHPortfolioSource) Holdings(ctx context.Context) ([]models.Holding, error) {
	// Latest snapshot per symbol.
	const q = `
        SELECT symbol, argMax(quantity, as_of), argMax(price, as_of), argMax(currency, as_of)
        FROM holdings
        GROUP BY symbol
        HAVING argMax(quantity, as_of) > 0
        ORDER BY symbol ASC
    `
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse holdings query error", applogger.Error(err))
		}
		return nil, fmt.Errorf("holdings: %w", err)
	}
	defer rows.Close()

	out := make([]models.Holding, 0, 64)
	for rows.Next() {
		var h models.Holding
		if err := rows.Scan(&h.Symbol, &h.Quantity, &h.Price, &h.Currency); err != nil {
			return nil, fmt.Errorf("scan holding: %w", err)
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (s *CHPortfolioSource) TargetAllocations(ctx context.Context) ([]models.TargetAllocation, error) {
	const q = `
        SELECT symbol, target_pct, band_lower, band_upper
        FROM target_allocations
        ORDER BY symbol ASC
    `
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse target_allocations query error", applogger.Error(err))
		}
		return nil, fmt.Errorf("target allocations: %w", err)
	}
	defer rows.Close()

	out := make([]models.TargetAllocation, 0, 64)
	for rows.Next() {
		var t models.TargetAllocation
		if err := rows.Scan(&t.Symbol, &t.TargetPct, &t.BandLower, &t.BandUpper); err != nil {
			return nil, fmt.Errorf("scan target allocation: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}
