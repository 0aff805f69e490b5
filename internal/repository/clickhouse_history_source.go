package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"PortfolioCore/internal/domain/models"
	domrepo "PortfolioCore/internal/domain/repository"
	pkgch "PortfolioCore/pkg/clickhouse"
	applogger "PortfolioCore/pkg/logger"
)

// CHHistorySource implements HistorySource backed by ClickHouse.
type CHHistorySource struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHHistorySource(ch *pkgch.Client) *CHHistorySource {
	return &CHHistorySource{db: ch.DB()}
}

var _ domrepo.HistorySource = (*CHHistorySource)(nil)

// SetLogger injects a structured logger.
func (s *CHHistorySource) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHHistorySource) PriceHistory(ctx context.Context, symbol string, from, to time.Time) ([]models.PricePoint, error) {
	const q = `
        SELECT date, adj_close
        FROM price_points
        WHERE symbol = ? AND date >= ? AND date <= ?
        ORDER BY date ASC
    `
	rows, err := s.db.QueryContext(ctx, q, symbol, from, to)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse price_history query error",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("price history: %w", err)
	}
	defer rows.Close()

	out := make([]models.PricePoint, 0, 1024)
	for rows.Next() {
		var p models.PricePoint
		if err := rows.Scan(&p.Date, &p.AdjustedClose); err != nil {
			return nil, fmt.Errorf("scan price point: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (s *CHHistorySource) DividendHistory(ctx context.Context, symbol string, from, to time.Time) ([]models.DividendEvent, error) {
	// Duplicate ex-dates collapse to the latest stored row, matching the
	// engine's later-event-wins rule.
	const q = `
        SELECT ex_date, argMax(amount, inserted_at) AS amount
        FROM dividends
        WHERE symbol = ? AND ex_date >= ? AND ex_date <= ?
        GROUP BY ex_date
        ORDER BY ex_date ASC
    `
	rows, err := s.db.QueryContext(ctx, q, symbol, from, to)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse dividend_history query error",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("dividend history: %w", err)
	}
	defer rows.Close()

	out := make([]models.DividendEvent, 0, 64)
	for rows.Next() {
		var d models.DividendEvent
		if err := rows.Scan(&d.ExDate, &d.Amount); err != nil {
			return nil, fmt.Errorf("scan dividend: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (s *CHHistorySource) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHHistorySource) Close() error {
	return nil // Managed by pkg
}
