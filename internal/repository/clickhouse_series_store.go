// Package repository contains the ClickHouse and Kafka backed
// implementations of the domain persistence interfaces.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/domain/models"
	domrepo "github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/domain/repository"
	pkgch "github.com/ArunnathAR/stock-closing-price-prediction-web-app/pkg/clickhouse"
	applogger "github.com/ArunnathAR/stock-closing-price-prediction-web-app/pkg/logger"
)

const candleTable = "stockpred.daily_candles"

// ClickHouse upserts via ReplacingMergeTree keyed on (symbol, date), so
// re-archiving the same provider window is idempotent.
var seriesSchema = []string{
	`CREATE DATABASE IF NOT EXISTS stockpred`,
	`CREATE TABLE IF NOT EXISTS stockpred.daily_candles (
        date Date,
        symbol LowCardinality(String),
        open Float64,
        high Float64,
        low Float64,
        close Float64,
        volume Int64,
        inserted_at DateTime DEFAULT now()
    ) ENGINE = ReplacingMergeTree(inserted_at)
    ORDER BY (symbol, date)`,
}

// CHSeriesStore archives daily candles in ClickHouse.
type CHSeriesStore struct {
	ch *pkgch.Client
	db *sql.DB
	l  *applogger.Logger
}

// NewCHSeriesStore creates the candle archive over an existing client.
func NewCHSeriesStore(ch *pkgch.Client, l *applogger.Logger) *CHSeriesStore {
	return &CHSeriesStore{ch: ch, db: ch.DB(), l: l}
}

var _ domrepo.SeriesStore = (*CHSeriesStore)(nil)

func (s *CHSeriesStore) Init(ctx context.Context) error {
	return s.ch.InitSchema(ctx, seriesSchema)
}

// StoreBatch inserts candles in chunks to keep round-trips bounded.
func (s *CHSeriesStore) StoreBatch(ctx context.Context, candles []models.Candle) error {
	if len(candles) == 0 {
		return nil
	}
	const chunkSize = 2000
	for start := 0; start < len(candles); start += chunkSize {
		end := start + chunkSize
		if end > len(candles) {
			end = len(candles)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*7)
		for _, c := range candles[start:end] {
			if c.Symbol == "" || c.Date.IsZero() {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?)")
			args = append(args, c.Date, c.Symbol, c.Open, c.High, c.Low, c.Close, c.Volume)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf(
			"INSERT INTO %s (date, symbol, open, high, low, close, volume) VALUES %s",
			candleTable, strings.Join(values, ","),
		)
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			s.logError("candle batch insert failed", err, applogger.Int("rows", len(values)))
			return fmt.Errorf("store candles: %w", err)
		}
	}
	return nil
}

// Query returns archived candles for symbol within [from, to], oldest first.
func (s *CHSeriesStore) Query(ctx context.Context, symbol string, from, to time.Time) (*models.PriceSeries, error) {
	start := time.Now()
	q := fmt.Sprintf(`
        SELECT date, symbol, open, high, low, close, volume
        FROM %s FINAL
        WHERE symbol = ? AND date >= ? AND date <= ?
        ORDER BY date ASC
    `, candleTable)

	rows, err := s.db.QueryContext(ctx, q, symbol, from, to)
	if err != nil {
		s.logError("candle query failed", err, applogger.String("symbol", symbol))
		return nil, fmt.Errorf("query candles: %w", err)
	}
	defer rows.Close()

	candles := make([]models.Candle, 0, 256)
	for rows.Next() {
		var c models.Candle
		if err := rows.Scan(&c.Date, &c.Symbol, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return nil, fmt.Errorf("scan candle: %w", err)
		}
		candles = append(candles, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	if s.l != nil {
		s.l.Debug("candle archive query ok",
			applogger.String("symbol", symbol),
			applogger.Int("rows", len(candles)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return &models.PriceSeries{Symbol: symbol, Candles: candles}, nil
}

// LastClose returns the newest archived close for symbol.
func (s *CHSeriesStore) LastClose(ctx context.Context, symbol string) (float64, time.Time, error) {
	q := fmt.Sprintf(`
        SELECT date, close
        FROM %s FINAL
        WHERE symbol = ?
        ORDER BY date DESC
        LIMIT 1
    `, candleTable)

	var date time.Time
	var px float64
	if err := s.db.QueryRowContext(ctx, q, symbol).Scan(&date, &px); err != nil {
		return 0, time.Time{}, fmt.Errorf("last close: %w", err)
	}
	return px, date, nil
}

func (s *CHSeriesStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHSeriesStore) Close() error {
	return nil // connection owned by pkg client
}

func (s *CHSeriesStore) logError(msg string, err error, fields ...applogger.Field) {
	if s.l == nil {
		return
	}
	s.l.Error(msg, append(fields, applogger.Error(err))...)
}
