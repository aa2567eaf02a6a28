package repository

import (
	"context"
	"database/sql"
	"fmt"

	domrepo "github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/domain/repository"
	pkgch "github.com/ArunnathAR/stock-closing-price-prediction-web-app/pkg/clickhouse"
	applogger "github.com/ArunnathAR/stock-closing-price-prediction-web-app/pkg/logger"
)

const snapshotTable = "stockpred.prediction_snapshots"

var snapshotSchema = []string{
	`CREATE DATABASE IF NOT EXISTS stockpred`,
	`CREATE TABLE IF NOT EXISTS stockpred.prediction_snapshots (
        saved_at DateTime,
        symbol LowCardinality(String),
        period LowCardinality(String),
        recommendation LowCardinality(String),
        result String
    ) ENGINE = MergeTree()
    ORDER BY (symbol, saved_at)`,
}

// CHSnapshotStore persists saved prediction runs for later review.
type CHSnapshotStore struct {
	ch *pkgch.Client
	db *sql.DB
	l  *applogger.Logger
}

// NewCHSnapshotStore creates the snapshot store over an existing client.
func NewCHSnapshotStore(ch *pkgch.Client, l *applogger.Logger) *CHSnapshotStore {
	return &CHSnapshotStore{ch: ch, db: ch.DB(), l: l}
}

var _ domrepo.SnapshotStore = (*CHSnapshotStore)(nil)

func (s *CHSnapshotStore) Init(ctx context.Context) error {
	return s.ch.InitSchema(ctx, snapshotSchema)
}

func (s *CHSnapshotStore) Save(ctx context.Context, snap *domrepo.PredictionSnapshot) error {
	q := fmt.Sprintf(
		"INSERT INTO %s (saved_at, symbol, period, recommendation, result) VALUES (?, ?, ?, ?, ?)",
		snapshotTable,
	)
	if _, err := s.db.ExecContext(ctx, q,
		snap.SavedAt, snap.Symbol, snap.Period, snap.Recommendation, string(snap.Result),
	); err != nil {
		if s.l != nil {
			s.l.Error("snapshot insert failed",
				applogger.String("symbol", snap.Symbol),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *CHSnapshotStore) Close() error {
	return nil // connection owned by pkg client
}
