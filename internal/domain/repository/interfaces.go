package repository

import (
	"context"
	"time"

	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/domain/models"
)

// SeriesProvider fetches daily candles and quotes from the market data vendor.
type SeriesProvider interface {
	DailySeries(ctx context.Context, symbol string, from time.Time) (*models.PriceSeries, error)
	Quote(ctx context.Context, symbol string) (*models.Quote, error)
}

// SeriesStore archives fetched candles and serves them back when the
// provider is down.
type SeriesStore interface {
	Init(ctx context.Context) error
	StoreBatch(ctx context.Context, candles []models.Candle) error
	Query(ctx context.Context, symbol string, from, to time.Time) (*models.PriceSeries, error)
	LastClose(ctx context.Context, symbol string) (float64, time.Time, error)
	Health(ctx context.Context) error
	Close() error
}

// SnapshotStore persists saved prediction snapshots.
type SnapshotStore interface {
	Init(ctx context.Context) error
	Save(ctx context.Context, snapshot *PredictionSnapshot) error
	Close() error
}

// PredictionSnapshot is a user-saved forecast result.
type PredictionSnapshot struct {
	Symbol         string
	Period         string
	Recommendation string
	Result         []byte // JSON payload as submitted
	SavedAt        time.Time
}

// Publisher emits analysis events to downstream consumers.
type Publisher interface {
	PublishAnalysis(ctx context.Context, event *AnalysisEvent) error
	Close() error
}

// AnalysisEvent describes one completed forecast or saved snapshot.
type AnalysisEvent struct {
	Type           string    `json:"type"` // "forecast" or "snapshot"
	Symbol         string    `json:"symbol"`
	Period         string    `json:"period"`
	Recommendation string    `json:"recommendation,omitempty"`
	ExpectedChange float64   `json:"expected_change_percent,omitempty"`
	ModelsUsed     []string  `json:"models_used,omitempty"`
	At             time.Time `json:"at"`
}

// QuoteSource serves the freshest known price for a symbol, if any.
type QuoteSource interface {
	LastPrice(symbol string) (float64, time.Time, bool)
}

// Metrics records operational counters and latencies.
type Metrics interface {
	RecordForecast(symbol, period, result string)
	RecordCacheLookup(outcome string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordModelDuration(model string, seconds float64)
	RecordLatency(op string, seconds float64)
}
