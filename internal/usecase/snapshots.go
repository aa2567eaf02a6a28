package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/domain/models"
	domrepo "github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/domain/repository"
	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/pkg/logger"
)

// SnapshotSaver persists user-saved prediction snapshots and announces them.
type SnapshotSaver struct {
	store     domrepo.SnapshotStore // optional
	publisher domrepo.Publisher     // optional
	log       *logger.Logger
	now       func() time.Time
}

// NewSnapshotSaver creates the saver.
func NewSnapshotSaver(store domrepo.SnapshotStore, publisher domrepo.Publisher, log *logger.Logger) *SnapshotSaver {
	return &SnapshotSaver{store: store, publisher: publisher, log: log, now: time.Now}
}

// Save persists the snapshot and publishes a snapshot event. Publishing is
// best-effort; persistence failures surface.
func (s *SnapshotSaver) Save(ctx context.Context, req *models.SavePredictionRequest) error {
	payload, err := json.Marshal(req.PredictionResult)
	if err != nil {
		return fmt.Errorf("marshal prediction result: %w", err)
	}

	at := s.now()
	if s.store != nil {
		snapshot := &domrepo.PredictionSnapshot{
			Symbol:         req.Symbol,
			Period:         req.Period,
			Recommendation: req.Recommendation,
			Result:         payload,
			SavedAt:        at,
		}
		if err := s.store.Save(ctx, snapshot); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
	}

	if s.publisher != nil {
		event := &domrepo.AnalysisEvent{
			Type:           "snapshot",
			Symbol:         req.Symbol,
			Period:         req.Period,
			Recommendation: req.Recommendation,
			At:             at,
		}
		if err := s.publisher.PublishAnalysis(ctx, event); err != nil && s.log != nil {
			s.log.Warn("snapshot event publish failed",
				logger.String("symbol", req.Symbol),
				logger.Error(err),
			)
		}
	}

	return nil
}
