package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/domain/models"
	domrepo "github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/domain/repository"
	domsvc "github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/domain/service"
	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/pkg/logger"
)

// ForecasterPool fans the same immutable series out to every registered
// forecaster concurrently and gathers whatever succeeded.
type ForecasterPool struct {
	forecasters []domsvc.Forecaster
	metrics     domrepo.Metrics
	log         *logger.Logger
}

// NewForecasterPool creates a pool over the given forecasters.
func NewForecasterPool(forecasters []domsvc.Forecaster, metrics domrepo.Metrics, log *logger.Logger) *ForecasterPool {
	return &ForecasterPool{forecasters: forecasters, metrics: metrics, log: log}
}

type poolSlot struct {
	name string
	res  models.ForecastResult
	err  error
}

// Run executes every forecaster in its own goroutine. A model failure is
// degraded into the failure map; cancellation aborts the whole run.
func (p *ForecasterPool) Run(ctx context.Context, series *models.PriceSeries, horizon int) ([]models.ForecastResult, map[string]string, error) {
	slots := make([]poolSlot, len(p.forecasters))

	var wg sync.WaitGroup
	for i, f := range p.forecasters {
		wg.Add(1)
		go func(i int, f domsvc.Forecaster) {
			defer wg.Done()
			start := time.Now()
			res, err := f.Forecast(ctx, series, horizon)
			if p.metrics != nil {
				p.metrics.RecordModelDuration(f.Name(), time.Since(start).Seconds())
			}
			slots[i] = poolSlot{name: f.Name(), res: res, err: err}
		}(i, f)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	results := make([]models.ForecastResult, 0, len(slots))
	failed := make(map[string]string)
	for _, s := range slots {
		if s.err != nil {
			if errors.Is(s.err, context.Canceled) || errors.Is(s.err, context.DeadlineExceeded) {
				return nil, nil, s.err
			}
			failed[s.name] = s.err.Error()
			if p.metrics != nil {
				p.metrics.RecordError(errorKind(s.err))
			}
			if p.log != nil {
				p.log.Warn("forecaster failed",
					logger.String("model", s.name),
					logger.String("symbol", series.Symbol),
					logger.Error(s.err),
				)
			}
			continue
		}
		results = append(results, s.res)
	}

	return results, failed, nil
}

func errorKind(err error) string {
	var ke *models.KindError
	if errors.As(err, &ke) {
		return ke.Kind
	}
	return "internal"
}
