// Package ensemble combines the forecaster pool's outputs and derives a
// trading recommendation from them.
package ensemble

import (
	"fmt"
	"time"

	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/domain/models"
)

// Combiner merges per-model forecasts into a single ensemble series.
type Combiner struct{}

// NewCombiner creates an ensemble combiner.
func NewCombiner() *Combiner {
	return &Combiner{}
}

// CombineInput carries everything the combiner needs for one run.
type CombineInput struct {
	Symbol       string
	Period       string
	AsOf         time.Time
	CurrentPrice float64
	Dates        []time.Time
	Results      []models.ForecastResult
	Failed       map[string]string
}

// Combine averages the successful models per forecast date. A single success
// degenerates to that model's series; zero successes is the only fatal case.
func (c *Combiner) Combine(in CombineInput) (*models.EnsembleForecast, error) {
	horizon := len(in.Dates)

	failed := make(map[string]string, len(in.Failed))
	for model, reason := range in.Failed {
		failed[model] = reason
	}

	perModel := make(map[string][]float64, len(in.Results))
	for _, r := range in.Results {
		if len(r.Values) != horizon {
			failed[r.Model] = fmt.Sprintf("length mismatch: got %d values, want %d", len(r.Values), horizon)
			continue
		}
		perModel[r.Model] = r.Values
	}

	if len(perModel) == 0 {
		return nil, models.NewKindError(models.ErrAllModelsFailed,
			"no forecaster produced a usable series for %s", in.Symbol)
	}

	combined := make([]float64, horizon)
	for i := 0; i < horizon; i++ {
		var sum float64
		for _, values := range perModel {
			sum += values[i]
		}
		combined[i] = sum / float64(len(perModel))
	}

	return &models.EnsembleForecast{
		Symbol:       in.Symbol,
		Period:       in.Period,
		AsOf:         in.AsOf,
		CurrentPrice: in.CurrentPrice,
		Dates:        in.Dates,
		PerModel:     perModel,
		Failed:       failed,
		Ensemble:     combined,
		Horizon:      horizon,
	}, nil
}
