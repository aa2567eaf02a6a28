package service

import (
	"context"

	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/domain/models"
)

// Forecaster predicts future closing prices from a daily price series.
// Implementations must not mutate the input series.
type Forecaster interface {
	Name() string
	Forecast(ctx context.Context, series *models.PriceSeries, horizon int) (models.ForecastResult, error)
}
