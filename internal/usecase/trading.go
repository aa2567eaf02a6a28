package usecase

import (
	"context"

	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/domain/models"
	domrepo "github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/domain/repository"
	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/services/tradecost"
)

// TradingCalculator answers the trading endpoints: tax breakdowns and profit
// projections against the current forecast.
type TradingCalculator struct {
	engine     *tradecost.TaxEngine
	projector  *tradecost.ProfitProjector
	prediction *PredictionEngine
}

// NewTradingCalculator creates the calculator.
func NewTradingCalculator(engine *tradecost.TaxEngine, projector *tradecost.ProfitProjector, prediction *PredictionEngine) *TradingCalculator {
	return &TradingCalculator{engine: engine, projector: projector, prediction: prediction}
}

// CalculateTax itemizes charges on a single trade leg.
func (c *TradingCalculator) CalculateTax(req models.TradeRequest) (models.TaxBreakdown, error) {
	return c.engine.Compute(req)
}

// ProfitPotential projects the profit of entering now and exiting at each
// forecast horizon bucket. The forecast comes from the prediction engine and
// therefore respects its cache.
func (c *TradingCalculator) ProfitPotential(ctx context.Context, req models.TradeRequest, period domrepo.Period) (float64, map[string]models.ProfitProjection, error) {
	result, err := c.prediction.Predict(ctx, req.Symbol, period)
	if err != nil {
		return 0, nil, err
	}

	projections, err := c.projector.Project(req, result.Ensemble)
	if err != nil {
		return 0, nil, err
	}
	return result.CurrentPrice, projections, nil
}
