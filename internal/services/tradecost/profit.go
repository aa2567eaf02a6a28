package tradecost

import (
	"github.com/shopspring/decimal"

	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/domain/models"
)

// horizonBuckets are the trading-day offsets reported by the projector, in
// label order. Only offsets the forecast horizon covers are emitted.
var horizonBuckets = []struct {
	Label  string
	Offset int
}{
	{"1week", 5},
	{"2week", 10},
	{"1month", 22},
	{"3month", 66},
	{"5month", 110},
}

// ProfitProjector prices the expected outcome of entering now and exiting at
// each forecast horizon bucket.
type ProfitProjector struct {
	engine *TaxEngine
}

// NewProfitProjector creates a projector sharing the tax engine's schedule.
func NewProfitProjector(engine *TaxEngine) *ProfitProjector {
	return &ProfitProjector{engine: engine}
}

// Project maps horizon labels to projections. The entry leg is a buy at the
// current price; each bucket exits with a hypothetical sell at the predicted
// price under the same holding term. The final forecast point is always
// included under the request period's label.
func (p *ProfitProjector) Project(req models.TradeRequest, ens *models.EnsembleForecast) (map[string]models.ProfitProjection, error) {
	if req.Quantity <= 0 {
		return nil, models.NewKindError(models.ErrInvalidTradeRequest,
			"quantity must be positive, got %d", req.Quantity)
	}
	if ens == nil || len(ens.Ensemble) == 0 {
		return nil, models.NewKindError(models.ErrInvalidTradeRequest, "no forecast to project against")
	}
	if ens.CurrentPrice <= 0 {
		return nil, models.NewKindError(models.ErrInvalidTradeRequest,
			"current price must be positive, got %v", ens.CurrentPrice)
	}

	horizon := len(ens.Ensemble)
	out := make(map[string]models.ProfitProjection)

	covered := false
	for _, bucket := range horizonBuckets {
		if bucket.Offset > horizon {
			continue
		}
		if bucket.Offset == horizon {
			covered = true
		}
		proj, err := p.projectAt(req, ens, bucket.Label, bucket.Offset)
		if err != nil {
			return nil, err
		}
		out[bucket.Label] = proj
	}

	// the final point always appears, even for horizons between buckets
	if !covered {
		label := ens.Period
		if label == "" {
			label = "final"
		}
		proj, err := p.projectAt(req, ens, label, horizon)
		if err != nil {
			return nil, err
		}
		out[label] = proj
	}

	return out, nil
}

func (p *ProfitProjector) projectAt(req models.TradeRequest, ens *models.EnsembleForecast, label string, offset int) (models.ProfitProjection, error) {
	predicted := ens.Ensemble[offset-1]
	current := ens.CurrentPrice

	entry, err := p.engine.Compute(models.TradeRequest{
		Symbol:          req.Symbol,
		TransactionType: models.TransactionBuy,
		Quantity:        req.Quantity,
		Price:           current,
		IsShortTerm:     req.IsShortTerm,
	})
	if err != nil {
		return models.ProfitProjection{}, err
	}

	var exitTax decimal.Decimal
	if predicted > 0 {
		exit, err := p.engine.Compute(models.TradeRequest{
			Symbol:          req.Symbol,
			TransactionType: models.TransactionSell,
			Quantity:        req.Quantity,
			Price:           predicted,
			IsShortTerm:     req.IsShortTerm,
		})
		if err != nil {
			return models.ProfitProjection{}, err
		}
		exitTax = exit.TotalTax
	}

	qty := decimal.NewFromInt(req.Quantity)
	currentDec := decimal.NewFromFloat(current)
	predictedDec := decimal.NewFromFloat(predicted)

	investment := qty.Mul(currentDec)
	expectedReturn := qty.Mul(predictedDec.Sub(currentDec))
	estimatedTax := entry.TotalTax.Add(exitTax)
	netProfit := expectedReturn.Sub(estimatedTax)

	hundred := decimal.NewFromInt(100)
	changePct := predictedDec.Sub(currentDec).Div(currentDec).Mul(hundred)
	pctReturn := decimal.Zero
	if !investment.IsZero() {
		pctReturn = netProfit.Div(investment).Mul(hundred)
	}

	return models.ProfitProjection{
		Label:            label,
		PredictedPrice:   predictedDec,
		PriceChangePct:   changePct,
		Investment:       investment,
		ExpectedReturn:   expectedReturn,
		EstimatedTax:     estimatedTax,
		NetProfit:        netProfit,
		PercentageReturn: pctReturn,
	}, nil
}
