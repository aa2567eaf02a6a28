package forecast

import (
	"context"
	"time"

	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/domain/models"
)

// seasonalPeriod is one trading week.
const seasonalPeriod = 5

// TrendForecaster fits a linear trend plus a weekday-mean seasonal component
// over the detrended closes, then projects both forward.
type TrendForecaster struct{}

// NewTrendForecaster creates the trend/seasonality model.
func NewTrendForecaster() *TrendForecaster {
	return &TrendForecaster{}
}

func (f *TrendForecaster) Name() string { return models.ModelTrend }

func (f *TrendForecaster) Forecast(ctx context.Context, series *models.PriceSeries, horizon int) (models.ForecastResult, error) {
	if err := ctx.Err(); err != nil {
		return models.ForecastResult{}, err
	}

	closes := series.Closes()
	n := len(closes)
	if n < 2*seasonalPeriod {
		return models.ForecastResult{}, models.NewKindError(models.ErrModelUnderdetermined,
			"trend model needs %d rows (two seasonal periods), got %d", 2*seasonalPeriod, n)
	}

	intercept, slope := olsLine(closes)

	// weekday means of the detrended residuals
	var seasonSum [seasonalPeriod]float64
	var seasonCount [seasonalPeriod]int
	for i, c := range series.Candles {
		w := weekdaySlot(c.Date.Weekday())
		if w < 0 {
			continue
		}
		resid := closes[i] - (intercept + slope*float64(i))
		seasonSum[w] += resid
		seasonCount[w]++
	}

	var season [seasonalPeriod]float64
	for w := 0; w < seasonalPeriod; w++ {
		if seasonCount[w] > 0 {
			season[w] = seasonSum[w] / float64(seasonCount[w])
		}
	}

	fitted := make([]float64, n)
	for i, c := range series.Candles {
		fitted[i] = intercept + slope*float64(i)
		if w := weekdaySlot(c.Date.Weekday()); w >= 0 {
			fitted[i] += season[w]
		}
	}

	last, _ := series.Last()
	dates := ForecastDates(last.Date, horizon)
	values := make([]float64, horizon)
	for k, d := range dates {
		v := intercept + slope*float64(n+k)
		if w := weekdaySlot(d.Weekday()); w >= 0 {
			v += season[w]
		}
		values[k] = v
	}

	return models.ForecastResult{
		Model:  models.ModelTrend,
		Values: values,
		Diagnostics: models.FitDiagnostics{
			SampleSize: n,
			RMSE:       rmse(closes, fitted),
		},
	}, nil
}

// weekdaySlot maps Monday..Friday to 0..4 and weekends to -1.
func weekdaySlot(w time.Weekday) int {
	if w < time.Monday || w > time.Friday {
		return -1
	}
	return int(w) - 1
}
