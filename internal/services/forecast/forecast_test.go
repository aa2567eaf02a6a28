package forecast

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/domain/models"
)

func makeSeries(closes []float64) *models.PriceSeries {
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC) // a Monday
	candles := make([]models.Candle, len(closes))
	day := start
	for i, c := range closes {
		for day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			day = day.AddDate(0, 0, 1)
		}
		candles[i] = models.Candle{Date: day, Symbol: "TEST", Close: c}
		day = day.AddDate(0, 0, 1)
	}
	return &models.PriceSeries{Symbol: "TEST", Candles: candles}
}

func linearSeries(start, step float64, n int) *models.PriceSeries {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = start + float64(i)*step
	}
	return makeSeries(closes)
}

func flatSeries(value float64, n int) *models.PriceSeries {
	return linearSeries(value, 0, n)
}

func noisySeries(n int) *models.PriceSeries {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + 0.3*float64(i) + 2*math.Sin(float64(i)*1.7) + 0.8*math.Sin(float64(i)*0.37)
	}
	return makeSeries(closes)
}

func TestForecastDatesAreTradingDays(t *testing.T) {
	friday := time.Date(2024, 10, 11, 0, 0, 0, 0, time.UTC)
	dates := ForecastDates(friday, 22)

	require.Len(t, dates, 22)
	assert.Equal(t, time.Date(2024, 10, 14, 0, 0, 0, 0, time.UTC), dates[0], "first date must skip the weekend")
	for i, d := range dates {
		assert.True(t, d.After(friday))
		assert.NotEqual(t, time.Saturday, d.Weekday())
		assert.NotEqual(t, time.Sunday, d.Weekday())
		if i > 0 {
			assert.True(t, d.After(dates[i-1]), "dates must be strictly increasing")
		}
	}
}

func TestTrendRejectsShortHistory(t *testing.T) {
	f := NewTrendForecaster()
	_, err := f.Forecast(context.Background(), linearSeries(100, 1, 9), 22)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrModelUnderdetermined))
}

func TestTrendContinuesLinearSeries(t *testing.T) {
	f := NewTrendForecaster()
	series := linearSeries(100, 1, 40)

	res, err := f.Forecast(context.Background(), series, 22)
	require.NoError(t, err)
	require.Len(t, res.Values, 22)

	// a clean line detrends to zero residuals, so the projection stays linear
	for k, v := range res.Values {
		assert.InDelta(t, 100+float64(40+k), v, 1e-6, "step %d", k)
	}
	assert.InDelta(t, 0, res.Diagnostics.RMSE, 1e-6)
	assert.Equal(t, 40, res.Diagnostics.SampleSize)
}

func TestTrendHorizonSizes(t *testing.T) {
	f := NewTrendForecaster()
	series := noisySeries(120)

	for _, h := range []int{22, 66, 110} {
		res, err := f.Forecast(context.Background(), series, h)
		require.NoError(t, err)
		assert.Len(t, res.Values, h)
	}
}

func TestArimaRejectsShortHistory(t *testing.T) {
	f := NewArimaForecaster(50, 1e-6)
	_, err := f.Forecast(context.Background(), linearSeries(100, 1, 11), 22)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInsufficientHistory))
}

func TestArimaFlatSeriesStaysFlat(t *testing.T) {
	f := NewArimaForecaster(50, 1e-6)
	res, err := f.Forecast(context.Background(), flatSeries(250, 30), 22)
	require.NoError(t, err)
	require.Len(t, res.Values, 22)
	for _, v := range res.Values {
		assert.InDelta(t, 250.0, v, 1e-9)
	}
}

func TestArimaLinearSeriesKeepsDrift(t *testing.T) {
	f := NewArimaForecaster(50, 1e-6)
	res, err := f.Forecast(context.Background(), linearSeries(100, 2, 30), 10)
	require.NoError(t, err)
	require.Len(t, res.Values, 10)

	// constant differences reduce to pure drift
	for k, v := range res.Values {
		assert.InDelta(t, 100+2*float64(29)+2*float64(k+1), v, 1e-9)
	}
}

func TestArimaNoisySeries(t *testing.T) {
	f := NewArimaForecaster(200, 1e-5)
	res, err := f.Forecast(context.Background(), noisySeries(90), 22)

	if err != nil {
		assert.True(t, errors.Is(err, models.ErrModelNonConvergent))
		return
	}
	require.Len(t, res.Values, 22)
	for _, v := range res.Values {
		assert.False(t, math.IsNaN(v))
		assert.False(t, math.IsInf(v, 0))
	}
	assert.Greater(t, res.Diagnostics.Iterations, 0)
}

func TestArimaHonorsCancellation(t *testing.T) {
	f := NewArimaForecaster(50, 1e-6)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Forecast(ctx, noisySeries(60), 22)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestSequenceRejectsShortHistory(t *testing.T) {
	f := NewSequenceForecaster(10, 0.05, 4)
	_, err := f.Forecast(context.Background(), linearSeries(100, 1, 5), 22)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInsufficientHistory))
}

func TestSequenceFlatSeriesStaysFlat(t *testing.T) {
	f := NewSequenceForecaster(10, 0.05, 4)
	res, err := f.Forecast(context.Background(), flatSeries(80, 40), 22)
	require.NoError(t, err)
	require.Len(t, res.Values, 22)
	for _, v := range res.Values {
		assert.InDelta(t, 80.0, v, 1e-9)
	}
}

func TestSequenceIsDeterministic(t *testing.T) {
	series := noisySeries(70)

	a, err := NewSequenceForecaster(50, 0.05, 8).Forecast(context.Background(), series, 22)
	require.NoError(t, err)
	b, err := NewSequenceForecaster(50, 0.05, 8).Forecast(context.Background(), series, 22)
	require.NoError(t, err)

	assert.Equal(t, a.Values, b.Values)
	assert.Equal(t, a.Diagnostics, b.Diagnostics)
}

func TestSequenceOutputsFinite(t *testing.T) {
	f := NewSequenceForecaster(50, 0.05, 8)
	res, err := f.Forecast(context.Background(), noisySeries(90), 66)
	require.NoError(t, err)
	require.Len(t, res.Values, 66)
	for _, v := range res.Values {
		assert.False(t, math.IsNaN(v))
		assert.False(t, math.IsInf(v, 0))
	}
	assert.Equal(t, 50, res.Diagnostics.Epochs)
}

func TestSequenceHonorsCancellation(t *testing.T) {
	f := NewSequenceForecaster(5000, 0.05, 8)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Forecast(ctx, noisySeries(60), 22)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
