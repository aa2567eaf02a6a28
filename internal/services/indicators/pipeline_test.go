package indicators

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/domain/models"
)

func makeSeries(closes []float64) *models.PriceSeries {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
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

func constSeries(value float64, n int) *models.PriceSeries {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = value
	}
	return makeSeries(closes)
}

func risingSeries(start, step float64, n int) *models.PriceSeries {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = start + float64(i)*step
	}
	return makeSeries(closes)
}

func TestComputeRejectsShortHistory(t *testing.T) {
	p := NewPipeline()

	_, err := p.Compute(makeSeries([]float64{100}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInsufficientHistory))

	_, err = p.Compute(nil)
	require.Error(t, err)
}

func TestSMAWarmupAndValue(t *testing.T) {
	p := NewPipeline()
	frame, err := p.Compute(constSeries(50, 60))
	require.NoError(t, err)

	for i := 0; i < 19; i++ {
		assert.Nil(t, frame.SMA20[i], "row %d should be warmup", i)
	}
	for i := 19; i < 60; i++ {
		require.NotNil(t, frame.SMA20[i])
		assert.InDelta(t, 50.0, *frame.SMA20[i], 1e-9)
	}

	for i := 0; i < 49; i++ {
		assert.Nil(t, frame.SMA50[i])
	}
	require.NotNil(t, frame.SMA50[59])
	assert.InDelta(t, 50.0, *frame.SMA50[59], 1e-9)
}

func TestEMASeededFromFirstClose(t *testing.T) {
	p := NewPipeline()
	frame, err := p.Compute(constSeries(42, 25))
	require.NoError(t, err)

	for i := range frame.EMA20 {
		require.NotNil(t, frame.EMA20[i])
		assert.InDelta(t, 42.0, *frame.EMA20[i], 1e-9)
	}
}

func TestRSIAllGainsIsHundred(t *testing.T) {
	p := NewPipeline()
	frame, err := p.Compute(risingSeries(100, 1, 30))
	require.NoError(t, err)

	for i := 0; i < 14; i++ {
		assert.Nil(t, frame.RSI14[i])
	}
	for i := 14; i < 30; i++ {
		require.NotNil(t, frame.RSI14[i])
		assert.InDelta(t, 100.0, *frame.RSI14[i], 1e-9)
	}
}

func TestRSIBounded(t *testing.T) {
	p := NewPipeline()
	closes := []float64{100, 102, 99, 104, 101, 105, 98, 107, 103, 108,
		104, 110, 105, 111, 106, 112, 108, 109, 113, 110}
	frame, err := p.Compute(makeSeries(closes))
	require.NoError(t, err)

	for i := 14; i < len(closes); i++ {
		require.NotNil(t, frame.RSI14[i])
		assert.GreaterOrEqual(t, *frame.RSI14[i], 0.0)
		assert.LessOrEqual(t, *frame.RSI14[i], 100.0)
	}
}

func TestMACDZeroOnFlatSeries(t *testing.T) {
	p := NewPipeline()
	frame, err := p.Compute(constSeries(75, 40))
	require.NoError(t, err)

	for i := range frame.MACD {
		require.NotNil(t, frame.MACD[i])
		assert.InDelta(t, 0.0, *frame.MACD[i], 1e-9)
		require.NotNil(t, frame.MACDSignal[i])
		assert.InDelta(t, 0.0, *frame.MACDSignal[i], 1e-9)
	}
}

func TestBollingerBandsOrdering(t *testing.T) {
	p := NewPipeline()
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + float64(i%5)
	}
	frame, err := p.Compute(makeSeries(closes))
	require.NoError(t, err)

	for i := 0; i < 19; i++ {
		assert.Nil(t, frame.BollingerMid[i])
		assert.Nil(t, frame.BollingerUpper[i])
		assert.Nil(t, frame.BollingerLower[i])
	}
	for i := 19; i < 30; i++ {
		require.NotNil(t, frame.BollingerMid[i])
		require.NotNil(t, frame.BollingerUpper[i])
		require.NotNil(t, frame.BollingerLower[i])
		assert.Greater(t, *frame.BollingerUpper[i], *frame.BollingerMid[i])
		assert.Less(t, *frame.BollingerLower[i], *frame.BollingerMid[i])
	}
}

func TestComputeDoesNotMutateInput(t *testing.T) {
	p := NewPipeline()
	series := risingSeries(10, 0.5, 25)
	before := series.Closes()

	_, err := p.Compute(series)
	require.NoError(t, err)

	after := series.Closes()
	assert.Equal(t, before, after)
}
