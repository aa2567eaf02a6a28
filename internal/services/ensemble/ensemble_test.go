package ensemble

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/domain/models"
)

func tradingDates(n int) []time.Time {
	dates := make([]time.Time, n)
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC) // a Monday
	for i := 0; i < n; i++ {
		for day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			day = day.AddDate(0, 0, 1)
		}
		dates[i] = day
		day = day.AddDate(0, 0, 1)
	}
	return dates
}

func constValues(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestCombineAveragesModels(t *testing.T) {
	c := NewCombiner()
	in := CombineInput{
		Symbol:       "INFY",
		Period:       "1month",
		CurrentPrice: 100,
		Dates:        tradingDates(3),
		Results: []models.ForecastResult{
			{Model: models.ModelArima, Values: []float64{100, 102, 104}},
			{Model: models.ModelSequence, Values: []float64{110, 112, 114}},
			{Model: models.ModelTrend, Values: []float64{90, 92, 94}},
		},
	}

	ens, err := c.Combine(in)
	require.NoError(t, err)
	require.Len(t, ens.Ensemble, 3)
	assert.InDelta(t, 100.0, ens.Ensemble[0], 1e-9)
	assert.InDelta(t, 102.0, ens.Ensemble[1], 1e-9)
	assert.InDelta(t, 104.0, ens.Ensemble[2], 1e-9)
	assert.Equal(t, []string{models.ModelArima, models.ModelSequence, models.ModelTrend}, ens.ModelsUsed())
}

func TestCombineSingleModelDegenerates(t *testing.T) {
	c := NewCombiner()
	values := []float64{105, 106.5, 108}
	in := CombineInput{
		Symbol: "TCS",
		Dates:  tradingDates(3),
		Results: []models.ForecastResult{
			{Model: models.ModelTrend, Values: values},
		},
		Failed: map[string]string{
			models.ModelArima:    "model_non_convergent",
			models.ModelSequence: "insufficient_history",
		},
	}

	ens, err := c.Combine(in)
	require.NoError(t, err)
	assert.Equal(t, values, ens.Ensemble)
	assert.Equal(t, []string{models.ModelTrend}, ens.ModelsUsed())
	assert.Len(t, ens.Failed, 2)
}

func TestCombineAllFailed(t *testing.T) {
	c := NewCombiner()
	in := CombineInput{
		Symbol: "WIPRO",
		Dates:  tradingDates(5),
		Failed: map[string]string{
			models.ModelArima:    "model_non_convergent",
			models.ModelSequence: "insufficient_history",
			models.ModelTrend:    "model_underdetermined",
		},
	}

	_, err := c.Combine(in)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrAllModelsFailed))
}

func TestCombineDropsLengthMismatchedResults(t *testing.T) {
	c := NewCombiner()
	in := CombineInput{
		Symbol: "HDFC",
		Dates:  tradingDates(3),
		Results: []models.ForecastResult{
			{Model: models.ModelArima, Values: []float64{100, 101}}, // truncated
			{Model: models.ModelTrend, Values: []float64{100, 101, 102}},
		},
	}

	ens, err := c.Combine(in)
	require.NoError(t, err)
	assert.Equal(t, []string{models.ModelTrend}, ens.ModelsUsed())
	assert.Contains(t, ens.Failed, models.ModelArima)
	assert.Contains(t, ens.Failed[models.ModelArima], "length mismatch")
}

func TestCombineKeepsUpstreamFailureReasons(t *testing.T) {
	c := NewCombiner()
	in := CombineInput{
		Symbol: "HDFC",
		Dates:  tradingDates(3),
		Results: []models.ForecastResult{
			{Model: models.ModelTrend, Values: []float64{100, 101, 102}},
			{Model: models.ModelSequence, Values: []float64{100}}, // truncated
		},
		Failed: map[string]string{models.ModelArima: "diverged"},
	}

	ens, err := c.Combine(in)
	require.NoError(t, err)
	assert.Equal(t, "diverged", ens.Failed[models.ModelArima])
	assert.Contains(t, ens.Failed[models.ModelSequence], "length mismatch")
	assert.Equal(t, []string{models.ModelTrend}, ens.ModelsUsed())
}

func makeEnsemble(current float64, values []float64) *models.EnsembleForecast {
	return &models.EnsembleForecast{
		Symbol:       "TEST",
		CurrentPrice: current,
		Dates:        tradingDates(len(values)),
		PerModel:     map[string][]float64{models.ModelTrend: values},
		Failed:       map[string]string{},
		Ensemble:     values,
		Horizon:      len(values),
	}
}

func TestRecommendBuyBeyondThreshold(t *testing.T) {
	r := NewRecommender(3.0)
	// +10% across every tier
	rec := r.Recommend(makeEnsemble(100, constValues(110, 22)), nil)

	assert.Equal(t, models.ActionBuy, rec.Action)
	assert.Equal(t, ConfidenceHigh, rec.Confidence)
	assert.InDelta(t, 10.0, rec.ExpectedChange, 1e-9)
	assert.Contains(t, rec.Explanation, "upside")
}

func TestRecommendSellMirrored(t *testing.T) {
	r := NewRecommender(3.0)
	rec := r.Recommend(makeEnsemble(100, constValues(90, 22)), nil)

	assert.Equal(t, models.ActionSell, rec.Action)
	assert.Equal(t, ConfidenceHigh, rec.Confidence)
	assert.InDelta(t, -10.0, rec.ExpectedChange, 1e-9)
}

func TestRecommendHoldAtZeroChange(t *testing.T) {
	r := NewRecommender(3.0)
	rec := r.Recommend(makeEnsemble(100, constValues(100, 22)), nil)

	assert.Equal(t, models.ActionHold, rec.Action)
	assert.Equal(t, ConfidenceNeutral, rec.Confidence)
	assert.InDelta(t, 0.0, rec.ExpectedChange, 1e-9)
}

func TestRecommendHoldInsideThreshold(t *testing.T) {
	r := NewRecommender(3.0)
	rec := r.Recommend(makeEnsemble(100, constValues(102.9, 22)), nil)
	assert.Equal(t, models.ActionHold, rec.Action)

	// exactly at the threshold is still a hold; strictly beyond buys
	rec = r.Recommend(makeEnsemble(100, constValues(103, 22)), nil)
	assert.Equal(t, models.ActionHold, rec.Action)

	rec = r.Recommend(makeEnsemble(100, constValues(103.01, 22)), nil)
	assert.Equal(t, models.ActionBuy, rec.Action)
}

func TestRecommendModerateWhenTiersDisagree(t *testing.T) {
	r := NewRecommender(3.0)
	// early points flat, final point well above threshold
	values := constValues(100, 22)
	for i := 15; i < 22; i++ {
		values[i] = 112
	}
	rec := r.Recommend(makeEnsemble(100, values), nil)

	assert.Equal(t, models.ActionBuy, rec.Action)
	assert.Equal(t, ConfidenceModerate, rec.Confidence)
}

func TestRecommendIncludesModelSignals(t *testing.T) {
	r := NewRecommender(3.0)
	ens := makeEnsemble(100, constValues(110, 22))
	rec := r.Recommend(ens, nil)

	require.NotEmpty(t, rec.Signals)
	assert.Contains(t, rec.Signals[0], "bullish")
}
