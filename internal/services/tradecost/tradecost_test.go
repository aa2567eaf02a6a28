package tradecost

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/domain/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeShortTermBuyScenario(t *testing.T) {
	engine := NewTaxEngine(DefaultRateSchedule())

	breakdown, err := engine.Compute(models.TradeRequest{
		Symbol:          "INFY",
		TransactionType: models.TransactionBuy,
		Quantity:        10,
		Price:           100.00,
		IsShortTerm:     true,
	})
	require.NoError(t, err)

	assert.True(t, breakdown.TransactionValue.Equal(dec("1000")), "value = %s", breakdown.TransactionValue)
	assert.True(t, breakdown.STT.Equal(dec("0")), "short-term buy leg carries no STT, got %s", breakdown.STT)
	assert.True(t, breakdown.ExchangeCharges.Equal(dec("0.0325")), "exchange = %s", breakdown.ExchangeCharges)
	assert.True(t, breakdown.SEBICharges.Equal(dec("0.001")), "sebi = %s", breakdown.SEBICharges)
	assert.True(t, breakdown.GST.Equal(dec("0.00585")), "gst = %s", breakdown.GST)
	assert.True(t, breakdown.StampDuty.Equal(dec("0.15")), "stamp = %s", breakdown.StampDuty)
	assert.True(t, breakdown.TotalTax.Equal(dec("0.18935")), "total = %s", breakdown.TotalTax)
	assert.True(t, breakdown.NetAmount.Equal(dec("1000.18935")), "net = %s", breakdown.NetAmount)
}

func TestComputeComponentsSumExactly(t *testing.T) {
	engine := NewTaxEngine(DefaultRateSchedule())

	cases := []models.TradeRequest{
		{TransactionType: models.TransactionBuy, Quantity: 10, Price: 100, IsShortTerm: true},
		{TransactionType: models.TransactionSell, Quantity: 10, Price: 100, IsShortTerm: true},
		{TransactionType: models.TransactionBuy, Quantity: 37, Price: 1543.21},
		{TransactionType: models.TransactionSell, Quantity: 37, Price: 1543.21},
		{TransactionType: models.TransactionBuy, Quantity: 1, Price: 0.05},
	}

	for _, req := range cases {
		b, err := engine.Compute(req)
		require.NoError(t, err)

		sum := b.STT.Add(b.ExchangeCharges).Add(b.GST).Add(b.SEBICharges).Add(b.StampDuty)
		assert.True(t, b.TotalTax.Equal(sum),
			"%s qty=%d: total %s != sum %s", req.TransactionType, req.Quantity, b.TotalTax, sum)
	}
}

func TestComputeStampDutyBuyLegOnly(t *testing.T) {
	engine := NewTaxEngine(DefaultRateSchedule())

	buy, err := engine.Compute(models.TradeRequest{
		TransactionType: models.TransactionBuy, Quantity: 100, Price: 500,
	})
	require.NoError(t, err)
	assert.True(t, buy.StampDuty.IsPositive())

	sell, err := engine.Compute(models.TradeRequest{
		TransactionType: models.TransactionSell, Quantity: 100, Price: 500,
	})
	require.NoError(t, err)
	assert.True(t, sell.StampDuty.IsZero())
}

func TestComputeNetAmountDirection(t *testing.T) {
	engine := NewTaxEngine(DefaultRateSchedule())

	buy, err := engine.Compute(models.TradeRequest{
		TransactionType: models.TransactionBuy, Quantity: 5, Price: 200,
	})
	require.NoError(t, err)
	assert.True(t, buy.NetAmount.Equal(buy.TransactionValue.Add(buy.TotalTax)))

	sell, err := engine.Compute(models.TradeRequest{
		TransactionType: models.TransactionSell, Quantity: 5, Price: 200,
	})
	require.NoError(t, err)
	assert.True(t, sell.NetAmount.Equal(sell.TransactionValue.Sub(sell.TotalTax)))
}

func TestComputeDeliverySTTBothLegs(t *testing.T) {
	engine := NewTaxEngine(DefaultRateSchedule())

	for _, tt := range []string{models.TransactionBuy, models.TransactionSell} {
		b, err := engine.Compute(models.TradeRequest{
			TransactionType: tt, Quantity: 10, Price: 1000,
		})
		require.NoError(t, err)
		assert.True(t, b.STT.Equal(dec("10")), "%s STT = %s", tt, b.STT)
	}
}

func TestComputeRejectsInvalidRequests(t *testing.T) {
	engine := NewTaxEngine(DefaultRateSchedule())

	cases := []models.TradeRequest{
		{TransactionType: models.TransactionBuy, Quantity: 0, Price: 100},
		{TransactionType: models.TransactionBuy, Quantity: -5, Price: 100},
		{TransactionType: models.TransactionBuy, Quantity: 10, Price: 0},
		{TransactionType: models.TransactionBuy, Quantity: 10, Price: -1},
		{TransactionType: "transfer", Quantity: 10, Price: 100},
	}

	for _, req := range cases {
		_, err := engine.Compute(req)
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrInvalidTradeRequest), "req %+v", req)
	}
}

func makeEnsemble(period string, current float64, values []float64) *models.EnsembleForecast {
	return &models.EnsembleForecast{
		Symbol:       "TEST",
		Period:       period,
		CurrentPrice: current,
		Ensemble:     values,
		Horizon:      len(values),
	}
}

func rampValues(start, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i+1)
	}
	return out
}

func TestProjectBucketsWithinHorizon(t *testing.T) {
	p := NewProfitProjector(NewTaxEngine(DefaultRateSchedule()))
	ens := makeEnsemble("1month", 100, rampValues(100, 0.5, 22))

	out, err := p.Project(models.TradeRequest{Quantity: 10}, ens)
	require.NoError(t, err)

	assert.Contains(t, out, "1week")
	assert.Contains(t, out, "2week")
	assert.Contains(t, out, "1month")
	assert.NotContains(t, out, "3month")
	assert.NotContains(t, out, "5month")

	// the 1month bucket is the final point
	assert.True(t, out["1month"].PredictedPrice.Equal(decimal.NewFromFloat(111.0)),
		"predicted = %s", out["1month"].PredictedPrice)
}

func TestProjectShortHistoryStillIncludesFinalPoint(t *testing.T) {
	p := NewProfitProjector(NewTaxEngine(DefaultRateSchedule()))
	// degraded run: only 8 forecast points
	ens := makeEnsemble("5month", 100, rampValues(100, 1, 8))

	out, err := p.Project(models.TradeRequest{Quantity: 10}, ens)
	require.NoError(t, err)

	assert.Contains(t, out, "1week")
	assert.Contains(t, out, "5month", "final point reported under the request period's label")
	assert.NotContains(t, out, "2week")
	assert.True(t, out["5month"].PredictedPrice.Equal(decimal.NewFromFloat(108.0)))
}

func TestProjectMoneyMath(t *testing.T) {
	engine := NewTaxEngine(DefaultRateSchedule())
	p := NewProfitProjector(engine)
	ens := makeEnsemble("1month", 100, rampValues(100, 1, 22))

	out, err := p.Project(models.TradeRequest{Quantity: 10, IsShortTerm: false}, ens)
	require.NoError(t, err)

	proj := out["1week"]
	// predicted at offset 5 = 105
	assert.True(t, proj.PredictedPrice.Equal(dec("105")))
	assert.True(t, proj.Investment.Equal(dec("1000")))
	assert.True(t, proj.ExpectedReturn.Equal(dec("50")))

	entry, err := engine.Compute(models.TradeRequest{
		TransactionType: models.TransactionBuy, Quantity: 10, Price: 100,
	})
	require.NoError(t, err)
	exit, err := engine.Compute(models.TradeRequest{
		TransactionType: models.TransactionSell, Quantity: 10, Price: 105,
	})
	require.NoError(t, err)

	wantTax := entry.TotalTax.Add(exit.TotalTax)
	assert.True(t, proj.EstimatedTax.Equal(wantTax), "tax %s != %s", proj.EstimatedTax, wantTax)
	assert.True(t, proj.NetProfit.Equal(proj.ExpectedReturn.Sub(proj.EstimatedTax)))
}

func TestProjectRejectsInvalidInput(t *testing.T) {
	p := NewProfitProjector(NewTaxEngine(DefaultRateSchedule()))

	_, err := p.Project(models.TradeRequest{Quantity: 0}, makeEnsemble("1month", 100, rampValues(100, 1, 22)))
	assert.True(t, errors.Is(err, models.ErrInvalidTradeRequest))

	_, err = p.Project(models.TradeRequest{Quantity: 10}, nil)
	assert.True(t, errors.Is(err, models.ErrInvalidTradeRequest))

	_, err = p.Project(models.TradeRequest{Quantity: 10}, makeEnsemble("1month", 0, rampValues(100, 1, 22)))
	assert.True(t, errors.Is(err, models.ErrInvalidTradeRequest))
}
