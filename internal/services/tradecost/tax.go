// Package tradecost prices the statutory charges on Indian equity trades and
// projects profit outcomes against a forecast. All arithmetic is exact
// decimal; callers round only when mapping to transport DTOs.
package tradecost

import (
	"github.com/shopspring/decimal"

	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/domain/models"
)

// sttKey selects an STT rate by transaction leg and holding term.
type sttKey struct {
	TransactionType string
	Term            string
}

// RateSchedule is the explicit charge table. Every rate is data; the engine
// has no per-term conditionals.
type RateSchedule struct {
	STT       map[sttKey]decimal.Decimal
	Exchange  decimal.Decimal
	SEBI      decimal.Decimal
	GST       decimal.Decimal // applied to brokerage + exchange charge
	StampDuty decimal.Decimal // buy leg only
	Brokerage decimal.Decimal
}

// DefaultRateSchedule returns the NSE delivery/intraday defaults:
// STT 0.1% on both delivery legs, 0.025% on the intraday sell leg only,
// exchange 0.00325%, SEBI 0.0001%, GST 18%, stamp duty 0.015% on buys.
func DefaultRateSchedule() RateSchedule {
	return RateSchedule{
		STT: map[sttKey]decimal.Decimal{
			{models.TransactionBuy, models.TermLong}:   decimal.NewFromFloat(0.001),
			{models.TransactionSell, models.TermLong}:  decimal.NewFromFloat(0.001),
			{models.TransactionBuy, models.TermShort}:  decimal.Zero,
			{models.TransactionSell, models.TermShort}: decimal.NewFromFloat(0.00025),
		},
		Exchange:  decimal.NewFromFloat(0.0000325),
		SEBI:      decimal.NewFromFloat(0.000001),
		GST:       decimal.NewFromFloat(0.18),
		StampDuty: decimal.NewFromFloat(0.00015),
		Brokerage: decimal.Zero,
	}
}

// RateConfig carries schedule overrides from configuration.
type RateConfig struct {
	ExchangeRate  float64
	SEBIRate      float64
	GSTRate       float64
	StampDutyRate float64
	BrokerageRate float64
	STTBuyLong    float64
	STTSellLong   float64
	STTBuyShort   float64
	STTSellShort  float64
}

// ScheduleFromConfig builds a RateSchedule from configured float rates.
func ScheduleFromConfig(cfg RateConfig) RateSchedule {
	return RateSchedule{
		STT: map[sttKey]decimal.Decimal{
			{models.TransactionBuy, models.TermLong}:   decimal.NewFromFloat(cfg.STTBuyLong),
			{models.TransactionSell, models.TermLong}:  decimal.NewFromFloat(cfg.STTSellLong),
			{models.TransactionBuy, models.TermShort}:  decimal.NewFromFloat(cfg.STTBuyShort),
			{models.TransactionSell, models.TermShort}: decimal.NewFromFloat(cfg.STTSellShort),
		},
		Exchange:  decimal.NewFromFloat(cfg.ExchangeRate),
		SEBI:      decimal.NewFromFloat(cfg.SEBIRate),
		GST:       decimal.NewFromFloat(cfg.GSTRate),
		StampDuty: decimal.NewFromFloat(cfg.StampDutyRate),
		Brokerage: decimal.NewFromFloat(cfg.BrokerageRate),
	}
}

// TaxEngine computes the charge breakdown for one trade leg.
type TaxEngine struct {
	rates RateSchedule
}

// NewTaxEngine creates a tax engine over a rate schedule.
func NewTaxEngine(rates RateSchedule) *TaxEngine {
	return &TaxEngine{rates: rates}
}

// Compute itemizes charges on transaction_value = quantity * price. The
// request is validated before any arithmetic.
func (e *TaxEngine) Compute(req models.TradeRequest) (models.TaxBreakdown, error) {
	if err := validateTrade(req); err != nil {
		return models.TaxBreakdown{}, err
	}

	value := decimal.NewFromInt(req.Quantity).Mul(decimal.NewFromFloat(req.Price))

	stt := value.Mul(e.rates.STT[sttKey{req.TransactionType, req.Term()}])
	exchange := value.Mul(e.rates.Exchange)
	sebi := value.Mul(e.rates.SEBI)
	brokerage := value.Mul(e.rates.Brokerage)
	gst := brokerage.Add(exchange).Mul(e.rates.GST)

	stampDuty := decimal.Zero
	if req.TransactionType == models.TransactionBuy {
		stampDuty = value.Mul(e.rates.StampDuty)
	}

	total := stt.Add(exchange).Add(gst).Add(sebi).Add(stampDuty)

	net := value.Sub(total)
	if req.TransactionType == models.TransactionBuy {
		net = value.Add(total)
	}

	return models.TaxBreakdown{
		TransactionValue: value,
		STT:              stt,
		ExchangeCharges:  exchange,
		GST:              gst,
		SEBICharges:      sebi,
		StampDuty:        stampDuty,
		TotalTax:         total,
		NetAmount:        net,
	}, nil
}

func validateTrade(req models.TradeRequest) error {
	if req.Quantity <= 0 {
		return models.NewKindError(models.ErrInvalidTradeRequest,
			"quantity must be positive, got %d", req.Quantity)
	}
	if req.Price <= 0 {
		return models.NewKindError(models.ErrInvalidTradeRequest,
			"price must be positive, got %v", req.Price)
	}
	if req.TransactionType != models.TransactionBuy && req.TransactionType != models.TransactionSell {
		return models.NewKindError(models.ErrInvalidTradeRequest,
			"unknown transaction type %q", req.TransactionType)
	}
	return nil
}
