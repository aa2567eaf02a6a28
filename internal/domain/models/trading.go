package models

import "github.com/shopspring/decimal"

// Transaction types.
const (
	TransactionBuy  = "buy"
	TransactionSell = "sell"
)

// Holding terms. Short term maps to intraday-style treatment, long term to
// delivery trades.
const (
	TermShort = "short"
	TermLong  = "long"
)

// TradeRequest describes a single trade leg to be costed.
type TradeRequest struct {
	Symbol          string
	TransactionType string
	Quantity        int64
	Price           float64
	IsShortTerm     bool
}

// Term returns the holding term implied by the request.
func (r *TradeRequest) Term() string {
	if r.IsShortTerm {
		return TermShort
	}
	return TermLong
}

// TaxBreakdown itemizes statutory charges on one trade leg. All amounts are
// exact decimals; rounding happens only when mapping to the HTTP DTO.
type TaxBreakdown struct {
	TransactionValue decimal.Decimal
	STT              decimal.Decimal
	ExchangeCharges  decimal.Decimal
	GST              decimal.Decimal
	SEBICharges      decimal.Decimal
	StampDuty        decimal.Decimal
	TotalTax         decimal.Decimal
	NetAmount        decimal.Decimal
}

// ProfitProjection is the expected outcome of holding a position until one
// forecast horizon bucket.
type ProfitProjection struct {
	Label            string
	PredictedPrice   decimal.Decimal
	PriceChangePct   decimal.Decimal
	Investment       decimal.Decimal
	ExpectedReturn   decimal.Decimal
	EstimatedTax     decimal.Decimal
	NetProfit        decimal.Decimal
	PercentageReturn decimal.Decimal
}
