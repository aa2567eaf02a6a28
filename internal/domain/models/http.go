package models

// Requests and responses for the HTTP endpoints. Defined in domain for
// consistency and reuse.

type PredictionRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,min=1,max=20"`
	Period string `query:"period" json:"period" default:"1month" validate:"oneof=1month 3month 5month"`
}

type SavePredictionRequest struct {
	Symbol           string                 `json:"symbol" validate:"required,min=1,max=20"`
	Period           string                 `json:"period" default:"1month" validate:"oneof=1month 3month 5month"`
	Recommendation   string                 `json:"recommendation" validate:"required,oneof=buy sell hold"`
	PredictionResult map[string]interface{} `json:"prediction_result" validate:"required"`
}

type TradeTaxRequest struct {
	Symbol          string  `json:"symbol" validate:"required,min=1,max=20"`
	TransactionType string  `json:"transaction_type" validate:"required,oneof=buy sell"`
	Quantity        int64   `json:"quantity" validate:"required,gt=0"`
	Price           float64 `json:"price" validate:"required,gt=0"`
	IsShortTerm     bool    `json:"is_short_term"`
}

type ProfitPotentialRequest struct {
	Symbol      string `json:"symbol" validate:"required,min=1,max=20"`
	Period      string `json:"period" default:"1month" validate:"oneof=1month 3month 5month"`
	Quantity    int64  `json:"quantity" validate:"required,gt=0"`
	IsShortTerm bool   `json:"is_short_term"`
}

// PredictionResponse is the full forecast payload for one symbol/period.
type PredictionResponse struct {
	Symbol            string               `json:"symbol"`
	Period            string               `json:"period"`
	CurrentPrice      float64              `json:"current_price"`
	HistoricalDates   []string             `json:"historical_dates"`
	HistoricalPrices  []float64            `json:"historical_prices"`
	PredictionDates   []string             `json:"prediction_dates"`
	Predictions       map[string][]float64 `json:"predictions"`
	ModelsUsed        []string             `json:"models_used"`
	ModelErrors       map[string]string    `json:"model_errors,omitempty"`
	Recommendation    string               `json:"recommendation"`
	Explanation       string               `json:"explanation"`
	ExpectedChangePct float64              `json:"expected_change_percent"`
}

// TaxBreakdownResponse itemizes charges, rounded to two decimals.
type TaxBreakdownResponse struct {
	TransactionValue float64 `json:"transaction_value"`
	STT              float64 `json:"stt"`
	ExchangeCharges  float64 `json:"exchange_charges"`
	GST              float64 `json:"gst"`
	SEBICharges      float64 `json:"sebi_charges"`
	StampDuty        float64 `json:"stamp_duty"`
	TotalTax         float64 `json:"total_tax"`
	NetAmount        float64 `json:"net_amount"`
}

// ProfitDetails is the money movement for one projection bucket.
type ProfitDetails struct {
	InvestmentAmount float64 `json:"investment_amount"`
	ExpectedReturn   float64 `json:"expected_return"`
	EstimatedTax     float64 `json:"estimated_tax"`
	NetProfit        float64 `json:"net_profit"`
}

// ProjectionResponse is one horizon bucket of the profit potential payload.
type ProjectionResponse struct {
	PredictedPrice   float64       `json:"predicted_price"`
	PriceChangePct   float64       `json:"price_change_percentage"`
	ProfitDetails    ProfitDetails `json:"profit_details"`
	PercentageReturn float64       `json:"percentage_return"`
}

// ProfitPotentialResponse maps horizon labels to projections.
type ProfitPotentialResponse struct {
	Symbol       string                        `json:"symbol"`
	CurrentPrice float64                       `json:"current_price"`
	Projections  map[string]ProjectionResponse `json:"projections"`
}

// StockListResponse enumerates supported symbols.
type StockListResponse struct {
	Symbols []string `json:"symbols"`
}
