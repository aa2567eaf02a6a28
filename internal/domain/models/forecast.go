package models

import "time"

// Model names as they appear on the wire.
const (
	ModelArima    = "arima"
	ModelSequence = "lstm"
	ModelTrend    = "prophet"
)

// FitDiagnostics describes how a model fit went.
type FitDiagnostics struct {
	SampleSize int     `json:"sample_size"`
	Iterations int     `json:"iterations,omitempty"`
	Epochs     int     `json:"epochs,omitempty"`
	RMSE       float64 `json:"rmse"`
}

// ForecastResult is a single model's horizon of predicted closing prices.
type ForecastResult struct {
	Model       string
	Values      []float64
	Diagnostics FitDiagnostics
}

// EnsembleForecast is the combined output of the forecaster pool.
type EnsembleForecast struct {
	Symbol       string
	Period       string
	AsOf         time.Time
	CurrentPrice float64
	Dates        []time.Time
	// PerModel holds each successful model's values keyed by model name.
	PerModel map[string][]float64
	// Failed holds failure reasons keyed by model name.
	Failed   map[string]string
	Ensemble []float64
	Horizon  int
}

// ModelsUsed returns successful model names in a stable order.
func (e *EnsembleForecast) ModelsUsed() []string {
	order := []string{ModelArima, ModelSequence, ModelTrend}
	out := make([]string, 0, len(e.PerModel))
	for _, name := range order {
		if _, ok := e.PerModel[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// FinalPrice returns the last ensemble point.
func (e *EnsembleForecast) FinalPrice() float64 {
	if len(e.Ensemble) == 0 {
		return 0
	}
	return e.Ensemble[len(e.Ensemble)-1]
}

// Recommendation actions.
const (
	ActionBuy  = "buy"
	ActionSell = "sell"
	ActionHold = "hold"
)

// Recommendation is the trading stance derived from an ensemble forecast.
type Recommendation struct {
	Action         string
	Confidence     string
	Explanation    string
	ExpectedChange float64 // percent, final ensemble point vs current price
	ShortTermPct   float64
	MediumTermPct  float64
	LongTermPct    float64
	Signals        []string
}
