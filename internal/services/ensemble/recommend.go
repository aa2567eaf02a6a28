package ensemble

import (
	"fmt"
	"strings"

	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/domain/models"
)

const (
	shortTierPoints = 5
	rsiOverbought   = 70
	rsiOversold     = 30
)

// Confidence words.
const (
	ConfidenceHigh     = "high"
	ConfidenceModerate = "moderate"
	ConfidenceNeutral  = "neutral"
)

// Recommender turns an ensemble forecast plus indicator context into a
// buy/sell/hold stance.
type Recommender struct {
	thresholdPct float64
}

// NewRecommender creates a recommender. thresholdPct is the expected-change
// percentage beyond which a buy (or, mirrored, a sell) is issued.
func NewRecommender(thresholdPct float64) *Recommender {
	if thresholdPct <= 0 {
		thresholdPct = 3.0
	}
	return &Recommender{thresholdPct: thresholdPct}
}

// Recommend is a pure function of its inputs. frame may be nil when
// indicators were unavailable.
func (r *Recommender) Recommend(ens *models.EnsembleForecast, frame *models.IndicatorFrame) models.Recommendation {
	current := ens.CurrentPrice
	shortPct := pctChange(current, meanOf(ens.Ensemble, 0, shortTierPoints))
	mediumPct := pctChange(current, meanOf(ens.Ensemble, shortTierPoints, 2*shortTierPoints))
	longPct := pctChange(current, ens.FinalPrice())

	action := models.ActionHold
	switch {
	case longPct > r.thresholdPct:
		action = models.ActionBuy
	case longPct < -r.thresholdPct:
		action = models.ActionSell
	}

	confidence := ConfidenceNeutral
	if action != models.ActionHold {
		confidence = ConfidenceModerate
		if sameSide(action, shortPct, r.thresholdPct) && sameSide(action, mediumPct, r.thresholdPct) {
			confidence = ConfidenceHigh
		}
	}

	signals := r.collectSignals(ens, frame)

	return models.Recommendation{
		Action:         action,
		Confidence:     confidence,
		Explanation:    r.explain(action, confidence, shortPct, mediumPct, longPct, signals),
		ExpectedChange: longPct,
		ShortTermPct:   shortPct,
		MediumTermPct:  mediumPct,
		LongTermPct:    longPct,
		Signals:        signals,
	}
}

func (r *Recommender) collectSignals(ens *models.EnsembleForecast, frame *models.IndicatorFrame) []string {
	signals := make([]string, 0, 6)

	if frame != nil {
		if rsi, ok := frame.LastRSI(); ok {
			if rsi >= rsiOverbought {
				signals = append(signals, fmt.Sprintf("RSI %.1f indicates overbought conditions", rsi))
			} else if rsi <= rsiOversold {
				signals = append(signals, fmt.Sprintf("RSI %.1f indicates oversold conditions", rsi))
			}
		}
		if macd, sig, ok := frame.LastMACD(); ok {
			if macd > sig {
				signals = append(signals, "MACD is above its signal line (bullish)")
			} else if macd < sig {
				signals = append(signals, "MACD is below its signal line (bearish)")
			}
		}
	}

	for _, name := range ens.ModelsUsed() {
		values := ens.PerModel[name]
		final := values[len(values)-1]
		if final > ens.CurrentPrice {
			signals = append(signals, fmt.Sprintf("%s model is bullish", name))
		} else if final < ens.CurrentPrice {
			signals = append(signals, fmt.Sprintf("%s model is bearish", name))
		}
	}

	return signals
}

func (r *Recommender) explain(action, confidence string, shortPct, mediumPct, longPct float64, signals []string) string {
	var b strings.Builder

	switch action {
	case models.ActionBuy:
		fmt.Fprintf(&b, "Forecast suggests upside of %.2f%% over the period", longPct)
	case models.ActionSell:
		fmt.Fprintf(&b, "Forecast suggests downside of %.2f%% over the period", longPct)
	default:
		fmt.Fprintf(&b, "Forecast expects the price to move %.2f%%, inside the %.2f%% action threshold", longPct, r.thresholdPct)
	}
	fmt.Fprintf(&b, " (short term %+.2f%%, medium term %+.2f%%).", shortPct, mediumPct)

	if len(signals) > 0 {
		b.WriteString(" Signals: ")
		b.WriteString(strings.Join(signals, "; "))
		b.WriteString(".")
	}

	fmt.Fprintf(&b, " Confidence: %s.", confidence)
	return b.String()
}

// meanOf averages values[from:to) clamped to the slice bounds; an empty
// window falls back to the final value.
func meanOf(values []float64, from, to int) float64 {
	if len(values) == 0 {
		return 0
	}
	if to > len(values) {
		to = len(values)
	}
	if from >= to {
		return values[len(values)-1]
	}

	var sum float64
	for _, v := range values[from:to] {
		sum += v
	}
	return sum / float64(to-from)
}

func pctChange(current, predicted float64) float64 {
	if current == 0 {
		return 0
	}
	return (predicted - current) / current * 100
}

func sameSide(action string, pct, threshold float64) bool {
	if action == models.ActionBuy {
		return pct > threshold
	}
	return pct < -threshold
}
