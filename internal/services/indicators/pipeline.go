package indicators

import (
	"math"

	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/domain/models"
)

const (
	smaShortWindow  = 20
	smaLongWindow   = 50
	emaSpan         = 20
	rsiWindow       = 14
	macdFastSpan    = 12
	macdSlowSpan    = 26
	macdSignalSpan  = 9
	bollingerWindow = 20
	bollingerWidth  = 2.0
)

// Pipeline computes technical indicator columns from a price series.
type Pipeline struct{}

// NewPipeline creates an indicator pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// Compute derives all indicator columns aligned to the input series. The
// input is never mutated. Columns stay nil until their window has filled;
// exponential averages are seeded from the first close and defined from the
// first row.
func (p *Pipeline) Compute(series *models.PriceSeries) (*models.IndicatorFrame, error) {
	if series == nil || series.Len() < 2 {
		return nil, models.NewKindError(models.ErrInsufficientHistory,
			"need at least 2 rows to compute indicators, got %d", seriesLen(series))
	}

	closes := series.Closes()
	n := len(closes)

	frame := &models.IndicatorFrame{
		Symbol: series.Symbol,
		Dates:  series.Dates(),
		Close:  closes,
	}

	frame.SMA20 = rollingMean(closes, smaShortWindow)
	frame.SMA50 = rollingMean(closes, smaLongWindow)
	frame.EMA20 = toPtrs(ema(closes, emaSpan))
	frame.RSI14 = rsi(closes, rsiWindow)

	fast := ema(closes, macdFastSpan)
	slow := ema(closes, macdSlowSpan)
	macdLine := make([]float64, n)
	for i := 0; i < n; i++ {
		macdLine[i] = fast[i] - slow[i]
	}
	frame.MACD = toPtrs(macdLine)
	frame.MACDSignal = toPtrs(ema(macdLine, macdSignalSpan))

	mid := rollingMean(closes, bollingerWindow)
	sd := rollingStd(closes, bollingerWindow)
	frame.BollingerMid = mid
	frame.BollingerUpper = make([]*float64, n)
	frame.BollingerLower = make([]*float64, n)
	for i := 0; i < n; i++ {
		if mid[i] == nil || sd[i] == nil {
			continue
		}
		upper := *mid[i] + bollingerWidth**sd[i]
		lower := *mid[i] - bollingerWidth**sd[i]
		frame.BollingerUpper[i] = &upper
		frame.BollingerLower[i] = &lower
	}

	return frame, nil
}

// rollingMean computes a trailing arithmetic mean, nil until the window fills.
func rollingMean(values []float64, window int) []*float64 {
	out := make([]*float64, len(values))
	if window <= 0 || len(values) < window {
		return out
	}

	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			m := sum / float64(window)
			out[i] = &m
		}
	}
	return out
}

// rollingStd computes a trailing population standard deviation.
func rollingStd(values []float64, window int) []*float64 {
	out := make([]*float64, len(values))
	if window <= 0 || len(values) < window {
		return out
	}

	for i := window - 1; i < len(values); i++ {
		var sum float64
		for j := i - window + 1; j <= i; j++ {
			sum += values[j]
		}
		mean := sum / float64(window)

		var sq float64
		for j := i - window + 1; j <= i; j++ {
			d := values[j] - mean
			sq += d * d
		}
		sd := math.Sqrt(sq / float64(window))
		out[i] = &sd
	}
	return out
}

// ema computes an exponential moving average with smoothing 2/(span+1),
// seeded from the first value.
func ema(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	alpha := 2.0 / (float64(span) + 1.0)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// rsi computes the relative strength index over a simple rolling mean of
// gains and losses. A zero average loss yields 100.
func rsi(closes []float64, window int) []*float64 {
	n := len(closes)
	out := make([]*float64, n)
	if n <= window {
		return out
	}

	gains := make([]float64, n-1)
	losses := make([]float64, n-1)
	for i := 1; i < n; i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains[i-1] = delta
		} else {
			losses[i-1] = -delta
		}
	}

	for i := window; i < n; i++ {
		var gainSum, lossSum float64
		for j := i - window; j < i; j++ {
			gainSum += gains[j]
			lossSum += losses[j]
		}
		avgGain := gainSum / float64(window)
		avgLoss := lossSum / float64(window)

		var v float64
		if avgLoss == 0 {
			v = 100
		} else {
			rs := avgGain / avgLoss
			v = 100 - 100/(1+rs)
		}
		out[i] = &v
	}
	return out
}

func toPtrs(values []float64) []*float64 {
	out := make([]*float64, len(values))
	for i := range values {
		v := values[i]
		out[i] = &v
	}
	return out
}

func seriesLen(s *models.PriceSeries) int {
	if s == nil {
		return 0
	}
	return s.Len()
}
