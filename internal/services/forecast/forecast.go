// Package forecast implements the closing-price forecasters. Each model
// consumes an immutable daily price series and produces one value per future
// trading day.
package forecast

import (
	"math"
	"time"

	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/pkg/util"
)

// ForecastDates returns the horizon's trading days, strictly increasing,
// starting with the first trading day after last.
func ForecastDates(last time.Time, horizon int) []time.Time {
	return util.TradingDays(last, horizon)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func diff(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	out := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		out[i-1] = values[i] - values[i-1]
	}
	return out
}

func rmse(actual, fitted []float64) float64 {
	n := len(actual)
	if n == 0 || n != len(fitted) {
		return 0
	}
	var sq float64
	for i := 0; i < n; i++ {
		d := actual[i] - fitted[i]
		sq += d * d
	}
	return math.Sqrt(sq / float64(n))
}

// olsLine fits y = intercept + slope*x over x = 0..len(y)-1.
func olsLine(y []float64) (intercept, slope float64) {
	n := float64(len(y))
	if n == 0 {
		return 0, 0
	}
	if n == 1 {
		return y[0], 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, v := range y {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return sumY / n, 0
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return intercept, slope
}
