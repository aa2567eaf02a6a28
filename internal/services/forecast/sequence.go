package forecast

import (
	"context"
	"math"
	"math/rand"

	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/domain/models"
)

const (
	sequenceMaxWindow   = 60
	sequenceWindowFloor = 5
	sequenceSeed        = 7
)

// SequenceForecaster is a small dense sequence regressor over min-max
// normalized closes. It trains with seeded deterministic SGD and decodes the
// horizon autoregressively, feeding each prediction back into its window.
type SequenceForecaster struct {
	epochs      int
	learnRate   float64
	hiddenUnits int
}

// NewSequenceForecaster creates the sequence-learning model.
func NewSequenceForecaster(epochs int, learnRate float64, hiddenUnits int) *SequenceForecaster {
	if epochs <= 0 {
		epochs = 200
	}
	if learnRate <= 0 {
		learnRate = 0.05
	}
	if hiddenUnits <= 0 {
		hiddenUnits = 8
	}
	return &SequenceForecaster{epochs: epochs, learnRate: learnRate, hiddenUnits: hiddenUnits}
}

func (f *SequenceForecaster) Name() string { return models.ModelSequence }

func (f *SequenceForecaster) Forecast(ctx context.Context, series *models.PriceSeries, horizon int) (models.ForecastResult, error) {
	if err := ctx.Err(); err != nil {
		return models.ForecastResult{}, err
	}

	closes := series.Closes()
	n := len(closes)
	if n < sequenceWindowFloor+1 {
		return models.ForecastResult{}, models.NewKindError(models.ErrInsufficientHistory,
			"sequence model needs %d rows, got %d", sequenceWindowFloor+1, n)
	}

	// window scales down with short history but never below the floor
	window := sequenceMaxWindow
	if half := n / 2; half < window {
		window = half
	}
	if window < sequenceWindowFloor {
		window = sequenceWindowFloor
	}

	lo, hi := closes[0], closes[0]
	for _, v := range closes {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	// flat series has nothing to learn
	if hi-lo < 1e-12 {
		values := make([]float64, horizon)
		for k := range values {
			values[k] = closes[n-1]
		}
		return models.ForecastResult{
			Model:       models.ModelSequence,
			Values:      values,
			Diagnostics: models.FitDiagnostics{SampleSize: n},
		}, nil
	}

	scaled := make([]float64, n)
	for i, v := range closes {
		scaled[i] = (v - lo) / (hi - lo)
	}

	net := newDenseNet(window, f.hiddenUnits, sequenceSeed)
	samples := n - window

	for epoch := 0; epoch < f.epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return models.ForecastResult{}, err
		}
		for i := 0; i < samples; i++ {
			net.train(scaled[i:i+window], scaled[i+window], f.learnRate)
		}
	}

	fitted := make([]float64, samples)
	actual := make([]float64, samples)
	for i := 0; i < samples; i++ {
		fitted[i] = lo + net.predict(scaled[i:i+window])*(hi-lo)
		actual[i] = closes[i+window]
	}

	values := make([]float64, horizon)
	buf := append([]float64(nil), scaled[n-window:]...)
	for k := 0; k < horizon; k++ {
		p := net.predict(buf)
		values[k] = lo + p*(hi-lo)
		buf = append(buf[1:], p)
	}

	return models.ForecastResult{
		Model:  models.ModelSequence,
		Values: values,
		Diagnostics: models.FitDiagnostics{
			SampleSize: n,
			Epochs:     f.epochs,
			RMSE:       rmse(actual, fitted),
		},
	}, nil
}

// denseNet is a one-hidden-layer regressor: tanh hidden units, linear output.
type denseNet struct {
	inSize int
	hidden int
	w1     [][]float64
	b1     []float64
	w2     []float64
	b2     float64
	hElem  []float64 // scratch: hidden activations
}

func newDenseNet(inSize, hidden int, seed int64) *denseNet {
	rng := rand.New(rand.NewSource(seed))
	scale := 1.0 / math.Sqrt(float64(inSize))

	net := &denseNet{
		inSize: inSize,
		hidden: hidden,
		w1:     make([][]float64, hidden),
		b1:     make([]float64, hidden),
		w2:     make([]float64, hidden),
		hElem:  make([]float64, hidden),
	}
	for h := 0; h < hidden; h++ {
		net.w1[h] = make([]float64, inSize)
		for i := 0; i < inSize; i++ {
			net.w1[h][i] = (rng.Float64()*2 - 1) * scale
		}
		net.w2[h] = (rng.Float64()*2 - 1) * scale
	}
	return net
}

func (n *denseNet) forward(x []float64) float64 {
	out := n.b2
	for h := 0; h < n.hidden; h++ {
		sum := n.b1[h]
		w := n.w1[h]
		for i := 0; i < n.inSize; i++ {
			sum += w[i] * x[i]
		}
		n.hElem[h] = math.Tanh(sum)
		out += n.w2[h] * n.hElem[h]
	}
	return out
}

func (n *denseNet) predict(x []float64) float64 {
	return n.forward(x)
}

// train runs one SGD step on a single (window, target) pair with squared
// error loss.
func (n *denseNet) train(x []float64, target, lr float64) {
	out := n.forward(x)
	grad := out - target // d(0.5*err^2)/d(out)

	n.b2 -= lr * grad
	for h := 0; h < n.hidden; h++ {
		act := n.hElem[h]
		gw2 := grad * act
		gh := grad * n.w2[h] * (1 - act*act)

		n.w2[h] -= lr * gw2
		n.b1[h] -= lr * gh
		w := n.w1[h]
		for i := 0; i < n.inSize; i++ {
			w[i] -= lr * gh * x[i]
		}
	}
}
