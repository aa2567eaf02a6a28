package forecast

import (
	"context"
	"math"

	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/domain/models"
)

const (
	arimaMinRows  = 12
	arimaLongAR   = 8
	arimaParamCap = 2.0
)

// ArimaForecaster fits ARIMA(1,1,1) on closes: first difference, long-AR
// residual proxy, then iterated least squares refinement of the AR and MA
// coefficients.
type ArimaForecaster struct {
	maxIter int
	tol     float64
}

// NewArimaForecaster creates the autoregressive model.
func NewArimaForecaster(maxIter int, tol float64) *ArimaForecaster {
	if maxIter <= 0 {
		maxIter = 50
	}
	if tol <= 0 {
		tol = 1e-6
	}
	return &ArimaForecaster{maxIter: maxIter, tol: tol}
}

func (f *ArimaForecaster) Name() string { return models.ModelArima }

func (f *ArimaForecaster) Forecast(ctx context.Context, series *models.PriceSeries, horizon int) (models.ForecastResult, error) {
	if err := ctx.Err(); err != nil {
		return models.ForecastResult{}, err
	}

	closes := series.Closes()
	n := len(closes)
	if n < arimaMinRows {
		return models.ForecastResult{}, models.NewKindError(models.ErrInsufficientHistory,
			"arima needs %d rows, got %d", arimaMinRows, n)
	}

	d := diff(closes)
	lastClose := closes[n-1]

	// a flat differenced series is drift-only, nothing to estimate
	if variance(d) < 1e-12 {
		drift := mean(d)
		values := make([]float64, horizon)
		price := lastClose
		for k := 0; k < horizon; k++ {
			price += drift
			values[k] = price
		}
		return models.ForecastResult{
			Model:       models.ModelArima,
			Values:      values,
			Diagnostics: models.FitDiagnostics{SampleSize: n},
		}, nil
	}

	resid := longARResiduals(d)

	var c, phi, theta float64
	converged := false
	iters := 0

	for iter := 0; iter < f.maxIter; iter++ {
		if err := ctx.Err(); err != nil {
			return models.ForecastResult{}, err
		}
		iters = iter + 1

		nc, nphi, ntheta, ok := regressARMA(d, resid)
		if !ok || math.IsNaN(nphi) || math.IsNaN(ntheta) ||
			math.Abs(nphi) > arimaParamCap || math.Abs(ntheta) > arimaParamCap {
			return models.ForecastResult{}, models.NewKindError(models.ErrModelNonConvergent,
				"arima parameters diverged after %d iterations", iters)
		}

		delta := math.Abs(nphi-phi) + math.Abs(ntheta-theta)
		c, phi, theta = nc, nphi, ntheta
		resid = recomputeResiduals(d, c, phi, theta)

		if delta < f.tol {
			converged = true
			break
		}
	}

	if !converged {
		return models.ForecastResult{}, models.NewKindError(models.ErrModelNonConvergent,
			"arima did not stabilize within %d iterations", f.maxIter)
	}

	values := make([]float64, horizon)
	dPrev := d[len(d)-1]
	ePrev := resid[len(resid)-1]
	price := lastClose
	for k := 0; k < horizon; k++ {
		dHat := c + phi*dPrev + theta*ePrev
		price += dHat
		values[k] = price
		dPrev = dHat
		ePrev = 0
	}

	return models.ForecastResult{
		Model:  models.ModelArima,
		Values: values,
		Diagnostics: models.FitDiagnostics{
			SampleSize: n,
			Iterations: iters,
			RMSE:       residRMSE(resid),
		},
	}, nil
}

// longARResiduals fits a long autoregression on the differenced series and
// returns its residuals as the initial innovation proxy.
func longARResiduals(d []float64) []float64 {
	m := len(d)
	p := arimaLongAR
	if p > m/3 {
		p = m / 3
	}
	if p < 1 {
		p = 1
	}

	rows := m - p
	cols := p + 1 // intercept + lags
	x := make([][]float64, rows)
	y := make([]float64, rows)
	for t := p; t < m; t++ {
		row := make([]float64, cols)
		row[0] = 1
		for j := 1; j <= p; j++ {
			row[j] = d[t-j]
		}
		x[t-p] = row
		y[t-p] = d[t]
	}

	beta, ok := olsSolve(x, y)
	resid := make([]float64, m)
	if !ok {
		md := mean(d)
		for t := range d {
			resid[t] = d[t] - md
		}
		return resid
	}

	for t := p; t < m; t++ {
		pred := beta[0]
		for j := 1; j <= p; j++ {
			pred += beta[j] * d[t-j]
		}
		resid[t] = d[t] - pred
	}
	return resid
}

// regressARMA solves d_t = c + phi*d_{t-1} + theta*e_{t-1} by OLS.
func regressARMA(d, resid []float64) (c, phi, theta float64, ok bool) {
	m := len(d)
	rows := m - 1
	if rows < 3 {
		return 0, 0, 0, false
	}

	x := make([][]float64, rows)
	y := make([]float64, rows)
	for t := 1; t < m; t++ {
		x[t-1] = []float64{1, d[t-1], resid[t-1]}
		y[t-1] = d[t]
	}

	beta, solved := olsSolve(x, y)
	if !solved {
		return 0, 0, 0, false
	}
	return beta[0], beta[1], beta[2], true
}

func recomputeResiduals(d []float64, c, phi, theta float64) []float64 {
	resid := make([]float64, len(d))
	for t := 1; t < len(d); t++ {
		resid[t] = d[t] - c - phi*d[t-1] - theta*resid[t-1]
	}
	return resid
}

func residRMSE(resid []float64) float64 {
	if len(resid) <= 1 {
		return 0
	}
	var sq float64
	for _, e := range resid[1:] {
		sq += e * e
	}
	return math.Sqrt(sq / float64(len(resid)-1))
}

func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	var sq float64
	for _, v := range values {
		d := v - m
		sq += d * d
	}
	return sq / float64(len(values))
}

// olsSolve solves the normal equations X'X b = X'y with Gaussian elimination.
func olsSolve(x [][]float64, y []float64) ([]float64, bool) {
	if len(x) == 0 {
		return nil, false
	}
	cols := len(x[0])

	xtx := make([][]float64, cols)
	xty := make([]float64, cols)
	for i := 0; i < cols; i++ {
		xtx[i] = make([]float64, cols)
	}
	for r, row := range x {
		for i := 0; i < cols; i++ {
			xty[i] += row[i] * y[r]
			for j := 0; j < cols; j++ {
				xtx[i][j] += row[i] * row[j]
			}
		}
	}

	return solveLinear(xtx, xty)
}

// solveLinear solves a*b = v in place with partial pivoting.
func solveLinear(a [][]float64, v []float64) ([]float64, bool) {
	n := len(a)
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return nil, false
		}
		a[col], a[pivot] = a[pivot], a[col]
		v[col], v[pivot] = v[pivot], v[col]

		for r := col + 1; r < n; r++ {
			f := a[r][col] / a[col][col]
			for cc := col; cc < n; cc++ {
				a[r][cc] -= f * a[col][cc]
			}
			v[r] -= f * v[col]
		}
	}

	out := make([]float64, n)
	for r := n - 1; r >= 0; r-- {
		sum := v[r]
		for cc := r + 1; cc < n; cc++ {
			sum -= a[r][cc] * out[cc]
		}
		out[r] = sum / a[r][r]
	}
	return out, true
}
