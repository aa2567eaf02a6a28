package usecase

import (
	"context"
	"time"

	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/domain/models"
	domrepo "github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/domain/repository"
	fcache "github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/service/cache"
	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/services/ensemble"
	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/services/forecast"
	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/services/indicators"
	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/pkg/logger"
)

// PredictionResult is the full outcome of one forecast run. It is what the
// cache stores and what the handler maps to the wire.
type PredictionResult struct {
	Symbol         string                   `json:"symbol"`
	Period         string                   `json:"period"`
	AsOf           time.Time                `json:"as_of"`
	CurrentPrice   float64                  `json:"current_price"`
	Series         *models.PriceSeries      `json:"series"`
	Ensemble       *models.EnsembleForecast `json:"ensemble"`
	Recommendation models.Recommendation    `json:"recommendation"`
}

// PredictionEngine orchestrates data loading, the forecaster pool, the
// ensemble, and the recommendation for one symbol and period.
type PredictionEngine struct {
	provider    domrepo.SeriesProvider
	archive     domrepo.SeriesStore // optional fallback and write-through
	quotes      domrepo.QuoteSource // optional live stream
	pool        *ForecasterPool
	pipeline    *indicators.Pipeline
	combiner    *ensemble.Combiner
	recommender *ensemble.Recommender
	cache       *fcache.ForecastCache
	publisher   domrepo.Publisher // optional
	metrics     domrepo.Metrics
	log         *logger.Logger
	freshness   time.Duration
	now         func() time.Time
}

// PredictionEngineDeps bundles constructor dependencies.
type PredictionEngineDeps struct {
	Provider    domrepo.SeriesProvider
	Archive     domrepo.SeriesStore
	Quotes      domrepo.QuoteSource
	Pool        *ForecasterPool
	Pipeline    *indicators.Pipeline
	Combiner    *ensemble.Combiner
	Recommender *ensemble.Recommender
	Cache       *fcache.ForecastCache
	Publisher   domrepo.Publisher
	Metrics     domrepo.Metrics
	Log         *logger.Logger
	Freshness   time.Duration
}

// NewPredictionEngine creates the engine.
func NewPredictionEngine(deps PredictionEngineDeps) *PredictionEngine {
	freshness := deps.Freshness
	if freshness <= 0 {
		freshness = 30 * time.Second
	}
	return &PredictionEngine{
		provider:    deps.Provider,
		archive:     deps.Archive,
		quotes:      deps.Quotes,
		pool:        deps.Pool,
		pipeline:    deps.Pipeline,
		combiner:    deps.Combiner,
		recommender: deps.Recommender,
		cache:       deps.Cache,
		publisher:   deps.Publisher,
		metrics:     deps.Metrics,
		log:         deps.Log,
		freshness:   freshness,
		now:         time.Now,
	}
}

// Predict runs (or serves from cache) the full forecast for symbol/period.
// Identical requests on the same trading day return the first completed
// result.
func (e *PredictionEngine) Predict(ctx context.Context, symbol string, period domrepo.Period) (*PredictionResult, error) {
	start := time.Now()
	asOf := e.now()
	key := fcache.Key(symbol, string(period), asOf)

	var cached PredictionResult
	if ok, err := e.cache.Get(ctx, key, &cached); err != nil {
		e.logWarn("forecast cache read failed", symbol, err)
	} else if ok {
		return &cached, nil
	}

	series, err := e.loadSeries(ctx, symbol, period, asOf)
	if err != nil {
		e.recordFailure(symbol, period, err)
		return nil, err
	}

	currentPrice := e.currentPrice(ctx, symbol, series)

	frame, ferr := e.pipeline.Compute(series)
	if ferr != nil {
		// indicators degrade; the forecasters decide whether history suffices
		e.logWarn("indicator pipeline skipped", symbol, ferr)
		frame = nil
	}

	horizon := domrepo.HorizonFor(period)
	results, failed, err := e.pool.Run(ctx, series, horizon)
	if err != nil {
		return nil, err
	}

	last, _ := series.Last()
	dates := forecast.ForecastDates(last.Date, horizon)

	ens, err := e.combiner.Combine(ensemble.CombineInput{
		Symbol:       symbol,
		Period:       string(period),
		AsOf:         asOf,
		CurrentPrice: currentPrice,
		Dates:        dates,
		Results:      results,
		Failed:       failed,
	})
	if err != nil {
		e.recordFailure(symbol, period, err)
		return nil, err
	}

	rec := e.recommender.Recommend(ens, frame)

	result := &PredictionResult{
		Symbol:         symbol,
		Period:         string(period),
		AsOf:           asOf,
		CurrentPrice:   currentPrice,
		Series:         series,
		Ensemble:       ens,
		Recommendation: rec,
	}

	if err := e.cache.PutOnce(ctx, key, result); err != nil {
		e.logWarn("forecast cache write skipped", symbol, err)
	}

	e.publishForecast(ctx, result)

	if e.metrics != nil {
		e.metrics.RecordForecast(symbol, string(period), "ok")
		e.metrics.RecordLatency("predict", time.Since(start).Seconds())
	}
	return result, nil
}

// loadSeries fetches the lookback window from the provider, writing through
// to the archive; when the provider stays down the archive serves instead.
func (e *PredictionEngine) loadSeries(ctx context.Context, symbol string, period domrepo.Period, asOf time.Time) (*models.PriceSeries, error) {
	from := asOf.AddDate(0, 0, -domrepo.LookbackDaysFor(period))

	series, err := e.provider.DailySeries(ctx, symbol, from)
	if err != nil {
		if e.archive != nil {
			archived, aerr := e.archive.Query(ctx, symbol, from, asOf)
			if aerr == nil && archived != nil && archived.Len() > 0 {
				e.logWarn("provider unavailable, serving archived candles", symbol, err)
				return archived, nil
			}
		}
		return nil, err
	}

	if series == nil || series.Len() == 0 {
		return nil, models.NewKindError(models.ErrInsufficientHistory, "no data for symbol %s", symbol)
	}

	if e.archive != nil {
		if serr := e.archive.StoreBatch(ctx, series.Candles); serr != nil {
			e.logWarn("candle archive write failed", symbol, serr)
		}
	}

	return series, nil
}

// currentPrice prefers a fresh streamed price, then the REST quote, then the
// last archived close.
func (e *PredictionEngine) currentPrice(ctx context.Context, symbol string, series *models.PriceSeries) float64 {
	if e.quotes != nil {
		if price, at, ok := e.quotes.LastPrice(symbol); ok && e.now().Sub(at) <= e.freshness {
			e.recordPrice(symbol, price)
			return price
		}
	}

	if quote, err := e.provider.Quote(ctx, symbol); err == nil && quote != nil && quote.Price > 0 {
		e.recordPrice(symbol, quote.Price)
		return quote.Price
	} else if err != nil {
		e.logWarn("quote fetch failed, using last close", symbol, err)
	}

	last, _ := series.Last()
	e.recordPrice(symbol, last.Close)
	return last.Close
}

func (e *PredictionEngine) publishForecast(ctx context.Context, result *PredictionResult) {
	if e.publisher == nil {
		return
	}
	event := &domrepo.AnalysisEvent{
		Type:           "forecast",
		Symbol:         result.Symbol,
		Period:         result.Period,
		Recommendation: result.Recommendation.Action,
		ExpectedChange: result.Recommendation.ExpectedChange,
		ModelsUsed:     result.Ensemble.ModelsUsed(),
		At:             result.AsOf,
	}
	if err := e.publisher.PublishAnalysis(ctx, event); err != nil {
		e.logWarn("analysis event publish failed", result.Symbol, err)
	}
}

func (e *PredictionEngine) recordFailure(symbol string, period domrepo.Period, err error) {
	if e.metrics != nil {
		e.metrics.RecordForecast(symbol, string(period), "error")
		e.metrics.RecordError(errorKind(err))
	}
}

func (e *PredictionEngine) recordPrice(symbol string, price float64) {
	if e.metrics != nil && price > 0 {
		e.metrics.RecordLastPrice(symbol, price)
	}
}

func (e *PredictionEngine) logWarn(msg, symbol string, err error) {
	if e.log != nil {
		e.log.Warn(msg, logger.String("symbol", symbol), logger.Error(err))
	}
}
