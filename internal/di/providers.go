// Package di assembles the application object graph.
package di

import (
	"fmt"

	"github.com/labstack/echo/v4"

	domrepo "github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/domain/repository"
	domsvc "github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/domain/service"
	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/handler/api"
	internalrepo "github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/repository"
	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/service/alphavantage"
	fcache "github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/service/cache"
	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/service/quotes"
	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/services/ensemble"
	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/services/forecast"
	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/services/indicators"
	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/services/tradecost"
	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/usecase"
	pkgcache "github.com/ArunnathAR/stock-closing-price-prediction-web-app/pkg/cache"
	pkgch "github.com/ArunnathAR/stock-closing-price-prediction-web-app/pkg/clickhouse"
	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/pkg/config"
	xhttp "github.com/ArunnathAR/stock-closing-price-prediction-web-app/pkg/http"
	pkgkafka "github.com/ArunnathAR/stock-closing-price-prediction-web-app/pkg/kafka"
	applogger "github.com/ArunnathAR/stock-closing-price-prediction-web-app/pkg/logger"
	pkgmetrics "github.com/ArunnathAR/stock-closing-price-prediction-web-app/pkg/metrics"
	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	lc := &applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if lc.Level == "" {
		lc.Level = "info"
	}
	if lc.Format == "" {
		lc.Format = "console"
	}
	if lc.Output == "" {
		lc.Output = "stdout"
	}
	return applogger.New(lc)
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return pkgmetrics.New()
}

// ProvideCacheBackend creates the configured cache backend.
func ProvideCacheBackend(cfg *config.Config) (pkgcache.Service, error) {
	if cfg.Cache.Backend == "redis" {
		c, err := pkgcache.NewRedisCache(
			pkgcache.WithRedisHost(cfg.Cache.Redis.Host),
			pkgcache.WithRedisPort(cfg.Cache.Redis.Port),
			pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
			pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
			pkgcache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return c, nil
	}
	return pkgcache.NewMemoryCache(), nil
}

// ProvideForecastCache wraps the backend with forecast key semantics.
func ProvideForecastCache(cfg *config.Config, backend pkgcache.Service, m domrepo.Metrics) *fcache.ForecastCache {
	return fcache.NewForecastCache(backend, cfg.Cache.TTL, m)
}

// ProvideSeriesProvider creates the Alpha Vantage client.
func ProvideSeriesProvider(cfg *config.Config) domrepo.SeriesProvider {
	return alphavantage.New(cfg.Provider.APIKey,
		alphavantage.WithBaseURL(cfg.Provider.BaseURL),
		alphavantage.WithTimeout(cfg.Provider.Timeout),
		alphavantage.WithRetryBackoff(cfg.Provider.RetryBackoff),
		alphavantage.WithMaxPerMinute(cfg.Provider.MaxPerMinute),
	)
}

// ProvideClickHouseClient creates a ClickHouse client, or nil when the
// archive is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideSeriesStore creates the candle archive, or nil without ClickHouse.
func ProvideSeriesStore(chClient *pkgch.Client, l *applogger.Logger) domrepo.SeriesStore {
	if chClient == nil {
		return nil
	}
	return internalrepo.NewCHSeriesStore(chClient, l)
}

// ProvideSnapshotStore creates the snapshot store, or nil without ClickHouse.
func ProvideSnapshotStore(chClient *pkgch.Client, l *applogger.Logger) domrepo.SnapshotStore {
	if chClient == nil {
		return nil
	}
	return internalrepo.NewCHSnapshotStore(chClient, l)
}

// ProvideKafkaProducer creates a Kafka producer, or nil when disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvidePublisher creates the analysis event publisher, or nil.
func ProvidePublisher(producer *pkgkafka.Producer, cfg *config.Config) domrepo.Publisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
}

// ProvideQuoteStream creates the live quote stream, or nil when disabled.
func ProvideQuoteStream(cfg *config.Config, l *applogger.Logger, m domrepo.Metrics) *quotes.Stream {
	if !cfg.QuoteStream.Enabled {
		return nil
	}
	return quotes.New(
		cfg.QuoteStream.APIKey,
		cfg.QuoteStream.WebSocketURL,
		cfg.QuoteStream.Symbols,
		cfg.QuoteStream.ReconnectDelay,
		cfg.QuoteStream.PingInterval,
		l,
		m,
	)
}

// ProvideQuoteSource exposes the stream as a QuoteSource without handing
// the prediction engine a typed nil.
func ProvideQuoteSource(stream *quotes.Stream) domrepo.QuoteSource {
	if stream == nil {
		return nil
	}
	return stream
}

// ProvideForecasters builds the model set in ensemble order.
func ProvideForecasters(cfg *config.Config) []domsvc.Forecaster {
	return []domsvc.Forecaster{
		forecast.NewArimaForecaster(cfg.Forecast.Arima.MaxIterations, cfg.Forecast.Arima.Tolerance),
		forecast.NewSequenceForecaster(
			cfg.Forecast.Sequence.Epochs,
			cfg.Forecast.Sequence.LearningRate,
			cfg.Forecast.Sequence.HiddenUnits,
		),
		forecast.NewTrendForecaster(),
	}
}

// ProvideForecasterPool creates the concurrent model runner.
func ProvideForecasterPool(forecasters []domsvc.Forecaster, m domrepo.Metrics, l *applogger.Logger) *usecase.ForecasterPool {
	return usecase.NewForecasterPool(forecasters, m, l)
}

// ProvidePredictionEngine creates the core forecast orchestrator.
func ProvidePredictionEngine(
	cfg *config.Config,
	provider domrepo.SeriesProvider,
	archive domrepo.SeriesStore,
	quoteSource domrepo.QuoteSource,
	pool *usecase.ForecasterPool,
	cache *fcache.ForecastCache,
	publisher domrepo.Publisher,
	m domrepo.Metrics,
	l *applogger.Logger,
) *usecase.PredictionEngine {
	return usecase.NewPredictionEngine(usecase.PredictionEngineDeps{
		Provider:    provider,
		Archive:     archive,
		Quotes:      quoteSource,
		Pool:        pool,
		Pipeline:    indicators.NewPipeline(),
		Combiner:    ensemble.NewCombiner(),
		Recommender: ensemble.NewRecommender(cfg.Forecast.Recommendation.BuyThresholdPct),
		Cache:       cache,
		Publisher:   publisher,
		Metrics:     m,
		Log:         l,
		Freshness:   cfg.QuoteStream.Freshness,
	})
}

// ProvideTradingCalculator creates the tax and projection calculator.
func ProvideTradingCalculator(cfg *config.Config, engine *usecase.PredictionEngine) *usecase.TradingCalculator {
	taxEngine := tradecost.NewTaxEngine(tradecost.ScheduleFromConfig(tradecost.RateConfig{
		ExchangeRate:  cfg.Tax.ExchangeRate,
		SEBIRate:      cfg.Tax.SEBIRate,
		GSTRate:       cfg.Tax.GSTRate,
		StampDutyRate: cfg.Tax.StampDutyRate,
		BrokerageRate: cfg.Tax.BrokerageRate,
		STTBuyLong:    cfg.Tax.STT.BuyLong,
		STTSellLong:   cfg.Tax.STT.SellLong,
		STTBuyShort:   cfg.Tax.STT.BuyShort,
		STTSellShort:  cfg.Tax.STT.SellShort,
	}))
	return usecase.NewTradingCalculator(taxEngine, tradecost.NewProfitProjector(taxEngine), engine)
}

// ProvideSnapshotSaver creates the prediction snapshot use case.
func ProvideSnapshotSaver(store domrepo.SnapshotStore, publisher domrepo.Publisher, l *applogger.Logger) *usecase.SnapshotSaver {
	return usecase.NewSnapshotSaver(store, publisher, l)
}

// routes registers every API handler on one Echo instance.
type routes struct {
	handlers []xhttp.Handler
}

func (r routes) RegisterRoutes(e *echo.Echo) {
	for _, h := range r.handlers {
		h.RegisterRoutes(e)
	}
}

// ProvideHTTPHandler builds the route set.
func ProvideHTTPHandler(
	cfg *config.Config,
	l *applogger.Logger,
	engine *usecase.PredictionEngine,
	saver *usecase.SnapshotSaver,
	trading *usecase.TradingCalculator,
	archive domrepo.SeriesStore,
) xhttp.Handler {
	return routes{handlers: []xhttp.Handler{
		api.NewPredictionEchoHandler(l, engine, saver, trading, cfg.Provider.Symbols),
		api.NewHealthEchoHandler(archive),
	}}
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	stream *quotes.Stream,
	chClient *pkgch.Client,
	publisher domrepo.Publisher,
	cacheBackend pkgcache.Service,
	archive domrepo.SeriesStore,
	snapshots domrepo.SnapshotStore,
) *server.App {
	return server.New(cfg, l, handler, stream, chClient, publisher, cacheBackend, archive, snapshots)
}
