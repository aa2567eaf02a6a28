//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/pkg/config"
	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/pkg/server"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient infrastructure
		ProvideLogger,
		ProvideMetrics,
		ProvideCacheBackend,
		ProvideForecastCache,

		// External market data
		ProvideSeriesProvider,
		ProvideQuoteStream,
		ProvideQuoteSource,

		// Storage and messaging
		ProvideClickHouseClient,
		ProvideSeriesStore,
		ProvideSnapshotStore,
		ProvideKafkaProducer,
		ProvidePublisher,

		// Forecast pipeline
		ProvideForecasters,
		ProvideForecasterPool,
		ProvidePredictionEngine,

		// Trading and snapshots
		ProvideTradingCalculator,
		ProvideSnapshotSaver,

		// HTTP surface and app
		ProvideHTTPHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
