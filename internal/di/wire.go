//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"MarketPulse/pkg/config"
	"MarketPulse/pkg/server"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation in wire_gen.go.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Providers and aggregation
		ProvideFetchers,
		ProvideFreshness,
		ProvideAggregator,

		// Report pipeline
		ProvideBuilder,
		ProvideEnhancer,

		// Infrastructure
		ProvideHub,
		ProvideRedisCache,
		ProvideRenderedCache,
		ProvideClickHouseClient,
		ProvideReportStore,
		ProvideKafkaProducer,
		ProvidePublisher,
		ProvideKafkaConsumer,
		ProvideJobQueue,

		// Use cases
		ProvideReportUsecase,
		ProvideMarketUsecase,

		// HTTP surface
		ProvideRouter,
		ProvideHTTPServer,

		ProvideApp,
	)
	return nil, nil
}
