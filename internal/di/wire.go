//go:build wireinject
// +build wireinject

package di

import (
	"FxPulse/pkg/config"
	"FxPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideClock,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideBytesCache,
		ProvideRateStore,
		ProvideRatePublisher,
		ProvideNarrative,

		// Use cases
		ProvideRatesUseCase,
		ProvideAnalysisUseCase,
		ProvideReportUseCase,

		// Edges
		ProvideHandler,
		ProvideScheduler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
