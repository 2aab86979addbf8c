//go:build wireinject
// +build wireinject

package di

import (
	"apexlob/pkg/config"
	"apexlob/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation in wire_gen.go.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Core engines
		ProvideOrderBook,
		ProvideSignalEngine,
		ProvideObserver,

		// Feed and sinks
		ProvideMarketStream,
		ProvideTapeSink,
		ProvideSignalBus,

		// Use cases
		ProvideTickProcessor,
		ProvideTradeCollector,

		// HTTP surface and application server
		ProvideStatusHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
