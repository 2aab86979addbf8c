package repository

import (
	"context"

	"apexlob/internal/alpha"
	"apexlob/internal/domain/models"
)

// MarketStream is a source of decoded trade events: the live exchange
// WebSocket in production, a Kafka tape replay in backfill mode.
type MarketStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Trade, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// TapeSink archives the raw trade tape to a durable backend.
type TapeSink interface {
	Store(ctx context.Context, t *models.Trade) error
	Close() error
}

// SignalPublisher delivers emitted signals to external consumers.
type SignalPublisher interface {
	PublishSignal(ctx context.Context, symbol string, sig alpha.Signal) error
	Close() error
}

// Metrics is the observability port the ingestion path records into.
type Metrics interface {
	RecordMessage(symbol string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
	RecordSignal(symbol string, score int)
}
