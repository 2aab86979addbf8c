package di

import (
	"context"
	"fmt"
	"time"

	"apexlob/internal/alpha"
	"apexlob/internal/book"
	"apexlob/internal/domain/repository"
	"apexlob/internal/handler/api"
	mid "apexlob/internal/middleware"
	internalrepo "apexlob/internal/repository"
	"apexlob/internal/service/binance"
	"apexlob/internal/service/replay"
	"apexlob/internal/usecase"
	pkgch "apexlob/pkg/clickhouse"
	"apexlob/pkg/config"
	pkgkafka "apexlob/pkg/kafka"
	applogger "apexlob/pkg/logger"
	"apexlob/pkg/metrics"
	"apexlob/pkg/server"

	"github.com/redis/go-redis/v9"
)

// ProvideLogger creates the application logger with a bounded collector for
// the /api/logs endpoint.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.WithCollector(applogger.NewCollector(200)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideOrderBook creates the matching engine.
func ProvideOrderBook() *book.OrderBook {
	return book.New()
}

// ProvideSignalEngine creates the alpha engine from the configured periods.
func ProvideSignalEngine(cfg *config.Config) *alpha.Engine {
	return alpha.NewEngine(alpha.Config{
		ShortMAPeriod:    cfg.Signal.ShortMAPeriod,
		LongMAPeriod:     cfg.Signal.LongMAPeriod,
		RSIPeriod:        cfg.Signal.RSIPeriod,
		MomentumPeriod:   cfg.Signal.MomentumPeriod,
		VolatilityPeriod: cfg.Signal.VolatilityPeriod,
		MaxHistory:       cfg.Signal.MaxHistory,
	})
}

// ProvideObserver wraps the engine in a signal-change observer.
func ProvideObserver(engine *alpha.Engine) *alpha.Observer {
	return alpha.NewObserver(engine)
}

// ProvideMarketStream creates the configured trade source.
func ProvideMarketStream(cfg *config.Config, l *applogger.Logger) repository.MarketStream {
	if cfg.Feed.Source == "replay" {
		return replay.New(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.Replay.GroupID, l)
	}
	return binance.New(
		cfg.Feed.WebSocketURL,
		cfg.Feed.Symbol,
		cfg.Feed.ReconnectDelay,
		cfg.Feed.PingInterval,
		l,
	)
}

// ProvideTapeSink creates the configured tape archive, nil when disabled.
func ProvideTapeSink(cfg *config.Config) (repository.TapeSink, error) {
	switch cfg.Tape.Backend {
	case "kafka":
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
		return internalrepo.NewKafkaTapeSink(producer, cfg.Kafka.Topic), nil

	case "clickhouse":
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

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		table := cfg.ClickHouse.Database + ".trades"
		if err := client.InitSchema(ctx, []string{
			"CREATE DATABASE IF NOT EXISTS " + cfg.ClickHouse.Database,
			"CREATE TABLE IF NOT EXISTS " + table +
				" (ts DateTime64(3), symbol String, trade_id UInt64, price Float64, quantity Float64, buyer_maker Bool)" +
				" ENGINE=MergeTree ORDER BY (symbol, ts)",
		}); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("clickhouse schema: %w", err)
		}
		return internalrepo.NewClickHouseTapeSink(client.DB(), table), nil

	default:
		return nil, nil
	}
}

// ProvideSignalBus creates the Redis signal publisher, nil when disabled.
func ProvideSignalBus(cfg *config.Config) repository.SignalPublisher {
	if !cfg.Redis.Enabled {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return internalrepo.NewRedisSignalBus(rdb, cfg.Redis.Channel)
}

// ProvideTickProcessor creates the ingestion adapter.
func ProvideTickProcessor(
	ob *book.OrderBook,
	observer *alpha.Observer,
	l *applogger.Logger,
	m repository.Metrics,
	tape repository.TapeSink,
	signals repository.SignalPublisher,
) *usecase.TickProcessor {
	return usecase.NewTickProcessor(ob, observer, l, m, tape, signals)
}

// ProvideTradeCollector creates the collector with the realtime pipeline in
// front of the processor.
func ProvideTradeCollector(
	stream repository.MarketStream,
	processor *usecase.TickProcessor,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.TradeCollector {
	pipe := mid.NewRealtimePipeline(processor, m,
		mid.WithBufferSize(cfg.Pipeline.BufferSize),
	)
	return usecase.NewTradeCollector(stream, processor, m, pipe)
}

// ProvideStatusHandler creates the Echo status handler.
func ProvideStatusHandler(l *applogger.Logger, collector *usecase.TradeCollector, cfg *config.Config) *api.StatusEchoHandler {
	return api.NewStatusEchoHandler(l, collector, cfg.Feed.Symbol, cfg.Environment)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	collector *usecase.TradeCollector,
	handler *api.StatusEchoHandler,
) *server.App {
	return server.New(cfg, l, collector, handler)
}
