package replay

import (
	"context"
	"encoding/json"
	"fmt"

	"apexlob/internal/domain/models"
	drepo "apexlob/internal/domain/repository"
	pkgkafka "apexlob/pkg/kafka"
	applogger "apexlob/pkg/logger"
)

// Stream implements MarketStream over an archived trade tape in Kafka. It
// lets the ingestion path run unchanged against recorded data, preserving
// the tape's arrival order.
type Stream struct {
	brokers []string
	topic   string
	group   string
	logger  *applogger.Logger

	consumer  *pkgkafka.Consumer
	connected bool
}

// New creates a Kafka tape-replay MarketStream.
func New(brokers []string, topic, group string, logger *applogger.Logger) drepo.MarketStream {
	return &Stream{brokers: brokers, topic: topic, group: group, logger: logger}
}

// Connect opens the Kafka reader.
func (s *Stream) Connect(ctx context.Context) error {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(s.brokers),
		pkgkafka.WithConsumerTopic(s.topic),
		pkgkafka.WithConsumerGroupID(s.group),
	)
	if err != nil {
		return fmt.Errorf("replay connect: %w", err)
	}
	s.consumer = consumer
	s.connected = true
	s.logger.Info("replay: reading tape", applogger.String("topic", s.topic))
	return nil
}

// Subscribe is a no-op; the topic is fixed at construction.
func (s *Stream) Subscribe(ctx context.Context) error {
	if !s.connected {
		return fmt.Errorf("replay not connected")
	}
	return nil
}

// Read streams archived trades in tape order.
func (s *Stream) Read(ctx context.Context) (<-chan *models.Trade, <-chan error) {
	trades := make(chan *models.Trade, 1024)
	errs := make(chan error, 1)

	frames, readErrs := s.consumer.Messages(ctx)

	go func() {
		defer close(trades)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-readErrs:
				if !ok {
					return
				}
				if err != nil {
					errs <- err
					return
				}
			case b, ok := <-frames:
				if !ok {
					return
				}
				var t models.Trade
				if err := json.Unmarshal(b, &t); err != nil {
					s.logger.Warn("replay: dropping malformed record", applogger.Error(err))
					continue
				}
				select {
				case trades <- &t:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return trades, errs
}

// Reconnect recreates the reader. Offsets are tracked by the consumer
// group, so the replay resumes where it left off.
func (s *Stream) Reconnect(ctx context.Context) error {
	_ = s.Close()
	return s.Connect(ctx)
}

// Close closes the Kafka reader.
func (s *Stream) Close() error {
	s.connected = false
	if s.consumer != nil {
		return s.consumer.Close()
	}
	return nil
}

// IsConnected indicates status.
func (s *Stream) IsConnected() bool { return s.connected }
