package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Consumer wraps a single Kafka reader. Unlike a worker-pool consumer it
// delivers messages strictly in partition order, which the tape replay
// depends on.
type Consumer struct {
	cfg    *ConsumerConfig
	reader *kafka.Reader
}

// NewConsumer creates a new ordered Kafka consumer.
func NewConsumer(opts ...ConsumerOption) (*Consumer, error) {
	cfg := &ConsumerConfig{
		GroupID:     "default",
		StartOffset: kafka.FirstOffset,
		MinBytes:    1,
		MaxBytes:    10e6,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("brokers are required")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("topic is required")
	}

	rc := kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		MinBytes: cfg.MinBytes,
		MaxBytes: cfg.MaxBytes,
	}
	if cfg.GroupID != "" {
		rc.GroupID = cfg.GroupID
	} else {
		rc.StartOffset = cfg.StartOffset
	}

	return &Consumer{cfg: cfg, reader: kafka.NewReader(rc)}, nil
}

// Topic returns the topic this consumer reads.
func (c *Consumer) Topic() string { return c.cfg.Topic }

// Messages reads frames into a channel until the context is cancelled. Read
// errors other than context cancellation are surfaced on the error channel
// and end the stream.
func (c *Consumer) Messages(ctx context.Context) (<-chan []byte, <-chan error) {
	out := make(chan []byte, 256)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)
		for {
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
					errs <- fmt.Errorf("kafka read: %w", err)
				}
				return
			}
			select {
			case out <- msg.Value:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, errs
}

// Close closes the underlying reader.
func (c *Consumer) Close() error {
	if c.reader != nil {
		return c.reader.Close()
	}
	return nil
}

// Lag reports the reader's current lag; useful for replay progress checks.
func (c *Consumer) Lag(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return c.reader.ReadLag(ctx)
}
