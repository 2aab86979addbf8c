package repository

import (
	"context"
	"fmt"

	"apexlob/internal/domain/models"
	"apexlob/internal/domain/repository"
	pkgkafka "apexlob/pkg/kafka"
)

// KafkaTapeSink archives the raw trade tape to a Kafka topic, keyed by
// symbol so per-symbol ordering survives partitioning.
type KafkaTapeSink struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaTapeSink creates the Kafka tape archive.
func NewKafkaTapeSink(producer *pkgkafka.Producer, topic string) repository.TapeSink {
	return &KafkaTapeSink{producer: producer, topic: topic}
}

func (s *KafkaTapeSink) Store(ctx context.Context, t *models.Trade) error {
	if t == nil {
		return fmt.Errorf("trade is nil")
	}
	if err := s.producer.Publish(ctx, s.topic, []byte(t.Symbol), t); err != nil {
		return fmt.Errorf("publish trade: %w", err)
	}
	return nil
}

func (s *KafkaTapeSink) Close() error {
	return s.producer.Close()
}
