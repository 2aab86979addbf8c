package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"apexlob/internal/alpha"
	"apexlob/internal/domain/repository"

	"github.com/redis/go-redis/v9"
)

// RedisSignalBus publishes signal transitions over Redis Pub/Sub and keeps
// the latest snapshot under a per-symbol key so late subscribers can catch
// up without replaying the channel.
type RedisSignalBus struct {
	rdb     *redis.Client
	channel string
}

// NewRedisSignalBus creates a signal bus on the given Redis client.
func NewRedisSignalBus(rdb *redis.Client, channel string) repository.SignalPublisher {
	return &RedisSignalBus{rdb: rdb, channel: channel}
}

type signalEvent struct {
	Symbol string       `json:"symbol"`
	Signal alpha.Signal `json:"signal"`
}

func (b *RedisSignalBus) PublishSignal(ctx context.Context, symbol string, sig alpha.Signal) error {
	payload, err := json.Marshal(signalEvent{Symbol: symbol, Signal: sig})
	if err != nil {
		return fmt.Errorf("marshal signal: %w", err)
	}
	if err := b.rdb.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", b.channel, err)
	}
	if err := b.rdb.Set(ctx, b.latestKey(symbol), payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set latest: %w", err)
	}
	return nil
}

// Latest fetches the most recently published signal for a symbol. redis.Nil
// maps to (nil, nil) so callers can treat "nothing yet" as empty.
func (b *RedisSignalBus) Latest(ctx context.Context, symbol string) (*alpha.Signal, error) {
	raw, err := b.rdb.Get(ctx, b.latestKey(symbol)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get latest: %w", err)
	}
	var ev signalEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, fmt.Errorf("unmarshal latest: %w", err)
	}
	return &ev.Signal, nil
}

func (b *RedisSignalBus) latestKey(symbol string) string {
	return "apexlob:signal:latest:" + symbol
}

func (b *RedisSignalBus) Close() error {
	return b.rdb.Close()
}
