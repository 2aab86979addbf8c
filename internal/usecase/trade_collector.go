package usecase

import (
	"context"

	"apexlob/internal/domain/models"
	drepo "apexlob/internal/domain/repository"
	mid "apexlob/internal/middleware"
)

// TradeCollector drains the market stream and hands each trade to the
// realtime pipeline (or straight to the processor when no pipeline is
// configured).
type TradeCollector struct {
	stream  drepo.MarketStream
	proc    *TickProcessor
	metrics drepo.Metrics
	pipe    *mid.RealtimePipeline
}

// NewTradeCollector creates a new TradeCollector instance.
func NewTradeCollector(stream drepo.MarketStream, proc *TickProcessor, metrics drepo.Metrics, pipe *mid.RealtimePipeline) *TradeCollector {
	return &TradeCollector{stream: stream, proc: proc, metrics: metrics, pipe: pipe}
}

// IsConnected returns true if the market stream is connected.
func (c *TradeCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *TradeCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	trCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, trCh, errCh)
	return nil
}

func (c *TradeCollector) consume(ctx context.Context, trCh <-chan *models.Trade, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			if err != nil {
				c.metrics.RecordError("stream")
				if c.stream.Reconnect(ctx) == nil {
					trCh, errCh = c.stream.Read(ctx)
				}
			}
		case t := <-trCh:
			if t == nil {
				continue
			}
			if c.pipe != nil {
				_ = c.pipe.Process(ctx, t)
			} else {
				_ = c.proc.Process(ctx, t)
			}
		}
	}
}

// Processor returns the underlying TickProcessor for lifecycle management.
func (c *TradeCollector) Processor() *TickProcessor { return c.proc }

// Shutdown closes the market stream.
func (c *TradeCollector) Shutdown(ctx context.Context) error {
	return c.stream.Close()
}
