package usecase

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"apexlob/internal/alpha"
	"apexlob/internal/book"
	"apexlob/internal/domain/models"
	drepo "apexlob/internal/domain/repository"
	applogger "apexlob/pkg/logger"
)

// QtyScale converts the feed's fractional quantities into the book's integer
// units: three decimal places of resolution.
const QtyScale = 1000

// TickProcessor is the ingestion adapter: it turns each decoded trade into
// an aggressor order, submits it to the book, feeds the resulting statistics
// into the signal engine, and fans emitted signals out to the configured
// sinks. The book and the engine never see the feed directly.
type TickProcessor struct {
	book     *book.OrderBook
	observer *alpha.Observer
	logger   *applogger.Logger
	metrics  drepo.Metrics
	tape     drepo.TapeSink
	signals  drepo.SignalPublisher

	mu           sync.Mutex
	messageCount uint64
	totalProcSec float64
}

// NewTickProcessor wires the adapter. tape and signals may be nil when the
// corresponding backend is disabled.
func NewTickProcessor(
	ob *book.OrderBook,
	observer *alpha.Observer,
	logger *applogger.Logger,
	metrics drepo.Metrics,
	tape drepo.TapeSink,
	signals drepo.SignalPublisher,
) *TickProcessor {
	return &TickProcessor{
		book:     ob,
		observer: observer,
		logger:   logger,
		metrics:  metrics,
		tape:     tape,
		signals:  signals,
	}
}

// ScaleQuantity floors a fractional feed quantity into book units.
func ScaleQuantity(q float64) uint32 {
	if q <= 0 {
		return 0
	}
	return uint32(math.Floor(q * QtyScale))
}

// Process handles one trade event end to end. The buyer-is-maker flag means
// the aggressor was a seller, so the synthetic order takes the Sell side.
func (p *TickProcessor) Process(ctx context.Context, t *models.Trade) error {
	if t == nil {
		return fmt.Errorf("trade is nil")
	}
	start := time.Now()

	side := book.Buy
	if t.IsBuyerMaker {
		side = book.Sell
	}
	p.book.Submit(book.NewOrder(t.TradeID, t.Price, ScaleQuantity(t.Quantity), side))

	stats := p.book.Snapshot()
	if stats.LastTradePrice > 0 {
		p.observer.Engine().Update(stats.LastTradePrice, float64(stats.TotalVolume), stats.VWAP)
	}

	sig, changed := p.observer.Observe()
	if changed {
		p.emit(ctx, t.Symbol, sig)
	}

	if p.tape != nil {
		if err := p.tape.Store(ctx, t); err != nil {
			// The tape is an archive, not part of the hot path; keep going.
			p.metrics.RecordError("tape_store")
			p.logger.Warn("tape store failed", applogger.Error(err))
		}
	}

	elapsed := time.Since(start).Seconds()
	p.mu.Lock()
	p.messageCount++
	p.totalProcSec += elapsed
	p.mu.Unlock()

	p.metrics.RecordMessage(t.Symbol)
	p.metrics.RecordLastPrice(t.Symbol, stats.LastTradePrice)
	p.metrics.RecordLatency("process_trade", elapsed)
	p.metrics.RecordSignal(t.Symbol, int(sig.Signal))

	return nil
}

func (p *TickProcessor) emit(ctx context.Context, symbol string, sig alpha.Signal) {
	if sig.Signal == alpha.StrongBuy || sig.Signal == alpha.StrongSell {
		p.logger.Info("strong signal",
			applogger.String("signal", sig.Signal.String()),
			applogger.Float64("strength", sig.Strength),
			applogger.Float64("rsi", sig.RSI))
	}
	if p.signals == nil {
		return
	}
	if err := p.signals.PublishSignal(ctx, symbol, sig); err != nil {
		p.metrics.RecordError("signal_publish")
		p.logger.Warn("signal publish failed", applogger.Error(err))
	}
}

// MinSamples is the engine's activation floor, used by the console view.
func (p *TickProcessor) MinSamples() int {
	return p.observer.Engine().MinSamples()
}

// Signal returns the most recently observed signal snapshot.
func (p *TickProcessor) Signal() alpha.Signal {
	return p.observer.Last()
}

// Metrics assembles the live pull-side view of the session.
func (p *TickProcessor) Metrics() models.LiveMetrics {
	stats := p.book.Snapshot()

	p.mu.Lock()
	count := p.messageCount
	totalSec := p.totalProcSec
	p.mu.Unlock()

	avgMs := 0.0
	if count > 0 {
		avgMs = totalSec / float64(count) * 1000
	}
	return models.LiveMetrics{
		LastPrice:          stats.LastTradePrice,
		VWAP:               stats.VWAP,
		TotalVolume:        stats.TotalVolume,
		CumulativeNotional: stats.CumulativeNotional,
		MessageCount:       count,
		AvgProcessingMs:    avgMs,
		HistorySize:        p.observer.Engine().HistorySize(),
	}
}

// Close releases the optional sinks.
func (p *TickProcessor) Close() {
	if p.tape != nil {
		_ = p.tape.Close()
	}
	if p.signals != nil {
		_ = p.signals.Close()
	}
}
