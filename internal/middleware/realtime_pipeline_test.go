package middleware

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"

	"apexlob/internal/domain/models"
)

type recordingProc struct {
	mu     sync.Mutex
	seen   []*models.Trade
	fail   bool
	called int
}

func (p *recordingProc) Process(_ context.Context, t *models.Trade) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.called++
	if p.fail {
		return fmt.Errorf("downstream unavailable")
	}
	p.seen = append(p.seen, t)
	return nil
}

type countingMetrics struct {
	mu     sync.Mutex
	errors map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{errors: make(map[string]int)}
}

func (m *countingMetrics) RecordMessage(string) {}
func (m *countingMetrics) RecordError(kind string) {
	m.mu.Lock()
	m.errors[kind]++
	m.mu.Unlock()
}
func (m *countingMetrics) RecordLastPrice(string, float64) {}
func (m *countingMetrics) RecordLatency(string, float64)   {}
func (m *countingMetrics) RecordSignal(string, int)        {}

func validTrade() *models.Trade {
	return &models.Trade{TradeID: 1, Symbol: "BTCUSDT", Price: 100, Quantity: 0.5}
}

func TestPipelineForwardsValidTrade(t *testing.T) {
	proc := &recordingProc{}
	p := NewRealtimePipeline(proc, newCountingMetrics())

	if err := p.Process(context.Background(), validTrade()); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(proc.seen) != 1 {
		t.Fatalf("forwarded %d trades, want 1", len(proc.seen))
	}
}

func TestPipelineDropsMalformedTrades(t *testing.T) {
	proc := &recordingProc{}
	m := newCountingMetrics()
	p := NewRealtimePipeline(proc, m)

	bad := []*models.Trade{
		nil,
		{Symbol: "", TradeID: 1, Price: 100, Quantity: 1},
		{Symbol: "BTCUSDT", TradeID: 0, Price: 100, Quantity: 1},
		{Symbol: "BTCUSDT", TradeID: 1, Price: 0, Quantity: 1},
		{Symbol: "BTCUSDT", TradeID: 1, Price: -5, Quantity: 1},
		{Symbol: "BTCUSDT", TradeID: 1, Price: math.NaN(), Quantity: 1},
		{Symbol: "BTCUSDT", TradeID: 1, Price: 100, Quantity: -1},
		{Symbol: "BTCUSDT", TradeID: 1, Price: 100, Quantity: math.Inf(1)},
	}
	for _, tr := range bad {
		if err := p.Process(context.Background(), tr); err == nil {
			t.Errorf("expected validation error for %+v", tr)
		}
	}
	if proc.called != 0 {
		t.Fatalf("malformed trades reached downstream: %d", proc.called)
	}
	if m.errors["pipeline_validate"] != len(bad) {
		t.Fatalf("pipeline_validate = %d, want %d", m.errors["pipeline_validate"], len(bad))
	}
}

func TestPipelineBuffersOnDownstreamError(t *testing.T) {
	proc := &recordingProc{fail: true}
	m := newCountingMetrics()
	p := NewRealtimePipeline(proc, m, WithBufferSize(4))

	if err := p.Process(context.Background(), validTrade()); err == nil {
		t.Fatalf("expected downstream error")
	}
	if m.errors["pipeline_process"] != 1 {
		t.Fatalf("pipeline_process = %d, want 1", m.errors["pipeline_process"])
	}
	// The trade must be waiting in the retry buffer.
	if len(p.bufCh) != 1 {
		t.Fatalf("buffered = %d, want 1", len(p.bufCh))
	}
}

func TestZeroQuantityIsValid(t *testing.T) {
	// Zero-quantity events are legal input; the book treats them as no-ops.
	proc := &recordingProc{}
	p := NewRealtimePipeline(proc, newCountingMetrics())

	tr := validTrade()
	tr.Quantity = 0
	if err := p.Process(context.Background(), tr); err != nil {
		t.Fatalf("zero quantity rejected: %v", err)
	}
}
