package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"apexlob/internal/alpha"
	"apexlob/internal/book"
	"apexlob/internal/domain/models"
	"apexlob/internal/usecase"
	applogger "apexlob/pkg/logger"

	"github.com/labstack/echo/v4"
)

type stubStream struct{ connected bool }

func (s *stubStream) Connect(context.Context) error   { s.connected = true; return nil }
func (s *stubStream) Subscribe(context.Context) error { return nil }
func (s *stubStream) Read(context.Context) (<-chan *models.Trade, <-chan error) {
	return nil, nil
}
func (s *stubStream) Reconnect(context.Context) error { return nil }
func (s *stubStream) Close() error                    { s.connected = false; return nil }
func (s *stubStream) IsConnected() bool               { return s.connected }

type nopMetrics struct{}

func (nopMetrics) RecordMessage(string)            {}
func (nopMetrics) RecordError(string)              {}
func (nopMetrics) RecordLastPrice(string, float64) {}
func (nopMetrics) RecordLatency(string, float64)   {}
func (nopMetrics) RecordSignal(string, int)        {}

func newTestHandler(t *testing.T, connected bool) (*StatusEchoHandler, *usecase.TickProcessor) {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	l = l.WithCollector(applogger.NewCollector(50))

	ob := book.New()
	observer := alpha.NewObserver(alpha.NewEngine(alpha.DefaultConfig()))
	proc := usecase.NewTickProcessor(ob, observer, l, nopMetrics{}, nil, nil)
	collector := usecase.NewTradeCollector(&stubStream{connected: connected}, proc, nopMetrics{}, nil)

	return NewStatusEchoHandler(l, collector, "BTCUSDT", "test"), proc
}

func doRequest(t *testing.T, h *StatusEchoHandler, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	e := echo.New()
	h.RegisterRoutes(e)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return rec, body
}

func TestSignalEndpointBeforeData(t *testing.T) {
	h, proc := newTestHandler(t, true)

	// Prime the observer the way the ingestion path does.
	_ = proc.Process(context.Background(), &models.Trade{TradeID: 1, Symbol: "BTCUSDT", Price: 100, Quantity: 1})

	_, body := doRequest(t, h, "/api/signal")
	data := body["data"].(map[string]interface{})
	if data["signal"] != "HOLD" {
		t.Fatalf("signal = %v, want HOLD", data["signal"])
	}
	if data["reason"] != "Insufficient data" {
		t.Fatalf("reason = %v", data["reason"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h, proc := newTestHandler(t, true)
	ctx := context.Background()
	_ = proc.Process(ctx, &models.Trade{TradeID: 1, Symbol: "BTCUSDT", Price: 100, Quantity: 0.5})
	_ = proc.Process(ctx, &models.Trade{TradeID: 2, Symbol: "BTCUSDT", Price: 100, Quantity: 0.5, IsBuyerMaker: true})

	_, body := doRequest(t, h, "/api/metrics")
	data := body["data"].(map[string]interface{})
	if data["last_price"].(float64) != 100 {
		t.Fatalf("last_price = %v, want 100", data["last_price"])
	}
	if data["total_volume"].(float64) != 500 {
		t.Fatalf("total_volume = %v, want 500", data["total_volume"])
	}
	if data["message_count"].(float64) != 2 {
		t.Fatalf("message_count = %v, want 2", data["message_count"])
	}
}

func TestHealthEndpointReflectsConnection(t *testing.T) {
	h, _ := newTestHandler(t, true)
	_, body := doRequest(t, h, "/api/health")
	if body["status"].(float64) != http.StatusOK {
		t.Fatalf("status = %v, want 200", body["status"])
	}

	down, _ := newTestHandler(t, false)
	_, body = doRequest(t, down, "/api/health")
	if body["status"].(float64) != http.StatusServiceUnavailable {
		t.Fatalf("status = %v, want 503", body["status"])
	}
}

func TestLogsEndpointValidation(t *testing.T) {
	h, _ := newTestHandler(t, true)

	_, body := doRequest(t, h, "/api/logs?limit=9999")
	if body["status"].(float64) != http.StatusBadRequest {
		t.Fatalf("status = %v, want 400 for out-of-range limit", body["status"])
	}

	_, body = doRequest(t, h, "/api/logs")
	if body["status"].(float64) != http.StatusOK {
		t.Fatalf("status = %v, want 200", body["status"])
	}
}
