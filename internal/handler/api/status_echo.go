package api

import (
	"time"

	"apexlob/internal/domain/models"
	"apexlob/internal/usecase"
	xhttp "apexlob/pkg/http"
	xlogger "apexlob/pkg/logger"

	"github.com/labstack/echo/v4"
)

// StatusEchoHandler serves the live session state: current alpha signal,
// book metrics, health, and recent warnings.
type StatusEchoHandler struct {
	logger    *xlogger.Logger
	collector *usecase.TradeCollector
	symbol    string
	env       string
	started   time.Time
}

func NewStatusEchoHandler(logger *xlogger.Logger, collector *usecase.TradeCollector, symbol, env string) *StatusEchoHandler {
	return &StatusEchoHandler{
		logger:    logger,
		collector: collector,
		symbol:    symbol,
		env:       env,
		started:   time.Now(),
	}
}

func (h *StatusEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/signal", h.Signal)
	g.GET("/metrics", h.Metrics)
	g.GET("/health", h.Health)
	g.GET("/logs", h.Logs)
}

// Signal returns the latest alpha signal snapshot. Before the engine has
// enough history the snapshot carries HOLD with the insufficient-data
// reason, which is a valid response, not an error.
func (h *StatusEchoHandler) Signal(c echo.Context) error {
	proc := h.collector.Processor()
	sig := proc.Signal()
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"symbol":       h.symbol,
		"signal":       sig.Signal.String(),
		"strength":     sig.Strength,
		"reason":       sig.Reason,
		"price":        sig.Price,
		"sma_short":    sig.SMAShort,
		"sma_long":     sig.SMALong,
		"rsi":          sig.RSI,
		"momentum":     sig.Momentum,
		"volatility":   sig.Volatility,
		"history_size": proc.Metrics().HistorySize,
	})
}

// Metrics returns the live book and ingestion statistics.
func (h *StatusEchoHandler) Metrics(c echo.Context) error {
	m := h.collector.Processor().Metrics()
	return xhttp.SuccessResponse(c, m)
}

// Health reports feed connectivity and uptime.
func (h *StatusEchoHandler) Health(c echo.Context) error {
	connected := h.collector.IsConnected()
	body := map[string]interface{}{
		"environment":    h.env,
		"symbol":         h.symbol,
		"feed_connected": connected,
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
	}
	if !connected {
		return xhttp.ServiceUnavailableResponse(c, body)
	}
	return xhttp.SuccessResponse(c, body)
}

// Logs returns recent warn/error entries retained by the log collector.
func (h *StatusEchoHandler) Logs(c echo.Context) error {
	req := &models.LogsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	col := h.logger.Collector()
	if col == nil {
		return xhttp.ListResponse(c, []xlogger.Entry{}, 0)
	}

	entries := col.Recent()
	if req.Level != "" {
		filtered := entries[:0]
		for _, e := range entries {
			if e.Level == req.Level {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}
	if len(entries) > req.Limit {
		entries = entries[len(entries)-req.Limit:]
	}
	return xhttp.ListResponse(c, entries, int64(len(entries)))
}
