package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"apexlob/internal/domain/models"
	drepo "apexlob/internal/domain/repository"
	applogger "apexlob/pkg/logger"

	"github.com/gorilla/websocket"
)

// Client implements a MarketStream over the Binance aggTrade WebSocket.
type Client struct {
	websocketURL   string
	symbol         string
	reconnectDelay time.Duration
	pingInterval   time.Duration
	logger         *applogger.Logger

	conn      *websocket.Conn
	connected bool
}

// New creates a Binance aggregate-trade MarketStream for one symbol.
func New(websocketURL, symbol string, reconnectDelay, pingInterval time.Duration, logger *applogger.Logger) drepo.MarketStream {
	return &Client{
		websocketURL:   websocketURL,
		symbol:         symbol,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
		logger:         logger,
	}
}

// Connect establishes the WebSocket connection.
func (c *Client) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.websocketURL, nil)
	if err != nil {
		return fmt.Errorf("binance connect: %w", err)
	}
	c.conn = conn
	c.connected = true
	c.logger.Info("binance: connected", applogger.String("url", c.websocketURL))
	return nil
}

// Subscribe subscribes to the configured symbol's aggTrade stream.
func (c *Client) Subscribe(ctx context.Context) error {
	if c.conn == nil || !c.connected {
		return fmt.Errorf("binance not connected")
	}
	msg := map[string]interface{}{
		"method": "SUBSCRIBE",
		"params": []string{strings.ToLower(c.symbol) + "@aggTrade"},
		"id":     1,
	}
	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("subscribe %s: %w", c.symbol, err)
	}
	c.logger.Info("binance: subscribed", applogger.String("symbol", c.symbol))
	return nil
}

// aggTradeMessage mirrors the exchange payload. Price, quantity, and the
// maker flag arrive as pointers so a missing field is distinguishable from a
// zero value.
type aggTradeMessage struct {
	EventType string  `json:"e"`
	Symbol    string  `json:"s"`
	TradeID   *uint64 `json:"a"`
	Price     *string `json:"p"`
	Quantity  *string `json:"q"`
	Maker     *bool   `json:"m"`
	EventTime int64   `json:"E"`
}

// decodeAggTrade parses one frame into a Trade. Frames that are not
// aggTrade events return (nil, nil); events missing required fields or
// carrying unparseable numerics return an error.
func decodeAggTrade(b []byte) (*models.Trade, error) {
	var m aggTradeMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	if m.EventType != "aggTrade" {
		return nil, nil
	}
	if m.TradeID == nil || m.Price == nil || m.Quantity == nil || m.Maker == nil {
		return nil, fmt.Errorf("aggTrade missing required fields")
	}
	price, err := strconv.ParseFloat(*m.Price, 64)
	if err != nil {
		return nil, fmt.Errorf("parse price %q: %w", *m.Price, err)
	}
	qty, err := strconv.ParseFloat(*m.Quantity, 64)
	if err != nil {
		return nil, fmt.Errorf("parse quantity %q: %w", *m.Quantity, err)
	}
	return &models.Trade{
		TradeID:      *m.TradeID,
		Symbol:       m.Symbol,
		Price:        price,
		Quantity:     qty,
		IsBuyerMaker: *m.Maker,
		Timestamp:    m.EventTime,
	}, nil
}

// Read streams Trade events and errors.
func (c *Client) Read(ctx context.Context) (<-chan *models.Trade, <-chan error) {
	trades := make(chan *models.Trade, 1024)
	errs := make(chan error, 1)

	// ping loop
	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if c.conn != nil {
					_ = c.conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(trades)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if c.conn == nil {
					errs <- fmt.Errorf("binance conn nil")
					return
				}
				_, b, err := c.conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("binance read: %w", err)
					return
				}
				trade, err := decodeAggTrade(b)
				if err != nil {
					// Malformed event: drop it and keep reading.
					c.logger.Warn("binance: dropping event", applogger.Error(err))
					continue
				}
				if trade == nil {
					continue
				}
				select {
				case trades <- trade:
				default:
					// drop on backpressure
				}
			}
		}
	}()

	return trades, errs
}

// Reconnect closes and reconnects.
func (c *Client) Reconnect(ctx context.Context) error {
	_ = c.Close()
	time.Sleep(c.reconnectDelay)
	if err := c.Connect(ctx); err != nil {
		return err
	}
	return c.Subscribe(ctx)
}

// Close closes the WS connection.
func (c *Client) Close() error {
	c.connected = false
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (c *Client) IsConnected() bool { return c.connected }
