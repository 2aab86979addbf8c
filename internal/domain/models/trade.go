package models

// Trade is one decoded aggregate-trade event from the market feed. Price and
// Quantity keep the feed's fractional units; scaling to integer book units
// happens in the ingestion use case.
type Trade struct {
	TradeID      uint64  `json:"trade_id"`
	Symbol       string  `json:"symbol"`
	Price        float64 `json:"price"`
	Quantity     float64 `json:"quantity"`
	IsBuyerMaker bool    `json:"is_buyer_maker"`
	Timestamp    int64   `json:"timestamp"` // exchange event time, ms
}
