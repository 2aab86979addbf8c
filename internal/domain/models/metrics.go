package models

// LiveMetrics is the pull-side view of the running session: book statistics
// plus the ingestion counters the feed loop maintains.
type LiveMetrics struct {
	LastPrice          float64 `json:"last_price"`
	VWAP               float64 `json:"vwap"`
	TotalVolume        uint64  `json:"total_volume"`
	CumulativeNotional float64 `json:"cumulative_notional"`
	MessageCount       uint64  `json:"message_count"`
	AvgProcessingMs    float64 `json:"avg_processing_ms"`
	HistorySize        int     `json:"history_size"`
}
