package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"apexlob/internal/domain/models"
	"apexlob/internal/domain/repository"
)

// ClickHouseTapeSink persists the raw trade tape into a ClickHouse table
// for offline inspection. The book itself keeps no durable state.
type ClickHouseTapeSink struct {
	db    *sql.DB
	table string
}

// NewClickHouseTapeSink creates ClickHouse tape storage.
func NewClickHouseTapeSink(db *sql.DB, table string) repository.TapeSink {
	return &ClickHouseTapeSink{db: db, table: table}
}

func (s *ClickHouseTapeSink) Store(ctx context.Context, t *models.Trade) error {
	if t == nil {
		return fmt.Errorf("trade is nil")
	}
	q := fmt.Sprintf(
		"INSERT INTO %s (ts, symbol, trade_id, price, quantity, buyer_maker) VALUES (?, ?, ?, ?, ?, ?)",
		s.table)
	_, err := s.db.ExecContext(ctx, q,
		time.UnixMilli(t.Timestamp),
		t.Symbol,
		t.TradeID,
		t.Price,
		t.Quantity,
		t.IsBuyerMaker,
	)
	if err != nil {
		return fmt.Errorf("insert trade: %w", err)
	}
	return nil
}

func (s *ClickHouseTapeSink) Close() error {
	// The pooled client owns the connection; nothing to close per sink.
	return nil
}
