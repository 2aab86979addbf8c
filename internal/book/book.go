package book

import "sync"

// Stats is a consistent snapshot of the book's cumulative trade statistics.
type Stats struct {
	LastTradePrice     float64
	TotalVolume        uint64
	CumulativeNotional float64
	VWAP               float64
}

// OrderBook is a two-sided limit order book with price-time priority
// matching. Crossing orders fill at the resting level's price; any
// unmatched remainder rests at its own limit. One mutex serializes
// submissions and protects the cumulative statistics, so readers always
// observe either the pre- or post-submit state of a trade.
type OrderBook struct {
	mu   sync.Mutex
	bids *bookSide
	asks *bookSide

	lastTradePrice     float64
	totalVolumeTraded  uint64
	cumulativeNotional float64
}

func New() *OrderBook {
	return &OrderBook{
		bids: newBookSide(true),
		asks: newBookSide(false),
	}
}

// Submit matches the order against the opposite side and rests whatever is
// left. The book takes ownership of the order; a zero-quantity order neither
// trades nor rests.
func (ob *OrderBook) Submit(order *Order) {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	if order.Side == Buy {
		ob.match(order, ob.asks)
		if order.Remaining > 0 {
			ob.bids.getOrCreate(order.Price).add(order)
		}
	} else {
		ob.match(order, ob.bids)
		if order.Remaining > 0 {
			ob.asks.getOrCreate(order.Price).add(order)
		}
	}
}

func (ob *OrderBook) match(order *Order, opposite *bookSide) {
	for order.Remaining > 0 && !opposite.empty() {
		levelPrice, level := opposite.best()

		canMatch := order.Price >= levelPrice
		if order.Side == Sell {
			canMatch = order.Price <= levelPrice
		}
		if !canMatch {
			return
		}

		for order.Remaining > 0 && !level.empty() {
			resting := level.orders[0]
			traded := order.Remaining
			if resting.Remaining < traded {
				traded = resting.Remaining
			}

			ob.lastTradePrice = levelPrice
			ob.totalVolumeTraded += uint64(traded)
			ob.cumulativeNotional += float64(traded) * levelPrice

			order.Remaining -= traded
			resting.Remaining -= traded
			level.totalVolume -= uint64(traded)

			if resting.Remaining == 0 {
				level.popFront()
			}
		}

		if level.empty() {
			opposite.removeBest()
		}
	}
}

// LastTradePrice returns the price of the most recent fill, 0 before any.
func (ob *OrderBook) LastTradePrice() float64 {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return ob.lastTradePrice
}

// VWAP is cumulative notional over cumulative volume, 0 before any fill.
func (ob *OrderBook) VWAP() float64 {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return ob.vwapLocked()
}

// TotalVolume returns the cumulative matched quantity.
func (ob *OrderBook) TotalVolume() uint64 {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return ob.totalVolumeTraded
}

// CumulativeNotional returns the running sum of price times quantity over
// all fills.
func (ob *OrderBook) CumulativeNotional() float64 {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return ob.cumulativeNotional
}

// Snapshot returns all four statistics under a single lock acquisition.
func (ob *OrderBook) Snapshot() Stats {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return Stats{
		LastTradePrice:     ob.lastTradePrice,
		TotalVolume:        ob.totalVolumeTraded,
		CumulativeNotional: ob.cumulativeNotional,
		VWAP:               ob.vwapLocked(),
	}
}

func (ob *OrderBook) vwapLocked() float64 {
	if ob.totalVolumeTraded == 0 {
		return 0
	}
	return ob.cumulativeNotional / float64(ob.totalVolumeTraded)
}

// Depth reports the number of populated price levels on each side. Used by
// observability, not by matching.
func (ob *OrderBook) Depth() (bidLevels, askLevels int) {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return len(ob.bids.prices), len(ob.asks.prices)
}

// restingVolume sums remaining quantities across a side, for invariant
// checks in tests.
func (s *bookSide) restingVolume() uint64 {
	var total uint64
	for _, l := range s.levels {
		total += l.totalVolume
	}
	return total
}
