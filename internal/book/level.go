package book

// priceLevel aggregates the resting orders at a single price. Orders queue in
// arrival order; totalVolume tracks the sum of their remaining quantities.
type priceLevel struct {
	price       float64
	totalVolume uint64
	orders      []*Order
}

func (l *priceLevel) add(o *Order) {
	l.totalVolume += uint64(o.Remaining)
	l.orders = append(l.orders, o)
}

// popFront drops the fully filled order at the head of the queue.
func (l *priceLevel) popFront() {
	l.orders[0] = nil
	l.orders = l.orders[1:]
}

func (l *priceLevel) empty() bool { return len(l.orders) == 0 }

// bookSide holds one half of the book: a price-keyed map of levels plus the
// prices kept sorted best-first (descending for bids, ascending for asks).
type bookSide struct {
	levels     map[float64]*priceLevel
	prices     []float64
	descending bool
}

func newBookSide(descending bool) *bookSide {
	return &bookSide{
		levels:     make(map[float64]*priceLevel),
		descending: descending,
	}
}

func (s *bookSide) empty() bool { return len(s.prices) == 0 }

// best returns the level at the front of the side. Callers must check empty.
func (s *bookSide) best() (float64, *priceLevel) {
	p := s.prices[0]
	return p, s.levels[p]
}

func (s *bookSide) removeBest() {
	delete(s.levels, s.prices[0])
	s.prices = s.prices[1:]
}

// getOrCreate returns the level at price, inserting it in sorted position
// when the price has not been seen before.
func (s *bookSide) getOrCreate(price float64) *priceLevel {
	if l, ok := s.levels[price]; ok {
		return l
	}
	l := &priceLevel{price: price}
	s.levels[price] = l

	i := s.searchInsert(price)
	s.prices = append(s.prices, 0)
	copy(s.prices[i+1:], s.prices[i:])
	s.prices[i] = price
	return l
}

func (s *bookSide) searchInsert(price float64) int {
	lo, hi := 0, len(s.prices)
	for lo < hi {
		mid := (lo + hi) / 2
		before := s.prices[mid] > price
		if s.descending {
			before = s.prices[mid] < price
		}
		if before {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}
