package book

import (
	"math"
	"sync"
	"testing"
)

func TestEmptyBookMetrics(t *testing.T) {
	ob := New()
	if ob.LastTradePrice() != 0 {
		t.Fatalf("LastTradePrice = %v, want 0", ob.LastTradePrice())
	}
	if ob.VWAP() != 0 {
		t.Fatalf("VWAP = %v, want 0", ob.VWAP())
	}
	if ob.TotalVolume() != 0 {
		t.Fatalf("TotalVolume = %v, want 0", ob.TotalVolume())
	}
	if ob.CumulativeNotional() != 0 {
		t.Fatalf("CumulativeNotional = %v, want 0", ob.CumulativeNotional())
	}
}

func TestRestingOrderDoesNotTrade(t *testing.T) {
	ob := New()
	ob.Submit(NewOrder(1, 100.0, 1000, Buy))

	if ob.LastTradePrice() != 0 {
		t.Fatalf("no counterparty, LastTradePrice = %v, want 0", ob.LastTradePrice())
	}
	bids, asks := ob.Depth()
	if bids != 1 || asks != 0 {
		t.Fatalf("depth = (%d, %d), want (1, 0)", bids, asks)
	}
}

func TestExactMatch(t *testing.T) {
	ob := New()
	ob.Submit(NewOrder(1, 100.0, 500, Buy))
	ob.Submit(NewOrder(2, 99.0, 500, Sell))

	if ob.LastTradePrice() != 100.0 {
		t.Fatalf("LastTradePrice = %v, want 100.0", ob.LastTradePrice())
	}
	if ob.TotalVolume() != 500 {
		t.Fatalf("TotalVolume = %v, want 500", ob.TotalVolume())
	}
	if math.Abs(ob.VWAP()-100.0) > 1e-9 {
		t.Fatalf("VWAP = %v, want 100.0", ob.VWAP())
	}
	bids, asks := ob.Depth()
	if bids != 0 || asks != 0 {
		t.Fatalf("depth = (%d, %d), want empty book", bids, asks)
	}
}

func TestPartialMatchRemainderRests(t *testing.T) {
	ob := New()
	ob.Submit(NewOrder(1, 100.0, 1000, Buy))
	ob.Submit(NewOrder(2, 99.0, 300, Sell))

	if ob.LastTradePrice() != 100.0 {
		t.Fatalf("LastTradePrice = %v, want 100.0", ob.LastTradePrice())
	}
	if ob.TotalVolume() != 300 {
		t.Fatalf("TotalVolume = %v, want 300", ob.TotalVolume())
	}
	if got := ob.bids.restingVolume(); got != 700 {
		t.Fatalf("resting bid volume = %d, want 700", got)
	}

	ob.Submit(NewOrder(3, 99.0, 200, Sell))
	if ob.TotalVolume() != 500 {
		t.Fatalf("TotalVolume after second sell = %v, want 500", ob.TotalVolume())
	}
	if math.Abs(ob.VWAP()-100.0) > 1e-9 {
		t.Fatalf("VWAP = %v, want 100.0", ob.VWAP())
	}
}

func TestAggressorRestsAtOwnLimit(t *testing.T) {
	ob := New()
	ob.Submit(NewOrder(1, 100.0, 300, Buy))
	ob.Submit(NewOrder(2, 99.0, 1000, Sell))

	// 300 traded at 100.0, remainder 700 rests on the ask side at 99.0.
	if ob.TotalVolume() != 300 {
		t.Fatalf("TotalVolume = %v, want 300", ob.TotalVolume())
	}
	if got := ob.asks.restingVolume(); got != 700 {
		t.Fatalf("resting ask volume = %d, want 700", got)
	}
	if l, ok := ob.asks.levels[99.0]; !ok || l.totalVolume != 700 {
		t.Fatalf("expected 700 resting at 99.0")
	}
}

func TestMultiLevelSweepMakerPrices(t *testing.T) {
	ob := New()
	ob.Submit(NewOrder(1, 101.0, 500, Buy))
	ob.Submit(NewOrder(2, 100.0, 500, Buy))
	ob.Submit(NewOrder(3, 99.0, 800, Sell))

	if ob.LastTradePrice() != 100.0 {
		t.Fatalf("LastTradePrice = %v, want 100.0", ob.LastTradePrice())
	}
	if ob.TotalVolume() != 800 {
		t.Fatalf("TotalVolume = %v, want 800", ob.TotalVolume())
	}
	want := (500*101.0 + 300*100.0) / 800
	if math.Abs(ob.VWAP()-want) > 1e-9 {
		t.Fatalf("VWAP = %v, want %v", ob.VWAP(), want)
	}
	// 200 left on the 100.0 bid level.
	if got := ob.bids.restingVolume(); got != 200 {
		t.Fatalf("resting bid volume = %d, want 200", got)
	}
}

func TestNoCrossBothRest(t *testing.T) {
	ob := New()
	ob.Submit(NewOrder(1, 100.0, 500, Buy))
	ob.Submit(NewOrder(2, 101.0, 500, Sell))

	if ob.LastTradePrice() != 0 || ob.TotalVolume() != 0 || ob.VWAP() != 0 {
		t.Fatalf("expected no trade, got last=%v vol=%v vwap=%v",
			ob.LastTradePrice(), ob.TotalVolume(), ob.VWAP())
	}
	bids, asks := ob.Depth()
	if bids != 1 || asks != 1 {
		t.Fatalf("depth = (%d, %d), want (1, 1)", bids, asks)
	}
}

func TestFIFOWithinLevel(t *testing.T) {
	ob := New()
	first := NewOrder(1, 100.0, 300, Buy)
	second := NewOrder(2, 100.0, 300, Buy)
	ob.Submit(first)
	ob.Submit(second)

	ob.Submit(NewOrder(3, 100.0, 300, Sell))
	if !first.Filled() {
		t.Fatalf("earlier order should fill first")
	}
	if second.Filled() {
		t.Fatalf("later order should still be resting")
	}

	ob.Submit(NewOrder(4, 100.0, 300, Sell))
	if !second.Filled() {
		t.Fatalf("second order should now be filled")
	}
	bids, _ := ob.Depth()
	if bids != 0 {
		t.Fatalf("emptied level must be removed, bid depth = %d", bids)
	}
}

func TestBestPriceFirstAcrossLevels(t *testing.T) {
	ob := New()
	ob.Submit(NewOrder(1, 99.0, 100, Sell))
	ob.Submit(NewOrder(2, 98.0, 100, Sell))
	ob.Submit(NewOrder(3, 100.0, 100, Sell))

	ob.Submit(NewOrder(4, 100.0, 100, Buy))
	if ob.LastTradePrice() != 98.0 {
		t.Fatalf("buy must lift the lowest ask first, last = %v", ob.LastTradePrice())
	}
	ob.Submit(NewOrder(5, 100.0, 100, Buy))
	if ob.LastTradePrice() != 99.0 {
		t.Fatalf("next fill at 99.0, got %v", ob.LastTradePrice())
	}
}

func TestZeroQuantityOrderIsNoOp(t *testing.T) {
	ob := New()
	ob.Submit(NewOrder(1, 100.0, 0, Buy))

	if ob.TotalVolume() != 0 {
		t.Fatalf("zero-quantity order traded")
	}
	bids, asks := ob.Depth()
	if bids != 0 || asks != 0 {
		t.Fatalf("zero-quantity order rested, depth = (%d, %d)", bids, asks)
	}
}

func TestSplitFillsEquivalentToSingleFill(t *testing.T) {
	split := New()
	split.Submit(NewOrder(1, 100.0, 900, Buy))
	split.Submit(NewOrder(2, 100.0, 400, Sell))
	split.Submit(NewOrder(3, 100.0, 500, Sell))

	single := New()
	single.Submit(NewOrder(1, 100.0, 900, Buy))
	single.Submit(NewOrder(2, 100.0, 900, Sell))

	if split.TotalVolume() != single.TotalVolume() {
		t.Fatalf("volume differs: %d vs %d", split.TotalVolume(), single.TotalVolume())
	}
	if math.Abs(split.CumulativeNotional()-single.CumulativeNotional()) > 1e-9 {
		t.Fatalf("notional differs: %v vs %v",
			split.CumulativeNotional(), single.CumulativeNotional())
	}
	if math.Abs(split.VWAP()-single.VWAP()) > 1e-9 {
		t.Fatalf("vwap differs: %v vs %v", split.VWAP(), single.VWAP())
	}
}

func TestLevelVolumeInvariant(t *testing.T) {
	ob := New()
	ob.Submit(NewOrder(1, 100.0, 500, Buy))
	ob.Submit(NewOrder(2, 100.0, 250, Buy))
	ob.Submit(NewOrder(3, 101.0, 300, Buy))
	ob.Submit(NewOrder(4, 99.0, 400, Sell)) // sweeps 101 fully, 100 partially

	for _, side := range []*bookSide{ob.bids, ob.asks} {
		for price, level := range side.levels {
			var sum uint64
			for _, o := range level.orders {
				sum += uint64(o.Remaining)
			}
			if sum != level.totalVolume {
				t.Fatalf("level %v: totalVolume %d != sum of remaining %d",
					price, level.totalVolume, sum)
			}
			if level.empty() {
				t.Fatalf("empty level %v left on side", price)
			}
		}
	}
}

func TestBookNeverCrossedAfterSubmit(t *testing.T) {
	ob := New()
	orders := []*Order{
		NewOrder(1, 100.0, 100, Buy),
		NewOrder(2, 102.0, 100, Sell),
		NewOrder(3, 101.0, 150, Buy),
		NewOrder(4, 99.5, 50, Sell),
		NewOrder(5, 103.0, 200, Buy),
		NewOrder(6, 98.0, 500, Sell),
	}
	for _, o := range orders {
		ob.Submit(o)
		if ob.bids.empty() || ob.asks.empty() {
			continue
		}
		bestBid, _ := ob.bids.best()
		bestAsk, _ := ob.asks.best()
		if bestBid >= bestAsk {
			t.Fatalf("book crossed after submit: bid %v >= ask %v", bestBid, bestAsk)
		}
	}
}

func TestNotionalAccumulation(t *testing.T) {
	ob := New()
	ob.Submit(NewOrder(1, 100.0, 500, Buy))
	ob.Submit(NewOrder(2, 100.0, 200, Sell))
	ob.Submit(NewOrder(3, 100.0, 300, Sell))

	wantNotional := 500 * 100.0
	if math.Abs(ob.CumulativeNotional()-wantNotional) > 1e-9 {
		t.Fatalf("CumulativeNotional = %v, want %v", ob.CumulativeNotional(), wantNotional)
	}
	s := ob.Snapshot()
	if s.TotalVolume != 500 || s.LastTradePrice != 100.0 {
		t.Fatalf("snapshot = %+v", s)
	}
	if math.Abs(s.VWAP-s.CumulativeNotional/float64(s.TotalVolume)) > 1e-12 {
		t.Fatalf("snapshot vwap inconsistent: %+v", s)
	}
}

func TestConcurrentReadersDuringSubmits(t *testing.T) {
	ob := New()
	done := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := uint64(0); i < 2000; i++ {
			side := Buy
			if i%2 == 0 {
				side = Sell
			}
			ob.Submit(NewOrder(i, 100.0, 10, side))
		}
		close(done)
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				s := ob.Snapshot()
				if s.TotalVolume > 0 && s.VWAP == 0 {
					t.Error("inconsistent snapshot: volume without vwap")
					return
				}
			}
		}()
	}
	wg.Wait()
}
