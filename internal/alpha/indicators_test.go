package alpha

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestSMA(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5}
	if got := sma(data, 3); !almostEqual(got, 4) {
		t.Fatalf("sma = %v, want 4", got)
	}
	if got := sma(data, 5); !almostEqual(got, 3) {
		t.Fatalf("sma = %v, want 3", got)
	}
	if got := sma(data, 6); got != 0 {
		t.Fatalf("short series sma = %v, want 0", got)
	}
}

func TestEMAFlatSeriesEqualsPrice(t *testing.T) {
	data := []float64{50, 50, 50, 50, 50}
	if got := ema(data, 4); !almostEqual(got, 50) {
		t.Fatalf("ema = %v, want 50", got)
	}
	if got := ema(data, 10); got != 0 {
		t.Fatalf("short series ema = %v, want 0", got)
	}
	// EMA weights recent samples more than SMA does.
	rising := []float64{1, 2, 3, 4, 5, 6}
	if e, s := ema(rising, 5), sma(rising, 5); e <= s {
		t.Fatalf("ema %v should exceed sma %v on a rising series", e, s)
	}
}

func TestRSIDefaults(t *testing.T) {
	if got := rsi([]float64{1, 2, 3}, 14); got != 50 {
		t.Fatalf("insufficient data rsi = %v, want 50", got)
	}
	rising := make([]float64, 16)
	for i := range rising {
		rising[i] = float64(i)
	}
	if got := rsi(rising, 14); got != 100 {
		t.Fatalf("all-gains rsi = %v, want 100", got)
	}
}

func TestRSIBalancedChanges(t *testing.T) {
	// Equal total gains and losses give RSI 50.
	prices := []float64{100}
	for i := 0; i < 7; i++ {
		prices = append(prices, prices[len(prices)-1]+1)
		prices = append(prices, prices[len(prices)-1]-1)
	}
	if got := rsi(prices, 14); !almostEqual(got, 50) {
		t.Fatalf("balanced rsi = %v, want 50", got)
	}
}

func TestMomentum(t *testing.T) {
	prices := []float64{100, 101, 102, 103, 104, 105, 106, 107, 108, 109, 110}
	if got := momentum(prices, 10); !almostEqual(got, 10) {
		t.Fatalf("momentum = %v, want 10", got)
	}
	if got := momentum(prices[:5], 10); got != 0 {
		t.Fatalf("short series momentum = %v, want 0", got)
	}
}

func TestVolatility(t *testing.T) {
	flat := make([]float64, 25)
	for i := range flat {
		flat[i] = 100
	}
	if got := volatility(flat, 20); got != 0 {
		t.Fatalf("flat volatility = %v, want 0", got)
	}

	if got := volatility(flat[:10], 20); got != 0 {
		t.Fatalf("short series volatility = %v, want 0", got)
	}

	// Two alternating values: mean 100, population sigma 5, CV 5%.
	alt := make([]float64, 21)
	for i := range alt {
		if i%2 == 0 {
			alt[i] = 95
		} else {
			alt[i] = 105
		}
	}
	got := volatility(alt, 20)
	if !almostEqual(got, 5) {
		t.Fatalf("volatility = %v, want 5", got)
	}
}

func TestVolatilityNonPositiveMeanGuard(t *testing.T) {
	prices := make([]float64, 21)
	for i := range prices {
		prices[i] = float64(i%2)*2 - 1 // alternates -1, 1; mean 0
	}
	if got := volatility(prices, 20); got != 0 {
		t.Fatalf("zero-mean volatility = %v, want 0", got)
	}
}
