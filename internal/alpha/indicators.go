package alpha

import "math"

// Indicator helpers over the tail of a price series. All of them operate on
// the last `period` samples (RSI, momentum, and volatility need one more for
// the change/reference point) and fall back to a defined constant when the
// series is too short.

// sma is the arithmetic mean of the last period samples, 0 with fewer.
func sma(data []float64, period int) float64 {
	if len(data) < period || period <= 0 {
		return 0
	}
	sum := 0.0
	for _, v := range data[len(data)-period:] {
		sum += v
	}
	return sum / float64(period)
}

// ema seeds at the sample period places back and folds forward with the
// standard 2/(N+1) multiplier.
func ema(data []float64, period int) float64 {
	if len(data) < period || period <= 0 {
		return 0
	}
	multiplier := 2.0 / (float64(period) + 1.0)
	out := data[len(data)-period]
	for _, v := range data[len(data)-period+1:] {
		out = (v-out)*multiplier + out
	}
	return out
}

// rsi is the simple-mean relative strength index over the last period price
// changes (no Wilder smoothing). Neutral 50 with insufficient data or a flat
// window (no gains and no losses), 100 when there are gains but no losses.
func rsi(prices []float64, period int) float64 {
	if len(prices) < period+1 || period <= 0 {
		return 50
	}
	var gains, losses float64
	for i := len(prices) - period; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			gains += change
		} else {
			losses += -change
		}
	}
	if gains == 0 && losses == 0 {
		return 50
	}
	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// momentum is the percentage change against the price period samples ago.
func momentum(prices []float64, period int) float64 {
	if len(prices) < period+1 || period <= 0 {
		return 0
	}
	current := prices[len(prices)-1]
	past := prices[len(prices)-period-1]
	return (current - past) / past * 100
}

// volatility is the coefficient of variation of the last period prices as a
// percentage: population standard deviation over the window mean. Returns 0
// when the window is short or the mean is not strictly positive.
func volatility(prices []float64, period int) float64 {
	if len(prices) < period+1 || period <= 0 {
		return 0
	}
	mean := sma(prices, period)
	if mean <= 0 {
		return 0
	}
	variance := 0.0
	for _, v := range prices[len(prices)-period:] {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(period)
	return math.Sqrt(variance) / mean * 100
}
