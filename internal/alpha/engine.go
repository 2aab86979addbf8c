package alpha

import (
	"strings"
	"sync"
)

// SignalType is the discrete directional recommendation.
type SignalType int

const (
	StrongSell SignalType = -2
	Sell       SignalType = -1
	Hold       SignalType = 0
	Buy        SignalType = 1
	StrongBuy  SignalType = 2
)

func (s SignalType) String() string {
	switch s {
	case StrongBuy:
		return "STRONG_BUY"
	case Buy:
		return "BUY"
	case Hold:
		return "HOLD"
	case Sell:
		return "SELL"
	case StrongSell:
		return "STRONG_SELL"
	default:
		return "UNKNOWN"
	}
}

// Signal is an immutable snapshot emitted by Generate.
type Signal struct {
	Signal     SignalType `json:"signal"`
	Strength   float64    `json:"strength"`
	Reason     string     `json:"reason"`
	Price      float64    `json:"price"`
	SMAShort   float64    `json:"sma_short"`
	SMALong    float64    `json:"sma_long"`
	RSI        float64    `json:"rsi"`
	Momentum   float64    `json:"momentum"`
	Volatility float64    `json:"volatility"`
}

// Config holds the indicator lookbacks and the rolling-series cap.
type Config struct {
	ShortMAPeriod    int
	LongMAPeriod     int
	RSIPeriod        int
	MomentumPeriod   int
	VolatilityPeriod int
	MaxHistory       int
}

// DefaultConfig returns the periods the original engine runs with.
func DefaultConfig() Config {
	return Config{
		ShortMAPeriod:    10,
		LongMAPeriod:     30,
		RSIPeriod:        14,
		MomentumPeriod:   10,
		VolatilityPeriod: 20,
		MaxHistory:       1000,
	}
}

// minSamples is the history length at which signals activate.
func (c Config) minSamples() int { return c.LongMAPeriod + 1 }

// Engine maintains three lockstep rolling series of price, volume, and VWAP
// samples and derives a directional signal from them. It is a pure
// computation: no I/O, no logging; callers feed it via Update and pull via
// Generate.
type Engine struct {
	mu  sync.RWMutex
	cfg Config

	prices  []float64
	volumes []float64
	vwaps   []float64
}

// NewEngine builds an engine with the given config; non-positive fields are
// replaced by the defaults.
func NewEngine(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.ShortMAPeriod <= 0 {
		cfg.ShortMAPeriod = def.ShortMAPeriod
	}
	if cfg.LongMAPeriod <= 0 {
		cfg.LongMAPeriod = def.LongMAPeriod
	}
	if cfg.RSIPeriod <= 0 {
		cfg.RSIPeriod = def.RSIPeriod
	}
	if cfg.MomentumPeriod <= 0 {
		cfg.MomentumPeriod = def.MomentumPeriod
	}
	if cfg.VolatilityPeriod <= 0 {
		cfg.VolatilityPeriod = def.VolatilityPeriod
	}
	if cfg.MaxHistory <= 0 {
		cfg.MaxHistory = def.MaxHistory
	}
	return &Engine{
		cfg:     cfg,
		prices:  make([]float64, 0, cfg.MaxHistory),
		volumes: make([]float64, 0, cfg.MaxHistory),
		vwaps:   make([]float64, 0, cfg.MaxHistory),
	}
}

// Update appends one sample to each series, evicting the oldest sample in
// lockstep once MaxHistory is exceeded.
func (e *Engine) Update(price, volume, vwap float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.prices = append(e.prices, price)
	e.volumes = append(e.volumes, volume)
	e.vwaps = append(e.vwaps, vwap)

	if len(e.prices) > e.cfg.MaxHistory {
		e.prices = e.prices[1:]
		e.volumes = e.volumes[1:]
		e.vwaps = e.vwaps[1:]
	}
}

// HistorySize returns the current length of the price series.
func (e *Engine) HistorySize() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.prices)
}

// MinSamples is the history length required before Generate produces a
// non-default signal.
func (e *Engine) MinSamples() int { return e.cfg.minSamples() }

// Generate computes a signal snapshot from the current state. It is a pure
// function of engine state: calling it twice without an intervening Update
// yields identical results.
func (e *Engine) Generate() Signal {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if len(e.prices) < e.cfg.minSamples() {
		return Signal{Signal: Hold, Strength: 0, Reason: "Insufficient data"}
	}

	smaShort := sma(e.prices, e.cfg.ShortMAPeriod)
	smaLong := sma(e.prices, e.cfg.LongMAPeriod)
	r := rsi(e.prices, e.cfg.RSIPeriod)
	mom := momentum(e.prices, e.cfg.MomentumPeriod)
	vol := volatility(e.prices, e.cfg.VolatilityPeriod)

	sig := score(smaShort, smaLong, r, mom, vol)
	return Signal{
		Signal:     sig,
		Strength:   strength(sig, mom),
		Reason:     reason(smaShort, smaLong, r, mom),
		Price:      e.prices[len(e.prices)-1],
		SMAShort:   smaShort,
		SMALong:    smaLong,
		RSI:        r,
		Momentum:   mom,
		Volatility: vol,
	}
}

// score combines the indicator conditions into the discrete signal. High
// volatility moves the score one step toward zero before mapping.
func score(smaShort, smaLong, r, mom, vol float64) SignalType {
	s := 0

	if smaShort > smaLong {
		s++
	} else if smaShort < smaLong {
		s--
	}

	switch {
	case r < 30:
		s += 2
	case r < 40:
		s++
	case r > 70:
		s -= 2
	case r > 60:
		s--
	}

	if mom > 2.0 {
		s++
	} else if mom < -2.0 {
		s--
	}

	if vol > 5.0 {
		if s > 0 {
			s--
		} else if s < 0 {
			s++
		}
	}

	switch {
	case s >= 3:
		return StrongBuy
	case s >= 1:
		return Buy
	case s <= -3:
		return StrongSell
	case s <= -1:
		return Sell
	default:
		return Hold
	}
}

func strength(sig SignalType, mom float64) float64 {
	out := 0.5
	switch sig {
	case StrongBuy, StrongSell:
		out += 0.3
	case Buy, Sell:
		out += 0.2
	}
	momPart := mom
	if momPart < 0 {
		momPart = -momPart
	}
	momPart /= 5.0
	if momPart > 0.2 {
		momPart = 0.2
	}
	out += momPart
	if out > 1.0 {
		out = 1.0
	}
	return out
}

func reason(smaShort, smaLong, r, mom float64) string {
	var b strings.Builder

	if smaShort > smaLong {
		b.WriteString("MA↑")
	} else if smaShort < smaLong {
		b.WriteString("MA↓")
	}

	switch {
	case r < 30:
		b.WriteString(" RSI_OS")
	case r > 70:
		b.WriteString(" RSI_OB")
	case r < 50:
		b.WriteString(" RSI↓")
	default:
		b.WriteString(" RSI↑")
	}

	if mom > 2.0 {
		b.WriteString(" Mom↑")
	} else if mom < -2.0 {
		b.WriteString(" Mom↓")
	}

	return strings.TrimPrefix(b.String(), " ")
}
