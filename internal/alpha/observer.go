package alpha

import "sync"

// Observer memoizes the last generated signal and reports transitions, so
// downstream sinks can react to changes only instead of every sample. It
// wraps the engine without altering its contract.
type Observer struct {
	mu      sync.Mutex
	engine  *Engine
	last    Signal
	primed  bool
	changes uint64
}

func NewObserver(engine *Engine) *Observer {
	return &Observer{engine: engine}
}

// Engine exposes the wrapped engine for direct reads.
func (o *Observer) Engine() *Engine { return o.engine }

// Observe generates a fresh signal and reports whether the discrete signal
// differs from the previously observed one. The first observation always
// counts as a change.
func (o *Observer) Observe() (Signal, bool) {
	sig := o.engine.Generate()

	o.mu.Lock()
	defer o.mu.Unlock()

	changed := !o.primed || sig.Signal != o.last.Signal
	o.last = sig
	o.primed = true
	if changed {
		o.changes++
	}
	return sig, changed
}

// Last returns the most recently observed signal.
func (o *Observer) Last() Signal {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.last
}

// Changes returns how many signal transitions have been observed.
func (o *Observer) Changes() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.changes
}
