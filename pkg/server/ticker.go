package server

import (
	"fmt"
	"io"

	"apexlob/internal/usecase"
)

// renderTicker writes the single-line live view: book metrics first, then
// the alpha section once the engine has enough history.
func renderTicker(w io.Writer, proc *usecase.TickProcessor) {
	m := proc.Metrics()

	fmt.Fprintf(w, "\r[LOB] Last: %.2f | VWAP: %.2f | Vol: %d",
		m.LastPrice, m.VWAP, m.TotalVolume)
	if m.MessageCount > 0 {
		fmt.Fprintf(w, " | Msg: %d | AvgProc: %.3fms", m.MessageCount, m.AvgProcessingMs)
	}

	minSamples := proc.MinSamples()
	if m.HistorySize < minSamples {
		fmt.Fprintf(w, " | [ALPHA] Collecting data... (%d/%d)", m.HistorySize, minSamples)
		return
	}

	sig := proc.Signal()
	fmt.Fprintf(w, " | [ALPHA] %s (%.1f%%) | RSI: %.1f | Mom: %.2f%% | %s",
		sig.Signal, sig.Strength*100, sig.RSI, sig.Momentum, sig.Reason)
}
