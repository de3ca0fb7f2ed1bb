package market

import "time"

// tradeRecord is one entry in the VWAP window. Records are owned
// exclusively by the window and discarded on pruning.
type tradeRecord struct {
	ts     time.Time
	price  float64
	volume int
}

// minTradesReady is the record-count floor for readiness. Below it the
// window must span the full configured length before VWAP is trusted.
const minTradesReady = 3

// VWAPWindow maintains a time-bounded window of trade records together
// with the running sums needed to compute VWAP in constant time:
// cumPV = Σ(price*volume) and cumVolume = Σ volume over exactly the
// records currently held. Every insertion and removal updates both
// sums with the structural change.
//
// Trades must be added in non-decreasing timestamp order; pruning only
// ever pops from the front.
type VWAPWindow struct {
	windowSeconds int
	records       []tradeRecord
	cumPV         float64
	cumVolume     int64
}

// NewVWAPWindow creates a window covering windowSeconds of trades.
func NewVWAPWindow(windowSeconds int) *VWAPWindow {
	return &VWAPWindow{windowSeconds: windowSeconds}
}

// Add appends a trade and updates both accumulators. Price/volume sign
// is not validated; signed-size ticks are accumulated as reported.
func (w *VWAPWindow) Add(price float64, volume int, ts time.Time) {
	w.records = append(w.records, tradeRecord{ts: ts, price: price, volume: volume})
	w.cumPV += price * float64(volume)
	w.cumVolume += int64(volume)
}

// PruneBefore removes records strictly older than cutoff from the
// front, subtracting their contribution from both accumulators.
// Returns the number of records removed.
func (w *VWAPWindow) PruneBefore(cutoff time.Time) int {
	removed := 0
	for len(w.records) > 0 && w.records[0].ts.Before(cutoff) {
		old := w.records[0]
		w.cumPV -= old.price * float64(old.volume)
		w.cumVolume -= int64(old.volume)
		w.records = w.records[1:]
		removed++
	}
	if len(w.records) == 0 {
		// Drop the consumed backing array once the window empties.
		w.records = nil
	}
	return removed
}

// VWAP returns cumPV/cumVolume, or 0 when no volume is in the window.
func (w *VWAPWindow) VWAP() float64 {
	if w.cumVolume == 0 {
		return 0.0
	}
	return w.cumPV / float64(w.cumVolume)
}

// Ready reports whether the window holds enough history to trust the
// VWAP: at least minTradesReady records, or oldest-to-newest span of
// at least the configured window length. With a single record the span
// is zero, so readiness below the count floor needs two or more
// records covering the full window.
func (w *VWAPWindow) Ready() bool {
	if len(w.records) >= minTradesReady {
		return true
	}
	if len(w.records) == 0 {
		return false
	}
	span := w.records[len(w.records)-1].ts.Sub(w.records[0].ts)
	return span >= time.Duration(w.windowSeconds)*time.Second
}

// Reset clears the window and zeroes both accumulators.
func (w *VWAPWindow) Reset() {
	w.records = nil
	w.cumPV = 0.0
	w.cumVolume = 0
}

// Size returns the number of records currently in the window.
func (w *VWAPWindow) Size() int {
	return len(w.records)
}

// Volume returns the cumulative volume currently in the window.
func (w *VWAPWindow) Volume() int64 {
	return w.cumVolume
}

// WindowSeconds returns the configured window length.
func (w *VWAPWindow) WindowSeconds() int {
	return w.windowSeconds
}

// SetWindowSeconds updates the window length. Existing records are
// kept; the next prune applies the new cutoff.
func (w *VWAPWindow) SetWindowSeconds(seconds int) {
	w.windowSeconds = seconds
}
