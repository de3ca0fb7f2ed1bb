package inventory

import "sync"

// Tracker 维护各 instrument 的净仓位（带符号的整数库存）。
// 策略每次决策前都从这里读取最新仓位，自身不保存仓位状态。
type Tracker struct {
	mu  sync.RWMutex
	net map[string]int
}

func NewTracker() *Tracker {
	return &Tracker{net: make(map[string]int)}
}

// ApplyFill adjusts the position by a signed fill quantity
// (positive = bought, negative = sold).
func (t *Tracker) ApplyFill(symbol string, deltaQty int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.net[symbol] += deltaQty
	if t.net[symbol] == 0 {
		delete(t.net, symbol)
	}
}

// Position returns the current signed inventory for symbol.
func (t *Tracker) Position(symbol string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.net[symbol]
}

// Reset clears all positions.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.net = make(map[string]int)
}
