package vwapmr

// Deviation returns the signed distance between mid price and VWAP in
// basis points, positive when mid is above VWAP. Returns 0 when VWAP
// is 0, which guards the zero-volume window before readiness gates it.
func Deviation(mid, vwap float64) float64 {
	if vwap == 0.0 {
		return 0.0
	}
	return ((mid - vwap) / vwap) * 10000.0
}

// DesiredPosition decides the target inventory for the given deviation
// and current position. Pure and deterministic.
//
// Exit comparisons are inclusive (>= / <=) while entries are strict,
// which fixes the hysteresis at zero deviation and at the threshold
// boundary: a long exits the moment deviation touches zero, and no
// entry fires exactly on the threshold.
func DesiredPosition(current int, devBps float64, p Params) int {
	switch {
	case current > 0 && devBps >= 0:
		// Long and price reverted to or through VWAP.
		return 0
	case current < 0 && devBps <= 0:
		return 0
	case abs(current) < p.MaxInventory:
		if devBps < -p.EntryThresholdBps {
			// Price below VWAP, expect reversion up.
			return current + p.OrderSize
		}
		if devBps > p.EntryThresholdBps {
			return current - p.OrderSize
		}
		return current
	default:
		// At or beyond the cap with no exit condition: hold.
		return current
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
