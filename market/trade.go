package market

import "time"

// Trade represents a normalized trade tick.
type Trade struct {
	Symbol string
	Price  float64
	Size   int
	Ts     time.Time
}
