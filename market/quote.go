package market

// TopQuote is a top-of-book snapshot. A missing side is reported as 0.
type TopQuote struct {
	Symbol string
	Bid    float64
	Ask    float64
}

// TwoSided reports whether both sides of the quote are present and
// well formed. Evaluation steps that need a mid price must check this
// first and skip the event when it fails.
func (q TopQuote) TwoSided() bool {
	return q.Bid > 0 && q.Ask > 0
}

// Mid returns the quote midpoint. Only meaningful when TwoSided.
func (q TopQuote) Mid() float64 {
	return (q.Bid + q.Ask) / 2.0
}
