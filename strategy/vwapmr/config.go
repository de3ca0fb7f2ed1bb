package vwapmr

import "fmt"

// External parameter names accepted by Apply. These are the runtime
// parameter surface exposed to the host and kept stable across
// deployments.
const (
	ParamWindowSeconds  = "vwap_window_seconds"
	ParamEntryThreshold = "entry_threshold_bps"
	ParamMaxInventory   = "max_inventory"
	ParamOrderSize      = "position_size"
	ParamDebug          = "debug"
)

// Params holds the externally settable strategy parameters. They are
// consulted by every decision and mutated only through Apply.
type Params struct {
	WindowSeconds     int     // rolling VWAP window length in seconds
	EntryThresholdBps float64 // deviation needed to enter a position
	MaxInventory      int     // absolute inventory cap
	OrderSize         int     // units per entry order
	Debug             bool    // enable diagnostic logging
}

// DefaultParams returns the stock parameter set: a 5 minute window,
// 0.1 bps entry threshold, inventory cap of 5, one unit per order.
func DefaultParams() Params {
	return Params{
		WindowSeconds:     300,
		EntryThresholdBps: 0.1,
		MaxInventory:      5,
		OrderSize:         1,
		Debug:             true,
	}
}

// Validate ensures the parameter set is usable.
func (p Params) Validate() error {
	if p.WindowSeconds <= 0 {
		return fmt.Errorf("vwap_window_seconds must be > 0, got %d", p.WindowSeconds)
	}
	if p.EntryThresholdBps <= 0 {
		return fmt.Errorf("entry_threshold_bps must be > 0, got %f", p.EntryThresholdBps)
	}
	if p.MaxInventory <= 0 {
		return fmt.Errorf("max_inventory must be > 0, got %d", p.MaxInventory)
	}
	if p.OrderSize <= 0 {
		return fmt.Errorf("position_size must be > 0, got %d", p.OrderSize)
	}
	return nil
}

// Apply updates one parameter by its external name. A value whose type
// cannot be coerced for a known name is a configuration error; the
// strategy must be considered misconfigured when that happens. Unknown
// names are ignored.
func (p *Params) Apply(name string, value any) error {
	switch name {
	case ParamWindowSeconds:
		v, ok := toInt(value)
		if !ok {
			return typeError(name, "int", value)
		}
		p.WindowSeconds = v
	case ParamEntryThreshold:
		v, ok := toFloat(value)
		if !ok {
			return typeError(name, "float", value)
		}
		p.EntryThresholdBps = v
	case ParamMaxInventory:
		v, ok := toInt(value)
		if !ok {
			return typeError(name, "int", value)
		}
		p.MaxInventory = v
	case ParamOrderSize:
		v, ok := toInt(value)
		if !ok {
			return typeError(name, "int", value)
		}
		p.OrderSize = v
	case ParamDebug:
		v, ok := value.(bool)
		if !ok {
			return typeError(name, "bool", value)
		}
		p.Debug = v
	}
	return nil
}

func typeError(name, want string, value any) error {
	return fmt.Errorf("parameter %s: expected %s, got %T", name, want, value)
}

func toInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	}
	return 0, false
}
