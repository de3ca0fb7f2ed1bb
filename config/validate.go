package config

import (
	"errors"
	"fmt"
)

// Validate ensures required fields are present.
func Validate(cfg AppConfig) error {
	if cfg.Env == "" {
		return errors.New("env is required")
	}
	if len(cfg.Symbols) == 0 {
		return errors.New("symbols config is required")
	}
	for sym, sc := range cfg.Symbols {
		st := sc.Strategy
		if st.VWAPWindowSeconds <= 0 {
			return fmt.Errorf("symbol %s strategy.vwapWindowSeconds must be > 0", sym)
		}
		if st.EntryThresholdBps <= 0 {
			return fmt.Errorf("symbol %s strategy.entryThresholdBps must be > 0", sym)
		}
		if st.MaxInventory <= 0 {
			return fmt.Errorf("symbol %s strategy.maxInventory must be > 0", sym)
		}
		if st.PositionSize <= 0 {
			return fmt.Errorf("symbol %s strategy.positionSize must be > 0", sym)
		}
		if st.PositionSize > st.MaxInventory {
			return fmt.Errorf("symbol %s strategy.positionSize must not exceed maxInventory", sym)
		}
	}
	return nil
}
