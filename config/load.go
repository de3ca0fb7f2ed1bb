package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"vwap-reversion-go/infrastructure/logger"
)

// AppConfig holds the main runtime configuration.
type AppConfig struct {
	Env         string                  `yaml:"env"`
	Venue       string                  `yaml:"venue"`
	MetricsAddr string                  `yaml:"metricsAddr"`
	Feed        FeedConfig              `yaml:"feed"`
	Logger      logger.Config           `yaml:"logger"`
	Symbols     map[string]SymbolConfig `yaml:"symbols"`
}

// FeedConfig selects the market data endpoint.
type FeedConfig struct {
	Endpoint string `yaml:"endpoint"`
}

// SymbolConfig carries the per-instrument strategy parameters.
type SymbolConfig struct {
	Strategy StrategyParams `yaml:"strategy"`
}

// StrategyParams mirrors the five externally settable strategy
// parameters (see strategy/vwapmr).
type StrategyParams struct {
	VWAPWindowSeconds int     `yaml:"vwapWindowSeconds"` // rolling window length
	EntryThresholdBps float64 `yaml:"entryThresholdBps"` // deviation to enter
	MaxInventory      int     `yaml:"maxInventory"`      // absolute position cap
	PositionSize      int     `yaml:"positionSize"`      // units per order
	// Pointer so an absent key defaults to on while an explicit
	// `debug: false` stays off.
	Debug *bool `yaml:"debug"` // diagnostic logging
}

// DebugEnabled resolves the debug flag, defaulting to on when unset.
func (sp StrategyParams) DebugEnabled() bool {
	return sp.Debug == nil || *sp.Debug
}

// Load reads YAML config from path and applies basic validation.
func Load(path string) (AppConfig, error) {
	var cfg AppConfig
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}
	applyDefaults(&cfg)
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadWithEnvOverrides loads config then overrides select fields from
// env vars if present.
func LoadWithEnvOverrides(path string) (AppConfig, error) {
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if v := os.Getenv("VR_FEED_ENDPOINT"); v != "" {
		cfg.Feed.Endpoint = v
	}
	if v := os.Getenv("VR_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	return cfg, Validate(cfg)
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Logger.Level == "" {
		cfg.Logger = logger.DefaultConfig()
	}
	for sym, sc := range cfg.Symbols {
		if sc.Strategy.VWAPWindowSeconds == 0 {
			sc.Strategy.VWAPWindowSeconds = 300
		}
		if sc.Strategy.EntryThresholdBps == 0 {
			sc.Strategy.EntryThresholdBps = 0.1
		}
		if sc.Strategy.MaxInventory == 0 {
			sc.Strategy.MaxInventory = 5
		}
		if sc.Strategy.PositionSize == 0 {
			sc.Strategy.PositionSize = 1
		}
		if sc.Strategy.Debug == nil {
			on := true
			sc.Strategy.Debug = &on
		}
		cfg.Symbols[sym] = sc
	}
}
