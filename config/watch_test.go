package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vwap-reversion-go/strategy/vwapmr"
)

func boolPtr(b bool) *bool { return &b }

func baseConfig() AppConfig {
	return AppConfig{
		Env: "test",
		Symbols: map[string]SymbolConfig{
			"ESZ4": {Strategy: StrategyParams{
				VWAPWindowSeconds: 300,
				EntryThresholdBps: 2.0,
				MaxInventory:      5,
				PositionSize:      1,
				Debug:             boolPtr(true),
			}},
		},
	}
}

func TestDiffParams_NoChanges(t *testing.T) {
	cfg := baseConfig()
	assert.Empty(t, DiffParams(cfg, cfg))
}

func TestDiffParams_EachField(t *testing.T) {
	prev := baseConfig()
	next := baseConfig()
	sc := next.Symbols["ESZ4"]
	sc.Strategy.VWAPWindowSeconds = 60
	sc.Strategy.EntryThresholdBps = 1.5
	sc.Strategy.MaxInventory = 10
	sc.Strategy.PositionSize = 2
	sc.Strategy.Debug = boolPtr(false)
	next.Symbols["ESZ4"] = sc

	changes := DiffParams(prev, next)
	assert.Len(t, changes, 5)

	byName := map[string]any{}
	for _, c := range changes {
		assert.Equal(t, "ESZ4", c.Symbol)
		byName[c.Name] = c.Value
	}
	assert.Equal(t, 60, byName[vwapmr.ParamWindowSeconds])
	assert.Equal(t, 1.5, byName[vwapmr.ParamEntryThreshold])
	assert.Equal(t, 10, byName[vwapmr.ParamMaxInventory])
	assert.Equal(t, 2, byName[vwapmr.ParamOrderSize])
	assert.Equal(t, false, byName[vwapmr.ParamDebug])
}

func TestDiffParams_NewSymbolIgnored(t *testing.T) {
	prev := baseConfig()
	next := baseConfig()
	next.Symbols["NQZ4"] = SymbolConfig{Strategy: StrategyParams{
		VWAPWindowSeconds: 300, EntryThresholdBps: 1.0, MaxInventory: 3, PositionSize: 1,
	}}

	assert.Empty(t, DiffParams(prev, next))
}

// The diffed values must round-trip through the strategy's parameter
// coercion without type errors.
func TestDiffParams_ValuesApplyCleanly(t *testing.T) {
	prev := baseConfig()
	next := baseConfig()
	sc := next.Symbols["ESZ4"]
	sc.Strategy.VWAPWindowSeconds = 60
	sc.Strategy.EntryThresholdBps = 1.5
	next.Symbols["ESZ4"] = sc

	p := vwapmr.DefaultParams()
	for _, c := range DiffParams(prev, next) {
		assert.NoError(t, p.Apply(c.Name, c.Value))
	}
	assert.Equal(t, 60, p.WindowSeconds)
	assert.Equal(t, 1.5, p.EntryThresholdBps)
}
