package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"vwap-reversion-go/config"
	"vwap-reversion-go/sim"
	"vwap-reversion-go/strategy/vwapmr"
)

// 支持多 symbol + 配置驱动的回放脚本。
// 用法：
//
//	go run ./cmd/backtest -config configs/config.yaml -tapes ESZ4:data/esz4.csv,NQZ4:data/nqz4.csv -out summaries.csv
func main() {
	cfgPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	tapes := flag.String("tapes", "", "symbol:csv 列表，逗号分隔")
	spreadBps := flag.Float64("spreadBps", 1.0, "合成报价的全价差（bps）")
	outPath := flag.String("out", "", "若指定则写入 CSV 汇总")
	flag.Parse()

	cfg, err := config.LoadWithEnvOverrides(*cfgPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	entries := parseTapes(*tapes)
	if len(entries) == 0 {
		log.Fatal("未指定任何 symbol:csv")
	}

	var results []result
	for _, entry := range entries {
		sym := strings.ToUpper(entry.symbol)
		symConf, ok := cfg.Symbols[sym]
		if !ok {
			log.Printf("symbol %s 不在配置中，跳过", sym)
			continue
		}
		runner, err := sim.NewRunner(sim.Config{
			Symbol:    sym,
			Params:    toParams(symConf.Strategy),
			SpreadBps: *spreadBps,
		})
		if err != nil {
			log.Printf("symbol %s 初始化失败: %v", sym, err)
			continue
		}
		stats, err := runner.Replay(entry.path)
		if err != nil {
			log.Printf("symbol %s 回放 %s 失败: %v", sym, entry.path, err)
			continue
		}
		log.Printf("symbol=%s trades=%d orders=%d fills=%d volume=%d position=%d pnl=%.4f",
			sym, stats.Trades, stats.Orders, stats.Fills, stats.Volume, stats.FinalPosition, stats.PnL())
		results = append(results, result{Symbol: sym, Stats: stats})
	}

	if *outPath != "" {
		if err := writeSummaryCSV(*outPath, results); err != nil {
			log.Fatalf("写入汇总失败: %v", err)
		}
	}
}

type result struct {
	Symbol string
	Stats  sim.Stats
}

type tapeEntry struct {
	symbol string
	path   string
}

func parseTapes(list string) []tapeEntry {
	var entries []tapeEntry
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		parts := strings.SplitN(item, ":", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			continue
		}
		entries = append(entries, tapeEntry{symbol: parts[0], path: parts[1]})
	}
	return entries
}

func toParams(sp config.StrategyParams) vwapmr.Params {
	return vwapmr.Params{
		WindowSeconds:     sp.VWAPWindowSeconds,
		EntryThresholdBps: sp.EntryThresholdBps,
		MaxInventory:      sp.MaxInventory,
		OrderSize:         sp.PositionSize,
		Debug:             sp.DebugEnabled(),
	}
}

func writeSummaryCSV(path string, results []result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	if err := w.Write([]string{"symbol", "trades", "orders", "fills", "volume", "position", "pnl"}); err != nil {
		return err
	}
	for _, r := range results {
		rec := []string{
			r.Symbol,
			strconv.Itoa(r.Stats.Trades),
			strconv.Itoa(r.Stats.Orders),
			strconv.Itoa(r.Stats.Fills),
			strconv.Itoa(r.Stats.Volume),
			strconv.Itoa(r.Stats.FinalPosition),
			fmt.Sprintf("%.4f", r.Stats.PnL()),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
