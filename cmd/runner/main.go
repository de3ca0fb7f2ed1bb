package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"vwap-reversion-go/config"
	"vwap-reversion-go/gateway"
	"vwap-reversion-go/infrastructure/logger"
	"vwap-reversion-go/inventory"
	"vwap-reversion-go/market"
	"vwap-reversion-go/monitor"
	"vwap-reversion-go/order"
	"vwap-reversion-go/strategy/vwapmr"
)

// 实盘/干跑入口：行情 WS -> 策略 -> 订单网关（默认 dry-run 仅记录）。
func main() {
	cfgPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	symbol := flag.String("symbol", "", "交易 symbol（必填）")
	dryRun := flag.Bool("dryRun", true, "仅日志输出，不真正下单")
	flag.Parse()

	cfg, err := config.LoadWithEnvOverrides(*cfgPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	symbolUpper := strings.ToUpper(*symbol)
	symConf, ok := cfg.Symbols[symbolUpper]
	if !ok {
		log.Fatalf("symbol %s 不在配置中", symbolUpper)
	}

	zl, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer zl.Close()

	mon := monitor.New(monitor.DefaultConfig())
	mon.Serve(cfg.MetricsAddr)

	feed := gateway.NewWSFeed()
	if cfg.Feed.Endpoint != "" {
		feed.Endpoint = cfg.Feed.Endpoint
	}
	if err := feed.Subscribe(symbolUpper); err != nil {
		zl.Fatal("订阅行情失败", zap.Error(err))
	}

	positions := inventory.NewTracker()
	mgr := order.NewManager(newOrderGateway(*dryRun, zl.Logger))

	strat, err := vwapmr.New(toParams(symConf.Strategy), vwapmr.Deps{
		Portfolio: positions,
		Quotes:    feed.Quotes(),
		Working:   mgr,
		Actions:   mgr,
		Logger:    zl.Logger,
		Monitor:   mon,
		Venue:     cfg.Venue,
	})
	if err != nil {
		zl.Fatal("初始化策略失败", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 配置热更新：逐参数下发给策略；类型错误视为致命配置错误。
	watcher, err := config.NewWatcher(*cfgPath, cfg, func(c config.ParamChange) error {
		if c.Symbol != symbolUpper {
			return nil
		}
		return strat.OnParamChange(c.Name, c.Value)
	}, func(err error) {
		zl.Warn("配置重载失败，沿用旧配置", zap.Error(err))
	})
	if err != nil {
		zl.Fatal("初始化配置监听失败", zap.Error(err))
	}
	go func() {
		if err := watcher.Start(ctx); err != nil && ctx.Err() == nil {
			zl.Fatal("配置参数应用失败", zap.Error(err))
		}
	}()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		zl.Info("收到退出信号")
		cancel()
	}()

	zl.Info("策略启动",
		zap.String("symbol", symbolUpper),
		zap.String("venue", cfg.Venue),
		zap.Bool("dry_run", *dryRun))

	if err := feed.Run(ctx, tradeDispatcher{strat}); err != nil && ctx.Err() == nil {
		zl.Fatal("行情连接中断", zap.Error(err))
	}
}

type tradeDispatcher struct {
	strat *vwapmr.Strategy
}

func (d tradeDispatcher) OnTrade(t market.Trade) {
	d.strat.OnTrade(t)
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

// loggingGateway 实现 order.Gateway：dry-run 下仅记录动作。
type loggingGateway struct {
	dryRun bool
	log    *zap.Logger
	nextID int
}

func newOrderGateway(dryRun bool, log *zap.Logger) *loggingGateway {
	return &loggingGateway{dryRun: dryRun, log: log}
}

func (g *loggingGateway) Place(req order.Request) (string, error) {
	g.nextID++
	id := "dry-" + strings.ToLower(string(req.Side)) + "-" + strconv.Itoa(g.nextID)
	g.log.Info("place order",
		zap.String("order_id", id),
		zap.String("symbol", req.Symbol),
		zap.String("side", string(req.Side)),
		zap.Int("quantity", req.Quantity),
		zap.Float64("indicative_price", req.IndicativePrice),
		zap.String("venue", req.Venue),
		zap.Bool("dry_run", g.dryRun))
	return id, nil
}

func (g *loggingGateway) Cancel(orderID string) error {
	g.log.Info("cancel order", zap.String("order_id", orderID), zap.Bool("dry_run", g.dryRun))
	return nil
}
