// Package monitor provides Prometheus metrics for the strategy core.
package monitor

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Monitor Prometheus监控指标收集器。所有方法对 nil 接收者安全，
// 便于在回测/测试中不接监控直接运行。
type Monitor struct {
	registry *prometheus.Registry

	// 窗口/信号指标
	windowSize   prometheus.Gauge
	vwap         prometheus.Gauge
	deviationBps prometheus.Gauge
	position     prometheus.Gauge
	signals      *prometheus.CounterVec

	// 订单指标
	ordersSubmitted *prometheus.CounterVec
	ordersCanceled  prometheus.Counter
	fills           prometheus.Counter
	skips           prometheus.Counter
}

// Config 监控配置
type Config struct {
	Namespace string
	Subsystem string
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{Namespace: "vwapmr", Subsystem: "strategy"}
}

// New 创建新的Monitor实例
func New(cfg Config) *Monitor {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Monitor{
		registry: reg,
		windowSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace, Subsystem: cfg.Subsystem,
			Name: "window_size", Help: "Number of trades in the VWAP window",
		}),
		vwap: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace, Subsystem: cfg.Subsystem,
			Name: "vwap", Help: "Current rolling VWAP",
		}),
		deviationBps: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace, Subsystem: cfg.Subsystem,
			Name: "deviation_bps", Help: "Mid price deviation from VWAP in basis points",
		}),
		position: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace, Subsystem: cfg.Subsystem,
			Name: "position", Help: "Current signed inventory",
		}),
		signals: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace, Subsystem: cfg.Subsystem,
			Name: "signals_total", Help: "Decision signals by kind",
		}, []string{"kind"}),
		ordersSubmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace, Subsystem: cfg.Subsystem,
			Name: "orders_submitted_total", Help: "Market orders submitted by side",
		}, []string{"side"}),
		ordersCanceled: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace, Subsystem: cfg.Subsystem,
			Name: "orders_canceled_total", Help: "Cancel requests issued",
		}),
		fills: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace, Subsystem: cfg.Subsystem,
			Name: "fills_total", Help: "Fill updates observed",
		}),
		skips: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace, Subsystem: cfg.Subsystem,
			Name: "skipped_events_total", Help: "Events skipped on invalid or one-sided quotes",
		}),
	}
}

// Handler returns the /metrics HTTP handler for this registry.
func (m *Monitor) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve 启动Prometheus指标服务器（addr 为空则不启动）。
func (m *Monitor) Serve(addr string) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	go func() {
		_ = http.ListenAndServe(addr, mux)
	}()
}

func (m *Monitor) SetWindow(size int, vwap float64) {
	if m == nil {
		return
	}
	m.windowSize.Set(float64(size))
	m.vwap.Set(vwap)
}

func (m *Monitor) SetDeviation(devBps float64) {
	if m == nil {
		return
	}
	m.deviationBps.Set(devBps)
}

func (m *Monitor) SetPosition(position int) {
	if m == nil {
		return
	}
	m.position.Set(float64(position))
}

func (m *Monitor) IncSignal(kind string) {
	if m == nil {
		return
	}
	m.signals.WithLabelValues(kind).Inc()
}

func (m *Monitor) IncOrderSubmitted(side string) {
	if m == nil {
		return
	}
	m.ordersSubmitted.WithLabelValues(side).Inc()
}

func (m *Monitor) IncOrderCanceled() {
	if m == nil {
		return
	}
	m.ordersCanceled.Inc()
}

func (m *Monitor) IncFill() {
	if m == nil {
		return
	}
	m.fills.Inc()
}

func (m *Monitor) IncSkip() {
	if m == nil {
		return
	}
	m.skips.Inc()
}
