package config

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"vwap-reversion-go/strategy/vwapmr"
)

// ParamChange is one runtime parameter-change notification delivered
// to a strategy instance.
type ParamChange struct {
	Symbol string
	Name   string
	Value  any
}

// ChangeHandler receives parameter changes. An error from the handler
// is a fatal configuration error and stops the watcher.
type ChangeHandler func(ParamChange) error

// Watcher 监听配置文件变更，将五个运行时策略参数的差异逐个
// 下发给策略。带冷却时间，避免编辑器多次写入触发重复加载。
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	cooldown time.Duration
	last     time.Time
	prev     AppConfig
	onChange ChangeHandler
	onError  func(error)
}

// NewWatcher creates a watcher for path. current is the config the
// process started with; the first reload is diffed against it.
func NewWatcher(path string, current AppConfig, onChange ChangeHandler, onError func(error)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(path); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch config file: %w", err)
	}
	if onError == nil {
		onError = func(error) {}
	}
	return &Watcher{
		path:     path,
		watcher:  fsw,
		cooldown: 2 * time.Second,
		prev:     current,
		onChange: onChange,
		onError:  onError,
	}, nil
}

// Start processes file events until ctx is done or a handler reports a
// fatal error. Blocking; run it on its own goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	defer w.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if time.Since(w.last) < w.cooldown {
				continue
			}
			w.last = time.Now()
			if err := w.reload(); err != nil {
				return err
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.onError(err)
		}
	}
}

// reload loads the file, diffs the strategy parameters against the
// previous config and emits one notification per changed parameter.
// Load/validation failures are reported via onError and the previous
// config stays in force; a handler error is fatal.
func (w *Watcher) reload() error {
	next, err := Load(w.path)
	if err != nil {
		w.onError(fmt.Errorf("config reload rejected: %w", err))
		return nil
	}
	for _, change := range DiffParams(w.prev, next) {
		if err := w.onChange(change); err != nil {
			return fmt.Errorf("apply %s for %s: %w", change.Name, change.Symbol, err)
		}
	}
	w.prev = next
	return nil
}

// DiffParams lists the per-parameter changes between two configs, in
// the external parameter names the strategy accepts. Symbols missing
// from the new config produce no changes.
func DiffParams(prev, next AppConfig) []ParamChange {
	var changes []ParamChange
	for sym, nc := range next.Symbols {
		pc, ok := prev.Symbols[sym]
		if !ok {
			continue
		}
		o, n := pc.Strategy, nc.Strategy
		if o.VWAPWindowSeconds != n.VWAPWindowSeconds {
			changes = append(changes, ParamChange{sym, vwapmr.ParamWindowSeconds, n.VWAPWindowSeconds})
		}
		if o.EntryThresholdBps != n.EntryThresholdBps {
			changes = append(changes, ParamChange{sym, vwapmr.ParamEntryThreshold, n.EntryThresholdBps})
		}
		if o.MaxInventory != n.MaxInventory {
			changes = append(changes, ParamChange{sym, vwapmr.ParamMaxInventory, n.MaxInventory})
		}
		if o.PositionSize != n.PositionSize {
			changes = append(changes, ParamChange{sym, vwapmr.ParamOrderSize, n.PositionSize})
		}
		if o.DebugEnabled() != n.DebugEnabled() {
			changes = append(changes, ParamChange{sym, vwapmr.ParamDebug, n.DebugEnabled()})
		}
	}
	return changes
}
