// Package vwapmr implements a VWAP mean-reversion strategy: it tracks
// the volume-weighted average price over a rolling window, measures
// the live deviation of the mid price from it, and trades toward the
// reversion while keeping inventory inside a hard cap.
package vwapmr

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"vwap-reversion-go/market"
	"vwap-reversion-go/monitor"
	"vwap-reversion-go/order"
)

// Portfolio exposes the externally owned position. The strategy reads
// it fresh before every decision and never stores position itself.
type Portfolio interface {
	Position(symbol string) int
}

// Quotes exposes the current top-of-book per symbol, read
// synchronously while evaluating a trade.
type Quotes interface {
	Top(symbol string) market.TopQuote
}

// WorkingOrders enumerates submitted-but-unfilled orders.
type WorkingOrders interface {
	NumWorking(symbol string) int
	Working(symbol string) []order.Order
}

// TradeActions submits order actions to the execution collaborator.
type TradeActions interface {
	SendNewOrder(req order.Request) error
	SendCancelOrder(orderID string) error
	SendCancelAll(symbol string) error
}

// Deps are the host collaborators the strategy is wired to.
type Deps struct {
	Portfolio Portfolio
	Quotes    Quotes
	Working   WorkingOrders
	Actions   TradeActions
	Logger    *zap.Logger      // optional
	Monitor   *monitor.Monitor // optional
	Venue     string           // routing venue for new orders
}

// DefaultVenue is used when Deps.Venue is empty.
const DefaultVenue = "SIM"

// Strategy is the decision core. It is driven synchronously by the
// host event dispatch, one event at a time in non-decreasing timestamp
// order; it owns the window and parameters exclusively and holds no
// locks of its own. Ordering is a caller contract.
type Strategy struct {
	params Params
	window *market.VWAPWindow

	portfolio Portfolio
	quotes    Quotes
	working   WorkingOrders
	actions   TradeActions

	venue string
	log   *zap.Logger
	mon   *monitor.Monitor
}

// New validates the parameters and wires the strategy to its
// collaborators.
func New(p Params, deps Deps) (*Strategy, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}
	if deps.Portfolio == nil || deps.Quotes == nil || deps.Working == nil || deps.Actions == nil {
		return nil, fmt.Errorf("portfolio, quotes, working and actions collaborators are required")
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	venue := deps.Venue
	if venue == "" {
		venue = DefaultVenue
	}
	return &Strategy{
		params:    p,
		window:    market.NewVWAPWindow(p.WindowSeconds),
		portfolio: deps.Portfolio,
		quotes:    deps.Quotes,
		working:   deps.Working,
		actions:   deps.Actions,
		venue:     venue,
		log:       log,
		mon:       deps.Monitor,
	}, nil
}

// Params returns a copy of the current parameter set.
func (s *Strategy) Params() Params { return s.params }

// OnTrade runs the full decision pipeline for one trade tick: window
// update, prune, readiness gate, deviation, desired position, and at
// most one order action.
func (s *Strategy) OnTrade(t market.Trade) {
	s.window.Add(t.Price, t.Size, t.Ts)
	if s.params.Debug {
		s.log.Debug("trade added to window",
			zap.Float64("price", t.Price),
			zap.Int("size", t.Size),
			zap.Int("window_size", s.window.Size()),
			zap.Float64("vwap", s.window.VWAP()))
	}

	cutoff := t.Ts.Add(-time.Duration(s.params.WindowSeconds) * time.Second)
	if removed := s.window.PruneBefore(cutoff); removed > 0 && s.params.Debug {
		s.log.Debug("pruned old trades",
			zap.Int("removed", removed),
			zap.Int("window_size", s.window.Size()))
	}
	s.mon.SetWindow(s.window.Size(), s.window.VWAP())

	if !s.window.Ready() {
		if s.params.Debug {
			s.log.Debug("vwap window not ready",
				zap.String("symbol", t.Symbol),
				zap.Int("window_size", s.window.Size()))
		}
		return
	}

	vwap := s.window.VWAP()
	quote := s.quotes.Top(t.Symbol)
	if !quote.TwoSided() {
		s.mon.IncSkip()
		if s.params.Debug {
			s.log.Debug("invalid quote, skipping", zap.String("symbol", t.Symbol))
		}
		return
	}

	mid := quote.Mid()
	devBps := Deviation(mid, vwap)
	current := s.portfolio.Position(t.Symbol)

	if s.params.Debug {
		s.log.Debug("trade evaluated",
			zap.String("symbol", t.Symbol),
			zap.Int("trade_size", t.Size),
			zap.Float64("trade_price", t.Price),
			zap.Float64("mid", mid),
			zap.Float64("vwap", vwap),
			zap.Float64("deviation_bps", devBps),
			zap.Int("position", current))
	}
	s.mon.SetDeviation(devBps)
	s.mon.SetPosition(current)

	desired := DesiredPosition(current, devBps, s.params)
	s.logSignal(current, desired, devBps)

	s.adjustPortfolio(t.Symbol, desired, quote)
}

// logSignal records the decision kind for diagnostics and metrics.
func (s *Strategy) logSignal(current, desired int, devBps float64) {
	var kind string
	switch {
	case current > 0 && devBps >= 0:
		kind = "exit_long"
	case current < 0 && devBps <= 0:
		kind = "exit_short"
	case desired > current:
		kind = "entry_buy"
	case desired < current:
		kind = "entry_sell"
	default:
		kind = "hold"
	}
	s.mon.IncSignal(kind)
	if !s.params.Debug || kind == "hold" {
		return
	}
	s.log.Debug("signal",
		zap.String("kind", kind),
		zap.Int("position", current),
		zap.Int("desired", desired),
		zap.Float64("deviation_bps", devBps))
}

// adjustPortfolio diffs desired against the live position and issues
// at most one order action: submit, cancel the conflicting working
// order, cancel all when flat is already achieved, or nothing.
func (s *Strategy) adjustPortfolio(symbol string, desired int, quote market.TopQuote) {
	current := s.portfolio.Position(symbol)
	tradeSize := desired - current

	if tradeSize == 0 {
		// Desired state achieved; no resting exposure wanted.
		if s.working.NumWorking(symbol) > 0 {
			if err := s.actions.SendCancelAll(symbol); err != nil {
				s.log.Error("cancel all failed", zap.String("symbol", symbol), zap.Error(err))
				return
			}
			s.mon.IncOrderCanceled()
			if s.params.Debug {
				s.log.Debug("canceled working orders at desired position", zap.String("symbol", symbol))
			}
		}
		return
	}

	if s.working.NumWorking(symbol) == 0 {
		s.sendOrder(symbol, tradeSize, quote)
		return
	}

	working := s.working.Working(symbol)
	if len(working) == 0 {
		return
	}
	w := working[0]
	if (w.Side == order.SideBuy && tradeSize < 0) || (w.Side == order.SideSell && tradeSize > 0) {
		// Flipping sides: cancel instead of stacking a conflicting order.
		if err := s.actions.SendCancelOrder(w.ID); err != nil {
			s.log.Error("cancel failed",
				zap.String("symbol", symbol),
				zap.String("order_id", w.ID),
				zap.Error(err))
			return
		}
		s.mon.IncOrderCanceled()
		if s.params.Debug {
			s.log.Debug("canceled conflicting working order",
				zap.String("symbol", symbol),
				zap.String("order_id", w.ID))
		}
	}
	// Same side: let the working order work.
}

// sendOrder submits a market order for the signed trade size, priced
// indicatively at the touch.
func (s *Strategy) sendOrder(symbol string, tradeSize int, quote market.TopQuote) {
	if !quote.TwoSided() {
		s.mon.IncSkip()
		s.log.Debug("skipping order, no two sided quote", zap.String("symbol", symbol))
		return
	}

	side := order.SideBuy
	price := quote.Ask // market buy executes at ask or better
	if tradeSize < 0 {
		side = order.SideSell
		price = quote.Bid
	}

	req := order.Request{
		Symbol:          symbol,
		Quantity:        abs(tradeSize),
		IndicativePrice: price,
		Venue:           s.venue,
		Side:            side,
		TimeInForce:     order.TIFDay,
		Type:            order.TypeMarket,
	}
	if err := s.actions.SendNewOrder(req); err != nil {
		s.log.Error("order submit failed",
			zap.String("symbol", symbol),
			zap.String("side", string(side)),
			zap.Error(err))
		return
	}
	s.mon.IncOrderSubmitted(string(side))
	if s.params.Debug {
		s.log.Debug("sent market order",
			zap.String("symbol", symbol),
			zap.String("side", string(side)),
			zap.Int("quantity", abs(tradeSize)),
			zap.Float64("indicative_price", price))
	}
}

// OnOrderUpdate consumes order events for observability only. It does
// not feed back into position logic.
func (s *Strategy) OnOrderUpdate(u order.Update) {
	if u.UpdateType == order.UpdateFill {
		s.mon.IncFill()
	}
	if !s.params.Debug {
		return
	}
	fields := []zap.Field{
		zap.String("order_id", u.OrderID),
		zap.String("update_type", string(u.UpdateType)),
		zap.String("reason", u.Reason),
	}
	if u.Fill != nil {
		fields = append(fields,
			zap.Int("fill_size", u.Fill.Size),
			zap.Float64("fill_price", u.Fill.Price))
	}
	if u.CompletesOrder {
		fields = append(fields,
			zap.Bool("order_complete", true),
			zap.Int("position", s.portfolio.Position(u.Order.Symbol)))
	}
	s.log.Debug("order update", fields...)
}

// OnParamChange applies one runtime parameter change. A coercion
// failure is a fatal configuration error and is returned to the host.
func (s *Strategy) OnParamChange(name string, value any) error {
	if err := s.params.Apply(name, value); err != nil {
		return err
	}
	if name == ParamWindowSeconds {
		s.window.SetWindowSeconds(s.params.WindowSeconds)
	}
	if s.params.Debug {
		s.log.Debug("parameter changed", zap.String("name", name), zap.Any("value", value))
	}
	return nil
}

// Reset clears the window and accumulators. Called when strategy state
// is externally reset, e.g. between backtest runs.
func (s *Strategy) Reset() {
	s.window.Reset()
	if s.params.Debug {
		s.log.Debug("strategy state reset")
	}
}
