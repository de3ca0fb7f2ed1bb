// Package sim replays a trade tape through the strategy with paper
// execution, standing in for the live host: it delivers trade events
// in order, answers position/quote/working-order queries, and fills
// market orders immediately at their indicative price.
package sim

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"vwap-reversion-go/inventory"
	"vwap-reversion-go/market"
	"vwap-reversion-go/order"
	"vwap-reversion-go/strategy/vwapmr"
)

// Config sets up a replay run.
type Config struct {
	Symbol    string
	Params    vwapmr.Params
	SpreadBps float64     // synthetic quote full spread around the trade price
	Logger    *zap.Logger // optional
}

// Stats summarizes a replay.
type Stats struct {
	Trades        int
	Orders        int
	Fills         int
	Volume        int
	FinalPosition int
	Cash          float64 // signed cash flow from fills
	LastMid       float64
}

// PnL marks the open position at the last mid.
func (s Stats) PnL() float64 {
	return s.Cash + float64(s.FinalPosition)*s.LastMid
}

// Runner drives one symbol's tape through the strategy. It implements
// all four collaborator interfaces itself: positions via the inventory
// tracker, quotes synthesized around the last trade, no resting orders
// (market orders fill instantly), and paper trade actions.
type Runner struct {
	symbol    string
	spreadBps float64
	strat     *vwapmr.Strategy
	inv       *inventory.Tracker
	quote     market.TopQuote
	log       *zap.Logger

	stats   Stats
	nextID  int
	pending []order.Update
}

func NewRunner(cfg Config) (*Runner, error) {
	if cfg.Symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if cfg.SpreadBps <= 0 {
		cfg.SpreadBps = 1.0
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	r := &Runner{
		symbol:    cfg.Symbol,
		spreadBps: cfg.SpreadBps,
		inv:       inventory.NewTracker(),
		log:       log,
	}
	strat, err := vwapmr.New(cfg.Params, vwapmr.Deps{
		Portfolio: r.inv,
		Quotes:    r,
		Working:   r,
		Actions:   r,
		Logger:    log,
		Venue:     "SIM",
	})
	if err != nil {
		return nil, err
	}
	r.strat = strat
	return r, nil
}

// OnTrade feeds one tick: refresh the synthetic quote, dispatch to the
// strategy, then deliver any order updates the fill produced. Updates
// are queued so the strategy sees them as separate events, after its
// own OnTrade has returned, matching the host's event ordering.
func (r *Runner) OnTrade(price float64, size int, ts time.Time) {
	half := price * r.spreadBps / 2.0 / 10000.0
	r.quote = market.TopQuote{Symbol: r.symbol, Bid: price - half, Ask: price + half}
	r.stats.Trades++
	r.stats.LastMid = price

	r.strat.OnTrade(market.Trade{Symbol: r.symbol, Price: price, Size: size, Ts: ts})

	for len(r.pending) > 0 {
		u := r.pending[0]
		r.pending = r.pending[1:]
		r.strat.OnOrderUpdate(u)
	}
}

// Top implements the quote accessor.
func (r *Runner) Top(symbol string) market.TopQuote { return r.quote }

// NumWorking implements the working-order count: market orders never
// rest in the paper host.
func (r *Runner) NumWorking(symbol string) int { return 0 }

// Working implements working-order enumeration.
func (r *Runner) Working(symbol string) []order.Order { return nil }

// SendNewOrder fills the market order immediately at its indicative
// price and applies it to the paper portfolio.
func (r *Runner) SendNewOrder(req order.Request) error {
	signed := req.Quantity
	if req.Side == order.SideSell {
		signed = -signed
	}
	r.inv.ApplyFill(req.Symbol, signed)

	r.nextID++
	id := fmt.Sprintf("sim-%d", r.nextID)
	r.stats.Orders++
	r.stats.Fills++
	r.stats.Volume += req.Quantity
	r.stats.Cash -= req.IndicativePrice * float64(signed)

	r.pending = append(r.pending, order.Update{
		OrderID:        id,
		UpdateType:     order.UpdateFill,
		Reason:         "paper fill",
		Fill:           &order.Fill{Size: req.Quantity, Price: req.IndicativePrice},
		CompletesOrder: true,
		Order: order.Order{
			ID:       id,
			Symbol:   req.Symbol,
			Side:     req.Side,
			Price:    req.IndicativePrice,
			Quantity: req.Quantity,
			Status:   order.StatusFilled,
		},
	})
	return nil
}

// SendCancelOrder is a no-op: nothing rests in the paper host.
func (r *Runner) SendCancelOrder(orderID string) error { return nil }

// SendCancelAll is a no-op for the same reason.
func (r *Runner) SendCancelAll(symbol string) error { return nil }

// Position delegates to the paper portfolio, mainly for tests.
func (r *Runner) Position() int { return r.inv.Position(r.symbol) }

// Reset clears strategy state and the paper portfolio between runs.
func (r *Runner) Reset() {
	r.strat.Reset()
	r.inv.Reset()
	r.quote = market.TopQuote{}
	r.stats = Stats{}
	r.pending = nil
}

// Stats returns the running summary.
func (r *Runner) Stats() Stats {
	s := r.stats
	s.FinalPosition = r.inv.Position(r.symbol)
	return s
}

// Replay 读取 CSV tape（epoch_seconds,price,size，首行可为表头）并逐行
// 回放。时间必须单调不减，由写 tape 的一方保证。
func (r *Runner) Replay(path string) (Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return r.Stats(), fmt.Errorf("open tape: %w", err)
	}
	defer f.Close()
	return r.ReplayFrom(f)
}

// ReplayFrom replays a tape from any reader.
func (r *Runner) ReplayFrom(src io.Reader) (Stats, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = 3
	line := 0
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return r.Stats(), fmt.Errorf("read tape line %d: %w", line+1, err)
		}
		line++
		epoch, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			if line == 1 {
				continue // header row
			}
			return r.Stats(), fmt.Errorf("tape line %d: bad timestamp %q", line, rec[0])
		}
		price, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return r.Stats(), fmt.Errorf("tape line %d: bad price %q", line, rec[1])
		}
		size, err := strconv.Atoi(rec[2])
		if err != nil {
			return r.Stats(), fmt.Errorf("tape line %d: bad size %q", line, rec[2])
		}
		sec, frac := int64(epoch), epoch-float64(int64(epoch))
		r.OnTrade(price, size, time.Unix(sec, int64(frac*1e9)).UTC())
	}
	return r.Stats(), nil
}
