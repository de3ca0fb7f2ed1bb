package gateway

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"vwap-reversion-go/market"
)

// CombinedMessage 对应 combined stream 包装。
type CombinedMessage struct {
	Stream string          `json:"stream"`
	Data   json.RawMessage `json:"data"`
}

// aggTradeMsg 提取 aggTrade 消息的核心字段。
type aggTradeMsg struct {
	Symbol    string      `json:"s"`
	Price     json.Number `json:"p"`
	Quantity  json.Number `json:"q"`
	TradeTime int64       `json:"T"` // epoch millis
}

// bookTickerMsg 提取 bookTicker 消息的核心字段。
type bookTickerMsg struct {
	Symbol string      `json:"s"`
	Bid    json.Number `json:"b"`
	Ask    json.Number `json:"a"`
}

// ParseCombined parses one combined-stream message into a trade tick
// or a top-of-book quote depending on the stream suffix. Exactly one
// of the two results is non-nil on success. Trade sizes are reported
// in integral units and rounded to the nearest int.
func ParseCombined(raw []byte) (*market.Trade, *market.TopQuote, error) {
	var msg CombinedMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, nil, err
	}
	switch {
	case strings.HasSuffix(msg.Stream, "@aggTrade"):
		var at aggTradeMsg
		if err := json.Unmarshal(msg.Data, &at); err != nil {
			return nil, nil, err
		}
		price, err := at.Price.Float64()
		if err != nil {
			return nil, nil, fmt.Errorf("bad trade price %q: %w", at.Price, err)
		}
		qty, err := at.Quantity.Float64()
		if err != nil {
			return nil, nil, fmt.Errorf("bad trade quantity %q: %w", at.Quantity, err)
		}
		return &market.Trade{
			Symbol: at.Symbol,
			Price:  price,
			Size:   int(math.Round(qty)),
			Ts:     time.UnixMilli(at.TradeTime).UTC(),
		}, nil, nil
	case strings.HasSuffix(msg.Stream, "@bookTicker"):
		var bt bookTickerMsg
		if err := json.Unmarshal(msg.Data, &bt); err != nil {
			return nil, nil, err
		}
		bid, err := bt.Bid.Float64()
		if err != nil {
			return nil, nil, fmt.Errorf("bad bid %q: %w", bt.Bid, err)
		}
		ask, err := bt.Ask.Float64()
		if err != nil {
			return nil, nil, fmt.Errorf("bad ask %q: %w", bt.Ask, err)
		}
		return nil, &market.TopQuote{Symbol: bt.Symbol, Bid: bid, Ask: ask}, nil
	default:
		return nil, nil, fmt.Errorf("unknown stream %q", msg.Stream)
	}
}
