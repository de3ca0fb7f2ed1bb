package gateway

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"vwap-reversion-go/market"
)

// DefaultWSEndpoint 默认行情 WS 端点（Binance futures combined stream 格式）。
const DefaultWSEndpoint = "wss://fstream.binance.com"

// TradeHandler consumes normalized trade ticks, one at a time in
// arrival order. The feed dispatches synchronously from its read loop,
// so handlers see the same single-threaded ordering the strategy
// requires.
type TradeHandler interface {
	OnTrade(t market.Trade)
}

// QuoteCache holds the latest top-of-book per symbol and implements
// the strategy's quote accessor.
type QuoteCache struct {
	mu     sync.RWMutex
	quotes map[string]market.TopQuote
}

func NewQuoteCache() *QuoteCache {
	return &QuoteCache{quotes: make(map[string]market.TopQuote)}
}

func (c *QuoteCache) Set(q market.TopQuote) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quotes[q.Symbol] = q
}

// Top returns the latest quote for symbol; the zero value (one-sided,
// invalid) when none has arrived yet.
func (c *QuoteCache) Top(symbol string) market.TopQuote {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.quotes[symbol]
}

// WSFeed 订阅 aggTrade/bookTicker combined stream 并派发归一化行情。
// 仅提供最小实现：连接 + 解析 + 同步派发；重连由调用方负责。
type WSFeed struct {
	Endpoint string
	Dialer   *websocket.Dialer

	symbols []string
	quotes  *QuoteCache
}

func NewWSFeed() *WSFeed {
	return &WSFeed{
		Endpoint: DefaultWSEndpoint,
		Dialer:   websocket.DefaultDialer,
		quotes:   NewQuoteCache(),
	}
}

// Subscribe adds a symbol's trade and top-of-book streams.
func (f *WSFeed) Subscribe(symbol string) error {
	if symbol == "" {
		return fmt.Errorf("symbol required")
	}
	f.symbols = append(f.symbols, strings.ToLower(symbol))
	return nil
}

// Quotes exposes the quote cache to wire into the strategy.
func (f *WSFeed) Quotes() *QuoteCache { return f.quotes }

// streamURL 构造 combined stream 地址，保留端点自带的 scheme；
// 裸 host（含端口）按 wss 处理。stream 路径分隔符保持原样不转义。
func streamURL(endpoint string, streams []string) (string, error) {
	if !strings.Contains(endpoint, "://") {
		endpoint = "wss://" + endpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint %q: %w", endpoint, err)
	}
	switch u.Scheme {
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported endpoint scheme %q", u.Scheme)
	}
	u.Path = "/stream"
	u.RawQuery = "streams=" + strings.Join(streams, "/")
	return u.String(), nil
}

// Run connects and reads until the context is canceled or the
// connection fails. Trades are dispatched to handler synchronously;
// quotes only update the cache.
func (f *WSFeed) Run(ctx context.Context, handler TradeHandler) error {
	if len(f.symbols) == 0 {
		return fmt.Errorf("no streams subscribed")
	}
	streams := make([]string, 0, len(f.symbols)*2)
	for _, s := range f.symbols {
		streams = append(streams, s+"@aggTrade", s+"@bookTicker")
	}
	addr, err := streamURL(f.Endpoint, streams)
	if err != nil {
		return err
	}

	conn, _, err := f.Dialer.DialContext(ctx, addr, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		trade, quote, err := ParseCombined(message)
		if err != nil {
			continue // tolerate unknown stream payloads
		}
		if quote != nil {
			f.quotes.Set(*quote)
		}
		if trade != nil && handler != nil {
			handler.OnTrade(*trade)
		}
	}
}
