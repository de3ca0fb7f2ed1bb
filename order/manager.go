package order

import (
	"errors"
	"fmt"
	"time"
)

// Gateway 提供基础下单/撤单抽象；由执行端（纸面撮合或真实网关）实现。
type Gateway interface {
	Place(req Request) (string, error)
	Cancel(orderID string) error
}

var ErrUnknownOrder = errors.New("unknown order")

// Manager forwards order actions to the Gateway and keeps the working
// order book in sync. It implements the trade-action and working-order
// collaborator surfaces the strategy consumes.
type Manager struct {
	gw   Gateway
	book *Book
}

func NewManager(gw Gateway) *Manager {
	return &Manager{gw: gw, book: NewBook()}
}

// Book exposes the working order view.
func (m *Manager) Book() *Book { return m.book }

// NumWorking implements the working-order count query.
func (m *Manager) NumWorking(symbol string) int { return m.book.NumWorking(symbol) }

// Working implements working-order enumeration.
func (m *Manager) Working(symbol string) []Order { return m.book.Working(symbol) }

// SendNewOrder submits a new order via the Gateway and registers it as
// working.
func (m *Manager) SendNewOrder(req Request) error {
	if req.Type == "" {
		req.Type = TypeMarket
	}
	if req.TimeInForce == "" {
		req.TimeInForce = TIFDay
	}
	if req.Quantity <= 0 {
		return fmt.Errorf("order quantity must be > 0, got %d", req.Quantity)
	}
	id, err := m.gw.Place(req)
	if err != nil {
		return fmt.Errorf("place order: %w", err)
	}
	if id == "" {
		id = generateID("ord")
	}
	m.book.Set(Order{
		ID:       id,
		Symbol:   req.Symbol,
		Side:     req.Side,
		Price:    req.IndicativePrice,
		Quantity: req.Quantity,
		Status:   StatusNew,
	})
	return nil
}

// SendCancelOrder cancels one working order by id.
func (m *Manager) SendCancelOrder(orderID string) error {
	if _, ok := m.book.Get(orderID); !ok {
		return ErrUnknownOrder
	}
	if err := m.gw.Cancel(orderID); err != nil {
		return fmt.Errorf("cancel order %s: %w", orderID, err)
	}
	m.book.Remove(orderID)
	return nil
}

// SendCancelAll cancels every working order for the symbol.
func (m *Manager) SendCancelAll(symbol string) error {
	for _, o := range m.book.Working(symbol) {
		if err := m.SendCancelOrder(o.ID); err != nil {
			return err
		}
	}
	return nil
}

// Apply updates the book from an order update event.
func (m *Manager) Apply(u Update) {
	switch u.UpdateType {
	case UpdateAck:
		if o, ok := m.book.Get(u.OrderID); ok {
			o.Status = StatusAck
			m.book.Set(o)
		}
	case UpdateFill:
		if u.CompletesOrder {
			m.book.Remove(u.OrderID)
		} else if o, ok := m.book.Get(u.OrderID); ok {
			o.Status = StatusPartial
			m.book.Set(o)
		}
	case UpdateCancel, UpdateReject:
		m.book.Remove(u.OrderID)
	}
}

// generateID 简单生成唯一 ID。生产环境应改为雪花/UUID。
func generateID(prefix string) string {
	return prefix + "-" + time.Now().UTC().Format("20060102150405.000000000")
}
