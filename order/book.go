package order

import "sync"

// Book tracks working orders: submitted but not yet filled or
// canceled. It backs the working-order queries the strategy makes
// before deciding on an order action.
type Book struct {
	mu     sync.RWMutex
	orders map[string]Order
	seq    []string // insertion order, so enumeration is stable
}

func NewBook() *Book {
	return &Book{orders: make(map[string]Order)}
}

func (b *Book) Set(o Order) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.orders[o.ID]; !exists {
		b.seq = append(b.seq, o.ID)
	}
	b.orders[o.ID] = o
}

func (b *Book) Get(id string) (Order, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	o, ok := b.orders[id]
	return o, ok
}

// Remove drops a completed or canceled order.
func (b *Book) Remove(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.orders[id]; !ok {
		return
	}
	delete(b.orders, id)
	for i, sid := range b.seq {
		if sid == id {
			b.seq = append(b.seq[:i], b.seq[i+1:]...)
			break
		}
	}
}

// NumWorking returns the number of working orders for symbol.
func (b *Book) NumWorking(symbol string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 0
	for _, o := range b.orders {
		if o.Symbol == symbol {
			n++
		}
	}
	return n
}

// Working returns the working orders for symbol in submission order.
func (b *Book) Working(symbol string) []Order {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var res []Order
	for _, id := range b.seq {
		if o, ok := b.orders[id]; ok && o.Symbol == symbol {
			res = append(res, o)
		}
	}
	return res
}
