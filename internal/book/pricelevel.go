package book

import (
	"github.com/shopspring/decimal"

	"github.com/akaibo/orderbook/internal/types"
)

// PriceLevel holds all resting orders at one exact price on one side of the
// book, in strict arrival order. A level is never kept around empty: the
// book removes it as soon as its last order is dequeued.
type PriceLevel struct {
	Price  decimal.Decimal
	orders []*types.Order
}

func newPriceLevel(price decimal.Decimal) *PriceLevel {
	return &PriceLevel{Price: price}
}

// Append adds an order to the FIFO tail.
func (l *PriceLevel) Append(order *types.Order) {
	l.orders = append(l.orders, order)
}

// Peek returns the oldest order at this price without removing it, or nil
// if the level is empty.
func (l *PriceLevel) Peek() *types.Order {
	if len(l.orders) == 0 {
		return nil
	}
	return l.orders[0]
}

// Pop removes and returns the oldest order, or nil if the level is empty.
func (l *PriceLevel) Pop() *types.Order {
	if len(l.orders) == 0 {
		return nil
	}
	head := l.orders[0]
	l.orders[0] = nil
	l.orders = l.orders[1:]
	return head
}

func (l *PriceLevel) Empty() bool {
	return len(l.orders) == 0
}

func (l *PriceLevel) Len() int {
	return len(l.orders)
}

// Orders returns the resting orders in arrival order. The slice is a copy;
// the orders themselves are the live book entries.
func (l *PriceLevel) Orders() []*types.Order {
	out := make([]*types.Order, len(l.orders))
	copy(out, l.orders)
	return out
}

// TotalQuantity sums the remaining quantity resting at this price.
func (l *PriceLevel) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, order := range l.orders {
		total = total.Add(order.Remaining)
	}
	return total
}
