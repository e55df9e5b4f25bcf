package book

import (
	"github.com/shopspring/decimal"
	"github.com/tidwall/btree"

	"github.com/akaibo/orderbook/internal/types"
)

// Book is the limit order book for a single currency pair: two ordered
// collections of price levels, bids sorted highest-first and asks sorted
// lowest-first, so Min() on either tree is that side's most aggressive
// price. The book does no locking of its own; the matching engine
// serializes all access per market.
type Book struct {
	pair string
	bids *btree.BTreeG[*PriceLevel]
	asks *btree.BTreeG[*PriceLevel]
}

// LevelSummary is one aggregated price level: total resting quantity and
// order count at a price.
type LevelSummary struct {
	Price      decimal.Decimal
	Quantity   decimal.Decimal
	OrderCount int
}

func New(pair string) *Book {
	return &Book{
		pair: pair,
		bids: btree.NewBTreeG(func(a, b *PriceLevel) bool {
			return a.Price.GreaterThan(b.Price)
		}),
		asks: btree.NewBTreeG(func(a, b *PriceLevel) bool {
			return a.Price.LessThan(b.Price)
		}),
	}
}

func (b *Book) Pair() string {
	return b.pair
}

func (b *Book) tree(side types.Side) *btree.BTreeG[*PriceLevel] {
	if side == types.Buy {
		return b.bids
	}
	return b.asks
}

// Insert appends the order to the FIFO tail of its price level, creating
// the level if this is the first resting order at that price.
func (b *Book) Insert(order *types.Order) {
	tree := b.tree(order.Side)
	level, ok := tree.Get(&PriceLevel{Price: order.Price})
	if !ok {
		level = newPriceLevel(order.Price)
		tree.Set(level)
	}
	level.Append(order)
}

// Best returns the most aggressive level on the given side: the highest bid
// or the lowest ask.
func (b *Book) Best(side types.Side) (*PriceLevel, bool) {
	return b.tree(side).Min()
}

// RemoveLevel evicts a drained price level. Callers must invoke this
// immediately after a dequeue empties a level so no empty level stays
// indexed.
func (b *Book) RemoveLevel(side types.Side, level *PriceLevel) {
	b.tree(side).Delete(level)
}

// Depth returns the number of price levels on the given side.
func (b *Book) Depth(side types.Side) int {
	return b.tree(side).Len()
}

// Levels returns the aggregated levels for one side in price-priority
// order: descending for bids, ascending for asks.
func (b *Book) Levels(side types.Side) []LevelSummary {
	tree := b.tree(side)
	out := make([]LevelSummary, 0, tree.Len())
	tree.Scan(func(level *PriceLevel) bool {
		out = append(out, LevelSummary{
			Price:      level.Price,
			Quantity:   level.TotalQuantity(),
			OrderCount: level.Len(),
		})
		return true
	})
	return out
}

// Orders returns every resting order on one side in price-priority order,
// FIFO within each level.
func (b *Book) Orders(side types.Side) []*types.Order {
	var out []*types.Order
	b.tree(side).Scan(func(level *PriceLevel) bool {
		out = append(out, level.Orders()...)
		return true
	})
	return out
}
