package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Fixed-point scales for every monetary value in the system. Values are
// rounded half-up to these scales once, at construction, and never again.
const (
	PriceScale       = 4
	QuantityScale    = 8
	QuoteVolumeScale = 12
)

// Order is a limit order. Remaining is decremented in place during matching
// and is only ever touched by the matching engine, under the owning market's
// lock. An order with Remaining == 0 is evicted from its price level and has
// no further existence.
type Order struct {
	ID          string          `json:"id"`
	Price       decimal.Decimal `json:"price"`
	Remaining   decimal.Decimal `json:"remainingQuantity"`
	Pair        string          `json:"currencyPair"`
	Side        Side            `json:"side"`
	SubmittedAt time.Time       `json:"submittedAt"`
}

// NewOrder builds an order with a fresh UUID and price/quantity rounded to
// their canonical scales. SubmittedAt is used only as the FIFO tie-break
// within a price level.
func NewOrder(pair string, side Side, price, quantity decimal.Decimal) *Order {
	return &Order{
		ID:          uuid.NewString(),
		Price:       price.Round(PriceScale),
		Remaining:   quantity.Round(QuantityScale),
		Pair:        pair,
		Side:        side,
		SubmittedAt: time.Now(),
	}
}
