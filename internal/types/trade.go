package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Trade is an immutable record of one match step. Price is always the
// resting (maker) order's price, never the incoming order's. QuoteVolume is
// price * quantity expressed in the quote currency.
type Trade struct {
	ID          string          `json:"id"`
	Price       decimal.Decimal `json:"price"`
	Quantity    decimal.Decimal `json:"quantity"`
	Pair        string          `json:"currencyPair"`
	TradedAt    time.Time       `json:"tradedAt"`
	TakerSide   Side            `json:"takerSide"`
	QuoteVolume decimal.Decimal `json:"quoteVolume"`
}

// NewTrade records a match of quantity against the given resting order.
// takerSide is the side of the incoming order that consumed the liquidity.
func NewTrade(resting *Order, quantity decimal.Decimal, takerSide Side) *Trade {
	price := resting.Price.Round(PriceScale)
	qty := quantity.Round(QuantityScale)
	return &Trade{
		ID:          uuid.NewString(),
		Price:       price,
		Quantity:    qty,
		Pair:        resting.Pair,
		TradedAt:    time.Now(),
		TakerSide:   takerSide,
		QuoteVolume: price.Mul(qty).Round(QuoteVolumeScale),
	}
}
