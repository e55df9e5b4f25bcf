package models

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/akaibo/orderbook/internal/types"
)

// DecimalField accepts a decimal value sent either as a JSON string
// ("50000.1234", lossless) or as a bare JSON number.
type DecimalField string

func (f *DecimalField) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = DecimalField(s)
		return nil
	}
	*f = DecimalField(data)
	return nil
}

// SubmitOrderRequest represents a limit order submission
type SubmitOrderRequest struct {
	Pair     string       `json:"pair"`
	Side     string       `json:"side"`
	Price    DecimalField `json:"price"`
	Quantity DecimalField `json:"quantity"`
}

// Validate checks the request and returns the parsed side, price and
// quantity. Validation failures never reach the engine.
func (r *SubmitOrderRequest) Validate() (types.Side, decimal.Decimal, decimal.Decimal, *HTTPError) {
	if strings.TrimSpace(r.Pair) == "" {
		return types.NoActionSide, decimal.Zero, decimal.Zero, ErrMissingFieldError("pair")
	}

	side := types.ParseSide(r.Side)
	if side == types.NoActionSide {
		return types.NoActionSide, decimal.Zero, decimal.Zero, ErrInvalidSideError(r.Side)
	}

	if r.Price == "" {
		return types.NoActionSide, decimal.Zero, decimal.Zero, ErrMissingFieldError("price")
	}
	price, err := decimal.NewFromString(string(r.Price))
	if err != nil || price.Sign() <= 0 {
		return types.NoActionSide, decimal.Zero, decimal.Zero, ErrInvalidPriceError(string(r.Price))
	}

	if r.Quantity == "" {
		return types.NoActionSide, decimal.Zero, decimal.Zero, ErrMissingFieldError("quantity")
	}
	quantity, err := decimal.NewFromString(string(r.Quantity))
	if err != nil || quantity.Sign() <= 0 {
		return types.NoActionSide, decimal.Zero, decimal.Zero, ErrInvalidQuantityError(string(r.Quantity))
	}

	return side, price, quantity, nil
}
