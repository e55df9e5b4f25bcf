package types

import (
	"fmt"
	"strings"
)

// Side identifies which half of the book an order belongs to.
type Side int

const (
	NoActionSide Side = iota
	Buy
	Sell
)

// Opposite returns the side an incoming order matches against.
func (s Side) Opposite() Side {
	switch s {
	case Buy:
		return Sell
	case Sell:
		return Buy
	default:
		return NoActionSide
	}
}

func (s Side) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// ParseSide converts a side token (any case) to a Side.
// Returns NoActionSide for anything that is not buy or sell.
func ParseSide(s string) Side {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return Buy
	case "sell":
		return Sell
	default:
		return NoActionSide
	}
}

// MarshalText implements encoding.TextMarshaler so sides serialize as
// "BUY"/"SELL" in JSON, matching the trade history wire format.
func (s Side) MarshalText() ([]byte, error) {
	if s != Buy && s != Sell {
		return nil, fmt.Errorf("cannot marshal unknown side %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Side) UnmarshalText(text []byte) error {
	parsed := ParseSide(string(text))
	if parsed == NoActionSide {
		return fmt.Errorf("invalid side %q", string(text))
	}
	*s = parsed
	return nil
}
