package matching

import (
	"errors"
	"fmt"
)

// Rejections: the order never touched the book. Callers can tell these
// apart from an accepted order that simply failed to cross (which is a
// successful submit with zero trades).
var (
	ErrInvalidPrice    = errors.New("order price must be greater than zero")
	ErrInvalidQuantity = errors.New("order quantity must be greater than zero")
	ErrInvalidSide     = errors.New("order side must be buy or sell")
	ErrMissingPair     = errors.New("order currency pair must not be empty")
)

// IsRejection reports whether err is a precondition rejection rather than
// an internal failure.
func IsRejection(err error) bool {
	return errors.Is(err, ErrInvalidPrice) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInvalidSide) ||
		errors.Is(err, ErrMissingPair)
}

// InvariantError indicates corrupted book state observed mid-match, e.g. a
// resting order with non-positive remaining quantity or an empty level
// still indexed. It is an internal defect, not a caller error: the book
// can no longer be trusted for further matching.
type InvariantError struct {
	Pair   string
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("book invariant violated for %s: %s", e.Pair, e.Detail)
}

// IsInvariantViolation reports whether err wraps an InvariantError.
func IsInvariantViolation(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}
