// Package ledger keeps the authoritative in-process trade history:
// an append-only sequence of trades per currency pair, queryable most
// recent first. Growth is unbounded; retention is a policy decision for
// the surrounding deployment (the redis sink trims, this ledger does not).
package ledger

import (
	"sync"

	"github.com/akaibo/orderbook/internal/types"
)

type Ledger struct {
	mu     sync.RWMutex
	trades map[string][]*types.Trade
}

func New() *Ledger {
	return &Ledger{trades: make(map[string][]*types.Trade)}
}

// Append records a trade for its pair. Trades arrive in execution order, so
// the per-pair slice is chronological.
func (l *Ledger) Append(trade *types.Trade) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.trades[trade.Pair] = append(l.trades[trade.Pair], trade)
}

// RecentForPair returns all trades for the pair, most recent first. A pair
// with no trades yields an empty slice, never an error.
func (l *Ledger) RecentForPair(pair string) []*types.Trade {
	l.mu.RLock()
	defer l.mu.RUnlock()

	history := l.trades[pair]
	out := make([]*types.Trade, len(history))
	for i, trade := range history {
		out[len(history)-1-i] = trade
	}
	return out
}
