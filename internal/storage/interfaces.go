package storage

import "github.com/akaibo/orderbook/internal/types"

// TradeStore abstracts external trade persistence. Implementations can be
// append-only file logs, Redis, PostgreSQL, or a composite of those. The
// in-memory ledger inside the engine stays authoritative for reads; these
// stores are durability and audit sinks.
type TradeStore interface {
	// Save persists a single trade
	Save(trade *types.Trade) error

	// SaveBatch persists multiple trades (useful for database batch inserts)
	SaveBatch(trades []*types.Trade) error

	// RecentForPair retrieves up to limit trades for a pair, most recent first
	RecentForPair(pair string, limit int) ([]*types.Trade, error)

	// Close releases any resources held by the store
	Close() error
}
