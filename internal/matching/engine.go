// Package matching implements price-time-priority matching over per-pair
// limit order books. All mutating access to one pair's book is serialized
// under that market's mutex; distinct pairs share no state and run in
// parallel.
package matching

import (
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/akaibo/orderbook/internal/book"
	"github.com/akaibo/orderbook/internal/ledger"
	"github.com/akaibo/orderbook/internal/storage"
	"github.com/akaibo/orderbook/internal/types"
)

// market is one pair's book plus the mutex that serializes every submit
// and snapshot against it.
type market struct {
	mu   sync.Mutex
	book *book.Book
}

// Engine routes orders to their market, runs the matching loop, and records
// resulting trades in the ledger and the optional trade sink.
type Engine struct {
	mu      sync.RWMutex
	markets map[string]*market

	ledger *ledger.Ledger
	sink   storage.TradeStore
	log    *zap.Logger
}

// BookSnapshot is a consistent aggregated view of one market, taken under
// the market lock.
type BookSnapshot struct {
	Pair string
	Bids []book.LevelSummary
	Asks []book.LevelSummary
}

// NewEngine creates an engine. sink may be nil when no external trade
// storage is configured; the in-memory ledger is always kept.
func NewEngine(log *zap.Logger, sink storage.TradeStore) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		markets: make(map[string]*market),
		ledger:  ledger.New(),
		sink:    sink,
		log:     log,
	}
}

// market returns the market for pair, creating it on first use.
func (e *Engine) market(pair string) *market {
	e.mu.RLock()
	m, ok := e.markets[pair]
	e.mu.RUnlock()
	if ok {
		return m
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if m, ok = e.markets[pair]; ok {
		return m
	}
	m = &market{book: book.New(pair)}
	e.markets[pair] = m
	e.log.Info("market created", zap.String("pair", pair))
	return m
}

// validate enforces the core preconditions. A failed order is rejected
// before any state is touched.
func validate(order *types.Order) error {
	if order.Pair == "" {
		return ErrMissingPair
	}
	if order.Side != types.Buy && order.Side != types.Sell {
		return ErrInvalidSide
	}
	if order.Price.Sign() <= 0 {
		return ErrInvalidPrice
	}
	if order.Remaining.Sign() <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}

// Submit matches the incoming order against the opposing side of its
// market's book and rests any residual quantity on its own side. Trades are
// observable afterwards through RecentTrades; Submit itself returns only
// acceptance or an error.
func (e *Engine) Submit(order *types.Order) error {
	if err := validate(order); err != nil {
		return err
	}

	m := e.market(order.Pair)
	m.mu.Lock()
	trades, err := m.match(order)
	// Trades that executed before an invariant trip are still recorded.
	// Appending while the market is still locked keeps the ledger in
	// execution order across concurrent submits on the same pair.
	for _, trade := range trades {
		e.ledger.Append(trade)
	}
	bidLevels := m.book.Depth(types.Buy)
	askLevels := m.book.Depth(types.Sell)
	m.mu.Unlock()

	// Sink writes happen outside the lock; a slow sink must not stall the
	// market.
	if e.sink != nil {
		for _, trade := range trades {
			if sinkErr := e.sink.Save(trade); sinkErr != nil {
				e.log.Warn("trade sink write failed",
					zap.String("pair", trade.Pair),
					zap.String("trade_id", trade.ID),
					zap.Error(sinkErr))
			}
		}
	}

	if err != nil {
		e.log.Error("matching aborted", zap.String("pair", order.Pair), zap.Error(err))
		return err
	}

	e.log.Debug("order processed",
		zap.String("pair", order.Pair),
		zap.String("order_id", order.ID),
		zap.Int("trades", len(trades)),
		zap.Int("bid_levels", bidLevels),
		zap.Int("ask_levels", askLevels))
	return nil
}

// match runs the core loop: while quantity remains and the best opposing
// level crosses, consume that level's orders FIFO, then drop the level once
// drained. Failure of the crossing test at the best level ends the scan;
// no worse level can cross. Must be called with the market lock held.
func (m *market) match(incoming *types.Order) ([]*types.Trade, error) {
	var trades []*types.Trade
	opposing := incoming.Side.Opposite()

	for incoming.Remaining.IsPositive() {
		level, ok := m.book.Best(opposing)
		if !ok {
			break
		}
		if level.Empty() {
			return trades, &InvariantError{
				Pair:   incoming.Pair,
				Detail: "empty price level indexed at " + level.Price.String(),
			}
		}
		if !crosses(incoming, level.Price) {
			break
		}

		for !level.Empty() && incoming.Remaining.IsPositive() {
			resting := level.Peek()
			if resting.Remaining.Sign() <= 0 {
				return trades, &InvariantError{
					Pair:   incoming.Pair,
					Detail: "resting order " + resting.ID + " has non-positive remaining quantity",
				}
			}

			matched := decimal.Min(incoming.Remaining, resting.Remaining)
			incoming.Remaining = incoming.Remaining.Sub(matched)
			resting.Remaining = resting.Remaining.Sub(matched)

			trades = append(trades, types.NewTrade(resting, matched, incoming.Side))

			if resting.Remaining.IsZero() {
				level.Pop()
			}
		}

		if level.Empty() {
			m.book.RemoveLevel(opposing, level)
		}
	}

	if incoming.Remaining.IsPositive() {
		m.book.Insert(incoming)
	}
	return trades, nil
}

// crosses is the crossing test: a buy crosses a sell level iff its price is
// at or above the level's, a sell crosses a buy level iff at or below.
func crosses(incoming *types.Order, levelPrice decimal.Decimal) bool {
	if incoming.Side == types.Buy {
		return incoming.Price.GreaterThanOrEqual(levelPrice)
	}
	return incoming.Price.LessThanOrEqual(levelPrice)
}

// Snapshot returns the aggregated book for a pair, bids highest-first and
// asks lowest-first. An unknown pair yields an empty snapshot.
func (e *Engine) Snapshot(pair string) BookSnapshot {
	e.mu.RLock()
	m, ok := e.markets[pair]
	e.mu.RUnlock()
	if !ok {
		return BookSnapshot{Pair: pair, Bids: []book.LevelSummary{}, Asks: []book.LevelSummary{}}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return BookSnapshot{
		Pair: pair,
		Bids: m.book.Levels(types.Buy),
		Asks: m.book.Levels(types.Sell),
	}
}

// RestingOrders returns the raw resting orders for one side of a pair's
// book in price-priority order.
func (e *Engine) RestingOrders(pair string, side types.Side) []*types.Order {
	e.mu.RLock()
	m, ok := e.markets[pair]
	e.mu.RUnlock()
	if !ok {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.book.Orders(side)
}

// RecentTrades returns the pair's trade history, most recent first.
func (e *Engine) RecentTrades(pair string) []*types.Trade {
	return e.ledger.RecentForPair(pair)
}

// Close releases the trade sink, if any.
func (e *Engine) Close() error {
	if e.sink == nil {
		return nil
	}
	return e.sink.Close()
}
