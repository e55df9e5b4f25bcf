package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/akaibo/orderbook/internal/types"
)

// PostgresConfig holds the connection settings for the trade store pool.
type PostgresConfig struct {
	Host            string
	Port            int
	Database        string
	User            string
	Password        string
	MaxConns        int
	MinIdleConns    int
	ConnMaxLifetime time.Duration
	SSLMode         string
}

// DSN renders the pgx connection string. Pool sizing travels in the DSN so
// one string describes the whole connection: min idle conns keep the insert
// path warm between bursts of trades.
func (cfg PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s"+
			" pool_max_conns=%d pool_min_conns=%d pool_max_conn_lifetime=%s",
		cfg.Host, cfg.Port, cfg.Database, cfg.User, cfg.Password, cfg.SSLMode,
		cfg.MaxConns, cfg.MinIdleConns, cfg.ConnMaxLifetime,
	)
}

// PostgresTradeStore implements TradeStore using PostgreSQL. The NUMERIC
// column scales mirror the fixed-point scales of the trade record.
type PostgresTradeStore struct {
	pool *pgxpool.Pool
}

const tradesSchema = `
CREATE TABLE IF NOT EXISTS trades (
	id            UUID PRIMARY KEY,
	currency_pair TEXT NOT NULL,
	price         NUMERIC(20, 4) NOT NULL,
	quantity      NUMERIC(28, 8) NOT NULL,
	quote_volume  NUMERIC(36, 12) NOT NULL,
	taker_side    TEXT NOT NULL,
	traded_at     TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS trades_pair_traded_at_idx
	ON trades (currency_pair, traded_at DESC);
`

// NewPostgresTradeStore dials postgres, verifies the connection and runs
// the trades migration.
func NewPostgresTradeStore(cfg PostgresConfig) (*PostgresTradeStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	if _, err := pool.Exec(ctx, tradesSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &PostgresTradeStore{pool: pool}, nil
}

const insertTradeQuery = `
	INSERT INTO trades (id, currency_pair, price, quantity, quote_volume, taker_side, traded_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
`

func (s *PostgresTradeStore) Save(trade *types.Trade) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := s.pool.Exec(ctx, insertTradeQuery,
		trade.ID, trade.Pair, trade.Price, trade.Quantity,
		trade.QuoteVolume, trade.TakerSide.String(), trade.TradedAt,
	)

	return err
}

func (s *PostgresTradeStore) SaveBatch(trades []*types.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Use pgx batch for efficient batch inserts
	batch := &pgx.Batch{}
	for _, trade := range trades {
		batch.Queue(insertTradeQuery,
			trade.ID, trade.Pair, trade.Price, trade.Quantity,
			trade.QuoteVolume, trade.TakerSide.String(), trade.TradedAt,
		)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(trades); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("batch insert failed at index %d: %w", i, err)
		}
	}

	return nil
}

func (s *PostgresTradeStore) RecentForPair(pair string, limit int) ([]*types.Trade, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, currency_pair, price, quantity, quote_volume, taker_side, traded_at
		FROM trades
		WHERE currency_pair = $1
		ORDER BY traded_at DESC
		LIMIT $2
	`

	rows, err := s.pool.Query(ctx, query, pair, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trades []*types.Trade
	for rows.Next() {
		var trade types.Trade
		var side string
		err := rows.Scan(
			&trade.ID, &trade.Pair, &trade.Price, &trade.Quantity,
			&trade.QuoteVolume, &side, &trade.TradedAt,
		)
		if err != nil {
			continue
		}
		trade.TakerSide = types.ParseSide(side)
		trades = append(trades, &trade)
	}

	return trades, rows.Err()
}

func (s *PostgresTradeStore) Close() error {
	s.pool.Close()
	return nil
}
