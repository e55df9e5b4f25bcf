package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/akaibo/orderbook/internal/types"
)

// RedisTradeStore implements TradeStore using one sorted set per currency
// pair, scored by trade time and trimmed to a configured cap.
type RedisTradeStore struct {
	client    *redis.Client
	maxTrades int
}

func tradesKey(pair string) string {
	return "trades:" + pair
}

// NewRedisTradeStore creates a new Redis-backed trade store
func NewRedisTradeStore(cfg RedisConfig) (*RedisTradeStore, error) {
	client, err := NewRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &RedisTradeStore{
		client:    client,
		maxTrades: cfg.MaxTrades,
	}, nil
}

func (s *RedisTradeStore) Save(trade *types.Trade) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	data, err := json.Marshal(trade)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()

	score := float64(trade.TradedAt.UnixNano())
	pipe.ZAdd(ctx, tradesKey(trade.Pair), redis.Z{
		Score:  score,
		Member: data,
	})

	// Trim to keep only the last N trades for the pair
	pipe.ZRemRangeByRank(ctx, tradesKey(trade.Pair), 0, int64(-s.maxTrades-1))

	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisTradeStore) SaveBatch(trades []*types.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pipe := s.client.Pipeline()

	touched := make(map[string]struct{})
	for _, trade := range trades {
		data, err := json.Marshal(trade)
		if err != nil {
			continue
		}

		pipe.ZAdd(ctx, tradesKey(trade.Pair), redis.Z{
			Score:  float64(trade.TradedAt.UnixNano()),
			Member: data,
		})
		touched[trade.Pair] = struct{}{}
	}

	for pair := range touched {
		pipe.ZRemRangeByRank(ctx, tradesKey(pair), 0, int64(-s.maxTrades-1))
	}

	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisTradeStore) RecentForPair(pair string, limit int) ([]*types.Trade, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if limit <= 0 {
		limit = 100
	}

	// Most recent first
	results, err := s.client.ZRevRange(ctx, tradesKey(pair), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	trades := make([]*types.Trade, 0, len(results))
	for _, data := range results {
		var trade types.Trade
		if err := json.Unmarshal([]byte(data), &trade); err != nil {
			continue
		}
		trades = append(trades, &trade)
	}

	return trades, nil
}

func (s *RedisTradeStore) Close() error {
	return s.client.Close()
}
