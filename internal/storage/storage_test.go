package storage_test

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/akaibo/orderbook/internal/storage"
	"github.com/akaibo/orderbook/internal/types"
)

func testTrade(pair string) *types.Trade {
	maker := types.NewOrder(pair, types.Sell, decimal.RequireFromString("50000"), decimal.RequireFromString("1"))
	return types.NewTrade(maker, decimal.RequireFromString("0.01"), types.Buy)
}

// stubTradeStore records calls for composite fan-out tests.
type stubTradeStore struct {
	saved   []*types.Trade
	recent  []*types.Trade
	saveErr error
	closed  bool
}

func (s *stubTradeStore) Save(trade *types.Trade) error {
	s.saved = append(s.saved, trade)
	return s.saveErr
}

func (s *stubTradeStore) SaveBatch(trades []*types.Trade) error {
	s.saved = append(s.saved, trades...)
	return s.saveErr
}

func (s *stubTradeStore) RecentForPair(pair string, limit int) ([]*types.Trade, error) {
	return s.recent, nil
}

func (s *stubTradeStore) Close() error {
	s.closed = true
	return nil
}

// TestFileTradeStoreAppendsJSONLines checks the audit log format: one JSON
// object per line, decimals preserved as written.
func TestFileTradeStoreAppendsJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.log")

	store, err := storage.NewFileTradeStore(path)
	if err != nil {
		t.Fatalf("NewFileTradeStore failed: %v", err)
	}

	first := testTrade("BTCUSD")
	second := testTrade("ETHUSD")
	if err := store.Save(first); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.SaveBatch([]*types.Trade{second}); err != nil {
		t.Fatalf("SaveBatch failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	var lines []types.Trade
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var trade types.Trade
		if err := json.Unmarshal(scanner.Bytes(), &trade); err != nil {
			t.Fatalf("Line is not valid JSON: %v", err)
		}
		lines = append(lines, trade)
	}

	if len(lines) != 2 {
		t.Fatalf("Expected 2 log lines, got %d", len(lines))
	}
	if lines[0].ID != first.ID || lines[1].ID != second.ID {
		t.Error("Trades logged out of order")
	}
	if !lines[0].Price.Equal(first.Price) || !lines[0].Quantity.Equal(first.Quantity) {
		t.Error("Decimal fields did not survive the round trip")
	}
	if lines[0].TakerSide != types.Buy {
		t.Errorf("Expected taker side BUY, got %s", lines[0].TakerSide)
	}
}

// TestFileTradeStoreIsWriteOnly checks the read path returns empty.
func TestFileTradeStoreIsWriteOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.log")

	store, err := storage.NewFileTradeStore(path)
	if err != nil {
		t.Fatalf("NewFileTradeStore failed: %v", err)
	}
	defer store.Close()

	if err := store.Save(testTrade("BTCUSD")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	trades, err := store.RecentForPair("BTCUSD", 10)
	if err != nil {
		t.Fatalf("RecentForPair failed: %v", err)
	}
	if len(trades) != 0 {
		t.Errorf("Expected no reads from file store, got %d", len(trades))
	}
}

// TestCompositeWritesToAllStores checks fan-out on Save and Close.
func TestCompositeWritesToAllStores(t *testing.T) {
	a := &stubTradeStore{}
	b := &stubTradeStore{}
	composite := storage.NewCompositeTradeStore(a, b)

	trade := testTrade("BTCUSD")
	if err := composite.Save(trade); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if len(a.saved) != 1 || len(b.saved) != 1 {
		t.Errorf("Expected both stores written, got %d and %d", len(a.saved), len(b.saved))
	}

	if err := composite.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !a.closed || !b.closed {
		t.Error("Expected both stores closed")
	}
}

// TestCompositeKeepsWritingPastFailures checks that one failing store does
// not stop the others and the error still surfaces.
func TestCompositeKeepsWritingPastFailures(t *testing.T) {
	failing := &stubTradeStore{saveErr: errors.New("sink down")}
	healthy := &stubTradeStore{}
	composite := storage.NewCompositeTradeStore(failing, healthy)

	err := composite.Save(testTrade("BTCUSD"))
	if err == nil {
		t.Fatal("Expected the sink error to surface")
	}
	if len(healthy.saved) != 1 {
		t.Error("Expected the healthy store to still receive the trade")
	}
}

// TestCompositeReadsFirstStoreWithData checks the read preference order.
func TestCompositeReadsFirstStoreWithData(t *testing.T) {
	empty := &stubTradeStore{}
	populated := &stubTradeStore{recent: []*types.Trade{testTrade("BTCUSD")}}
	composite := storage.NewCompositeTradeStore(empty, populated)

	trades, err := composite.RecentForPair("BTCUSD", 10)
	if err != nil {
		t.Fatalf("RecentForPair failed: %v", err)
	}
	if len(trades) != 1 {
		t.Errorf("Expected 1 trade from the second store, got %d", len(trades))
	}
}

// TestPostgresDSNCarriesPoolSettings checks that pool sizing and lifetime
// make it into the rendered connection string.
func TestPostgresDSNCarriesPoolSettings(t *testing.T) {
	cfg := storage.PostgresConfig{
		Host:            "db.internal",
		Port:            5433,
		Database:        "orderbook",
		User:            "matcher",
		Password:        "secret",
		MaxConns:        20,
		MinIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		SSLMode:         "require",
	}

	dsn := cfg.DSN()
	for _, want := range []string{
		"host=db.internal",
		"port=5433",
		"dbname=orderbook",
		"user=matcher",
		"sslmode=require",
		"pool_max_conns=20",
		"pool_min_conns=5",
		"pool_max_conn_lifetime=5m0s",
	} {
		if !strings.Contains(dsn, want) {
			t.Errorf("DSN missing %q: %s", want, dsn)
		}
	}
}
