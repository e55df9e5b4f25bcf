package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/akaibo/orderbook/internal/types"
)

// FileTradeStore implements TradeStore as an append-only JSON-lines audit
// log. The file is write-only; pair reads come from the in-memory ledger or
// another store in a composite.
type FileTradeStore struct {
	file    *os.File
	encoder *json.Encoder
	mutex   sync.Mutex
}

// NewFileTradeStore creates a new file-based trade store
func NewFileTradeStore(filePath string) (*FileTradeStore, error) {
	file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open trade log: %w", err)
	}

	return &FileTradeStore{
		file:    file,
		encoder: json.NewEncoder(file),
	}, nil
}

func (s *FileTradeStore) Save(trade *types.Trade) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.encoder.Encode(trade)
}

func (s *FileTradeStore) SaveBatch(trades []*types.Trade) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for _, trade := range trades {
		if err := s.encoder.Encode(trade); err != nil {
			return err
		}
	}
	return nil
}

func (s *FileTradeStore) RecentForPair(pair string, limit int) ([]*types.Trade, error) {
	// Write-only audit log, no read support
	return []*types.Trade{}, nil
}

func (s *FileTradeStore) Close() error {
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}
