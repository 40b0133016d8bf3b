package storage

import (
	"sync"

	"trade-journal-go/internal/models"
)

// InMemoryTradeRepository keeps the trade set in memory. Used by tests and
// as a throwaway backend when no database is configured.
type InMemoryTradeRepository struct {
	mu     sync.RWMutex
	trades []models.Trade
}

// NewInMemoryTradeRepository constructs an empty repository.
func NewInMemoryTradeRepository() *InMemoryTradeRepository {
	return &InMemoryTradeRepository{}
}

var _ TradeRepository = (*InMemoryTradeRepository)(nil)

// Load returns a copy of the stored set.
func (r *InMemoryTradeRepository) Load() ([]models.Trade, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cp := make([]models.Trade, len(r.trades))
	copy(cp, r.trades)
	return cp, nil
}

// Save replaces the stored set with a copy of the given one.
func (r *InMemoryTradeRepository) Save(trades []models.Trade) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := make([]models.Trade, len(trades))
	copy(cp, trades)
	r.trades = cp
	return nil
}
