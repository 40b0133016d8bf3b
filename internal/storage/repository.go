// Package storage defines the trade persistence boundary. The engine only
// ever reads the whole trade set and writes it back; the repository hides
// whether that set lives in sqlite or in memory.
package storage

import "trade-journal-go/internal/models"

// TradeRepository is the persistence seam injected into the service layer.
// Load returns every trade across all accounts; Save replaces the stored set
// with the given one. Reconciliation is read-then-write with no cross-call
// locking, which mirrors the key-value-store semantics this engine assumes.
type TradeRepository interface {
	Load() ([]models.Trade, error)
	Save(trades []models.Trade) error
}
