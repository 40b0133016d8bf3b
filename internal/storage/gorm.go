package storage

import (
	"fmt"

	"gorm.io/gorm"

	"trade-journal-go/internal/models"
)

// GormTradeRepository persists the trade set in a gorm-managed database.
type GormTradeRepository struct {
	db *gorm.DB
}

// NewGormTradeRepository wraps an open gorm handle.
func NewGormTradeRepository(db *gorm.DB) *GormTradeRepository {
	return &GormTradeRepository{db: db}
}

var _ TradeRepository = (*GormTradeRepository)(nil)

// Load returns all trades, oldest entry first.
func (r *GormTradeRepository) Load() ([]models.Trade, error) {
	var trades []models.Trade
	if err := r.db.Order("entry_time asc, id asc").Find(&trades).Error; err != nil {
		return nil, fmt.Errorf("failed to load trades: %w", err)
	}
	return trades, nil
}

// Save replaces the stored set with the given one inside a single
// transaction, so a crash mid-write never leaves a half-merged store.
func (r *GormTradeRepository) Save(trades []models.Trade) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Trade{}).Error; err != nil {
			return err
		}
		if len(trades) == 0 {
			return nil
		}
		return tx.Create(&trades).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save trades: %w", err)
	}
	return nil
}
