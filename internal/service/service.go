// Package service orchestrates the import pipeline and trade CRUD on top of
// the repository, and caches per-account aggregates.
package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"trade-journal-go/internal/importer"
	"trade-journal-go/internal/models"
	"trade-journal-go/internal/pnl"
	"trade-journal-go/internal/storage"
)

const (
	// Per-account cache keys for computed aggregates. Mutations invalidate
	// both; the next read recomputes from the repository.
	ckAccountStats     = "agg_stats_account_%s"
	ckLastImportResult = "agg_last_import_account_%s"

	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

var (
	// ErrTradeNotFound is returned for operations on unknown trade IDs.
	ErrTradeNotFound = errors.New("trade not found")
	// ErrSessionNotFound is returned for operations on unknown import sessions.
	ErrSessionNotFound = errors.New("import session not found")
	// ErrInvalidTrade rejects trades that violate basic field constraints.
	ErrInvalidTrade = errors.New("invalid trade")
)

// Stats is the per-account headline aggregate.
type Stats struct {
	TotalTrades  int     `json:"total_trades"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	WinRate      float64 `json:"win_rate"`
	NetPnL       float64 `json:"net_pnl"`
	ProfitFactor float64 `json:"profit_factor"`
}

// ImportSummary is the informational outcome of a confirmed merge.
type ImportSummary struct {
	Added   int    `json:"added"`
	Skipped int    `json:"skipped"`
	Account string `json:"account"`
}

// Service wires the import pipeline, the calculator and the repository.
type Service struct {
	log            *zap.Logger
	repo           storage.TradeRepository
	statsCache     *cache.Cache
	defaultAccount string
	maxFileBytes   int64

	mu       sync.Mutex
	sessions map[string]*importer.Session
}

// New constructs a Service around a repository.
func New(log *zap.Logger, repo storage.TradeRepository, defaultAccount string, maxFileSizeMB int) *Service {
	if defaultAccount == "" {
		defaultAccount = models.DefaultAccountID
	}
	if maxFileSizeMB <= 0 {
		maxFileSizeMB = 10
	}
	return &Service{
		log:            log,
		repo:           repo,
		statsCache:     cache.New(DefaultCacheExpiration, CacheCleanupInterval),
		defaultAccount: defaultAccount,
		maxFileBytes:   int64(maxFileSizeMB) * 1024 * 1024,
		sessions:       make(map[string]*importer.Session),
	}
}

func (s *Service) account(accountID string) string {
	if accountID == "" {
		return s.defaultAccount
	}
	return accountID
}

// ListTrades returns the given account's trades.
func (s *Service) ListTrades(accountID string) ([]models.Trade, error) {
	all, err := s.repo.Load()
	if err != nil {
		return nil, err
	}
	account := s.account(accountID)
	var trades []models.Trade
	for _, t := range all {
		if t.AccountID == account {
			trades = append(trades, t)
		}
	}
	return trades, nil
}

// CreateTrade records a direct-entry trade. The calculator derives the
// outcome fields; a manual P&L override is honored exactly.
func (s *Service) CreateTrade(t models.Trade) (models.Trade, error) {
	if err := validateTrade(t); err != nil {
		return models.Trade{}, err
	}
	t.ID = uuid.NewString()
	t.AccountID = s.account(t.AccountID)
	pnl.Recalculate(&t)

	all, err := s.repo.Load()
	if err != nil {
		return models.Trade{}, err
	}
	all = append(all, t)
	if err := s.repo.Save(all); err != nil {
		return models.Trade{}, err
	}

	s.invalidateAccount(t.AccountID)
	s.log.Info("trade created", zap.String("id", t.ID), zap.String("symbol", t.Symbol))
	return t, nil
}

// UpdateTrade replaces an existing trade and recomputes its outcome.
func (s *Service) UpdateTrade(t models.Trade) (models.Trade, error) {
	if err := validateTrade(t); err != nil {
		return models.Trade{}, err
	}
	all, err := s.repo.Load()
	if err != nil {
		return models.Trade{}, err
	}

	found := false
	for i := range all {
		if all[i].ID == t.ID {
			t.AccountID = s.account(t.AccountID)
			t.CreatedAt = all[i].CreatedAt
			pnl.Recalculate(&t)
			all[i] = t
			found = true
			break
		}
	}
	if !found {
		return models.Trade{}, fmt.Errorf("%w: %s", ErrTradeNotFound, t.ID)
	}

	if err := s.repo.Save(all); err != nil {
		return models.Trade{}, err
	}
	s.invalidateAccount(t.AccountID)
	return t, nil
}

// DeleteTrade removes a trade by ID. This is also the only undo for a merge.
func (s *Service) DeleteTrade(id string) error {
	all, err := s.repo.Load()
	if err != nil {
		return err
	}

	// Capture the account before compacting: kept shares all's backing
	// array, so a pointer into all would alias a surviving trade.
	removedAccount := ""
	found := false
	kept := all[:0]
	for i := range all {
		if all[i].ID == id {
			removedAccount = all[i].AccountID
			found = true
			continue
		}
		kept = append(kept, all[i])
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrTradeNotFound, id)
	}

	if err := s.repo.Save(kept); err != nil {
		return err
	}
	s.invalidateAccount(removedAccount)
	return nil
}

func validateTrade(t models.Trade) error {
	if t.Symbol == "" {
		return fmt.Errorf("%w: empty symbol", ErrInvalidTrade)
	}
	if t.LotSize <= 0 {
		return fmt.Errorf("%w: lot size must be positive", ErrInvalidTrade)
	}
	switch t.Side {
	case models.SideLong, models.SideShort:
	default:
		return fmt.Errorf("%w: unknown side %q", ErrInvalidTrade, t.Side)
	}
	return nil
}
