package service

import (
	"fmt"
	"io"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"trade-journal-go/internal/importer"
	"trade-journal-go/internal/models"
)

// StartImport validates an upload and runs auto-detection. The returned
// session is either PreviewReady (parse succeeded) or MappingRequired
// (required columns missing, err wraps importer.ErrMissingColumns). Any
// other error aborts the import and no session is retained.
func (s *Service) StartImport(accountID, filename string, r io.Reader) (*importer.Session, error) {
	session := importer.NewSession(s.account(accountID))
	err := session.Begin(filename, r, s.maxFileBytes)
	if err != nil && session.State != importer.StateMappingRequired {
		return nil, err
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	s.log.Info("import session started",
		zap.String("session", session.ID),
		zap.String("account", session.AccountID),
		zap.String("state", string(session.State)),
	)
	return session, err
}

// Session looks up a live import session.
func (s *Service) Session(id string) (*importer.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return session, nil
}

// ConfirmMapping applies a user-completed column mapping and re-parses.
func (s *Service) ConfirmMapping(sessionID string, mapping models.ColumnMapping) (*models.ParseResult, error) {
	session, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.ConfirmMapping(mapping); err != nil {
		return nil, err
	}
	return session.Preview(), nil
}

// ConfirmImport merges the session's previewed candidates into the store.
// Duplicates are skipped, never errored; trades of other accounts pass
// through the merge untouched.
func (s *Service) ConfirmImport(sessionID string) (ImportSummary, error) {
	session, err := s.Session(sessionID)
	if err != nil {
		return ImportSummary{}, err
	}

	candidates, err := session.Confirm()
	if err != nil {
		return ImportSummary{}, err
	}

	existing, err := s.repo.Load()
	if err != nil {
		return ImportSummary{}, err
	}
	result := importer.Reconcile(existing, session.AccountID, candidates)
	if err := s.repo.Save(result.Merged); err != nil {
		return ImportSummary{}, err
	}
	if err := session.MarkMerged(); err != nil {
		return ImportSummary{}, err
	}

	// Merged is terminal; drop the session so the map does not grow with
	// every completed import.
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	summary := ImportSummary{
		Added:   result.Added,
		Skipped: result.Skipped,
		Account: session.AccountID,
	}
	s.invalidateAccount(session.AccountID)
	s.statsCache.Set(fmt.Sprintf(ckLastImportResult, session.AccountID), summary, DefaultCacheExpiration)

	s.log.Info("import merged",
		zap.String("session", sessionID),
		zap.String("account", session.AccountID),
		zap.Int("added", result.Added),
		zap.Int("skipped", result.Skipped),
	)
	return summary, nil
}

// CancelImport dismisses a session before confirmation.
func (s *Service) CancelImport(sessionID string) error {
	session, err := s.Session(sessionID)
	if err != nil {
		return err
	}
	if err := session.Cancel(); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	return nil
}

// LastImportResult returns the cached outcome of the account's most recent
// merge, if still fresh.
func (s *Service) LastImportResult(accountID string) (ImportSummary, bool) {
	v, found := s.statsCache.Get(fmt.Sprintf(ckLastImportResult, s.account(accountID)))
	if !found {
		return ImportSummary{}, false
	}
	return v.(ImportSummary), true
}

// Stats computes (or serves from cache) the account's headline aggregate.
func (s *Service) Stats(accountID string) (Stats, error) {
	account := s.account(accountID)
	key := fmt.Sprintf(ckAccountStats, account)
	if v, found := s.statsCache.Get(key); found {
		return v.(Stats), nil
	}

	trades, err := s.ListTrades(account)
	if err != nil {
		return Stats{}, err
	}

	var stats Stats
	var grossProfit, grossLoss float64
	for _, t := range trades {
		stats.TotalTrades++
		stats.NetPnL += t.PnL
		if t.PnL > 0 {
			stats.Wins++
			grossProfit += t.PnL
		} else if t.PnL < 0 {
			stats.Losses++
			grossLoss += -t.PnL
		}
	}
	if stats.TotalTrades > 0 {
		stats.WinRate = float64(stats.Wins) / float64(stats.TotalTrades) * 100
	}
	if grossLoss > 0 {
		stats.ProfitFactor = grossProfit / grossLoss
	}

	s.statsCache.Set(key, stats, cache.NoExpiration)
	return stats, nil
}

func (s *Service) invalidateAccount(accountID string) {
	s.statsCache.Delete(fmt.Sprintf(ckAccountStats, accountID))
	s.statsCache.Delete(fmt.Sprintf(ckLastImportResult, accountID))
}
