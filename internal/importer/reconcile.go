package importer

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"trade-journal-go/internal/models"
	"trade-journal-go/internal/pnl"
)

// MergeResult is the outcome of reconciling one import batch.
type MergeResult struct {
	Merged  []models.Trade `json:"-"`
	Added   int            `json:"added"`
	Skipped int            `json:"skipped"`
}

// Fingerprint derives the duplicate-detection key from a trade's economic
// fields. It is an exact concatenation: any field mismatch, however small,
// produces a distinct fingerprint. No tolerance, no fuzzing.
func Fingerprint(symbol string, side models.Side, entry, exit, lot, pnlValue float64, entryMs, exitMs int64) string {
	return strings.Join([]string{
		symbol,
		string(side),
		formatFloat(entry),
		formatFloat(exit),
		formatFloat(lot),
		formatFloat(pnlValue),
		strconv.FormatInt(entryMs, 10),
		strconv.FormatInt(exitMs, 10),
	}, "|")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func tradeFingerprint(t models.Trade) string {
	return Fingerprint(t.Symbol, t.Side, t.EntryPrice, t.ExitPrice, t.LotSize, t.PnL,
		t.EntryTime.UnixMilli(), t.ExitTime.UnixMilli())
}

func candidateFingerprint(c models.TradeCandidate) string {
	return Fingerprint(c.Symbol, c.Side, c.EntryPrice, c.ExitPrice, c.LotSize, c.PnL,
		c.EntryTime.UnixMilli(), c.ExitTime.UnixMilli())
}

// Reconcile merges an import batch into the full trade set.
//
// Only the given account's slice is fingerprinted and appended to; trades
// belonging to other accounts pass through untouched. A candidate is added
// when its fingerprint is absent from the account's existing trades and was
// not already added earlier in the same batch.
func Reconcile(existing []models.Trade, accountID string, incoming []models.TradeCandidate) MergeResult {
	if accountID == "" {
		accountID = models.DefaultAccountID
	}

	seen := make(map[string]bool)
	for _, t := range existing {
		if t.AccountID == accountID {
			seen[tradeFingerprint(t)] = true
		}
	}

	merged := make([]models.Trade, len(existing))
	copy(merged, existing)

	added := 0
	for _, c := range incoming {
		fp := candidateFingerprint(c)
		if seen[fp] {
			continue
		}
		seen[fp] = true
		merged = append(merged, candidateToTrade(c, accountID))
		added++
	}

	return MergeResult{
		Merged:  merged,
		Added:   added,
		Skipped: len(incoming) - added,
	}
}

// candidateToTrade promotes a candidate to a persisted trade. The P&L value
// comes from the candidate (file-supplied or derived during normalization);
// the percentage is recomputed against the trade's notional through the
// calculator's override path, which takes the value as-is.
func candidateToTrade(c models.TradeCandidate, accountID string) models.Trade {
	t := models.Trade{
		ID:         uuid.NewString(),
		AccountID:  accountID,
		Symbol:     c.Symbol,
		Market:     c.Market,
		Side:       c.Side,
		EntryPrice: c.EntryPrice,
		ExitPrice:  c.ExitPrice,
		LotSize:    c.LotSize,
		EntryTime:  c.EntryTime,
		ExitTime:   c.ExitTime,

		UseManualPnL: true,
		ManualPnL:    c.PnL,
	}
	pnl.Recalculate(&t)

	// The override flag was only a vehicle for the exact-value computation;
	// an imported trade is not a user override.
	t.UseManualPnL = false
	t.ManualPnL = 0
	return t
}
