// Package export renders the trade set as CSV: the flat trade listing with
// its fixed header, and the date-bounded aggregate report.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"trade-journal-go/internal/models"
)

// TradeCSVHeader is the fixed export header. Consumers re-import these files,
// so the order and spelling never change.
var TradeCSVHeader = []string{
	"symbol", "side", "entryPrice", "exitPrice", "lotSize",
	"entryTime", "exitTime", "spread", "commission", "swap",
	"pnl", "pnlPercentage", "riskReward", "strategy", "market", "notes",
}

// timestampLayout renders timestamps as yyyy-MM-dd HH:mm:ss.
const timestampLayout = "2006-01-02 15:04:05"

// WriteTrades writes the full trade listing in the fixed export format.
func WriteTrades(w io.Writer, trades []models.Trade) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(TradeCSVHeader); err != nil {
		return err
	}
	for _, t := range trades {
		if err := cw.Write(tradeRecord(t)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func tradeRecord(t models.Trade) []string {
	return []string{
		t.Symbol,
		string(t.Side),
		num(t.EntryPrice),
		num(t.ExitPrice),
		num(t.LotSize),
		t.EntryTime.Format(timestampLayout),
		t.ExitTime.Format(timestampLayout),
		num(t.Spread),
		num(t.Commission),
		num(t.Swap),
		num(t.PnL),
		num(t.PnLPercentage),
		num(t.RiskReward),
		t.Strategy,
		string(t.Market),
		t.Notes,
	}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
