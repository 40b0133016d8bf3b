package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"time"

	"trade-journal-go/internal/models"
)

// Period selects how a report's date bounds are derived.
type Period string

const (
	PeriodMonthly   Period = "monthly"
	PeriodQuarterly Period = "quarterly"
	PeriodYearly    Period = "yearly"
	PeriodCustom    Period = "custom"
)

// PeriodRange resolves a period to [start, end). Monthly, quarterly and
// yearly anchor on the reference time; custom passes the given bounds
// through unchanged.
func PeriodRange(period Period, ref time.Time, from, to time.Time) (time.Time, time.Time) {
	switch period {
	case PeriodMonthly:
		start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
		return start, start.AddDate(0, 1, 0)
	case PeriodQuarterly:
		quarterStart := time.Month((int(ref.Month())-1)/3*3 + 1)
		start := time.Date(ref.Year(), quarterStart, 1, 0, 0, 0, 0, ref.Location())
		return start, start.AddDate(0, 3, 0)
	case PeriodYearly:
		start := time.Date(ref.Year(), 1, 1, 0, 0, 0, 0, ref.Location())
		return start, start.AddDate(1, 0, 0)
	default:
		return from, to
	}
}

// summary aggregates the headline metrics for one bucket of trades.
type summary struct {
	trades      int
	wins        int
	losses      int
	grossProfit float64
	grossLoss   float64
	net         float64
	best        float64
	worst       float64
}

func summarize(trades []models.Trade) summary {
	var s summary
	for i, t := range trades {
		s.trades++
		s.net += t.PnL
		if t.PnL > 0 {
			s.wins++
			s.grossProfit += t.PnL
		} else if t.PnL < 0 {
			s.losses++
			s.grossLoss += -t.PnL
		}
		if i == 0 || t.PnL > s.best {
			s.best = t.PnL
		}
		if i == 0 || t.PnL < s.worst {
			s.worst = t.PnL
		}
	}
	return s
}

func (s summary) winRate() float64 {
	if s.trades == 0 {
		return 0
	}
	return float64(s.wins) / float64(s.trades) * 100
}

func (s summary) profitFactor() float64 {
	if s.grossLoss == 0 {
		return 0
	}
	return s.grossProfit / s.grossLoss
}

// WriteReport writes the aggregate report for trades whose entry time falls
// within [start, end): summary metrics, per-symbol and per-strategy
// breakdowns, then the full trade listing.
func WriteReport(w io.Writer, trades []models.Trade, start, end time.Time) error {
	var period []models.Trade
	for _, t := range trades {
		if t.EntryTime.Before(start) || !t.EntryTime.Before(end) {
			continue
		}
		period = append(period, t)
	}

	cw := csv.NewWriter(w)
	s := summarize(period)

	rows := [][]string{
		{"Report Period", start.Format("2006-01-02"), end.AddDate(0, 0, -1).Format("2006-01-02")},
		{},
		{"Summary"},
		{"Total Trades", fmt.Sprintf("%d", s.trades)},
		{"Winning Trades", fmt.Sprintf("%d", s.wins)},
		{"Losing Trades", fmt.Sprintf("%d", s.losses)},
		{"Win Rate %", num(s.winRate())},
		{"Gross Profit", num(s.grossProfit)},
		{"Gross Loss", num(s.grossLoss)},
		{"Net P&L", num(s.net)},
		{"Profit Factor", num(s.profitFactor())},
		{"Best Trade", num(s.best)},
		{"Worst Trade", num(s.worst)},
		{},
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	if err := writeBreakdown(cw, "By Symbol", period, func(t models.Trade) string { return t.Symbol }); err != nil {
		return err
	}
	if err := writeBreakdown(cw, "By Strategy", period, func(t models.Trade) string {
		if t.Strategy == "" {
			return "(none)"
		}
		return t.Strategy
	}); err != nil {
		return err
	}

	if err := cw.Write([]string{"Trades"}); err != nil {
		return err
	}
	if err := cw.Write(TradeCSVHeader); err != nil {
		return err
	}
	for _, t := range period {
		if err := cw.Write(tradeRecord(t)); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func writeBreakdown(cw *csv.Writer, title string, trades []models.Trade, key func(models.Trade) string) error {
	groups := make(map[string][]models.Trade)
	for _, t := range trades {
		k := key(t)
		groups[k] = append(groups[k], t)
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if err := cw.Write([]string{title}); err != nil {
		return err
	}
	if err := cw.Write([]string{"name", "trades", "netPnL", "winRate"}); err != nil {
		return err
	}
	for _, k := range keys {
		s := summarize(groups[k])
		if err := cw.Write([]string{k, fmt.Sprintf("%d", s.trades), num(s.net), num(s.winRate())}); err != nil {
			return err
		}
	}
	return cw.Write([]string{})
}
