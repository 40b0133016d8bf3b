package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"trade-journal-go/internal/models"
	"trade-journal-go/internal/pnl"
)

// timestampLayouts are tried in order against combined date-time cells, then
// date-only cells (which resolve to midnight).
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"01/02/2006 15:04:05",
	"01/02/2006 3:04:05 PM",
	"01/02/2006 15:04",
	"02-01-2006 15:04:05",
	"2006.01.02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"02-01-2006",
	"2006.01.02",
}

// timeOfDayLayouts parse a standalone time column.
var timeOfDayLayouts = []string{"15:04:05", "15:04", "3:04:05 PM", "3:04 PM"}

// normalizeRow converts one raw row into a typed trade candidate. Required
// cells that are empty or unparseable produce a row error; the row is then
// skipped without affecting the rest of the batch.
func normalizeRow(row models.RawRow, mapping models.ColumnMapping, timeSupplement, rowNum int) (models.TradeCandidate, error) {
	var c models.TradeCandidate

	c.Symbol = strings.ToUpper(strings.TrimSpace(cell(row, mapping.Get(models.FieldSymbol))))
	if c.Symbol == "" {
		return c, fmt.Errorf("row %d: empty symbol", rowNum)
	}

	side, err := parseSide(cell(row, mapping.Get(models.FieldSide)))
	if err != nil {
		return c, fmt.Errorf("row %d: %v", rowNum, err)
	}
	c.Side = side

	if c.EntryPrice, err = parseRequiredNumber(cell(row, mapping.Get(models.FieldOpenPrice)), "open price"); err != nil {
		return c, fmt.Errorf("row %d: %v", rowNum, err)
	}
	if c.ExitPrice, err = parseRequiredNumber(cell(row, mapping.Get(models.FieldClosePrice)), "close price"); err != nil {
		return c, fmt.Errorf("row %d: %v", rowNum, err)
	}
	if c.LotSize, err = parseRequiredNumber(cell(row, mapping.Get(models.FieldQuantity)), "quantity"); err != nil {
		return c, fmt.Errorf("row %d: %v", rowNum, err)
	}

	// Most broker exports report realized P&L directly. An empty cell is not
	// a row error: the value is derived by the calculator instead.
	pnlCell := strings.TrimSpace(cell(row, mapping.Get(models.FieldPnL)))
	if pnlCell != "" {
		if c.PnL, err = parseRequiredNumber(pnlCell, "pnl"); err != nil {
			return c, fmt.Errorf("row %d: %v", rowNum, err)
		}
		c.HasPnL = true
	}

	entryTime, err := parseTimestamp(cell(row, mapping.Get(models.FieldOpenTime)), cell(row, timeSupplement))
	if err != nil {
		return c, fmt.Errorf("row %d: %v", rowNum, err)
	}
	c.EntryTime = entryTime

	exitTime, err := parseTimestamp(cell(row, mapping.Get(models.FieldCloseTime)), "")
	if err != nil {
		return c, fmt.Errorf("row %d: %v", rowNum, err)
	}
	if exitTime.IsZero() {
		exitTime = entryTime
	}
	c.ExitTime = exitTime

	c.Market = InferMarket(c.Symbol)

	if !c.HasPnL {
		c.PnL = pnl.Calculate(models.Trade{
			Symbol:     c.Symbol,
			Market:     c.Market,
			Side:       c.Side,
			EntryPrice: c.EntryPrice,
			ExitPrice:  c.ExitPrice,
			LotSize:    c.LotSize,
		}).PnL
	}

	return c, nil
}

func cell(row models.RawRow, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func parseSide(raw string) (models.Side, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "buy", "long", "b", "bot":
		return models.SideLong, nil
	case "sell", "short", "s", "sld":
		return models.SideShort, nil
	case "":
		return "", fmt.Errorf("empty side")
	default:
		return "", fmt.Errorf("unrecognized side %q", raw)
	}
}

// parseRequiredNumber parses a numeric cell, tolerating currency symbols,
// thousands separators and accounting-style parentheses for negatives.
func parseRequiredNumber(raw, name string) (float64, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return 0, fmt.Errorf("empty %s", name)
	}

	negative := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		negative = true
		cleaned = cleaned[1 : len(cleaned)-1]
	}
	cleaned = strings.NewReplacer("$", "", "€", "", ",", "", " ", "").Replace(cleaned)

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	if negative {
		v = -v
	}
	return v, nil
}

// CoerceNumber is the tolerant variant used for optional numeric fields:
// anything unparseable becomes 0 instead of an error.
func CoerceNumber(raw string) float64 {
	v, err := parseRequiredNumber(raw, "number")
	if err != nil {
		return 0
	}
	return v
}

// parseTimestamp resolves a date cell, optionally combined with a separate
// time-of-day cell. An empty date cell yields the zero time (the caller
// decides the fallback); a non-empty cell that matches no layout is a row
// error. A date whose time part cannot be parsed resolves to midnight.
func parseTimestamp(dateCell, timeCell string) (time.Time, error) {
	dateCell = strings.TrimSpace(dateCell)
	if dateCell == "" {
		return time.Time{}, nil
	}

	var parsed time.Time
	ok := false
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, dateCell); err == nil {
			parsed, ok = ts, true
			break
		}
	}
	if !ok {
		return time.Time{}, fmt.Errorf("invalid date %q", dateCell)
	}

	// Split-column files carry the time of day separately; graft it onto the
	// date when it parses, keep midnight when it does not.
	if clock, clockOK := parseClock(timeCell); clockOK && timeOfDay(parsed) == 0 {
		return parsed.Add(timeOfDay(clock)), nil
	}
	return parsed, nil
}

func timeOfDay(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second
}

func parseClock(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timeOfDayLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// TagAccount stamps every candidate with the active account, falling back to
// the default sentinel.
func TagAccount(candidates []models.TradeCandidate, accountID string) {
	if accountID == "" {
		accountID = models.DefaultAccountID
	}
	for i := range candidates {
		candidates[i].AccountID = accountID
	}
}
