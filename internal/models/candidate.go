package models

import "time"

// Field names the semantic columns the CSV pipeline needs to locate.
type Field string

const (
	FieldSymbol     Field = "symbol"
	FieldSide       Field = "side"
	FieldOpenPrice  Field = "openPrice"
	FieldClosePrice Field = "closePrice"
	FieldQuantity   Field = "quantity"
	FieldPnL        Field = "pnl"
	FieldOpenTime   Field = "openTime"
	FieldCloseTime  Field = "closeTime"
)

// RequiredFields must all resolve to a column before a file can be parsed.
// OpenTime and CloseTime may stay unmapped.
var RequiredFields = []Field{
	FieldSymbol, FieldSide, FieldOpenPrice, FieldClosePrice, FieldQuantity, FieldPnL,
}

// OptionalFields complete the set of mappable columns.
var OptionalFields = []Field{FieldOpenTime, FieldCloseTime}

// RawRow is one data row of the uploaded file, cells in header order.
type RawRow []string

// ColumnMapping assigns a column index to each semantic field. Unmapped
// fields carry the Unmapped sentinel.
type ColumnMapping map[Field]int

// Unmapped marks a field with no corresponding column.
const Unmapped = -1

// Get returns the mapped index for a field, or Unmapped.
func (m ColumnMapping) Get(f Field) int {
	if idx, ok := m[f]; ok {
		return idx
	}
	return Unmapped
}

// MissingRequired lists the required fields still unmapped.
func (m ColumnMapping) MissingRequired() []Field {
	var missing []Field
	for _, f := range RequiredFields {
		if m.Get(f) < 0 {
			missing = append(missing, f)
		}
	}
	return missing
}

// TradeCandidate is the normalized shape a parsed row takes before
// reconciliation. It mirrors Trade's economic fields; HasPnL records whether
// the source file supplied a realized P&L directly (most broker exports do).
type TradeCandidate struct {
	Symbol     string
	Market     Market
	Side       Side
	EntryPrice float64
	ExitPrice  float64
	LotSize    float64
	PnL        float64
	HasPnL     bool
	EntryTime  time.Time
	ExitTime   time.Time
	AccountID  string
}

// ParseSummary aggregates the outcome of one file parse.
type ParseSummary struct {
	SuccessfulParsed int    `json:"successfulParsed"`
	Failed           int    `json:"failed"`
	DateRange        string `json:"dateRange,omitempty"`
}

// ParseResult is what the parser hands to the preview step.
type ParseResult struct {
	Success bool             `json:"success"`
	Trades  []TradeCandidate `json:"trades"`
	Errors  []string         `json:"errors"`
	Summary ParseSummary     `json:"summary"`
}
