package importer

import (
	"fmt"
	"strings"

	"trade-journal-go/internal/models"
)

// fieldAliases is the dictionary of header names brokers use for each
// semantic field. Matching is case-insensitive; an exact pass runs before a
// substring pass so "Open Price" is never swallowed by the "Open" alias of a
// neighboring column.
var fieldAliases = map[models.Field][]string{
	models.FieldSymbol:     {"Symbol", "Instrument", "Pair", "ContractName", "Contract"},
	models.FieldSide:       {"Side", "Type", "Direction", "Action"},
	models.FieldOpenPrice:  {"Open Price", "Entry Price", "Open", "Entry", "EntryPrice"},
	models.FieldClosePrice: {"Close Price", "Exit Price", "Close", "Exit", "ExitPrice"},
	models.FieldQuantity:   {"Lots", "Volume", "Size", "Quantity", "Units"},
	models.FieldPnL:        {"PnL", "Profit", "P&L", "Gain", "Net P/L"},
	models.FieldOpenTime:   {"Open Time", "Entry Time", "Date", "Time", "Open Date", "EnteredAt", "TradeDay"},
	models.FieldCloseTime:  {"Close Time", "Exit Time", "Close Date", "ExitedAt"},
}

// fieldOrder fixes the scan order so detection is deterministic: required
// fields claim columns before the optional time fields get a chance.
var fieldOrder = append(append([]models.Field{}, models.RequiredFields...), models.OptionalFields...)

// GuessMapping proposes a header-to-field assignment from the alias
// dictionary. Unmatched fields get the Unmapped sentinel; each column is
// claimed at most once.
func GuessMapping(headers []string) models.ColumnMapping {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = strings.ToLower(strings.TrimSpace(h))
	}

	mapping := make(models.ColumnMapping, len(fieldOrder))
	for _, f := range fieldOrder {
		mapping[f] = models.Unmapped
	}
	claimed := make(map[int]bool)

	// Exact pass.
	for _, field := range fieldOrder {
		for _, alias := range fieldAliases[field] {
			idx := indexOf(normalized, strings.ToLower(alias), claimed, true)
			if idx >= 0 {
				mapping[field] = idx
				claimed[idx] = true
				break
			}
		}
	}

	// Substring pass for whatever is still unmatched.
	for _, field := range fieldOrder {
		if mapping[field] >= 0 {
			continue
		}
		for _, alias := range fieldAliases[field] {
			idx := indexOf(normalized, strings.ToLower(alias), claimed, false)
			if idx >= 0 {
				mapping[field] = idx
				claimed[idx] = true
				break
			}
		}
	}

	return mapping
}

func indexOf(headers []string, alias string, claimed map[int]bool, exact bool) int {
	for i, h := range headers {
		if claimed[i] {
			continue
		}
		if exact && h == alias {
			return i
		}
		if !exact && strings.Contains(h, alias) {
			return i
		}
	}
	return models.Unmapped
}

// ConfirmMapping validates a user-edited mapping before it is used for a
// re-parse. Every required field must point at a column; optional time
// fields may stay unmapped. Nothing is parsed when validation fails.
func ConfirmMapping(mapping models.ColumnMapping) error {
	missing := mapping.MissingRequired()
	if len(missing) == 0 {
		return nil
	}
	names := make([]string, len(missing))
	for i, f := range missing {
		names[i] = string(f)
	}
	return fmt.Errorf("%w: %s", ErrMappingIncomplete, strings.Join(names, ", "))
}
