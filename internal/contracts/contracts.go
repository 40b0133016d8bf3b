// Package contracts is the static lookup of point-value and cost-unit
// conventions per market and symbol. It is pure data plus a lookup function;
// unknown symbols fall back to a multiplier of 1 rather than erroring.
package contracts

import (
	"strings"

	"trade-journal-go/internal/models"
)

// Spec is the resolved contract convention for one trade: the currency value
// of one unit of price movement, and how to convert the quoted spread into a
// currency cost.
type Spec struct {
	Multiplier float64

	spreadCost func(spread float64) float64
}

// SpreadCost converts a spread quoted in the instrument's native unit (pips
// for forex, points for futures and indices) into currency.
func (s Spec) SpreadCost(spread float64) float64 {
	return s.spreadCost(spread)
}

// pointValueRule maps a futures symbol prefix to its per-point dollar value.
type pointValueRule struct {
	prefix string
	value  float64
}

// pointValueRules is evaluated in order. Micro contracts must come before
// their standard counterparts so that e.g. "MES" never matches the "ES" rule.
var pointValueRules = []pointValueRule{
	{"MES", 5},
	{"MNQ", 2},
	{"MYM", 0.5},
	{"M2K", 5},
	{"MGC", 10},
	{"MCL", 100},
	{"M6E", 1250},
	{"M6B", 625},
	{"ES", 50},
	{"NQ", 20},
	{"YM", 5},
	{"RTY", 50},
	{"GC", 100},
	{"CL", 1000},
}

// defaultPointValue applies when no prefix rule matches.
const defaultPointValue = 1

// twoDecimalQuotes are quote currencies priced to two decimals, where a pip
// is 0.01 instead of 0.0001 and a standard lot is worth 1,000 per point.
var twoDecimalQuotes = []string{"JPY"}

// FuturesPointValue returns the per-point dollar value for a futures symbol.
// The value is per contract; it is not scaled by the contract count.
func FuturesPointValue(symbol string) float64 {
	upper := strings.ToUpper(symbol)
	for _, rule := range pointValueRules {
		if strings.HasPrefix(upper, rule.prefix) {
			return rule.value
		}
	}
	return defaultPointValue
}

// isTwoDecimalQuote reports whether a forex pair is quoted to two decimals.
func isTwoDecimalQuote(symbol string) bool {
	upper := strings.ToUpper(symbol)
	for _, quote := range twoDecimalQuotes {
		if strings.Contains(upper, quote) {
			return true
		}
	}
	return false
}

// Lookup resolves the contract spec for a trade.
//
// A customMultiplier > 0 overrides the table entirely, for both the point
// value and the spread conversion. Otherwise:
//
//   - forex: the multiplier incorporates the lot size (100,000 units per
//     standard lot, 1,000 for two-decimal quotes); the spread cost assumes a
//     fixed $10 per pip per lot regardless of the quote currency.
//   - futures: the per-point table value, per contract. The lot size enters
//     only through the spread cost, not the multiplier.
//   - indices: one currency unit per point.
func Lookup(market models.Market, symbol string, lotSize, customMultiplier float64) Spec {
	if customMultiplier > 0 {
		return Spec{
			Multiplier: customMultiplier,
			spreadCost: func(spread float64) float64 { return spread * customMultiplier * lotSize },
		}
	}

	switch market {
	case models.MarketForex:
		multiplier := 100000 * lotSize
		if isTwoDecimalQuote(symbol) {
			multiplier = 1000 * lotSize
		}
		return Spec{
			Multiplier: multiplier,
			spreadCost: func(spread float64) float64 { return spread * lotSize * 10 },
		}
	case models.MarketFutures:
		pointValue := FuturesPointValue(symbol)
		return Spec{
			Multiplier: pointValue,
			spreadCost: func(spread float64) float64 { return spread * pointValue * lotSize },
		}
	default: // indices
		return Spec{
			Multiplier: 1,
			spreadCost: func(spread float64) float64 { return spread * lotSize },
		}
	}
}
