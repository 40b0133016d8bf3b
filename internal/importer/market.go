package importer

import (
	"strings"

	"trade-journal-go/internal/models"
)

// Curated symbol sets for market inference. Broker exports rarely say which
// market a symbol trades on, so imported trades are classified by lookup and
// anything unrecognized defaults to forex.

var forexPairs = map[string]bool{
	"EURUSD": true, "GBPUSD": true, "USDJPY": true, "USDCHF": true,
	"AUDUSD": true, "USDCAD": true, "NZDUSD": true, "EURGBP": true,
	"EURJPY": true, "GBPJPY": true, "AUDJPY": true, "EURCHF": true,
	"EURAUD": true, "GBPCHF": true, "CADJPY": true, "CHFJPY": true,
	"AUDNZD": true, "AUDCAD": true, "NZDJPY": true, "EURNZD": true,
	"GBPAUD": true, "GBPCAD": true, "GBPNZD": true, "USDMXN": true,
}

// futuresPrefixes include the micro contracts ahead of their standard
// counterparts, same precedence as the contract table.
var futuresPrefixes = []string{
	"MES", "MNQ", "MYM", "M2K", "MGC", "MCL", "M6E", "M6B",
	"ES", "NQ", "YM", "RTY", "GC", "CL", "SI", "HG", "NG", "ZB", "ZN",
}

var indexSymbols = map[string]bool{
	"SPX": true, "NDX": true, "DJI": true, "VIX": true,
	"US30": true, "US100": true, "US500": true, "NAS100": true, "SPX500": true,
	"DAX": true, "GER30": true, "GER40": true, "FTSE": true, "UK100": true,
	"JPN225": true, "HK50": true, "AUS200": true, "FRA40": true, "ESP35": true,
	"EU50": true, "STOXX50": true,
}

// etfSymbols trade like cash indices for P&L purposes: one currency unit per
// point, no contract multiplier.
var etfSymbols = map[string]bool{
	"SPY": true, "QQQ": true, "IWM": true, "DIA": true, "GLD": true,
	"SLV": true, "USO": true, "TLT": true, "EEM": true, "VTI": true,
	"VOO": true, "XLF": true, "XLE": true, "ARKK": true,
}

// InferMarket classifies a symbol when the source file does not say. The
// explicit sets are checked first; futures are recognized by contract prefix;
// everything else is treated as forex.
func InferMarket(symbol string) models.Market {
	upper := strings.ToUpper(strings.TrimSpace(symbol))

	if forexPairs[upper] {
		return models.MarketForex
	}
	if indexSymbols[upper] || etfSymbols[upper] {
		return models.MarketIndices
	}
	for _, prefix := range futuresPrefixes {
		if strings.HasPrefix(upper, prefix) {
			return models.MarketFutures
		}
	}
	return models.MarketForex
}
