package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"trade-journal-go/internal/models"
)

func TestFuturesPointValue_Precedence(t *testing.T) {
	// Micro contracts must win over their standard counterparts even though
	// the standard prefix is a substring of the micro one.
	assert.Equal(t, 5.0, FuturesPointValue("MES"))
	assert.Equal(t, 50.0, FuturesPointValue("ES"))
	assert.Equal(t, 2.0, FuturesPointValue("MNQ"))
	assert.Equal(t, 20.0, FuturesPointValue("NQ"))
	assert.Equal(t, 0.5, FuturesPointValue("MYM"))
	assert.Equal(t, 5.0, FuturesPointValue("YM"))
	assert.Equal(t, 10.0, FuturesPointValue("MGC"))
	assert.Equal(t, 100.0, FuturesPointValue("GC"))
	assert.Equal(t, 100.0, FuturesPointValue("MCL"))
	assert.Equal(t, 1000.0, FuturesPointValue("CL"))
}

func TestFuturesPointValue_PrefixAndCase(t *testing.T) {
	// Contract month suffixes still match by prefix.
	assert.Equal(t, 50.0, FuturesPointValue("ESZ5"))
	assert.Equal(t, 5.0, FuturesPointValue("mesh6"))
	// Unknown symbols fall back to 1 without error.
	assert.Equal(t, 1.0, FuturesPointValue("ZB"))
}

func TestLookup_Forex(t *testing.T) {
	spec := Lookup(models.MarketForex, "EURUSD", 1, 0)
	assert.Equal(t, 100000.0, spec.Multiplier)
	assert.Equal(t, 10.0, spec.SpreadCost(1))

	// Two-decimal quote currencies use the 1,000 per-point lot value, but the
	// spread cost keeps the fixed $10/pip-per-lot assumption.
	spec = Lookup(models.MarketForex, "USDJPY", 2, 0)
	assert.Equal(t, 2000.0, spec.Multiplier)
	assert.Equal(t, 40.0, spec.SpreadCost(2))
}

func TestLookup_Futures(t *testing.T) {
	// The point value is per contract: the lot size scales the spread cost
	// but not the multiplier.
	spec := Lookup(models.MarketFutures, "ES", 2, 0)
	assert.Equal(t, 50.0, spec.Multiplier)
	assert.Equal(t, 25.0, spec.SpreadCost(0.25))
}

func TestLookup_Indices(t *testing.T) {
	spec := Lookup(models.MarketIndices, "SPX", 3, 0)
	assert.Equal(t, 1.0, spec.Multiplier)
	assert.Equal(t, 6.0, spec.SpreadCost(2))
}

func TestLookup_CustomMultiplierOverride(t *testing.T) {
	// A positive custom multiplier replaces the table for every market.
	spec := Lookup(models.MarketForex, "EURUSD", 2, 7)
	assert.Equal(t, 7.0, spec.Multiplier)
	assert.Equal(t, 42.0, spec.SpreadCost(3)) // 3 * 7 * 2

	spec = Lookup(models.MarketFutures, "ES", 1, 12.5)
	assert.Equal(t, 12.5, spec.Multiplier)
}

func TestLookup_ZeroCustomMultiplierIgnored(t *testing.T) {
	spec := Lookup(models.MarketFutures, "NQ", 1, 0)
	assert.Equal(t, 20.0, spec.Multiplier)
}
