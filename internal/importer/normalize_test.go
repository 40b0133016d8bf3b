package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"trade-journal-go/internal/models"
)

func TestInferMarket(t *testing.T) {
	cases := []struct {
		symbol string
		want   models.Market
	}{
		{"EURUSD", models.MarketForex},
		{"usdjpy", models.MarketForex},
		{"ES", models.MarketFutures},
		{"MESZ5", models.MarketFutures},
		{"MNQ", models.MarketFutures},
		{"SPX", models.MarketIndices},
		{"NAS100", models.MarketIndices},
		{"SPY", models.MarketIndices},
		{"QQQ", models.MarketIndices},
		// Anything unrecognized defaults to forex.
		{"XAUXAG", models.MarketForex},
		{"", models.MarketForex},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, InferMarket(tc.symbol), "symbol %q", tc.symbol)
	}
}

func TestParseSide(t *testing.T) {
	long := []string{"buy", "Buy", "BUY", "long", "b", "BOT"}
	for _, raw := range long {
		side, err := parseSide(raw)
		assert.NoError(t, err)
		assert.Equal(t, models.SideLong, side)
	}

	short := []string{"sell", "Short", "s", "SLD"}
	for _, raw := range short {
		side, err := parseSide(raw)
		assert.NoError(t, err)
		assert.Equal(t, models.SideShort, side)
	}

	_, err := parseSide("hold")
	assert.Error(t, err)
	_, err = parseSide("")
	assert.Error(t, err)
}

func TestCoerceNumber(t *testing.T) {
	assert.Equal(t, 1234.56, CoerceNumber("$1,234.56"))
	assert.Equal(t, -50.25, CoerceNumber("(50.25)"))
	assert.Equal(t, 0.0, CoerceNumber("n/a"))
	assert.Equal(t, 0.0, CoerceNumber(""))
}

func TestParseTimestamp(t *testing.T) {
	t.Run("Combined", func(t *testing.T) {
		ts, err := parseTimestamp("2024-03-01 10:30:00", "")
		assert.NoError(t, err)
		assert.Equal(t, time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC), ts)
	})

	t.Run("DateOnlyDefaultsToMidnight", func(t *testing.T) {
		ts, err := parseTimestamp("03/15/2024", "")
		assert.NoError(t, err)
		assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), ts)
	})

	t.Run("SplitColumns", func(t *testing.T) {
		ts, err := parseTimestamp("2024-03-01", "14:45:30")
		assert.NoError(t, err)
		assert.Equal(t, time.Date(2024, 3, 1, 14, 45, 30, 0, time.UTC), ts)
	})

	t.Run("UnparseableTimeKeepsMidnight", func(t *testing.T) {
		ts, err := parseTimestamp("2024-03-01", "garbage")
		assert.NoError(t, err)
		assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), ts)
	})

	t.Run("EmptyIsZero", func(t *testing.T) {
		ts, err := parseTimestamp("", "10:00:00")
		assert.NoError(t, err)
		assert.True(t, ts.IsZero())
	})

	t.Run("GarbageIsRowError", func(t *testing.T) {
		_, err := parseTimestamp("soon", "")
		assert.Error(t, err)
	})
}

func TestTagAccount(t *testing.T) {
	candidates := []models.TradeCandidate{{Symbol: "EURUSD"}, {Symbol: "ES"}}

	TagAccount(candidates, "acct-1")
	for _, c := range candidates {
		assert.Equal(t, "acct-1", c.AccountID)
	}

	TagAccount(candidates, "")
	for _, c := range candidates {
		assert.Equal(t, models.DefaultAccountID, c.AccountID)
	}
}
