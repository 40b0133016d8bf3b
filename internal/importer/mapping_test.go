package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"trade-journal-go/internal/models"
)

func TestGuessMapping_StandardHeaders(t *testing.T) {
	headers := []string{"Symbol", "Side", "Open Price", "Close Price", "Quantity", "PnL", "Open Time", "Close Time"}

	mapping := GuessMapping(headers)

	assert.Equal(t, 0, mapping.Get(models.FieldSymbol))
	assert.Equal(t, 1, mapping.Get(models.FieldSide))
	assert.Equal(t, 2, mapping.Get(models.FieldOpenPrice))
	assert.Equal(t, 3, mapping.Get(models.FieldClosePrice))
	assert.Equal(t, 4, mapping.Get(models.FieldQuantity))
	assert.Equal(t, 5, mapping.Get(models.FieldPnL))
	assert.Equal(t, 6, mapping.Get(models.FieldOpenTime))
	assert.Equal(t, 7, mapping.Get(models.FieldCloseTime))
	assert.Empty(t, mapping.MissingRequired())
}

func TestGuessMapping_BrokerAliases(t *testing.T) {
	// MetaTrader-style export: aliases matched case-insensitively, exact
	// names before substrings.
	headers := []string{"Instrument", "Direction", "entry price", "exit price", "Volume", "Net P/L", "EnteredAt", "ExitedAt"}

	mapping := GuessMapping(headers)

	assert.Equal(t, 0, mapping.Get(models.FieldSymbol))
	assert.Equal(t, 1, mapping.Get(models.FieldSide))
	assert.Equal(t, 2, mapping.Get(models.FieldOpenPrice))
	assert.Equal(t, 3, mapping.Get(models.FieldClosePrice))
	assert.Equal(t, 4, mapping.Get(models.FieldQuantity))
	assert.Equal(t, 5, mapping.Get(models.FieldPnL))
	assert.Equal(t, 6, mapping.Get(models.FieldOpenTime))
	assert.Equal(t, 7, mapping.Get(models.FieldCloseTime))
}

func TestGuessMapping_ExactBeatsSubstring(t *testing.T) {
	// "Open Time" must not be swallowed by the "Open" price alias.
	headers := []string{"Open Time", "Open", "Close", "Symbol", "Side", "Size", "Profit"}

	mapping := GuessMapping(headers)

	assert.Equal(t, 1, mapping.Get(models.FieldOpenPrice))
	assert.Equal(t, 0, mapping.Get(models.FieldOpenTime))
	assert.Equal(t, 2, mapping.Get(models.FieldClosePrice))
}

func TestGuessMapping_UnknownHeaders(t *testing.T) {
	headers := []string{"Ticker", "Dir", "In", "Out", "Qty", "Result"}

	mapping := GuessMapping(headers)

	for _, f := range models.RequiredFields {
		assert.Equal(t, models.Unmapped, mapping.Get(f), "field %s should be unmapped", f)
	}
	assert.Len(t, mapping.MissingRequired(), len(models.RequiredFields))
}

func TestConfirmMapping_Complete(t *testing.T) {
	mapping := models.ColumnMapping{
		models.FieldSymbol:     0,
		models.FieldSide:       1,
		models.FieldOpenPrice:  2,
		models.FieldClosePrice: 3,
		models.FieldQuantity:   4,
		models.FieldPnL:        5,
	}

	assert.NoError(t, ConfirmMapping(mapping))
}

func TestConfirmMapping_OptionalMayStayUnmapped(t *testing.T) {
	mapping := models.ColumnMapping{
		models.FieldSymbol:     0,
		models.FieldSide:       1,
		models.FieldOpenPrice:  2,
		models.FieldClosePrice: 3,
		models.FieldQuantity:   4,
		models.FieldPnL:        5,
		models.FieldOpenTime:   models.Unmapped,
		models.FieldCloseTime:  models.Unmapped,
	}

	assert.NoError(t, ConfirmMapping(mapping))
}

func TestConfirmMapping_MissingRequired(t *testing.T) {
	mapping := models.ColumnMapping{
		models.FieldSymbol:     0,
		models.FieldSide:       models.Unmapped,
		models.FieldOpenPrice:  2,
		models.FieldClosePrice: 3,
		models.FieldQuantity:   models.Unmapped,
		models.FieldPnL:        5,
	}

	err := ConfirmMapping(mapping)

	assert.ErrorIs(t, err, ErrMappingIncomplete)
	assert.Contains(t, err.Error(), "side")
	assert.Contains(t, err.Error(), "quantity")
}
