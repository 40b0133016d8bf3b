package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-journal-go/internal/models"
)

const unknownHeaderCSV = `Ticker,Dir,In,Out,Qty,Result
EURUSD,Buy,1.1000,1.1050,1,483
MES,Sell,5300,5290,1,50
`

func TestSession_HappyPath(t *testing.T) {
	s := NewSession("acct-a")
	assert.Equal(t, StateIdle, s.State)
	assert.NotEmpty(t, s.ID)

	err := s.Begin("trades.csv", strings.NewReader(standardCSV), 1<<20)
	require.NoError(t, err)
	assert.Equal(t, StatePreviewReady, s.State)
	require.NotNil(t, s.Preview())
	assert.Len(t, s.Preview().Trades, 2)

	candidates, err := s.Confirm()
	require.NoError(t, err)
	assert.Equal(t, StateConfirmed, s.State)
	require.Len(t, candidates, 2)
	for _, c := range candidates {
		assert.Equal(t, "acct-a", c.AccountID)
	}

	require.NoError(t, s.MarkMerged())
	assert.Equal(t, StateMerged, s.State)
}

func TestSession_MappingFallbackFlow(t *testing.T) {
	s := NewSession("")
	assert.Equal(t, models.DefaultAccountID, s.AccountID)

	err := s.Begin("trades.csv", strings.NewReader(unknownHeaderCSV), 1<<20)
	assert.ErrorIs(t, err, ErrMissingColumns)
	assert.Equal(t, StateMappingRequired, s.State)
	assert.Equal(t, []string{"Ticker", "Dir", "In", "Out", "Qty", "Result"}, s.Headers())
	assert.NotNil(t, s.SuggestedMapping())

	mapping := models.ColumnMapping{
		models.FieldSymbol:     0,
		models.FieldSide:       1,
		models.FieldOpenPrice:  2,
		models.FieldClosePrice: 3,
		models.FieldQuantity:   4,
		models.FieldPnL:        5,
	}
	require.NoError(t, s.ConfirmMapping(mapping))
	assert.Equal(t, StatePreviewReady, s.State)
	require.NotNil(t, s.Preview())
	assert.Len(t, s.Preview().Trades, 2)

	candidates, err := s.Confirm()
	require.NoError(t, err)
	assert.Equal(t, "MES", candidates[1].Symbol)
}

func TestSession_IncompleteMappingStaysPut(t *testing.T) {
	s := NewSession("acct-a")
	_ = s.Begin("trades.csv", strings.NewReader(unknownHeaderCSV), 1<<20)
	require.Equal(t, StateMappingRequired, s.State)

	err := s.ConfirmMapping(models.ColumnMapping{models.FieldSymbol: 0})

	assert.ErrorIs(t, err, ErrMappingIncomplete)
	assert.Equal(t, StateMappingRequired, s.State)
	assert.Nil(t, s.Preview())
}

func TestSession_ValidationFailureLeavesIdle(t *testing.T) {
	s := NewSession("acct-a")

	err := s.Begin("trades.pdf", strings.NewReader("x"), 1<<20)
	assert.ErrorIs(t, err, ErrFileType)
	assert.Equal(t, StateIdle, s.State)

	// The session can be retried with a valid file.
	require.NoError(t, s.Begin("trades.csv", strings.NewReader(standardCSV), 1<<20))
	assert.Equal(t, StatePreviewReady, s.State)
}

func TestSession_InvalidTransitions(t *testing.T) {
	s := NewSession("acct-a")

	_, err := s.Confirm()
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.ErrorIs(t, s.MarkMerged(), ErrInvalidTransition)
	assert.ErrorIs(t, s.ConfirmMapping(nil), ErrInvalidTransition)

	require.NoError(t, s.Begin("trades.csv", strings.NewReader(standardCSV), 1<<20))
	assert.ErrorIs(t, s.Begin("again.csv", strings.NewReader(standardCSV), 1<<20), ErrInvalidTransition)
	assert.ErrorIs(t, s.ConfirmMapping(nil), ErrInvalidTransition)
}

func TestSession_CancelGating(t *testing.T) {
	t.Run("BeforeConfirm", func(t *testing.T) {
		s := NewSession("acct-a")
		require.NoError(t, s.Begin("trades.csv", strings.NewReader(standardCSV), 1<<20))
		assert.NoError(t, s.Cancel())
		assert.Equal(t, StateCancelled, s.State)
		assert.ErrorIs(t, s.Cancel(), ErrSessionClosed)
	})

	t.Run("AfterConfirm", func(t *testing.T) {
		s := NewSession("acct-a")
		require.NoError(t, s.Begin("trades.csv", strings.NewReader(standardCSV), 1<<20))
		_, err := s.Confirm()
		require.NoError(t, err)
		assert.ErrorIs(t, s.Cancel(), ErrInvalidTransition)

		require.NoError(t, s.MarkMerged())
		assert.ErrorIs(t, s.Cancel(), ErrInvalidTransition)
	})
}
