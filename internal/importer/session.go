package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"trade-journal-go/internal/models"
)

// State is the position of an import session in its lifecycle.
//
//	Idle → Validating → {PreviewReady | MappingRequired}
//	MappingRequired → MappingConfirmed → PreviewReady
//	PreviewReady → Confirmed → Merged
//
// Cancelled is reachable from every state before Confirmed. Merged is
// terminal; undoing a merge means deleting trades explicitly.
type State string

const (
	StateIdle             State = "idle"
	StateValidating       State = "validating"
	StatePreviewReady     State = "preview_ready"
	StateMappingRequired  State = "mapping_required"
	StateMappingConfirmed State = "mapping_confirmed"
	StateConfirmed        State = "confirmed"
	StateMerged           State = "merged"
	StateCancelled        State = "cancelled"
)

var (
	// ErrInvalidTransition rejects an operation the current state does not allow.
	ErrInvalidTransition = errors.New("invalid import state transition")
	// ErrSessionClosed rejects operations on merged or cancelled sessions.
	ErrSessionClosed = errors.New("import session is closed")
)

// Session carries one upload from validation through merge. It holds the
// file content between parse attempts so that a confirmed mapping can
// re-parse without re-uploading.
type Session struct {
	ID        string
	AccountID string
	State     State
	CreatedAt time.Time

	content string
	headers []string
	mapping models.ColumnMapping
	preview *models.ParseResult
}

// NewSession creates an idle session for the given account.
func NewSession(accountID string) *Session {
	if accountID == "" {
		accountID = models.DefaultAccountID
	}
	return &Session{
		ID:        uuid.NewString(),
		AccountID: accountID,
		State:     StateIdle,
		CreatedAt: time.Now(),
	}
}

// Begin validates the upload and attempts auto-detection. On success the
// session lands in PreviewReady with a parse result; when required columns
// cannot be detected it lands in MappingRequired, holding the headers and a
// best-guess mapping for the user to complete. File-level validation
// failures leave the session idle so the caller can surface them and retry.
func (s *Session) Begin(filename string, r io.Reader, maxBytes int64) error {
	if s.State != StateIdle {
		return fmt.Errorf("%w: begin from %s", ErrInvalidTransition, s.State)
	}
	s.State = StateValidating

	content, err := ValidateFile(filename, r, maxBytes)
	if err != nil {
		s.State = StateIdle
		return err
	}
	s.content = content
	s.headers = headerRow(content)

	result, err := Parse(content)
	if err != nil {
		if errors.Is(err, ErrMissingColumns) {
			s.mapping = GuessMapping(s.headers)
			s.State = StateMappingRequired
			return err
		}
		s.State = StateIdle
		return err
	}

	s.preview = &result
	s.State = StatePreviewReady
	return nil
}

// Headers returns the header row for the mapping dialog.
func (s *Session) Headers() []string { return s.headers }

// SuggestedMapping returns the best-guess assignment proposed when
// auto-detection failed.
func (s *Session) SuggestedMapping() models.ColumnMapping { return s.mapping }

// Preview returns the parse result awaiting confirmation, or nil.
func (s *Session) Preview() *models.ParseResult { return s.preview }

// ConfirmMapping accepts a user-completed mapping and re-parses with it. An
// incomplete mapping is rejected without touching any data and the session
// stays in MappingRequired.
func (s *Session) ConfirmMapping(mapping models.ColumnMapping) error {
	if s.State != StateMappingRequired {
		return fmt.Errorf("%w: confirm mapping from %s", ErrInvalidTransition, s.State)
	}
	if err := ConfirmMapping(mapping); err != nil {
		return err
	}
	s.State = StateMappingConfirmed
	s.mapping = mapping

	result, err := ParseWithMappings(s.content, mapping)
	if err != nil {
		s.State = StateMappingRequired
		return err
	}
	s.preview = &result
	s.State = StatePreviewReady
	return nil
}

// Confirm locks the preview in and returns the candidates to merge, tagged
// with the session's account.
func (s *Session) Confirm() ([]models.TradeCandidate, error) {
	if s.State != StatePreviewReady {
		return nil, fmt.Errorf("%w: confirm from %s", ErrInvalidTransition, s.State)
	}
	s.State = StateConfirmed

	candidates := make([]models.TradeCandidate, len(s.preview.Trades))
	copy(candidates, s.preview.Trades)
	TagAccount(candidates, s.AccountID)
	return candidates, nil
}

// MarkMerged records that the batch reached the store. Terminal.
func (s *Session) MarkMerged() error {
	if s.State != StateConfirmed {
		return fmt.Errorf("%w: merge from %s", ErrInvalidTransition, s.State)
	}
	s.State = StateMerged
	return nil
}

// Cancel dismisses the session. Allowed any time before Confirmed; once the
// merge is underway there is no automatic rollback.
func (s *Session) Cancel() error {
	switch s.State {
	case StateConfirmed, StateMerged:
		return fmt.Errorf("%w: cancel from %s", ErrInvalidTransition, s.State)
	case StateCancelled:
		return ErrSessionClosed
	}
	s.State = StateCancelled
	return nil
}

func headerRow(content string) []string {
	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1
	headers, err := reader.Read()
	if err != nil {
		return nil
	}
	return headers
}
