package importer

import (
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"trade-journal-go/internal/models"
)

// Parse runs auto-detection over the header row and, when every required
// column is found, parses the file into trade candidates. When detection
// fails the returned error wraps ErrMissingColumns; that is the signal the
// import flow uses to fall back to interactive column mapping.
//
// Row-level failures never fail the file: bad rows are skipped, counted and
// reported in the result's Errors list.
func Parse(content string) (models.ParseResult, error) {
	headers, records, err := readCSV(content)
	if err != nil {
		return failedResult(err), err
	}

	mapping := GuessMapping(headers)
	if missing := mapping.MissingRequired(); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, f := range missing {
			names[i] = string(f)
		}
		err := fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(names, ", "))
		return failedResult(err), err
	}

	return parseRows(headers, records, mapping), nil
}

// ParseWithMappings parses using an explicit, user-confirmed mapping and
// bypasses auto-detection entirely. The mapping is validated again here so a
// caller that skipped ConfirmMapping cannot sneak an incomplete one through.
func ParseWithMappings(content string, mapping models.ColumnMapping) (models.ParseResult, error) {
	if err := ConfirmMapping(mapping); err != nil {
		return failedResult(err), err
	}
	headers, records, err := readCSV(content)
	if err != nil {
		return failedResult(err), err
	}
	return parseRows(headers, records, mapping), nil
}

func readCSV(content string) ([]string, [][]string, error) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	all, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV records: %w", err)
	}
	if len(all) == 0 {
		return nil, nil, ErrEmptyFile
	}
	return all[0], all[1:], nil
}

func parseRows(headers []string, records [][]string, mapping models.ColumnMapping) models.ParseResult {
	result := models.ParseResult{Success: true, Errors: []string{}}
	timeSupplement := supplementalTimeColumn(headers, mapping)

	for i, record := range records {
		if isBlankRow(record) {
			continue
		}
		// Row numbers are 1-based and include the header row, matching what
		// the user sees in a spreadsheet.
		rowNum := i + 2
		candidate, err := normalizeRow(record, mapping, timeSupplement, rowNum)
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			result.Summary.Failed++
			continue
		}
		result.Trades = append(result.Trades, candidate)
		result.Summary.SuccessfulParsed++
	}

	result.Summary.DateRange = dateRange(result.Trades)
	return result
}

func failedResult(err error) models.ParseResult {
	return models.ParseResult{Success: false, Errors: []string{err.Error()}}
}

func isBlankRow(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// supplementalTimeColumn finds an unclaimed time-of-day column for files that
// split the entry timestamp into separate date and time columns. Columns that
// look like exit times are left alone.
func supplementalTimeColumn(headers []string, mapping models.ColumnMapping) int {
	claimed := make(map[int]bool)
	for _, idx := range mapping {
		if idx >= 0 {
			claimed[idx] = true
		}
	}
	for i, h := range headers {
		if claimed[i] {
			continue
		}
		lower := strings.ToLower(strings.TrimSpace(h))
		if !strings.Contains(lower, "time") {
			continue
		}
		if strings.Contains(lower, "close") || strings.Contains(lower, "exit") {
			continue
		}
		return i
	}
	return models.Unmapped
}

func dateRange(trades []models.TradeCandidate) string {
	var min, max time.Time
	for _, t := range trades {
		if t.EntryTime.IsZero() {
			continue
		}
		if min.IsZero() || t.EntryTime.Before(min) {
			min = t.EntryTime
		}
		if max.IsZero() || t.EntryTime.After(max) {
			max = t.EntryTime
		}
	}
	if min.IsZero() {
		return ""
	}
	return min.Format("2006-01-02") + " - " + max.Format("2006-01-02")
}
