// Package importer implements the CSV ingestion pipeline: file validation,
// column auto-detection with an interactive-mapping fallback, candidate
// normalization and duplicate-free reconciliation into the trade store.
package importer

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
)

var (
	// ErrFileType means the upload has a disallowed extension or content type.
	ErrFileType = errors.New("unsupported file type")
	// ErrFileTooLarge means the upload exceeds the configured size cap.
	ErrFileTooLarge = errors.New("file exceeds size limit")
	// ErrMissingColumns is the auto-detection failure that routes the import
	// into interactive column mapping instead of aborting it.
	ErrMissingColumns = errors.New("missing required columns")
	// ErrMappingIncomplete rejects a confirmed mapping that still leaves a
	// required field unassigned.
	ErrMappingIncomplete = errors.New("missing required mappings")
	// ErrEmptyFile means the upload had no header row.
	ErrEmptyFile = errors.New("file is empty")
)

// allowedExtensions are the broker-export formats accepted for upload. The
// parser itself only understands CSV text; spreadsheet extensions are let
// through because many brokers mislabel their CSV exports.
var allowedExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
	".xls":  true,
}

// allowedContentTypes are the sniffed content types consistent with CSV text.
// octet-stream is tolerated; strict parsing catches non-CSV payloads later.
var allowedContentTypes = map[string]bool{
	"text/plain":               true,
	"text/csv":                 true,
	"application/csv":          true,
	"application/octet-stream": true,
}

// ValidateFile checks the upload's extension, size and content signature and
// returns the file content. It fails before any parsing happens, so a
// rejected file never reaches the pipeline.
func ValidateFile(filename string, r io.Reader, maxBytes int64) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("%w: %q", ErrFileType, ext)
	}

	// Read one byte past the cap so an oversized file is detected without
	// buffering all of it.
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return "", fmt.Errorf("%w: limit %d bytes", ErrFileTooLarge, maxBytes)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return "", ErrEmptyFile
	}

	sniffLen := len(data)
	if sniffLen > 512 {
		sniffLen = 512
	}
	detected := http.DetectContentType(data[:sniffLen])
	detected = strings.ToLower(strings.Split(detected, ";")[0])
	if !allowedContentTypes[detected] {
		return "", fmt.Errorf("%w: detected %q", ErrFileType, detected)
	}

	return string(data), nil
}
