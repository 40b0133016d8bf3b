package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"trade-journal-go/internal/config"
	"trade-journal-go/internal/models"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func setupTestClient(handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	cfg := &config.Client{
		BaseURL:        server.URL,
		RateLimit:      1000,
		RateLimitBurst: 1000,
	}
	return NewClient(cfg, zap.NewNop()), server
}

func TestUploadCSV(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/import", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "acct-a", r.FormValue("account"))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "trades.csv", header.Filename)

		writeJSON(w, ImportResponse{SessionID: "sess-1", State: "preview_ready"})
	})
	c, server := setupTestClient(handler)
	defer server.Close()

	resp, err := c.UploadCSV(context.Background(), "acct-a", "trades.csv", []byte("Symbol,Side\n"))

	require.NoError(t, err)
	assert.Equal(t, "sess-1", resp.SessionID)
	assert.Equal(t, "preview_ready", resp.State)
}

func TestConfirmMapping(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/import/sess-1/mapping", r.URL.Path)

		var body struct {
			Mapping models.ColumnMapping `json:"mapping"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 0, body.Mapping.Get(models.FieldSymbol))

		writeJSON(w, ImportResponse{SessionID: "sess-1", State: "preview_ready"})
	})
	c, server := setupTestClient(handler)
	defer server.Close()

	resp, err := c.ConfirmMapping(context.Background(), "sess-1", models.ColumnMapping{models.FieldSymbol: 0})

	require.NoError(t, err)
	assert.Equal(t, "preview_ready", resp.State)
}

func TestConfirmImport(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/import/sess-1/confirm", r.URL.Path)
		writeJSON(w, MergeResponse{Added: 50, Skipped: 0, Account: "default"})
	})
	c, server := setupTestClient(handler)
	defer server.Close()

	resp, err := c.ConfirmImport(context.Background(), "sess-1")

	require.NoError(t, err)
	assert.Equal(t, 50, resp.Added)
	assert.Equal(t, 0, resp.Skipped)
}

func TestCancelImport(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/import/sess-1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})
	c, server := setupTestClient(handler)
	defer server.Close()

	assert.NoError(t, c.CancelImport(context.Background(), "sess-1"))
}

func TestListTrades(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/trades", r.URL.Path)
		assert.Equal(t, "acct-a", r.URL.Query().Get("account"))
		writeJSON(w, []models.Trade{{ID: "t-1", Symbol: "EURUSD"}})
	})
	c, server := setupTestClient(handler)
	defer server.Close()

	trades, err := c.ListTrades(context.Background(), "acct-a")

	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, "EURUSD", trades[0].Symbol)
}

func TestDoRequest_RetriesOnServerError(t *testing.T) {
	var calls int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeJSON(w, MergeResponse{Added: 1})
	})
	c, server := setupTestClient(handler)
	defer server.Close()

	resp, err := c.ConfirmImport(context.Background(), "sess-1")

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Added)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestDoRequest_NoRetryOnClientError(t *testing.T) {
	var calls int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	})
	c, server := setupTestClient(handler)
	defer server.Close()

	_, err := c.ConfirmImport(context.Background(), "missing")

	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
