package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/account-ledger-service/internal/events/noop"
	"github.com/sheikh-saqib/account-ledger-service/internal/ledger"
	"github.com/sheikh-saqib/account-ledger-service/internal/models"
	"github.com/sheikh-saqib/account-ledger-service/internal/storage/memory"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	store := memory.NewStore()
	require.NoError(t, store.CreateAccount(context.Background(), 1, 1000))

	log := zerolog.Nop()
	engine := ledger.NewEngine(store, noop.Publisher{}, log)
	statements := ledger.NewStatements(store)
	return NewRouter(NewHandler(engine, statements, store, log), log)
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSubmitMovement(t *testing.T) {
	h := newTestServer(t)

	rec := doRequest(t, h, http.MethodPost, "/accounts/1/transactions",
		`{"value": 500, "kind": "d", "description": "compra"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Limit   int64 `json:"limit"`
		Balance int64 `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1000), resp.Limit)
	assert.Equal(t, int64(-500), resp.Balance)
}

func TestSubmitMovementRejections(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
	}{
		{"fractional value", "/accounts/1/transactions", `{"value": 10.5, "kind": "c", "description": "dep"}`, http.StatusUnprocessableEntity},
		{"empty description", "/accounts/1/transactions", `{"value": 10, "kind": "c", "description": ""}`, http.StatusUnprocessableEntity},
		{"unknown kind", "/accounts/1/transactions", `{"value": 10, "kind": "x", "description": "dep"}`, http.StatusUnprocessableEntity},
		{"limit breach", "/accounts/1/transactions", `{"value": 2000, "kind": "d", "description": "compra"}`, http.StatusUnprocessableEntity},
		{"unknown account", "/accounts/999/transactions", `{"value": 10, "kind": "c", "description": "dep"}`, http.StatusNotFound},
		{"non-numeric account", "/accounts/abc/transactions", `{"value": 10, "kind": "c", "description": "dep"}`, http.StatusUnprocessableEntity},
		{"value exceeding int64", "/accounts/1/transactions", `{"value": 18446744073709551621, "kind": "c", "description": "dep"}`, http.StatusUnprocessableEntity},
		{"malformed body", "/accounts/1/transactions", `{"value":`, http.StatusUnprocessableEntity},
		{"non-numeric value", "/accounts/1/transactions", `{"value": "abc", "kind": "c", "description": "dep"}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(t)
			rec := doRequest(t, h, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestSubmitMovementRejectionLeavesBalance(t *testing.T) {
	h := newTestServer(t)

	rec := doRequest(t, h, http.MethodPost, "/accounts/1/transactions",
		`{"value": 500, "kind": "d", "description": "compra"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, h, http.MethodPost, "/accounts/1/transactions",
		`{"value": 600, "kind": "d", "description": "compra"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/accounts/1/statement", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Balance int64 `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(-500), resp.Balance)
}

func TestGetStatement(t *testing.T) {
	h := newTestServer(t)

	for _, body := range []string{
		`{"value": 500, "kind": "d", "description": "compra"}`,
		`{"value": 500, "kind": "c", "description": "deposito"}`,
	} {
		rec := doRequest(t, h, http.MethodPost, "/accounts/1/transactions", body)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doRequest(t, h, http.MethodGet, "/accounts/1/statement", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Balance      int64     `json:"balance"`
		Limit        int64     `json:"limit"`
		AsOf         time.Time `json:"as_of"`
		Transactions []struct {
			Value       int64     `json:"value"`
			Kind        string    `json:"kind"`
			Description string    `json:"description"`
			CreatedAt   time.Time `json:"created_at"`
		} `json:"transactions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, int64(0), resp.Balance)
	assert.Equal(t, int64(1000), resp.Limit)
	assert.False(t, resp.AsOf.IsZero())
	require.Len(t, resp.Transactions, 2)
	assert.Equal(t, "c", resp.Transactions[0].Kind)
	assert.Equal(t, "deposito", resp.Transactions[0].Description)
	assert.Equal(t, "d", resp.Transactions[1].Kind)
	assert.Equal(t, "compra", resp.Transactions[1].Description)
}

func TestGetStatementEmptyAccount(t *testing.T) {
	h := newTestServer(t)

	rec := doRequest(t, h, http.MethodGet, "/accounts/1/statement", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"transactions":[]`)
}

func TestGetStatementUnknownAccount(t *testing.T) {
	h := newTestServer(t)

	rec := doRequest(t, h, http.MethodGet, "/accounts/999/statement", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetStatementNonNumericAccount(t *testing.T) {
	h := newTestServer(t)

	rec := doRequest(t, h, http.MethodGet, "/accounts/abc/statement", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestListAccounts(t *testing.T) {
	h := newTestServer(t)

	rec := doRequest(t, h, http.MethodGet, "/accounts", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var accounts []models.Account
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &accounts))
	require.Len(t, accounts, 1)
	assert.Equal(t, models.Account{ID: 1, Balance: 0, Limit: 1000}, accounts[0])
}

func TestHealth(t *testing.T) {
	h := newTestServer(t)

	rec := doRequest(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}
