package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/api/middleware"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/cashdesk"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/identity"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/logger"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/models"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/registry"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/storage/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	reg, err := registry.New(
		[]models.Store{{ID: "a", Name: "Store A"}, {ID: "b", Name: "Store B"}},
		[]models.Employee{{StoreID: "a", Name: "Ava Patel"}, {StoreID: "b", Name: "Ben Ode"}},
	)
	require.NoError(t, err)

	dir, err := identity.New([]identity.Credential{
		{Password: "pw", Profile: models.UserProfile{Email: "staff@a.example", Name: "Staff A", Role: models.RoleStaff, StoreID: "a"}},
		{Password: "pw", Profile: models.UserProfile{Email: "admin@a.example", Name: "Admin A", Role: models.RoleAdmin, StoreID: "a"}},
	}, bcrypt.MinCost)
	require.NoError(t, err)

	desk, err := cashdesk.Open(context.Background(), cashdesk.Deps{
		Registry:     reg,
		Directory:    dir,
		KV:           memory.NewMemoryKVStore(),
		Log:          zerolog.Nop(),
		OpeningFloat: decimal.NewFromInt(100),
		Now:          func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)

	srv := httptest.NewServer(NewDeskHandler(desk, zerolog.Nop()).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (int, map[string]any) {
	t.Helper()

	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp.StatusCode, out
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	status, body := do(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])
}

func TestPublicBalanceNeverListsTransactions(t *testing.T) {
	srv := newTestServer(t)

	status, _ := do(t, srv, http.MethodPost, "/api/session/store", `{"store_id":"b"}`)
	require.Equal(t, http.StatusOK, status)

	status, body := do(t, srv, http.MethodGet, "/api/balance", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "b", body["store_id"])
	assert.Equal(t, "100.00", body["balance"])
	assert.NotContains(t, body, "transactions")
}

func TestAnonymousIsGated(t *testing.T) {
	srv := newTestServer(t)

	status, body := do(t, srv, http.MethodPost, "/api/transactions",
		`{"type":"ADD","amount":"1","comment":"x","employee_name":"Ava Patel"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "NOT_AUTHENTICATED", body["code"])

	status, _ = do(t, srv, http.MethodGet, "/api/ledger", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = do(t, srv, http.MethodGet, "/api/employees", "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestStaffFlow(t *testing.T) {
	srv := newTestServer(t)

	status, body := do(t, srv, http.MethodPost, "/api/session/login", `{"email":"staff@a.example","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_CREDENTIALS", body["code"])

	status, body = do(t, srv, http.MethodPost, "/api/session/login", `{"email":"Staff@A.example","password":"pw"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "staff", body["state"])
	assert.Equal(t, "a", body["selected_store"])

	status, body = do(t, srv, http.MethodPost, "/api/transactions",
		`{"type":"ADD","amount":"abc","comment":"","employee_name":"Ava Patel"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_AMOUNT", body["code"])

	status, body = do(t, srv, http.MethodPost, "/api/transactions",
		`{"type":"ADD","amount":50.25,"comment":"till reconciliation","employee_name":"Ava Patel"}`)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "a", body["storeId"])
	assert.Equal(t, "50.25", body["amount"])

	status, body = do(t, srv, http.MethodGet, "/api/balance", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "150.25", body["balance"])

	status, _ = do(t, srv, http.MethodGet, "/api/ledger?store_id=a", "")
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = do(t, srv, http.MethodPost, "/api/session/store", `{"store_id":"b"}`)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = do(t, srv, http.MethodPost, "/api/session/logout", "")
	assert.Equal(t, http.StatusNoContent, status)

	status, body = do(t, srv, http.MethodGet, "/api/session", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "anonymous", body["state"])
	assert.Equal(t, "a", body["selected_store"])
}

func TestAdminAuditsOtherStore(t *testing.T) {
	srv := newTestServer(t)

	status, _ := do(t, srv, http.MethodPost, "/api/session/login", `{"email":"admin@a.example","password":"pw"}`)
	require.Equal(t, http.StatusOK, status)

	status, body := do(t, srv, http.MethodGet, "/api/ledger?store_id=b", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "b", body["store_id"])
	assert.Equal(t, float64(1), body["count"])

	status, body = do(t, srv, http.MethodGet, "/api/ledger?store_id=zzz", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "UNKNOWN_STORE", body["code"])

	status, body = do(t, srv, http.MethodGet, "/api/employees", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["count"])
}

func TestBadBody(t *testing.T) {
	srv := newTestServer(t)
	status, body := do(t, srv, http.MethodPost, "/api/session/login", `{`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_REQUEST", body["code"])
}

func TestRawAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"12.50"`, "12.50"},
		{`12.5`, "12.5"},
		{`null`, ""},
		{`true`, "true"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, rawAmount(json.RawMessage(tt.in)))
		})
	}
}

type brokenDesk struct {
	Desk
}

func (brokenDesk) PublicBalance(context.Context) (cashdesk.PublicBalance, error) {
	return cashdesk.PublicBalance{}, errors.New("kv store unavailable")
}

func TestOversizedBodyRejected(t *testing.T) {
	h := NewDeskHandler(brokenDesk{}, zerolog.Nop())
	body := `{"email":"` + strings.Repeat("a", maxBodyBytes) + `","password":"pw"}`

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/session/login", strings.NewReader(body)))

	var out map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_REQUEST", out["code"])
}

func TestInternalErrorLoggedWithRequestID(t *testing.T) {
	buf := &bytes.Buffer{}
	h := NewDeskHandler(brokenDesk{}, zerolog.Nop())
	handler := middleware.Chain(h.Routes(), middleware.RequestID, middleware.Logger(logger.NewWithWriter(buf)))

	req := httptest.NewRequest(http.MethodGet, "/api/balance", nil)
	req.Header.Set("X-Request-ID", "req-500")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var out map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL", out["code"])
	assert.NotContains(t, out["error"], "kv store")

	var failure map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		if entry["message"] == "Request failed" {
			failure = entry
		}
	}
	require.NotNil(t, failure, "no error line in %s", buf.String())
	assert.Equal(t, "req-500", failure["request_id"])
	assert.Equal(t, "kv store unavailable", failure["error"])
}
