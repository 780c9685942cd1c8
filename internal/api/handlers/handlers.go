package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/api/middleware"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/apperrors"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/cashdesk"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/intake"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/logger"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/models"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/session"
)

// Desk is the subset of cashdesk.Desk the HTTP layer drives.
type Desk interface {
	Session() session.Session
	Stores() []models.Store
	Login(ctx context.Context, email, password string) (models.UserProfile, error)
	Logout(ctx context.Context) error
	SelectStore(ctx context.Context, storeID string) error
	PublicBalance(ctx context.Context) (cashdesk.PublicBalance, error)
	IntakeEmployees() ([]models.Employee, error)
	Submit(ctx context.Context, req intake.Request) (models.Transaction, error)
	AuditLedger(ctx context.Context, storeID string) (models.LedgerView, error)
}

// DeskHandler serves the cash desk over JSON.
type DeskHandler struct {
	desk Desk
	log  zerolog.Logger
}

func NewDeskHandler(desk Desk, log zerolog.Logger) *DeskHandler {
	return &DeskHandler{desk: desk, log: log}
}

// Routes registers every endpoint on a new mux.
func (h *DeskHandler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /api/stores", h.ListStores)
	mux.HandleFunc("GET /api/session", h.GetSession)
	mux.HandleFunc("POST /api/session/login", h.Login)
	mux.HandleFunc("POST /api/session/logout", h.Logout)
	mux.HandleFunc("POST /api/session/store", h.SelectStore)
	mux.HandleFunc("GET /api/balance", h.GetBalance)
	mux.HandleFunc("GET /api/employees", h.ListEmployees)
	mux.HandleFunc("POST /api/transactions", h.SubmitTransaction)
	mux.HandleFunc("GET /api/ledger", h.GetLedger)

	return mux
}

func (h *DeskHandler) Health(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// ListStores handles GET /api/stores
func (h *DeskHandler) ListStores(w http.ResponseWriter, r *http.Request) {
	stores := h.desk.Stores()
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"stores": stores,
		"count":  len(stores),
	})
}

type sessionResponse struct {
	State         session.State       `json:"state"`
	Identity      *models.UserProfile `json:"identity"`
	SelectedStore string              `json:"selected_store"`
	CanSubmit     bool                `json:"can_submit"`
	CanAudit      bool                `json:"can_audit"`
}

func toSessionResponse(s session.Session) sessionResponse {
	return sessionResponse{
		State:         s.State(),
		Identity:      s.Identity,
		SelectedStore: s.SelectedStore,
		CanSubmit:     s.CanSubmit(),
		CanAudit:      s.CanAudit(),
	}
}

// GetSession handles GET /api/session
func (h *DeskHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, toSessionResponse(h.desk.Session()))
}

// Login handles POST /api/session/login
func (h *DeskHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decode(w, r, &req) {
		return
	}

	if _, err := h.desk.Login(r.Context(), req.Email, req.Password); err != nil {
		h.writeErr(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, toSessionResponse(h.desk.Session()))
}

// Logout handles POST /api/session/logout
func (h *DeskHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.desk.Logout(r.Context()); err != nil {
		h.writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SelectStore handles POST /api/session/store
func (h *DeskHandler) SelectStore(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StoreID string `json:"store_id"`
	}
	if !decode(w, r, &req) {
		return
	}

	if err := h.desk.SelectStore(r.Context(), req.StoreID); err != nil {
		h.writeErr(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, toSessionResponse(h.desk.Session()))
}

// GetBalance handles GET /api/balance. Balance only, never transactions.
func (h *DeskHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	pb, err := h.desk.PublicBalance(r.Context())
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"store_id":   pb.Store.ID,
		"store_name": pb.Store.Name,
		"balance":    pb.Balance.StringFixed(2),
	})
}

// ListEmployees handles GET /api/employees
func (h *DeskHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	emps, err := h.desk.IntakeEmployees()
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"employees": emps,
		"count":     len(emps),
	})
}

// SubmitTransaction handles POST /api/transactions
func (h *DeskHandler) SubmitTransaction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type         string          `json:"type"`
		Amount       json.RawMessage `json:"amount"`
		Comment      string          `json:"comment"`
		EmployeeName string          `json:"employee_name"`
	}
	if !decode(w, r, &req) {
		return
	}

	tx, err := h.desk.Submit(r.Context(), intake.Request{
		Type:         models.TransactionType(req.Type),
		RawAmount:    rawAmount(req.Amount),
		Comment:      req.Comment,
		EmployeeName: req.EmployeeName,
	})
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, tx)
}

// GetLedger handles GET /api/ledger?store_id=
func (h *DeskHandler) GetLedger(w http.ResponseWriter, r *http.Request) {
	view, err := h.desk.AuditLedger(r.Context(), r.URL.Query().Get("store_id"))
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"store_id":     view.StoreID,
		"balance":      view.Balance.StringFixed(2),
		"transactions": view.Transactions,
		"count":        len(view.Transactions),
	})
}

// rawAmount accepts the amount either as a JSON number or a JSON string and
// hands its text to intake for validation.
func rawAmount(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return string(raw)
}

// maxBodyBytes caps every JSON request body.
const maxBodyBytes = 1 << 20

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return false
	}
	return true
}

func (h *DeskHandler) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		log := logger.FromContextOr(r.Context(), h.log)
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		middleware.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Internal server error")
		return
	}
	middleware.WriteError(w, apperrors.HTTPStatus(err), string(appErr.Code), appErr.Message)
}
