package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/account-ledger-service/internal/interfaces"
	"github.com/sheikh-saqib/account-ledger-service/internal/ledger"
)

// Handler exposes the transaction engine and statement service over HTTP. It
// maps the error taxonomy to status codes and the kind enum to its wire codes;
// everything else passes through unchanged.
type Handler struct {
	engine     *ledger.Engine
	statements *ledger.Statements
	store      interfaces.LedgerStore
	log        zerolog.Logger
}

func NewHandler(engine *ledger.Engine, statements *ledger.Statements, store interfaces.LedgerStore, log zerolog.Logger) *Handler {
	return &Handler{
		engine:     engine,
		statements: statements,
		store:      store,
		log:        log,
	}
}

type movementRequest struct {
	Value       decimal.Decimal `json:"value"`
	Kind        string          `json:"kind"`
	Description string          `json:"description"`
}

type movementResponse struct {
	Limit   int64 `json:"limit"`
	Balance int64 `json:"balance"`
}

type statementEntry struct {
	Value       int64     `json:"value"`
	Kind        string    `json:"kind"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type statementResponse struct {
	Balance      int64            `json:"balance"`
	Limit        int64            `json:"limit"`
	AsOf         time.Time        `json:"as_of"`
	Transactions []statementEntry `json:"transactions"`
}

func (h *Handler) SubmitMovement(w http.ResponseWriter, r *http.Request) {
	accountID, err := accountParam(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "account id must be numeric")
		return
	}

	var req movementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	state, err := h.engine.Submit(r.Context(), accountID, req.Value, req.Kind, req.Description)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, movementResponse{Limit: state.Limit, Balance: state.Balance})
}

func (h *Handler) GetStatement(w http.ResponseWriter, r *http.Request) {
	accountID, err := accountParam(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "account id must be numeric")
		return
	}

	st, err := h.statements.Statement(r.Context(), accountID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	resp := statementResponse{
		Balance:      st.Balance,
		Limit:        st.Limit,
		AsOf:         st.AsOf,
		Transactions: make([]statementEntry, 0, len(st.Transactions)),
	}
	for _, tx := range st.Transactions {
		resp.Transactions = append(resp.Transactions, statementEntry{
			Value:       tx.Value,
			Kind:        tx.Kind.Code(),
			Description: tx.Description,
			CreatedAt:   tx.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.store.ListAccounts(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	var vErr *ledger.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeError(w, http.StatusUnprocessableEntity, vErr.Error())
	case errors.Is(err, interfaces.ErrLimitExceeded):
		writeError(w, http.StatusUnprocessableEntity, "limit exceeded")
	case errors.Is(err, interfaces.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, "account not found")
	case errors.Is(err, interfaces.ErrStoreUnavailable):
		h.log.Error().Err(err).Msg("store unavailable")
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
	default:
		h.log.Error().Err(err).Msg("unhandled error")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func accountParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
