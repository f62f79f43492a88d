package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dvloznov/finsight/internal/api/middleware"
	"github.com/dvloznov/finsight/internal/domain"
	"github.com/rs/zerolog"
)

// TransactionsHandler handles transaction-related endpoints.
type TransactionsHandler struct {
	store       TransactionStore
	defaultUser string
	log         zerolog.Logger
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(store TransactionStore, defaultUser string, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{store: store, defaultUser: defaultUser, log: log}
}

// ListTransactions handles GET /api/transactions
func (h *TransactionsHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid := userID(r, h.defaultUser)

	txns, err := h.store.List(ctx, uid)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", uid).Msg("Failed to list transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list transactions")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": txns,
		"count":        len(txns),
	})
}

type createTransactionRequest struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
}

// CreateTransaction handles POST /api/transactions
func (h *TransactionsHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	date := time.Now().UTC()
	if req.Date != "" {
		parsed, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			parsed, err = time.Parse(dateParam, req.Date)
		}
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "Invalid date, expected RFC3339 or YYYY-MM-DD")
			return
		}
		date = parsed.UTC()
	}

	t := domain.Transaction{
		Date:        date,
		Description: req.Description,
		Amount:      req.Amount,
		Type:        domain.TransactionType(req.Type),
		Category:    domain.Category(req.Category),
		Currency:    domain.DefaultCurrency,
	}
	if err := t.Validate(); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	uid := userID(r, h.defaultUser)
	if err := h.store.Create(r.Context(), uid, t); err != nil {
		h.log.Error().Err(err).Str("user_id", uid).Msg("Failed to create transaction")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to create transaction")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

// DeleteTransaction handles DELETE /api/transactions/:id
func (h *TransactionsHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request, id string) {
	uid := userID(r, h.defaultUser)
	if err := h.store.Delete(r.Context(), uid, id); err != nil {
		h.log.Error().Err(err).Str("user_id", uid).Str("transaction_id", id).Msg("Failed to delete transaction")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to delete transaction")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// DeleteAllTransactions handles DELETE /api/transactions
func (h *TransactionsHandler) DeleteAllTransactions(w http.ResponseWriter, r *http.Request) {
	uid := userID(r, h.defaultUser)
	if err := h.store.DeleteAll(r.Context(), uid); err != nil {
		h.log.Error().Err(err).Str("user_id", uid).Msg("Failed to delete transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to delete transactions")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
