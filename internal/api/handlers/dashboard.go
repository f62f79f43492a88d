package handlers

import (
	"net/http"

	"github.com/dvloznov/finsight/internal/api/middleware"
	"github.com/dvloznov/finsight/internal/domain"
	"github.com/dvloznov/finsight/internal/ledger"
	"github.com/rs/zerolog"
)

// DashboardHandler serves the derived views: category breakdowns, the
// monthly trend and the income/expense summary. Each response is computed
// fresh from the user's current transaction collection.
type DashboardHandler struct {
	transactions TransactionStore
	defaultUser  string
	log          zerolog.Logger
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(transactions TransactionStore, defaultUser string, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{transactions: transactions, defaultUser: defaultUser, log: log}
}

// Categories handles GET /api/dashboard/categories?type=expense&from=&to=
func (h *DashboardHandler) Categories(w http.ResponseWriter, r *http.Request) {
	typ := domain.TransactionType(r.URL.Query().Get("type"))
	if typ == "" {
		typ = domain.TypeExpense
	}
	if typ != domain.TypeExpense && typ != domain.TypeIncome {
		middleware.WriteError(w, http.StatusBadRequest, "type must be expense or income")
		return
	}

	rng, err := parseRange(r)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	txns, ok := h.load(w, r)
	if !ok {
		return
	}

	totals := ledger.AggregateByCategory(ledger.FilterByRange(txns, rng), typ)
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"type":       typ,
		"categories": totals,
	})
}

// Trend handles GET /api/dashboard/trend?from=&to=
func (h *DashboardHandler) Trend(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	txns, ok := h.load(w, r)
	if !ok {
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"trend": ledger.Trend(ledger.FilterByRange(txns, rng)),
	})
}

// Summary handles GET /api/dashboard/summary?from=&to=
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	txns, ok := h.load(w, r)
	if !ok {
		return
	}

	middleware.WriteJSON(w, http.StatusOK, ledger.Summarize(ledger.FilterByRange(txns, rng)))
}

func (h *DashboardHandler) load(w http.ResponseWriter, r *http.Request) ([]domain.Transaction, bool) {
	uid := userID(r, h.defaultUser)
	txns, err := h.transactions.List(r.Context(), uid)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", uid).Msg("Failed to list transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load transactions")
		return nil, false
	}
	return txns, true
}
