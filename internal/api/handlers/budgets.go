package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dvloznov/finsight/internal/advisor"
	"github.com/dvloznov/finsight/internal/api/middleware"
	"github.com/dvloznov/finsight/internal/domain"
	"github.com/dvloznov/finsight/internal/ledger"
	fsstore "github.com/dvloznov/finsight/internal/store/firestore"
	"github.com/rs/zerolog"
)

// BudgetsHandler handles budget-related endpoints, including the derived
// progress and forecast views.
type BudgetsHandler struct {
	budgets      BudgetStore
	transactions TransactionStore
	forecaster   advisor.ForecastService
	defaultUser  string
	log          zerolog.Logger
	now          func() time.Time
}

// NewBudgetsHandler creates a new budgets handler.
func NewBudgetsHandler(budgets BudgetStore, transactions TransactionStore, forecaster advisor.ForecastService, defaultUser string, log zerolog.Logger) *BudgetsHandler {
	return &BudgetsHandler{
		budgets:      budgets,
		transactions: transactions,
		forecaster:   forecaster,
		defaultUser:  defaultUser,
		log:          log,
		now:          time.Now,
	}
}

// ListBudgets handles GET /api/budgets
func (h *BudgetsHandler) ListBudgets(w http.ResponseWriter, r *http.Request) {
	uid := userID(r, h.defaultUser)

	budgets, err := h.budgets.List(r.Context(), uid)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", uid).Msg("Failed to list budgets")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list budgets")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"budgets": budgets,
		"count":   len(budgets),
	})
}

type createBudgetRequest struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// CreateBudget handles POST /api/budgets. At most one budget may exist per
// category; a duplicate answers 409.
func (h *BudgetsHandler) CreateBudget(w http.ResponseWriter, r *http.Request) {
	var req createBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	b := domain.Budget{
		Category: domain.Category(req.Category),
		Amount:   req.Amount,
	}
	if err := b.Validate(); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	uid := userID(r, h.defaultUser)
	if err := h.budgets.Create(r.Context(), uid, b); err != nil {
		if errors.Is(err, fsstore.ErrBudgetExists) {
			middleware.WriteError(w, http.StatusConflict, "Budget for this category already exists")
			return
		}
		h.log.Error().Err(err).Str("user_id", uid).Msg("Failed to create budget")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to create budget")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

// DeleteBudget handles DELETE /api/budgets/:id
func (h *BudgetsHandler) DeleteBudget(w http.ResponseWriter, r *http.Request, id string) {
	uid := userID(r, h.defaultUser)
	if err := h.budgets.Delete(r.Context(), uid, id); err != nil {
		h.log.Error().Err(err).Str("user_id", uid).Str("budget_id", id).Msg("Failed to delete budget")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to delete budget")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// BudgetProgress handles GET /api/budgets/:id/progress
func (h *BudgetsHandler) BudgetProgress(w http.ResponseWriter, r *http.Request, id string) {
	ctx := r.Context()
	uid := userID(r, h.defaultUser)

	budget, ok, err := h.findBudget(ctx, uid, id)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", uid).Msg("Failed to load budgets")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load budget")
		return
	}
	if !ok {
		middleware.WriteError(w, http.StatusNotFound, "Budget not found")
		return
	}

	txns, err := h.transactions.List(ctx, uid)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", uid).Msg("Failed to list transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load transactions")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, ledger.BudgetProgress(budget, txns, h.now()))
}

// ForecastBudget handles POST /api/budgets/:id/forecast
func (h *BudgetsHandler) ForecastBudget(w http.ResponseWriter, r *http.Request, id string) {
	ctx := r.Context()
	uid := userID(r, h.defaultUser)

	budget, ok, err := h.findBudget(ctx, uid, id)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", uid).Msg("Failed to load budgets")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load budget")
		return
	}
	if !ok {
		middleware.WriteError(w, http.StatusNotFound, "Budget not found")
		return
	}

	txns, err := h.transactions.List(ctx, uid)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", uid).Msg("Failed to list transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load transactions")
		return
	}

	forecast, err := h.forecaster.ForecastSpending(ctx, ledger.BuildForecastRequest(budget, txns, h.now()))
	if err != nil {
		h.log.Error().Err(err).Str("user_id", uid).Str("category", string(budget.Category)).Msg("Forecast failed")
		middleware.WriteError(w, http.StatusBadGateway, "Forecast service unavailable")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, forecast)
}

func (h *BudgetsHandler) findBudget(ctx context.Context, uid, id string) (domain.Budget, bool, error) {
	budgets, err := h.budgets.List(ctx, uid)
	if err != nil {
		return domain.Budget{}, false, err
	}
	for _, b := range budgets {
		if b.ID == id {
			return b, true, nil
		}
	}
	return domain.Budget{}, false, nil
}
