package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dvloznov/finsight/internal/api/middleware"
	"github.com/rs/zerolog"
)

// StreamHandler pushes live collection snapshots to the client over
// server-sent events. Every change to the user's transactions or budgets
// produces a full replacement snapshot, so the client never has to merge.
type StreamHandler struct {
	transactions TransactionStore
	budgets      BudgetStore
	defaultUser  string
	log          zerolog.Logger
}

// NewStreamHandler creates a new stream handler.
func NewStreamHandler(transactions TransactionStore, budgets BudgetStore, defaultUser string, log zerolog.Logger) *StreamHandler {
	return &StreamHandler{transactions: transactions, budgets: budgets, defaultUser: defaultUser, log: log}
}

// Stream handles GET /api/stream
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		middleware.WriteError(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	ctx := r.Context()
	uid := userID(r, h.defaultUser)

	txnCh, err := h.transactions.Subscribe(ctx, uid)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", uid).Msg("Transaction subscription failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to open stream")
		return
	}
	budgetCh, err := h.budgets.Subscribe(ctx, uid)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", uid).Msg("Budget subscription failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to open stream")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	for {
		select {
		case <-ctx.Done():
			return
		case txns, open := <-txnCh:
			if !open {
				return
			}
			writeEvent(w, flusher, "transactions", txns)
		case budgets, open := <-budgetCh:
			if !open {
				return
			}
			writeEvent(w, flusher, "budgets", budgets)
		}
	}
}

func writeEvent(w http.ResponseWriter, flusher http.Flusher, event string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload)
	flusher.Flush()
}
