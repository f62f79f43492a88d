package ledger

import (
	"time"

	"github.com/dvloznov/finsight/internal/domain"
)

// Progress compares a category's spend-to-date against its ceiling for the
// reference month.
type Progress struct {
	Category     domain.Category `json:"category"`
	Spent        float64         `json:"spent"`
	BudgetAmount float64         `json:"budgetAmount"`
	Remaining    float64         `json:"remaining"`
	PercentUsed  float64         `json:"percentUsed"`
}

// MonthExpenses returns the expense transactions in the given category whose
// date falls in the same calendar month as ref. Input order is preserved.
func MonthExpenses(txns []domain.Transaction, category domain.Category, ref time.Time) []domain.Transaction {
	out := make([]domain.Transaction, 0)
	for _, t := range txns {
		if t.Type != domain.TypeExpense || t.Category != category {
			continue
		}
		if t.Date.Year() == ref.Year() && t.Date.Month() == ref.Month() {
			out = append(out, t)
		}
	}
	return out
}

// BudgetProgress derives spend, remainder and percent-used for one budget
// against the reference month. The reference time is caller-supplied rather
// than wall-clock-implicit so the function stays pure and testable.
// PercentUsed is clamped to the upper bound of 100; spent can never be
// negative given the data-model invariant, so no lower clamp is needed.
func BudgetProgress(budget domain.Budget, txns []domain.Transaction, ref time.Time) Progress {
	var spent float64
	for _, t := range MonthExpenses(txns, budget.Category, ref) {
		spent += t.Amount
	}

	p := Progress{
		Category:     budget.Category,
		Spent:        spent,
		BudgetAmount: budget.Amount,
		Remaining:    budget.Amount - spent,
	}

	// The model only allows positive budget amounts; a zero ceiling is an
	// edge-case guard against divide-by-zero, not a normal path.
	if budget.Amount <= 0 {
		if spent > 0 {
			p.PercentUsed = 100
		}
		return p
	}

	p.PercentUsed = spent / budget.Amount * 100
	if p.PercentUsed > 100 {
		p.PercentUsed = 100
	}
	return p
}

// ForecastRequest is the deterministic framing of a spending forecast handed
// to the external forecast collaborator: exactly which transactions count and
// where in the month the projection is anchored. The engine owns this framing
// only; the collaborator computes the projection.
type ForecastRequest struct {
	Category     domain.Category      `json:"category"`
	BudgetAmount float64              `json:"budgetAmount"`
	Transactions []domain.Transaction `json:"transactions"`
	DayOfMonth   int                  `json:"dayOfMonth"`
	DaysInMonth  int                  `json:"daysInMonth"`
}

// BuildForecastRequest scopes the budget's current-month expense transactions
// (the same filter BudgetProgress uses) and anchors the request at ref's day
// of month.
func BuildForecastRequest(budget domain.Budget, txns []domain.Transaction, ref time.Time) ForecastRequest {
	return ForecastRequest{
		Category:     budget.Category,
		BudgetAmount: budget.Amount,
		Transactions: MonthExpenses(txns, budget.Category, ref),
		DayOfMonth:   ref.Day(),
		DaysInMonth:  daysInMonth(ref),
	}
}

func daysInMonth(ref time.Time) int {
	// Day zero of the next month is the last day of ref's month.
	return time.Date(ref.Year(), ref.Month()+1, 0, 0, 0, 0, 0, ref.Location()).Day()
}
