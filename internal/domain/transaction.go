package domain

import (
	"errors"
	"strings"
	"time"
)

// TransactionType distinguishes money in from money out. The sign of a
// transaction is carried here, never by the amount.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// DefaultCurrency is the single currency for the whole system. It is stored
// on every transaction but never varies.
const DefaultCurrency = "INR"

var (
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidAmount    = errors.New("amount must be non-negative")
	ErrEmptyDescription = errors.New("description must not be empty")
	ErrInvalidCategory  = errors.New("category not valid for transaction type")
	ErrInvalidBudget    = errors.New("budget amount must be positive")
	ErrBudgetCategory   = errors.New("budget category must be expense-eligible")
)

// Transaction is a single financial event. The ID is assigned by the store on
// creation; a draft built locally carries an empty ID until then.
type Transaction struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      float64         `json:"amount"`
	Type        TransactionType `json:"type"`
	Category    Category        `json:"category"`
	Currency    string          `json:"currency"`
}

// Validate checks the entry-creation invariants: non-negative amount,
// non-empty description, a known type and a category belonging to that
// type's eligible subset. It is enforced at creation time only, never
// retroactively against stored data.
func (t Transaction) Validate() error {
	if t.Type != TypeIncome && t.Type != TypeExpense {
		return ErrInvalidType
	}
	if t.Amount < 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if !t.Category.ValidForType(t.Type) {
		return ErrInvalidCategory
	}
	return nil
}
