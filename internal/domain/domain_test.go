package domain

import (
	"errors"
	"testing"
	"time"
)

func TestCategoryValidForType(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		typ      TransactionType
		want     bool
	}{
		{"expense category for expense", CategoryFood, TypeExpense, true},
		{"income category for income", CategorySalary, TypeIncome, true},
		{"income category for expense", CategorySalary, TypeExpense, false},
		{"expense category for income", CategoryHousing, TypeIncome, false},
		{"catch-all for expense", CategoryOther, TypeExpense, true},
		{"catch-all for income", CategoryOther, TypeIncome, true},
		{"unknown type", CategoryFood, TransactionType("transfer"), false},
		{"unknown category", Category("Crypto"), TypeExpense, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.category.ValidForType(tt.typ); got != tt.want {
				t.Errorf("ValidForType(%q, %q) = %v, want %v", tt.category, tt.typ, got, tt.want)
			}
		})
	}
}

func TestTaxonomyOverlap(t *testing.T) {
	// The income and expense subsets may share only the catch-all category.
	expense := make(map[Category]bool)
	for _, c := range ExpenseCategories {
		expense[c] = true
	}
	for _, c := range IncomeCategories {
		if expense[c] && c != CategoryOther {
			t.Errorf("category %q is in both subsets", c)
		}
	}
}

func TestFindCategory(t *testing.T) {
	tests := []struct {
		in     string
		want   Category
		wantOK bool
	}{
		{"Food", CategoryFood, true},
		{"food", CategoryFood, true},
		{"  TRANSPORT  ", CategoryTransport, true},
		{"other", CategoryOther, true},
		{"groceries", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := FindCategory(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("FindCategory(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		Date:        time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		Description: "Groceries",
		Amount:      250,
		Type:        TypeExpense,
		Category:    CategoryFood,
		Currency:    DefaultCurrency,
	}

	tests := []struct {
		name    string
		mutate  func(*Transaction)
		wantErr error
	}{
		{"valid expense", func(tx *Transaction) {}, nil},
		{"valid income", func(tx *Transaction) { tx.Type = TypeIncome; tx.Category = CategorySalary }, nil},
		{"zero amount allowed", func(tx *Transaction) { tx.Amount = 0 }, nil},
		{"negative amount", func(tx *Transaction) { tx.Amount = -1 }, ErrInvalidAmount},
		{"blank description", func(tx *Transaction) { tx.Description = "   " }, ErrEmptyDescription},
		{"category type mismatch", func(tx *Transaction) { tx.Category = CategorySalary }, ErrInvalidCategory},
		{"bad type", func(tx *Transaction) { tx.Type = "transfer" }, ErrInvalidType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid
			tt.mutate(&tx)
			err := tx.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBudgetValidate(t *testing.T) {
	tests := []struct {
		name    string
		budget  Budget
		wantErr error
	}{
		{"valid", Budget{Category: CategoryFood, Amount: 200}, nil},
		{"zero amount", Budget{Category: CategoryFood, Amount: 0}, ErrInvalidBudget},
		{"negative amount", Budget{Category: CategoryFood, Amount: -50}, ErrInvalidBudget},
		{"income category", Budget{Category: CategorySalary, Amount: 100}, ErrBudgetCategory},
		{"catch-all allowed", Budget{Category: CategoryOther, Amount: 100}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.budget.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
