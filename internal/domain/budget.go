package domain

// Budget is a monthly spending ceiling for one expense category. At most one
// budget exists per category at any time; the creation path rejects
// duplicates before dispatch.
type Budget struct {
	ID       string   `json:"id"`
	Category Category `json:"category"`
	Amount   float64  `json:"amount"`
}

// Validate checks that the ceiling is positive and the category is a member
// of the expense-eligible subset.
func (b Budget) Validate() error {
	if b.Amount <= 0 {
		return ErrInvalidBudget
	}
	if !b.Category.ValidForType(TypeExpense) {
		return ErrBudgetCategory
	}
	return nil
}
