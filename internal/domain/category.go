package domain

import "strings"

// Category is one label from the fixed taxonomy classifying a transaction's
// purpose. The set is closed at build time; there is no runtime configuration.
type Category string

const (
	CategoryFood          Category = "Food"
	CategoryTransport     Category = "Transport"
	CategoryShopping      Category = "Shopping"
	CategoryHousing       Category = "Housing"
	CategoryUtilities     Category = "Utilities"
	CategoryEntertainment Category = "Entertainment"
	CategoryHealth        Category = "Health"
	CategoryEducation     Category = "Education"
	CategorySalary        Category = "Salary"
	CategoryFreelance     Category = "Freelance"
	CategoryInvestments   Category = "Investments"
	CategoryGifts         Category = "Gifts"

	// CategoryOther is the catch-all, valid for both transaction types.
	CategoryOther Category = "Other"
)

// ExpenseCategories lists categories eligible for expense transactions, in
// display order.
var ExpenseCategories = []Category{
	CategoryFood,
	CategoryTransport,
	CategoryShopping,
	CategoryHousing,
	CategoryUtilities,
	CategoryEntertainment,
	CategoryHealth,
	CategoryEducation,
	CategoryOther,
}

// IncomeCategories lists categories eligible for income transactions, in
// display order.
var IncomeCategories = []Category{
	CategorySalary,
	CategoryFreelance,
	CategoryInvestments,
	CategoryGifts,
	CategoryOther,
}

// Categories is the full ordered taxonomy. The income and expense subsets
// overlap only in CategoryOther.
var Categories = []Category{
	CategoryFood,
	CategoryTransport,
	CategoryShopping,
	CategoryHousing,
	CategoryUtilities,
	CategoryEntertainment,
	CategoryHealth,
	CategoryEducation,
	CategorySalary,
	CategoryFreelance,
	CategoryInvestments,
	CategoryGifts,
	CategoryOther,
}

// ValidForType reports whether c may be used on a transaction of type t.
func (c Category) ValidForType(t TransactionType) bool {
	var set []Category
	switch t {
	case TypeIncome:
		set = IncomeCategories
	case TypeExpense:
		set = ExpenseCategories
	default:
		return false
	}
	for _, v := range set {
		if v == c {
			return true
		}
	}
	return false
}

// FindCategory resolves a free-form name against the taxonomy,
// case-insensitively and ignoring surrounding whitespace. Voice and import
// paths use it to map loosely-typed input into the fixed set.
func FindCategory(name string) (Category, bool) {
	norm := strings.ToLower(strings.TrimSpace(name))
	for _, c := range Categories {
		if strings.ToLower(string(c)) == norm {
			return c, true
		}
	}
	return "", false
}
