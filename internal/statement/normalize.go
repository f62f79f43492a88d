// Package statement turns externally-parsed bank statement rows into valid
// transaction drafts. The parsing collaborator (an LLM) emits a loosely-typed
// row table; Normalize is the gate that maps it into the category taxonomy
// and canonical dates before anything reaches the store.
package statement

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dvloznov/finsight/internal/domain"
)

// RawRow is one row of the collaborator's table, all fields still strings.
// Column layout follows the source export format:
// Date,Amount,Category,Title,Note,Account with dates like
// "05-03-2024 14:30" and signed decimal amounts (negative = money out).
type RawRow struct {
	Date     string `json:"date"`
	Amount   string `json:"amount"`
	Category string `json:"category"`
	Title    string `json:"title"`
	Note     string `json:"note"`
	Account  string `json:"account"`
}

// RowError records one skipped row and why it was rejected.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// NormalizeResult carries the accepted drafts plus a report of every row
// that was skipped. A malformed row never aborts the batch and is never
// silently defaulted; it is dropped and reported.
type NormalizeResult struct {
	Drafts  []domain.Transaction `json:"drafts"`
	Skipped []RowError           `json:"skipped"`
}

// Source date layouts, most specific first.
var dateLayouts = []string{
	"02-01-2006 15:04:05",
	"02-01-2006 15:04",
	"02-01-2006",
}

// Normalize converts raw rows into transaction drafts. Per row: the signed
// amount decides the type (non-negative = income) and its absolute value is
// stored; an unknown or empty category falls back to the catch-all; an empty
// title defaults to the category name; the date is reduced to a canonical
// UTC calendar date. Rows with an unparseable amount or date are skipped and
// reported in the result.
func Normalize(rows []RawRow) NormalizeResult {
	res := NormalizeResult{
		Drafts:  make([]domain.Transaction, 0, len(rows)),
		Skipped: make([]RowError, 0),
	}

	for i, row := range rows {
		draft, err := normalizeRow(row)
		if err != nil {
			res.Skipped = append(res.Skipped, RowError{Row: i, Reason: err.Error()})
			continue
		}
		res.Drafts = append(res.Drafts, draft)
	}
	return res
}

func normalizeRow(row RawRow) (domain.Transaction, error) {
	amountStr := strings.TrimSpace(row.Amount)
	if amountStr == "" {
		return domain.Transaction{}, fmt.Errorf("empty amount")
	}
	signed, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("invalid amount %q", row.Amount)
	}
	if math.IsNaN(signed) || math.IsInf(signed, 0) {
		return domain.Transaction{}, fmt.Errorf("non-finite amount %q", row.Amount)
	}

	day, err := parseDate(row.Date)
	if err != nil {
		return domain.Transaction{}, err
	}

	typ := domain.TypeExpense
	if signed >= 0 {
		typ = domain.TypeIncome
	}

	category, ok := domain.FindCategory(row.Category)
	if !ok || !category.ValidForType(typ) {
		// Unknown categories and type mismatches both land in the catch-all,
		// which is valid for either transaction type.
		category = domain.CategoryOther
	}

	description := strings.TrimSpace(row.Title)
	if description == "" {
		description = string(category)
	}

	return domain.Transaction{
		Date:        day,
		Description: description,
		Amount:      math.Abs(signed),
		Type:        typ,
		Category:    category,
		Currency:    domain.DefaultCurrency,
	}, nil
}

// parseDate accepts the source's DD-MM-YYYY format with an optional time
// component and reduces it to a canonical UTC calendar date.
func parseDate(s string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}
