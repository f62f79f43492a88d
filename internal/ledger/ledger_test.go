package ledger

import (
	"reflect"
	"testing"
	"time"

	"github.com/dvloznov/finsight/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func expense(amount float64, category domain.Category, d time.Time) domain.Transaction {
	return domain.Transaction{
		Date:        d,
		Description: string(category),
		Amount:      amount,
		Type:        domain.TypeExpense,
		Category:    category,
		Currency:    domain.DefaultCurrency,
	}
}

func income(amount float64, category domain.Category, d time.Time) domain.Transaction {
	return domain.Transaction{
		Date:        d,
		Description: string(category),
		Amount:      amount,
		Type:        domain.TypeIncome,
		Category:    category,
		Currency:    domain.DefaultCurrency,
	}
}

func TestFilterByRange(t *testing.T) {
	txns := []domain.Transaction{
		expense(10, domain.CategoryFood, date(2024, 1, 15)),
		expense(20, domain.CategoryFood, date(2024, 2, 15)),
		expense(30, domain.CategoryFood, date(2024, 3, 15)),
	}

	from := date(2024, 2, 1)
	to := date(2024, 2, 28)
	edge := date(2024, 2, 15)

	tests := []struct {
		name string
		r    *Range
		want int
	}{
		{"nil range returns everything", nil, 3},
		{"empty range returns everything", &Range{}, 3},
		{"bounded both sides", &Range{From: &from, To: &to}, 1},
		{"unbounded above", &Range{From: &from}, 2},
		{"unbounded below", &Range{To: &to}, 2},
		{"inclusive bounds", &Range{From: &edge, To: &edge}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterByRange(txns, tt.r)
			if len(got) != tt.want {
				t.Fatalf("got %d transactions, want %d", len(got), tt.want)
			}
			// Subset property: every result must come from the input.
			seen := make(map[time.Time]bool)
			for _, tx := range txns {
				seen[tx.Date] = true
			}
			for _, tx := range got {
				if !seen[tx.Date] {
					t.Errorf("result contains transaction not in input: %v", tx)
				}
			}
		})
	}

	if got := FilterByRange(txns, nil); !reflect.DeepEqual(got, txns) {
		t.Error("unbounded filter must return the input unchanged")
	}
}

func TestAggregateByCategory(t *testing.T) {
	txns := []domain.Transaction{
		expense(100, domain.CategoryFood, date(2024, 3, 5)),
		expense(300, domain.CategoryHousing, date(2024, 3, 6)),
		expense(50, domain.CategoryFood, date(2024, 3, 20)),
		income(5000, domain.CategorySalary, date(2024, 3, 1)),
		expense(25, domain.CategoryTransport, date(2024, 3, 7)),
	}

	got := AggregateByCategory(txns, domain.TypeExpense)
	want := []CategoryTotal{
		{Category: domain.CategoryHousing, Total: 300},
		{Category: domain.CategoryFood, Total: 150},
		{Category: domain.CategoryTransport, Total: 25},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AggregateByCategory(expense) = %v, want %v", got, want)
	}

	// Conservation: totals sum to exactly the sum of matching amounts.
	var sum, all float64
	for _, ct := range got {
		sum += ct.Total
	}
	for _, tx := range txns {
		if tx.Type == domain.TypeExpense {
			all += tx.Amount
		}
	}
	if sum != all {
		t.Errorf("aggregate total %v != expense total %v", sum, all)
	}
}

func TestAggregateByCategoryTieBreak(t *testing.T) {
	// Equal totals: the category seen first in the input wins the tie, so the
	// output is stable across re-runs on the same snapshot.
	txns := []domain.Transaction{
		expense(75, domain.CategoryShopping, date(2024, 3, 2)),
		expense(75, domain.CategoryFood, date(2024, 3, 1)),
	}
	got := AggregateByCategory(txns, domain.TypeExpense)
	want := []CategoryTotal{
		{Category: domain.CategoryShopping, Total: 75},
		{Category: domain.CategoryFood, Total: 75},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tie-break order = %v, want %v", got, want)
	}
}

func TestAggregateByCategoryEmpty(t *testing.T) {
	got := AggregateByCategory(nil, domain.TypeExpense)
	if len(got) != 0 {
		t.Errorf("expected empty aggregate, got %v", got)
	}
}

func TestTrend(t *testing.T) {
	txns := []domain.Transaction{
		// Deliberately unordered input.
		expense(200, domain.CategoryFood, date(2024, 4, 10)),
		income(1000, domain.CategorySalary, date(2024, 3, 1)),
		expense(100, domain.CategoryTransport, date(2024, 3, 15)),
		income(1000, domain.CategorySalary, date(2024, 4, 1)),
	}

	got := Trend(txns)
	want := []TrendPoint{
		{Month: "Mar 2024", Income: 1000, Expense: 100},
		{Month: "Apr 2024", Income: 1000, Expense: 200},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Trend() = %v, want %v", got, want)
	}
}

func TestTrendDistinctMonthsNotMerged(t *testing.T) {
	// Equal category sums in different months stay in separate buckets.
	txns := []domain.Transaction{
		expense(150, domain.CategoryFood, date(2024, 3, 5)),
		expense(150, domain.CategoryFood, date(2024, 4, 5)),
	}
	got := Trend(txns)
	if len(got) != 2 {
		t.Fatalf("got %d buckets, want 2", len(got))
	}
	if got[0].Month == got[1].Month {
		t.Errorf("buckets merged: %v", got)
	}
	if got[0].Expense != 150 || got[1].Expense != 150 {
		t.Errorf("per-month totals wrong: %v", got)
	}
}

func TestTrendEmpty(t *testing.T) {
	if got := Trend(nil); len(got) != 0 {
		t.Errorf("expected empty trend, got %v", got)
	}
}

func TestTrendMatchesAggregateGrandTotals(t *testing.T) {
	txns := []domain.Transaction{
		income(500, domain.CategoryFreelance, date(2024, 1, 3)),
		expense(120, domain.CategoryFood, date(2024, 1, 9)),
		income(700, domain.CategorySalary, date(2024, 2, 1)),
		expense(80, domain.CategoryHealth, date(2024, 2, 14)),
		expense(40, domain.CategoryFood, date(2024, 2, 20)),
	}

	var trendIncome, trendExpense float64
	for _, p := range Trend(txns) {
		trendIncome += p.Income
		trendExpense += p.Expense
	}

	var aggIncome, aggExpense float64
	for _, ct := range AggregateByCategory(txns, domain.TypeIncome) {
		aggIncome += ct.Total
	}
	for _, ct := range AggregateByCategory(txns, domain.TypeExpense) {
		aggExpense += ct.Total
	}

	if trendIncome != aggIncome {
		t.Errorf("trend income %v != aggregate income %v", trendIncome, aggIncome)
	}
	if trendExpense != aggExpense {
		t.Errorf("trend expense %v != aggregate expense %v", trendExpense, aggExpense)
	}
}

func TestSummarize(t *testing.T) {
	txns := []domain.Transaction{
		income(1000, domain.CategorySalary, date(2024, 3, 1)),
		expense(300, domain.CategoryFood, date(2024, 3, 5)),
		expense(200, domain.CategoryTransport, date(2024, 3, 8)),
	}
	got := Summarize(txns)
	want := Totals{Income: 1000, Expense: 500, Balance: 500}
	if got != want {
		t.Errorf("Summarize() = %v, want %v", got, want)
	}

	if got := Summarize(nil); got != (Totals{}) {
		t.Errorf("Summarize(nil) = %v, want zero totals", got)
	}
}
