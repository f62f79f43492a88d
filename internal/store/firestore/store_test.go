package firestore

import (
	"testing"
	"time"

	"github.com/dvloznov/finsight/internal/domain"
)

func TestTransactionDocRoundTrip(t *testing.T) {
	in := domain.Transaction{
		Date:        time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		Description: "Groceries",
		Amount:      250,
		Type:        domain.TypeExpense,
		Category:    domain.CategoryFood,
		Currency:    domain.DefaultCurrency,
	}

	got := transactionFromDoc("tx-1", docFromTransaction(in))
	in.ID = "tx-1"
	if got != in {
		t.Errorf("round trip = %+v, want %+v", got, in)
	}
}

func TestDocFromTransactionDefaultsCurrency(t *testing.T) {
	d := docFromTransaction(domain.Transaction{Type: domain.TypeExpense, Category: domain.CategoryFood, Description: "x"})
	if d.Currency != domain.DefaultCurrency {
		t.Errorf("Currency = %q, want %q", d.Currency, domain.DefaultCurrency)
	}
}

func TestBudgetDocRoundTrip(t *testing.T) {
	in := domain.Budget{Category: domain.CategoryHousing, Amount: 15000}
	got := budgetFromDoc("b-1", docFromBudget(in))
	in.ID = "b-1"
	if got != in {
		t.Errorf("round trip = %+v, want %+v", got, in)
	}
}

func TestDedupeByCategory(t *testing.T) {
	budgets := []domain.Budget{
		{ID: "1", Category: domain.CategoryFood, Amount: 100},
		{ID: "2", Category: domain.CategoryTransport, Amount: 50},
		{ID: "3", Category: domain.CategoryFood, Amount: 999}, // duplicate, first wins
	}
	got := dedupeByCategory(budgets)
	if len(got) != 2 {
		t.Fatalf("got %d budgets, want 2", len(got))
	}
	if got[0].ID != "1" || got[1].ID != "2" {
		t.Errorf("dedupe order wrong: %+v", got)
	}
}

func TestBatches(t *testing.T) {
	tests := []struct {
		n    int
		want [][2]int
	}{
		{0, nil},
		{1, [][2]int{{0, 1}}},
		{500, [][2]int{{0, 500}}},
		{501, [][2]int{{0, 500}, {500, 501}}},
		{1200, [][2]int{{0, 500}, {500, 1000}, {1000, 1200}}},
	}

	for _, tt := range tests {
		got := batches(tt.n)
		if len(got) != len(tt.want) {
			t.Errorf("batches(%d) = %v, want %v", tt.n, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("batches(%d)[%d] = %v, want %v", tt.n, i, got[i], tt.want[i])
			}
		}
	}
}
