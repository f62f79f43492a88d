// Package ledger is the aggregation engine: pure functions that derive
// filtered views, category aggregates, monthly trends and budget progress
// from a snapshot of the transaction collection. Nothing here holds state or
// performs I/O; callers pass a collection in and get derived views out.
package ledger

import (
	"sort"
	"time"

	"github.com/dvloznov/finsight/internal/domain"
)

// Range is an optional inclusive date range. A nil bound means unbounded on
// that side.
type Range struct {
	From *time.Time
	To   *time.Time
}

// FilterByRange returns the subsequence of txns whose date falls within r.
// A nil range (or a range with both bounds absent) returns the input
// unchanged. Input order is preserved.
func FilterByRange(txns []domain.Transaction, r *Range) []domain.Transaction {
	if r == nil || (r.From == nil && r.To == nil) {
		return txns
	}

	out := make([]domain.Transaction, 0, len(txns))
	for _, t := range txns {
		if r.From != nil && t.Date.Before(*r.From) {
			continue
		}
		if r.To != nil && t.Date.After(*r.To) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// CategoryTotal is one category's summed amount for a given transaction type.
type CategoryTotal struct {
	Category domain.Category `json:"category"`
	Total    float64         `json:"total"`
}

// AggregateByCategory selects transactions of the given type, groups them by
// category and sums the amounts per group. The result is sorted by total
// descending; ties are broken by first appearance in the input, which keeps
// the output stable across re-runs on the same snapshot. The same aggregate
// serves both proportional and ranked chart presentations.
func AggregateByCategory(txns []domain.Transaction, typ domain.TransactionType) []CategoryTotal {
	totals := make(map[domain.Category]float64)
	firstSeen := make(map[domain.Category]int)
	order := 0

	for _, t := range txns {
		if t.Type != typ {
			continue
		}
		if _, ok := totals[t.Category]; !ok {
			firstSeen[t.Category] = order
			order++
		}
		totals[t.Category] += t.Amount
	}

	out := make([]CategoryTotal, 0, len(totals))
	for c, sum := range totals {
		out = append(out, CategoryTotal{Category: c, Total: sum})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return firstSeen[out[i].Category] < firstSeen[out[j].Category]
	})
	return out
}

// TrendPoint is one calendar month's aggregated income and expense totals.
type TrendPoint struct {
	Month   string  `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// trendLabel is the human-readable month bucket label, e.g. "Mar 2024".
const trendLabel = "Jan 2006"

// Trend buckets the full collection into calendar months and accumulates
// income and expense sums per bucket. Buckets are emitted in chronological
// order. An empty collection yields an empty sequence.
func Trend(txns []domain.Transaction) []TrendPoint {
	sorted := make([]domain.Transaction, len(txns))
	copy(sorted, txns)
	// Stable: equal dates keep their original relative order.
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	points := make([]TrendPoint, 0)
	index := make(map[string]int)

	for _, t := range sorted {
		key := t.Date.Format(trendLabel)
		i, ok := index[key]
		if !ok {
			i = len(points)
			index[key] = i
			points = append(points, TrendPoint{Month: key})
		}
		switch t.Type {
		case domain.TypeIncome:
			points[i].Income += t.Amount
		case domain.TypeExpense:
			points[i].Expense += t.Amount
		}
	}
	return points
}

// Totals is the overall income/expense summary for a collection.
type Totals struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

// Summarize returns the grand income and expense totals and their difference.
func Summarize(txns []domain.Transaction) Totals {
	var s Totals
	for _, t := range txns {
		switch t.Type {
		case domain.TypeIncome:
			s.Income += t.Amount
		case domain.TypeExpense:
			s.Expense += t.Amount
		}
	}
	s.Balance = s.Income - s.Expense
	return s
}
