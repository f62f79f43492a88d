// Package firestore provides the transaction and budget store adapters over
// Cloud Firestore. Each user owns two subcollections,
// users/{uid}/transactions and users/{uid}/budgets; subscriptions are
// Firestore snapshot listeners that replace the full collection on every
// change, matching the push-based contract the aggregation engine's callers
// consume.
package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/dvloznov/finsight/internal/domain"
	"github.com/rs/zerolog"
)

const (
	usersCollection        = "users"
	transactionsCollection = "transactions"
	budgetsCollection      = "budgets"
)

// NewClient creates a Firestore client for the given project.
func NewClient(ctx context.Context, projectID string) (*firestore.Client, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewClient: firestore client: %w", err)
	}
	return client, nil
}

// txnDoc is the Firestore document shape for one transaction.
type txnDoc struct {
	Date        time.Time `firestore:"date"`
	Description string    `firestore:"description"`
	Amount      float64   `firestore:"amount"`
	Type        string    `firestore:"type"`
	Category    string    `firestore:"category"`
	Currency    string    `firestore:"currency"`
}

// budgetDoc is the Firestore document shape for one budget.
type budgetDoc struct {
	Category string  `firestore:"category"`
	Amount   float64 `firestore:"amount"`
}

func docFromTransaction(t domain.Transaction) txnDoc {
	currency := t.Currency
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	return txnDoc{
		Date:        t.Date,
		Description: t.Description,
		Amount:      t.Amount,
		Type:        string(t.Type),
		Category:    string(t.Category),
		Currency:    currency,
	}
}

func transactionFromDoc(id string, d txnDoc) domain.Transaction {
	return domain.Transaction{
		ID:          id,
		Date:        d.Date,
		Description: d.Description,
		Amount:      d.Amount,
		Type:        domain.TransactionType(d.Type),
		Category:    domain.Category(d.Category),
		Currency:    d.Currency,
	}
}

func docFromBudget(b domain.Budget) budgetDoc {
	return budgetDoc{
		Category: string(b.Category),
		Amount:   b.Amount,
	}
}

func budgetFromDoc(id string, d budgetDoc) domain.Budget {
	return domain.Budget{
		ID:       id,
		Category: domain.Category(d.Category),
		Amount:   d.Amount,
	}
}

// watch runs a snapshot listener loop, converting each snapshot with the
// provided function and pushing the full replacement collection to out.
// The loop ends when ctx is cancelled or the listener fails.
func watch[T any](ctx context.Context, log zerolog.Logger, q firestore.Query, convert func(*firestore.DocumentSnapshot) (T, bool), out chan<- []T) {
	defer close(out)

	snaps := q.Snapshots(ctx)
	defer snaps.Stop()

	for {
		snap, err := snaps.Next()
		if err != nil {
			if ctx.Err() == nil {
				log.Error().Err(err).Msg("Snapshot listener stopped")
			}
			return
		}

		docs, err := snap.Documents.GetAll()
		if err != nil {
			log.Error().Err(err).Msg("Failed to read snapshot documents")
			continue
		}

		items := make([]T, 0, len(docs))
		for _, doc := range docs {
			if item, ok := convert(doc); ok {
				items = append(items, item)
			}
		}

		select {
		case out <- items:
		case <-ctx.Done():
			return
		}
	}
}
