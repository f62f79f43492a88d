package firestore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/dvloznov/finsight/internal/domain"
	"github.com/rs/zerolog"
	"google.golang.org/api/iterator"
)

// ErrBudgetExists is returned when a budget for the category already exists.
// The handler layer keeps a snapshot fast-path check for user experience;
// this transactional check at the point of write is the authoritative one.
var ErrBudgetExists = errors.New("budget for category already exists")

// BudgetStore is the store adapter for budget records.
type BudgetStore struct {
	client *firestore.Client
	log    zerolog.Logger
}

// NewBudgetStore creates a budget store over the given client.
func NewBudgetStore(client *firestore.Client, log zerolog.Logger) *BudgetStore {
	return &BudgetStore{client: client, log: log}
}

func (s *BudgetStore) collection(userID string) *firestore.CollectionRef {
	return s.client.Collection(usersCollection).Doc(userID).Collection(budgetsCollection)
}

// Subscribe streams the user's full budget collection, replacing the
// previous snapshot on every change. Should duplicate categories ever exist
// in the backend, only the first document per category is surfaced.
func (s *BudgetStore) Subscribe(ctx context.Context, userID string) (<-chan []domain.Budget, error) {
	if userID == "" {
		return nil, fmt.Errorf("Subscribe: user ID is required")
	}

	q := s.collection(userID).Query
	out := make(chan []domain.Budget, 1)
	raw := make(chan []domain.Budget, 1)

	go watch(ctx, s.log, q, func(doc *firestore.DocumentSnapshot) (domain.Budget, bool) {
		var d budgetDoc
		if err := doc.DataTo(&d); err != nil {
			s.log.Error().Err(err).Str("doc_id", doc.Ref.ID).Msg("Skipping malformed budget document")
			return domain.Budget{}, false
		}
		return budgetFromDoc(doc.Ref.ID, d), true
	}, raw)

	go func() {
		defer close(out)
		for budgets := range raw {
			select {
			case out <- dedupeByCategory(budgets):
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func dedupeByCategory(budgets []domain.Budget) []domain.Budget {
	seen := make(map[domain.Category]bool, len(budgets))
	deduped := make([]domain.Budget, 0, len(budgets))
	for _, b := range budgets {
		if seen[b.Category] {
			continue
		}
		seen[b.Category] = true
		deduped = append(deduped, b)
	}
	return deduped
}

// List reads the user's budget collection once, first document per category.
func (s *BudgetStore) List(ctx context.Context, userID string) ([]domain.Budget, error) {
	it := s.collection(userID).Documents(ctx)
	defer it.Stop()

	var budgets []domain.Budget
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("List: iterate budgets: %w", err)
		}
		var d budgetDoc
		if err := doc.DataTo(&d); err != nil {
			s.log.Error().Err(err).Str("doc_id", doc.Ref.ID).Msg("Skipping malformed budget document")
			continue
		}
		budgets = append(budgets, budgetFromDoc(doc.Ref.ID, d))
	}
	return dedupeByCategory(budgets), nil
}

// Create stores one validated budget. The uniqueness constraint (one budget
// per category) is enforced inside a Firestore transaction so concurrent
// creates cannot race past the snapshot check.
func (s *BudgetStore) Create(ctx context.Context, userID string, b domain.Budget) error {
	if err := b.Validate(); err != nil {
		return fmt.Errorf("Create: %w", err)
	}

	col := s.collection(userID)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := tx.Documents(col.Where("category", "==", string(b.Category)).Limit(1)).GetAll()
		if err != nil {
			return fmt.Errorf("check existing budget: %w", err)
		}
		if len(existing) > 0 {
			return ErrBudgetExists
		}
		return tx.Create(col.NewDoc(), docFromBudget(b))
	})
	if err != nil {
		if errors.Is(err, ErrBudgetExists) {
			return ErrBudgetExists
		}
		return fmt.Errorf("Create: budget transaction: %w", err)
	}
	return nil
}

// Delete removes one budget by ID.
func (s *BudgetStore) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.collection(userID).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("Delete: delete budget %s: %w", id, err)
	}
	return nil
}
