package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/dvloznov/finsight/internal/domain"
	"github.com/rs/zerolog"
	"google.golang.org/api/iterator"
)

// TransactionStore is the store adapter for transaction records.
type TransactionStore struct {
	client *firestore.Client
	log    zerolog.Logger
}

// NewTransactionStore creates a transaction store over the given client.
func NewTransactionStore(client *firestore.Client, log zerolog.Logger) *TransactionStore {
	return &TransactionStore{client: client, log: log}
}

func (s *TransactionStore) collection(userID string) *firestore.CollectionRef {
	return s.client.Collection(usersCollection).Doc(userID).Collection(transactionsCollection)
}

// Subscribe streams the user's full transaction collection, newest first,
// replacing the previous snapshot on every change. The channel closes when
// ctx is cancelled or the listener fails.
func (s *TransactionStore) Subscribe(ctx context.Context, userID string) (<-chan []domain.Transaction, error) {
	if userID == "" {
		return nil, fmt.Errorf("Subscribe: user ID is required")
	}

	q := s.collection(userID).OrderBy("date", firestore.Desc)
	out := make(chan []domain.Transaction, 1)

	go watch(ctx, s.log, q, func(doc *firestore.DocumentSnapshot) (domain.Transaction, bool) {
		var d txnDoc
		if err := doc.DataTo(&d); err != nil {
			s.log.Error().Err(err).Str("doc_id", doc.Ref.ID).Msg("Skipping malformed transaction document")
			return domain.Transaction{}, false
		}
		return transactionFromDoc(doc.Ref.ID, d), true
	}, out)

	return out, nil
}

// List reads the user's transaction collection once, newest first.
func (s *TransactionStore) List(ctx context.Context, userID string) ([]domain.Transaction, error) {
	it := s.collection(userID).OrderBy("date", firestore.Desc).Documents(ctx)
	defer it.Stop()

	var txns []domain.Transaction
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("List: iterate transactions: %w", err)
		}
		var d txnDoc
		if err := doc.DataTo(&d); err != nil {
			s.log.Error().Err(err).Str("doc_id", doc.Ref.ID).Msg("Skipping malformed transaction document")
			continue
		}
		txns = append(txns, transactionFromDoc(doc.Ref.ID, d))
	}
	return txns, nil
}

// Create stores one validated transaction draft. The store assigns the ID.
func (s *TransactionStore) Create(ctx context.Context, userID string, t domain.Transaction) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	if _, _, err := s.collection(userID).Add(ctx, docFromTransaction(t)); err != nil {
		return fmt.Errorf("Create: add transaction: %w", err)
	}
	return nil
}

// maxBatchWrites is the Firestore transaction write limit; larger batches
// are split and each chunk commits atomically.
const maxBatchWrites = 500

// CreateMany stores a batch of drafts; the import path uses it so a parsed
// statement lands in atomic chunks, and any rejected write fails the batch.
func (s *TransactionStore) CreateMany(ctx context.Context, userID string, txns []domain.Transaction) error {
	if len(txns) == 0 {
		return nil
	}
	for i, t := range txns {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("CreateMany: draft %d: %w", i, err)
		}
	}

	col := s.collection(userID)
	for _, b := range batches(len(txns)) {
		chunk := txns[b[0]:b[1]]

		err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
			for _, t := range chunk {
				if err := tx.Create(col.NewDoc(), docFromTransaction(t)); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("CreateMany: commit drafts %d-%d: %w", b[0], b[1]-1, err)
		}
	}
	return nil
}

// batches splits n writes into [start, end) ranges of at most
// maxBatchWrites each.
func batches(n int) [][2]int {
	var out [][2]int
	for start := 0; start < n; start += maxBatchWrites {
		end := start + maxBatchWrites
		if end > n {
			end = n
		}
		out = append(out, [2]int{start, end})
	}
	return out
}

// Delete removes one transaction by ID.
func (s *TransactionStore) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.collection(userID).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("Delete: delete transaction %s: %w", id, err)
	}
	return nil
}

// DeleteAll removes the user's entire transaction collection in atomic
// chunks; a rejected delete fails the call instead of reporting success over
// a partial wipe. An empty collection is a no-op, not an error.
func (s *TransactionStore) DeleteAll(ctx context.Context, userID string) error {
	refs, err := s.collection(userID).DocumentRefs(ctx).GetAll()
	if err != nil {
		return fmt.Errorf("DeleteAll: list transactions: %w", err)
	}

	for _, b := range batches(len(refs)) {
		chunk := refs[b[0]:b[1]]

		err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
			for _, ref := range chunk {
				if err := tx.Delete(ref); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("DeleteAll: commit deletes %d-%d: %w", b[0], b[1]-1, err)
		}
	}
	return nil
}
