package handlers

import (
	"context"
	"io"

	"github.com/dvloznov/finsight/internal/domain"
)

// TransactionStore is the slice of the transaction store the handlers use.
type TransactionStore interface {
	List(ctx context.Context, userID string) ([]domain.Transaction, error)
	Subscribe(ctx context.Context, userID string) (<-chan []domain.Transaction, error)
	Create(ctx context.Context, userID string, t domain.Transaction) error
	Delete(ctx context.Context, userID, id string) error
	DeleteAll(ctx context.Context, userID string) error
}

// BudgetStore is the slice of the budget store the handlers use.
type BudgetStore interface {
	List(ctx context.Context, userID string) ([]domain.Budget, error)
	Subscribe(ctx context.Context, userID string) (<-chan []domain.Budget, error)
	Create(ctx context.Context, userID string, b domain.Budget) error
	Delete(ctx context.Context, userID, id string) error
}

// Uploader stores the raw bytes of an uploaded statement.
type Uploader interface {
	Upload(ctx context.Context, bucket, object string, r io.Reader) (string, error)
}
