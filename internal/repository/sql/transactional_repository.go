package sql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iyhunko/product-reviews/internal/model"
)

// TransactionalRepository writes a review together with its outbox event in a single transaction.
type TransactionalRepository struct {
	db *sql.DB
}

// NewTransactionalRepository creates a new TransactionalRepository
func NewTransactionalRepository(db *sql.DB) *TransactionalRepository {
	return &TransactionalRepository{db: db}
}

// Create stores the review and a review.created event. Either both rows are
// committed or neither is.
func (tr *TransactionalRepository) Create(ctx context.Context, review *model.Review) (*model.Review, error) {
	tx, err := tr.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	reviewRepo := &ReviewRepository{
		db:  tr.db,
		txn: tx,
	}

	eventRepo := &EventRepository{
		db:  tr.db,
		txn: tx,
	}

	created, err := reviewRepo.Create(ctx, review)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	event, err := model.NewReviewCreatedEvent(created)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	if _, err = eventRepo.Create(ctx, event); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return created, nil
}
