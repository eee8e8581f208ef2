package sql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iyhunko/product-reviews/internal/model"
	"github.com/iyhunko/product-reviews/internal/repository"
)

const reviewSelect = `SELECT r.id, r.product_id, p.name AS product_name, r.rating, r.comment, r.created_at
	FROM reviews r
	JOIN products p ON r.product_id = p.id`

// Ties on the average are broken by review count, then by the lower product id.
const topRatedQuery = `SELECT p.id, p.name, COALESCE(p.description, ''), p.price, COALESCE(p.category, ''),
	       AVG(r.rating) AS average_rating, COUNT(r.id) AS review_count
	FROM products p
	JOIN reviews r ON p.id = r.product_id
	GROUP BY p.id, p.name, p.description, p.price, p.category
	ORDER BY average_rating DESC, review_count DESC, p.id ASC
	LIMIT $1`

// ReviewRepository implements repository.ReviewRepository on PostgreSQL.
type ReviewRepository struct {
	db  *sql.DB
	txn *sql.Tx
}

// NewReviewRepository creates a new ReviewRepository instance.
func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) getExecutor() dbExecutor {
	return executorFor(r.db, r.txn)
}

// WithinTransaction executes a function within a database transaction
func (r *ReviewRepository) WithinTransaction(ctx context.Context, fn func(repo repository.ReviewRepository) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txRepo := &ReviewRepository{
		db:  r.db,
		txn: tx,
	}

	if err := fn(txRepo); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("failed to rollback transaction: %w (original error: %v)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Create inserts a review. The product is expected to exist; a missing product
// surfaces as a *repository.ForeignKeyError.
func (r *ReviewRepository) Create(ctx context.Context, review *model.Review) (*model.Review, error) {
	query := `INSERT INTO reviews (product_id, rating, comment) 
	          VALUES ($1, $2, $3) 
	          RETURNING id, product_id, rating, comment, created_at`

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	var created model.Review
	err = stmt.QueryRowContext(ctx, review.ProductID, review.Rating, review.Comment).Scan(
		&created.ID, &created.ProductID, &created.Rating, &created.Comment, &created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert review: %w", classifyError(err))
	}
	created.ProductName = review.ProductName

	return &created, nil
}

// GetAll returns every review with its product name, most recent first.
func (r *ReviewRepository) GetAll(ctx context.Context) ([]*model.Review, error) {
	return r.list(ctx, reviewSelect+` ORDER BY r.created_at DESC, r.id DESC`)
}

// GetByProductID returns the reviews of one product, most recent first.
func (r *ReviewRepository) GetByProductID(ctx context.Context, productID int64) ([]*model.Review, error) {
	return r.list(ctx, reviewSelect+` WHERE r.product_id = $1 ORDER BY r.created_at DESC, r.id DESC`, productID)
}

func (r *ReviewRepository) list(ctx context.Context, query string, args ...interface{}) ([]*model.Review, error) {
	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	reviews := []*model.Review{}
	for rows.Next() {
		var review model.Review
		err := rows.Scan(&review.ID, &review.ProductID, &review.ProductName, &review.Rating, &review.Comment, &review.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, &review)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return reviews, nil
}

// GetTopRated returns at most limit products that have at least one review,
// ordered by their average rating.
func (r *ReviewRepository) GetTopRated(ctx context.Context, limit int) ([]*model.ProductRating, error) {
	if limit <= 0 {
		limit = repository.DefaultTopRatedLimit
	}

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, topRatedQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top rated products: %w", err)
	}
	defer rows.Close()

	ratings := []*model.ProductRating{}
	for rows.Next() {
		var rating model.ProductRating
		err := rows.Scan(
			&rating.ID, &rating.Name, &rating.Description, &rating.Price, &rating.Category,
			&rating.AverageRating, &rating.ReviewCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product rating: %w", err)
		}
		ratings = append(ratings, &rating)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return ratings, nil
}

// Count returns the total number of stored reviews.
func (r *ReviewRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.getExecutor().QueryRowContext(ctx, `SELECT COUNT(*) FROM reviews`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count reviews: %w", err)
	}
	return count, nil
}
