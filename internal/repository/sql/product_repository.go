package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iyhunko/product-reviews/internal/model"
	"github.com/iyhunko/product-reviews/internal/repository"
)

const productColumns = `id, name, COALESCE(description, ''), price, COALESCE(category, ''), created_at`

// ProductRepository implements repository.ProductRepository on PostgreSQL.
type ProductRepository struct {
	db  *sql.DB
	txn *sql.Tx
}

// NewProductRepository creates a new ProductRepository instance.
func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) getExecutor() dbExecutor {
	return executorFor(r.db, r.txn)
}

// Create inserts a new product and fills in the generated id and creation time.
func (r *ProductRepository) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	query := `INSERT INTO products (name, description, price, category) 
	          VALUES ($1, $2, $3, $4) 
	          RETURNING id, created_at`

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	created := *product
	err = stmt.QueryRowContext(ctx, product.Name, nullIfEmpty(product.Description), product.Price, nullIfEmpty(product.Category)).
		Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		err = classifyError(err)
		var uniqueErr *repository.UniqueConstraintError
		if errors.As(err, &uniqueErr) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}

	return &created, nil
}

// FindByID retrieves a single product by ID.
func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*model.Product, bool, error) {
	if id <= 0 {
		return nil, false, repository.ErrInvalidID
	}
	return r.findOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// FindByName retrieves a single product by its name, ignoring case.
func (r *ProductRepository) FindByName(ctx context.Context, name string) (*model.Product, bool, error) {
	return r.findOne(ctx, `SELECT `+productColumns+` FROM products WHERE LOWER(name) = LOWER($1) ORDER BY id LIMIT 1`, name)
}

func (r *ProductRepository) findOne(ctx context.Context, query string, arg interface{}) (*model.Product, bool, error) {
	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return nil, false, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	var result model.Product
	err = stmt.QueryRowContext(ctx, arg).Scan(
		&result.ID, &result.Name, &result.Description, &result.Price, &result.Category, &result.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to query product: %w", err)
	}

	return &result, true, nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
