package repository

import (
	"context"
	"errors"

	"github.com/iyhunko/product-reviews/internal/model"
)

const (
	// DefaultTopRatedLimit is the number of products returned by a top-rated query
	// when no positive limit is given.
	DefaultTopRatedLimit = 3
)

var (
	// ErrInvalidID is returned when a lookup is attempted with a non-positive identifier.
	ErrInvalidID = errors.New("id must be a positive integer")
)

// ProductRepository defines the persistence operations for products.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) (*model.Product, error)
	// FindByID reports found=false without an error when no product has the id.
	FindByID(ctx context.Context, id int64) (product *model.Product, found bool, err error)
	FindByName(ctx context.Context, name string) (product *model.Product, found bool, err error)
}

// ReviewRepository defines the persistence operations for reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) (*model.Review, error)
	GetAll(ctx context.Context) ([]*model.Review, error)
	GetByProductID(ctx context.Context, productID int64) ([]*model.Review, error)
	GetTopRated(ctx context.Context, limit int) ([]*model.ProductRating, error)
	Count(ctx context.Context) (int, error)
	WithinTransaction(ctx context.Context, fn func(repo ReviewRepository) error) error
}

// EventRepository defines the persistence operations for outbox events.
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	ListPending(ctx context.Context, limit int) ([]*model.Event, error)
	UpdateStatus(ctx context.Context, event *model.Event, status model.EventStatus) error
}

// UniqueConstraintError represents a database unique constraint violation error.
type UniqueConstraintError struct {
	Detail string
}

func (u *UniqueConstraintError) Error() string {
	return "resource must be unique: " + u.Detail
}

// ForeignKeyError represents a database foreign key violation error.
type ForeignKeyError struct {
	Detail string
}

func (f *ForeignKeyError) Error() string {
	return "referenced resource does not exist: " + f.Detail
}
