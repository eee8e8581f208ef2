package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iyhunko/product-reviews/internal/metrics"
	"github.com/iyhunko/product-reviews/internal/model"
	"github.com/iyhunko/product-reviews/internal/repository"
	"github.com/iyhunko/product-reviews/internal/validation"
	"github.com/shopspring/decimal"
)

// ErrProductNotFound is matched by every *ProductNotFoundError.
var ErrProductNotFound = errors.New("product not found")

// ProductNotFoundError reports a review operation against a product that does not exist.
type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("Product with ID %d not found", e.ProductID)
}

func (e *ProductNotFoundError) Unwrap() error {
	return ErrProductNotFound
}

// ProductFinder looks up products by id.
type ProductFinder interface {
	FindByID(ctx context.Context, id int64) (*model.Product, bool, error)
}

// ReviewReader serves the read side of reviews.
type ReviewReader interface {
	GetAll(ctx context.Context) ([]*model.Review, error)
	GetByProductID(ctx context.Context, productID int64) ([]*model.Review, error)
	GetTopRated(ctx context.Context, limit int) ([]*model.ProductRating, error)
}

// ReviewWriter stores a new review. Implemented by the plain review repository
// and by the transactional repository that also records an outbox event.
type ReviewWriter interface {
	Create(ctx context.Context, review *model.Review) (*model.Review, error)
}

type ReviewService struct {
	products ProductFinder
	reviews  ReviewReader
	writer   ReviewWriter
}

func NewReviewService(products ProductFinder, reviews ReviewReader, writer ReviewWriter) *ReviewService {
	return &ReviewService{
		products: products,
		reviews:  reviews,
		writer:   writer,
	}
}

// CreateReview stores a validated review after checking that its product exists.
func (rs *ReviewService) CreateReview(ctx context.Context, input validation.Review) (*model.Review, error) {
	product, err := rs.findProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	created, err := rs.writer.Create(ctx, &model.Review{
		ProductID: product.ID,
		Rating:    decimal.NewFromInt(int64(input.Rating)),
		Comment:   input.Comment,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	created.ProductName = product.Name

	metrics.ObserveReviewCreated(input.Rating)
	slog.Debug("review created",
		slog.Int64("review_id", created.ID),
		slog.Int64("product_id", created.ProductID),
		slog.Int("rating", input.Rating))

	return created, nil
}

func (rs *ReviewService) GetAllReviews(ctx context.Context) ([]*model.Review, error) {
	reviews, err := rs.reviews.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}
	return reviews, nil
}

// GetReviewsByProductID returns the reviews of an existing product.
func (rs *ReviewService) GetReviewsByProductID(ctx context.Context, productID int64) ([]*model.Review, error) {
	if _, err := rs.findProduct(ctx, productID); err != nil {
		return nil, err
	}

	reviews, err := rs.reviews.GetByProductID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews of product %d: %w", productID, err)
	}
	return reviews, nil
}

// GetTopRatedProducts returns the best rated products. An empty result is not an error.
func (rs *ReviewService) GetTopRatedProducts(ctx context.Context) ([]*model.ProductRating, error) {
	ratings, err := rs.reviews.GetTopRated(ctx, repository.DefaultTopRatedLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top rated products: %w", err)
	}
	return ratings, nil
}

func (rs *ReviewService) findProduct(ctx context.Context, id int64) (*model.Product, error) {
	if id <= 0 {
		return nil, &ProductNotFoundError{ProductID: id}
	}

	product, found, err := rs.products.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find product %d: %w", id, err)
	}
	if !found {
		return nil, &ProductNotFoundError{ProductID: id}
	}
	return product, nil
}
