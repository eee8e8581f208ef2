// Package seed loads the sample catalogue and reviews used in development.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iyhunko/product-reviews/internal/model"
	"github.com/iyhunko/product-reviews/internal/repository"
	"github.com/iyhunko/product-reviews/internal/validation"
	"github.com/shopspring/decimal"
)

type sampleReview struct {
	productName string
	rating      int
	comment     string
}

func sampleProducts() []model.Product {
	return []model.Product{
		{Name: "Smartphone XS", Description: "Latest smartphone with advanced camera and long battery life", Price: decimal.RequireFromString("799.99"), Category: "electronics"},
		{Name: "Laptop Pro", Description: "Powerful laptop for professionals with 16GB RAM and 512GB SSD", Price: decimal.RequireFromString("1299.99"), Category: "electronics"},
		{Name: "Wireless Headphones", Description: "Noise-cancelling headphones with 20-hour battery life", Price: decimal.RequireFromString("199.99"), Category: "electronics"},
		{Name: "Running Shoes", Description: "Lightweight running shoes with cushioned sole", Price: decimal.RequireFromString("89.99"), Category: "sports"},
		{Name: "Yoga Mat", Description: "Non-slip yoga mat for home workouts", Price: decimal.RequireFromString("29.99"), Category: "sports"},
		{Name: "Coffee Maker", Description: "Programmable coffee maker with thermal carafe", Price: decimal.RequireFromString("79.99"), Category: "home"},
		{Name: "Blender", Description: "High-speed blender for smoothies and food processing", Price: decimal.RequireFromString("69.99"), Category: "home"},
		{Name: "Novel - The Mystery", Description: "Bestselling mystery novel by renowned author", Price: decimal.RequireFromString("14.99"), Category: "books"},
		{Name: "Cookbook", Description: "Collection of gourmet recipes for home cooking", Price: decimal.RequireFromString("24.99"), Category: "books"},
		{Name: "Smart Watch", Description: "Fitness tracker and smartwatch with heart rate monitor", Price: decimal.RequireFromString("149.99"), Category: "electronics"},
	}
}

var sampleReviews = []sampleReview{
	{"Smartphone XS", 5, "Amazing camera quality! Battery lasts all day."},
	{"Smartphone XS", 4, "Great phone, but a bit expensive."},
	{"Laptop Pro", 5, "Perfect for work and gaming. Very fast!"},
	{"Wireless Headphones", 3, "Good sound but not comfortable for long periods."},
	{"Running Shoes", 5, "Very comfortable for long runs!"},
	{"Coffee Maker", 4, "Makes great coffee and keeps it hot for hours."},
}

// Result counts what a run inserted and skipped.
type Result struct {
	ProductsCreated int
	ProductsSkipped int
	ReviewsCreated  int
	ReviewsSkipped  int
}

// Seeder inserts the sample data. Running it twice is harmless.
type Seeder struct {
	products repository.ProductRepository
	reviews  repository.ReviewRepository
}

func New(products repository.ProductRepository, reviews repository.ReviewRepository) *Seeder {
	return &Seeder{products: products, reviews: reviews}
}

// Run inserts missing sample products, then the sample reviews if no review exists yet.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	var result Result
	if err := s.seedProducts(ctx, &result); err != nil {
		return result, err
	}
	if err := s.seedReviews(ctx, &result); err != nil {
		return result, err
	}

	slog.Info("seeding finished",
		slog.Int("products_created", result.ProductsCreated),
		slog.Int("products_skipped", result.ProductsSkipped),
		slog.Int("reviews_created", result.ReviewsCreated),
		slog.Int("reviews_skipped", result.ReviewsSkipped))
	return result, nil
}

func (s *Seeder) seedProducts(ctx context.Context, result *Result) error {
	for _, product := range sampleProducts() {
		_, err := s.products.Create(ctx, &product)
		var uniqueErr *repository.UniqueConstraintError
		switch {
		case errors.As(err, &uniqueErr):
			slog.Warn("product already exists, skipping", slog.String("name", product.Name))
			result.ProductsSkipped++
		case err != nil:
			return fmt.Errorf("failed to seed product %q: %w", product.Name, err)
		default:
			result.ProductsCreated++
		}
	}
	return nil
}

func (s *Seeder) seedReviews(ctx context.Context, result *Result) error {
	// added to result only once the transaction commits
	var created, skipped int
	err := s.reviews.WithinTransaction(ctx, func(txRepo repository.ReviewRepository) error {
		count, err := txRepo.Count(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			slog.Info("reviews already present, skipping", slog.Int("count", count))
			return nil
		}

		for _, sample := range sampleReviews {
			product, found, err := s.products.FindByName(ctx, sample.productName)
			if err != nil {
				return fmt.Errorf("failed to find product %q: %w", sample.productName, err)
			}
			if !found {
				slog.Warn("product not found, skipping review", slog.String("product", sample.productName))
				skipped++
				continue
			}

			comment := sample.comment
			raw, err := validation.NewRawReview(product.ID, sample.rating, &comment)
			if err != nil {
				return err
			}
			review, err := validation.ValidateReview(raw)
			if err != nil {
				return fmt.Errorf("invalid sample review for %q: %w", sample.productName, err)
			}

			if _, err := txRepo.Create(ctx, &model.Review{
				ProductID: review.ProductID,
				Rating:    decimal.NewFromInt(int64(review.Rating)),
				Comment:   review.Comment,
			}); err != nil {
				return fmt.Errorf("failed to seed review for %q: %w", sample.productName, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return err
	}

	result.ReviewsCreated += created
	result.ReviewsSkipped += skipped
	return nil
}
