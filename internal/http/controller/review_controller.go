package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iyhunko/product-reviews/internal/model"
	"github.com/iyhunko/product-reviews/internal/service"
	"github.com/iyhunko/product-reviews/internal/validation"
)

const maxRequestBodySize = 64 << 10

// ReviewService is the behaviour the review endpoints depend on.
type ReviewService interface {
	CreateReview(ctx context.Context, input validation.Review) (*model.Review, error)
	GetAllReviews(ctx context.Context) ([]*model.Review, error)
	GetReviewsByProductID(ctx context.Context, productID int64) ([]*model.Review, error)
	GetTopRatedProducts(ctx context.Context) ([]*model.ProductRating, error)
}

// ReviewController handles HTTP requests for review operations.
type ReviewController struct {
	reviewService ReviewService
}

// NewReviewController creates a new ReviewController with the given review service.
func NewReviewController(reviewService ReviewService) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
	}
}

// ReviewResponse represents the response body for a review.
type ReviewResponse struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name,omitempty"`
	Rating      string  `json:"rating"`
	Comment     *string `json:"comment"`
	CreatedAt   string  `json:"created_at"`
}

// TopRatedProductResponse represents one entry of the top-rated listing.
type TopRatedProductResponse struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	AverageRating string `json:"average_rating"`
	ReviewCount   int    `json:"review_count"`
}

// CreateReview handles the HTTP POST request for submitting a review.
func (rc *ReviewController) CreateReview(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBodySize))
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		fail(c, http.StatusRequestEntityTooLarge, "Request body too large",
			fmt.Sprintf("body: must be at most %d bytes", tooLarge.Limit))
		return
	case err != nil:
		fail(c, http.StatusBadRequest, "Invalid review data", "body: could not be read")
		return
	}

	raw, err := validation.DecodeReview(body)
	if err != nil {
		rc.handleError(c, "create review", err)
		return
	}
	input, err := validation.ValidateReview(raw)
	if err != nil {
		rc.handleError(c, "create review", err)
		return
	}

	created, err := rc.reviewService.CreateReview(c.Request.Context(), input)
	if err != nil {
		rc.handleError(c, "create review", err)
		return
	}

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Message: "Review created successfully",
		Data:    toReviewResponse(created),
	})
}

// GetAllReviews handles the HTTP GET request listing every review.
func (rc *ReviewController) GetAllReviews(c *gin.Context) {
	reviews, err := rc.reviewService.GetAllReviews(c.Request.Context())
	if err != nil {
		rc.handleError(c, "fetch reviews", err)
		return
	}
	c.JSON(http.StatusOK, listResponse(toReviewResponses(reviews)))
}

// GetReviewsByProductID handles the HTTP GET request listing the reviews of one product.
func (rc *ReviewController) GetReviewsByProductID(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid product ID")
		return
	}

	reviews, err := rc.reviewService.GetReviewsByProductID(c.Request.Context(), productID)
	if err != nil {
		rc.handleError(c, "fetch reviews", err)
		return
	}
	c.JSON(http.StatusOK, listResponse(toReviewResponses(reviews)))
}

// GetTopRatedProducts handles the HTTP GET request for the best rated products.
func (rc *ReviewController) GetTopRatedProducts(c *gin.Context) {
	ratings, err := rc.reviewService.GetTopRatedProducts(c.Request.Context())
	if err != nil {
		rc.handleError(c, "fetch top rated products", err)
		return
	}

	items := make([]TopRatedProductResponse, 0, len(ratings))
	for _, rating := range ratings {
		items = append(items, TopRatedProductResponse{
			ID:            rating.ID,
			Name:          rating.Name,
			Category:      rating.Category,
			AverageRating: rating.FormattedAverage(),
			ReviewCount:   rating.ReviewCount,
		})
	}
	c.JSON(http.StatusOK, listResponse(items))
}

func (rc *ReviewController) handleError(c *gin.Context, operation string, err error) {
	var validationErr *validation.Error
	var notFoundErr *service.ProductNotFoundError
	switch {
	case errors.As(err, &validationErr):
		fail(c, http.StatusBadRequest, "Invalid review data", validationErr.Messages()...)
	case errors.As(err, &notFoundErr):
		fail(c, http.StatusNotFound, notFoundErr.Error())
	default:
		slog.Error("request failed",
			slog.String("operation", operation),
			slog.String("path", c.Request.URL.Path),
			slog.Any("err", err))
		fail(c, http.StatusInternalServerError, "An error occurred while trying to "+operation)
	}
}

func listResponse[T any](items []T) Response {
	count := len(items)
	return Response{Success: true, Count: &count, Data: items}
}

func toReviewResponses(reviews []*model.Review) []ReviewResponse {
	responses := make([]ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		responses = append(responses, toReviewResponse(review))
	}
	return responses
}

func toReviewResponse(review *model.Review) ReviewResponse {
	return ReviewResponse{
		ID:          review.ID,
		ProductID:   review.ProductID,
		ProductName: review.ProductName,
		Rating:      review.Rating.StringFixed(1),
		Comment:     review.Comment,
		CreatedAt:   review.CreatedAt.Format(time.RFC3339),
	}
}
