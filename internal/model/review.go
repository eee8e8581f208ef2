package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// MinRating is the lowest rating a review can carry.
	MinRating = 1
	// MaxRating is the highest rating a review can carry.
	MaxRating = 5
	// MaxCommentLength is the maximum number of characters in a review comment.
	MaxCommentLength = 1000
)

// Review is a rating with an optional comment submitted against a product.
type Review struct {
	ID          int64
	ProductID   int64
	ProductName string
	Rating      decimal.Decimal
	Comment     *string
	CreatedAt   time.Time
}
