package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product that can be reviewed.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	CreatedAt   time.Time
}

// ProductRating is a product together with the aggregate of its reviews.
type ProductRating struct {
	Product
	AverageRating decimal.Decimal
	ReviewCount   int
}

// FormattedAverage renders the average rating with exactly one fractional digit.
func (p ProductRating) FormattedAverage() string {
	return p.AverageRating.StringFixed(1)
}
