package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iyhunko/product-reviews/internal/config"
)

const healthCheckTimeout = 2 * time.Second

// Response is the envelope of every API response.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

func fail(c *gin.Context, status int, message string, errs ...string) {
	c.JSON(status, Response{Success: false, Message: message, Errors: errs})
}

// Pinger checks that a dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Controller handles general HTTP requests.
type Controller struct {
	config *config.Config
	db     Pinger
}

// New creates a new Controller with the given configuration and database.
func New(config *config.Config, db Pinger) *Controller {
	return &Controller{
		config: config,
		db:     db,
	}
}

// Index describes the API.
func (con *Controller) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":     "Welcome to the Product Reviews API",
		"environment": con.config.Environment,
		"endpoints": gin.H{
			"getAllReviews":        "GET /reviews",
			"getReviewByProductId": "GET /reviews/:productId",
			"createReview":         "POST /reviews",
			"getTopRatedProducts":  "GET /reviews/top-rated",
		},
	})
}

// Health reports whether the database is reachable.
func (con *Controller) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	if err := con.db.PingContext(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// NotFound answers requests that match no route.
func (con *Controller) NotFound(c *gin.Context) {
	fail(c, http.StatusNotFound, "Route not found")
}
