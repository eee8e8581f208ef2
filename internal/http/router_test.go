package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/iyhunko/product-reviews/internal/config"
	apphttp "github.com/iyhunko/product-reviews/internal/http"
	"github.com/iyhunko/product-reviews/internal/http/controller"
	"github.com/iyhunko/product-reviews/internal/model"
	"github.com/iyhunko/product-reviews/internal/validation"
	"github.com/stretchr/testify/assert"
)

type stubPinger struct{ err error }

func (s stubPinger) PingContext(context.Context) error { return s.err }

type stubReviewService struct{}

func (stubReviewService) CreateReview(context.Context, validation.Review) (*model.Review, error) {
	return nil, errors.New("not used")
}

func (stubReviewService) GetAllReviews(context.Context) ([]*model.Review, error) {
	return []*model.Review{}, nil
}

func (stubReviewService) GetReviewsByProductID(context.Context, int64) ([]*model.Review, error) {
	return []*model.Review{}, nil
}

func (stubReviewService) GetTopRatedProducts(context.Context) ([]*model.ProductRating, error) {
	return []*model.ProductRating{}, nil
}

func newRouter(pingErr error) *gin.Engine {
	gin.SetMode(gin.TestMode)
	conf := &config.Config{Environment: "test"}
	return apphttp.InitRouter(gin.New(),
		controller.New(conf, stubPinger{err: pingErr}),
		controller.NewReviewController(stubReviewService{}))
}

func TestInitRouter(t *testing.T) {
	router := newRouter(nil)

	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"welcome", http.MethodGet, "/", http.StatusOK},
		{"health", http.MethodGet, "/health", http.StatusOK},
		{"all reviews", http.MethodGet, "/reviews", http.StatusOK},
		{"top rated is not a product id", http.MethodGet, "/reviews/top-rated", http.StatusOK},
		{"reviews of a product", http.MethodGet, "/reviews/1", http.StatusOK},
		{"unknown route", http.MethodGet, "/products", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestInitRouter_NotFoundEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter(nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Route not found"}`, w.Body.String())
}

func TestInitRouter_HealthUnavailable(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter(errors.New("down")).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, w.Body.String())
}
