package http

import (
	"github.com/gin-gonic/gin"
	"github.com/iyhunko/product-reviews/internal/http/controller"
	"github.com/iyhunko/product-reviews/internal/http/middleware"
	"github.com/iyhunko/product-reviews/internal/metrics"
)

// InitRouter registers middleware and routes on server.
func InitRouter(server *gin.Engine, con *controller.Controller, reviewCtr *controller.ReviewController) *gin.Engine {
	server.Use(
		middleware.RequestID(),
		middleware.Logger(),
		// Apply recovery middleware globally to prevent panics from crashing the server
		middleware.Recovery(),
		middleware.CORS(),
		metrics.GinMiddleware(),
	)

	server.GET("/", con.Index)
	server.GET("/health", con.Health)

	// Review endpoints
	reviews := server.Group("/reviews")
	{
		reviews.POST("", reviewCtr.CreateReview)
		reviews.GET("", reviewCtr.GetAllReviews)
		reviews.GET("/top-rated", reviewCtr.GetTopRatedProducts)
		reviews.GET("/:productId", reviewCtr.GetReviewsByProductID)
	}

	server.NoRoute(con.NotFound)

	return server
}
