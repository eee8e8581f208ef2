package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReviewsCreated is a Prometheus counter for tracking the total number of reviews created.
	ReviewsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reviews_created_total",
		Help: "The total number of reviews created",
	})

	// ReviewRatings tracks the distribution of submitted ratings.
	ReviewRatings = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "review_rating",
		Help:    "Ratings of created reviews",
		Buckets: []float64{1, 2, 3, 4, 5},
	})

	// ReviewEventsPublished counts outbox events by their final status.
	ReviewEventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "review_events_total",
		Help: "The total number of review events handled by the outbox worker",
	}, []string{"status"})
)

// ObserveReviewCreated records a stored review with the given rating.
func ObserveReviewCreated(rating int) {
	ReviewsCreated.Inc()
	ReviewRatings.Observe(float64(rating))
}
