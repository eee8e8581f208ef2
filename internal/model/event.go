package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventStatus represents the status of an event in the outbox pattern.
type EventStatus string

const (
	// EventStatusPending indicates the event has been created but not yet processed
	EventStatusPending EventStatus = "pending"
	// EventStatusProcessed indicates the event has been successfully processed
	EventStatusProcessed EventStatus = "processed"
	// EventStatusFailed indicates the event processing has failed
	EventStatusFailed EventStatus = "failed"
)

// ReviewCreatedEventType is the event type written when a review is stored.
const ReviewCreatedEventType = "review.created"

// Event represents an event entity for the outbox pattern.
type Event struct {
	ID          uuid.UUID
	EventType   string
	EventData   json.RawMessage
	Status      EventStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// InitMeta initializes the event metadata including ID and timestamps.
func (e *Event) InitMeta() {
	e.ID = uuid.New()
	e.CreatedAt = time.Now()
	if e.Status == "" {
		e.Status = EventStatusPending
	}
}

// ReviewEventData is the payload of review events, both in the outbox and on the queue.
type ReviewEventData struct {
	ReviewID  int64     `json:"review_id"`
	ProductID int64     `json:"product_id"`
	Rating    string    `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewReviewCreatedEvent builds a pending outbox event for a stored review.
func NewReviewCreatedEvent(review *Review) (*Event, error) {
	data, err := json.Marshal(ReviewEventData{
		ReviewID:  review.ID,
		ProductID: review.ProductID,
		Rating:    review.Rating.StringFixed(1),
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event data: %w", err)
	}

	return &Event{
		EventType: ReviewCreatedEventType,
		EventData: data,
		Status:    EventStatusPending,
	}, nil
}
