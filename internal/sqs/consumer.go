package sqs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/iyhunko/product-reviews/internal/model"
)

const (
	receiveErrorDelay  = time.Second
	maxMessagesPerPoll = 10
	longPollSeconds    = 20
)

var errEmptyBody = errors.New("message body is nil")

// ConsumerAPI defines the interface for SQS operations used by Consumer.
type ConsumerAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// ReviewHandler reacts to a review.created notification. Returning an error
// keeps the message on the queue so it is delivered again.
type ReviewHandler func(ctx context.Context, msg ReviewMessage) error

// LogReview writes the notification to the log.
func LogReview(_ context.Context, msg ReviewMessage) error {
	slog.Info("Received review notification",
		slog.String("event_id", msg.EventID),
		slog.Int64("review_id", msg.Review.ReviewID),
		slog.Int64("product_id", msg.Review.ProductID),
		slog.String("rating", msg.Review.Rating),
		slog.Bool("has_comment", msg.Review.Comment != nil),
	)
	return nil
}

// Consumer long-polls the review notification queue and hands every
// review.created message to its handler.
type Consumer struct {
	client   ConsumerAPI
	queueURL string
	handle   ReviewHandler
}

// NewConsumer creates a Consumer. A nil handler falls back to LogReview.
func NewConsumer(client ConsumerAPI, queueURL string, handle ReviewHandler) *Consumer {
	if handle == nil {
		handle = LogReview
	}
	return &Consumer{
		client:   client,
		queueURL: queueURL,
		handle:   handle,
	}
}

// Start polls until ctx is cancelled and returns the context error.
func (c *Consumer) Start(ctx context.Context) error {
	slog.Info("Starting SQS consumer", slog.String("queueURL", c.queueURL))

	for ctx.Err() == nil {
		handled, err := c.poll(ctx)
		if err != nil {
			slog.Error("Error receiving messages", slog.Any("err", err))
			select {
			case <-ctx.Done():
			case <-time.After(receiveErrorDelay):
			}
			continue
		}
		if handled > 0 {
			slog.Debug("Handled review notifications", slog.Int("count", handled))
		}
	}

	slog.Info("Stopping SQS consumer")
	return ctx.Err()
}

// poll receives one batch and returns how many messages were handled and deleted.
func (c *Consumer) poll(ctx context.Context) (int, error) {
	result, err := c.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:              aws.String(c.queueURL),
		MaxNumberOfMessages:   maxMessagesPerPoll,
		WaitTimeSeconds:       longPollSeconds,
		MessageAttributeNames: []string{eventTypeAttribute},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to receive messages: %w", err)
	}

	handled := 0
	for _, message := range result.Messages {
		if err := c.dispatch(ctx, message); err != nil {
			slog.Error("Error processing message", slog.Any("err", err))
			continue
		}
		if err := c.ack(ctx, message); err != nil {
			slog.Error("Error deleting message", slog.Any("err", err))
			continue
		}
		handled++
	}

	return handled, nil
}

// dispatch decodes a message and runs the handler. Notifications of other
// event types are acknowledged without handling.
func (c *Consumer) dispatch(ctx context.Context, message types.Message) error {
	if message.Body == nil {
		return errEmptyBody
	}

	var msg ReviewMessage
	if err := json.Unmarshal([]byte(*message.Body), &msg); err != nil {
		return fmt.Errorf("failed to unmarshal message: %w", err)
	}

	if msg.EventType != model.ReviewCreatedEventType {
		slog.Warn("Skipping unsupported notification",
			slog.String("event_id", msg.EventID),
			slog.String("event_type", msg.EventType),
		)
		return nil
	}

	if err := c.handle(ctx, msg); err != nil {
		return fmt.Errorf("failed to handle event %s: %w", msg.EventID, err)
	}
	return nil
}

func (c *Consumer) ack(ctx context.Context, message types.Message) error {
	if _, err := c.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(c.queueURL),
		ReceiptHandle: message.ReceiptHandle,
	}); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}
