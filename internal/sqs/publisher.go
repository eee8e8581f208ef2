package sqs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/iyhunko/product-reviews/internal/model"
)

const eventTypeAttribute = "event_type"

// PublisherAPI defines the SQS operation used by Publisher.
type PublisherAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// Publisher handles publishing messages to AWS SQS.
type Publisher struct {
	client   PublisherAPI
	queueURL string
}

// NewPublisher creates a new SQS Publisher with the given client and queue URL.
func NewPublisher(client PublisherAPI, queueURL string) *Publisher {
	return &Publisher{
		client:   client,
		queueURL: queueURL,
	}
}

// ReviewMessage is the body of a review notification on the queue.
type ReviewMessage struct {
	EventID   string                `json:"event_id"`
	EventType string                `json:"event_type"`
	Review    model.ReviewEventData `json:"review"`
}

// PublishReviewEvent publishes an outbox event as a review notification.
func (p *Publisher) PublishReviewEvent(ctx context.Context, event *model.Event) error {
	var data model.ReviewEventData
	if err := json.Unmarshal(event.EventData, &data); err != nil {
		return fmt.Errorf("failed to decode event data: %w", err)
	}

	messageBody, err := json.Marshal(ReviewMessage{
		EventID:   event.ID.String(),
		EventType: event.EventType,
		Review:    data,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	_, err = p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(messageBody)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			eventTypeAttribute: {
				DataType:    aws.String("String"),
				StringValue: aws.String(event.EventType),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send message to SQS: %w", err)
	}

	return nil
}
