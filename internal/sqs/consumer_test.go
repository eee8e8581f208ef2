package sqs

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testQueueURL      = "https://sqs.us-east-1.amazonaws.com/123456789/test-queue"
	reviewCreatedBody = `{"event_id":"6f1c2a56-0f1e-4f4b-9d0a-3f0f7c1b2a10","event_type":"review.created","review":{"review_id":1,"product_id":7,"rating":"5.0","created_at":"2026-01-02T03:04:05Z"}}`
)

// mockSQSConsumerClient is a mock implementation of the SQS client for consumer testing.
type mockSQSConsumerClient struct {
	receiveMessageFunc func(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	deleteMessageFunc  func(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

func (m *mockSQSConsumerClient) ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	if m.receiveMessageFunc != nil {
		return m.receiveMessageFunc(ctx, params, optFns...)
	}
	return &sqs.ReceiveMessageOutput{Messages: []types.Message{}}, nil
}

func (m *mockSQSConsumerClient) DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	if m.deleteMessageFunc != nil {
		return m.deleteMessageFunc(ctx, params, optFns...)
	}
	return &sqs.DeleteMessageOutput{}, nil
}

// recordingHandler collects every message it is given.
type recordingHandler struct {
	got []ReviewMessage
	err error
}

func (h *recordingHandler) handle(_ context.Context, msg ReviewMessage) error {
	h.got = append(h.got, msg)
	return h.err
}

func TestConsumer_dispatch(t *testing.T) {
	t.Run("review created message reaches the handler", func(t *testing.T) {
		// given
		h := &recordingHandler{}
		consumer := NewConsumer(&mockSQSConsumerClient{}, testQueueURL, h.handle)

		// when
		err := consumer.dispatch(context.Background(), types.Message{Body: aws.String(reviewCreatedBody)})

		// then
		require.NoError(t, err)
		require.Len(t, h.got, 1)
		assert.Equal(t, int64(1), h.got[0].Review.ReviewID)
		assert.Equal(t, int64(7), h.got[0].Review.ProductID)
		assert.Equal(t, "5.0", h.got[0].Review.Rating)
	})

	t.Run("nil message body", func(t *testing.T) {
		// given
		h := &recordingHandler{}
		consumer := NewConsumer(&mockSQSConsumerClient{}, testQueueURL, h.handle)

		// when
		err := consumer.dispatch(context.Background(), types.Message{ReceiptHandle: aws.String("test-receipt-handle")})

		// then
		require.ErrorIs(t, err, errEmptyBody)
		assert.Empty(t, h.got)
	})

	t.Run("invalid JSON message body", func(t *testing.T) {
		// given
		consumer := NewConsumer(&mockSQSConsumerClient{}, testQueueURL, nil)

		// when
		err := consumer.dispatch(context.Background(), types.Message{Body: aws.String(`{"invalid json`)})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to unmarshal message")
	})

	t.Run("unsupported event type skips the handler", func(t *testing.T) {
		// given
		h := &recordingHandler{}
		consumer := NewConsumer(&mockSQSConsumerClient{}, testQueueURL, h.handle)

		// when
		err := consumer.dispatch(context.Background(), types.Message{
			Body: aws.String(`{"event_id":"1","event_type":"review.deleted","review":{}}`),
		})

		// then
		require.NoError(t, err)
		assert.Empty(t, h.got)
	})

	t.Run("handler error is wrapped with the event id", func(t *testing.T) {
		// given
		h := &recordingHandler{err: errors.New("mailer down")}
		consumer := NewConsumer(&mockSQSConsumerClient{}, testQueueURL, h.handle)

		// when
		err := consumer.dispatch(context.Background(), types.Message{Body: aws.String(reviewCreatedBody)})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "6f1c2a56-0f1e-4f4b-9d0a-3f0f7c1b2a10")
		assert.Contains(t, err.Error(), "mailer down")
	})
}

func TestConsumer_ack(t *testing.T) {
	t.Run("deletes by receipt handle", func(t *testing.T) {
		// given
		mockClient := &mockSQSConsumerClient{
			deleteMessageFunc: func(_ context.Context, params *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
				assert.Equal(t, testQueueURL, *params.QueueUrl)
				assert.Equal(t, "test-receipt-handle", *params.ReceiptHandle)
				return &sqs.DeleteMessageOutput{}, nil
			},
		}
		consumer := NewConsumer(mockClient, testQueueURL, nil)

		// when
		err := consumer.ack(context.Background(), types.Message{ReceiptHandle: aws.String("test-receipt-handle")})

		// then
		require.NoError(t, err)
	})

	t.Run("error deleting message", func(t *testing.T) {
		// given
		mockClient := &mockSQSConsumerClient{
			deleteMessageFunc: func(_ context.Context, _ *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
				return nil, errors.New("failed to delete")
			},
		}
		consumer := NewConsumer(mockClient, testQueueURL, nil)

		// when
		err := consumer.ack(context.Background(), types.Message{ReceiptHandle: aws.String("test-receipt-handle")})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to delete message")
	})
}

func TestConsumer_poll(t *testing.T) {
	t.Run("handles and deletes received messages", func(t *testing.T) {
		// given
		deleted := 0
		mockClient := &mockSQSConsumerClient{
			receiveMessageFunc: func(_ context.Context, params *sqs.ReceiveMessageInput, _ ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
				assert.Equal(t, testQueueURL, *params.QueueUrl)
				assert.Equal(t, int32(10), params.MaxNumberOfMessages)
				assert.Equal(t, int32(20), params.WaitTimeSeconds)
				assert.Equal(t, []string{eventTypeAttribute}, params.MessageAttributeNames)
				return &sqs.ReceiveMessageOutput{
					Messages: []types.Message{
						{Body: aws.String(reviewCreatedBody), ReceiptHandle: aws.String("a")},
						{Body: aws.String(reviewCreatedBody), ReceiptHandle: aws.String("b")},
					},
				}, nil
			},
			deleteMessageFunc: func(_ context.Context, _ *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
				deleted++
				return &sqs.DeleteMessageOutput{}, nil
			},
		}
		h := &recordingHandler{}
		consumer := NewConsumer(mockClient, testQueueURL, h.handle)

		// when
		handled, err := consumer.poll(context.Background())

		// then
		require.NoError(t, err)
		assert.Equal(t, 2, handled)
		assert.Equal(t, 2, deleted)
		assert.Len(t, h.got, 2)
	})

	t.Run("receive error is returned", func(t *testing.T) {
		// given
		mockClient := &mockSQSConsumerClient{
			receiveMessageFunc: func(_ context.Context, _ *sqs.ReceiveMessageInput, _ ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
				return nil, errors.New("failed to receive")
			},
		}
		consumer := NewConsumer(mockClient, testQueueURL, nil)

		// when
		_, err := consumer.poll(context.Background())

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to receive messages")
	})

	t.Run("failed messages stay on the queue", func(t *testing.T) {
		// given
		deleted := 0
		mockClient := &mockSQSConsumerClient{
			receiveMessageFunc: func(_ context.Context, _ *sqs.ReceiveMessageInput, _ ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
				return &sqs.ReceiveMessageOutput{
					Messages: []types.Message{
						{Body: aws.String(`{"invalid json`), ReceiptHandle: aws.String("a")},
						{Body: aws.String(reviewCreatedBody), ReceiptHandle: aws.String("b")},
					},
				}, nil
			},
			deleteMessageFunc: func(_ context.Context, _ *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
				deleted++
				return &sqs.DeleteMessageOutput{}, nil
			},
		}
		h := &recordingHandler{err: errors.New("try later")}
		consumer := NewConsumer(mockClient, testQueueURL, h.handle)

		// when
		handled, err := consumer.poll(context.Background())

		// then
		require.NoError(t, err)
		assert.Equal(t, 0, handled)
		assert.Equal(t, 0, deleted)
	})
}

func TestNewConsumer(t *testing.T) {
	t.Run("defaults to the logging handler", func(t *testing.T) {
		// when
		consumer := NewConsumer(&mockSQSConsumerClient{}, testQueueURL, nil)

		// then
		require.NotNil(t, consumer)
		assert.Equal(t, testQueueURL, consumer.queueURL)
		require.NotNil(t, consumer.handle)
		assert.NoError(t, consumer.handle(context.Background(), ReviewMessage{}))
	})
}

func TestConsumer_Start(t *testing.T) {
	t.Run("stops when the context is cancelled", func(t *testing.T) {
		// given
		ctx, cancel := context.WithCancel(context.Background())
		deleted := 0
		mockClient := &mockSQSConsumerClient{
			receiveMessageFunc: func(_ context.Context, _ *sqs.ReceiveMessageInput, _ ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
				defer cancel()
				return &sqs.ReceiveMessageOutput{
					Messages: []types.Message{
						{Body: aws.String(reviewCreatedBody), ReceiptHandle: aws.String("test-receipt-handle")},
					},
				}, nil
			},
			deleteMessageFunc: func(_ context.Context, _ *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
				deleted++
				return &sqs.DeleteMessageOutput{}, nil
			},
		}
		consumer := NewConsumer(mockClient, testQueueURL, nil)

		// when
		err := consumer.Start(ctx)

		// then
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, deleted)
	})
}
