package service_test

import (
	"context"

	"github.com/iyhunko/product-reviews/internal/model"
	"github.com/stretchr/testify/mock"
)

// MockProductFinder is a mock implementation of service.ProductFinder
type MockProductFinder struct {
	mock.Mock
}

func (m *MockProductFinder) FindByID(ctx context.Context, id int64) (*model.Product, bool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*model.Product), args.Bool(1), args.Error(2)
}

// MockReviewRepository implements both service.ReviewReader and service.ReviewWriter
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *model.Review) (*model.Review, error) {
	args := m.Called(ctx, review)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Review), args.Error(1)
}

func (m *MockReviewRepository) GetAll(ctx context.Context) ([]*model.Review, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Review), args.Error(1)
}

func (m *MockReviewRepository) GetByProductID(ctx context.Context, productID int64) ([]*model.Review, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Review), args.Error(1)
}

func (m *MockReviewRepository) GetTopRated(ctx context.Context, limit int) ([]*model.ProductRating, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ProductRating), args.Error(1)
}

// MockEventStore is a mock implementation of service.PendingEventStore
type MockEventStore struct {
	mock.Mock
}

func (m *MockEventStore) ListPending(ctx context.Context, limit int) ([]*model.Event, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Event), args.Error(1)
}

func (m *MockEventStore) UpdateStatus(ctx context.Context, event *model.Event, status model.EventStatus) error {
	args := m.Called(ctx, event, status)
	return args.Error(0)
}

// MockPublisher is a mock implementation of service.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishReviewEvent(ctx context.Context, event *model.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
