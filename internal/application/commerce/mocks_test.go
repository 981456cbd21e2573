package commerce

import (
	"context"
	"sync"
	"time"

	"github.com/agrifarma/backend/internal/domain/commerce"
	"github.com/agrifarma/backend/internal/domain/shared"
	"github.com/agrifarma/backend/internal/domain/taxonomy"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of commerce.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *commerce.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *commerce.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*commerce.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commerce.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]commerce.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]commerce.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter commerce.ProductFilter) ([]commerce.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]commerce.Product), args.Error(1)
}

func (m *MockProductRepository) Search(ctx context.Context, query string) ([]commerce.Product, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]commerce.Product), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context, filter commerce.ProductFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockCartRepository is a mock implementation of commerce.CartRepository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) AddQuantity(ctx context.Context, item *commerce.CartItem) (*commerce.CartItem, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commerce.CartItem), args.Error(1)
}

func (m *MockCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*commerce.CartItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commerce.CartItem), args.Error(1)
}

func (m *MockCartRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]commerce.CartItem, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]commerce.CartItem), args.Error(1)
}

func (m *MockCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockOrderRepository is a mock implementation of commerce.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]commerce.Order, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]commerce.Order), args.Error(1)
}

func (m *MockOrderRepository) Count(ctx context.Context, userID *uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// fakeCheckoutStore runs the build func against a fixed cart
type fakeCheckoutStore struct {
	cart  commerce.Cart
	err   error
	calls int
}

func (f *fakeCheckoutStore) Checkout(_ context.Context, userID uuid.UUID, build func(commerce.Cart) ([]*commerce.Order, error)) ([]*commerce.Order, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.cart.IsEmpty() {
		return nil, commerce.ErrEmptyCart
	}
	return build(f.cart)
}

// fakeLock hands out the lock unless busy is set
type fakeLock struct {
	mu       sync.Mutex
	busy     bool
	acquired int
	released int
}

func (l *fakeLock) Acquire(_ context.Context, _ uuid.UUID, _ time.Duration) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.busy {
		return nil, commerce.ErrCheckoutInProgress
	}
	l.acquired++
	return func() {
		l.mu.Lock()
		l.released++
		l.mu.Unlock()
	}, nil
}

// MockCategoryResolver is a mock implementation of CategoryResolver
type MockCategoryResolver struct {
	mock.Mock
}

func (m *MockCategoryResolver) ResolveCategory(ctx context.Context, id uuid.UUID, expected taxonomy.CategoryType) (*taxonomy.Category, error) {
	args := m.Called(ctx, id, expected)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*taxonomy.Category), args.Error(1)
}

// MockImageStorage is a mock implementation of ImageStorage
type MockImageStorage struct {
	mock.Mock
}

func (m *MockImageStorage) GenerateUploadURL(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, key, contentType, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockImageStorage) GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, key, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// recorderStub collects checkout outcomes
type recorderStub struct {
	mu       sync.Mutex
	outcomes []string
}

func (r *recorderStub) RecordCheckout(_ context.Context, _ time.Duration, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

func (r *recorderStub) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.outcomes) == 0 {
		return ""
	}
	return r.outcomes[len(r.outcomes)-1]
}
