package taxonomy

import (
	"context"
	"errors"
	"testing"

	"github.com/agrifarma/backend/internal/domain/shared"
	"github.com/agrifarma/backend/internal/domain/taxonomy"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockCategoryRepository is a mock implementation of taxonomy.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*taxonomy.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*taxonomy.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context, filter taxonomy.CategoryFilter) ([]taxonomy.Category, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]taxonomy.Category), args.Error(1)
}

func (m *MockCategoryRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) SaveAll(ctx context.Context, categories []*taxonomy.Category) error {
	args := m.Called(ctx, categories)
	return args.Error(0)
}

func mustCategory(t *testing.T, name string, categoryType taxonomy.CategoryType) *taxonomy.Category {
	t.Helper()
	c, err := taxonomy.NewCategory(name, "", categoryType)
	require.NoError(t, err)
	return c
}

func TestCategoryService_SeedDefaultCategories(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds empty table", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		repo.On("Count", mock.Anything).Return(int64(0), nil)
		repo.On("SaveAll", mock.Anything, mock.MatchedBy(func(cs []*taxonomy.Category) bool {
			return len(cs) > 0 && cs[0].Name == "Crops"
		})).Return(nil)
		svc := NewCategoryService(repo, zap.NewNop())

		n, err := svc.SeedDefaultCategories(ctx)

		require.NoError(t, err)
		assert.Equal(t, 16, n)
		repo.AssertExpectations(t)
	})

	t.Run("no-op when categories exist", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		repo.On("Count", mock.Anything).Return(int64(3), nil)
		svc := NewCategoryService(repo, zap.NewNop())

		n, err := svc.SeedDefaultCategories(ctx)

		require.NoError(t, err)
		assert.Zero(t, n)
		repo.AssertNotCalled(t, "SaveAll", mock.Anything, mock.Anything)
	})

	t.Run("count failure", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		repo.On("Count", mock.Anything).Return(int64(0), errors.New("db down"))
		svc := NewCategoryService(repo, zap.NewNop())

		_, err := svc.SeedDefaultCategories(ctx)

		assert.Error(t, err)
	})
}

func TestCategoryService_ListCategories(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(repo, zap.NewNop())
	parentID := uuid.New()

	crops := mustCategory(t, "Crops", taxonomy.CategoryTypeForum)
	repo.On("FindAll", mock.Anything, taxonomy.CategoryFilter{Type: taxonomy.CategoryTypeForum, ParentID: &parentID}).
		Return([]taxonomy.Category{*crops}, nil)
	repo.On("FindAll", mock.Anything, taxonomy.CategoryFilter{Type: taxonomy.CategoryTypeBlog, AnyParent: true}).
		Return([]taxonomy.Category{}, nil)

	views, err := svc.ListCategories(ctx, ListCategoriesInput{Type: "Forum", ParentID: &parentID})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Crops", views[0].Name)

	views, err = svc.ListCategories(ctx, ListCategoriesInput{Type: "blog", All: true})
	require.NoError(t, err)
	assert.Empty(t, views)

	_, err = svc.ListCategories(ctx, ListCategoriesInput{Type: "recipes"})
	assert.True(t, shared.IsValidation(err))
}

func TestCategoryService_ResolveCategory(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(repo, zap.NewNop())

	grains := mustCategory(t, "Grains", taxonomy.CategoryTypeProduct)
	missing := uuid.New()
	repo.On("FindByID", mock.Anything, grains.ID).Return(grains, nil)
	repo.On("FindByID", mock.Anything, missing).Return(nil, shared.NewNotFoundError("Category"))

	got, err := svc.ResolveCategory(ctx, grains.ID, taxonomy.CategoryTypeProduct)
	require.NoError(t, err)
	assert.Equal(t, grains.ID, got.ID)

	_, err = svc.ResolveCategory(ctx, grains.ID, taxonomy.CategoryTypeForum)
	assert.True(t, shared.IsValidation(err))

	_, err = svc.ResolveCategory(ctx, missing, taxonomy.CategoryTypeProduct)
	assert.True(t, shared.IsNotFound(err))
}
