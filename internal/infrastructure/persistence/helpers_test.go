package persistence

import (
	"context"
	"testing"

	"github.com/agrifarma/backend/internal/domain/commerce"
	"github.com/agrifarma/backend/internal/domain/identity"
	"github.com/agrifarma/backend/internal/domain/shared"
	"github.com/agrifarma/backend/internal/domain/taxonomy"
	"github.com/agrifarma/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens an in-memory SQLite database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	return db
}

func newTestUser(t *testing.T, db *gorm.DB, email string, role identity.Role) *identity.User {
	t.Helper()
	user := &identity.User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              "Test " + email,
		Email:             email,
		PasswordHash:      "$2a$04$placeholderplaceholderplaceholderplaceholderplacehold",
		Role:              role,
	}
	user.JoinDate = user.CreatedAt
	require.NoError(t, NewGormUserRepository(db).Create(context.Background(), user))
	return user
}

func newTestCategory(t *testing.T, db *gorm.DB, name string, categoryType taxonomy.CategoryType) *taxonomy.Category {
	t.Helper()
	category, err := taxonomy.NewCategory(name, "", categoryType)
	require.NoError(t, err)
	require.NoError(t, NewGormCategoryRepository(db).SaveAll(context.Background(), []*taxonomy.Category{category}))
	return category
}

func newTestProduct(t *testing.T, db *gorm.DB, seller *identity.User, category *taxonomy.Category, name, price string) *commerce.Product {
	t.Helper()
	product, err := commerce.NewProduct(seller.Actor(), commerce.ProductDetails{
		Name:        name,
		Description: "fresh " + name,
		Price:       decimal.RequireFromString(price),
		Quantity:    5,
		Unit:        "kg",
	}, category)
	require.NoError(t, err)
	require.NoError(t, NewGormProductRepository(db).Create(context.Background(), product))
	return product
}
