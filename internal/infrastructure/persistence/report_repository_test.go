package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/agrifarma/backend/internal/domain/identity"
	"github.com/agrifarma/backend/internal/domain/report"
	"github.com/agrifarma/backend/internal/domain/taxonomy"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormReportRepository_EmptyStore(t *testing.T) {
	repo := NewGormReportRepository(setupTestDB(t))
	ctx := context.Background()

	totals, err := repo.ProductTotals(ctx)
	require.NoError(t, err)
	assert.Zero(t, totals.Total)
	assert.True(t, totals.AveragePrice.IsZero())

	counts, err := repo.CategoryListingCounts(ctx)
	require.NoError(t, err)
	name, n := report.TopCategory(counts)
	assert.Equal(t, report.NoCategory, name)
	assert.Zero(t, n)
}

func TestGormReportRepository_Aggregates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormReportRepository(db)
	ctx := context.Background()

	admin := newTestUser(t, db, "admin@example.com", identity.RoleAdmin)
	member := newTestUser(t, db, "member@example.com", identity.RoleMember)
	grains := newTestCategory(t, db, "Grains", taxonomy.CategoryTypeProduct)
	fruits := newTestCategory(t, db, "Fruits", taxonomy.CategoryTypeProduct)

	newTestProduct(t, db, admin, grains, "Rice", "10.00")
	newTestProduct(t, db, member, fruits, "Mango", "20.00")
	newTestProduct(t, db, admin, fruits, "Guava", "5.01")
	newTestProduct(t, db, member, grains, "Wheat", "5.00")

	from, to := report.DayWindow(time.Now(), time.UTC)
	users, err := repo.UserTotals(ctx, from, to)
	require.NoError(t, err)
	assert.Equal(t, int64(2), users.Total)
	assert.Equal(t, int64(2), users.JoinedInWindow)

	users, err = repo.UserTotals(ctx, from.AddDate(0, 0, -1), from)
	require.NoError(t, err)
	assert.Zero(t, users.JoinedInWindow)

	products, err := repo.ProductTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), products.Total)
	assert.Equal(t, int64(2), products.Approved)
	assert.Equal(t, "10.0025", products.AveragePrice.Round(4).String())

	counts, err := repo.CategoryListingCounts(ctx)
	require.NoError(t, err)
	require.Len(t, counts, 2)

	// Two listings each: the lexicographically smaller name wins.
	name, n := report.TopCategory(counts)
	assert.Equal(t, "Fruits", name)
	assert.Equal(t, int64(2), n)

	orders, err := repo.OrderCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, orders)

	assert.True(t, decimal.RequireFromString("10.00").Equal(products.AveragePrice.Round(2)))
}

func TestGormReportRepository_CategoryListingCountsIgnoresListingDate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormReportRepository(db)
	ctx := context.Background()

	seller := newTestUser(t, db, "seller@example.com", identity.RoleMember)
	seeds := newTestCategory(t, db, "Seeds", taxonomy.CategoryTypeProduct)
	tools := newTestCategory(t, db, "Tools", taxonomy.CategoryTypeProduct)
	old := newTestProduct(t, db, seller, seeds, "Maize seed", "3.00")
	newTestProduct(t, db, seller, seeds, "Cotton seed", "4.00")
	newTestProduct(t, db, seller, tools, "Hoe", "9.00")
	require.NoError(t, db.Table("products").Where("id = ?", old.ID).
		UpdateColumn("created_at", time.Now().AddDate(0, -3, 0)).Error)

	counts, err := repo.CategoryListingCounts(ctx)
	require.NoError(t, err)

	name, n := report.TopCategory(counts)
	assert.Equal(t, "Seeds", name)
	assert.Equal(t, int64(2), n)
}
