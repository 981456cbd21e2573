//go:build integration

package persistence

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/agrifarma/backend/internal/domain/commerce"
	"github.com/agrifarma/backend/internal/domain/identity"
	"github.com/agrifarma/backend/internal/domain/taxonomy"
	"github.com/agrifarma/backend/internal/infrastructure/migration"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newPostgresDB starts a throwaway PostgreSQL container and applies the
// embedded migrations to it.
func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("agrifarma_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "failed to start PostgreSQL container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	m, err := migration.New(sqlDB, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())

	version, dirty, err := m.Version()
	require.NoError(t, err)
	require.False(t, dirty)
	require.NotZero(t, version)

	return db
}

func TestPostgres_ConcurrentAddToCartMergesRows(t *testing.T) {
	db := newPostgresDB(t)
	ctx := context.Background()

	seller := newTestUser(t, db, "seller@example.com", identity.RoleAdmin)
	buyer := newTestUser(t, db, "buyer@example.com", identity.RoleMember)
	category := newTestCategory(t, db, "Grains", taxonomy.CategoryTypeProduct)
	product := newTestProduct(t, db, seller, category, "Wheat", "4.50")
	cart := NewGormCartRepository(db)

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			item, err := commerce.NewCartItem(buyer.Actor(), product.ID, 1)
			if err != nil {
				errs <- err
				return
			}
			_, err = cart.AddQuantity(ctx, item)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	items, err := cart.FindByUser(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, workers, items[0].Quantity)
}

func TestPostgres_ConcurrentCheckoutConsumesCartOnce(t *testing.T) {
	db := newPostgresDB(t)
	ctx := context.Background()

	seller := newTestUser(t, db, "seller@example.com", identity.RoleAdmin)
	buyer := newTestUser(t, db, "buyer@example.com", identity.RoleMember)
	category := newTestCategory(t, db, "Fruits", taxonomy.CategoryTypeProduct)
	mango := newTestProduct(t, db, seller, category, "Mango", "3.25")
	rice := newTestProduct(t, db, seller, category, "Rice", "120.50")

	cart := NewGormCartRepository(db)
	for _, line := range []struct {
		product *commerce.Product
		qty     int
	}{{mango, 4}, {rice, 2}} {
		item, err := commerce.NewCartItem(buyer.Actor(), line.product.ID, line.qty)
		require.NoError(t, err)
		_, err = cart.AddQuantity(ctx, item)
		require.NoError(t, err)
	}

	store := NewGormCheckoutStore(db)
	const attempts = 5
	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
		empty     atomic.Int32
	)
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Checkout(ctx, buyer.ID, checkoutTo("Farm road 1, Multan"))
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, commerce.ErrEmptyCart):
				empty.Add(1)
			default:
				t.Errorf("unexpected checkout error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded.Load())
	assert.Equal(t, int32(attempts-1), empty.Load())

	orders, err := NewGormOrderRepository(db).FindByUser(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.TotalPrice)
	}
	assert.True(t, total.Equal(decimal.RequireFromString("254.00")), "total %s", total)

	items, err := cart.FindByUser(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestPostgres_SchemaRejectsNegativeStock(t *testing.T) {
	db := newPostgresDB(t)
	ctx := context.Background()

	seller := newTestUser(t, db, "seller@example.com", identity.RoleAdmin)
	category := newTestCategory(t, db, "Vegetables", taxonomy.CategoryTypeProduct)
	product := newTestProduct(t, db, seller, category, "Onion", "1.00")

	err := db.WithContext(ctx).Exec("UPDATE products SET quantity = -1 WHERE id = ?", product.ID).Error
	assert.Error(t, err)
}
