package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/agrifarma/backend/internal/domain/content"
	"github.com/agrifarma/backend/internal/domain/identity"
	"github.com/agrifarma/backend/internal/domain/shared"
	"github.com/agrifarma/backend/internal/domain/taxonomy"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormProductRepository_UpdateRejectsStaleCopy(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	admin := newTestUser(t, db, "admin@example.com", identity.RoleAdmin)
	seller := newTestUser(t, db, "seller@example.com", identity.RoleMember)
	grains := newTestCategory(t, db, "Grains", taxonomy.CategoryTypeProduct)
	created := newTestProduct(t, db, seller, grains, "Millet", "8.00")

	approving, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	stale, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)

	require.NoError(t, approving.Approve(admin.Actor()))
	require.NoError(t, repo.Update(ctx, approving))

	require.NoError(t, stale.AttachImage(seller.Actor(), "products/x.jpg"))
	assert.ErrorIs(t, repo.Update(ctx, stale), shared.ErrConcurrencyConflict)

	stored, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsApproved)
	assert.Empty(t, stored.ImageKey)
	assert.Equal(t, approving.Version, stored.Version)

	t.Run("reloaded copy saves on top of the approval", func(t *testing.T) {
		require.NoError(t, stored.AttachImage(seller.Actor(), "products/x.jpg"))
		require.NoError(t, repo.Update(ctx, stored))

		final, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, final.IsApproved)
		assert.Equal(t, "products/x.jpg", final.ImageKey)
	})

	t.Run("missing row", func(t *testing.T) {
		ghost := *stored
		ghost.ID = uuid.New()
		assert.ErrorIs(t, repo.Update(ctx, &ghost), shared.ErrNotFound)
	})
}

func TestGormUserRepository_UpdateRejectsStaleCopy(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	user := newTestUser(t, db, "agronomist@example.com", identity.RoleConsultant)
	require.NoError(t, user.ApplyForConsultancy(identity.ConsultantApplication{
		Category: "Soil", Expertise: "Salinity", Contact: "0300",
	}))
	require.NoError(t, repo.Update(ctx, user))

	approving, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	loggingIn, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)

	require.NoError(t, approving.ApproveConsultancy())
	require.NoError(t, repo.Update(ctx, approving))

	loggingIn.RecordLogin()
	assert.ErrorIs(t, repo.Update(ctx, loggingIn), shared.ErrConcurrencyConflict)

	stored, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsConsultantApproved)
	assert.Nil(t, stored.LastLoginAt)
}

func TestGormPostRepository_UpdateKeepsLikes(t *testing.T) {
	db := setupTestDB(t)
	f := newPostFixture(t, db)
	ctx := context.Background()

	post := f.create(t, f.member, "Drip irrigation", "Cheap kits that work", content.PostTypeForum, time.Now().UTC())
	stale, err := f.repo.FindByID(ctx, post.ID)
	require.NoError(t, err)

	require.NoError(t, post.Approve(f.admin.Actor()))
	require.NoError(t, f.repo.Update(ctx, post))
	likes, err := f.repo.IncrementLikes(ctx, post.ID)
	require.NoError(t, err)
	require.Equal(t, 1, likes)

	require.NoError(t, stale.Approve(f.admin.Actor()))
	assert.ErrorIs(t, f.repo.Update(ctx, stale), shared.ErrConcurrencyConflict)

	stored, err := f.repo.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsApproved)
	assert.Equal(t, 1, stored.Likes)
}
