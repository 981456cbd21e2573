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
	"gorm.io/gorm"
)

type postFixture struct {
	repo   *GormPostRepository
	admin  *identity.User
	member *identity.User
	forum  *taxonomy.Category
	blog   *taxonomy.Category
}

func newPostFixture(t *testing.T, db *gorm.DB) *postFixture {
	return &postFixture{
		repo:   NewGormPostRepository(db),
		admin:  newTestUser(t, db, "admin@example.com", identity.RoleAdmin),
		member: newTestUser(t, db, "member@example.com", identity.RoleMember),
		forum:  newTestCategory(t, db, "Crops", taxonomy.CategoryTypeForum),
		blog:   newTestCategory(t, db, "Techniques", taxonomy.CategoryTypeBlog),
	}
}

func (f *postFixture) create(t *testing.T, author *identity.User, title, body string, postType content.PostType, at time.Time) *content.Post {
	t.Helper()
	category := f.forum
	if postType == content.PostTypeBlog {
		category = f.blog
	}
	post, err := content.NewPost(author.Actor(), title, body, category, postType)
	require.NoError(t, err)
	post.CreatedAt = at
	require.NoError(t, f.repo.Create(context.Background(), post))
	return post
}

func TestGormPostRepository_ListsOnlyApproved(t *testing.T) {
	db := setupTestDB(t)
	f := newPostFixture(t, db)
	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)

	older := f.create(t, f.admin, "Wheat sowing", "Sow in November", content.PostTypeForum, base)
	newer := f.create(t, f.admin, "Rice water", "Keep 5cm standing water", content.PostTypeForum, base.Add(time.Minute))
	f.create(t, f.member, "Pending question", "Awaiting moderation", content.PostTypeForum, base.Add(2*time.Minute))
	f.create(t, f.admin, "Drip irrigation", "Saves water", content.PostTypeBlog, base)

	posts, err := f.repo.FindAll(ctx, content.ApprovedOnly(content.PostTypeForum))
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, newer.ID, posts[0].ID)
	assert.Equal(t, older.ID, posts[1].ID)

	approved := false
	pending, err := f.repo.FindAll(ctx, content.PostFilter{Approved: &approved})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Pending question", pending[0].Title)

	filter := content.ApprovedOnly(content.PostTypeForum)
	filter.Limit = 1
	limited, err := f.repo.FindAll(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestGormPostRepository_SortByLikes(t *testing.T) {
	db := setupTestDB(t)
	f := newPostFixture(t, db)
	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)

	popular := f.create(t, f.admin, "Popular", "Liked a lot", content.PostTypeBlog, base)
	recent := f.create(t, f.admin, "Recent", "New but unliked", content.PostTypeBlog, base.Add(time.Minute))

	likes, err := f.repo.IncrementLikes(ctx, popular.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, likes)
	likes, err = f.repo.IncrementLikes(ctx, popular.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, likes)

	filter := content.ApprovedOnly(content.PostTypeBlog)
	filter.SortBy = content.PostSortLikes
	posts, err := f.repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, popular.ID, posts[0].ID)
	assert.Equal(t, 2, posts[0].Likes)

	posts, err = f.repo.FindAll(ctx, content.ApprovedOnly(content.PostTypeBlog))
	require.NoError(t, err)
	assert.Equal(t, recent.ID, posts[0].ID)
}

func TestGormPostRepository_IncrementLikesRequiresApproved(t *testing.T) {
	db := setupTestDB(t)
	f := newPostFixture(t, db)

	pending := f.create(t, f.member, "Pending", "Not yet visible", content.PostTypeForum, time.Now().UTC())

	_, err := f.repo.IncrementLikes(context.Background(), pending.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = f.repo.IncrementLikes(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormPostRepository_Search(t *testing.T) {
	db := setupTestDB(t)
	f := newPostFixture(t, db)
	ctx := context.Background()
	now := time.Now().UTC()

	f.create(t, f.admin, "Wheat rust", "Spray fungicide early", content.PostTypeForum, now)
	f.create(t, f.admin, "Cotton", "Whitefly and wheat rotation", content.PostTypeBlog, now)
	f.create(t, f.member, "Wheat pending", "Not approved yet", content.PostTypeForum, now)

	t.Run("matches title or content of approved posts", func(t *testing.T) {
		posts, err := f.repo.Search(ctx, "heat")
		require.NoError(t, err)
		assert.Len(t, posts, 2)
	})

	t.Run("is case-sensitive", func(t *testing.T) {
		posts, err := f.repo.Search(ctx, "Wheat")
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, "Wheat rust", posts[0].Title)
	})

	t.Run("leading space must match literally", func(t *testing.T) {
		f.create(t, f.admin, "foobar", "Seed drill", content.PostTypeForum, now)

		posts, err := f.repo.Search(ctx, " foo")
		require.NoError(t, err)
		assert.Empty(t, posts)

		posts, err = f.repo.Search(ctx, "foo")
		require.NoError(t, err)
		assert.Len(t, posts, 1)
	})

	t.Run("empty query returns nothing", func(t *testing.T) {
		posts, err := f.repo.Search(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, posts)
	})
}

func TestGormCommentRepository(t *testing.T) {
	db := setupTestDB(t)
	f := newPostFixture(t, db)
	comments := NewGormCommentRepository(db)
	ctx := context.Background()

	post := f.create(t, f.admin, "Soil test", "Where to get one?", content.PostTypeForum, time.Now().UTC())

	first, err := content.NewComment(f.member.Actor(), post, "Agriculture department lab")
	require.NoError(t, err)
	first.CreatedAt = time.Now().UTC().Add(-time.Minute)
	require.NoError(t, comments.Create(ctx, first))

	second, err := content.NewComment(f.admin.Actor(), post, "Thanks")
	require.NoError(t, err)
	require.NoError(t, comments.Create(ctx, second))

	found, err := comments.FindByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, first.ID, found[0].ID)
	assert.Equal(t, second.ID, found[1].ID)
}
