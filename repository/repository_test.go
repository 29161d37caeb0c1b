package repository_test

import (
	"context"
	"testing"
	"time"

	"quill/models"
	"quill/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Post{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedPost(t *testing.T, db *gorm.DB, userID uint, title string, createdAt time.Time) *models.Post {
	t.Helper()
	post := &models.Post{Title: title, Content: "content", UserID: userID, CreatedAt: createdAt}
	require.NoError(t, db.Create(post).Error)
	return post
}

func TestPostRepository_CreateAssignsIDAndTimestamp(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewPostRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "alice")
	post := &models.Post{Title: "Hello", Content: "World", UserID: user.ID}
	require.NoError(t, repo.Create(ctx, post))

	assert.NotZero(t, post.ID)
	assert.False(t, post.CreatedAt.IsZero())
	assert.Equal(t, "alice", post.User.Username, "Create must load the author association")
}

func TestPostRepository_ListOrdering(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewPostRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "alice")
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	seedPost(t, db, user.ID, "first", base)
	seedPost(t, db, user.ID, "second", base.Add(time.Minute))
	// Same timestamp as "second": insertion order breaks the tie
	seedPost(t, db, user.ID, "third", base.Add(time.Minute))

	posts, err := repo.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "second", posts[0].Title)
	assert.Equal(t, "third", posts[1].Title)
	assert.Equal(t, "first", posts[2].Title)
}

func TestPostRepository_ListEmpty(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewPostRepository(db)

	posts, err := repo.List(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestPostRepository_UpdateFields(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewPostRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "alice")
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	post := seedPost(t, db, user.ID, "before", createdAt)

	t.Run("updates only supplied columns", func(t *testing.T) {
		err := repo.UpdateFields(ctx, post.ID, map[string]any{"content": "after"})
		require.NoError(t, err)

		var stored models.Post
		require.NoError(t, db.First(&stored, post.ID).Error)
		assert.Equal(t, "before", stored.Title)
		assert.Equal(t, "after", stored.Content)
	})

	t.Run("author and created_at stay untouched", func(t *testing.T) {
		require.NoError(t, repo.UpdateFields(ctx, post.ID, map[string]any{"title": "renamed"}))

		var stored models.Post
		require.NoError(t, db.First(&stored, post.ID).Error)
		assert.True(t, stored.CreatedAt.Equal(createdAt))
		assert.Equal(t, user.ID, stored.UserID)
	})

	t.Run("empty update is a no-op", func(t *testing.T) {
		require.NoError(t, repo.UpdateFields(ctx, post.ID, map[string]any{}))
	})

	t.Run("unknown id", func(t *testing.T) {
		err := repo.UpdateFields(ctx, 9999, map[string]any{"title": "x"})
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestPostRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewPostRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "alice")
	post := seedPost(t, db, user.ID, "doomed", time.Now().UTC())

	require.NoError(t, repo.Delete(ctx, post.ID))

	_, err := repo.GetByID(ctx, post.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	t.Run("deleting again is not idempotent", func(t *testing.T) {
		assert.ErrorIs(t, repo.Delete(ctx, post.ID), gorm.ErrRecordNotFound)
	})
}

func TestUserRepository_DeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	userRepo := repository.NewUserRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	now := time.Now().UTC()
	seedPost(t, db, alice.ID, "alice-1", now)
	seedPost(t, db, alice.ID, "alice-2", now)
	kept := seedPost(t, db, bob.ID, "bob-1", now)

	require.NoError(t, userRepo.Delete(ctx, alice.ID))

	var orphans int64
	require.NoError(t, db.Model(&models.Post{}).Where("user_id = ?", alice.ID).Count(&orphans).Error)
	assert.Zero(t, orphans, "cascade must remove every post the user authored")

	var survivors []models.Post
	require.NoError(t, db.Find(&survivors).Error)
	require.Len(t, survivors, 1, "cascade must not touch other users' posts")
	assert.Equal(t, kept.ID, survivors[0].ID)

	_, err := userRepo.GetByID(ctx, alice.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_DeleteUnknownUser(t *testing.T) {
	db := setupTestDB(t)
	userRepo := repository.NewUserRepository(db)

	err := userRepo.Delete(context.Background(), 9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
