package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/movieshelf/internal/model"
)

func TestMemoryUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	user := &model.User{ID: "u1", Name: "Ana", Email: "ana@x.com", PasswordHash: "h", Salt: []byte("0123456789abcdef")}
	require.NoError(t, repo.Insert(ctx, user))

	found, err := repo.FindByEmail(ctx, "ana@x.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "u1", found.ID)

	// 邮箱区分大小写
	found, err = repo.FindByEmail(ctx, "ANA@x.com")
	require.NoError(t, err)
	assert.Nil(t, found)

	err = repo.Insert(ctx, &model.User{ID: "u2", Email: "ana@x.com"})
	assert.ErrorIs(t, err, ErrDuplicate)

	found, _ = repo.FindByID(ctx, "u1")
	found.PasswordHash = "h2"
	ok, err := repo.Update(ctx, found)
	require.NoError(t, err)
	assert.True(t, ok)

	reloaded, _ := repo.FindByID(ctx, "u1")
	assert.Equal(t, "h2", reloaded.PasswordHash)

	ok, err = repo.Update(ctx, &model.User{ID: "missing"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryUserRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()
	require.NoError(t, repo.Insert(ctx, &model.User{ID: "u1", Email: "a@x.com", PasswordHash: "h"}))

	found, _ := repo.FindByID(ctx, "u1")
	found.PasswordHash = "mutated"

	again, _ := repo.FindByID(ctx, "u1")
	assert.Equal(t, "h", again.PasswordHash)
}

func TestMemoryFavoriteRepository_Uniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryFavoriteRepository()

	require.NoError(t, repo.Insert(ctx, &model.Favorite{ID: "f1", UserID: "u1", CatalogID: "tt1", Title: "Inception"}))
	err := repo.Insert(ctx, &model.Favorite{ID: "f2", UserID: "u1", CatalogID: "tt2", Title: "Inception"})
	assert.ErrorIs(t, err, ErrDuplicate)

	// 其他用户可以收藏同名电影
	require.NoError(t, repo.Insert(ctx, &model.Favorite{ID: "f3", UserID: "u2", CatalogID: "tt1", Title: "Inception"}))
	assert.Equal(t, 2, repo.Count())
}

func TestMemoryFavoriteRepository_QueryByUser(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryFavoriteRepository()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	titles := []string{"Alien", "Aliens", "Heat", "alien nation", "Up"}
	for i, title := range titles {
		require.NoError(t, repo.Insert(ctx, &model.Favorite{
			ID:        fmt.Sprintf("f%d", i),
			UserID:    "u1",
			Title:     title,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, repo.Insert(ctx, &model.Favorite{ID: "other", UserID: "u2", Title: "Alien"}))

	all, err := repo.QueryByUser(ctx, "u1", "", 0, 10)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "Up", all[0].Title)

	filtered, err := repo.QueryByUser(ctx, "u1", "Alien", 0, 10)
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	assert.Equal(t, "Aliens", filtered[0].Title)
	assert.Equal(t, "Alien", filtered[1].Title)

	page, err := repo.QueryByUser(ctx, "u1", "", 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "Heat", page[0].Title)
	assert.Equal(t, "Aliens", page[1].Title)

	empty, err := repo.QueryByUser(ctx, "u1", "", 10, 2)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemoryFavoriteRepository_FindAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryFavoriteRepository()
	require.NoError(t, repo.Insert(ctx, &model.Favorite{ID: "f1", UserID: "u1", CatalogID: "tt1", Title: "Inception"}))

	found, err := repo.FindByIDForUser(ctx, "u2", "f1")
	require.NoError(t, err)
	assert.Nil(t, found)

	found, _ = repo.FindByUserAndCatalogID(ctx, "u1", "tt1")
	require.NotNil(t, found)
	found, _ = repo.FindByUserAndTitle(ctx, "u1", "Inception")
	require.NotNil(t, found)

	// 其他用户无法删除
	require.NoError(t, repo.Delete(ctx, &model.Favorite{ID: "f1", UserID: "u2"}))
	assert.Equal(t, 1, repo.Count())

	require.NoError(t, repo.Delete(ctx, found))
	assert.Equal(t, 0, repo.Count())
}
