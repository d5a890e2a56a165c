package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/user/movieshelf/internal/model"
)

// MemoryUserRepository 内存版用户仓库（STORAGE=memory 与测试使用）
// 与 postgres 表一样强制邮箱唯一
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]model.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]model.User)}
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (r *MemoryUserRepository) Insert(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; ok {
		return ErrDuplicate
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return ErrDuplicate
		}
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	r.users[user.ID] = *cloneUser(*user)
	return nil
}

func (r *MemoryUserRepository) Update(_ context.Context, user *model.User) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[user.ID]
	if !ok {
		return false, nil
	}
	for id, u := range r.users {
		if id != user.ID && u.Email == user.Email {
			return false, ErrDuplicate
		}
	}
	user.UpdatedAt = time.Now()
	stored.Name = user.Name
	stored.Email = user.Email
	stored.PasswordHash = user.PasswordHash
	stored.UpdatedAt = user.UpdatedAt
	r.users[user.ID] = stored
	return true, nil
}

func cloneUser(u model.User) *model.User {
	u.Salt = append([]byte(nil), u.Salt...)
	return &u
}

// MemoryFavoriteRepository 内存版收藏仓库，强制 (user_id, title) 唯一
type MemoryFavoriteRepository struct {
	mu        sync.RWMutex
	favorites map[string]model.Favorite
}

func NewMemoryFavoriteRepository() *MemoryFavoriteRepository {
	return &MemoryFavoriteRepository{favorites: make(map[string]model.Favorite)}
}

func (r *MemoryFavoriteRepository) QueryByUser(_ context.Context, userID, titleFilter string, offset, limit int) ([]model.Favorite, error) {
	r.mu.RLock()
	matched := make([]model.Favorite, 0)
	for _, f := range r.favorites {
		if f.UserID != userID {
			continue
		}
		if titleFilter != "" && !strings.Contains(f.Title, titleFilter) {
			continue
		}
		matched = append(matched, f)
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	if offset >= len(matched) {
		return []model.Favorite{}, nil
	}
	end := len(matched)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return matched[offset:end], nil
}

func (r *MemoryFavoriteRepository) FindByIDForUser(_ context.Context, userID, favoriteID string) (*model.Favorite, error) {
	return r.find(func(f model.Favorite) bool { return f.UserID == userID && f.ID == favoriteID })
}

func (r *MemoryFavoriteRepository) FindByUserAndCatalogID(_ context.Context, userID, catalogID string) (*model.Favorite, error) {
	return r.find(func(f model.Favorite) bool { return f.UserID == userID && f.CatalogID == catalogID })
}

func (r *MemoryFavoriteRepository) FindByUserAndTitle(_ context.Context, userID, title string) (*model.Favorite, error) {
	return r.find(func(f model.Favorite) bool { return f.UserID == userID && f.Title == title })
}

func (r *MemoryFavoriteRepository) find(match func(model.Favorite) bool) (*model.Favorite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, f := range r.favorites {
		if match(f) {
			found := f
			return &found, nil
		}
	}
	return nil, nil
}

func (r *MemoryFavoriteRepository) Insert(_ context.Context, favorite *model.Favorite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.favorites[favorite.ID]; ok {
		return ErrDuplicate
	}
	for _, f := range r.favorites {
		if f.UserID == favorite.UserID && f.Title == favorite.Title {
			return ErrDuplicate
		}
	}
	if favorite.CreatedAt.IsZero() {
		favorite.CreatedAt = time.Now()
	}
	r.favorites[favorite.ID] = *favorite
	return nil
}

func (r *MemoryFavoriteRepository) Delete(_ context.Context, favorite *model.Favorite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.favorites[favorite.ID]; ok && f.UserID == favorite.UserID {
		delete(r.favorites, favorite.ID)
	}
	return nil
}

// Count 收藏总数
func (r *MemoryFavoriteRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.favorites)
}
