package repository

import (
	"context"
	"errors"
	"time"

	"github.com/user/movieshelf/internal/model"
	"gorm.io/gorm"
)

type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// QueryByUser 获取用户收藏列表，titleFilter 为区分大小写的子串匹配
func (r *FavoriteRepository) QueryByUser(ctx context.Context, userID, titleFilter string, offset, limit int) ([]model.Favorite, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if titleFilter != "" {
		// strpos 区分大小写，且无需转义 LIKE 通配符
		q = q.Where("strpos(title, ?) > 0", titleFilter)
	}

	favorites := make([]model.Favorite, 0)
	err := q.Order("created_at DESC").
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&favorites).Error
	return favorites, err
}

// FindByIDForUser 查找属于该用户的收藏
func (r *FavoriteRepository) FindByIDForUser(ctx context.Context, userID, favoriteID string) (*model.Favorite, error) {
	return r.first(ctx, "user_id = ? AND id = ?", userID, favoriteID)
}

// FindByUserAndCatalogID 按目录 ID 查找
func (r *FavoriteRepository) FindByUserAndCatalogID(ctx context.Context, userID, catalogID string) (*model.Favorite, error) {
	return r.first(ctx, "user_id = ? AND catalog_id = ?", userID, catalogID)
}

// FindByUserAndTitle 按标题查找
func (r *FavoriteRepository) FindByUserAndTitle(ctx context.Context, userID, title string) (*model.Favorite, error) {
	return r.first(ctx, "user_id = ? AND title = ?", userID, title)
}

func (r *FavoriteRepository) first(ctx context.Context, query string, args ...interface{}) (*model.Favorite, error) {
	var favorite model.Favorite
	err := r.db.WithContext(ctx).Where(query, args...).First(&favorite).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &favorite, nil
}

// Insert 添加收藏，(user_id, title) 重复时返回 ErrDuplicate
func (r *FavoriteRepository) Insert(ctx context.Context, favorite *model.Favorite) error {
	if favorite.CreatedAt.IsZero() {
		favorite.CreatedAt = time.Now()
	}
	return translateError(r.db.WithContext(ctx).Create(favorite).Error)
}

// Delete 取消收藏
func (r *FavoriteRepository) Delete(ctx context.Context, favorite *model.Favorite) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", favorite.UserID, favorite.ID).
		Delete(&model.Favorite{}).Error
}
