package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/samber/oops"
	"github.com/user/movieshelf/internal/model"
	"github.com/user/movieshelf/internal/repository"
)

const defaultPageSize = 10

// FavoritesStore 收藏持久化，需在存储层保证 (user_id, title) 唯一
type FavoritesStore interface {
	QueryByUser(ctx context.Context, userID, titleFilter string, offset, limit int) ([]model.Favorite, error)
	FindByIDForUser(ctx context.Context, userID, favoriteID string) (*model.Favorite, error)
	FindByUserAndCatalogID(ctx context.Context, userID, catalogID string) (*model.Favorite, error)
	FindByUserAndTitle(ctx context.Context, userID, title string) (*model.Favorite, error)
	Insert(ctx context.Context, favorite *model.Favorite) error
	Delete(ctx context.Context, favorite *model.Favorite) error
}

// MovieLookup 按标题查询目录条目（CatalogCache 实现）
type MovieLookup interface {
	Lookup(ctx context.Context, title string) (model.CatalogEntry, bool)
}

// FavoritesService 收藏的增删查
type FavoritesService struct {
	store       FavoritesStore
	catalog     MovieLookup
	maxPageSize int
	logger      *slog.Logger
}

// NewFavoritesService 创建收藏服务，maxPageSize 为单页上限
func NewFavoritesService(store FavoritesStore, catalog MovieLookup, maxPageSize int, logger *slog.Logger) *FavoritesService {
	return &FavoritesService{
		store:       store,
		catalog:     catalog,
		maxPageSize: maxPageSize,
		logger:      logger.With("component", "favorites"),
	}
}

// List 分页获取收藏，titleFilter 为区分大小写的子串匹配
func (s *FavoritesService) List(ctx context.Context, userID, titleFilter string, page, pageSize int) ([]model.Favorite, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if s.maxPageSize > 0 && pageSize > s.maxPageSize {
		pageSize = s.maxPageSize
	}

	favorites, err := s.store.QueryByUser(ctx, userID, titleFilter, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, oops.In("favorites").Wrapf(err, "query favorites")
	}
	return favorites, nil
}

// GetByID 获取收藏，不属于该用户时视为不存在
func (s *FavoritesService) GetByID(ctx context.Context, userID, favoriteID string) (*model.Favorite, error) {
	if !validID(favoriteID) {
		return nil, ErrFavoriteNotFound
	}
	favorite, err := s.store.FindByIDForUser(ctx, userID, favoriteID)
	if err != nil {
		return nil, oops.In("favorites").Wrapf(err, "find favorite")
	}
	if favorite == nil {
		return nil, ErrFavoriteNotFound
	}
	return favorite, nil
}

// Add 按标题添加收藏
// 已收藏时返回已有记录和 ErrAlreadyInFavorites
func (s *FavoritesService) Add(ctx context.Context, userID, title string) (*model.Favorite, error) {
	entry, ok := s.catalog.Lookup(ctx, title)
	if !ok {
		return nil, ErrMovieNotFound
	}

	existing, err := s.findExisting(ctx, userID, entry)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, ErrAlreadyInFavorites
	}

	favorite := &model.Favorite{
		ID:        uuid.NewString(),
		UserID:    userID,
		CatalogID: entry.CatalogID,
		Title:     entry.Title,
		Year:      entry.Year,
		Director:  entry.Director,
		Poster:    entry.Poster,
	}
	if err := s.store.Insert(ctx, favorite); err != nil {
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, oops.In("favorites").Wrapf(err, "insert favorite")
		}
		// 并发添加时由唯一约束兜底，返回先写入的记录
		existing, findErr := s.findExisting(ctx, userID, entry)
		if findErr != nil {
			return nil, findErr
		}
		return existing, ErrAlreadyInFavorites
	}

	s.logger.InfoContext(ctx, "favorite added", "user_id", userID, "catalog_id", entry.CatalogID)
	return favorite, nil
}

// findExisting 按目录 ID 或标题查找已有收藏
func (s *FavoritesService) findExisting(ctx context.Context, userID string, entry model.CatalogEntry) (*model.Favorite, error) {
	if entry.CatalogID != "" {
		existing, err := s.store.FindByUserAndCatalogID(ctx, userID, entry.CatalogID)
		if err != nil {
			return nil, oops.In("favorites").Wrapf(err, "find favorite by catalog id")
		}
		if existing != nil {
			return existing, nil
		}
	}
	existing, err := s.store.FindByUserAndTitle(ctx, userID, entry.Title)
	if err != nil {
		return nil, oops.In("favorites").Wrapf(err, "find favorite by title")
	}
	return existing, nil
}

// Remove 删除收藏，不存在或不属于该用户时返回 false
func (s *FavoritesService) Remove(ctx context.Context, userID, favoriteID string) (bool, error) {
	if !validID(favoriteID) {
		return false, nil
	}
	favorite, err := s.store.FindByIDForUser(ctx, userID, favoriteID)
	if err != nil {
		return false, oops.In("favorites").Wrapf(err, "find favorite")
	}
	if favorite == nil {
		return false, nil
	}
	if err := s.store.Delete(ctx, favorite); err != nil {
		return false, oops.In("favorites").Wrapf(err, "delete favorite")
	}

	s.logger.InfoContext(ctx, "favorite removed", "user_id", userID, "favorite_id", favoriteID)
	return true, nil
}

// validID 收藏 ID 为 uuid，其他格式不可能存在
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
