package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/user/movieshelf/internal/apperr"
	"github.com/user/movieshelf/internal/metrics"
	"github.com/user/movieshelf/internal/model"
	"github.com/user/movieshelf/internal/utils"
	"golang.org/x/sync/singleflight"
)

// CatalogTTL 目录条目缓存有效期，固定不可配置
const CatalogTTL = 10 * time.Minute

// CatalogClient 外部电影目录
// 未找到时返回 nil, nil；网络等失败返回 error
type CatalogClient interface {
	FetchByTitle(ctx context.Context, title string) (*model.CatalogEntry, error)
}

// CatalogCache 目录查询的 cache-aside 封装
// 进程内唯一实例，在 main 中创建后注入
type CatalogCache struct {
	client CatalogClient
	cache  *utils.TTLCache[model.CatalogEntry]
	group  singleflight.Group
	logger *slog.Logger
}

// NewCatalogCache 创建目录缓存
func NewCatalogCache(client CatalogClient, cache *utils.TTLCache[model.CatalogEntry], logger *slog.Logger) *CatalogCache {
	return &CatalogCache{
		client: client,
		cache:  cache,
		logger: logger.With("component", "catalog_cache"),
	}
}

// Lookup 按标题查询，键为原始标题（区分大小写与空白）
// 命中直接返回；未命中时请求外部目录，只缓存有效结果，不缓存未找到
func (c *CatalogCache) Lookup(ctx context.Context, title string) (model.CatalogEntry, bool) {
	if entry, ok := c.cache.Get(title); ok {
		metrics.CatalogLookups.WithLabelValues("hit").Inc()
		return entry, true
	}
	metrics.CatalogLookups.WithLabelValues("miss").Inc()

	// 同一标题的并发请求合并为一次外部调用
	val, err, _ := c.group.Do(title, func() (interface{}, error) {
		if entry, ok := c.cache.Get(title); ok {
			return &entry, nil
		}
		entry, err := c.client.FetchByTitle(ctx, title)
		if err != nil {
			metrics.CatalogFetches.WithLabelValues("error").Inc()
			return nil, err
		}
		if !entry.Valid() {
			metrics.CatalogFetches.WithLabelValues("absent").Inc()
			return nil, nil
		}
		metrics.CatalogFetches.WithLabelValues("found").Inc()
		c.cache.Set(title, *entry)
		return entry, nil
	})
	if err != nil {
		// 外部查询失败与未找到同等对待
		apperr.LogError(c.logger, "catalog lookup failed", err, "title", title)
		return model.CatalogEntry{}, false
	}

	entry, _ := val.(*model.CatalogEntry)
	if entry == nil {
		return model.CatalogEntry{}, false
	}
	return *entry, true
}

// Len 当前缓存条数
func (c *CatalogCache) Len() int {
	return c.cache.Len()
}

// DeleteExpired 清理过期条目
func (c *CatalogCache) DeleteExpired() {
	c.cache.DeleteExpired()
}
