package utils

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// CacheItem 包装实际的数据，增加过期时间
type CacheItem[T any] struct {
	Value     T
	ExpiredAt time.Time
}

// TTLCache 基于 go-cache 的泛型 TTL 缓存
// 只按过期时间淘汰，不限制条数；过期条目在下一次写入时覆盖，或由 DeleteExpired 清理
type TTLCache[T any] struct {
	storage *cache.Cache
	ttl     time.Duration
	now     func() time.Time
}

// NewTTLCache 创建缓存，ttl 是数据有效期（如 10 分钟）
func NewTTLCache[T any](ttl time.Duration) *TTLCache[T] {
	// 不启动 go-cache 自带的清理协程，由 CleanupService 定期调用 DeleteExpired
	return &TTLCache[T]{
		storage: cache.New(ttl, 0),
		ttl:     ttl,
		now:     time.Now,
	}
}

// WithClock 替换时间来源（测试用）
func (c *TTLCache[T]) WithClock(now func() time.Time) *TTLCache[T] {
	c.now = now
	return c
}

// TTL 返回数据有效期
func (c *TTLCache[T]) TTL() time.Duration {
	return c.ttl
}

// Set 写入或覆盖
func (c *TTLCache[T]) Set(key string, value T) {
	item := CacheItem[T]{
		Value:     value,
		ExpiredAt: c.now().Add(c.ttl),
	}
	c.storage.Set(key, item, c.ttl)
}

// Get 读取，仅在 now < ExpiredAt 时命中
func (c *TTLCache[T]) Get(key string) (T, bool) {
	var zero T
	raw, ok := c.storage.Get(key)
	if !ok {
		return zero, false
	}
	item, ok := raw.(CacheItem[T])
	if !ok {
		return zero, false
	}
	if !c.now().Before(item.ExpiredAt) {
		return zero, false
	}
	return item.Value, true
}

// Delete 删除
func (c *TTLCache[T]) Delete(key string) {
	c.storage.Delete(key)
}

// DeleteExpired 清理已过期的条目
func (c *TTLCache[T]) DeleteExpired() {
	c.storage.DeleteExpired()
}

// Clear 清空所有缓存
func (c *TTLCache[T]) Clear() {
	c.storage.Flush()
}

// Len 获取当前条数（包含尚未清理的过期条目）
func (c *TTLCache[T]) Len() int {
	return c.storage.ItemCount()
}
