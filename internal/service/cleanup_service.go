package service

import (
	"context"
	"log/slog"
	"time"
)

// ExpiringCache 可定期清理的缓存
type ExpiringCache interface {
	DeleteExpired()
	Len() int
}

// CleanupService 清理服务
type CleanupService struct {
	cache    ExpiringCache
	interval time.Duration
	logger   *slog.Logger
}

// NewCleanupService 创建清理服务
func NewCleanupService(cache ExpiringCache, interval time.Duration, logger *slog.Logger) *CleanupService {
	return &CleanupService{
		cache:    cache,
		interval: interval,
		logger:   logger.With("component", "cleanup"),
	}
}

// Start 启动定时清理任务，ctx 取消后退出
func (s *CleanupService) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runCleanup(ctx)
			}
		}
	}()
}

func (s *CleanupService) runCleanup(ctx context.Context) {
	before := s.cache.Len()
	s.cache.DeleteExpired()
	after := s.cache.Len()

	if before != after {
		s.logger.DebugContext(ctx, "expired catalog entries removed", "removed", before-after, "remaining", after)
	}
}
