package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/user/movieshelf/internal/apperr"
	"github.com/user/movieshelf/internal/auth"
	"github.com/user/movieshelf/internal/config"
	"github.com/user/movieshelf/internal/service"
	"github.com/user/movieshelf/internal/utils"
)

// Pinger 健康检查用的数据库探活（*sql.DB 实现）
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler HTTP 处理器
type Handler struct {
	Config    *config.Config
	Identity  *service.IdentityService
	Favorites *service.FavoritesService
	Tokens    *auth.TokenIssuer
	DB        Pinger
	Logger    *slog.Logger
}

// NewHandler 创建处理器，db 为 nil 时健康检查不探测数据库
func NewHandler(cfg *config.Config, identity *service.IdentityService, favorites *service.FavoritesService, tokens *auth.TokenIssuer, db Pinger, logger *slog.Logger) *Handler {
	registerValidators()

	return &Handler{
		Config:    cfg,
		Identity:  identity,
		Favorites: favorites,
		Tokens:    tokens,
		DB:        db,
		Logger:    logger,
	}
}

// fail 将领域错误映射为状态码，其余错误只记录日志，不向调用方暴露细节
func (h *Handler) fail(c *gin.Context, err error) {
	switch apperr.Code(err) {
	case apperr.CodeConflict:
		utils.Conflict(c, err.Error())
	case apperr.CodeUnauthorized:
		utils.Unauthorized(c, err.Error())
	case apperr.CodeNotFound:
		utils.NotFound(c, err.Error())
	case apperr.CodeValidation:
		utils.BadRequest(c, err.Error())
	default:
		apperr.LogError(h.Logger, "request failed", err,
			"method", c.Request.Method,
			"path", c.FullPath(),
		)
		utils.InternalServerError(c)
	}
}

// Health 健康检查
func (h *Handler) Health(c *gin.Context) {
	if h.DB != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.DB.PingContext(ctx); err != nil {
			h.Logger.ErrorContext(ctx, "health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "storage": h.Config.Storage})
}
