package router

import (
	"github.com/gin-gonic/gin"
	"github.com/user/movieshelf/internal/handler"
	"github.com/user/movieshelf/internal/metrics"
	"github.com/user/movieshelf/internal/middleware"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查与监控
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")

	// ==================== 认证 ====================
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}

	// ==================== 需要登录 ====================
	requireAuth := middleware.RequireAuth(h.Tokens)

	users := api.Group("/users", requireAuth)
	{
		users.GET("/me", h.Me)
		users.PUT("/me/password", h.UpdatePassword)
	}

	favorites := api.Group("/favorites", requireAuth)
	{
		favorites.GET("", h.ListFavorites)
		favorites.GET("/:id", h.GetFavorite)
		favorites.POST("", h.AddFavorite)
		favorites.DELETE("/:id", h.RemoveFavorite)
	}
}
