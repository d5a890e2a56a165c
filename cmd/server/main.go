package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // 确保在精简镜像中也能识别时区

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/user/movieshelf/internal/apperr"
	"github.com/user/movieshelf/internal/auth"
	"github.com/user/movieshelf/internal/config"
	"github.com/user/movieshelf/internal/handler"
	"github.com/user/movieshelf/internal/middleware"
	"github.com/user/movieshelf/internal/model"
	"github.com/user/movieshelf/internal/repository"
	"github.com/user/movieshelf/internal/router"
	"github.com/user/movieshelf/internal/service"
	"github.com/user/movieshelf/internal/utils"
)

func main() {
	// 加载环境变量
	envErr := godotenv.Load()

	// 加载配置
	cfg := config.Load()
	logger := utils.NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if envErr != nil {
		logger.Info("未找到 .env 文件，使用系统环境变量")
	}

	if err := cfg.Validate(); err != nil {
		fatal(logger, "配置无效", err)
	}

	// 签发一次探测令牌，缺少签名配置时直接退出
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)
	if _, err := tokens.Issue(&model.User{ID: "startup-probe"}); err != nil {
		fatal(logger, "令牌签发器不可用", err)
	}

	// 初始化存储
	var (
		identityStore  service.IdentityStore
		favoritesStore service.FavoritesStore
		pinger         handler.Pinger
		closeDB        = func() {}
	)
	switch cfg.Storage {
	case "memory":
		logger.Warn("使用内存存储，重启后数据丢失")
		identityStore = repository.NewMemoryUserRepository()
		favoritesStore = repository.NewMemoryFavoriteRepository()
	default:
		db, err := repository.InitDB(cfg.DatabaseURL)
		if err != nil {
			fatal(logger, "数据库连接失败", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			fatal(logger, "获取连接池失败", err)
		}
		closeDB = func() {
			if err := sqlDB.Close(); err != nil {
				logger.Error("关闭数据库连接失败", "error", err)
			}
		}

		migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err = repository.Migrate(migrateCtx, db)
		cancel()
		if err != nil {
			closeDB()
			fatal(logger, "数据库迁移失败", err)
		}

		repos := repository.NewRepositories(db)
		identityStore = repos.User
		favoritesStore = repos.Favorite
		pinger = sqlDB
	}

	// 目录缓存与外部客户端
	if cfg.OMDbAPIKey == "" {
		logger.Warn("OMDB_API_KEY 未设置，目录查询将失败")
	}
	omdb := service.NewOMDbClient(utils.NewHTTPClient(cfg.OMDbTimeout), cfg.OMDbBaseURL, cfg.OMDbAPIKey, cfg.OMDbRetries, logger)
	catalog := service.NewCatalogCache(omdb, utils.NewTTLCache[model.CatalogEntry](service.CatalogTTL), logger)

	identity := service.NewIdentityService(identityStore, tokens, logger)
	favorites := service.NewFavoritesService(favoritesStore, catalog, cfg.MaxPageSize, logger)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 启动定时清理任务
	service.NewCleanupService(catalog, cfg.CleanupInterval, logger).Start(ctx)

	// 初始化 Gin
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	// 启用 gzip，默认压缩级别
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 中间件
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.Security())

	// 注册路由
	h := handler.NewHandler(cfg, identity, favorites, tokens, pinger, logger)
	router.RegisterRoutes(r, h)

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   cfg.OMDbTimeout*time.Duration(cfg.OMDbRetries+1) + 10*time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// 在 goroutine 中启动服务器，这样我们就可以监听信号
	go func() {
		logger.Info("服务器启动", "addr", "http://localhost:"+cfg.Port, "storage", cfg.Storage)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			closeDB()
			fatal(logger, "服务器启动失败", err)
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("正在关闭服务器...")
	stop()

	// 5 秒超时上下文用于关闭过程
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("服务器强制关闭", "error", err)
	}
	closeDB()

	logger.Info("服务器已退出")
}

func fatal(logger *slog.Logger, msg string, err error) {
	apperr.LogError(logger, msg, err)
	os.Exit(1)
}
