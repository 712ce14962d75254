package app

import (
	"context"
	"edu_core_backend/internal/config"
	"edu_core_backend/internal/controller"
	"edu_core_backend/internal/repository"
	"edu_core_backend/internal/service"
	"edu_core_backend/pkg/database"
	"edu_core_backend/pkg/logger"
	"edu_core_backend/pkg/monitoring"
	"edu_core_backend/pkg/security"
	"edu_core_backend/pkg/tracing"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	log            *zap.Logger
	services       *services
	tracerShutdown func(context.Context) error
}

type repositories struct {
	user       *repository.UserRepository
	assignment *repository.AssignmentRepository
	submission *repository.SubmissionRepository
	progress   *repository.ProgressRepository
	assessment *repository.AssessmentRepository
	file       *repository.FileRepository
}

type services struct {
	auth       *service.AuthService
	assignment *service.AssignmentService
	assessment *service.AssessmentService
	assistant  *service.AssistantService
	progress   *service.ProgressService
	file       *service.FileService
}

type controllers struct {
	auth       *controller.AuthController
	user       *controller.UserController
	assignment *controller.AssignmentController
	assessment *controller.AssessmentController
	progress   *controller.ProgressController
	file       *controller.FileController
	assistant  *controller.AssistantController
	health     *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		assignment: repository.NewAssignmentRepository(db),
		submission: repository.NewSubmissionRepository(db),
		progress:   repository.NewProgressRepository(db),
		assessment: repository.NewAssessmentRepository(db),
		file:       repository.NewFileRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) (*services, error) {
	provider, err := service.NewStorageProvider(&cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	return &services{
		auth:       service.NewAuthService(repos.user, cfg, service.NewTokenRevoker(rdb), a.log),
		assignment: service.NewAssignmentService(repos.assignment, repos.submission, a.log),
		assessment: service.NewAssessmentService(repos.assessment, a.log),
		assistant:  service.NewAssistantService(repos.progress),
		progress:   service.NewProgressService(repos.progress),
		file:       service.NewFileService(repos.file, provider, cfg.Storage.MaxUploadMB, a.log),
	}, nil
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth, a.log),
		user:       controller.NewUserController(s.auth, a.log),
		assignment: controller.NewAssignmentController(s.assignment, a.log),
		assessment: controller.NewAssessmentController(s.assessment, a.log),
		progress:   controller.NewProgressController(s.progress, a.log),
		file:       controller.NewFileController(s.file, a.log),
		assistant:  controller.NewAssistantController(s.assistant, a.log),
		health:     controller.NewHealthController(a.DB, a.Redis),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware(cfg.Tracing.ServiceName))
	}

	router.Use(monitoring.MetricsMiddleware())
}

// New 用已经建立好的连接组装应用，rdb 可以为 nil（未启用 Redis）
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, log *zap.Logger) (*App, error) {
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		log:    log,
	}

	repos := app.initRepositories(db)
	svcs, err := app.initServices(repos, cfg, rdb)
	if err != nil {
		return nil, err
	}
	app.services = svcs
	controllers := app.initControllers(svcs)

	// 监控初始化
	monitoring.Init()

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Server.Mode != gin.TestMode {
		router.Use(gin.Logger())
	}
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers)

	return app, nil
}

// NewApp 进程启动入口：日志、数据库、Redis、迁移、追踪
func NewApp(cfg *config.Config) (*App, error) {
	log := logger.InitLogger(cfg)
	log.Info("Logger initialized successfully")

	gin.SetMode(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode, log)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	// release 模式默认不自动迁移，需要 -migrate 显式开启
	if cfg.Server.Mode != gin.ReleaseMode || cfg.ForceMigrate {
		if err := database.Migrate(db, log); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db, log: log}, nil
	}

	rdb, err := database.InitRedis(&cfg.Redis, log)
	if err != nil {
		return nil, fmt.Errorf("init redis: %w", err)
	}

	app, err := New(cfg, db, rdb, log)
	if err != nil {
		return nil, err
	}

	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(context.Background(), &cfg.Tracing, log)
		if err != nil {
			return nil, fmt.Errorf("init tracing: %w", err)
		}
		app.tracerShutdown = shutdown
	}

	if cfg.Storage.Type == "local" {
		app.Router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app, nil
}

func (a *App) Run() error {
	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}
	a.log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	a.Close(ctx)
	a.log.Info("Server exiting")
	return nil
}

// Close 释放追踪、Redis 与数据库连接
func (a *App) Close(ctx context.Context) {
	if a.tracerShutdown != nil {
		if err := a.tracerShutdown(ctx); err != nil {
			a.log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.log.Warn("Failed to close redis", zap.Error(err))
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
}
