package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"skill_tracker_backend/internal/config"
	"skill_tracker_backend/internal/controller"
	"skill_tracker_backend/internal/model"
	"skill_tracker_backend/internal/repository"
	"skill_tracker_backend/internal/service"
	"skill_tracker_backend/internal/util"
	"skill_tracker_backend/pkg/configwatcher"
	"skill_tracker_backend/pkg/database"
	"skill_tracker_backend/pkg/logger"
	"skill_tracker_backend/pkg/monitoring"
	"skill_tracker_backend/pkg/security"
	"skill_tracker_backend/pkg/tracing"
	"sync"
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

	services *services
	shutdown []func(context.Context) error

	mu              sync.Mutex
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	profile    *repository.ProfileRepository
	skill      *repository.SkillRepository
	goal       *repository.GoalRepository
	progress   *repository.ProgressRepository
	resource   *repository.ResourceRepository
	permission *repository.PermissionRepository
	dashboard  *repository.DashboardRepository
}

type services struct {
	blacklist  service.TokenBlacklist
	storage    *service.StorageService
	permission *service.PermissionService
	account    *service.AccountService
	auth       *service.AuthService
	profile    *service.ProfileService
	skill      *service.SkillService
	goal       *service.GoalService
	progress   *service.ProgressService
	resource   *service.ResourceService
	dashboard  *service.DashboardService
}

type controllers struct {
	auth         *controller.AuthController
	skill        *controller.SkillController
	learningGoal *controller.LearningGoalController
	progress     *controller.ProgressController
	resource     *controller.ResourceController
	profile      *controller.ProfileController
	dashboard    *controller.DashboardController
	form         *controller.FormController
	admin        *controller.AdminController
	health       *controller.HealthController
}

// RegisterConfigCallback 配置文件变化后依次调用
func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) applyConfig(cfg *config.Config) {
	a.mu.Lock()
	callbacks := append([]func(*config.Config){}, a.configCallbacks...)
	a.mu.Unlock()

	for _, cb := range callbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		profile:    repository.NewProfileRepository(db),
		skill:      repository.NewSkillRepository(db),
		goal:       repository.NewGoalRepository(db),
		progress:   repository.NewProgressRepository(db),
		resource:   repository.NewResourceRepository(db),
		permission: repository.NewPermissionRepository(db),
		dashboard:  repository.NewDashboardRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	if rdb != nil {
		s.blacklist = service.NewRedisTokenBlacklist(rdb)
	}
	s.storage = service.NewStorageService(cfg)
	s.permission = service.NewPermissionService(repos.permission, repos.user, model.DefaultRegistry())
	s.profile = service.NewProfileService(repos.profile, repos.skill, repos.goal, repos.progress, repos.resource, s.storage)

	s.account = service.NewAccountService(db, repos.user, repos.profile, repos.skill, repos.resource, repos.permission)
	// 账号创建后：先建资料，再按 staff/superuser 加入管理组
	s.account.OnCreated(
		s.profile.CreateForAccount,
		s.permission.AssignDefaultGroup,
	)

	s.auth = service.NewAuthService(repos.user, cfg, s.blacklist)
	s.skill = service.NewSkillService(db, repos.skill)
	s.goal = service.NewGoalService(db, repos.goal, repos.skill, repos.progress)
	s.progress = service.NewProgressService(db, repos.goal, repos.progress)
	s.resource = service.NewResourceService(repos.resource, repos.skill)
	s.dashboard = service.NewDashboardService(repos.skill, repos.dashboard)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth, s.account),
		skill:        controller.NewSkillController(s.skill),
		learningGoal: controller.NewLearningGoalController(s.goal, s.progress),
		progress:     controller.NewProgressController(s.progress),
		resource:     controller.NewResourceController(s.resource),
		profile:      controller.NewProfileController(s.profile),
		dashboard:    controller.NewDashboardController(s.dashboard),
		form:         controller.NewFormController(),
		admin:        controller.NewAdminController(s.account, s.permission, s.resource, s.profile, s.skill, s.goal),
		health:       controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	if cfg.RateLimit.MaxRequests > 0 && cfg.RateLimit.WindowMinutes > 0 {
		window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
		router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, window, security.ByClientIP))
	}

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// New 用已经打开的连接组装路由、服务和控制器。rdb 可以为 nil
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *App {
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	app.services = app.initServices(repos, cfg, db, rdb)
	controllers := app.initControllers(app.services, db, rdb)

	monitoring.Init()

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Server.Mode == gin.DebugMode {
		router.Use(gin.Logger())
	}
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == util.StorageLocal && cfg.Storage.LocalPath != "" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.RegisterConfigCallback(logger.ApplyLevel)
	return app
}

// Bootstrap 同步权限并初始化管理组，可重复执行
func (a *App) Bootstrap(ctx context.Context) error {
	if err := a.services.permission.SyncPermissions(ctx); err != nil {
		return err
	}
	return a.services.permission.Provision(ctx)
}

// Accounts 命令行工具使用
func (a *App) Accounts() *service.AccountService {
	return a.services.account
}

// NewApp 初始化日志、数据库、Redis 与追踪，release 模式下只有 ForceMigrate 时迁移
func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)
	gin.SetMode(cfg.Server.Mode)

	db, err := database.Open(&cfg.Database)
	if err != nil {
		return nil, err
	}

	if cfg.Server.Mode != gin.ReleaseMode || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
		logger.Log.Info("Database migrated")
	}

	rdb, err := database.InitRedis(context.Background(), &cfg.Redis)
	if err != nil {
		return nil, err
	}
	if rdb == nil {
		logger.Log.Warn("Redis disabled, logout will not revoke tokens")
	}

	app := New(cfg, db, rdb)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(&cfg.Tracing)
		if err != nil {
			return nil, err
		}
		app.shutdown = append(app.shutdown, tp.Shutdown)
	}

	if err := app.Bootstrap(context.Background()); err != nil {
		return nil, err
	}

	return app, nil
}

func (a *App) Run() error {
	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		path := filepath.Join("configs", "config.yaml")
		if err := configwatcher.WatchConfig(ctx, path, a.applyConfig); err != nil {
			logger.Log.Warn("Config watcher disabled", zap.Error(err))
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	for _, fn := range a.shutdown {
		if err := fn(shutdownCtx); err != nil {
			logger.Log.Error("Shutdown hook failed", zap.Error(err))
		}
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
	_ = logger.Log.Sync()
	_ = os.Stdout.Sync()
	return nil
}
