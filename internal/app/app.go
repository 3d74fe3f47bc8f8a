package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"softskill_backend/internal/config"
	"softskill_backend/internal/controller"
	"softskill_backend/internal/repository"
	"softskill_backend/internal/scoring"
	"softskill_backend/internal/service"
	"softskill_backend/internal/util"
	"softskill_backend/internal/web"
	"softskill_backend/pkg/configwatcher"
	"softskill_backend/pkg/database"
	"softskill_backend/pkg/logger"
	"softskill_backend/pkg/monitoring"
	"softskill_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracerProvider  *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	skillTest  *repository.SkillTestRepository
	submission *repository.SubmissionRepository
	feedback   *repository.FeedbackRepository
}

type services struct {
	auth      *service.AuthService
	skillTest *service.SkillTestService
	integrity *service.IntegrityService
	dashboard *service.DashboardService
	admin     *service.AdminService
	export    *service.ExportService
}

type controllers struct {
	home      *controller.HomeController
	auth      *controller.AuthController
	dashboard *controller.DashboardController
	skillTest *controller.SkillTestController
	integrity *controller.IntegrityController
	admin     *controller.AdminController
	health    *controller.HealthController
}

// Scorers are the scoring collaborators handed to the services.
type Scorers struct {
	Evaluator scoring.SkillEvaluator
	Detector  scoring.AIDetector
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		skillTest:  repository.NewSkillTestRepository(db),
		submission: repository.NewSubmissionRepository(db),
		feedback:   repository.NewFeedbackRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client, scorers Scorers) *services {
	s := &services{}

	var blacklist service.TokenBlacklist
	if rdb != nil {
		blacklist = service.NewRedisTokenBlacklist(rdb)
	} else {
		blacklist = service.NewMemoryTokenBlacklist()
	}

	s.auth = service.NewAuthService(repos.user, blacklist, cfg)
	s.skillTest = service.NewSkillTestService(db, repos.skillTest, repos.feedback, scorers.Evaluator)
	s.integrity = service.NewIntegrityService(db, repos.submission, repos.feedback, scorers.Detector)
	s.dashboard = service.NewDashboardService(repos.skillTest, repos.submission)
	s.admin = service.NewAdminService(repos.user, repos.skillTest, repos.submission, repos.feedback)
	s.export = service.NewExportService(s.admin, repos.skillTest, repos.submission, logger.Log)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		home:      controller.NewHomeController(),
		auth:      controller.NewAuthController(s.auth, a.Config),
		dashboard: controller.NewDashboardController(s.dashboard),
		skillTest: controller.NewSkillTestController(s.skillTest),
		integrity: controller.NewIntegrityController(s.integrity),
		admin:     controller.NewAdminController(s.admin, s.export),
		health:    controller.NewHealthController(db),
	}
}

// NewApp connects the configured database, redis and scoring provider and builds
// the router. With cfg.MigrateOnly set it stops after the schema migration.
func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}
	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}, nil
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("initialize redis: %w", err)
		}
	}

	evaluator, detector, err := scoring.New(cfg.Scoring.Provider, scoring.LLMConfig{
		BaseURL: cfg.Scoring.BaseURL,
		APIKey:  cfg.Scoring.APIKey,
		Model:   cfg.Scoring.Model,
		Timeout: cfg.Scoring.Timeout(),
	})
	if err != nil {
		return nil, err
	}
	logger.Log.Info("Scoring provider selected", zap.String("provider", cfg.Scoring.Provider))

	var tp *sdktrace.TracerProvider
	if cfg.Tracing.Enabled {
		tp, err = tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			return nil, fmt.Errorf("initialize tracing: %w", err)
		}
	}

	app, err := New(cfg, db, rdb, Scorers{Evaluator: evaluator, Detector: detector})
	if err != nil {
		return nil, err
	}
	app.tracerProvider = tp
	app.RegisterConfigCallback(configwatcher.ApplyLogLevel)
	return app, nil
}

// New assembles the application on already opened stores. rdb may be nil, in
// which case revoked sessions are tracked in memory.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, scorers Scorers) (*App, error) {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	if err := util.RegisterValidators(); err != nil {
		return nil, err
	}
	templates, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	app.services = app.initServices(repos, cfg, db, rdb, scorers)
	controllers := app.initControllers(app.services, db)

	monitoring.Init()

	router := gin.New()
	router.SetHTMLTemplate(templates)
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	return app, nil
}

func (a *App) watchConfig(ctx context.Context) {
	if a.Config.File == "" || len(a.configCallbacks) == 0 {
		return
	}
	go func() {
		err := configwatcher.WatchConfig(ctx, a.Config.File, 500*time.Millisecond, func(cfg *config.Config) {
			for _, cb := range a.configCallbacks {
				cb(cfg)
			}
		})
		if err != nil {
			logger.Log.Error("Config watcher stopped", zap.Error(err))
		}
	}()
}

func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.watchConfig(ctx)

	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	a.Close(shutdownCtx)

	logger.Log.Info("Server exiting")
	return nil
}

// Close releases the tracer, redis and database connections.
func (a *App) Close(ctx context.Context) {
	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.Log.Error("Failed to close redis", zap.Error(err))
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
}
