package app

import (
	"softskill_backend/internal/config"
	"softskill_backend/internal/middleware"
	"softskill_backend/pkg/logger"
	"softskill_backend/pkg/monitoring"
	"softskill_backend/pkg/security"
	"softskill_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
)

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(middleware.RequestID())
	// access log wraps recovery so panicked requests still get their line
	router.Use(middleware.AccessLog(logger.Log))
	router.Use(middleware.Recovery(logger.Log))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window(), "/health", "/metrics"))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
	router.Use(middleware.Session(a.services.auth, cfg))
	router.Use(middleware.CSRF(cfg.Session.Secure))
}

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/health", c.health.HealthCheck)
	router.GET("/metrics", monitoring.PrometheusHandler())

	router.GET("/", c.home.Index)
	router.GET("/index", c.home.Index)
	router.GET("/logout", c.auth.Logout)

	guest := router.Group("/")
	guest.Use(middleware.GuestOnly())
	{
		guest.GET("/login", c.auth.ShowLogin)
		guest.POST("/login", security.RateLimiter(cfg.RateLimit.LoginMaxRequests, cfg.RateLimit.Window()), c.auth.Login)
		guest.GET("/register", c.auth.ShowRegister)
		guest.POST("/register", c.auth.Register)
	}

	authed := router.Group("/")
	authed.Use(middleware.LoginRequired())
	{
		authed.GET("/dashboard", c.dashboard.GetDashboard)
		authed.GET("/skill_test", c.skillTest.ShowTest)
		authed.POST("/skill_test", c.skillTest.SubmitTest)
		authed.GET("/test_results/:id", c.skillTest.ShowResults)
		authed.GET("/integrity_checker", c.integrity.ShowChecker)
		authed.POST("/integrity_checker", c.integrity.Check)
	}

	admin := router.Group("/admin_panel")
	admin.Use(middleware.LoginRequired(), middleware.AdminRequired())
	{
		admin.GET("", c.admin.ShowPanel)
		admin.GET("/export", c.admin.Export)
	}

	router.NoRoute(c.home.NotFound)
}
