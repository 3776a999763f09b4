package routes

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	. "taskapp/internal/adapter/http/handler"
	"taskapp/internal/adapter/http/helper"
	"taskapp/internal/adapter/http/middleware"
	"taskapp/internal/core/port"
	"taskapp/pkg/logger"
	"taskapp/pkg/ratelimit"
	"taskapp/pkg/telemetry"
)

const (
	AuthGroup  = "/auth"
	TasksGroup = "/tasks"
)

type HandlersConfig struct {
	AuthHandler   *AuthHandler
	TaskHandler   *TaskHandler
	HealthHandler *HealthHandler
}

// Options carries the cross-cutting pieces of the router. Nil Metrics,
// RateLimiter and HTTPSEnforcer switch the matching middleware off.
type Options struct {
	ServiceName   string
	Verifier      port.TokenVerifier
	Logger        *logger.Logger
	Metrics       *telemetry.AppMetrics
	RateLimiter   *ratelimit.RateLimiter
	HTTPSEnforcer *middleware.HTTPSEnforcer
}

func SetupRouter(handlers HandlersConfig, opts Options) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())

	if opts.HTTPSEnforcer != nil {
		router.Use(opts.HTTPSEnforcer.Middleware())
	}

	router.Use(middleware.CorsMiddleware())

	if opts.ServiceName != "" {
		router.Use(otelgin.Middleware(opts.ServiceName))
	}

	router.Use(middleware.CurrentMiddleware())

	if opts.Logger != nil {
		router.Use(middleware.LoggingMiddleware(opts.Logger))
	}

	if opts.Metrics != nil {
		router.Use(middleware.MetricsMiddleware(opts.Metrics))
	}

	router.NoRoute(func(c *gin.Context) {
		helper.SendNotFoundError(c, "Route not found")
	})

	if handlers.HealthHandler != nil {
		setupHealthRoutes(router, handlers.HealthHandler)
	}

	if handlers.AuthHandler != nil {
		setupAuthRoutes(router, handlers.AuthHandler, opts)
	}

	if handlers.TaskHandler != nil {
		setupTaskRoutes(router, handlers.TaskHandler, opts)
	}

	return router
}

func setupHealthRoutes(router *gin.Engine, healthHandler *HealthHandler) {
	health := router.Group("/health")
	{
		health.GET("", healthHandler.Health)
		health.GET("/detailed", healthHandler.Detailed)
	}
}

func setupAuthRoutes(router *gin.Engine, authHandler *AuthHandler, opts Options) {
	public := router.Group(AuthGroup)
	public.Use(rateLimit(opts.RateLimiter, AuthGroup)...)
	{
		public.POST("/signup", authHandler.SignUp)
		public.POST("/login", authHandler.Login)
	}

	router.GET(AuthGroup+"/me", middleware.JwtAuthMiddleware(opts.Verifier), authHandler.Me)
}

func setupTaskRoutes(router *gin.Engine, taskHandler *TaskHandler, opts Options) {
	protected := router.Group(TasksGroup)
	protected.Use(middleware.JwtAuthMiddleware(opts.Verifier))
	protected.Use(rateLimit(opts.RateLimiter, TasksGroup)...)
	{
		protected.POST("", taskHandler.Create)
		protected.GET("", taskHandler.List)
		protected.GET("/:id", taskHandler.Get)
		protected.PUT("/:id", taskHandler.Update)
		protected.DELETE("/:id", taskHandler.Delete)
		protected.PATCH("/:id/toggle", taskHandler.Toggle)
	}
}

func rateLimit(limiter *ratelimit.RateLimiter, group string) []gin.HandlerFunc {
	if limiter == nil {
		return nil
	}

	return []gin.HandlerFunc{limiter.Middleware(group)}
}
