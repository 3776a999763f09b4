package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"taskapp/internal/adapter/http/helper"
	"taskapp/internal/adapter/http/middleware"
	"taskapp/internal/adapter/http/routes"
	"taskapp/pkg"
	"taskapp/pkg/config"
	"taskapp/pkg/logger"
	"taskapp/pkg/ratelimit"
	"taskapp/pkg/telemetry"
)

type Server struct {
	HTTP      *http.Server
	Container *Container
	redis     *redis.Client
}

// NewServer wires stores, handlers and middleware. The returned server is not
// listening yet.
func NewServer(ctx context.Context, cfg *config.AppConfig, log *logger.Logger, metrics *telemetry.AppMetrics) (*Server, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	helper.ExposeErrors = !cfg.IsProduction()

	container, err := NewContainer(ctx, cfg, log, metrics)

	if err != nil {
		return nil, err
	}

	server := &Server{Container: container}

	opts := routes.Options{
		ServiceName:   cfg.ServiceName,
		Verifier:      container.JWT,
		Logger:        log,
		Metrics:       metrics,
		HTTPSEnforcer: middleware.NewHTTPSEnforcer(cfg.EnforceHTTPS, log.Zap()),
	}

	if cfg.RateLimitEnabled {
		opts.RateLimiter = server.newRateLimiter(cfg, log, metrics)
	}

	router := routes.SetupRouter(routes.HandlersConfig{
		AuthHandler:   container.AuthHandler,
		TaskHandler:   container.TaskHandler,
		HealthHandler: container.HealthHandler,
	}, opts)

	server.HTTP = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	return server, nil
}

func (s *Server) newRateLimiter(cfg *config.AppConfig, log *logger.Logger, metrics *telemetry.AppMetrics) *ratelimit.RateLimiter {
	var store ratelimit.Store = ratelimit.NewMemoryStore()

	if cfg.RateLimitStore == "redis" {
		s.redis = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		store = ratelimit.NewRedisStore(s.redis, cfg.ServiceName)
	}

	limiter := ratelimit.NewRateLimiter(store, log.Zap(), metrics)

	keyFuncs := map[string]func(*gin.Context) string{
		routes.AuthGroup:  pkg.GetClientIP,
		routes.TasksGroup: ratelimit.UserKey,
	}

	for name, rule := range cfg.RateLimitConfigs {
		keyFunc, ok := keyFuncs[name]

		if !ok {
			keyFunc = pkg.GetClientIP
		}

		limiter.SetRule(name, ratelimit.Rule{
			Requests: rule.Requests,
			Window:   rule.Window,
			KeyFunc:  keyFunc,
		})
	}

	log.Zap().Info("Rate limiter configured",
		zap.String("store", cfg.RateLimitStore),
		zap.Int("rules", len(cfg.RateLimitConfigs)),
	)

	return limiter
}

func (s *Server) ListenAndServe() error {
	if err := s.HTTP.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

// Shutdown drains in-flight requests before closing the stores.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.HTTP.Shutdown(ctx)

	if s.redis != nil {
		s.redis.Close()
	}

	if closeErr := s.Container.Close(); err == nil {
		err = closeErr
	}

	return err
}
