package http

import (
	"context"
	"fmt"

	"taskapp/internal/adapter/database/memory"
	"taskapp/internal/adapter/database/postgres"
	pgrepository "taskapp/internal/adapter/database/postgres/repository"
	"taskapp/internal/adapter/database/sqlite"
	"taskapp/internal/adapter/database/sqlite/repository"
	"taskapp/internal/adapter/http/handler"
	"taskapp/internal/adapter/http/validation"
	"taskapp/internal/core/port"
	"taskapp/internal/core/service"
	"taskapp/pkg/auth"
	"taskapp/pkg/config"
	"taskapp/pkg/logger"
	"taskapp/pkg/telemetry"
)

type Container struct {
	TaskRepo port.TaskRepository
	UserRepo port.UserRepository
	Health   port.HealthChecker

	TaskService port.TaskService
	AuthService port.AuthService
	JWT         *auth.JWT

	TaskHandler   *handler.TaskHandler
	AuthHandler   *handler.AuthHandler
	HealthHandler *handler.HealthHandler

	close func() error
}

func NewContainer(ctx context.Context, cfg *config.AppConfig, log *logger.Logger, metrics *telemetry.AppMetrics) (*Container, error) {
	c := &Container{}

	if err := c.openStores(ctx, cfg); err != nil {
		return nil, err
	}

	validator := validation.New()

	c.JWT = auth.NewJWT(cfg.JWTSecret, cfg.JWTExpiry)
	c.TaskService = service.NewTaskService(c.TaskRepo)
	c.AuthService = service.NewAuthService(c.UserRepo)

	c.TaskHandler = handler.NewTaskHandler(c.TaskService, validator, log, metrics)
	c.AuthHandler = handler.NewAuthHandler(c.AuthService, c.JWT, validator, log, metrics)
	c.HealthHandler = handler.NewHealthHandler(c.Health, cfg.Environment, cfg.Version)

	return c, nil
}

func (c *Container) openStores(ctx context.Context, cfg *config.AppConfig) error {
	switch cfg.DBDriver {
	case config.DriverSQLite, "":
		db, err := sqlite.New(sqlite.Options{Path: cfg.DatabasePath, LogQueries: cfg.LogQueries})

		if err != nil {
			return fmt.Errorf("open sqlite %q: %w", cfg.DatabasePath, err)
		}

		c.TaskRepo = repository.NewTaskRepository(db)
		c.UserRepo = repository.NewUserRepository(db)
		c.Health = db
		c.close = db.Close
	case config.DriverPostgres:
		db, err := postgres.NewDB(ctx, cfg.DatabaseURL)

		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}

		c.TaskRepo = pgrepository.NewTaskRepository(db)
		c.UserRepo = pgrepository.NewUserRepository(db)
		c.Health = db
		c.close = func() error {
			db.Close()
			return nil
		}
	case config.DriverMemory:
		c.TaskRepo = memory.NewTaskRepository()
		c.UserRepo = memory.NewUserRepository()
		c.Health = memory.Pinger{}
		c.close = func() error { return nil }
	default:
		return fmt.Errorf("unknown database driver %q", cfg.DBDriver)
	}

	return nil
}

func (c *Container) Close() error {
	if c.close == nil {
		return nil
	}

	return c.close()
}
