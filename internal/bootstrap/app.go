package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"recommendations-backend/internal/recommendations"
	"recommendations-backend/internal/services/health"
	"recommendations-backend/internal/shared/config"
	"recommendations-backend/internal/shared/server"
	"recommendations-backend/internal/shared/storage/db"
	"recommendations-backend/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config  config.Config
	Router  *gin.Engine
	DB      *sql.DB
	Gorm    *gorm.DB
	Repo    recommendations.Repo
	Service *recommendations.Service
	Handler *recommendations.Handler
	Health  *health.Service
}

// Build connects the configured datastore and wires the service, handlers and router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.StoreDriver) == "" {
		cfg.StoreDriver = config.StoreMemory
	}
	ctx := context.Background()

	app := &App{Config: cfg}
	if err := app.buildRepo(ctx); err != nil {
		app.Close()
		return nil, err
	}

	app.Service = recommendations.NewService(app.Repo)
	app.Handler = recommendations.NewHandler(app.Service)
	app.Health = app.buildHealth()

	app.Router = server.NewRouter(server.RouterDeps{
		Config:                app.Config,
		RecommendationHandler: app.Handler,
		Health:                app.Health,
	})

	return app, nil
}

func (a *App) buildRepo(ctx context.Context) error {
	switch a.Config.StoreDriver {
	case config.StorePostgres:
		return a.buildPostgres(ctx)
	case config.StoreSQLite:
		return a.buildSQLite(ctx)
	case config.StoreMemory:
		if !isDevLike(a.Config.Env) {
			return errors.New("a persistent STORE_DRIVER is required outside dev")
		}
		telemetry.Info("bootstrap.store", map[string]any{"driver": config.StoreMemory})
		a.Repo = recommendations.NewMemoryRepo()
		return nil
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", a.Config.StoreDriver)
	}
}

func (a *App) buildPostgres(ctx context.Context) error {
	sqlDB, err := db.Connect(ctx, a.Config.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err == nil && a.Config.AutoMigrate {
		if err = db.RunMigrations(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
		}
	}
	if err != nil {
		if isDevLike(a.Config.Env) {
			telemetry.Warn("bootstrap.store_fallback", map[string]any{
				"driver": config.StorePostgres,
				"error":  err,
			})
			a.Config.StoreDriver = config.StoreMemory
			a.Repo = recommendations.NewMemoryRepo()
			return nil
		}
		return err
	}

	telemetry.Info("bootstrap.store", map[string]any{"driver": config.StorePostgres})
	a.DB = sqlDB
	a.Repo = recommendations.NewPGRepo(sqlDB)
	return nil
}

func (a *App) buildSQLite(ctx context.Context) error {
	gdb, err := db.OpenSQLite(a.Config.SQLitePath)
	if err != nil {
		return err
	}
	a.Gorm = gdb

	repo := recommendations.NewGormRepo(gdb)
	if err := repo.AutoMigrate(ctx); err != nil {
		return fmt.Errorf("migrate sqlite: %w", err)
	}

	telemetry.Info("bootstrap.store", map[string]any{
		"driver": config.StoreSQLite,
		"path":   a.Config.SQLitePath,
	})
	a.Repo = repo
	return nil
}

func (a *App) buildHealth() *health.Service {
	switch {
	case a.DB != nil:
		return health.NewService(a.Config.StoreDriver, a.DB)
	case a.Gorm != nil:
		if sqlDB, err := a.Gorm.DB(); err == nil {
			return health.NewService(a.Config.StoreDriver, sqlDB)
		}
	}
	return health.NewService(a.Config.StoreDriver, nil)
}

// Close releases the datastore handles.
func (a *App) Close() error {
	var errs []error
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	if a.Gorm != nil {
		if sqlDB, err := a.Gorm.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
