package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/applytrack-backend/internal/data/db"
	"github.com/yungbote/applytrack-backend/internal/http"
	"github.com/yungbote/applytrack-backend/internal/observability"
	"github.com/yungbote/applytrack-backend/internal/platform/logger"
	"github.com/yungbote/applytrack-backend/internal/services"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	Clients  Clients
	Metrics  *observability.Metrics

	store        *db.PostgresService
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New(ctx context.Context, log *logger.Logger) (*App, error) {
	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(ctx, log, cfg.Otel)
	metrics := observability.Init(cfg.MetricsEnabled)

	store, err := db.NewPostgresService(log, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := store.AutoMigrateAll(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	theDB := store.DB()

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, clients, metrics)
	router := wireRouter(theDB, log, cfg, serviceset, metrics)

	a := &App{
		Log:          log,
		DB:           theDB,
		Router:       router,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Clients:      clients,
		Metrics:      metrics,
		store:        store,
		otelShutdown: otelShutdown,
	}
	if err := a.bootstrap(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// bootstrap makes sure the implicit user exists and seeds templates.
func (a *App) bootstrap(ctx context.Context) error {
	u, err := a.Services.User.EnsureDefault(ctx, a.Cfg.DefaultUserID, services.UserInput{
		Name:  a.Cfg.DefaultUserName,
		Email: a.Cfg.DefaultUserEmail,
	})
	if err != nil {
		return fmt.Errorf("ensure default user: %w", err)
	}
	a.Log.Info("Default user ready", "user_id", u.ID)

	n, err := a.Services.Template.SeedFromFile(ctx, a.Cfg.TemplatesSeedFile)
	if err != nil {
		return fmt.Errorf("seed templates: %w", err)
	}
	if n > 0 {
		a.Log.Info("Seeded templates", "count", n, "file", a.Cfg.TemplatesSeedFile)
	}
	return nil
}

// Start launches the background collectors and the metrics endpoint.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.Metrics != nil {
		a.Metrics.StartServer(ctx, a.Log, a.Cfg.MetricsAddr)
		a.Metrics.StartDBCollector(ctx, a.Log, a.DB)
		if a.Clients.Redis != nil {
			a.Metrics.StartRedisCollector(ctx, a.Log, a.Clients.Redis)
		}
	}
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return http.NewServer(a.Router, a.Log).Run(ctx, ":"+a.Cfg.Port, a.Cfg.ShutdownTimeout)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.Clients.Close()
	if a.otelShutdown != nil {
		if err := a.otelShutdown(context.Background()); err != nil && a.Log != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.store != nil {
		_ = a.store.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
