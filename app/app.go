package app

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"sheet-storefront/app/controller"
	"sheet-storefront/app/router"
	"sheet-storefront/config"
	"sheet-storefront/db"
	"sheet-storefront/repository"
	"sheet-storefront/service"
	"sheet-storefront/templates"
)

// App holds the wired application
type App struct {
	Handler    http.Handler
	Scheduler  *service.RefreshScheduler
	Storefront *service.StorefrontService
	Catalog    *service.CatalogService
	Theme      *service.ThemeService
	Store      *repository.CatalogStore
}

// NewSessionRepository creates the session store selected by cfg.SessionBackend
func NewSessionRepository(ctx context.Context, cfg *config.Config) (repository.SessionRepositoryInterface, error) {
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		client := repository.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword)
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		log.Printf("✅ Sessions stored in redis at %s", cfg.RedisAddr)
		return repository.NewRedisSessionRepository(client, cfg.SessionTTL), nil

	case config.SessionBackendPostgres:
		if err := db.InitDB(ctx, cfg.DatabaseURL); err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		if err := db.EnsureSessionSchema(ctx, db.DB); err != nil {
			return nil, err
		}
		log.Printf("✅ Sessions stored in postgres")
		return repository.NewPostgresSessionRepository(db.DB, cfg.SessionTTL), nil

	case config.SessionBackendMemory, "":
		log.Printf("✅ Sessions stored in memory")
		return repository.NewMemorySessionRepository(cfg.SessionTTL), nil

	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}
}

// NewServices creates the sheet-backed services shared by the server and the CLI
func NewServices(ctx context.Context, cfg *config.Config) (*repository.CatalogStore, *service.CatalogService, *service.ThemeService, error) {
	sheets, err := service.NewSheetsService(ctx, cfg.SheetsAPIKey, cfg.SheetsEndpoint, nil)
	if err != nil {
		return nil, nil, nil, err
	}
	store := repository.NewCatalogStore()
	catalog := service.NewCatalogService(sheets, store, cfg.ProductRange)
	theme := service.NewThemeService(sheets, store, cfg.ThemeRange)
	return store, catalog, theme, nil
}

// Initialize initializes the application
func Initialize(ctx context.Context, cfg *config.Config) (*App, error) {
	store, catalogService, themeService, err := NewServices(ctx, cfg)
	if err != nil {
		return nil, err
	}
	storefront := service.NewStorefrontService(catalogService, themeService, store, cfg.CatalogMaxAge, cfg.ProductsPerPage)

	sessionRepo, err := NewSessionRepository(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tmpl, err := templates.Parse()
	if err != nil {
		return nil, err
	}

	imageService := service.NewImageService(cfg.ImageCacheDir, store, nil)
	if err := imageService.EnsureCacheDir(); err != nil {
		return nil, err
	}
	exportService := service.NewExportService(store, tmpl, cfg.BaseURL, cfg.ChromePath)

	// Create controllers
	sessions := controller.NewSessionManager(sessionRepo)
	controllers := &router.Controllers{
		Storefront: controller.NewStorefrontController(storefront, store, exportService, sessions, tmpl),
		Cart:       controller.NewCartController(storefront, store, sessions),
		Admin:      controller.NewAdminController(store, sessions, tmpl),
		Export:     controller.NewExportController(storefront, exportService, imageService, sessions),
		Wishlist:   controller.NewWishlistController(storefront, store, sessions),
	}

	mux := http.NewServeMux()
	router.SetupRoutes(mux, controllers)

	return &App{
		Handler:    mux,
		Scheduler:  service.NewRefreshScheduler(storefront, sessionRepo, cfg.CatalogIdleTTL),
		Storefront: storefront,
		Catalog:    catalogService,
		Theme:      themeService,
		Store:      store,
	}, nil
}
