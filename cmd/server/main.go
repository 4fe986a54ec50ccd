package main

import (
	"log"
	"time"

	"lexsync_app_go/config"
	"lexsync_app_go/db"
	"lexsync_app_go/handlers"
	"lexsync_app_go/middleware"
	"lexsync_app_go/models"
	"lexsync_app_go/services"
	"lexsync_app_go/services/i18n"
	"lexsync_app_go/services/jobs"
	"lexsync_app_go/services/judicial"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Load translations
	if err := i18n.Load(); err != nil {
		log.Fatalf("Failed to load translations: %v", err)
	}

	// Initialize document store
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize document store: %v", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(&models.MasterCaseDocument{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Wire the sync engine
	files := services.NewFileStore(cfg.CasesDir)
	store := services.NewMCDStore(db.DB)

	registry, err := judicial.GetProvider("CO", cfg.CPNUBaseURL, time.Duration(cfg.ScrapeTimeoutSecs)*time.Second)
	if err != nil {
		log.Fatalf("Failed to build registry provider: %v", err)
	}

	engine := services.NewCaseSyncEngine(cfg, files, store).
		WithCalendar(services.NewICSCalendarSync(cfg.CalendarDir)).
		WithExporter(services.NewCaseExporter(services.NewStorage(cfg))).
		WithRegistry(registry).
		WithNotifier(&services.EmailNotifier{Cfg: cfg})

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.Locale(cfg))

	// API routes
	api := e.Group("/api")
	handlers.NewCaseSyncHandler(engine).RegisterRoutes(api)

	// Nightly registry refresh for linked cases
	jobs.StartScheduler(engine, store, cfg.JudicialRefreshCron)

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
