// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/breathnew/backend/internal/admin"
	"github.com/breathnew/backend/internal/billing"
	"github.com/breathnew/backend/internal/coach"
	"github.com/breathnew/backend/internal/config"
	"github.com/breathnew/backend/internal/core"
	"github.com/breathnew/backend/internal/health"
	"github.com/breathnew/backend/internal/middleware"
	"github.com/breathnew/backend/internal/milestone"
	"github.com/breathnew/backend/internal/notify"
	"github.com/breathnew/backend/internal/profile"
	"github.com/breathnew/backend/internal/server"
	"github.com/breathnew/backend/internal/settings"
	"github.com/breathnew/backend/internal/tips"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	// Local installs keep their key in a .env next to the binary.
	_ = godotenv.Load() //nolint:errcheck // .env is optional

	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database ready", "path", cfg.Database.Path)

	aiClient := coach.NewClient(cfg.AI)
	if !aiClient.Configured() {
		logger.Warn("AI coach not configured, set GEMINI_API_KEY to enable it")
	}

	settingsRepo := settings.NewRepository(db.DB)
	settingsSvc := settings.NewService(settingsRepo)
	settingsHandler := settings.NewHandler(settingsSvc)

	tipsRepo := tips.NewRepository(db.DB)
	tipsSvc := tips.NewService(tipsRepo)
	tipsHandler := tips.NewHandler(tipsSvc, settingsSvc)

	reportRepo := coach.NewReportRepository(db.DB)

	profileRepo := profile.NewRepository(db.DB)
	profileSvc := profile.NewService(
		profileRepo,
		settingsSvc,
		tipsSvc,
		reportRepo,
	)

	coachManager := coach.NewManager(coach.ManagerConfig{
		Generator:  aiClient,
		Profiles:   profileSvc,
		Language:   settingsSvc,
		FreeLimit:  cfg.Coach.FreeMessageLimit,
		UndoWindow: cfg.Coach.UndoWindow,
	})
	profileSvc.RegisterWiper(coachManager)
	coachHandler := coach.NewHandler(coachManager, aiClient, reportRepo)

	profileHandler := profile.NewHandler(
		profileSvc,
		func(ctx context.Context, sinceQuit time.Duration) (any, bool) {
			m, ok := milestone.Latest(sinceQuit)
			if !ok {
				return nil, false
			}
			return m.Localize(settingsSvc.Language(ctx)), true
		},
	)

	milestoneHandler := milestone.NewHandler(profileSvc, settingsSvc)

	billingSvc := billing.NewService(profileSvc, cfg.Billing)
	billingHandler := billing.NewHandler(billingSvc)

	healthHandler := health.NewHandler(db, aiClient)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:      db.Stats,
		DBPing:       db.Ping,
		ReportCount:  reportRepo.Count,
		AssistantSet: aiClient.Configured,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.NewRateLimiter(cfg.RateLimit).Handler)
	router.Use(middleware.SecurityHeaders)
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Route("/v1", func(r chi.Router) {
		profileHandler.RegisterRoutes(r)
		milestoneHandler.RegisterRoutes(r)
		coachHandler.RegisterRoutes(r)
		billingHandler.RegisterRoutes(r)
		tipsHandler.RegisterRoutes(r)
		settingsHandler.RegisterRoutes(r)
		adminHandler.RegisterRoutes(r)
	})

	scheduler := notify.NewScheduler(profileSvc, profileRepo, coachManager)
	if cfg.Notify.Enabled {
		if err := scheduler.Start(cfg.Notify.CheckInterval); err != nil {
			logger.Warn("failed to start reminder scheduler", "error", err)
		}
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	scheduler.Stop()

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
