package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/forgo/guildhall/api/internal/config"
	"github.com/forgo/guildhall/api/internal/database"
	"github.com/forgo/guildhall/api/internal/handler"
	"github.com/forgo/guildhall/api/internal/jobs"
	"github.com/forgo/guildhall/api/internal/metrics"
	"github.com/forgo/guildhall/api/internal/middleware"
	"github.com/forgo/guildhall/api/internal/repository"
	"github.com/forgo/guildhall/api/internal/service"
	"github.com/forgo/guildhall/api/pkg/jwt"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logging
	level := slog.LevelInfo
	if cfg.IsDevelopment() {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection
	dbCfg, err := cfg.DatabaseConnection()
	if err != nil {
		slog.Error("invalid database url", slog.String("error", err.Error()))
		os.Exit(1)
	}
	db := database.NewSurrealDB(dbCfg)

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("endpoint", dbCfg.Endpoint()),
		slog.String("namespace", dbCfg.Namespace),
		slog.String("database", dbCfg.Database),
	)

	// Initialize token service
	tokens, err := jwt.NewService(jwt.Config{
		SecretKey:      cfg.JWT.SecretKey,
		Algorithm:      cfg.JWT.Algorithm,
		Issuer:         cfg.JWT.Issuer,
		ExpirationMins: cfg.JWT.ExpirationMins,
	})
	if err != nil {
		slog.Error("failed to create token service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	refRepo := repository.NewReferenceRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	questRepo := repository.NewQuestRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)

	// Initialize services
	authService := service.NewAuthService(service.AuthServiceConfig{
		UserRepo:     userRepo,
		TokenService: tokens,
	})
	userService := service.NewUserService(service.UserServiceConfig{UserRepo: userRepo})
	locationService := service.NewLocationService(locationRepo)
	refService := service.NewReferenceService(refRepo)
	campaignService := service.NewCampaignService(campaignRepo)
	questService := service.NewQuestService(service.QuestServiceConfig{
		QuestRepo:    questRepo,
		LocationRepo: locationRepo,
		RefRepo:      refRepo,
		CampaignRepo: campaignRepo,
	})
	commentService := service.NewCommentService(commentRepo, questRepo)
	followService := service.NewFollowService(followRepo, userRepo)

	// Initialize middleware state
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Rate:   cfg.RateLimit.Requests,
		Window: cfg.RateLimit.Window,
		Burst:  cfg.RateLimit.Burst,
	})
	defer rateLimiter.Stop()

	idempotencyStore := middleware.NewIdempotencyStore(middleware.IdempotencyConfig{
		TTL: cfg.Idempotency.TTL,
	})
	defer idempotencyStore.Stop()

	if cfg.Audit.Interval > 0 {
		auditor := jobs.NewBookmarkAuditor(questRepo, cfg.Audit.Interval)
		auditor.Start()
		defer auditor.Stop()
	}

	// Create router and register routes
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		metricsHandler = metrics.Handler()
	}
	mux := handler.NewRouter(handler.RouterConfig{
		Prefix:      cfg.Server.APIPrefix,
		Auth:        handler.NewAuthHandler(authService),
		Users:       handler.NewUserHandler(userService, questService),
		Follows:     handler.NewFollowHandler(followService),
		Locations:   handler.NewLocationHandler(locationService),
		QuestLog:    handler.NewQuestLogHandler(locationService),
		Quests:      handler.NewQuestHandler(questService),
		Campaigns:   handler.NewCampaignHandler(campaignService),
		Comments:    handler.NewCommentHandler(commentService),
		References:  handler.NewReferenceHandler(refService),
		Health:      handler.NewHealthHandler(db, version),
		Metrics:     metricsHandler,
		Tokens:      authService,
		Idempotency: idempotencyStore,
	})

	var routes http.Handler = mux
	if cfg.Metrics.Enabled {
		routes = metrics.InstrumentHandler(mux)
	}

	// Apply global middleware
	wrapped := middleware.Chain(
		routes,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.RateLimit(rateLimiter),
		middleware.Compress,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
			slog.String("prefix", cfg.Server.APIPrefix),
			slog.String("version", version),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		slog.Error("server error", slog.String("error", err.Error()))
	}

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}
