package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-task-manager/internal/config"
	"go-task-manager/internal/database"
	"go-task-manager/internal/handler"
	"go-task-manager/internal/middleware"
	"go-task-manager/internal/repository"
	"go-task-manager/internal/router"
	"go-task-manager/internal/service"
)

type App struct {
	server       *http.Server
	db           *database.DB
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	taskRepo := repository.NewTaskRepository(pool)
	slog.Info("database ready")

	slog.Info("connecting to Redis")
	redisClient, err := database.NewRedis(context.Background(), cfg.RedisURL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	recoveryRepo := repository.NewRecoveryTokenRepository(redisClient)

	var mailer service.Mailer
	if cfg.MailConfigured() {
		mailer = service.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)
	} else {
		slog.Warn("SMTP not configured, outgoing mail will be logged")
		mailer = service.NewLogMailer()
	}

	authService := service.NewAuthService(service.AuthConfig{
		JWTSecret:        cfg.JWTSecret,
		AccessTTL:        cfg.AccessTokenTTL,
		RefreshTTL:       cfg.RefreshTokenTTL,
		RecoveryTTL:      cfg.RecoveryTokenTTL,
		BcryptCost:       cfg.BcryptCost,
		DefaultAvatarURL: cfg.DefaultAvatarURL,
		FrontendURL:      cfg.FrontendURL,
	}, userRepo, recoveryRepo, mailer)
	authMiddleware := middleware.NewAuthMiddleware(authService)
	authHandler := handler.NewAuthHandler(authService)

	var mediaService *service.MediaService
	if cfg.MediaConfigured() {
		mediaService, err = service.NewMediaService(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize media service: %w", err)
		}
	} else {
		slog.Warn("Cloudinary not configured, image endpoints disabled")
	}

	userService := service.NewUserService(userRepo)
	userHandler := handler.NewUserHandler(userService, mediaService)
	taskService := service.NewTaskService(taskRepo)
	taskHandler := handler.NewTaskHandler(taskService)
	kpiService := service.NewKPIService(taskRepo)
	kpiHandler := handler.NewKPIHandler(kpiService)
	filesHandler := handler.NewFilesHandler(mediaService)

	appRouter := router.New(cfg, authMiddleware, router.Handlers{
		Auth:  authHandler,
		User:  userHandler,
		Task:  taskHandler,
		KPI:   kpiHandler,
		Files: filesHandler,
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      appRouter,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		db:     db,
		cleanupFuncs: []func(){
			func() {
				db.Close()
			},
			func() {
				if closeErr := redisClient.Close(); closeErr != nil {
					slog.Error("failed to close redis client", "error", closeErr)
				}
			},
		},
	}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	slog.Info("server stopped")
	return nil
}
