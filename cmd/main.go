package main

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

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/blackhacks/scrim-system/ai"
	"github.com/blackhacks/scrim-system/config"
	"github.com/blackhacks/scrim-system/db"
	"github.com/blackhacks/scrim-system/handlers"
	"github.com/blackhacks/scrim-system/live"
	"github.com/blackhacks/scrim-system/presence"
	"github.com/blackhacks/scrim-system/repositories"
	api "github.com/blackhacks/scrim-system/routes"
	"github.com/blackhacks/scrim-system/services"
	"github.com/blackhacks/scrim-system/storage"
)

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	if err := db.EnsureSchema(context.Background(), dbConn); err != nil {
		logger.Error("failed to ensure database schema", slog.Any("error", err))
		os.Exit(1)
	}

	// Инициализация загрузчика файлов (Cloudflare R2)
	cloudflareUploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Cloudflare R2 uploader initialized")

	// Клиент Gemini. Без ключа разбор скриншотов и правил недоступен,
	// остальная система работает.
	var extractor ai.Extractor
	var ruleParser ai.RuleParser
	if cfg.GeminiAPIKey != "" {
		geminiClient, err := ai.NewGeminiClient(ai.GeminiClientConfig{APIKey: cfg.GeminiAPIKey})
		if err != nil {
			logger.Error("failed to initialize Gemini client", slog.Any("error", err))
			os.Exit(1)
		}
		extractor = geminiClient
		ruleParser = geminiClient
		logger.Info("Gemini client initialized")
	} else {
		logger.Warn("GEMINI_API_KEY not set, screenshot analysis disabled")
	}

	// Трекер присутствия поверх Redis, опционален.
	var tracker presence.Tracker = presence.NoopTracker{}
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Error("failed to connect to redis", slog.Any("error", err))
			os.Exit(1)
		}
		defer redisClient.Close()
		tracker = presence.NewRedisTracker(redisClient, 2*time.Minute)
		logger.Info("redis presence tracker initialized", slog.String("addr", cfg.RedisAddr))
	}

	// Инициализация WebSocket Hub
	wsHub := live.NewHub(logger)
	go wsHub.Run()
	logger.Info("WebSocket Hub started")

	// Инициализация репозиториев
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	licenseRepo := repositories.NewPostgresLicenseKeyRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	presetRepo := repositories.NewPostgresPresetRepository(dbConn)
	logger.Info("Repositories initialized")

	// Инициализация сервисов
	licenseService := services.NewLicenseService(licenseRepo)
	authService := services.NewAuthService(userRepo, licenseService, []byte(cfg.JWTSecretKey))
	userService := services.NewUserService(userRepo)
	tournamentService := services.NewTournamentService(tournamentRepo, ruleParser)
	matchService := services.NewMatchService(tournamentRepo, cloudflareUploader, extractor, wsHub)
	standingsService := services.NewStandingsService(tournamentRepo)
	presetService := services.NewPresetService(presetRepo)
	logger.Info("Services initialized")

	// Бутстрап администратора из конфигурации
	if err := authService.EnsureAdmin(context.Background(), cfg.AdminUsername, cfg.AdminPassword); err != nil {
		logger.Error("failed to ensure admin account", slog.Any("error", err))
		os.Exit(1)
	}

	// Инициализация обработчиков HTTP
	h := api.Handlers{
		Auth:       handlers.NewAuthHandler(authService),
		Admin:      handlers.NewAdminHandler(licenseService, userService, tracker),
		Tournament: handlers.NewTournamentHandler(tournamentService, presetService),
		Match:      handlers.NewMatchHandler(matchService),
		Standings:  handlers.NewStandingsHandler(standingsService),
		WebSocket:  handlers.NewWebSocketHandler(wsHub, logger),
	}
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(router, h, []byte(cfg.JWTSecretKey), tracker, logger)
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		} else {
			logger.Info("server stopped gracefully")
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		} else {
			logger.Info("server shutdown complete")
		}
	}
	logger.Info("application exited")
}
