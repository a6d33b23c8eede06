// cmd/main.go
package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"go_5_real_english/internal/config"
	"go_5_real_english/internal/gemini"
	"go_5_real_english/internal/metrics"
	"go_5_real_english/internal/repository"
	"go_5_real_english/internal/service"
	"go_5_real_english/internal/storage"
)

func main() {
	// 設定ファイル読み込み用の一時的なロガー
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(tempLogger)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := newLogger(cfg.Log.Level, os.Getenv("APP_ENV"))
	slog.SetDefault(logger)
	slog.Info("Application starting...", slog.String("version", config.AppVersion))

	db, err := repository.NewDB(cfg.Database.URL, logger)
	if err != nil {
		slog.Error("Error initializing database", slog.Any("error", err))
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("Error closing database connection", slog.Any("error", err))
		} else {
			slog.Info("Database connection closed.")
		}
	}()

	m := metrics.New()
	ctx := context.Background()

	// --- 外部サービス ---
	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		slog.Error("Error initializing object storage", slog.Any("error", err), slog.String("provider", cfg.Storage.Provider))
		os.Exit(1)
	}
	if c, ok := store.(io.Closer); ok {
		defer c.Close()
	}

	geminiClient, err := gemini.NewClient(ctx, cfg.Gemini, m)
	if err != nil {
		slog.Error("Error initializing Gemini client", slog.Any("error", err))
		os.Exit(1)
	}
	storyGenerator := gemini.NewStoryGenerator(geminiClient, cfg.Gemini.StoryModel)
	synthesizer := gemini.NewSpeechSynthesizer(geminiClient, cfg.Gemini.TTSModel, cfg.Gemini.Voice)

	var googleVerifier service.GoogleTokenVerifier
	if len(cfg.Google.ClientIDs) > 0 {
		googleVerifier = service.NewGoogleVerifier(cfg.Google.ClientIDs)
	} else {
		slog.Warn("google.client_ids is empty, Google sign-in is disabled")
	}

	// --- Dependency Injection ---
	userRepo := repository.NewGormUserRepository()
	identityRepo := repository.NewGormIdentityRepository()
	tokenRepo := repository.NewGormTokenRepository()
	trailRepo := repository.NewGormStoryTrailRepository()
	progressRepo := repository.NewGormProgressRepository()
	immersionRepo := repository.NewGormImmersionRepository()

	loc := cfg.App.Location()
	streakService := service.NewStreakService(db, userRepo, loc)
	services := appServices{
		auth:       service.NewAuthService(db, userRepo, identityRepo, tokenRepo, service.NewMailer(cfg), googleVerifier, cfg),
		trails:     service.NewStoryTrailService(db, trailRepo, storyGenerator, m),
		audio:      service.NewSegmentAudioService(db, trailRepo, synthesizer, store, m),
		completion: service.NewCompletionService(db, userRepo, trailRepo, progressRepo, streakService, cfg, m),
		profile:    service.NewProfileService(db, userRepo, progressRepo, immersionRepo, store, loc),
		immersion:  service.NewImmersionService(db, immersionRepo, streakService, cfg.App.FeedLimit),
	}

	r := newRouter(cfg, logger, m, services, func(ctx context.Context) error {
		return sqlDB.PingContext(ctx)
	})

	// 生成と音声合成に数十秒かかることがあるので書き込みタイムアウトは長め
	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", slog.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not listen on port", slog.String("port", cfg.Server.Port), slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", slog.Any("error", err))
	}

	log.Println("Server exiting")
}

// newLogger は APP_ENV=dev なら tint、それ以外は JSON のロガーを返します
func newLogger(level, appEnv string) *slog.Logger {
	logLevel := new(slog.LevelVar)
	switch strings.ToLower(level) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "info":
		logLevel.Set(slog.LevelInfo)
	case "warn", "warning":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo)
		slog.Warn("Unknown log level specified in config, defaulting to INFO", slog.String("level", level))
	}

	var handler slog.Handler
	if strings.ToLower(appEnv) == "dev" {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC3339,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})
	}
	return slog.New(handler)
}
