package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/openwaves/openwaves-backend/internal/config"
	"github.com/openwaves/openwaves-backend/internal/database"
	"github.com/openwaves/openwaves-backend/internal/handler"
	"github.com/openwaves/openwaves-backend/internal/logger"
	"github.com/openwaves/openwaves-backend/internal/repository"
	"github.com/openwaves/openwaves-backend/internal/router"
	"github.com/openwaves/openwaves-backend/internal/service"
	"github.com/openwaves/openwaves-backend/internal/validator"
	"github.com/openwaves/openwaves-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting OpenWaves Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	poolRepo := repository.NewPoolRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	diagramRepo := repository.NewDiagramRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	regRepo := repository.NewRegistrationRepository(pool)
	examRepo := repository.NewExamRepository(pool)
	analyticsRepo := repository.NewAnalyticsRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb, userRepo)
	monitorService := service.NewMonitorService(rdb, log)
	poolService := service.NewPoolService(cfg, poolRepo, questionRepo, diagramRepo, log)
	diagramService := service.NewDiagramService(cfg, diagramRepo)
	sessionService := service.NewSessionService(cfg, sessionRepo, poolRepo, examRepo, regRepo, rdb, monitorService, log)
	registrationService := service.NewRegistrationService(regRepo, sessionRepo)
	examService := service.NewExamService(examRepo, sessionRepo, regRepo, poolRepo, questionRepo, diagramRepo, rdb, monitorService, log)
	resultsService := service.NewResultsService(examRepo, poolRepo, analyticsRepo)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Session:   handler.NewSessionHandler(sessionService),
		Pool:      handler.NewPoolHandler(poolService, diagramService),
		Candidate: handler.NewCandidateHandler(sessionService, registrationService, examService),
		Results:   handler.NewResultsHandler(resultsService),
		WS:        handler.NewWSHandler(monitorService, sessionService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	gradingWorker := worker.NewGradingWorker(examRepo, userRepo, rdb, monitorService, log)
	purgeWorker := worker.NewPurgeWorker(sessionService, log)

	go gradingWorker.Start(workerCtx)
	go purgeWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers. Ungraded exams stay in the Redis queue
	// and are picked up on the next start.
	workerCancel()
	time.Sleep(2 * time.Second)

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
