// Package main provides the long-running HTTP server for the matching API.
// It serves the same handlers as the Lambda functions.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"tavara-care/internal/bootstrap"
	appConfig "tavara-care/internal/config"
	"tavara-care/internal/handlers"
	"tavara-care/internal/services/database"
	"tavara-care/internal/services/matcher"
	"tavara-care/internal/utils"
)

func main() {
	cfg, err := appConfig.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := utils.InitLogger(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer utils.Sync()
	logger := utils.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", utils.Error(err))
	}
	defer db.Close()
	store := database.NewStore(db)

	cache, redisClient := bootstrap.MatchCache(ctx, cfg)
	if redisClient != nil {
		defer redisClient.Close()
	}

	orchestrator := bootstrap.NewOrchestrator(ctx, cfg, store)

	checks := map[string]handlers.HealthCheckFunc{"database": db.HealthCheck}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	} else if cfg.RedisEnabled() {
		checks["redis"] = func(context.Context) error { return errors.New("redis unavailable") }
	}
	health := handlers.NewHealthHandler(cfg.Stage, checks)

	matches := handlers.NewMatchesHandler(func() handlers.MatchLister {
		return matcher.NewPresenter(store, cache, cfg.CandidateLimit)
	})

	mux := http.NewServeMux()
	mux.Handle("/health", handlers.HTTPHandler(health.Handle))
	mux.Handle("/api/health", handlers.HTTPHandler(health.Handle))
	mux.Handle("/api/auto-assign", handlers.HTTPHandler(handlers.NewAutoAssignHandler(orchestrator).Handle))
	mux.Handle("GET /api/families/{id}/matches", handlers.HTTPHandler(matches.Handle, "id"))
	mux.Handle("/metrics", promhttp.Handler())

	if cfg.RosterBucket != "" {
		awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.AWSRegion))
		if err != nil {
			logger.Warn("Roster uploads disabled", utils.Error(err))
		} else {
			presigner := s3.NewPresignClient(s3.NewFromConfig(awsCfg))
			upload := handlers.NewRosterUploadURLHandler(presigner, cfg.RosterBucket)
			mux.Handle("GET /api/rosters/upload-url", handlers.HTTPHandler(upload.Handle))
		}
	}

	c := cors.New(cors.Options{
		AllowedOrigins:       []string{"*"},
		AllowedMethods:       []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:       []string{"*"},
		OptionsSuccessStatus: http.StatusOK,
	})

	addr := fmt.Sprintf("0.0.0.0:%s", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           c.Handler(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Graceful shutdown failed", utils.Error(err))
		}
	}()

	logger.Info("Tavara.care matching API listening",
		utils.String("addr", addr),
		utils.String("stage", cfg.Stage),
		utils.Bool("shared_cache", cache != nil),
	)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Server failed", utils.Error(err))
	}
}
