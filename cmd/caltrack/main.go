package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	adapthttp "caltrack/internal/adapter/http"
	"caltrack/internal/adapter/memory"
	"caltrack/internal/adapter/photo"
	"caltrack/internal/adapter/postgres"
	"caltrack/internal/adapter/pubsub"
	"caltrack/internal/app"
	"caltrack/internal/config"
	"caltrack/internal/domain"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx := context.Background()

	var (
		profiles domain.ProfileRepository
		logs     domain.DailyLogRepository
		food     domain.FoodEntryRepository
		weights  domain.WeightRepository
		tx       domain.TxRunner
	)
	switch cfg.Backend {
	case config.BackendPostgres:
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db open: %v", err)
		}
		defer func() { _ = db.Close() }()
		profiles = postgres.NewProfileRepo(db)
		logs = postgres.NewDailyLogRepo(db)
		food = postgres.NewFoodRepo(db)
		weights = postgres.NewWeightRepo(db)
		tx = db
	default:
		db := memory.New()
		profiles = db.Profiles()
		logs = db.DailyLogs()
		food = db.FoodEntries()
		weights = db.Weights()
		tx = db
	}

	photoStore, err := photo.OpenStore(ctx, cfg.PhotosBucketURL)
	if err != nil {
		log.Fatalf("photo store: %v", err)
	}
	defer func() { _ = photoStore.Close() }()

	hub := pubsub.NewHub()
	defer hub.Close()

	profileSvc := app.NewProfileService(profiles, hub)
	logSvc := app.NewLogService(logs, food, profiles, photoStore, tx, hub, logger)
	weightSvc := app.NewWeightService(weights, profiles, hub)
	photoSvc := app.NewPhotoService(photoStore)
	seedSvc := app.NewSeedService(profileSvc, weightSvc, logSvc)

	h := adapthttp.New(profileSvc, logSvc, weightSvc, photoSvc, seedSvc, hub, cfg.WebDir, logger).Handler()

	logger.Info("listening", "addr", cfg.Addr, "backend", cfg.Backend)
	if err := http.ListenAndServe(cfg.Addr, h); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
