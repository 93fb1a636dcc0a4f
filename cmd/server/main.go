package main // Entry point package

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/railway-seat-reservation/internal/booking"
	"github.com/iliyamo/railway-seat-reservation/internal/config"
	"github.com/iliyamo/railway-seat-reservation/internal/database"
	"github.com/iliyamo/railway-seat-reservation/internal/handler"
	"github.com/iliyamo/railway-seat-reservation/internal/inventory"
	"github.com/iliyamo/railway-seat-reservation/internal/queue"
	"github.com/iliyamo/railway-seat-reservation/internal/router"
	"github.com/iliyamo/railway-seat-reservation/internal/schedule"
	queue_publisher "github.com/iliyamo/railway-seat-reservation/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	if os.Getenv("LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}
	if os.Getenv("DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	cfg := config.Load()

	// Build the inventory from the configured schedule source.
	registry := inventory.NewRegistry()
	src, err := scheduleSource(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open schedule source")
	}
	n, err := schedule.Load(context.Background(), src, registry)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load schedules")
	}
	log.Info().Int("trains", n).Str("source", cfg.ScheduleSource).Msg("schedule loaded")

	store := booking.NewStore()
	svc := booking.NewService(registry, store, queue_publisher.New(), cfg.PaymentTTL)

	// Background workers: the expiry sweep releasing unpaid orders and the
	// event consumer writing booking logs.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go svc.RunExpiryWorker(ctx, cfg.ExpirySweep)
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Warn().Err(err).Msg("booking consumer stopped")
		}
	}()

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e)
	router.RegisterAPI(e, handler.NewTrainHandler(registry), handler.NewOrderHandler(svc), config.NewRedisClient())

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// scheduleSource picks the schedule backend from configuration: the JSON
// seed file or the MySQL schedule database.
func scheduleSource(cfg config.Config) (schedule.Source, error) {
	if cfg.ScheduleSource == "db" {
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			return nil, err
		}
		return schedule.NewDBSource(db), nil
	}
	return &schedule.JSONSource{Path: cfg.SeedPath}, nil
}
