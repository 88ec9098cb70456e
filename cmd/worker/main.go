package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/arogyahq/booking-api/internal/config"
	"github.com/arogyahq/booking-api/internal/email"
	"github.com/arogyahq/booking-api/internal/model"
	"github.com/arogyahq/booking-api/internal/repository/postgres"
	"github.com/arogyahq/booking-api/internal/service/booking"
	"github.com/arogyahq/booking-api/internal/worker"
	"github.com/arogyahq/booking-api/pkg/logger"
	"github.com/arogyahq/booking-api/pkg/messaging/redis"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Pretty: cfg.Logging.Pretty,
	})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(redis.Config{URL: cfg.Redis.URL}, appLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	bookingRepo := postgres.NewBookingRepository(db)
	emailSvc := email.NewSMTPService(cfg.SMTP)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reminders := worker.NewReminderWorker(bookingRepo, emailSvc, appLogger, 24*time.Hour)
	go reminders.Start(ctx)

	// Mirror booking lifecycle events into the worker log so operators can
	// follow the stream without a redis client.
	events, err := broker.Subscribe(ctx, booking.EventBookingCreated)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to subscribe to booking events")
	}
	go func() {
		for payload := range events {
			var b model.Booking
			if err := json.Unmarshal(payload, &b); err != nil {
				appLogger.Warn().Err(err).Msg("malformed booking event")
				continue
			}
			appLogger.Info().
				Str("booking_id", b.ID.String()).
				Str("date", b.Date.Format("2006-01-02")).
				Str("start_time", b.StartTime).
				Msg("booking created")
		}
	}()

	appLogger.Info().Msg("worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info().Msg("worker shutting down")
}
