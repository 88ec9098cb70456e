package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/arogyahq/booking-api/internal/calendar"
	"github.com/arogyahq/booking-api/internal/config"
	"github.com/arogyahq/booking-api/internal/email"
	"github.com/arogyahq/booking-api/internal/handler"
	availabilityHandler "github.com/arogyahq/booking-api/internal/handler/availability"
	bookingHandler "github.com/arogyahq/booking-api/internal/handler/booking"
	"github.com/arogyahq/booking-api/internal/middleware"
	"github.com/arogyahq/booking-api/internal/repository/postgres"
	"github.com/arogyahq/booking-api/internal/router"
	availabilityService "github.com/arogyahq/booking-api/internal/service/availability"
	bookingService "github.com/arogyahq/booking-api/internal/service/booking"
	"github.com/arogyahq/booking-api/internal/service/pricing"
	"github.com/arogyahq/booking-api/pkg/auth"
	"github.com/arogyahq/booking-api/pkg/logger"
	"github.com/arogyahq/booking-api/pkg/messaging/redis"
	"github.com/arogyahq/booking-api/pkg/metrics"
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

	appMetrics := metrics.NewMetrics("booking_api")

	// Availability engine fails fast on schedule misconfiguration.
	engine, err := availabilityService.NewEngine(availabilityService.EngineConfig{
		Window:        cfg.Schedule.Window(),
		Kinds:         cfg.Schedule.Kinds,
		BufferMinutes: cfg.Schedule.BufferMinutes,
	}, time.Now)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid schedule configuration")
	}

	bookingRepo := postgres.NewBookingRepository(db)
	bookingSource := availabilityService.NewRepositorySource(bookingRepo)
	calendarClient := calendar.NewClient(cfg.Calendar, appLogger)

	availabilitySvc := availabilityService.NewService(
		engine,
		bookingSource,
		calendarClient,
		cfg.Schedule.HorizonDays,
		appLogger,
		appMetrics,
	)

	pricingEntries := make([]pricing.Entry, 0, len(cfg.Pricing.Regions))
	for _, region := range cfg.Pricing.Regions {
		pricingEntries = append(pricingEntries, pricing.Entry{
			Timezones: region.Timezones,
			Price:     region.Price,
		})
	}
	pricingResolver := pricing.NewResolver(pricingEntries, cfg.Pricing.Default)

	broker, err := redis.NewRedisBroker(redis.Config{URL: cfg.Redis.URL}, appLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	emailSvc := email.NewSMTPService(cfg.SMTP)

	bookingSvc := bookingService.NewService(
		bookingRepo,
		availabilitySvc,
		emailSvc,
		broker,
		appLogger,
		appMetrics,
	)

	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)

	availabilityH := availabilityHandler.NewHandler(availabilitySvc, pricingResolver, cfg.Schedule.HomeTimezone)
	bookingH := bookingHandler.NewHandler(bookingSvc)
	healthH := handler.NewHealthHandler(db)

	r := router.New(
		authMiddleware,
		availabilityH,
		bookingH,
		healthH,
		appLogger,
		router.Config{
			RateLimitRPS:   float64(cfg.Server.RateLimitRPS),
			RateLimitBurst: cfg.Server.RateLimitBurst,
			Timeout:        time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
			CORS:           middleware.DefaultCORSConfig(),
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		appLogger.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	appLogger.Info().Msg("server exited properly")
}
