package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/arogyahq/booking-api/internal/email"
	"github.com/arogyahq/booking-api/internal/model"
	"github.com/arogyahq/booking-api/internal/repository"
)

// ReminderWorker emails patients a day ahead of their confirmed
// consultations. Sends are idempotent per run but not deduplicated across
// runs; the interval should stay coarse enough that a booking is reminded
// once.
type ReminderWorker struct {
	repo     repository.BookingRepository
	email    email.Service
	logger   zerolog.Logger
	interval time.Duration
}

func NewReminderWorker(repo repository.BookingRepository, emailSvc email.Service, logger zerolog.Logger, interval time.Duration) *ReminderWorker {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &ReminderWorker{
		repo:     repo,
		email:    emailSvc,
		logger:   logger.With().Str("worker", "reminder").Logger(),
		interval: interval,
	}
}

func (w *ReminderWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.run(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.run(ctx)
		}
	}
}

func (w *ReminderWorker) run(ctx context.Context) {
	tomorrow := time.Now().AddDate(0, 0, 1)
	date := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 0, 0, 0, 0, time.UTC)

	bookings, err := w.repo.ListByDate(ctx, date)
	if err != nil {
		w.logger.Error().Err(err).Msg("failed to list bookings for reminders")
		return
	}

	sent := 0
	for _, booking := range bookings {
		if booking.Status != model.BookingStatusConfirmed {
			continue
		}
		if err := w.email.SendConfirmation(ctx, booking); err != nil {
			w.logger.Warn().Err(err).Str("booking_id", booking.ID.String()).Msg("failed to send reminder")
			continue
		}
		sent++
	}

	w.logger.Info().Str("date", date.Format("2006-01-02")).Int("sent", sent).Msg("reminder run complete")
}
