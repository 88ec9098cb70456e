package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/arogyahq/booking-api/internal/email"
	"github.com/arogyahq/booking-api/internal/model"
	"github.com/arogyahq/booking-api/internal/repository"
	"github.com/arogyahq/booking-api/internal/service/availability"
	apperrors "github.com/arogyahq/booking-api/pkg/errors"
	"github.com/arogyahq/booking-api/pkg/messaging"
	"github.com/arogyahq/booking-api/pkg/metrics"
)

const (
	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"
)

// Service owns the booking lifecycle. Every creation re-validates the chosen
// slot through the availability engine, so a slot taken between the patient's
// page load and their confirmation is rejected rather than double-booked.
type Service struct {
	repo         repository.BookingRepository
	availability *availability.Service
	email        email.Service
	broker       messaging.Broker
	logger       zerolog.Logger
	metrics      *metrics.Metrics
}

func NewService(repo repository.BookingRepository, avail *availability.Service, emailSvc email.Service, broker messaging.Broker, logger zerolog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		repo:         repo,
		availability: avail,
		email:        emailSvc,
		broker:       broker,
		logger:       logger.With().Str("service", "booking").Logger(),
		metrics:      m,
	}
}

func (s *Service) CreateBooking(ctx context.Context, patientID uuid.UUID, req *model.CreateBookingRequest, state model.CalendarConnectionState) (*model.Booking, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, apperrors.BadRequest("invalid date format, expected YYYY-MM-DD", err)
	}

	need, err := s.availability.Engine().SlotsRequired(req.Kind)
	if err != nil {
		return nil, apperrors.BadRequest(err.Error(), err)
	}

	verdicts, err := s.availability.GetDayAvailability(ctx, date, req.Kind, state)
	if err != nil {
		return nil, err
	}

	verdict, found := verdictFor(verdicts, req.StartTime)
	if !found {
		s.rejected("unknown_slot")
		return nil, apperrors.BadRequest(fmt.Sprintf("slot %q is not within operating hours", req.StartTime), nil)
	}
	if !verdict.Available {
		s.rejected(string(verdict.Reason))
		return nil, apperrors.Conflict(fmt.Sprintf("slot %s is not available: %s", req.StartTime, verdict.Reason), nil)
	}

	booking := &model.Booking{
		PatientID:     patientID,
		PatientEmail:  req.PatientEmail,
		PatientName:   req.PatientName,
		Date:          date,
		StartTime:     req.StartTime,
		DurationSlots: need,
		Kind:          req.Kind,
		Status:        model.BookingStatusConfirmed,
		Timezone:      req.Timezone,
		Notes:         req.Notes,
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	if s.metrics != nil {
		s.metrics.BookingsCreated.Inc()
	}

	s.notify(ctx, EventBookingCreated, booking, s.email.SendConfirmation)
	return booking, nil
}

func (s *Service) GetBooking(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListBookings(ctx context.Context, filters *model.BookingFilters) ([]*model.Booking, error) {
	bookings, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func (s *Service) CancelBooking(ctx context.Context, id uuid.UUID, reason string) (*model.Booking, error) {
	booking, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.Status == model.BookingStatusCancelled {
		return nil, apperrors.Conflict("booking is already cancelled", nil)
	}
	if booking.Status == model.BookingStatusCompleted {
		return nil, apperrors.Conflict("completed bookings cannot be cancelled", nil)
	}

	booking.Status = model.BookingStatusCancelled
	if reason != "" {
		booking.CancelReason = &reason
	}

	if err := s.repo.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}
	if s.metrics != nil {
		s.metrics.BookingsCancelled.Inc()
	}

	s.notify(ctx, EventBookingCancelled, booking, s.email.SendCancellation)
	return booking, nil
}

// notify publishes the lifecycle event and sends the patient email. Both are
// best effort; a booking that is already persisted must not be failed by its
// side channels.
func (s *Service) notify(ctx context.Context, event string, booking *model.Booking, send func(context.Context, *model.Booking) error) {
	if s.broker != nil {
		if err := s.broker.Publish(ctx, event, booking); err != nil {
			s.logger.Warn().Err(err).Str("event", event).Str("booking_id", booking.ID.String()).Msg("failed to publish booking event")
		}
	}
	if s.email != nil {
		if err := send(ctx, booking); err != nil {
			s.logger.Warn().Err(err).Str("booking_id", booking.ID.String()).Msg("failed to send booking email")
		}
	}
}

func (s *Service) rejected(reason string) {
	if s.metrics != nil {
		s.metrics.BookingsRejected.WithLabelValues(reason).Inc()
	}
}

func verdictFor(verdicts []model.SlotVerdict, slot string) (model.SlotVerdict, bool) {
	for _, v := range verdicts {
		if v.Time == slot {
			return v, true
		}
	}
	return model.SlotVerdict{}, false
}
