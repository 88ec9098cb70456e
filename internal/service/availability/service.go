package availability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/arogyahq/booking-api/internal/model"
	"github.com/arogyahq/booking-api/pkg/metrics"
)

// BookingSource feeds the engine the booking store's slot-level availability
// for a date, one entry per slot label of the operating window.
type BookingSource interface {
	DayAvailability(ctx context.Context, date time.Time, labels []string) ([]model.SlotAvailability, error)
}

// BusySource feeds the engine the connected calendar's busy slot labels for a
// date.
type BusySource interface {
	BusySlots(ctx context.Context, state model.CalendarConnectionState, date time.Time) ([]string, error)
}

// Service orchestrates the pure engine with the external data sources. A
// calendar fetch failure degrades to "no known conflicts" rather than failing
// the query; booking store failures propagate because verdicts computed
// without them would offer slots that are already taken.
type Service struct {
	engine      *Engine
	bookings    BookingSource
	calendar    BusySource
	horizonDays int
	logger      zerolog.Logger
	metrics     *metrics.Metrics
}

func NewService(engine *Engine, bookings BookingSource, calendar BusySource, horizonDays int, logger zerolog.Logger, m *metrics.Metrics) *Service {
	if horizonDays <= 0 {
		horizonDays = 60
	}
	return &Service{
		engine:      engine,
		bookings:    bookings,
		calendar:    calendar,
		horizonDays: horizonDays,
		logger:      logger.With().Str("service", "availability").Logger(),
		metrics:     m,
	}
}

// Engine exposes the underlying engine for callers that re-validate chosen
// slots, such as booking creation.
func (s *Service) Engine() *Engine {
	return s.engine
}

// GetDayAvailability returns the full verdict grid for one date.
func (s *Service) GetDayAvailability(ctx context.Context, date time.Time, kind model.ConsultationKind, state model.CalendarConnectionState) ([]model.SlotVerdict, error) {
	start := time.Now()
	data, err := s.fetchDayData(ctx, date, state)
	if err != nil {
		return nil, err
	}

	verdicts, err := s.engine.EvaluateDay(date, kind, data)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ObserveEvaluation(string(kind), time.Since(start))
	}
	return verdicts, nil
}

// GetMonthAvailability evaluates every date of the visible month and returns
// summaries keyed by date. Day evaluations are independent and run
// concurrently; past days are summarized without data lookups.
func (s *Service) GetMonthAvailability(ctx context.Context, year int, month time.Month, kind model.ConsultationKind, state model.CalendarConnectionState) (map[string]model.DayAvailabilitySummary, error) {
	if _, err := s.engine.SlotsRequired(kind); err != nil {
		return nil, err
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	summaries := make(map[string]model.DayAvailabilitySummary, daysInMonth)
	var mu sync.Mutex
	var wg sync.WaitGroup
	var firstErr error

	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)

		if s.engine.IsPastDay(date) {
			summary := s.engine.PastDaySummary(date)
			summaries[summary.Date] = summary
			continue
		}

		wg.Add(1)
		go func(date time.Time) {
			defer wg.Done()
			verdicts, err := s.GetDayAvailability(ctx, date, kind, state)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			summary := Summarize(date, verdicts)
			summaries[summary.Date] = summary
		}(date)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, fmt.Errorf("failed to summarize month: %w", firstErr)
	}
	return summaries, nil
}

// GetNextAvailable searches forward from start for the earliest bookable slot
// within the configured horizon. A nil result means nothing is available in
// range, which is a normal outcome.
func (s *Service) GetNextAvailable(ctx context.Context, start time.Time, kind model.ConsultationKind, state model.CalendarConnectionState) (*model.NextAvailableSlot, error) {
	return s.engine.FindNextAvailable(start, kind, s.horizonDays, func(date time.Time) (DayData, error) {
		return s.fetchDayData(ctx, date, state)
	})
}

func (s *Service) fetchDayData(ctx context.Context, date time.Time, state model.CalendarConnectionState) (DayData, error) {
	bookings, err := s.bookings.DayAvailability(ctx, date, s.engine.SlotLabels())
	if err != nil {
		return DayData{}, fmt.Errorf("failed to fetch day bookings: %w", err)
	}

	var busy []string
	if state.Connected {
		busy, err = s.calendar.BusySlots(ctx, state, date)
		if err != nil {
			// Degrade to no known conflicts; the calendar is a best-effort
			// source and must not take the booking flow down with it.
			s.logger.Warn().Err(err).Str("date", date.Format("2006-01-02")).Msg("calendar fetch failed, treating day as conflict-free")
			if s.metrics != nil {
				s.metrics.CalendarFetchFailures.Inc()
			}
			busy = nil
		}
	}

	return DayData{Bookings: bookings, Busy: busy}, nil
}
