package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arogyahq/booking-api/internal/model"
)

var testWindow = model.OperatingWindow{StartHour: 9, EndHour: 18, SlotMinutes: 30}

var testKinds = map[model.ConsultationKind]int{
	model.ConsultationFollowUp: 1,
	model.ConsultationInitial:  2,
	model.ConsultationUrgent:   2,
}

func newTestEngine(t *testing.T, now time.Time) *Engine {
	t.Helper()
	engine, err := NewEngine(EngineConfig{
		Window:        testWindow,
		Kinds:         testKinds,
		BufferMinutes: 60,
	}, func() time.Time { return now })
	require.NoError(t, err)
	return engine
}

// feed builds a full-window availability feed with the given labels marked
// unavailable.
func feed(engine *Engine, unavailable ...string) []model.SlotAvailability {
	taken := make(map[string]bool, len(unavailable))
	for _, l := range unavailable {
		taken[l] = true
	}
	labels := engine.SlotLabels()
	out := make([]model.SlotAvailability, len(labels))
	for i, l := range labels {
		out[i] = model.SlotAvailability{Time: l, Available: !taken[l]}
	}
	return out
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewEngineConfigValidation(t *testing.T) {
	now := func() time.Time { return time.Now() }

	tests := []struct {
		name string
		cfg  EngineConfig
	}{
		{"start after end", EngineConfig{
			Window: model.OperatingWindow{StartHour: 18, EndHour: 9, SlotMinutes: 30},
			Kinds:  testKinds,
		}},
		{"granularity does not divide window", EngineConfig{
			Window: model.OperatingWindow{StartHour: 9, EndHour: 18, SlotMinutes: 50},
			Kinds:  testKinds,
		}},
		{"zero-slot kind", EngineConfig{
			Window: testWindow,
			Kinds:  map[model.ConsultationKind]int{model.ConsultationFollowUp: 0},
		}},
		{"no kinds", EngineConfig{
			Window: testWindow,
			Kinds:  map[model.ConsultationKind]int{},
		}},
		{"negative buffer", EngineConfig{
			Window:        testWindow,
			Kinds:         testKinds,
			BufferMinutes: -10,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEngine(tt.cfg, now)
			assert.Error(t, err)
		})
	}
}

func TestSlotLabelsCoverWindow(t *testing.T) {
	engine := newTestEngine(t, day(2026, time.March, 10))
	labels := engine.SlotLabels()

	require.Len(t, labels, 18)
	assert.Equal(t, "09:00", labels[0])
	assert.Equal(t, "09:30", labels[1])
	assert.Equal(t, "17:30", labels[17])

	seen := make(map[string]bool)
	for _, l := range labels {
		assert.False(t, seen[l], "duplicate label %s", l)
		seen[l] = true
	}
}

func TestEvaluateDayReturnsOneVerdictPerSlot(t *testing.T) {
	now := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	engine := newTestEngine(t, now)

	verdicts, err := engine.EvaluateDay(day(2026, time.March, 10), model.ConsultationFollowUp, DayData{
		Bookings: feed(engine, "12:00"),
	})
	require.NoError(t, err)

	require.Len(t, verdicts, 18)
	for i, label := range engine.SlotLabels() {
		assert.Equal(t, label, verdicts[i].Time)
	}
}

func TestEvaluateDayAllAvailableMorningOfSameDay(t *testing.T) {
	// 08:00 with a 60-minute buffer: the 09:00 opener is exactly at the
	// buffer boundary and bookable.
	now := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	engine := newTestEngine(t, now)

	verdicts, err := engine.EvaluateDay(day(2026, time.March, 10), model.ConsultationFollowUp, DayData{
		Bookings: feed(engine),
	})
	require.NoError(t, err)

	require.Len(t, verdicts, 18)
	for _, v := range verdicts {
		assert.True(t, v.Available, "slot %s should be available", v.Time)
		assert.Empty(t, v.Reason)
	}
}

func TestEvaluateDayPastDateAlwaysPastTime(t *testing.T) {
	now := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	engine := newTestEngine(t, now)

	// Booking and busy data must not matter for a date behind us.
	verdicts, err := engine.EvaluateDay(day(2026, time.March, 9), model.ConsultationFollowUp, DayData{
		Bookings: feed(engine, "12:00"),
		Busy:     []string{"14:00"},
	})
	require.NoError(t, err)

	for _, v := range verdicts {
		assert.False(t, v.Available)
		assert.Equal(t, model.ReasonPastTime, v.Reason)
	}
}

func TestEvaluateDayAdvanceBufferBoundary(t *testing.T) {
	now := time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC)
	engine := newTestEngine(t, now)

	verdicts, err := engine.EvaluateDay(day(2026, time.March, 10), model.ConsultationFollowUp, DayData{
		Bookings: feed(engine),
	})
	require.NoError(t, err)

	byTime := verdictMap(verdicts)

	// Under the buffer: 10:30 starts 30 minutes out.
	assert.False(t, byTime["10:30"].Available)
	assert.Equal(t, model.ReasonPastTime, byTime["10:30"].Reason)

	// Exactly at the buffer is bookable.
	assert.True(t, byTime["11:00"].Available)
	assert.True(t, byTime["11:30"].Available)

	// Earlier slots are gone too.
	assert.False(t, byTime["09:00"].Available)
	assert.Equal(t, model.ReasonPastTime, byTime["09:00"].Reason)
}

func TestEvaluateDayFutureDateIgnoresBuffer(t *testing.T) {
	now := time.Date(2026, time.March, 10, 17, 45, 0, 0, time.UTC)
	engine := newTestEngine(t, now)

	verdicts, err := engine.EvaluateDay(day(2026, time.March, 11), model.ConsultationFollowUp, DayData{
		Bookings: feed(engine),
	})
	require.NoError(t, err)

	for _, v := range verdicts {
		assert.True(t, v.Available, "slot %s on a future date should be available", v.Time)
	}
}

func TestEvaluateDayExistingBookings(t *testing.T) {
	now := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	engine := newTestEngine(t, now)

	verdicts, err := engine.EvaluateDay(day(2026, time.March, 10), model.ConsultationFollowUp, DayData{
		Bookings: feed(engine, "12:00", "12:30"),
	})
	require.NoError(t, err)

	byTime := verdictMap(verdicts)
	assert.Equal(t, model.ReasonAlreadyBooked, byTime["12:00"].Reason)
	assert.Equal(t, model.ReasonAlreadyBooked, byTime["12:30"].Reason)

	available := 0
	for _, v := range verdicts {
		if v.Available {
			available++
		}
	}
	assert.Equal(t, 16, available)
}

func TestEvaluateDayConsecutiveSlotRequirement(t *testing.T) {
	now := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	engine := newTestEngine(t, now)

	verdicts, err := engine.EvaluateDay(day(2026, time.March, 10), model.ConsultationInitial, DayData{
		Bookings: feed(engine),
		Busy:     []string{"14:00"},
	})
	require.NoError(t, err)

	byTime := verdictMap(verdicts)

	// 13:30 needs 14:00 as its second slot; both report the conflict.
	assert.Equal(t, model.ReasonCalendarConflict, byTime["13:30"].Reason)
	assert.Equal(t, model.ReasonCalendarConflict, byTime["14:00"].Reason)

	// 14:30 pairs with 15:00, which is free.
	assert.True(t, byTime["14:30"].Available)

	// The day's last slot has no successor.
	assert.Equal(t, model.ReasonInsufficientWindow, byTime["17:30"].Reason)
}

func TestEvaluateDayBookedWinsOverCalendarConflict(t *testing.T) {
	now := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	engine := newTestEngine(t, now)

	verdicts, err := engine.EvaluateDay(day(2026, time.March, 10), model.ConsultationFollowUp, DayData{
		Bookings: feed(engine, "15:00"),
		Busy:     []string{"15:00"},
	})
	require.NoError(t, err)

	byTime := verdictMap(verdicts)
	assert.Equal(t, model.ReasonAlreadyBooked, byTime["15:00"].Reason)
}

func TestEvaluateDayIgnoresMalformedBusyLabels(t *testing.T) {
	now := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	engine := newTestEngine(t, now)

	verdicts, err := engine.EvaluateDay(day(2026, time.March, 10), model.ConsultationFollowUp, DayData{
		Bookings: feed(engine),
		Busy:     []string{"9am", "25:99", "", "garbage"},
	})
	require.NoError(t, err)

	for _, v := range verdicts {
		assert.True(t, v.Available, "malformed busy labels must be a no-op, slot %s", v.Time)
	}
}

func TestEvaluateDayUnknownKind(t *testing.T) {
	engine := newTestEngine(t, time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC))

	_, err := engine.EvaluateDay(day(2026, time.March, 10), "walkin", DayData{Bookings: feed(engine)})
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	now := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	engine := newTestEngine(t, now)

	verdicts, err := engine.EvaluateDay(day(2026, time.March, 10), model.ConsultationFollowUp, DayData{
		Bookings: feed(engine, "12:00", "12:30"),
	})
	require.NoError(t, err)

	summary := Summarize(day(2026, time.March, 10), verdicts)
	assert.Equal(t, "2026-03-10", summary.Date)
	assert.Equal(t, 18, summary.TotalSlots)
	assert.Equal(t, 16, summary.AvailableSlots)
	assert.False(t, summary.SoldOut())

	past := engine.PastDaySummary(day(2026, time.March, 1))
	assert.Equal(t, 18, past.TotalSlots)
	assert.Equal(t, 0, past.AvailableSlots)
	assert.True(t, past.SoldOut())
}

func TestFindNextAvailableReturnsFirstOpenSlot(t *testing.T) {
	now := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	engine := newTestEngine(t, now)

	// Day one fully booked, day two open from 09:30.
	fullDay := engine.SlotLabels()
	fetched := 0
	fetch := func(date time.Time) (DayData, error) {
		fetched++
		if date.Equal(day(2026, time.March, 10)) {
			return DayData{Bookings: feed(engine, fullDay...)}, nil
		}
		return DayData{Bookings: feed(engine, "09:00")}, nil
	}

	slot, err := engine.FindNextAvailable(day(2026, time.March, 10), model.ConsultationFollowUp, 60, fetch)
	require.NoError(t, err)
	require.NotNil(t, slot)
	assert.Equal(t, day(2026, time.March, 11), slot.Date)
	assert.Equal(t, "09:30", slot.Time)
	assert.Equal(t, 2, fetched)
}

func TestFindNextAvailableRespectsHorizon(t *testing.T) {
	now := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	engine := newTestEngine(t, now)

	fullDay := engine.SlotLabels()
	fetched := 0
	fetch := func(time.Time) (DayData, error) {
		fetched++
		return DayData{Bookings: feed(engine, fullDay...)}, nil
	}

	slot, err := engine.FindNextAvailable(day(2026, time.March, 10), model.ConsultationFollowUp, 5, fetch)
	require.NoError(t, err)
	assert.Nil(t, slot)
	assert.LessOrEqual(t, fetched, 5)
}

func TestFindNextAvailableSkipsPastDaysWithoutFetching(t *testing.T) {
	now := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	engine := newTestEngine(t, now)

	fetched := 0
	fetch := func(time.Time) (DayData, error) {
		fetched++
		return DayData{Bookings: feed(engine)}, nil
	}

	slot, err := engine.FindNextAvailable(day(2026, time.March, 5), model.ConsultationFollowUp, 10, fetch)
	require.NoError(t, err)
	require.NotNil(t, slot)
	assert.Equal(t, day(2026, time.March, 10), slot.Date)
	assert.Equal(t, 1, fetched)
}

func verdictMap(verdicts []model.SlotVerdict) map[string]model.SlotVerdict {
	m := make(map[string]model.SlotVerdict, len(verdicts))
	for _, v := range verdicts {
		m[v.Time] = v
	}
	return m
}
