package availability

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arogyahq/booking-api/internal/model"
)

type stubBookingRepo struct {
	bookings []*model.Booking
}

func (r *stubBookingRepo) Create(context.Context, *model.Booking) error { return nil }
func (r *stubBookingRepo) Get(context.Context, uuid.UUID) (*model.Booking, error) {
	return nil, nil
}
func (r *stubBookingRepo) Update(context.Context, *model.Booking) error { return nil }
func (r *stubBookingRepo) List(context.Context, *model.BookingFilters) ([]*model.Booking, error) {
	return nil, nil
}
func (r *stubBookingRepo) ListByDate(context.Context, time.Time) ([]*model.Booking, error) {
	return r.bookings, nil
}

func TestRepositorySourceMarksConsecutiveSlots(t *testing.T) {
	engine := newTestEngine(t, time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC))

	repo := &stubBookingRepo{bookings: []*model.Booking{
		{StartTime: "10:00", DurationSlots: 2},
		{StartTime: "15:30", DurationSlots: 1},
	}}
	source := NewRepositorySource(repo)

	slots, err := source.DayAvailability(context.Background(), day(2026, time.March, 10), engine.SlotLabels())
	require.NoError(t, err)
	require.Len(t, slots, 18)

	byTime := make(map[string]bool, len(slots))
	for _, s := range slots {
		byTime[s.Time] = s.Available
	}

	// The two-slot booking at 10:00 occupies 10:00 and 10:30.
	assert.False(t, byTime["10:00"])
	assert.False(t, byTime["10:30"])
	assert.True(t, byTime["11:00"])
	assert.False(t, byTime["15:30"])
	assert.True(t, byTime["09:00"])
}

func TestRepositorySourceIgnoresUnknownStartLabels(t *testing.T) {
	engine := newTestEngine(t, time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC))

	repo := &stubBookingRepo{bookings: []*model.Booking{
		{StartTime: "08:15", DurationSlots: 2},
	}}
	source := NewRepositorySource(repo)

	slots, err := source.DayAvailability(context.Background(), day(2026, time.March, 10), engine.SlotLabels())
	require.NoError(t, err)

	for _, s := range slots {
		assert.True(t, s.Available, "slot %s", s.Time)
	}
}

func TestRepositorySourceClampsDurationAtWindowEnd(t *testing.T) {
	engine := newTestEngine(t, time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC))

	repo := &stubBookingRepo{bookings: []*model.Booking{
		{StartTime: "17:30", DurationSlots: 3},
	}}
	source := NewRepositorySource(repo)

	slots, err := source.DayAvailability(context.Background(), day(2026, time.March, 10), engine.SlotLabels())
	require.NoError(t, err)

	byTime := make(map[string]bool, len(slots))
	for _, s := range slots {
		byTime[s.Time] = s.Available
	}
	assert.False(t, byTime["17:30"])
	assert.True(t, byTime["17:00"])
}
