package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/arogyahq/booking-api/internal/model"
)

// BookingRepository is the persistence contract for confirmed bookings.
type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	Get(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	Update(ctx context.Context, booking *model.Booking) error
	List(ctx context.Context, filters *model.BookingFilters) ([]*model.Booking, error)
	ListByDate(ctx context.Context, date time.Time) ([]*model.Booking, error)
}
