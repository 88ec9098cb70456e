package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/arogyahq/booking-api/internal/model"
	"github.com/arogyahq/booking-api/internal/repository"
	apperrors "github.com/arogyahq/booking-api/pkg/errors"
)

type bookingRepository struct {
	db *sqlx.DB
}

func NewBookingRepository(db *sqlx.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (
			id, patient_id, patient_email, patient_name,
			date, start_time, duration_slots, kind, status,
			timezone, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	booking.ID = uuid.New()
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		booking.ID,
		booking.PatientID,
		booking.PatientEmail,
		booking.PatientName,
		booking.Date,
		booking.StartTime,
		booking.DurationSlots,
		booking.Kind,
		booking.Status,
		booking.Timezone,
		booking.Notes,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *bookingRepository) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `
		SELECT id, patient_id, patient_email, patient_name,
			   date, start_time, duration_slots, kind, status,
			   timezone, notes, cancel_reason, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`
	var booking model.Booking
	err := r.db.GetContext(ctx, &booking, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("booking", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

func (r *bookingRepository) Update(ctx context.Context, booking *model.Booking) error {
	query := `
		UPDATE bookings
		SET status = $1, notes = $2, cancel_reason = $3, updated_at = $4
		WHERE id = $5
	`
	booking.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		booking.Status,
		booking.Notes,
		booking.CancelReason,
		booking.UpdatedAt,
		booking.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("booking", nil)
	}
	return nil
}

func (r *bookingRepository) List(ctx context.Context, filters *model.BookingFilters) ([]*model.Booking, error) {
	query := `
		SELECT id, patient_id, patient_email, patient_name,
			   date, start_time, duration_slots, kind, status,
			   timezone, notes, cancel_reason, created_at, updated_at
		FROM bookings
		WHERE 1=1
	`
	args := []interface{}{}
	argNum := 1

	if filters.PatientID != uuid.Nil {
		query += fmt.Sprintf(" AND patient_id = $%d", argNum)
		args = append(args, filters.PatientID)
		argNum++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, filters.Status)
		argNum++
	}
	if !filters.StartDate.IsZero() {
		query += fmt.Sprintf(" AND date >= $%d", argNum)
		args = append(args, filters.StartDate)
		argNum++
	}
	if !filters.EndDate.IsZero() {
		query += fmt.Sprintf(" AND date <= $%d", argNum)
		args = append(args, filters.EndDate)
		argNum++
	}

	query += " ORDER BY date, start_time"

	var bookings []*model.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// ListByDate returns the confirmed bookings occupying slots on a date.
// Cancelled bookings release their slots and are excluded.
func (r *bookingRepository) ListByDate(ctx context.Context, date time.Time) ([]*model.Booking, error) {
	query := `
		SELECT id, patient_id, patient_email, patient_name,
			   date, start_time, duration_slots, kind, status,
			   timezone, notes, cancel_reason, created_at, updated_at
		FROM bookings
		WHERE date = $1 AND status != $2
		ORDER BY start_time
	`
	var bookings []*model.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, date, model.BookingStatusCancelled); err != nil {
		return nil, fmt.Errorf("failed to list bookings for date: %w", err)
	}
	return bookings, nil
}
