package model

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// Booking is a confirmed appointment occupying one or more consecutive slots
// on a date. Date is midnight in the provider's home timezone; StartTime is
// the slot label ("09:30").
type Booking struct {
	Base
	PatientID     uuid.UUID        `db:"patient_id" json:"patient_id"`
	PatientEmail  string           `db:"patient_email" json:"patient_email"`
	PatientName   string           `db:"patient_name" json:"patient_name"`
	Date          time.Time        `db:"date" json:"date"`
	StartTime     string           `db:"start_time" json:"start_time"`
	DurationSlots int              `db:"duration_slots" json:"duration_slots"`
	Kind          ConsultationKind `db:"kind" json:"kind"`
	Status        BookingStatus    `db:"status" json:"status"`
	Timezone      string           `db:"timezone" json:"timezone"`
	Notes         string           `db:"notes" json:"notes,omitempty"`
	CancelReason  *string          `db:"cancel_reason" json:"cancel_reason,omitempty"`
}

type CreateBookingRequest struct {
	PatientEmail string           `json:"patient_email" binding:"required,email"`
	PatientName  string           `json:"patient_name" binding:"required,max=200"`
	Date         string           `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime    string           `json:"start_time" binding:"required"`
	Kind         ConsultationKind `json:"kind" binding:"required"`
	Timezone     string           `json:"timezone" binding:"required"`
	Notes        string           `json:"notes" binding:"max=1000"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

type BookingFilters struct {
	PatientID uuid.UUID
	Status    BookingStatus
	StartDate time.Time
	EndDate   time.Time
}
