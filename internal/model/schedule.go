package model

import (
	"fmt"
	"time"
)

// OperatingWindow describes the provider's bookable hours for a day,
// expressed in the provider's home timezone.
type OperatingWindow struct {
	StartHour   int `json:"start_hour"`
	EndHour     int `json:"end_hour"`
	SlotMinutes int `json:"slot_minutes"`
}

// Validate checks the window invariants: start before end and a granularity
// that divides the window evenly.
func (w OperatingWindow) Validate() error {
	if w.StartHour < 0 || w.EndHour > 24 || w.StartHour >= w.EndHour {
		return fmt.Errorf("operating window start hour %d must be before end hour %d", w.StartHour, w.EndHour)
	}
	if w.SlotMinutes <= 0 {
		return fmt.Errorf("slot granularity must be positive, got %d", w.SlotMinutes)
	}
	if ((w.EndHour-w.StartHour)*60)%w.SlotMinutes != 0 {
		return fmt.Errorf("slot granularity %dm does not divide the %d-%d window evenly", w.SlotMinutes, w.StartHour, w.EndHour)
	}
	return nil
}

// SlotCount returns the number of slots the window holds.
func (w OperatingWindow) SlotCount() int {
	return (w.EndHour - w.StartHour) * 60 / w.SlotMinutes
}

// ConsultationKind identifies a category of appointment. The number of
// consecutive slots each kind occupies is configuration, not a property of
// the kind itself.
type ConsultationKind string

const (
	ConsultationInitial  ConsultationKind = "initial"
	ConsultationFollowUp ConsultationKind = "followup"
	ConsultationUrgent   ConsultationKind = "urgent"
)

// UnavailableReason explains why a slot cannot host a consultation.
type UnavailableReason string

const (
	ReasonAlreadyBooked      UnavailableReason = "already_booked"
	ReasonCalendarConflict   UnavailableReason = "calendar_conflict"
	ReasonInsufficientWindow UnavailableReason = "insufficient_window"
	ReasonPastTime           UnavailableReason = "past_time"
)

// SlotVerdict is the engine's per-slot decision. Reason is empty when the
// slot is available.
type SlotVerdict struct {
	Time      string            `json:"time"`
	Available bool              `json:"available"`
	Reason    UnavailableReason `json:"reason,omitempty"`
}

// SlotAvailability is the shape the booking store feeds the engine: one entry
// per slot label covering the full operating window.
type SlotAvailability struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// DayAvailabilitySummary aggregates one day's verdicts for the month grid.
type DayAvailabilitySummary struct {
	Date           string `json:"date"`
	AvailableSlots int    `json:"available_slots"`
	TotalSlots     int    `json:"total_slots"`
}

// SoldOut reports whether the day has no bookable slot left.
func (s DayAvailabilitySummary) SoldOut() bool {
	return s.AvailableSlots == 0
}

// NextAvailableSlot is the result of a forward availability search.
type NextAvailableSlot struct {
	Date time.Time `json:"date"`
	Time string    `json:"time"`
}

// CalendarConnectionState tells the availability service whether the
// provider's external calendar is linked and should be consulted. Passed as a
// value with each query so evaluations stay independent.
type CalendarConnectionState struct {
	Connected  bool   `json:"connected"`
	CalendarID string `json:"calendar_id,omitempty"`
}
