package availability

import (
	"fmt"
	"time"

	"github.com/arogyahq/booking-api/internal/model"
)

// Engine computes per-slot availability verdicts for a day. It is a pure
// function of its arguments plus an injectable clock: no I/O, no retries, no
// state shared between evaluations.
type Engine struct {
	window model.OperatingWindow
	kinds  map[model.ConsultationKind]int
	buffer time.Duration
	now    func() time.Time

	labels []string
	index  map[string]int
}

// EngineConfig is the deployment-time schedule configuration. Violations are
// configuration errors and fail at construction, never per query.
type EngineConfig struct {
	Window        model.OperatingWindow
	Kinds         map[model.ConsultationKind]int
	BufferMinutes int
}

func NewEngine(cfg EngineConfig, now func() time.Time) (*Engine, error) {
	if err := cfg.Window.Validate(); err != nil {
		return nil, fmt.Errorf("invalid operating window: %w", err)
	}
	if len(cfg.Kinds) == 0 {
		return nil, fmt.Errorf("at least one consultation kind must be configured")
	}
	for kind, need := range cfg.Kinds {
		if need < 1 {
			return nil, fmt.Errorf("consultation kind %q requires %d slots, minimum is 1", kind, need)
		}
	}
	if cfg.BufferMinutes < 0 {
		return nil, fmt.Errorf("advance booking buffer cannot be negative")
	}
	if now == nil {
		now = time.Now
	}

	labels := generateSlotLabels(cfg.Window)
	index := make(map[string]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}

	return &Engine{
		window: cfg.Window,
		kinds:  cfg.Kinds,
		buffer: time.Duration(cfg.BufferMinutes) * time.Minute,
		now:    now,
		labels: labels,
		index:  index,
	}, nil
}

// SlotLabels returns the ordered slot-start labels of the operating window.
// The returned slice is shared; callers must not mutate it.
func (e *Engine) SlotLabels() []string {
	return e.labels
}

// Window returns the configured operating window.
func (e *Engine) Window() model.OperatingWindow {
	return e.window
}

// SlotsRequired returns the consecutive-slot requirement for a kind, or an
// error for a kind the deployment does not offer.
func (e *Engine) SlotsRequired(kind model.ConsultationKind) (int, error) {
	need, ok := e.kinds[kind]
	if !ok {
		return 0, fmt.Errorf("unknown consultation kind %q", kind)
	}
	return need, nil
}

// DayData is the externally fetched state for one date: the booking store's
// slot-level availability feed and the connected calendar's busy labels. Busy
// labels that match no generated slot are ignored.
type DayData struct {
	Bookings []model.SlotAvailability
	Busy     []string
}

// EvaluateDay returns one verdict per slot of the operating window, in slot
// order, disabled slots included. Absence of availability is a normal
// outcome, not an error; the only error is an unconfigured consultation kind.
func (e *Engine) EvaluateDay(date time.Time, kind model.ConsultationKind, data DayData) ([]model.SlotVerdict, error) {
	need, err := e.SlotsRequired(kind)
	if err != nil {
		return nil, err
	}

	now := e.now()
	verdicts := make([]model.SlotVerdict, len(e.labels))

	// Past dates are never offered, whatever the booking or calendar data says.
	if beforeDay(date, now) {
		for i, label := range e.labels {
			verdicts[i] = model.SlotVerdict{Time: label, Reason: model.ReasonPastTime}
		}
		return verdicts, nil
	}

	booked := make(map[string]bool, len(data.Bookings))
	for _, b := range data.Bookings {
		if !b.Available {
			booked[b.Time] = true
		}
	}
	busy := make(map[string]bool, len(data.Busy))
	for _, label := range data.Busy {
		busy[label] = true
	}

	for i, label := range e.labels {
		verdicts[i] = e.evaluateSlot(i, label, need, date, now, booked, busy)
	}
	return verdicts, nil
}

func (e *Engine) evaluateSlot(i int, label string, need int, date, now time.Time, booked, busy map[string]bool) model.SlotVerdict {
	if i+need > len(e.labels) {
		return model.SlotVerdict{Time: label, Reason: model.ReasonInsufficientWindow}
	}

	// Existing-booking check runs before the calendar check, so a slot
	// failing both reports already_booked.
	for j := i; j < i+need; j++ {
		if booked[e.labels[j]] {
			return model.SlotVerdict{Time: label, Reason: model.ReasonAlreadyBooked}
		}
		if busy[e.labels[j]] {
			return model.SlotVerdict{Time: label, Reason: model.ReasonCalendarConflict}
		}
	}

	if sameDay(date, now) && !e.pastBuffer(label, now) {
		return model.SlotVerdict{Time: label, Reason: model.ReasonPastTime}
	}

	return model.SlotVerdict{Time: label, Available: true}
}

// pastBuffer reports whether the slot's clock time on today's date is at or
// beyond the advance-booking buffer past now.
func (e *Engine) pastBuffer(label string, now time.Time) bool {
	hour, min := splitLabel(label)
	slot := time.Date(now.Year(), now.Month(), now.Day(), hour, min, 0, 0, now.Location())
	return !slot.Before(now.Add(e.buffer))
}

// Summarize reduces a day's verdicts to the counts the month grid needs.
func Summarize(date time.Time, verdicts []model.SlotVerdict) model.DayAvailabilitySummary {
	summary := model.DayAvailabilitySummary{
		Date:       date.Format("2006-01-02"),
		TotalSlots: len(verdicts),
	}
	for _, v := range verdicts {
		if v.Available {
			summary.AvailableSlots++
		}
	}
	return summary
}

// PastDaySummary is the zero-lookup summary for dates already behind us.
func (e *Engine) PastDaySummary(date time.Time) model.DayAvailabilitySummary {
	return model.DayAvailabilitySummary{
		Date:       date.Format("2006-01-02"),
		TotalSlots: len(e.labels),
	}
}

// IsPastDay reports whether date falls strictly before the clock's today.
func (e *Engine) IsPastDay(date time.Time) bool {
	return beforeDay(date, e.now())
}

// FindNextAvailable walks forward from start one day at a time, evaluating at
// most horizonDays dates, and returns the first available slot or nil. fetch
// supplies each date's booking and busy data.
func (e *Engine) FindNextAvailable(start time.Time, kind model.ConsultationKind, horizonDays int, fetch func(time.Time) (DayData, error)) (*model.NextAvailableSlot, error) {
	if _, err := e.SlotsRequired(kind); err != nil {
		return nil, err
	}

	date := start
	for day := 0; day < horizonDays; day++ {
		if e.IsPastDay(date) {
			date = date.AddDate(0, 0, 1)
			continue
		}
		data, err := fetch(date)
		if err != nil {
			return nil, err
		}
		verdicts, err := e.EvaluateDay(date, kind, data)
		if err != nil {
			return nil, err
		}
		for _, v := range verdicts {
			if v.Available {
				return &model.NextAvailableSlot{Date: date, Time: v.Time}, nil
			}
		}
		date = date.AddDate(0, 0, 1)
	}
	return nil, nil
}

func generateSlotLabels(w model.OperatingWindow) []string {
	labels := make([]string, 0, w.SlotCount())
	for minutes := w.StartHour * 60; minutes < w.EndHour*60; minutes += w.SlotMinutes {
		labels = append(labels, fmt.Sprintf("%02d:%02d", minutes/60, minutes%60))
	}
	return labels
}

func splitLabel(label string) (hour, min int) {
	fmt.Sscanf(label, "%d:%d", &hour, &min)
	return hour, min
}

func beforeDay(date, now time.Time) bool {
	y1, m1, d1 := date.Date()
	y2, m2, d2 := now.Date()
	if y1 != y2 {
		return y1 < y2
	}
	if m1 != m2 {
		return m1 < m2
	}
	return d1 < d2
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
