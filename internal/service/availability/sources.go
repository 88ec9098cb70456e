package availability

import (
	"context"
	"time"

	"github.com/arogyahq/booking-api/internal/model"
	"github.com/arogyahq/booking-api/internal/repository"
)

// RepositorySource adapts the booking store to the engine's slot-level
// availability feed: one entry per slot label, occupied slots marked
// unavailable. A booking's duration marks that many consecutive slots
// starting at its start label; labels outside the operating window are
// ignored.
type RepositorySource struct {
	repo repository.BookingRepository
}

func NewRepositorySource(repo repository.BookingRepository) *RepositorySource {
	return &RepositorySource{repo: repo}
}

func (s *RepositorySource) DayAvailability(ctx context.Context, date time.Time, labels []string) ([]model.SlotAvailability, error) {
	bookings, err := s.repo.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}

	occupied := make([]bool, len(labels))
	for _, b := range bookings {
		start, ok := index[b.StartTime]
		if !ok {
			continue
		}
		for i := start; i < start+b.DurationSlots && i < len(labels); i++ {
			occupied[i] = true
		}
	}

	feed := make([]model.SlotAvailability, len(labels))
	for i, l := range labels {
		feed[i] = model.SlotAvailability{Time: l, Available: !occupied[i]}
	}
	return feed, nil
}
